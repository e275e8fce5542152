package service

import (
	"fmt"
	"strings"

	"moneytrack/config"
	"moneytrack/models"
	"moneytrack/store"

	"gopkg.in/gomail.v2"
)

// EmailService 邮件服务
type EmailService struct {
	cfg *config.EmailConfig
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// MonthlyReport 月度报告数据
type MonthlyReport struct {
	Month         string
	Summary       store.Summary
	CategoryStats []store.CategoryStat
	Currency      string
	BaseURL       string // 非空时邮件底部附查看明细的链接
}

// SendMonthlyReport 发送月度收支报告邮件
func (s *EmailService) SendMonthlyReport(toEmail, name string, report *MonthlyReport) error {
	if !s.cfg.Enabled {
		return fmt.Errorf("邮件服务未启用，请配置 EMAIL_ENABLED=true")
	}

	subject := fmt.Sprintf("【MoneyTrack】%s 月度收支报告", report.Month)
	body := s.generateMonthlyReportBody(name, report)

	return s.sendEmail(toEmail, subject, body)
}

// generateMonthlyReportBody 生成月度报告邮件内容
func (s *EmailService) generateMonthlyReportBody(name string, report *MonthlyReport) string {
	var rows strings.Builder
	for _, stat := range report.CategoryStats {
		rows.WriteString(fmt.Sprintf(`
            <tr>
                <td style="padding: 10px 15px; border-bottom: 1px solid #eee;">%s</td>
                <td style="padding: 10px 15px; border-bottom: 1px solid #eee; text-align: right;">%.2f %s</td>
                <td style="padding: 10px 15px; border-bottom: 1px solid #eee; text-align: right;">%d 笔</td>
                <td style="padding: 10px 15px; border-bottom: 1px solid #eee; text-align: right;">%.1f%%</td>
            </tr>`, stat.Label, stat.Total, report.Currency, stat.Count, stat.Percentage))
	}
	if len(report.CategoryStats) == 0 {
		rows.WriteString(`
            <tr>
                <td colspan="4" style="padding: 20px; text-align: center; color: #999;">本月暂无支出记录</td>
            </tr>`)
	}

	balanceColor := "#10b981"
	if report.Summary.Balance < 0 {
		balanceColor = "#ef4444"
	}

	link := ""
	if report.BaseURL != "" {
		link = fmt.Sprintf(`
            <p style="text-align: center;">
                <a href="%s" class="btn">查看完整明细</a>
            </p>`, report.BaseURL)
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: 'Microsoft YaHei', Arial, sans-serif; background: #f5f5f5; margin: 0; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background: #fff; border-radius: 12px; overflow: hidden; box-shadow: 0 4px 20px rgba(0,0,0,0.1); }
        .header { background: linear-gradient(135deg, #2563eb, #1d4ed8); color: white; padding: 30px; text-align: center; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { padding: 40px 30px; }
        .content p { color: #333; line-height: 1.8; margin: 0 0 20px; }
        .summary { display: table; width: 100%%; margin: 20px 0; }
        .summary-item { display: table-cell; width: 33%%; text-align: center; padding: 15px 0; background: #f8f9fa; }
        .summary-item .label { color: #6c757d; font-size: 13px; }
        .summary-item .value { font-size: 20px; font-weight: bold; margin-top: 5px; }
        table { width: 100%%; border-collapse: collapse; font-size: 14px; }
        th { padding: 10px 15px; background: #f8f9fa; text-align: left; color: #6c757d; }
        .btn { display: inline-block; background: linear-gradient(135deg, #2563eb, #1d4ed8); color: white !important; text-decoration: none; padding: 14px 40px; border-radius: 8px; font-weight: 600; margin: 20px 0; }
        .btn:hover { opacity: 0.9; }
        .footer { background: #f8f9fa; padding: 20px 30px; text-align: center; color: #6c757d; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>💰 MoneyTrack</h1>
        </div>
        <div class="content">
            <p>尊敬的 <strong>%s</strong>，您好！</p>
            <p>以下是您 <strong>%s</strong> 的收支报告：</p>
            <div class="summary">
                <div class="summary-item">
                    <div class="label">收入</div>
                    <div class="value" style="color: #10b981;">%.2f %s</div>
                </div>
                <div class="summary-item">
                    <div class="label">支出</div>
                    <div class="value" style="color: #ef4444;">%.2f %s</div>
                </div>
                <div class="summary-item">
                    <div class="label">结余</div>
                    <div class="value" style="color: %s;">%.2f %s</div>
                </div>
            </div>
            <table>
                <tr>
                    <th>类别</th>
                    <th style="text-align: right;">金额</th>
                    <th style="text-align: right;">笔数</th>
                    <th style="text-align: right;">占比</th>
                </tr>%s
            </table>%s
        </div>
        <div class="footer">
            <p>此邮件由系统自动发送，请勿回复</p>
            <p>© MoneyTrack - 您的个人财务管理助手</p>
        </div>
    </div>
</body>
</html>
`, name, report.Month,
		report.Summary.TotalIncome, report.Currency,
		report.Summary.TotalExpense, report.Currency,
		balanceColor, report.Summary.Balance, report.Currency,
		rows.String(), link)
}

// SendTestEmail 发送测试邮件
func (s *EmailService) SendTestEmail(toEmail string) error {
	if !s.cfg.Enabled {
		return fmt.Errorf("邮件服务未启用")
	}

	subject := "【MoneyTrack】邮件配置测试"
	body := `
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; padding: 20px;">
    <h2>✅ 邮件配置成功</h2>
    <p>如果您收到这封邮件，说明邮件服务配置正确。</p>
    <p style="color: #666;">—— MoneyTrack</p>
</body>
</html>
`
	return s.sendEmail(toEmail, subject, body)
}

// sendEmail 发送邮件
func (s *EmailService) sendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.Username, s.cfg.From))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("发送邮件失败: %w", err)
	}

	return nil
}

// BuildMonthlyReport 从存储汇总出指定月份的报告数据
func BuildMonthlyReport(s *store.Store, month string, from, to models.Date, currency string) *MonthlyReport {
	filter := &models.FilterCriteria{DateFrom: from, DateTo: to}
	return &MonthlyReport{
		Month:         month,
		Summary:       s.GetSummary(filter),
		CategoryStats: s.CategoryStats(&models.FilterCriteria{DateFrom: from, DateTo: to, Type: models.TypeExpense}, nil),
		Currency:      currency,
	}
}
