package api

import (
	"time"

	"moneytrack/config"
	"moneytrack/models"
	"moneytrack/service"
	"moneytrack/store"

	"github.com/gin-gonic/gin"
)

// ReportHandler 报告处理器
type ReportHandler struct {
	store *store.Store
	email *service.EmailService
}

// NewReportHandler 创建报告处理器
func NewReportHandler(s *store.Store, email *service.EmailService) *ReportHandler {
	return &ReportHandler{store: s, email: email}
}

// SendMonthlyReport 发送月度报告邮件
// @Summary 发送月度报告邮件
// @Description 汇总指定月份的收支情况并发送到用户邮箱。month 格式为 YYYY-MM，默认当月。
// @Description 用户在应用设置里关闭通知后该接口拒绝发送
// @Tags 报告
// @Accept json
// @Produce json
// @Param month query string false "月份 (2024-01)，默认当月"
// @Success 200 {object} Response "发送成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 500 {object} Response "发送失败"
// @Router /api/v1/reports/email [post]
func (h *ReportHandler) SendMonthlyReport(c *gin.Context) {
	settings := h.store.Settings()
	if !settings.Notifications {
		BadRequest(c, "已关闭通知，无法发送报告邮件")
		return
	}

	profile := h.store.Profile()
	if profile.Email == "" {
		BadRequest(c, "请先在个人资料中设置邮箱")
		return
	}

	month := c.Query("month")
	var base time.Time
	if month == "" {
		now := time.Now()
		base = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local)
		month = base.Format("2006-01")
	} else {
		parsed, err := time.ParseInLocation("2006-01", month, time.Local)
		if err != nil {
			BadRequest(c, "月份格式错误，应为: 2006-01")
			return
		}
		base = parsed
	}

	from := models.NewDate(base.Year(), int(base.Month()), 1)
	to := models.NewDate(base.Year(), int(base.Month()), base.AddDate(0, 1, -1).Day())

	report := service.BuildMonthlyReport(h.store, month, from, to, settings.Currency)
	if config.GlobalConfig != nil {
		report.BaseURL = config.GlobalConfig.Server.BaseURL
	}
	if err := h.email.SendMonthlyReport(profile.Email, profile.Name, report); err != nil {
		InternalError(c, SafeErrorMessage(err, "发送报告邮件失败"))
		return
	}

	SuccessWithMessage(c, "报告邮件已发送", gin.H{
		"month": month,
		"email": profile.Email,
	})
}
