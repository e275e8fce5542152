package store

import (
	"sort"
	"time"

	"moneytrack/models"
)

// Summary 一段时间内的收支汇总
type Summary struct {
	TotalIncome  float64 `json:"total_income"`
	TotalExpense float64 `json:"total_expense"`
	Balance      float64 `json:"balance"`
	TotalCount   int     `json:"total_count"`
}

// CategoryStat 按类别聚合的统计
type CategoryStat struct {
	Category   string  `json:"category"`
	Label      string  `json:"label"`
	Total      float64 `json:"total"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// MonthlyStat 按月聚合的收支统计
type MonthlyStat struct {
	Month   string  `json:"month"` // 2006-01
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

// ForecastPoint 支出预测点
type ForecastPoint struct {
	Month    string  `json:"month"` // 2006-01
	Forecast float64 `json:"forecast"`
}

// TotalAmount 筛选结果的金额合计
func (s *Store) TotalAmount(filter *models.FilterCriteria) float64 {
	var total float64
	for _, t := range s.ListTransactions(filter, nil) {
		total += t.Amount
	}
	return total
}

// GetSummary 统计时间范围内的收入总和、支出总和与结余
func (s *Store) GetSummary(filter *models.FilterCriteria) Summary {
	var sum Summary
	for _, t := range s.ListTransactions(filter, nil) {
		sum.TotalCount++
		if t.Type == models.TypeIncome {
			sum.TotalIncome += t.Amount
		} else {
			sum.TotalExpense += t.Amount
		}
	}
	sum.Balance = sum.TotalIncome - sum.TotalExpense
	return sum
}

// CategoryStats 按类别统计筛选结果，按金额降序排列并计算占比。
// categories 非空时只统计指定的类别
func (s *Store) CategoryStats(filter *models.FilterCriteria, categories []string) []CategoryStat {
	wanted := make(map[string]bool, len(categories))
	for _, c := range categories {
		wanted[c] = true
	}

	labels := make(map[string]string)
	s.mu.RLock()
	for _, c := range s.categories {
		labels[c.Value] = c.Label
	}
	s.mu.RUnlock()

	totals := make(map[string]*CategoryStat)
	var grand float64
	for _, t := range s.ListTransactions(filter, nil) {
		if len(wanted) > 0 && !wanted[t.Category] {
			continue
		}
		stat, ok := totals[t.Category]
		if !ok {
			label := labels[t.Category]
			if label == "" {
				// 类别已不在目录中时退回原始键展示
				label = t.Category
			}
			stat = &CategoryStat{Category: t.Category, Label: label}
			totals[t.Category] = stat
		}
		stat.Total += t.Amount
		stat.Count++
		grand += t.Amount
	}

	stats := make([]CategoryStat, 0, len(totals))
	for _, stat := range totals {
		if grand > 0 {
			stat.Percentage = stat.Total / grand * 100
		}
		stats = append(stats, *stat)
	}
	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].Total != stats[j].Total {
			return stats[i].Total > stats[j].Total
		}
		return stats[i].Category < stats[j].Category
	})
	return stats
}

// MonthlyTrend 最近 months 个月（含当月）的逐月收支统计
func (s *Store) MonthlyTrend(months int) []MonthlyStat {
	if months <= 0 {
		months = 6
	}
	now := s.clock()
	// 从当月1日往回推，避免月末日期在 AddDate 里跨月漂移
	base := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local)
	result := make([]MonthlyStat, 0, months)
	for i := months - 1; i >= 0; i-- {
		start, end := monthRange(base.AddDate(0, -i, 0))
		sum := s.GetSummary(&models.FilterCriteria{DateFrom: start, DateTo: end})
		result = append(result, MonthlyStat{
			Month:   start.Format("2006-01"),
			Income:  sum.TotalIncome,
			Expense: sum.TotalExpense,
		})
	}
	return result
}

// Forecast 用最近 history 个月的支出做移动平均加线性趋势的
// 朴素预测，给出未来 ahead 个月的预测值：
// forecast(i) = avg + trend*(i+1)，trend = (最后一月 - 第一月) / history
func (s *Store) Forecast(history, ahead int) []ForecastPoint {
	if history <= 0 {
		history = 6
	}
	if ahead <= 0 {
		ahead = 3
	}

	trend := s.MonthlyTrend(history)
	var sum float64
	for _, m := range trend {
		sum += m.Expense
	}
	avg := sum / float64(len(trend))
	slope := (trend[len(trend)-1].Expense - trend[0].Expense) / float64(len(trend))

	now := s.clock()
	base := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local)
	result := make([]ForecastPoint, 0, ahead)
	for i := 0; i < ahead; i++ {
		month := base.AddDate(0, i+1, 0)
		result = append(result, ForecastPoint{
			Month:    month.Format("2006-01"),
			Forecast: avg + slope*float64(i+1),
		})
	}
	return result
}

// clock 返回当前时间（测试中可替换）
func (s *Store) clock() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.now()
}

// monthRange 给定时间所在月份的首日和末日
func monthRange(t time.Time) (models.Date, models.Date) {
	first := models.NewDate(t.Year(), int(t.Month()), 1)
	last := models.Date{Time: first.AddDate(0, 1, -1)}
	return first, last
}
