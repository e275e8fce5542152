package api

import (
	"strconv"
	"strings"

	"moneytrack/models"
	"moneytrack/store"

	"github.com/gin-gonic/gin"
)

// StatisticsHandler 统计处理器
type StatisticsHandler struct {
	store *store.Store
}

// NewStatisticsHandler 创建统计处理器
func NewStatisticsHandler(s *store.Store) *StatisticsHandler {
	return &StatisticsHandler{store: s}
}

// rangeFilter 从 start_time/end_time 查询参数构造日期筛选，
// 不传则统计全部时间，非法日期按未设置处理
func rangeFilter(c *gin.Context) *models.FilterCriteria {
	return buildFilter(c.Query("start_time"), c.Query("end_time"), "", "")
}

// GetSummary 获取收支汇总
// @Summary 获取收支汇总
// @Description 按时间范围统计收入总和、支出总和与结余。不传 start_time/end_time 则统计全部时间
// @Tags 统计
// @Produce json
// @Param start_time query string false "开始日期 (YYYY-MM-DD)，例如 2024-01-01"
// @Param end_time query string false "结束日期 (YYYY-MM-DD)，例如 2024-12-31"
// @Success 200 {object} Response{data=store.Summary} "获取成功"
// @Router /api/v1/statistics/summary [get]
func (h *StatisticsHandler) GetSummary(c *gin.Context) {
	Success(c, h.store.GetSummary(rangeFilter(c)))
}

// GetCategoryStats 获取分类统计
// @Summary 获取分类统计
// @Description 按类别统计时间范围内的金额、笔数和占比，按金额降序排列，适合绘制饼图。
// @Description type 传 income/expense 可只统计一个方向，默认统计支出；
// @Description categories 可传多个类别，用逗号分隔（如 food,transportation）
// @Tags 统计
// @Produce json
// @Param start_time query string false "开始日期 (YYYY-MM-DD)"
// @Param end_time query string false "结束日期 (YYYY-MM-DD)"
// @Param type query string false "收支类型 income/expense/all" default(expense)
// @Param categories query string false "类别筛选，逗号分隔"
// @Success 200 {object} Response "获取成功，返回总金额、总笔数和分类统计数组"
// @Router /api/v1/statistics/categories [get]
func (h *StatisticsHandler) GetCategoryStats(c *gin.Context) {
	filter := rangeFilter(c)
	filter.Type = c.DefaultQuery("type", models.TypeExpense)

	// 类别筛选（支持多个类别）
	var categories []string
	if raw := c.Query("categories"); raw != "" {
		for _, cat := range strings.Split(raw, ",") {
			if cat = strings.TrimSpace(cat); cat != "" {
				categories = append(categories, cat)
			}
		}
	}

	stats := h.store.CategoryStats(filter, categories)
	var totalAmount float64
	var totalCount int
	for _, stat := range stats {
		totalAmount += stat.Total
		totalCount += stat.Count
	}

	Success(c, gin.H{
		"total_amount":   totalAmount,
		"total_count":    totalCount,
		"category_stats": stats,
	})
}

// GetMonthlyTrend 获取逐月趋势
// @Summary 获取逐月趋势
// @Description 统计最近 N 个月（含当月）的逐月收入与支出，适合绘制折线图
// @Tags 统计
// @Produce json
// @Param months query int false "月数，1-24" default(6)
// @Success 200 {object} Response{data=[]store.MonthlyStat} "获取成功"
// @Router /api/v1/statistics/monthly [get]
func (h *StatisticsHandler) GetMonthlyTrend(c *gin.Context) {
	months, err := strconv.Atoi(c.DefaultQuery("months", "6"))
	if err != nil || months < 1 || months > 24 {
		BadRequest(c, "months参数错误，应为1-24的整数")
		return
	}
	Success(c, h.store.MonthlyTrend(months))
}

// GetForecast 获取支出预测
// @Summary 获取支出预测
// @Description 基于最近6个月支出的移动平均加线性趋势，预测未来 N 个月的支出。
// @Description 预测仅供参考，不构成任何财务建议
// @Tags 统计
// @Produce json
// @Param months query int false "预测月数，1-12" default(3)
// @Success 200 {object} Response{data=[]store.ForecastPoint} "获取成功"
// @Router /api/v1/statistics/forecast [get]
func (h *StatisticsHandler) GetForecast(c *gin.Context) {
	months, err := strconv.Atoi(c.DefaultQuery("months", "3"))
	if err != nil || months < 1 || months > 12 {
		BadRequest(c, "months参数错误，应为1-12的整数")
		return
	}
	Success(c, h.store.Forecast(6, months))
}
