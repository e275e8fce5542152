package api

import (
	"fmt"
	"strings"

	"moneytrack/models"
	"moneytrack/store"

	"github.com/gin-gonic/gin"
)

// TransactionHandler 交易记录处理器
type TransactionHandler struct {
	store *store.Store
}

// NewTransactionHandler 创建交易记录处理器
func NewTransactionHandler(s *store.Store) *TransactionHandler {
	return &TransactionHandler{store: s}
}

// BreakdownRequest 明细项
type BreakdownRequest struct {
	Description string  `json:"description" binding:"required" example:"门票"`
	Amount      float64 `json:"amount" binding:"required,gt=0" example:"25.00"`
}

// CreateTransactionRequest 创建交易记录请求
type CreateTransactionRequest struct {
	Type        string             `json:"type" binding:"required,oneof=income expense" example:"expense"`
	Amount      float64            `json:"amount" binding:"required,gt=0" example:"99.99"`
	Category    string             `json:"category" binding:"required" example:"food"`
	Description string             `json:"description" example:"午餐"`
	Date        string             `json:"date" binding:"required" example:"2024-03-15"`
	Breakdowns  []BreakdownRequest `json:"breakdowns"`
}

// UpdateTransactionRequest 更新交易记录请求，省略的字段不会被修改
type UpdateTransactionRequest struct {
	Type        *string             `json:"type" binding:"omitempty,oneof=income expense"`
	Amount      *float64            `json:"amount" binding:"omitempty,gt=0"`
	Category    *string             `json:"category"`
	Description *string             `json:"description"`
	Date        *string             `json:"date"`
	Breakdowns  *[]BreakdownRequest `json:"breakdowns"`
}

// TransactionListRequest 交易记录列表请求
type TransactionListRequest struct {
	Page          int    `form:"page" example:"1"`
	PageSize      int    `form:"page_size" example:"10"`
	Category      string `form:"category" example:"food"`
	Type          string `form:"type" example:"expense"`
	DateFrom      string `form:"date_from" example:"2024-01-01"`
	DateTo        string `form:"date_to" example:"2024-12-31"`
	SortField     string `form:"sort_field" example:"date"`
	SortDirection string `form:"sort_direction" example:"desc"`
}

// toBreakdowns 请求明细转为模型明细
func toBreakdowns(items []BreakdownRequest) []models.Breakdown {
	if items == nil {
		return nil
	}
	breakdowns := make([]models.Breakdown, 0, len(items))
	for _, b := range items {
		breakdowns = append(breakdowns, models.Breakdown{Description: b.Description, Amount: b.Amount})
	}
	return breakdowns
}

// writeStoreError 把 store 返回的错误转为对应的响应
func writeStoreError(c *gin.Context, err error, fallback string) {
	if store.IsValidation(err) {
		BadRequest(c, err.Error())
		return
	}
	InternalError(c, SafeErrorMessage(err, fallback))
}

// Create 创建交易记录
// @Summary 创建交易记录
// @Description 创建一条新的交易记录。带明细时，明细金额合计必须与总金额一致（容差0.01）
// @Tags 交易记录
// @Accept json
// @Produce json
// @Param request body CreateTransactionRequest true "交易记录信息"
// @Success 200 {object} Response{data=models.Transaction} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	date, err := models.ParseDate(req.Date)
	if err != nil {
		BadRequest(c, "日期格式错误，应为: 2006-01-02")
		return
	}

	created, err := h.store.AddTransaction(models.Transaction{
		Type:        req.Type,
		Amount:      req.Amount,
		Category:    strings.TrimSpace(req.Category),
		Description: req.Description,
		Date:        date,
		Breakdowns:  toBreakdowns(req.Breakdowns),
	})
	if err != nil {
		writeStoreError(c, err, "创建交易记录失败")
		return
	}

	SuccessWithMessage(c, "创建成功", created)
}

// List 获取交易记录列表
// @Summary 获取交易记录列表
// @Description 获取交易记录列表，支持分页、按类别/类型/日期范围筛选和排序。
// @Description category 和 type 传 all 或留空表示不限；排序字段可选 date、amount、category
// @Tags 交易记录
// @Accept json
// @Produce json
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Param category query string false "类别筛选"
// @Param type query string false "类型筛选 income/expense"
// @Param date_from query string false "起始日期 (2024-01-01)"
// @Param date_to query string false "结束日期 (2024-12-31)"
// @Param sort_field query string false "排序字段 date/amount/category" default(date)
// @Param sort_direction query string false "排序方向 asc/desc" default(desc)
// @Success 200 {object} Response{data=PageResponse{list=[]models.Transaction}} "获取成功"
// @Router /api/v1/transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	var req TransactionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	// 默认分页参数
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 10
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	filter := buildFilter(req.DateFrom, req.DateTo, req.Category, req.Type)

	// 默认按日期倒序
	sortBy := &models.SortCriteria{Field: models.SortFieldDate, Direction: models.SortDesc}
	if req.SortField != "" {
		sortBy.Field = req.SortField
	}
	if req.SortDirection != "" {
		sortBy.Direction = req.SortDirection
	}

	all := h.store.ListTransactions(filter, sortBy)

	// 内存分页
	total := len(all)
	start := (req.Page - 1) * req.PageSize
	if start > total {
		start = total
	}
	end := start + req.PageSize
	if end > total {
		end = total
	}

	Success(c, PageResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		List:     all[start:end],
	})
}

// buildFilter 从查询参数构造筛选条件，非法日期按未设置处理
func buildFilter(dateFrom, dateTo, category, txType string) *models.FilterCriteria {
	filter := &models.FilterCriteria{
		Category: category,
		Type:     txType,
	}
	if dateFrom != "" {
		if d, err := models.ParseDate(dateFrom); err == nil {
			filter.DateFrom = d
		}
	}
	if dateTo != "" {
		if d, err := models.ParseDate(dateTo); err == nil {
			filter.DateTo = d
		}
	}
	return filter
}

// Get 获取单条交易记录
// @Summary 获取单条交易记录
// @Description 根据ID获取交易记录详情
// @Tags 交易记录
// @Produce json
// @Param id path string true "交易记录ID"
// @Success 200 {object} Response{data=models.Transaction} "获取成功"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/transactions/{id} [get]
func (h *TransactionHandler) Get(c *gin.Context) {
	t, ok := h.store.GetTransaction(c.Param("id"))
	if !ok {
		NotFound(c, "记录不存在")
		return
	}
	Success(c, t)
}

// Update 更新交易记录
// @Summary 更新交易记录
// @Description 部分更新指定的交易记录，省略的字段保持不变。
// @Description ID 不存在时不报错，静默跳过
// @Tags 交易记录
// @Accept json
// @Produce json
// @Param id path string true "交易记录ID"
// @Param request body UpdateTransactionRequest true "要更新的字段"
// @Success 200 {object} Response{data=models.Transaction} "更新成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/transactions/{id} [put]
func (h *TransactionHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	patch := store.TransactionPatch{
		Type:        req.Type,
		Amount:      req.Amount,
		Description: req.Description,
	}
	if req.Category != nil {
		category := strings.TrimSpace(*req.Category)
		if category == "" {
			BadRequest(c, "类别不能为空")
			return
		}
		patch.Category = &category
	}
	if req.Date != nil {
		date, err := models.ParseDate(*req.Date)
		if err != nil {
			BadRequest(c, "日期格式错误，应为: 2006-01-02")
			return
		}
		patch.Date = &date
	}
	if req.Breakdowns != nil {
		breakdowns := toBreakdowns(*req.Breakdowns)
		patch.Breakdowns = &breakdowns
	}

	if err := h.store.UpdateTransaction(id, patch); err != nil {
		writeStoreError(c, err, "更新失败")
		return
	}

	// ID 不存在时 data 为空，调用方按约定不检查该情况
	if t, ok := h.store.GetTransaction(id); ok {
		SuccessWithMessage(c, "更新成功", t)
		return
	}
	SuccessWithMessage(c, "更新成功", nil)
}

// Delete 删除交易记录
// @Summary 删除交易记录
// @Description 删除指定的交易记录，ID 不存在时不报错
// @Tags 交易记录
// @Produce json
// @Param id path string true "交易记录ID"
// @Success 200 {object} Response "删除成功"
// @Router /api/v1/transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *gin.Context) {
	if err := h.store.DeleteTransaction(c.Param("id")); err != nil {
		InternalError(c, SafeErrorMessage(err, "删除失败"))
		return
	}
	SuccessWithMessage(c, "删除成功", nil)
}

// ValidateBreakdownsRequest 明细校验请求
type ValidateBreakdownsRequest struct {
	Amount     float64            `json:"amount" binding:"required,gt=0" example:"60.00"`
	Breakdowns []BreakdownRequest `json:"breakdowns" binding:"required,min=1"`
}

// ValidateBreakdownsResponse 明细校验结果
type ValidateBreakdownsResponse struct {
	Valid   bool    `json:"valid"`
	Deficit float64 `json:"deficit"` // 总金额 - 明细合计
	Message string  `json:"message,omitempty"`
}

// ValidateBreakdowns 校验明细合计
// @Summary 校验明细合计
// @Description 检查明细金额合计是否与总金额一致（容差0.01），返回差额供前端提示。
// @Description 差额为正表示明细合计比总金额少，为负表示比总金额多
// @Tags 交易记录
// @Accept json
// @Produce json
// @Param request body ValidateBreakdownsRequest true "待校验的金额和明细"
// @Success 200 {object} Response{data=ValidateBreakdownsResponse} "校验完成"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/transactions/validate-breakdowns [post]
func (h *TransactionHandler) ValidateBreakdowns(c *gin.Context) {
	var req ValidateBreakdownsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	deficit, ok := models.BreakdownDeficit(req.Amount, toBreakdowns(req.Breakdowns))
	resp := ValidateBreakdownsResponse{Valid: ok, Deficit: deficit}
	if !ok {
		if deficit > 0 {
			resp.Message = "明细合计比总金额少 " + formatAmount(deficit)
		} else {
			resp.Message = "明细合计比总金额多 " + formatAmount(-deficit)
		}
	}
	Success(c, resp)
}

// formatAmount 金额格式化为两位小数
func formatAmount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
