package api

import (
	"strings"

	"moneytrack/models"
	"moneytrack/store"

	"github.com/gin-gonic/gin"
)

// CategoryHandler 交易类别管理
type CategoryHandler struct {
	store *store.Store
}

// NewCategoryHandler 创建类别处理器
func NewCategoryHandler(s *store.Store) *CategoryHandler {
	return &CategoryHandler{store: s}
}

// CategoryRequest 类别信息，创建和更新共用
type CategoryRequest struct {
	Value string `json:"value" binding:"required,min=1,max=50" example:"groceries"`
	Label string `json:"label" binding:"required,min=1,max=50" example:"Groceries"`
	Type  string `json:"type" binding:"required,oneof=income expense both" example:"expense"`
	Color string `json:"color" binding:"omitempty,max=20" example:"#ef4444"` // 颜色代码
}

// toCategory 请求转为模型类别，用户选择的颜色先做柔和化处理再入库
func (req CategoryRequest) toCategory() (models.Category, error) {
	cat := models.Category{
		Value: strings.TrimSpace(req.Value),
		Label: strings.TrimSpace(req.Label),
		Type:  req.Type,
	}
	if req.Color != "" {
		color, err := models.PastelColor(req.Color, models.DefaultPastelRatio)
		if err != nil {
			return models.Category{}, err
		}
		cat.Color = color
	}
	return cat, nil
}

// List 获取类别列表
// @Summary 获取类别列表
// @Description 获取全部交易类别，附带每个类别当前被引用的记录数（实时计算）
// @Description 和根据背景色推导的文字颜色。type 传 income/expense 时只返回兼容的类别
// @Tags 类别管理
// @Produce json
// @Param type query string false "按收支类型过滤 income/expense"
// @Success 200 {object} Response{data=[]models.CategoryInfo} "获取成功"
// @Router /api/v1/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	Success(c, h.store.ListCategories(c.Query("type")))
}

// Create 创建类别
// @Summary 创建类别
// @Description 创建新的交易类别，键重复时拒绝。提交的颜色会与白色按 0.7 比例混合后保存
// @Tags 类别管理
// @Accept json
// @Produce json
// @Param request body CategoryRequest true "类别信息"
// @Success 200 {object} Response{data=models.Category} "创建成功"
// @Failure 400 {object} Response "参数错误或类别已存在"
// @Router /api/v1/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	cat, err := req.toCategory()
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	if err := h.store.AddCategory(cat); err != nil {
		writeStoreError(c, err, "创建类别失败")
		return
	}
	SuccessWithMessage(c, "创建成功", cat)
}

// Update 更新类别
// @Summary 更新类别
// @Description 更新指定键的类别并级联到引用它的记录：记录的类别改写为新键；
// @Description 新类别的收支类型不是 both 时，受影响记录的类型一并改为新类型。
// @Description 原键不存在时不报错，静默跳过
// @Tags 类别管理
// @Accept json
// @Produce json
// @Param value path string true "原类别键"
// @Param request body CategoryRequest true "新的类别信息"
// @Success 200 {object} Response{data=models.Category} "更新成功"
// @Failure 400 {object} Response "参数错误或新键已存在"
// @Router /api/v1/categories/{value} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	oldValue := c.Param("value")

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	cat, err := req.toCategory()
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	if err := h.store.UpdateCategory(oldValue, cat); err != nil {
		writeStoreError(c, err, "更新类别失败")
		return
	}
	SuccessWithMessage(c, "更新成功", cat)
}

// Delete 删除类别
// @Summary 删除类别
// @Description 删除指定键的类别，引用它的记录统一归入 other-expense 且类型改为 expense。
// @Description 键不存在时不报错
// @Tags 类别管理
// @Produce json
// @Param value path string true "类别键"
// @Success 200 {object} Response "删除成功"
// @Router /api/v1/categories/{value} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.store.DeleteCategory(c.Param("value")); err != nil {
		InternalError(c, SafeErrorMessage(err, "删除类别失败"))
		return
	}
	SuccessWithMessage(c, "删除成功", nil)
}
