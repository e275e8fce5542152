package api

import (
	"moneytrack/store"

	"github.com/gin-gonic/gin"
)

// SettingsHandler 用户资料与应用设置处理器
type SettingsHandler struct {
	store *store.Store
}

// NewSettingsHandler 创建设置处理器
func NewSettingsHandler(s *store.Store) *SettingsHandler {
	return &SettingsHandler{store: s}
}

// UpdateProfileRequest 更新用户资料请求，省略的字段不会被修改
type UpdateProfileRequest struct {
	Username *string `json:"username" binding:"omitempty,min=1,max=50"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Name     *string `json:"name" binding:"omitempty,max=50"`
	Avatar   *string `json:"avatar"`
}

// UpdateSettingsRequest 更新应用设置请求，省略的字段不会被修改
type UpdateSettingsRequest struct {
	Currency      *string `json:"currency" binding:"omitempty,min=1,max=8"`
	Notifications *bool   `json:"notifications"`
	WeekStart     *string `json:"weekStart" binding:"omitempty,oneof=monday sunday"`
}

// GetProfile 获取用户资料
// @Summary 获取用户资料
// @Tags 设置
// @Produce json
// @Success 200 {object} Response{data=models.UserProfile} "获取成功"
// @Router /api/v1/settings/profile [get]
func (h *SettingsHandler) GetProfile(c *gin.Context) {
	Success(c, h.store.Profile())
}

// UpdateProfile 更新用户资料
// @Summary 更新用户资料
// @Tags 设置
// @Accept json
// @Produce json
// @Param request body UpdateProfileRequest true "要更新的字段"
// @Success 200 {object} Response{data=models.UserProfile} "更新成功"
// @Failure 400 {object} Response "参数错误"
// @Router /api/v1/settings/profile [put]
func (h *SettingsHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	profile, err := h.store.UpdateProfile(store.ProfilePatch{
		Username: req.Username,
		Email:    req.Email,
		Name:     req.Name,
		Avatar:   req.Avatar,
	})
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "保存用户资料失败"))
		return
	}
	SuccessWithMessage(c, "更新成功", profile)
}

// GetAppSettings 获取应用设置
// @Summary 获取应用设置
// @Tags 设置
// @Produce json
// @Success 200 {object} Response{data=models.AppSettings} "获取成功"
// @Router /api/v1/settings/app [get]
func (h *SettingsHandler) GetAppSettings(c *gin.Context) {
	Success(c, h.store.Settings())
}

// UpdateAppSettings 更新应用设置
// @Summary 更新应用设置
// @Description 更新货币、通知开关和周起始日，省略的字段保持不变
// @Tags 设置
// @Accept json
// @Produce json
// @Param request body UpdateSettingsRequest true "要更新的字段"
// @Success 200 {object} Response{data=models.AppSettings} "更新成功"
// @Failure 400 {object} Response "参数错误"
// @Router /api/v1/settings/app [put]
func (h *SettingsHandler) UpdateAppSettings(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	settings, err := h.store.UpdateSettings(store.SettingsPatch{
		Currency:      req.Currency,
		Notifications: req.Notifications,
		WeekStart:     req.WeekStart,
	})
	if err != nil {
		writeStoreError(c, err, "保存应用设置失败")
		return
	}
	SuccessWithMessage(c, "更新成功", settings)
}
