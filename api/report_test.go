package api

import (
	"testing"

	"moneytrack/config"
	"moneytrack/service"
	"moneytrack/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupReportRouter(s *store.Store) *gin.Engine {
	h := NewReportHandler(s, service.NewEmailService(&config.EmailConfig{}))
	router := gin.New()
	router.POST("/reports/email", h.SendMonthlyReport)
	return router
}

func TestReportHandler_SendMonthlyReport(t *testing.T) {
	s := setupTestStore(t)
	router := setupReportRouter(s)

	// 邮件服务未启用时返回 500
	w := doJSON(router, "POST", "/reports/email?month=2024-06", "")
	assert.Equal(t, 500, w.Code)
	assert.Contains(t, w.Body.String(), "未启用")

	// 月份格式错误
	w = doJSON(router, "POST", "/reports/email?month=June", "")
	assert.Equal(t, 400, w.Code)

	// 关闭通知后拒绝发送
	off := false
	_, err := s.UpdateSettings(store.SettingsPatch{Notifications: &off})
	require.NoError(t, err)
	w = doJSON(router, "POST", "/reports/email?month=2024-06", "")
	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "已关闭通知")
}
