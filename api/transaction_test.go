package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"moneytrack/storage"
	"moneytrack/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestStore 建一个内存存储的 Store，类别目录为内置目录
func setupTestStore(t *testing.T) *store.Store {
	t.Helper()
	gin.SetMode(gin.TestMode)
	s := store.New(storage.NewMemory())
	require.NoError(t, s.Load())
	return s
}

func setupTransactionRouter(s *store.Store) *gin.Engine {
	h := NewTransactionHandler(s)
	router := gin.New()
	router.POST("/transactions", h.Create)
	router.GET("/transactions", h.List)
	router.POST("/transactions/validate-breakdowns", h.ValidateBreakdowns)
	router.GET("/transactions/:id", h.Get)
	router.PUT("/transactions/:id", h.Update)
	router.DELETE("/transactions/:id", h.Delete)
	return router
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestTransactionHandler_Create(t *testing.T) {
	router := setupTransactionRouter(setupTestStore(t))

	body := `{"type":"expense","amount":25.50,"category":"food","description":"午餐","date":"2024-06-01"}`
	w := doJSON(router, "POST", "/transactions", body)

	assert.Equal(t, 200, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "创建成功", resp["message"])
	data := resp["data"].(map[string]interface{})
	assert.NotEmpty(t, data["id"])
	assert.Equal(t, "2024-06-01", data["date"])
	assert.NotEmpty(t, data["createdAt"])
}

func TestTransactionHandler_Create_Invalid(t *testing.T) {
	router := setupTransactionRouter(setupTestStore(t))

	// 缺少必填字段
	w := doJSON(router, "POST", "/transactions", `{"amount":10}`)
	assert.Equal(t, 400, w.Code)

	// 类型非法
	w = doJSON(router, "POST", "/transactions", `{"type":"transfer","amount":10,"category":"food","date":"2024-06-01"}`)
	assert.Equal(t, 400, w.Code)

	// 日期格式错误
	w = doJSON(router, "POST", "/transactions", `{"type":"expense","amount":10,"category":"food","date":"06/01/2024"}`)
	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "日期格式错误")

	// 未知类别
	w = doJSON(router, "POST", "/transactions", `{"type":"expense","amount":10,"category":"no-such","date":"2024-06-01"}`)
	assert.Equal(t, 400, w.Code)

	// 明细合计与总金额不一致
	body := `{"type":"expense","amount":60,"category":"food","date":"2024-06-01",
		"breakdowns":[{"description":"a","amount":25},{"description":"b","amount":15},{"description":"c","amount":15}]}`
	w = doJSON(router, "POST", "/transactions", body)
	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "明细合计")
}

func TestTransactionHandler_List(t *testing.T) {
	s := setupTestStore(t)
	router := setupTransactionRouter(s)

	for _, body := range []string{
		`{"type":"expense","amount":25.50,"category":"food","date":"2024-06-01"}`,
		`{"type":"expense","amount":35.00,"category":"food","date":"2024-06-03"}`,
		`{"type":"expense","amount":80.00,"category":"transportation","date":"2024-06-02"}`,
		`{"type":"income","amount":3000,"category":"salary","date":"2024-06-01"}`,
	} {
		require.Equal(t, 200, doJSON(router, "POST", "/transactions", body).Code)
	}

	// 默认按日期倒序分页
	w := doJSON(router, "GET", "/transactions?page=1&page_size=2", "")
	assert.Equal(t, 200, w.Code)
	resp := decodeResponse(t, w)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(4), data["total"])
	list := data["list"].([]interface{})
	require.Len(t, list, 2)
	first := list[0].(map[string]interface{})
	assert.Equal(t, "2024-06-03", first["date"])

	// 类别筛选
	w = doJSON(router, "GET", "/transactions?category=food", "")
	resp = decodeResponse(t, w)
	data = resp["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["total"])

	// 日期范围加金额排序
	w = doJSON(router, "GET", "/transactions?date_from=2024-06-01&date_to=2024-06-02&sort_field=amount&sort_direction=asc", "")
	resp = decodeResponse(t, w)
	data = resp["data"].(map[string]interface{})
	list = data["list"].([]interface{})
	require.Len(t, list, 3)
	assert.Equal(t, 25.50, list[0].(map[string]interface{})["amount"])

	// 非法日期参数按未设置处理，不报错
	w = doJSON(router, "GET", "/transactions?date_from=bad-date", "")
	assert.Equal(t, 200, w.Code)
	resp = decodeResponse(t, w)
	data = resp["data"].(map[string]interface{})
	assert.Equal(t, float64(4), data["total"])
}

func TestTransactionHandler_GetUpdateDelete(t *testing.T) {
	s := setupTestStore(t)
	router := setupTransactionRouter(s)

	w := doJSON(router, "POST", "/transactions", `{"type":"expense","amount":25.50,"category":"food","date":"2024-06-01"}`)
	require.Equal(t, 200, w.Code)
	created := decodeResponse(t, w)["data"].(map[string]interface{})
	id := created["id"].(string)

	// 查询
	w = doJSON(router, "GET", "/transactions/"+id, "")
	assert.Equal(t, 200, w.Code)

	w = doJSON(router, "GET", "/transactions/missing", "")
	assert.Equal(t, 404, w.Code)
	assert.Contains(t, w.Body.String(), "记录不存在")

	// 部分更新
	w = doJSON(router, "PUT", "/transactions/"+id, `{"amount":30,"description":"晚餐"}`)
	assert.Equal(t, 200, w.Code)
	updated := decodeResponse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, 30.0, updated["amount"])
	assert.Equal(t, "food", updated["category"])

	// ID 不存在的更新静默成功，data 为空
	w = doJSON(router, "PUT", "/transactions/missing", `{"amount":30}`)
	assert.Equal(t, 200, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "更新成功", resp["message"])
	assert.Nil(t, resp["data"])

	// 删除，重复删除同样成功
	w = doJSON(router, "DELETE", "/transactions/"+id, "")
	assert.Equal(t, 200, w.Code)
	w = doJSON(router, "DELETE", "/transactions/"+id, "")
	assert.Equal(t, 200, w.Code)
	w = doJSON(router, "GET", "/transactions/"+id, "")
	assert.Equal(t, 404, w.Code)
}

func TestTransactionHandler_ValidateBreakdowns(t *testing.T) {
	router := setupTransactionRouter(setupTestStore(t))

	// 合计一致
	body := `{"amount":60,"breakdowns":[{"description":"a","amount":25},{"description":"b","amount":15},{"description":"c","amount":20}]}`
	w := doJSON(router, "POST", "/transactions/validate-breakdowns", body)
	assert.Equal(t, 200, w.Code)
	data := decodeResponse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, true, data["valid"])

	// 明细合计少 5 元
	body = `{"amount":60,"breakdowns":[{"description":"a","amount":25},{"description":"b","amount":15},{"description":"c","amount":15}]}`
	w = doJSON(router, "POST", "/transactions/validate-breakdowns", body)
	assert.Equal(t, 200, w.Code)
	data = decodeResponse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, false, data["valid"])
	assert.Equal(t, 5.0, data["deficit"])
	assert.Contains(t, data["message"], "少 5.00")

	// 缺少明细
	w = doJSON(router, "POST", "/transactions/validate-breakdowns", `{"amount":60}`)
	assert.Equal(t, 400, w.Code)
}
