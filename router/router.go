package router

import (
	"io/fs"
	"net/http"
	"time"

	"moneytrack/api"
	"moneytrack/config"
	_ "moneytrack/docs"
	"moneytrack/middleware"
	"moneytrack/service"
	"moneytrack/store"
	"moneytrack/web"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, st *store.Store) *gin.Engine {
	// 设置运行模式
	gin.SetMode(cfg.Server.Mode)

	r := gin.Default()

	// CORS 中间件
	r.Use(CORSMiddleware())

	// 嵌入的静态文件 - 记账页面
	staticFS, _ := fs.Sub(web.StaticFS, ".")
	r.GET("/", func(c *gin.Context) {
		content, err := fs.ReadFile(staticFS, "index.html")
		if err != nil {
			c.String(http.StatusInternalServerError, "加载页面失败")
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", content)
	})

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	emailService := service.NewEmailService(&cfg.Email)

	// API v1 路由组
	v1 := r.Group("/api/v1")
	v1.Use(middleware.RateLimit(300, time.Minute))
	{
		// 交易记录相关
		transactionHandler := api.NewTransactionHandler(st)
		transactions := v1.Group("/transactions")
		{
			transactions.POST("", transactionHandler.Create)
			transactions.GET("", transactionHandler.List)
			transactions.POST("/validate-breakdowns", transactionHandler.ValidateBreakdowns)
			transactions.GET("/:id", transactionHandler.Get)
			transactions.PUT("/:id", transactionHandler.Update)
			transactions.DELETE("/:id", transactionHandler.Delete)
		}

		// 类别相关
		categoryHandler := api.NewCategoryHandler(st)
		categories := v1.Group("/categories")
		{
			categories.GET("", categoryHandler.List)
			categories.POST("", categoryHandler.Create)
			categories.PUT("/:value", categoryHandler.Update)
			categories.DELETE("/:value", categoryHandler.Delete)
		}

		// 设置相关
		settingsHandler := api.NewSettingsHandler(st)
		settings := v1.Group("/settings")
		{
			settings.GET("/profile", settingsHandler.GetProfile)
			settings.PUT("/profile", settingsHandler.UpdateProfile)
			settings.GET("/app", settingsHandler.GetAppSettings)
			settings.PUT("/app", settingsHandler.UpdateAppSettings)
		}

		// 统计相关
		statisticsHandler := api.NewStatisticsHandler(st)
		statistics := v1.Group("/statistics")
		{
			statistics.GET("/summary", statisticsHandler.GetSummary)
			statistics.GET("/categories", statisticsHandler.GetCategoryStats)
			statistics.GET("/monthly", statisticsHandler.GetMonthlyTrend)
			statistics.GET("/forecast", statisticsHandler.GetForecast)
		}

		// 导出相关
		exportHandler := api.NewExportHandler(st)
		export := v1.Group("/export")
		{
			export.GET("/csv", exportHandler.ExportCSV)
			export.GET("/json", exportHandler.ExportJSON)
			export.GET("/excel", exportHandler.ExportExcel)
		}

		// 报告相关
		reportHandler := api.NewReportHandler(st, emailService)
		v1.POST("/reports/email", reportHandler.SendMonthlyReport)
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	return r
}

// CORSMiddleware CORS 跨域中间件
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
