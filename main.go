package main

import (
	"flag"
	"log"
	"strings"

	"moneytrack/config"
	"moneytrack/database"
	"moneytrack/router"
	"moneytrack/storage"
	"moneytrack/store"
)

// @title MoneyTrack API
// @version 1.0
// @description 个人记账系统 API，支持收支记录管理、类别管理、统计分析和数据导出功能
// @host localhost:8080
// @BasePath /

var (
	configFile  string
	port        string
	showVersion bool
)

func init() {
	flag.StringVar(&configFile, "config", "", "外部配置文件路径（可选）")
	flag.StringVar(&configFile, "c", "", "外部配置文件路径（简写）")
	flag.StringVar(&port, "port", "", "监听端口，如: 8080 或 :8080")
	flag.StringVar(&port, "p", "", "监听端口（简写）")
	flag.BoolVar(&showVersion, "version", false, "显示版本信息")
	flag.BoolVar(&showVersion, "v", false, "显示版本信息（简写）")
}

func main() {
	flag.Parse()

	if showVersion {
		log.Println("MoneyTrack v1.0.0")
		return
	}

	// 加载配置（内置配置 + 可选的外部配置覆盖）
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 命令行参数覆盖端口配置
	if port != "" {
		// 自动添加冒号前缀
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Server.Port = port
		log.Printf("命令行指定端口: %s", port)
	}

	// 打印配置信息
	config.PrintConfig()

	// 初始化存储
	var backend storage.Storage
	switch cfg.Storage.Driver {
	case "mysql":
		db, err := database.Init(cfg)
		if err != nil {
			log.Fatalf("数据库初始化失败: %v", err)
		}
		backend = storage.NewDatabase(db)
	default:
		backend = storage.NewMemory()
	}

	st := store.New(backend)
	if err := st.Load(); err != nil {
		log.Fatalf("加载数据失败: %v", err)
	}

	// 设置路由
	r := router.SetupRouter(cfg, st)

	// 启动服务器
	log.Printf("==========================================")
	log.Printf("  💰 MoneyTrack 已启动")
	log.Printf("==========================================")
	log.Printf("  记账页面: http://localhost%s/", cfg.Server.Port)
	log.Printf("  Swagger:  http://localhost%s/swagger/index.html", cfg.Server.Port)
	log.Printf("  API接口:  http://localhost%s/api/v1/", cfg.Server.Port)
	log.Printf("==========================================")

	if err := r.Run(cfg.Server.Port); err != nil {
		log.Fatalf("服务器启动失败: %v", err)
	}
}
