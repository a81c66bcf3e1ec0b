package main

import (
	"hdwallet-core/internal/server"
	"hdwallet-core/internal/service"

	"hdwallet-core/pkg/config"
	"hdwallet-core/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// 0. 初始化 Config
	config.Init()

	// 1. 初始化 Logger
	logger.Init(config.Global.App.Env)
	defer logger.Sync()

	if config.Global.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	logger.Info("配置加载完成",
		zap.String("env", config.Global.App.Env),
		zap.String("family", config.Global.HD.Family),
		zap.Int("max_range", config.Global.HD.MaxRange),
		zap.Int("workers", config.Global.HD.Workers))

	// 2. 派生服务
	hdService := service.NewHDService(config.Global.HD)

	// 3. HTTP Router
	r := server.NewHTTPRouter(hdService)

	// 4. 启动应用 (阻塞)
	app := server.New(server.Config{HttpPort: config.Global.App.HttpPort}, r)
	app.Run()

	logger.Info("系统已退出")
}
