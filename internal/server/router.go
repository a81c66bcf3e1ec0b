package server

import (
	"hdwallet-core/internal/handler"
	"hdwallet-core/internal/handler/response"
	"hdwallet-core/internal/service"

	"hdwallet-core/pkg/monitor"
	"hdwallet-core/pkg/validator"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewHTTPRouter 初始化并返回一个 Gin Engine
func NewHTTPRouter(svc service.DerivationService) *gin.Engine {
	// 0. 初始化监控指标
	monitor.Init()
	validator.Init()

	// 1. 创建 Engine (使用默认中间件: Logger, Recovery)
	r := gin.Default()

	// 2. 注册通用中间件
	r.Use(monitor.PrometheusMiddleware())

	// 3. 注册基础路由
	r.GET("/health", handler.HealthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 4. 注册 API 路由组
	dump := handler.NewDumpHandler(svc)
	api := r.Group("/api/v1")
	{
		api.GET("/ping", func(c *gin.Context) {
			response.Success(c, gin.H{"pong": true})
		})
		api.POST("/dump", dump.Dump)
	}

	return r
}
