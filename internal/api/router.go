// Package api 組裝 HTTP 路由與中間件
package api

import (
	"time"

	"ingredient-parser/internal/api/handlers/health"
	ingredientHandler "ingredient-parser/internal/api/handlers/ingredient"
	"ingredient-parser/internal/api/middleware"
	"ingredient-parser/internal/core/ingredient"
	"ingredient-parser/internal/infrastructure/config"
	"ingredient-parser/internal/infrastructure/metrics"
	"ingredient-parser/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, svc *ingredient.Service, m *metrics.Metrics) *gin.Engine {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.NoRoute(func(c *gin.Context) {
		middleware.AbortWithError(c, common.ErrNotFound)
	})
	router.NoMethod(func(c *gin.Context) {
		middleware.AbortWithError(c, common.ErrMethodNotAllowed)
	})

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(requestid.New()) // 自動生成請求 ID
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics(m))

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// 健康檢查與指標不受限流與逾時影響
	healthHandler := health.NewHandler(cfg, svc)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)
	router.GET("/metrics", gin.WrapH(m.Handler()))

	// API 路由組
	api := router.Group("/api/v1")
	api.Use(middleware.BodySizeLimit(cfg.Request.MaxBodyBytes))
	if cfg.RateLimit.Enabled {
		api.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	if cfg.DedupWindow > 0 {
		api.Use(middleware.Deduplication(cfg.DedupWindow))
	}
	api.Use(middleware.Timeout(cfg.Request.Timeout))

	h := ingredientHandler.NewHandler(svc, cfg.Request.MaxBatchSize)
	ingredientGroup := api.Group("/ingredient")
	{
		ingredientGroup.POST("/parse", h.HandleParse)
		ingredientGroup.POST("/parse/batch", h.HandleParseBatch)
		ingredientGroup.POST("/preprocess", h.HandlePreprocess)
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
		zap.Duration("dedup_window", cfg.DedupWindow),
		zap.Duration("timeout", cfg.Request.Timeout),
		zap.Int64("max_body_size", cfg.Request.MaxBodyBytes),
	)

	return router
}
