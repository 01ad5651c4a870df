package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ingredient-parser/internal/api"
	"ingredient-parser/internal/core/cache"
	"ingredient-parser/internal/core/ingredient"
	"ingredient-parser/internal/core/ingredient/tagger"
	"ingredient-parser/internal/core/queue"
	"ingredient-parser/internal/infrastructure/config"
	"ingredient-parser/internal/infrastructure/metrics"
	"ingredient-parser/internal/pkg/common"

	"go.uber.org/zap"
)

func main() {
	// 載入設定（含 .env）
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel, cfg.LogFile); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定", zap.Any("config", cfg.Summary()))

	// .env 修改 LOG_LEVEL 時即時生效
	if cfg.WatchLogLevel(func(level string) {
		common.SetLogLevel(level)
		common.LogInfo("日誌級別已更新", zap.String("level", level))
	}) {
		common.LogDebug("Watching config file for log level changes")
	}

	// 初始化詞性標註器
	posTagger, err := tagger.New(cfg.Tagger.Mode, cfg.Tagger.URL, cfg.Tagger.APIKey, cfg.Tagger.Timeout)
	if err != nil {
		common.LogFatal("Failed to initialize tagger", zap.Error(err))
	}

	// 初始化快取
	cacheManager := cache.NewManager(cfg.Cache)
	defer cacheManager.Close()

	var shared cache.Store
	if cfg.Redis.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		redisStore, err := cache.NewRedisStore(ctx, cfg.Redis)
		cancel()
		if err != nil {
			// 共用快取無法連線時只使用記憶體快取
			common.LogWarn("Redis unavailable, using memory cache only", zap.Error(err))
		} else {
			shared = redisStore
			defer redisStore.Close()
		}
	}

	// 啟動工作池
	queueManager := queue.NewManager(cfg.Queue)
	queueManager.Start()

	m := metrics.New(func() float64 {
		return float64(queueManager.GetQueueStatus().QueueLength)
	})

	svc := ingredient.NewService(cfg, cacheManager, shared, queueManager, m, posTagger)
	router := api.SetupRouter(cfg, svc, m)

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Int("port", cfg.Server.Port),
			zap.String("tagger", cfg.Tagger.Mode),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			common.LogFatal("Failed to start server", zap.Error(err))
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	// 設置關閉超時
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
	}

	// 等待批次工作完成
	queueManager.Close()

	common.LogInfo("Server exited")
}
