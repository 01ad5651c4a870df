package health

import (
	"net/http"
	"runtime"
	"time"

	"ingredient-parser/internal/core/ingredient"
	"ingredient-parser/internal/infrastructure/config"
	"ingredient-parser/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status     string                 `json:"status"`
	Timestamp  time.Time              `json:"timestamp"`
	Version    string                 `json:"version"`
	TaggerMode string                 `json:"tagger_mode"`
	LogLevel   string                 `json:"log_level"`
	Runtime    map[string]interface{} `json:"runtime"`
	Service    map[string]interface{} `json:"service"`
}

// Handler 健康檢查處理程序
type Handler struct {
	config  *config.Config
	service *ingredient.Service
}

// NewHandler 創建健康檢查處理程序
func NewHandler(cfg *config.Config, service *ingredient.Service) *Handler {
	return &Handler{config: cfg, service: service}
}

// HealthCheck 健康檢查，附帶執行期與緩存、工作池狀態
func (h *Handler) HealthCheck(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:     "ok",
		Timestamp:  time.Now(),
		Version:    h.config.App.Version,
		TaggerMode: h.config.Tagger.Mode,
		LogLevel:   common.GetLogLevel(),
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
		Service: h.service.Stats(),
	}

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 就緒檢查，共用緩存無法連線時回傳 503
func (h *Handler) ReadinessCheck(c *gin.Context) {
	if err := h.service.Ready(c.Request.Context()); err != nil {
		common.LogWarn("服務尚未就緒", zap.Error(err))
		c.JSON(common.StatusOf(err), gin.H{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// LivenessCheck 存活檢查
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
