// Package ingredient 食材解析 HTTP 處理程序
package ingredient

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"ingredient-parser/internal/api/middleware"
	ingredientService "ingredient-parser/internal/core/ingredient"
	"ingredient-parser/internal/core/ingredient/parser"
	"ingredient-parser/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ParseRequest 單句解析請求
type ParseRequest struct {
	Sentence string `json:"sentence"` // 食材句子
}

// ParseResponse 單句解析結果
type ParseResponse struct {
	RequestID string                  `json:"request_id"`
	Result    parser.ParsedIngredient `json:"result"`
}

// BatchRequest 批次解析請求
type BatchRequest struct {
	Sentences []string `json:"sentences"`
}

// BatchResponse 批次解析結果，順序與請求相同
type BatchResponse struct {
	RequestID string                    `json:"request_id"`
	Count     int                       `json:"count"`
	Results   []parser.ParsedIngredient `json:"results"`
}

// PreprocessRequest 前處理請求
type PreprocessRequest struct {
	Sentence string `json:"sentence"`
	// DeferTagging 未提供時使用服務預設值
	DeferTagging *bool `json:"defer_tagging,omitempty"`
}

// PreprocessResponse 前處理結果
type PreprocessResponse struct {
	RequestID string                              `json:"request_id"`
	Result    *ingredientService.PreprocessResult `json:"result"`
}

// Handler 食材解析處理程序
type Handler struct {
	service      *ingredientService.Service
	maxBatchSize int
}

// NewHandler 創建新的食材解析處理程序
func NewHandler(service *ingredientService.Service, maxBatchSize int) *Handler {
	return &Handler{
		service:      service,
		maxBatchSize: maxBatchSize,
	}
}

// requestID 取得請求 ID，沒有時自行產生
func requestID(c *gin.Context) string {
	id := requestid.Get(c)
	if id == "" {
		id = common.GenerateUUID()
		c.Header("X-Request-ID", id)
	}
	return id
}

// bindJSON 嚴格解析請求體
func bindJSON(c *gin.Context, v interface{}) error {
	if err := common.DecodeJSONStrict(c.Request.Body, v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return common.ErrRequestTooLarge.WithErr(err)
		}
		return common.ErrInvalidRequest.WithErr(err)
	}
	return nil
}

// serviceError 將服務錯誤轉為 API 錯誤
func serviceError(err error) error {
	var ce *common.CustomError
	switch {
	case errors.As(err, &ce):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return common.ErrGatewayTimeout.WithErr(err)
	case errors.Is(err, context.Canceled):
		return common.ErrRequestTimeout.WithErr(err)
	default:
		return common.ErrInternalError.WithErr(err)
	}
}

// HandleParse 解析單一食材句子
func (h *Handler) HandleParse(c *gin.Context) {
	id := requestID(c)

	var req ParseRequest
	if err := bindJSON(c, &req); err != nil {
		common.LogWarn("請求格式無效", zap.Error(err), zap.String("request_id", id))
		middleware.AbortWithError(c, err)
		return
	}
	if strings.TrimSpace(req.Sentence) == "" {
		middleware.AbortWithError(c, common.ErrEmptySentence)
		return
	}

	parsed, err := h.service.Parse(c.Request.Context(), req.Sentence)
	if err != nil {
		common.LogError("食材解析失敗", zap.Error(err), zap.String("request_id", id))
		middleware.AbortWithError(c, serviceError(err))
		return
	}

	c.JSON(http.StatusOK, ParseResponse{RequestID: id, Result: parsed})
}

// HandleParseBatch 批次解析食材句子
func (h *Handler) HandleParseBatch(c *gin.Context) {
	id := requestID(c)

	var req BatchRequest
	if err := bindJSON(c, &req); err != nil {
		common.LogWarn("請求格式無效", zap.Error(err), zap.String("request_id", id))
		middleware.AbortWithError(c, err)
		return
	}
	if len(req.Sentences) == 0 {
		middleware.AbortWithError(c, common.ErrEmptySentence)
		return
	}
	if len(req.Sentences) > h.maxBatchSize {
		common.LogWarn("批次數量超出限制",
			zap.Int("count", len(req.Sentences)),
			zap.Int("max", h.maxBatchSize),
			zap.String("request_id", id),
		)
		middleware.AbortWithError(c, common.ErrBatchTooLarge)
		return
	}
	for _, sentence := range req.Sentences {
		if strings.TrimSpace(sentence) == "" {
			middleware.AbortWithError(c, common.ErrEmptySentence)
			return
		}
	}

	results, err := h.service.ParseBatch(c.Request.Context(), req.Sentences)
	if err != nil {
		common.LogError("批次解析失敗", zap.Error(err), zap.String("request_id", id))
		middleware.AbortWithError(c, serviceError(err))
		return
	}

	common.LogInfo("批次解析完成",
		zap.Int("count", len(results)),
		zap.String("request_id", id),
	)
	c.JSON(http.StatusOK, BatchResponse{RequestID: id, Count: len(results), Results: results})
}

// HandlePreprocess 回傳正規化句子、詞元與特徵
func (h *Handler) HandlePreprocess(c *gin.Context) {
	id := requestID(c)

	var req PreprocessRequest
	if err := bindJSON(c, &req); err != nil {
		common.LogWarn("請求格式無效", zap.Error(err), zap.String("request_id", id))
		middleware.AbortWithError(c, err)
		return
	}
	if strings.TrimSpace(req.Sentence) == "" {
		middleware.AbortWithError(c, common.ErrEmptySentence)
		return
	}

	deferTagging := h.service.DefaultDeferTagging()
	if req.DeferTagging != nil {
		deferTagging = *req.DeferTagging
	}

	result, err := h.service.Preprocess(c.Request.Context(), req.Sentence, deferTagging)
	if err != nil {
		common.LogError("前處理失敗", zap.Error(err), zap.String("request_id", id))
		middleware.AbortWithError(c, serviceError(err))
		return
	}

	c.JSON(http.StatusOK, PreprocessResponse{RequestID: id, Result: result})
}
