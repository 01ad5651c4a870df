package middleware

import (
	"bytes"
	"io"
	"net/http"
	"sync"
	"time"

	"ingredient-parser/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// deduplicator 記錄最近請求指紋
type deduplicator struct {
	mu        sync.Mutex
	window    time.Duration
	requests  map[string]time.Time
	lastSweep time.Time
}

// sweep 清除超過 10 倍視窗的指紋，呼叫者需持有鎖
func (d *deduplicator) sweep(now time.Time) {
	if now.Sub(d.lastSweep) < 10*d.window {
		return
	}
	for k, t := range d.requests {
		if now.Sub(t) > 10*d.window {
			delete(d.requests, k)
		}
	}
	d.lastSweep = now
}

// seen 記錄指紋，視窗內重複時回傳 true
func (d *deduplicator) seen(fingerprint string, now time.Time) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.sweep(now)
	if last, ok := d.requests[fingerprint]; ok && now.Sub(last) <= d.window {
		return true
	}
	d.requests[fingerprint] = now
	return false
}

// Deduplication 請求去重中間件
// window 內相同路徑與相同請求體的 POST 請求回傳 429
func Deduplication(window time.Duration) gin.HandlerFunc {
	d := &deduplicator{
		window:    window,
		requests:  make(map[string]time.Time),
		lastSweep: time.Now(),
	}

	return func(c *gin.Context) {
		// 只處理 POST 請求
		if c.Request.Method != http.MethodPost || c.Request.Body == nil {
			c.Next()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			common.LogWarn("Failed to read request body", zap.Error(err))
			AbortWithError(c, common.ErrRequestTooLarge.WithErr(err))
			return
		}
		// 恢復請求體
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		fingerprint := c.Request.Method + ":" + c.Request.URL.Path + ":" + common.HashString(string(body))
		if d.seen(fingerprint, time.Now()) {
			common.LogDebug("重複請求已拒絕", zap.String("path", c.Request.URL.Path))
			AbortWithError(c, common.ErrTooManyRequests)
			return
		}

		c.Next()
	}
}
