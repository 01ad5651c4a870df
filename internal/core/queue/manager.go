// Package queue 提供有界的背景工作池
package queue

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"ingredient-parser/internal/infrastructure/config"
	"ingredient-parser/internal/pkg/common"

	"go.uber.org/zap"
)

// Job 在工作池中執行的工作
type Job func(ctx context.Context) (interface{}, error)

// Request 隊列請求
type Request struct {
	Context context.Context
	Job     Job
	Result  chan Result
}

// Result 處理結果
type Result struct {
	Value interface{}
	Error error
}

// Status 隊列狀態
type Status struct {
	QueueLength    int   `json:"queue_length"`
	ProcessedCount int64 `json:"processed_count"`
	FailedCount    int64 `json:"failed_count"`
	MaxQueueSize   int   `json:"max_queue_size"`
	Workers        int   `json:"workers"`
	Running        bool  `json:"running"`
}

// Manager 隊列管理器
type Manager struct {
	config    config.QueueConfig
	queue     chan *Request
	wg        sync.WaitGroup
	processed int64
	failed    int64

	mu      sync.RWMutex
	started bool
	closed  bool
}

// NewManager 創建新的隊列管理器，需呼叫 Start 啟動工作者
func NewManager(cfg config.QueueConfig) *Manager {
	return &Manager{
		config: cfg,
		queue:  make(chan *Request, cfg.MaxSize),
	}
}

// Start 啟動工作者，重複呼叫無效
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started || m.closed {
		return
	}
	m.started = true

	for i := 0; i < m.config.Workers; i++ {
		m.wg.Add(1)
		go m.worker(i)
	}

	common.LogInfo("工作池已啟動",
		zap.Int("workers", m.config.Workers),
		zap.Int("max_queue_size", m.config.MaxSize),
	)
}

// worker 處理隊列中的請求直到隊列關閉
func (m *Manager) worker(id int) {
	defer m.wg.Done()

	for req := range m.queue {
		start := time.Now()
		result := m.run(req)
		if result.Error != nil {
			atomic.AddInt64(&m.failed, 1)
			common.LogDebug("job failed",
				zap.Int("worker", id),
				zap.Error(result.Error),
			)
		}
		atomic.AddInt64(&m.processed, 1)
		req.Result <- result

		common.LogDebug("job processed",
			zap.Int("worker", id),
			zap.Duration("耗時", time.Since(start)),
		)
	}
}

// run 執行單一工作；請求已取消時不執行
func (m *Manager) run(req *Request) (result Result) {
	if err := req.Context.Err(); err != nil {
		return Result{Error: err}
	}

	defer func() {
		if r := recover(); r != nil {
			common.LogError("job panicked", zap.Any("panic", r))
			result = Result{Error: common.ErrInternalError}
		}
	}()

	value, err := req.Job(req.Context)
	return Result{Value: value, Error: err}
}

// Enqueue 將工作加入隊列，不會阻塞
// 隊列已滿回傳 ErrQueueFull，已關閉回傳 ErrQueueClosed
func (m *Manager) Enqueue(ctx context.Context, job Job) (<-chan Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, common.ErrQueueClosed
	}

	req := &Request{
		Context: ctx,
		Job:     job,
		Result:  make(chan Result, 1),
	}

	select {
	case m.queue <- req:
		return req.Result, nil
	default:
		common.LogWarn("Queue is full",
			zap.Int("queue_length", len(m.queue)),
			zap.Int("max_queue_size", m.config.MaxSize),
		)
		return nil, common.ErrQueueFull
	}
}

// GetQueueStatus 獲取隊列狀態
func (m *Manager) GetQueueStatus() *Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return &Status{
		QueueLength:    len(m.queue),
		ProcessedCount: atomic.LoadInt64(&m.processed),
		FailedCount:    atomic.LoadInt64(&m.failed),
		MaxQueueSize:   m.config.MaxSize,
		Workers:        m.config.Workers,
		Running:        m.started && !m.closed,
	}
}

// Close 停止接收新工作，等待已入隊的工作完成
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	close(m.queue)
	started := m.started
	m.mu.Unlock()

	if !started {
		// 沒有工作者時直接回覆尚未處理的請求
		for req := range m.queue {
			req.Result <- Result{Error: common.ErrQueueClosed}
		}
		return
	}

	m.wg.Wait()
	common.LogInfo("工作池已關閉",
		zap.Int64("processed", atomic.LoadInt64(&m.processed)),
	)
}
