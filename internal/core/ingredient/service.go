// Package ingredient 組合前處理、欄位擷取、緩存與工作池的食材解析服務
package ingredient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ingredient-parser/internal/core/cache"
	"ingredient-parser/internal/core/ingredient/parser"
	"ingredient-parser/internal/core/ingredient/preprocess"
	"ingredient-parser/internal/core/ingredient/tagger"
	"ingredient-parser/internal/core/queue"
	"ingredient-parser/internal/infrastructure/config"
	"ingredient-parser/internal/infrastructure/metrics"
	"ingredient-parser/internal/pkg/common"

	"go.uber.org/zap"
)

// PreprocessResult 前處理結果
type PreprocessResult struct {
	Input    string                `json:"input"`
	Sentence string                `json:"sentence"`
	Tokens   []preprocess.Token    `json:"tokens"`
	Tagged   bool                  `json:"tagged"`
	Tags     []string              `json:"tags,omitempty"`
	Features []preprocess.Features `json:"features,omitempty"`
}

// pinger 可檢查連線的依賴
type pinger interface {
	Ping(ctx context.Context) error
}

// Service 食材解析服務
type Service struct {
	config  *config.Config
	memory  *cache.CacheManager
	shared  cache.Store
	queue   *queue.Manager
	metrics *metrics.Metrics
	tagger  tagger.Tagger
}

// NewService 創建食材解析服務
// shared 為 nil 時只使用記憶體緩存
func NewService(cfg *config.Config, memory *cache.CacheManager, shared cache.Store, q *queue.Manager, m *metrics.Metrics, t tagger.Tagger) *Service {
	return &Service{
		config:  cfg,
		memory:  memory,
		shared:  shared,
		queue:   q,
		metrics: m,
		tagger:  t,
	}
}

// Parse 解析單一食材句子，依序查詢記憶體緩存、共用緩存
// 緩存錯誤只記錄日誌，不影響解析
func (s *Service) Parse(ctx context.Context, sentence string) (parser.ParsedIngredient, error) {
	if err := ctx.Err(); err != nil {
		return parser.ParsedIngredient{}, err
	}

	if parsed, ok := s.lookup(ctx, sentence); ok {
		return parsed, nil
	}

	start := time.Now()
	parsed, outcome := parser.ParseIngredientOutcome(ctx, sentence, preprocess.WithTagger(s.tagger))
	duration := time.Since(start)

	s.metrics.ObserveParse(string(outcome), duration)
	common.LogParse(sentence, string(outcome), duration)

	s.store(ctx, sentence, parsed)
	return parsed, nil
}

// lookup 查詢緩存
func (s *Service) lookup(ctx context.Context, sentence string) (parser.ParsedIngredient, bool) {
	var parsed parser.ParsedIngredient

	if s.memory.Enabled() {
		data, err := s.memory.Get(ctx, sentence)
		if err == nil && common.ParseJSON(data, &parsed) == nil {
			s.metrics.CacheHit("memory")
			return parsed, true
		}
		s.metrics.CacheMiss("memory")
	}

	if s.shared == nil {
		return parsed, false
	}

	data, err := s.shared.Get(ctx, sentence)
	if err != nil {
		if !errors.Is(err, common.ErrCacheMiss) {
			common.LogWarn("共用快取查詢失敗", zap.Error(err))
		}
		s.metrics.CacheMiss("redis")
		return parsed, false
	}
	if err := common.ParseJSON(data, &parsed); err != nil {
		common.LogWarn("共用快取資料無法解析", zap.Error(err))
		s.metrics.CacheMiss("redis")
		return parsed, false
	}

	s.metrics.CacheHit("redis")
	// 回填記憶體緩存
	if err := s.memory.Set(ctx, sentence, data); err != nil {
		common.LogDebug("記憶體快取回填失敗", zap.Error(err))
	}
	return parsed, true
}

// store 寫入緩存
func (s *Service) store(ctx context.Context, sentence string, parsed parser.ParsedIngredient) {
	data, err := common.ToJSON(parsed)
	if err != nil {
		common.LogError("解析結果序列化失敗", zap.Error(err))
		return
	}

	if err := s.memory.Set(ctx, sentence, data); err != nil {
		common.LogDebug("記憶體快取寫入失敗", zap.Error(err))
	}
	if s.shared != nil {
		if err := s.shared.Set(ctx, sentence, data); err != nil {
			common.LogWarn("共用快取寫入失敗", zap.Error(err))
		}
	}
}

// ParseBatch 在工作池中平行解析多個句子，結果順序與輸入相同
// 工作池已滿或已關閉時改為直接解析
func (s *Service) ParseBatch(ctx context.Context, sentences []string) ([]parser.ParsedIngredient, error) {
	results := make([]parser.ParsedIngredient, len(sentences))
	pending := make(map[int]<-chan queue.Result, len(sentences))

	for i, sentence := range sentences {
		sentence := sentence
		ch, err := s.queue.Enqueue(ctx, func(ctx context.Context) (interface{}, error) {
			return s.Parse(ctx, sentence)
		})
		if err != nil {
			if !errors.Is(err, common.ErrQueueFull) && !errors.Is(err, common.ErrQueueClosed) {
				return nil, fmt.Errorf("failed to enqueue sentence %d: %w", i, err)
			}
			parsed, err := s.Parse(ctx, sentence)
			if err != nil {
				return nil, err
			}
			results[i] = parsed
			continue
		}
		pending[i] = ch
	}

	for i, ch := range pending {
		select {
		case res := <-ch:
			if res.Error != nil {
				return nil, fmt.Errorf("failed to parse sentence %d: %w", i, res.Error)
			}
			parsed, ok := res.Value.(parser.ParsedIngredient)
			if !ok {
				return nil, fmt.Errorf("unexpected result type %T for sentence %d", res.Value, i)
			}
			results[i] = parsed
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	common.LogDebug("批次解析完成", zap.Int("count", len(sentences)), zap.Int("queued", len(pending)))
	return results, nil
}

// DefaultDeferTagging 預設是否延後詞性標註
func (s *Service) DefaultDeferTagging() bool {
	return s.config.Parser.DeferTagging
}

// Preprocess 回傳正規化句子、詞元，未延後標註時一併回傳標記與特徵
func (s *Service) Preprocess(ctx context.Context, sentence string, deferTagging bool) (*PreprocessResult, error) {
	opts := []preprocess.Option{preprocess.WithTagger(s.tagger)}
	if deferTagging {
		opts = append(opts, preprocess.WithDeferTagging())
	}
	return NewPreprocessResult(preprocess.New(ctx, sentence, opts...))
}

// NewPreprocessResult 由前處理器建立結果，已標註時一併計算標記與特徵
func NewPreprocessResult(p *preprocess.PreProcessor) (*PreprocessResult, error) {
	result := &PreprocessResult{
		Input:    p.Input(),
		Sentence: p.Sentence(),
		Tokens:   p.Tokens(),
		Tagged:   p.Tagged(),
	}
	if !result.Tagged {
		return result, nil
	}

	tags, err := p.Tags()
	if err != nil {
		return nil, fmt.Errorf("failed to read tags: %w", err)
	}
	features, err := p.SentenceFeatures()
	if err != nil {
		return nil, fmt.Errorf("failed to build features: %w", err)
	}
	result.Tags = tags
	result.Features = features
	return result, nil
}

// Ready 檢查共用緩存是否可用
func (s *Service) Ready(ctx context.Context) error {
	if p, ok := s.shared.(pinger); ok {
		if err := p.Ping(ctx); err != nil {
			return common.ErrServiceUnavailable.WithErr(err)
		}
	}
	return nil
}

// Stats 緩存與工作池狀態
func (s *Service) Stats() map[string]interface{} {
	return map[string]interface{}{
		"cache":  s.memory.GetStats(),
		"queue":  s.queue.GetQueueStatus(),
		"shared": s.shared != nil,
	}
}
