// Package preprocess 將食材句子正規化並切分為詞元
package preprocess

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"ingredient-parser/internal/core/ingredient/tagger"
	"ingredient-parser/internal/pkg/common"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
)

// ErrNotTagged 延後標註且尚未呼叫 Tag 時，依賴詞性標註的操作回傳此錯誤
var ErrNotTagged = errors.New("part-of-speech tagging was deferred and has not run")

// Tagger 詞性標註器
// 回傳的標記序列必須與 tokens 等長
type Tagger interface {
	Tag(ctx context.Context, tokens []string) ([]string, error)
}

type options struct {
	deferTagging bool
	tagger       Tagger
}

// Option PreProcessor 選項
type Option func(*options)

// WithDeferTagging 建構時不執行詞性標註，需另行呼叫 Tag
func WithDeferTagging() Option {
	return func(o *options) {
		o.deferTagging = true
	}
}

// WithTagger 指定詞性標註器；傳入 nil 表示不標註（所有標記為空字串）
func WithTagger(t Tagger) Option {
	return func(o *options) {
		o.tagger = t
	}
}

// PreProcessor 單一食材句子的前處理結果
type PreProcessor struct {
	input        string
	sentence     string
	tokens       []Token
	singularised map[int]string
	tagger       Tagger

	mu     sync.Mutex
	tagged bool
	tags   []string
}

// New 依固定順序執行所有正規化步驟並切分詞元
// 未指定 WithDeferTagging 時會立即進行詞性標註
func New(ctx context.Context, sentence string, opts ...Option) *PreProcessor {
	o := options{tagger: tagger.NewRuleTagger()}
	for _, opt := range opts {
		opt(&o)
	}

	cleaned := norm.NFC.String(sentence)
	cleaned = NormalizeFractions(cleaned)
	cleaned = ExpandNumberWords(cleaned)
	cleaned = SplitQuantityAndUnits(cleaned)
	cleaned = ReplaceStringRanges(cleaned)
	cleaned, singularised := singulariseUnits(cleaned)

	p := &PreProcessor{
		input:        sentence,
		sentence:     cleaned,
		tokens:       Tokenize(cleaned),
		singularised: singularised,
		tagger:       o.tagger,
	}

	if !o.deferTagging {
		p.Tag(ctx)
	}
	return p
}

// Tag 執行詞性標註，重複呼叫不會重新標註
// 標註器錯誤不會中斷流程：記錄警告後所有標記設為空字串
func (p *PreProcessor) Tag(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tagged {
		return
	}
	p.tags = p.runTagger(ctx)
	p.tagged = true
}

func (p *PreProcessor) runTagger(ctx context.Context) []string {
	empty := make([]string, len(p.tokens))
	if p.tagger == nil || len(p.tokens) == 0 {
		return empty
	}

	tags, err := p.tagger.Tag(ctx, p.TokenTexts())
	if err != nil {
		common.LogWarn("詞性標註失敗，使用空標記",
			zap.String("sentence", p.sentence),
			zap.Error(err),
		)
		return empty
	}
	if len(tags) != len(p.tokens) {
		common.LogWarn("詞性標註數量不符，使用空標記",
			zap.String("sentence", p.sentence),
			zap.Int("tokens", len(p.tokens)),
			zap.Int("tags", len(tags)),
		)
		return empty
	}
	return tags
}

// Tagged 是否已完成詞性標註
func (p *PreProcessor) Tagged() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tagged
}

// Input 原始輸入句子
func (p *PreProcessor) Input() string {
	return p.input
}

// Sentence 正規化後的句子
func (p *PreProcessor) Sentence() string {
	return p.sentence
}

// Tokens 詞元序列（副本）
func (p *PreProcessor) Tokens() []Token {
	out := make([]Token, len(p.tokens))
	copy(out, p.tokens)
	return out
}

// TokenTexts 詞元文字序列
func (p *PreProcessor) TokenTexts() []string {
	return TokenTexts(p.tokens)
}

// Singularised 被單數化的詞元索引 → 原始寫法（副本）
func (p *PreProcessor) Singularised() map[int]string {
	out := make(map[int]string, len(p.singularised))
	for k, v := range p.singularised {
		out[k] = v
	}
	return out
}

// Tags 詞性標記，與詞元等長
func (p *PreProcessor) Tags() ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.tagged {
		return nil, common.NewStateError("Tags", ErrNotTagged)
	}
	out := make([]string, len(p.tags))
	copy(out, p.tags)
	return out, nil
}

// IsUnit 判斷詞元是否為單位
func (p *PreProcessor) IsUnit(token string) bool {
	return IsUnit(token)
}

// IsNumeric 判斷詞元是否為數字或數字範圍
func (p *PreProcessor) IsNumeric(token string) bool {
	return IsNumeric(token)
}

// IsCapitalised 判斷詞元是否首字母大寫
func (p *PreProcessor) IsCapitalised(token string) bool {
	return IsCapitalised(token)
}

// IsInsideParentheses 判斷第 i 個詞元是否位於括號內
func (p *PreProcessor) IsInsideParentheses(i int) bool {
	return IsInsideParentheses(p.tokens, i)
}

// FollowsComma 判斷第 i 個詞元之前是否有逗號
func (p *PreProcessor) FollowsComma(i int) bool {
	return FollowsComma(p.tokens, i)
}

func (p *PreProcessor) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Input: %s\n", p.input)
	fmt.Fprintf(&sb, "Cleaned: %s\n", p.sentence)
	fmt.Fprintf(&sb, "Tokenized: [%s]", strings.Join(quoteAll(p.TokenTexts()), ", "))
	return sb.String()
}

func quoteAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = fmt.Sprintf("%q", s)
	}
	return out
}
