// Package parser 以正規表示式從前處理後的句子擷取數量、單位、名稱與說明
package parser

import (
	"context"
	"regexp"
	"strings"

	"ingredient-parser/internal/core/ingredient/preprocess"
	"ingredient-parser/internal/core/ingredient/units"
	"ingredient-parser/internal/pkg/common"

	"go.uber.org/zap"
)

// quantityExpr 可選的 "N x " 倍數前綴、整數、可選的小數與範圍
const quantityExpr = `(?:\d+\s*x\s)?\d+(?:\.\d+)?(?:-\d+(?:\.\d+)?)?`

// ingredientPattern 完整的食材句子文法
var ingredientPattern = regexp.MustCompile(
	`(?s)^\s*(?P<quantity>` + quantityExpr + `)\s*(?:(?P<unit>(?i:` + unitAlternation() + `))\s)?(?P<name>.*)$`,
)

var (
	quantityGroup = ingredientPattern.SubexpIndex("quantity")
	unitGroup     = ingredientPattern.SubexpIndex("unit")
	nameGroup     = ingredientPattern.SubexpIndex("name")
)

// unitAlternation 依長度由長到短排列的單位同義詞，Go regexp 以先出現者優先
// 比對時不分大小寫，與 units.IsUnit 的回退行為一致
func unitAlternation() string {
	synonyms := units.Synonyms()
	quoted := make([]string, len(synonyms))
	for i, syn := range synonyms {
		quoted[i] = regexp.QuoteMeta(syn)
	}
	return strings.Join(quoted, "|")
}

// ParseIngredient 前處理並解析單一食材句子
func ParseIngredient(ctx context.Context, sentence string, opts ...preprocess.Option) ParsedIngredient {
	parsed, _ := ParseIngredientOutcome(ctx, sentence, opts...)
	return parsed
}

// ParseIngredientOutcome 同 ParseIngredient，並回傳解析結果類型
func ParseIngredientOutcome(ctx context.Context, sentence string, opts ...preprocess.Option) (ParsedIngredient, Outcome) {
	// 擷取欄位不需要詞性標記
	opts = append(opts, preprocess.WithDeferTagging())
	return ExtractOutcome(preprocess.New(ctx, sentence, opts...))
}

// Extract 從前處理結果擷取欄位
func Extract(p *preprocess.PreProcessor) ParsedIngredient {
	parsed, _ := ExtractOutcome(p)
	return parsed
}

// ExtractOutcome 同 Extract，並回傳解析結果類型
// 文法不匹配時整個正規化句子作為名稱
func ExtractOutcome(p *preprocess.PreProcessor) (ParsedIngredient, Outcome) {
	sentence := p.Sentence()
	parsed := ParsedIngredient{Sentence: p.Input()}

	m := ingredientPattern.FindStringSubmatchIndex(sentence)
	if m == nil {
		common.LogDebug("ingredient grammar mismatch, using sentence as name",
			zap.String("sentence", sentence),
		)
		parsed.Name = strings.TrimSpace(sentence)
		return parsed, OutcomeDegraded
	}

	parsed.Quantity = strings.TrimSpace(sentence[m[2*quantityGroup]:m[2*quantityGroup+1]])
	if start, end := m[2*unitGroup], m[2*unitGroup+1]; start >= 0 {
		parsed.Unit = strings.TrimSpace(restoreUnit(p, start, end))
	}

	name := sentence[m[2*nameGroup]:m[2*nameGroup+1]]
	if before, after, found := strings.Cut(name, ","); found {
		parsed.Name = strings.TrimSpace(before)
		parsed.Comment = strings.TrimSpace(after)
	} else {
		parsed.Name = strings.TrimSpace(name)
	}
	return parsed, OutcomeMatched
}

// restoreUnit 取出句子中 [start, end) 的單位文字，並將被單數化的詞元還原為輸入時的寫法
func restoreUnit(p *preprocess.PreProcessor, start, end int) string {
	sentence := p.Sentence()
	singularised := p.Singularised()
	if len(singularised) == 0 {
		return sentence[start:end]
	}

	var sb strings.Builder
	last := start
	for _, tok := range p.Tokens() {
		if tok.Start < start || tok.End > end {
			continue
		}
		original, ok := singularised[tok.Index]
		if !ok {
			continue
		}
		sb.WriteString(sentence[last:tok.Start])
		sb.WriteString(original)
		last = tok.End
	}
	sb.WriteString(sentence[last:end])
	return sb.String()
}
