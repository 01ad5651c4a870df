package preprocess

import (
	"fmt"
	"strings"

	"ingredient-parser/internal/pkg/common"
)

// Features 單一詞元的特徵
type Features map[string]any

// TokenFeatures 回傳第 i 個詞元的特徵，需先完成詞性標註
func (p *PreProcessor) TokenFeatures(i int) (Features, error) {
	tags, err := p.Tags()
	if err != nil {
		return nil, common.NewStateError("TokenFeatures", ErrNotTagged)
	}
	if i < 0 || i >= len(p.tokens) {
		return nil, common.NewValidationError(fmt.Sprintf("token index %d out of range [0, %d)", i, len(p.tokens)))
	}
	return p.features(tags, i), nil
}

// SentenceFeatures 回傳所有詞元的特徵，需先完成詞性標註
func (p *PreProcessor) SentenceFeatures() ([]Features, error) {
	tags, err := p.Tags()
	if err != nil {
		return nil, common.NewStateError("SentenceFeatures", ErrNotTagged)
	}
	out := make([]Features, len(p.tokens))
	for i := range p.tokens {
		out[i] = p.features(tags, i)
	}
	return out, nil
}

func (p *PreProcessor) features(tags []string, i int) Features {
	last := len(p.tokens) - 1
	token := p.tokens[i].Text

	f := Features{
		"word":           strings.ToLower(token),
		"pos":            tags[i],
		"prev_pos+pos":   tags[i],
		"pos+next_pos":   tags[i],
		"prev_word":      "",
		"prev_word2":     "",
		"next_word":      "",
		"next_word2":     "",
		"is_capitalised": IsCapitalised(token),
		"is_numeric":     IsNumeric(token),
		"is_unit":        IsUnit(token),
		"is_in_parens":   IsInsideParentheses(p.tokens, i),
		"follows_comma":  FollowsComma(p.tokens, i),
	}
	if i > 0 {
		f["prev_pos+pos"] = tags[i-1] + "+" + tags[i]
		f["prev_word"] = p.tokens[i-1].Text
	}
	if i > 1 {
		f["prev_word2"] = p.tokens[i-2].Text
	}
	if i < last {
		f["pos+next_pos"] = tags[i] + "+" + tags[i+1]
		f["next_word"] = p.tokens[i+1].Text
	}
	if i < last-1 {
		f["next_word2"] = p.tokens[i+2].Text
	}
	return f
}
