// Package tagger 提供食材詞元的詞性標註器
package tagger

import (
	"context"
	"regexp"
	"strings"
	"unicode"

	"ingredient-parser/internal/core/ingredient/units"
)

var (
	// numberPattern 數字或數字範圍，例如 "2"、"0.5"、"8-10"
	numberPattern = regexp.MustCompile(`^(?:\d+(?:\.\d+)?|\.\d+)(?:-(?:\d+(?:\.\d+)?|\.\d+))*$`)
	// numberPrefixPattern 以數字範圍開頭的複合詞，例如 "6-7-ounce"
	numberPrefixPattern = regexp.MustCompile(`^\d+(?:\.\d+)?-`)
)

// punctTags 標點 → 標記
var punctTags = map[string]string{
	",": ",",
	":": ":",
	";": ":",
	"(": "(",
	")": ")",
	"[": "(",
	"]": ")",
	"{": "(",
	"}": ")",
	".": ".",
	"!": ".",
	"?": ".",
	"-": ":",
	"&": "CC",
}

// closedClass 封閉詞類
var closedClass = map[string]string{
	"of":       "IN",
	"for":      "IN",
	"in":       "IN",
	"into":     "IN",
	"with":     "IN",
	"without":  "IN",
	"from":     "IN",
	"at":       "IN",
	"on":       "IN",
	"per":      "IN",
	"about":    "IN",
	"plus":     "IN",
	"to":       "TO",
	"a":        "DT",
	"an":       "DT",
	"the":      "DT",
	"each":     "DT",
	"some":     "DT",
	"any":      "DT",
	"and":      "CC",
	"or":       "CC",
	"but":      "CC",
	"nor":      "CC",
	"finely":   "RB",
	"roughly":  "RB",
	"freshly":  "RB",
	"thinly":   "RB",
	"coarsely": "RB",
	"lightly":  "RB",
	"very":     "RB",
	"not":      "RB",
	"optional": "JJ",
	"fresh":    "JJ",
	"ground":   "VBD",
	"if":       "IN",
	"as":       "IN",
	"needed":   "VBN",
}

// adjectives 常見尺寸／狀態形容詞
var adjectives = map[string]bool{
	"small":  true,
	"medium": true,
	"large":  true,
	"big":    true,
	"extra":  true,
	"whole":  true,
	"hot":    true,
	"cold":   true,
	"warm":   true,
	"red":    true,
	"green":  true,
	"yellow": true,
	"white":  true,
	"black":  true,
	"plain":  true,
	"ripe":   true,
}

// RuleTagger 規則式詞性標註器，輸出 Penn Treebank 風格的標記
// 不依賴外部服務，結果只取決於輸入詞元
type RuleTagger struct{}

// NewRuleTagger 創建規則式標註器
func NewRuleTagger() *RuleTagger {
	return &RuleTagger{}
}

// Tag 為每個詞元產生一個標記
func (t *RuleTagger) Tag(ctx context.Context, tokens []string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tags := make([]string, len(tokens))
	for i, token := range tokens {
		tags[i] = tagToken(token)
	}
	return tags, nil
}

func tagToken(token string) string {
	if tag, ok := punctTags[token]; ok {
		return tag
	}
	if numberPattern.MatchString(token) || numberPrefixPattern.MatchString(token) {
		return "CD"
	}

	lower := strings.ToLower(token)
	if tag, ok := closedClass[lower]; ok {
		return tag
	}
	if adjectives[lower] {
		return "JJ"
	}
	if _, ok := units.Singular(lower); ok {
		return "NNS"
	}
	if units.IsUnit(token) {
		return "NN"
	}

	switch {
	case !hasLetter(lower):
		return "SYM"
	case strings.HasSuffix(lower, "ly") && len(lower) > 4:
		return "RB"
	case strings.HasSuffix(lower, "ed") && len(lower) > 3:
		return "VBN"
	case strings.HasSuffix(lower, "ing") && len(lower) > 4:
		return "VBG"
	case isPlural(lower):
		return "NNS"
	}
	if isProperNoun(token) {
		return "NNP"
	}
	return "NN"
}

// isProperNoun 首字母大寫且其餘字母小寫的詞元視為專有名詞
func isProperNoun(token string) bool {
	for i, r := range token {
		if i == 0 {
			if !unicode.IsUpper(r) {
				return false
			}
			continue
		}
		if unicode.IsUpper(r) {
			return false
		}
	}
	return token != ""
}

func isPlural(lower string) bool {
	if len(lower) < 4 || !strings.HasSuffix(lower, "s") {
		return false
	}
	// "-ss"、"-us"、"-is" 結尾多為單數，例如 glass、asparagus
	for _, suffix := range []string{"ss", "us", "is"} {
		if strings.HasSuffix(lower, suffix) {
			return false
		}
	}
	return true
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
