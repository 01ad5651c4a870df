package preprocess

import (
	"strings"

	"ingredient-parser/internal/core/ingredient/units"
)

// SingulariseUnits 將複數單位改為單數，保留原本的大小寫樣式
// 例如 "2.5 Boxes Candy" → "2.5 Box Candy"
func SingulariseUnits(sentence string) string {
	out, _ := singulariseUnits(sentence)
	return out
}

// singulariseUnits 同 SingulariseUnits，並回傳被改寫的詞元索引 → 原始寫法
// 改寫不會改變詞元數量，索引對回傳句子的 Tokenize 結果同樣有效
func singulariseUnits(sentence string) (string, map[int]string) {
	tokens := Tokenize(sentence)
	replaced := make(map[int]string)

	var sb strings.Builder
	sb.Grow(len(sentence))
	last := 0
	for _, tok := range tokens {
		singular, ok := units.Singular(tok.Text)
		if !ok {
			continue
		}
		sb.WriteString(sentence[last:tok.Start])
		sb.WriteString(singular)
		last = tok.End
		replaced[tok.Index] = tok.Text
	}
	if len(replaced) == 0 {
		return sentence, replaced
	}
	sb.WriteString(sentence[last:])
	return sb.String(), replaced
}
