package preprocess

import (
	"unicode"
	"unicode/utf8"
)

// Token 句子中的單一詞元
// Start、End 為在產生它的句子中的位元組位移
type Token struct {
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Index int    `json:"index"`
}

// isolatedPunct 永遠獨立成詞元的標點
func isolatedPunct(r rune) bool {
	switch r {
	case '(', ')', '[', ']', '{', '}', ',', ':', ';':
		return true
	}
	return false
}

// Tokenize 以空白切分句子，並將括號、逗號、冒號、分號獨立為詞元
// 其他標點保留在詞元內，例如 `1"`、`105°F`
func Tokenize(sentence string) []Token {
	tokens := make([]Token, 0, len(sentence)/4+1)

	start := -1
	emit := func(end int) {
		if start >= 0 && end > start {
			tokens = append(tokens, Token{
				Text:  sentence[start:end],
				Start: start,
				End:   end,
				Index: len(tokens),
			})
		}
		start = -1
	}

	for i := 0; i < len(sentence); {
		r, size := utf8.DecodeRuneInString(sentence[i:])
		switch {
		case unicode.IsSpace(r):
			emit(i)
		case isolatedPunct(r):
			emit(i)
			start = i
			emit(i + size)
		default:
			if start < 0 {
				start = i
			}
		}
		i += size
	}
	emit(len(sentence))

	return tokens
}

// TokenTexts 取出詞元文字
func TokenTexts(tokens []Token) []string {
	texts := make([]string, len(tokens))
	for i, tok := range tokens {
		texts[i] = tok.Text
	}
	return texts
}
