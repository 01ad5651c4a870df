package preprocess

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"ingredient-parser/internal/core/ingredient/units"
)

var (
	// quantityUnitPattern 數字後緊接字母，例如 "100g"、"2.5cups"
	quantityUnitPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)(\p{L}+)`)

	// stringRangePattern "1 to 2"、"9 or 10"、"6- or 7-ounce"
	stringRangePattern = regexp.MustCompile(`(\d*\.?\d+)\s*-?\s+(?:to|or)\s+(\d*\.?\d+)`)
)

// SplitQuantityAndUnits 在數量與緊接其後的單位之間插入空白
// 先以最長的單位同義詞比對（"8fl oz" → "8 fl oz"），再回退為整段字母序列的單位查詢
// "2.5\"" 這類符號不受影響
func SplitQuantityAndUnits(sentence string) string {
	matches := quantityUnitPattern.FindAllStringSubmatchIndex(sentence, -1)
	if len(matches) == 0 {
		return sentence
	}

	var sb strings.Builder
	last := 0
	for _, m := range matches {
		numStart, numEnd := m[2], m[3]
		unitStart, unitEnd := m[4], m[5]

		// 數字前面不能是字母、數字或小數點（例如 "A4paper"、"1.25g" 的 "25g"）
		if numStart > 0 {
			prev, _ := utf8.DecodeLastRuneInString(sentence[:numStart])
			if unicode.IsLetter(prev) || unicode.IsDigit(prev) || prev == '.' {
				continue
			}
		}
		if syn, ok := units.LongestMatch(sentence[unitStart:]); ok && endsWord(sentence, unitStart+len(syn)) {
			unitEnd = unitStart + len(syn)
		} else if !units.IsUnit(sentence[unitStart:unitEnd]) {
			continue
		}

		sb.WriteString(sentence[last:numEnd])
		sb.WriteByte(' ')
		sb.WriteString(sentence[unitStart:unitEnd])
		last = unitEnd
	}
	sb.WriteString(sentence[last:])
	return sb.String()
}

// ReplaceStringRanges 將文字範圍改寫為標準範圍，例如 "1 to 2" → "1-2"
// 兩側皆須含非零數字，避免 "Type 00 or 1 flour" 被誤判
func ReplaceStringRanges(sentence string) string {
	return stringRangePattern.ReplaceAllStringFunc(sentence, func(match string) string {
		m := stringRangePattern.FindStringSubmatch(match)
		if !hasNonZeroDigit(m[1]) || !hasNonZeroDigit(m[2]) {
			return match
		}
		return m[1] + "-" + m[2]
	})
}

// endsWord i 為句尾或其後不是字母
func endsWord(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !unicode.IsLetter(r)
}

func hasNonZeroDigit(s string) bool {
	return strings.ContainsAny(s, "123456789")
}
