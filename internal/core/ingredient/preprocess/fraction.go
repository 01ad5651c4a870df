package preprocess

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"ingredient-parser/internal/pkg/common"

	"go.uber.org/zap"
)

// htmlFractionReplacer HTML 分數實體 → unicode 分數字元
var htmlFractionReplacer = strings.NewReplacer(
	"&frac12;", "½",
	"&frac13;", "⅓",
	"&frac23;", "⅔",
	"&frac14;", "¼",
	"&frac34;", "¾",
	"&frac15;", "⅕",
	"&frac25;", "⅖",
	"&frac35;", "⅗",
	"&frac45;", "⅘",
	"&frac16;", "⅙",
	"&frac56;", "⅚",
	"&frac18;", "⅛",
	"&frac38;", "⅜",
	"&frac58;", "⅝",
	"&frac78;", "⅞",
)

// unicodeFractionReplacer unicode 分數字元 → 前置空白的 ASCII 分數
// 一律插入前置空白，因此 "3 ⅕" 會變成 "3  1/5"
var unicodeFractionReplacer = strings.NewReplacer(
	"⅛", " 1/8",
	"⅜", " 3/8",
	"⅝", " 5/8",
	"⅞", " 7/8",
	"⅙", " 1/6",
	"⅚", " 5/6",
	"⅕", " 1/5",
	"⅖", " 2/5",
	"⅗", " 3/5",
	"⅘", " 4/5",
	"¼", " 1/4",
	"¾", " 3/4",
	"⅓", " 1/3",
	"⅔", " 2/3",
	"½", " 1/2",
)

// fakeFractionPattern 匹配 "a/b" 或 "n a/b"
var fakeFractionPattern = regexp.MustCompile(`(\d+)[ \t]+(\d+)/(\d+)|(\d+)/(\d+)`)

// splitByAndPattern 匹配 "1 and 1/2" 這類以 and 連接的帶分數
var splitByAndPattern = regexp.MustCompile(`\b(\d+)\s+and\s+(\d+)/(\d+)\b`)

// NormalizeFractions 依序執行 HTML、unicode 與 ASCII 分數的正規化
func NormalizeFractions(sentence string) string {
	sentence = ReplaceHTMLFractions(sentence)
	sentence = ReplaceUnicodeFractions(sentence)
	sentence = CombineQuantitiesSplitByAnd(sentence)
	return ReplaceFakeFractions(sentence)
}

// CombineQuantitiesSplitByAnd 將 "1 and 1/2" 合併為 "1.5"
func CombineQuantitiesSplitByAnd(sentence string) string {
	return splitByAndPattern.ReplaceAllStringFunc(sentence, func(match string) string {
		m := splitByAndPattern.FindStringSubmatch(match)
		value, ok := fractionValue(m[1], m[2], m[3])
		if !ok {
			common.LogDebug("malformed fraction left untouched", zap.String("match", match))
			return match
		}
		return formatDecimal(value)
	})
}

// ReplaceHTMLFractions 將 &frac12; 等 HTML 實體替換為 unicode 分數字元
func ReplaceHTMLFractions(sentence string) string {
	return htmlFractionReplacer.Replace(sentence)
}

// ReplaceUnicodeFractions 將 unicode 分數字元替換為 ASCII 分數
func ReplaceUnicodeFractions(sentence string) string {
	return unicodeFractionReplacer.Replace(sentence)
}

// ReplaceFakeFractions 將 "1/2"、"3 1/3" 之類的 ASCII 分數轉為小數（四捨五入到小數點後三位）
// 分母為零或屬於 "1/2/2020" 這類多段斜線的寫法維持原樣
func ReplaceFakeFractions(sentence string) string {
	matches := fakeFractionPattern.FindAllStringSubmatchIndex(sentence, -1)
	if len(matches) == 0 {
		return sentence
	}

	var sb strings.Builder
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		var whole, num, den string
		if m[2] >= 0 {
			whole = sentence[m[2]:m[3]]
			num = sentence[m[4]:m[5]]
			den = sentence[m[6]:m[7]]
		} else {
			num = sentence[m[8]:m[9]]
			den = sentence[m[10]:m[11]]
		}

		if !isFractionBoundary(sentence, start, end) {
			// 整數部分前面不是邊界時，只嘗試單獨轉換分數部分
			if whole != "" && isFractionBoundary(sentence, m[4], end) {
				start = m[4]
				whole = ""
			} else {
				common.LogDebug("fraction left untouched", zap.String("match", sentence[start:end]))
				continue
			}
		}

		value, ok := fractionValue(whole, num, den)
		if !ok {
			common.LogDebug("malformed fraction left untouched", zap.String("match", sentence[start:end]))
			continue
		}

		sb.WriteString(sentence[last:start])
		sb.WriteString(formatDecimal(value))
		last = end
	}
	sb.WriteString(sentence[last:])
	return sb.String()
}

// isFractionBoundary 檢查 [start, end) 兩側不是數字、小數點或斜線，且前面不緊接字母
func isFractionBoundary(s string, start, end int) bool {
	if start > 0 {
		switch prev, _ := utf8.DecodeLastRuneInString(s[:start]); {
		case prev >= '0' && prev <= '9', prev == '.', prev == '/', unicode.IsLetter(prev):
			return false
		}
	}
	if end < len(s) {
		switch next := s[end]; {
		case next >= '0' && next <= '9', next == '/':
			return false
		case next == '.' && end+1 < len(s) && s[end+1] >= '0' && s[end+1] <= '9':
			return false
		}
	}
	return true
}

// fractionValue 計算 whole + num/den 並四捨五入到小數點後三位
func fractionValue(whole, num, den string) (float64, bool) {
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0, false
	}
	value := n / d
	if whole != "" {
		w, err := strconv.ParseFloat(whole, 64)
		if err != nil {
			return 0, false
		}
		value += w
	}
	return math.Round(value*1000) / 1000, true
}

// formatDecimal 以最短形式輸出小數，不帶多餘的零
func formatDecimal(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
