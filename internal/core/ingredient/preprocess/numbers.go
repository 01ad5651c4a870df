package preprocess

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"ingredient-parser/internal/core/ingredient/units"
)

// numberWords 英文數字詞 → 阿拉伯數字
var numberWords = map[string]string{
	"one":       "1",
	"two":       "2",
	"three":     "3",
	"four":      "4",
	"five":      "5",
	"six":       "6",
	"seven":     "7",
	"eight":     "8",
	"nine":      "9",
	"ten":       "10",
	"eleven":    "11",
	"twelve":    "12",
	"thirteen":  "13",
	"fourteen":  "14",
	"fifteen":   "15",
	"sixteen":   "16",
	"seventeen": "17",
	"eighteen":  "18",
	"nineteen":  "19",
	"twenty":    "20",
	"half":      "0.5",
	"quarter":   "0.25",
}

// letterRun 句子中一段連續字母的位置
type letterRun struct {
	start, end int
}

// ExpandNumberWords 將完整的英文數字詞（不分大小寫）替換為數字
// 只比對完整的字母序列，因此 "boneless" 中的 "one" 不會被替換
// 以連字號相連時，另一側須為單位或數字詞："five-inch" → "5-inch"、"One-two" → "1-2"，
// "five-spice" 與 "half-and-half" 維持原樣
func ExpandNumberWords(sentence string) string {
	runs := letterRuns(sentence)
	if len(runs) == 0 {
		return sentence
	}

	var sb strings.Builder
	sb.Grow(len(sentence))
	last := 0
	for i, run := range runs {
		word := sentence[run.start:run.end]
		digits, ok := numberWords[strings.ToLower(word)]
		if !ok {
			continue
		}
		if i+1 < len(runs) && hyphenJoined(sentence, run, runs[i+1]) &&
			!isUnitOrNumberWord(sentence[runs[i+1].start:runs[i+1].end]) {
			continue
		}
		if i > 0 && hyphenJoined(sentence, runs[i-1], run) &&
			!isNumberWord(sentence[runs[i-1].start:runs[i-1].end]) {
			continue
		}
		sb.WriteString(sentence[last:run.start])
		sb.WriteString(digits)
		last = run.end
	}
	sb.WriteString(sentence[last:])
	return sb.String()
}

// letterRuns 取出所有完整的字母序列
func letterRuns(sentence string) []letterRun {
	var runs []letterRun
	i := 0
	for i < len(sentence) {
		r, size := utf8.DecodeRuneInString(sentence[i:])
		if !unicode.IsLetter(r) {
			i += size
			continue
		}
		j := i + size
		for j < len(sentence) {
			r, size := utf8.DecodeRuneInString(sentence[j:])
			if !unicode.IsLetter(r) {
				break
			}
			j += size
		}
		runs = append(runs, letterRun{start: i, end: j})
		i = j
	}
	return runs
}

// hyphenJoined 兩段字母序列之間只隔一個連字號
func hyphenJoined(sentence string, left, right letterRun) bool {
	return right.start == left.end+1 && sentence[left.end] == '-'
}

func isNumberWord(word string) bool {
	_, ok := numberWords[strings.ToLower(word)]
	return ok
}

func isUnitOrNumberWord(word string) bool {
	return isNumberWord(word) || units.IsUnit(word)
}
