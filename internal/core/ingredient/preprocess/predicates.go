package preprocess

import (
	"regexp"
	"unicode"
	"unicode/utf8"

	"ingredient-parser/internal/core/ingredient/units"
)

// numericPattern 整數、小數，或以連字號連接的兩者範圍
var numericPattern = regexp.MustCompile(`^(?:\d+(?:\.\d+)?|\.\d+)(?:-(?:\d+(?:\.\d+)?|\.\d+))?$`)

// IsNumeric 判斷詞元是否為數字或數字範圍，例如 "2.667"、"1-1.5"
// "1/2" 不算數字（分數已在前處理轉為小數）
func IsNumeric(token string) bool {
	return numericPattern.MatchString(token)
}

// IsCapitalised 判斷詞元是否首字母大寫且其餘字母皆為小寫
func IsCapitalised(token string) bool {
	first, size := utf8.DecodeRuneInString(token)
	if size == 0 || !unicode.IsUpper(first) {
		return false
	}
	for _, r := range token[size:] {
		if unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

// IsUnit 判斷詞元是否為已知單位
func IsUnit(token string) bool {
	return units.IsUnit(token)
}

// IsInsideParentheses 判斷第 i 個詞元是否位於括號內，括號本身也算
func IsInsideParentheses(tokens []Token, i int) bool {
	if i < 0 || i >= len(tokens) {
		return false
	}

	open := 0
	for _, tok := range tokens[:i] {
		switch tok.Text {
		case "(":
			open++
		case ")":
			if open > 0 {
				open--
			}
		}
	}

	switch tokens[i].Text {
	case "(":
		return hasClosingParen(tokens[i+1:])
	case ")":
		return open > 0
	}
	return open > 0 && hasClosingParen(tokens[i+1:])
}

// hasClosingParen 判斷 tokens 中是否有同層級的右括號
func hasClosingParen(tokens []Token) bool {
	depth := 0
	for _, tok := range tokens {
		switch tok.Text {
		case "(":
			depth++
		case ")":
			if depth == 0 {
				return true
			}
			depth--
		}
	}
	return false
}

// FollowsComma 判斷第 i 個詞元之前是否出現過逗號
func FollowsComma(tokens []Token, i int) bool {
	if i < 0 || i >= len(tokens) {
		return false
	}
	for _, tok := range tokens[:i] {
		if tok.Text == "," {
			return true
		}
	}
	return false
}
