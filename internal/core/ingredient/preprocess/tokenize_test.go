package preprocess

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"simple", "1 tbsp mint sauce", []string{"1", "tbsp", "mint", "sauce"}},
		{"comma and quote", `1" piece ginger, finely grated`, []string{`1"`, "piece", "ginger", ",", "finely", "grated"}},
		{"colon and semicolon", "Egg wash: 2 egg yolks; whisked", []string{"Egg", "wash", ":", "2", "egg", "yolks", ";", "whisked"}},
		{"degree symbol", "0.25 cup warm water (105°F)", []string{"0.25", "cup", "warm", "water", "(", "105°F", ")"}},
		{"brackets and braces", "salt [to taste] {optional}", []string{"salt", "[", "to", "taste", "]", "{", "optional", "}"}},
		{"extra whitespace", "  2\teggs  ", []string{"2", "eggs"}},
		{"empty", "", []string{}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, TokenTexts(Tokenize(tc.input)))
		})
	}
}

func TestTokenizeSpans(t *testing.T) {
	t.Parallel()

	sentence := "2 crème fraîche (cold), sliced"
	tokens := Tokenize(sentence)
	require.NotEmpty(t, tokens)

	for i, tok := range tokens {
		assert.Equal(t, i, tok.Index)
		assert.Equal(t, tok.Text, sentence[tok.Start:tok.End])
	}
}

func TestIsNumeric(t *testing.T) {
	t.Parallel()

	tests := []struct {
		token string
		want  bool
	}{
		{"1", true},
		{"2.667", true},
		{"1-2", true},
		{"3.5-5.5", true},
		{"1-1.5", true},
		{".5", true},
		{"1/2", false},
		{"red-wine", false},
		{"1-", false},
		{"", false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.token, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, IsNumeric(tc.token))
		})
	}
}

func TestIsCapitalised(t *testing.T) {
	t.Parallel()

	tests := []struct {
		token string
		want  bool
	}{
		{"Cheese", true},
		{"Émmental", true},
		{"lemon-Zest", false},
		{"sausage", false},
		{"BBQ", false},
		{"", false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.token, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, IsCapitalised(tc.token))
		})
	}
}

func TestIsInsideParentheses(t *testing.T) {
	t.Parallel()

	tokens := Tokenize("8-10 teaspoons pine nuts (ground), toasted")

	tests := []struct {
		name  string
		index int
		want  bool
	}{
		{"before parens", 2, false},
		{"open paren", 4, true},
		{"inside", 5, true},
		{"close paren", 6, true},
		{"after parens", 7, false},
		{"negative index", -1, false},
		{"out of range", 42, false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, IsInsideParentheses(tokens, tc.index))
		})
	}
}

func TestIsInsideParenthesesNested(t *testing.T) {
	t.Parallel()

	// 0:1 1:( 2:a 3:( 4:b 5:) 6:c 7:) 8:d 9:( 10:e
	tokens := Tokenize("1 (a (b) c) d (e")

	assert.True(t, IsInsideParentheses(tokens, 2))
	assert.True(t, IsInsideParentheses(tokens, 4))
	assert.True(t, IsInsideParentheses(tokens, 6))
	assert.False(t, IsInsideParentheses(tokens, 8))
	assert.False(t, IsInsideParentheses(tokens, 9), "unclosed paren")
	assert.False(t, IsInsideParentheses(tokens, 10), "unclosed paren")
}

func TestFollowsComma(t *testing.T) {
	t.Parallel()

	noComma := Tokenize("freshly ground black pepper")
	withComma := Tokenize("freshly ground black pepper, to taste")
	twoCommas := Tokenize("pepper, black, ground")

	assert.False(t, FollowsComma(noComma, 2))
	assert.False(t, FollowsComma(withComma, 1))
	assert.True(t, FollowsComma(withComma, 5))
	assert.False(t, FollowsComma(withComma, 4), "the comma itself")
	assert.True(t, FollowsComma(twoCommas, 3), "second comma follows the first")
	assert.False(t, FollowsComma(withComma, 99))
}
