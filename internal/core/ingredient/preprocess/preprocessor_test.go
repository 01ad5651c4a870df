package preprocess

import (
	"context"
	"errors"
	"strings"
	"testing"

	"ingredient-parser/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingTagger 記錄呼叫次數的標註器
type countingTagger struct {
	calls int
	tags  func(tokens []string) []string
	err   error
}

func (c *countingTagger) Tag(_ context.Context, tokens []string) ([]string, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.tags(tokens), nil
}

func nnTags(tokens []string) []string {
	tags := make([]string, len(tokens))
	for i := range tags {
		tags[i] = "NN"
	}
	return tags
}

func TestNewRunsStagesInOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"2 1/2 cups plain flour", "2.5 cup plain flour"},
		{"&frac12; cup sugar", " 0.5 cup sugar"},
		{"100g plain flour", "100 g plain flour"},
		{"Zest of one orange", "Zest of 1 orange"},
		{"one to two tablespoons oil", "1-2 tablespoon oil"},
		{"3 ⅕ potatoes", "3.2 potatoes"},
		{"1 and 1/2 tsp salt", "1.5 tsp salt"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()
			p := New(context.Background(), tc.input, WithDeferTagging())
			assert.Equal(t, tc.input, p.Input())
			assert.Equal(t, tc.want, p.Sentence())
		})
	}
}

func TestNewNormalizesUnicode(t *testing.T) {
	t.Parallel()

	// 組合重音符號 → 單一字元
	p := New(context.Background(), "1 cup cre\u0300me frai\u0302che", WithDeferTagging())
	assert.Equal(t, "1 cup cr\u00e8me fra\u00eeche", p.Sentence())
}

func TestSingularisedIndices(t *testing.T) {
	t.Parallel()

	p := New(context.Background(), "2 tablespoons plus 2 teaspoons sugar", WithDeferTagging())
	assert.Equal(t, map[int]string{1: "tablespoons", 4: "teaspoons"}, p.Singularised())

	// 回傳副本
	p.Singularised()[1] = "mutated"
	assert.Equal(t, "tablespoons", p.Singularised()[1])
}

func TestDeferredTaggingFailsFast(t *testing.T) {
	t.Parallel()

	tagger := &countingTagger{tags: nnTags}
	p := New(context.Background(), "2 yellow onions, finely chopped", WithDeferTagging(), WithTagger(tagger))

	assert.False(t, p.Tagged())
	assert.Zero(t, tagger.calls)

	_, err := p.Tags()
	require.Error(t, err)
	assert.True(t, common.IsStateError(err))
	assert.ErrorIs(t, err, ErrNotTagged)

	_, err = p.TokenFeatures(0)
	assert.ErrorIs(t, err, ErrNotTagged)

	_, err = p.SentenceFeatures()
	assert.ErrorIs(t, err, ErrNotTagged)

	// 不依賴標註的操作仍可使用
	assert.True(t, p.FollowsComma(4))
	assert.True(t, p.IsNumeric("2"))

	p.Tag(context.Background())
	p.Tag(context.Background())
	assert.Equal(t, 1, tagger.calls)
	assert.True(t, p.Tagged())

	tags, err := p.Tags()
	require.NoError(t, err)
	assert.Len(t, tags, len(p.Tokens()))
}

func TestEagerTaggingUsesDefaultTagger(t *testing.T) {
	t.Parallel()

	p := New(context.Background(), "2 cups ground almonds")
	require.True(t, p.Tagged())

	tags, err := p.Tags()
	require.NoError(t, err)
	// "cups" 已單數化為 "cup"
	assert.Equal(t, []string{"CD", "NN", "VBD", "NNS"}, tags)
}

func TestTaggerFailureYieldsEmptyTags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		tagger *countingTagger
	}{
		{"tagger error", &countingTagger{err: errors.New("boom")}},
		{"wrong length", &countingTagger{tags: func([]string) []string { return []string{"NN"} }}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			p := New(context.Background(), "100 ml milk", WithTagger(tc.tagger))

			tags, err := p.Tags()
			require.NoError(t, err)
			assert.Equal(t, []string{"", "", ""}, tags)
		})
	}
}

func TestNilTagger(t *testing.T) {
	t.Parallel()

	p := New(context.Background(), "100 ml milk", WithTagger(nil))
	tags, err := p.Tags()
	require.NoError(t, err)
	assert.Equal(t, []string{"", "", ""}, tags)
}

func TestTokenFeatures(t *testing.T) {
	t.Parallel()

	p := New(context.Background(), "8-10 teaspoons pine nuts (ground), toasted", WithTagger(&countingTagger{tags: nnTags}))

	f, err := p.TokenFeatures(1)
	require.NoError(t, err)
	assert.Equal(t, "teaspoon", f["word"])
	assert.Equal(t, "NN", f["pos"])
	assert.Equal(t, "NN+NN", f["prev_pos+pos"])
	assert.Equal(t, "NN+NN", f["pos+next_pos"])
	assert.Equal(t, "8-10", f["prev_word"])
	assert.Equal(t, "", f["prev_word2"])
	assert.Equal(t, "pine", f["next_word"])
	assert.Equal(t, "nuts", f["next_word2"])
	assert.Equal(t, true, f["is_unit"])
	assert.Equal(t, false, f["is_numeric"])
	assert.Equal(t, false, f["is_in_parens"])
	assert.Equal(t, false, f["follows_comma"])

	f, err = p.TokenFeatures(5)
	require.NoError(t, err)
	assert.Equal(t, true, f["is_in_parens"])

	f, err = p.TokenFeatures(8)
	require.NoError(t, err)
	assert.Equal(t, "toasted", f["word"])
	assert.Equal(t, "NN", f["pos+next_pos"])
	assert.Equal(t, "", f["next_word"])
	assert.Equal(t, true, f["follows_comma"])

	_, err = p.TokenFeatures(9)
	require.Error(t, err)
	assert.True(t, common.IsValidationError(err))

	all, err := p.SentenceFeatures()
	require.NoError(t, err)
	assert.Len(t, all, 9)
	assert.Equal(t, true, all[0]["is_numeric"])
}

func TestString(t *testing.T) {
	t.Parallel()

	p := New(context.Background(), "1/2 cup sugar", WithDeferTagging())
	out := p.String()
	assert.True(t, strings.HasPrefix(out, "Input: 1/2 cup sugar\n"))
	assert.Contains(t, out, "Cleaned: 0.5 cup sugar\n")
	assert.Contains(t, out, `Tokenized: ["0.5", "cup", "sugar"]`)
}
