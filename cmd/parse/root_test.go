package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"ingredient-parser/internal/core/ingredient"
	"ingredient-parser/internal/core/ingredient/parser"
	"ingredient-parser/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func decodeAll[T any](t *testing.T, out string) []T {
	t.Helper()
	var results []T
	dec := json.NewDecoder(strings.NewReader(out))
	for dec.More() {
		var v T
		require.NoError(t, dec.Decode(&v))
		results = append(results, v)
	}
	return results
}

func TestParseCommand(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "", "2 1/2 cups plain flour", "Zest of one orange")
	require.NoError(t, err)

	results := decodeAll[parser.ParsedIngredient](t, out)
	require.Len(t, results, 2)
	assert.Equal(t, parser.ParsedIngredient{
		Sentence: "2 1/2 cups plain flour",
		Quantity: "2.5",
		Unit:     "cups",
		Name:     "plain flour",
	}, results[0])
	assert.Equal(t, "Zest of 1 orange", results[1].Name)
}

func TestParseCommandReadsStdin(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "100 ml milk\n\n  \n1 lemon\n")
	require.NoError(t, err)

	results := decodeAll[parser.ParsedIngredient](t, out)
	require.Len(t, results, 2)
	assert.Equal(t, "ml", results[0].Unit)
	assert.Equal(t, "lemon", results[1].Name)
}

func TestParseCommandTextOutput(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "", "-o", "text", "2 yellow onions, finely chopped")
	require.NoError(t, err)
	assert.Contains(t, out, "quantity: 2\n")
	assert.Contains(t, out, "name: yellow onions\n")
	assert.Contains(t, out, "comment: finely chopped\n")
}

func TestPreprocessCommand(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "", "--preprocess", "2 cups ground almonds")
	require.NoError(t, err)
	results := decodeAll[ingredient.PreprocessResult](t, out)
	require.Len(t, results, 1)
	assert.Equal(t, "2 cup ground almonds", results[0].Sentence)
	assert.True(t, results[0].Tagged)
	assert.Equal(t, []string{"CD", "NN", "VBD", "NNS"}, results[0].Tags)

	out, err = execute(t, "", "--preprocess", "--defer-tagging", "2 cups ground almonds")
	require.NoError(t, err)
	results = decodeAll[ingredient.PreprocessResult](t, out)
	require.Len(t, results, 1)
	assert.False(t, results[0].Tagged)
	assert.Empty(t, results[0].Features)

	out, err = execute(t, "", "--preprocess", "-o", "text", "100g plain flour")
	require.NoError(t, err)
	assert.Contains(t, out, "Input: 100g plain flour\n")
	assert.Contains(t, out, "Cleaned: 100 g plain flour\n")
}

func TestParseCommandErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
	}{
		{name: "invalid output", args: []string{"-o", "yaml", "1 egg"}},
		{name: "unknown tagger", args: []string{"--tagger", "neural", "1 egg"}},
		{name: "remote tagger without url", args: []string{"--tagger", "remote", "1 egg"}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := execute(t, "", tc.args...)
			assert.Error(t, err)
		})
	}

	_, err := execute(t, "\n\n")
	assert.ErrorIs(t, err, common.ErrEmptySentence)
}
