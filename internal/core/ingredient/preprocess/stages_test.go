package preprocess

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandNumberWords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"single word", "Zest of one orange", "Zest of 1 orange"},
		{"half", "Half of a lime", "0.5 of a lime"},
		{"quarter", "a quarter cup of milk", "a 0.25 cup of milk"},
		{"embedded word untouched", "2 boneless chicken breasts", "2 boneless chicken breasts"},
		{"hyphen attached", "one five-inch stick", "1 5-inch stick"},
		{"hyphenated range", "One-two cloves garlic", "1-2 cloves garlic"},
		{"hyphen then non-unit", "1 tsp Chinese five-spice", "1 tsp Chinese five-spice"},
		{"hyphenated name", "1 cup half-and-half", "1 cup half-and-half"},
		{"hyphen then unit upper case", "Two-Inch piece of ginger", "2-Inch piece of ginger"},
		{"upper case", "TWELVE eggs", "12 eggs"},
		{"twenty", "twenty almonds", "20 almonds"},
		{"no number words", "salt to taste", "salt to taste"},
		{"accented letters kept", "one crème fraîche", "1 crème fraîche"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := ExpandNumberWords(tc.input)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, got, ExpandNumberWords(got))
		})
	}
}

func TestSplitQuantityAndUnits(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"grams", "100g plain flour", "100 g plain flour"},
		{"decimal cups", "2.5cups orange juice", "2.5 cups orange juice"},
		{"inch symbol untouched", `2.5" square chocolate`, `2.5" square chocolate`},
		{"non-unit letters untouched", "2x 400 g tins", "2x 400 g tins"},
		{"letter prefix untouched", "A4g paper", "A4g paper"},
		{"multiple", "1kg potatoes and 250ml stock", "1 kg potatoes and 250 ml stock"},
		{"already spaced", "100 g flour", "100 g flour"},
		{"multi-word unit", "8fl oz double cream", "8 fl oz double cream"},
		{"dotted multi-word unit", "8fl. oz. milk", "8 fl. oz. milk"},
		{"unit prefix of a word untouched", "2gnocchi", "2gnocchi"},
		{"case-insensitive unit", "100Grams sugar", "100 Grams sugar"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := SplitQuantityAndUnits(tc.input)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, got, SplitQuantityAndUnits(got))
		})
	}
}

func TestReplaceStringRanges(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"4 9 or 10 inch flour tortillas", "4 9-10 inch flour tortillas"},
		{"1 15.5 or 16 ounce can black beans", "1 15.5-16 ounce can black beans"},
		{"0.5 to 0.75 teaspoon hot Hungarian paprika", "0.5-0.75 teaspoon hot Hungarian paprika"},
		{"1 6- or 7-ounce can of wild salmon", "1 6-7-ounce can of wild salmon"},
		{"1 6 - or 7 - ounce can of wild salmon", "1 6-7 - ounce can of wild salmon"},
		{"Type 00 or 1 flour", "Type 00 or 1 flour"},
		{"Type 1 or 00 flour", "Type 1 or 00 flour"},
		{"salt or pepper", "salt or pepper"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, ReplaceStringRanges(tc.input))
		})
	}
}

func TestSingulariseUnits(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"2.5 cups beer", "2.5 cup beer"},
		{"2.5 Boxes Candy", "2.5 Box Candy"},
		{"leaves of basil", "leaf of basil"},
		{"Wedges of lemon", "Wedge of lemon"},
		{"2 tablespoons plus 2 teaspoons", "2 tablespoon plus 2 teaspoon"},
		{"2 onions, cups removed", "2 onions, cup removed"},
		{"4 cupcakes", "4 cupcakes"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()
			got := SingulariseUnits(tc.input)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, got, SingulariseUnits(got))
		})
	}
}

func TestSingulariseUnitsReportsIndices(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		want     string
		replaced map[int]string
	}{
		{"2.5 cups beer", "2.5 cup beer", map[int]string{1: "cups"}},
		{"2.5 Boxes Candy", "2.5 Box Candy", map[int]string{1: "Boxes"}},
		{"leaves of basil", "leaf of basil", map[int]string{0: "leaves"}},
		{"2 tablespoons plus 2 teaspoons", "2 tablespoon plus 2 teaspoon", map[int]string{1: "tablespoons", 4: "teaspoons"}},
		{"2 eggs", "2 eggs", map[int]string{}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()
			got, replaced := singulariseUnits(tc.input)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.replaced, replaced)
			assert.Len(t, Tokenize(got), len(Tokenize(tc.input)))
		})
	}
}
