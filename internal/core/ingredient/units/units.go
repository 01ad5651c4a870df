// Package units 提供食材單位同義詞表與複數單位的單數化
package units

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// unitSynonyms 標準單位 → 所有可接受的寫法
var unitSynonyms = map[string][]string{
	"tablespoon":  {"tbsp", "tbsps", "tbs", "tablespoon", "tablespoons", "Tbsp", "Tbsps"},
	"teaspoon":    {"tsp", "tsps", "teaspoon", "teaspoons"},
	"gram":        {"g", "gram", "grams", "gramme", "grammes", "g can", "g cans", "g tin", "g tins"},
	"kilogram":    {"kg", "kgs", "kilogram", "kilograms"},
	"liter":       {"l", "liter", "liters", "litre", "litres"},
	"milliliter":  {"ml", "milliliter", "milliliters", "millilitre", "millilitres"},
	"pinch":       {"pinch", "pinches"},
	"dash":        {"dash", "dashes"},
	"drop":        {"drop", "drops"},
	"handful":     {"handful", "handfuls"},
	"clove":       {"clove", "cloves"},
	"sprig":       {"sprig", "sprigs"},
	"stick":       {"stick", "sticks"},
	"stalk":       {"stalk", "stalks"},
	"slice":       {"slice", "slices"},
	"piece":       {"piece", "pieces"},
	"head":        {"head", "heads"},
	"bulb":        {"bulb", "bulbs"},
	"leaf":        {"leaf", "leaves"},
	"wedge":       {"wedge", "wedges"},
	"fillet":      {"fillet", "fillets"},
	"strip":       {"strip", "strips"},
	"ear":         {"ear", "ears"},
	"rasher":      {"rasher", "rashers"},
	"knob":        {"knob", "knobs"},
	"sheet":       {"sheet", "sheets"},
	"scoop":       {"scoop", "scoops"},
	"chop":        {"chop", "chops"},
	"can":         {"can", "cans", "tin", "tins"},
	"jar":         {"jar", "jars"},
	"bottle":      {"bottle", "bottles"},
	"box":         {"box", "boxes"},
	"bag":         {"bag", "bags"},
	"packet":      {"packet", "packets"},
	"package":     {"package", "packages", "pkg"},
	"loaf":        {"loaf", "loaves"},
	"glass":       {"glass", "glasses"},
	"bunch":       {"bunch", "bunches"},
	"cup":         {"cup", "cups", "mug", "mugs"},
	"pint":        {"pint", "pints", "pt"},
	"quart":       {"quart", "quarts", "qt"},
	"gallon":      {"gallon", "gallons", "gal"},
	"ounce":       {"ounce", "ounces", "oz", "oz."},
	"fluid ounce": {"fl oz", "fl. oz.", "fluid ounce", "fluid ounces"},
	"pound":       {"pound", "pounds", "lb", "lbs", "lb.", "lbs."},
	"size":        {"small", "medium", "large"},
	"dimension":   {"cm", "mm", "inch", "inches", "'"},
}

// pluralToSingular 複數寫法 → 單數寫法（皆為小寫）
var pluralToSingular = map[string]string{
	"tablespoons": "tablespoon",
	"tbsps":       "tbsp",
	"teaspoons":   "teaspoon",
	"tsps":        "tsp",
	"grams":       "gram",
	"grammes":     "gramme",
	"kilograms":   "kilogram",
	"kgs":         "kg",
	"liters":      "liter",
	"litres":      "litre",
	"milliliters": "milliliter",
	"millilitres": "millilitre",
	"pinches":     "pinch",
	"dashes":      "dash",
	"drops":       "drop",
	"handfuls":    "handful",
	"cloves":      "clove",
	"sprigs":      "sprig",
	"sticks":      "stick",
	"stalks":      "stalk",
	"slices":      "slice",
	"pieces":      "piece",
	"heads":       "head",
	"bulbs":       "bulb",
	"leaves":      "leaf",
	"wedges":      "wedge",
	"fillets":     "fillet",
	"strips":      "strip",
	"ears":        "ear",
	"rashers":     "rasher",
	"knobs":       "knob",
	"sheets":      "sheet",
	"scoops":      "scoop",
	"chops":       "chop",
	"cans":        "can",
	"tins":        "tin",
	"jars":        "jar",
	"bottles":     "bottle",
	"boxes":       "box",
	"bags":        "bag",
	"packets":     "packet",
	"packages":    "package",
	"loaves":      "loaf",
	"glasses":     "glass",
	"bunches":     "bunch",
	"cups":        "cup",
	"mugs":        "mug",
	"pints":       "pint",
	"quarts":      "quart",
	"gallons":     "gallon",
	"ounces":      "ounce",
	"pounds":      "pound",
	"lbs":         "lb",
	"inches":      "inch",
}

var (
	// synonymToCanonical 同義詞 → 標準單位
	synonymToCanonical map[string]string
	// lowerSynonyms 小寫同義詞 → 標準單位，用於不分大小寫的回退查詢
	lowerSynonyms map[string]string
	// sortedSynonyms 依長度由長到短排序的同義詞
	sortedSynonyms []string
)

func init() {
	synonymToCanonical = make(map[string]string)
	lowerSynonyms = make(map[string]string)
	for canonical, synonyms := range unitSynonyms {
		for _, syn := range synonyms {
			if prev, ok := synonymToCanonical[syn]; ok && prev != canonical {
				panic(fmt.Sprintf("units: synonym %q maps to both %q and %q", syn, prev, canonical))
			}
			synonymToCanonical[syn] = canonical
			lower := strings.ToLower(syn)
			if _, ok := lowerSynonyms[lower]; !ok {
				lowerSynonyms[lower] = canonical
			}
		}
	}

	sortedSynonyms = make([]string, 0, len(synonymToCanonical))
	for syn := range synonymToCanonical {
		sortedSynonyms = append(sortedSynonyms, syn)
	}
	sort.Slice(sortedSynonyms, func(i, j int) bool {
		a, b := sortedSynonyms[i], sortedSynonyms[j]
		if len(a) != len(b) {
			return len(a) > len(b)
		}
		return a < b
	})

	for _, singular := range pluralToSingular {
		if _, ok := pluralToSingular[singular]; ok {
			panic(fmt.Sprintf("units: singular form %q is also listed as a plural", singular))
		}
	}
}

// IsUnit 判斷字串是否為已知單位寫法
// 先以大小寫敏感比對，失敗時再以小寫比對
func IsUnit(s string) bool {
	_, ok := Canonical(s)
	return ok
}

// Canonical 取得單位寫法對應的標準單位
func Canonical(s string) (string, bool) {
	if canonical, ok := synonymToCanonical[s]; ok {
		return canonical, true
	}
	canonical, ok := lowerSynonyms[strings.ToLower(s)]
	return canonical, ok
}

// Synonyms 回傳所有同義詞，依長度由長到短排序（同長度依字典序）
// 回傳值為副本，可安全修改
func Synonyms() []string {
	out := make([]string, len(sortedSynonyms))
	copy(out, sortedSynonyms)
	return out
}

// LongestMatch 在 s 的開頭找出最長的單位同義詞
func LongestMatch(s string) (string, bool) {
	for _, syn := range sortedSynonyms {
		if strings.HasPrefix(s, syn) {
			return syn, true
		}
	}
	return "", false
}

// Singular 回傳複數單位的單數寫法，並保留原本的大小寫樣式
// 非複數單位回傳 false
func Singular(token string) (string, bool) {
	singular, ok := pluralToSingular[strings.ToLower(token)]
	if !ok {
		return token, false
	}
	return matchCase(token, singular), true
}

// matchCase 依 template 的大小寫樣式（全大寫、首字大寫、小寫）轉換 s
func matchCase(template, s string) string {
	switch {
	case isAllUpper(template):
		return strings.ToUpper(s)
	case isTitle(template):
		r := []rune(s)
		r[0] = unicode.ToUpper(r[0])
		return string(r)
	default:
		return s
	}
}

func isAllUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

func isTitle(s string) bool {
	for i, r := range s {
		if i == 0 {
			if !unicode.IsUpper(r) {
				return false
			}
			continue
		}
		if unicode.IsUpper(r) {
			return false
		}
	}
	return s != ""
}
