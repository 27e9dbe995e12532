package extract

import "fmt"

// Granularity selects which morphemes become scoring units and how adjacent
// morphemes are merged.
type Granularity string

const (
	// ContentWords merges compound nouns and numerals and drops functional words.
	ContentWords Granularity = "内容語"
	// ShortUnitBase emits every short unit in base (lemma) form.
	ShortUnitBase Granularity = "短単位（原形）"
	// ShortUnitSurface emits every short unit as it appears in the text.
	ShortUnitSurface Granularity = "短単位（表層形）"
)

var all = []Granularity{ContentWords, ShortUnitBase, ShortUnitSurface}

var aliases = map[string]Granularity{
	"content": ContentWords,
	"base":    ShortUnitBase,
	"surface": ShortUnitSurface,
}

// All returns every granularity in report order.
func All() []Granularity {
	out := make([]Granularity, len(all))
	copy(out, all)
	return out
}

func (g Granularity) Valid() bool {
	for _, v := range all {
		if v == g {
			return true
		}
	}
	return false
}

// ParseGranularity accepts either the report name or the short alias
// ("content", "base", "surface").
func ParseGranularity(s string) (Granularity, error) {
	if g := Granularity(s); g.Valid() {
		return g, nil
	}
	if g, ok := aliases[s]; ok {
		return g, nil
	}
	return "", fmt.Errorf("unknown granularity %q", s)
}
