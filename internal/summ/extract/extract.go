// Package extract turns a morpheme stream into scoring units under one of
// three granularities.
package extract

import (
	"strconv"
	"strings"

	"github.com/DjordjeVuckovic/poliinfo-eval/internal/summ/morph"
	"github.com/DjordjeVuckovic/poliinfo-eval/internal/summ/numeral"
)

const numeralPOS = "名詞-数詞"

// POS prefixes of words that carry no content.
var functionalPOSPrefixes = []string{"助詞", "助動詞", "感動詞", "空白", "補助記号", "記号-一般"}

// Light verbs dropped from content words, matched on base form.
var functionalVerbs = map[string]struct{}{
	"為る": {}, "居る": {}, "成る": {}, "有る": {},
}

// Nouns that never start or extend a compound, matched on surface.
var (
	adverbialNouns = map[string]struct{}{"所": {}, "為": {}, "くらい": {}}
	formalNouns    = map[string]struct{}{"の": {}, "事": {}, "物": {}, "積り": {}, "訳": {}}
)

// Extract returns the scoring units of one analyzed text.
func Extract(tokens []morph.Token, g Granularity) []string {
	switch g {
	case ContentWords:
		return extractContentWords(tokens)
	case ShortUnitBase:
		return extractShortUnits(tokens, true)
	default:
		return extractShortUnits(tokens, false)
	}
}

func extractShortUnits(tokens []morph.Token, base bool) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if base && tok.BaseForm != "" {
			out = append(out, tok.BaseForm)
			continue
		}
		out = append(out, tok.Surface)
	}
	return out
}

func extractContentWords(tokens []morph.Token) []string {
	acc := newAccumulator(len(tokens))
	for _, tok := range tokens {
		acc.feed(tok)
	}
	return acc.finish()
}

type state int

const (
	idle state = iota
	bufferingNoun
	bufferingNumeral
)

func (s state) String() string {
	switch s {
	case idle:
		return "idle"
	case bufferingNoun:
		return "buffering-noun"
	case bufferingNumeral:
		return "buffering-numeral"
	default:
		return "unknown"
	}
}

// accumulator merges runs of nouns into compounds and runs of numerals into a
// single decimal token. A numeral run always flushes into the noun buffer
// before the noun buffer itself is flushed, so "3" + "月" becomes "3月".
type accumulator struct {
	state    state
	nouns    []string
	numerals []string
	out      []string
}

func newAccumulator(size int) *accumulator {
	return &accumulator{out: make([]string, 0, size)}
}

func (a *accumulator) feed(tok morph.Token) {
	switch {
	case !tok.HasPOS():
		a.boundary()
		a.out = append(a.out, tok.Surface)
	case isNounClass(tok):
		if tok.POS == numeralPOS {
			a.pushNumeral(baseForm(tok))
		} else {
			a.pushNoun(baseForm(tok))
		}
	default:
		a.boundary()
		if isContentWord(tok) {
			a.out = append(a.out, tok.Surface)
		}
	}
}

func (a *accumulator) finish() []string {
	a.boundary()
	return a.out
}

func (a *accumulator) pushNumeral(s string) {
	a.numerals = append(a.numerals, strings.TrimSpace(s))
	a.state = bufferingNumeral
}

func (a *accumulator) pushNoun(s string) {
	a.flushNumeral()
	a.nouns = append(a.nouns, strings.TrimSpace(s))
	a.state = bufferingNoun
}

func (a *accumulator) boundary() {
	a.flushNumeral()
	a.flushNoun()
	a.state = idle
}

func (a *accumulator) flushNumeral() {
	if len(a.numerals) == 0 {
		return
	}
	if v, ok := numeral.Parse(strings.Join(a.numerals, "")); ok {
		a.nouns = append(a.nouns, strconv.FormatInt(v, 10))
	}
	a.numerals = a.numerals[:0]
	if len(a.nouns) > 0 {
		a.state = bufferingNoun
	} else {
		a.state = idle
	}
}

func (a *accumulator) flushNoun() {
	if len(a.nouns) == 0 {
		return
	}
	a.out = append(a.out, strings.Join(a.nouns, ""))
	a.nouns = a.nouns[:0]
}

// baseForm prefers the lemma, falling back to the surface. UniDic lemmas fold
// spelling variants (子ども → 子供) and normalize numerals to kanji digits.
func baseForm(tok morph.Token) string {
	if tok.BaseForm != "" {
		return tok.BaseForm
	}
	return tok.Surface
}

func isNounClass(tok morph.Token) bool {
	nounPOS := tok.POSHasPrefix("名詞") ||
		tok.POS == "記号-文字" ||
		tok.POSHasPrefix("接尾辞-名詞的") ||
		tok.POS == "接頭辞"
	if !nounPOS {
		return false
	}
	if _, ok := adverbialNouns[tok.Surface]; ok {
		return false
	}
	if _, ok := formalNouns[tok.Surface]; ok {
		return false
	}
	return true
}

func isContentWord(tok morph.Token) bool {
	for _, prefix := range functionalPOSPrefixes {
		if tok.POSHasPrefix(prefix) {
			return false
		}
	}
	_, light := functionalVerbs[tok.BaseForm]
	return !light
}
