// Package numeral converts Japanese numeral expressions mixing kanji and arabic
// digits into integers.
//
// The grammar mirrors the Japanese four-digit grouping:
//
//	number := [small 兆] [small 億] [small 万] [small]
//	small  := [digits 千] [digits 百] [digits 十] [digits]
//	digits := positional base-10 run of 〇一二三四五六七八九 / 0-9
//
// A marker with nothing in front of it counts as one unit, so "千" is 1000 and
// "万" is 10000. Any one of 千, 百 or 十 is enough to read a group by markers;
// the span in front of each marker is still read positionally, so "二〇二十" is
// 2020 and "12百" is 1200. Spans that do not fit the grammar contribute 0 instead of
// failing the whole expression.
package numeral

import (
	"log/slog"
	"math"
	"strconv"
	"strings"
)

type unit struct {
	marker rune
	value  int64
}

var (
	largeUnits = []unit{{'兆', 1_000_000_000_000}, {'億', 100_000_000}, {'万', 10_000}}
	smallUnits = []unit{{'千', 1000}, {'百', 100}, {'十', 10}}
)

var zeroReplacer = strings.NewReplacer("ゼロ-zero", "〇", "零", "〇")

var kanjiDigits = map[rune]byte{
	'〇': '0', '一': '1', '二': '2', '三': '3', '四': '4',
	'五': '5', '六': '6', '七': '7', '八': '8', '九': '9',
}

// Parse returns the integer value of a numeral expression. The boolean is false
// when the text is indeterminate: empty, or without a single digit or unit
// marker.
func Parse(s string) (int64, bool) {
	rs := []rune(zeroReplacer.Replace(s))
	if !hasNumeralContent(rs) {
		return 0, false
	}
	return parseTier(rs, largeUnits, parseSmall), true
}

// parseSmall reads a span inside one four-digit group. Without any of 千/百/十
// the span is read positionally, so "二〇二〇" stays 2020.
func parseSmall(rs []rune) int64 {
	if !containsMarker(rs, smallUnits) {
		return positional(rs)
	}
	return parseTier(rs, smallUnits, positional)
}

// parseTier consumes the markers of one tier in descending order. Each span in
// front of a marker is read by next; the remainder after the last marker is the
// ones place of the tier.
func parseTier(rs []rune, units []unit, next func([]rune) int64) int64 {
	var total int64
	rest := rs
	for _, u := range units {
		idx := indexRune(rest, u.marker)
		if idx < 0 {
			continue
		}
		span := rest[:idx]
		rest = rest[idx+1:]

		var coef int64
		switch {
		case len(span) == 0:
			coef = 1
		case containsMarker(span, units):
			// out-of-order markers, e.g. "万兆"
			coef = 0
		default:
			coef = next(span)
		}
		total = addTerm(total, coef, u.value, rs)
	}

	if len(rest) == 0 || containsMarker(rest, units) {
		return total
	}
	return addTerm(total, next(rest), 1, rs)
}

func addTerm(total, coef, unitValue int64, src []rune) int64 {
	if coef == 0 {
		return total
	}
	if coef > (math.MaxInt64-total)/unitValue {
		slog.Warn("numeral out of range", "text", string(src))
		return total
	}
	return total + coef*unitValue
}

// positional reads digits left to right after mapping kanji digits to arabic
// ones and dropping everything else.
func positional(rs []rune) int64 {
	digits := normalizeDigits(rs)
	if digits == "" {
		return 0
	}
	v, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		slog.Warn("numeral conversion failed", "text", string(rs), "error", err)
		return 0
	}
	return v
}

func normalizeDigits(rs []rune) string {
	var b strings.Builder
	for _, r := range rs {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= '０' && r <= '９':
			b.WriteByte(byte('0' + (r - '０')))
		default:
			if d, ok := kanjiDigits[r]; ok {
				b.WriteByte(d)
			}
		}
	}
	return strings.TrimLeft(b.String(), "0")
}

func hasNumeralContent(rs []rune) bool {
	for _, r := range rs {
		if (r >= '0' && r <= '9') || (r >= '０' && r <= '９') {
			return true
		}
		if _, ok := kanjiDigits[r]; ok {
			return true
		}
		if isMarker(r, largeUnits) || isMarker(r, smallUnits) {
			return true
		}
	}
	return false
}

func containsMarker(rs []rune, units []unit) bool {
	for _, r := range rs {
		if isMarker(r, units) {
			return true
		}
	}
	return false
}

func isMarker(r rune, units []unit) bool {
	for _, u := range units {
		if u.marker == r {
			return true
		}
	}
	return false
}

func indexRune(rs []rune, target rune) int {
	for i, r := range rs {
		if r == target {
			return i
		}
	}
	return -1
}
