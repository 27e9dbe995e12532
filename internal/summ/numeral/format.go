package numeral

import "strings"

var digitKanji = []rune("〇一二三四五六七八九")

// Format renders n in canonical kanji notation ("千二百三十四", "一万", "〇").
// n must be in [0, 10^16).
func Format(n int64) string {
	if n <= 0 {
		return "〇"
	}

	var b strings.Builder
	for _, u := range largeUnits {
		group := (n / u.value) % 10_000
		if group > 0 {
			writeGroup(&b, group)
			b.WriteRune(u.marker)
		}
	}
	if ones := n % 10_000; ones > 0 {
		writeGroup(&b, ones)
	}
	return b.String()
}

func writeGroup(b *strings.Builder, group int64) {
	for _, u := range smallUnits {
		d := (group / u.value) % 10
		if d == 0 {
			continue
		}
		if d > 1 {
			b.WriteRune(digitKanji[d])
		}
		b.WriteRune(u.marker)
	}
	if d := group % 10; d > 0 {
		b.WriteRune(digitKanji[d])
	}
}
