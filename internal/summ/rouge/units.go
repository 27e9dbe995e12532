package rouge

import (
	"math"
	"strings"
)

const keySep = "\x00"

// nGrams counts the contiguous n-grams of tokens.
func nGrams(tokens []string, n int) map[string]int {
	counts := make(map[string]int)
	if n <= 0 || len(tokens) < n {
		return counts
	}
	for i := 0; i+n <= len(tokens); i++ {
		counts[strings.Join(tokens[i:i+n], keySep)]++
	}
	return counts
}

// skipBigrams counts ordered word pairs with at most maxGap words between
// them, plus unigrams when withUnigram is set.
func skipBigrams(tokens []string, maxGap int, withUnigram bool) map[string]int {
	counts := make(map[string]int)
	for i := range tokens {
		if withUnigram {
			counts[tokens[i]]++
		}
		for j := i + 1; j < len(tokens) && j-i-1 <= maxGap; j++ {
			counts[tokens[i]+keySep+tokens[j]]++
		}
	}
	return counts
}

// overlap returns min-count matches and the totals on each side.
func overlap(ref, peer map[string]int) tally {
	var t tally
	for k, c := range ref {
		t.ref += float64(c)
		if pc, ok := peer[k]; ok {
			t.hit += float64(min(c, pc))
		}
	}
	for _, c := range peer {
		t.peer += float64(c)
	}
	return t
}

func lcsLength(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				cur[j] = prev[j-1] + 1
			case prev[j] >= cur[j-1]:
				cur[j] = prev[j]
			default:
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

// wlcs is the weighted LCS with weighting function k^weight; consecutive
// matches earn more than scattered ones.
func wlcs(ref, peer []string, weight float64) float64 {
	m, n := len(ref), len(peer)
	if m == 0 || n == 0 {
		return 0
	}
	f := func(k int) float64 { return math.Pow(float64(k), weight) }

	c := make([][]float64, m+1)
	w := make([][]int, m+1)
	for i := range c {
		c[i] = make([]float64, n+1)
		w[i] = make([]int, n+1)
	}
	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			switch {
			case ref[i-1] == peer[j-1]:
				k := w[i-1][j-1]
				c[i][j] = c[i-1][j-1] + f(k+1) - f(k)
				w[i][j] = k + 1
			case c[i-1][j] > c[i][j-1]:
				c[i][j] = c[i-1][j]
			default:
				c[i][j] = c[i][j-1]
			}
		}
	}
	return c[m][n]
}
