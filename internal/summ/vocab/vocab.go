// Package vocab maps token strings to instance-local integer ids so the ROUGE
// engine compares opaque symbols instead of raw Japanese text.
package vocab

import (
	"strconv"
	"strings"
)

// Pair is one summary/reference pair in the nesting the ROUGE engine expects:
// Summary is documents x sentences, Reference is documents x references x
// sentences. Every sentence is a space-joined id string.
type Pair struct {
	Summary   [][]string
	Reference [][][]string
	// VocabSize is the number of distinct tokens across both sides.
	VocabSize int
}

// Remap assigns ids in first-occurrence order, summary first, then reference.
// Ids are only meaningful within the returned Pair.
func Remap(summary, reference []string) Pair {
	ids := make(map[string]int, len(summary)+len(reference))
	sum := encode(summary, ids)
	ref := encode(reference, ids)
	return Pair{
		Summary:   [][]string{{sum}},
		Reference: [][][]string{{{ref}}},
		VocabSize: len(ids),
	}
}

func encode(tokens []string, ids map[string]int) string {
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		id, ok := ids[tok]
		if !ok {
			id = len(ids)
			ids[tok] = id
		}
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, " ")
}
