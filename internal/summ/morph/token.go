// Package morph wraps Japanese morphological analyzers behind a single
// interface producing UniDic-style tokens.
package morph

import (
	"context"
	"strings"
)

// Token is one morpheme of an analyzed sentence.
type Token struct {
	Surface string
	// POS is the hyphen-joined part-of-speech path, e.g. "名詞-固有名詞-地名-一般".
	// Empty when the analyzer could not classify the morpheme.
	POS      string
	BaseForm string
}

// HasPOS reports whether the token carries a part-of-speech path.
func (t Token) HasPOS() bool {
	return t.POS != ""
}

// POSHasPrefix reports whether the POS path starts with prefix.
func (t Token) POSHasPrefix(prefix string) bool {
	return strings.HasPrefix(t.POS, prefix)
}

// Analyzer splits one sentence into tokens.
type Analyzer interface {
	Analyze(ctx context.Context, sentence string) ([]Token, error)
}

// joinPOS builds a POS path from hierarchy levels, skipping unset ("*") levels.
func joinPOS(levels []string) string {
	parts := make([]string, 0, len(levels))
	for _, l := range levels {
		if l == "" || l == "*" {
			continue
		}
		parts = append(parts, l)
	}
	return strings.Join(parts, "-")
}
