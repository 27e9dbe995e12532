// Package summtest holds fixtures shared by the evaluation package tests.
package summtest

import (
	"context"
	"strings"

	"github.com/DjordjeVuckovic/poliinfo-eval/internal/summ/morph"
)

// WordAnalyzer treats every space-separated word as a common noun and the
// ideographic comma "、" as punctuation, so each word survives content-word
// extraction as its own token.
type WordAnalyzer struct{}

var _ morph.Analyzer = WordAnalyzer{}

func (WordAnalyzer) Analyze(ctx context.Context, sentence string) ([]morph.Token, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var tokens []morph.Token
	for i, w := range strings.Fields(sentence) {
		if i > 0 {
			tokens = append(tokens, morph.Token{Surface: "、", POS: "補助記号-読点", BaseForm: "、"})
		}
		tokens = append(tokens, morph.Token{Surface: w, POS: "名詞-普通名詞-一般", BaseForm: w})
	}
	return tokens, nil
}
