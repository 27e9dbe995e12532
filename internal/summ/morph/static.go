package morph

import (
	"context"
	"fmt"
)

// StaticAnalyzer returns pre-recorded analyses keyed by sentence. Used for dry
// runs against cached MeCab output and in tests.
type StaticAnalyzer struct {
	analyses map[string][]Token
}

func NewStaticAnalyzer(analyses map[string][]Token) *StaticAnalyzer {
	return &StaticAnalyzer{analyses: analyses}
}

// NewStaticAnalyzerFromMeCab builds a StaticAnalyzer from raw MeCab output per
// sentence.
func NewStaticAnalyzerFromMeCab(outputs map[string]string, layout Layout) *StaticAnalyzer {
	analyses := make(map[string][]Token, len(outputs))
	for sentence, out := range outputs {
		analyses[sentence] = ParseMeCabOutput(out, layout)
	}
	return &StaticAnalyzer{analyses: analyses}
}

func (s *StaticAnalyzer) Analyze(_ context.Context, sentence string) ([]Token, error) {
	tokens, ok := s.analyses[sentence]
	if !ok {
		return nil, fmt.Errorf("no analysis recorded for %q", sentence)
	}
	return tokens, nil
}
