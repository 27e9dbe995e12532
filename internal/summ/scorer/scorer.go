// Package scorer turns a summary/reference text pair into ROUGE scores at
// every word granularity.
package scorer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/poliinfo-eval/internal/summ/extract"
	"github.com/DjordjeVuckovic/poliinfo-eval/internal/summ/morph"
	"github.com/DjordjeVuckovic/poliinfo-eval/internal/summ/rouge"
	"github.com/DjordjeVuckovic/poliinfo-eval/internal/summ/vocab"
)

// PartScores maps granularity -> "<variant>-<R|P|F>" -> score.
type PartScores map[extract.Granularity]map[string]float64

type Scorer struct {
	engine        rouge.Engine
	analyzer      morph.Analyzer
	granularities []extract.Granularity
}

// New builds a Scorer. An empty granularity list means all of them.
func New(engine rouge.Engine, analyzer morph.Analyzer, granularities ...extract.Granularity) *Scorer {
	if len(granularities) == 0 {
		granularities = extract.All()
	}
	return &Scorer{
		engine:        engine,
		analyzer:      analyzer,
		granularities: granularities,
	}
}

func (s *Scorer) Granularities() []extract.Granularity {
	return append([]extract.Granularity(nil), s.granularities...)
}

// ScorePart analyzes each text once and scores the pair at every configured
// granularity.
func (s *Scorer) ScorePart(ctx context.Context, summary, reference string) (PartScores, error) {
	sumTokens, err := s.analyzer.Analyze(ctx, summary)
	if err != nil {
		return nil, fmt.Errorf("analyze summary: %w", err)
	}
	refTokens, err := s.analyzer.Analyze(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("analyze reference: %w", err)
	}

	out := make(PartScores, len(s.granularities))
	for _, g := range s.granularities {
		sumWords := extract.Extract(sumTokens, g)
		refWords := extract.Extract(refTokens, g)
		pair := vocab.Remap(sumWords, refWords)

		scores, err := s.engine.Score(ctx, pair.Summary, pair.Reference)
		if err != nil {
			return nil, fmt.Errorf("rouge %s: %w", g, err)
		}
		slog.Debug("scored part",
			"granularity", g,
			"summary_words", len(sumWords),
			"reference_words", len(refWords),
			"vocab", pair.VocabSize,
		)
		out[g] = scores
	}
	return out, nil
}
