package eval

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/poliinfo-eval/internal/apperr"
	"github.com/DjordjeVuckovic/poliinfo-eval/internal/summ/dataset"
	"github.com/DjordjeVuckovic/poliinfo-eval/internal/summ/extract"
	"github.com/DjordjeVuckovic/poliinfo-eval/internal/summ/scorer"
)

// PartScorer scores one summary/reference text pair.
type PartScorer interface {
	ScorePart(ctx context.Context, summary, reference string) (scorer.PartScores, error)
	Granularities() []extract.Granularity
}

type Evaluator struct {
	scorer  PartScorer
	metrics []string
	budget  BudgetSource
}

// NewEvaluator keeps only the given metric keys ("ROUGE-1-R", ...) in records.
func NewEvaluator(s PartScorer, metrics []string, budget BudgetSource) *Evaluator {
	return &Evaluator{
		scorer:  s,
		metrics: append([]string(nil), metrics...),
		budget:  budget,
	}
}

// MetricKeys joins every stat with every variant: "ROUGE-1" x "R" -> "ROUGE-1-R".
// Keys are grouped by stat.
func MetricKeys(variants, stats []string) []string {
	out := make([]string, 0, len(variants)*len(stats))
	for _, s := range stats {
		for _, v := range variants {
			out = append(out, v+"-"+s)
		}
	}
	return out
}

// Metrics lists the retained metric keys in output order.
func (e *Evaluator) Metrics() []string {
	return append([]string(nil), e.metrics...)
}

func (e *Evaluator) Granularities() []extract.Granularity {
	return e.scorer.Granularities()
}

// Evaluate scores target against gold. Answers are paired by position; extra
// answers on either side are ignored.
func (e *Evaluator) Evaluate(ctx context.Context, target, gold *dataset.Instance) (*InstanceRecord, error) {
	if gold == nil {
		return nil, fmt.Errorf("%w: %s", apperr.ErrMissingGold, target.ID)
	}

	rec := &InstanceRecord{
		ID:    target.ID,
		Flags: Availability(target, gold, e.budget),
	}

	q, err := e.scorePart(ctx, target.QuestionSummary, gold.QuestionSummary)
	if err != nil {
		return nil, fmt.Errorf("instance %s question: %w", target.ID, err)
	}
	rec.Q = q

	n := len(target.AnswerSummary)
	if len(gold.AnswerSummary) != n {
		slog.Warn("answer count differs from gold",
			"id", target.ID,
			"target", n,
			"gold", len(gold.AnswerSummary),
		)
		n = min(n, len(gold.AnswerSummary))
	}
	rec.A = make([]Values, 0, n)
	for k := 0; k < n; k++ {
		a, err := e.scorePart(ctx, target.AnswerSummary[k], gold.AnswerSummary[k])
		if err != nil {
			return nil, fmt.Errorf("instance %s answer %d: %w", target.ID, k, err)
		}
		rec.A = append(rec.A, a)
	}

	rec.QA = e.combine(rec.Q, rec.A)
	return rec, nil
}

func (e *Evaluator) scorePart(ctx context.Context, summary, reference string) (Values, error) {
	scores, err := e.scorer.ScorePart(ctx, summary, reference)
	if err != nil {
		return nil, err
	}
	out := make(Values, len(e.metrics))
	for _, m := range e.metrics {
		byG := make(map[extract.Granularity]float64, len(scores))
		for g, s := range scores {
			v, ok := s[m]
			if !ok {
				return nil, fmt.Errorf("engine did not report %s", m)
			}
			byG[g] = v
		}
		out[m] = byG
	}
	return out, nil
}

// combine averages Q with every answer value, each weighted equally.
func (e *Evaluator) combine(q Values, a []Values) Values {
	out := make(Values, len(e.metrics))
	n := float64(len(a) + 1)
	for _, m := range e.metrics {
		byG := make(map[extract.Granularity]float64, len(q[m]))
		for g, v := range q[m] {
			sum := v
			for _, av := range a {
				sum += av[m][g]
			}
			byG[g] = sum / n
		}
		out[m] = byG
	}
	return out
}
