package runner

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/DjordjeVuckovic/poliinfo-eval/internal/apperr"
	"github.com/DjordjeVuckovic/poliinfo-eval/internal/summ/dataset"
	"github.com/DjordjeVuckovic/poliinfo-eval/internal/summ/eval"
	"github.com/DjordjeVuckovic/poliinfo-eval/internal/summ/report"
	"github.com/DjordjeVuckovic/poliinfo-eval/internal/summ/rouge"
	"github.com/DjordjeVuckovic/poliinfo-eval/internal/summ/scorer"
	"github.com/DjordjeVuckovic/poliinfo-eval/internal/summ/summtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	variants = []string{"ROUGE-1", "ROUGE-2", "ROUGE-3", "ROUGE-4", "ROUGE-L", "ROUGE-SU4", "ROUGE-W-1.2"}
	statKeys = []string{"R", "F"}
)

type recordingSink struct {
	runIDs []string
	err    error
}

func (s *recordingSink) Save(_ context.Context, runID string, _ *report.Envelope) error {
	s.runIDs = append(s.runIDs, runID)
	return s.err
}

func newEvaluator() *eval.Evaluator {
	s := scorer.New(rouge.NewNative(), summtest.WordAnalyzer{})
	return eval.NewEvaluator(s, eval.MetricKeys(variants, statKeys), eval.BudgetFromTarget)
}

func newRunner(t *testing.T, parallelism int, sinks ...Sink) *Runner {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Parallelism = parallelism
	cfg.ProgressEvery = 2
	r, err := New(cfg, newEvaluator(), sinks...)
	require.NoError(t, err)
	t.Cleanup(r.Close)
	return r
}

func instance(id, q string, answers ...string) dataset.Instance {
	ins := dataset.Instance{ID: id, QuestionSummary: q, QuestionLength: 100}
	for _, a := range answers {
		ins.AnswerSummary = append(ins.AnswerSummary, a)
		ins.AnswerLength = append(ins.AnswerLength, 100)
	}
	return ins
}

func corpus(n int) []dataset.Instance {
	out := make([]dataset.Instance, n)
	for i := range out {
		out[i] = instance(
			fmt.Sprintf("PoliInfo2-DialogSummarization-JA-Test-%04d", i),
			"県 教育 予算 確保 方針",
			"知事 教育 予算 確保 努力",
			"教育長 学校 施設 整備 推進",
		)
	}
	return out
}

func TestRunner_IdenticalInputScoresOne(t *testing.T) {
	gold := corpus(3)
	res, err := newRunner(t, 1).Run(context.Background(), corpus(3), gold)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, res.Macro.RepScore, 1e-9)
	assert.InDelta(t, 1.0, res.Envelope.RepScore, 1e-9)
	assert.NotEmpty(t, res.RunID)
	require.Len(t, res.Records, 3)

	for _, tbl := range res.Envelope.MacroAve.Available {
		for metric, row := range tbl {
			for g, v := range row {
				assert.InDelta(t, 1.0, v, 1e-9, "%s %s", metric, g)
			}
		}
	}
	for p, rate := range res.Envelope.MacroAve.AvailableRate {
		assert.InDelta(t, 1.0, rate, 1e-9, p)
	}
}

func TestRunner_DisjointRecallIsZero(t *testing.T) {
	gold := []dataset.Instance{instance("a", "県 予算", "知事 答弁")}
	target := []dataset.Instance{instance("a", "国 税制", "大臣 説明")}

	res, err := newRunner(t, 1).Run(context.Background(), target, gold)
	require.NoError(t, err)
	assert.Zero(t, res.Macro.RepScore)
}

func TestRunner_StampsConfiguredVersion(t *testing.T) {
	res, err := newRunner(t, 1).Run(context.Background(), corpus(1), corpus(1))
	require.NoError(t, err)
	assert.Equal(t, report.Version, res.Envelope.Version)

	cfg := DefaultConfig()
	cfg.Version = "v20210301"
	r, err := New(cfg, newEvaluator())
	require.NoError(t, err)
	t.Cleanup(r.Close)

	res, err = r.Run(context.Background(), corpus(1), corpus(1))
	require.NoError(t, err)
	assert.Equal(t, "v20210301", res.Envelope.Version)
}

func TestRunner_PreservesTargetOrder(t *testing.T) {
	gold := corpus(8)
	target := make([]dataset.Instance, len(gold))
	for i := range gold {
		target[len(gold)-1-i] = gold[i]
	}

	res, err := newRunner(t, 4).Run(context.Background(), target, gold)
	require.NoError(t, err)
	for i, rec := range res.Records {
		assert.Equal(t, target[i].ID, rec.ID)
		assert.Equal(t, target[i].ID, res.Envelope.Ins[i].ID)
	}
}

func TestRunner_ParallelMatchesSequential(t *testing.T) {
	gold := corpus(6)
	target := corpus(6)
	target[2].QuestionSummary = "県 方針"
	target[4].AnswerSummary[1] = "教育長 整備"

	seq, err := newRunner(t, 1).Run(context.Background(), target, gold)
	require.NoError(t, err)
	par, err := newRunner(t, 3).Run(context.Background(), target, gold)
	require.NoError(t, err)

	assert.Equal(t, seq.Envelope.MacroAve, par.Envelope.MacroAve)
	assert.Equal(t, seq.Envelope.Ins, par.Envelope.Ins)
}

func TestRunner_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("missing gold", func(t *testing.T) {
		_, err := newRunner(t, 1).Run(ctx, []dataset.Instance{instance("x", "県")}, corpus(1))
		require.ErrorIs(t, err, apperr.ErrMissingGold)
		assert.Contains(t, err.Error(), "x")
	})

	t.Run("legacy prefix", func(t *testing.T) {
		legacy := instance(dataset.DefaultDeprecatedPrefixes[0]+"1", "県")
		_, err := newRunner(t, 1).Run(ctx, []dataset.Instance{legacy}, []dataset.Instance{legacy})
		assert.ErrorIs(t, err, apperr.ErrLegacyInput)
	})

	t.Run("no instances", func(t *testing.T) {
		_, err := newRunner(t, 1).Run(ctx, nil, corpus(1))
		assert.ErrorIs(t, err, apperr.ErrEmptyAggregate)
	})

	t.Run("canceled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := newRunner(t, 2).Run(cctx, corpus(4), corpus(4))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestRunner_Sinks(t *testing.T) {
	ctx := context.Background()

	ok := &recordingSink{}
	res, err := newRunner(t, 1, ok).Run(ctx, corpus(1), corpus(1))
	require.NoError(t, err)
	assert.Equal(t, []string{res.RunID}, ok.runIDs)

	failing := &recordingSink{err: errors.New("connection refused")}
	_, err = newRunner(t, 1, failing).Run(ctx, corpus(1), corpus(1))
	require.ErrorIs(t, err, apperr.ErrExternalService)
	assert.Contains(t, err.Error(), "connection refused")
}
