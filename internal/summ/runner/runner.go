// Package runner drives a full evaluation: input checks, per-instance scoring,
// aggregation and persistence.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/DjordjeVuckovic/poliinfo-eval/internal/apperr"
	"github.com/DjordjeVuckovic/poliinfo-eval/internal/summ/dataset"
	"github.com/DjordjeVuckovic/poliinfo-eval/internal/summ/eval"
	"github.com/DjordjeVuckovic/poliinfo-eval/internal/summ/report"
	"github.com/DjordjeVuckovic/poliinfo-eval/internal/summ/stats"
	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
)

// Sink persists a finished run.
type Sink interface {
	Save(ctx context.Context, runID string, env *report.Envelope) error
}

type Result struct {
	RunID    string
	Records  []*eval.InstanceRecord
	Macro    *stats.Macro
	Stats    stats.CorpusStats
	Envelope *report.Envelope
	Duration time.Duration
}

type Runner struct {
	config    Config
	evaluator *eval.Evaluator
	sinks     []Sink
	pool      *ants.PoolWithFunc
}

// New builds a Runner. With Parallelism > 1 it owns a worker pool that Close
// releases.
func New(cfg Config, evaluator *eval.Evaluator, sinks ...Sink) (*Runner, error) {
	r := &Runner{config: cfg, evaluator: evaluator, sinks: sinks}
	if cfg.Parallelism > 1 {
		pool, err := createEvaluatePool(cfg.Parallelism)
		if err != nil {
			return nil, err
		}
		r.pool = pool
	}
	return r, nil
}

func (r *Runner) Close() {
	if r.pool != nil {
		r.pool.Release()
	}
}

// run holds the state of one Run call.
type run struct {
	evaluator *eval.Evaluator
	every     int64
	total     int
	done      atomic.Int64
}

// Run scores every target against the gold instance with the same ID. Records
// keep the target order. Any failure aborts the whole run.
func (r *Runner) Run(ctx context.Context, targets, gold []dataset.Instance) (*Result, error) {
	start := time.Now()

	if err := dataset.CheckLegacyIDs(targets, r.config.DeprecatedPrefixes); err != nil {
		return nil, err
	}

	idx := dataset.Index(gold)
	golds := make([]*dataset.Instance, len(targets))
	for i := range targets {
		g, ok := idx[targets[i].ID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", apperr.ErrMissingGold, targets[i].ID)
		}
		golds[i] = g
	}

	st := &run{
		evaluator: r.evaluator,
		every:     int64(r.config.ProgressEvery),
		total:     len(targets),
	}
	slog.Info("evaluation started", "instances", len(targets), "parallelism", max(r.config.Parallelism, 1))

	var (
		records []*eval.InstanceRecord
		err     error
	)
	if r.pool != nil {
		records, err = r.runPooled(ctx, st, targets, golds)
	} else {
		records, err = runSequential(ctx, st, targets, golds)
	}
	if err != nil {
		return nil, err
	}

	agg := stats.NewAggregator(r.evaluator.Metrics(), r.evaluator.Granularities())
	for _, rec := range records {
		agg.Add(rec)
	}
	macro, err := agg.Macro()
	if err != nil {
		return nil, err
	}

	env := report.Build(records, macro, r.evaluator.Metrics(), r.evaluator.Granularities())
	if r.config.Version != "" {
		env.Version = r.config.Version
	}
	res := &Result{
		RunID:    uuid.NewString(),
		Records:  records,
		Macro:    macro,
		Stats:    agg.Stats(),
		Envelope: env,
	}

	for _, s := range r.sinks {
		if err := s.Save(ctx, res.RunID, res.Envelope); err != nil {
			return nil, fmt.Errorf("%w: persist run %s: %w", apperr.ErrExternalService, res.RunID, err)
		}
	}

	res.Duration = time.Since(start)
	slog.Info("evaluation finished",
		"run_id", res.RunID,
		"instances", len(records),
		"rep_score", macro.RepScore,
		"duration", res.Duration,
	)
	return res, nil
}

func runSequential(ctx context.Context, st *run, targets []dataset.Instance, golds []*dataset.Instance) ([]*eval.InstanceRecord, error) {
	records := make([]*eval.InstanceRecord, len(targets))
	for i := range targets {
		rec, err := st.evaluateOne(ctx, &targets[i], golds[i])
		if err != nil {
			return nil, err
		}
		records[i] = rec
	}
	return records, nil
}

func (r *Runner) runPooled(ctx context.Context, st *run, targets []dataset.Instance, golds []*dataset.Instance) ([]*eval.InstanceRecord, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	records := make([]*eval.InstanceRecord, len(targets))
	errs := make([]error, len(targets))
	var wg sync.WaitGroup

	for i := range targets {
		param := evaluateParamPool.Get().(*evaluateParam)
		param.idx = i
		param.ctx = runCtx
		param.cancel = cancel
		param.target = &targets[i]
		param.gold = golds[i]
		param.run = st
		param.records = records
		param.errs = errs
		param.wg = &wg

		wg.Add(1)
		if err := r.pool.Invoke(param); err != nil {
			wg.Done()
			param.reset()
			evaluateParamPool.Put(param)
			cancel()
			wg.Wait()
			return nil, fmt.Errorf("submit instance %s: %w", targets[i].ID, err)
		}
	}
	wg.Wait()

	// report the failure that caused the cancellation, not its echoes
	for _, err := range errs {
		if err != nil && !errors.Is(err, context.Canceled) {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return records, nil
}

func (st *run) evaluateOne(ctx context.Context, target, gold *dataset.Instance) (*eval.InstanceRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rec, err := st.evaluator.Evaluate(ctx, target, gold)
	if err != nil {
		return nil, err
	}
	n := st.done.Add(1)
	if st.every > 0 && n%st.every == 0 {
		slog.Info("evaluation progress", "done", n, "total", st.total)
	}
	slog.Debug("instance scored", "id", target.ID, "available_qa", rec.Flags.QA)
	return rec, nil
}
