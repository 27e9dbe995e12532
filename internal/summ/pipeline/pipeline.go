// Package pipeline assembles the evaluation stack described by a config: the
// morphological analyzer, the ROUGE engine, the evaluator, the optional
// persistence sinks and the runner.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/DjordjeVuckovic/poliinfo-eval/internal/storage"
	"github.com/DjordjeVuckovic/poliinfo-eval/internal/storage/es"
	"github.com/DjordjeVuckovic/poliinfo-eval/internal/storage/pg"
	"github.com/DjordjeVuckovic/poliinfo-eval/internal/summ/config"
	"github.com/DjordjeVuckovic/poliinfo-eval/internal/summ/eval"
	"github.com/DjordjeVuckovic/poliinfo-eval/internal/summ/morph"
	"github.com/DjordjeVuckovic/poliinfo-eval/internal/summ/rouge"
	"github.com/DjordjeVuckovic/poliinfo-eval/internal/summ/runner"
	"github.com/DjordjeVuckovic/poliinfo-eval/internal/summ/scorer"
)

type Pipeline struct {
	Runner   *runner.Runner
	Backends *storage.Backends
	// Analyzer names the analyzer kind, recorded in report metadata.
	Analyzer string

	// closer releases an analyzer created by Build.
	closer io.Closer
}

// NewAnalyzer creates the analyzer selected by cfg.Kind.
func NewAnalyzer(cfg config.AnalyzerConfig) (morph.Analyzer, error) {
	switch cfg.Kind {
	case config.AnalyzerKagome:
		return morph.NewKagome()
	case config.AnalyzerMeCab, "":
		return morph.NewMeCab(morph.MeCabConfig{Bin: cfg.MeCabBin, DicDir: cfg.DicDir})
	default:
		return nil, fmt.Errorf("unknown analyzer kind %q", cfg.Kind)
	}
}

// Build creates the analyzer from cfg and assembles the pipeline around it.
func Build(ctx context.Context, cfg *config.EvalConfig) (*Pipeline, error) {
	analyzer, err := NewAnalyzer(cfg.Analyzer)
	if err != nil {
		return nil, err
	}
	c, _ := analyzer.(io.Closer)
	p, err := BuildWith(ctx, cfg, analyzer)
	if err != nil {
		if c != nil {
			_ = c.Close()
		}
		return nil, err
	}
	p.closer = c
	return p, nil
}

// BuildWith assembles the pipeline around an existing analyzer. The caller
// keeps ownership of analyzer.
func BuildWith(ctx context.Context, cfg *config.EvalConfig, analyzer morph.Analyzer) (*Pipeline, error) {
	engine := rouge.NewNative()
	if err := cfg.CheckVariants(engine.Variants()); err != nil {
		return nil, err
	}

	rc := cfg.RunnerConfig()
	s := scorer.New(engine, analyzer, cfg.ParsedGranularities()...)
	evaluator := eval.NewEvaluator(s, cfg.Metrics(), rc.BudgetSource)

	backends, err := storage.Open(ctx, StorageConfig(cfg))
	if err != nil {
		return nil, err
	}

	r, err := runner.New(rc, evaluator, backends.Sinks...)
	if err != nil {
		backends.Close()
		return nil, err
	}

	slog.Debug("pipeline ready",
		"analyzer", cfg.Analyzer.Kind,
		"metrics", len(cfg.Metrics()),
		"granularities", cfg.Granularities,
		"parallelism", rc.Parallelism)

	return &Pipeline{Runner: r, Backends: backends, Analyzer: cfg.Analyzer.Kind}, nil
}

// StorageConfig maps the storage section onto backend configs, leaving unset
// backends nil.
func StorageConfig(cfg *config.EvalConfig) storage.Config {
	var sc storage.Config
	if cfg.Storage.PG != "" {
		sc.Pg = &pg.PoolConfig{ConnStr: cfg.Storage.PG}
	}
	if addrs := cfg.ESAddressList(); len(addrs) > 0 {
		sc.Es = &es.ClientConfig{Addresses: addrs, IndexName: cfg.Storage.ESIndex}
	}
	return sc
}

func (p *Pipeline) Close() {
	p.Runner.Close()
	p.Backends.Close()
	if p.closer != nil {
		if err := p.closer.Close(); err != nil {
			slog.Warn("close analyzer", "error", err)
		}
	}
}
