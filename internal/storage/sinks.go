// Package storage opens the optional persistence backends of evaluation runs.
package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/poliinfo-eval/internal/apperr"
	"github.com/DjordjeVuckovic/poliinfo-eval/internal/storage/es"
	"github.com/DjordjeVuckovic/poliinfo-eval/internal/storage/pg"
	"github.com/DjordjeVuckovic/poliinfo-eval/internal/summ/runner"
	"github.com/DjordjeVuckovic/poliinfo-eval/pkg/server"
)

type Type string

const (
	ES Type = "es"
	PG Type = "pg"
)

type Config struct {
	// Pg is nil when Postgres persistence is off.
	Pg *pg.PoolConfig
	// Es is nil when Elasticsearch indexing is off.
	Es *es.ClientConfig
}

// Backends are the opened sinks with their health checks.
type Backends struct {
	Sinks   []runner.Sink
	Health  []server.HealthChecker
	Enabled []Type
	// Runs is the Postgres store, nil when Postgres is off.
	Runs    *pg.RunStorer
	closers []func()
}

// Open connects every configured backend and prepares its schema or index.
// With an empty Config it returns no sinks.
func Open(ctx context.Context, cfg Config) (*Backends, error) {
	b := &Backends{}

	if cfg.Pg != nil && cfg.Pg.ConnStr != "" {
		pool, err := pg.NewConnectionPool(ctx, *cfg.Pg)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", apperr.ErrExternalService, err)
		}
		b.closers = append(b.closers, pool.Close)

		store := pg.NewRunStorer(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			b.Close()
			return nil, fmt.Errorf("%w: %w", apperr.ErrExternalService, err)
		}
		b.Runs = store
		b.Sinks = append(b.Sinks, store)
		b.Health = append(b.Health, pg.NewHealthChecker(pool))
		b.Enabled = append(b.Enabled, PG)
	}

	if cfg.Es != nil && len(cfg.Es.Addresses) > 0 {
		ix, err := es.NewIndexer(ctx, *cfg.Es)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("%w: %w", apperr.ErrExternalService, err)
		}
		b.Sinks = append(b.Sinks, ix)
		b.Health = append(b.Health, ix.HealthChecker())
		b.Enabled = append(b.Enabled, ES)
	}

	if len(b.Enabled) > 0 {
		slog.Info("persistence enabled", "backends", b.Enabled)
	}
	return b, nil
}

func (b *Backends) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
	b.closers = nil
}
