package storage

import (
	"context"
	"testing"

	"github.com/DjordjeVuckovic/poliinfo-eval/internal/apperr"
	"github.com/DjordjeVuckovic/poliinfo-eval/internal/storage/pg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_NothingConfigured(t *testing.T) {
	b, err := Open(context.Background(), Config{})
	require.NoError(t, err)
	defer b.Close()

	assert.Empty(t, b.Sinks)
	assert.Empty(t, b.Health)
	assert.Nil(t, b.Runs)
}

func TestOpen_UnreachablePostgres(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Open(ctx, Config{Pg: &pg.PoolConfig{ConnStr: "postgres://nobody@127.0.0.1:1/none?connect_timeout=1"}})
	assert.ErrorIs(t, err, apperr.ErrExternalService)
}
