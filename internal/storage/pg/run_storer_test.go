package pg

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/DjordjeVuckovic/poliinfo-eval/internal/summ/report"
	"github.com/DjordjeVuckovic/poliinfo-eval/pkg/pagination"
	pgtesting "github.com/DjordjeVuckovic/poliinfo-eval/pkg/testing"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEnvelope() *report.Envelope {
	part := func(available bool, v float64) report.PartRecord[float64] {
		return report.PartRecord[float64]{
			Available: available,
			Values:    map[string]map[string]float64{"ROUGE-1-R": {"内容語": v}},
		}
	}
	return &report.Envelope{
		Success:  true,
		RepScore: 0.6,
		Version:  report.Version,
		MacroAve: report.MacroAve{
			AvailableRate: map[string]float64{"QA": 1, "Q": 1, "A": 1},
			Available:     map[string]report.Table{"QA": {"ROUGE-1-R": {"内容語": 0.6}}},
			Total:         map[string]report.Table{"QA": {"ROUGE-1-R": {"内容語": 0.6}}},
		},
		Ins: []report.InstanceEntry{
			{
				ID: "PoliInfo2-DialogSummarization-JA-Test-0001",
				QA: part(true, 0.7),
				Q:  part(true, 0.9),
				A: report.PartRecord[[]float64]{
					Available: false,
					Values:    map[string]map[string][]float64{"ROUGE-1-R": {"内容語": {0.5}}},
				},
			},
			{ID: "PoliInfo2-DialogSummarization-JA-Test-0002", QA: part(false, 0.5), Q: part(false, 0.5)},
		},
	}
}

func TestMigrations(t *testing.T) {
	scripts, err := Migrations()
	require.NoError(t, err)
	require.NotEmpty(t, scripts)
	assert.Contains(t, scripts[0], "summ_eval_runs")
	assert.Contains(t, scripts[0], "summ_eval_instances")
}

func TestInstanceRows(t *testing.T) {
	runID := uuid.New()
	rows, err := instanceRows(runID, testEnvelope())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	first := rows[0]
	require.Len(t, first, len(instanceColumns))
	assert.Equal(t, runID, first[0])
	assert.Equal(t, 0, first[1])
	assert.Equal(t, "PoliInfo2-DialogSummarization-JA-Test-0001", first[2])
	assert.Equal(t, true, first[3])
	assert.Equal(t, false, first[5])
	assert.InDelta(t, 0.7, first[6], 1e-9)

	var payload map[string]map[string]any
	require.NoError(t, json.Unmarshal(first[7].([]byte), &payload))
	assert.Equal(t, false, payload["A"]["available"])
	assert.Contains(t, payload["Q"], "ROUGE-1-R")
}

func TestRunStorer_Integration(t *testing.T) {
	pgtesting.RequireIntegration(t)
	ctx := context.Background()

	container := pgtesting.NewPGContainerWithCleanup(ctx, t)
	pool, err := NewConnectionPool(ctx, PoolConfig{ConnStr: container.ConnString})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	assert.True(t, NewHealthChecker(pool).Healthy(ctx))

	s := NewRunStorer(pool)
	require.NoError(t, s.EnsureSchema(ctx))
	require.NoError(t, s.EnsureSchema(ctx), "schema creation is idempotent")

	runID := uuid.New()
	require.NoError(t, s.Save(ctx, runID.String(), testEnvelope()))

	page, err := s.ListRuns(ctx, pagination.OffsetRequest{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, runID, page.Items[0].RunID)
	assert.Equal(t, 2, page.Items[0].InstanceCount)
	assert.InDelta(t, 0.6, page.Items[0].RepScore, 1e-9)
	assert.False(t, page.HasMore)

	_, err = s.ListRuns(ctx, pagination.OffsetRequest{Size: pagination.PageMaxSize + 1})
	assert.Error(t, err)

	ids, err := s.InstanceIDs(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"PoliInfo2-DialogSummarization-JA-Test-0001",
		"PoliInfo2-DialogSummarization-JA-Test-0002",
	}, ids)

	assert.Error(t, s.Save(ctx, "not-a-uuid", testEnvelope()))
}
