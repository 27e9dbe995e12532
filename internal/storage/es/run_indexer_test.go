package es

import (
	"context"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/poliinfo-eval/internal/summ/report"
	estesting "github.com/DjordjeVuckovic/poliinfo-eval/pkg/testing"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEnvelope() *report.Envelope {
	scalar := func(v float64) map[string]map[string]float64 {
		return map[string]map[string]float64{
			"ROUGE-1-R":     {"内容語": v, "短単位（原形）": v / 2},
			"ROUGE-W-1.2-F": {"内容語": v},
		}
	}
	return &report.Envelope{
		Success: true,
		Version: report.Version,
		Ins: []report.InstanceEntry{
			{
				ID: "PoliInfo2-DialogSummarization-JA-Test-0001",
				QA: report.PartRecord[float64]{Available: true, Values: scalar(0.6)},
				Q:  report.PartRecord[float64]{Available: true, Values: scalar(0.8)},
				A: report.PartRecord[[]float64]{
					Available: false,
					Values: map[string]map[string][]float64{
						"ROUGE-1-R": {"内容語": {0.5, 0.3}},
					},
				},
			},
		},
	}
}

func TestBuildDocuments(t *testing.T) {
	at := time.Date(2020, 7, 8, 0, 0, 0, 0, time.UTC)
	docs := buildDocuments("run-1", testEnvelope(), at)
	require.Len(t, docs, 1)

	doc := docs[0]
	assert.Equal(t, "run-1", doc.RunID)
	assert.Equal(t, "PoliInfo2-DialogSummarization-JA-Test-0001", doc.InstanceID)
	assert.Equal(t, 0, doc.Position)
	assert.True(t, doc.AvailableQA)
	assert.False(t, doc.AvailableA)
	assert.InDelta(t, 0.6, doc.RepScore, 1e-9)
	assert.Equal(t, at, doc.IndexedAt)

	// QA and Q carry 3 entries each, A one per speaker
	require.Len(t, doc.Scores, 8)
	assert.Equal(t, ScoreEntry{Part: "QA", Metric: "ROUGE-1-R", Granularity: "内容語", Value: 0.6}, doc.Scores[0])

	var speakers []int
	for _, s := range doc.Scores {
		if s.Part == "A" {
			require.NotNil(t, s.Speaker)
			speakers = append(speakers, *s.Speaker)
		}
	}
	assert.Equal(t, []int{0, 1}, speakers)
}

func TestDocumentID(t *testing.T) {
	assert.Equal(t, "run-1-12", documentID("run-1", 12))
}

func TestIndexer_Integration(t *testing.T) {
	estesting.RequireIntegration(t)
	ctx := context.Background()

	container := estesting.NewESContainer(ctx, t)
	ix, err := NewIndexer(ctx, ClientConfig{Addresses: container.Addresses(), IndexName: "summ_eval_test"})
	require.NoError(t, err)

	assert.True(t, ix.HealthChecker().Healthy(ctx))
	require.NoError(t, ix.EnsureIndex(ctx), "index creation is idempotent")
	require.NoError(t, ix.Save(ctx, uuid.NewString(), testEnvelope()))
	require.NoError(t, ix.IndexRun(ctx, uuid.NewString(), &report.Envelope{}))
}
