package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/DjordjeVuckovic/poliinfo-eval/internal/summ/report"
	"github.com/DjordjeVuckovic/poliinfo-eval/internal/summ/stats"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
)

// Indexer writes one document per evaluated instance.
type Indexer struct {
	client    *elasticsearch.TypedClient
	indexName string
}

// InstanceDocument is the indexed form of one instance record. Scores are
// flattened into nested entries since metric names such as ROUGE-W-1.2 contain
// dots.
type InstanceDocument struct {
	RunID       string       `json:"run_id"`
	InstanceID  string       `json:"instance_id"`
	Position    int          `json:"position"`
	Version     string       `json:"version"`
	AvailableQA bool         `json:"available_qa"`
	AvailableQ  bool         `json:"available_q"`
	AvailableA  bool         `json:"available_a"`
	RepScore    float64      `json:"rep_score"`
	Scores      []ScoreEntry `json:"scores"`
	IndexedAt   time.Time    `json:"indexed_at"`
}

type ScoreEntry struct {
	Part        string  `json:"part"`
	Speaker     *int    `json:"speaker,omitempty"`
	Metric      string  `json:"metric"`
	Granularity string  `json:"granularity"`
	Value       float64 `json:"value"`
}

func NewIndexer(ctx context.Context, config ClientConfig) (*Indexer, error) {
	client, err := newClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}
	ix := &Indexer{
		client:    client,
		indexName: config.IndexName,
	}

	if err := ix.EnsureIndex(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure index exists: %w", err)
	}

	return ix, nil
}

func (ix *Indexer) HealthChecker() *HealthChecker {
	return &HealthChecker{client: ix.client}
}

// Save implements runner.Sink.
func (ix *Indexer) Save(ctx context.Context, runID string, env *report.Envelope) error {
	return ix.IndexRun(ctx, runID, env)
}

// IndexRun bulk indexes every instance of env under runID.
func (ix *Indexer) IndexRun(ctx context.Context, runID string, env *report.Envelope) error {
	if len(env.Ins) == 0 {
		return nil
	}

	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Index:         ix.indexName,
		Client:        ix.client,
		NumWorkers:    2,
		FlushBytes:    5e+6, // 5MB
		FlushInterval: 30 * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to create bulk indexer: %w", err)
	}

	var successful, failed atomic.Int64
	now := time.Now()

	for _, doc := range buildDocuments(runID, env, now) {
		docBytes, err := json.Marshal(doc)
		if err != nil {
			slog.Error("failed to marshal document", "error", err, "id", doc.InstanceID)
			failed.Add(1)
			continue
		}

		err = bi.Add(
			ctx,
			esutil.BulkIndexerItem{
				Action:     "index",
				DocumentID: documentID(runID, doc.Position),
				Body:       bytes.NewReader(docBytes),
				OnSuccess: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem) {
					successful.Add(1)
				},
				OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
					failed.Add(1)
					if err != nil {
						slog.Error("bulk index error", "error", err, "id", item.DocumentID)
					} else {
						slog.Error("bulk index error", "status", res.Status, "error", res.Error.Type, "reason", res.Error.Reason, "id", item.DocumentID)
					}
				},
			},
		)
		if err != nil {
			failed.Add(1)
			slog.Error("failed to add document to bulk indexer", "error", err, "id", doc.InstanceID)
		}
	}

	if err := bi.Close(ctx); err != nil {
		return fmt.Errorf("failed to close bulk indexer: %w", err)
	}

	slog.Info("run indexed",
		"run_id", runID,
		"successful", successful.Load(),
		"failed", failed.Load(),
		"total", len(env.Ins),
		"index", ix.indexName)

	if n := failed.Load(); n > 0 {
		return fmt.Errorf("failed to index %d out of %d instances", n, len(env.Ins))
	}
	return nil
}

func documentID(runID string, position int) string {
	return runID + "-" + strconv.Itoa(position)
}

func buildDocuments(runID string, env *report.Envelope, indexedAt time.Time) []InstanceDocument {
	docs := make([]InstanceDocument, 0, len(env.Ins))
	for i, ins := range env.Ins {
		doc := InstanceDocument{
			RunID:       runID,
			InstanceID:  ins.ID,
			Position:    i,
			Version:     env.Version,
			AvailableQA: ins.QA.Available,
			AvailableQ:  ins.Q.Available,
			AvailableA:  ins.A.Available,
			RepScore:    ins.QA.Values[stats.RepMetric][string(stats.RepGranularity)],
			IndexedAt:   indexedAt,
		}
		doc.Scores = appendScalar(doc.Scores, "QA", ins.QA.Values)
		doc.Scores = appendScalar(doc.Scores, "Q", ins.Q.Values)
		for _, metric := range sortedKeys(ins.A.Values) {
			for _, g := range sortedKeys(ins.A.Values[metric]) {
				for k, v := range ins.A.Values[metric][g] {
					doc.Scores = append(doc.Scores, ScoreEntry{
						Part:        "A",
						Speaker:     &k,
						Metric:      metric,
						Granularity: g,
						Value:       v,
					})
				}
			}
		}
		docs = append(docs, doc)
	}
	return docs
}

func appendScalar(out []ScoreEntry, part string, values map[string]map[string]float64) []ScoreEntry {
	for _, metric := range sortedKeys(values) {
		for _, g := range sortedKeys(values[metric]) {
			out = append(out, ScoreEntry{
				Part:        part,
				Metric:      metric,
				Granularity: g,
				Value:       values[metric][g],
			})
		}
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (ix *Indexer) EnsureIndex(ctx context.Context) error {
	existsRes, err := ix.client.Indices.Exists(ix.indexName).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to check if index exists: %w", err)
	}

	if existsRes {
		slog.Info("Index already exists", "index", ix.indexName)
		return nil
	}

	scores := types.NewNestedProperty()
	scores.Properties = map[string]types.Property{
		"part":        types.NewKeywordProperty(),
		"speaker":     types.NewIntegerNumberProperty(),
		"metric":      types.NewKeywordProperty(),
		"granularity": types.NewKeywordProperty(),
		"value":       types.NewDoubleNumberProperty(),
	}

	mappings := types.TypeMapping{
		Properties: map[string]types.Property{
			"run_id":       types.NewKeywordProperty(),
			"instance_id":  types.NewKeywordProperty(),
			"position":     types.NewIntegerNumberProperty(),
			"version":      types.NewKeywordProperty(),
			"available_qa": types.NewBooleanProperty(),
			"available_q":  types.NewBooleanProperty(),
			"available_a":  types.NewBooleanProperty(),
			"rep_score":    types.NewDoubleNumberProperty(),
			"scores":       scores,
			"indexed_at":   types.NewDateProperty(),
		},
	}

	createRes, err := ix.client.Indices.Create(ix.indexName).
		Mappings(&mappings).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	if !createRes.Acknowledged {
		return fmt.Errorf("index creation was not acknowledged")
	}

	slog.Info("Index created successfully", "index", ix.indexName)
	return nil
}
