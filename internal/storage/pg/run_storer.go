package pg

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"time"

	"github.com/DjordjeVuckovic/poliinfo-eval/internal/summ/report"
	"github.com/DjordjeVuckovic/poliinfo-eval/internal/summ/stats"
	"github.com/DjordjeVuckovic/poliinfo-eval/pkg/pagination"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.up.sql
var migrations embed.FS

var instanceColumns = []string{
	"run_id", "position", "instance_id",
	"available_qa", "available_q", "available_a",
	"rep_score", "scores",
}

// RunStorer persists evaluation runs into summ_eval_runs and
// summ_eval_instances.
type RunStorer struct {
	db *pgxpool.Pool
}

func NewRunStorer(pool *ConnectionPool) *RunStorer {
	return &RunStorer{db: pool.conn}
}

// Migrations returns the schema scripts in apply order.
func Migrations() ([]string, error) {
	names, err := fs.Glob(migrations, "migrations/*.up.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	out := make([]string, 0, len(names))
	for _, n := range names {
		data, err := migrations.ReadFile(n)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", n, err)
		}
		out = append(out, string(data))
	}
	return out, nil
}

// EnsureSchema creates the tables when missing.
func (s *RunStorer) EnsureSchema(ctx context.Context) error {
	scripts, err := Migrations()
	if err != nil {
		return err
	}
	for _, sql := range scripts {
		if _, err := s.db.Exec(ctx, sql); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

// Save implements runner.Sink.
func (s *RunStorer) Save(ctx context.Context, runID string, env *report.Envelope) error {
	id, err := uuid.Parse(runID)
	if err != nil {
		return fmt.Errorf("invalid run id %q: %w", runID, err)
	}
	return s.SaveRun(ctx, id, env)
}

// SaveRun inserts the run header and bulk copies one row per instance in a
// single transaction.
func (s *RunStorer) SaveRun(ctx context.Context, runID uuid.UUID, env *report.Envelope) error {
	macroJSON, err := json.Marshal(env.MacroAve)
	if err != nil {
		return fmt.Errorf("failed to marshal macro averages: %w", err)
	}
	rows, err := instanceRows(runID, env)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	cmd := `
        INSERT INTO summ_eval_runs (run_id, version, rep_score, instance_count, macro_ave)
        VALUES ($1, $2, $3, $4, $5);
    `
	if _, err := tx.Exec(ctx, cmd, runID, env.Version, env.RepScore, len(env.Ins), macroJSON); err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	n, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"summ_eval_instances"},
		instanceColumns,
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("failed to bulk insert instances: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	slog.Info("run stored", "run_id", runID, "instances", n)
	return nil
}

// instanceRecord is the JSONB payload of one instance row.
type instanceRecord struct {
	QA report.PartRecord[float64]   `json:"QA"`
	Q  report.PartRecord[float64]   `json:"Q"`
	A  report.PartRecord[[]float64] `json:"A"`
}

func instanceRows(runID uuid.UUID, env *report.Envelope) ([][]any, error) {
	rows := make([][]any, len(env.Ins))
	for i, ins := range env.Ins {
		scores, err := json.Marshal(instanceRecord{QA: ins.QA, Q: ins.Q, A: ins.A})
		if err != nil {
			return nil, fmt.Errorf("failed to marshal scores for instance %s: %w", ins.ID, err)
		}
		rows[i] = []any{
			runID,
			i,
			ins.ID,
			ins.QA.Available,
			ins.Q.Available,
			ins.A.Available,
			ins.QA.Values[stats.RepMetric][string(stats.RepGranularity)],
			scores,
		}
	}
	return rows, nil
}

// RunSummary is one row of summ_eval_runs without the macro tables.
type RunSummary struct {
	RunID         uuid.UUID `json:"run_id" db:"run_id"`
	Version       string    `json:"version" db:"version"`
	RepScore      float64   `json:"rep_score" db:"rep_score"`
	InstanceCount int       `json:"instance_count" db:"instance_count"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// ListRuns returns one page of stored runs, newest first.
func (s *RunStorer) ListRuns(ctx context.Context, req pagination.OffsetRequest) (*pagination.OffsetResult[RunSummary], error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var total int64
	if err := s.db.QueryRow(ctx, `SELECT count(*) FROM summ_eval_runs`).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count runs: %w", err)
	}

	rows, err := s.db.Query(ctx, `
		SELECT run_id, version, rep_score, instance_count, created_at
		FROM summ_eval_runs
		ORDER BY created_at DESC, run_id
		LIMIT $1 OFFSET $2`, req.Size, req.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	runs, err := pgx.CollectRows(rows, pgx.RowToStructByName[RunSummary])
	if err != nil {
		return nil, fmt.Errorf("failed to scan runs: %w", err)
	}
	return pagination.NewOffsetResult(runs, total, req), nil
}

// InstanceIDs returns the instance ids stored for a run in input order.
func (s *RunStorer) InstanceIDs(ctx context.Context, runID uuid.UUID) ([]string, error) {
	rows, err := s.db.Query(ctx,
		`SELECT instance_id FROM summ_eval_instances WHERE run_id = $1 ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query instances: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan instances: %w", err)
	}
	return ids, nil
}
