package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Run is one persisted processing run: identification, dataset summary
// figures, and the full JSON artifact.
type Run struct {
	ID            string
	Source        string
	Sheet         string
	BudgetLines   int
	MonthsSeen    int
	MonthsStored  int
	Diagnostics   int
	TotalPlanned  float64
	TotalSpent    float64
	TotalVariance float64
	OutputPath    string
	Dataset       []byte
	CreatedAt     time.Time
}

var ErrRunNotFound = errors.New("run not found")

type RunRepository struct {
	db *sql.DB
}

func NewRunRepository(dbPath string) (*RunRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate runs schema: %w", err)
	}

	return &RunRepository{db: db}, nil
}

func (r *RunRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *RunRepository) SaveRun(ctx context.Context, run Run) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO runs (
			id, source, sheet, budget_lines, months_seen, months_stored,
			diagnostics, total_planned, total_spent, total_variance,
			output_path, dataset, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Source, run.Sheet, run.BudgetLines, run.MonthsSeen,
		run.MonthsStored, run.Diagnostics, run.TotalPlanned, run.TotalSpent,
		run.TotalVariance, run.OutputPath, string(run.Dataset), run.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first, without the dataset
// payload.
func (r *RunRepository) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit < 1 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, source, sheet, budget_lines, months_seen, months_stored,
		       diagnostics, total_planned, total_spent, total_variance,
		       output_path, created_at
		FROM runs
		ORDER BY created_at DESC, id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(
			&run.ID, &run.Source, &run.Sheet, &run.BudgetLines,
			&run.MonthsSeen, &run.MonthsStored, &run.Diagnostics,
			&run.TotalPlanned, &run.TotalSpent, &run.TotalVariance,
			&run.OutputPath, &run.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// GetRunDataset returns the stored JSON artifact for one run.
func (r *RunRepository) GetRunDataset(ctx context.Context, id string) ([]byte, error) {
	var dataset string
	err := r.db.QueryRowContext(ctx,
		`SELECT dataset FROM runs WHERE id = ?`, id).Scan(&dataset)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get run dataset: %w", err)
	}
	return []byte(dataset), nil
}
