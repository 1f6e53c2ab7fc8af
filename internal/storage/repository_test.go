package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newTestRepo(t *testing.T) *RunRepository {
	t.Helper()
	repo, err := NewRunRepository(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("NewRunRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestRunRepositorySaveAndList(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	runs := []Run{
		{
			ID: "run-1", Source: "xlsx", Sheet: "UC FY25",
			BudgetLines: 4, MonthsSeen: 12, MonthsStored: 7, Diagnostics: 1,
			TotalPlanned: 500000, TotalSpent: 320000, TotalVariance: 180000,
			OutputPath: "/runs/run-1/uc_processed.json",
			Dataset:    []byte(`{"budget_lines":{}}`),
			CreatedAt:  base,
		},
		{
			ID: "run-2", Source: "csv", Sheet: "uc_fy25",
			BudgetLines: 2, MonthsSeen: 3, MonthsStored: 3,
			TotalPlanned: 125000, TotalSpent: 13500, TotalVariance: 111500,
			Dataset:   []byte(`{}`),
			CreatedAt: base.Add(time.Hour),
		},
	}
	for _, run := range runs {
		if err := repo.SaveRun(ctx, run); err != nil {
			t.Fatalf("SaveRun(%s): %v", run.ID, err)
		}
	}

	listed, err := repo.ListRuns(ctx, 10)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("listed %d runs, want 2", len(listed))
	}
	if listed[0].ID != "run-2" || listed[1].ID != "run-1" {
		t.Errorf("order = [%s %s], want newest first", listed[0].ID, listed[1].ID)
	}
	if listed[0].TotalVariance != 111500 {
		t.Errorf("total_variance = %v, want 111500", listed[0].TotalVariance)
	}
	if len(listed[0].Dataset) != 0 {
		t.Errorf("list must not carry the dataset payload")
	}
}

func TestRunRepositoryGetRunDataset(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	payload := []byte(`{"budget_lines":{"Salary":{}}}`)
	err := repo.SaveRun(ctx, Run{
		ID: "run-1", Source: "xlsx",
		Dataset:   payload,
		CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	got, err := repo.GetRunDataset(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetRunDataset: %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("dataset = %s, want %s", got, payload)
	}

	if _, err := repo.GetRunDataset(ctx, "absent"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("err = %v, want ErrRunNotFound", err)
	}
}

func TestRunRepositoryListLimit(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		err := repo.SaveRun(ctx, Run{
			ID:        string(rune('a' + i)),
			Source:    "xlsx",
			Dataset:   []byte(`{}`),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("SaveRun: %v", err)
		}
	}

	listed, err := repo.ListRuns(ctx, 3)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(listed) != 3 {
		t.Errorf("listed %d runs, want 3", len(listed))
	}
}
