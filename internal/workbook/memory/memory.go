package memory

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"ucvar/internal/core"
)

// Store holds grids in memory, keyed by sheet name. It backs tests and the
// csv workbook source.
type Store struct {
	mu           sync.Mutex
	grids        map[string]core.Grid
	defaultSheet string
}

func New() *Store {
	return &Store{grids: map[string]core.Grid{}}
}

// NewFromCSV loads a single-sheet store from a CSV file. The sheet takes
// the file's base name without extension.
func NewFromCSV(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	grid, err := readCSV(f)
	if err != nil {
		return nil, fmt.Errorf("read csv %s: %w", path, err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	s := New()
	s.Put(name, grid)
	return s, nil
}

// Put stores a grid under the sheet name. The first sheet stored becomes
// the default.
func (s *Store) Put(sheet string, grid core.Grid) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.defaultSheet == "" {
		s.defaultSheet = sheet
	}
	s.grids[sheet] = grid
}

func (s *Store) ReadGrid(_ context.Context, sheet string) (core.Grid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sheet == "" {
		sheet = s.defaultSheet
	}
	grid, ok := s.grids[sheet]
	if !ok {
		return nil, fmt.Errorf("sheet %q not found", sheet)
	}
	out := make(core.Grid, len(grid))
	copy(out, grid)
	return out, nil
}

func (s *Store) ListSheets(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sheets := make([]string, 0, len(s.grids))
	for name := range s.grids {
		sheets = append(sheets, name)
	}
	return sheets, nil
}

func readCSV(r io.Reader) (core.Grid, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	var grid core.Grid
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		grid = append(grid, rec)
	}
	return grid, nil
}
