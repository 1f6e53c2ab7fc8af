package engine

import (
	"strings"

	"ucvar/internal/core"
)

// CleanGrid removes fully-empty rows and columns and compacts the remaining
// cells into a rectangular grid. Column detection runs on the cleaned grid,
// so all bound indices refer to the compacted layout.
func CleanGrid(g core.Grid) core.Grid {
	cols := g.Cols()

	keepCol := make([]bool, cols)
	for c := 0; c < cols; c++ {
		for r := range g {
			if g.Cell(r, c) != "" {
				keepCol[c] = true
				break
			}
		}
	}

	out := make(core.Grid, 0, len(g))
	for r := range g {
		empty := true
		row := make([]string, 0, cols)
		for c := 0; c < cols; c++ {
			if !keepCol[c] {
				continue
			}
			cell := strings.TrimSpace(g.Cell(r, c))
			if cell != "" {
				empty = false
			}
			row = append(row, cell)
		}
		if empty {
			continue
		}
		out = append(out, row)
	}
	return out
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(s, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
