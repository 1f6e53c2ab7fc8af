package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"ucvar/internal/cache"
	"ucvar/internal/core"
)

// gridCacheTTL bounds how stale a fetched sheet may be when the same run
// re-reads it.
const gridCacheTTL = 5 * time.Minute

// Client reads sheet grids from a Google spreadsheet.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	defaultSheet  string
	grids         *cache.LRUCache[core.Grid]
}

// Options resolve the credentials for the Sheets service. JSON takes
// precedence over a file path.
type Options struct {
	SpreadsheetID   string
	DefaultSheet    string
	CredentialsJSON string
	CredentialsFile string
}

func New(ctx context.Context, opts Options) (*Client, error) {
	if strings.TrimSpace(opts.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}

	creds, err := resolveCredentials(opts)
	if err != nil {
		return nil, err
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(creds),
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: opts.SpreadsheetID,
		defaultSheet:  opts.DefaultSheet,
		grids:         cache.NewLRUCache[core.Grid](8, gridCacheTTL),
	}, nil
}

func resolveCredentials(opts Options) ([]byte, error) {
	switch {
	case strings.TrimSpace(opts.CredentialsJSON) != "":
		return []byte(opts.CredentialsJSON), nil
	case strings.TrimSpace(opts.CredentialsFile) != "":
		creds, err := os.ReadFile(opts.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read credentials file: %w", err)
		}
		return creds, nil
	default:
		return nil, errors.New("missing Google credentials")
	}
}

// ReadGrid fetches the sheet's cells as formatted strings, serving repeat
// reads from the TTL cache.
func (c *Client) ReadGrid(ctx context.Context, sheet string) (core.Grid, error) {
	if sheet == "" {
		sheet = c.defaultSheet
	}
	if sheet == "" {
		return nil, errors.New("no sheet name given and no default configured")
	}

	if grid, ok := c.grids.Get(sheet); ok {
		return grid, nil
	}

	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, sheet).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("fetch sheet %q: %w", sheet, err)
	}

	grid := valuesToGrid(resp.Values)
	c.grids.Set(sheet, grid)
	return grid, nil
}

func (c *Client) ListSheets(ctx context.Context) ([]string, error) {
	meta, err := c.svc.Spreadsheets.Get(c.spreadsheetID).
		Fields("sheets.properties.title").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("fetch spreadsheet metadata: %w", err)
	}
	sheets := make([]string, 0, len(meta.Sheets))
	for _, s := range meta.Sheets {
		if s.Properties != nil {
			sheets = append(sheets, s.Properties.Title)
		}
	}
	return sheets, nil
}

func valuesToGrid(values [][]interface{}) core.Grid {
	grid := make(core.Grid, 0, len(values))
	for _, row := range values {
		cells := make([]string, 0, len(row))
		for _, v := range row {
			cells = append(cells, fmt.Sprint(v))
		}
		grid = append(grid, cells)
	}
	return grid
}
