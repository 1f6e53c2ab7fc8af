package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"ucvar/internal/engine"
)

type Config struct {
	// Workbook source
	WorkbookSource string

	// Runs database
	SQLiteDBPath string

	// Output
	RunsDir string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets
	GoogleSpreadsheetID   string
	GoogleSheetName       string
	GoogleCredentialsFile string
	GoogleCredentialsJSON string

	// Engine
	Workers       int
	SparseStorage bool
	DecimalPlaces int

	// Keyword overrides; empty means the built-in tables.
	BudgetHeadKeywords []string
	VendorRoleKeywords []string
	CostHeadKeywords   []string
	PlanKeywords       []string
	ClaimsKeywords     []string
	D365Keywords       []string
}

func Load() *Config {
	return &Config{
		WorkbookSource: getEnv("WORKBOOK_SOURCE", "xlsx"),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/ucvar.db"),
		RunsDir:      getEnv("RUNS_DIR", "./runs"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "ucvar"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "uc_runs"),

		GoogleSpreadsheetID:   getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:       getEnv("GOOGLE_SHEET_NAME", ""),
		GoogleCredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", ""),
		GoogleCredentialsJSON: getEnv("GOOGLE_CREDENTIALS_JSON", ""),

		Workers:       getEnvInt("UC_WORKERS", 1),
		SparseStorage: getEnvBool("UC_SPARSE_STORAGE", true),
		DecimalPlaces: getEnvInt("UC_DECIMAL_PLACES", 2),

		BudgetHeadKeywords: getEnvList("UC_BUDGET_HEAD_KEYWORDS"),
		VendorRoleKeywords: getEnvList("UC_VENDOR_ROLE_KEYWORDS"),
		CostHeadKeywords:   getEnvList("UC_COST_HEAD_KEYWORDS"),
		PlanKeywords:       getEnvList("UC_PLAN_KEYWORDS"),
		ClaimsKeywords:     getEnvList("UC_CLAIMS_KEYWORDS"),
		D365Keywords:       getEnvList("UC_D365_KEYWORDS"),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	validSources := []string{"xlsx", "sheets", "csv"}
	isValidSource := false
	for _, source := range validSources {
		if c.WorkbookSource == source {
			isValidSource = true
			break
		}
	}
	if !isValidSource {
		errors = append(errors, fmt.Sprintf("invalid workbook source '%s': must be one of %v", c.WorkbookSource, validSources))
	}

	if c.SQLiteDBPath == "" {
		errors = append(errors, "SQLite database path cannot be empty")
	} else {
		dir := filepath.Dir(c.SQLiteDBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	}

	if c.RunsDir == "" {
		errors = append(errors, "runs directory cannot be empty")
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.WorkbookSource == "sheets" {
		if c.GoogleSpreadsheetID == "" {
			errors = append(errors, "Google Spreadsheet ID is required when using sheets source")
		}
		if c.GoogleSheetName == "" {
			errors = append(errors, "Google Sheet name is required when using sheets source")
		}

		hasCredsFile := c.GoogleCredentialsFile != ""
		hasCredsJSON := c.GoogleCredentialsJSON != ""
		if !hasCredsFile && !hasCredsJSON {
			errors = append(errors, "either GOOGLE_CREDENTIALS_FILE or GOOGLE_CREDENTIALS_JSON must be provided for sheets source")
		}

		if hasCredsFile {
			if _, err := os.Stat(c.GoogleCredentialsFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google credentials file does not exist: %s", c.GoogleCredentialsFile))
			}
		}
	}

	if c.Workers < 1 {
		errors = append(errors, fmt.Sprintf("invalid worker count %d: must be at least 1", c.Workers))
	} else if c.Workers > 64 {
		errors = append(errors, fmt.Sprintf("invalid worker count %d: must be at most 64", c.Workers))
	}

	if c.DecimalPlaces < 0 || c.DecimalPlaces > 6 {
		errors = append(errors, fmt.Sprintf("invalid decimal places %d: must be between 0 and 6", c.DecimalPlaces))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// Engine materializes the processing settings as an engine configuration,
// applying keyword overrides on top of the built-in tables.
func (c *Config) Engine() engine.Config {
	cfg := engine.DefaultConfig()
	cfg.Workers = c.Workers
	cfg.SparseStorage = c.SparseStorage
	cfg.DecimalPlaces = int32(c.DecimalPlaces)

	if len(c.BudgetHeadKeywords) > 0 {
		cfg.BudgetHeadKeywords = c.BudgetHeadKeywords
	}
	if len(c.VendorRoleKeywords) > 0 {
		cfg.VendorRoleKeywords = c.VendorRoleKeywords
	}
	if len(c.CostHeadKeywords) > 0 {
		cfg.CostHeadKeywords = c.CostHeadKeywords
	}
	if len(c.PlanKeywords) > 0 {
		cfg.PlanKeywords = c.PlanKeywords
	}
	if len(c.ClaimsKeywords) > 0 {
		cfg.ClaimsKeywords = c.ClaimsKeywords
	}
	if len(c.D365Keywords) > 0 {
		cfg.D365Keywords = c.D365Keywords
	}
	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, strings.ToLower(p))
		}
	}
	return out
}
