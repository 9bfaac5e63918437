// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ListenAddr    string
	EmployeeFile  string
	EntriesFile   string
	DBPath        string
	AdminSecret   string
	Issuer        string
	SpreadsheetID string
	CredsFile     string
	SheetRange    string
	MirrorTimeout time.Duration
	LockTimeout   time.Duration
}

// HasMirror returns true when a spreadsheet is configured. Without one the
// app still records entries locally; every sync reports as degraded.
func (c *Config) HasMirror() bool {
	return c.SpreadsheetID != ""
}

// Load reads configuration from environment variables and returns a validated
// Config. PUNCHCARD_ADMIN_SECRET is required. The mirror variables
// (PUNCHCARD_SHEETS_SPREADSHEET_ID, PUNCHCARD_SHEETS_CREDENTIALS_FILE) are
// optional as a pair; a spreadsheet ID without a credentials file is an error.
// Optional variables with defaults: PUNCHCARD_LISTEN_ADDR (127.0.0.1:8080),
// PUNCHCARD_EMPLOYEE_FILE (employee_data.json), PUNCHCARD_ENTRIES_FILE
// (time_entries.json), PUNCHCARD_DB_PATH (punchcard.db), PUNCHCARD_ISSUER
// (EmployeeCheckin), PUNCHCARD_SHEETS_RANGE (Sheet1),
// PUNCHCARD_MIRROR_TIMEOUT (10s), PUNCHCARD_LOCK_TIMEOUT (5s).
func Load() (*Config, error) {
	adminSecret := os.Getenv("PUNCHCARD_ADMIN_SECRET")
	if adminSecret == "" {
		return nil, fmt.Errorf("PUNCHCARD_ADMIN_SECRET is required")
	}

	listenAddr := "127.0.0.1:8080"
	if v, ok := os.LookupEnv("PUNCHCARD_LISTEN_ADDR"); ok {
		listenAddr = v
	}

	employeeFile := "employee_data.json"
	if v, ok := os.LookupEnv("PUNCHCARD_EMPLOYEE_FILE"); ok {
		employeeFile = v
	}

	entriesFile := "time_entries.json"
	if v, ok := os.LookupEnv("PUNCHCARD_ENTRIES_FILE"); ok {
		entriesFile = v
	}

	dbPath := "punchcard.db"
	if v, ok := os.LookupEnv("PUNCHCARD_DB_PATH"); ok {
		dbPath = v
	}

	issuer := "EmployeeCheckin"
	if v, ok := os.LookupEnv("PUNCHCARD_ISSUER"); ok && v != "" {
		issuer = v
	}

	spreadsheetID := os.Getenv("PUNCHCARD_SHEETS_SPREADSHEET_ID")
	credsFile := os.Getenv("PUNCHCARD_SHEETS_CREDENTIALS_FILE")
	if spreadsheetID != "" && credsFile == "" {
		return nil, fmt.Errorf("PUNCHCARD_SHEETS_CREDENTIALS_FILE is required when PUNCHCARD_SHEETS_SPREADSHEET_ID is set")
	}

	sheetRange := "Sheet1"
	if v, ok := os.LookupEnv("PUNCHCARD_SHEETS_RANGE"); ok && v != "" {
		sheetRange = v
	}

	mirrorTimeout := 10 * time.Second
	if v, ok := os.LookupEnv("PUNCHCARD_MIRROR_TIMEOUT"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("PUNCHCARD_MIRROR_TIMEOUT has invalid duration %q: %w", v, err)
		}
		mirrorTimeout = parsed
	}

	lockTimeout := 5 * time.Second
	if v, ok := os.LookupEnv("PUNCHCARD_LOCK_TIMEOUT"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("PUNCHCARD_LOCK_TIMEOUT has invalid duration %q: %w", v, err)
		}
		lockTimeout = parsed
	}

	return &Config{
		ListenAddr:    listenAddr,
		EmployeeFile:  employeeFile,
		EntriesFile:   entriesFile,
		DBPath:        dbPath,
		AdminSecret:   adminSecret,
		Issuer:        issuer,
		SpreadsheetID: spreadsheetID,
		CredsFile:     credsFile,
		SheetRange:    sheetRange,
		MirrorTimeout: mirrorTimeout,
		LockTimeout:   lockTimeout,
	}, nil
}
