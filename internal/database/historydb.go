package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"mutbench/internal/model"
)

// HistoryDB provides SQLite-based storage for run history.
// It manages connection pooling and provides methods for CRUD operations.
//
// Design decision: We use a single database file for all projects rather
// than one file per project. Comparisons routinely join runs across
// approaches and rounds, and a single file keeps those queries and
// backup/restore operations simple.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB at the specified path.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, "mutbench.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// Build connection string
	// We use modernc.org/sqlite which uses a different connection string format.
	// When CreateIfNotExists is false, we use mode=rw to prevent creating new files.
	// When CreateIfNotExists is true, we use mode=rwc to allow creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	// SQLite doesn't benefit from multiple connections for writes,
	// but multiple readers can improve performance
	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	// Enable WAL mode if requested
	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	-- Run records store one mutation-testing round each, with the counted
	-- metrics denormalized so history queries never parse report_json.
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL UNIQUE,
		project TEXT NOT NULL,
		approach TEXT NOT NULL,
		label TEXT,
		tool TEXT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		total INTEGER NOT NULL DEFAULT 0,
		detected INTEGER NOT NULL DEFAULT 0,
		survived INTEGER NOT NULL DEFAULT 0,
		detection_rate REAL NOT NULL DEFAULT 0,
		survival_rate REAL NOT NULL DEFAULT 0,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_project ON runs(project);
	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveRunReport saves a complete run report.
// The counted metrics are stored alongside the serialized report so
// history listings and comparisons read them without deserializing.
// Saving the same run ID again replaces the stored row.
func (hdb *HistoryDB) SaveRunReport(ctx context.Context, report *model.RunReport) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}

	query := `
	INSERT INTO runs (run_id, project, approach, label, tool, timestamp, total, detected, survived, detection_rate, survival_rate, report_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(run_id) DO UPDATE SET
		project = excluded.project,
		approach = excluded.approach,
		label = excluded.label,
		tool = excluded.tool,
		timestamp = excluded.timestamp,
		total = excluded.total,
		detected = excluded.detected,
		survived = excluded.survived,
		detection_rate = excluded.detection_rate,
		survival_rate = excluded.survival_rate,
		report_json = excluded.report_json
	`

	_, err = hdb.db.ExecContext(ctx, query,
		report.RunID,
		report.Project,
		string(report.Approach),
		report.Label,
		report.Tool,
		report.Timestamp.UTC().Format(time.RFC3339),
		report.Total(),
		report.Detected(),
		report.Survived(),
		report.DetectionRate(),
		report.SurvivalRate(),
		string(reportJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save run report: %w", err)
	}

	return nil
}

// RunMetadata contains summary information about a stored run.
// This is used for displaying run history without loading the full report.
type RunMetadata struct {
	// ID is the unique identifier of the run in the database.
	ID int64

	// RunID is the round's own identifier (UUID).
	RunID string

	// Project is the analyzed project root.
	Project string

	// Approach is the strategy that produced the round.
	Approach model.Approach

	// Label names the round within a study.
	Label string

	// Tool is the external tool or analyzer that produced the results.
	Tool string

	// Timestamp is when the round was executed.
	Timestamp time.Time

	// Total, Detected, and Survived are the mutant counts of the round.
	Total    int
	Detected int
	Survived int

	// DetectionRate and SurvivalRate are fractions in [0, 1].
	DetectionRate float64
	SurvivalRate  float64
}

// GetRunHistory retrieves run metadata for a project, most recent first.
// A limit of zero or less returns the full history.
// This is more efficient than loading full reports when only metadata is needed.
func (hdb *HistoryDB) GetRunHistory(ctx context.Context, project string, limit int) ([]RunMetadata, error) {
	query := `
	SELECT id, run_id, project, approach, label, tool, timestamp, total, detected, survived, detection_rate, survival_rate
	FROM runs
	WHERE project = ?
	ORDER BY timestamp DESC
	`
	args := []any{project}

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get run history: %w", err)
	}
	defer rows.Close()

	var results []RunMetadata
	for rows.Next() {
		var meta RunMetadata
		var approach, timestamp string
		var label, tool sql.NullString

		err := rows.Scan(
			&meta.ID,
			&meta.RunID,
			&meta.Project,
			&approach,
			&label,
			&tool,
			&timestamp,
			&meta.Total,
			&meta.Detected,
			&meta.Survived,
			&meta.DetectionRate,
			&meta.SurvivalRate,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run metadata: %w", err)
		}

		meta.Approach = model.Approach(approach)
		meta.Label = label.String
		meta.Tool = tool.String
		meta.Timestamp = parseTimestamp(timestamp)

		results = append(results, meta)
	}

	return results, rows.Err()
}

// GetRunReportByID retrieves a run report by its database ID.
// Returns nil without error when no run has the ID.
func (hdb *HistoryDB) GetRunReportByID(ctx context.Context, id int64) (*model.RunReport, error) {
	return hdb.getReport(ctx, `SELECT report_json FROM runs WHERE id = ?`, id)
}

// GetRunReportByRunID retrieves a run report by its round identifier.
// Returns nil without error when no run has the ID.
func (hdb *HistoryDB) GetRunReportByRunID(ctx context.Context, runID string) (*model.RunReport, error) {
	return hdb.getReport(ctx, `SELECT report_json FROM runs WHERE run_id = ?`, runID)
}

// LatestRunByApproach retrieves the most recent run of a project produced
// by the given approach. Returns nil without error when none exists.
func (hdb *HistoryDB) LatestRunByApproach(ctx context.Context, project string, approach model.Approach) (*model.RunReport, error) {
	query := `
	SELECT report_json FROM runs
	WHERE project = ? AND approach = ?
	ORDER BY timestamp DESC
	LIMIT 1
	`
	return hdb.getReport(ctx, query, project, string(approach))
}

// getReport runs a single-row report_json query and deserializes the result.
func (hdb *HistoryDB) getReport(ctx context.Context, query string, args ...any) (*model.RunReport, error) {
	var reportJSON string
	err := hdb.db.QueryRowContext(ctx, query, args...).Scan(&reportJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run report: %w", err)
	}

	var report model.RunReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	return &report, nil
}

// ListProjects returns all projects with at least one stored run.
func (hdb *HistoryDB) ListProjects(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT project FROM runs
	ORDER BY project
	`

	rows, err := hdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []string
	for rows.Next() {
		var project string
		if err := rows.Scan(&project); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, project)
	}

	return projects, rows.Err()
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339,              // how SaveRunReport stores timestamps
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	// Return zero time if no format matches
	// This is a fallback to avoid breaking functionality for edge cases
	return time.Time{}
}
