package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/gallerygen/internal/model"
)

// Filename is the name of the database file inside the database directory.
const Filename = "gallerygen.db"

// BuildDB provides SQLite-based storage for build reports.
// Each report is stored whole as JSON, keyed by its build ID, together
// with a small page digest map used to compare builds without decoding
// the full report.
type BuildDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures BuildDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a BuildDB in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*BuildDB, error) {
	dbPath := filepath.Join(dbDir, Filename)

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

	// mode=rw refuses to create a missing file, mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	bdb := &BuildDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := bdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return bdb, nil
}

// Path returns the database file path.
func (bdb *BuildDB) Path() string {
	return bdb.dbPath
}

// Close closes the database connection.
func (bdb *BuildDB) Close() error {
	return bdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (bdb *BuildDB) createTables() error {
	schema := `
	-- Build reports store complete build results as JSON
	CREATE TABLE IF NOT EXISTS build_reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		build_id TEXT NOT NULL UNIQUE,
		output_dir TEXT NOT NULL,
		input_path TEXT NOT NULL,
		timestamp TEXT NOT NULL,
		succeeded INTEGER NOT NULL DEFAULT 0,
		page_count INTEGER NOT NULL DEFAULT 0,
		report_json TEXT NOT NULL,
		digests TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_reports_output ON build_reports(output_dir);
	CREATE INDEX IF NOT EXISTS idx_reports_timestamp ON build_reports(timestamp);
	`

	_, err := bdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveBuildReport saves a complete build report as JSON.
func (bdb *BuildDB) SaveBuildReport(ctx context.Context, report *model.BuildReport) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}

	digestsJSON, err := json.Marshal(PageDigests(report))
	if err != nil {
		return fmt.Errorf("failed to serialize digests: %w", err)
	}

	query := `
	INSERT INTO build_reports (build_id, output_dir, input_path, timestamp, succeeded, page_count, report_json, digests)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = bdb.db.ExecContext(ctx, query,
		report.ID,
		report.OutputDir,
		report.InputPath,
		report.DateStarted.UTC().Format(timestampLayout),
		report.Succeeded(),
		len(report.Pages),
		string(reportJSON),
		string(digestsJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save build report: %w", err)
	}

	return nil
}

// GetLatestBuildReport retrieves the most recent build report for an output directory.
// It returns nil without error when the directory has no history.
func (bdb *BuildDB) GetLatestBuildReport(ctx context.Context, outputDir string) (*model.BuildReport, error) {
	query := `
	SELECT report_json FROM build_reports
	WHERE output_dir = ?
	ORDER BY timestamp DESC, id DESC
	LIMIT 1
	`

	return bdb.queryReport(ctx, query, outputDir)
}

// GetBuildReportByID retrieves a build report by its build ID.
// It returns nil without error when no such build exists.
func (bdb *BuildDB) GetBuildReportByID(ctx context.Context, buildID string) (*model.BuildReport, error) {
	query := `
	SELECT report_json FROM build_reports
	WHERE build_id = ?
	`

	return bdb.queryReport(ctx, query, buildID)
}

// queryReport runs a single-row query returning report_json.
func (bdb *BuildDB) queryReport(ctx context.Context, query string, args ...any) (*model.BuildReport, error) {
	var reportJSON string
	err := bdb.db.QueryRowContext(ctx, query, args...).Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get build report: %w", err)
	}

	var report model.BuildReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	return &report, nil
}

// ListOutputDirs returns every output directory that has build history.
func (bdb *BuildDB) ListOutputDirs(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT output_dir FROM build_reports
	ORDER BY output_dir
	`

	rows, err := bdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list output directories: %w", err)
	}
	defer rows.Close()

	var dirs []string
	for rows.Next() {
		var dir string
		if err := rows.Scan(&dir); err != nil {
			return nil, fmt.Errorf("failed to scan output directory: %w", err)
		}
		dirs = append(dirs, dir)
	}

	return dirs, rows.Err()
}

// GetBuildHistory retrieves build reports for an output directory, newest first.
// A limit of zero or less returns every report.
func (bdb *BuildDB) GetBuildHistory(ctx context.Context, outputDir string, limit int) ([]*model.BuildReport, error) {
	query := `
	SELECT report_json FROM build_reports
	WHERE output_dir = ?
	ORDER BY timestamp DESC, id DESC
	`
	args := []any{outputDir}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := bdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get build history: %w", err)
	}
	defer rows.Close()

	var reports []*model.BuildReport
	for rows.Next() {
		var reportJSON string
		if err := rows.Scan(&reportJSON); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}

		var report model.BuildReport
		if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
			continue // Skip malformed reports
		}
		reports = append(reports, &report)
	}

	return reports, rows.Err()
}

// BuildReportMetadata contains summary information about a stored build.
// This is used for displaying build history without loading the full report.
type BuildReportMetadata struct {
	// ID is the row identifier in the database.
	ID int64

	// BuildID is the build's UUID.
	BuildID string

	// OutputDir is the output directory of the build.
	OutputDir string

	// InputPath is the record source of the build.
	InputPath string

	// Timestamp is when the build started.
	Timestamp time.Time

	// Succeeded is true if the build finished without error.
	Succeeded bool

	// PageCount is the number of pages written.
	PageCount int

	// Digests maps page filename to content digest.
	Digests map[string]string
}

// GetBuildHistoryWithMetadata retrieves build metadata for an output directory, newest first.
// This is more efficient than GetBuildHistory when only metadata is needed.
func (bdb *BuildDB) GetBuildHistoryWithMetadata(ctx context.Context, outputDir string) ([]BuildReportMetadata, error) {
	query := `
	SELECT id, build_id, output_dir, input_path, timestamp, succeeded, page_count, digests
	FROM build_reports
	WHERE output_dir = ?
	ORDER BY timestamp DESC, id DESC
	`

	rows, err := bdb.db.QueryContext(ctx, query, outputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to get build history: %w", err)
	}
	defer rows.Close()

	var results []BuildReportMetadata
	for rows.Next() {
		var meta BuildReportMetadata
		var timestamp string
		var digestsJSON sql.NullString

		if err := rows.Scan(
			&meta.ID,
			&meta.BuildID,
			&meta.OutputDir,
			&meta.InputPath,
			&timestamp,
			&meta.Succeeded,
			&meta.PageCount,
			&digestsJSON,
		); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}

		meta.Timestamp = parseTimestamp(timestamp)

		meta.Digests = make(map[string]string)
		if digestsJSON.Valid && digestsJSON.String != "" {
			if err := json.Unmarshal([]byte(digestsJSON.String), &meta.Digests); err != nil {
				meta.Digests = make(map[string]string)
			}
		}

		results = append(results, meta)
	}

	return results, rows.Err()
}

// PageDigests maps every page filename in report to its content digest.
func PageDigests(report *model.BuildReport) map[string]string {
	digests := make(map[string]string, len(report.Pages))
	for _, p := range report.Pages {
		digests[p.Filename] = p.Digest
	}
	return digests
}

// timestampLayout is a fixed-width layout so stored timestamps sort lexically.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999",
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
