package database

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/sha3"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/pagegraph/pagegraph/internal/model"
)

// AnalysisDB provides SQLite-based storage for page reports.
// It manages connection pooling and provides methods for CRUD operations.
//
// Design decision: We use a single database file for all analyzed pages
// rather than one file per page. This makes cross-page queries (shared
// third-party domains, repeated captures) possible and simplifies
// backup/restore operations.
type AnalysisDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures AnalysisDB behavior.
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

// Open opens or creates an AnalysisDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*AnalysisDB, error) {
	dbPath := filepath.Join(dbDir, "pagegraph.db")

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

	// modernc.org/sqlite connection string: mode=rw prevents creating new
	// files, mode=rwc allows creation.
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

	// SQLite only supports one writer; readers don't need more here either
	// because the CLI is the only client.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	adb := &AnalysisDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := adb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return adb, nil
}

// Close closes the database connection.
func (adb *AnalysisDB) Close() error {
	return adb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (adb *AnalysisDB) createTables() error {
	schema := `
	-- Analyses store complete page reports as JSON
	CREATE TABLE IF NOT EXISTS analyses (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		page_url TEXT NOT NULL,
		graph_path TEXT NOT NULL,
		graph_hash TEXT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		report_json TEXT NOT NULL,
		summary_json TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_analyses_page ON analyses(page_url);
	CREATE INDEX IF NOT EXISTS idx_analyses_hash ON analyses(graph_hash);
	CREATE INDEX IF NOT EXISTS idx_analyses_timestamp ON analyses(timestamp);

	-- Resources track third-party fetches per analysis for cross-page queries
	CREATE TABLE IF NOT EXISTS resources (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		analysis_id INTEGER NOT NULL,
		url TEXT NOT NULL,
		domain TEXT NOT NULL,
		FOREIGN KEY(analysis_id) REFERENCES analyses(id)
	);

	CREATE INDEX IF NOT EXISTS idx_resources_analysis ON resources(analysis_id);
	CREATE INDEX IF NOT EXISTS idx_resources_domain ON resources(domain);
	`

	_, err := adb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveReport saves a complete page report and its third-party resources.
func (adb *AnalysisDB) SaveReport(ctx context.Context, report *model.PageReport) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}

	summary := map[string]int{
		"nodes":         report.NodeCount,
		"edges":         report.EdgeCount,
		"scripts":       len(report.Scripts),
		"third_party":   report.TotalThirdPartyResources(),
		"filter_hits":   report.TotalFilterMatches(),
		"modifications": len(report.Modifications),
	}
	summaryJSON, _ := json.Marshal(summary) //nolint:errcheck,errchkjson // summary is a simple map; Marshal won't fail

	result, err := adb.db.ExecContext(ctx, `
	INSERT INTO analyses (page_url, graph_path, graph_hash, report_json, summary_json)
	VALUES (?, ?, ?, ?, ?)
	`,
		report.PageURL,
		report.GraphPath,
		report.GraphHash,
		string(reportJSON),
		string(summaryJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}

	analysisID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read analysis id: %w", err)
	}

	for _, domain := range report.ThirdParty {
		for _, resourceURL := range domain.ResourceURLs {
			if _, err := adb.db.ExecContext(ctx, `
			INSERT INTO resources (analysis_id, url, domain) VALUES (?, ?, ?)
			`, analysisID, resourceURL, domain.Domain); err != nil {
				return fmt.Errorf("failed to save resource: %w", err)
			}
		}
	}

	return nil
}

// LatestReport retrieves the most recent report for a page URL.
// Returns nil without error when the page has never been analyzed.
func (adb *AnalysisDB) LatestReport(ctx context.Context, pageURL string) (*model.PageReport, error) {
	var reportJSON string
	err := adb.db.QueryRowContext(ctx, `
	SELECT report_json FROM analyses
	WHERE page_url = ?
	ORDER BY timestamp DESC, id DESC
	LIMIT 1
	`, pageURL).Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	var report model.PageReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	return &report, nil
}

// ReportHistory retrieves all reports for a page URL, newest first.
func (adb *AnalysisDB) ReportHistory(ctx context.Context, pageURL string) ([]*model.PageReport, error) {
	rows, err := adb.db.QueryContext(ctx, `
	SELECT report_json FROM analyses
	WHERE page_url = ?
	ORDER BY timestamp DESC, id DESC
	`, pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to get report history: %w", err)
	}
	defer rows.Close()

	var reports []*model.PageReport
	for rows.Next() {
		var reportJSON string
		if err := rows.Scan(&reportJSON); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}

		var report model.PageReport
		if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
			continue // Skip malformed reports
		}
		reports = append(reports, &report)
	}

	return reports, rows.Err()
}

// AnalysisMetadata contains summary information about one stored analysis.
// This is used for displaying history without loading the full report.
type AnalysisMetadata struct {
	// ID is the unique identifier of the analysis in the database.
	ID int64

	// PageURL is the analyzed page.
	PageURL string

	// GraphHash is the SHA3-256 hash of the analyzed graph file.
	GraphHash string

	// Timestamp is when the analysis was performed.
	Timestamp time.Time

	// Summary contains headline counts (nodes, edges, scripts, ...).
	Summary map[string]int
}

// HistoryMetadata retrieves analysis metadata for a page URL, newest first.
// This is more efficient than ReportHistory when only metadata is needed.
func (adb *AnalysisDB) HistoryMetadata(ctx context.Context, pageURL string) ([]AnalysisMetadata, error) {
	rows, err := adb.db.QueryContext(ctx, `
	SELECT id, page_url, graph_hash, timestamp, summary_json
	FROM analyses
	WHERE page_url = ?
	ORDER BY timestamp DESC, id DESC
	`, pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to get history metadata: %w", err)
	}
	defer rows.Close()

	var results []AnalysisMetadata
	for rows.Next() {
		var meta AnalysisMetadata
		var hash sql.NullString
		var timestamp string
		var summaryJSON sql.NullString

		if err := rows.Scan(&meta.ID, &meta.PageURL, &hash, &timestamp, &summaryJSON); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}

		meta.GraphHash = hash.String
		meta.Timestamp = parseTimestamp(timestamp)

		if summaryJSON.Valid && summaryJSON.String != "" {
			if err := json.Unmarshal([]byte(summaryJSON.String), &meta.Summary); err != nil {
				meta.Summary = make(map[string]int)
			}
		} else {
			meta.Summary = make(map[string]int)
		}

		results = append(results, meta)
	}

	return results, rows.Err()
}

// ListPages returns the distinct page URLs with at least one stored
// analysis, sorted alphabetically.
func (adb *AnalysisDB) ListPages(ctx context.Context) ([]string, error) {
	rows, err := adb.db.QueryContext(ctx, `
	SELECT DISTINCT page_url FROM analyses
	ORDER BY page_url
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}
	defer rows.Close()

	var pages []string
	for rows.Next() {
		var page string
		if err := rows.Scan(&page); err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}
		pages = append(pages, page)
	}

	return pages, rows.Err()
}

// HasAnalysis reports whether a graph with the given hash was already
// analyzed.
func (adb *AnalysisDB) HasAnalysis(ctx context.Context, graphHash string) (bool, error) {
	var count int
	err := adb.db.QueryRowContext(ctx, `
	SELECT COUNT(*) FROM analyses WHERE graph_hash = ?
	`, graphHash).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check analysis: %w", err)
	}
	return count > 0, nil
}

// PagesUsingDomain returns the distinct pages that fetched at least one
// resource from the given registrable domain. This is the cross-page query
// the resources table exists for: spotting a tracker shared by otherwise
// unrelated captures.
func (adb *AnalysisDB) PagesUsingDomain(ctx context.Context, domain string) ([]string, error) {
	rows, err := adb.db.QueryContext(ctx, `
	SELECT DISTINCT a.page_url
	FROM resources r JOIN analyses a ON r.analysis_id = a.id
	WHERE r.domain = ?
	ORDER BY a.page_url
	`, domain)
	if err != nil {
		return nil, fmt.Errorf("failed to query domain usage: %w", err)
	}
	defer rows.Close()

	var pages []string
	for rows.Next() {
		var page string
		if err := rows.Scan(&page); err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}
		pages = append(pages, page)
	}

	return pages, rows.Err()
}

// HashGraphFile computes the SHA3-256 hash of a graph file, hex encoded.
func HashGraphFile(path string) (string, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided trace path is intentional
	if err != nil {
		return "", fmt.Errorf("failed to open graph file: %w", err)
	}
	defer f.Close()

	h := sha3.New256()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash graph file: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
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
	return time.Time{}
}
