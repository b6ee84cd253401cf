package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultBatchSize of 4 concurrent analyses balances throughput with
	// memory usage. Each in-flight analysis holds a fully parsed graph, and
	// captures of script-heavy pages run to hundreds of megabytes.
	DefaultBatchSize = 4

	// AppName is the application name used for XDG directory paths.
	AppName = "pagegraph"
)

// Config holds all configuration options for a pagegraph run.
// This struct is designed to be populated from CLI flags and passed through
// the application via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., AnalysisConfig, ReportConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
// If the configuration grows significantly, consider refactoring into sub-structs.
type Config struct {
	// GraphPaths is the list of .graphml capture files to analyze.
	// Must contain at least one path.
	GraphPaths []string

	// FilterPatterns are network-filter rules to match against each page's
	// recorded requests, as given on the command line.
	FilterPatterns []string

	// FilterFiles are paths to filter list files. Each file contributes its
	// rules to FilterPatterns at load time.
	FilterFiles []string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// BatchSize is the number of concurrent analyses when processing
	// multiple graph files.
	BatchSize int

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .pagegraph in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// FileConfig holds settings loaded from the config file.
	// This is populated by LoadConfigFile.
	FileConfig *File

	// JSONReport enables JSON report output instead of human-readable format.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of human-readable
	// format. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	// Directories are created automatically if they don't exist.
	ReportFile string

	// DBDir is the directory path for storing the SQLite database.
	// Defaults to the XDG data directory (~/.local/share/pagegraph on Linux).
	DBDir string

	// SaveToDB indicates whether to save analysis results to the database.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use cases.
// Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because several defaults are non-zero. This also serves as
// documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		BatchSize: DefaultBatchSize,
		DBDir:     XDGDataDir(),
		SaveToDB:  true,
	}
}

// XDGDataDir returns the XDG data directory for pagegraph.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/pagegraph
// On macOS: ~/Library/Application Support/pagegraph
// On Windows: %LOCALAPPDATA%\pagegraph
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for pagegraph.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for pagegraph.
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// AllFilterPatterns returns the command-line patterns followed by the
// patterns loaded from every configured filter file, in a stable order.
func (c *Config) AllFilterPatterns() ([]string, error) {
	patterns := make([]string, 0, len(c.FilterPatterns))
	patterns = append(patterns, c.FilterPatterns...)

	files := make([]string, 0, len(c.FilterFiles))
	files = append(files, c.FilterFiles...)
	if c.FileConfig != nil {
		patterns = append(patterns, c.FileConfig.Filters...)
		files = append(files, c.FileConfig.FilterFiles...)
	}

	for _, path := range files {
		loaded, err := LoadFilterFile(path)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, loaded...)
	}
	return patterns, nil
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any analysis begins.
//
// We chose to return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	// We must have at least one graph to analyze
	if len(c.GraphPaths) == 0 {
		return ErrNoGraph
	}

	// BatchSize must be positive; zero would mean no analysis
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	// JSONReport and MarkdownReport are mutually exclusive
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	return nil
}
