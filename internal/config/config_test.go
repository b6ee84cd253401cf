package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// TestNewConfigDefaults tests the documented default values.
func TestNewConfigDefaults(t *testing.T) {
	t.Parallel()

	c := NewConfig()
	if c.BatchSize != DefaultBatchSize {
		t.Errorf("BatchSize = %d, expected %d", c.BatchSize, DefaultBatchSize)
	}
	if c.DBDir == "" {
		t.Error("DBDir is empty, expected the XDG data directory")
	}
	if !c.SaveToDB {
		t.Error("SaveToDB = false, expected true")
	}
}

// TestValidate tests configuration validation sentinels.
func TestValidate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		mutate   func(*Config)
		expected error
	}{
		{
			name:     "valid",
			mutate:   func(c *Config) { c.GraphPaths = []string{"page.graphml"} },
			expected: nil,
		},
		{
			name:     "no graph",
			mutate:   func(*Config) {},
			expected: ErrNoGraph,
		},
		{
			name: "zero batch size",
			mutate: func(c *Config) {
				c.GraphPaths = []string{"page.graphml"}
				c.BatchSize = 0
			},
			expected: ErrInvalidBatchSize,
		},
		{
			name: "conflicting formats",
			mutate: func(c *Config) {
				c.GraphPaths = []string{"page.graphml"}
				c.JSONReport = true
				c.MarkdownReport = true
			},
			expected: ErrConflictingReportFormats,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			c := NewConfig()
			tc.mutate(c)
			if err := c.Validate(); !errors.Is(err, tc.expected) {
				t.Errorf("Validate() = %v, expected %v", err, tc.expected)
			}
		})
	}
}

// TestLoadConfigFile tests YAML config loading.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFile)
	content := `filters:
  - "||tracker.test^"
  - "/ads/$script"
filterFiles:
  - lists/easylist.txt
dbDir: /tmp/pagegraph-test
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cf, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile returned error: %v", err)
	}
	if len(cf.Filters) != 2 || cf.Filters[0] != "||tracker.test^" {
		t.Errorf("Filters = %v, expected the two configured rules", cf.Filters)
	}
	if len(cf.FilterFiles) != 1 || cf.FilterFiles[0] != "lists/easylist.txt" {
		t.Errorf("FilterFiles = %v, expected [lists/easylist.txt]", cf.FilterFiles)
	}
	if cf.DBDir != "/tmp/pagegraph-test" {
		t.Errorf("DBDir = %q, expected /tmp/pagegraph-test", cf.DBDir)
	}

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		if _, err := LoadConfigFile(filepath.Join(dir, "absent")); !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, expected ErrConfigNotFound", err)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		t.Parallel()
		bad := filepath.Join(dir, "bad.yaml")
		if err := os.WriteFile(bad, []byte("filters: [unclosed"), 0o600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
		if _, err := LoadConfigFile(bad); err == nil {
			t.Error("LoadConfigFile succeeded on invalid YAML")
		}
	})
}

// TestFindConfigFile tests the search order.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	explicit := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(explicit, []byte("filters: []\n"), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if got := FindConfigFile(explicit); got != explicit {
		t.Errorf("FindConfigFile(explicit) = %q, expected %q", got, explicit)
	}
	if got := FindConfigFile(filepath.Join(dir, "absent.yaml")); got != "" {
		t.Errorf("FindConfigFile(absent) = %q, expected empty", got)
	}
}

// TestLoadFilterFile tests filter list parsing.
func TestLoadFilterFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "list.txt")
	content := `[Adblock Plus 2.0]
! Title: test list
||tracker.test^

/ads/$script
! trailing comment
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write filter list: %v", err)
	}

	rules, err := LoadFilterFile(path)
	if err != nil {
		t.Fatalf("LoadFilterFile returned error: %v", err)
	}
	expected := []string{"||tracker.test^", "/ads/$script"}
	if len(rules) != 2 || rules[0] != expected[0] || rules[1] != expected[1] {
		t.Errorf("rules = %v, expected %v", rules, expected)
	}

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		if _, err := LoadFilterFile(filepath.Join(dir, "absent.txt")); err == nil {
			t.Error("LoadFilterFile succeeded on a missing file")
		}
	})
}

// TestAllFilterPatterns tests merging CLI patterns, config patterns, and
// filter files.
func TestAllFilterPatterns(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	listPath := filepath.Join(dir, "list.txt")
	if err := os.WriteFile(listPath, []byte("||fromfile.test^\n"), 0o600); err != nil {
		t.Fatalf("failed to write filter list: %v", err)
	}

	c := NewConfig()
	c.FilterPatterns = []string{"||cli.test^"}
	c.FileConfig = &File{
		Filters:     []string{"||config.test^"},
		FilterFiles: []string{listPath},
	}

	patterns, err := c.AllFilterPatterns()
	if err != nil {
		t.Fatalf("AllFilterPatterns returned error: %v", err)
	}
	expected := []string{"||cli.test^", "||config.test^", "||fromfile.test^"}
	if len(patterns) != 3 {
		t.Fatalf("patterns = %v, expected %v", patterns, expected)
	}
	for i := range expected {
		if patterns[i] != expected[i] {
			t.Errorf("patterns[%d] = %q, expected %q", i, patterns[i], expected[i])
		}
	}

	t.Run("missing filter file propagates", func(t *testing.T) {
		t.Parallel()
		c := NewConfig()
		c.FilterFiles = []string{filepath.Join(dir, "absent.txt")}
		if _, err := c.AllFilterPatterns(); err == nil {
			t.Error("AllFilterPatterns succeeded with a missing filter file")
		}
	})
}
