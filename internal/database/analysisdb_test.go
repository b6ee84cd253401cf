package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pagegraph/pagegraph/internal/model"
)

func openTestDB(t *testing.T) *AnalysisDB {
	t.Helper()
	adb, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() {
		if err := adb.Close(); err != nil {
			t.Errorf("Close returned error: %v", err)
		}
	})
	return adb
}

func sampleReport(pageURL, graphHash string) *model.PageReport {
	report := model.NewPageReport("captures/page.graphml")
	report.PageURL = pageURL
	report.GraphHash = graphHash
	report.NodeCount = 42
	report.EdgeCount = 77
	report.ThirdParty = []model.ThirdPartyDomain{
		{
			Domain:       "tracker.test",
			ResourceURLs: []string{"http://cdn.tracker.test/app.js", "http://cdn.tracker.test/pixel.gif"},
		},
	}
	return report
}

// TestOpenRequiresExistingDatabase tests the CreateIfNotExists=false path.
func TestOpenRequiresExistingDatabase(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	opts := DefaultOptions()
	opts.CreateIfNotExists = false

	if _, err := Open(dir, opts); err == nil {
		t.Error("Open succeeded without an existing database file")
	}

	// Create it, then the strict open should succeed.
	adb, err := Open(dir, DefaultOptions())
	if err != nil {
		t.Fatalf("Open (create) returned error: %v", err)
	}
	if err := adb.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	adb, err = Open(dir, opts)
	if err != nil {
		t.Fatalf("Open (strict) returned error: %v", err)
	}
	if err := adb.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
}

// TestSaveAndRetrieveReport tests the round trip through report storage.
func TestSaveAndRetrieveReport(t *testing.T) {
	t.Parallel()

	adb := openTestDB(t)
	ctx := context.Background()

	original := sampleReport("http://a.test/", "hash-1")
	if err := adb.SaveReport(ctx, original); err != nil {
		t.Fatalf("SaveReport returned error: %v", err)
	}

	loaded, err := adb.LatestReport(ctx, "http://a.test/")
	if err != nil {
		t.Fatalf("LatestReport returned error: %v", err)
	}
	if loaded == nil {
		t.Fatal("LatestReport returned nil for a stored page")
	}
	if loaded.PageURL != original.PageURL || loaded.GraphHash != original.GraphHash {
		t.Errorf("loaded = (%q, %q), expected (%q, %q)",
			loaded.PageURL, loaded.GraphHash, original.PageURL, original.GraphHash)
	}
	if loaded.NodeCount != 42 || loaded.EdgeCount != 77 {
		t.Errorf("counts = (%d, %d), expected (42, 77)", loaded.NodeCount, loaded.EdgeCount)
	}
	if loaded.TotalThirdPartyResources() != 2 {
		t.Errorf("TotalThirdPartyResources = %d, expected 2", loaded.TotalThirdPartyResources())
	}

	t.Run("unknown page yields nil without error", func(t *testing.T) {
		t.Parallel()
		report, err := adb.LatestReport(ctx, "http://never.test/")
		if err != nil {
			t.Fatalf("LatestReport returned error: %v", err)
		}
		if report != nil {
			t.Errorf("report = %+v, expected nil", report)
		}
	})
}

// TestReportHistory tests ordering and metadata of repeated analyses.
func TestReportHistory(t *testing.T) {
	t.Parallel()

	adb := openTestDB(t)
	ctx := context.Background()

	for _, hash := range []string{"hash-1", "hash-2"} {
		if err := adb.SaveReport(ctx, sampleReport("http://a.test/", hash)); err != nil {
			t.Fatalf("SaveReport(%s) returned error: %v", hash, err)
		}
	}

	history, err := adb.ReportHistory(ctx, "http://a.test/")
	if err != nil {
		t.Fatalf("ReportHistory returned error: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("got %d reports, expected 2", len(history))
	}
	// Newest first: hash-2 was saved last.
	if history[0].GraphHash != "hash-2" || history[1].GraphHash != "hash-1" {
		t.Errorf("order = [%s %s], expected newest first", history[0].GraphHash, history[1].GraphHash)
	}

	meta, err := adb.HistoryMetadata(ctx, "http://a.test/")
	if err != nil {
		t.Fatalf("HistoryMetadata returned error: %v", err)
	}
	if len(meta) != 2 {
		t.Fatalf("got %d metadata rows, expected 2", len(meta))
	}
	if meta[0].GraphHash != "hash-2" {
		t.Errorf("metadata order = %s first, expected hash-2", meta[0].GraphHash)
	}
	if meta[0].Summary["nodes"] != 42 {
		t.Errorf("Summary[nodes] = %d, expected 42", meta[0].Summary["nodes"])
	}
	if meta[0].Timestamp.IsZero() {
		t.Error("metadata timestamp is zero")
	}
}

// TestListPagesAndHasAnalysis tests the page index and hash lookup.
func TestListPagesAndHasAnalysis(t *testing.T) {
	t.Parallel()

	adb := openTestDB(t)
	ctx := context.Background()

	if err := adb.SaveReport(ctx, sampleReport("http://b.test/", "hash-b")); err != nil {
		t.Fatalf("SaveReport returned error: %v", err)
	}
	if err := adb.SaveReport(ctx, sampleReport("http://a.test/", "hash-a")); err != nil {
		t.Fatalf("SaveReport returned error: %v", err)
	}

	pages, err := adb.ListPages(ctx)
	if err != nil {
		t.Fatalf("ListPages returned error: %v", err)
	}
	if len(pages) != 2 || pages[0] != "http://a.test/" || pages[1] != "http://b.test/" {
		t.Errorf("pages = %v, expected sorted [a.test b.test]", pages)
	}

	has, err := adb.HasAnalysis(ctx, "hash-a")
	if err != nil {
		t.Fatalf("HasAnalysis returned error: %v", err)
	}
	if !has {
		t.Error("HasAnalysis(hash-a) = false, expected true")
	}

	has, err = adb.HasAnalysis(ctx, "hash-unknown")
	if err != nil {
		t.Fatalf("HasAnalysis returned error: %v", err)
	}
	if has {
		t.Error("HasAnalysis(hash-unknown) = true, expected false")
	}
}

// TestPagesUsingDomain tests the cross-page third-party query.
func TestPagesUsingDomain(t *testing.T) {
	t.Parallel()

	adb := openTestDB(t)
	ctx := context.Background()

	if err := adb.SaveReport(ctx, sampleReport("http://a.test/", "hash-a")); err != nil {
		t.Fatalf("SaveReport returned error: %v", err)
	}
	if err := adb.SaveReport(ctx, sampleReport("http://b.test/", "hash-b")); err != nil {
		t.Fatalf("SaveReport returned error: %v", err)
	}

	clean := model.NewPageReport("captures/clean.graphml")
	clean.PageURL = "http://c.test/"
	if err := adb.SaveReport(ctx, clean); err != nil {
		t.Fatalf("SaveReport returned error: %v", err)
	}

	pages, err := adb.PagesUsingDomain(ctx, "tracker.test")
	if err != nil {
		t.Fatalf("PagesUsingDomain returned error: %v", err)
	}
	if len(pages) != 2 || pages[0] != "http://a.test/" || pages[1] != "http://b.test/" {
		t.Errorf("pages = %v, expected the two tracker-using pages", pages)
	}
}

// TestHashGraphFile tests the content hash used for re-analysis detection.
func TestHashGraphFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "page.graphml")
	if err := os.WriteFile(path, []byte("<graphml/>"), 0o600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	first, err := HashGraphFile(path)
	if err != nil {
		t.Fatalf("HashGraphFile returned error: %v", err)
	}
	if len(first) != 64 {
		t.Errorf("hash length = %d, expected 64 hex characters", len(first))
	}

	again, err := HashGraphFile(path)
	if err != nil {
		t.Fatalf("HashGraphFile returned error: %v", err)
	}
	if first != again {
		t.Error("hash not deterministic for identical content")
	}

	other := filepath.Join(dir, "other.graphml")
	if err := os.WriteFile(other, []byte("<graphml></graphml>"), 0o600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	different, err := HashGraphFile(other)
	if err != nil {
		t.Fatalf("HashGraphFile returned error: %v", err)
	}
	if different == first {
		t.Error("different content produced the same hash")
	}

	if _, err := HashGraphFile(filepath.Join(dir, "missing.graphml")); err == nil {
		t.Error("HashGraphFile succeeded on a missing file")
	}
}

// TestParseTimestamp tests the SQLite timestamp format fallbacks.
func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		input string
		zero  bool
	}{
		{"sqlite default", "2026-08-23 10:30:00", false},
		{"iso with Z", "2026-08-23T10:30:00Z", false},
		{"rfc3339", "2026-08-23T10:30:00+09:00", false},
		{"garbage", "not a timestamp", true},
		{"empty", "", true},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := parseTimestamp(tc.input)
			if got.IsZero() != tc.zero {
				t.Errorf("parseTimestamp(%q).IsZero() = %v, expected %v", tc.input, got.IsZero(), tc.zero)
			}
			if !tc.zero && got.Year() != 2026 {
				t.Errorf("year = %d, expected 2026", got.Year())
			}
		})
	}
}
