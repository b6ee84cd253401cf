// Package database provides SQLite-based storage for analysis results.
//
// This package implements the AnalysisDB, which stores:
//   - Complete page reports as JSON for historical comparison
//   - Per-resource rows so third-party domains can be queried across pages
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// databases because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Sufficient performance for our use case
// 4. WAL mode provides good concurrent read performance
//
// Reports are keyed by the page URL and by the SHA3-256 hash of the graph
// file, so re-analyzing an identical capture is detectable without parsing
// it.
package database
