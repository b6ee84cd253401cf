// Package config provides configuration structures and utilities for the
// pagegraph analyzer. It defines the main options for graph analysis,
// filter rule loading, and report generation preferences.
package config
