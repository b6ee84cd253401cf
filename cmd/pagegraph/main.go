// Package main provides the entry point for the pagegraph CLI.
//
// pagegraph analyzes page-load provenance graphs recorded by browsers in
// GraphML form. It attributes network requests to the scripts that caused
// them, surfaces heavily modified DOM elements, and matches recorded
// requests against adblock filter rules.
//
// Usage:
//
//	pagegraph analyze <capture.graphml>
//	pagegraph analyze --filter "||tracker.example^" <capture.graphml>
//
// See --help for all available options.
package main

// main is the entry point for pagegraph.
func main() {
	Execute()
}
