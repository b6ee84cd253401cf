// Package main provides the entry point for the pagegraph CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for pagegraph.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pagegraph",
		Short: "Analyzer for page-load provenance graphs",
		Long: `pagegraph analyzes page-load provenance graphs (.graphml captures).

A capture records every DOM node, script, and network request of one page
load, together with the causal edges between them. pagegraph attributes
requests to the scripts that caused them, ranks the most modified DOM
elements, groups third-party resources by registrable domain, and matches
recorded requests against adblock filter rules.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewAnalyzeCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
