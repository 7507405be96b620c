package cmd

import (
	"github.com/huangsam/gitpulse/core"
	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/spf13/cobra"
)

// filesCmd aggregates per-file change statistics.
var filesCmd = &cobra.Command{
	Use:   "files [repo-path]",
	Short: "Show the files that change most often and most heavily.",
	Long: `Aggregate per-file change statistics from the numstat history.

Reports:
- Totals for insertions, deletions and net change
- Hotspots: files changed in the most commits
- Largest changes: files with the most changed lines
- Churn rates: changes per day since a file first appeared
- Collaboration hotspots: files touched by several authors

Examples:
  # Hotspots under a subdirectory
  gitpulse files ./internal --limit 20

  # Shared files with at least three authors
  gitpulse files --min-authors 3

  # Churn rates as of a fixed date
  gitpulse files --now 2024-06-30

  # Export per-file rows for later analysis
  gitpulse files --output parquet --output-file files.parquet`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteFiles(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run files analysis", err)
		}
	},
}
