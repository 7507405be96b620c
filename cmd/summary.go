package cmd

import (
	"github.com/huangsam/gitpulse/core"
	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/spf13/cobra"
)

// summaryCmd runs both analyzers over one fetched history.
var summaryCmd = &cobra.Command{
	Use:   "summary [repo-path]",
	Short: "Show commit and file reports from a single pass over history.",
	Long: `Read the history once and render both the commits and files reports.

Parquet output writes two files next to --output-file: <name>.authors.parquet
and <name>.files.parquet.

Examples:
  # Everything for the last month
  gitpulse summary --start "1 month ago"

  # Machine-readable snapshot
  gitpulse summary --output json --output-file pulse.json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSummary(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run summary analysis", err)
		}
	},
}
