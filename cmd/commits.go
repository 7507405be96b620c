package cmd

import (
	"github.com/huangsam/gitpulse/core"
	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/spf13/cobra"
)

// commitsCmd aggregates commits by author, hour and day.
var commitsCmd = &cobra.Command{
	Use:   "commits [repo-path]",
	Short: "Rank authors and show when commits happen.",
	Long: `Aggregate the commit history into author rankings and activity histograms.

Reports:
- Total commits and the covered date range
- Top authors by commit count with their share of history
- Commits per hour of day and per day of week
- Average commits per active day

Examples:
  # Top 5 authors over the last quarter
  gitpulse commits --start "3 months ago" --limit 5

  # Bucket hours in UTC instead of each commit's own offset
  gitpulse commits --hour-basis utc

  # Export author rankings for a spreadsheet
  gitpulse commits --output csv --output-file authors.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCommits(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run commit analysis", err)
		}
	},
}
