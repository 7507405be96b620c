package cmd

import (
	"github.com/huangsam/gitpulse/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp [repo-path]",
	Short: "Start the gitpulse MCP server",
	Long: `Launch an MCP server over stdio so AI agents can run gitpulse analyses as tools.

Tools: analyze_commits, analyze_files, churn_rates, collaboration_hotspots.
Global flags set the defaults; each tool call may override the repository and limit.`,
	Args: cobra.MaximumNArgs(1),
	// Logs go to stderr, so stdout stays reserved for the protocol.
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}
