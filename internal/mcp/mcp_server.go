// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Version is reported to MCP clients during initialization.
const Version = "1.0.0"

// NewMCPServer initializes and configures the gitpulse MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	return newServer(baseCfg, contract.NewLocalGitClient(), mgr)
}

func newServer(baseCfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"gitpulse Analysis Server",
		Version,
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		client:  client,
		mgr:     mgr,
	}

	repoPath := mcp.WithString("repo_path", mcp.Description("Path inside the Git repository (defaults to the configured repository)."))
	limit := mcp.WithNumber("limit", mcp.Description("Maximum number of ranked entries returned."))

	// --- 1. Tool: analyze_commits ---
	s.AddTool(mcp.NewTool("analyze_commits",
		mcp.WithDescription("Aggregate commit history into author rankings, the covered date range and hour, day and weekday histograms."),
		repoPath,
		limit,
		mcp.WithString("hour_basis", mcp.Description("Clock for hour buckets."), mcp.Enum("commit", "utc", "local")),
		mcp.WithString("author_email", mcp.Description("Only count commits by this email (case-insensitive).")),
		mcp.WithString("start", mcp.Description("Earliest commit to include (RFC3339 or '6 months ago').")),
		mcp.WithString("end", mcp.Description("Latest commit to include (RFC3339 or '1 week ago').")),
	), h.handleAnalyzeCommits)

	// --- 2. Tool: analyze_files ---
	s.AddTool(mcp.NewTool("analyze_files",
		mcp.WithDescription("Aggregate per-file change statistics with hotspot and largest-change rankings."),
		repoPath,
		limit,
		mcp.WithString("author_email", mcp.Description("Narrow the files list to files touched by this email.")),
		mcp.WithString("active_since", mcp.Description("Narrow the files list to files modified at or after this time.")),
		mcp.WithString("active_until", mcp.Description("Narrow the files list to files first seen at or before this time.")),
	), h.handleAnalyzeFiles)

	// --- 3. Tool: churn_rates ---
	s.AddTool(mcp.NewTool("churn_rates",
		mcp.WithDescription("Rank files by changes per day since they first appeared."),
		repoPath,
		limit,
		mcp.WithString("now", mcp.Description("Reference instant for file age (defaults to the current time).")),
	), h.handleChurnRates)

	// --- 4. Tool: collaboration_hotspots ---
	s.AddTool(mcp.NewTool("collaboration_hotspots",
		mcp.WithDescription("List files touched by at least min_authors distinct authors, most shared first."),
		repoPath,
		limit,
		mcp.WithNumber("min_authors", mcp.Description("Minimum distinct authors (defaults to 2).")),
	), h.handleCollaborationHotspots)

	return s
}

// StartMCPServer serves the gitpulse tools over stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
