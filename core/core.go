// Package core wires the git data source, the activity cache and the
// aggregation engine together for the CLI and the MCP server.
package core

import (
	"context"
	"time"

	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/internal/outwriter"
	"github.com/huangsam/gitpulse/schema"
)

// ExecutorFunc defines the function signature for executing different analyses.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// ExecuteCommits runs the commit analysis and prints the report.
// It serves as the main entry point for the 'commits' command.
func ExecuteCommits(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	report, err := GetCommitReport(ctx, cfg, contract.NewLocalGitClient(), mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintCommitReport(report, cfg, time.Since(start))
}

// ExecuteFiles runs the file analysis and prints the report.
// It serves as the main entry point for the 'files' command.
func ExecuteFiles(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	report, err := GetFileReport(ctx, cfg, contract.NewLocalGitClient(), mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintFileReport(report, cfg, time.Since(start))
}

// ExecuteSummary runs both analyses over one fetched history and prints them.
func ExecuteSummary(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	report, err := GetSummaryReport(ctx, cfg, contract.NewLocalGitClient(), mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintSummaryReport(report, cfg, time.Since(start))
}

// GetCommitReport loads history without file stats and builds the commit report.
func GetCommitReport(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) (*schema.CommitReport, error) {
	commits, err := loadWithHeader(ctx, cfg, client, mgr, false)
	if err != nil {
		return nil, err
	}
	return BuildCommitReport(commits, cfg)
}

// GetFileReport loads history with file stats and builds the file report.
func GetFileReport(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) (*schema.FileReport, error) {
	commits, err := loadWithHeader(ctx, cfg, client, mgr, true)
	if err != nil {
		return nil, err
	}
	return BuildFileReport(commits, cfg)
}

// GetSummaryReport loads history with file stats once and builds both reports.
func GetSummaryReport(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) (*schema.SummaryReport, error) {
	commits, err := loadWithHeader(ctx, cfg, client, mgr, true)
	if err != nil {
		return nil, err
	}
	return BuildSummaryReport(commits, cfg)
}

func loadWithHeader(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager, withStats bool) ([]schema.CommitRecord, error) {
	if !shouldSuppressHeader(ctx) {
		outwriter.LogAnalysisHeader(cfg)
	}
	return LoadHistory(ctx, cfg, client, mgr, withStats)
}
