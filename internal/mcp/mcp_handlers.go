package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/gitpulse/core"
	"github.com/huangsam/gitpulse/core/agg"
	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	client  contract.GitClient
	mgr     contract.CacheManager
}

// churnResult pairs churn rates with raw churn for the same files.
type churnResult struct {
	ReferenceTime time.Time          `json:"reference_time"`
	ChurnRates    []schema.ChurnRate `json:"churn_rates"`
	Churn         map[string]int     `json:"churn"`
}

// collaborationResult is the payload of the collaboration_hotspots tool.
type collaborationResult struct {
	MinAuthors int               `json:"min_authors"`
	Files      []schema.FileStat `json:"files"`
}

// configFor clones the base config and applies the arguments every tool shares.
func (h *toolHandler) configFor(ctx context.Context, request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	if err := cfg.ResolveTimes(time.Now()); err != nil {
		return nil, err
	}
	if p := request.GetString("repo_path", ""); p != "" {
		root, err := h.client.GetRepoRoot(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("invalid repo_path: %w", err)
		}
		cfg.RepoPath = root
		cfg.PathFilter = ""
	}
	if l := request.GetInt("limit", 0); l > 0 {
		if l > contract.MaxResultLimit {
			return nil, fmt.Errorf("limit cannot exceed %d", contract.MaxResultLimit)
		}
		cfg.ResultLimit = l
		cfg.ChurnLimit = l
	}
	return cfg, nil
}

// optionalTime parses a time argument, returning the zero time when absent.
func optionalTime(request mcp.CallToolRequest, key string, now time.Time) (time.Time, error) {
	s := request.GetString(key, "")
	if s == "" {
		return time.Time{}, nil
	}
	t, err := contract.ParseTimeInput(s, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s: %w", key, err)
	}
	return t, nil
}

func (h *toolHandler) handleAnalyzeCommits(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if b := request.GetString("hour_basis", ""); b != "" {
		basis, err := contract.ValidateHourBasis(b)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		cfg.HourBasis = basis
	}
	now := time.Now()
	start, err := optionalTime(request, "start", now)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	end, err := optionalTime(request, "end", now)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	commits, err := core.LoadHistory(ctx, cfg, h.client, h.mgr, false)
	if err != nil {
		return toolError("analysis failed", err), nil
	}
	if email := request.GetString("author_email", ""); email != "" {
		commits = agg.FilterCommitsByAuthor(commits, email)
	}
	if !start.IsZero() || !end.IsZero() {
		if end.IsZero() {
			end = now
		}
		commits = agg.FilterCommitsByDateRange(commits, start, end)
	}

	report, err := core.BuildCommitReport(commits, cfg)
	if err != nil {
		return toolError("analysis failed", err), nil
	}
	return jsonResult(report)
}

func (h *toolHandler) handleAnalyzeFiles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	now := time.Now()
	since, err := optionalTime(request, "active_since", now)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	until, err := optionalTime(request, "active_until", now)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	commits, err := core.LoadHistory(ctx, cfg, h.client, h.mgr, true)
	if err != nil {
		return toolError("analysis failed", err), nil
	}
	report, err := core.BuildFileReport(commits, cfg)
	if err != nil {
		return toolError("analysis failed", err), nil
	}

	if email := request.GetString("author_email", ""); email != "" {
		report.Files = agg.FilterFilesByAuthor(report.Files, email)
	}
	if !since.IsZero() || !until.IsZero() {
		if until.IsZero() {
			until = now
		}
		report.Files = agg.FilterFilesByDateRange(report.Files, since, until)
	}
	return jsonResult(report)
}

func (h *toolHandler) handleChurnRates(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ref, err := optionalTime(request, "now", cfg.Now)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !ref.IsZero() {
		cfg.Now = ref
	}

	commits, err := core.LoadHistory(ctx, cfg, h.client, h.mgr, true)
	if err != nil {
		return toolError("analysis failed", err), nil
	}
	result, err := agg.AnalyzeFiles(commits, agg.Options{TopN: cfg.ResultLimit, Workers: cfg.Workers})
	if err != nil {
		return toolError("analysis failed", err), nil
	}

	rates := agg.ChurnRates(result.Files, cfg.Now, cfg.ChurnLimit)
	ranked := make([]schema.FileStat, 0, len(rates))
	byPath := make(map[string]schema.FileStat, len(result.Files))
	for _, f := range result.Files {
		byPath[f.Path] = f
	}
	for _, r := range rates {
		ranked = append(ranked, byPath[r.Path])
	}
	return jsonResult(churnResult{
		ReferenceTime: cfg.Now,
		ChurnRates:    rates,
		Churn:         agg.ChurnMetrics(ranked),
	})
}

func (h *toolHandler) handleCollaborationHotspots(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	minAuthors := request.GetInt("min_authors", cfg.MinAuthors)
	if minAuthors < 1 {
		return mcp.NewToolResultError(fmt.Sprintf("min_authors must be at least 1 (received %d)", minAuthors)), nil
	}

	commits, err := core.LoadHistory(ctx, cfg, h.client, h.mgr, true)
	if err != nil {
		return toolError("analysis failed", err), nil
	}
	result, err := agg.AnalyzeFiles(commits, agg.Options{TopN: cfg.ResultLimit, Workers: cfg.Workers})
	if err != nil {
		return toolError("analysis failed", err), nil
	}

	files := agg.CollaborationHotspots(result.Files, minAuthors)
	if cfg.ResultLimit > 0 && len(files) > cfg.ResultLimit {
		files = files[:cfg.ResultLimit]
	}
	return jsonResult(collaborationResult{MinAuthors: minAuthors, Files: files})
}

// toolError reports a failure to the client with its error kind so agents
// can tell empty history apart from git problems.
func toolError(msg string, err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("%s (%s): %v", msg, schema.ErrorKindOf(err), err))
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
