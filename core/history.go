package core

import (
	"context"
	"time"

	"github.com/huangsam/gitpulse/core/agg"
	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
)

// LoadHistory fetches the commits selected by cfg, through the activity
// cache when one is configured. With stats, file entries are attached and
// narrowed by the path filter and exclude patterns. Fetch and parse
// failures are reported as *schema.DataSourceError.
func LoadHistory(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager, withStats bool) ([]schema.CommitRecord, error) {
	start := time.Now()
	query := buildLogQuery(cfg, withStats)

	raw, err := cachedCommitLog(ctx, cfg, client, mgr, query)
	if err != nil {
		return nil, &schema.DataSourceError{Op: "git log", Cause: err}
	}
	commits, err := agg.ParseCommitLog(raw)
	if err != nil {
		return nil, &schema.DataSourceError{Op: "parse git log", Cause: err}
	}
	if withStats {
		commits = filterFileEntries(commits, cfg.PathFilter, cfg.Excludes)
	}

	contract.Logger.WithField("commits", len(commits)).
		WithField("stats", withStats).
		WithField("elapsed", time.Since(start)).
		Debug("Loaded history")
	return commits, nil
}

// buildLogQuery maps the configured history window onto a git log query.
// The path filter is passed as a pathspec so commits outside it are skipped.
func buildLogQuery(cfg *contract.Config, withStats bool) contract.LogQuery {
	query := contract.LogQuery{
		Ref:       cfg.Ref,
		Start:     cfg.StartTime,
		End:       cfg.EndTime,
		Author:    cfg.Author,
		MaxCount:  cfg.MaxCount,
		WithStats: withStats,
	}
	if cfg.PathFilter != "" {
		query.Paths = []string{cfg.PathFilter}
	}
	return query
}

// filterFileEntries drops file entries outside the path filter or matching
// an exclude pattern. Commits are kept even when no entries remain, and the
// input slice is left untouched.
func filterFileEntries(commits []schema.CommitRecord, pathFilter string, excludes []string) []schema.CommitRecord {
	out := make([]schema.CommitRecord, len(commits))
	for i, c := range commits {
		var kept []schema.FileChangeEntry
		for _, f := range c.Files {
			if !contract.MatchesPathFilter(f.Path, pathFilter) || contract.ShouldIgnore(f.Path, excludes) {
				continue
			}
			kept = append(kept, f)
		}
		c.Files = kept
		out[i] = c
	}
	return out
}

// aggOptions derives analyzer options from the runtime configuration.
func aggOptions(cfg *contract.Config) agg.Options {
	return agg.Options{
		TopN:      cfg.ResultLimit,
		HourBasis: cfg.HourBasis,
		Workers:   cfg.Workers,
	}
}
