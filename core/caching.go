package core

import (
	"context"
	"crypto/sha256"
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/gitpulse/internal/contract"
)

// currentCacheVersion is bumped whenever the cached log format changes.
const currentCacheVersion = 1

// cacheTTL is how long a cached log stays usable.
const cacheTTL = 7 * 24 * time.Hour

// cachedCommitLog returns raw git log output for query, consulting the
// activity cache first. Only the raw bytes are cached, never results.
func cachedCommitLog(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager, query contract.LogQuery) ([]byte, error) {
	var activity contract.CacheStore
	if mgr != nil {
		activity = mgr.GetActivityStore()
	}
	if activity == nil {
		return client.GetCommitLog(ctx, cfg.RepoPath, query)
	}

	// An unreadable HEAD (for example an empty repository) is not cacheable.
	repoHash, err := client.GetRepoHash(ctx, cfg.RepoPath)
	if err != nil {
		contract.Logger.WithError(err).Debug("Skipping cache, HEAD is unavailable")
		return client.GetCommitLog(ctx, cfg.RepoPath, query)
	}
	key := generateCacheKey(cfg.RepoPath, repoHash, query)

	if data := checkCacheHit(activity, key, time.Now()); data != nil {
		contract.Logger.WithField("key", key[:12]).Debug("Cache hit")
		return data, nil
	}
	contract.Logger.WithField("key", key[:12]).Debug("Cache miss")
	return fetchAndStore(ctx, cfg, client, activity, key, query)
}

// checkCacheHit returns the cached bytes for key when the entry has the
// current version and is younger than cacheTTL.
func checkCacheHit(activity contract.CacheStore, key string, now time.Time) []byte {
	data, version, ts, err := activity.Get(key)
	if err != nil {
		return nil // Cache miss
	}
	if version != currentCacheVersion {
		return nil
	}
	if now.Sub(time.Unix(ts, 0)) > cacheTTL {
		return nil
	}
	return data
}

// fetchAndStore runs git and stores its output. A failed write only costs
// the next run a cache miss.
func fetchAndStore(ctx context.Context, cfg *contract.Config, client contract.GitClient, activity contract.CacheStore, key string, query contract.LogQuery) ([]byte, error) {
	data, err := client.GetCommitLog(ctx, cfg.RepoPath, query)
	if err != nil {
		return nil, err
	}
	if err := activity.Set(key, data, currentCacheVersion, time.Now().Unix()); err != nil {
		contract.LogWarn("Failed to store git log in cache", err)
	}
	return data, nil
}

// generateCacheKey hashes everything that determines the git log output.
// Time bounds use hour granularity so relative inputs like "30 days ago"
// map to the same key within an hour.
func generateCacheKey(repoPath, repoHash string, query contract.LogQuery) string {
	key := fmt.Sprintf("%s:%s:%s:%d:%d:%s:%d:%t:%s",
		repoPath,
		repoHash,
		query.Ref,
		hourUnix(query.Start),
		hourUnix(query.End),
		query.Author,
		query.MaxCount,
		query.WithStats,
		strings.Join(query.Paths, "\x00"),
	)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
}

func hourUnix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Truncate(time.Hour).Unix()
}
