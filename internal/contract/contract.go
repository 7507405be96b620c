// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/gitpulse/schema"
)

// LogQuery narrows the history returned by GitClient.GetCommitLog.
// Zero values mean no restriction.
type LogQuery struct {
	Ref       string
	Start     time.Time
	End       time.Time
	Author    string // git --author pattern
	MaxCount  int
	WithStats bool // attach --numstat file entries
	Paths     []string
}

// GitClient defines the git operations the analyzers depend on.
// This allows the core logic to be tested without needing a real git executable.
type GitClient interface {
	// Run executes a git command and returns its output.
	Run(ctx context.Context, repoPath string, args ...string) ([]byte, error)

	// GetRepoHash returns the current HEAD commit hash of the repository.
	GetRepoHash(ctx context.Context, repoPath string) (string, error)

	// GetRepoRoot returns the absolute path to the root of the Git repository
	// containing the given context path.
	GetRepoRoot(ctx context.Context, contextPath string) (string, error)

	// GetCommitLog returns raw record-separated log output for the query.
	GetCommitLog(ctx context.Context, repoPath string, query LogQuery) ([]byte, error)
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetActivityStore() CacheStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}
