package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/internal/iocache"
	"github.com/huangsam/gitpulse/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cacheConfig loads and validates the cache backend settings only.
func cacheConfig() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(strings.ToLower(viper.GetString("cache-backend")))
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	connStr := viper.GetString("cache-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr
	return nil
}

// cacheSetup loads minimal configuration needed for cache operations.
// This is used by commands that need cache access without full shared setup.
func cacheSetup() error {
	if err := cacheConfig(); err != nil {
		return err
	}
	if err := iocache.InitStores(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	return nil
}

// cacheSetupWrapper wraps cacheSetup to provide PreRunE for cache commands.
func cacheSetupWrapper(_ *cobra.Command, _ []string) error {
	return cacheSetup()
}

// sqliteFilePath is the file removed by cache clear for the sqlite backend.
func sqliteFilePath() string {
	if cfg.CacheDBConnect != "" {
		return cfg.CacheDBConnect
	}
	return iocache.GetDBFilePath()
}

// cacheCmd focused on cache management.
//
// Note: Cache subcommands use minimal initialization instead of the full
// sharedSetup used by analysis commands. This avoids Git repo validation
// and complex config processing for simple cache operations.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the Git history cache (improves performance)",
	Long: `Manage the cache that stores raw git log output between runs.

Entries are keyed by repository, HEAD commit and query, so new commits
naturally miss the cache. Entries expire after seven days.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show cache statistics and connection info
  clear   - Remove all cached data
  migrate - Move the cache schema to a given version

Examples:
  # Check cache status
  gitpulse cache status

  # Clear cache after rewriting history
  gitpulse cache clear`,
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached Git history",
	Long: `Delete all cached git log output from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the cache and migration tables

Examples:
  # Clear SQLite cache (default)
  gitpulse cache clear

  # Clear MySQL cache (set connection string via env variable)
  GITPULSE_CACHE_BACKEND=mysql GITPULSE_CACHE_DB_CONNECT="..." gitpulse cache clear`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return cacheConfig()
	},
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearCache(cfg.CacheBackend, sqliteFilePath(), cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		fmt.Println("Cache cleared successfully.")
	},
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and connection details",
	Long: `Show detailed information about the Git history cache.

Displays:
- Backend type and connection status
- Schema version
- Total number of cached entries
- Last and oldest cache entry timestamps
- Cache table size

Examples:
  # Check cache status
  gitpulse cache status`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		var status schema.CacheStatus
		if store := iocache.Manager.GetActivityStore(); store != nil {
			var err error
			if status, err = store.GetStatus(); err != nil {
				contract.LogFatal("Failed to get cache status", err)
			}
		} else {
			status.Backend = string(cfg.CacheBackend)
		}
		iocache.PrintCacheStatus(os.Stdout, status)
	},
}

// cacheMigrateCmd runs cache schema migrations.
var cacheMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run cache schema migrations (upgrades/downgrades)",
	Long: `Manage schema versions for the cache backend.

By default, migrates to the latest version. Use --target-version for specific versions.
Normal analysis runs upgrade the schema automatically.

Examples:
  # Migrate to latest version (default)
  gitpulse cache migrate

  # Drop the lookup index added in version 2
  gitpulse cache migrate --target-version 1

  # Roll back everything
  gitpulse cache migrate --target-version 0`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return cacheConfig()
	},
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateCache(cfg.CacheBackend, cfg.CacheDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
