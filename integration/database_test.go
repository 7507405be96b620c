//go:build database

package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestGitpulseWithMySQL tests the gitpulse CLI with a MySQL cache backend.
func TestGitpulseWithMySQL(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "gitpulse",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/gitpulse", host, port.Port())
	exerciseCacheBackend(t, map[string]string{
		"GITPULSE_CACHE_BACKEND":    "mysql",
		"GITPULSE_CACHE_DB_CONNECT": connStr,
	})
}

// TestGitpulseWithPostgres tests the gitpulse CLI with a PostgreSQL cache backend.
func TestGitpulseWithPostgres(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()

	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres sslmode=disable", host, port.Port())
	exerciseCacheBackend(t, map[string]string{
		"GITPULSE_CACHE_BACKEND":    "postgresql",
		"GITPULSE_CACHE_DB_CONNECT": connStr,
	})
}

// exerciseCacheBackend walks the cache lifecycle against a live backend.
func exerciseCacheBackend(t *testing.T, env map[string]string) {
	repo := makeRepo(t)

	_, err := runGitpulse(t, repo, env, "cache", "clear")
	require.NoError(t, err)

	_, err = runGitpulse(t, repo, env, "files", "--limit", "5")
	require.NoError(t, err)

	status, err := runGitpulse(t, repo, env, "cache", "status")
	require.NoError(t, err)
	assert.Contains(t, status, "Connected: true")
	assert.Contains(t, status, "Schema Version: 2")
	assert.Contains(t, status, "Total Entries: 1")

	// A different query adds an entry; repeating one hits the cache.
	_, err = runGitpulse(t, repo, env, "commits")
	require.NoError(t, err)
	_, err = runGitpulse(t, repo, env, "files", "--limit", "5")
	require.NoError(t, err)
	status, err = runGitpulse(t, repo, env, "cache", "status")
	require.NoError(t, err)
	assert.Contains(t, status, "Total Entries: 2")

	_, err = runGitpulse(t, repo, env, "cache", "migrate", "--target-version", "1")
	require.NoError(t, err)
	status, err = runGitpulse(t, repo, env, "cache", "status")
	require.NoError(t, err)
	assert.Contains(t, status, "Schema Version: 2", "opening the store upgrades the schema again")

	_, err = runGitpulse(t, repo, env, "cache", "clear")
	require.NoError(t, err)
	status, err = runGitpulse(t, repo, env, "cache", "status")
	require.NoError(t, err)
	assert.Contains(t, status, "Total Entries: 0")
}
