package contract

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// skipIfGitNotAvailable skips the test if git binary is not found in PATH
func skipIfGitNotAvailable(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skipf("git binary not found in PATH: %v", err)
	}
}

func mkdirAll(path string) error {
	return os.MkdirAll(path, 0o755)
}

func TestMockGitClient_Run(t *testing.T) {
	mockClient := new(MockGitClient)
	ctx := context.Background()
	expectedOutput := []byte("a1b2c3d commit message")
	expectedError := errors.New("mocked git error")

	mockClient.On("Run", ctx, "/path/to/repo", "log", "-1", "--oneline").Return(expectedOutput, expectedError).Once()

	out, err := mockClient.Run(ctx, "/path/to/repo", "log", "-1", "--oneline")
	assert.Equal(t, expectedOutput, out)
	assert.Equal(t, expectedError, err)
	mockClient.AssertExpectations(t)
}

func TestMockGitClient_GetCommitLog(t *testing.T) {
	mockClient := new(MockGitClient)
	ctx := context.Background()
	query := LogQuery{Ref: "main", WithStats: true}

	mockClient.On("GetCommitLog", ctx, "/repo", query).Return(nil, errors.New("boom"))

	out, err := mockClient.GetCommitLog(ctx, "/repo", query)
	assert.Nil(t, out)
	assert.EqualError(t, err, "boom")
}

func TestBuildLogArgs(t *testing.T) {
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC)

	t.Run("bare query", func(t *testing.T) {
		args := BuildLogArgs(LogQuery{})
		assert.Equal(t, []string{"log", "--no-color", "--pretty=format:" + commitLogFormat}, args)
	})

	t.Run("full query", func(t *testing.T) {
		args := BuildLogArgs(LogQuery{
			Ref:       "release",
			Start:     start,
			End:       end,
			Author:    "alice",
			MaxCount:  50,
			WithStats: true,
			Paths:     []string{"cmd/"},
		})
		assert.Equal(t, []string{
			"log",
			"--no-color",
			"--pretty=format:" + commitLogFormat,
			"--numstat",
			"--since=2024-01-01T00:00:00Z",
			"--until=2024-06-30T00:00:00Z",
			"--author=alice",
			"--max-count=50",
			"release",
			"--",
			"cmd/",
		}, args)
	})
}

func TestLocalGitClient(t *testing.T) {
	skipIfGitNotAvailable(t)

	ctx := context.Background()
	repo := t.TempDir()
	client := NewLocalGitClient()

	git := func(args ...string) {
		cmd := exec.Command("git", append([]string{"-C", repo}, args...)...)
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=Alice", "GIT_AUTHOR_EMAIL=alice@example.com",
			"GIT_COMMITTER_NAME=Alice", "GIT_COMMITTER_EMAIL=alice@example.com",
			"GIT_AUTHOR_DATE=2024-03-01T10:00:00+02:00", "GIT_COMMITTER_DATE=2024-03-01T10:00:00+02:00",
		)
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, string(out))
	}

	git("init", "-q")
	require.NoError(t, os.WriteFile(filepath.Join(repo, "a.txt"), []byte("one\ntwo\n"), 0o644))
	git("add", "a.txt")
	git("commit", "-q", "-m", "first")

	root, err := client.GetRepoRoot(ctx, repo)
	require.NoError(t, err)
	resolved, _ := filepath.EvalSymlinks(repo)
	assert.Equal(t, resolved, root)

	hash, err := client.GetRepoHash(ctx, repo)
	require.NoError(t, err)
	assert.Len(t, hash, 40)

	out, err := client.GetCommitLog(ctx, repo, LogQuery{WithStats: true})
	require.NoError(t, err)
	assert.Contains(t, string(out), LogRecordStart+hash+LogFieldSep+"Alice"+LogFieldSep+"alice@example.com")
	assert.Contains(t, string(out), "2024-03-01T10:00:00+02:00")
	assert.Contains(t, string(out), "2\t0\ta.txt")

	_, err = client.Run(ctx, t.TempDir(), "rev-parse", "HEAD")
	assert.Error(t, err)
}
