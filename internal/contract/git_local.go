package contract

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Separators used in the commit log format. They are ASCII control
// characters that cannot appear in names, emails or subjects.
const (
	LogRecordStart = "\x1e"
	LogFieldSep    = "\x1f"
	LogRecordEnd   = "\x1d"
)

// commitLogFormat emits hash, author name, author email, strict ISO date,
// subject, decorations and body for each commit.
const commitLogFormat = "%x1e%H%x1f%an%x1f%ae%x1f%aI%x1f%s%x1f%D%x1f%b%x1d"

// LocalGitClient implements the GitClient interface by executing the
// local 'git' binary installed on the machine.
type LocalGitClient struct{}

var _ GitClient = &LocalGitClient{} // Compile-time check

// NewLocalGitClient creates a new instance of the local Git client.
func NewLocalGitClient() *LocalGitClient {
	return &LocalGitClient{}
}

// Run executes a git command and returns its stdout.
func (c *LocalGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	fullArgs := append([]string{"-C", repoPath}, args...)
	cmd := exec.CommandContext(ctx, "git", fullArgs...)
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		return nil, fmt.Errorf("git command failed in %q: %s. If this is not a Git repository, verify the path or run 'git init'", repoPath, stderr)
	} else if err != nil {
		return nil, fmt.Errorf("git command failed: %w. Ensure Git is installed and available on your PATH", err)
	}
	return out, nil
}

// GetRepoHash implements the GitClient interface.
func (c *LocalGitClient) GetRepoHash(ctx context.Context, repoPath string) (string, error) {
	out, err := c.Run(ctx, repoPath, "rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// GetRepoRoot implements the GitClient interface.
func (c *LocalGitClient) GetRepoRoot(ctx context.Context, contextPath string) (string, error) {
	out, err := c.Run(ctx, contextPath, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// GetCommitLog implements the GitClient interface.
func (c *LocalGitClient) GetCommitLog(ctx context.Context, repoPath string, query LogQuery) ([]byte, error) {
	return c.Run(ctx, repoPath, BuildLogArgs(query)...)
}

// BuildLogArgs translates a query into git log arguments.
func BuildLogArgs(query LogQuery) []string {
	args := []string{
		"log",
		"--no-color",
		"--pretty=format:" + commitLogFormat,
	}
	if query.WithStats {
		args = append(args, "--numstat")
	}
	if !query.Start.IsZero() {
		args = append(args, "--since="+query.Start.Format(DateTimeFormat))
	}
	if !query.End.IsZero() {
		args = append(args, "--until="+query.End.Format(DateTimeFormat))
	}
	if query.Author != "" {
		args = append(args, "--author="+query.Author)
	}
	if query.MaxCount > 0 {
		args = append(args, "--max-count="+strconv.Itoa(query.MaxCount))
	}
	if query.Ref != "" {
		args = append(args, query.Ref)
	}
	if len(query.Paths) > 0 {
		args = append(args, "--")
		args = append(args, query.Paths...)
	}
	return args
}
