package core

import (
	"strings"
	"time"

	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
)

func at(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

// logRecord renders one commit the way LocalGitClient.GetCommitLog does.
func logRecord(hash, name, email, ts string, numstat ...string) string {
	header := strings.Join([]string{hash, name, email, ts, "subject " + hash, "", ""}, contract.LogFieldSep)
	return contract.LogRecordStart + header + contract.LogRecordEnd + "\n" + strings.Join(numstat, "\n") + "\n"
}

// sampleLog is three commits, newest first, over two days of one week.
func sampleLog() []byte {
	return []byte(logRecord("c3", "Alice", "alice@example.com", "2024-03-06T10:30:00Z",
		"1\t1\tmain.go",
	) + logRecord("c2", "Bob", "bob@example.com", "2024-03-04T15:00:00Z",
		"5\t5\tmain.go",
		"3\t0\tdocs/guide.md",
	) + logRecord("c1", "Alice", "alice@example.com", "2024-03-04T10:00:00Z",
		"10\t0\tmain.go",
		"100\t0\tgo.sum",
	))
}

func testConfig() *contract.Config {
	return &contract.Config{
		RepoPath:    "/repo",
		ResultLimit: 10,
		ChurnLimit:  10,
		Workers:     1,
		HourBasis:   schema.UTCHour,
		MinAuthors:  2,
		Now:         at("2024-03-14T10:00:00Z"),
		Excludes:    []string{"go.sum"},
		Output:      schema.TextOut,
	}
}
