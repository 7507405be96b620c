package agg

import (
	"strings"
	"testing"

	"github.com/huangsam/gitpulse/internal/contract"
)

// FuzzParseCommitLog feeds arbitrary git log output to the parser. It must
// never panic, and whatever it accepts must be internally consistent.
func FuzzParseCommitLog(f *testing.F) {
	record := func(header string, numstat ...string) string {
		return contract.LogRecordStart + header + contract.LogRecordEnd + "\n" + strings.Join(numstat, "\n") + "\n"
	}
	header := strings.Join([]string{"abc", "Dev", "dev@x", "2024-01-02T03:04:05+09:00", "subject", "HEAD -> main", ""}, contract.LogFieldSep)

	f.Add(string(fixtureLog()))
	f.Add("")
	f.Add(record(header, "1\t2\tmain.go", "-\t-\tlogo.png", "3\t0\tdir/{old => new}/a.go"))
	f.Add(record(header, "x\ty\tbad", "\t\t", "4\t4\t"))
	f.Add(contract.LogRecordStart + "abc" + contract.LogFieldSep + "unterminated")

	f.Fuzz(func(t *testing.T, out string) {
		commits, err := ParseCommitLog([]byte(out))
		if err != nil {
			if commits != nil {
				t.Fatalf("partial result returned with error: %v", err)
			}
			return
		}
		if len(commits) > strings.Count(out, contract.LogRecordStart) {
			t.Fatalf("parsed %d commits from %d records", len(commits), strings.Count(out, contract.LogRecordStart))
		}
		for _, c := range commits {
			for _, e := range c.Files {
				if e.Path == "" {
					t.Fatalf("empty path in commit %q", c.Hash)
				}
				if e.Binary && e.Changes != 0 {
					t.Fatalf("binary entry %q reports %d changes", e.Path, e.Changes)
				}
				if e.Changes != e.Insertions+e.Deletions {
					t.Fatalf("entry %q: changes %d != %d + %d", e.Path, e.Changes, e.Insertions, e.Deletions)
				}
			}
		}
	})
}
