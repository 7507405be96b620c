package agg

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
)

// headerFields is the number of separated fields in a commit header.
const headerFields = 7

// ParseCommitLog converts the output of contract.GitClient.GetCommitLog into
// commit records, preserving log order. Numstat lines after a header become
// the commit's file change entries.
func ParseCommitLog(out []byte) ([]schema.CommitRecord, error) {
	var commits []schema.CommitRecord
	for chunk := range strings.SplitSeq(string(out), contract.LogRecordStart) {
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		end := strings.Index(chunk, contract.LogRecordEnd)
		if end < 0 {
			return nil, fmt.Errorf("unterminated commit record %q", truncate(chunk, 40))
		}
		c, err := parseCommitHeader(chunk[:end])
		if err != nil {
			return nil, err
		}
		c.Files = parseNumstat(chunk[end+len(contract.LogRecordEnd):])
		commits = append(commits, c)
	}
	return commits, nil
}

// parseCommitHeader reads hash, author name, author email, strict ISO date,
// subject, ref decorations and body.
func parseCommitHeader(header string) (schema.CommitRecord, error) {
	parts := strings.SplitN(header, contract.LogFieldSep, headerFields)
	if len(parts) != headerFields {
		return schema.CommitRecord{}, fmt.Errorf("malformed commit header %q: want %d fields, got %d", truncate(header, 40), headerFields, len(parts))
	}
	ts, err := time.Parse(time.RFC3339, strings.TrimSpace(parts[3]))
	if err != nil {
		return schema.CommitRecord{}, fmt.Errorf("invalid date in commit %s: %w", parts[0], err)
	}
	return schema.CommitRecord{
		Hash:        strings.TrimSpace(parts[0]),
		AuthorName:  parts[1],
		AuthorEmail: parts[2],
		Timestamp:   ts,
		Subject:     parts[4],
		Refs:        parseRefs(parts[5]),
		Body:        strings.TrimSpace(parts[6]),
	}, nil
}

func parseRefs(s string) []string {
	var refs []string
	for r := range strings.SplitSeq(s, ",") {
		if r = strings.TrimSpace(r); r != "" {
			refs = append(refs, r)
		}
	}
	return refs
}

// parseNumstat reads "added<TAB>deleted<TAB>path" lines. Binary files report
// "-" for both counts. Lines that do not fit the shape are skipped.
func parseNumstat(block string) []schema.FileChangeEntry {
	var entries []schema.FileChangeEntry
	for line := range strings.SplitSeq(block, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "\t", 3)
		if len(parts) < 3 || parts[2] == "" {
			continue
		}
		path := resolveRenamePath(parts[2])
		if path == "" {
			continue
		}
		if parts[0] == "-" && parts[1] == "-" {
			entries = append(entries, schema.FileChangeEntry{Path: path, Binary: true})
			continue
		}
		ins, okIns := parseCount(parts[0])
		del, okDel := parseCount(parts[1])
		if !okIns || !okDel {
			continue
		}
		entries = append(entries, schema.FileChangeEntry{
			Path:       path,
			Changes:    ins + del,
			Insertions: ins,
			Deletions:  del,
		})
	}
	return entries
}

func parseCount(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// resolveRenamePath returns the destination of a numstat rename, handling
// both "old => new" and "dir/{old => new}/rest". Plain paths pass through.
func resolveRenamePath(path string) string {
	if !strings.Contains(path, " => ") {
		return path
	}
	open := strings.Index(path, "{")
	closing := strings.Index(path, "}")
	if open < 0 || closing < open {
		_, newPath, _ := strings.Cut(path, " => ")
		return newPath
	}
	_, newPart, found := strings.Cut(path[open+1:closing], " => ")
	if !found {
		return ""
	}
	// "{ => sub}/" and "{sub => }/" leave a doubled separator behind.
	return strings.ReplaceAll(path[:open]+newPart+path[closing+1:], "//", "/")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
