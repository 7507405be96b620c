package contract

import (
	"strings"
	"testing"
)

// FuzzShouldIgnore fuzzes the ShouldIgnore function with random paths and exclude patterns.
func FuzzShouldIgnore(f *testing.F) {
	seeds := []struct {
		path     string
		excludes string // comma-separated
	}{
		{"main.go", "*.log"},
		{"vendor/package/file.go", "vendor/"},
		{"test_file.min.js", "*.min.js"},
		{"config.json", ".json"},
		{"", ""},
		{"very/long/path/to/file.txt", "**/temp/**"},
		{"a[b].go", "[b"},
	}
	for _, seed := range seeds {
		f.Add(seed.path, seed.excludes)
	}

	f.Fuzz(func(t *testing.T, path string, excludesStr string) {
		var excludes []string
		for ex := range strings.SplitSeq(excludesStr, ",") {
			if trimmed := strings.TrimSpace(ex); trimmed != "" {
				excludes = append(excludes, trimmed)
			}
		}
		if ShouldIgnore(path, nil) {
			t.Errorf("nil excludes ignored %q", path)
		}
		_ = ShouldIgnore(path, excludes)
	})
}
