package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// Activity label constants.
const (
	CoreValue       = "Core"       // Core contributor or file
	RegularValue    = "Regular"    // Regular contributor or file
	OccasionalValue = "Occasional" // Occasional contributor or file
)

// Color variables for console output.
var (
	CoreColor       = color.New(color.FgRed, color.Bold)
	RegularColor    = color.New(color.FgYellow)
	OccasionalColor = color.New(color.FgCyan)
	HeaderColor     = color.New(color.FgGreen, color.Bold)
)

// GetPlainLabel classifies a share of all activity, in percent.
// Used for CSV, JSON and table output.
func GetPlainLabel(sharePct float64) string {
	switch {
	case sharePct >= 20:
		return CoreValue
	case sharePct >= 5:
		return RegularValue
	default:
		return OccasionalValue
	}
}

// GetColorLabel returns the label from GetPlainLabel colored for terminals.
func GetColorLabel(sharePct float64) string {
	text := GetPlainLabel(sharePct)
	switch text {
	case CoreValue:
		return CoreColor.Sprint(text)
	case RegularValue:
		return RegularColor.Sprint(text)
	default:
		return OccasionalColor.Sprint(text)
	}
}

// SharePct returns part as a percentage of total, or 0 when total is 0.
func SharePct(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) * 100 / float64(total)
}

// SelectOutputFile returns stdout for an empty path and a new file otherwise.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// ShouldIgnore reports whether path matches any exclude pattern.
// Patterns with glob characters go through filepath.Match against the full
// path and the base name. Patterns ending in '/' match directories, patterns
// starting with '.' match as suffixes. Anything else must equal whole path
// segments, so "go.sum" skips "web/go.sum" but not "docs/go.summary.md".
func ShouldIgnore(path string, excludes []string) bool {
	for _, ex := range excludes {
		ex = strings.TrimSpace(ex)
		switch {
		case ex == "":
			continue
		case strings.ContainsAny(ex, "*?["):
			pat := strings.ReplaceAll(ex, "**", "*")
			if globMatch(pat, path) || globMatch(pat, filepath.Base(path)) {
				return true
			}
		case strings.HasSuffix(ex, "/"):
			if strings.HasPrefix(path, ex) || strings.Contains(path, "/"+ex) {
				return true
			}
		case strings.HasPrefix(ex, "."):
			if strings.HasSuffix(path, ex) {
				return true
			}
		case strings.Contains("/"+path+"/", "/"+strings.Trim(ex, "/")+"/"):
			return true
		}
	}
	return false
}

func globMatch(pattern, name string) bool {
	ok, err := filepath.Match(pattern, name)
	return err == nil && ok
}

// MatchesPathFilter reports whether path falls under the filter prefix.
// An empty filter matches everything.
func MatchesPathFilter(path, filter string) bool {
	return filter == "" || strings.HasPrefix(path, filter)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".gitpulse_cache.db"
	}
	return filepath.Join(homeDir, ".gitpulse_cache.db")
}

// TruncatePath shortens a path to maxWidth runes with a leading ellipsis.
// Widths of 3 or less leave the path untouched.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
}

// ParseBoolString parses yes/no/true/false/1/0, ignoring case.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
