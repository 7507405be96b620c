// Package outwriter renders analysis reports as tables, CSV, JSON or Parquet.
package outwriter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/huangsam/gitpulse/internal/contract"
)

// headerOut receives the analysis header. Stdout is kept for results.
var headerOut io.Writer = os.Stderr

// LogAnalysisHeader prints a concise, 2-line header for each analysis.
func LogAnalysisHeader(cfg *contract.Config) {
	repoName := filepath.Base(cfg.RepoPath)
	if repoName == "" || repoName == "." || repoName == string(filepath.Separator) {
		repoName = "current"
	}
	ref := cfg.Ref
	if ref == "" {
		ref = "HEAD"
	}
	_, _ = fmt.Fprintf(headerOut, "🔎 Repo: %s (Ref: %s)\n", repoName, ref)
	_, _ = fmt.Fprintf(headerOut, "📅 Range: %s → %s\n", formatBound(cfg.StartTime, "beginning"), formatBound(cfg.EndTime, "now"))
}

// labelFor classifies a share of activity, colored when the config allows it.
func labelFor(cfg *contract.Config, sharePct float64) string {
	if cfg.UseColors {
		return contract.GetColorLabel(sharePct)
	}
	return contract.GetPlainLabel(sharePct)
}

// sectionTitle prints a table heading.
func sectionTitle(w io.Writer, cfg *contract.Config, title string) error {
	if cfg.UseColors {
		title = contract.HeaderColor.Sprint(title)
	}
	_, err := fmt.Fprintf(w, "\n%s\n", title)
	return err
}

// writeFooter prints timing and runtime details under a text report.
func writeFooter(w io.Writer, cfg *contract.Config, duration time.Duration) error {
	_, err := fmt.Fprintf(w, "Analysis completed in %v with %d workers. Cache backend: %s\n", duration, cfg.Workers, cfg.CacheBackend)
	return err
}
