package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/internal/parquet"
	"github.com/huangsam/gitpulse/schema"
)

// authorsShown caps the author list in the collaboration table.
const authorsShown = 3

// PrintFileReport outputs the file report, dispatching based on the output format configured.
func PrintFileReport(report *schema.FileReport, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, report)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeFileCSV(w, report, fmtFloat, intFmt)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := parquet.WriteFilesParquet(parquet.FileRows(report), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		contract.Logger.WithField("file", cfg.OutputFile).Info("Wrote Parquet files")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if err := writeFileText(w, report, cfg, fmtFloat, intFmt); err != nil {
				return err
			}
			return writeFooter(w, cfg, duration)
		}, "Wrote table")
	}
	return nil
}

// totalChangeEvents sums the per-file change counts, the base for file labels.
func totalChangeEvents(files []schema.FileStat) int {
	total := 0
	for _, f := range files {
		total += f.ChangeCount
	}
	return total
}

// writeFileText renders totals followed by the hotspot, largest change,
// churn rate and collaboration tables.
func writeFileText(w io.Writer, report *schema.FileReport, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	if _, err := fmt.Fprintf(w, "Files: %d changed, +%d -%d (net %+d), %d lines touched\n",
		report.TotalFiles, report.TotalInsertions, report.TotalDeletions, report.NetChange, report.TotalChanges); err != nil {
		return err
	}
	events := totalChangeEvents(report.Files)

	if err := sectionTitle(w, cfg, "Hotspots"); err != nil {
		return err
	}
	pathWidth := getMaxTablePathWidth(cfg, 60)
	rows := make([][]string, len(report.Hotspots))
	for i, f := range report.Hotspots {
		share := contract.SharePct(f.ChangeCount, events)
		rows[i] = []string{
			strconv.Itoa(i + 1),
			contract.TruncatePath(f.Path, pathWidth),
			fmt.Sprintf(intFmt, f.ChangeCount),
			fmt.Sprintf(intFmt, f.TotalChanges),
			fmt.Sprintf(intFmt, f.AuthorCount()),
			labelFor(cfg, share),
			f.LastModified.UTC().Format(schema.DayKeyFormat),
		}
	}
	if err := renderTable(w, []string{"Rank", "Path", "Changes", "Lines", "Authors", "Label", "Last Modified"}, rows); err != nil {
		return err
	}

	if err := sectionTitle(w, cfg, "Largest Changes"); err != nil {
		return err
	}
	rows = make([][]string, len(report.LargestChanges))
	for i, f := range report.LargestChanges {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			contract.TruncatePath(f.Path, pathWidth),
			fmt.Sprintf(intFmt, f.TotalChanges),
			"+" + fmt.Sprintf(intFmt, f.TotalInsertions),
			"-" + fmt.Sprintf(intFmt, f.TotalDeletions),
			fmt.Sprintf(intFmt, f.ChangeCount),
		}
	}
	if err := renderTable(w, []string{"Rank", "Path", "Lines", "Added", "Deleted", "Changes"}, rows); err != nil {
		return err
	}

	if err := sectionTitle(w, cfg, fmt.Sprintf("Churn Rates (as of %s)", report.ReferenceTime.UTC().Format(schema.DayKeyFormat))); err != nil {
		return err
	}
	rows = make([][]string, len(report.ChurnRates))
	for i, r := range report.ChurnRates {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			contract.TruncatePath(r.Path, pathWidth),
			fmtFloat(r.Rate),
			fmt.Sprintf(intFmt, r.ChangeCount),
			fmt.Sprintf(intFmt, r.AgeDays),
		}
	}
	if err := renderTable(w, []string{"Rank", "Path", "Changes/Day", "Changes", "Age (days)"}, rows); err != nil {
		return err
	}

	if err := sectionTitle(w, cfg, fmt.Sprintf("Collaboration Hotspots (%d+ authors)", report.MinAuthors)); err != nil {
		return err
	}
	if len(report.CollaborationHotspots) == 0 {
		_, err := fmt.Fprintln(w, "No files reach the author threshold.")
		return err
	}
	rows = make([][]string, len(report.CollaborationHotspots))
	for i, f := range report.CollaborationHotspots {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			contract.TruncatePath(f.Path, pathWidth),
			fmt.Sprintf(intFmt, f.AuthorCount()),
			schema.FormatAuthors(f.Authors, authorsShown),
		}
	}
	return renderTable(w, []string{"Rank", "Path", "Authors", "Who"}, rows)
}

// writeFileCSV writes one row per hotspot, with the churn rate when the
// file made the churn ranking.
func writeFileCSV(w io.Writer, report *schema.FileReport, fmtFloat func(float64) string, intFmt string) error {
	rates := make(map[string]float64, len(report.ChurnRates))
	for _, r := range report.ChurnRates {
		rates[r.Path] = r.Rate
	}
	events := totalChangeEvents(report.Files)

	header := []string{
		"rank", "path", "change_count", "total_changes", "insertions", "deletions", "churn",
		"author_count", "authors", "label", "churn_rate", "first_seen", "last_modified",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for i, f := range report.Hotspots {
			rate := ""
			if r, ok := rates[f.Path]; ok {
				rate = fmtFloat(r)
			}
			rec := []string{
				strconv.Itoa(i + 1),
				f.Path,
				fmt.Sprintf(intFmt, f.ChangeCount),
				fmt.Sprintf(intFmt, f.TotalChanges),
				fmt.Sprintf(intFmt, f.TotalInsertions),
				fmt.Sprintf(intFmt, f.TotalDeletions),
				fmt.Sprintf(intFmt, f.Churn()),
				fmt.Sprintf(intFmt, f.AuthorCount()),
				strings.Join(f.Authors, "|"),
				contract.GetPlainLabel(contract.SharePct(f.ChangeCount, events)),
				rate,
				formatTime(f.FirstSeen),
				formatTime(f.LastModified),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
