package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/internal/parquet"
	"github.com/huangsam/gitpulse/schema"
)

// PrintCommitReport outputs the commit report, dispatching based on the output format configured.
func PrintCommitReport(report *schema.CommitReport, cfg *contract.Config, duration time.Duration) error {
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
			return writeCommitCSV(w, report, fmtFloat, intFmt)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := parquet.WriteAuthorsParquet(parquet.AuthorRows(&report.CommitAnalysisResult), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		contract.Logger.WithField("file", cfg.OutputFile).Info("Wrote Parquet authors")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if err := writeCommitText(w, report, cfg, fmtFloat, intFmt); err != nil {
				return err
			}
			return writeFooter(w, cfg, duration)
		}, "Wrote table")
	}
	return nil
}

// writeCommitText renders the summary line, the author ranking and both histograms.
func writeCommitText(w io.Writer, report *schema.CommitReport, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	dr := report.DateRange
	if _, err := fmt.Fprintf(w, "Commits: %d over %d days (%s/day), %s → %s\n",
		report.TotalCommits, dr.SpanDays, fmtFloat(report.AverageCommitsPerDay),
		dr.Earliest.UTC().Format(schema.DayKeyFormat), dr.Latest.UTC().Format(schema.DayKeyFormat)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Peak hour: %02d:00 (%s clock). Busiest day: %s (%d commits)\n",
		report.PeakHour, report.HourBasis, report.BusiestDay, report.CommitsByDay[report.BusiestDay]); err != nil {
		return err
	}

	if err := sectionTitle(w, cfg, "Top Authors"); err != nil {
		return err
	}
	rows := make([][]string, len(report.TopAuthors))
	for i, a := range report.TopAuthors {
		share := contract.SharePct(a.CommitCount, report.TotalCommits)
		rows[i] = []string{
			strconv.Itoa(i + 1),
			contract.TruncatePath(a.Key, getMaxTablePathWidth(cfg, 75)),
			fmt.Sprintf(intFmt, a.CommitCount),
			fmtFloat(share) + "%",
			labelFor(cfg, share),
			a.FirstCommit.UTC().Format(schema.DayKeyFormat),
			a.LastCommit.UTC().Format(schema.DayKeyFormat),
		}
	}
	if err := renderTable(w, []string{"Rank", "Author", "Commits", "Share", "Label", "First", "Last"}, rows); err != nil {
		return err
	}

	if err := sectionTitle(w, cfg, fmt.Sprintf("Commits by Hour (%s)", report.HourBasis)); err != nil {
		return err
	}
	_, peak := schema.PeakHour(report.CommitsByHour)
	rows = make([][]string, 24)
	for h := range 24 {
		n := report.CommitsByHour[h]
		rows[h] = []string{fmt.Sprintf("%02d", h), fmt.Sprintf(intFmt, n), histogramBar(n, peak)}
	}
	if err := renderTable(w, []string{"Hour", "Commits", ""}, rows); err != nil {
		return err
	}

	if err := sectionTitle(w, cfg, "Commits by Weekday"); err != nil {
		return err
	}
	busiest := 0
	for _, n := range report.CommitsByWeekday {
		busiest = max(busiest, n)
	}
	rows = make([][]string, len(schema.Weekdays))
	for i, d := range schema.Weekdays {
		n := report.CommitsByWeekday[d.String()]
		rows[i] = []string{d.String(), fmt.Sprintf(intFmt, n), histogramBar(n, busiest)}
	}
	return renderTable(w, []string{"Day", "Commits", ""}, rows)
}

// writeCommitCSV writes one row per ranked author.
func writeCommitCSV(w io.Writer, report *schema.CommitReport, fmtFloat func(float64) string, intFmt string) error {
	header := []string{"rank", "key", "name", "email", "commits", "share_pct", "label", "first_commit", "last_commit"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for i, a := range report.TopAuthors {
			share := contract.SharePct(a.CommitCount, report.TotalCommits)
			rec := []string{
				strconv.Itoa(i + 1),
				a.Key,
				a.Name,
				a.Email,
				fmt.Sprintf(intFmt, a.CommitCount),
				fmtFloat(share),
				contract.GetPlainLabel(share),
				formatTime(a.FirstCommit),
				formatTime(a.LastCommit),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
