package outwriter

import (
	"fmt"
	"io"
	"time"

	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/internal/parquet"
	"github.com/huangsam/gitpulse/schema"
)

// PrintSummaryReport outputs both reports of a summary run.
// CSV output concatenates the author and file tables, each with its own
// header. Parquet output writes two files next to --output-file.
func PrintSummaryReport(report *schema.SummaryReport, cfg *contract.Config, duration time.Duration) error {
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
			if err := writeCommitCSV(w, report.Commits, fmtFloat, intFmt); err != nil {
				return err
			}
			return writeFileCSV(w, report.Files, fmtFloat, intFmt)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		authorsPath := siblingPath(cfg.OutputFile, "authors")
		filesPath := siblingPath(cfg.OutputFile, "files")
		if err := parquet.WriteAuthorsParquet(parquet.AuthorRows(&report.Commits.CommitAnalysisResult), authorsPath); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		if err := parquet.WriteFilesParquet(parquet.FileRows(report.Files), filesPath); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		contract.Logger.WithField("authors", authorsPath).WithField("files", filesPath).Info("Wrote Parquet summary")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if err := writeCommitText(w, report.Commits, cfg, fmtFloat, intFmt); err != nil {
				return err
			}
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
			if err := writeFileText(w, report.Files, cfg, fmtFloat, intFmt); err != nil {
				return err
			}
			return writeFooter(w, cfg, duration)
		}, "Wrote table")
	}
	return nil
}
