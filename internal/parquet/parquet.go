// Package parquet exports analysis results to Parquet files using
// github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
	"github.com/parquet-go/parquet-go"
)

// AuthorRow is one author of a commit analysis.
type AuthorRow struct {
	// Rank is the 1-based position by commit count
	Rank int32 `parquet:"rank,snappy"`

	// Key is the "Name <email>" display form of the identity
	Key string `parquet:"key,snappy"`

	Name  string `parquet:"name,snappy"`
	Email string `parquet:"email,snappy"`

	// CommitCount is the number of commits attributed to the author
	CommitCount int32 `parquet:"commit_count,snappy"`

	// SharePct is CommitCount as a percentage of all commits
	SharePct float64 `parquet:"share_pct,snappy"`

	// Label is the activity label derived from SharePct
	Label string `parquet:"label,snappy"`

	FirstCommit time.Time `parquet:"first_commit,snappy"`
	LastCommit  time.Time `parquet:"last_commit,snappy"`
}

// FileRow is one path of a file analysis.
type FileRow struct {
	// Path is relative to the repository root
	Path string `parquet:"path,snappy"`

	ChangeCount     int32 `parquet:"change_count,snappy"`
	TotalChanges    int32 `parquet:"total_changes,snappy"`
	TotalInsertions int32 `parquet:"total_insertions,snappy"`
	TotalDeletions  int32 `parquet:"total_deletions,snappy"`

	// AuthorCount is the number of distinct authors
	AuthorCount int32 `parquet:"author_count,snappy"`

	// Authors holds the distinct author emails joined by '|'
	Authors string `parquet:"authors,snappy"`

	FirstSeen    time.Time `parquet:"first_seen,snappy"`
	LastModified time.Time `parquet:"last_modified,snappy"`

	// ChurnRate is set only for files that made the churn ranking (nullable)
	ChurnRate *float64 `parquet:"churn_rate,optional,snappy"`
}

// AuthorRows flattens the ranked authors of a commit analysis.
func AuthorRows(result *schema.CommitAnalysisResult) []AuthorRow {
	rows := make([]AuthorRow, len(result.TopAuthors))
	for i, a := range result.TopAuthors {
		share := contract.SharePct(a.CommitCount, result.TotalCommits)
		rows[i] = AuthorRow{
			Rank:        int32(i + 1),
			Key:         a.Key,
			Name:        a.Name,
			Email:       a.Email,
			CommitCount: int32(a.CommitCount),
			SharePct:    share,
			Label:       contract.GetPlainLabel(share),
			FirstCommit: a.FirstCommit,
			LastCommit:  a.LastCommit,
		}
	}
	return rows
}

// FileRows flattens every file of a file report in first-seen order.
func FileRows(report *schema.FileReport) []FileRow {
	rates := make(map[string]float64, len(report.ChurnRates))
	for _, r := range report.ChurnRates {
		rates[r.Path] = r.Rate
	}

	rows := make([]FileRow, len(report.Files))
	for i, f := range report.Files {
		row := FileRow{
			Path:            f.Path,
			ChangeCount:     int32(f.ChangeCount),
			TotalChanges:    int32(f.TotalChanges),
			TotalInsertions: int32(f.TotalInsertions),
			TotalDeletions:  int32(f.TotalDeletions),
			AuthorCount:     int32(f.AuthorCount()),
			Authors:         strings.Join(f.Authors, "|"),
			FirstSeen:       f.FirstSeen,
			LastModified:    f.LastModified,
		}
		if rate, ok := rates[f.Path]; ok {
			row.ChurnRate = &rate
		}
		rows[i] = row
	}
	return rows
}

// WriteAuthorsParquet writes author rows to a Parquet file.
func WriteAuthorsParquet(data []AuthorRow, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteFilesParquet writes file rows to a Parquet file.
func WriteFilesParquet(data []FileRow, outputPath string) error {
	return writeRows(data, outputPath)
}

// writeRows infers the schema from the struct tags of T and writes all rows.
func writeRows[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	// Close flushes the footer, so its error matters.
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}
