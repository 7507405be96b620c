package agg

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/huangsam/gitpulse/schema"
)

var errEmptyPath = errors.New("file change entry has no path")

// fileAccumulator gathers per-path stats for one call. Paths are tracked
// independently, so a renamed file appears under both names.
type fileAccumulator struct {
	order []string
	files map[string]*fileBuilder
}

func newFileAccumulator() *fileAccumulator {
	return &fileAccumulator{files: make(map[string]*fileBuilder)}
}

func (a *fileAccumulator) add(c *schema.CommitRecord) error {
	if len(c.Files) == 0 {
		return nil
	}
	if c.Timestamp.IsZero() {
		return fmt.Errorf("%w: %s", errZeroTimestamp, c.Hash)
	}
	author := identityKey(c)
	for i := range c.Files {
		e := &c.Files[i]
		if e.Path == "" {
			return fmt.Errorf("%w: %s", errEmptyPath, c.Hash)
		}
		b, ok := a.files[e.Path]
		if !ok {
			b = newFileBuilder(e.Path, c.Timestamp)
			a.files[e.Path] = b
			a.order = append(a.order, e.Path)
		}
		b.add(e, author, c.Timestamp)
	}
	return nil
}

func (a *fileAccumulator) merge(later *fileAccumulator) {
	for _, path := range later.order {
		if b, ok := a.files[path]; ok {
			b.merge(later.files[path])
			continue
		}
		a.files[path] = later.files[path]
		a.order = append(a.order, path)
	}
}

func (a *fileAccumulator) freeze(topN int) *schema.FileAnalysisResult {
	result := &schema.FileAnalysisResult{
		TotalFiles: len(a.order),
		Files:      make([]schema.FileStat, len(a.order)),
	}
	for i, path := range a.order {
		f := a.files[path].freeze()
		result.Files[i] = f
		result.TotalChanges += f.TotalChanges
		result.TotalInsertions += f.TotalInsertions
		result.TotalDeletions += f.TotalDeletions
	}
	result.NetChange = result.TotalInsertions - result.TotalDeletions
	result.Hotspots = rankHotspots(result.Files, topN)
	result.LargestChanges = rankLargestChanges(result.Files, topN)
	return result
}

// AnalyzeFiles aggregates per-file statistics from the file change entries
// attached to commits, along with the hotspot and largest-change rankings.
// Error behavior matches AnalyzeCommits.
func AnalyzeFiles(commits []schema.CommitRecord, opts Options) (result *schema.FileAnalysisResult, err error) {
	if len(commits) == 0 {
		return nil, &schema.EmptyInputError{Analyzer: FileAnalyzer}
	}
	defer recoverAggregation(FileAnalyzer, &result, &err)

	acc, err := accumulate(commits, opts.Workers, newFileAccumulator)
	if err != nil {
		return nil, &schema.AggregationError{Analyzer: FileAnalyzer, Cause: err}
	}
	return acc.freeze(opts.topN()), nil
}

// FilterFilesByAuthor keeps files touched by the given author email.
func FilterFilesByAuthor(files []schema.FileStat, email string) []schema.FileStat {
	want := schema.NormalizeEmail(email)
	var out []schema.FileStat
	for _, f := range files {
		if _, found := slices.BinarySearch(f.Authors, want); found {
			out = append(out, f)
		}
	}
	return out
}

// FilterFilesByDateRange keeps files whose activity overlaps [start, end]:
// last modified at or after start and first seen at or before end.
func FilterFilesByDateRange(files []schema.FileStat, start, end time.Time) []schema.FileStat {
	var out []schema.FileStat
	for _, f := range files {
		if !f.LastModified.Before(start) && !f.FirstSeen.After(end) {
			out = append(out, f)
		}
	}
	return out
}

// ChurnRates ranks files by change count per day of age as of now, where
// age is whole days since first seen with a floor of one. The top n are
// returned, or all files when n <= 0. Equal rates keep input order.
func ChurnRates(files []schema.FileStat, now time.Time, n int) []schema.ChurnRate {
	rates := make([]schema.ChurnRate, len(files))
	for i, f := range files {
		days := max(1, int(now.Sub(f.FirstSeen)/(24*time.Hour)))
		rates[i] = schema.ChurnRate{
			Path:        f.Path,
			ChangeCount: f.ChangeCount,
			AgeDays:     days,
			Rate:        float64(f.ChangeCount) / float64(days),
		}
	}
	slices.SortStableFunc(rates, func(a, b schema.ChurnRate) int {
		return cmp.Compare(b.Rate, a.Rate)
	})
	if n > 0 && len(rates) > n {
		rates = rates[:n]
	}
	return rates
}

// CollaborationHotspots keeps files touched by at least minAuthors distinct
// authors, ordered by author count descending.
func CollaborationHotspots(files []schema.FileStat, minAuthors int) []schema.FileStat {
	var out []schema.FileStat
	for _, f := range files {
		if f.AuthorCount() >= minAuthors {
			out = append(out, f)
		}
	}
	return rankBy(out, 0, schema.FileStat.AuthorCount)
}

// ChurnMetrics maps each path to insertions plus deletions.
func ChurnMetrics(files []schema.FileStat) map[string]int {
	churn := make(map[string]int, len(files))
	for _, f := range files {
		churn[f.Path] = f.Churn()
	}
	return churn
}
