package core

import (
	"testing"

	"github.com/huangsam/gitpulse/core/agg"
	"github.com/huangsam/gitpulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCommits(t *testing.T) []schema.CommitRecord {
	t.Helper()
	commits, err := agg.ParseCommitLog(sampleLog())
	require.NoError(t, err)
	return filterFileEntries(commits, "", []string{"go.sum"})
}

func TestBuildCommitReport(t *testing.T) {
	report, err := BuildCommitReport(sampleCommits(t), testConfig())
	require.NoError(t, err)

	assert.Equal(t, 3, report.TotalCommits)
	require.Len(t, report.TopAuthors, 2)
	assert.Equal(t, "Alice <alice@example.com>", report.TopAuthors[0].Key)
	assert.Equal(t, 2, report.TopAuthors[0].CommitCount)
	assert.Equal(t, 3, report.DateRange.SpanDays)
	assert.InDelta(t, 1.0, report.AverageCommitsPerDay, 1e-9)

	assert.Len(t, report.CommitsByWeekday, 7)
	assert.Equal(t, 2, report.CommitsByWeekday["Monday"])
	assert.Equal(t, 1, report.CommitsByWeekday["Wednesday"])
	assert.Equal(t, 0, report.CommitsByWeekday["Sunday"])
	assert.Equal(t, 10, report.PeakHour)
	assert.Equal(t, "2024-03-04", report.BusiestDay)
}

func TestBuildFileReport(t *testing.T) {
	report, err := BuildFileReport(sampleCommits(t), testConfig())
	require.NoError(t, err)

	assert.Equal(t, 2, report.TotalFiles)
	assert.Equal(t, 25, report.TotalChanges)
	assert.Equal(t, 13, report.NetChange)
	assert.Equal(t, "main.go", report.Hotspots[0].Path)
	assert.Equal(t, testConfig().Now, report.ReferenceTime)

	require.Len(t, report.ChurnRates, 2)
	assert.Equal(t, "main.go", report.ChurnRates[0].Path)
	assert.Equal(t, 10, report.ChurnRates[0].AgeDays)
	assert.InDelta(t, 0.3, report.ChurnRates[0].Rate, 1e-9)
	assert.Equal(t, 9, report.ChurnRates[1].AgeDays)

	assert.Equal(t, 2, report.MinAuthors)
	require.Len(t, report.CollaborationHotspots, 1)
	assert.Equal(t, "main.go", report.CollaborationHotspots[0].Path)
}

func TestBuildFileReportLimits(t *testing.T) {
	cfg := testConfig()
	cfg.ResultLimit = 1
	cfg.ChurnLimit = 1
	cfg.MinAuthors = 1

	report, err := BuildFileReport(sampleCommits(t), cfg)
	require.NoError(t, err)
	assert.Len(t, report.Hotspots, 1)
	assert.Len(t, report.ChurnRates, 1)
	assert.Len(t, report.CollaborationHotspots, 1)
	assert.Len(t, report.Files, 2, "all files are kept")
}

func TestBuildReportsEmpty(t *testing.T) {
	_, err := BuildCommitReport(nil, testConfig())
	assert.Equal(t, schema.KindEmptyInput, schema.ErrorKindOf(err))

	_, err = BuildFileReport(nil, testConfig())
	assert.ErrorIs(t, err, schema.ErrEmptyInput)

	summary, err := BuildSummaryReport(nil, testConfig())
	assert.Nil(t, summary)
	assert.Error(t, err)
}

func TestBuildSummaryReport(t *testing.T) {
	summary, err := BuildSummaryReport(sampleCommits(t), testConfig())
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Commits.TotalCommits)
	assert.Equal(t, 2, summary.Files.TotalFiles)
}
