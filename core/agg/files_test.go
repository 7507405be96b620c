package agg

import (
	"testing"
	"time"

	"github.com/huangsam/gitpulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeFilesTwoAuthors(t *testing.T) {
	commits := []schema.CommitRecord{
		commit("c1", "Ann", "ann@x", "2024-01-01T10:00:00Z", change("a.ts", 10, 0)),
		commit("c2", "Ben", "ben@x", "2024-01-05T10:00:00Z", change("a.ts", 5, 2)),
	}

	result, err := AnalyzeFiles(commits, Options{})
	require.NoError(t, err)
	require.Len(t, result.Files, 1)

	f := result.Files[0]
	assert.Equal(t, "a.ts", f.Path)
	assert.Equal(t, 2, f.ChangeCount)
	assert.Equal(t, 15, f.TotalInsertions)
	assert.Equal(t, 2, f.TotalDeletions)
	assert.Equal(t, 17, f.TotalChanges)
	assert.Equal(t, 2, f.AuthorCount())
	assert.Equal(t, []string{"ann@x", "ben@x"}, f.Authors)
	assert.True(t, at("2024-01-01T10:00:00Z").Equal(f.FirstSeen))
	assert.True(t, at("2024-01-05T10:00:00Z").Equal(f.LastModified))
}

func TestAnalyzeFilesFixture(t *testing.T) {
	commits, err := ParseCommitLog(fixtureLog())
	require.NoError(t, err)

	result, err := AnalyzeFiles(commits, Options{})
	require.NoError(t, err)

	assert.Equal(t, 5, result.TotalFiles)
	assert.Equal(t, 162, result.TotalChanges)
	assert.Equal(t, 144, result.TotalInsertions)
	assert.Equal(t, 18, result.TotalDeletions)
	assert.Equal(t, 126, result.NetChange)

	paths := func(files []schema.FileStat) []string {
		out := make([]string, len(files))
		for i, f := range files {
			out[i] = f.Path
		}
		return out
	}
	assert.Equal(t, []string{"core/parse.go", "README.md", "docs/logo.png", "site/index.md", "new.txt"}, paths(result.Files))
	assert.Equal(t, []string{"core/parse.go", "README.md", "docs/logo.png", "site/index.md", "new.txt"}, paths(result.Hotspots))
	assert.Equal(t, []string{"core/parse.go", "README.md", "site/index.md", "new.txt", "docs/logo.png"}, paths(result.LargestChanges))

	logo := result.Files[2]
	assert.Equal(t, 1, logo.ChangeCount, "binary touches still count")
	assert.Zero(t, logo.TotalChanges)

	readme := result.Files[1]
	assert.Equal(t, []string{"alice@example.com"}, readme.Authors, "aliases collapse to one author")
}

func TestAnalyzeFilesRankingsDiverge(t *testing.T) {
	commits := []schema.CommitRecord{
		commit("r1", "A", "a@x", "2024-01-01T00:00:00Z", change("hot.go", 1, 0)),
		commit("r2", "A", "a@x", "2024-01-02T00:00:00Z", change("hot.go", 1, 1)),
		commit("r3", "B", "b@x", "2024-01-03T00:00:00Z", change("big.go", 400, 100)),
		commit("r4", "B", "b@x", "2024-01-04T00:00:00Z", change("hot.go", 0, 1)),
	}

	result, err := AnalyzeFiles(commits, Options{})
	require.NoError(t, err)
	assert.Equal(t, "hot.go", result.Hotspots[0].Path)
	assert.Equal(t, "big.go", result.LargestChanges[0].Path)
}

func TestAnalyzeFilesNegativeNetChange(t *testing.T) {
	commits := []schema.CommitRecord{
		commit("n1", "A", "a@x", "2024-01-01T00:00:00Z", change("legacy.go", 3, 90), change("util.go", 2, 10)),
	}

	result, err := AnalyzeFiles(commits, Options{})
	require.NoError(t, err)
	assert.Equal(t, -95, result.NetChange)
	assert.Equal(t, result.TotalInsertions-result.TotalDeletions, result.NetChange)
}

func TestAnalyzeFilesChangesFallback(t *testing.T) {
	commits := []schema.CommitRecord{
		commit("x1", "A", "a@x", "2024-01-01T00:00:00Z", schema.FileChangeEntry{Path: "raw.go", Insertions: 4, Deletions: 3}),
	}
	result, err := AnalyzeFiles(commits, Options{})
	require.NoError(t, err)
	assert.Equal(t, 7, result.Files[0].TotalChanges)
}

func TestAnalyzeFilesTopN(t *testing.T) {
	result, err := AnalyzeFiles(syntheticHistory(200), Options{TopN: 3})
	require.NoError(t, err)
	assert.Len(t, result.Hotspots, 3)
	assert.Len(t, result.LargestChanges, 3)
	assert.Equal(t, 18, result.TotalFiles)
	assert.Len(t, result.Files, 18)
}

func TestAnalyzeFilesIdempotent(t *testing.T) {
	commits := syntheticHistory(300)
	first, err := AnalyzeFiles(commits, Options{})
	require.NoError(t, err)
	second, err := AnalyzeFiles(commits, Options{})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAnalyzeFilesErrors(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		result, err := AnalyzeFiles([]schema.CommitRecord{}, Options{})
		assert.Nil(t, result)
		assert.ErrorIs(t, err, schema.ErrEmptyInput)
		assert.Equal(t, schema.KindEmptyInput, schema.ErrorKindOf(err))
		assert.Contains(t, err.Error(), FileAnalyzer)
	})

	t.Run("commits without files", func(t *testing.T) {
		result, err := AnalyzeFiles([]schema.CommitRecord{commit("e1", "A", "a@x", "2024-01-01T00:00:00Z")}, Options{})
		require.NoError(t, err)
		assert.Zero(t, result.TotalFiles)
		assert.Empty(t, result.Hotspots)
	})

	t.Run("empty path", func(t *testing.T) {
		commits := []schema.CommitRecord{commit("p1", "A", "a@x", "2024-01-01T00:00:00Z", change("", 1, 1))}
		result, err := AnalyzeFiles(commits, Options{})
		assert.Nil(t, result)
		assert.ErrorIs(t, err, schema.ErrAggregationFailed)
		assert.ErrorIs(t, err, errEmptyPath)
	})

	t.Run("zero timestamp", func(t *testing.T) {
		commits := []schema.CommitRecord{{Hash: "z1", Files: []schema.FileChangeEntry{change("a.go", 1, 0)}}}
		_, err := AnalyzeFiles(commits, Options{})
		assert.ErrorIs(t, err, errZeroTimestamp)
	})
}

func fileStat(path string, count int, first, last string, authors ...string) schema.FileStat {
	return schema.FileStat{
		Path:         path,
		ChangeCount:  count,
		Authors:      authors,
		FirstSeen:    at(first),
		LastModified: at(last),
	}
}

func TestFilterFilesByAuthor(t *testing.T) {
	files := []schema.FileStat{
		fileStat("a.go", 1, "2024-01-01T00:00:00Z", "2024-01-01T00:00:00Z", "ann@x", "ben@x"),
		fileStat("b.go", 1, "2024-01-01T00:00:00Z", "2024-01-01T00:00:00Z", "ben@x"),
	}
	got := FilterFilesByAuthor(files, "ANN@x")
	require.Len(t, got, 1)
	assert.Equal(t, "a.go", got[0].Path)
	assert.Len(t, FilterFilesByAuthor(files, "ben@x"), 2)
	assert.Empty(t, FilterFilesByAuthor(files, "cat@x"))
}

func TestFilterFilesByDateRange(t *testing.T) {
	files := []schema.FileStat{
		fileStat("before.go", 1, "2023-01-01T00:00:00Z", "2023-06-01T00:00:00Z"),
		fileStat("spanning.go", 1, "2023-01-01T00:00:00Z", "2024-12-01T00:00:00Z"),
		fileStat("inside.go", 1, "2024-03-01T00:00:00Z", "2024-04-01T00:00:00Z"),
		fileStat("touching.go", 1, "2024-06-30T00:00:00Z", "2024-08-01T00:00:00Z"),
		fileStat("after.go", 1, "2024-07-01T00:00:00Z", "2024-08-01T00:00:00Z"),
	}
	got := FilterFilesByDateRange(files, at("2024-01-01T00:00:00Z"), at("2024-06-30T00:00:00Z"))

	var paths []string
	for _, f := range got {
		paths = append(paths, f.Path)
	}
	assert.Equal(t, []string{"spanning.go", "inside.go", "touching.go"}, paths)
}

func TestChurnRates(t *testing.T) {
	now := at("2024-01-11T00:00:00Z")
	files := []schema.FileStat{
		fileStat("slow.go", 10, "2023-12-12T00:00:00Z", "2024-01-10T00:00:00Z"), // 30 days, 0.33
		fileStat("fresh.go", 3, "2024-01-10T12:00:00Z", "2024-01-10T20:00:00Z"), // under a day, floored to 1
		fileStat("fast.go", 20, "2024-01-01T00:00:00Z", "2024-01-10T00:00:00Z"), // 10 days, 2.0
		fileStat("tied.go", 6, "2024-01-08T00:00:00Z", "2024-01-10T00:00:00Z"),  // 3 days, 2.0
	}

	rates := ChurnRates(files, now, 0)
	require.Len(t, rates, 4)
	assert.Equal(t, "fresh.go", rates[0].Path)
	assert.Equal(t, 1, rates[0].AgeDays)
	assert.Equal(t, 3.0, rates[0].Rate)
	assert.Equal(t, "fast.go", rates[1].Path, "equal rates keep input order")
	assert.Equal(t, "tied.go", rates[2].Path)
	assert.Equal(t, "slow.go", rates[3].Path)
	assert.Equal(t, 30, rates[3].AgeDays)

	top := ChurnRates(files, now, 2)
	assert.Len(t, top, 2)
	assert.Equal(t, "fast.go", top[1].Path)

	future := ChurnRates(files, at("2023-01-01T00:00:00Z"), 0)
	for _, r := range future {
		assert.Equal(t, 1, r.AgeDays, "reference before first seen floors to one day")
	}
}

func TestCollaborationHotspots(t *testing.T) {
	files := []schema.FileStat{
		fileStat("solo.go", 5, "2024-01-01T00:00:00Z", "2024-01-01T00:00:00Z", "a@x"),
		fileStat("shared.go", 3, "2024-01-01T00:00:00Z", "2024-01-01T00:00:00Z", "a@x", "b@x", "c@x"),
	}
	got := CollaborationHotspots(files, 2)
	require.Len(t, got, 1)
	assert.Equal(t, "shared.go", got[0].Path)

	files = append(files, fileStat("pair.go", 1, "2024-01-01T00:00:00Z", "2024-01-01T00:00:00Z", "a@x", "b@x"))
	got = CollaborationHotspots(files, 1)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"shared.go", "pair.go", "solo.go"}, []string{got[0].Path, got[1].Path, got[2].Path})
}

func TestChurnMetrics(t *testing.T) {
	files := []schema.FileStat{
		{Path: "a.go", TotalInsertions: 10, TotalDeletions: 4},
		{Path: "b.go"},
	}
	assert.Equal(t, map[string]int{"a.go": 14, "b.go": 0}, ChurnMetrics(files))
}

func TestFileFirstLastOrdering(t *testing.T) {
	// Out-of-order input still yields first <= last.
	commits := []schema.CommitRecord{
		commit("o1", "A", "a@x", "2024-05-01T00:00:00Z", change("x.go", 1, 0)),
		commit("o2", "A", "a@x", "2024-02-01T00:00:00Z", change("x.go", 1, 0)),
		commit("o3", "A", "a@x", "2024-03-01T00:00:00Z", change("x.go", 1, 0)),
	}
	result, err := AnalyzeFiles(commits, Options{})
	require.NoError(t, err)
	f := result.Files[0]
	assert.True(t, at("2024-02-01T00:00:00Z").Equal(f.FirstSeen))
	assert.True(t, at("2024-05-01T00:00:00Z").Equal(f.LastModified))
	assert.WithinDuration(t, f.FirstSeen, f.LastModified, 90*24*time.Hour)
}
