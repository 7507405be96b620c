package agg

import (
	"cmp"
	"slices"

	"github.com/huangsam/gitpulse/schema"
)

// rankBy returns the top n items ordered by key descending. The sort is
// stable, so equal keys keep their first-seen order. The input is not modified.
func rankBy[T any](items []T, n int, key func(T) int) []T {
	ranked := slices.Clone(items)
	slices.SortStableFunc(ranked, func(a, b T) int {
		return cmp.Compare(key(b), key(a))
	})
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func rankAuthors(authors []schema.AuthorStat, n int) []schema.AuthorStat {
	return rankBy(authors, n, func(a schema.AuthorStat) int { return a.CommitCount })
}

func rankHotspots(files []schema.FileStat, n int) []schema.FileStat {
	return rankBy(files, n, func(f schema.FileStat) int { return f.ChangeCount })
}

func rankLargestChanges(files []schema.FileStat, n int) []schema.FileStat {
	return rankBy(files, n, func(f schema.FileStat) int { return f.TotalChanges })
}
