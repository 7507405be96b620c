package agg

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/huangsam/gitpulse/schema"
)

var errZeroTimestamp = errors.New("commit has no timestamp")

// commitAccumulator gathers author, day and hour counts for one call.
type commitAccumulator struct {
	basis    schema.HourBasis
	total    int
	order    []string // identity keys in first-seen order
	authors  map[string]*authorBuilder
	byDay    map[string]int
	byHour   map[int]int
	earliest time.Time
	latest   time.Time
}

func newCommitAccumulator(basis schema.HourBasis) *commitAccumulator {
	byHour := make(map[int]int, 24)
	for h := range 24 {
		byHour[h] = 0
	}
	return &commitAccumulator{
		basis:   basis,
		authors: make(map[string]*authorBuilder),
		byDay:   make(map[string]int),
		byHour:  byHour,
	}
}

func (a *commitAccumulator) add(c *schema.CommitRecord) error {
	if c.Timestamp.IsZero() {
		return fmt.Errorf("%w: %s", errZeroTimestamp, c.Hash)
	}
	ts := c.Timestamp

	key := identityKey(c)
	if b, ok := a.authors[key]; ok {
		b.add(ts)
	} else {
		b = newAuthorBuilder(c)
		b.add(ts)
		a.authors[key] = b
		a.order = append(a.order, key)
	}

	a.byDay[ts.UTC().Format(schema.DayKeyFormat)]++
	a.byHour[a.basis.In(ts).Hour()]++

	if a.total == 0 {
		a.earliest, a.latest = ts, ts
	} else {
		a.earliest, a.latest = minTime(a.earliest, ts), maxTime(a.latest, ts)
	}
	a.total++
	return nil
}

func (a *commitAccumulator) merge(later *commitAccumulator) {
	if later.total == 0 {
		return
	}
	for _, key := range later.order {
		if b, ok := a.authors[key]; ok {
			b.merge(later.authors[key])
			continue
		}
		a.authors[key] = later.authors[key]
		a.order = append(a.order, key)
	}
	for d, n := range later.byDay {
		a.byDay[d] += n
	}
	for h, n := range later.byHour {
		a.byHour[h] += n
	}
	if a.total == 0 {
		a.earliest, a.latest = later.earliest, later.latest
	} else {
		a.earliest, a.latest = minTime(a.earliest, later.earliest), maxTime(a.latest, later.latest)
	}
	a.total += later.total
}

func (a *commitAccumulator) freeze(topN int) *schema.CommitAnalysisResult {
	authors := make([]schema.AuthorStat, len(a.order))
	for i, key := range a.order {
		authors[i] = a.authors[key].freeze()
	}
	span := spanDays(a.earliest, a.latest)
	return &schema.CommitAnalysisResult{
		TotalCommits: a.total,
		DateRange: schema.DateRange{
			Earliest: a.earliest,
			Latest:   a.latest,
			SpanDays: span,
		},
		Authors:              authors,
		TopAuthors:           rankAuthors(authors, topN),
		CommitsByDay:         a.byDay,
		CommitsByHour:        a.byHour,
		AverageCommitsPerDay: round2(float64(a.total) / float64(span)),
		HourBasis:            a.basis,
	}
}

// AnalyzeCommits aggregates author statistics, the covered date range and
// day and hour histograms. It fails with an EmptyInputError when commits is
// empty and with an AggregationError on any other failure.
func AnalyzeCommits(commits []schema.CommitRecord, opts Options) (result *schema.CommitAnalysisResult, err error) {
	if len(commits) == 0 {
		return nil, &schema.EmptyInputError{Analyzer: CommitAnalyzer}
	}
	defer recoverAggregation(CommitAnalyzer, &result, &err)

	basis, err := opts.hourBasis()
	if err != nil {
		return nil, &schema.AggregationError{Analyzer: CommitAnalyzer, Cause: err}
	}
	acc, err := accumulate(commits, opts.Workers, func() *commitAccumulator {
		return newCommitAccumulator(basis)
	})
	if err != nil {
		return nil, &schema.AggregationError{Analyzer: CommitAnalyzer, Cause: err}
	}
	return acc.freeze(opts.topN()), nil
}

// DayOfWeekHistogram counts commits per weekday in the given clock.
// All seven weekdays are present.
func DayOfWeekHistogram(commits []schema.CommitRecord, basis schema.HourBasis) map[time.Weekday]int {
	hist := make(map[time.Weekday]int, 7)
	for _, d := range schema.Weekdays {
		hist[d] = 0
	}
	for i := range commits {
		hist[basis.In(commits[i].Timestamp).Weekday()]++
	}
	return hist
}

// FilterCommitsByAuthor keeps commits whose author email matches, ignoring case.
func FilterCommitsByAuthor(commits []schema.CommitRecord, email string) []schema.CommitRecord {
	want := schema.NormalizeEmail(email)
	var out []schema.CommitRecord
	for _, c := range commits {
		if schema.NormalizeEmail(c.AuthorEmail) == want {
			out = append(out, c)
		}
	}
	return out
}

// FilterCommitsByDateRange keeps commits with start <= timestamp <= end.
func FilterCommitsByDateRange(commits []schema.CommitRecord, start, end time.Time) []schema.CommitRecord {
	var out []schema.CommitRecord
	for _, c := range commits {
		if !c.Timestamp.Before(start) && !c.Timestamp.After(end) {
			out = append(out, c)
		}
	}
	return out
}

// spanDays counts the UTC calendar days from earliest to latest, inclusive.
func spanDays(earliest, latest time.Time) int {
	days := int(utcDay(latest).Sub(utcDay(earliest)) / (24 * time.Hour))
	return days + 1
}

func utcDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
