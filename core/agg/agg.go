// Package agg has the aggregation engine that turns commit streams into
// author, temporal and file-level statistics.
package agg

import (
	"fmt"

	"github.com/huangsam/gitpulse/schema"
	"golang.org/x/sync/errgroup"
)

// Analyzer names reported in errors.
const (
	CommitAnalyzer = "commit analyzer"
	FileAnalyzer   = "file analyzer"
)

// DefaultTopN is the ranking size used when Options.TopN is not positive.
const DefaultTopN = 10

// parallelThreshold is the minimum input size for sharded accumulation.
// It is a variable so tests can force the parallel path on small fixtures.
var parallelThreshold = 4096

// Options tunes an analyzer call. The zero value is valid.
type Options struct {
	TopN      int              // ranking size, DefaultTopN when <= 0
	HourBasis schema.HourBasis // clock for hour buckets, CommitHour when empty
	Workers   int              // shard count for large inputs, serial when <= 1
}

func (o Options) topN() int {
	if o.TopN <= 0 {
		return DefaultTopN
	}
	return o.TopN
}

func (o Options) hourBasis() (schema.HourBasis, error) {
	if o.HourBasis == "" {
		return schema.CommitHour, nil
	}
	if _, ok := schema.ValidHourBases[o.HourBasis]; !ok {
		return "", fmt.Errorf("unknown hour basis %q", o.HourBasis)
	}
	return o.HourBasis, nil
}

// accumulator is a mutable per-call builder. merge folds in a builder that
// saw strictly later commits.
type accumulator[T any] interface {
	add(c *schema.CommitRecord) error
	merge(later T)
}

// accumulate feeds commits into builders from newAcc. Large inputs are split
// into contiguous shards, one per worker, and merged back in shard order so
// first-seen order is identical to a serial pass.
func accumulate[T accumulator[T]](commits []schema.CommitRecord, workers int, newAcc func() T) (T, error) {
	if workers <= 1 || len(commits) < parallelThreshold {
		acc := newAcc()
		if err := addRange(acc, commits); err != nil {
			var zero T
			return zero, err
		}
		return acc, nil
	}

	shards := shardBounds(len(commits), workers)
	parts := make([]T, len(shards))

	var g errgroup.Group
	for i, s := range shards {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("panic in shard %d: %v", i, r)
				}
			}()
			acc := newAcc()
			if err := addRange(acc, commits[s[0]:s[1]]); err != nil {
				return err
			}
			parts[i] = acc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		var zero T
		return zero, err
	}

	out := parts[0]
	for _, p := range parts[1:] {
		out.merge(p)
	}
	return out, nil
}

func addRange[T accumulator[T]](acc T, commits []schema.CommitRecord) error {
	for i := range commits {
		if err := acc.add(&commits[i]); err != nil {
			return err
		}
	}
	return nil
}

// shardBounds splits n items into at most workers contiguous [lo, hi) ranges.
func shardBounds(n, workers int) [][2]int {
	workers = min(workers, n)
	size := (n + workers - 1) / workers
	bounds := make([][2]int, 0, workers)
	for lo := 0; lo < n; lo += size {
		bounds = append(bounds, [2]int{lo, min(lo+size, n)})
	}
	return bounds
}

// recoverAggregation turns a panic inside an analyzer into an AggregationError
// and discards any partial result.
func recoverAggregation[T any](analyzer string, result **T, err *error) {
	if r := recover(); r != nil {
		*result = nil
		*err = &schema.AggregationError{Analyzer: analyzer, Cause: fmt.Errorf("panic: %v", r)}
	}
}

// identityKey is the grouping key of a commit author: the normalized email,
// or the normalized name when the email is missing.
func identityKey(c *schema.CommitRecord) string {
	if key := schema.NormalizeEmail(c.AuthorEmail); key != "" {
		return key
	}
	return "name:" + schema.NormalizeEmail(c.AuthorName)
}
