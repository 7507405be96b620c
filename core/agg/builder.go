package agg

import (
	"slices"
	"time"

	"github.com/huangsam/gitpulse/schema"
)

// authorBuilder is the running stat of one identity during a single call.
// The first-seen name and email are kept as the identity.
type authorBuilder struct {
	name  string
	email string
	count int
	first time.Time
	last  time.Time
}

func newAuthorBuilder(c *schema.CommitRecord) *authorBuilder {
	return &authorBuilder{
		name:  c.AuthorName,
		email: c.AuthorEmail,
		first: c.Timestamp,
		last:  c.Timestamp,
	}
}

func (b *authorBuilder) add(ts time.Time) {
	b.count++
	b.first, b.last = minTime(b.first, ts), maxTime(b.last, ts)
}

func (b *authorBuilder) merge(later *authorBuilder) {
	b.count += later.count
	b.first, b.last = minTime(b.first, later.first), maxTime(b.last, later.last)
}

func (b *authorBuilder) freeze() schema.AuthorStat {
	return schema.AuthorStat{
		Key:         schema.AuthorKey(b.name, b.email),
		Name:        b.name,
		Email:       b.email,
		CommitCount: b.count,
		FirstCommit: b.first,
		LastCommit:  b.last,
	}
}

// fileBuilder is the running stat of one path during a single call.
type fileBuilder struct {
	path       string
	count      int
	changes    int
	insertions int
	deletions  int
	authors    map[string]struct{}
	first      time.Time
	last       time.Time
}

func newFileBuilder(path string, ts time.Time) *fileBuilder {
	return &fileBuilder{
		path:    path,
		authors: make(map[string]struct{}),
		first:   ts,
		last:    ts,
	}
}

func (b *fileBuilder) add(e *schema.FileChangeEntry, author string, ts time.Time) {
	b.count++
	if !e.Binary {
		changes := e.Changes
		if changes == 0 {
			changes = e.Insertions + e.Deletions
		}
		b.changes += changes
		b.insertions += e.Insertions
		b.deletions += e.Deletions
	}
	b.authors[author] = struct{}{}
	b.first, b.last = minTime(b.first, ts), maxTime(b.last, ts)
}

func (b *fileBuilder) merge(later *fileBuilder) {
	b.count += later.count
	b.changes += later.changes
	b.insertions += later.insertions
	b.deletions += later.deletions
	for a := range later.authors {
		b.authors[a] = struct{}{}
	}
	b.first, b.last = minTime(b.first, later.first), maxTime(b.last, later.last)
}

func (b *fileBuilder) freeze() schema.FileStat {
	authors := make([]string, 0, len(b.authors))
	for a := range b.authors {
		authors = append(authors, a)
	}
	slices.Sort(authors)
	return schema.FileStat{
		Path:            b.path,
		ChangeCount:     b.count,
		TotalChanges:    b.changes,
		TotalInsertions: b.insertions,
		TotalDeletions:  b.deletions,
		Authors:         authors,
		FirstSeen:       b.first,
		LastModified:    b.last,
	}
}

func minTime(a, b time.Time) time.Time {
	if b.Before(a) {
		return b
	}
	return a
}

func maxTime(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}
