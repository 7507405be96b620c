// Package schema holds the data models shared by the aggregation engine,
// the data source and the presentation layers.
package schema

import "time"

// CommitRecord is one historical commit as produced by the data source.
// Aggregators treat it as read-only.
type CommitRecord struct {
	Hash        string            `json:"hash"`
	AuthorName  string            `json:"author_name"`
	AuthorEmail string            `json:"author_email"` // identity key
	Timestamp   time.Time         `json:"timestamp"`    // carries the offset recorded by git
	Subject     string            `json:"subject"`
	Body        string            `json:"body,omitempty"`
	Refs        []string          `json:"refs,omitempty"`
	Files       []FileChangeEntry `json:"files,omitempty"`
}

// FileChangeEntry is the line-level delta of one file within a commit.
// Binary files carry zero line counts.
type FileChangeEntry struct {
	Path       string `json:"path"`
	Changes    int    `json:"changes"`
	Insertions int    `json:"insertions"`
	Deletions  int    `json:"deletions"`
	Binary     bool   `json:"binary"`
}

// AuthorStat summarizes the commits attributed to one author identity.
// Key is the display form "Name <email>" of the first-seen identity.
type AuthorStat struct {
	Key         string    `json:"key"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	CommitCount int       `json:"commit_count"`
	FirstCommit time.Time `json:"first_commit"`
	LastCommit  time.Time `json:"last_commit"`
}

// FileStat summarizes every touch of a single path.
type FileStat struct {
	Path            string    `json:"path"`
	ChangeCount     int       `json:"change_count"`
	TotalChanges    int       `json:"total_changes"`
	TotalInsertions int       `json:"total_insertions"`
	TotalDeletions  int       `json:"total_deletions"`
	Authors         []string  `json:"authors"` // distinct normalized emails, sorted
	FirstSeen       time.Time `json:"first_seen"`
	LastModified    time.Time `json:"last_modified"`
}

// AuthorCount returns the number of distinct authors that touched the file.
func (f FileStat) AuthorCount() int {
	return len(f.Authors)
}

// Churn returns insertions plus deletions for the file.
func (f FileStat) Churn() int {
	return f.TotalInsertions + f.TotalDeletions
}

// DateRange is the closed interval covered by a set of commits.
type DateRange struct {
	Earliest time.Time `json:"earliest"`
	Latest   time.Time `json:"latest"`
	SpanDays int       `json:"span_days"` // inclusive UTC calendar days, always >= 1
}

// CommitAnalysisResult is the output of the commit aggregator.
type CommitAnalysisResult struct {
	TotalCommits         int            `json:"total_commits"`
	DateRange            DateRange      `json:"date_range"`
	Authors              []AuthorStat   `json:"authors"`
	TopAuthors           []AuthorStat   `json:"top_authors"`
	CommitsByDay         map[string]int `json:"commits_by_day"`
	CommitsByHour        map[int]int    `json:"commits_by_hour"`
	AverageCommitsPerDay float64        `json:"average_commits_per_day"`
	HourBasis            HourBasis      `json:"hour_basis"`
}

// FileAnalysisResult is the output of the file aggregator.
type FileAnalysisResult struct {
	TotalFiles      int        `json:"total_files"`
	TotalChanges    int        `json:"total_changes"`
	TotalInsertions int        `json:"total_insertions"`
	TotalDeletions  int        `json:"total_deletions"`
	NetChange       int        `json:"net_change"`
	Hotspots        []FileStat `json:"hotspots"`
	LargestChanges  []FileStat `json:"largest_changes"`
	Files           []FileStat `json:"files"`
}

// ChurnRate is the change frequency of a file relative to its age.
type ChurnRate struct {
	Path        string  `json:"path"`
	ChangeCount int     `json:"change_count"`
	AgeDays     int     `json:"age_days"`
	Rate        float64 `json:"rate"`
}

// CommitReport is what the commits command renders: the analysis plus derived views.
type CommitReport struct {
	CommitAnalysisResult
	CommitsByWeekday map[string]int `json:"commits_by_weekday"`
	PeakHour         int            `json:"peak_hour"`
	BusiestDay       string         `json:"busiest_day"`
}

// FileReport is what the files command renders.
type FileReport struct {
	FileAnalysisResult
	ReferenceTime         time.Time   `json:"reference_time"`
	ChurnRates            []ChurnRate `json:"churn_rates"`
	MinAuthors            int         `json:"min_authors"`
	CollaborationHotspots []FileStat  `json:"collaboration_hotspots"`
}

// SummaryReport combines both reports computed over one fetched history.
type SummaryReport struct {
	Commits *CommitReport `json:"commits"`
	Files   *FileReport   `json:"files"`
}
