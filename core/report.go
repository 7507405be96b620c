package core

import (
	"github.com/huangsam/gitpulse/core/agg"
	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
)

// BuildCommitReport runs the commit aggregator and derives the weekday
// histogram, peak hour and busiest day from its output.
func BuildCommitReport(commits []schema.CommitRecord, cfg *contract.Config) (*schema.CommitReport, error) {
	result, err := agg.AnalyzeCommits(commits, aggOptions(cfg))
	if err != nil {
		return nil, err
	}

	byWeekday := make(map[string]int, 7)
	for day, n := range agg.DayOfWeekHistogram(commits, result.HourBasis) {
		byWeekday[day.String()] = n
	}
	peak, _ := schema.PeakHour(result.CommitsByHour)
	busiest, _ := schema.BusiestDay(result.CommitsByDay)

	return &schema.CommitReport{
		CommitAnalysisResult: *result,
		CommitsByWeekday:     byWeekday,
		PeakHour:             peak,
		BusiestDay:           busiest,
	}, nil
}

// BuildFileReport runs the file aggregator and attaches churn rates as of
// cfg.Now and the collaboration hotspots for cfg.MinAuthors.
func BuildFileReport(commits []schema.CommitRecord, cfg *contract.Config) (*schema.FileReport, error) {
	result, err := agg.AnalyzeFiles(commits, aggOptions(cfg))
	if err != nil {
		return nil, err
	}

	collab := agg.CollaborationHotspots(result.Files, cfg.MinAuthors)
	if cfg.ResultLimit > 0 && len(collab) > cfg.ResultLimit {
		collab = collab[:cfg.ResultLimit]
	}

	return &schema.FileReport{
		FileAnalysisResult:    *result,
		ReferenceTime:         cfg.Now,
		ChurnRates:            agg.ChurnRates(result.Files, cfg.Now, cfg.ChurnLimit),
		MinAuthors:            cfg.MinAuthors,
		CollaborationHotspots: collab,
	}, nil
}

// BuildSummaryReport runs both aggregators over the same commits.
func BuildSummaryReport(commits []schema.CommitRecord, cfg *contract.Config) (*schema.SummaryReport, error) {
	commitReport, err := BuildCommitReport(commits, cfg)
	if err != nil {
		return nil, err
	}
	fileReport, err := BuildFileReport(commits, cfg)
	if err != nil {
		return nil, err
	}
	return &schema.SummaryReport{Commits: commitReport, Files: fileReport}, nil
}
