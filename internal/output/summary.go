package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/mingzhai/arklens/internal/rules"
)

// masterCSVHeader is the fixed column order of the aggregate issue CSV.
var masterCSVHeader = []string{
	"commit-id", "commit-short-id", "commit-message", "commit-author", "commit-date",
	"file-path", "line-number", "issue-description", "issue-level", "rule-name",
}

// RunSummary aggregates one batch run for the summary artifacts.
type RunSummary struct {
	RunID       string
	GeneratedAt time.Time
	Reports     []*CommitReport
}

// Totals sums severity counts across all commits in the run.
func (s *RunSummary) Totals() rules.SeverityCounts {
	var totals rules.SeverityCounts
	for _, rep := range s.Reports {
		totals.Critical += rep.Counts.Critical
		totals.High += rep.Counts.High
		totals.Medium += rep.Counts.Medium
		totals.Low += rep.Counts.Low
		totals.Info += rep.Counts.Info
	}
	return totals
}

// WriteSummaryMarkdown renders the aggregate report: run identity, totals
// by severity, and one table row per reviewed commit.
func WriteSummaryMarkdown(w io.Writer, sum *RunSummary) error {
	ew := &errWriter{w: w}
	totals := sum.Totals()

	ew.printf("# Batch Review Summary\n\n")
	ew.printf("Run `%s`, generated %s.\n\n", sum.RunID, sum.GeneratedAt.Format("2006-01-02 15:04:05"))
	ew.printf("Commits reviewed: %d. Total issues: %d.\n\n", len(sum.Reports), totals.Total())

	ew.printf("| Severity | Count |\n")
	ew.printf("|----------|-------|\n")
	for _, sev := range rules.Severities {
		ew.printf("| %s %s | %d |\n", sev.Glyph(), sev.Title(), totals.Of(sev))
	}
	ew.printf("\n## Commits\n\n")

	ew.printf("| Commit | Author | Date | Files | Issues | Critical | High | Medium | Low | Info | Message |\n")
	ew.printf("|--------|--------|------|-------|--------|----------|------|--------|-----|------|---------|\n")
	for _, rep := range sum.Reports {
		ew.printf("| `%s` | %s | %s | %d | %d | %d | %d | %d | %d | %d | %s |\n",
			rep.ShortID,
			mdCell(rep.Author),
			mdCell(rep.Date),
			rep.FilesReviewed,
			rep.TotalIssues,
			rep.Counts.Critical,
			rep.Counts.High,
			rep.Counts.Medium,
			rep.Counts.Low,
			rep.Counts.Info,
			mdCell(rep.Message),
		)
	}

	return ew.err
}

// WriteMasterCSV emits every issue of the run with its commit metadata,
// one row per issue in commit order.
func WriteMasterCSV(w io.Writer, reports []*CommitReport) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(masterCSVHeader); err != nil {
		return fmt.Errorf("writing master CSV header: %w", err)
	}
	for _, rep := range reports {
		for _, iss := range rep.Issues {
			rec := []string{
				rep.CommitID,
				rep.ShortID,
				rep.Message,
				rep.Author,
				rep.Date,
				iss.FilePath,
				strconv.Itoa(iss.LineNumber),
				iss.Description,
				string(iss.Level),
				iss.RuleName,
			}
			if err := cw.Write(rec); err != nil {
				return fmt.Errorf("writing master CSV row: %w", err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
