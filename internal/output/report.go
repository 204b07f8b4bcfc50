package output

import (
	"time"

	"github.com/mingzhai/arklens/internal/rules"
)

// Report is the result of reviewing one change set: a hosted change
// request, a local diff file, a revision range, or the worktree.
type Report struct {
	Tool          string               `json:"tool"`
	Version       string               `json:"version,omitempty"`
	Source        string               `json:"source"`
	FilesReviewed int                  `json:"filesReviewed"`
	Issues        []rules.Issue        `json:"issues"`
	Counts        rules.SeverityCounts `json:"counts"`
	GeneratedAt   time.Time            `json:"generatedAt"`
}

// NewReport assembles a report and tallies its severity counts. The
// caller stamps Version; commands know the build version, this package
// does not.
func NewReport(source string, filesReviewed int, issues []rules.Issue) *Report {
	if issues == nil {
		issues = []rules.Issue{}
	}
	return &Report{
		Tool:          "arklens",
		Source:        source,
		FilesReviewed: filesReviewed,
		Issues:        issues,
		Counts:        rules.CountBySeverity(issues),
		GeneratedAt:   time.Now(),
	}
}

// StandardIssue is the flat per-issue tuple that batch artifacts persist.
// Fix suggestions collapse to their description; confidence does not
// survive the flattening.
type StandardIssue struct {
	CommitID      string         `json:"commitId"`
	FilePath      string         `json:"filePath"`
	LineNumber    int            `json:"lineNumber"`
	Description   string         `json:"issueDescription"`
	Level         rules.Severity `json:"issueLevel"`
	RuleName      string         `json:"ruleName"`
	FixSuggestion string         `json:"fixSuggestion,omitempty"`
}

// StandardIssues flattens engine issues into the batch tuple shape,
// stamping each with the commit under review.
func StandardIssues(commitID string, issues []rules.Issue) []StandardIssue {
	out := make([]StandardIssue, 0, len(issues))
	for _, iss := range issues {
		si := StandardIssue{
			CommitID:    commitID,
			FilePath:    iss.File,
			LineNumber:  iss.Line,
			Description: iss.Message,
			Level:       iss.Severity,
			RuleName:    iss.RuleName,
		}
		if iss.Fix != nil {
			si.FixSuggestion = iss.Fix.Description
		}
		out = append(out, si)
	}
	return out
}

// CommitReport is the per-commit result assembled by the batch reviewer.
// ShortID, Message, Author, and Date copy through from the manifest so
// aggregate artifacts can cite the commit without another VCS query.
type CommitReport struct {
	CommitID      string               `json:"commitId"`
	ShortID       string               `json:"shortId"`
	Message       string               `json:"message"`
	Author        string               `json:"author"`
	Date          string               `json:"date"`
	FilesReviewed int                  `json:"filesReviewed"`
	TotalIssues   int                  `json:"totalIssues"`
	Issues        []StandardIssue      `json:"issues"`
	Counts        rules.SeverityCounts `json:"counts"`
	GeneratedAt   time.Time            `json:"generatedAt"`
}
