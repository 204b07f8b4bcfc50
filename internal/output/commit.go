package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/mingzhai/arklens/internal/rules"
)

// commitCSVHeader is the fixed column order of per-commit issue CSVs.
var commitCSVHeader = []string{
	"commit-id", "file-path", "line-number", "issue-description", "issue-level", "rule-name",
}

// WriteCommitMarkdown renders one commit's review: a metadata table, the
// severity tally, and issues grouped by severity.
func WriteCommitMarkdown(w io.Writer, rep *CommitReport) error {
	ew := &errWriter{w: w}

	ew.printf("# Commit Review: %s\n\n", rep.ShortID)
	ew.printf("| Field | Value |\n")
	ew.printf("|-------|-------|\n")
	ew.printf("| Commit | `%s` |\n", rep.CommitID)
	ew.printf("| Author | %s |\n", mdCell(rep.Author))
	ew.printf("| Date | %s |\n", mdCell(rep.Date))
	ew.printf("| Message | %s |\n", mdCell(rep.Message))
	ew.printf("| Files reviewed | %d |\n", rep.FilesReviewed)
	ew.printf("| Issues | %d |\n\n", rep.TotalIssues)

	ew.printf("## Issues by severity\n\n")
	ew.printf("| Severity | Count |\n")
	ew.printf("|----------|-------|\n")
	for _, sev := range rules.Severities {
		ew.printf("| %s %s | %d |\n", sev.Glyph(), sev.Title(), rep.Counts.Of(sev))
	}
	ew.printf("\n")

	if rep.TotalIssues == 0 {
		ew.println("No issues found.")
		return ew.err
	}

	grouped := make(map[rules.Severity][]StandardIssue)
	for _, iss := range rep.Issues {
		grouped[iss.Level] = append(grouped[iss.Level], iss)
	}

	for _, sev := range rules.Severities {
		issues := grouped[sev]
		if len(issues) == 0 {
			continue
		}

		ew.printf("## %s %s (%d)\n\n", sev.Glyph(), sev.Title(), len(issues))

		sort.Slice(issues, func(i, j int) bool {
			if issues[i].FilePath != issues[j].FilePath {
				return issues[i].FilePath < issues[j].FilePath
			}
			return issues[i].LineNumber < issues[j].LineNumber
		})

		for _, iss := range issues {
			ew.printf("### `%s:%d` — %s\n\n", iss.FilePath, iss.LineNumber, iss.RuleName)
			ew.printf("%s\n\n", iss.Description)
			if iss.FixSuggestion != "" {
				ew.printf("**Fix:** %s\n\n", iss.FixSuggestion)
			}
		}
	}

	return ew.err
}

// WriteCommitCSV emits the per-commit issue CSV. The caller decides
// whether to persist it; commits without issues get no CSV artifact.
func WriteCommitCSV(w io.Writer, rep *CommitReport) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(commitCSVHeader); err != nil {
		return fmt.Errorf("writing issue CSV header: %w", err)
	}
	for _, iss := range rep.Issues {
		rec := []string{
			iss.CommitID,
			iss.FilePath,
			strconv.Itoa(iss.LineNumber),
			iss.Description,
			string(iss.Level),
			iss.RuleName,
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing issue CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// mdCell makes a string safe inside a one-line markdown table cell.
func mdCell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", "\\|")
}
