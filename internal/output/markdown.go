package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mingzhai/arklens/internal/rules"
)

// MarkdownWriter outputs a PR-comment-friendly markdown report.
type MarkdownWriter struct{}

func (m *MarkdownWriter) Write(w io.Writer, report *Report) error {
	total := report.Counts.Total()

	fmt.Fprintf(w, "## ArkLens Review\n\n")
	fmt.Fprintf(w, "Source: `%s` — %d file(s) reviewed\n\n", report.Source, report.FilesReviewed)

	// Summary table
	fmt.Fprintf(w, "| Severity | Count |\n")
	fmt.Fprintf(w, "|----------|-------|\n")
	for _, sev := range rules.Severities {
		fmt.Fprintf(w, "| %s %s | %d |\n", sev.Glyph(), sev.Title(), report.Counts.Of(sev))
	}
	fmt.Fprintf(w, "| **Total** | **%d** |\n\n", total)

	if total == 0 {
		fmt.Fprintln(w, "No issues found. :white_check_mark:")
		return nil
	}

	// Collapsible sections by severity
	grouped := groupBySeverity(report.Issues)
	for _, sev := range rules.Severities {
		issues := grouped[sev]
		if len(issues) == 0 {
			continue
		}

		label := strings.ToUpper(string(sev))
		fmt.Fprintf(w, "<details>\n<summary>%s %s (%d)</summary>\n\n", sev.Glyph(), label, len(issues))

		sort.Slice(issues, func(i, j int) bool {
			if issues[i].File != issues[j].File {
				return issues[i].File < issues[j].File
			}
			return issues[i].Line < issues[j].Line
		})

		for _, iss := range issues {
			fmt.Fprintf(w, "### %s\n\n", iss.RuleName)
			fmt.Fprintf(w, "**`%s:%d`** | %s | Confidence: %.0f%%\n\n",
				iss.File, iss.Line, iss.Category, iss.Confidence*100)
			fmt.Fprintf(w, "%s\n\n", iss.Message)

			if iss.Fix != nil {
				fmt.Fprintf(w, "**Fix:** %s\n\n", iss.Fix.Description)
				if iss.Fix.Code != "" {
					fmt.Fprintf(w, "```typescript\n%s\n```\n\n", iss.Fix.Code)
				}
				if iss.Fix.Verification != "" {
					fmt.Fprintf(w, "> Verify: %s\n\n", iss.Fix.Verification)
				}
			}

			fmt.Fprintf(w, "---\n\n")
		}

		fmt.Fprintf(w, "</details>\n\n")
	}

	fmt.Fprintf(w, "*Generated at %s*\n", report.GeneratedAt.Format("2006-01-02 15:04:05"))

	return nil
}
