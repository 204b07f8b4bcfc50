package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mingzhai/arklens/internal/rules"
)

// TextWriter outputs a human-readable text report.
type TextWriter struct{}

func (t *TextWriter) Write(w io.Writer, report *Report) error {
	ew := &errWriter{w: w}

	total := report.Counts.Total()
	ew.printf("ArkLens Review — %s\n", report.Source)
	ew.printf("Files reviewed: %d\n", report.FilesReviewed)
	ew.println(strings.Repeat("─", 60))
	ew.printf("Issues: %d total", total)
	if total > 0 {
		ew.printf(" (%d critical, %d high, %d medium, %d low, %d info)",
			report.Counts.Critical,
			report.Counts.High,
			report.Counts.Medium,
			report.Counts.Low,
			report.Counts.Info,
		)
	}
	ew.println("")
	ew.println(strings.Repeat("─", 60))

	if total == 0 {
		ew.println("\nNo issues found. Looks good!")
		return ew.err
	}

	// Group by severity (critical first), then by file
	grouped := groupBySeverity(report.Issues)
	for _, sev := range rules.Severities {
		issues := grouped[sev]
		if len(issues) == 0 {
			continue
		}

		label := strings.ToUpper(string(sev))
		ew.printf("\n%s %s\n", sev.Glyph(), label)
		ew.println(strings.Repeat("─", 40))

		sort.Slice(issues, func(i, j int) bool {
			if issues[i].File != issues[j].File {
				return issues[i].File < issues[j].File
			}
			return issues[i].Line < issues[j].Line
		})

		for _, iss := range issues {
			ew.printf("\n  %s:%d  %s\n", iss.File, iss.Line, iss.RuleName)
			ew.printf("  Category: %s | Confidence: %.0f%%\n",
				iss.Category, iss.Confidence*100)

			for _, line := range wrapText(iss.Message, 70) {
				ew.printf("    %s\n", line)
			}

			if iss.Fix != nil {
				ew.println("  Fix:")
				for _, line := range wrapText(iss.Fix.Description, 70) {
					ew.printf("    %s\n", line)
				}
				if iss.Fix.Effort != "" {
					ew.printf("    Estimated effort: %s\n", iss.Fix.Effort)
				}
			}
		}
	}

	ew.printf("\n%s\n", strings.Repeat("─", 60))
	ew.printf("Generated at %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05"))

	return ew.err
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}

func groupBySeverity(issues []rules.Issue) map[rules.Severity][]rules.Issue {
	m := make(map[rules.Severity][]rules.Issue)
	for _, iss := range issues {
		m[iss.Severity] = append(m[iss.Severity], iss)
	}
	return m
}

func wrapText(text string, width int) []string {
	if len(text) <= width {
		return []string{text}
	}
	var lines []string
	words := strings.Fields(text)
	var current strings.Builder
	for _, word := range words {
		if current.Len()+len(word)+1 > width && current.Len() > 0 {
			lines = append(lines, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}
