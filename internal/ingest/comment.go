package ingest

import (
	"fmt"
	"strings"

	"github.com/mingzhai/arklens/internal/rules"
)

// ReviewComment is one inline review comment anchored to a new-side line.
type ReviewComment struct {
	Path string
	Line int
	Body string
}

// ReviewPost is a rendered review ready to submit: a Markdown summary
// body plus inline comments.
type ReviewPost struct {
	Body     string
	Comments []ReviewComment
}

// BuildReviewPost converts issues into a review post. Issues with a line
// number become inline comments; the rest are folded into a General
// Findings section of the body. Issue lines must already be file line
// numbers, not fragment offsets, or GitHub rejects the comments.
func BuildReviewPost(issues []rules.Issue) ReviewPost {
	counts := rules.CountBySeverity(issues)

	var bodyFindings []string
	var comments []ReviewComment
	for _, iss := range issues {
		if iss.File == "" || iss.Line <= 0 {
			bodyFindings = append(bodyFindings, formatBodyFinding(iss))
			continue
		}
		comments = append(comments, ReviewComment{
			Path: iss.File,
			Line: iss.Line,
			Body: formatInlineComment(iss),
		})
	}

	var sb strings.Builder
	sb.WriteString("## ArkLens Review\n\n")
	sb.WriteString("| Severity | Count |\n|----------|-------|\n")
	for _, sev := range rules.Severities {
		fmt.Fprintf(&sb, "| %s | %d |\n", sev.Title(), counts.Of(sev))
	}
	sb.WriteString("\n")

	if len(bodyFindings) > 0 {
		sb.WriteString("### General Findings\n\n")
		for _, f := range bodyFindings {
			sb.WriteString(f)
			sb.WriteString("\n\n")
		}
	}

	return ReviewPost{Body: sb.String(), Comments: comments}
}

func formatInlineComment(iss rules.Issue) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s** (%s, %s, confidence: %.0f%%)\n\n",
		iss.RuleName, iss.Severity, iss.Category, iss.Confidence*100)
	sb.WriteString(iss.Message)
	if iss.Fix != nil {
		fmt.Fprintf(&sb, "\n\n**Fix:** %s", iss.Fix.Description)
		if iss.Fix.Code != "" {
			fmt.Fprintf(&sb, "\n\n```typescript\n%s\n```", iss.Fix.Code)
		}
	}
	return sb.String()
}

func formatBodyFinding(iss rules.Issue) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "- **%s** (%s, %s): %s", iss.RuleName, iss.Severity, iss.Category, iss.Message)
	if iss.Fix != nil {
		fmt.Fprintf(&sb, " — *Fix: %s*", iss.Fix.Description)
	}
	return sb.String()
}
