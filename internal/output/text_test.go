package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mingzhai/arklens/internal/rules"
)

func sampleIssues() []rules.Issue {
	return []rules.Issue{
		{
			ID:         "aaaaaaaaaaaaaaaa",
			RuleID:     "foreach-key",
			RuleName:   "ForEach Key Generator",
			Category:   rules.CategoryPerformance,
			Severity:   rules.SeverityCritical,
			File:       "pages/list.ets",
			Line:       12,
			Message:    "ForEach called with 2 of 3 required arguments",
			Confidence: 0.95,
			Fix: &rules.FixSuggestion{
				Description: "Pass a key generator as the third argument",
				Code:        "(item: Item) => item.id",
				Effort:      "5m",
			},
		},
		{
			ID:         "bbbbbbbbbbbbbbbb",
			RuleID:     "no-implicit-any",
			RuleName:   "No Implicit Any",
			Category:   rules.CategoryTypeSafety,
			Severity:   rules.SeverityMedium,
			File:       "pages/detail.ets",
			Line:       3,
			Message:    "explicit any defeats type checking",
			Confidence: 0.9,
		},
	}
}

func TestTextWriter_NoIssues(t *testing.T) {
	report := NewReport("pull request octo/demo#5", 4, nil)

	var buf bytes.Buffer
	w := &TextWriter{}
	if err := w.Write(&buf, report); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "pull request octo/demo#5") {
		t.Error("output should mention the source")
	}
	if !strings.Contains(out, "Issues: 0 total") {
		t.Error("output should show zero issues")
	}
	if !strings.Contains(out, "No issues found") {
		t.Error("output should say no issues found")
	}
}

func TestTextWriter_WithIssues(t *testing.T) {
	report := NewReport("range abc..def", 2, sampleIssues())

	var buf bytes.Buffer
	w := &TextWriter{}
	if err := w.Write(&buf, report); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "1 critical") {
		t.Error("output should show critical count")
	}
	if !strings.Contains(out, "1 medium") {
		t.Error("output should show medium count")
	}
	if !strings.Contains(out, "CRITICAL") {
		t.Error("output should have a CRITICAL section")
	}
	if !strings.Contains(out, "MEDIUM") {
		t.Error("output should have a MEDIUM section")
	}
	if !strings.Contains(out, "pages/list.ets:12") {
		t.Error("output should show file:line")
	}
	if !strings.Contains(out, "Confidence: 95%") {
		t.Error("output should show confidence")
	}
	if !strings.Contains(out, "Fix:") {
		t.Error("output should show the fix")
	}
	if !strings.Contains(out, "Estimated effort: 5m") {
		t.Error("output should show the fix effort")
	}
}

func TestGetWriter(t *testing.T) {
	for _, format := range []string{"text", "json", "markdown", "sarif"} {
		if _, err := GetWriter(format); err != nil {
			t.Errorf("GetWriter(%q): %v", format, err)
		}
	}
	if _, err := GetWriter("yaml"); err == nil {
		t.Error("GetWriter(yaml) should fail")
	}
}
