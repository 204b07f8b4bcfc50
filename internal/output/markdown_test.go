package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestMarkdownWriter_Empty(t *testing.T) {
	report := NewReport("worktree", 0, nil)

	var buf bytes.Buffer
	w := &MarkdownWriter{}
	if err := w.Write(&buf, report); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "## ArkLens Review") {
		t.Error("output should have the report heading")
	}
	if !strings.Contains(out, "| **Total** | **0** |") {
		t.Error("output should show a zero total row")
	}
	if !strings.Contains(out, "No issues found") {
		t.Error("output should say no issues found")
	}
	if strings.Contains(out, "<details>") {
		t.Error("empty report should have no severity sections")
	}
}

func TestMarkdownWriter_WithIssues(t *testing.T) {
	report := NewReport("merge request group/project!42", 3, sampleIssues())

	var buf bytes.Buffer
	w := &MarkdownWriter{}
	if err := w.Write(&buf, report); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "<summary>🔴 CRITICAL (1)</summary>") {
		t.Error("output should have a collapsible critical section")
	}
	if !strings.Contains(out, "<summary>🟡 MEDIUM (1)</summary>") {
		t.Error("output should have a collapsible medium section")
	}
	if !strings.Contains(out, "### ForEach Key Generator") {
		t.Error("output should name the rule")
	}
	if !strings.Contains(out, "**`pages/list.ets:12`**") {
		t.Error("output should show file:line")
	}
	if !strings.Contains(out, "```typescript") {
		t.Error("fix code should be fenced")
	}
	if !strings.Contains(out, "| **Total** | **2** |") {
		t.Error("summary table should show the total")
	}
}
