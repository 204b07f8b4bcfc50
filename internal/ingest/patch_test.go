package ingest

import (
	"reflect"
	"strings"
	"testing"
)

const multiFileDiff = `diff --git a/pages/index.ets b/pages/index.ets
index 1111111..2222222 100644
--- a/pages/index.ets
+++ b/pages/index.ets
@@ -1,3 +1,3 @@
 import router from '@ohos.router'
-let title = 'old'
+let title = 'new'
 let keep = 1
@@ -10,1 +10,2 @@
 footer()
+log()
diff --git a/pages/detail.ets b/pages/detail.ets
new file mode 100644
index 0000000..3333333
--- /dev/null
+++ b/pages/detail.ets
@@ -0,0 +1,2 @@
+struct Detail {
+}
diff --git a/util/dead.ts b/util/dead.ts
deleted file mode 100644
index 4444444..0000000
--- a/util/dead.ts
+++ /dev/null
@@ -1,1 +0,0 @@
-export const dead = true
`

func TestParseUnifiedDiff(t *testing.T) {
	changes := ParseUnifiedDiff(multiFileDiff)
	if len(changes) != 3 {
		t.Fatalf("got %d changes, want 3", len(changes))
	}

	mod := changes[0]
	if mod.Path != "pages/index.ets" {
		t.Errorf("changes[0].Path = %q, want pages/index.ets", mod.Path)
	}
	if mod.ChangeType != ChangeModified {
		t.Errorf("changes[0].ChangeType = %q, want %q", mod.ChangeType, ChangeModified)
	}
	wantNew := "import router from '@ohos.router'\nlet title = 'new'\nlet keep = 1\nfooter()\nlog()\n"
	if mod.NewContent != wantNew {
		t.Errorf("new content = %q, want %q", mod.NewContent, wantNew)
	}
	wantOld := "import router from '@ohos.router'\nlet title = 'old'\nlet keep = 1\nfooter()\n"
	if mod.OldContent != wantOld {
		t.Errorf("old content = %q, want %q", mod.OldContent, wantOld)
	}

	added := changes[1]
	if added.Path != "pages/detail.ets" {
		t.Errorf("changes[1].Path = %q, want pages/detail.ets", added.Path)
	}
	if added.ChangeType != ChangeAdded {
		t.Errorf("changes[1].ChangeType = %q, want %q", added.ChangeType, ChangeAdded)
	}
	if added.OldContent != "" {
		t.Errorf("added file has old content %q", added.OldContent)
	}
	if !strings.Contains(added.NewContent, "struct Detail {") {
		t.Errorf("added file new content = %q", added.NewContent)
	}

	deleted := changes[2]
	if deleted.Path != "util/dead.ts" {
		t.Errorf("changes[2].Path = %q, want util/dead.ts", deleted.Path)
	}
	if deleted.ChangeType != ChangeDeleted {
		t.Errorf("changes[2].ChangeType = %q, want %q", deleted.ChangeType, ChangeDeleted)
	}
	if deleted.NewContent != "" {
		t.Errorf("deleted file has new content %q", deleted.NewContent)
	}
	if deleted.OldContent != "export const dead = true\n" {
		t.Errorf("deleted file old content = %q", deleted.OldContent)
	}
}

func TestParseUnifiedDiff_Empty(t *testing.T) {
	if got := ParseUnifiedDiff(""); len(got) != 0 {
		t.Errorf("empty diff produced %d changes", len(got))
	}
	if got := ParseUnifiedDiff("no diff markers here\n"); len(got) != 0 {
		t.Errorf("non-diff text produced %d changes", len(got))
	}
}

func TestReplay_ContextCountsTowardBothSides(t *testing.T) {
	fragment := "@@ -1,3 +1,3 @@\n shared\n-removed\n+inserted\n shared2"
	if got, want := ReplayNew(fragment), "shared\ninserted\nshared2\n"; got != want {
		t.Errorf("ReplayNew = %q, want %q", got, want)
	}
	if got, want := ReplayOld(fragment), "shared\nremoved\nshared2\n"; got != want {
		t.Errorf("ReplayOld = %q, want %q", got, want)
	}
}

func TestReplay_EmptyLineInsideHunkIsContext(t *testing.T) {
	fragment := "@@ -1,3 +1,3 @@\n first\n\n last"
	want := "first\n\nlast\n"
	if got := ReplayNew(fragment); got != want {
		t.Errorf("ReplayNew = %q, want %q", got, want)
	}
	if got := ReplayOld(fragment); got != want {
		t.Errorf("ReplayOld = %q, want %q", got, want)
	}
}

func TestReplay_NoNewlineMarkerSkipped(t *testing.T) {
	fragment := "@@ -1 +1 @@\n-old\n+new\n\\ No newline at end of file"
	if got := ReplayNew(fragment); got != "new\n" {
		t.Errorf("ReplayNew = %q, want %q", got, "new\n")
	}
}

func TestReplay_IgnoresTextBeforeFirstHunk(t *testing.T) {
	fragment := "--- a/x.ts\n+++ b/x.ts\n@@ -1 +1 @@\n+only\n"
	if got := ReplayNew(fragment); got != "only\n" {
		t.Errorf("ReplayNew = %q, want %q", got, "only\n")
	}
	if got := ReplayNew(""); got != "" {
		t.Errorf("ReplayNew(empty) = %q, want empty", got)
	}
}

func TestNewLineNumbers_JumpsBetweenHunks(t *testing.T) {
	changes := ParseUnifiedDiff(multiFileDiff)

	mod := changes[0]
	if want := []int{1, 2, 3, 10, 11}; !reflect.DeepEqual(mod.NewLines, want) {
		t.Errorf("modified NewLines = %v, want %v", mod.NewLines, want)
	}
	if contentLines := strings.Count(mod.NewContent, "\n"); len(mod.NewLines) != contentLines {
		t.Errorf("mapping covers %d lines, replayed content has %d", len(mod.NewLines), contentLines)
	}

	added := changes[1]
	if want := []int{1, 2}; !reflect.DeepEqual(added.NewLines, want) {
		t.Errorf("added NewLines = %v, want %v", added.NewLines, want)
	}

	deleted := changes[2]
	if deleted.NewLines != nil {
		t.Errorf("deleted NewLines = %v, want nil", deleted.NewLines)
	}
}

func TestNewLineNumbers_NoNewlineMarkerSkipped(t *testing.T) {
	fragment := "@@ -1 +5 @@\n-old\n+new\n\\ No newline at end of file"
	if got, want := NewLineNumbers(fragment), []int{5}; !reflect.DeepEqual(got, want) {
		t.Errorf("NewLineNumbers = %v, want %v", got, want)
	}
}

func TestTrueLine(t *testing.T) {
	fc := FileChange{NewLines: []int{1, 2, 3, 10, 11}}
	if got := fc.TrueLine(4); got != 10 {
		t.Errorf("TrueLine(4) = %d, want 10", got)
	}
	if got := fc.TrueLine(0); got != 0 {
		t.Errorf("TrueLine(0) = %d, want 0", got)
	}
	if got := fc.TrueLine(99); got != 99 {
		t.Errorf("TrueLine(99) = %d, want 99", got)
	}

	// Nil mapping means the content already is the complete file.
	full := FileChange{}
	if got := full.TrueLine(7); got != 7 {
		t.Errorf("TrueLine(7) with nil mapping = %d, want 7", got)
	}
}
