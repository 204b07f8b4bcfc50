package ingest

import (
	"strconv"
	"strings"
)

// ReplayNew reconstructs the file's new side from a unified diff fragment:
// added and context lines in order, removed lines dropped. Hosted APIs
// return only the fragment, so this is the best content recoverable there.
func ReplayNew(diff string) string {
	return replay(diff, '+')
}

// ReplayOld reconstructs the file's old side: removed and context lines
// in order, added lines dropped.
func ReplayOld(diff string) string {
	return replay(diff, '-')
}

// replay walks the diff fragment and keeps context lines plus lines whose
// marker matches keep. Lines before the first hunk header are diff
// metadata, not content. A completely empty line inside a hunk is a
// context line whose text is empty; "\ No newline at end of file" is a
// marker, not content.
func replay(diff string, keep byte) string {
	lines := strings.Split(diff, "\n")
	// A trailing newline splits into a final empty element; that is an
	// artifact, not an empty context line.
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}

	var b strings.Builder
	inHunk := false
	for _, line := range lines {
		if strings.HasPrefix(line, "@@") {
			inHunk = true
			continue
		}
		if !inHunk {
			continue
		}
		if line == "" {
			b.WriteString("\n")
			continue
		}
		switch line[0] {
		case ' ', keep:
			b.WriteString(line[1:])
			b.WriteString("\n")
		case '\\':
			// no-newline marker
		}
	}
	return b.String()
}

// NewLineNumbers returns the new-file line number of each line ReplayNew
// keeps, in order. Replayed content is dense while the real file keeps
// its unchanged regions, so the numbers jump between hunks. The walk
// must keep exactly the lines replay keeps or the mapping drifts.
func NewLineNumbers(diff string) []int {
	lines := strings.Split(diff, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}

	var nums []int
	next := 0
	inHunk := false
	for _, line := range lines {
		if strings.HasPrefix(line, "@@") {
			inHunk = true
			next = hunkNewStart(line)
			continue
		}
		if !inHunk {
			continue
		}
		if line == "" {
			nums = append(nums, next)
			next++
			continue
		}
		switch line[0] {
		case ' ', '+':
			nums = append(nums, next)
			next++
		case '\\':
		}
	}
	return nums
}

// hunkNewStart reads the new-side start line from a "@@ -a,b +c,d @@"
// header, or 0 when the header does not parse.
func hunkNewStart(header string) int {
	plus := strings.IndexByte(header, '+')
	if plus < 0 {
		return 0
	}
	rest := header[plus+1:]
	end := 0
	for end < len(rest) && rest[end] >= '0' && rest[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(rest[:end])
	if err != nil {
		return 0
	}
	return n
}

// ParseUnifiedDiff splits a multi-file unified diff into per-file changes,
// replaying both sides of every block. Files appear in diff order.
func ParseUnifiedDiff(diff string) []FileChange {
	var changes []FileChange
	for _, block := range splitFileBlocks(diff) {
		if fc, ok := parseFileBlock(block); ok {
			changes = append(changes, fc)
		}
	}
	return changes
}

// splitFileBlocks cuts the diff at "diff --git " headers. Text before the
// first header is discarded.
func splitFileBlocks(diff string) []string {
	parts := strings.Split(diff, "diff --git ")
	var blocks []string
	for i, part := range parts {
		if i == 0 || strings.TrimSpace(part) == "" {
			continue
		}
		blocks = append(blocks, "diff --git "+part)
	}
	return blocks
}

// parseFileBlock extracts the path and change type from one file's block
// and replays its content. The b-side path is preferred so renames land on
// the new name; deletions fall back to the a-side.
func parseFileBlock(block string) (FileChange, bool) {
	fc := FileChange{ChangeType: ChangeModified}
	var aPath, bPath string
	for _, line := range strings.Split(block, "\n") {
		if strings.HasPrefix(line, "@@") {
			break
		}
		switch {
		case strings.HasPrefix(line, "diff --git "):
			aPath, bPath = parseGitHeaderPaths(line)
		case strings.HasPrefix(line, "new file mode"):
			fc.ChangeType = ChangeAdded
		case strings.HasPrefix(line, "deleted file mode"):
			fc.ChangeType = ChangeDeleted
		case strings.HasPrefix(line, "--- a/"):
			aPath = strings.TrimPrefix(line, "--- a/")
		case strings.HasPrefix(line, "+++ b/"):
			bPath = strings.TrimPrefix(line, "+++ b/")
		}
	}
	switch {
	case fc.ChangeType == ChangeDeleted && aPath != "":
		fc.Path = aPath
	case bPath != "":
		fc.Path = bPath
	default:
		fc.Path = aPath
	}
	if fc.Path == "" {
		return FileChange{}, false
	}
	fc.NewContent = ReplayNew(block)
	fc.OldContent = ReplayOld(block)
	fc.NewLines = NewLineNumbers(block)
	return fc, true
}

// parseGitHeaderPaths reads "diff --git a/old b/new". Paths with spaces
// are ambiguous in this header; the ---/+++ lines override when present.
func parseGitHeaderPaths(line string) (string, string) {
	rest := strings.TrimPrefix(line, "diff --git ")
	fields := strings.Fields(rest)
	var a, b string
	for _, f := range fields {
		if strings.HasPrefix(f, "a/") && a == "" {
			a = strings.TrimPrefix(f, "a/")
		}
		if strings.HasPrefix(f, "b/") {
			b = strings.TrimPrefix(f, "b/")
		}
	}
	return a, b
}
