package gitrepo

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func initRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	dir := t.TempDir()
	mustGit(t, dir, "init", "-q")
	mustGit(t, dir, "config", "user.email", "dev@example.com")
	mustGit(t, dir, "config", "user.name", "Dev")
	mustGit(t, dir, "config", "commit.gpgsign", "false")
	return dir
}

func mustGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %v: %v\n%s", args, err, out)
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// seedCommits creates three commits: one file, two files, one modification.
func seedCommits(t *testing.T, dir string) {
	t.Helper()
	writeFile(t, dir, "pages/index.ets", "// v1\n")
	mustGit(t, dir, "add", ".")
	mustGit(t, dir, "commit", "-q", "-m", "first page")

	writeFile(t, dir, "pages/detail.ets", "// detail\n")
	writeFile(t, dir, "util.ts", "export const n = 1\n")
	mustGit(t, dir, "add", ".")
	mustGit(t, dir, "commit", "-q", "-m", "add detail page")

	writeFile(t, dir, "pages/index.ets", "// v2\n")
	mustGit(t, dir, "add", ".")
	mustGit(t, dir, "commit", "-q", "-m", "tweak index")
}

func isHex(s string) bool {
	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return false
		}
	}
	return len(s) > 0
}

func TestOpen_NotARepository(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	if _, err := Open(context.Background(), t.TempDir()); err == nil {
		t.Fatal("Open on a plain directory should fail")
	}
}

func TestCollect(t *testing.T) {
	dir := initRepo(t)
	seedCommits(t, dir)
	ctx := context.Background()

	repo, err := Open(ctx, dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	commits, err := repo.Collect(ctx, CollectOptions{})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(commits) != 3 {
		t.Fatalf("got %d commits, want 3", len(commits))
	}

	wantMessages := []string{"tweak index", "add detail page", "first page"}
	wantFiles := []int{1, 2, 1}
	for i, c := range commits {
		if c.Message != wantMessages[i] {
			t.Errorf("commit %d message = %q, want %q", i, c.Message, wantMessages[i])
		}
		if c.FilesChanged != wantFiles[i] {
			t.Errorf("commit %d files = %d, want %d", i, c.FilesChanged, wantFiles[i])
		}
		if len(c.LongID) != 40 || !isHex(c.LongID) {
			t.Errorf("commit %d long ID %q is not 40 hex chars", i, c.LongID)
		}
		if !strings.HasPrefix(c.LongID, c.ShortID) {
			t.Errorf("commit %d short ID %q is not a prefix of %q", i, c.ShortID, c.LongID)
		}
		if c.Author != "Dev" {
			t.Errorf("commit %d author = %q, want Dev", i, c.Author)
		}
		if c.Date == "" {
			t.Errorf("commit %d has empty date", i)
		}
	}
}

func TestCollect_MaxCount(t *testing.T) {
	dir := initRepo(t)
	seedCommits(t, dir)
	ctx := context.Background()

	repo, err := Open(ctx, dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	commits, err := repo.Collect(ctx, CollectOptions{MaxCount: 2})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(commits) != 2 {
		t.Fatalf("got %d commits, want 2", len(commits))
	}
	if commits[0].Message != "tweak index" {
		t.Errorf("newest commit message = %q, want %q", commits[0].Message, "tweak index")
	}
}

func TestChangedFilesAndShow(t *testing.T) {
	dir := initRepo(t)
	seedCommits(t, dir)
	ctx := context.Background()

	repo, err := Open(ctx, dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	commits, err := repo.Collect(ctx, CollectOptions{})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	second := commits[1] // "add detail page"
	files, err := repo.ChangedFiles(ctx, second.LongID)
	if err != nil {
		t.Fatalf("ChangedFiles: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("got files %v, want 2 entries", files)
	}
	joined := strings.Join(files, " ")
	if !strings.Contains(joined, "pages/detail.ets") || !strings.Contains(joined, "util.ts") {
		t.Errorf("unexpected files: %v", files)
	}

	oldest := commits[2]
	content, err := repo.Show(ctx, oldest.LongID, "pages/index.ets")
	if err != nil {
		t.Fatalf("Show: %v", err)
	}
	if content != "// v1\n" {
		t.Errorf("Show at first commit = %q, want %q", content, "// v1\n")
	}

	newest := commits[0]
	content, err = repo.Show(ctx, newest.LongID, "pages/index.ets")
	if err != nil {
		t.Fatalf("Show: %v", err)
	}
	if content != "// v2\n" {
		t.Errorf("Show at last commit = %q, want %q", content, "// v2\n")
	}

	if _, err := repo.Show(ctx, newest.LongID, "missing.ets"); err == nil {
		t.Error("Show on a path absent from the commit should fail")
	}
}

func TestDiffAndWorktreeDiff(t *testing.T) {
	dir := initRepo(t)
	seedCommits(t, dir)
	ctx := context.Background()

	repo, err := Open(ctx, dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	commits, err := repo.Collect(ctx, CollectOptions{})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	diff, err := repo.Diff(ctx, commits[2].LongID, commits[0].LongID)
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}
	if !strings.Contains(diff, "pages/index.ets") || !strings.Contains(diff, "diff --git") {
		t.Errorf("range diff missing expected content:\n%s", diff)
	}

	writeFile(t, dir, "pages/index.ets", "// v3\n")
	unstaged, err := repo.WorktreeDiff(ctx, false)
	if err != nil {
		t.Fatalf("WorktreeDiff(unstaged): %v", err)
	}
	if !strings.Contains(unstaged, "v3") {
		t.Errorf("unstaged diff missing edit:\n%s", unstaged)
	}

	mustGit(t, dir, "add", ".")
	staged, err := repo.WorktreeDiff(ctx, true)
	if err != nil {
		t.Fatalf("WorktreeDiff(staged): %v", err)
	}
	if !strings.Contains(staged, "v3") {
		t.Errorf("staged diff missing edit:\n%s", staged)
	}
}
