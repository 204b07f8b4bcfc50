package gitrepo

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// Repo is an explicit handle to one local repository. Every git call runs
// as `git -C <dir>`, so the process working directory never matters and
// callers can operate on several repositories at once.
type Repo struct {
	dir string
}

// Open resolves path and verifies it is inside a git work tree.
func Open(ctx context.Context, path string) (*Repo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving repo path: %w", err)
	}
	r := &Repo{dir: abs}
	if _, err := r.git(ctx, "rev-parse", "--git-dir"); err != nil {
		return nil, fmt.Errorf("not a git repository: %s", abs)
	}
	return r, nil
}

// Dir returns the absolute repository path.
func (r *Repo) Dir() string {
	return r.dir
}

// git runs one git command against the repository and returns its stdout.
// Stderr is folded into the returned error.
func (r *Repo) git(ctx context.Context, args ...string) (string, error) {
	full := append([]string{"-C", r.dir}, args...)
	cmd := exec.CommandContext(ctx, "git", full...)
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return string(out), fmt.Errorf("git %s: %s: %s",
				strings.Join(args, " "), err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return string(out), nil
}

// ChangedFiles lists the paths touched by one commit. --root makes the
// initial commit report its files instead of an empty diff.
func (r *Repo) ChangedFiles(ctx context.Context, commit string) ([]string, error) {
	out, err := r.git(ctx, "diff-tree", "--no-commit-id", "--name-only", "-r", "--root", commit)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			files = append(files, line)
		}
	}
	return files, nil
}

// Show returns the content of path as committed at commit.
func (r *Repo) Show(ctx context.Context, commit, path string) (string, error) {
	return r.git(ctx, "show", commit+":"+path)
}

// Diff returns the unified diff between two refs.
func (r *Repo) Diff(ctx context.Context, base, head string) (string, error) {
	return r.git(ctx, "diff", base, head)
}

// WorktreeDiff returns the diff of uncommitted changes: index vs HEAD when
// staged is true, working tree vs index otherwise.
func (r *Repo) WorktreeDiff(ctx context.Context, staged bool) (string, error) {
	if staged {
		return r.git(ctx, "diff", "--cached")
	}
	return r.git(ctx, "diff")
}
