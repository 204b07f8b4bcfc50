package ingest

import (
	"context"
	"fmt"
	"os"

	"github.com/mingzhai/arklens/internal/gitrepo"
)

// FromPatchFile reads a unified diff from disk and splits it into file
// changes with both sides replayed.
func FromPatchFile(path string) ([]FileChange, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading diff file: %w", err)
	}
	return ParseUnifiedDiff(string(data)), nil
}

// FromRepoDiff asks the repository for the diff between two revisions and
// splits it into file changes.
func FromRepoDiff(ctx context.Context, repo *gitrepo.Repo, from, to string) ([]FileChange, error) {
	diff, err := repo.Diff(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return ParseUnifiedDiff(diff), nil
}

// FromWorktree captures uncommitted changes, staged or unstaged, as file
// changes.
func FromWorktree(ctx context.Context, repo *gitrepo.Repo, staged bool) ([]FileChange, error) {
	diff, err := repo.WorktreeDiff(ctx, staged)
	if err != nil {
		return nil, err
	}
	return ParseUnifiedDiff(diff), nil
}
