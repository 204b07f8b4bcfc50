package gitrepo

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// CommitInfo is one manifest row: commit identity, authorship, subject,
// and how many files the commit touched.
type CommitInfo struct {
	ShortID      string
	LongID       string
	Author       string
	Date         string
	Message      string
	FilesChanged int
}

// CollectOptions bound a commit collection.
type CollectOptions struct {
	Ref      string // rev to walk; "" means HEAD
	Since    string // passed through to git log --since
	Until    string // passed through to git log --until
	MaxCount int    // 0 means unlimited
}

// logFormat emits one commit per line. The subject is the final field, so
// pipes inside it survive a bounded split.
const logFormat = "--pretty=format:%h|%H|%an|%ad|%s"

// Collect walks the log newest-first per the options, then counts each
// commit's changed files with a per-commit query. A commit whose file
// listing fails keeps a zero count and the walk continues.
func (r *Repo) Collect(ctx context.Context, opts CollectOptions) ([]CommitInfo, error) {
	args := []string{"log", logFormat, "--date=iso"}
	if opts.MaxCount > 0 {
		args = append(args, fmt.Sprintf("-n%d", opts.MaxCount))
	}
	if opts.Since != "" {
		args = append(args, "--since="+opts.Since)
	}
	if opts.Until != "" {
		args = append(args, "--until="+opts.Until)
	}
	if opts.Ref != "" {
		args = append(args, opts.Ref)
	}

	out, err := r.git(ctx, args...)
	if err != nil {
		return nil, err
	}

	var commits []CommitInfo
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "|", 5)
		if len(parts) < 5 {
			slog.Warn("skipping malformed log line", "line", line)
			continue
		}
		ci := CommitInfo{
			ShortID: parts[0],
			LongID:  parts[1],
			Author:  parts[2],
			Date:    parts[3],
			Message: parts[4],
		}
		files, err := r.ChangedFiles(ctx, ci.LongID)
		if err != nil {
			slog.Warn("could not count changed files", "commit", ci.ShortID, "error", err)
		}
		ci.FilesChanged = len(files)
		commits = append(commits, ci)
	}
	return commits, nil
}
