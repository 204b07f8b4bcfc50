package batch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/mingzhai/arklens/internal/analysis"
	"github.com/mingzhai/arklens/internal/gitrepo"
	"github.com/mingzhai/arklens/internal/output"
	"github.com/mingzhai/arklens/internal/rules"
)

// DefaultExtensions is the file allow-list applied when options name none.
var DefaultExtensions = []string{".ets", ".ts"}

// stampLayout names artifacts; one stamp is taken per run so repeated runs
// never collide.
const stampLayout = "20060102-150405"

// Options selects the manifest slice and file filter for one run.
// StartFrom is a zero-based manifest index; MaxCommits of zero means all
// remaining rows. The selected slice is [StartFrom, StartFrom+MaxCommits).
type Options struct {
	Extensions []string
	MaxCommits int
	StartFrom  int
}

// Reviewer drives the rule engine across a commit manifest, one commit at
// a time in manifest order, and persists report artifacts as it goes.
type Reviewer struct {
	repo      *gitrepo.Repo
	engine    *rules.Engine
	outputDir string
}

// NewReviewer builds a reviewer writing artifacts under outputDir. A nil
// engine means the default rule set.
func NewReviewer(repo *gitrepo.Repo, engine *rules.Engine, outputDir string) *Reviewer {
	if engine == nil {
		engine = rules.NewEngine(nil)
	}
	return &Reviewer{repo: repo, engine: engine, outputDir: outputDir}
}

// Run reviews the selected manifest slice. A commit that fails is logged
// and excluded from the returned reports; the run continues. The returned
// slice holds one report per successfully reviewed commit, in manifest
// order.
func (r *Reviewer) Run(ctx context.Context, manifestPath string, opts Options) ([]*output.CommitReport, error) {
	commits, err := gitrepo.ReadManifestFile(manifestPath)
	if err != nil {
		return nil, err
	}
	slice := sliceCommits(commits, opts.StartFrom, opts.MaxCommits)

	exts := opts.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}

	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	runID := ulid.Make().String()
	startedAt := time.Now()
	stamp := startedAt.Format(stampLayout)

	reports := make([]*output.CommitReport, 0, len(slice))
	for _, ci := range slice {
		rep, err := r.reviewCommit(ctx, ci, exts)
		if err != nil {
			slog.Warn("skipping commit", "commit", ci.ShortID, "error", err)
			continue
		}
		if err := r.persistCommit(rep, stamp); err != nil {
			slog.Warn("skipping commit, artifacts not written", "commit", ci.ShortID, "error", err)
			continue
		}
		reports = append(reports, rep)
	}

	sum := &output.RunSummary{RunID: runID, GeneratedAt: startedAt, Reports: reports}
	if err := r.persistSummary(sum, stamp); err != nil {
		return reports, err
	}
	return reports, nil
}

// sliceCommits takes the half-open manifest slice [start, start+max).
func sliceCommits(commits []gitrepo.CommitInfo, start, max int) []gitrepo.CommitInfo {
	if start < 0 {
		start = 0
	}
	if start >= len(commits) {
		return nil
	}
	end := len(commits)
	if max > 0 && start+max < end {
		end = start + max
	}
	return commits[start:end]
}

// reviewCommit runs the full pipeline for one commit: changed files,
// extension filter, content at that revision, extraction, rules. A file
// whose content cannot be fetched (deleted at that commit, say) is skipped
// with a warning; only listing the changed files can fail the commit.
func (r *Reviewer) reviewCommit(ctx context.Context, ci gitrepo.CommitInfo, exts []string) (*output.CommitReport, error) {
	files, err := r.repo.ChangedFiles(ctx, ci.LongID)
	if err != nil {
		return nil, err
	}

	var found []rules.Issue
	reviewed := 0
	for _, path := range files {
		if !allowedExtension(path, exts) {
			continue
		}
		content, err := r.repo.Show(ctx, ci.LongID, path)
		if err != nil {
			slog.Warn("skipping file", "commit", ci.ShortID, "path", path, "error", err)
			continue
		}
		found = append(found, r.reviewFile(content, path, ci.LongID)...)
		reviewed++
	}

	issues := output.StandardIssues(ci.LongID, found)
	return &output.CommitReport{
		CommitID:      ci.LongID,
		ShortID:       ci.ShortID,
		Message:       ci.Message,
		Author:        ci.Author,
		Date:          ci.Date,
		FilesReviewed: reviewed,
		TotalIssues:   len(issues),
		Issues:        issues,
		Counts:        rules.CountBySeverity(found),
		GeneratedAt:   time.Now(),
	}, nil
}

func (r *Reviewer) reviewFile(content, path, commitID string) []rules.Issue {
	src := analysis.ParseSource(content, path)
	defer src.Close()
	feats := analysis.ExtractFromSource(src)
	return r.engine.RunAll(src, feats, rules.Context{FilePath: path, CommitID: commitID})
}

func allowedExtension(path string, exts []string) bool {
	ext := filepath.Ext(path)
	for _, allowed := range exts {
		if ext == allowed {
			return true
		}
	}
	return false
}

// persistCommit writes the per-commit markdown, plus the per-commit CSV
// when the commit has issues.
func (r *Reviewer) persistCommit(rep *output.CommitReport, stamp string) error {
	mdPath := filepath.Join(r.outputDir, fmt.Sprintf("commit-%s-%s.md", rep.ShortID, stamp))
	err := writeArtifact(mdPath, func(w io.Writer) error {
		return output.WriteCommitMarkdown(w, rep)
	})
	if err != nil {
		return err
	}
	if rep.TotalIssues == 0 {
		return nil
	}
	csvPath := filepath.Join(r.outputDir, fmt.Sprintf("commit-%s-%s.csv", rep.ShortID, stamp))
	return writeArtifact(csvPath, func(w io.Writer) error {
		return output.WriteCommitCSV(w, rep)
	})
}

// persistSummary writes the aggregate markdown and the master issue CSV.
func (r *Reviewer) persistSummary(sum *output.RunSummary, stamp string) error {
	mdPath := filepath.Join(r.outputDir, fmt.Sprintf("summary-%s.md", stamp))
	err := writeArtifact(mdPath, func(w io.Writer) error {
		return output.WriteSummaryMarkdown(w, sum)
	})
	if err != nil {
		return err
	}
	csvPath := filepath.Join(r.outputDir, fmt.Sprintf("issues-%s.csv", stamp))
	return writeArtifact(csvPath, func(w io.Writer) error {
		return output.WriteMasterCSV(w, sum.Reports)
	})
}

func writeArtifact(path string, render func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return fmt.Errorf("rendering %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing artifact: %w", err)
	}
	return nil
}
