package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mingzhai/arklens/internal/analysis"
	"github.com/mingzhai/arklens/internal/config"
	"github.com/mingzhai/arklens/internal/gitrepo"
	"github.com/mingzhai/arklens/internal/ingest"
	"github.com/mingzhai/arklens/internal/output"
	"github.com/mingzhai/arklens/internal/rules"
	"github.com/spf13/cobra"
)

// Shared review flags
var (
	flagFormat   string
	flagOut      string
	flagFailOn   string
	flagRules    string
	flagCategory string
	flagExt      string
	flagStaged   bool
	flagComment  bool
)

func addReviewFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagFormat, "format", "", "Output format (text, json, markdown, sarif)")
	cmd.Flags().StringVar(&flagOut, "out", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&flagFailOn, "fail-on", "", "Fail on severity threshold (none, info, low, medium, high, critical)")
	cmd.Flags().StringVar(&flagRules, "rules", "", "Run only these rule IDs (comma-separated)")
	cmd.Flags().StringVar(&flagCategory, "category", "", "Run only rules in this category")
	cmd.Flags().StringVar(&flagExt, "ext", "", "File extensions to review (comma-separated, default .ets,.ts)")
}

func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagFormat != "" {
		m["format"] = flagFormat
	}
	if flagFailOn != "" {
		m["failOn"] = flagFailOn
	}
	if flagExt != "" {
		m["extensions"] = flagExt
	}
	return m
}

func splitComma(s string) []string {
	parts := strings.Split(s, ",")
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// runReview runs the rule engine over every reviewable change, renders one
// report, and applies the fail-on threshold. Rules see replayed fragment
// content, so issue lines are mapped back to file line numbers before the
// report is assembled. Returns the report, or nil when it could not be
// written.
func runReview(changes []ingest.FileChange, source string, cfg config.Config) *output.Report {
	eng := rules.NewEngine(nil)

	issues := []rules.Issue{}
	reviewed := 0
	for _, ch := range changes {
		if ch.ChangeType == ingest.ChangeDeleted {
			continue
		}
		if !reviewableExt(ch.Path, cfg.Extensions) {
			continue
		}
		reviewed++
		found := checkFile(eng, ch.NewContent, ch.Path)
		for i := range found {
			found[i].Line = ch.TrueLine(found[i].Line)
		}
		issues = append(issues, found...)
	}

	report := output.NewReport(source, reviewed, issues)
	report.Version = version

	if err := output.WriteReport(report, cfg.Format, flagOut); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		exitCode = ExitRuntimeError
		return nil
	}

	// Check fail-on threshold
	if cfg.FailOn != "none" && cfg.FailOn != "" {
		for _, iss := range report.Issues {
			if rules.MeetsThreshold(iss.Severity, cfg.FailOn) {
				exitCode = ExitFindings
				break
			}
		}
	}
	return report
}

// checkFile parses one file and runs the selected rules against it. The
// --rules and --category flags narrow the selection; --rules wins when
// both are given.
func checkFile(eng *rules.Engine, content, path string) []rules.Issue {
	src := analysis.ParseSource(content, path)
	defer src.Close()
	feats := analysis.ExtractFromSource(src)
	rctx := rules.Context{FilePath: path}
	switch {
	case flagRules != "":
		return eng.RunIDs(splitComma(flagRules), src, feats, rctx)
	case flagCategory != "":
		return eng.RunCategory(rules.Category(flagCategory), src, feats, rctx)
	default:
		return eng.RunAll(src, feats, rctx)
	}
}

func reviewableExt(path string, exts []string) bool {
	ext := filepath.Ext(path)
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review code changes",
	Long:  "Review code changes with the built-in ArkTS rule set. Use subcommands to specify where the changes come from.",
}

var reviewRequestCmd = &cobra.Command{
	Use:   "request <url>",
	Short: "Review a hosted change request (GitLab merge request or GitHub pull request)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(buildOverrides())
		if err != nil {
			return err
		}
		ctx := context.Background()
		tokens := ingest.Tokens{GitLab: cfg.GitLabToken, GitHub: cfg.GitHubToken}
		changes, err := ingest.FromChangeRequest(ctx, args[0], tokens)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			if errors.Is(err, ingest.ErrUnsupportedURL) {
				exitCode = ExitUsageError
			} else {
				exitCode = ExitRuntimeError
			}
			return nil
		}
		report := runReview(changes, args[0], cfg)
		if flagComment && report != nil {
			if err := postReviewComments(ctx, args[0], cfg, report); err != nil {
				fmt.Fprintf(os.Stderr, "Error posting review: %v\n", err)
				exitCode = ExitRuntimeError
			}
		}
		return nil
	},
}

// postReviewComments submits the findings back to the change request as a
// review. Only GitHub pull requests accept posting; other hosts are
// skipped with a warning.
func postReviewComments(ctx context.Context, rawURL string, cfg config.Config, report *output.Report) error {
	ref, err := ingest.ParseChangeRequestURL(rawURL)
	if err != nil {
		return err
	}
	if ref.Kind != ingest.KindGitHub {
		slog.Warn("review posting supports GitHub pull requests only, skipping", "url", rawURL)
		return nil
	}
	client, err := ingest.NewGitHubClient(ref.Host, cfg.GitHubToken)
	if err != nil {
		return err
	}
	return client.PostReview(ctx, ref, ingest.BuildReviewPost(report.Issues))
}

var reviewPatchCmd = &cobra.Command{
	Use:   "patch <file>",
	Short: "Review a unified diff file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(buildOverrides())
		if err != nil {
			return err
		}
		changes, err := ingest.FromPatchFile(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		runReview(changes, args[0], cfg)
		return nil
	},
}

var reviewRangeCmd = &cobra.Command{
	Use:   "range <repo> <base> <head>",
	Short: "Review the diff between two revisions",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(buildOverrides())
		if err != nil {
			return err
		}
		ctx := context.Background()
		repo, err := gitrepo.Open(ctx, args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		changes, err := ingest.FromRepoDiff(ctx, repo, args[1], args[2])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		runReview(changes, fmt.Sprintf("%s..%s", args[1], args[2]), cfg)
		return nil
	},
}

var reviewWorktreeCmd = &cobra.Command{
	Use:   "worktree <repo>",
	Short: "Review uncommitted working tree changes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(buildOverrides())
		if err != nil {
			return err
		}
		ctx := context.Background()
		repo, err := gitrepo.Open(ctx, args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		changes, err := ingest.FromWorktree(ctx, repo, flagStaged)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		source := "worktree"
		if flagStaged {
			source = "staged"
		}
		runReview(changes, source, cfg)
		return nil
	},
}

func init() {
	reviewCmd.AddCommand(reviewRequestCmd)
	reviewCmd.AddCommand(reviewPatchCmd)
	reviewCmd.AddCommand(reviewRangeCmd)
	reviewCmd.AddCommand(reviewWorktreeCmd)

	// Add shared flags to all review subcommands
	for _, cmd := range []*cobra.Command{
		reviewRequestCmd,
		reviewPatchCmd,
		reviewRangeCmd,
		reviewWorktreeCmd,
	} {
		addReviewFlags(cmd)
	}

	// Worktree-specific flags
	reviewWorktreeCmd.Flags().BoolVar(&flagStaged, "staged", false, "Review staged changes instead of unstaged")

	// Request-specific flags
	reviewRequestCmd.Flags().BoolVar(&flagComment, "comment", false, "Post findings back to the pull request as a review (GitHub only)")
}
