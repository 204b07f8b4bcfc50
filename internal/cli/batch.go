package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/mingzhai/arklens/internal/batch"
	"github.com/mingzhai/arklens/internal/config"
	"github.com/mingzhai/arklens/internal/gitrepo"
	"github.com/mingzhai/arklens/internal/rules"
	"github.com/spf13/cobra"
)

var (
	flagOutDir     string
	flagMaxCommits int
	flagStartFrom  int
)

var batchCmd = &cobra.Command{
	Use:   "batch <repo> <manifest.csv>",
	Short: "Batch-review commits from a manifest",
	Long: "Batch reviews every commit listed in a manifest CSV (see the collect command),\n" +
		"writing a Markdown report per commit, a CSV per commit with issues, and an\n" +
		"aggregate summary plus master issue CSV. Failing commits are skipped and the\n" +
		"run continues; use --start-from to resume a partial run by manifest index.",
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(buildBatchOverrides())
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

		reviewer := batch.NewReviewer(repo, rules.NewEngine(nil), cfg.OutputDir)
		reports, err := reviewer.Run(ctx, args[1], batch.Options{
			Extensions: cfg.Extensions,
			MaxCommits: cfg.MaxCommits,
			StartFrom:  flagStartFrom,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		total := 0
		for _, rep := range reports {
			total += rep.TotalIssues
		}
		fmt.Fprintf(os.Stdout, "Reviewed %d commits, %d issues found; reports in %s\n",
			len(reports), total, cfg.OutputDir)
		return nil
	},
}

func buildBatchOverrides() map[string]string {
	m := make(map[string]string)
	if flagOutDir != "" {
		m["outputDir"] = flagOutDir
	}
	if flagMaxCommits > 0 {
		m["maxCommits"] = strconv.Itoa(flagMaxCommits)
	}
	if flagExt != "" {
		m["extensions"] = flagExt
	}
	return m
}

func init() {
	batchCmd.Flags().StringVar(&flagOutDir, "out-dir", "", "Report output directory (default arklens-reports)")
	batchCmd.Flags().IntVar(&flagMaxCommits, "max-commits", 0, "Maximum commits to review (0 = all)")
	batchCmd.Flags().IntVar(&flagStartFrom, "start-from", 0, "Manifest index to resume from")
	batchCmd.Flags().StringVar(&flagExt, "ext", "", "File extensions to review (comma-separated, default .ets,.ts)")
}
