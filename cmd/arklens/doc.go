// Arklens is a static-analysis review CLI for ArkTS/ArkUI code.
//
// It parses ArkTS sources with tree-sitter, extracts per-file structural
// features, and runs a built-in rule set over them. Changes come from hosted
// change requests, unified diff files, or git; whole commit histories can be
// batch-reviewed from a CSV manifest into per-commit and aggregate reports.
//
// Usage:
//
//	arklens review request <url>          # review a GitLab MR or GitHub PR
//	arklens review patch <file>           # review a unified diff file
//	arklens review range <repo> <b> <h>   # review the diff between two revisions
//	arklens review worktree <repo>        # review uncommitted changes
//	arklens collect <repo>                # write a commit manifest CSV
//	arklens batch <repo> <manifest.csv>   # batch-review a manifest slice
//
// See https://github.com/mingzhai/arklens for full documentation.
package main
