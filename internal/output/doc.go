// Package output formats review results for display or machine consumption.
//
// Single-review reports support four formats:
//   - text     — human-readable terminal output (default)
//   - json     — full structured JSON report
//   - markdown — PR-comment-friendly with collapsible sections per severity
//   - sarif    — SARIF v2.1.0 for upload to code-scanning services
//
// Use [GetWriter] to obtain a [Writer] for a given format string, then call
// [Writer.Write] with an [io.Writer] and a [*Report]; [WriteReport] handles
// destination selection (file path or stdout).
//
// Batch runs persist a different artifact family: [WriteCommitMarkdown] and
// [WriteCommitCSV] per commit, [WriteSummaryMarkdown] and [WriteMasterCSV]
// per run, all built from [CommitReport] and its flat [StandardIssue] rows.
package output
