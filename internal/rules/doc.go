// Package rules defines the review rule model and the built-in ArkTS
// checks.
//
// A [Rule] inspects one file through the parse handle and feature set the
// analysis package produced and returns [Issue] values. Rules register in
// a [Set]; an [Engine] selects them by ID, by category, or all at once,
// and runs every selected rule through one shared path that stamps issue
// identity and isolates failures: a rule that errors or panics is logged
// and skipped, never aborting the file.
//
// Six rules ship built in:
//   - async-error-handling     — awaits with no rejection handler (high)
//   - foreach-key              — iteration rendering without a key generator (critical)
//   - no-implicit-any          — explicit any in type positions (medium)
//   - single-responsibility    — components with too many state fields (medium)
//   - api-response-validation  — network responses used unvalidated (high)
//   - hardcoded-secret         — credential material committed to source (critical)
//
// Severity is a five-level scale from critical down to info; each rule
// carries a fixed severity and confidence.
package rules
