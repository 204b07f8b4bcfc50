package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mingzhai/arklens/internal/analysis"
)

// secretPattern pairs a detection regex with what it detects and how
// trustworthy a match is. Specific token formats are near-certain;
// assignment heuristics are looser.
type secretPattern struct {
	re         *regexp.Regexp
	what       string
	confidence float64
}

var secretPatterns = []secretPattern{
	// AWS access key IDs
	{regexp.MustCompile(`AKIA[0-9A-Z]{16}`), "AWS access key ID", 0.95},
	// GitHub tokens
	{regexp.MustCompile(`gh[pousr]_[A-Za-z0-9_]{36,}`), "GitHub token", 0.95},
	// Slack tokens
	{regexp.MustCompile(`xox[bporas]-[A-Za-z0-9-]{10,}`), "Slack token", 0.95},
	// Private key blocks
	{regexp.MustCompile(`-----BEGIN\s+(RSA\s+)?PRIVATE KEY-----`), "private key block", 0.95},
	// JWTs (three base64 segments separated by dots)
	{regexp.MustCompile(`eyJ[A-Za-z0-9_-]{10,}\.eyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}`), "JWT", 0.9},
	// Bearer tokens
	{regexp.MustCompile(`(?i)Bearer\s+[A-Za-z0-9._-]{20,}`), "bearer token", 0.85},
	// API keys in assignments
	{regexp.MustCompile(`(?i)(api[_-]?key|apikey|api[_-]?secret)\s*[:=]\s*["']([A-Za-z0-9/+=_-]{20,})["']`), "API key assignment", 0.7},
	// Generic secrets/tokens/passwords in assignments
	{regexp.MustCompile(`(?i)(secret|token|password|passwd|credential)\s*[:=]\s*["']([^"']{8,})["']`), "credential assignment", 0.7},
}

// HardcodedSecret flags credential material committed to source. Detection
// is line-oriented text matching, so it still fires when the syntax tree is
// unavailable.
type HardcodedSecret struct{ meta }

// NewHardcodedSecret returns the built-in secret-detection rule.
func NewHardcodedSecret() *HardcodedSecret {
	return &HardcodedSecret{meta{
		id:          "hardcoded-secret",
		name:        "Hardcoded Secret",
		category:    CategorySecurity,
		severity:    SeverityCritical,
		confidence:  0.7,
		description: "credentials in source ship inside the app bundle; load them from secure storage at runtime",
	}}
}

// Check emits at most one issue per line, using the first matching pattern;
// patterns are ordered most specific first.
func (r *HardcodedSecret) Check(src *analysis.Source, _ *analysis.CodeFeatures, _ Context) ([]Issue, error) {
	var issues []Issue
	for i, line := range strings.Split(src.Text, "\n") {
		for _, pat := range secretPatterns {
			if !pat.re.MatchString(line) {
				continue
			}
			issues = append(issues, Issue{
				Line:       i + 1,
				Message:    fmt.Sprintf("possible %s committed to source", pat.what),
				Confidence: pat.confidence,
				Fix: &FixSuggestion{
					Description:  "move the value out of source; load it at runtime from secure storage or inject it at build time",
					Verification: "rotate the committed credential and search the repository history for other copies",
					Effort:       "30m",
				},
			})
			break
		}
	}
	return issues, nil
}
