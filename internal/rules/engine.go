package rules

import (
	"crypto/sha256"
	"fmt"
	"log/slog"

	"github.com/mingzhai/arklens/internal/analysis"
)

// Engine runs a rule set over parsed sources. Rule failures are isolated:
// a rule that returns an error or panics is logged and contributes no
// issues, and the remaining rules still run.
type Engine struct {
	set *Set
}

// NewEngine returns an engine over the given set. A nil set means the
// default built-in rules.
func NewEngine(set *Set) *Engine {
	if set == nil {
		set = DefaultSet()
	}
	return &Engine{set: set}
}

// Set returns the rule set the engine runs.
func (e *Engine) Set() *Set {
	return e.set
}

// RunAll runs every registered rule against one file.
func (e *Engine) RunAll(src *analysis.Source, feats *analysis.CodeFeatures, rctx Context) []Issue {
	return e.run(e.set.Rules(), src, feats, rctx)
}

// RunCategory runs only the rules in one category.
func (e *Engine) RunCategory(cat Category, src *analysis.Source, feats *analysis.CodeFeatures, rctx Context) []Issue {
	var selected []Rule
	for _, r := range e.set.Rules() {
		if r.Category() == cat {
			selected = append(selected, r)
		}
	}
	return e.run(selected, src, feats, rctx)
}

// RunIDs runs an explicit list of rules by ID. Unknown IDs are skipped
// with a warning.
func (e *Engine) RunIDs(ids []string, src *analysis.Source, feats *analysis.CodeFeatures, rctx Context) []Issue {
	var selected []Rule
	for _, id := range ids {
		r, ok := e.set.Get(id)
		if !ok {
			slog.Warn("unknown rule, skipping", "rule", id)
			continue
		}
		selected = append(selected, r)
	}
	return e.run(selected, src, feats, rctx)
}

func (e *Engine) run(selected []Rule, src *analysis.Source, feats *analysis.CodeFeatures, rctx Context) []Issue {
	issues := []Issue{}
	for _, r := range selected {
		found, err := checkSafely(r, src, feats, rctx)
		if err != nil {
			slog.Warn("rule failed, skipping", "rule", r.ID(), "file", rctx.FilePath, "error", err)
			continue
		}
		for _, iss := range found {
			issues = append(issues, stamp(r, iss, rctx))
		}
	}
	return issues
}

// checkSafely converts a rule panic into an error so one bad rule cannot
// abort a batch run.
func checkSafely(r Rule, src *analysis.Source, feats *analysis.CodeFeatures, rctx Context) (issues []Issue, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			issues = nil
			err = fmt.Errorf("rule panicked: %v", rec)
		}
	}()
	return r.Check(src, feats, rctx)
}

// stamp fills the engine-owned fields of an issue: identity, rule
// metadata, file path, and a confidence clamped into [0, 1].
func stamp(r Rule, iss Issue, rctx Context) Issue {
	iss.RuleID = r.ID()
	iss.RuleName = r.Name()
	iss.Category = r.Category()
	if iss.Severity == "" {
		iss.Severity = r.Severity()
	}
	if iss.File == "" {
		iss.File = rctx.FilePath
	}
	if iss.Confidence < 0 {
		iss.Confidence = 0
	}
	if iss.Confidence > 1 {
		iss.Confidence = 1
	}
	iss.ID = issueID(iss)
	return iss
}

// issueID generates a stable short identifier for an issue from its rule,
// file, line, and message.
func issueID(iss Issue) string {
	input := fmt.Sprintf("%s:%s:%d:%s", iss.RuleID, iss.File, iss.Line, iss.Message)
	hash := sha256.Sum256([]byte(input))
	return fmt.Sprintf("%x", hash[:8])
}
