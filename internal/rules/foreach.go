package rules

import (
	"fmt"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mingzhai/arklens/internal/analysis"
)

// iterationCalls are the rendering calls that require a key generator as
// their third argument.
var iterationCalls = map[string]bool{
	"ForEach":     true,
	"LazyForEach": true,
}

// ForEachKey flags iteration-rendering calls invoked with fewer than three
// arguments. Without the key generator the framework falls back to index
// identity and rebuilds the whole list on any data change.
type ForEachKey struct{ meta }

// NewForEachKey returns the built-in iteration key rule.
func NewForEachKey() *ForEachKey {
	return &ForEachKey{meta{
		id:          "foreach-key",
		name:        "ForEach Key Generator",
		category:    CategoryPerformance,
		severity:    SeverityCritical,
		confidence:  0.95,
		description: "iteration rendering must pass a key generator as the third argument",
	}}
}

// Check emits one issue per offending call, at the call line.
func (r *ForEachKey) Check(src *analysis.Source, _ *analysis.CodeFeatures, _ Context) ([]Issue, error) {
	if !src.HasTree() {
		return nil, nil
	}
	var issues []Issue
	analysis.Walk(src.Root(), func(n *tree_sitter.Node) {
		if n.Kind() != "call_expression" {
			return
		}
		name := calleeName(src, n)
		if !iterationCalls[name] {
			return
		}
		argc := len(analysis.CallArguments(n))
		if argc >= 3 {
			return
		}
		issues = append(issues, Issue{
			Line: analysis.Line(n),
			Message: fmt.Sprintf("%s called with %d of 3 required arguments; pass a key generator for stable item identity",
				name, argc),
			Confidence: r.confidence,
			Fix: &FixSuggestion{
				Description:  "add a third argument returning a stable unique string per item",
				Code:         "ForEach(this.items, (item: Item) => {\n  ItemRow({ item: item })\n}, (item: Item) => item.id)",
				Verification: "reorder the backing array and confirm only moved rows re-render",
				Effort:       "5m",
			},
		})
	})
	return issues, nil
}
