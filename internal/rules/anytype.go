package rules

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mingzhai/arklens/internal/analysis"
)

// NoImplicitAny flags every explicit `any` in a type position. Matching is
// on type nodes, so `any` inside comments or string literals never fires.
type NoImplicitAny struct{ meta }

// NewNoImplicitAny returns the built-in any-type rule.
func NewNoImplicitAny() *NoImplicitAny {
	return &NoImplicitAny{meta{
		id:          "no-implicit-any",
		name:        "No Any Type",
		category:    CategoryTypeSafety,
		severity:    SeverityMedium,
		confidence:  0.9,
		description: "the any type bypasses static checking; declare concrete types",
	}}
}

// Check emits one issue per `any` type node.
func (r *NoImplicitAny) Check(src *analysis.Source, _ *analysis.CodeFeatures, _ Context) ([]Issue, error) {
	if !src.HasTree() {
		return nil, nil
	}
	var issues []Issue
	analysis.Walk(src.Root(), func(n *tree_sitter.Node) {
		if n.Kind() != "predefined_type" || src.NodeText(n) != "any" {
			return
		}
		issues = append(issues, Issue{
			Line:       analysis.Line(n),
			Message:    "'any' disables type checking here; declare a concrete type or interface",
			Confidence: r.confidence,
			Fix: &FixSuggestion{
				Description: "model the value with an interface and use it in the annotation",
				Code:        "interface Payload {\n  id: string\n  // add the fields this code actually reads\n}",
				Effort:      "15m",
			},
		})
	})
	return issues, nil
}
