package rules

import (
	"fmt"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mingzhai/arklens/internal/analysis"
)

// AsyncErrorHandling flags async functions whose awaits can reject with no
// handler in reach: no enclosing try with a catch clause inside the
// function and no .catch chained on the awaited expression.
type AsyncErrorHandling struct{ meta }

// NewAsyncErrorHandling returns the built-in async error handling rule.
func NewAsyncErrorHandling() *AsyncErrorHandling {
	return &AsyncErrorHandling{meta{
		id:          "async-error-handling",
		name:        "Async Error Handling",
		category:    CategoryErrorHandling,
		severity:    SeverityHigh,
		confidence:  0.8,
		description: "async functions that await must handle rejection with try/catch or a chained .catch",
	}}
}

// Check emits at most one issue per async function, at the function's
// declaration line, when any await in its own body is unprotected.
func (r *AsyncErrorHandling) Check(src *analysis.Source, _ *analysis.CodeFeatures, _ Context) ([]Issue, error) {
	if !src.HasTree() {
		return nil, nil
	}
	var issues []Issue
	analysis.Walk(src.Root(), func(n *tree_sitter.Node) {
		if !isAsyncFunction(n) {
			return
		}
		body := n.ChildByFieldName("body")
		if body == nil {
			return
		}
		if !hasUnprotectedAwait(src, n, body) {
			return
		}
		issues = append(issues, Issue{
			Line: analysis.Line(n),
			Message: fmt.Sprintf("async %s awaits without error handling; wrap the body in try/catch or chain .catch",
				functionLabel(src, n)),
			Confidence: r.confidence,
			Fix: &FixSuggestion{
				Description:  "wrap the awaited call in a try/catch and surface the failure to the caller or the UI",
				Code:         "try {\n  const res = await doWork()\n} catch (err) {\n  hilog.error(0x0000, 'app', 'doWork failed: %{public}s', String(err))\n}",
				Verification: "force the awaited call to reject and confirm the failure is reported, not swallowed",
				Effort:       "10m",
			},
		})
	})
	return issues, nil
}

func isAsyncFunction(n *tree_sitter.Node) bool {
	switch n.Kind() {
	case "function_declaration", "function_expression", "arrow_function", "method_definition":
	default:
		return false
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		if n.Child(i).Kind() == "async" {
			return true
		}
	}
	return false
}

// hasUnprotectedAwait scans fn's body for an await that no handler covers.
// Awaits inside nested function literals belong to those functions and are
// not charged to fn.
func hasUnprotectedAwait(src *analysis.Source, fn, body *tree_sitter.Node) bool {
	found := false
	analysis.Walk(body, func(n *tree_sitter.Node) {
		if found || n.Kind() != "await_expression" {
			return
		}
		if inNestedFunction(n, fn) {
			return
		}
		if !awaitProtected(src, n, fn) {
			found = true
		}
	})
	return found
}

func inNestedFunction(n, fn *tree_sitter.Node) bool {
	for anc := n.Parent(); anc != nil && !sameNode(anc, fn); anc = anc.Parent() {
		switch anc.Kind() {
		case "arrow_function", "function_expression", "function_declaration", "method_definition":
			return true
		}
	}
	return false
}

// awaitProtected reports whether an await is covered by a try with a catch
// handler between it and the enclosing function, or is chained to .catch.
func awaitProtected(src *analysis.Source, await, fn *tree_sitter.Node) bool {
	if expr := await.NamedChild(0); expr != nil && strings.Contains(src.NodeText(expr), ".catch(") {
		return true
	}
	for anc := await.Parent(); anc != nil; anc = anc.Parent() {
		if anc.Kind() == "try_statement" {
			body := anc.ChildByFieldName("body")
			handler := anc.ChildByFieldName("handler")
			if handler != nil && analysis.Covers(body, await) {
				return true
			}
		}
		if sameNode(anc, fn) {
			break
		}
	}
	return false
}

func functionLabel(src *analysis.Source, n *tree_sitter.Node) string {
	if name := src.NodeText(n.ChildByFieldName("name")); name != "" {
		return fmt.Sprintf("function %s", name)
	}
	return "function"
}
