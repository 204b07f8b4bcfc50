package rules

import (
	"fmt"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mingzhai/arklens/internal/analysis"
)

// validationMarkers are lowercase fragments that count as response
// validation when found in the block enclosing a network fetch: a
// status/ok check, a null or undefined guard, or a type assertion.
var validationMarkers = []string{
	".ok", "status", "responsecode",
	"!= null", "!== null", "== null", "=== null",
	"!= undefined", "!== undefined", "== undefined", "=== undefined",
	"?.",
	" as ",
}

// APIResponseValidation flags network-fetch calls whose enclosing block
// never validates the response before using it.
type APIResponseValidation struct{ meta }

// NewAPIResponseValidation returns the built-in response validation rule.
func NewAPIResponseValidation() *APIResponseValidation {
	return &APIResponseValidation{meta{
		id:          "api-response-validation",
		name:        "API Response Validation",
		category:    CategoryAPIUsage,
		severity:    SeverityHigh,
		confidence:  0.75,
		description: "network responses must be checked for status, nullability, or shape before use",
	}}
}

// Check emits one issue per unvalidated fetch call, at the call line.
func (r *APIResponseValidation) Check(src *analysis.Source, _ *analysis.CodeFeatures, _ Context) ([]Issue, error) {
	if !src.HasTree() {
		return nil, nil
	}
	var issues []Issue
	analysis.Walk(src.Root(), func(n *tree_sitter.Node) {
		if n.Kind() != "call_expression" || !isNetworkFetch(src, n) {
			return
		}
		block := enclosingBlock(n)
		if blockValidatesResponse(strings.ToLower(src.NodeText(block))) {
			return
		}
		issues = append(issues, Issue{
			Line: analysis.Line(n),
			Message: fmt.Sprintf("response of %s is used without a status, null, or type check in the enclosing block",
				calleeName(src, n)),
			Confidence: r.confidence,
			Fix: &FixSuggestion{
				Description:  "check the response code and guard the parsed payload before reading it",
				Code:         "if (res.responseCode !== 200 || res.result == null) {\n  return\n}",
				Verification: "point the call at an endpoint returning 500 and confirm the UI degrades cleanly",
				Effort:       "20m",
			},
		})
	})
	return issues, nil
}

// isNetworkFetch matches global fetch calls and request calls on
// http-flavored receivers such as http.createHttp() handles.
func isNetworkFetch(src *analysis.Source, call *tree_sitter.Node) bool {
	fn := call.ChildByFieldName("function")
	if fn == nil {
		return false
	}
	switch fn.Kind() {
	case "identifier":
		return src.NodeText(fn) == "fetch"
	case "member_expression":
		if src.NodeText(fn.ChildByFieldName("property")) != "request" {
			return false
		}
		receiver := src.NodeText(fn.ChildByFieldName("object"))
		return strings.Contains(strings.ToLower(receiver), "http")
	}
	return false
}

func blockValidatesResponse(lowered string) bool {
	for _, marker := range validationMarkers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}
