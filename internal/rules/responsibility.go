package rules

import (
	"fmt"

	"github.com/mingzhai/arklens/internal/analysis"
)

// stateFieldThreshold is the largest state-decorated field count a single
// component may carry before it is flagged for decomposition.
const stateFieldThreshold = 5

// SingleResponsibility flags components whose state-decorated field count
// exceeds the threshold. It works entirely from the extracted feature set.
type SingleResponsibility struct{ meta }

// NewSingleResponsibility returns the built-in component size rule.
func NewSingleResponsibility() *SingleResponsibility {
	return &SingleResponsibility{meta{
		id:          "single-responsibility",
		name:        "Single Responsibility",
		category:    CategoryArchitecture,
		severity:    SeverityMedium,
		confidence:  0.7,
		description: "components carrying many state fields usually mix several responsibilities",
	}}
}

// Check emits one issue per oversized component, at its declaration line.
func (r *SingleResponsibility) Check(_ *analysis.Source, feats *analysis.CodeFeatures, _ Context) ([]Issue, error) {
	if feats == nil {
		return nil, nil
	}
	var issues []Issue
	for _, comp := range feats.Components {
		total := comp.StateFieldTotal()
		if total <= stateFieldThreshold {
			continue
		}
		issues = append(issues, Issue{
			Line: comp.Line,
			Message: fmt.Sprintf("component %s carries %d state fields (threshold %d); split it into focused child components",
				comp.Name, total, stateFieldThreshold),
			Confidence: r.confidence,
			Fix: &FixSuggestion{
				Description: "group related fields into child components or move derived values into a view model",
				Effort:      "1h",
			},
		})
	}
	return issues, nil
}
