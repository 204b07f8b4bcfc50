package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/mingzhai/arklens/internal/rules"
)

// SARIFWriter outputs issues in SARIF v2.1.0 format.
type SARIFWriter struct{}

func (s *SARIFWriter) Write(w io.Writer, report *Report) error {
	sarif := buildSARIF(report)
	data, err := json.MarshalIndent(sarif, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling SARIF: %w", err)
	}
	_, err = w.Write(data)
	if err != nil {
		return fmt.Errorf("writing SARIF: %w", err)
	}
	_, err = fmt.Fprintln(w)
	return err
}

// SARIF schema types (v2.1.0)

type sarifLog struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string              `json:"id"`
	Name             string              `json:"name"`
	ShortDescription sarifMessage        `json:"shortDescription"`
	DefaultConfig    sarifDefaultConfig  `json:"defaultConfiguration"`
	Properties       sarifRuleProperties `json:"properties,omitempty"`
}

type sarifDefaultConfig struct {
	Level string `json:"level"`
}

type sarifRuleProperties struct {
	Tags []string `json:"tags,omitempty"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
	Fixes     []sarifFix      `json:"fixes,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           sarifRegion           `json:"region"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine int `json:"startLine"`
	EndLine   int `json:"endLine"`
}

type sarifFix struct {
	Description sarifMessage `json:"description"`
}

func buildSARIF(report *Report) sarifLog {
	var sarifRules []sarifRule
	var results []sarifResult
	seen := make(map[string]bool)

	for _, iss := range report.Issues {
		// Register each rule once, in first-seen order.
		if !seen[iss.RuleID] {
			seen[iss.RuleID] = true
			sarifRules = append(sarifRules, sarifRule{
				ID:               iss.RuleID,
				Name:             iss.RuleName,
				ShortDescription: sarifMessage{Text: iss.RuleName},
				DefaultConfig:    sarifDefaultConfig{Level: severityToLevel(iss.Severity)},
				Properties:       sarifRuleProperties{Tags: []string{string(iss.Category)}},
			})
		}

		result := sarifResult{
			RuleID:  iss.RuleID,
			Level:   severityToLevel(iss.Severity),
			Message: sarifMessage{Text: iss.Message},
			Locations: []sarifLocation{
				{
					PhysicalLocation: sarifPhysicalLocation{
						ArtifactLocation: sarifArtifactLocation{URI: iss.File},
						Region: sarifRegion{
							StartLine: iss.Line,
							EndLine:   iss.Line,
						},
					},
				},
			},
		}

		if iss.Fix != nil {
			result.Fixes = append(result.Fixes, sarifFix{
				Description: sarifMessage{Text: iss.Fix.Description},
			})
		}

		results = append(results, result)
	}

	version := report.Version
	if version == "" {
		version = "dev"
	}

	return sarifLog{
		Version: "2.1.0",
		Schema:  "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/main/sarif-2.1/schema/sarif-schema-2.1.0.json",
		Runs: []sarifRun{
			{
				Tool: sarifTool{
					Driver: sarifDriver{
						Name:           "arklens",
						Version:        version,
						InformationURI: "https://github.com/mingzhai/arklens",
						Rules:          sarifRules,
					},
				},
				Results: results,
			},
		},
	}
}

// severityToLevel maps the five-level severity onto SARIF's three levels.
func severityToLevel(s rules.Severity) string {
	switch s {
	case rules.SeverityCritical, rules.SeverityHigh:
		return "error"
	case rules.SeverityMedium:
		return "warning"
	default:
		return "note"
	}
}
