package rules

import "strings"

// Severity represents the severity level of an issue.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "info"
)

// Severities lists all levels from most to least severe, in the order
// reports print them.
var Severities = []Severity{
	SeverityCritical,
	SeverityHigh,
	SeverityMedium,
	SeverityLow,
	SeverityInfo,
}

// SeverityRank returns a numeric rank for sorting (higher = more severe).
func SeverityRank(s Severity) int {
	switch s {
	case SeverityCritical:
		return 5
	case SeverityHigh:
		return 4
	case SeverityMedium:
		return 3
	case SeverityLow:
		return 2
	case SeverityInfo:
		return 1
	default:
		return 0
	}
}

// MeetsThreshold returns true if severity is at or above the threshold.
// A threshold of "none" or "" never matches.
func MeetsThreshold(s Severity, threshold string) bool {
	if threshold == "none" || threshold == "" {
		return false
	}
	return SeverityRank(s) >= SeverityRank(Severity(threshold))
}

// Glyph returns the marker used in human-readable reports.
func (s Severity) Glyph() string {
	switch s {
	case SeverityCritical:
		return "🔴"
	case SeverityHigh:
		return "🟠"
	case SeverityMedium:
		return "🟡"
	case SeverityLow:
		return "🔵"
	default:
		return "⚪"
	}
}

// Title renders the severity with a leading capital, the way report
// tables print it.
func (s Severity) Title() string {
	str := string(s)
	if str == "" {
		return str
	}
	return strings.ToUpper(str[:1]) + str[1:]
}

// Category groups rules by the concern they check.
type Category string

const (
	CategoryErrorHandling Category = "error-handling"
	CategoryPerformance   Category = "performance"
	CategoryTypeSafety    Category = "type-safety"
	CategoryArchitecture  Category = "architecture"
	CategoryAPIUsage      Category = "api-usage"
	CategorySecurity      Category = "security"
)

// FixSuggestion describes how to resolve an issue.
type FixSuggestion struct {
	Description  string `json:"description"`
	Code         string `json:"code,omitempty"`
	Verification string `json:"verification,omitempty"`
	Effort       string `json:"effort,omitempty"`
}

// Issue represents a single rule violation in one file.
type Issue struct {
	ID         string         `json:"id"`
	RuleID     string         `json:"ruleId"`
	RuleName   string         `json:"ruleName"`
	Category   Category       `json:"category"`
	Severity   Severity       `json:"severity"`
	File       string         `json:"file"`
	Line       int            `json:"line"`
	Message    string         `json:"message"`
	Confidence float64        `json:"confidence"`
	Fix        *FixSuggestion `json:"fix,omitempty"`
}

// SeverityCounts holds issue counts by severity level.
type SeverityCounts struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
	Info     int `json:"info"`
}

// Add increments the bucket for s. Unknown severities are ignored.
func (c *SeverityCounts) Add(s Severity) {
	switch s {
	case SeverityCritical:
		c.Critical++
	case SeverityHigh:
		c.High++
	case SeverityMedium:
		c.Medium++
	case SeverityLow:
		c.Low++
	case SeverityInfo:
		c.Info++
	}
}

// Of returns the count for one severity level.
func (c SeverityCounts) Of(s Severity) int {
	switch s {
	case SeverityCritical:
		return c.Critical
	case SeverityHigh:
		return c.High
	case SeverityMedium:
		return c.Medium
	case SeverityLow:
		return c.Low
	case SeverityInfo:
		return c.Info
	default:
		return 0
	}
}

// Total returns the count across all levels.
func (c SeverityCounts) Total() int {
	return c.Critical + c.High + c.Medium + c.Low + c.Info
}

// CountBySeverity tallies issues into severity buckets.
func CountBySeverity(issues []Issue) SeverityCounts {
	var counts SeverityCounts
	for _, iss := range issues {
		counts.Add(iss.Severity)
	}
	return counts
}

// HighestSeverity returns the most severe level present, or "" when the
// list is empty.
func HighestSeverity(issues []Issue) Severity {
	var highest Severity
	for _, iss := range issues {
		if SeverityRank(iss.Severity) > SeverityRank(highest) {
			highest = iss.Severity
		}
	}
	return highest
}
