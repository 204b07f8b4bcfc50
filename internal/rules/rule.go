package rules

import (
	"github.com/mingzhai/arklens/internal/analysis"
)

// Context carries per-file review context into rule checks.
type Context struct {
	FilePath string
	CommitID string
}

// Rule is one review check. Implementations must be stateless; a single
// instance is reused across every file in a run. Check returns the raw
// issues for one file: the engine stamps identity, rule metadata, and the
// file path afterwards.
type Rule interface {
	ID() string
	Name() string
	Category() Category
	Severity() Severity
	Description() string
	Check(src *analysis.Source, feats *analysis.CodeFeatures, rctx Context) ([]Issue, error)
}

// meta supplies the identity methods shared by the built-in rules.
type meta struct {
	id          string
	name        string
	category    Category
	severity    Severity
	confidence  float64
	description string
}

func (m meta) ID() string          { return m.id }
func (m meta) Name() string        { return m.name }
func (m meta) Category() Category  { return m.category }
func (m meta) Severity() Severity  { return m.severity }
func (m meta) Description() string { return m.description }
