package analysis

// ComponentKind classifies a class-like declaration by its UI role.
type ComponentKind string

const (
	KindPage      ComponentKind = "page"
	KindComponent ComponentKind = "component"
	KindService   ComponentKind = "service"
)

// ComponentFeature summarizes one class-like declaration: its UI role,
// lifecycle hooks, and how many fields carry each state-management decorator.
type ComponentFeature struct {
	Name                string
	Kind                ComponentKind
	Line                int
	HasAboutToAppear    bool
	HasAboutToDisappear bool
	StateFields         int
	PropFields          int
	LinkFields          int
}

// StateFieldTotal returns the combined count of state-decorated fields
// across the state, prop, and link buckets.
func (c ComponentFeature) StateFieldTotal() int {
	return c.StateFields + c.PropFields + c.LinkFields
}

// DecoratorUsage records a single decorator occurrence.
type DecoratorUsage struct {
	Name   string
	Line   int
	Target string
}

// APICall records a call expression resolved to a module and API name,
// along with whether the surrounding code handles errors and whether a
// permission check appears in the call's printed text.
type APICall struct {
	Module             string
	Name               string
	Line               int
	HasPermissionCheck bool
	HasErrorHandling   bool
}

// RiskType identifies a performance-risk heuristic.
type RiskType string

const (
	RiskNoKey                RiskType = "no-key"
	RiskLargeList            RiskType = "large-list"
	RiskMemoryLeak           RiskType = "memory-leak"
	RiskComplexBuild         RiskType = "complex-build"
	RiskExpensiveComputation RiskType = "expensive-computation"
)

// PerformanceRisk records one detected risk. Risks are de-duplicated by
// (Line, Type) within a single extraction.
type PerformanceRisk struct {
	Type        RiskType
	Line        int
	Description string
}

// CodeFeatures is the structured summary extracted from one file's source
// text. A fresh value is computed per extraction and is never mutated
// afterwards. All slices are non-nil, possibly empty.
type CodeFeatures struct {
	Components       []ComponentFeature
	Decorators       []DecoratorUsage
	APICalls         []APICall
	PerformanceRisks []PerformanceRisk
}

// NewCodeFeatures returns an empty, well-formed feature set.
func NewCodeFeatures() *CodeFeatures {
	return &CodeFeatures{
		Components:       []ComponentFeature{},
		Decorators:       []DecoratorUsage{},
		APICalls:         []APICall{},
		PerformanceRisks: []PerformanceRisk{},
	}
}
