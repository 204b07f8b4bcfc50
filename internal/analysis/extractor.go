package analysis

import (
	"fmt"
	"log/slog"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// buildNestingThreshold is the call-argument nesting depth above which a
// complex-build risk is recorded.
const buildNestingThreshold = 5

// permissionMarkers are call-name fragments that indicate a permission
// check somewhere in a call's printed text.
var permissionMarkers = []string{
	"requestPermissionsFromUser",
	"checkAccessToken",
	"verifyAccessToken",
	"checkPermission",
}

// largeListMarkers are substrings of an iteration's data-source argument
// that suggest the rendered collection may be large.
var largeListMarkers = []string{"array", "length", "filter"}

// timerAPIs register recurring or delayed work that outlives the view
// unless explicitly cancelled.
var timerAPIs = map[string]bool{
	"setInterval": true,
	"setTimeout":  true,
}

// iterationAPIs render a collection and take a key generator as the third
// argument.
var iterationAPIs = map[string]bool{
	"ForEach":     true,
	"LazyForEach": true,
}

// Extract parses text and computes its feature set in one step. Callers
// that also run rules over the same file should use ParseSource and
// ExtractFromSource so the parse handle can be shared.
func Extract(text, path string) *CodeFeatures {
	src := ParseSource(text, path)
	defer src.Close()
	return ExtractFromSource(src)
}

// ExtractFromSource computes the feature set for a parsed handle. It never
// panics and never returns nil: when the handle has no usable tree the
// result is empty and a warning has already been logged.
func ExtractFromSource(src *Source) (feats *CodeFeatures) {
	feats = NewCodeFeatures()
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("feature extraction aborted", "path", srcPath(src), "panic", r)
			feats = NewCodeFeatures()
		}
	}()
	if !src.HasTree() {
		return feats
	}
	root := src.Root()
	if unusableTree(root) {
		slog.Warn("source did not parse, returning empty features", "path", src.Path)
		return feats
	}
	ex := &extractor{src: src, feats: feats, seen: map[riskKey]bool{}}
	Walk(root, ex.visit)
	return feats
}

func srcPath(src *Source) string {
	if src == nil {
		return ""
	}
	return src.Path
}

// unusableTree reports whether the parse recovered nothing but error
// regions, which we treat the same as a failed parse.
func unusableTree(root *tree_sitter.Node) bool {
	if root == nil {
		return true
	}
	if root.Kind() == "ERROR" {
		return true
	}
	count := root.NamedChildCount()
	if count == 0 {
		return false
	}
	for i := uint(0); i < count; i++ {
		if root.NamedChild(i).Kind() != "ERROR" {
			return false
		}
	}
	return true
}

type riskKey struct {
	line int
	typ  RiskType
}

type extractor struct {
	src   *Source
	feats *CodeFeatures
	seen  map[riskKey]bool
}

func (ex *extractor) visit(n *tree_sitter.Node) {
	switch n.Kind() {
	case "class_declaration":
		ex.component(n)
	case "decorator":
		ex.decorator(n)
	case "call_expression":
		ex.call(n)
	case "arrow_function", "function_expression":
		ex.functionLiteral(n)
	}
}

func (ex *extractor) addRisk(typ RiskType, line int, desc string) {
	key := riskKey{line: line, typ: typ}
	if ex.seen[key] {
		return
	}
	ex.seen[key] = true
	ex.feats.PerformanceRisks = append(ex.feats.PerformanceRisks, PerformanceRisk{
		Type:        typ,
		Line:        line,
		Description: desc,
	})
}

// component summarizes one class-like declaration. Struct components have
// already been normalized into class declarations before parsing.
func (ex *extractor) component(n *tree_sitter.Node) {
	nameNode := n.ChildByFieldName("name")
	name := ex.src.NodeText(nameNode)
	if name == "" {
		return
	}
	comp := ComponentFeature{Name: name, Kind: KindService, Line: Line(nameNode)}

	for _, dec := range ex.declarationDecorators(n) {
		switch ex.decoratorName(dec) {
		case "Entry":
			comp.Kind = KindPage
		case "Component":
			if comp.Kind != KindPage {
				comp.Kind = KindComponent
			}
		}
	}

	if body := n.ChildByFieldName("body"); body != nil {
		for i := uint(0); i < body.NamedChildCount(); i++ {
			ex.member(body.NamedChild(i), &comp)
		}
	}
	ex.feats.Components = append(ex.feats.Components, comp)
}

func (ex *extractor) member(m *tree_sitter.Node, comp *ComponentFeature) {
	switch m.Kind() {
	case "method_definition":
		switch ex.declarationName(m) {
		case "aboutToAppear":
			comp.HasAboutToAppear = true
		case "aboutToDisappear":
			comp.HasAboutToDisappear = true
		}
	case "public_field_definition", "field_definition", "property_definition":
		for _, dec := range ex.declarationDecorators(m) {
			switch ex.decoratorName(dec) {
			case "State":
				comp.StateFields++
			case "Prop":
				comp.PropFields++
			case "Link":
				comp.LinkFields++
			}
		}
	}
}

// declarationDecorators returns the decorator nodes attached to a
// declaration: its own decorator children, any that attach as preceding
// siblings, and any hoisted onto a wrapping export statement.
func (ex *extractor) declarationDecorators(n *tree_sitter.Node) []*tree_sitter.Node {
	var out []*tree_sitter.Node
	for i := uint(0); i < n.NamedChildCount(); i++ {
		if c := n.NamedChild(i); c.Kind() == "decorator" {
			out = append(out, c)
		}
	}
	for p := n.PrevNamedSibling(); p != nil && p.Kind() == "decorator"; p = p.PrevNamedSibling() {
		out = append(out, p)
	}
	if p := n.Parent(); p != nil && p.Kind() == "export_statement" {
		for i := uint(0); i < p.NamedChildCount(); i++ {
			if c := p.NamedChild(i); c.Kind() == "decorator" {
				out = append(out, c)
			}
		}
	}
	return out
}

// decoratorName returns the bare decorator name: Watch for both @Watch and
// @Watch('onChange').
func (ex *extractor) decoratorName(dec *tree_sitter.Node) string {
	expr := dec.NamedChild(0)
	if expr == nil {
		return ""
	}
	if expr.Kind() == "call_expression" {
		expr = expr.ChildByFieldName("function")
	}
	return ex.src.NodeText(expr)
}

func (ex *extractor) decorator(n *tree_sitter.Node) {
	name := ex.decoratorName(n)
	if name == "" {
		return
	}
	ex.feats.Decorators = append(ex.feats.Decorators, DecoratorUsage{
		Name:   name,
		Line:   Line(n),
		Target: ex.decoratorTarget(n),
	})
}

// decoratorTarget resolves the name of the declaration a decorator
// annotates, or "" when there is none to resolve.
func (ex *extractor) decoratorTarget(n *tree_sitter.Node) string {
	decl := n.Parent()
	if decl == nil {
		return ""
	}
	if decl.Kind() == "export_statement" {
		if d := decl.ChildByFieldName("declaration"); d != nil {
			decl = d
		}
	}
	if name := ex.declarationName(decl); name != "" {
		return name
	}
	// Grammars that attach member decorators as siblings rather than
	// children resolve through the following declaration instead.
	for sib := n.NextNamedSibling(); sib != nil; sib = sib.NextNamedSibling() {
		if sib.Kind() == "decorator" {
			continue
		}
		return ex.declarationName(sib)
	}
	return ""
}

// declarationName returns the declared name of a class, method, or field
// node, tolerating the grammar variants that label it "name" or "property".
func (ex *extractor) declarationName(decl *tree_sitter.Node) string {
	for _, field := range []string{"name", "property"} {
		if n := decl.ChildByFieldName(field); n != nil {
			return ex.src.NodeText(n)
		}
	}
	return ""
}

func (ex *extractor) call(n *tree_sitter.Node) {
	fn := n.ChildByFieldName("function")
	if fn == nil {
		return
	}

	var module, name string
	switch fn.Kind() {
	case "member_expression":
		name = ex.src.NodeText(fn.ChildByFieldName("property"))
		module = ex.src.NodeText(fn.ChildByFieldName("object"))
	case "identifier":
		name = ex.src.NodeText(fn)
	}

	ex.iterationRisks(n, name)
	if timerAPIs[name] {
		ex.addRisk(RiskMemoryLeak, Line(n),
			fmt.Sprintf("%s registers recurring work with no cancellation in view", name))
	}
	ex.complexBuildRisk(n)

	if name == "" {
		return
	}
	ex.feats.APICalls = append(ex.feats.APICalls, APICall{
		Module:             module,
		Name:               name,
		Line:               Line(n),
		HasPermissionCheck: ex.hasPermissionCheck(n),
		HasErrorHandling:   ex.hasErrorHandling(n),
	})
}

// iterationRisks inspects ForEach-style rendering calls for a missing key
// generator and for data sources that look unbounded.
func (ex *extractor) iterationRisks(n *tree_sitter.Node, name string) {
	if !iterationAPIs[name] {
		return
	}
	args := CallArguments(n)
	if len(args) < 3 {
		ex.addRisk(RiskNoKey, Line(n),
			fmt.Sprintf("%s without a key generator forces full re-render on data change", name))
	}
	if len(args) > 0 {
		first := strings.ToLower(ex.src.NodeText(args[0]))
		for _, marker := range largeListMarkers {
			if strings.Contains(first, marker) {
				ex.addRisk(RiskLargeList, Line(n),
					fmt.Sprintf("%s over a potentially large collection", name))
				break
			}
		}
	}
}

// complexBuildRisk flags deeply nested builder calls. Only the outermost
// call of a nest is measured.
func (ex *extractor) complexBuildRisk(n *tree_sitter.Node) {
	for anc := n.Parent(); anc != nil; anc = anc.Parent() {
		if anc.Kind() == "call_expression" {
			return
		}
	}
	if depth := ex.callNestingDepth(n); depth > buildNestingThreshold {
		ex.addRisk(RiskComplexBuild, Line(n),
			fmt.Sprintf("builder nesting depth %d exceeds %d", depth, buildNestingThreshold))
	}
}

// callNestingDepth measures how deeply call expressions nest through
// argument lists, counting n itself as depth 1.
func (ex *extractor) callNestingDepth(n *tree_sitter.Node) int {
	deepest := 0
	args := n.ChildByFieldName("arguments")
	if args == nil {
		return 1
	}
	var scan func(*tree_sitter.Node)
	scan = func(m *tree_sitter.Node) {
		for i := uint(0); i < m.NamedChildCount(); i++ {
			c := m.NamedChild(i)
			if c.Kind() == "call_expression" {
				if d := ex.callNestingDepth(c); d > deepest {
					deepest = d
				}
				continue
			}
			scan(c)
		}
	}
	scan(args)
	return 1 + deepest
}

// functionLiteral flags literals that run a loop inline. Nested literals
// are charged to themselves, not to the enclosing one.
func (ex *extractor) functionLiteral(n *tree_sitter.Node) {
	body := n.ChildByFieldName("body")
	if body == nil {
		return
	}
	if containsLoop(body) {
		ex.addRisk(RiskExpensiveComputation, Line(n),
			"function literal runs a loop inline; consider precomputing")
	}
}

func containsLoop(n *tree_sitter.Node) bool {
	for i := uint(0); i < n.NamedChildCount(); i++ {
		c := n.NamedChild(i)
		switch c.Kind() {
		case "for_statement", "for_in_statement", "while_statement", "do_statement":
			return true
		case "arrow_function", "function_expression":
			continue
		}
		if containsLoop(c) {
			return true
		}
	}
	return false
}

func (ex *extractor) hasPermissionCheck(n *tree_sitter.Node) bool {
	text := ex.src.NodeText(n)
	for _, marker := range permissionMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

// hasErrorHandling reports whether a call is inside the body of a try with
// a catch handler, or is chained to a .catch callback.
func (ex *extractor) hasErrorHandling(n *tree_sitter.Node) bool {
	for anc := n.Parent(); anc != nil; anc = anc.Parent() {
		switch anc.Kind() {
		case "try_statement":
			body := anc.ChildByFieldName("body")
			handler := anc.ChildByFieldName("handler")
			if handler != nil && Covers(body, n) {
				return true
			}
		case "member_expression":
			if prop := anc.ChildByFieldName("property"); prop != nil && ex.src.NodeText(prop) == "catch" {
				return true
			}
		}
	}
	return false
}

