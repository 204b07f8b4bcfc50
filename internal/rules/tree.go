package rules

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mingzhai/arklens/internal/analysis"
)

// calleeName resolves the called name of a call expression: the property
// for member calls, the identifier for bare calls, "" otherwise.
func calleeName(src *analysis.Source, call *tree_sitter.Node) string {
	fn := call.ChildByFieldName("function")
	if fn == nil {
		return ""
	}
	switch fn.Kind() {
	case "identifier":
		return src.NodeText(fn)
	case "member_expression":
		return src.NodeText(fn.ChildByFieldName("property"))
	}
	return ""
}

// sameNode reports whether two nodes cover the same byte range, which is
// how ancestor walks recognize their boundary node.
func sameNode(a, b *tree_sitter.Node) bool {
	if a == nil || b == nil {
		return false
	}
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte()
}

// enclosingBlock returns the nearest statement-block ancestor of n, or the
// outermost ancestor when n sits at the top level.
func enclosingBlock(n *tree_sitter.Node) *tree_sitter.Node {
	top := n
	for anc := n.Parent(); anc != nil; anc = anc.Parent() {
		if anc.Kind() == "statement_block" {
			return anc
		}
		top = anc
	}
	return top
}
