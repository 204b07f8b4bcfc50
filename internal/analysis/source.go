package analysis

import (
	"log/slog"
	"regexp"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// Source is a parsed handle over one file's text. Rules receive the same
// Source the extractor consumed, so nothing is parsed twice. When parsing
// is unavailable the handle still carries the text and HasTree reports
// false; callers degrade to text-level checks.
type Source struct {
	Path string
	Text string

	// parsed holds the bytes the tree positions refer to. Declaration
	// keywords may have been rewritten in place (see normalizeStructs),
	// byte-for-byte, so offsets and line numbers match Text exactly.
	parsed []byte
	tree   *tree_sitter.Tree
}

// structPattern matches the declaration keyword of a struct component.
// "struct" and "class " are both six bytes, so rewriting one to the other
// preserves every byte offset and line number in the file.
var structPattern = regexp.MustCompile(`\bstruct(\s+[A-Za-z_$][A-Za-z0-9_$]*\s*\{)`)

// normalizeStructs rewrites struct component declarations into class
// declarations the grammar understands. Offsets are preserved.
func normalizeStructs(src []byte) []byte {
	matches := structPattern.FindAllSubmatchIndex(src, -1)
	if len(matches) == 0 {
		return src
	}
	out := make([]byte, len(src))
	copy(out, src)
	for _, m := range matches {
		copy(out[m[0]:m[0]+6], "class ")
	}
	return out
}

// ParseSource parses text and returns a Source handle. It never fails:
// if the grammar cannot be initialized or the parser returns no tree, the
// handle is returned without a tree and a warning is logged. Callers own
// the handle and must Close it.
func ParseSource(text, path string) *Source {
	src := &Source{Path: path, Text: text}

	parser := tree_sitter.NewParser()
	defer parser.Close()
	lang := tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())
	if err := parser.SetLanguage(lang); err != nil {
		slog.Warn("parser unavailable, continuing without syntax tree", "path", path, "error", err)
		return src
	}

	src.parsed = normalizeStructs([]byte(text))
	tree := parser.Parse(src.parsed, nil)
	if tree == nil {
		slog.Warn("parse produced no tree, continuing without syntax tree", "path", path)
		src.parsed = nil
		return src
	}
	src.tree = tree
	return src
}

// HasTree reports whether a syntax tree is available.
func (s *Source) HasTree() bool {
	return s != nil && s.tree != nil
}

// Root returns the root node, or nil when no tree is available.
func (s *Source) Root() *tree_sitter.Node {
	if !s.HasTree() {
		return nil
	}
	return s.tree.RootNode()
}

// NodeText returns the source text covered by n.
func (s *Source) NodeText(n *tree_sitter.Node) string {
	if n == nil || s.parsed == nil {
		return ""
	}
	return n.Utf8Text(s.parsed)
}

// Line returns the 1-based line number of n's start position.
func Line(n *tree_sitter.Node) int {
	if n == nil {
		return 0
	}
	return int(n.StartPosition().Row) + 1
}

// Close releases the syntax tree. Safe to call on a tree-less handle.
func (s *Source) Close() {
	if s == nil || s.tree == nil {
		return
	}
	s.tree.Close()
	s.tree = nil
}

// Walk visits n and every named descendant in depth-first order, including
// children of error-recovery nodes so heuristics still see recovered
// expressions in files that mix UI builder syntax into declarations.
func Walk(n *tree_sitter.Node, visit func(*tree_sitter.Node)) {
	if n == nil {
		return
	}
	visit(n)
	for i := uint(0); i < n.NamedChildCount(); i++ {
		Walk(n.NamedChild(i), visit)
	}
}

// Covers reports whether outer's byte range fully covers inner.
func Covers(outer, inner *tree_sitter.Node) bool {
	if outer == nil || inner == nil {
		return false
	}
	return outer.StartByte() <= inner.StartByte() && inner.EndByte() <= outer.EndByte()
}

// CallArguments returns the argument expressions of a call expression,
// skipping comments.
func CallArguments(call *tree_sitter.Node) []*tree_sitter.Node {
	args := call.ChildByFieldName("arguments")
	if args == nil {
		return nil
	}
	var out []*tree_sitter.Node
	for i := uint(0); i < args.NamedChildCount(); i++ {
		if c := args.NamedChild(i); c.Kind() != "comment" {
			out = append(out, c)
		}
	}
	return out
}
