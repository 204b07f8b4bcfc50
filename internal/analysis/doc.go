// Package analysis parses ArkTS source text and extracts a structured
// feature summary used by review rules.
//
// Parsing is backed by the Tree-sitter TypeScript grammar. Struct component
// declarations, which the grammar does not know, are normalized into class
// declarations before parsing with a byte-preserving rewrite so every
// reported line and column matches the original text.
//
// [ParseSource] returns a [Source] handle carrying the text and, when
// available, the syntax tree; [ExtractFromSource] walks that tree and
// collects components, decorator usages, resolved API calls, and
// heuristic performance risks into a [CodeFeatures] value. Extraction is
// best-effort and total: unparseable input produces an empty feature set
// and a logged warning, never an error or panic.
package analysis
