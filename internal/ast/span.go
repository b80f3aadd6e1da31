// Package ast defines the syntax tree consumed by the semantic analyzer
// and IR translator. The lexer and parser that build it, and the source-span
// rendering that decorates diagnostics with it, live outside this module.
package ast

// Span is an opaque byte range into the source file. It exists purely so
// that nodes can be decorated with a location for error reporting upstream;
// nothing in this module interprets its contents.
type Span struct {
	Start int
	End   int
}
