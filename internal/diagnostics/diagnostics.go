// Package diagnostics defines the semantic-analysis error taxonomy.
// Lexical and syntactic kinds belong to the upstream lexer/parser and have
// no home here.
package diagnostics

import (
	"fmt"

	"github.com/tigerlang/tigerc/internal/ast"
)

// Kind enumerates every semantic error the analyzer can report.
type Kind string

const (
	Break            Kind = "Break"
	UnboundType      Kind = "UnboundType"
	UnboundField     Kind = "UnboundField"
	UnboundFunction  Kind = "UnboundFunction"
	UnboundArr       Kind = "UnboundArr"
	UnboundRecord    Kind = "UnboundRecord"
	NotRecord        Kind = "NotRecord"
	NotArr           Kind = "NotArr"
	NotFunction      Kind = "NotFunction"
	IndexMismatch    Kind = "IndexMismatch"
	Neg              Kind = "Neg"
	BinaryMismatch   Kind = "BinaryMismatch"
	CallMismatch     Kind = "CallMismatch"
	FieldMismatch    Kind = "FieldMismatch"
	VarMismatch      Kind = "VarMismatch"
	AssignImmutable  Kind = "AssignImmutable"
	GuardMismatch    Kind = "GuardMismatch"
	BranchMismatch   Kind = "BranchMismatch"
	UnusedBranch     Kind = "UnusedBranch"
	UnusedWhileBody  Kind = "UnusedWhileBody"
	UnusedForBody    Kind = "UnusedForBody"
	UnusedExp        Kind = "UnusedExp"
	ForBound         Kind = "ForBound"
	ArrMismatch      Kind = "ArrMismatch"
	UnknownNil       Kind = "UnknownNil"
	ReturnMismatch   Kind = "ReturnMismatch"
	FunConflict      Kind = "FunConflict"
	TypeConflict     Kind = "TypeConflict"
)

// Error is a single semantic diagnostic: a Kind, the span of the offending
// node, and a human-readable message.
type Error struct {
	Kind    Kind
	Span    ast.Span
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at [%d,%d): %s", e.Kind, e.Span.Start, e.Span.End, e.Message)
}

// New builds an Error, formatting Message like fmt.Sprintf.
func New(kind Kind, span ast.Span, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Span: span, Message: fmt.Sprintf(format, args...)}
}
