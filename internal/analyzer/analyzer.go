// Package analyzer implements the semantic analyzer: typing, scoping,
// recursive type resolution, and mutability enforcement over the AST.
package analyzer

import (
	"github.com/tigerlang/tigerc/internal/ast"
	"github.com/tigerlang/tigerc/internal/context"
	"github.com/tigerlang/tigerc/internal/diagnostics"
)

// Analyzer performs a single, fail-fast pass over a program.
type Analyzer struct {
	tc    *context.TypeContext
	vc    *context.VarContext
	loops int // depth of enclosing loop nesting, for Break validation
}

// New creates an Analyzer with the runtime-shim externs and primitive types
// already seeded, mirroring the reference checker's initial context.
func New() *Analyzer {
	a := &Analyzer{
		tc: context.NewTypeContext(),
		vc: context.NewVarContext(),
	}
	RegisterBuiltins(a.vc)
	return a
}

// Check type-checks body (the program's single top-level expression) and
// returns the first semantic error encountered, or nil on success.
func Check(body ast.Expr) *diagnostics.Error {
	a := New()
	_, err := a.typeExpr(body)
	return err
}

// loopEntered/loopExited bracket a loop body's analysis so Break is only
// legal inside one.
func (a *Analyzer) loopEntered() { a.loops++ }
func (a *Analyzer) loopExited()  { a.loops-- }
func (a *Analyzer) inLoop() bool { return a.loops > 0 }
