package pipeline

import (
	"github.com/tigerlang/tigerc/internal/asm"
	"github.com/tigerlang/tigerc/internal/ast"
	"github.com/tigerlang/tigerc/internal/ir"
	"github.com/tigerlang/tigerc/internal/translate"
)

// Context is threaded by value reference through every Stage, each one
// filling in the field(s) it owns. A later stage reads what an earlier one
// produced; nothing is recomputed.
type Context struct {
	Program *ast.Program

	Statics []ir.Static
	Units   []translate.Unit

	Canonical map[ir.Label][]ir.Stm

	Asm []asm.Unit

	Errors []error
}

// NewContext seeds a Context with the parsed program that's about to go
// through analysis, translation, canonicalization and tiling.
func NewContext(prog *ast.Program) *Context {
	return &Context{Program: prog, Canonical: make(map[ir.Label][]ir.Stm)}
}

// OK reports whether every stage run so far succeeded.
func (c *Context) OK() bool { return len(c.Errors) == 0 }
