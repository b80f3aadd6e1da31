// Package frame models per-function stack layout: the mapping from source
// variables to either a fresh pseudo-register or a memory slot relative to
// RBP, and the running offset counter that assigns those slots.
package frame

import "github.com/tigerlang/tigerc/internal/ir"

// StaticLinkName is the reserved formal name for the hidden pointer to the
// lexically enclosing frame, always the first formal of every user
// function (see Frame.New).
const StaticLinkName = "STATIC_LINK"

// Access is the IR expression that denotes reading or writing a variable:
// a bare Temp, or Mem(RBP - offset) relative to some accumulated frame
// pointer (the caller supplies that pointer, since variables from an outer
// frame are addressed through a chain of static-link loads, not always RBP
// of the currently-translating function).
type Access interface {
	ToExp(framePtr ir.Exp) ir.Exp
}

// RegAccess is a non-escaping variable: materialized directly as a fresh
// Temp, independent of any frame pointer.
type RegAccess struct{ Temp ir.Temp }

func (a RegAccess) ToExp(ir.Exp) ir.Exp { return ir.TempExp{Temp: a.Temp} }

// MemAccess is an escaping variable: materialized as Mem(framePtr - Offset).
// Offset is stored positive; the subtraction is applied at use.
type MemAccess struct{ Offset int32 }

func (a MemAccess) ToExp(framePtr ir.Exp) ir.Exp {
	return ir.Mem{Addr: ir.Binop{
		Left:  framePtr,
		Op:    ir.Minus,
		Right: ir.Const{Value: a.Offset},
	}}
}

// Formal is one formal parameter specification: name, and whether it
// escapes (is captured by a nested function, conservatively: by anything at
// a deeper lexical depth).
type Formal struct {
	Name   string
	Escape bool
}

// Frame is one function's stack layout.
type Frame struct {
	Label   ir.Label
	Formals []Access // Formals[0] is always the static link.
	Locals  []Access // escaping locals only, in allocation order.

	offset int32
	names  []string // formal names, parallel to Formals
	vars   map[string]Access
}

// New creates a frame for label, uniformly prepending the static link as
// the first formal ahead of the caller-supplied ones. Every user function
// takes one, so call lowering never has to special-case depth-zero
// functions.
func New(label ir.Label, formals []Formal) *Frame {
	f := &Frame{Label: label, vars: map[string]Access{}}
	all := append([]Formal{{Name: StaticLinkName, Escape: true}}, formals...)
	for _, formal := range all {
		a := f.allocate(formal.Escape)
		f.Formals = append(f.Formals, a)
		f.names = append(f.names, formal.Name)
		f.vars[formal.Name] = a
	}
	return f
}

// FormalNames returns the formal names in declaration order, static link
// first — parallel to Formals.
func (f *Frame) FormalNames() []string { return f.names }

func (f *Frame) allocate(escape bool) Access {
	if escape {
		f.offset += ir.WordSize
		return MemAccess{Offset: f.offset}
	}
	return RegAccess{Temp: ir.NewTemp()}
}

// AllocLocal reserves storage for a local variable or loop induction
// variable declared directly in this frame and binds it to name.
func (f *Frame) AllocLocal(name string, escape bool) Access {
	a := f.allocate(escape)
	if escape {
		f.Locals = append(f.Locals, a)
	}
	f.vars[name] = a
	return a
}

// Contains reports whether name is declared directly in this frame.
func (f *Frame) Contains(name string) bool {
	_, ok := f.vars[name]
	return ok
}

// StaticLink returns this frame's own static-link access, relative to
// framePtr — used by a caller still walking outward past this frame.
func (f *Frame) StaticLink(framePtr ir.Exp) ir.Exp {
	return f.Formals[0].ToExp(framePtr)
}

// Size returns the number of bytes of escaping storage this frame has
// allocated so far (formals and locals together).
func (f *Frame) Size() int32 { return f.offset }

// Wrap finishes a function's translation by moving its body value into
// RAX, the System V AMD64 return-value register, as the last statement of
// the body — the calling convention the tiler's Call lowering assumes.
func Wrap(body ir.Exp) ir.Stm {
	return ir.Move{Dst: ir.TempExp{Temp: ir.RAX}, Src: body}
}
