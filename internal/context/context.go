// Package context provides the two lexically-scoped lookup tables the
// analyzer and translator share: TypeContext (symbol -> types.Ty) and
// VarContext (symbol -> types.Binding). Both are persistent scope chains:
// Push links a fresh frame onto the current one via an outer pointer and
// Pop detaches it, so a declaration block's bindings never leak past its
// Let.
package context

import (
	"fmt"

	"github.com/tigerlang/tigerc/internal/types"
)

// TypeContext is a scope chain from type name to resolved (or
// partially-resolved) Ty.
type TypeContext struct {
	vars  map[string]types.Ty
	outer *TypeContext
}

// NewTypeContext returns an empty root context seeded with the two
// primitive type names.
func NewTypeContext() *TypeContext {
	tc := &TypeContext{vars: map[string]types.Ty{}}
	tc.Define("int", types.TInt{})
	tc.Define("string", types.TStr{})
	return tc
}

// Push returns a new child scope; bindings made in it are invisible to tc.
func (tc *TypeContext) Push() *TypeContext {
	return &TypeContext{vars: map[string]types.Ty{}, outer: tc}
}

// Pop returns the parent scope (nil at the root).
func (tc *TypeContext) Pop() *TypeContext { return tc.outer }

// Define binds name to t in the current scope frame only.
func (tc *TypeContext) Define(name string, t types.Ty) { tc.vars[name] = t }

// LookupPartial returns the type bound to name, without unwrapping a
// types.TName alias — used while resolving a mutually recursive type group,
// where a forward reference is a legal, still-unresolved TName.
func (tc *TypeContext) LookupPartial(name string) (types.Ty, bool) {
	for c := tc; c != nil; c = c.outer {
		if t, ok := c.vars[name]; ok {
			return t, true
		}
	}
	return nil, false
}

// ErrUnboundType and ErrCycle are returned by LookupFull.
type ErrUnboundType struct{ Name string }

func (e ErrUnboundType) Error() string { return fmt.Sprintf("unbound type: %s", e.Name) }

type ErrCycle struct{ Name string }

func (e ErrCycle) Error() string { return fmt.Sprintf("cyclic type alias: %s", e.Name) }

// LookupFull resolves name, transitively unwrapping types.TName until it
// reaches a non-alias type. It fails with ErrUnboundType if name is not
// bound at all, and ErrCycle if an alias chain revisits a name or dead-ends
// in a still-unresolved body (i.e. the chain only ever passes through
// name-to-name aliasing, never crossing an Arr/Rec constructor — the
// illegal cycle shape).
func (tc *TypeContext) LookupFull(name string) (types.Ty, error) {
	t, ok := tc.LookupPartial(name)
	if !ok {
		return nil, ErrUnboundType{Name: name}
	}
	visited := map[string]bool{}
	for {
		n, ok := t.(*types.TName)
		if !ok {
			return t, nil
		}
		if visited[n.Sym] {
			return nil, ErrCycle{Name: n.Sym}
		}
		visited[n.Sym] = true
		if n.Body == nil {
			return nil, ErrCycle{Name: n.Sym}
		}
		t = n.Body
	}
}

// VarContext is a scope chain from variable/function name to types.Binding.
type VarContext struct {
	vars  map[string]types.Binding
	outer *VarContext
}

// NewVarContext returns an empty root context; runtime-shim externs are
// seeded by the caller (see analyzer.New) so this package stays
// domain-agnostic.
func NewVarContext() *VarContext {
	return &VarContext{vars: map[string]types.Binding{}}
}

func (vc *VarContext) Push() *VarContext {
	return &VarContext{vars: map[string]types.Binding{}, outer: vc}
}

func (vc *VarContext) Pop() *VarContext { return vc.outer }

func (vc *VarContext) Define(name string, b types.Binding) { vc.vars[name] = b }

func (vc *VarContext) Lookup(name string) (types.Binding, bool) {
	for c := vc; c != nil; c = c.outer {
		if b, ok := c.vars[name]; ok {
			return b, true
		}
	}
	return nil, false
}
