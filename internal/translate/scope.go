package translate

import (
	"github.com/tigerlang/tigerc/internal/frame"
	"github.com/tigerlang/tigerc/internal/ir"
	"github.com/tigerlang/tigerc/internal/types"
)

// varInfo is everything the translator needs to know about one variable
// binding: its resolved type (for record-field offsets and array element
// types), the Access holding its storage, and the frame that storage
// belongs to (the static-link walk's stopping point).
type varInfo struct {
	ty     types.Ty
	access frame.Access
	owner  *frame.Frame
}

// varScope is a scope chain from variable name to varInfo, pushed and
// popped in lockstep with Let/For/function-body scopes. Resolution goes
// through this chain rather than the frames' own bookkeeping so that a
// shadowed binding comes back into view when the shadowing scope ends.
type varScope struct {
	vars  map[string]varInfo
	outer *varScope
}

func newVarScope() *varScope {
	return &varScope{vars: map[string]varInfo{}}
}

func (s *varScope) push() *varScope {
	return &varScope{vars: map[string]varInfo{}, outer: s}
}

func (s *varScope) pop() *varScope { return s.outer }

func (s *varScope) define(name string, info varInfo) { s.vars[name] = info }

func (s *varScope) lookup(name string) varInfo {
	for c := s; c != nil; c = c.outer {
		if info, ok := c.vars[name]; ok {
			return info
		}
	}
	panic("internal error: unbound variable in translator: " + name)
}

// CallKind distinguishes a reference to a nested user function (which needs
// a static-link argument prepended) from an extern (which doesn't).
type CallKind int

const (
	CallFunction CallKind = iota
	CallExtern
)

// Call is what fnScope maps a callable name to. Ret is tracked here (rather
// than re-deriving it from an AST signature at every call site) since it's
// the only piece of a function's type the translator ever needs again after
// its declaration has been processed. Parent is the frame active when a
// CallFunction was declared — the static-link search target when a later
// call site needs to pass that frame's pointer as the hidden first argument.
// It's nil for CallExtern, which never carries a static link.
type Call struct {
	Kind   CallKind
	Label  ir.Label
	Ret    types.Ty
	Parent *frame.Frame
}

// fnScope is a scope chain from function name to Call, mirroring varScope.
// Nested function declarations shadow like any other binder.
type fnScope struct {
	fns   map[string]Call
	outer *fnScope
}

func newFnScope() *fnScope { return &fnScope{fns: map[string]Call{}} }

func (s *fnScope) push() *fnScope { return &fnScope{fns: map[string]Call{}, outer: s} }

func (s *fnScope) pop() *fnScope { return s.outer }

func (s *fnScope) define(name string, c Call) { s.fns[name] = c }

func (s *fnScope) lookup(name string) (Call, bool) {
	for c := s; c != nil; c = c.outer {
		if call, ok := c.fns[name]; ok {
			return call, true
		}
	}
	return Call{}, false
}
