// Package translate lowers a checked AST into the canonical tree IR: one
// ir.Static per string literal encountered, and one Unit per function body
// (including the implicit top-level "main" unit), each carrying the Frame
// that lays out its formals and escaping locals.
//
// The translator re-derives just enough typing information to resolve
// record-field offsets and array element types (see varScope). It assumes
// the AST already passed semantic analysis, so no diagnostics.Error ever
// escapes this package; anything that would be a type error here is an
// internal invariant violation instead.
package translate

import (
	"github.com/tigerlang/tigerc/internal/ast"
	"github.com/tigerlang/tigerc/internal/context"
	"github.com/tigerlang/tigerc/internal/frame"
	"github.com/tigerlang/tigerc/internal/ir"
	"github.com/tigerlang/tigerc/internal/types"
)

// Unit is one translated function body, paired with the frame describing
// its stack layout.
type Unit struct {
	Frame *frame.Frame
	Body  ir.Stm
}

var mallocLabel = ir.LabelFromFixed("malloc")
var initArrayLabel = ir.LabelFromFixed("init_array")

// externSignatures holds the Ret type of each runtime-shim extern; translate
// needs it whenever an extern call appears in a value position (e.g.
// `var c := getchar()`).
var externSignatures = map[string]types.Ty{
	"print":     types.TUnit{},
	"flush":     types.TUnit{},
	"getchar":   types.TStr{},
	"ord":       types.TInt{},
	"chr":       types.TStr{},
	"size":      types.TInt{},
	"substring": types.TStr{},
	"concat":    types.TStr{},
	"not":       types.TInt{},
	"exit":      types.TUnit{},
}

// Translator carries all the mutable state one compilation unit's worth of
// translation threads through: the active frame stack (innermost last, so
// the static-link walk in resolveVar/staticLinkTo reads outward), the loop
// exit label stack Break unwinds to, the type-name context, the variable
// scope, and the function/extern scope.
type Translator struct {
	frames   []*frame.Frame
	loopExit []ir.Label

	tc  *context.TypeContext
	vs  *varScope
	fc  *fnScope

	statics []ir.Static
	done    []Unit
}

// New returns a translator primed with the top-level "main" frame and the
// ten user-callable runtime externs the analyzer also seeds.
func New() *Translator {
	t := &Translator{
		frames: []*frame.Frame{frame.New(ir.LabelFromFixed("main"), nil)},
		tc:     context.NewTypeContext(),
		vs:     newVarScope(),
		fc:     newFnScope(),
	}
	for name, ret := range externSignatures {
		t.fc.define(name, Call{Kind: CallExtern, Label: ir.LabelFromFixed(name), Ret: ret})
	}
	return t
}

// Translate is the package entry point: lower a whole compilation unit to
// its statics and its translated function units. Nested functions finish
// before main does, so main's unit is last; callers that care should still
// look it up by Frame.Label rather than position.
func Translate(prog *ast.Program) ([]ir.Static, []Unit) {
	t := New()
	bodyTree, _ := t.translateExpr(prog.Body)
	mainFrame := t.popFrame()
	t.done = append(t.done, Unit{Frame: mainFrame, Body: frame.Wrap(bodyTree.ToExp())})
	return t.statics, t.done
}

func (t *Translator) current() *frame.Frame { return t.frames[len(t.frames)-1] }

func (t *Translator) pushFrame(f *frame.Frame) { t.frames = append(t.frames, f) }

func (t *Translator) popFrame() *frame.Frame {
	f := t.current()
	t.frames = t.frames[:len(t.frames)-1]
	return f
}

func (t *Translator) enterLoop(exit ir.Label) { t.loopExit = append(t.loopExit, exit) }

func (t *Translator) exitLoop() { t.loopExit = t.loopExit[:len(t.loopExit)-1] }

func (t *Translator) currentLoopExit() ir.Label {
	return t.loopExit[len(t.loopExit)-1]
}

// newString interns s as a fresh static and returns the IR name referring
// to it.
func (t *Translator) newString(s string) ir.Name {
	lbl := ir.LabelFromStr("str")
	t.statics = append(t.statics, ir.Static{Label: lbl, Bytes: []byte(s)})
	return ir.Name{Label: lbl}
}

// resolveVar walks the frame stack outward from the current frame until it
// reaches the frame name's binding belongs to, accumulating the pointer
// expression a static-link chain produces along the way. A variable
// declared d frames up costs exactly d static-link loads before the final
// slot access.
func (t *Translator) resolveVar(name string) (ir.Exp, types.Ty) {
	info := t.vs.lookup(name)
	ptr := ir.Exp(ir.TempExp{Temp: ir.RBP})
	for i := len(t.frames) - 1; i >= 0; i-- {
		f := t.frames[i]
		if f == info.owner {
			return info.access.ToExp(ptr), info.ty
		}
		ptr = f.StaticLink(ptr)
	}
	panic("internal error: variable's owning frame not on the stack: " + name)
}

// staticLinkTo computes, from the current frame, the pointer value of
// parent — the frame a CallFunction's Parent names — for use as that call's
// hidden static-link argument.
func (t *Translator) staticLinkTo(parent *frame.Frame) ir.Exp {
	ptr := ir.Exp(ir.TempExp{Temp: ir.RBP})
	for i := len(t.frames) - 1; i >= 0; i-- {
		f := t.frames[i]
		if f == parent {
			return ptr
		}
		ptr = f.StaticLink(ptr)
	}
	panic("internal error: static-link target frame not found")
}
