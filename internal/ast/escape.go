package ast

// FindEscapes walks a program and sets the Escape flag on every VarDec,
// ForExpr induction variable, and FunDec parameter that is referenced from a
// function nested more deeply than the one it was declared in.
//
// A binder that is never captured keeps Escape == false, letting the
// translator materialize it as a register-form Temp instead of a frame slot.
// Callers that would rather skip this analysis entirely may instead set
// every Escape field to true up front — both are valid inputs to the
// translator.
func FindEscapes(prog *Program) {
	e := &escaper{scopes: []escScope{{}}}
	e.walkExpr(prog.Body)
}

type escBinding struct {
	depth int
	mark  func()
}

type escScope map[string]escBinding

type escaper struct {
	scopes []escScope
	depth  int
}

func (e *escaper) push()     { e.scopes = append(e.scopes, escScope{}) }
func (e *escaper) pop()      { e.scopes = e.scopes[:len(e.scopes)-1] }

func (e *escaper) define(name string, mark func()) {
	e.scopes[len(e.scopes)-1][name] = escBinding{depth: e.depth, mark: mark}
}

func (e *escaper) use(name string) {
	for i := len(e.scopes) - 1; i >= 0; i-- {
		if b, ok := e.scopes[i][name]; ok {
			if e.depth > b.depth {
				b.mark()
			}
			return
		}
	}
}

func (e *escaper) walkExpr(expr Expr) {
	switch n := expr.(type) {
	case nil, *BreakExpr, *NilExpr, *IntExpr, *StrExpr:
		return
	case *VarExpr:
		e.walkLValue(n.LV)
	case *CallExpr:
		for _, a := range n.Args {
			e.walkExpr(a)
		}
	case *NegExpr:
		e.walkExpr(n.E)
	case *BinExpr:
		e.walkExpr(n.LHS)
		e.walkExpr(n.RHS)
	case *RecExpr:
		for _, f := range n.Fields {
			e.walkExpr(f.Value)
		}
	case *SeqExpr:
		for _, s := range n.Exprs {
			e.walkExpr(s)
		}
	case *AssExpr:
		e.walkLValue(n.LV)
		e.walkExpr(n.RHS)
	case *IfExpr:
		e.walkExpr(n.Guard)
		e.walkExpr(n.Then)
		if n.Or != nil {
			e.walkExpr(n.Or)
		}
	case *WhileExpr:
		e.walkExpr(n.Guard)
		e.walkExpr(n.Body)
	case *ForExpr:
		e.walkExpr(n.Lo)
		e.walkExpr(n.Hi)
		n.Escape = false
		e.push()
		name := n.Name
		node := n
		e.define(name, func() { node.Escape = true })
		e.walkExpr(n.Body)
		e.pop()
	case *LetExpr:
		e.push()
		for _, d := range n.Decs {
			e.walkDecl(d)
		}
		e.walkExpr(n.Body)
		e.pop()
	case *ArrExpr:
		e.walkExpr(n.Size)
		e.walkExpr(n.Init)
	default:
		return
	}
}

func (e *escaper) walkLValue(lv LValue) {
	switch n := lv.(type) {
	case *SimpleVar:
		e.use(n.Name)
	case *FieldVar:
		e.walkLValue(n.Rec)
	case *IndexVar:
		e.walkLValue(n.Arr)
		e.walkExpr(n.Index)
	}
}

func (e *escaper) walkDecl(d Decl) {
	switch n := d.(type) {
	case *VarDec:
		e.walkExpr(n.Init)
		n.Escape = false
		dec := n
		e.define(dec.Name, func() { dec.Escape = true })
	case *TypeDecGroup:
		// Type declarations bind no variables.
	case *FunDecGroup:
		for _, fd := range n.Funs {
			e.define(fd.Name, func() {})
		}
		for _, fd := range n.Funs {
			e.depth++
			e.push()
			for _, p := range fd.Params {
				p.Escape = false
				param := p
				e.define(param.Name, func() { param.Escape = true })
			}
			e.walkExpr(fd.Body)
			e.pop()
			e.depth--
		}
	}
}
