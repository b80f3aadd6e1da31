package ir

// Tree is the tri-modal value the translator produces for every source
// expression: a pure value (Ex), a statement executed for effect (Nx), or a
// conditional (Cx) that hasn't yet committed to a representation. The
// surrounding context (an assignment, a guard, a value position) picks the
// final shape by calling ToExp, ToStm, or ToCond — each of which may
// materialize fresh labels/temps, so a Cx's thunk must only ever be invoked
// once per Tree value (clone the closed-over expressions to reuse it).
type Tree struct {
	kind treeKind
	exp  Exp
	stm  Stm
	cond func(t, f Label) Stm
}

type treeKind int

const (
	exKind treeKind = iota
	nxKind
	cxKind
)

// Ex wraps a pure expression.
func Ex(e Exp) Tree { return Tree{kind: exKind, exp: e} }

// Nx wraps a statement run for effect only.
func Nx(s Stm) Tree { return Tree{kind: nxKind, stm: s} }

// Cx wraps a branch thunk: given the true and false targets, it produces the
// statement that jumps to whichever one the condition selects.
func Cx(cond func(t, f Label) Stm) Tree { return Tree{kind: cxKind, cond: cond} }

// ToExp commits the tree to an expression value.
func (t Tree) ToExp() Exp {
	switch t.kind {
	case exKind:
		return t.exp
	case nxKind:
		return ESeq{Stm: t.stm, Exp: Const{Value: 0}}
	case cxKind:
		r := TempExp{Temp: NewTemp()}
		trueL := LabelFromStr("cx.true")
		falseL := LabelFromStr("cx.false")
		return ESeq{
			Stm: SeqStmts(
				Move{Dst: r, Src: Const{Value: 1}},
				t.cond(trueL, falseL),
				LabelStm{Label: falseL},
				Move{Dst: r, Src: Const{Value: 0}},
				LabelStm{Label: trueL},
			),
			Exp: r,
		}
	}
	panic("internal error: unreachable tree kind")
}

// ToStm commits the tree to a statement run for effect.
func (t Tree) ToStm() Stm {
	switch t.kind {
	case nxKind:
		return t.stm
	case exKind:
		return ExpStm{Exp: t.exp}
	case cxKind:
		l := LabelFromStr("cx.join")
		return SeqStmts(t.cond(l, l), LabelStm{Label: l})
	}
	panic("internal error: unreachable tree kind")
}

// ToCond commits the tree to a conditional-branch thunk.
func (t Tree) ToCond() func(trueL, falseL Label) Stm {
	switch t.kind {
	case cxKind:
		return t.cond
	case exKind:
		e := t.exp
		if c, ok := e.(Const); ok {
			if c.Value == 0 {
				return func(_, f Label) Stm { return Jump{Target: Name{Label: f}, Candidates: []Label{f}} }
			}
			return func(tt, _ Label) Stm { return Jump{Target: Name{Label: tt}, Candidates: []Label{tt}} }
		}
		return func(tt, f Label) Stm {
			return CJump{Left: e, Op: Ne, Right: Const{Value: 0}, True: tt, False: f}
		}
	case nxKind:
		panic("internal error: statement tree used in conditional position")
	}
	panic("internal error: unreachable tree kind")
}
