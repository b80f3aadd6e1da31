package ir

import "testing"

func TestExToExpReturnsWrappedExpression(t *testing.T) {
	e := Const{Value: 42}
	tree := Ex(e)
	if tree.ToExp() != Exp(e) {
		t.Errorf("Ex(e).ToExp() should return e unchanged")
	}
}

func TestExToStmWrapsInExpStm(t *testing.T) {
	e := Const{Value: 1}
	stm := Ex(e).ToStm()
	es, ok := stm.(ExpStm)
	if !ok || es.Exp != Exp(e) {
		t.Errorf("Ex(e).ToStm() should be an ExpStm wrapping e, got %#v", stm)
	}
}

func TestNxToStmReturnsWrappedStatement(t *testing.T) {
	s := ExpStm{Exp: Const{Value: 1}}
	if Nx(s).ToStm() != Stm(s) {
		t.Error("Nx(s).ToStm() should return s unchanged")
	}
}

func TestNxToExpWrapsAsESeqWithZero(t *testing.T) {
	s := ExpStm{Exp: Const{Value: 9}}
	e := Nx(s).ToExp()
	eseq, ok := e.(ESeq)
	if !ok {
		t.Fatalf("expected an ESeq, got %T", e)
	}
	if c, ok := eseq.Exp.(Const); !ok || c.Value != 0 {
		t.Errorf("a statement committed to a value position should yield the unit constant 0, got %#v", eseq.Exp)
	}
}

func TestCxToCondReturnsTheThunkUnchanged(t *testing.T) {
	called := false
	cond := func(tt, f Label) Stm {
		called = true
		return Jump{Target: Name{Label: tt}, Candidates: []Label{tt}}
	}
	tree := Cx(cond)
	tree.ToCond()(LabelFromFixed("t"), LabelFromFixed("f"))
	if !called {
		t.Error("ToCond should return the exact thunk passed to Cx")
	}
}

func TestExToCondOnNonzeroConstantAlwaysJumpsTrue(t *testing.T) {
	tt, f := LabelFromFixed("t"), LabelFromFixed("f")
	stm := Ex(Const{Value: 1}).ToCond()(tt, f)
	j, ok := stm.(Jump)
	if !ok || j.Candidates[0] != tt {
		t.Errorf("a nonzero constant in condition position should jump unconditionally to true, got %#v", stm)
	}
}

func TestExToCondOnZeroConstantAlwaysJumpsFalse(t *testing.T) {
	tt, f := LabelFromFixed("t"), LabelFromFixed("f")
	stm := Ex(Const{Value: 0}).ToCond()(tt, f)
	j, ok := stm.(Jump)
	if !ok || j.Candidates[0] != f {
		t.Errorf("a zero constant in condition position should jump unconditionally to false, got %#v", stm)
	}
}

func TestExToCondOnNonConstantComparesAgainstZero(t *testing.T) {
	tt, f := LabelFromFixed("t"), LabelFromFixed("f")
	tmp := NewTemp()
	stm := Ex(TempExp{Temp: tmp}).ToCond()(tt, f)
	cj, ok := stm.(CJump)
	if !ok {
		t.Fatalf("expected a CJump, got %T", stm)
	}
	if cj.Op != Ne || cj.True != tt || cj.False != f {
		t.Errorf("expected CJump(!= 0, true=%s, false=%s), got %#v", tt, f, cj)
	}
}

func TestNxToCondPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("committing a statement Tree to a conditional position should panic")
		}
	}()
	Nx(ExpStm{Exp: Const{Value: 0}}).ToCond()
}
