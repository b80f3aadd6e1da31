package ast

import "testing"

func sp() Span { return Span{} }

// TestFindEscapesMarksVariableCapturedByNestedFunction is the case that
// matters most: a var declared in an outer scope and read from inside a
// function nested one level deeper must end up Escape == true, so the
// translator gives it frame storage instead of a register.
func TestFindEscapesMarksVariableCapturedByNestedFunction(t *testing.T) {
	outer := &VarDec{Sp: sp(), Name: "n", Init: &IntExpr{Sp: sp(), Value: 1}}
	inner := &FunDec{
		Sp:   sp(),
		Name: "f",
		Body: &VarExpr{Sp: sp(), LV: &SimpleVar{Sp: sp(), Name: "n"}},
	}
	prog := &Program{Body: &LetExpr{
		Sp:   sp(),
		Decs: []Decl{outer, &FunDecGroup{Sp: sp(), Funs: []*FunDec{inner}}},
		Body: &CallExpr{Sp: sp(), Name: "f"},
	}}

	FindEscapes(prog)

	if !outer.Escape {
		t.Error("expected n, captured by a nested function, to have Escape == true")
	}
}

// TestFindEscapesLeavesUncapturedVariableAlone is the converse: a variable
// only ever read at its own declaration depth should never be marked.
func TestFindEscapesLeavesUncapturedVariableAlone(t *testing.T) {
	dec := &VarDec{Sp: sp(), Name: "n", Init: &IntExpr{Sp: sp(), Value: 1}}
	prog := &Program{Body: &LetExpr{
		Sp:   sp(),
		Decs: []Decl{dec},
		Body: &VarExpr{Sp: sp(), LV: &SimpleVar{Sp: sp(), Name: "n"}},
	}}

	FindEscapes(prog)

	if dec.Escape {
		t.Error("expected n, read only at its own depth, to have Escape == false")
	}
}

// TestFindEscapesMarksCapturedFunctionParameter mirrors the VarDec case for
// a function parameter captured by a function nested inside its own body.
func TestFindEscapesMarksCapturedFunctionParameter(t *testing.T) {
	param := &Field{Sp: sp(), Name: "x", Type: "int"}
	innerInner := &FunDec{
		Sp:   sp(),
		Name: "g",
		Body: &VarExpr{Sp: sp(), LV: &SimpleVar{Sp: sp(), Name: "x"}},
	}
	outerFun := &FunDec{
		Sp:     sp(),
		Name:   "f",
		Params: []*Field{param},
		Body: &LetExpr{
			Sp:   sp(),
			Decs: []Decl{&FunDecGroup{Sp: sp(), Funs: []*FunDec{innerInner}}},
			Body: &CallExpr{Sp: sp(), Name: "g"},
		},
	}
	prog := &Program{Body: &LetExpr{
		Sp:   sp(),
		Decs: []Decl{&FunDecGroup{Sp: sp(), Funs: []*FunDec{outerFun}}},
		Body: &CallExpr{Sp: sp(), Name: "f"},
	}}

	FindEscapes(prog)

	if !param.Escape {
		t.Error("expected x, captured by a function nested inside f's own body, to have Escape == true")
	}
}

func TestFindEscapesMarksForInductionVariableCapturedByNestedFunction(t *testing.T) {
	forExpr := &ForExpr{
		Sp:   sp(),
		Name: "i",
		Lo:   &IntExpr{Sp: sp(), Value: 0},
		Hi:   &IntExpr{Sp: sp(), Value: 10},
		Body: &LetExpr{
			Sp: sp(),
			Decs: []Decl{&FunDecGroup{Sp: sp(), Funs: []*FunDec{
				{Sp: sp(), Name: "f", Body: &VarExpr{Sp: sp(), LV: &SimpleVar{Sp: sp(), Name: "i"}}},
			}}},
			Body: &CallExpr{Sp: sp(), Name: "f"},
		},
	}
	prog := &Program{Body: forExpr}

	FindEscapes(prog)

	if !forExpr.Escape {
		t.Error("expected the for-loop induction variable, captured by a nested function, to have Escape == true")
	}
}
