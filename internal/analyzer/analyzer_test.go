package analyzer

import (
	"testing"

	"github.com/tigerlang/tigerc/internal/ast"
	"github.com/tigerlang/tigerc/internal/diagnostics"
)

func sp() ast.Span { return ast.Span{} }

func checkErr(t *testing.T, body ast.Expr) *diagnostics.Error {
	t.Helper()
	return Check(body)
}

func TestCheckAcceptsSimpleArithmetic(t *testing.T) {
	body := &ast.BinExpr{Sp: sp(), Op: ast.Add, LHS: &ast.IntExpr{Sp: sp(), Value: 1}, RHS: &ast.IntExpr{Sp: sp(), Value: 2}}
	if err := checkErr(t, body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCheckRejectsUnknownNilWithoutAnnotation(t *testing.T) {
	body := &ast.LetExpr{
		Sp: sp(),
		Decs: []ast.Decl{
			&ast.VarDec{Sp: sp(), Name: "x", Init: &ast.NilExpr{Sp: sp()}},
		},
		Body: &ast.IntExpr{Sp: sp(), Value: 0},
	}
	err := checkErr(t, body)
	if err == nil || err.Kind != diagnostics.UnknownNil {
		t.Fatalf("expected UnknownNil, got %v", err)
	}
}

func TestCheckAcceptsAnnotatedNil(t *testing.T) {
	body := &ast.LetExpr{
		Sp: sp(),
		Decs: []ast.Decl{
			&ast.TypeDecGroup{Sp: sp(), Types: []*ast.TypeDec{
				{Sp: sp(), Name: "rec", Body: &ast.RecordType{Sp: sp(), Fields: nil}},
			}},
			&ast.VarDec{Sp: sp(), Name: "x", Type: "rec", HasType: true, Init: &ast.NilExpr{Sp: sp()}},
		},
		Body: &ast.IntExpr{Sp: sp(), Value: 0},
	}
	if err := checkErr(t, body); err != nil {
		t.Fatalf("unexpected error annotating nil with a record type: %v", err)
	}
}

func TestCheckRejectsFieldCountMismatch(t *testing.T) {
	body := &ast.LetExpr{
		Sp: sp(),
		Decs: []ast.Decl{
			&ast.TypeDecGroup{Sp: sp(), Types: []*ast.TypeDec{
				{Sp: sp(), Name: "point", Body: &ast.RecordType{Sp: sp(), Fields: []*ast.Field{
					{Sp: sp(), Name: "x", Type: "int"},
					{Sp: sp(), Name: "y", Type: "int"},
				}}},
			}},
		},
		Body: &ast.RecExpr{Sp: sp(), Name: "point", Fields: []*ast.FieldInit{
			{Sp: sp(), Name: "x", Value: &ast.IntExpr{Sp: sp(), Value: 1}},
		}},
	}
	err := checkErr(t, body)
	if err == nil || err.Kind != diagnostics.FieldMismatch {
		t.Fatalf("expected FieldMismatch, got %v", err)
	}
}

func TestCheckRejectsAssignToForInductionVariable(t *testing.T) {
	body := &ast.ForExpr{
		Sp:   sp(),
		Name: "i",
		Lo:   &ast.IntExpr{Sp: sp(), Value: 0},
		Hi:   &ast.IntExpr{Sp: sp(), Value: 10},
		Body: &ast.AssExpr{Sp: sp(), LV: &ast.SimpleVar{Sp: sp(), Name: "i"}, RHS: &ast.IntExpr{Sp: sp(), Value: 0}},
	}
	err := checkErr(t, body)
	if err == nil || err.Kind != diagnostics.AssignImmutable {
		t.Fatalf("expected AssignImmutable for writing to a for-loop induction variable, got %v", err)
	}
}

func TestCheckRejectsBreakOutsideLoop(t *testing.T) {
	err := checkErr(t, &ast.BreakExpr{Sp: sp()})
	if err == nil || err.Kind != diagnostics.Break {
		t.Fatalf("expected Break, got %v", err)
	}
}

func TestCheckAcceptsBreakInsideWhile(t *testing.T) {
	body := &ast.WhileExpr{
		Sp:    sp(),
		Guard: &ast.IntExpr{Sp: sp(), Value: 1},
		Body:  &ast.BreakExpr{Sp: sp()},
	}
	if err := checkErr(t, body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCheckRejectsCallArityMismatch(t *testing.T) {
	body := &ast.CallExpr{Sp: sp(), Name: "print", Args: nil}
	err := checkErr(t, body)
	if err == nil || err.Kind != diagnostics.CallMismatch {
		t.Fatalf("expected CallMismatch for print() with no arguments, got %v", err)
	}
}

func TestCheckRejectsMutuallyExclusiveGroupNameConflict(t *testing.T) {
	body := &ast.LetExpr{
		Sp: sp(),
		Decs: []ast.Decl{
			&ast.TypeDecGroup{Sp: sp(), Types: []*ast.TypeDec{
				{Sp: sp(), Name: "a", Body: &ast.NameType{Sp: sp(), Name: "int"}},
				{Sp: sp(), Name: "a", Body: &ast.NameType{Sp: sp(), Name: "int"}},
			}},
		},
		Body: &ast.IntExpr{Sp: sp(), Value: 0},
	}
	err := checkErr(t, body)
	if err == nil || err.Kind != diagnostics.TypeConflict {
		t.Fatalf("expected TypeConflict for a type declared twice in one group, got %v", err)
	}
}

func TestCheckAcceptsRecursiveRecordType(t *testing.T) {
	// type list = {head: int, tail: list}; a list literal with a nil tail,
	// then a read of l.tail.head through the recursive field.
	body := &ast.LetExpr{
		Sp: sp(),
		Decs: []ast.Decl{
			&ast.TypeDecGroup{Sp: sp(), Types: []*ast.TypeDec{
				{Sp: sp(), Name: "list", Body: &ast.RecordType{Sp: sp(), Fields: []*ast.Field{
					{Sp: sp(), Name: "head", Type: "int"},
					{Sp: sp(), Name: "tail", Type: "list"},
				}}},
			}},
			&ast.VarDec{Sp: sp(), Name: "l", Type: "list", HasType: true, Init: &ast.RecExpr{Sp: sp(), Name: "list", Fields: []*ast.FieldInit{
				{Sp: sp(), Name: "head", Value: &ast.IntExpr{Sp: sp(), Value: 1}},
				{Sp: sp(), Name: "tail", Value: &ast.NilExpr{Sp: sp()}},
			}}},
		},
		Body: &ast.VarExpr{Sp: sp(), LV: &ast.FieldVar{
			Sp:    sp(),
			Field: "head",
			Rec:   &ast.FieldVar{Sp: sp(), Field: "tail", Rec: &ast.SimpleVar{Sp: sp(), Name: "l"}},
		}},
	}
	if err := checkErr(t, body); err != nil {
		t.Fatalf("unexpected error on a recursive record type: %v", err)
	}
}

func TestCheckAcceptsForwardAliasWithinGroup(t *testing.T) {
	// type a = b; type b = int: a forward name-to-name reference that does
	// resolve once the whole group is processed.
	body := &ast.LetExpr{
		Sp: sp(),
		Decs: []ast.Decl{
			&ast.TypeDecGroup{Sp: sp(), Types: []*ast.TypeDec{
				{Sp: sp(), Name: "a", Body: &ast.NameType{Sp: sp(), Name: "b"}},
				{Sp: sp(), Name: "b", Body: &ast.NameType{Sp: sp(), Name: "int"}},
			}},
			&ast.VarDec{Sp: sp(), Name: "x", Type: "a", HasType: true, Init: &ast.IntExpr{Sp: sp(), Value: 1}},
		},
		Body: &ast.BinExpr{
			Sp:  sp(),
			LHS: &ast.VarExpr{Sp: sp(), LV: &ast.SimpleVar{Sp: sp(), Name: "x"}},
			Op:  ast.Add,
			RHS: &ast.IntExpr{Sp: sp(), Value: 1},
		},
	}
	if err := checkErr(t, body); err != nil {
		t.Fatalf("unexpected error on a resolvable forward alias: %v", err)
	}
}

func TestCheckRejectsAliasOnlyTypeCycle(t *testing.T) {
	// type a = b; type b = a never crosses a record or array constructor.
	body := &ast.LetExpr{
		Sp: sp(),
		Decs: []ast.Decl{
			&ast.TypeDecGroup{Sp: sp(), Types: []*ast.TypeDec{
				{Sp: sp(), Name: "a", Body: &ast.NameType{Sp: sp(), Name: "b"}},
				{Sp: sp(), Name: "b", Body: &ast.NameType{Sp: sp(), Name: "a"}},
			}},
		},
		Body: &ast.IntExpr{Sp: sp(), Value: 0},
	}
	err := checkErr(t, body)
	if err == nil || err.Kind != diagnostics.UnboundType {
		t.Fatalf("expected an alias-only cycle to be rejected, got %v", err)
	}
}

func TestCheckNilEqualities(t *testing.T) {
	recDecs := []ast.Decl{
		&ast.TypeDecGroup{Sp: sp(), Types: []*ast.TypeDec{
			{Sp: sp(), Name: "rec", Body: &ast.RecordType{Sp: sp(), Fields: nil}},
		}},
		&ast.VarDec{Sp: sp(), Name: "r", Type: "rec", HasType: true, Init: &ast.NilExpr{Sp: sp()}},
	}

	nilEqNil := &ast.BinExpr{Sp: sp(), LHS: &ast.NilExpr{Sp: sp()}, Op: ast.Eq, RHS: &ast.NilExpr{Sp: sp()}}
	err := checkErr(t, nilEqNil)
	if err == nil || err.Kind != diagnostics.BinaryMismatch {
		t.Fatalf("nil = nil should fail with BinaryMismatch, got %v", err)
	}

	nilEqRec := &ast.LetExpr{Sp: sp(), Decs: recDecs, Body: &ast.BinExpr{
		Sp:  sp(),
		LHS: &ast.NilExpr{Sp: sp()},
		Op:  ast.Eq,
		RHS: &ast.VarExpr{Sp: sp(), LV: &ast.SimpleVar{Sp: sp(), Name: "r"}},
	}}
	if err := checkErr(t, nilEqRec); err != nil {
		t.Fatalf("nil = someRec should type-check, got %v", err)
	}
}

func TestCheckOrderedComparisonOperandKinds(t *testing.T) {
	strs := &ast.BinExpr{
		Sp:  sp(),
		LHS: &ast.StrExpr{Sp: sp(), Value: "a"},
		Op:  ast.Lt,
		RHS: &ast.StrExpr{Sp: sp(), Value: "b"},
	}
	if err := checkErr(t, strs); err != nil {
		t.Fatalf("string/string ordered comparison should type-check, got %v", err)
	}

	mixed := &ast.BinExpr{
		Sp:  sp(),
		LHS: &ast.IntExpr{Sp: sp(), Value: 1},
		Op:  ast.Lt,
		RHS: &ast.StrExpr{Sp: sp(), Value: "b"},
	}
	err := checkErr(t, mixed)
	if err == nil || err.Kind != diagnostics.BinaryMismatch {
		t.Fatalf("int/string ordered comparison should fail with BinaryMismatch, got %v", err)
	}
}

func TestCheckRecordEqualityNeedsSharedIdentity(t *testing.T) {
	// Two structurally identical record declarations are distinct types.
	body := &ast.LetExpr{
		Sp: sp(),
		Decs: []ast.Decl{
			&ast.TypeDecGroup{Sp: sp(), Types: []*ast.TypeDec{
				{Sp: sp(), Name: "p", Body: &ast.RecordType{Sp: sp(), Fields: []*ast.Field{{Sp: sp(), Name: "x", Type: "int"}}}},
				{Sp: sp(), Name: "q", Body: &ast.RecordType{Sp: sp(), Fields: []*ast.Field{{Sp: sp(), Name: "x", Type: "int"}}}},
			}},
			&ast.VarDec{Sp: sp(), Name: "a", Type: "p", HasType: true, Init: &ast.NilExpr{Sp: sp()}},
			&ast.VarDec{Sp: sp(), Name: "b", Type: "q", HasType: true, Init: &ast.NilExpr{Sp: sp()}},
		},
		Body: &ast.BinExpr{
			Sp:  sp(),
			LHS: &ast.VarExpr{Sp: sp(), LV: &ast.SimpleVar{Sp: sp(), Name: "a"}},
			Op:  ast.Eq,
			RHS: &ast.VarExpr{Sp: sp(), LV: &ast.SimpleVar{Sp: sp(), Name: "b"}},
		},
	}
	err := checkErr(t, body)
	if err == nil || err.Kind != diagnostics.BinaryMismatch {
		t.Fatalf("equality across distinct record identities should fail, got %v", err)
	}
}

func TestCheckIfBranchesMustAgreeInType(t *testing.T) {
	body := &ast.IfExpr{
		Sp:    sp(),
		Guard: &ast.IntExpr{Sp: sp(), Value: 1},
		Then:  &ast.IntExpr{Sp: sp(), Value: 1},
		Or:    &ast.StrExpr{Sp: sp(), Value: "x"},
	}
	err := checkErr(t, body)
	if err == nil || err.Kind != diagnostics.BranchMismatch {
		t.Fatalf("expected BranchMismatch, got %v", err)
	}
}
