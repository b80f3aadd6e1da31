package analyzer

import (
	"github.com/tigerlang/tigerc/internal/ast"
	"github.com/tigerlang/tigerc/internal/diagnostics"
	"github.com/tigerlang/tigerc/internal/types"
)

// typeExpr types a single expression.
func (a *Analyzer) typeExpr(expr ast.Expr) (types.Ty, *diagnostics.Error) {
	switch e := expr.(type) {
	case *ast.NilExpr:
		return types.TNil{}, nil
	case *ast.IntExpr:
		return types.TInt{}, nil
	case *ast.StrExpr:
		return types.TStr{}, nil
	case *ast.BreakExpr:
		if !a.inLoop() {
			return nil, diagnostics.New(diagnostics.Break, e.Sp, "break outside of a loop")
		}
		return types.TUnit{}, nil

	case *ast.VarExpr:
		ty, _, err := a.typeLValue(e.LV)
		return ty, err

	case *ast.CallExpr:
		return a.typeCall(e)

	case *ast.NegExpr:
		ty, err := a.typeExpr(e.E)
		if err != nil {
			return nil, err
		}
		if _, ok := ty.(types.TInt); !ok {
			return nil, diagnostics.New(diagnostics.Neg, e.Sp, "- requires int, got %s", ty)
		}
		return types.TInt{}, nil

	case *ast.BinExpr:
		return a.typeBin(e)

	case *ast.RecExpr:
		return a.typeRec(e)

	case *ast.SeqExpr:
		if len(e.Exprs) == 0 {
			return types.TUnit{}, nil
		}
		var last types.Ty
		for _, sub := range e.Exprs {
			ty, err := a.typeExpr(sub)
			if err != nil {
				return nil, err
			}
			last = ty
		}
		return last, nil

	case *ast.AssExpr:
		lvTy, mutable, err := a.typeLValue(e.LV)
		if err != nil {
			return nil, err
		}
		if !mutable {
			return nil, diagnostics.New(diagnostics.AssignImmutable, e.Sp, "cannot assign to an immutable binding")
		}
		rhsTy, err := a.typeExpr(e.RHS)
		if err != nil {
			return nil, err
		}
		if !types.Subtypes(rhsTy, lvTy) {
			return nil, diagnostics.New(diagnostics.VarMismatch, e.Sp, "cannot assign %s to %s", rhsTy, lvTy)
		}
		return types.TUnit{}, nil

	case *ast.IfExpr:
		return a.typeIf(e)

	case *ast.WhileExpr:
		return a.typeWhile(e)

	case *ast.ForExpr:
		return a.typeFor(e)

	case *ast.LetExpr:
		return a.typeLet(e)

	case *ast.ArrExpr:
		return a.typeArr(e)
	}
	panic("internal error: unreachable expr kind")
}

func (a *Analyzer) typeCall(e *ast.CallExpr) (types.Ty, *diagnostics.Error) {
	b, ok := a.vc.Lookup(e.Name)
	if !ok {
		return nil, diagnostics.New(diagnostics.UnboundFunction, e.Sp, "unbound function %q", e.Name)
	}
	fb, ok := b.(types.FunBinding)
	if !ok {
		return nil, diagnostics.New(diagnostics.NotFunction, e.Sp, "%q is not a function", e.Name)
	}
	if len(e.Args) != len(fb.Args) {
		return nil, diagnostics.New(diagnostics.CallMismatch, e.Sp, "%q expects %d arguments, got %d", e.Name, len(fb.Args), len(e.Args))
	}
	for i, argExpr := range e.Args {
		argTy, err := a.typeExpr(argExpr)
		if err != nil {
			return nil, err
		}
		if !types.Subtypes(argTy, fb.Args[i]) {
			return nil, diagnostics.New(diagnostics.CallMismatch, e.Sp, "argument %d to %q: cannot use %s as %s", i+1, e.Name, argTy, fb.Args[i])
		}
	}
	return fb.Ret, nil
}

func (a *Analyzer) typeBin(e *ast.BinExpr) (types.Ty, *diagnostics.Error) {
	lhsTy, err := a.typeExpr(e.LHS)
	if err != nil {
		return nil, err
	}
	rhsTy, err := a.typeExpr(e.RHS)
	if err != nil {
		return nil, err
	}

	_, lhsUnit := lhsTy.(types.TUnit)
	_, rhsUnit := rhsTy.(types.TUnit)
	_, lhsNil := lhsTy.(types.TNil)
	_, rhsNil := rhsTy.(types.TNil)
	if (lhsUnit && rhsUnit) || (lhsNil && rhsNil) {
		return nil, diagnostics.New(diagnostics.BinaryMismatch, e.Sp, "operands of %v cannot both be %s", e.Op, lhsTy)
	}

	switch {
	case e.Op.IsEquality():
		if types.EitherSubtypes(lhsTy, rhsTy) {
			return types.TInt{}, nil
		}
		return nil, diagnostics.New(diagnostics.BinaryMismatch, e.Sp, "cannot compare %s and %s for equality", lhsTy, rhsTy)

	case e.Op.IsOrder():
		_, lInt := lhsTy.(types.TInt)
		_, rInt := rhsTy.(types.TInt)
		_, lStr := lhsTy.(types.TStr)
		_, rStr := rhsTy.(types.TStr)
		if (lInt && rInt) || (lStr && rStr) {
			return types.TInt{}, nil
		}
		return nil, diagnostics.New(diagnostics.BinaryMismatch, e.Sp, "ordered comparison requires int/int or string/string, got %s and %s", lhsTy, rhsTy)

	default: // arithmetic or logical
		_, lInt := lhsTy.(types.TInt)
		_, rInt := rhsTy.(types.TInt)
		if lInt && rInt {
			return types.TInt{}, nil
		}
		return nil, diagnostics.New(diagnostics.BinaryMismatch, e.Sp, "arithmetic/logical operator requires int/int, got %s and %s", lhsTy, rhsTy)
	}
}

func (a *Analyzer) typeRec(e *ast.RecExpr) (types.Ty, *diagnostics.Error) {
	ty, lookupErr := a.tc.LookupFull(e.Name)
	if lookupErr != nil {
		return nil, diagnostics.New(diagnostics.UnboundRecord, e.Sp, "%s", lookupErr)
	}
	rec, ok := ty.(types.TRec)
	if !ok {
		return nil, diagnostics.New(diagnostics.NotRecord, e.Sp, "%q is not a record type", e.Name)
	}
	if len(e.Fields) != len(rec.Fields) {
		return nil, diagnostics.New(diagnostics.FieldMismatch, e.Sp, "record %q expects %d fields, got %d", e.Name, len(rec.Fields), len(e.Fields))
	}
	for i, fieldInit := range e.Fields {
		declared := rec.Fields[i]
		if fieldInit.Name != declared.Name {
			return nil, diagnostics.New(diagnostics.FieldMismatch, e.Sp, "field %d: expected %q, got %q", i+1, declared.Name, fieldInit.Name)
		}
		valTy, err := a.typeExpr(fieldInit.Value)
		if err != nil {
			return nil, err
		}
		if !types.Subtypes(valTy, declared.Type) {
			return nil, diagnostics.New(diagnostics.FieldMismatch, e.Sp, "field %q: cannot use %s as %s", declared.Name, valTy, declared.Type)
		}
	}
	return rec, nil
}

func (a *Analyzer) typeIf(e *ast.IfExpr) (types.Ty, *diagnostics.Error) {
	guardTy, err := a.typeExpr(e.Guard)
	if err != nil {
		return nil, err
	}
	if _, ok := guardTy.(types.TInt); !ok {
		return nil, diagnostics.New(diagnostics.GuardMismatch, e.Sp, "if guard must be int, got %s", guardTy)
	}
	thenTy, err := a.typeExpr(e.Then)
	if err != nil {
		return nil, err
	}
	if e.Or == nil {
		if _, ok := thenTy.(types.TUnit); !ok {
			return nil, diagnostics.New(diagnostics.UnusedBranch, e.Sp, "if without else must produce unit, got %s", thenTy)
		}
		return types.TUnit{}, nil
	}
	orTy, err := a.typeExpr(e.Or)
	if err != nil {
		return nil, err
	}
	if !types.EitherSubtypes(thenTy, orTy) {
		return nil, diagnostics.New(diagnostics.BranchMismatch, e.Sp, "if branches disagree: %s vs %s", thenTy, orTy)
	}
	return thenTy, nil
}

func (a *Analyzer) typeWhile(e *ast.WhileExpr) (types.Ty, *diagnostics.Error) {
	guardTy, err := a.typeExpr(e.Guard)
	if err != nil {
		return nil, err
	}
	if _, ok := guardTy.(types.TInt); !ok {
		return nil, diagnostics.New(diagnostics.GuardMismatch, e.Sp, "while guard must be int, got %s", guardTy)
	}
	a.loopEntered()
	bodyTy, err := a.typeExpr(e.Body)
	a.loopExited()
	if err != nil {
		return nil, err
	}
	if _, ok := bodyTy.(types.TUnit); !ok {
		return nil, diagnostics.New(diagnostics.UnusedWhileBody, e.Sp, "while body must produce unit, got %s", bodyTy)
	}
	return types.TUnit{}, nil
}

func (a *Analyzer) typeFor(e *ast.ForExpr) (types.Ty, *diagnostics.Error) {
	loTy, err := a.typeExpr(e.Lo)
	if err != nil {
		return nil, err
	}
	if _, ok := loTy.(types.TInt); !ok {
		return nil, diagnostics.New(diagnostics.ForBound, e.Sp, "for lower bound must be int, got %s", loTy)
	}
	hiTy, err := a.typeExpr(e.Hi)
	if err != nil {
		return nil, err
	}
	if _, ok := hiTy.(types.TInt); !ok {
		return nil, diagnostics.New(diagnostics.ForBound, e.Sp, "for upper bound must be int, got %s", hiTy)
	}

	a.vc = a.vc.Push()
	a.vc.Define(e.Name, types.VarBinding{Type: types.TInt{}, Mutable: false})
	a.loopEntered()
	bodyTy, err := a.typeExpr(e.Body)
	a.loopExited()
	a.vc = a.vc.Pop()
	if err != nil {
		return nil, err
	}
	if _, ok := bodyTy.(types.TUnit); !ok {
		return nil, diagnostics.New(diagnostics.UnusedForBody, e.Sp, "for body must produce unit, got %s", bodyTy)
	}
	return types.TUnit{}, nil
}

func (a *Analyzer) typeArr(e *ast.ArrExpr) (types.Ty, *diagnostics.Error) {
	ty, lookupErr := a.tc.LookupFull(e.Name)
	if lookupErr != nil {
		return nil, diagnostics.New(diagnostics.UnboundArr, e.Sp, "%s", lookupErr)
	}
	arr, ok := ty.(types.TArr)
	if !ok {
		return nil, diagnostics.New(diagnostics.NotArr, e.Sp, "%q is not an array type", e.Name)
	}
	sizeTy, err := a.typeExpr(e.Size)
	if err != nil {
		return nil, err
	}
	if _, ok := sizeTy.(types.TInt); !ok {
		return nil, diagnostics.New(diagnostics.ArrMismatch, e.Sp, "array size must be int, got %s", sizeTy)
	}
	initTy, err := a.typeExpr(e.Init)
	if err != nil {
		return nil, err
	}
	if !types.Subtypes(initTy, arr.Elem) {
		return nil, diagnostics.New(diagnostics.ArrMismatch, e.Sp, "cannot initialize array of %s with %s", arr.Elem, initTy)
	}
	return arr, nil
}
