package analyzer

import (
	"github.com/tigerlang/tigerc/internal/ast"
	"github.com/tigerlang/tigerc/internal/diagnostics"
	"github.com/tigerlang/tigerc/internal/types"
)

// typeLValue types an l-value, returning both its type and whether it's
// mutable. Field and Index projections always inherit mutable=true: record
// and array cells are always assignable once you've reached one at all.
func (a *Analyzer) typeLValue(lv ast.LValue) (types.Ty, bool, *diagnostics.Error) {
	switch v := lv.(type) {
	case *ast.SimpleVar:
		b, ok := a.vc.Lookup(v.Name)
		if !ok {
			return nil, false, diagnostics.New(diagnostics.VarMismatch, v.Sp, "unbound variable %q", v.Name)
		}
		vb, ok := b.(types.VarBinding)
		if !ok {
			return nil, false, diagnostics.New(diagnostics.VarMismatch, v.Sp, "%q is a function, not a variable", v.Name)
		}
		return vb.Type, vb.Mutable, nil

	case *ast.FieldVar:
		recTy, _, err := a.typeLValue(v.Rec)
		if err != nil {
			return nil, false, err
		}
		rec, ok := recTy.(types.TRec)
		if !ok {
			return nil, false, diagnostics.New(diagnostics.NotRecord, v.Sp, "%s is not a record type", recTy)
		}
		idx := rec.FieldIndex(v.Field)
		if idx < 0 {
			return nil, false, diagnostics.New(diagnostics.UnboundField, v.Sp, "no field %q on record", v.Field)
		}
		// Field types may still be aliases when the record is recursive
		// (e.g. a list's tail field names the list type itself).
		return types.Unwrap(rec.Fields[idx].Type), true, nil

	case *ast.IndexVar:
		arrTy, _, err := a.typeLValue(v.Arr)
		if err != nil {
			return nil, false, err
		}
		arr, ok := arrTy.(types.TArr)
		if !ok {
			return nil, false, diagnostics.New(diagnostics.NotArr, v.Sp, "%s is not an array type", arrTy)
		}
		idxTy, idxErr := a.typeExpr(v.Index)
		if idxErr != nil {
			return nil, false, idxErr
		}
		if _, ok := idxTy.(types.TInt); !ok {
			return nil, false, diagnostics.New(diagnostics.IndexMismatch, v.Sp, "array index must be int, got %s", idxTy)
		}
		return types.Unwrap(arr.Elem), true, nil
	}
	panic("internal error: unreachable lvalue kind")
}
