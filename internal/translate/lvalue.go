package translate

import (
	"github.com/tigerlang/tigerc/internal/ast"
	"github.com/tigerlang/tigerc/internal/ir"
	"github.com/tigerlang/tigerc/internal/types"
)

// translateLValue lowers an l-value to the IR expression denoting its
// storage location, alongside its type (needed by callers that can't tell
// from context, e.g. an assignment's RHS check was already done by the
// analyzer, but Field/Index offsets still require it here).
func (t *Translator) translateLValue(lv ast.LValue) (ir.Exp, types.Ty) {
	switch v := lv.(type) {
	case *ast.SimpleVar:
		return t.resolveVar(v.Name)

	case *ast.FieldVar:
		recExp, recTy := t.translateLValue(v.Rec)
		rec := recTy.(types.TRec)
		idx := rec.FieldIndex(v.Field)
		if idx < 0 {
			panic("internal error: unbound field reached translator: " + v.Field)
		}
		field := rec.Fields[idx]
		return ir.Mem{Addr: ir.Binop{
			Left:  recExp,
			Op:    ir.Plus,
			Right: ir.Const{Value: int32(idx) * ir.WordSize},
		}}, types.Unwrap(field.Type)

	case *ast.IndexVar:
		arrExp, arrTy := t.translateLValue(v.Arr)
		arr := arrTy.(types.TArr)
		idxTree, _ := t.translateExpr(v.Index)
		addr := ir.Binop{
			Left: arrExp,
			Op:   ir.Plus,
			Right: ir.Binop{
				Left:  idxTree.ToExp(),
				Op:    ir.Mul,
				Right: ir.Const{Value: ir.WordSize},
			},
		}
		return ir.Mem{Addr: addr}, types.Unwrap(arr.Elem)
	}
	panic("internal error: unreachable lvalue kind")
}
