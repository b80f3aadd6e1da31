package translate

import (
	"github.com/tigerlang/tigerc/internal/ast"
	"github.com/tigerlang/tigerc/internal/frame"
	"github.com/tigerlang/tigerc/internal/ir"
	"github.com/tigerlang/tigerc/internal/types"
)

// translateDec lowers one declaration within a Let, returning the
// statements (if any) that must run in sequence before the body. Type and
// function groups produce none: their effect is entirely on tc/fc (and, for
// function groups, a new Unit appended to t.done).
func (t *Translator) translateDec(dec ast.Decl) []ir.Stm {
	switch d := dec.(type) {
	case *ast.VarDec:
		return t.translateVarDec(d)
	case *ast.TypeDecGroup:
		t.translateTypeDecGroup(d)
		return nil
	case *ast.FunDecGroup:
		t.translateFunDecGroup(d)
		return nil
	}
	panic("internal error: unreachable decl kind")
}

func (t *Translator) translateVarDec(d *ast.VarDec) []ir.Stm {
	initTree, initTy := t.translateExpr(d.Init)
	ty := initTy
	if d.HasType {
		resolved, err := t.tc.LookupFull(d.Type)
		if err != nil {
			panic("internal error: " + err.Error())
		}
		ty = resolved
	}
	access := t.current().AllocLocal(d.Name, d.Escape)
	t.vs.define(d.Name, varInfo{ty: ty, access: access, owner: t.current()})
	dst := access.ToExp(ir.TempExp{Temp: ir.RBP})
	return []ir.Stm{ir.Move{Dst: dst, Src: initTree.ToExp()}}
}

// translateTypeDecGroup mirrors analyzer.checkTypeDecGroup's two-pass
// sentinel-then-fill resolution, but writes into t.tc without reporting
// diagnostics: the group has already been validated.
func (t *Translator) translateTypeDecGroup(d *ast.TypeDecGroup) {
	sentinels := map[string]*types.TName{}
	for _, td := range d.Types {
		n := &types.TName{Sym: td.Name}
		sentinels[td.Name] = n
		t.tc.Define(td.Name, n)
	}
	for _, td := range d.Types {
		sentinels[td.Name].Body = t.resolveTypeAST(td.Body)
	}
}

func (t *Translator) resolveTypeAST(ty ast.TypeAST) types.Ty {
	switch n := ty.(type) {
	case *ast.NameType:
		resolved, ok := t.tc.LookupPartial(n.Name)
		if !ok {
			panic("internal error: unbound type reached translator: " + n.Name)
		}
		return resolved
	case *ast.RecordType:
		fields := make([]types.RecField, len(n.Fields))
		for i, f := range n.Fields {
			fty, ok := t.tc.LookupPartial(f.Type)
			if !ok {
				panic("internal error: unbound field type reached translator: " + f.Type)
			}
			fields[i] = types.RecField{Name: f.Name, Type: fty}
		}
		return types.TRec{Fields: fields, ID: types.NewIdentity()}
	case *ast.ArrayType:
		elem, ok := t.tc.LookupPartial(n.Elem)
		if !ok {
			panic("internal error: unbound element type reached translator: " + n.Elem)
		}
		return types.TArr{Elem: elem, ID: types.NewIdentity()}
	}
	panic("internal error: unreachable type syntax kind")
}

// translateFunDecGroup registers every header in the group first (so
// mutually recursive calls within the group resolve), then translates each
// body in its own fresh frame, appending a Unit per function.
func (t *Translator) translateFunDecGroup(d *ast.FunDecGroup) {
	parent := t.current()
	argTys := make([][]types.Ty, len(d.Funs))

	for i, fd := range d.Funs {
		tys := make([]types.Ty, len(fd.Params))
		for j, p := range fd.Params {
			ty, err := t.tc.LookupFull(p.Type)
			if err != nil {
				panic("internal error: " + err.Error())
			}
			tys[j] = ty
		}
		argTys[i] = tys

		retTy := types.Ty(types.TUnit{})
		if fd.Result != "" {
			ty, err := t.tc.LookupFull(fd.Result)
			if err != nil {
				panic("internal error: " + err.Error())
			}
			retTy = ty
		}
		t.fc.define(fd.Name, Call{Kind: CallFunction, Label: ir.LabelFromStr(fd.Name), Ret: retTy, Parent: parent})
	}

	for i, fd := range d.Funs {
		call, _ := t.fc.lookup(fd.Name)

		formals := make([]frame.Formal, len(fd.Params))
		for j, p := range fd.Params {
			formals[j] = frame.Formal{Name: p.Name, Escape: p.Escape}
		}
		fr := frame.New(call.Label, formals)
		t.pushFrame(fr)
		t.tc = t.tc.Push()
		t.vs = t.vs.push()
		for j, p := range fd.Params {
			// Formals[0] is the static link; declared params follow it.
			t.vs.define(p.Name, varInfo{ty: argTys[i][j], access: fr.Formals[j+1], owner: fr})
		}

		bodyTree, _ := t.translateExpr(fd.Body)

		t.vs = t.vs.pop()
		t.tc = t.tc.Pop()
		t.popFrame()

		t.done = append(t.done, Unit{Frame: fr, Body: frame.Wrap(bodyTree.ToExp())})
	}
}
