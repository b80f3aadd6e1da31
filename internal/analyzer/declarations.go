package analyzer

import (
	"github.com/tigerlang/tigerc/internal/ast"
	"github.com/tigerlang/tigerc/internal/diagnostics"
	"github.com/tigerlang/tigerc/internal/types"
)

func (a *Analyzer) typeLet(e *ast.LetExpr) (types.Ty, *diagnostics.Error) {
	a.tc = a.tc.Push()
	a.vc = a.vc.Push()
	defer func() {
		a.tc = a.tc.Pop()
		a.vc = a.vc.Pop()
	}()

	for _, dec := range e.Decs {
		if err := a.checkDec(dec); err != nil {
			return nil, err
		}
	}
	return a.typeExpr(e.Body)
}

func (a *Analyzer) checkDec(dec ast.Decl) *diagnostics.Error {
	switch d := dec.(type) {
	case *ast.VarDec:
		return a.checkVarDec(d)
	case *ast.TypeDecGroup:
		return a.checkTypeDecGroup(d)
	case *ast.FunDecGroup:
		return a.checkFunDecGroup(d)
	}
	panic("internal error: unreachable decl kind")
}

func (a *Analyzer) checkVarDec(d *ast.VarDec) *diagnostics.Error {
	initTy, err := a.typeExpr(d.Init)
	if err != nil {
		return err
	}
	if !d.HasType {
		if _, ok := initTy.(types.TNil); ok {
			return diagnostics.New(diagnostics.UnknownNil, d.Sp, "cannot assign nil to a variable without a type annotation")
		}
		a.vc.Define(d.Name, types.VarBinding{Type: initTy, Mutable: true})
		return nil
	}
	annTy, lookupErr := a.tc.LookupFull(d.Type)
	if lookupErr != nil {
		return diagnostics.New(diagnostics.UnboundType, d.Sp, "%s", lookupErr)
	}
	if !types.Subtypes(initTy, annTy) {
		return diagnostics.New(diagnostics.VarMismatch, d.Sp, "cannot initialize %s variable with %s", annTy, initTy)
	}
	a.vc.Define(d.Name, types.VarBinding{Type: annTy, Mutable: true})
	return nil
}

// checkTypeDecGroup resolves a maximal run of mutually recursive `type`
// declarations in two passes: install sentinels, then fill bodies in place
// (every reference captured during the first pass shares the sentinel node,
// so it sees the body too), then verify every alias fully resolves and no
// illegal name-only cycle exists.
func (a *Analyzer) checkTypeDecGroup(d *ast.TypeDecGroup) *diagnostics.Error {
	sentinels := map[string]*types.TName{}
	for _, td := range d.Types {
		if _, dup := sentinels[td.Name]; dup {
			return diagnostics.New(diagnostics.TypeConflict, td.GetSpan(), "type %q declared twice in the same group", td.Name)
		}
		n := &types.TName{Sym: td.Name}
		sentinels[td.Name] = n
		a.tc.Define(td.Name, n)
	}

	for _, td := range d.Types {
		body, err := a.resolveTypeAST(td.Body)
		if err != nil {
			return err
		}
		sentinels[td.Name].Body = body
	}

	for _, td := range d.Types {
		if _, err := a.tc.LookupFull(td.Name); err != nil {
			return diagnostics.New(diagnostics.UnboundType, td.GetSpan(), "%s", err)
		}
	}
	return nil
}

// resolveTypeAST turns a type declaration's syntax into a Ty, using partial
// lookup so a forward reference to another member of the same group (still
// a sentinel TName) is legal.
func (a *Analyzer) resolveTypeAST(t ast.TypeAST) (types.Ty, *diagnostics.Error) {
	switch n := t.(type) {
	case *ast.NameType:
		ty, ok := a.tc.LookupPartial(n.Name)
		if !ok {
			return nil, diagnostics.New(diagnostics.UnboundType, n.Sp, "unbound type %q", n.Name)
		}
		return ty, nil
	case *ast.RecordType:
		fields := make([]types.RecField, len(n.Fields))
		for i, f := range n.Fields {
			ty, ok := a.tc.LookupPartial(f.Type)
			if !ok {
				return nil, diagnostics.New(diagnostics.UnboundType, f.Sp, "unbound field type %q", f.Type)
			}
			fields[i] = types.RecField{Name: f.Name, Type: ty}
		}
		return types.TRec{Fields: fields, ID: types.NewIdentity()}, nil
	case *ast.ArrayType:
		elem, ok := a.tc.LookupPartial(n.Elem)
		if !ok {
			return nil, diagnostics.New(diagnostics.UnboundType, n.Sp, "unbound element type %q", n.Elem)
		}
		return types.TArr{Elem: elem, ID: types.NewIdentity()}, nil
	}
	panic("internal error: unreachable type syntax kind")
}

// checkFunDecGroup resolves a maximal run of mutually recursive `function`
// declarations in two passes: install headers (allowing forward calls
// within the group), then type each body against its declared return type.
func (a *Analyzer) checkFunDecGroup(d *ast.FunDecGroup) *diagnostics.Error {
	seen := map[string]bool{}
	for _, fd := range d.Funs {
		if seen[fd.Name] {
			return diagnostics.New(diagnostics.FunConflict, fd.GetSpan(), "function %q declared twice in the same group", fd.Name)
		}
		seen[fd.Name] = true

		argTys := make([]types.Ty, len(fd.Params))
		for i, p := range fd.Params {
			ty, lookupErr := a.tc.LookupFull(p.Type)
			if lookupErr != nil {
				return diagnostics.New(diagnostics.UnboundType, p.Sp, "%s", lookupErr)
			}
			argTys[i] = ty
		}
		retTy := types.Ty(types.TUnit{})
		if fd.Result != "" {
			ty, lookupErr := a.tc.LookupFull(fd.Result)
			if lookupErr != nil {
				return diagnostics.New(diagnostics.UnboundType, fd.GetSpan(), "%s", lookupErr)
			}
			retTy = ty
		}
		a.vc.Define(fd.Name, types.FunBinding{Args: argTys, Ret: retTy})
	}

	for _, fd := range d.Funs {
		fb := mustFunBinding(a, fd.Name)
		a.vc = a.vc.Push()
		for i, p := range fd.Params {
			a.vc.Define(p.Name, types.VarBinding{Type: fb.Args[i], Mutable: true})
		}
		bodyTy, err := a.typeExpr(fd.Body)
		a.vc = a.vc.Pop()
		if err != nil {
			return err
		}
		if !types.Subtypes(bodyTy, fb.Ret) {
			return diagnostics.New(diagnostics.ReturnMismatch, fd.GetSpan(), "function %q: body produces %s, declared %s", fd.Name, bodyTy, fb.Ret)
		}
	}
	return nil
}

func mustFunBinding(a *Analyzer, name string) types.FunBinding {
	b, _ := a.vc.Lookup(name)
	return b.(types.FunBinding)
}
