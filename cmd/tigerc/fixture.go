package main

import "github.com/tigerlang/tigerc/internal/ast"

// fixtureProgram builds, by hand, the AST for:
//
//	let
//	  var n := 10
//	in
//	  print(chr(n + ord("0")))
//	end
//
// a minimal program that still exercises variable binding, arithmetic, and
// a call into an extern — just enough to walk every pipeline stage.
func fixtureProgram() *ast.Program {
	sp := ast.Span{}
	varDec := &ast.VarDec{
		Sp:   sp,
		Name: "n",
		Init: &ast.IntExpr{Sp: sp, Value: 10},
	}
	call := &ast.CallExpr{
		Sp:   sp,
		Name: "print",
		Args: []ast.Expr{
			&ast.CallExpr{
				Sp:   sp,
				Name: "chr",
				Args: []ast.Expr{
					&ast.BinExpr{
						Sp:  sp,
						LHS: &ast.VarExpr{Sp: sp, LV: &ast.SimpleVar{Sp: sp, Name: "n"}},
						Op:  ast.Add,
						RHS: &ast.CallExpr{Sp: sp, Name: "ord", Args: []ast.Expr{&ast.StrExpr{Sp: sp, Value: "0"}}},
					},
				},
			},
		},
	}
	body := &ast.LetExpr{
		Sp:   sp,
		Decs: []ast.Decl{varDec},
		Body: call,
	}
	return &ast.Program{Body: body}
}
