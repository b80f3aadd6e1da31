package translate

import (
	"github.com/tigerlang/tigerc/internal/ast"
	"github.com/tigerlang/tigerc/internal/ir"
	"github.com/tigerlang/tigerc/internal/types"
)

// translateExpr lowers expr to its tri-modal IR tree, alongside the type it
// evaluates to — mirroring analyzer.typeExpr's dispatch, but over already
// type-checked input: nothing here returns an error, and a case that can't
// actually happen on an accepted AST panics instead.
func (t *Translator) translateExpr(expr ast.Expr) (ir.Tree, types.Ty) {
	switch e := expr.(type) {
	case *ast.NilExpr:
		return ir.Ex(ir.Const{Value: 0}), types.TNil{}

	case *ast.IntExpr:
		return ir.Ex(ir.Const{Value: e.Value}), types.TInt{}

	case *ast.StrExpr:
		return ir.Ex(t.newString(e.Value)), types.TStr{}

	case *ast.BreakExpr:
		exit := t.currentLoopExit()
		return ir.Nx(ir.Jump{Target: ir.Name{Label: exit}, Candidates: []ir.Label{exit}}), types.TUnit{}

	case *ast.VarExpr:
		exp, ty := t.translateLValue(e.LV)
		return ir.Ex(exp), ty

	case *ast.CallExpr:
		return t.translateCall(e)

	case *ast.NegExpr:
		inner, _ := t.translateExpr(e.E)
		return ir.Ex(ir.Binop{Left: ir.Const{Value: 0}, Op: ir.Minus, Right: inner.ToExp()}), types.TInt{}

	case *ast.BinExpr:
		return t.translateBin(e)

	case *ast.RecExpr:
		return t.translateRec(e)

	case *ast.SeqExpr:
		return t.translateSeq(e)

	case *ast.AssExpr:
		dst, _ := t.translateLValue(e.LV)
		rhs, _ := t.translateExpr(e.RHS)
		return ir.Nx(ir.Move{Dst: dst, Src: rhs.ToExp()}), types.TUnit{}

	case *ast.IfExpr:
		return t.translateIf(e)

	case *ast.WhileExpr:
		return t.translateWhile(e)

	case *ast.ForExpr:
		return t.translateFor(e)

	case *ast.LetExpr:
		return t.translateLet(e)

	case *ast.ArrExpr:
		return t.translateArr(e)
	}
	panic("internal error: unreachable expr kind")
}

func binOpOf(op ast.BinOp) ir.BinOp {
	switch op {
	case ast.Add:
		return ir.Plus
	case ast.Sub:
		return ir.Minus
	case ast.Mul:
		return ir.Mul
	case ast.Div:
		return ir.Div
	case ast.And:
		return ir.And
	case ast.Or:
		return ir.Or
	}
	panic("internal error: unreachable arithmetic/logical op")
}

func relOpOf(op ast.BinOp) ir.RelOp {
	switch op {
	case ast.Eq:
		return ir.Eq
	case ast.Ne:
		return ir.Ne
	case ast.Lt:
		return ir.Lt
	case ast.Le:
		return ir.Le
	case ast.Gt:
		return ir.Gt
	case ast.Ge:
		return ir.Ge
	}
	panic("internal error: unreachable relational op")
}

func (t *Translator) translateBin(e *ast.BinExpr) (ir.Tree, types.Ty) {
	lhsTree, _ := t.translateExpr(e.LHS)
	rhsTree, _ := t.translateExpr(e.RHS)
	lhs, rhs := lhsTree.ToExp(), rhsTree.ToExp()

	if e.Op.IsArith() || e.Op.IsLogic() {
		return ir.Ex(ir.Binop{Left: lhs, Op: binOpOf(e.Op), Right: rhs}), types.TInt{}
	}

	// Equality and ordered comparison both lower to a CJump thunk. Strings
	// compare by pointer identity: the runtime has no byte-wise
	// string-compare helper to call into.
	rel := relOpOf(e.Op)
	return ir.Cx(func(trueL, falseL ir.Label) ir.Stm {
		return ir.CJump{Left: lhs, Op: rel, Right: rhs, True: trueL, False: falseL}
	}), types.TInt{}
}

func (t *Translator) translateCall(e *ast.CallExpr) (ir.Tree, types.Ty) {
	call, ok := t.fc.lookup(e.Name)
	if !ok {
		panic("internal error: unbound function reached translator: " + e.Name)
	}
	args := make([]ir.Exp, 0, len(e.Args)+1)
	if call.Kind == CallFunction {
		args = append(args, t.staticLinkTo(call.Parent))
	}
	for _, a := range e.Args {
		tr, _ := t.translateExpr(a)
		args = append(args, tr.ToExp())
	}
	return ir.Ex(ir.Call{Fn: ir.Name{Label: call.Label}, Args: args}), call.Ret
}

// translateRec lowers a record literal to a malloc call followed by one
// Move per field, yielding the fresh pointer.
func (t *Translator) translateRec(e *ast.RecExpr) (ir.Tree, types.Ty) {
	ty, err := t.tc.LookupFull(e.Name)
	if err != nil {
		panic("internal error: " + err.Error())
	}
	rec := ty.(types.TRec)

	r := ir.NewTemp()
	stmts := []ir.Stm{
		ir.Move{
			Dst: ir.TempExp{Temp: r},
			Src: ir.Call{Fn: ir.Name{Label: mallocLabel}, Args: []ir.Exp{ir.Const{Value: int32(len(rec.Fields)) * ir.WordSize}}},
		},
	}
	for i, fi := range e.Fields {
		valTree, _ := t.translateExpr(fi.Value)
		stmts = append(stmts, ir.Move{
			Dst: ir.Mem{Addr: ir.Binop{Left: ir.TempExp{Temp: r}, Op: ir.Plus, Right: ir.Const{Value: int32(i) * ir.WordSize}}},
			Src: valTree.ToExp(),
		})
	}
	return ir.Ex(ir.ESeq{Stm: ir.SeqStmts(stmts...), Exp: ir.TempExp{Temp: r}}), rec
}

// translateArr lowers `name[size] of init` to a single init_array call.
func (t *Translator) translateArr(e *ast.ArrExpr) (ir.Tree, types.Ty) {
	ty, err := t.tc.LookupFull(e.Name)
	if err != nil {
		panic("internal error: " + err.Error())
	}
	arr := ty.(types.TArr)

	sizeTree, _ := t.translateExpr(e.Size)
	initTree, _ := t.translateExpr(e.Init)
	call := ir.Call{Fn: ir.Name{Label: initArrayLabel}, Args: []ir.Exp{sizeTree.ToExp(), initTree.ToExp()}}
	return ir.Ex(call), arr
}

// translateSeq lowers a `;`-separated expression sequence: every expression
// but the last is run purely for effect, the last one supplies both value
// and type (unit, for an empty sequence).
func (t *Translator) translateSeq(e *ast.SeqExpr) (ir.Tree, types.Ty) {
	if len(e.Exprs) == 0 {
		return ir.Ex(ir.Const{Value: 0}), types.TUnit{}
	}
	var effects []ir.Stm
	for _, sub := range e.Exprs[:len(e.Exprs)-1] {
		tr, _ := t.translateExpr(sub)
		effects = append(effects, tr.ToStm())
	}
	last, lastTy := t.translateExpr(e.Exprs[len(e.Exprs)-1])
	if len(effects) == 0 {
		return last, lastTy
	}
	return ir.Ex(ir.ESeq{Stm: ir.SeqStmts(effects...), Exp: last.ToExp()}), lastTy
}

func (t *Translator) translateIf(e *ast.IfExpr) (ir.Tree, types.Ty) {
	guardTree, _ := t.translateExpr(e.Guard)
	condThunk := guardTree.ToCond()

	if e.Or == nil {
		thenTree, _ := t.translateExpr(e.Then)
		trueL := ir.LabelFromStr("if.then")
		joinL := ir.LabelFromStr("if.join")
		stm := ir.SeqStmts(
			condThunk(trueL, joinL),
			ir.LabelStm{Label: trueL},
			thenTree.ToStm(),
			ir.LabelStm{Label: joinL},
		)
		return ir.Nx(stm), types.TUnit{}
	}

	thenTree, thenTy := t.translateExpr(e.Then)
	orTree, orTy := t.translateExpr(e.Or)
	trueL := ir.LabelFromStr("if.then")
	falseL := ir.LabelFromStr("if.else")
	joinL := ir.LabelFromStr("if.join")

	resultTy := thenTy
	if _, thenNil := thenTy.(types.TNil); thenNil {
		resultTy = orTy
	}
	if _, isUnit := resultTy.(types.TUnit); isUnit {
		stm := ir.SeqStmts(
			condThunk(trueL, falseL),
			ir.LabelStm{Label: trueL},
			thenTree.ToStm(),
			ir.Jump{Target: ir.Name{Label: joinL}, Candidates: []ir.Label{joinL}},
			ir.LabelStm{Label: falseL},
			orTree.ToStm(),
			ir.LabelStm{Label: joinL},
		)
		return ir.Nx(stm), types.TUnit{}
	}

	r := ir.NewTemp()
	stm := ir.SeqStmts(
		condThunk(trueL, falseL),
		ir.LabelStm{Label: trueL},
		ir.Move{Dst: ir.TempExp{Temp: r}, Src: thenTree.ToExp()},
		ir.Jump{Target: ir.Name{Label: joinL}, Candidates: []ir.Label{joinL}},
		ir.LabelStm{Label: falseL},
		ir.Move{Dst: ir.TempExp{Temp: r}, Src: orTree.ToExp()},
		ir.LabelStm{Label: joinL},
	)
	return ir.Ex(ir.ESeq{Stm: stm, Exp: ir.TempExp{Temp: r}}), resultTy
}

func (t *Translator) translateWhile(e *ast.WhileExpr) (ir.Tree, types.Ty) {
	guardL := ir.LabelFromStr("while.guard")
	bodyL := ir.LabelFromStr("while.body")
	doneL := ir.LabelFromStr("while.done")

	guardTree, _ := t.translateExpr(e.Guard)
	guardThunk := guardTree.ToCond()

	t.enterLoop(doneL)
	bodyTree, _ := t.translateExpr(e.Body)
	t.exitLoop()

	stm := ir.SeqStmts(
		ir.LabelStm{Label: guardL},
		guardThunk(bodyL, doneL),
		ir.LabelStm{Label: bodyL},
		bodyTree.ToStm(),
		ir.Jump{Target: ir.Name{Label: guardL}, Candidates: []ir.Label{guardL}},
		ir.LabelStm{Label: doneL},
	)
	return ir.Nx(stm), types.TUnit{}
}

// translateFor lowers `for i := lo to hi do body` into a check-before-loop,
// check-before-increment shape that never compares past hi — the standard
// trick for avoiding signed overflow when hi is math.MaxInt32.
func (t *Translator) translateFor(e *ast.ForExpr) (ir.Tree, types.Ty) {
	loTree, _ := t.translateExpr(e.Lo)
	hiTree, _ := t.translateExpr(e.Hi)

	access := t.current().AllocLocal(e.Name, e.Escape)
	iExp := access.ToExp(ir.TempExp{Temp: ir.RBP})

	t.vs = t.vs.push()
	t.vs.define(e.Name, varInfo{ty: types.TInt{}, access: access, owner: t.current()})

	limit := ir.NewTemp()
	bodyL := ir.LabelFromStr("for.body")
	incL := ir.LabelFromStr("for.inc")
	doneL := ir.LabelFromStr("for.done")

	t.enterLoop(doneL)
	bodyTree, _ := t.translateExpr(e.Body)
	t.exitLoop()
	t.vs = t.vs.pop()

	stm := ir.SeqStmts(
		ir.Move{Dst: iExp, Src: loTree.ToExp()},
		ir.Move{Dst: ir.TempExp{Temp: limit}, Src: hiTree.ToExp()},
		ir.CJump{Left: iExp, Op: ir.Gt, Right: ir.TempExp{Temp: limit}, True: doneL, False: bodyL},
		ir.LabelStm{Label: bodyL},
		bodyTree.ToStm(),
		ir.CJump{Left: iExp, Op: ir.Lt, Right: ir.TempExp{Temp: limit}, True: incL, False: doneL},
		ir.LabelStm{Label: incL},
		ir.Move{Dst: iExp, Src: ir.Binop{Left: iExp, Op: ir.Plus, Right: ir.Const{Value: 1}}},
		ir.Jump{Target: ir.Name{Label: bodyL}, Candidates: []ir.Label{bodyL}},
		ir.LabelStm{Label: doneL},
	)
	return ir.Nx(stm), types.TUnit{}
}

func (t *Translator) translateLet(e *ast.LetExpr) (ir.Tree, types.Ty) {
	t.tc = t.tc.Push()
	t.vs = t.vs.push()
	t.fc = t.fc.push()
	defer func() {
		t.tc = t.tc.Pop()
		t.vs = t.vs.pop()
		t.fc = t.fc.pop()
	}()

	var prelude []ir.Stm
	for _, dec := range e.Decs {
		prelude = append(prelude, t.translateDec(dec)...)
	}
	bodyTree, bodyTy := t.translateExpr(e.Body)
	if len(prelude) == 0 {
		return bodyTree, bodyTy
	}
	if _, isUnit := bodyTy.(types.TUnit); isUnit {
		return ir.Nx(ir.SeqStmts(append(prelude, bodyTree.ToStm())...)), types.TUnit{}
	}
	return ir.Ex(ir.ESeq{Stm: ir.SeqStmts(prelude...), Exp: bodyTree.ToExp()}), bodyTy
}
