// Package canon turns the tree IR translate produces into the flat,
// side-effect-ordered statement list the tiler expects: no ESeq survives,
// no Seq nests, and every CJump's true branch is immediately followed by
// its target block (see ir.CJump's doc comment) once trace scheduling has
// run. This is the standard Appel "Modern Compiler Implementation"
// linearize/basicBlocks/traceSchedule pipeline.
package canon

import "github.com/tigerlang/tigerc/internal/ir"

// Canonicalize is the package entry point: lower one function's tree-form
// body to its final flat statement list.
func Canonicalize(body ir.Stm) []ir.Stm {
	flat := linearizeTop(doStm(body))
	blocks, doneLabel := basicBlocks(flat)
	return traceSchedule(blocks, doneLabel)
}

func empty() ir.Stm { return ir.Seq{} }

func isEmpty(s ir.Stm) bool {
	seq, ok := s.(ir.Seq)
	return ok && len(seq.Stmts) == 0
}

// commute reports whether statement s can be safely reordered to execute
// after expression e without changing observable behavior: true when s has
// no effect, or when e can't observe any effect (a bare constant or label
// reference, never a Temp read or Mem load).
func commute(s ir.Stm, e ir.Exp) bool {
	if isEmpty(s) {
		return true
	}
	switch e.(type) {
	case ir.Const, ir.Name:
		return true
	}
	return false
}

// doStm rewrites s so every Move/ExpStm/Jump/CJump's subexpressions are
// ESeq-free, hoisting any embedded statements into an explicit Seq ahead of
// the rewritten statement.
func doStm(s ir.Stm) ir.Stm {
	switch n := s.(type) {
	case ir.Seq:
		parts := make([]ir.Stm, len(n.Stmts))
		for i, sub := range n.Stmts {
			parts[i] = doStm(sub)
		}
		return ir.SeqStmts(parts...)

	case ir.Move:
		switch dst := n.Dst.(type) {
		case ir.Mem:
			stm, list := reorder([]ir.Exp{dst.Addr, n.Src})
			return ir.SeqStmts(stm, ir.Move{Dst: ir.Mem{Addr: list[0]}, Src: list[1]})
		default: // ir.TempExp
			stm, e := doExp(n.Src)
			return ir.SeqStmts(stm, ir.Move{Dst: n.Dst, Src: e})
		}

	case ir.ExpStm:
		stm, e := doExp(n.Exp)
		return ir.SeqStmts(stm, ir.ExpStm{Exp: e})

	case ir.Jump:
		stm, list := reorder([]ir.Exp{n.Target})
		return ir.SeqStmts(stm, ir.Jump{Target: list[0], Candidates: n.Candidates})

	case ir.CJump:
		stm, list := reorder([]ir.Exp{n.Left, n.Right})
		return ir.SeqStmts(stm, ir.CJump{Left: list[0], Op: n.Op, Right: list[1], True: n.True, False: n.False})

	case ir.LabelStm, ir.Comment:
		return n
	}
	panic("internal error: unreachable stm kind")
}

// doExp rewrites e so it contains no ESeq, returning the statement that
// must run first alongside the now-pure expression.
func doExp(e ir.Exp) (ir.Stm, ir.Exp) {
	switch n := e.(type) {
	case ir.Binop:
		stm, list := reorder([]ir.Exp{n.Left, n.Right})
		return stm, ir.Binop{Left: list[0], Op: n.Op, Right: list[1]}

	case ir.Mem:
		stm, list := reorder([]ir.Exp{n.Addr})
		return stm, ir.Mem{Addr: list[0]}

	case ir.ESeq:
		s1 := doStm(n.Stm)
		s2, e2 := doExp(n.Exp)
		return ir.SeqStmts(s1, s2), e2

	case ir.Call:
		all := append([]ir.Exp{n.Fn}, n.Args...)
		stm, list := reorder(all)
		return stm, ir.Call{Fn: list[0], Args: list[1:]}

	default: // Const, Name, TempExp
		return empty(), e
	}
}

// reorder evaluates exps left to right, hoisting every side effect into one
// leading statement so the returned expression list is guaranteed
// side-effect-free and safe to reassemble in any order the caller likes.
// A Call anywhere in the list is bound to a fresh temp immediately: a bare
// call is never safe to leave floating past the reordering that follows.
func reorder(exps []ir.Exp) (ir.Stm, []ir.Exp) {
	if len(exps) == 0 {
		return empty(), nil
	}
	if call, ok := exps[0].(ir.Call); ok {
		t := ir.NewTemp()
		bound := ir.ESeq{Stm: ir.Move{Dst: ir.TempExp{Temp: t}, Src: call}, Exp: ir.TempExp{Temp: t}}
		rest := append([]ir.Exp{bound}, exps[1:]...)
		return reorder(rest)
	}

	headStm, headExp := doExp(exps[0])
	restStm, restList := reorder(exps[1:])

	if commute(restStm, headExp) {
		return ir.SeqStmts(headStm, restStm), append([]ir.Exp{headExp}, restList...)
	}

	t := ir.NewTemp()
	combined := ir.SeqStmts(headStm, ir.Move{Dst: ir.TempExp{Temp: t}, Src: headExp}, restStm)
	return combined, append([]ir.Exp{ir.TempExp{Temp: t}}, restList...)
}

// linearizeTop flattens a (possibly Seq-nested) canonical statement into a
// plain list with no Seq anywhere in it.
func linearizeTop(s ir.Stm) []ir.Stm {
	if seq, ok := s.(ir.Seq); ok {
		var out []ir.Stm
		for _, sub := range seq.Stmts {
			out = append(out, linearizeTop(sub)...)
		}
		return out
	}
	return []ir.Stm{s}
}
