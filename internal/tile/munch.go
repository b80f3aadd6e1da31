package tile

import (
	"github.com/tigerlang/tigerc/internal/asm"
	"github.com/tigerlang/tigerc/internal/ir"
)

func (m *muncher) munchStm(s ir.Stm) {
	switch n := s.(type) {
	case ir.LabelStm:
		m.emit(asm.Instr{Op: asm.OpLabel, Label: n.Label})

	case ir.Comment:
		m.emit(asm.Instr{Op: asm.OpComment, Comment: n.Text})

	case ir.Move:
		m.munchMove(n)

	case ir.ExpStm:
		if call, ok := n.Exp.(ir.Call); ok {
			m.munchCall(call)
			return
		}
		m.munchValue(n.Exp)

	case ir.Jump:
		name, ok := n.Target.(ir.Name)
		if !ok {
			panic("internal error: jump target must be a label after canonicalization")
		}
		m.emit(asm.Instr{Op: asm.OpJmp, Jumps: []ir.Label{name.Label}})

	case ir.CJump:
		m.munchCJump(n)

	default:
		panic("internal error: unreachable stm kind reached tiler")
	}
}

func (m *muncher) munchMove(n ir.Move) {
	switch dst := n.Dst.(type) {
	case ir.Mem:
		dstOp, dstUses := m.munchMem(dst.Addr)
		src := m.munchValue(n.Src)
		// mov can't take memory on both sides, nor store a label address
		// directly; either goes through a register first.
		switch src.(type) {
		case asm.Mem, asm.LabelVal:
			src = asm.Reg{Temp: m.toReg(src)}
		}
		m.emit(asm.Instr{Op: asm.OpMov, Dst: dstOp, Src: src, Uses: append(dstUses, usesOf(src)...)})

	case ir.TempExp:
		if call, ok := n.Src.(ir.Call); ok {
			result := m.munchCall(call)
			if result != dst.Temp {
				m.emit(asm.Instr{Op: asm.OpMov, Dst: asm.Reg{Temp: dst.Temp}, Src: asm.Reg{Temp: result}, Uses: []ir.Temp{result}, Defs: []ir.Temp{dst.Temp}})
			}
			return
		}
		src := m.munchValue(n.Src)
		if r, ok := src.(asm.Reg); ok && r.Temp == dst.Temp {
			return
		}
		op := asm.OpMov
		if _, ok := src.(asm.LabelVal); ok {
			op = asm.OpLea
		}
		m.emit(asm.Instr{Op: op, Dst: asm.Reg{Temp: dst.Temp}, Src: src, Uses: usesOf(src), Defs: []ir.Temp{dst.Temp}})

	default:
		panic("internal error: move destination must be Temp or Mem after canonicalization")
	}
}

// munchCJump emits the comparison, a conditional jump to the true target,
// and an unconditional jump to the false one. Trace scheduling placed the
// true block next in the stream, so the jcc usually clears only the jmp,
// but emitting both keeps the lowering correct under any block layout.
func (m *muncher) munchCJump(n ir.CJump) {
	left := m.munchValue(n.Left)
	right := m.munchValue(n.Right)
	if _, ok := left.(asm.Imm); ok {
		left = asm.Reg{Temp: m.toReg(left)}
	}
	if _, ok := left.(asm.LabelVal); ok {
		left = asm.Reg{Temp: m.toReg(left)}
	}
	if _, ok := right.(asm.LabelVal); ok {
		right = asm.Reg{Temp: m.toReg(right)}
	}
	if _, lm := left.(asm.Mem); lm {
		if _, rm := right.(asm.Mem); rm {
			right = asm.Reg{Temp: m.toReg(right)}
		}
	}
	m.emit(asm.Instr{Op: asm.OpCmp, Dst: left, Src: right, Uses: append(usesOf(left), usesOf(right)...)})
	m.emit(asm.Instr{Op: jccOp(n.Op), Jumps: []ir.Label{n.True}})
	m.emit(asm.Instr{Op: asm.OpJmp, Jumps: []ir.Label{n.False}})
}

func jccOp(op ir.RelOp) asm.Op {
	switch op {
	case ir.Eq:
		return asm.OpJe
	case ir.Ne:
		return asm.OpJne
	case ir.Lt:
		return asm.OpJl
	case ir.Le:
		return asm.OpJle
	case ir.Gt:
		return asm.OpJg
	case ir.Ge:
		return asm.OpJge
	}
	panic("internal error: unreachable relop")
}

// munchValue is the maximal-munch entry point for expressions: it emits
// whatever instructions the subtree needs and returns the operand the
// surrounding instruction should use. An immediate stays an immediate and a
// Mem stays a memory operand until the consuming slot demands a register;
// toReg does the materialization at that point.
func (m *muncher) munchValue(e ir.Exp) asm.Value {
	switch n := e.(type) {
	case ir.Const:
		return asm.Imm{Value: n.Value}

	case ir.Name:
		return asm.LabelVal{Label: n.Label}

	case ir.TempExp:
		return asm.Reg{Temp: n.Temp}

	case ir.Mem:
		v, _ := m.munchMem(n.Addr)
		return v

	case ir.Binop:
		return asm.Reg{Temp: m.munchBinop(n)}

	case ir.Call:
		return asm.Reg{Temp: m.munchCall(n)}
	}
	panic("internal error: unreachable exp kind reached tiler (ESeq must be gone after canonicalization)")
}

// munchReg munches e and forces the result into a register.
func (m *muncher) munchReg(e ir.Exp) ir.Temp {
	return m.toReg(m.munchValue(e))
}

// toReg materializes v into a register: a no-op for operands already in
// one, a mov for immediates and memory operands, a lea for label addresses.
func (m *muncher) toReg(v asm.Value) ir.Temp {
	if r, ok := v.(asm.Reg); ok {
		return r.Temp
	}
	t := ir.NewTemp()
	op := asm.OpMov
	if _, ok := v.(asm.LabelVal); ok {
		op = asm.OpLea
	}
	m.emit(asm.Instr{Op: op, Dst: asm.Reg{Temp: t}, Src: v, Uses: usesOf(v), Defs: []ir.Temp{t}})
	return t
}

// usesOf lists the temps an operand reads.
func usesOf(v asm.Value) []ir.Temp {
	switch n := v.(type) {
	case asm.Reg:
		return []ir.Temp{n.Temp}
	case asm.Mem:
		var out []ir.Temp
		if n.HasBase {
			out = append(out, n.Base)
		}
		if n.HasIdx {
			out = append(out, n.Index)
		}
		return out
	}
	return nil
}

func isConst(e ir.Exp, v int32) bool {
	c, ok := e.(ir.Const)
	return ok && c.Value == v
}

func (m *muncher) munchBinop(n ir.Binop) ir.Temp {
	switch n.Op {
	case ir.Plus:
		if isConst(n.Right, 1) {
			return m.munchInPlace(n.Left, asm.OpInc)
		}
		if isConst(n.Left, 1) {
			return m.munchInPlace(n.Right, asm.OpInc)
		}
	case ir.Minus:
		if isConst(n.Right, 1) {
			return m.munchInPlace(n.Left, asm.OpDec)
		}
		if isConst(n.Left, 0) {
			return m.munchInPlace(n.Right, asm.OpNeg)
		}
	case ir.Mul, ir.Div:
		return m.munchMulDiv(n)
	}

	dst := ir.NewTemp()
	left := m.munchValue(n.Left)
	op := asm.OpMov
	if _, ok := left.(asm.LabelVal); ok {
		op = asm.OpLea
	}
	m.emit(asm.Instr{Op: op, Dst: asm.Reg{Temp: dst}, Src: left, Uses: usesOf(left), Defs: []ir.Temp{dst}})

	right := m.munchValue(n.Right)
	if _, ok := right.(asm.LabelVal); ok {
		right = asm.Reg{Temp: m.toReg(right)}
	}
	m.emit(asm.Instr{Op: binOpcode(n.Op), Dst: asm.Reg{Temp: dst}, Src: right, Uses: append([]ir.Temp{dst}, usesOf(right)...), Defs: []ir.Temp{dst}})
	return dst
}

// munchMulDiv lowers multiply and divide through RAX's unary forms: the
// left operand lands in RAX, idiv additionally sign-extends into RDX via
// cqo, the unary instruction takes the right operand (register or memory,
// never an immediate), and the low result word is copied out to a fresh
// temp.
func (m *muncher) munchMulDiv(n ir.Binop) ir.Temp {
	left := m.munchValue(n.Left)
	right := m.munchValue(n.Right)
	switch right.(type) {
	case asm.Imm, asm.LabelVal:
		right = asm.Reg{Temp: m.toReg(right)}
	}

	m.emit(asm.Instr{Op: asm.OpMov, Dst: asm.Reg{Temp: ir.RAX}, Src: left, Uses: usesOf(left), Defs: []ir.Temp{ir.RAX}})
	op := asm.OpIMul
	if n.Op == ir.Div {
		m.emit(asm.Instr{Op: asm.OpCqo, Uses: []ir.Temp{ir.RAX}, Defs: []ir.Temp{ir.RDX}})
		op = asm.OpIDiv
	}
	m.emit(asm.Instr{Op: op, Src: right, Uses: append([]ir.Temp{ir.RAX, ir.RDX}, usesOf(right)...), Defs: []ir.Temp{ir.RAX, ir.RDX}})
	result := ir.NewTemp()
	m.emit(asm.Instr{Op: asm.OpMov, Dst: asm.Reg{Temp: result}, Src: asm.Reg{Temp: ir.RAX}, Uses: []ir.Temp{ir.RAX}, Defs: []ir.Temp{result}})
	return result
}

func binOpcode(op ir.BinOp) asm.Op {
	switch op {
	case ir.Plus:
		return asm.OpAdd
	case ir.Minus:
		return asm.OpSub
	case ir.And:
		return asm.OpAnd
	case ir.Or:
		return asm.OpOr
	}
	panic("internal error: unreachable binop (Mul/Div handled separately)")
}

// munchInPlace copies operand into a fresh temp and applies a unary opcode
// to it — the neg/inc/dec strength-reduced idioms.
func (m *muncher) munchInPlace(operand ir.Exp, op asm.Op) ir.Temp {
	src := m.munchValue(operand)
	dst := ir.NewTemp()
	m.emit(asm.Instr{Op: asm.OpMov, Dst: asm.Reg{Temp: dst}, Src: src, Uses: usesOf(src), Defs: []ir.Temp{dst}})
	m.emit(asm.Instr{Op: op, Dst: asm.Reg{Temp: dst}, Uses: []ir.Temp{dst}, Defs: []ir.Temp{dst}})
	return dst
}

// munchMem recognizes the base+index*scale+offset address shapes (and their
// index-only and offset-only degenerations) and peels them into a single
// Mem operand, trying both operand orders at each level since + is
// commutative and the translator doesn't normalize which side a constant
// or scaled index lands on.
func (m *muncher) munchMem(addr ir.Exp) (asm.Value, []ir.Temp) {
	base, index, scale, offset := decompose(addr)
	mem := asm.Mem{Offset: offset}
	var uses []ir.Temp
	if base != nil {
		bt := m.munchReg(base)
		mem.HasBase = true
		mem.Base = bt
		uses = append(uses, bt)
	}
	if index != nil {
		it := m.munchReg(index)
		mem.HasIdx = true
		mem.Index = it
		mem.Scale = scale
		uses = append(uses, it)
	}
	return mem, uses
}

func decompose(addr ir.Exp) (base ir.Exp, index ir.Exp, scale int32, offset int32) {
	rest := addr
	for {
		bin, ok := rest.(ir.Binop)
		if !ok {
			break
		}
		if bin.Op == ir.Plus {
			if c, ok := bin.Right.(ir.Const); ok {
				offset += c.Value
				rest = bin.Left
				continue
			}
			if c, ok := bin.Left.(ir.Const); ok {
				offset += c.Value
				rest = bin.Right
				continue
			}
		}
		if bin.Op == ir.Minus {
			if c, ok := bin.Right.(ir.Const); ok {
				offset -= c.Value
				rest = bin.Left
				continue
			}
		}
		break
	}
	if bin, ok := rest.(ir.Binop); ok && bin.Op == ir.Plus {
		if idx, sc, ok := scaledTerm(bin.Left); ok {
			return bin.Right, idx, sc, offset
		}
		if idx, sc, ok := scaledTerm(bin.Right); ok {
			return bin.Left, idx, sc, offset
		}
	}
	if idx, sc, ok := scaledTerm(rest); ok {
		return nil, idx, sc, offset
	}
	return rest, nil, 0, offset
}

// scaledTerm checks whether e is an `index * scale` multiplication with a
// scale the hardware can encode; anything else (a scale of 3, say) falls
// back to explicit multiplication through munchBinop.
func scaledTerm(e ir.Exp) (index ir.Exp, scale int32, ok bool) {
	bin, isBin := e.(ir.Binop)
	if !isBin || bin.Op != ir.Mul {
		return nil, 0, false
	}
	if c, ok := bin.Right.(ir.Const); ok && validScale(c.Value) {
		return bin.Left, c.Value, true
	}
	if c, ok := bin.Left.(ir.Const); ok && validScale(c.Value) {
		return bin.Right, c.Value, true
	}
	return nil, 0, false
}

func validScale(s int32) bool {
	return s == 1 || s == 2 || s == 4 || s == 8
}
