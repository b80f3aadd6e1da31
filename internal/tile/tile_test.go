package tile

import (
	"testing"

	"github.com/tigerlang/tigerc/internal/asm"
	"github.com/tigerlang/tigerc/internal/frame"
	"github.com/tigerlang/tigerc/internal/ir"
)

func TestMunchValueLeavesImmediateUnmaterialized(t *testing.T) {
	m := &muncher{}
	v := m.munchValue(ir.Const{Value: 7})
	if imm, ok := v.(asm.Imm); !ok || imm.Value != 7 {
		t.Fatalf("expected a bare Imm operand, got %#v", v)
	}
	if len(m.instrs) != 0 {
		t.Errorf("an immediate should not cost any instructions until a slot demands a register, emitted %d", len(m.instrs))
	}
}

func TestMoveImmediateIntoTempIsASingleMov(t *testing.T) {
	ir.ResetTempCounter()
	m := &muncher{}
	m.munchStm(ir.Move{Dst: ir.TempExp{Temp: ir.NewTemp()}, Src: ir.Const{Value: 5}})
	if len(m.instrs) != 1 || m.instrs[0].Op != asm.OpMov {
		t.Fatalf("expected exactly one mov, got %v", m.instrs)
	}
	if imm, ok := m.instrs[0].Src.(asm.Imm); !ok || imm.Value != 5 {
		t.Errorf("expected the mov to carry the immediate directly, got %#v", m.instrs[0].Src)
	}
}

func TestMunchBinopPlusOneReducesToInc(t *testing.T) {
	ir.ResetTempCounter()
	m := &muncher{}
	m.munchReg(ir.Binop{Left: ir.TempExp{Temp: ir.NewTemp()}, Op: ir.Plus, Right: ir.Const{Value: 1}})
	found := false
	for _, in := range m.instrs {
		if in.Op == asm.OpInc {
			found = true
		}
		if in.Op == asm.OpAdd {
			t.Error("x+1 must never lower to a general add")
		}
	}
	if !found {
		t.Error("expected x+1 to lower to inc")
	}
}

func TestMunchBinopOnePlusReducesToInc(t *testing.T) {
	ir.ResetTempCounter()
	m := &muncher{}
	m.munchReg(ir.Binop{Left: ir.Const{Value: 1}, Op: ir.Plus, Right: ir.TempExp{Temp: ir.NewTemp()}})
	found := false
	for _, in := range m.instrs {
		if in.Op == asm.OpInc {
			found = true
		}
	}
	if !found {
		t.Error("expected 1+x to lower to inc")
	}
}

func TestMunchBinopMinusOneReducesToDec(t *testing.T) {
	ir.ResetTempCounter()
	m := &muncher{}
	m.munchReg(ir.Binop{Left: ir.TempExp{Temp: ir.NewTemp()}, Op: ir.Minus, Right: ir.Const{Value: 1}})
	found := false
	for _, in := range m.instrs {
		if in.Op == asm.OpDec {
			found = true
		}
		if in.Op == asm.OpSub {
			t.Error("x-1 must never lower to a general sub")
		}
	}
	if !found {
		t.Error("expected x-1 to lower to dec")
	}
}

func TestMunchBinopZeroMinusReducesToNeg(t *testing.T) {
	ir.ResetTempCounter()
	m := &muncher{}
	m.munchReg(ir.Binop{Left: ir.Const{Value: 0}, Op: ir.Minus, Right: ir.TempExp{Temp: ir.NewTemp()}})
	found := false
	for _, in := range m.instrs {
		if in.Op == asm.OpNeg {
			found = true
		}
	}
	if !found {
		t.Error("expected 0-x to lower to neg")
	}
}

func TestMunchBinopDivLowersThroughCqoIdiv(t *testing.T) {
	ir.ResetTempCounter()
	m := &muncher{}
	m.munchReg(ir.Binop{Left: ir.TempExp{Temp: ir.NewTemp()}, Op: ir.Div, Right: ir.TempExp{Temp: ir.NewTemp()}})
	var ops []asm.Op
	for _, in := range m.instrs {
		ops = append(ops, in.Op)
	}
	want := []asm.Op{asm.OpMov, asm.OpCqo, asm.OpIDiv, asm.OpMov}
	if len(ops) != len(want) {
		t.Fatalf("expected the exact mov/cqo/idiv/mov sequence, got %v", ops)
	}
	for i := range want {
		if ops[i] != want[i] {
			t.Fatalf("expected %v at position %d, got %v", want[i], i, ops)
		}
	}
	if dst, ok := m.instrs[0].Dst.(asm.Reg); !ok || dst.Temp != ir.RAX {
		t.Errorf("expected the dividend to move into RAX first, got %#v", m.instrs[0].Dst)
	}
}

func TestMunchBinopMulGoesThroughRAXUnaryForm(t *testing.T) {
	ir.ResetTempCounter()
	m := &muncher{}
	m.munchReg(ir.Binop{Left: ir.TempExp{Temp: ir.NewTemp()}, Op: ir.Mul, Right: ir.TempExp{Temp: ir.NewTemp()}})
	sawIMul, sawCqo := false, false
	for _, in := range m.instrs {
		if in.Op == asm.OpIMul {
			sawIMul = true
			if in.Dst != nil {
				t.Error("expected the unary imul form with only a source operand")
			}
		}
		if in.Op == asm.OpCqo {
			sawCqo = true
		}
	}
	if !sawIMul {
		t.Error("expected multiply to lower through the unary imul")
	}
	if sawCqo {
		t.Error("multiply must not sign-extend; cqo belongs to divide only")
	}
}

func TestMunchMemDecomposesRecordFieldOffset(t *testing.T) {
	ir.ResetTempCounter()
	base := ir.NewTemp()
	addr := ir.Binop{Left: ir.TempExp{Temp: base}, Op: ir.Plus, Right: ir.Const{Value: 16}}
	m := &muncher{}
	val, _ := m.munchMem(addr)
	mem, ok := val.(asm.Mem)
	if !ok {
		t.Fatalf("expected an asm.Mem operand, got %T", val)
	}
	if mem.Offset != 16 || mem.HasIdx || !mem.HasBase {
		t.Errorf("expected base+16 with no index, got %#v", mem)
	}
}

func TestMunchMemDecomposesScaledArrayIndex(t *testing.T) {
	ir.ResetTempCounter()
	base := ir.NewTemp()
	idx := ir.NewTemp()
	addr := ir.Binop{
		Left:  ir.TempExp{Temp: base},
		Op:    ir.Plus,
		Right: ir.Binop{Left: ir.TempExp{Temp: idx}, Op: ir.Mul, Right: ir.Const{Value: 8}},
	}
	m := &muncher{}
	val, _ := m.munchMem(addr)
	mem, ok := val.(asm.Mem)
	if !ok {
		t.Fatalf("expected an asm.Mem operand, got %T", val)
	}
	if !mem.HasIdx || mem.Scale != 8 || mem.Offset != 0 {
		t.Errorf("expected a scaled index of 8 with no extra offset, got %#v", mem)
	}
	if len(m.instrs) != 0 {
		t.Errorf("a single addressing mode should cost no extra instructions, emitted %d", len(m.instrs))
	}
}

func TestMunchMemDecomposesFullBRSOWithNegativeOffset(t *testing.T) {
	ir.ResetTempCounter()
	base := ir.NewTemp()
	idx := ir.NewTemp()
	// (idx*4 + base) - 8, the scaled term on the left and a subtracted offset.
	addr := ir.Binop{
		Left: ir.Binop{
			Left:  ir.Binop{Left: ir.TempExp{Temp: idx}, Op: ir.Mul, Right: ir.Const{Value: 4}},
			Op:    ir.Plus,
			Right: ir.TempExp{Temp: base},
		},
		Op:    ir.Minus,
		Right: ir.Const{Value: 8},
	}
	m := &muncher{}
	val, _ := m.munchMem(addr)
	mem, ok := val.(asm.Mem)
	if !ok {
		t.Fatalf("expected an asm.Mem operand, got %T", val)
	}
	if !mem.HasBase || !mem.HasIdx || mem.Scale != 4 || mem.Offset != -8 {
		t.Errorf("expected base+idx*4-8, got %#v", mem)
	}
}

func TestMunchMemIndexOnlyFormNeedsNoBase(t *testing.T) {
	ir.ResetTempCounter()
	idx := ir.NewTemp()
	addr := ir.Binop{
		Left:  ir.Binop{Left: ir.TempExp{Temp: idx}, Op: ir.Mul, Right: ir.Const{Value: 8}},
		Op:    ir.Plus,
		Right: ir.Const{Value: 32},
	}
	m := &muncher{}
	val, _ := m.munchMem(addr)
	mem, ok := val.(asm.Mem)
	if !ok {
		t.Fatalf("expected an asm.Mem operand, got %T", val)
	}
	if mem.HasBase || !mem.HasIdx || mem.Scale != 8 || mem.Offset != 32 {
		t.Errorf("expected idx*8+32 with no base register, got %#v", mem)
	}
}

func TestMunchMemRejectsUnencodableScale(t *testing.T) {
	ir.ResetTempCounter()
	base := ir.NewTemp()
	idx := ir.NewTemp()
	addr := ir.Binop{
		Left:  ir.TempExp{Temp: base},
		Op:    ir.Plus,
		Right: ir.Binop{Left: ir.TempExp{Temp: idx}, Op: ir.Mul, Right: ir.Const{Value: 3}},
	}
	m := &muncher{}
	val, _ := m.munchMem(addr)
	mem, ok := val.(asm.Mem)
	if !ok {
		t.Fatalf("expected an asm.Mem operand, got %T", val)
	}
	if mem.HasIdx {
		t.Error("a scale of 3 is not encodable and must fall back to explicit multiplication")
	}
	sawMul := false
	for _, in := range m.instrs {
		if in.Op == asm.OpIMul {
			sawMul = true
		}
	}
	if !sawMul {
		t.Error("expected the unencodable scale to be computed with an explicit multiply")
	}
}

func TestMunchCJumpEmitsCmpJccJmp(t *testing.T) {
	ir.ResetTempCounter()
	trueL, falseL := ir.LabelFromFixed("t"), ir.LabelFromFixed("f")
	m := &muncher{}
	m.munchStm(ir.CJump{
		Left:  ir.TempExp{Temp: ir.NewTemp()},
		Op:    ir.Eq,
		Right: ir.Const{Value: 5},
		True:  trueL,
		False: falseL,
	})
	if len(m.instrs) != 3 {
		t.Fatalf("expected cmp, jcc, jmp; got %v", m.instrs)
	}
	if m.instrs[0].Op != asm.OpCmp {
		t.Errorf("expected a cmp first, got %s", m.instrs[0].Op)
	}
	if m.instrs[1].Op != asm.OpJe || m.instrs[1].Jumps[0] != trueL {
		t.Errorf("expected je to the true target, got %s %v", m.instrs[1].Op, m.instrs[1].Jumps)
	}
	if m.instrs[2].Op != asm.OpJmp || m.instrs[2].Jumps[0] != falseL {
		t.Errorf("expected an explicit jmp to the false target, got %s %v", m.instrs[2].Op, m.instrs[2].Jumps)
	}
}

func TestMunchCallPlacesSeventhArgOnTheStack(t *testing.T) {
	ir.ResetTempCounter()
	args := make([]ir.Exp, 7)
	for i := range args {
		args[i] = ir.Const{Value: int32(i)}
	}
	m := &muncher{}
	m.munchCall(ir.Call{Fn: ir.Name{Label: ir.LabelFromFixed("f")}, Args: args})

	stores := 0
	for _, in := range m.instrs {
		mem, ok := in.Dst.(asm.Mem)
		if ok && in.Op == asm.OpMov && mem.Base == ir.RSP {
			stores++
			if mem.Offset != ir.WordSize {
				t.Errorf("expected the first stack argument at [RSP+%d], got offset %d", ir.WordSize, mem.Offset)
			}
		}
	}
	if stores != 1 {
		t.Errorf("expected exactly 1 stack-argument store (7 args - 6 registers), got %d", stores)
	}
	if m.spilledArgs != 1 {
		t.Errorf("expected the muncher to record a spill area of 1 word, got %d", m.spilledArgs)
	}
}

func TestMunchCallUsesAllSixArgRegistersWithoutSpill(t *testing.T) {
	ir.ResetTempCounter()
	args := make([]ir.Exp, 6)
	for i := range args {
		args[i] = ir.Const{Value: int32(i)}
	}
	m := &muncher{}
	m.munchCall(ir.Call{Fn: ir.Name{Label: ir.LabelFromFixed("f")}, Args: args})
	for _, in := range m.instrs {
		if mem, ok := in.Dst.(asm.Mem); ok && mem.Base == ir.RSP {
			t.Fatal("6 arguments should fit entirely in registers, expected no stack stores")
		}
	}
	if m.spilledArgs != 0 {
		t.Errorf("expected no recorded spill area, got %d", m.spilledArgs)
	}
}

func TestFunctionWrapsPrologueAndEpilogueAroundBody(t *testing.T) {
	ir.ResetTempCounter()
	ir.ResetLabelCounter()
	fr := frame.New(ir.LabelFromFixed("f"), nil)
	body := []ir.Stm{ir.Move{Dst: ir.TempExp{Temp: ir.RAX}, Src: ir.Const{Value: 0}}}
	unit := Function(fr, body)

	if unit.Instrs[0].Op != asm.OpPush {
		t.Errorf("expected the function to open by pushing RBP, got %s", unit.Instrs[0].Op)
	}
	last := unit.Instrs[len(unit.Instrs)-1]
	if last.Op != asm.OpRet {
		t.Errorf("expected the function to close with ret, got %s", last.Op)
	}
	placeholders := 0
	for _, in := range unit.Instrs {
		if in.Op == asm.OpComment && len(in.Comment) > 0 {
			placeholders++
		}
	}
	if placeholders != 2 {
		t.Errorf("expected the two RSP-adjustment placeholders, got %d comments", placeholders)
	}
}

func TestFunctionSavesAndRestoresCalleeSavedThroughTemps(t *testing.T) {
	ir.ResetTempCounter()
	ir.ResetLabelCounter()
	fr := frame.New(ir.LabelFromFixed("f"), nil)
	unit := Function(fr, nil)

	saved, restored := 0, 0
	for _, in := range unit.Instrs {
		if in.Op != asm.OpMov {
			continue
		}
		src, sok := in.Src.(asm.Reg)
		dst, dok := in.Dst.(asm.Reg)
		if !sok || !dok {
			continue
		}
		if src.Temp.IsPhysical() && !dst.Temp.IsPhysical() {
			saved++
		}
		if !src.Temp.IsPhysical() && dst.Temp.IsPhysical() {
			restored++
		}
	}
	if saved < len(ir.CalleeSaved) || restored < len(ir.CalleeSaved) {
		t.Errorf("expected each of the %d callee-saved registers saved to and restored from a temp, got %d/%d", len(ir.CalleeSaved), saved, restored)
	}
}

func TestFunctionRecordsWidestCallSpillArea(t *testing.T) {
	ir.ResetTempCounter()
	ir.ResetLabelCounter()
	fr := frame.New(ir.LabelFromFixed("f"), nil)
	args := make([]ir.Exp, 8)
	for i := range args {
		args[i] = ir.Const{Value: int32(i)}
	}
	body := []ir.Stm{
		ir.ExpStm{Exp: ir.Call{Fn: ir.Name{Label: ir.LabelFromFixed("g")}, Args: args[:7]}},
		ir.ExpStm{Exp: ir.Call{Fn: ir.Name{Label: ir.LabelFromFixed("h")}, Args: args}},
	}
	unit := Function(fr, body)
	if unit.SpilledArgs != 2 {
		t.Errorf("expected the unit to record the widest call's 2-word spill area, got %d", unit.SpilledArgs)
	}
}

func TestPrologueLoadsSeventhFormalFromCallerStack(t *testing.T) {
	ir.ResetTempCounter()
	ir.ResetLabelCounter()
	formals := make([]frame.Formal, 6)
	for i := range formals {
		formals[i] = frame.Formal{Name: string(rune('a' + i)), Escape: false}
	}
	// Six declared formals plus the static link: the last one arrives on
	// the caller's stack.
	fr := frame.New(ir.LabelFromFixed("f"), formals)
	unit := Function(fr, nil)

	found := false
	for _, in := range unit.Instrs {
		if mem, ok := in.Src.(asm.Mem); ok && mem.Base == ir.RBP && mem.Offset > 0 {
			found = true
			if mem.Offset != 16+ir.WordSize {
				t.Errorf("expected the 7th formal at [RBP+%d], got offset %d", 16+ir.WordSize, mem.Offset)
			}
		}
	}
	if !found {
		t.Error("expected a load from the caller's stack for the formal past the sixth register")
	}
}
