package tile

import (
	"github.com/tigerlang/tigerc/internal/asm"
	"github.com/tigerlang/tigerc/internal/ir"
)

// munchCall lowers a call to the System V AMD64 sequence: the first six
// arguments go in ir.ArgRegs; the rest are stored above the stack pointer
// at [RSP + k*WordSize] for k = 1, 2, ... The muncher records the widest
// such spill area any call in the body needs, and the RSP adjustment that
// actually reserves it is patched into the prologue/epilogue placeholders
// once register allocation knows the full frame size. The result always
// comes back in RAX; munchCall copies it into a fresh temp so the
// allocator is free to keep RAX live across the copy if it likes.
func (m *muncher) munchCall(n ir.Call) ir.Temp {
	name, ok := n.Fn.(ir.Name)
	if !ok {
		panic("internal error: call target must be a label")
	}

	regArgs := n.Args
	var spilled []ir.Exp
	if len(regArgs) > len(ir.ArgRegs) {
		spilled = regArgs[len(ir.ArgRegs):]
		regArgs = regArgs[:len(ir.ArgRegs)]
	}

	argTemps := make([]ir.Temp, len(regArgs))
	for i, a := range regArgs {
		argTemps[i] = m.munchReg(a)
	}
	spillTemps := make([]ir.Temp, len(spilled))
	for i, a := range spilled {
		spillTemps[i] = m.munchReg(a)
	}

	for i, t := range spillTemps {
		slot := asm.Mem{HasBase: true, Base: ir.RSP, Offset: int32(i+1) * ir.WordSize}
		m.emit(asm.Instr{Op: asm.OpMov, Dst: slot, Src: asm.Reg{Temp: t}, Uses: []ir.Temp{ir.RSP, t}})
	}
	if int32(len(spilled)) > m.spilledArgs {
		m.spilledArgs = int32(len(spilled))
	}

	var uses []ir.Temp
	for i, t := range argTemps {
		dst := ir.ArgRegs[i]
		m.emit(asm.Instr{Op: asm.OpMov, Dst: asm.Reg{Temp: dst}, Src: asm.Reg{Temp: t}, Uses: []ir.Temp{t}, Defs: []ir.Temp{dst}})
		uses = append(uses, dst)
	}

	clobbers := append([]ir.Temp{ir.RAX, ir.RDX}, ir.ArgRegs...)
	m.emit(asm.Instr{Op: asm.OpCall, Dst: asm.LabelVal{Label: name.Label}, Uses: uses, Defs: clobbers, Jumps: []ir.Label{name.Label}})

	result := ir.NewTemp()
	m.emit(asm.Instr{Op: asm.OpMov, Dst: asm.Reg{Temp: result}, Src: asm.Reg{Temp: ir.RAX}, Uses: []ir.Temp{ir.RAX}, Defs: []ir.Temp{result}})
	return result
}
