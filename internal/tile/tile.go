// Package tile implements the maximal-munch instruction selector: it walks
// the canonicalized statement list for one function and emits Temp-form
// x86-64 instructions, recognizing the base+index*scale+offset family of
// addressing modes a Mem's address expression can take and folding the
// +1/-1/0-x strength-reduced idioms (inc/dec/neg) where they apply. The
// fixed prologue/epilogue this package wraps around every function's body
// leaves the actual stack-frame size adjustment as a placeholder: that's
// the out-of-scope register allocator's job, once it knows how many spilled
// temps need room.
package tile

import (
	"github.com/tigerlang/tigerc/internal/asm"
	"github.com/tigerlang/tigerc/internal/frame"
	"github.com/tigerlang/tigerc/internal/ir"
)

type muncher struct {
	instrs      []asm.Instr
	spilledArgs int32 // widest outgoing stack-argument area, in words
}

func (m *muncher) emit(i asm.Instr) { m.instrs = append(m.instrs, i) }

// Function tiles one canonicalized function body into a finished asm.Unit,
// prologue and epilogue included.
func Function(fr *frame.Frame, stmts []ir.Stm) asm.Unit {
	m := &muncher{}
	for _, s := range stmts {
		m.munchStm(s)
	}
	saves := make([]ir.Temp, len(ir.CalleeSaved))
	for i := range saves {
		saves[i] = ir.NewTemp()
	}
	instrs := append(prologue(fr, saves), append(m.instrs, epilogue(saves)...)...)
	return asm.Unit{Label: fr.Label, Instrs: instrs, FrameSize: fr.Size(), SpilledArgs: m.spilledArgs}
}

// accessValue converts a frame.Access (relative to framePtr) directly into
// its equivalent asm operand, without going through the tiler's general
// Mem-address recognizer — a formal's storage location is always either a
// bare register or Mem(framePtr - k), never anything a Binop could hide a
// scaled index inside.
func accessValue(a frame.Access, framePtr ir.Temp) asm.Value {
	switch e := a.ToExp(ir.TempExp{Temp: framePtr}).(type) {
	case ir.TempExp:
		return asm.Reg{Temp: e.Temp}
	case ir.Mem:
		bin := e.Addr.(ir.Binop)
		base := bin.Left.(ir.TempExp).Temp
		off := bin.Right.(ir.Const).Value
		return asm.Mem{HasBase: true, Base: base, Offset: -off}
	}
	panic("internal error: unreachable access shape")
}

// prologue pushes RBP, establishes the new frame pointer, reserves stack
// space (left as a placeholder comment, filled in once register allocation
// determines the spill count), saves each callee-saved register into a
// fresh temp the allocator may later keep in place or spill, and copies
// every formal from its System V AMD64 arrival location (an argument
// register, or a stack slot above the return address from the 7th formal
// on) into its Access's storage.
func prologue(fr *frame.Frame, saves []ir.Temp) []asm.Instr {
	instrs := []asm.Instr{
		{Op: asm.OpPush, Src: asm.Reg{Temp: ir.RBP}, Uses: []ir.Temp{ir.RBP}},
		{Op: asm.OpMov, Dst: asm.Reg{Temp: ir.RBP}, Src: asm.Reg{Temp: ir.RSP}, Uses: []ir.Temp{ir.RSP}, Defs: []ir.Temp{ir.RBP}},
		{Op: asm.OpComment, Comment: "REPLACE WITH RSP SUBTRACTION"},
	}
	for i, reg := range ir.CalleeSaved {
		instrs = append(instrs, asm.Instr{Op: asm.OpMov, Dst: asm.Reg{Temp: saves[i]}, Src: asm.Reg{Temp: reg}, Uses: []ir.Temp{reg}, Defs: []ir.Temp{saves[i]}})
	}
	for i, formal := range fr.Formals {
		var src asm.Value
		if i < len(ir.ArgRegs) {
			src = asm.Reg{Temp: ir.ArgRegs[i]}
		} else {
			// The caller stored this formal at [RSP + k*WordSize], k >= 1;
			// the pushed return address and saved RBP sit below it now.
			k := int32(i - len(ir.ArgRegs) + 1)
			src = asm.Mem{HasBase: true, Base: ir.RBP, Offset: 16 + k*ir.WordSize}
		}
		dst := accessValue(formal, ir.RBP)
		if _, dstMem := dst.(asm.Mem); dstMem {
			if _, srcMem := src.(asm.Mem); srcMem {
				t := ir.NewTemp()
				instrs = append(instrs, asm.Instr{Op: asm.OpMov, Dst: asm.Reg{Temp: t}, Src: src, Uses: usesOf(src), Defs: []ir.Temp{t}})
				src = asm.Reg{Temp: t}
			}
		}
		instr := asm.Instr{Op: asm.OpMov, Dst: dst, Src: src, Uses: append(usesOf(dst), usesOf(src)...)}
		if dr, ok := dst.(asm.Reg); ok {
			instr.Uses = usesOf(src)
			instr.Defs = []ir.Temp{dr.Temp}
		}
		instrs = append(instrs, instr)
	}
	return instrs
}

// epilogue undoes prologue in reverse: restore the callee-saved registers
// from their save temps, release the stack, return.
func epilogue(saves []ir.Temp) []asm.Instr {
	var instrs []asm.Instr
	for i := len(ir.CalleeSaved) - 1; i >= 0; i-- {
		reg := ir.CalleeSaved[i]
		instrs = append(instrs, asm.Instr{Op: asm.OpMov, Dst: asm.Reg{Temp: reg}, Src: asm.Reg{Temp: saves[i]}, Uses: []ir.Temp{saves[i]}, Defs: []ir.Temp{reg}})
	}
	instrs = append(instrs,
		asm.Instr{Op: asm.OpComment, Comment: "REPLACE WITH RSP ADDITION"},
		asm.Instr{Op: asm.OpMov, Dst: asm.Reg{Temp: ir.RSP}, Src: asm.Reg{Temp: ir.RBP}, Uses: []ir.Temp{ir.RBP}, Defs: []ir.Temp{ir.RSP}},
		asm.Instr{Op: asm.OpPop, Dst: asm.Reg{Temp: ir.RBP}, Defs: []ir.Temp{ir.RBP}},
		asm.Instr{Op: asm.OpRet},
	)
	return instrs
}
