// Package asm defines the tiled, Temp-form x86-64 instruction set the tiler
// emits: operands are still virtual Temps or physical registers, addresses
// are already resolved to one of the four memory-operand shapes
// (Base+Reg*Scale+Offset, Reg*Scale+Offset, Reg+Offset, Reg), and every
// instruction is annotated with the Temps it reads and writes so a later
// register allocator (out of scope here) can build interference directly
// off this form.
package asm

import "github.com/tigerlang/tigerc/internal/ir"

// Value is an instruction operand.
type Value interface{ isValue() }

// Imm is a signed immediate.
type Imm struct{ Value int32 }

func (Imm) isValue() {}

// Reg is a bare register operand (virtual or physical Temp).
type Reg struct{ Temp ir.Temp }

func (Reg) isValue() {}

// Mem is a memory operand in one of the four address-mode shapes the tiler
// recognizes: base+index*scale+offset, index*scale+offset, base+offset, or
// bare base. Scale is always 1, 2, 4 or 8. HasBase is false only for the
// index-only form (x86 encodes it with a SIB byte and no base register).
type Mem struct {
	HasBase bool
	Base    ir.Temp
	HasIdx  bool
	Index   ir.Temp
	Scale   int32
	Offset  int32
}

func (Mem) isValue() {}

// LabelVal names a Label's address, used for call targets and static data.
type LabelVal struct{ Label ir.Label }

func (LabelVal) isValue() {}

// Op is an opcode mnemonic.
type Op string

const (
	OpMov  Op = "mov"
	OpAdd  Op = "add"
	OpSub  Op = "sub"
	OpIMul Op = "imul"
	OpAnd  Op = "and"
	OpOr   Op = "or"
	OpNeg  Op = "neg"
	OpInc  Op = "inc"
	OpDec  Op = "dec"
	OpLea  Op = "lea"
	OpCmp  Op = "cmp"
	OpCqo  Op = "cqo"
	OpIDiv Op = "idiv"
	OpPush Op = "push"
	OpPop  Op = "pop"
	OpCall Op = "call"
	OpRet  Op = "ret"
	OpJmp  Op = "jmp"
	OpJe   Op = "je"
	OpJne  Op = "jne"
	OpJl   Op = "jl"
	OpJle  Op = "jle"
	OpJg   Op = "jg"
	OpJge  Op = "jge"

	OpLabel   Op = "label"
	OpComment Op = "comment"
)

// Instr is one tiled instruction. Dst/Src are the operands as written in
// Intel order (destination first) for instructions that have them; Uses
// and Defs list every Temp the instruction reads and writes respectively,
// independent of Dst/Src, so e.g. idiv's implicit RAX/RDX usage is visible
// to the allocator without it having to special-case the opcode.
type Instr struct {
	Op      Op
	Dst     Value
	Src     Value
	Uses    []ir.Temp
	Defs    []ir.Temp
	Jumps   []ir.Label // for Jmp/Jcc/Call's candidate targets
	Label   ir.Label   // for OpLabel
	Comment string     // for OpComment, and free-text annotations on real ops
}

// Unit is one function's fully tiled body, prologue and epilogue included.
// SpilledArgs is the widest outgoing stack-argument area, in words, any
// call inside the body needs; the pass that rewrites the stack-size
// placeholders folds it into the final RSP adjustment.
type Unit struct {
	Label       ir.Label
	Instrs      []Instr
	FrameSize   int32
	SpilledArgs int32
}
