// Package snapshot converts a finished (frame, asm unit) pair into a
// self-describing, schema-free tree for golden-file comparisons and for any
// out-of-process tool that would rather parse a structpb.Struct than a Go
// struct dump. Using structpb keeps the exchange format schema-free: no
// generated .pb.go code, no wire RPC boundary.
package snapshot

import (
	"fmt"
	"strconv"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/tigerlang/tigerc/internal/asm"
	"github.com/tigerlang/tigerc/internal/frame"
	"github.com/tigerlang/tigerc/internal/ir"
)

// Unit is the plain-Go shape of one compiled function's snapshot, built
// before conversion to a structpb.Struct.
type Unit struct {
	Label       string
	FrameSize   int32
	SpilledArgs int32
	Formals     []string
	Instrs      []Instr
}

// Instr is one tiled instruction's snapshot shape.
type Instr struct {
	Op      string
	Dst     string
	Src     string
	Jumps   []string
	Label   string
	Comment string
}

// Build assembles the debug tree for one compiled unit.
func Build(fr *frame.Frame, unit asm.Unit) Unit {
	out := Unit{
		Label:       unit.Label.String(),
		FrameSize:   unit.FrameSize,
		SpilledArgs: unit.SpilledArgs,
	}
	out.Formals = append(out.Formals, fr.FormalNames()...)
	for _, in := range unit.Instrs {
		out.Instrs = append(out.Instrs, instrSnapshot(in))
	}
	return out
}

func instrSnapshot(in asm.Instr) Instr {
	s := Instr{Op: string(in.Op), Comment: in.Comment}
	if in.Dst != nil {
		s.Dst = valueString(in.Dst)
	}
	if in.Src != nil {
		s.Src = valueString(in.Src)
	}
	if in.Label != (ir.Label{}) {
		s.Label = in.Label.String()
	}
	for _, l := range in.Jumps {
		s.Jumps = append(s.Jumps, l.String())
	}
	return s
}

func valueString(v asm.Value) string {
	switch n := v.(type) {
	case asm.Imm:
		return strconv.Itoa(int(n.Value))
	case asm.Reg:
		return n.Temp.String()
	case asm.LabelVal:
		return n.Label.String()
	case asm.Mem:
		switch {
		case n.HasBase && n.HasIdx:
			return fmt.Sprintf("[%s+%s*%d%+d]", n.Base, n.Index, n.Scale, n.Offset)
		case n.HasIdx:
			return fmt.Sprintf("[%s*%d%+d]", n.Index, n.Scale, n.Offset)
		default:
			return fmt.Sprintf("[%s%+d]", n.Base, n.Offset)
		}
	}
	return ""
}

// ToStruct converts Unit into a *structpb.Struct suitable for golden-file
// comparison or transport to an out-of-process tool.
func ToStruct(u Unit) (*structpb.Struct, error) {
	formals := make([]any, len(u.Formals))
	for i, f := range u.Formals {
		formals[i] = f
	}
	instrs := make([]any, len(u.Instrs))
	for i, in := range u.Instrs {
		instrs[i] = instrMap(in)
	}
	return structpb.NewStruct(map[string]any{
		"label":        u.Label,
		"frame_size":   float64(u.FrameSize),
		"spilled_args": float64(u.SpilledArgs),
		"formals":      formals,
		"instrs":       instrs,
	})
}

func instrMap(in Instr) map[string]any {
	jumps := make([]any, len(in.Jumps))
	for i, j := range in.Jumps {
		jumps[i] = j
	}
	return map[string]any{
		"op":      in.Op,
		"dst":     in.Dst,
		"src":     in.Src,
		"jumps":   jumps,
		"label":   in.Label,
		"comment": in.Comment,
	}
}
