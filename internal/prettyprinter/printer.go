// Package prettyprinter renders Tree/Stm/Exp and final asm.Unit listings
// for debug output: an indent-tracking buffer with one print method per
// node kind, switched on type. Color is only emitted when the destination
// is a real terminal, checked with isatty.
package prettyprinter

import (
	"bytes"
	"fmt"
	"io"

	"github.com/mattn/go-isatty"

	"github.com/tigerlang/tigerc/internal/asm"
	"github.com/tigerlang/tigerc/internal/ir"
)

// Printer accumulates a textual debug dump with indentation tracking.
type Printer struct {
	buf    bytes.Buffer
	indent int
	color  bool
}

// New returns a Printer that never emits ANSI color, suitable for writing to
// a file or string builder.
func New() *Printer {
	return &Printer{}
}

// NewForWriter returns a Printer that emits ANSI color only if w is a real
// terminal (checked via isatty, not just "is an *os.File").
func NewForWriter(w io.Writer) *Printer {
	p := &Printer{}
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		p.color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return p
}

func (p *Printer) String() string { return p.buf.String() }

func (p *Printer) write(s string) { p.buf.WriteString(s) }

func (p *Printer) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("  ")
	}
}

func (p *Printer) line(format string, args ...any) {
	p.writeIndent()
	p.buf.WriteString(fmt.Sprintf(format, args...))
	p.buf.WriteByte('\n')
}

func (p *Printer) colorize(code, s string) string {
	if !p.color {
		return s
	}
	return "\x1b[" + code + "m" + s + "\x1b[0m"
}

// PrintTree renders one function's tri-modal translation result before
// canonicalization. A Tree hides which of Ex/Nx/Cx it is, so this commits it
// to a statement via ToStm purely for the dump — debug output only, never
// reused as the real translation result.
func (p *Printer) PrintTree(t ir.Tree) {
	p.line("%s", p.colorize("36", "tree"))
	p.indent++
	p.PrintStm(t.ToStm())
	p.indent--
}

// PrintStm renders one IR statement, recursing into its children.
func (p *Printer) PrintStm(s ir.Stm) {
	switch n := s.(type) {
	case ir.Seq:
		p.line("%s", p.colorize("35", "seq"))
		p.indent++
		for _, st := range n.Stmts {
			p.PrintStm(st)
		}
		p.indent--
	case ir.Move:
		p.line("%s", p.colorize("33", "move"))
		p.indent++
		p.PrintExp(n.Dst)
		p.PrintExp(n.Src)
		p.indent--
	case ir.ExpStm:
		p.line("%s", p.colorize("33", "exp"))
		p.indent++
		p.PrintExp(n.Exp)
		p.indent--
	case ir.Jump:
		p.line("jump %v", n.Candidates)
	case ir.CJump:
		p.line("cjump %v true=%s false=%s", n.Op, n.True, n.False)
		p.indent++
		p.PrintExp(n.Left)
		p.PrintExp(n.Right)
		p.indent--
	case ir.LabelStm:
		p.line("%s:", p.colorize("32", n.Label.String()))
	case ir.Comment:
		p.line("%s", p.colorize("90", "; "+n.Text))
	default:
		p.line("<unknown stm>")
	}
}

// PrintExp renders one IR expression, recursing into its children.
func (p *Printer) PrintExp(e ir.Exp) {
	switch n := e.(type) {
	case ir.Const:
		p.line("const %d", n.Value)
	case ir.Name:
		p.line("name %s", n.Label)
	case ir.TempExp:
		p.line("temp %s", n.Temp)
	case ir.Binop:
		p.line("binop %v", n.Op)
		p.indent++
		p.PrintExp(n.Left)
		p.PrintExp(n.Right)
		p.indent--
	case ir.Mem:
		p.line("mem")
		p.indent++
		p.PrintExp(n.Addr)
		p.indent--
	case ir.Call:
		p.line("call")
		p.indent++
		p.PrintExp(n.Fn)
		for _, a := range n.Args {
			p.PrintExp(a)
		}
		p.indent--
	case ir.ESeq:
		p.line("eseq")
		p.indent++
		p.PrintStm(n.Stm)
		p.PrintExp(n.Exp)
		p.indent--
	default:
		p.line("<unknown exp>")
	}
}

// PrintAsm renders one function's finished tiled instructions.
func (p *Printer) PrintAsm(u asm.Unit) {
	p.line("%s:", p.colorize("32", u.Label.String()))
	p.indent++
	for _, instr := range u.Instrs {
		p.printInstr(instr)
	}
	p.indent--
}

func (p *Printer) printInstr(instr asm.Instr) {
	switch instr.Op {
	case asm.OpLabel:
		p.line("%s:", p.colorize("32", instr.Label.String()))
	case asm.OpComment:
		p.line("%s", p.colorize("90", "; "+instr.Comment))
	default:
		p.line("%s %s", p.colorize("33", string(instr.Op)), operandsOf(instr))
	}
}

func operandsOf(instr asm.Instr) string {
	var out string
	if instr.Dst != nil {
		out += valueString(instr.Dst)
	}
	if instr.Src != nil {
		if out != "" {
			out += ", "
		}
		out += valueString(instr.Src)
	}
	for _, l := range instr.Jumps {
		if out != "" {
			out += " "
		}
		out += l.String()
	}
	return out
}

func valueString(v asm.Value) string {
	switch n := v.(type) {
	case asm.Imm:
		return fmt.Sprintf("%d", n.Value)
	case asm.Reg:
		return n.Temp.String()
	case asm.Mem:
		switch {
		case n.HasBase && n.HasIdx:
			return fmt.Sprintf("[%s+%s*%d%+d]", n.Base, n.Index, n.Scale, n.Offset)
		case n.HasIdx:
			return fmt.Sprintf("[%s*%d%+d]", n.Index, n.Scale, n.Offset)
		default:
			return fmt.Sprintf("[%s%+d]", n.Base, n.Offset)
		}
	case asm.LabelVal:
		return n.Label.String()
	}
	return "<?>"
}
