package canon

import "github.com/tigerlang/tigerc/internal/ir"

// block is one maximal straight-line run: starts with its LabelStm, ends
// with a Jump or CJump, never branches in the middle.
type block struct {
	Label ir.Label
	Stmts []ir.Stm
}

// basicBlocks partitions a flat statement list into blocks, synthesizing a
// label at the head of any run that doesn't already start with one. A run
// cut short by a label gets a jump to that label; any other run that
// doesn't already end with a transfer of control gets a jump to doneLabel.
func basicBlocks(stmts []ir.Stm) ([]block, ir.Label) {
	doneLabel := ir.LabelFromStr("done")
	var blocks []block
	i := 0
	for i < len(stmts) {
		var label ir.Label
		if l, ok := stmts[i].(ir.LabelStm); ok {
			label = l.Label
			i++
		} else {
			label = ir.LabelFromStr("block")
		}

		body := []ir.Stm{ir.LabelStm{Label: label}}
		terminated := false
		for i < len(stmts) && !terminated {
			if l, ok := stmts[i].(ir.LabelStm); ok {
				body = append(body, ir.Jump{Target: ir.Name{Label: l.Label}, Candidates: []ir.Label{l.Label}})
				break
			}
			body = append(body, stmts[i])
			i++
			switch stmts[i-1].(type) {
			case ir.Jump, ir.CJump:
				terminated = true
			}
		}
		if !endsInTransfer(body) {
			body = append(body, ir.Jump{Target: ir.Name{Label: doneLabel}, Candidates: []ir.Label{doneLabel}})
		}
		blocks = append(blocks, block{Label: label, Stmts: body})
	}
	return blocks, doneLabel
}

func endsInTransfer(body []ir.Stm) bool {
	switch body[len(body)-1].(type) {
	case ir.Jump, ir.CJump:
		return true
	}
	return false
}

// traceSchedule orders blocks into traces, choosing at each CJump to let
// whichever branch is still unvisited follow immediately — negating the
// test when only the false branch is available — so that after this pass
// every CJump's true target is the block physically next in the stream.
// Any CJump where both targets are already placed gets a synthetic relay
// block inserted so the invariant still holds.
func traceSchedule(blocks []block, doneLabel ir.Label) []ir.Stm {
	byLabel := make(map[ir.Label]*block, len(blocks))
	for i := range blocks {
		byLabel[blocks[i].Label] = &blocks[i]
	}
	marked := make(map[ir.Label]bool, len(blocks))
	var out []ir.Stm

	for idx := range blocks {
		start := &blocks[idx]
		if marked[start.Label] {
			continue
		}
		cur := start
		for {
			marked[cur.Label] = true
			body := cur.Stmts[:len(cur.Stmts)-1]
			last := cur.Stmts[len(cur.Stmts)-1]

			switch term := last.(type) {
			case ir.Jump:
				out = append(out, cur.Stmts...)
				if len(term.Candidates) == 1 {
					if next, ok := byLabel[term.Candidates[0]]; ok && !marked[next.Label] {
						cur = next
						continue
					}
				}

			case ir.CJump:
				tb, tok := byLabel[term.True]
				fb, fok := byLabel[term.False]
				switch {
				case tok && !marked[tb.Label]:
					out = append(out, cur.Stmts...)
					cur = tb
					continue
				case fok && !marked[fb.Label]:
					out = append(out, body...)
					out = append(out, ir.CJump{Left: term.Left, Op: term.Op.Negate(), Right: term.Right, True: term.False, False: term.True})
					cur = fb
					continue
				default:
					relay := ir.LabelFromStr("cjump.relay")
					out = append(out, body...)
					out = append(out, ir.CJump{Left: term.Left, Op: term.Op, Right: term.Right, True: relay, False: term.False})
					out = append(out, ir.LabelStm{Label: relay})
					out = append(out, ir.Jump{Target: ir.Name{Label: term.True}, Candidates: []ir.Label{term.True}})
				}
			}
			break
		}
	}

	out = append(out, ir.LabelStm{Label: doneLabel})
	return out
}
