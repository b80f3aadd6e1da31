package pipeline

import (
	"github.com/tigerlang/tigerc/internal/analyzer"
	"github.com/tigerlang/tigerc/internal/ast"
	"github.com/tigerlang/tigerc/internal/canon"
	"github.com/tigerlang/tigerc/internal/tile"
	"github.com/tigerlang/tigerc/internal/translate"
)

// AnalyzeStage runs semantic analysis over the whole program and stops the
// pipeline's later stages from trusting an unchecked AST.
type AnalyzeStage struct{}

func (AnalyzeStage) Name() string { return "analyze" }

func (AnalyzeStage) Process(ctx *Context) error {
	if err := analyzer.Check(ctx.Program.Body); err != nil {
		return err
	}
	return nil
}

// TranslateStage runs escape analysis (translate reads each binder's
// resulting Escape field to decide Reg- vs Mem-form storage) and then lowers
// the checked AST into one Unit per function plus the string literal table.
type TranslateStage struct{}

func (TranslateStage) Name() string { return "translate" }

func (TranslateStage) Process(ctx *Context) error {
	ast.FindEscapes(ctx.Program)
	statics, units := translate.Translate(ctx.Program)
	ctx.Statics = statics
	ctx.Units = units
	return nil
}

// CanonicalizeStage eliminates ESeq and schedules traces for every
// translated unit.
type CanonicalizeStage struct{}

func (CanonicalizeStage) Name() string { return "canonicalize" }

func (CanonicalizeStage) Process(ctx *Context) error {
	for _, u := range ctx.Units {
		ctx.Canonical[u.Frame.Label] = canon.Canonicalize(u.Body)
	}
	return nil
}

// TileStage runs the maximal-munch instruction selector over every
// canonicalized unit.
type TileStage struct{}

func (TileStage) Name() string { return "tile" }

func (TileStage) Process(ctx *Context) error {
	for _, u := range ctx.Units {
		stmts := ctx.Canonical[u.Frame.Label]
		ctx.Asm = append(ctx.Asm, tile.Function(u.Frame, stmts))
	}
	return nil
}

// Standard returns the four compilation stages in the fixed order this
// compiler always runs them in.
func Standard() []Stage {
	return []Stage{AnalyzeStage{}, TranslateStage{}, CanonicalizeStage{}, TileStage{}}
}
