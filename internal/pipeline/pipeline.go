// Package pipeline wires the four compilation stages (analyze, translate,
// canonicalize, tile) as a list of named Stages run over a shared Context.
// The pipeline is fail-fast: translate and tile assume a semantically
// accepted AST and panic on anything else, so a failed analyze stage must
// stop the run rather than feed the bad program forward.
package pipeline

// Stage processes and mutates a Context, returning an error that stops the
// pipeline before any later stage runs.
type Stage interface {
	Name() string
	Process(ctx *Context) error
}

// Pipeline runs an ordered list of Stages over one Context.
type Pipeline struct {
	stages []Stage
}

// New builds a Pipeline from stages, run in the given order.
func New(stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages}
}

// Run executes stages in order against ctx, stopping at the first stage
// error — later stages assume every earlier one succeeded — and returns the
// same Context with that one error recorded.
func (p *Pipeline) Run(ctx *Context) *Context {
	for _, s := range p.stages {
		if err := s.Process(ctx); err != nil {
			ctx.Errors = append(ctx.Errors, StageError{Stage: s.Name(), Err: err})
			return ctx
		}
	}
	return ctx
}

// StageError records which named stage produced an error.
type StageError struct {
	Stage string
	Err   error
}

func (e StageError) Error() string { return e.Stage + ": " + e.Err.Error() }
