package analyzer

import "github.com/nox-lang/nox/internal/pipeline"

// Processor wires the type pass into the pipeline.
type Processor struct{}

func (p *Processor) Process(ctx *pipeline.Context) *pipeline.Context {
	if ctx.Program == nil {
		return ctx
	}
	New(ctx.Diagnostics).Analyze(ctx.Program)
	return ctx
}

var _ pipeline.Processor = (*Processor)(nil)
