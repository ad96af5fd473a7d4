package parser

import "github.com/nox-lang/nox/internal/pipeline"

// Processor wires the parser into the pipeline.
type Processor struct{}

func (pp *Processor) Process(ctx *pipeline.Context) *pipeline.Context {
	if ctx.TokenStream == nil {
		return ctx
	}
	p := New(ctx.TokenStream, ctx.Diagnostics)
	ctx.Program = p.ParseProgram()
	return ctx
}

var _ pipeline.Processor = (*Processor)(nil)
