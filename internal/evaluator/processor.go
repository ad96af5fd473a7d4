package evaluator

import (
	"os"

	"github.com/nox-lang/nox/internal/pipeline"
)

// Processor wires the evaluator into the pipeline, printing to os.Stdout.
type Processor struct{}

func (p *Processor) Process(ctx *pipeline.Context) *pipeline.Context {
	if ctx.Program == nil {
		return ctx
	}
	New(ctx.Diagnostics, os.Stdout).Run(ctx.Program)
	return ctx
}

var _ pipeline.Processor = (*Processor)(nil)
