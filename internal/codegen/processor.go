package codegen

import (
	"os"

	"github.com/nox-lang/nox/internal/diagnostics"
	"github.com/nox-lang/nox/internal/pipeline"
	"github.com/nox-lang/nox/internal/token"
)

// OutputFile is the fixed name the compiled module is written to, per the
// external interface contract: one invocation, one artifact, no naming flag.
const OutputFile = "output.ir"

// Processor wires the IR emitter into the pipeline (only cmd/nox's build
// verb includes it). It skips emission when there is no program or when
// earlier stages left diagnostics, and otherwise writes the serialized
// module to OutputFile in the working directory when Write is set.
type Processor struct {
	// Write controls whether the module text is written to OutputFile; when
	// false the module is still built and self-checked but not written.
	Write bool
}

func (p *Processor) Process(ctx *pipeline.Context) *pipeline.Context {
	if ctx.Program == nil || ctx.Diagnostics.HasErrors() {
		return ctx
	}

	e := New(ctx.Diagnostics, ctx.RunID, ctx.FilePath)
	text := e.Emit(ctx.Program)

	if !p.Write {
		return ctx
	}
	if err := os.WriteFile(OutputFile, []byte(text), 0o644); err != nil {
		ctx.Diagnostics.Add(diagnostics.NewFatal(diagnostics.PhaseCodegen, diagnostics.ErrC003_IOWriteFailed, token.Token{}, err.Error()))
	}
	return ctx
}

var _ pipeline.Processor = (*Processor)(nil)
