package pipeline

import (
	"github.com/google/uuid"

	"github.com/nox-lang/nox/internal/ast"
	"github.com/nox-lang/nox/internal/diagnostics"
)

// Context holds all the data passed between pipeline stages: source text in,
// a parsed and (after the analyzer stage) typed program, and the running
// diagnostic bag.
type Context struct {
	SourceCode string
	FilePath   string

	TokenStream TokenStream
	Program     []ast.Expr

	Diagnostics *diagnostics.Bag

	// RunID identifies one pipeline run; the codegen stage stamps it into
	// the emitted module as the @nox.run_id global.
	RunID uuid.UUID
}

// NewContext creates and initializes a new Context for a single source file.
func NewContext(source, filePath string) *Context {
	return &Context{
		SourceCode:  source,
		FilePath:    filePath,
		Diagnostics: diagnostics.NewBag(filePath),
		RunID:       uuid.New(),
	}
}
