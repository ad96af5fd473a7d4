package codegen_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nox-lang/nox/internal/analyzer"
	"github.com/nox-lang/nox/internal/codegen"
	"github.com/nox-lang/nox/internal/diagnostics"
	"github.com/nox-lang/nox/internal/lexer"
	"github.com/nox-lang/nox/internal/parser"
)

func emit(t *testing.T, src string) (string, *diagnostics.Bag) {
	t.Helper()
	bag := diagnostics.NewBag("test")
	l := lexer.New(src)
	l.Diagnostics = bag
	p := parser.New(lexer.NewTokenStream(l), bag)
	prog := p.ParseProgram()
	analyzer.New(bag).Analyze(prog)

	e := codegen.New(bag, uuid.New(), "test.nox")
	return e.Emit(prog), bag
}

func TestEmit_MainAlwaysReturnsZero(t *testing.T) {
	ir, bag := emit(t, "x := 1")
	require.False(t, bag.HasErrors())
	assert.Contains(t, ir, "define i32 @main()")
	assert.Contains(t, ir, "ret i32 0")
}

func TestEmit_DeclaresPrintf(t *testing.T) {
	ir, bag := emit(t, "println(1)")
	require.False(t, bag.HasErrors())
	assert.Contains(t, ir, "declare i32 @printf")
}

func TestEmit_GlobalForTopLevelVar(t *testing.T) {
	ir, bag := emit(t, "x := 1")
	require.False(t, bag.HasErrors())
	assert.Contains(t, ir, "@x = global i32 0")
}

func TestEmit_FunctionGetsItsOwnLLVMFunc(t *testing.T) {
	ir, bag := emit(t, "f := x -> x + 1\nr := f(2)")
	require.False(t, bag.HasErrors())
	assert.Contains(t, ir, "define i32 @fn.1")
}

func TestEmit_IfElseProducesThreeBlocks(t *testing.T) {
	// Distinct names per branch: the analyzer's env is a single flat map
	// with no save/restore around either branch, so same-named decls in
	// both branches would collide as a duplicate declaration.
	ir, bag := emit(t, "if true\n  x := 1\nelse\n  y := 2")
	require.False(t, bag.HasErrors())
	assert.Contains(t, ir, "then:")
	assert.Contains(t, ir, "else:")
	assert.Contains(t, ir, "endIf:")
}

func TestEmit_LogicalOrProducesPhi(t *testing.T) {
	ir, bag := emit(t, "x := true or false")
	require.False(t, bag.HasErrors())
	assert.Contains(t, ir, "phi i1")
}

func TestEmit_DedupesIdenticalFormatStrings(t *testing.T) {
	ir, bag := emit(t, "println(1)\nprintln(2)")
	require.False(t, bag.HasErrors())
	assert.Contains(t, ir, "@fmt.0")
	assert.NotContains(t, ir, "@fmt.1", "identical format strings should share one global")
}
