package evaluator_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nox-lang/nox/internal/analyzer"
	"github.com/nox-lang/nox/internal/diagnostics"
	"github.com/nox-lang/nox/internal/evaluator"
	"github.com/nox-lang/nox/internal/lexer"
	"github.com/nox-lang/nox/internal/parser"
)

func run(t *testing.T, src string) (string, *diagnostics.Bag) {
	t.Helper()
	bag := diagnostics.NewBag("test")
	l := lexer.New(src)
	l.Diagnostics = bag
	p := parser.New(lexer.NewTokenStream(l), bag)
	prog := p.ParseProgram()
	analyzer.New(bag).Analyze(prog)

	var out strings.Builder
	evaluator.New(bag, &out).Run(prog)
	return out.String(), bag
}

func TestRun_Arithmetic(t *testing.T) {
	out, bag := run(t, "println(1 + 2 * 3)")
	require.False(t, bag.HasErrors())
	assert.Equal(t, "7\n", out)
}

func TestRun_IntDivisionTruncates(t *testing.T) {
	out, bag := run(t, "println(7 / 2)")
	require.False(t, bag.HasErrors())
	assert.Equal(t, "3\n", out)
}

func TestRun_RealDivisionIsIEEE(t *testing.T) {
	out, bag := run(t, "println(7.0 / 2.0)")
	require.False(t, bag.HasErrors())
	assert.Contains(t, out, "3.5")
}

func TestRun_DivisionByZeroIsRuntimeError(t *testing.T) {
	_, bag := run(t, "x := 1 / 0")
	require.True(t, bag.HasErrors())
	assert.Equal(t, diagnostics.ErrR003_OperatorType, bag.Items[0].Code)
}

func TestRun_ShortCircuitOr(t *testing.T) {
	out, bag := run(t, "println(true or (1/0 == 0))")
	require.False(t, bag.HasErrors())
	assert.Equal(t, "1\n", out)
}

func TestRun_ShortCircuitAnd(t *testing.T) {
	out, bag := run(t, "println(false and (1/0 == 0))")
	require.False(t, bag.HasErrors())
	assert.Equal(t, "0\n", out)
}

func TestRun_IfElse(t *testing.T) {
	out, bag := run(t, "if 1 < 2\n  println(1)\nelse\n  println(0)")
	require.False(t, bag.HasErrors())
	assert.Equal(t, "1\n", out)
}

func TestRun_FuncCallAndClosureSnapshot(t *testing.T) {
	src := "x := 1\nf := -> x\nx = 2\nprintln(f())"
	out, bag := run(t, src)
	require.False(t, bag.HasErrors())
	assert.Equal(t, "1\n", out, "closures capture a value snapshot, not a live reference")
}

func TestRun_PrintlnJoinsWithComma(t *testing.T) {
	out, bag := run(t, `println 1, "a", true`)
	require.False(t, bag.HasErrors())
	assert.Equal(t, "1,a,1\n", out)
}
