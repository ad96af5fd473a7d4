package analyzer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nox-lang/nox/internal/analyzer"
	"github.com/nox-lang/nox/internal/ast"
	"github.com/nox-lang/nox/internal/diagnostics"
	"github.com/nox-lang/nox/internal/lexer"
	"github.com/nox-lang/nox/internal/parser"
)

func typecheck(t *testing.T, src string) ([]ast.Expr, *diagnostics.Bag) {
	t.Helper()
	bag := diagnostics.NewBag("test")
	l := lexer.New(src)
	l.Diagnostics = bag
	p := parser.New(lexer.NewTokenStream(l), bag)
	prog := p.ParseProgram()
	analyzer.New(bag).Analyze(prog)
	return prog, bag
}

func TestAnalyze_NumericPromotion(t *testing.T) {
	prog, bag := typecheck(t, "x := 1 + 2.0")
	require.False(t, bag.HasErrors())
	assert.Equal(t, ast.R64, prog[0].ExprType())
}

func TestAnalyze_IntOnlyStaysInt32(t *testing.T) {
	prog, bag := typecheck(t, "x := 1 + 2")
	require.False(t, bag.HasErrors())
	assert.Equal(t, ast.I32, prog[0].ExprType())
}

func TestAnalyze_UndeclaredVar(t *testing.T) {
	_, bag := typecheck(t, "y := x + 1")
	require.True(t, bag.HasErrors())
	assert.Equal(t, diagnostics.ErrA001_UndeclaredVar, bag.Items[0].Code)
}

func TestAnalyze_AssignUndeclared(t *testing.T) {
	_, bag := typecheck(t, "x = 1")
	require.True(t, bag.HasErrors())
	assert.Equal(t, diagnostics.ErrA003_AssignUndeclared, bag.Items[0].Code)
}

func TestAnalyze_DuplicateDecl(t *testing.T) {
	_, bag := typecheck(t, "x := 1\nx := 2")
	require.True(t, bag.HasErrors())
	assert.Equal(t, diagnostics.ErrA002_DuplicateDecl, bag.Items[0].Code)
}

func TestAnalyze_IfElseBranchMismatch(t *testing.T) {
	src := "if true\n  a := 1\nelse\n  b := 1.0"
	_, bag := typecheck(t, src)
	require.True(t, bag.HasErrors())
	assert.Equal(t, diagnostics.ErrA006_BranchTypeMismatch, bag.Items[0].Code)
}

func TestAnalyze_CallSiteMonomorphization(t *testing.T) {
	prog, bag := typecheck(t, "f := x -> x + 1\nr := f(2)")
	require.False(t, bag.HasErrors())
	decl := prog[0].(*ast.NewVarExpr)
	fn := decl.Init.(*ast.FuncExpr)
	require.True(t, fn.Specialized)
	assert.Equal(t, []ast.Type{ast.I32}, fn.ParamTypes)
	assert.Equal(t, ast.I32, fn.RetType)
}

func TestAnalyze_ArityMismatch(t *testing.T) {
	_, bag := typecheck(t, "f := x -> x\nr := f(1, 2)")
	require.True(t, bag.HasErrors())
	assert.Equal(t, diagnostics.ErrA004_ArityMismatch, bag.Items[0].Code)
}

func TestAnalyze_CallOnNonFunction(t *testing.T) {
	_, bag := typecheck(t, "x := 1\nr := x(2)")
	require.True(t, bag.HasErrors())
	assert.Equal(t, diagnostics.ErrA007_NotAFunction, bag.Items[0].Code)
}

func TestAnalyze_Println(t *testing.T) {
	prog, bag := typecheck(t, `println(1, "x")`)
	require.False(t, bag.HasErrors())
	assert.Equal(t, ast.I32, prog[0].ExprType())
}
