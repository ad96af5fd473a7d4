package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nox-lang/nox/internal/ast"
	"github.com/nox-lang/nox/internal/diagnostics"
	"github.com/nox-lang/nox/internal/lexer"
	"github.com/nox-lang/nox/internal/parser"
	"github.com/nox-lang/nox/internal/token"
)

func parse(t *testing.T, src string) ([]ast.Expr, *diagnostics.Bag) {
	t.Helper()
	bag := diagnostics.NewBag("test")
	l := lexer.New(src)
	l.Diagnostics = bag
	stream := lexer.NewTokenStream(l)
	p := parser.New(stream, bag)
	return p.ParseProgram(), bag
}

func TestParseProgram_DeclAndAssign(t *testing.T) {
	prog, bag := parse(t, "a := 1\na = 2")
	require.False(t, bag.HasErrors())
	require.Len(t, prog, 2)
	decl, ok := prog[0].(*ast.NewVarExpr)
	require.True(t, ok)
	assert.Equal(t, "a", decl.Name)
	assign, ok := prog[1].(*ast.VarAssignExpr)
	require.True(t, ok)
	assert.Equal(t, "a", assign.Name)
}

func TestParseProgram_ArithmeticPrecedence(t *testing.T) {
	prog, bag := parse(t, "x := 1 + 2 * 3")
	require.False(t, bag.HasErrors())
	decl := prog[0].(*ast.NewVarExpr)
	bin := decl.Init.(*ast.BinaryExpr)
	assert.Equal(t, token.PLUS, bin.Op)
	_, ok := bin.Right.(*ast.BinaryExpr)
	require.True(t, ok, "multiplication should bind tighter and nest on the right")
}

func TestParseProgram_IfElse(t *testing.T) {
	src := "if true\n  a := 1\nelse\n  a := 2"
	prog, bag := parse(t, src)
	require.False(t, bag.HasErrors())
	require.Len(t, prog, 1)
	ifExpr, ok := prog[0].(*ast.IfElseExpr)
	require.True(t, ok)
	assert.Len(t, ifExpr.Then.List, 1)
	require.NotNil(t, ifExpr.Else)
	assert.Len(t, ifExpr.Else.List, 1)
}

func TestParseProgram_BlockAnchorByColumn(t *testing.T) {
	src := "if true\n  a := 1\n  b := 2\nc := 3"
	prog, bag := parse(t, src)
	require.False(t, bag.HasErrors())
	require.Len(t, prog, 2, "the dedented statement should close the if-block")
	ifExpr := prog[0].(*ast.IfElseExpr)
	assert.Len(t, ifExpr.Then.List, 2)
}

func TestParseProgram_FuncLiteralBareArrow(t *testing.T) {
	prog, bag := parse(t, "f := x, y -> x + y")
	require.False(t, bag.HasErrors())
	decl := prog[0].(*ast.NewVarExpr)
	fn, ok := decl.Init.(*ast.FuncExpr)
	require.True(t, ok)
	assert.Equal(t, []string{"x", "y"}, fn.Params)
}

func TestParseProgram_FuncLiteralParenthesized(t *testing.T) {
	prog, bag := parse(t, "f := (x, y) -> x + y")
	require.False(t, bag.HasErrors())
	decl := prog[0].(*ast.NewVarExpr)
	fn, ok := decl.Init.(*ast.FuncExpr)
	require.True(t, ok)
	assert.Equal(t, []string{"x", "y"}, fn.Params)
}

func TestParseProgram_ZeroParamFunc(t *testing.T) {
	prog, bag := parse(t, "f := -> 1")
	require.False(t, bag.HasErrors())
	decl := prog[0].(*ast.NewVarExpr)
	fn, ok := decl.Init.(*ast.FuncExpr)
	require.True(t, ok)
	assert.Empty(t, fn.Params)
}

func TestParseProgram_Call(t *testing.T) {
	prog, bag := parse(t, "r := f(1, 2)")
	require.False(t, bag.HasErrors())
	decl := prog[0].(*ast.NewVarExpr)
	call, ok := decl.Init.(*ast.CallExpr)
	require.True(t, ok)
	assert.Len(t, call.Args, 2)
}

func TestParseProgram_Println(t *testing.T) {
	prog, bag := parse(t, `println(1, "x")`)
	require.False(t, bag.HasErrors())
	pr, ok := prog[0].(*ast.PrintlnExpr)
	require.True(t, ok)
	assert.Len(t, pr.Values, 2)
}

func TestParseProgram_MissingRParenRecovers(t *testing.T) {
	prog, bag := parse(t, "x := (1 + 2\ny := 3")
	require.True(t, bag.HasErrors())
	assert.Equal(t, diagnostics.ErrP002_MissingRParen, bag.Items[0].Code)
	require.Len(t, prog, 2, "parsing should continue past the missing ')'")
}

func TestParseProgram_UnrecognizableTokenRecovers(t *testing.T) {
	prog, bag := parse(t, "a := 1\n)\nb := 2")
	require.True(t, bag.HasErrors())
	require.Len(t, prog, 2, "the stray ')' should be skipped, not abort parsing")
}
