// Package prettyprinter renders the parsed (or typed) tree as indented text,
// backing cmd/nox's --print-ast debug flag.
package prettyprinter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/nox-lang/nox/internal/ast"
)

// TreePrinter walks the tree once, writing one indented line per node.
type TreePrinter struct {
	buf    bytes.Buffer
	indent int
}

func NewTreePrinter() *TreePrinter { return &TreePrinter{} }

func (p *TreePrinter) String() string { return p.buf.String() }

func (p *TreePrinter) write(s string) { p.buf.WriteString(s) }

func (p *TreePrinter) line(format string, args ...interface{}) {
	p.write(strings.Repeat("  ", p.indent))
	p.write(fmt.Sprintf(format, args...))
	p.write("\n")
}

// Print renders a whole program (the pipeline's top-level expression list).
func Print(program []ast.Expr) string {
	p := NewTreePrinter()
	p.write("Program\n")
	p.indent++
	for _, expr := range program {
		expr.Accept(p)
	}
	p.indent--
	return p.String()
}

func (p *TreePrinter) child(label string, e ast.Expr) {
	p.line("%s:", label)
	p.indent++
	e.Accept(p)
	p.indent--
}

func (p *TreePrinter) VisitBool(n *ast.BoolExpr) any {
	p.line("Bool %v", n.Value)
	return nil
}

func (p *TreePrinter) VisitInt32(n *ast.Int32Expr) any {
	p.line("Int32 %d", n.Value)
	return nil
}

func (p *TreePrinter) VisitReal64(n *ast.Real64Expr) any {
	p.line("Real64 %f", n.Value)
	return nil
}

func (p *TreePrinter) VisitStr(n *ast.StrExpr) any {
	p.line("Str %q", n.Value)
	return nil
}

func (p *TreePrinter) VisitVar(n *ast.VarExpr) any {
	p.line("Var %s [%s]", n.Name, n.ExprType())
	return nil
}

func (p *TreePrinter) VisitNewVar(n *ast.NewVarExpr) any {
	p.line("NewVar %s :=", n.Name)
	p.indent++
	n.Init.Accept(p)
	p.indent--
	return nil
}

func (p *TreePrinter) VisitVarAssign(n *ast.VarAssignExpr) any {
	p.line("VarAssign %s =", n.Name)
	p.indent++
	n.Value.Accept(p)
	p.indent--
	return nil
}

func (p *TreePrinter) VisitUnary(n *ast.UnaryExpr) any {
	p.line("Unary %s", n.Op)
	p.indent++
	n.Operand.Accept(p)
	p.indent--
	return nil
}

func (p *TreePrinter) VisitBinary(n *ast.BinaryExpr) any {
	p.line("Binary %s [%s]", n.Op, n.ExprType())
	p.indent++
	p.child("left", n.Left)
	p.child("right", n.Right)
	p.indent--
	return nil
}

func (p *TreePrinter) VisitComparison(n *ast.ComparisonExpr) any {
	p.line("Comparison %s", n.Op)
	p.indent++
	p.child("left", n.Left)
	p.child("right", n.Right)
	p.indent--
	return nil
}

func (p *TreePrinter) VisitLogical(n *ast.LogicalExpr) any {
	p.line("Logical %s", n.Op)
	p.indent++
	p.child("left", n.Left)
	p.child("right", n.Right)
	p.indent--
	return nil
}

func (p *TreePrinter) VisitIfElse(n *ast.IfElseExpr) any {
	p.line("IfElse")
	p.indent++
	p.child("condition", n.Condition)
	p.line("then:")
	p.indent++
	n.Then.Accept(p)
	p.indent--
	if n.Else != nil {
		p.line("else:")
		p.indent++
		n.Else.Accept(p)
		p.indent--
	}
	p.indent--
	return nil
}

func (p *TreePrinter) VisitBlock(n *ast.BlockExpr) any {
	for _, stmt := range n.List {
		stmt.Accept(p)
	}
	return nil
}

func (p *TreePrinter) VisitFunc(n *ast.FuncExpr) any {
	p.line("Func(%s) specialized=%v ret=%s", strings.Join(n.Params, ", "), n.Specialized, n.RetType)
	p.indent++
	n.Body.Accept(p)
	p.indent--
	return nil
}

func (p *TreePrinter) VisitCall(n *ast.CallExpr) any {
	p.line("Call")
	p.indent++
	p.child("callee", n.Callee)
	for i, a := range n.Args {
		p.child(fmt.Sprintf("arg%d", i), a)
	}
	p.indent--
	return nil
}

func (p *TreePrinter) VisitPrintln(n *ast.PrintlnExpr) any {
	p.line("Println")
	p.indent++
	for i, v := range n.Values {
		p.child(fmt.Sprintf("value%d", i), v)
	}
	p.indent--
	return nil
}

var _ ast.Visitor = (*TreePrinter)(nil)
