// Package evaluator implements the tree-walking interpreter: the second of
// the two typed-AST walkers (the other being internal/codegen), executing
// side effects directly instead of emitting IR.
package evaluator

import (
	"fmt"
	"io"

	"github.com/nox-lang/nox/internal/ast"
	"github.com/nox-lang/nox/internal/diagnostics"
	"github.com/nox-lang/nox/internal/token"
)

// Evaluator walks the typed AST, maintaining one active Env (swapped out for
// the duration of a call and restored afterward — there is no separate
// call-stack structure since the language has no explicit stack
// introspection).
type Evaluator struct {
	env   *Env
	diags *diagnostics.Bag
	Out   io.Writer
}

func New(diags *diagnostics.Bag, out io.Writer) *Evaluator {
	return &Evaluator{env: NewEnv(), diags: diags, Out: out}
}

// Run evaluates every top-level expression in program, in textual order.
func (e *Evaluator) Run(program []ast.Expr) {
	for _, expr := range program {
		e.eval(expr)
	}
}

func (e *Evaluator) eval(expr ast.Expr) Value {
	if expr == nil {
		return VoidValue{}
	}
	v, _ := expr.Accept(e).(Value)
	if v == nil {
		return VoidValue{}
	}
	return v
}

func (e *Evaluator) runtimeError(code diagnostics.ErrorCode, tok token.Token, args ...interface{}) {
	e.diags.Add(diagnostics.New(diagnostics.PhaseRuntime, code, tok, args...))
}

func (e *Evaluator) VisitBool(n *ast.BoolExpr) any     { return BoolValue{n.Value} }
func (e *Evaluator) VisitInt32(n *ast.Int32Expr) any   { return Int32Value{n.Value} }
func (e *Evaluator) VisitReal64(n *ast.Real64Expr) any { return Real64Value{n.Value} }
func (e *Evaluator) VisitStr(n *ast.StrExpr) any       { return StrValue{n.Value} }

func (e *Evaluator) VisitVar(n *ast.VarExpr) any {
	v, ok := e.env.Get(n.Name)
	if !ok {
		e.runtimeError(diagnostics.ErrR001_UndeclaredVar, n.Token(), n.Name)
		return VoidValue{}
	}
	return v
}

func (e *Evaluator) VisitNewVar(n *ast.NewVarExpr) any {
	v := e.eval(n.Init)
	e.env.Set(n.Name, v)
	return v
}

func (e *Evaluator) VisitVarAssign(n *ast.VarAssignExpr) any {
	if _, ok := e.env.Get(n.Name); !ok {
		e.runtimeError(diagnostics.ErrR002_AssignUndeclared, n.Token(), n.Name)
		return VoidValue{}
	}
	v := e.eval(n.Value)
	e.env.Set(n.Name, v)
	return v
}

func (e *Evaluator) VisitUnary(n *ast.UnaryExpr) any {
	operand := e.eval(n.Operand)
	switch n.Op {
	case token.BANG:
		b, ok := operand.(BoolValue)
		if !ok {
			e.runtimeError(diagnostics.ErrR003_OperatorType, n.Token(), "!", operand.Type().String())
			return VoidValue{}
		}
		return BoolValue{!b.V}
	case token.MINUS:
		switch v := operand.(type) {
		case Int32Value:
			return Int32Value{-v.V}
		case Real64Value:
			return Real64Value{-v.V}
		}
	case token.PLUS:
		switch operand.(type) {
		case Int32Value, Real64Value:
			return operand
		}
	}
	e.runtimeError(diagnostics.ErrR003_OperatorType, n.Token(), string(n.Op), operand.Type().String())
	return VoidValue{}
}

// asFloat promotes a numeric Value to float64; ok is false for non-numeric values.
func asFloat(v Value) (float64, bool) {
	switch t := v.(type) {
	case Int32Value:
		return float64(t.V), true
	case Real64Value:
		return t.V, true
	}
	return 0, false
}

func (e *Evaluator) VisitBinary(n *ast.BinaryExpr) any {
	l := e.eval(n.Left)
	r := e.eval(n.Right)

	li, lIsInt := l.(Int32Value)
	ri, rIsInt := r.(Int32Value)
	if lIsInt && rIsInt {
		switch n.Op {
		case token.PLUS:
			return Int32Value{li.V + ri.V}
		case token.MINUS:
			return Int32Value{li.V - ri.V}
		case token.STAR:
			return Int32Value{li.V * ri.V}
		case token.SLASH:
			if ri.V == 0 {
				e.runtimeError(diagnostics.ErrR003_OperatorType, n.Token(), "/", "division by zero")
				return VoidValue{}
			}
			return Int32Value{li.V / ri.V} // Go integer division truncates toward zero
		}
	}

	lf, lok := asFloat(l)
	rf, rok := asFloat(r)
	if !lok || !rok {
		e.runtimeError(diagnostics.ErrR003_OperatorType, n.Token(), string(n.Op),
			l.Type().String()+","+r.Type().String())
		return VoidValue{}
	}
	switch n.Op {
	case token.PLUS:
		return Real64Value{lf + rf}
	case token.MINUS:
		return Real64Value{lf - rf}
	case token.STAR:
		return Real64Value{lf * rf}
	case token.SLASH:
		return Real64Value{lf / rf}
	}
	return VoidValue{}
}

func (e *Evaluator) VisitComparison(n *ast.ComparisonExpr) any {
	l := e.eval(n.Left)
	r := e.eval(n.Right)

	if lf, lok := asFloat(l); lok {
		if rf, rok := asFloat(r); rok {
			return BoolValue{compareNumeric(n.Op, lf, rf)}
		}
	}
	if ls, ok := l.(StrValue); ok {
		if rs, ok := r.(StrValue); ok {
			return BoolValue{compareString(n.Op, ls.V, rs.V)}
		}
	}
	if lb, ok := l.(BoolValue); ok {
		if rb, ok := r.(BoolValue); ok && (n.Op == token.EQUAL_EQUAL || n.Op == token.BANG_EQUAL) {
			eq := lb.V == rb.V
			if n.Op == token.BANG_EQUAL {
				eq = !eq
			}
			return BoolValue{eq}
		}
	}
	e.runtimeError(diagnostics.ErrR003_OperatorType, n.Token(), string(n.Op),
		l.Type().String()+","+r.Type().String())
	return VoidValue{}
}

func compareNumeric(op token.Type, l, r float64) bool {
	switch op {
	case token.EQUAL_EQUAL:
		return l == r
	case token.BANG_EQUAL:
		return l != r
	case token.LESS:
		return l < r
	case token.LESS_EQUAL:
		return l <= r
	case token.GREATER:
		return l > r
	case token.GREATER_EQUAL:
		return l >= r
	}
	return false
}

func compareString(op token.Type, l, r string) bool {
	switch op {
	case token.EQUAL_EQUAL:
		return l == r
	case token.BANG_EQUAL:
		return l != r
	case token.LESS:
		return l < r
	case token.LESS_EQUAL:
		return l <= r
	case token.GREATER:
		return l > r
	case token.GREATER_EQUAL:
		return l >= r
	}
	return false
}

func (e *Evaluator) VisitLogical(n *ast.LogicalExpr) any {
	l := e.eval(n.Left)
	lb, ok := l.(BoolValue)
	if !ok {
		e.runtimeError(diagnostics.ErrR003_OperatorType, n.Token(), string(n.Op), l.Type().String())
		return VoidValue{}
	}
	if n.Op == token.OR && lb.V {
		return lb
	}
	if n.Op == token.AND && !lb.V {
		return lb
	}
	r := e.eval(n.Right)
	if _, ok := r.(BoolValue); !ok {
		e.runtimeError(diagnostics.ErrR003_OperatorType, n.Token(), string(n.Op), r.Type().String())
		return VoidValue{}
	}
	return r
}

func (e *Evaluator) VisitIfElse(n *ast.IfElseExpr) any {
	cond := e.eval(n.Condition)
	b, ok := cond.(BoolValue)
	if !ok {
		e.runtimeError(diagnostics.ErrR003_OperatorType, n.Token(), "if", cond.Type().String())
		return VoidValue{}
	}
	if b.V {
		return e.eval(n.Then)
	}
	if n.Else != nil {
		return e.eval(n.Else)
	}
	return VoidValue{}
}

func (e *Evaluator) VisitBlock(n *ast.BlockExpr) any {
	var result Value = VoidValue{}
	for _, stmt := range n.List {
		result = e.eval(stmt)
	}
	return result
}

func (e *Evaluator) VisitFunc(n *ast.FuncExpr) any {
	return FuncValue{Expr: n, Closure: e.env.Clone()}
}

func (e *Evaluator) VisitCall(n *ast.CallExpr) any {
	calleeVal := e.eval(n.Callee)
	fn, ok := calleeVal.(FuncValue)
	if !ok {
		e.runtimeError(diagnostics.ErrR004_NotAFunction, n.Token(), calleeVal.Type().String())
		return VoidValue{}
	}

	args := make([]Value, len(n.Args))
	for i, a := range n.Args {
		args[i] = e.eval(a)
	}

	callEnv := fn.Closure.Clone()
	bindCount := len(fn.Expr.Params)
	if len(args) < bindCount {
		bindCount = len(args)
	}
	for i := 0; i < bindCount; i++ {
		callEnv.Set(fn.Expr.Params[i], args[i])
	}

	saved := e.env
	e.env = callEnv
	result := e.eval(fn.Expr.Body)
	e.env = saved
	return result
}

func (e *Evaluator) VisitPrintln(n *ast.PrintlnExpr) any {
	line := ""
	for i, v := range n.Values {
		if i > 0 {
			line += ","
		}
		line += e.eval(v).String()
	}
	fmt.Fprintln(e.Out, line)
	return Int32Value{int32(len(line) + 1)}
}

var _ ast.Visitor = (*Evaluator)(nil)
