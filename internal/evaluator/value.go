package evaluator

import (
	"fmt"
	"strconv"

	"github.com/nox-lang/nox/internal/ast"
)

// Value is the tagged runtime value produced by the tree-walking
// interpreter: Bool, Int32, Real64, Str, FuncValue, or Void.
type Value interface {
	Type() ast.Type
	String() string
}

type BoolValue struct{ V bool }

func (BoolValue) Type() ast.Type { return ast.BOOL }
func (v BoolValue) String() string {
	if v.V {
		return "1"
	}
	return "0"
}

type Int32Value struct{ V int32 }

func (Int32Value) Type() ast.Type     { return ast.I32 }
func (v Int32Value) String() string { return strconv.Itoa(int(v.V)) }

type Real64Value struct{ V float64 }

func (Real64Value) Type() ast.Type     { return ast.R64 }
func (v Real64Value) String() string { return fmt.Sprintf("%f", v.V) }

type StrValue struct{ V string }

func (StrValue) Type() ast.Type     { return ast.STR }
func (v StrValue) String() string { return v.V }

// FuncValue is a closure: the function literal plus a value-snapshot of the
// environment at the point the literal was evaluated, per the specified
// by-snapshot (not by-reference) capture semantics.
type FuncValue struct {
	Expr    *ast.FuncExpr
	Closure *Env
}

func (FuncValue) Type() ast.Type     { return ast.FUNC }
func (FuncValue) String() string { return "function" }

type VoidValue struct{}

func (VoidValue) Type() ast.Type     { return ast.VOID }
func (VoidValue) String() string { return "" }

// Env is a flat name -> Value scope. Clone takes the value-snapshot a
// closure needs at creation time and a fresh call frame needs at call time.
type Env struct {
	vars map[string]Value
}

func NewEnv() *Env { return &Env{vars: make(map[string]Value)} }

func (e *Env) Get(name string) (Value, bool) {
	v, ok := e.vars[name]
	return v, ok
}

func (e *Env) Set(name string, v Value) { e.vars[name] = v }

func (e *Env) Clone() *Env {
	cp := make(map[string]Value, len(e.vars))
	for k, v := range e.vars {
		cp[k] = v
	}
	return &Env{vars: cp}
}
