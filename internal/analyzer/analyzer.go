// Package analyzer implements the single pre-order type-inference pass: one
// Visitor walk that annotates every node's ExprType and, for first-call
// monomorphization, rewrites a Func's ParamTypes/RetType in place.
package analyzer

import (
	"github.com/nox-lang/nox/internal/ast"
	"github.com/nox-lang/nox/internal/diagnostics"
)

// Analyzer binds names to the AST node whose value they currently hold —
// not merely to a type — because a Call must re-type a function's body
// under a new environment where each parameter name resolves to its
// argument's AST node, per the call-site monomorphization rule. This
// mirrors the environment shape of the pre-distillation original's type
// pass (a name -> expression-node map), simplified to a single flat scope
// since the language has no nested lexical block scoping beyond calls.
type Analyzer struct {
	env   map[string]ast.Expr
	diags *diagnostics.Bag
}

func New(diags *diagnostics.Bag) *Analyzer {
	return &Analyzer{env: make(map[string]ast.Expr), diags: diags}
}

// Analyze runs the type pass over every top-level expression in program.
func (a *Analyzer) Analyze(program []ast.Expr) {
	for _, e := range program {
		a.infer(e)
	}
}

func (a *Analyzer) infer(e ast.Expr) ast.Type {
	if e == nil {
		return ast.VOID
	}
	t, _ := e.Accept(a).(ast.Type)
	return t
}

func (a *Analyzer) set(n ast.Expr, t ast.Type) ast.Type {
	n.SetExprType(t)
	return t
}

func (a *Analyzer) VisitBool(n *ast.BoolExpr) any     { return a.set(n, ast.BOOL) }
func (a *Analyzer) VisitInt32(n *ast.Int32Expr) any   { return a.set(n, ast.I32) }
func (a *Analyzer) VisitReal64(n *ast.Real64Expr) any { return a.set(n, ast.R64) }
func (a *Analyzer) VisitStr(n *ast.StrExpr) any       { return a.set(n, ast.STR) }

func (a *Analyzer) VisitVar(n *ast.VarExpr) any {
	bound, ok := a.env[n.Name]
	if !ok {
		a.diags.Add(diagnostics.New(diagnostics.PhaseAnalyzer, diagnostics.ErrA001_UndeclaredVar, n.Token(), n.Name))
		return a.set(n, ast.VOID)
	}
	return a.set(n, a.infer(bound))
}

func (a *Analyzer) VisitNewVar(n *ast.NewVarExpr) any {
	if _, exists := a.env[n.Name]; exists {
		a.diags.Add(diagnostics.New(diagnostics.PhaseAnalyzer, diagnostics.ErrA002_DuplicateDecl, n.Token(), n.Name))
	}
	valType := a.infer(n.Init)
	a.env[n.Name] = n.Init
	return a.set(n, valType)
}

func (a *Analyzer) VisitVarAssign(n *ast.VarAssignExpr) any {
	if _, exists := a.env[n.Name]; !exists {
		a.diags.Add(diagnostics.New(diagnostics.PhaseAnalyzer, diagnostics.ErrA003_AssignUndeclared, n.Token(), n.Name))
		a.infer(n.Value) // still annotate the value subtree
		return a.set(n, ast.VOID)
	}
	valType := a.infer(n.Value)
	a.env[n.Name] = n.Value
	return a.set(n, valType)
}

func (a *Analyzer) VisitUnary(n *ast.UnaryExpr) any {
	return a.set(n, a.infer(n.Operand))
}

// promote implements the numeric promotion rule shared by Binary arithmetic
// and (for annotation purposes only) its operands: R64 if either side is
// R64, otherwise I32.
func promote(l, r ast.Type) ast.Type {
	if l == ast.R64 || r == ast.R64 {
		return ast.R64
	}
	return ast.I32
}

func (a *Analyzer) VisitBinary(n *ast.BinaryExpr) any {
	l := a.infer(n.Left)
	r := a.infer(n.Right)
	return a.set(n, promote(l, r))
}

func (a *Analyzer) VisitComparison(n *ast.ComparisonExpr) any {
	a.infer(n.Left)
	a.infer(n.Right)
	return a.set(n, ast.BOOL)
}

func (a *Analyzer) VisitLogical(n *ast.LogicalExpr) any {
	a.infer(n.Left)
	a.infer(n.Right)
	return a.set(n, ast.BOOL)
}

func (a *Analyzer) VisitIfElse(n *ast.IfElseExpr) any {
	a.infer(n.Condition)
	thenType := a.infer(n.Then)
	if n.Else != nil {
		elseType := a.infer(n.Else)
		if elseType != thenType {
			a.diags.Add(diagnostics.New(diagnostics.PhaseAnalyzer, diagnostics.ErrA006_BranchTypeMismatch,
				n.Token(), thenType.String(), elseType.String()))
		}
	}
	return a.set(n, thenType)
}

func (a *Analyzer) VisitBlock(n *ast.BlockExpr) any {
	result := ast.VOID
	for _, stmt := range n.List {
		result = a.infer(stmt)
	}
	return a.set(n, result)
}

func (a *Analyzer) VisitFunc(n *ast.FuncExpr) any {
	// A Func has no type of its own beyond FUNC until its first Call; the
	// body is deliberately not visited here.
	return a.set(n, ast.FUNC)
}

func (a *Analyzer) VisitCall(n *ast.CallExpr) any {
	argTypes := make([]ast.Type, len(n.Args))
	for i, arg := range n.Args {
		argTypes[i] = a.infer(arg)
	}

	fn := a.resolveFunc(n.Callee)
	if fn == nil {
		a.diags.Add(diagnostics.New(diagnostics.PhaseAnalyzer, diagnostics.ErrA007_NotAFunction,
			n.Token(), a.infer(n.Callee).String()))
		return a.set(n, ast.VOID)
	}

	if len(fn.Params) != len(n.Args) {
		a.diags.Add(diagnostics.New(diagnostics.PhaseAnalyzer, diagnostics.ErrA004_ArityMismatch,
			n.Token(), len(fn.Params), len(n.Args)))
		return a.set(n, ast.VOID)
	}

	if !fn.Specialized {
		// Call-site monomorphization: bind each parameter name to its
		// argument's AST node and re-type the body once, under a saved-
		// and-restored outer environment.
		saved := a.env
		a.env = make(map[string]ast.Expr, len(saved)+len(n.Args))
		for k, v := range saved {
			a.env[k] = v
		}
		for i, param := range fn.Params {
			a.env[param] = n.Args[i]
		}
		fn.RetType = a.infer(fn.Body)
		fn.ParamTypes = argTypes
		fn.Specialized = true
		a.env = saved
	}
	// On every later call the recorded ParamTypes/RetType are reused
	// unconditionally, even if this call's argument types differ — the
	// documented single-specialization hazard, preserved intentionally.

	return a.set(n, fn.RetType)
}

// resolveFunc unwraps the callee expression to the FuncExpr it statically
// denotes: either a function literal directly, or a variable bound
// (possibly transitively) to one.
func (a *Analyzer) resolveFunc(callee ast.Expr) *ast.FuncExpr {
	seen := map[string]bool{}
	for {
		switch e := callee.(type) {
		case *ast.FuncExpr:
			return e
		case *ast.VarExpr:
			if seen[e.Name] {
				return nil
			}
			seen[e.Name] = true
			bound, ok := a.env[e.Name]
			if !ok {
				return nil
			}
			callee = bound
		default:
			return nil
		}
	}
}

func (a *Analyzer) VisitPrintln(n *ast.PrintlnExpr) any {
	for _, v := range n.Values {
		a.infer(v)
	}
	return a.set(n, ast.I32)
}

var _ ast.Visitor = (*Analyzer)(nil)
