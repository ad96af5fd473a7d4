// Package ast defines the tagged-variant expression tree produced by the
// parser and annotated in place by the type pass.
package ast

import "github.com/nox-lang/nox/internal/token"

// Type is the small, closed type lattice of the language.
type Type int

const (
	VOID Type = iota
	BOOL
	I32
	R64
	STR
	FUNC
)

func (t Type) String() string {
	switch t {
	case VOID:
		return "Void"
	case BOOL:
		return "Bool"
	case I32:
		return "Int32"
	case R64:
		return "Real64"
	case STR:
		return "Str"
	case FUNC:
		return "Func"
	default:
		return "?"
	}
}

// Expr is the interface every node in the tree implements. Accept dispatches
// to the matching Visit* method, the same open-ended-traversal-via-closed-
// dispatch idiom used for every pass over the tree (type pass, evaluator,
// IR emitter, pretty printer).
type Expr interface {
	Token() token.Token
	ExprType() Type
	SetExprType(Type)
	Accept(v Visitor) any
}

// Visitor is implemented once per pass. Each pass walks the same tree
// through the same dispatch table; only the bodies differ.
type Visitor interface {
	VisitBool(*BoolExpr) any
	VisitInt32(*Int32Expr) any
	VisitReal64(*Real64Expr) any
	VisitStr(*StrExpr) any
	VisitVar(*VarExpr) any
	VisitNewVar(*NewVarExpr) any
	VisitVarAssign(*VarAssignExpr) any
	VisitUnary(*UnaryExpr) any
	VisitBinary(*BinaryExpr) any
	VisitComparison(*ComparisonExpr) any
	VisitLogical(*LogicalExpr) any
	VisitIfElse(*IfElseExpr) any
	VisitBlock(*BlockExpr) any
	VisitFunc(*FuncExpr) any
	VisitCall(*CallExpr) any
	VisitPrintln(*PrintlnExpr) any
}

// base is embedded by every node; it carries the originating token and the
// type-pass annotation slot.
type base struct {
	tok Token
	typ Type
}

// Token wraps a lexed token.Token so the ast package need not re-export it
// under an identical name at every call site.
type Token = token.Token

func (b *base) Token() token.Token  { return b.tok }
func (b *base) ExprType() Type      { return b.typ }
func (b *base) SetExprType(t Type)  { b.typ = t }

// --- Literals ---

type BoolExpr struct {
	base
	Value bool
}

func NewBool(tok Token, v bool) *BoolExpr { return &BoolExpr{base{tok, VOID}, v} }
func (n *BoolExpr) Accept(v Visitor) any  { return v.VisitBool(n) }

type Int32Expr struct {
	base
	Value int32
}

func NewInt32(tok Token, v int32) *Int32Expr { return &Int32Expr{base{tok, VOID}, v} }
func (n *Int32Expr) Accept(v Visitor) any    { return v.VisitInt32(n) }

type Real64Expr struct {
	base
	Value float64
}

func NewReal64(tok Token, v float64) *Real64Expr { return &Real64Expr{base{tok, VOID}, v} }
func (n *Real64Expr) Accept(v Visitor) any        { return v.VisitReal64(n) }

type StrExpr struct {
	base
	Value string
}

func NewStr(tok Token, v string) *StrExpr { return &StrExpr{base{tok, VOID}, v} }
func (n *StrExpr) Accept(v Visitor) any    { return v.VisitStr(n) }

// --- Variables ---

type VarExpr struct {
	base
	Name string
}

func NewVarRef(tok Token) *VarExpr     { return &VarExpr{base{tok, VOID}, tok.Lexeme} }
func (n *VarExpr) Accept(v Visitor) any { return v.VisitVar(n) }

// NewVarExpr is a declaration: `name := init`.
type NewVarExpr struct {
	base
	Name string
	Init Expr
}

func NewNewVar(tok Token, name string, init Expr) *NewVarExpr {
	return &NewVarExpr{base{tok, VOID}, name, init}
}
func (n *NewVarExpr) Accept(v Visitor) any { return v.VisitNewVar(n) }

// VarAssignExpr is a reassignment: `name = value`.
type VarAssignExpr struct {
	base
	Name  string
	Value Expr
}

func NewVarAssign(tok Token, name string, value Expr) *VarAssignExpr {
	return &VarAssignExpr{base{tok, VOID}, name, value}
}
func (n *VarAssignExpr) Accept(v Visitor) any { return v.VisitVarAssign(n) }

// --- Operators ---

type UnaryExpr struct {
	base
	Op      token.Type
	Operand Expr
}

func NewUnary(tok Token, op token.Type, operand Expr) *UnaryExpr {
	return &UnaryExpr{base{tok, VOID}, op, operand}
}
func (n *UnaryExpr) Accept(v Visitor) any { return v.VisitUnary(n) }

type BinaryExpr struct {
	base
	Op          token.Type
	Left, Right Expr
}

func NewBinary(tok Token, op token.Type, l, r Expr) *BinaryExpr {
	return &BinaryExpr{base{tok, VOID}, op, l, r}
}
func (n *BinaryExpr) Accept(v Visitor) any { return v.VisitBinary(n) }

type ComparisonExpr struct {
	base
	Op          token.Type
	Left, Right Expr
}

func NewComparison(tok Token, op token.Type, l, r Expr) *ComparisonExpr {
	return &ComparisonExpr{base{tok, VOID}, op, l, r}
}
func (n *ComparisonExpr) Accept(v Visitor) any { return v.VisitComparison(n) }

type LogicalExpr struct {
	base
	Op          token.Type // AND or OR
	Left, Right Expr
}

func NewLogical(tok Token, op token.Type, l, r Expr) *LogicalExpr {
	return &LogicalExpr{base{tok, VOID}, op, l, r}
}
func (n *LogicalExpr) Accept(v Visitor) any { return v.VisitLogical(n) }

// --- Control ---

type IfElseExpr struct {
	base
	Condition Expr
	Then      *BlockExpr
	Else      *BlockExpr // nil when absent
}

func NewIfElse(tok Token, cond Expr, then, els *BlockExpr) *IfElseExpr {
	return &IfElseExpr{base{tok, VOID}, cond, then, els}
}
func (n *IfElseExpr) Accept(v Visitor) any { return v.VisitIfElse(n) }

type BlockExpr struct {
	base
	List []Expr
}

func NewBlock(tok Token, list []Expr) *BlockExpr { return &BlockExpr{base{tok, VOID}, list} }
func (n *BlockExpr) Accept(v Visitor) any         { return v.VisitBlock(n) }

// FuncExpr is a function literal. ParamTypes and RetType stay nil/VOID until
// call-site monomorphization fills them in on the function's first Call.
type FuncExpr struct {
	base
	Params     []string
	Body       *BlockExpr
	ParamTypes []Type
	RetType    Type
	Specialized bool
}

func NewFunc(tok Token, params []string, body *BlockExpr) *FuncExpr {
	return &FuncExpr{base: base{tok, FUNC}, Params: params, Body: body}
}
func (n *FuncExpr) Accept(v Visitor) any { return v.VisitFunc(n) }

type CallExpr struct {
	base
	Callee Expr
	Args   []Expr
}

func NewCall(tok Token, callee Expr, args []Expr) *CallExpr {
	return &CallExpr{base{tok, VOID}, callee, args}
}
func (n *CallExpr) Accept(v Visitor) any { return v.VisitCall(n) }

type PrintlnExpr struct {
	base
	Values []Expr
}

func NewPrintln(tok Token, values []Expr) *PrintlnExpr {
	return &PrintlnExpr{base{tok, I32}, values}
}
func (n *PrintlnExpr) Accept(v Visitor) any { return v.VisitPrintln(n) }
