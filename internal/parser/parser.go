// Package parser implements the recursive-descent parser. The cursor shape
// (a fully materialized token sequence addressed by top(offset)/pop()) is
// grounded directly on the pre-distillation original's abstract syntax tree
// cursor, which operates the same way over a pre-tokenized vector.
package parser

import (
	"github.com/nox-lang/nox/internal/ast"
	"github.com/nox-lang/nox/internal/diagnostics"
	"github.com/nox-lang/nox/internal/lexer"
	"github.com/nox-lang/nox/internal/pipeline"
	"github.com/nox-lang/nox/internal/token"
)

// Parser walks a fully materialized token sequence with arbitrary-offset
// lookahead (top(0), top(1), ... ) — a generalization of the "two-token
// lookahead" the grammar itself only strictly requires, needed to test
// whether an upcoming run of tokens is a function parameter list.
type Parser struct {
	tokens []token.Token
	pos    int
	diags  *diagnostics.Bag
}

func New(stream pipeline.TokenStream, diags *diagnostics.Bag) *Parser {
	var toks []token.Token
	for {
		t := stream.Next()
		toks = append(toks, t)
		if t.IsEOF() {
			break
		}
	}
	return &Parser{tokens: toks, diags: diags}
}

func (p *Parser) top(offset int) token.Token {
	i := p.pos + offset
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // END_OF_FILE sentinel
	}
	return p.tokens[i]
}

func (p *Parser) pop() token.Token {
	t := p.top(0)
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) atEnd() bool { return p.top(0).IsEOF() }

func (p *Parser) check(t token.Type) bool { return p.top(0).Type == t }

// expect consumes the current token if it matches t, diagnosing otherwise
// and continuing as though it had matched — the "missing ')'" style of
// error recovery generalized to any expected single-token terminator.
func (p *Parser) expect(t token.Type) token.Token {
	if p.check(t) {
		return p.pop()
	}
	p.diags.Add(diagnostics.New(diagnostics.PhaseParser, diagnostics.ErrP001_UnexpectedToken,
		p.top(0), string(t), string(p.top(0).Type)))
	return p.top(0)
}

// ParseProgram parses the entire token sequence as one top-level block,
// anchored on the column of the very first token.
func (p *Parser) ParseProgram() []ast.Expr {
	if p.atEnd() {
		return nil
	}
	return p.parseStatements(p.top(0).Column)
}

// parseStatements parses the maximal run of top-level expressions sharing
// the given anchor column — the same routine used for function/if/else
// bodies, since a top-level program is just the outermost block.
func (p *Parser) parseStatements(anchor int) []ast.Expr {
	var list []ast.Expr
	for !p.atEnd() && p.top(0).Column == anchor {
		before := p.pos
		expr := p.parseExpression()
		if expr == nil {
			// Unrecognizable at a statement-start position: primary() has
			// already diagnosed; skip the offending token and retry.
			if p.pos == before {
				p.pop()
			}
			continue
		}
		list = append(list, expr)
		if p.pos == before {
			p.pop()
		}
	}
	return list
}

func (p *Parser) parseBlock() *ast.BlockExpr {
	tok := p.top(0)
	if p.atEnd() {
		return ast.NewBlock(tok, nil)
	}
	anchor := p.top(0).Column
	return ast.NewBlock(tok, p.parseStatements(anchor))
}

// parseExpression implements the top grammar rule:
//
//	expression := assign | decl | println | func | if | logicalOr
func (p *Parser) parseExpression() ast.Expr {
	cur := p.top(0)
	if cur.Type == token.IDENTIFIER {
		switch p.top(1).Type {
		case token.COLON_EQUAL:
			return p.parseDecl()
		case token.EQUAL:
			return p.parseAssign()
		}
		if cur.Lexeme == token.PrintlnIdent {
			return p.parsePrintln()
		}
	}
	if p.looksLikeFuncHead() {
		return p.parseFunc()
	}
	if cur.Type == token.IF {
		return p.parseIf()
	}
	return p.parseLogicalOr()
}

func (p *Parser) parseDecl() ast.Expr {
	nameTok := p.pop()
	p.pop() // ':='
	value := p.parseExpression()
	return ast.NewNewVar(nameTok, nameTok.Lexeme, value)
}

func (p *Parser) parseAssign() ast.Expr {
	nameTok := p.pop()
	p.pop() // '='
	value := p.parseExpression()
	return ast.NewVarAssign(nameTok, nameTok.Lexeme, value)
}

func (p *Parser) parsePrintln() ast.Expr {
	tok := p.pop() // 'println'
	var args []ast.Expr
	if p.check(token.LEFT_PAREN) {
		p.pop()
		if !p.check(token.RIGHT_PAREN) {
			args = p.parseExprList()
		}
		p.expectRParen()
	} else {
		args = p.parseExprList()
	}
	return ast.NewPrintln(tok, args)
}

func (p *Parser) parseExprList() []ast.Expr {
	var list []ast.Expr
	list = append(list, p.parseExpression())
	for p.check(token.COMMA) {
		p.pop()
		list = append(list, p.parseExpression())
	}
	return list
}

func (p *Parser) parseIf() ast.Expr {
	tok := p.pop() // 'if'
	cond := p.parseExpression()
	then := p.parseBlock()
	var els *ast.BlockExpr
	if p.check(token.ELSE) {
		p.pop()
		els = p.parseBlock()
	}
	return ast.NewIfElse(tok, cond, then, els)
}

// looksLikeFuncHead tests whether the tokens starting at top(0) form a
// function parameter list terminated by '->', tolerating an optional
// enclosing '(' ')' and allowing zero parameters.
func (p *Parser) looksLikeFuncHead() bool {
	if p.check(token.MINUS_GREATER) {
		return true // bare zero-parameter arrow
	}
	if p.check(token.LEFT_PAREN) {
		i := 1
		for {
			t := p.top(i)
			if t.Type == token.RIGHT_PAREN {
				return p.top(i + 1).Type == token.MINUS_GREATER
			}
			if t.Type == token.IDENTIFIER || t.Type == token.COMMA {
				i++
				continue
			}
			return false
		}
	}
	if p.check(token.IDENTIFIER) {
		i := 0
		for p.top(i).Type == token.IDENTIFIER {
			i++
			if p.top(i).Type == token.COMMA {
				i++
				continue
			}
			break
		}
		return p.top(i).Type == token.MINUS_GREATER
	}
	return false
}

func (p *Parser) parseFunc() ast.Expr {
	tok := p.top(0)
	var params []string
	if p.check(token.LEFT_PAREN) {
		p.pop()
		for !p.check(token.RIGHT_PAREN) {
			nameTok := p.expect(token.IDENTIFIER)
			params = append(params, nameTok.Lexeme)
			if p.check(token.COMMA) {
				p.pop()
			} else {
				break
			}
		}
		p.expectRParen()
	} else {
		for p.check(token.IDENTIFIER) {
			nameTok := p.pop()
			params = append(params, nameTok.Lexeme)
			if p.check(token.COMMA) {
				p.pop()
				continue
			}
			break
		}
	}
	p.expect(token.MINUS_GREATER)
	body := p.parseBlock()
	return ast.NewFunc(tok, params, body)
}

// --- Operator-precedence climbing, weakest to tightest ---

func (p *Parser) parseLogicalOr() ast.Expr {
	left := p.parseLogicalAnd()
	for p.check(token.OR) {
		tok := p.pop()
		right := p.parseLogicalAnd()
		left = ast.NewLogical(tok, token.OR, left, right)
	}
	return left
}

func (p *Parser) parseLogicalAnd() ast.Expr {
	left := p.parseEquality()
	for p.check(token.AND) {
		tok := p.pop()
		right := p.parseEquality()
		left = ast.NewLogical(tok, token.AND, left, right)
	}
	return left
}

func (p *Parser) parseEquality() ast.Expr {
	left := p.parseComparison()
	for p.check(token.EQUAL_EQUAL) || p.check(token.BANG_EQUAL) {
		tok := p.pop()
		right := p.parseComparison()
		left = ast.NewComparison(tok, tok.Type, left, right)
	}
	return left
}

func (p *Parser) parseComparison() ast.Expr {
	left := p.parseTerm()
	for p.check(token.LESS) || p.check(token.LESS_EQUAL) || p.check(token.GREATER) || p.check(token.GREATER_EQUAL) {
		tok := p.pop()
		right := p.parseTerm()
		left = ast.NewComparison(tok, tok.Type, left, right)
	}
	return left
}

func (p *Parser) parseTerm() ast.Expr {
	left := p.parseFactor()
	for p.check(token.PLUS) || p.check(token.MINUS) {
		tok := p.pop()
		right := p.parseFactor()
		left = ast.NewBinary(tok, tok.Type, left, right)
	}
	return left
}

func (p *Parser) parseFactor() ast.Expr {
	left := p.parseUnary()
	for p.check(token.STAR) || p.check(token.SLASH) {
		tok := p.pop()
		right := p.parseUnary()
		left = ast.NewBinary(tok, tok.Type, left, right)
	}
	return left
}

func (p *Parser) parseUnary() ast.Expr {
	if p.check(token.BANG) || p.check(token.MINUS) || p.check(token.PLUS) {
		tok := p.pop()
		operand := p.parseUnary()
		return ast.NewUnary(tok, tok.Type, operand)
	}
	return p.parseCall()
}

func (p *Parser) parseCall() ast.Expr {
	expr := p.parsePrimary()
	if expr == nil {
		return nil
	}
	if p.check(token.LEFT_PAREN) {
		tok := p.pop()
		var args []ast.Expr
		if !p.check(token.RIGHT_PAREN) {
			args = p.parseExprList()
		}
		p.expectRParen()
		return ast.NewCall(tok, expr, args)
	}
	return expr
}

func (p *Parser) parsePrimary() ast.Expr {
	tok := p.top(0)
	switch tok.Type {
	case token.TRUE:
		p.pop()
		return ast.NewBool(tok, true)
	case token.FALSE:
		p.pop()
		return ast.NewBool(tok, false)
	case token.NUMBER:
		p.pop()
		isReal, i32, r64, err := lexer.ParseNumberLiteral(tok.Lexeme)
		if err != nil {
			p.diags.Add(diagnostics.New(diagnostics.PhaseParser, diagnostics.ErrP005_MalformedNumber, tok, tok.Lexeme))
		}
		if isReal {
			return ast.NewReal64(tok, r64)
		}
		return ast.NewInt32(tok, i32)
	case token.STRING:
		p.pop()
		return ast.NewStr(tok, tok.Lexeme)
	case token.IDENTIFIER:
		p.pop()
		return ast.NewVarRef(tok)
	case token.LEFT_PAREN:
		p.pop()
		inner := p.parseExpression()
		p.expectRParen()
		return inner
	}
	p.diags.Add(diagnostics.New(diagnostics.PhaseParser, diagnostics.ErrP004_NoPrefixParseFn, tok, string(tok.Type)))
	return nil
}

// expectRParen implements the specified recovery: a missing ')' is
// reported but parsing continues as though the token had been present.
func (p *Parser) expectRParen() {
	if p.check(token.RIGHT_PAREN) {
		p.pop()
		return
	}
	p.diags.Add(diagnostics.New(diagnostics.PhaseParser, diagnostics.ErrP002_MissingRParen, p.top(0)))
}
