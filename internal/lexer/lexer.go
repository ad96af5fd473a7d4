// Package lexer turns source bytes into a token stream. The cursor shape
// (position/readPosition/line/column with a one-character-ahead peek) is the
// same shape used throughout the corpus this project grew out of; the
// handler list and literal grammar below are this language's own.
package lexer

import (
	"strconv"
	"strings"

	"github.com/nox-lang/nox/internal/diagnostics"
	"github.com/nox-lang/nox/internal/token"
)

// Lexer converts a source string into tokens one at a time via NextToken.
type Lexer struct {
	input        string
	position     int
	readPosition int
	ch           byte
	line         int
	column       int

	Diagnostics *diagnostics.Bag
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: -1}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = -1
	}
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	l.column++
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) atEnd() bool { return l.ch == 0 }

// skipWhitespace consumes spaces, tabs, newlines, and // line comments.
// Blocks have no brace delimiters; indentation is read later, by the
// parser, directly off each token's Column, so whitespace carries no
// syntactic weight here beyond separating lexemes.
func (l *Lexer) skipWhitespace() {
	for {
		switch l.ch {
		case ' ', '\t', '\r', '\n':
			l.readChar()
		case '/':
			if l.peekChar() == '/' {
				for l.ch != '\n' && !l.atEnd() {
					l.readChar()
				}
				continue
			}
			return
		default:
			return
		}
	}
}

func (l *Lexer) make(typ token.Type, lexeme string, line, col int) token.Token {
	return token.Token{Type: typ, Lexeme: lexeme, Line: line, Column: col}
}

// NextToken implements the ordered-handler algorithm: comments and
// whitespace, then multi-character symbols (longest match first to
// disambiguate shared prefixes), then single-character symbols, then
// keywords, then numbers, strings, and identifiers. Unmatched bytes are
// skipped with a diagnostic and the scan retries.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()

	line, col := l.line, l.column

	if l.atEnd() {
		return l.make(token.END_OF_FILE, "", line, col)
	}

	if tok, ok := l.matchMultiCharSymbol(line, col); ok {
		return tok
	}
	if tok, ok := l.matchSingleCharSymbol(line, col); ok {
		return tok
	}

	switch {
	case isDigit(l.ch):
		return l.readNumber(line, col)
	case l.ch == '"':
		return l.readString(line, col)
	case isIdentStart(l.ch):
		return l.readIdentifierOrKeyword(line, col)
	}

	ch := l.ch
	l.Diagnostics.Add(diagnostics.New(diagnostics.PhaseLexer, diagnostics.ErrL001_InvalidChar,
		l.make(token.IDENTIFIER, string(ch), line, col), string(ch)))
	l.readChar()
	return l.NextToken()
}

// multiCharSymbols lists the two-character operators in prefix-disambiguating
// order: every entry here shares its first byte with a shorter single-char
// symbol below, so it must be tried first.
var multiCharSymbols = []struct {
	text string
	typ  token.Type
}{
	{"!=", token.BANG_EQUAL},
	{"==", token.EQUAL_EQUAL},
	{">=", token.GREATER_EQUAL},
	{"<=", token.LESS_EQUAL},
	{":=", token.COLON_EQUAL},
	{"->", token.MINUS_GREATER},
}

func (l *Lexer) matchMultiCharSymbol(line, col int) (token.Token, bool) {
	for _, sym := range multiCharSymbols {
		if l.ch == sym.text[0] && l.peekChar() == sym.text[1] {
			l.readChar()
			l.readChar()
			return l.make(sym.typ, sym.text, line, col), true
		}
	}
	return token.Token{}, false
}

var singleCharSymbols = map[byte]token.Type{
	'(': token.LEFT_PAREN,
	')': token.RIGHT_PAREN,
	'{': token.LEFT_BRACE,
	'}': token.RIGHT_BRACE,
	',': token.COMMA,
	'+': token.PLUS,
	'-': token.MINUS,
	'*': token.STAR,
	'/': token.SLASH,
	'=': token.EQUAL,
	'!': token.BANG,
	'>': token.GREATER,
	'<': token.LESS,
	':': token.COLON,
	'.': token.DOT,
}

func (l *Lexer) matchSingleCharSymbol(line, col int) (token.Token, bool) {
	typ, ok := singleCharSymbols[l.ch]
	if !ok {
		return token.Token{}, false
	}
	ch := l.ch
	l.readChar()
	return l.make(typ, string(ch), line, col), true
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch byte) bool { return isIdentStart(ch) || isDigit(ch) }

func isWhitespaceOrEnd(ch byte) bool {
	switch ch {
	case ' ', '\t', '\r', '\n', 0:
		return true
	}
	return false
}

// readNumber reads a digit sequence with an optional single '.'. Underscores
// inside the digits are skipped; a second '.' is diagnosed but recovered by
// keeping only the first.
func (l *Lexer) readNumber(line, col int) token.Token {
	var sb strings.Builder
	seenDot := false
	for isDigit(l.ch) || l.ch == '_' || (l.ch == '.' && isDigit(l.peekChar())) {
		if l.ch == '_' {
			l.readChar()
			continue
		}
		if l.ch == '.' {
			if seenDot {
				l.Diagnostics.Add(diagnostics.New(diagnostics.PhaseLexer, diagnostics.ErrL003_DoubleDot,
					l.make(token.NUMBER, sb.String(), line, col)))
				l.readChar()
				continue
			}
			seenDot = true
		}
		sb.WriteByte(l.ch)
		l.readChar()
	}
	return l.make(token.NUMBER, sb.String(), line, col)
}

// readString reads a "..."-delimited string body verbatim. An unterminated
// string is a fatal lex error.
func (l *Lexer) readString(line, col int) token.Token {
	l.readChar() // consume opening quote
	var sb strings.Builder
	for l.ch != '"' {
		if l.atEnd() {
			tok := l.make(token.STRING, sb.String(), line, col)
			l.Diagnostics.Add(diagnostics.NewFatal(diagnostics.PhaseLexer, diagnostics.ErrL002_UnterminatedString, tok))
			return tok
		}
		sb.WriteByte(l.ch)
		l.readChar()
	}
	l.readChar() // consume closing quote
	return l.make(token.STRING, sb.String(), line, col)
}

// readIdentifierOrKeyword reads an identifier and promotes it to a keyword
// token only when the identifier is immediately followed by whitespace or
// end of input, per the lexer's ordered-handler rule: keyword handlers only
// match when followed by whitespace/EOF.
func (l *Lexer) readIdentifierOrKeyword(line, col int) token.Token {
	var sb strings.Builder
	for isIdentPart(l.ch) {
		sb.WriteByte(l.ch)
		l.readChar()
	}
	text := sb.String()
	if isWhitespaceOrEnd(l.ch) {
		if typ, ok := token.Keywords[text]; ok {
			return l.make(typ, text, line, col)
		}
	}
	return l.make(token.IDENTIFIER, text, line, col)
}

// ParseNumberLiteral classifies a NUMBER token's lexeme per spec: a literal
// containing '.' is Real64, otherwise Int32.
func ParseNumberLiteral(lexeme string) (isReal bool, i32 int32, r64 float64, err error) {
	if strings.Contains(lexeme, ".") {
		v, perr := strconv.ParseFloat(lexeme, 64)
		return true, 0, v, perr
	}
	v, perr := strconv.ParseInt(lexeme, 10, 32)
	return false, int32(v), 0, perr
}
