package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nox-lang/nox/internal/diagnostics"
	"github.com/nox-lang/nox/internal/token"
)

func tokenize(t *testing.T, src string) []token.Token {
	t.Helper()
	l := New(src)
	l.Diagnostics = diagnostics.NewBag("test")
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.IsEOF() {
			break
		}
	}
	return toks
}

func types(toks []token.Token) []token.Type {
	ts := make([]token.Type, len(toks))
	for i, tok := range toks {
		ts[i] = tok.Type
	}
	return ts
}

func TestNextToken_Symbols(t *testing.T) {
	toks := tokenize(t, "a := 1 + 2 * (3 - 4) / 5")
	assert.Equal(t, []token.Type{
		token.IDENTIFIER, token.COLON_EQUAL, token.NUMBER, token.PLUS, token.NUMBER,
		token.STAR, token.LEFT_PAREN, token.NUMBER, token.MINUS, token.NUMBER,
		token.RIGHT_PAREN, token.SLASH, token.NUMBER, token.END_OF_FILE,
	}, types(toks))
}

func TestNextToken_MultiCharDisambiguation(t *testing.T) {
	toks := tokenize(t, "a != b == c -> d")
	assert.Equal(t, []token.Type{
		token.IDENTIFIER, token.BANG_EQUAL, token.IDENTIFIER, token.EQUAL_EQUAL,
		token.IDENTIFIER, token.MINUS_GREATER, token.IDENTIFIER, token.END_OF_FILE,
	}, types(toks))
}

func TestNextToken_Keywords(t *testing.T) {
	toks := tokenize(t, "if true else false and or")
	assert.Equal(t, []token.Type{
		token.IF, token.TRUE, token.ELSE, token.FALSE, token.AND, token.OR, token.END_OF_FILE,
	}, types(toks))
}

func TestNextToken_PrintlnIsPlainIdentifier(t *testing.T) {
	toks := tokenize(t, "println(1)")
	require.Len(t, toks, 5)
	assert.Equal(t, token.IDENTIFIER, toks[0].Type)
	assert.Equal(t, token.PrintlnIdent, toks[0].Lexeme)
}

func TestNextToken_ColumnsResetOnNewline(t *testing.T) {
	toks := tokenize(t, "a\nbc")
	require.Len(t, toks, 3)
	assert.Equal(t, 0, toks[0].Column)
	assert.Equal(t, 1, toks[0].Line)
	assert.Equal(t, 0, toks[1].Column)
	assert.Equal(t, 2, toks[1].Line)
}

func TestNextToken_StringLiteral(t *testing.T) {
	toks := tokenize(t, `"hello world"`)
	require.Len(t, toks, 2)
	assert.Equal(t, token.STRING, toks[0].Type)
	assert.Equal(t, "hello world", toks[0].Lexeme)
}

func TestNextToken_UnterminatedStringIsFatal(t *testing.T) {
	l := New(`"unterminated`)
	bag := diagnostics.NewBag("test")
	l.Diagnostics = bag
	l.NextToken()
	require.True(t, bag.HasErrors())
	assert.Equal(t, diagnostics.Fatal, bag.Items[0].Severity)
}

func TestNextToken_DoubleDotNumberRecovers(t *testing.T) {
	l := New("1.2.3")
	bag := diagnostics.NewBag("test")
	l.Diagnostics = bag
	tok := l.NextToken()
	assert.Equal(t, token.NUMBER, tok.Type)
	assert.True(t, bag.HasErrors())
	assert.Equal(t, diagnostics.ErrL003_DoubleDot, bag.Items[0].Code)
}

func TestParseNumberLiteral(t *testing.T) {
	isReal, i32, _, err := ParseNumberLiteral("42")
	require.NoError(t, err)
	assert.False(t, isReal)
	assert.Equal(t, int32(42), i32)

	isReal, _, r64, err := ParseNumberLiteral("3.14")
	require.NoError(t, err)
	assert.True(t, isReal)
	assert.InDelta(t, 3.14, r64, 0.0001)
}

func TestNextToken_InvalidCharIsSkippedAndDiagnosed(t *testing.T) {
	toks := tokenize(t, "a @ b")
	bag := diagnostics.NewBag("test")
	l2 := New("a @ b")
	l2.Diagnostics = bag
	for {
		tok := l2.NextToken()
		if tok.IsEOF() {
			break
		}
	}
	assert.True(t, bag.HasErrors())
	assert.Equal(t, diagnostics.ErrL001_InvalidChar, bag.Items[0].Code)
	assert.Equal(t, []token.Type{token.IDENTIFIER, token.IDENTIFIER, token.END_OF_FILE}, types(toks))
}
