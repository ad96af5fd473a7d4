package lexer

import (
	"github.com/nox-lang/nox/internal/pipeline"
	"github.com/nox-lang/nox/internal/token"
)

const lookaheadBufferSize = 10

// bufferedLexer adapts a Lexer into a pipeline.TokenStream with lookahead,
// the same buffering shape used elsewhere in this pipeline family: Peek(n)
// fills the buffer on demand and Next() drains it before pulling fresh
// tokens.
type bufferedLexer struct {
	l      *Lexer
	buffer []token.Token
	pos    int
}

func NewTokenStream(l *Lexer) pipeline.TokenStream {
	return &bufferedLexer{l: l}
}

func (bl *bufferedLexer) Next() token.Token {
	if bl.pos < len(bl.buffer) {
		tok := bl.buffer[bl.pos]
		bl.pos++
		return tok
	}
	return bl.l.NextToken()
}

func (bl *bufferedLexer) Peek(n int) []token.Token {
	for len(bl.buffer)-bl.pos <= n {
		if len(bl.buffer) > 0 && bl.buffer[len(bl.buffer)-1].IsEOF() {
			break
		}
		bl.buffer = append(bl.buffer, bl.l.NextToken())
	}

	if bl.pos > lookaheadBufferSize {
		bl.buffer = bl.buffer[bl.pos:]
		bl.pos = 0
	}

	end := bl.pos + n
	if end > len(bl.buffer) {
		end = len(bl.buffer)
	}
	if bl.pos > end {
		return nil
	}
	return bl.buffer[bl.pos:end]
}

var _ pipeline.TokenStream = (*bufferedLexer)(nil)

// Processor wires the lexer into the pipeline, constructing a buffered
// stream over the context's source code.
type Processor struct{}

func (p *Processor) Process(ctx *pipeline.Context) *pipeline.Context {
	l := New(ctx.SourceCode)
	l.Diagnostics = ctx.Diagnostics
	ctx.TokenStream = NewTokenStream(l)
	return ctx
}

var _ pipeline.Processor = (*Processor)(nil)
