// Package diagnostics implements the two-tier error model: recoverable
// diagnostics and fatal errors, both accumulated in a Bag while the
// pipeline keeps running. Fatal errors are tagged with Severity Fatal; the
// process is not aborted here, cmd/nox exits non-zero once the run is over
// and the Bag holds any error.
package diagnostics

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/nox-lang/nox/internal/token"
)

// Phase identifies which pipeline stage raised a diagnostic.
type Phase string

const (
	PhaseLexer    Phase = "lexer"
	PhaseParser   Phase = "parser"
	PhaseAnalyzer Phase = "analyzer"
	PhaseRuntime  Phase = "runtime"
	PhaseCodegen  Phase = "codegen"
)

// Severity distinguishes recoverable diagnostics from fatal ones, per the
// two-category error handling design: diagnostics are emitted to a stream
// and the pipeline continues; fatal errors exit the process non-zero.
type Severity string

const (
	Diagnostic Severity = "diagnostic"
	Fatal      Severity = "fatal"
)

type ErrorCode string

const (
	ErrL001_InvalidChar        ErrorCode = "L001" // lexer: unmatched byte
	ErrL002_UnterminatedString ErrorCode = "L002" // fatal
	ErrL003_DoubleDot          ErrorCode = "L003" // diagnostic, recovered by keeping first dot

	ErrP001_UnexpectedToken  ErrorCode = "P001"
	ErrP002_MissingRParen    ErrorCode = "P002"
	ErrP003_ExpectedIdent    ErrorCode = "P003"
	ErrP004_NoPrefixParseFn  ErrorCode = "P004"
	ErrP005_MalformedNumber  ErrorCode = "P005"

	ErrA001_UndeclaredVar     ErrorCode = "A001"
	ErrA002_DuplicateDecl     ErrorCode = "A002"
	ErrA003_AssignUndeclared  ErrorCode = "A003"
	ErrA004_ArityMismatch     ErrorCode = "A004"
	ErrA005_OperatorTypeError ErrorCode = "A005"
	ErrA006_BranchTypeMismatch ErrorCode = "A006"
	ErrA007_NotAFunction      ErrorCode = "A007"

	ErrR001_UndeclaredVar    ErrorCode = "R001"
	ErrR002_AssignUndeclared ErrorCode = "R002"
	ErrR003_OperatorType     ErrorCode = "R003"
	ErrR004_NotAFunction     ErrorCode = "R004"

	ErrC001_MissingGlobal    ErrorCode = "C001"
	ErrC002_VerifyFailed     ErrorCode = "C002"
	ErrC003_IOWriteFailed    ErrorCode = "C003" // fatal

	ErrF001_UnopenableFile ErrorCode = "F001" // fatal
)

var errorTemplates = map[ErrorCode]string{
	ErrL001_InvalidChar:        "invalid character: %q",
	ErrL002_UnterminatedString: "unterminated string literal",
	ErrL003_DoubleDot:          "numeric literal has more than one '.'; keeping the first",

	ErrP001_UnexpectedToken: "unexpected token: expected %s, got %s",
	ErrP002_MissingRParen:   "missing closing ')'",
	ErrP003_ExpectedIdent:   "expected an identifier, got %s",
	ErrP004_NoPrefixParseFn: "cannot parse expression starting with %s",
	ErrP005_MalformedNumber: "could not parse %q as a number",

	ErrA001_UndeclaredVar:      "undeclared variable: %s",
	ErrA002_DuplicateDecl:      "duplicate declaration: %s",
	ErrA003_AssignUndeclared:   "assignment to undeclared variable: %s",
	ErrA004_ArityMismatch:      "wrong number of arguments: expected %d, got %d",
	ErrA005_OperatorTypeError:  "operator %s not defined for %s",
	ErrA006_BranchTypeMismatch: "if/else branches disagree: then is %s, else is %s",
	ErrA007_NotAFunction:       "cannot call a value of type %s",

	ErrR001_UndeclaredVar:    "undeclared variable: %s",
	ErrR002_AssignUndeclared: "assignment to undeclared variable: %s",
	ErrR003_OperatorType:     "operator %s not defined for %s",
	ErrR004_NotAFunction:     "cannot call a value of type %s",

	ErrC001_MissingGlobal: "reference to undefined global: %s",
	ErrC002_VerifyFailed:  "module verification failed: %s",
	ErrC003_IOWriteFailed: "failed to write IR artifact: %s",

	ErrF001_UnopenableFile: "could not open source file: %s",
}

// Error is a single recoverable or fatal diagnostic.
type Error struct {
	Code     ErrorCode
	Phase    Phase
	Severity Severity
	Args     []interface{}
	Token    token.Token
	File     string
}

func (e *Error) Error() string {
	template, ok := errorTemplates[e.Code]
	if !ok {
		template = "unknown error"
	}
	message := fmt.Sprintf(template, e.Args...)

	prefix := ""
	if e.File != "" {
		prefix = e.File + ": "
	}
	if e.Token.Line > 0 {
		return fmt.Sprintf("%s[%s] error at %d:%d [%s]: %s", prefix, e.Phase, e.Token.Line, e.Token.Column, e.Code, message)
	}
	return fmt.Sprintf("%s[%s] error [%s]: %s", prefix, e.Phase, e.Code, message)
}

// New creates a recoverable diagnostic.
func New(phase Phase, code ErrorCode, tok token.Token, args ...interface{}) *Error {
	return &Error{Code: code, Phase: phase, Severity: Diagnostic, Token: tok, Args: args}
}

// NewFatal creates a fatal error; the caller is expected to exit after reporting it.
func NewFatal(phase Phase, code ErrorCode, tok token.Token, args ...interface{}) *Error {
	return &Error{Code: code, Phase: phase, Severity: Fatal, Token: tok, Args: args}
}

// Bag accumulates diagnostics across pipeline stages, mirroring the
// pipeline context's running error slice.
type Bag struct {
	File  string
	Items []*Error
}

func NewBag(file string) *Bag { return &Bag{File: file} }

func (b *Bag) Add(e *Error) {
	e.File = b.File
	b.Items = append(b.Items, e)
}

func (b *Bag) HasErrors() bool { return len(b.Items) > 0 }

// Render writes every accumulated diagnostic to w, colorizing severity when
// w is a terminal (detected via go-isatty). w is written as given; it is not
// wrapped with go-colorable for Windows consoles.
func (b *Bag) Render(w io.Writer) {
	useColor := false
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		useColor = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	fatalColor := color.New(color.FgRed, color.Bold)
	diagColor := color.New(color.FgYellow)
	for _, e := range b.Items {
		label := diagColor
		if e.Severity == Fatal {
			label = fatalColor
		}
		if useColor {
			label.Fprintln(w, e.Error())
		} else {
			fmt.Fprintln(w, e.Error())
		}
	}
}
