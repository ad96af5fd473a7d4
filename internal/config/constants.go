package config

// SourceFileExt is the canonical extension for source files.
const SourceFileExt = ".nox"

// SourceFileExtensions are all extensions cmd/nox will accept on the command line.
var SourceFileExtensions = []string{".nox"}

// OutputIRFile is the fixed name the compiled module is written to; there is
// no flag to rename it, matching the one-invocation-one-artifact contract.
const OutputIRFile = "output.ir"

// PrintlnName is the lexeme of the println production; it is not part of the
// grapheme set. The parser matches token.PrintlnIdent (same value), not this
// constant.
const PrintlnName = "println"
