package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nox-lang/nox/internal/analyzer"
	"github.com/nox-lang/nox/internal/lexer"
	"github.com/nox-lang/nox/internal/parser"
	"github.com/nox-lang/nox/internal/pipeline"
	"github.com/nox-lang/nox/internal/prettyprinter"
)

var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Lex, parse, and type-check a program without running or compiling it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := loadContext(args[0])
		if err != nil {
			return err
		}

		pl := pipeline.New(&lexer.Processor{}, &parser.Processor{}, &analyzer.Processor{})
		ctx = pl.Run(ctx)

		if printAST && ctx.Program != nil {
			fmt.Fprint(os.Stderr, prettyprinter.Print(ctx.Program))
		}

		ctx.Diagnostics.Render(os.Stderr)
		if ctx.Diagnostics.HasErrors() {
			os.Exit(1)
		}
		return nil
	},
}
