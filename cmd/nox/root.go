// Command nox is the CLI driver: an external collaborator that owns file
// discovery, flag parsing, and diagnostic rendering around the core
// lexer -> parser -> analyzer -> {evaluator, codegen} pipeline.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nox-lang/nox/internal/config"
)

var (
	printAST      bool
	showVersion   bool
	listOperators bool
)

var rootCmd = &cobra.Command{
	Use:           "nox",
	Short:         "nox runs and compiles the nox expression language",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Println(versionBanner())
			return nil
		}
		if listOperators {
			fmt.Print(config.PrintOperators())
			return nil
		}
		return cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&printAST, "print-ast", false, "print the parsed tree to stderr after the pipeline has run")
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "print version information and exit")
	rootCmd.Flags().BoolVar(&listOperators, "list-operators", false, "print the operator precedence table and exit")

	rootCmd.AddCommand(runCmd, buildCmd, checkCmd)
}

// Execute runs the root command; cmd/nox's sole exported surface.
func Execute() error {
	return rootCmd.Execute()
}
