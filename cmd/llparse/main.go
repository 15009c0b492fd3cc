// Package main provides the CLI driver for the LLVM textual IR front
// end: a thin binary over internal/parser and internal/verifier, in
// the shape of cmd/staticlang/main.go but restructured onto cobra the
// way saferwall-pe/cmd/pedumper.go wires its root command's
// subcommands.
package main

import (
	"fmt"
	"os"

	"github.com/kr/pretty"
	"github.com/spf13/cobra"

	"github.com/sokoide/llir/internal/infrastructure"
)

var debug bool

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "llparse",
		Short:   "Parse and verify LLVM textual IR",
		Version: "0.1.0",
	}
	root.PersistentFlags().BoolVar(&debug, "debug", false, "pretty-print the parsed module to stdout")
	root.AddCommand(newParseCmd(), newVerifyCmd())
	return root
}

// newParseCmd implements `llparse parse <file.ll>`: parse only, report
// lex/parse diagnostics, exit nonzero on failure.
func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "parse <file.ll>",
		Short:        "Parse a module and report diagnostics",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(args[0])
		},
	}
}

// newVerifyCmd implements `llparse verify <file.ll>`: parse, then run
// the module verifier, printing every accumulated diagnostic (§8
// "accumulate, never fail-fast").
func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "verify <file.ll>",
		Short:        "Parse a module and run the verifier over it",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(args[0])
		},
	}
}

func runParse(filename string) error {
	source, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "llparse: %v\n", err)
		return err
	}

	reporter := infrastructure.NewConsoleErrorReporter(os.Stderr)
	pipeline := infrastructure.NewDefaultPipeline(reporter)
	mod, err := pipeline.Parse(filename, source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "llparse: parse failed: %v\n", err)
		return err
	}

	if debug {
		pretty.Println(mod)
	}
	return nil
}

func runVerify(filename string) error {
	source, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "llparse: %v\n", err)
		return err
	}

	reporter := infrastructure.NewConsoleErrorReporter(os.Stderr)
	pipeline := infrastructure.NewDefaultPipeline(reporter)
	mod, err := pipeline.Parse(filename, source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "llparse: parse failed: %v\n", err)
		return err
	}

	if debug {
		pretty.Println(mod)
	}

	diags := pipeline.Verify(mod)
	if len(diags) > 0 {
		infrastructure.NewSortedErrorReporter(reporter).ReportDiagnostics(filename, diags)
		return fmt.Errorf("%d verifier diagnostic(s)", len(diags))
	}
	return nil
}
