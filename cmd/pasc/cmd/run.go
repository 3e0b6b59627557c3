package cmd

import (
	"fmt"
	"os"

	"github.com/go-pasc/pasc/internal/errors"
	"github.com/go-pasc/pasc/internal/interp"
	"github.com/go-pasc/pasc/internal/parser"
	"github.com/go-pasc/pasc/internal/semantic"
	"github.com/spf13/cobra"
)

var (
	runEvalExpr string
	runDumpAST  bool
	runTrace    bool
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a pasc program or expression",
	Long: `Parse, analyze, and execute a pasc program from a file or inline source.

Examples:
  # Run a program file
  pasc run program.pas

  # Run inline source
  pasc run -e "program p; begin end."

  # Show the parsed AST before executing
  pasc run --dump-ast program.pas

  # Emit ENTER/LEAVE and call-stack trace lines during execution
  pasc run --trace program.pas`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runEvalExpr, "eval", "e", "", "evaluate inline code instead of reading from file")
	runCmd.Flags().BoolVar(&runDumpAST, "dump-ast", false, "dump the parsed AST before executing")
	runCmd.Flags().BoolVar(&runTrace, "trace", false, "trace ENTER/LEAVE and call-stack dumps during execution")
}

func runScript(_ *cobra.Command, args []string) error {
	input, filename, err := readSource(runEvalExpr, args)
	if err != nil {
		return err
	}

	program, err := parser.Parse(input)
	if err != nil {
		fmt.Fprintln(os.Stderr, errors.Format(err, input))
		return fmt.Errorf("parsing failed: %s", filename)
	}

	analyzer := semantic.New()
	if err := analyzer.Analyze(program); err != nil {
		fmt.Fprintln(os.Stderr, errors.Format(err, input))
		return fmt.Errorf("semantic analysis failed: %s", filename)
	}

	if runDumpAST {
		fmt.Println("AST:")
		fmt.Println(program.String())
		fmt.Println()
	}

	var interpreter *interp.Interpreter
	if runTrace {
		interpreter = interp.New(os.Stdout)
	} else {
		interpreter = interp.New(nil)
	}

	if err := interpreter.Run(program); err != nil {
		fmt.Fprintln(os.Stderr, errors.Format(err, input))
		return fmt.Errorf("execution failed: %s", filename)
	}
	return nil
}
