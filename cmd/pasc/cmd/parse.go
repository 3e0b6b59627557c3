package cmd

import (
	"fmt"
	"os"

	"github.com/go-pasc/pasc/internal/errors"
	"github.com/go-pasc/pasc/internal/parser"
	"github.com/spf13/cobra"
)

var parseEvalExpr string

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a pasc program and display the AST",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringVarP(&parseEvalExpr, "eval", "e", "", "parse inline code instead of reading from file")
}

func runParse(_ *cobra.Command, args []string) error {
	input, filename, err := readSource(parseEvalExpr, args)
	if err != nil {
		return err
	}

	program, err := parser.Parse(input)
	if err != nil {
		fmt.Fprintln(os.Stderr, errors.Format(err, input))
		return fmt.Errorf("parsing failed: %s", filename)
	}

	fmt.Println(program.String())
	return nil
}
