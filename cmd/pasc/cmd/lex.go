package cmd

import (
	"fmt"
	"os"

	"github.com/go-pasc/pasc/internal/errors"
	"github.com/go-pasc/pasc/internal/lexer"
	"github.com/go-pasc/pasc/internal/token"
	"github.com/spf13/cobra"
)

var lexEvalExpr string

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a pasc program and print the resulting tokens",
	Long: `Tokenize a pasc program and print the resulting token stream.

Examples:
  pasc lex program.pas
  pasc lex -e "x := 1 + 2"`,
	Args: cobra.MaximumNArgs(1),
	RunE: lexScript,
}

func init() {
	rootCmd.AddCommand(lexCmd)
	lexCmd.Flags().StringVarP(&lexEvalExpr, "eval", "e", "", "tokenize inline code instead of reading from file")
}

func lexScript(_ *cobra.Command, args []string) error {
	input, filename, err := readSource(lexEvalExpr, args)
	if err != nil {
		return err
	}

	l := lexer.New(input)
	for {
		tok, err := l.NextToken()
		if err != nil {
			fmt.Fprintln(os.Stderr, errors.Format(err, input))
			return fmt.Errorf("lexing failed: %s", filename)
		}
		fmt.Println(tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

// readSource resolves the common "file path, or -e inline code" input
// convention shared by run/lex/parse.
func readSource(eval string, args []string) (input, filename string, err error) {
	if eval != "" {
		return eval, "<eval>", nil
	}
	if len(args) == 1 {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
		return string(content), args[0], nil
	}
	return "", "", fmt.Errorf("either provide a file path or use -e flag for inline code")
}
