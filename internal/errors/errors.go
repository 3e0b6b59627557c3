// Package errors defines the four error kinds of the pasc pipeline
// (lexer, syntax, semantic, runtime), each carrying an error code and the
// offending token, plus source-line-and-caret formatting for the CLI.
package errors

import (
	"fmt"
	"strings"

	"github.com/go-pasc/pasc/internal/token"
)

// Code is a canonical, stable error identifier, independent of the
// human-readable message text.
type Code string

const (
	IllegalCharacter Code = "ILLEGAL_CHARACTER"
	UnclosedComment  Code = "UNCLOSED_COMMENT"

	UnexpectedToken Code = "UNEXPECTED_TOKEN"

	IDNotFound                    Code = "ID_NOT_FOUND"
	DuplicateID                   Code = "DUPLICATE_ID"
	DuplicateProcDecl             Code = "DUPLICATE_PROC_DECL"
	UnexpectedProcArgumentsNumber Code = "UNEXPECTED_PROC_ARGUMENTS_NUMBER"

	MissingReturn       Code = "MISSING_RETURN"
	UnboundName         Code = "UNBOUND_NAME"
	BreakOutsideLoop    Code = "BREAK_OUTSIDE_LOOP"
	ContinueOutsideLoop Code = "CONTINUE_OUTSIDE_LOOP"
	DivisionByZero      Code = "DIVISION_BY_ZERO"
)

var messages = map[Code]string{
	IllegalCharacter:              "illegal character",
	UnclosedComment:               "unclosed comment",
	UnexpectedToken:               "unexpected token",
	IDNotFound:                    "identifier not found",
	DuplicateID:                   "duplicate identifier",
	DuplicateProcDecl:             "duplicate procedure/function declaration",
	UnexpectedProcArgumentsNumber: "wrong number of arguments",
	MissingReturn:                 "function did not assign a return value",
	UnboundName:                   "name not bound in any enclosing frame",
	BreakOutsideLoop:              "break outside of a while loop",
	ContinueOutsideLoop:           "continue outside of a while loop",
	DivisionByZero:                "division by zero",
}

func (c Code) message() string {
	if m, ok := messages[c]; ok {
		return m
	}
	return string(c)
}

// LexerError reports a tokenization failure: an illegal character or an
// unclosed comment (§4.1 rule 7, §7).
type LexerError struct {
	Code  Code
	Token token.Token
}

func (e *LexerError) Error() string {
	return fmt.Sprintf("LexerError: %s: %s at %s", e.Code, e.Code.message(), e.Token.Pos)
}

// SyntaxError reports a parser failure: every grammar violation collapses
// to UNEXPECTED_TOKEN (§4.2, §7).
type SyntaxError struct {
	Code  Code
	Token token.Token
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("SyntaxError: %s: %s, got %s at %s", e.Code, e.Code.message(), e.Token, e.Token.Pos)
}

// SemanticError reports a name-resolution or arity failure found by the
// semantic analyzer (§4.3, §7).
type SemanticError struct {
	Code  Code
	Token token.Token
}

func (e *SemanticError) Error() string {
	return fmt.Sprintf("SemanticError: %s: %s at %s (%q)", e.Code, e.Code.message(), e.Token.Pos, e.Token.Value)
}

// RuntimeError reports an interpreter-time failure: a missing function
// return, an unbound name, a break/continue that escaped every
// enclosing loop, or an integer division by zero (§4.4, §7, §9 open
// questions 2 and 4).
type RuntimeError struct {
	Code  Code
	Token token.Token
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("RuntimeError: %s: %s at %s (%q)", e.Code, e.Code.message(), e.Token.Pos, e.Token.Value)
}

// Format renders err against source with a caret pointing at the
// offending token's column, in the teacher's single-error rendering
// style. It recognizes the four kinds above; any other error is returned
// via its own Error() string with no source context.
func Format(err error, source string) string {
	var pos token.Position
	var header string

	switch e := err.(type) {
	case *LexerError:
		pos, header = e.Token.Pos, e.Error()
	case *SyntaxError:
		pos, header = e.Token.Pos, e.Error()
	case *SemanticError:
		pos, header = e.Token.Pos, e.Error()
	case *RuntimeError:
		pos, header = e.Token.Pos, e.Error()
	default:
		return err.Error()
	}

	lines := strings.Split(source, "\n")
	if pos.Line < 1 || pos.Line > len(lines) {
		return header
	}
	line := lines[pos.Line-1]

	var caret strings.Builder
	for i := 1; i < pos.Column; i++ {
		if i-1 < len(line) && line[i-1] == '\t' {
			caret.WriteByte('\t')
		} else {
			caret.WriteByte(' ')
		}
	}
	caret.WriteByte('^')

	return fmt.Sprintf("%s\n%s\n%s", header, line, caret.String())
}
