// Package lexer turns pasc source text into a lazy stream of tokens.
package lexer

import (
	"strings"
	"unicode"

	"github.com/go-pasc/pasc/internal/errors"
	"github.com/go-pasc/pasc/internal/token"
)

// singleCharKinds maps a single punctuation/operator rune to its token
// Kind, consulted after comments, whitespace, digits, two-char operators
// and identifiers have all been ruled out (§4.1 rule 6).
var singleCharKinds = map[rune]token.Kind{
	'(': token.LPAREN,
	')': token.RPAREN,
	';': token.SEMI,
	'.': token.DOT,
	':': token.COLON,
	',': token.COMMA,
	'+': token.PLUS,
	'-': token.MINUS,
	'*': token.MUL,
	'/': token.FLOAT_DIV,
	'%': token.MOD,
	'=': token.EQUALS,
	'<': token.LESS,
	'>': token.GREATER,
}

// Lexer scans source text one rune at a time, tracking line and column
// for diagnostics. It holds no token buffer: NextToken recomputes the
// next token from current position on every call.
type Lexer struct {
	text    []rune
	pos     int
	line    int
	column  int
}

// New returns a Lexer positioned at the start of text.
func New(text string) *Lexer {
	return &Lexer{
		text:   []rune(text),
		pos:    0,
		line:   1,
		column: 1,
	}
}

// currentChar returns the rune at pos, or 0 at end of input.
func (l *Lexer) currentChar() rune {
	if l.pos >= len(l.text) {
		return 0
	}
	return l.text[l.pos]
}

// Peek exposes the lexer's current lookahead character without
// consuming it. The parser uses this for call-vs-assignment
// disambiguation (§4.2 "Call disambiguation").
func (l *Lexer) Peek() rune {
	return l.currentChar()
}

// peekAt returns the rune offset chars ahead of pos without advancing,
// or 0 past end of input.
func (l *Lexer) peekAt(offset int) rune {
	i := l.pos + offset
	if i >= len(l.text) {
		return 0
	}
	return l.text[i]
}

// pos0 snapshots the current position for a token about to be emitted.
func (l *Lexer) pos0() token.Position {
	return token.Position{Line: l.line, Column: l.column}
}

// advance consumes the current character, updating line/column.
func (l *Lexer) advance() {
	if l.currentChar() == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	l.pos++
}

// skipComment consumes a `{ ... }` comment body, per §4.1 rule 1. The
// opening `{` must already have been consumed by the caller.
func (l *Lexer) skipComment() error {
	start := l.pos0()
	for l.currentChar() != '}' {
		if l.currentChar() == 0 {
			return &errors.LexerError{
				Code:  errors.UnclosedComment,
				Token: token.New(token.ILLEGAL, "{", start),
			}
		}
		l.advance()
	}
	l.advance() // consume closing '}'
	return nil
}

// skipWhitespace consumes run of whitespace per §4.1 rule 2.
func (l *Lexer) skipWhitespace() {
	for l.currentChar() != 0 && unicode.IsSpace(l.currentChar()) {
		l.advance()
	}
}

// readNumber consumes a digit run and, if followed by a decimal point
// and more digits, extends it into a real literal (§4.1 rule 3).
func (l *Lexer) readNumber() token.Token {
	start := l.pos0()
	var sb strings.Builder

	for unicode.IsDigit(l.currentChar()) {
		sb.WriteRune(l.currentChar())
		l.advance()
	}

	if l.currentChar() == '.' && unicode.IsDigit(l.peekAt(1)) {
		sb.WriteRune(l.currentChar())
		l.advance()
		for unicode.IsDigit(l.currentChar()) {
			sb.WriteRune(l.currentChar())
			l.advance()
		}
		return token.New(token.REAL_CONST, sb.String(), start)
	}

	return token.New(token.INTEGER_CONST, sb.String(), start)
}

// readIdentifier consumes an alphanumeric/underscore run and resolves it
// against the reserved-keyword table (§4.1 rule 5).
func (l *Lexer) readIdentifier() token.Token {
	start := l.pos0()
	var sb strings.Builder

	for isIdentChar(l.currentChar()) {
		sb.WriteRune(l.currentChar())
		l.advance()
	}

	name := sb.String()
	upper := strings.ToUpper(name)
	if kind, ok := token.LookupReserved(upper); ok {
		return token.New(kind, upper, start)
	}
	return token.New(token.ID, name, start)
}

func isIdentChar(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

// twoCharOp checks the two-character operator table of §4.1 rule 4.
func twoCharOp(first, second rune) (token.Kind, bool) {
	switch {
	case first == '/' && second == '/':
		return token.INTEGER_DIV, true
	case first == ':' && second == '=':
		return token.ASSIGN, true
	case first == '<' && second == '>':
		return token.NOT_EQUALS, true
	case first == '<' && second == '=':
		return token.LESS_EQUALS, true
	case first == '>' && second == '=':
		return token.GREATER_EQUALS, true
	default:
		return 0, false
	}
}

// NextToken scans and returns the next token, advancing the lexer's
// position past it. Rules are applied in the order given by spec §4.1.
func (l *Lexer) NextToken() (token.Token, error) {
	for {
		switch {
		case l.currentChar() == '{':
			l.advance()
			if err := l.skipComment(); err != nil {
				return token.Token{}, err
			}
			continue

		case unicode.IsSpace(l.currentChar()):
			l.skipWhitespace()
			continue

		case unicode.IsDigit(l.currentChar()):
			return l.readNumber(), nil

		default:
			if kind, ok := twoCharOp(l.currentChar(), l.peekAt(1)); ok {
				start := l.pos0()
				lexeme := string([]rune{l.currentChar(), l.peekAt(1)})
				l.advance()
				l.advance()
				return token.New(kind, lexeme, start), nil
			}

			if isIdentStart(l.currentChar()) {
				return l.readIdentifier(), nil
			}

			if kind, ok := singleCharKinds[l.currentChar()]; ok {
				start := l.pos0()
				lexeme := string(l.currentChar())
				l.advance()
				return token.New(kind, lexeme, start), nil
			}

			if l.currentChar() == 0 {
				return token.New(token.EOF, "", l.pos0()), nil
			}

			start := l.pos0()
			bad := string(l.currentChar())
			l.advance()
			return token.Token{}, &errors.LexerError{
				Code:  errors.IllegalCharacter,
				Token: token.New(token.ILLEGAL, bad, start),
			}
		}
	}
}
