// Package parser implements the recursive-descent parser of spec §4.2:
// token stream to AST, encoding the seven-level expression precedence
// table and disambiguating procedure calls from assignments via a
// one-character lexer lookahead.
package parser

import (
	"github.com/go-pasc/pasc/internal/ast"
	"github.com/go-pasc/pasc/internal/errors"
	"github.com/go-pasc/pasc/internal/lexer"
	"github.com/go-pasc/pasc/internal/token"
)

// Parser holds the lexer and the single token of lookahead the grammar
// needs at each point (spec §4.2: state is (lexer, current_token)).
type Parser struct {
	lex          *lexer.Lexer
	currentToken token.Token
}

// New primes the parser with the first token read from lex.
func New(lex *lexer.Lexer) (*Parser, error) {
	p := &Parser{lex: lex}
	tok, err := lex.NextToken()
	if err != nil {
		return nil, err
	}
	p.currentToken = tok
	return p, nil
}

// Parse parses a full program and requires EOF immediately after the
// trailing DOT (spec §4.2 "Validation").
func Parse(source string) (*ast.Program, error) {
	p, err := New(lexer.New(source))
	if err != nil {
		return nil, err
	}
	program, err := p.program()
	if err != nil {
		return nil, err
	}
	if p.currentToken.Kind != token.EOF {
		return nil, p.unexpected()
	}
	return program, nil
}

func (p *Parser) unexpected() error {
	return &errors.SyntaxError{Code: errors.UnexpectedToken, Token: p.currentToken}
}

// eat asserts the current token's kind and advances past it.
func (p *Parser) eat(kind token.Kind) (token.Token, error) {
	if p.currentToken.Kind != kind {
		return token.Token{}, p.unexpected()
	}
	tok := p.currentToken
	next, err := p.lex.NextToken()
	if err != nil {
		return token.Token{}, err
	}
	p.currentToken = next
	return tok, nil
}

// program := PROGRAM ID SEMI block DOT
func (p *Parser) program() (*ast.Program, error) {
	progTok, err := p.eat(token.PROGRAM)
	if err != nil {
		return nil, err
	}
	nameTok, err := p.eat(token.ID)
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(token.SEMI); err != nil {
		return nil, err
	}
	block, err := p.block()
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(token.DOT); err != nil {
		return nil, err
	}
	return &ast.Program{Token: progTok, Name: nameTok.Value, Block: block}, nil
}

// block := declarations compound_statement
func (p *Parser) block() (*ast.Block, error) {
	decls, err := p.declarations()
	if err != nil {
		return nil, err
	}
	body, err := p.compoundStatement()
	if err != nil {
		return nil, err
	}
	return &ast.Block{Declarations: decls, Body: body}, nil
}

// declarations := (VAR (variable_declaration SEMI)+)?
//                 procedure_declaration*
//                 function_declaration*
func (p *Parser) declarations() ([]ast.Statement, error) {
	var decls []ast.Statement

	if p.currentToken.Kind == token.VAR {
		if _, err := p.eat(token.VAR); err != nil {
			return nil, err
		}
		for p.currentToken.Kind == token.ID {
			varDecls, err := p.variableDeclaration()
			if err != nil {
				return nil, err
			}
			decls = append(decls, varDecls...)
			if _, err := p.eat(token.SEMI); err != nil {
				return nil, err
			}
		}
	}

	for p.currentToken.Kind == token.PROCEDURE {
		decl, err := p.procedureDeclaration()
		if err != nil {
			return nil, err
		}
		decls = append(decls, decl)
	}

	for p.currentToken.Kind == token.FUNCTION {
		decl, err := p.functionDeclaration()
		if err != nil {
			return nil, err
		}
		decls = append(decls, decl)
	}

	return decls, nil
}

// variable_declaration := ID (COMMA ID)* COLON type_spec
func (p *Parser) variableDeclaration() ([]ast.Statement, error) {
	var names []token.Token
	nameTok, err := p.eat(token.ID)
	if err != nil {
		return nil, err
	}
	names = append(names, nameTok)

	for p.currentToken.Kind == token.COMMA {
		if _, err := p.eat(token.COMMA); err != nil {
			return nil, err
		}
		nameTok, err := p.eat(token.ID)
		if err != nil {
			return nil, err
		}
		names = append(names, nameTok)
	}

	if _, err := p.eat(token.COLON); err != nil {
		return nil, err
	}
	typeNode, err := p.typeSpec()
	if err != nil {
		return nil, err
	}

	decls := make([]ast.Statement, len(names))
	for i, nameTok := range names {
		decls[i] = &ast.VarDecl{
			Var:  &ast.Var{Token: nameTok, Name: nameTok.Value},
			Type: typeNode,
		}
	}
	return decls, nil
}

// type_spec := INTEGER | REAL | BOOLEAN
func (p *Parser) typeSpec() (*ast.TypeNode, error) {
	tok := p.currentToken
	switch tok.Kind {
	case token.INTEGER, token.REAL, token.BOOLEAN:
		if _, err := p.eat(tok.Kind); err != nil {
			return nil, err
		}
		return &ast.TypeNode{Token: tok, Name: tok.Value}, nil
	default:
		return nil, p.unexpected()
	}
}

// procedure_declaration := PROCEDURE ID (LPAREN formal_parameter_list RPAREN)?
//                          SEMI block SEMI
func (p *Parser) procedureDeclaration() (*ast.ProcedureDecl, error) {
	if _, err := p.eat(token.PROCEDURE); err != nil {
		return nil, err
	}
	nameTok, err := p.eat(token.ID)
	if err != nil {
		return nil, err
	}

	var params []*ast.Param
	if p.currentToken.Kind == token.LPAREN {
		if _, err := p.eat(token.LPAREN); err != nil {
			return nil, err
		}
		params, err = p.formalParameterList()
		if err != nil {
			return nil, err
		}
		if _, err := p.eat(token.RPAREN); err != nil {
			return nil, err
		}
	}

	if _, err := p.eat(token.SEMI); err != nil {
		return nil, err
	}
	block, err := p.block()
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(token.SEMI); err != nil {
		return nil, err
	}

	return &ast.ProcedureDecl{Token: nameTok, Name: nameTok.Value, Params: params, Block: block}, nil
}

// function_declaration := FUNCTION ID (LPAREN formal_parameter_list RPAREN)?
//                          COLON type_spec SEMI block SEMI
func (p *Parser) functionDeclaration() (*ast.FunctionDecl, error) {
	if _, err := p.eat(token.FUNCTION); err != nil {
		return nil, err
	}
	nameTok, err := p.eat(token.ID)
	if err != nil {
		return nil, err
	}

	var params []*ast.Param
	if p.currentToken.Kind == token.LPAREN {
		if _, err := p.eat(token.LPAREN); err != nil {
			return nil, err
		}
		params, err = p.formalParameterList()
		if err != nil {
			return nil, err
		}
		if _, err := p.eat(token.RPAREN); err != nil {
			return nil, err
		}
	}

	if _, err := p.eat(token.COLON); err != nil {
		return nil, err
	}
	returnType, err := p.typeSpec()
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(token.SEMI); err != nil {
		return nil, err
	}
	block, err := p.block()
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(token.SEMI); err != nil {
		return nil, err
	}

	return &ast.FunctionDecl{
		Token:      nameTok,
		Name:       nameTok.Value,
		Params:     params,
		ReturnType: returnType,
		Block:      block,
	}, nil
}

// formal_parameter_list := formal_parameters (SEMI formal_parameters)*
func (p *Parser) formalParameterList() ([]*ast.Param, error) {
	var params []*ast.Param
	group, err := p.formalParameters()
	if err != nil {
		return nil, err
	}
	params = append(params, group...)

	for p.currentToken.Kind == token.SEMI {
		if _, err := p.eat(token.SEMI); err != nil {
			return nil, err
		}
		group, err := p.formalParameters()
		if err != nil {
			return nil, err
		}
		params = append(params, group...)
	}
	return params, nil
}

// formal_parameters := ID (COMMA ID)* COLON type_spec
func (p *Parser) formalParameters() ([]*ast.Param, error) {
	var names []token.Token
	nameTok, err := p.eat(token.ID)
	if err != nil {
		return nil, err
	}
	names = append(names, nameTok)

	for p.currentToken.Kind == token.COMMA {
		if _, err := p.eat(token.COMMA); err != nil {
			return nil, err
		}
		nameTok, err := p.eat(token.ID)
		if err != nil {
			return nil, err
		}
		names = append(names, nameTok)
	}

	if _, err := p.eat(token.COLON); err != nil {
		return nil, err
	}
	typeNode, err := p.typeSpec()
	if err != nil {
		return nil, err
	}

	params := make([]*ast.Param, len(names))
	for i, nameTok := range names {
		params[i] = &ast.Param{Var: &ast.Var{Token: nameTok, Name: nameTok.Value}, Type: typeNode}
	}
	return params, nil
}

// compound_statement := BEGIN statement_list END
func (p *Parser) compoundStatement() (*ast.Compound, error) {
	beginTok, err := p.eat(token.BEGIN)
	if err != nil {
		return nil, err
	}
	stmts, err := p.statementList()
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(token.END); err != nil {
		return nil, err
	}
	return &ast.Compound{Token: beginTok, Statements: stmts}, nil
}

// statement_list := statement (SEMI statement)*
func (p *Parser) statementList() ([]ast.Statement, error) {
	first, err := p.statement()
	if err != nil {
		return nil, err
	}
	stmts := []ast.Statement{first}

	for p.currentToken.Kind == token.SEMI {
		if _, err := p.eat(token.SEMI); err != nil {
			return nil, err
		}
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

// statement := compound_statement
//            | proccall_statement
//            | assignment_statement
//            | condition_statement
//            | while_statement
//            | BREAK | CONTINUE
//            | empty
func (p *Parser) statement() (ast.Statement, error) {
	switch p.currentToken.Kind {
	case token.BEGIN:
		return p.compoundStatement()
	case token.IF:
		return p.conditionStatement()
	case token.WHILE:
		return p.whileStatement()
	case token.BREAK:
		tok, err := p.eat(token.BREAK)
		if err != nil {
			return nil, err
		}
		return &ast.Break{Token: tok}, nil
	case token.CONTINUE:
		tok, err := p.eat(token.CONTINUE)
		if err != nil {
			return nil, err
		}
		return &ast.Continue{Token: tok}, nil
	case token.ID:
		// Call disambiguation (§4.2): peek the lexer's raw lookahead
		// character, captured while current_token still holds the
		// identifier and before the next full token is lexed.
		if p.lex.Peek() == '(' {
			return p.proccallStatement()
		}
		return p.assignmentStatement()
	default:
		return p.empty()
	}
}

// proccall_statement := ID LPAREN (expr (COMMA expr)*)? RPAREN
func (p *Parser) proccallStatement() (*ast.ProcedureCall, error) {
	nameTok, err := p.eat(token.ID)
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(token.LPAREN); err != nil {
		return nil, err
	}
	args, err := p.actualArgs()
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(token.RPAREN); err != nil {
		return nil, err
	}
	return &ast.ProcedureCall{Token: nameTok, Name: nameTok.Value, Args: args}, nil
}

func (p *Parser) actualArgs() ([]ast.Expression, error) {
	var args []ast.Expression
	if p.currentToken.Kind == token.RPAREN {
		return args, nil
	}
	first, err := p.expr()
	if err != nil {
		return nil, err
	}
	args = append(args, first)
	for p.currentToken.Kind == token.COMMA {
		if _, err := p.eat(token.COMMA); err != nil {
			return nil, err
		}
		arg, err := p.expr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return args, nil
}

// assignment_statement := variable ASSIGN expr
func (p *Parser) assignmentStatement() (*ast.Assign, error) {
	nameTok, err := p.eat(token.ID)
	if err != nil {
		return nil, err
	}
	variable := &ast.Var{Token: nameTok, Name: nameTok.Value}
	opTok, err := p.eat(token.ASSIGN)
	if err != nil {
		return nil, err
	}
	value, err := p.expr()
	if err != nil {
		return nil, err
	}
	return &ast.Assign{Target: variable, Op: opTok, Value: value}, nil
}

// condition_statement := IF expr THEN statement (ELSE statement)?
func (p *Parser) conditionStatement() (*ast.Condition, error) {
	ifTok, err := p.eat(token.IF)
	if err != nil {
		return nil, err
	}
	cond, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(token.THEN); err != nil {
		return nil, err
	}
	thenStmt, err := p.statement()
	if err != nil {
		return nil, err
	}
	cnd := &ast.Condition{Token: ifTok, Cond: cond, Then: &ast.Then{Child: thenStmt}}

	if p.currentToken.Kind == token.ELSE {
		if _, err := p.eat(token.ELSE); err != nil {
			return nil, err
		}
		elseStmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		cnd.Else = &ast.Else{Child: elseStmt}
	}
	return cnd, nil
}

// while_statement := WHILE expr DO statement
func (p *Parser) whileStatement() (*ast.WhileLoop, error) {
	whileTok, err := p.eat(token.WHILE)
	if err != nil {
		return nil, err
	}
	cond, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(token.DO); err != nil {
		return nil, err
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return &ast.WhileLoop{Token: whileTok, Cond: cond, Body: body}, nil
}

// empty := <nothing>
func (p *Parser) empty() (ast.Statement, error) {
	return &ast.NoOp{Token: p.currentToken}, nil
}

// --- expressions, by descending precedence level (spec §4.2) ---------------

// expr is the entry point: level 7, OR.
func (p *Parser) expr() (ast.Expression, error) {
	return p.exprOr()
}

func (p *Parser) exprOr() (ast.Expression, error) {
	left, err := p.exprAnd()
	if err != nil {
		return nil, err
	}
	for p.currentToken.Kind == token.OR {
		opTok, err := p.eat(token.OR)
		if err != nil {
			return nil, err
		}
		right, err := p.exprAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Left: left, Op: opTok, Right: right}
	}
	return left, nil
}

func (p *Parser) exprAnd() (ast.Expression, error) {
	left, err := p.exprEquality()
	if err != nil {
		return nil, err
	}
	for p.currentToken.Kind == token.AND {
		opTok, err := p.eat(token.AND)
		if err != nil {
			return nil, err
		}
		right, err := p.exprEquality()
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Left: left, Op: opTok, Right: right}
	}
	return left, nil
}

func (p *Parser) exprEquality() (ast.Expression, error) {
	left, err := p.exprRelational()
	if err != nil {
		return nil, err
	}
	for p.currentToken.Kind == token.EQUALS || p.currentToken.Kind == token.NOT_EQUALS {
		opTok, err := p.eat(p.currentToken.Kind)
		if err != nil {
			return nil, err
		}
		right, err := p.exprRelational()
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Left: left, Op: opTok, Right: right}
	}
	return left, nil
}

func (p *Parser) exprRelational() (ast.Expression, error) {
	left, err := p.exprAdditive()
	if err != nil {
		return nil, err
	}
	for isRelational(p.currentToken.Kind) {
		opTok, err := p.eat(p.currentToken.Kind)
		if err != nil {
			return nil, err
		}
		right, err := p.exprAdditive()
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Left: left, Op: opTok, Right: right}
	}
	return left, nil
}

func isRelational(k token.Kind) bool {
	switch k {
	case token.LESS, token.LESS_EQUALS, token.GREATER, token.GREATER_EQUALS:
		return true
	default:
		return false
	}
}

func (p *Parser) exprAdditive() (ast.Expression, error) {
	left, err := p.exprMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.currentToken.Kind == token.PLUS || p.currentToken.Kind == token.MINUS {
		opTok, err := p.eat(p.currentToken.Kind)
		if err != nil {
			return nil, err
		}
		right, err := p.exprMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Left: left, Op: opTok, Right: right}
	}
	return left, nil
}

func (p *Parser) exprMultiplicative() (ast.Expression, error) {
	left, err := p.atom()
	if err != nil {
		return nil, err
	}
	for isMultiplicative(p.currentToken.Kind) {
		opTok, err := p.eat(p.currentToken.Kind)
		if err != nil {
			return nil, err
		}
		right, err := p.atom()
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Left: left, Op: opTok, Right: right}
	}
	return left, nil
}

func isMultiplicative(k token.Kind) bool {
	switch k {
	case token.MUL, token.FLOAT_DIV, token.INTEGER_DIV, token.MOD:
		return true
	default:
		return false
	}
}

// atom := unary (+ - NOT) | INTEGER_CONST | REAL_CONST | TRUE | FALSE
//       | LPAREN expr RPAREN | function-call | variable
func (p *Parser) atom() (ast.Expression, error) {
	tok := p.currentToken
	switch tok.Kind {
	case token.PLUS, token.MINUS, token.NOT:
		if _, err := p.eat(tok.Kind); err != nil {
			return nil, err
		}
		operand, err := p.atom()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Op: tok, Operand: operand}, nil

	case token.INTEGER_CONST, token.REAL_CONST:
		if _, err := p.eat(tok.Kind); err != nil {
			return nil, err
		}
		return &ast.Num{Token: tok}, nil

	case token.TRUE, token.FALSE:
		if _, err := p.eat(tok.Kind); err != nil {
			return nil, err
		}
		return &ast.Boolean{Token: tok, Value: tok.Kind == token.TRUE}, nil

	case token.LPAREN:
		if _, err := p.eat(token.LPAREN); err != nil {
			return nil, err
		}
		inner, err := p.expr()
		if err != nil {
			return nil, err
		}
		if _, err := p.eat(token.RPAREN); err != nil {
			return nil, err
		}
		return inner, nil

	case token.ID:
		// Same call-disambiguation trick as statement(): peek the raw
		// lookahead character before the identifier's following token
		// is fully lexed.
		if p.lex.Peek() == '(' {
			return p.functionCall()
		}
		if _, err := p.eat(token.ID); err != nil {
			return nil, err
		}
		return &ast.Var{Token: tok, Name: tok.Value}, nil

	default:
		return nil, p.unexpected()
	}
}

func (p *Parser) functionCall() (*ast.FunctionCall, error) {
	nameTok, err := p.eat(token.ID)
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(token.LPAREN); err != nil {
		return nil, err
	}
	args, err := p.actualArgs()
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(token.RPAREN); err != nil {
		return nil, err
	}
	return &ast.FunctionCall{Token: nameTok, Name: nameTok.Value, Args: args}, nil
}
