// Package ast defines the typed AST node variants produced by the parser
// (spec §3) and consumed read-only by the semantic analyzer and the
// interpreter.
package ast

import (
	"fmt"
	"strings"

	"github.com/go-pasc/pasc/internal/token"
)

// Node is implemented by every AST variant.
type Node interface {
	TokenLiteral() string
	String() string
	Pos() token.Position
}

// Statement is implemented by AST nodes that appear in statement
// position (compound bodies, declarations' bodies, loop/branch arms).
type Statement interface {
	Node
	statementNode()
}

// Expression is implemented by AST nodes that appear in expression
// position.
type Expression interface {
	Node
	expressionNode()
}

// --- literals and references -------------------------------------------------

// Num is an integer or real literal carrying the originating token; the
// token's Kind (INTEGER_CONST / REAL_CONST) distinguishes the two.
type Num struct {
	Token token.Token
}

func (n *Num) TokenLiteral() string  { return n.Token.Value }
func (n *Num) Pos() token.Position   { return n.Token.Pos }
func (n *Num) String() string        { return n.Token.Value }
func (*Num) expressionNode()         {}

// Boolean is a TRUE/FALSE literal.
type Boolean struct {
	Token token.Token
	Value bool
}

func (b *Boolean) TokenLiteral() string { return b.Token.Value }
func (b *Boolean) Pos() token.Position  { return b.Token.Pos }
func (b *Boolean) String() string       { return b.Token.Value }
func (*Boolean) expressionNode()        {}

// Var is a reference to a previously declared name.
type Var struct {
	Token token.Token
	Name  string
}

func (v *Var) TokenLiteral() string { return v.Token.Value }
func (v *Var) Pos() token.Position  { return v.Token.Pos }
func (v *Var) String() string       { return v.Name }
func (*Var) expressionNode()        {}

// TypeNode names one of the three built-in types.
type TypeNode struct {
	Token token.Token
	Name  string
}

func (t *TypeNode) TokenLiteral() string { return t.Token.Value }
func (t *TypeNode) Pos() token.Position  { return t.Token.Pos }
func (t *TypeNode) String() string       { return t.Name }

// --- declarations -------------------------------------------------------------

// VarDecl declares one variable of a given type.
type VarDecl struct {
	Var  *Var
	Type *TypeNode
}

func (d *VarDecl) TokenLiteral() string { return d.Var.Token.Value }
func (d *VarDecl) Pos() token.Position  { return d.Var.Pos() }
func (d *VarDecl) String() string       { return fmt.Sprintf("%s : %s", d.Var, d.Type) }
func (*VarDecl) statementNode()         {}

// Param is a single formal parameter of a procedure or function.
type Param struct {
	Var  *Var
	Type *TypeNode
}

func (p *Param) TokenLiteral() string { return p.Var.Token.Value }
func (p *Param) Pos() token.Position  { return p.Var.Pos() }
func (p *Param) String() string       { return fmt.Sprintf("%s : %s", p.Var, p.Type) }

// --- expressions ----------------------------------------------------------

// BinOp is a binary operator expression.
type BinOp struct {
	Left  Expression
	Op    token.Token
	Right Expression
}

func (b *BinOp) TokenLiteral() string { return b.Op.Value }
func (b *BinOp) Pos() token.Position  { return b.Op.Pos }
func (b *BinOp) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left, b.Op.Value, b.Right)
}
func (*BinOp) expressionNode() {}

// UnaryOp is a prefix operator expression: +, -, or NOT.
type UnaryOp struct {
	Op      token.Token
	Operand Expression
}

func (u *UnaryOp) TokenLiteral() string { return u.Op.Value }
func (u *UnaryOp) Pos() token.Position  { return u.Op.Pos }
func (u *UnaryOp) String() string       { return fmt.Sprintf("(%s%s)", u.Op.Value, u.Operand) }
func (*UnaryOp) expressionNode()        {}

// FunctionCall is a function invocation in expression position.
type FunctionCall struct {
	Token token.Token // the identifier token naming the callee
	Name  string
	Args  []Expression
}

func (c *FunctionCall) TokenLiteral() string { return c.Token.Value }
func (c *FunctionCall) Pos() token.Position  { return c.Token.Pos }
func (c *FunctionCall) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", c.Name, strings.Join(parts, ", "))
}
func (*FunctionCall) expressionNode() {}

// --- statements -----------------------------------------------------------

// Assign is an assignment statement: target := value.
type Assign struct {
	Target *Var
	Op     token.Token
	Value  Expression
}

func (a *Assign) TokenLiteral() string { return a.Op.Value }
func (a *Assign) Pos() token.Position  { return a.Target.Pos() }
func (a *Assign) String() string       { return fmt.Sprintf("%s := %s", a.Target, a.Value) }
func (*Assign) statementNode()         {}

// Compound is an ordered statement list (a BEGIN ... END block body).
type Compound struct {
	Token      token.Token // the BEGIN token, for positioning
	Statements []Statement
}

func (c *Compound) TokenLiteral() string { return c.Token.Value }
func (c *Compound) Pos() token.Position  { return c.Token.Pos }
func (c *Compound) String() string {
	parts := make([]string, len(c.Statements))
	for i, s := range c.Statements {
		parts[i] = s.String()
	}
	return "begin\n  " + strings.Join(parts, ";\n  ") + "\nend"
}
func (*Compound) statementNode() {}

// NoOp is the empty statement production.
type NoOp struct {
	Token token.Token
}

func (n *NoOp) TokenLiteral() string { return "" }
func (n *NoOp) Pos() token.Position  { return n.Token.Pos }
func (n *NoOp) String() string       { return "" }
func (*NoOp) statementNode()         {}

// ProcedureCall is a procedure invocation in statement position.
type ProcedureCall struct {
	Token token.Token // the identifier token naming the callee
	Name  string
	Args  []Expression
}

func (c *ProcedureCall) TokenLiteral() string { return c.Token.Value }
func (c *ProcedureCall) Pos() token.Position  { return c.Token.Pos }
func (c *ProcedureCall) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", c.Name, strings.Join(parts, ", "))
}
func (*ProcedureCall) statementNode() {}

// Then wraps the taken branch of a Condition.
type Then struct {
	Child Statement
}

func (t *Then) TokenLiteral() string { return t.Child.TokenLiteral() }
func (t *Then) Pos() token.Position  { return t.Child.Pos() }
func (t *Then) String() string       { return t.Child.String() }
func (*Then) statementNode()         {}

// Else wraps the not-taken branch of a Condition.
type Else struct {
	Child Statement
}

func (e *Else) TokenLiteral() string { return e.Child.TokenLiteral() }
func (e *Else) Pos() token.Position  { return e.Child.Pos() }
func (e *Else) String() string       { return e.Child.String() }
func (*Else) statementNode()         {}

// Condition is an if/then/else statement. Else is nil when absent.
type Condition struct {
	Token token.Token // the IF token
	Cond  Expression
	Then  *Then
	Else  *Else
}

func (c *Condition) TokenLiteral() string { return c.Token.Value }
func (c *Condition) Pos() token.Position  { return c.Token.Pos }
func (c *Condition) String() string {
	if c.Else != nil {
		return fmt.Sprintf("if %s then %s else %s", c.Cond, c.Then, c.Else)
	}
	return fmt.Sprintf("if %s then %s", c.Cond, c.Then)
}
func (*Condition) statementNode() {}

// WhileLoop is a while/do statement.
type WhileLoop struct {
	Token token.Token // the WHILE token
	Cond  Expression
	Body  Statement
}

func (w *WhileLoop) TokenLiteral() string { return w.Token.Value }
func (w *WhileLoop) Pos() token.Position  { return w.Token.Pos }
func (w *WhileLoop) String() string       { return fmt.Sprintf("while %s do %s", w.Cond, w.Body) }
func (*WhileLoop) statementNode()         {}

// Break is the unconditional BREAK statement.
type Break struct {
	Token token.Token
}

func (b *Break) TokenLiteral() string { return b.Token.Value }
func (b *Break) Pos() token.Position  { return b.Token.Pos }
func (b *Break) String() string       { return "break" }
func (*Break) statementNode()         {}

// Continue is the unconditional CONTINUE statement.
type Continue struct {
	Token token.Token
}

func (c *Continue) TokenLiteral() string { return c.Token.Value }
func (c *Continue) Pos() token.Position  { return c.Token.Pos }
func (c *Continue) String() string       { return "continue" }
func (*Continue) statementNode()         {}

// --- blocks and top-level declarations -------------------------------------

// Block is an ordered list of declarations followed by a compound body.
type Block struct {
	Declarations []Statement // VarDecl, ProcedureDecl, FunctionDecl
	Body         *Compound
}

func (b *Block) TokenLiteral() string { return b.Body.TokenLiteral() }
func (b *Block) Pos() token.Position  { return b.Body.Pos() }
func (b *Block) String() string {
	parts := make([]string, len(b.Declarations))
	for i, d := range b.Declarations {
		parts[i] = d.String()
	}
	return strings.Join(parts, ";\n") + "\n" + b.Body.String()
}

// ProcedureDecl declares a procedure.
type ProcedureDecl struct {
	Token  token.Token // the procedure name identifier token
	Name   string
	Params []*Param
	Block  *Block
}

func (d *ProcedureDecl) TokenLiteral() string { return d.Token.Value }
func (d *ProcedureDecl) Pos() token.Position  { return d.Token.Pos }
func (d *ProcedureDecl) String() string {
	parts := make([]string, len(d.Params))
	for i, p := range d.Params {
		parts[i] = p.String()
	}
	return fmt.Sprintf("procedure %s(%s);\n%s", d.Name, strings.Join(parts, ", "), d.Block)
}
func (*ProcedureDecl) statementNode() {}

// FunctionDecl declares a function.
type FunctionDecl struct {
	Token      token.Token // the function name identifier token
	Name       string
	Params     []*Param
	ReturnType *TypeNode
	Block      *Block
}

func (d *FunctionDecl) TokenLiteral() string { return d.Token.Value }
func (d *FunctionDecl) Pos() token.Position  { return d.Token.Pos }
func (d *FunctionDecl) String() string {
	parts := make([]string, len(d.Params))
	for i, p := range d.Params {
		parts[i] = p.String()
	}
	return fmt.Sprintf("function %s(%s) : %s;\n%s", d.Name, strings.Join(parts, ", "), d.ReturnType, d.Block)
}
func (*FunctionDecl) statementNode() {}

// Program is the root node: a named program and its block.
type Program struct {
	Token token.Token // the PROGRAM token
	Name  string
	Block *Block
}

func (p *Program) TokenLiteral() string { return p.Token.Value }
func (p *Program) Pos() token.Position  { return p.Token.Pos }
func (p *Program) String() string       { return fmt.Sprintf("program %s;\n%s.", p.Name, p.Block) }
