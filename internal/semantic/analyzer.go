// Package semantic implements the read-only AST traversal that builds
// nested scoped symbol tables and validates declare-before-use, duplicate
// declarations, and call arity (spec §4.3).
package semantic

import (
	"fmt"
	"io"

	"github.com/go-pasc/pasc/internal/ast"
	"github.com/go-pasc/pasc/internal/errors"
	"github.com/go-pasc/pasc/internal/symbol"
)

// Analyzer walks a Program's AST once, building a tree of
// ScopedSymbolTables rooted at a fresh built-in scope. It reports the
// first error found and stops (spec §7's abort-on-first-error policy).
type Analyzer struct {
	currentScope *symbol.ScopedSymbolTable

	// Trace, if non-nil, receives scope enter/leave and define/lookup
	// lines, mirroring original_source/symbol_table.py's debug prints
	// without forcing them unconditionally onto stdout.
	Trace io.Writer
}

// New returns an Analyzer with a fresh, unshared built-in scope.
func New() *Analyzer {
	return &Analyzer{currentScope: symbol.NewBuiltinScope()}
}

func (a *Analyzer) trace(format string, args ...interface{}) {
	if a.Trace == nil {
		return
	}
	fmt.Fprintf(a.Trace, format+"\n", args...)
}

// Analyze runs the analyzer over program and returns the first error
// encountered, if any.
func (a *Analyzer) Analyze(program *ast.Program) error {
	return a.visitProgram(program)
}

func (a *Analyzer) visitProgram(p *ast.Program) error {
	a.trace("enter scope: global")
	global := symbol.New("global", 1, a.currentScope)
	a.currentScope = global
	if err := a.visitBlock(p.Block); err != nil {
		return err
	}
	a.trace("%s", global)
	a.trace("leave scope: global")
	a.currentScope = global.Enclosing
	return nil
}

func (a *Analyzer) visitBlock(b *ast.Block) error {
	for _, decl := range b.Declarations {
		if err := a.visitStatement(decl); err != nil {
			return err
		}
	}
	return a.visitCompound(b.Body)
}

func (a *Analyzer) visitCompound(c *ast.Compound) error {
	for _, stmt := range c.Statements {
		if err := a.visitStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (a *Analyzer) visitStatement(s ast.Statement) error {
	switch n := s.(type) {
	case *ast.VarDecl:
		return a.visitVarDecl(n)
	case *ast.ProcedureDecl:
		return a.visitProcedureDecl(n)
	case *ast.FunctionDecl:
		return a.visitFunctionDecl(n)
	case *ast.Compound:
		return a.visitCompound(n)
	case *ast.Assign:
		return a.visitAssign(n)
	case *ast.ProcedureCall:
		return a.visitProcedureCall(n)
	case *ast.Condition:
		return a.visitCondition(n)
	case *ast.WhileLoop:
		return a.visitWhileLoop(n)
	case *ast.Break, *ast.Continue, *ast.NoOp:
		return nil
	default:
		return fmt.Errorf("semantic: unhandled statement node %T", s)
	}
}

func (a *Analyzer) visitExpression(e ast.Expression) error {
	switch n := e.(type) {
	case *ast.Num, *ast.Boolean:
		return nil
	case *ast.BinOp:
		if err := a.visitExpression(n.Left); err != nil {
			return err
		}
		return a.visitExpression(n.Right)
	case *ast.UnaryOp:
		return a.visitExpression(n.Operand)
	case *ast.Var:
		return a.visitVar(n)
	case *ast.FunctionCall:
		return a.visitFunctionCall(n)
	default:
		return fmt.Errorf("semantic: unhandled expression node %T", e)
	}
}

func (a *Analyzer) visitVarDecl(n *ast.VarDecl) error {
	typeSym := a.currentScope.Lookup(n.Type.Name, false)
	builtinType, _ := typeSym.(*symbol.BuiltinType)

	name := n.Var.Name
	if a.currentScope.IsDeclaredInCurrentScope(name) {
		return &errors.SemanticError{Code: errors.DuplicateID, Token: n.Var.Token}
	}

	sym := &symbol.Variable{Name: name, Type: builtinType}
	a.currentScope.Define(sym)
	a.trace("Define: %s", sym)
	return nil
}

func (a *Analyzer) visitProcedureDecl(n *ast.ProcedureDecl) error {
	if a.currentScope.IsDeclaredInCurrentScope(n.Name) {
		return &errors.SemanticError{Code: errors.DuplicateProcDecl, Token: n.Token}
	}
	procSym := &symbol.Procedure{Name: n.Name, Decl: n}
	a.currentScope.Define(procSym)

	a.trace("enter scope: %s", n.Name)
	scope := symbol.New(n.Name, a.currentScope.ScopeLevel+1, a.currentScope)
	a.currentScope = scope

	for _, p := range n.Params {
		typeSym := a.currentScope.Lookup(p.Type.Name, false)
		builtinType, _ := typeSym.(*symbol.BuiltinType)
		varSym := &symbol.Variable{Name: p.Var.Name, Type: builtinType}
		procSym.Params = append(procSym.Params, varSym)
		a.currentScope.Define(varSym)
	}

	if err := a.visitBlock(n.Block); err != nil {
		return err
	}
	a.trace("%s", scope)
	a.trace("leave scope: %s", n.Name)
	a.currentScope = scope.Enclosing
	return nil
}

func (a *Analyzer) visitFunctionDecl(n *ast.FunctionDecl) error {
	if a.currentScope.IsDeclaredInCurrentScope(n.Name) {
		return &errors.SemanticError{Code: errors.DuplicateProcDecl, Token: n.Token}
	}
	returnTypeSym, _ := a.currentScope.Lookup(n.ReturnType.Name, false).(*symbol.BuiltinType)
	funcSym := &symbol.Function{Name: n.Name, ReturnType: returnTypeSym, Decl: n}
	a.currentScope.Define(funcSym)

	a.trace("enter scope: %s", n.Name)
	scope := symbol.New(n.Name, a.currentScope.ScopeLevel+1, a.currentScope)
	a.currentScope = scope

	for _, p := range n.Params {
		typeSym := a.currentScope.Lookup(p.Type.Name, false)
		builtinType, _ := typeSym.(*symbol.BuiltinType)
		varSym := &symbol.Variable{Name: p.Var.Name, Type: builtinType}
		funcSym.Params = append(funcSym.Params, varSym)
		a.currentScope.Define(varSym)
	}

	if err := a.visitBlock(n.Block); err != nil {
		return err
	}
	a.trace("%s", scope)
	a.trace("leave scope: %s", n.Name)
	a.currentScope = scope.Enclosing
	return nil
}

func (a *Analyzer) visitAssign(n *ast.Assign) error {
	if err := a.visitExpression(n.Value); err != nil {
		return err
	}
	return a.visitVar(n.Target)
}

func (a *Analyzer) visitVar(n *ast.Var) error {
	a.trace("Lookup: %s. (Scope name: %s)", n.Name, a.currentScope.ScopeName)
	if a.currentScope.Lookup(n.Name, false) == nil {
		return &errors.SemanticError{Code: errors.IDNotFound, Token: n.Token}
	}
	return nil
}

func (a *Analyzer) visitProcedureCall(n *ast.ProcedureCall) error {
	for _, arg := range n.Args {
		if err := a.visitExpression(arg); err != nil {
			return err
		}
	}
	sym := a.currentScope.Lookup(n.Name, false)
	if sym == nil {
		return &errors.SemanticError{Code: errors.IDNotFound, Token: n.Token}
	}
	proc, ok := sym.(*symbol.Procedure)
	if !ok {
		return &errors.SemanticError{Code: errors.IDNotFound, Token: n.Token}
	}
	if len(n.Args) != len(proc.Params) {
		return &errors.SemanticError{Code: errors.UnexpectedProcArgumentsNumber, Token: n.Token}
	}
	return nil
}

func (a *Analyzer) visitFunctionCall(n *ast.FunctionCall) error {
	for _, arg := range n.Args {
		if err := a.visitExpression(arg); err != nil {
			return err
		}
	}
	sym := a.currentScope.Lookup(n.Name, false)
	if sym == nil {
		return &errors.SemanticError{Code: errors.IDNotFound, Token: n.Token}
	}
	fn, ok := sym.(*symbol.Function)
	if !ok {
		return &errors.SemanticError{Code: errors.IDNotFound, Token: n.Token}
	}
	if len(n.Args) != len(fn.Params) {
		return &errors.SemanticError{Code: errors.UnexpectedProcArgumentsNumber, Token: n.Token}
	}
	return nil
}

func (a *Analyzer) visitCondition(n *ast.Condition) error {
	if err := a.visitExpression(n.Cond); err != nil {
		return err
	}
	if err := a.visitStatement(n.Then.Child); err != nil {
		return err
	}
	if n.Else != nil {
		return a.visitStatement(n.Else.Child)
	}
	return nil
}

func (a *Analyzer) visitWhileLoop(n *ast.WhileLoop) error {
	if err := a.visitExpression(n.Cond); err != nil {
		return err
	}
	return a.visitStatement(n.Body)
}
