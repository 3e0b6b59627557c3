// Package symbol implements the nested scoped symbol tables built by the
// semantic analyzer (spec §3, §4.3).
package symbol

import (
	"fmt"
	"strings"

	"github.com/go-pasc/pasc/internal/ast"
)

// Symbol is implemented by every symbol variant; all four share a Name.
type Symbol interface {
	symbolName() string
	String() string
}

// BuiltinType is one of the three built-in type symbols (INTEGER, REAL,
// BOOLEAN), populated into the level-0 scope.
type BuiltinType struct {
	Name string
}

func (s *BuiltinType) symbolName() string { return s.Name }
func (s *BuiltinType) String() string     { return s.Name }

// Variable is a declared variable or formal parameter, bound to its
// built-in type symbol.
type Variable struct {
	Name string
	Type *BuiltinType
}

func (s *Variable) symbolName() string { return s.Name }
func (s *Variable) String() string     { return fmt.Sprintf("<Variable(%s:%s)>", s.Name, s.Type.Name) }

// Procedure is a procedure declaration's symbol: its formal parameters
// (in declaration order) and a reference back to the declaration node so
// the interpreter can resolve the callee's block.
type Procedure struct {
	Name   string
	Params []*Variable
	Decl   *ast.ProcedureDecl
}

func (s *Procedure) symbolName() string { return s.Name }
func (s *Procedure) String() string {
	return fmt.Sprintf("<Procedure(name=%s, params=%d)>", s.Name, len(s.Params))
}

// Function is a function declaration's symbol, additionally carrying its
// declared return type.
type Function struct {
	Name       string
	Params     []*Variable
	ReturnType *BuiltinType
	Decl       *ast.FunctionDecl
}

func (s *Function) symbolName() string { return s.Name }
func (s *Function) String() string {
	return fmt.Sprintf("<Function(name=%s, params=%d, returns=%s)>", s.Name, len(s.Params), s.ReturnType.Name)
}

// ScopedSymbolTable is one level of nested lexical scope: a name→Symbol
// map with an optional enclosing scope.
type ScopedSymbolTable struct {
	ScopeName  string
	ScopeLevel int
	Enclosing  *ScopedSymbolTable

	entries map[string]Symbol
	order   []string // insertion order, for deterministic dumps
}

// NewBuiltinScope constructs the level-0 scope, prepopulated with the
// three built-in type symbols (spec §4.3 initialization).
func NewBuiltinScope() *ScopedSymbolTable {
	s := New("builtin", 0, nil)
	for _, name := range []string{"INTEGER", "REAL", "BOOLEAN"} {
		s.Define(&BuiltinType{Name: name})
	}
	return s
}

// New constructs an empty scope at the given level, chained to enclosing.
func New(name string, level int, enclosing *ScopedSymbolTable) *ScopedSymbolTable {
	return &ScopedSymbolTable{
		ScopeName:  name,
		ScopeLevel: level,
		entries:    make(map[string]Symbol),
	Enclosing: enclosing,
	}
}

// Define inserts sym under its own name, overwriting any prior entry at
// this scope level. Callers are responsible for duplicate detection
// before calling Define (spec §4.3's DUPLICATE_ID / DUPLICATE_PROC_DECL).
func (t *ScopedSymbolTable) Define(sym Symbol) {
	name := sym.symbolName()
	if _, exists := t.entries[name]; !exists {
		t.order = append(t.order, name)
	}
	t.entries[name] = sym
}

// Lookup resolves name in this scope, walking the enclosing chain unless
// currentScopeOnly is set (spec §3's ScopedSymbolTable invariant).
func (t *ScopedSymbolTable) Lookup(name string, currentScopeOnly bool) Symbol {
	if sym, ok := t.entries[name]; ok {
		return sym
	}
	if currentScopeOnly || t.Enclosing == nil {
		return nil
	}
	return t.Enclosing.Lookup(name, false)
}

// IsDeclaredInCurrentScope reports whether name is defined directly in
// this scope, ignoring enclosing scopes.
func (t *ScopedSymbolTable) IsDeclaredInCurrentScope(name string) bool {
	_, ok := t.entries[name]
	return ok
}

// String renders the scope header and its entries in declaration order,
// in the teacher/original's "SCOPE (SCOPED SYMBOL TABLE)" dump style.
func (t *ScopedSymbolTable) String() string {
	var b strings.Builder
	enclosingName := "None"
	if t.Enclosing != nil {
		enclosingName = t.Enclosing.ScopeName
	}
	fmt.Fprintf(&b, "SCOPE (SCOPED SYMBOL TABLE)\n")
	fmt.Fprintf(&b, "Scope name     : %s\n", t.ScopeName)
	fmt.Fprintf(&b, "Scope level    : %d\n", t.ScopeLevel)
	fmt.Fprintf(&b, "Enclosing scope: %s\n", enclosingName)
	fmt.Fprintf(&b, "Scope (Scoped symbol table) contents\n")
	for _, name := range t.order {
		fmt.Fprintf(&b, "%7s: %s\n", name, t.entries[name])
	}
	return b.String()
}
