package parser

import (
	"testing"

	"github.com/go-pasc/pasc/internal/ast"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	program, err := Parse(src)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return program
}

func TestParseMinimalProgram(t *testing.T) {
	program := mustParse(t, "program p; begin end.")
	if program.Name != "p" {
		t.Fatalf("got name %q", program.Name)
	}
	if len(program.Block.Declarations) != 0 {
		t.Fatalf("expected no declarations, got %d", len(program.Block.Declarations))
	}
}

func TestParseVarDeclarations(t *testing.T) {
	program := mustParse(t, "program p; var a, b : integer; c : real; begin end.")
	decls := program.Block.Declarations
	if len(decls) != 3 {
		t.Fatalf("expected 3 var decls, got %d", len(decls))
	}
	first := decls[0].(*ast.VarDecl)
	if first.Var.Name != "a" || first.Type.Name != "INTEGER" {
		t.Fatalf("got %+v", first)
	}
	third := decls[2].(*ast.VarDecl)
	if third.Var.Name != "c" || third.Type.Name != "REAL" {
		t.Fatalf("got %+v", third)
	}
}

func TestParseExpressionPrecedence(t *testing.T) {
	// c := 2 + 3 * 4  =>  BinOp(+, 2, BinOp(*, 3, 4))
	program := mustParse(t, "program p; var c : integer; begin c := 2 + 3 * 4 end.")
	assign := program.Block.Body.Statements[0].(*ast.Assign)
	add := assign.Value.(*ast.BinOp)
	if add.Op.Value != "+" {
		t.Fatalf("got top operator %q", add.Op.Value)
	}
	mul := add.Right.(*ast.BinOp)
	if mul.Op.Value != "*" {
		t.Fatalf("expected nested multiplication, got %q", mul.Op.Value)
	}
}

func TestParseProcedureCallDisambiguation(t *testing.T) {
	program := mustParse(t, `program p;
	  procedure sum(x,y:integer); begin end;
	  begin sum(2,5) end.`)
	call := program.Block.Body.Statements[0].(*ast.ProcedureCall)
	if call.Name != "sum" || len(call.Args) != 2 {
		t.Fatalf("got %+v", call)
	}
}

func TestParseAssignmentDisambiguation(t *testing.T) {
	program := mustParse(t, "program p; var x : integer; begin x := 1 end.")
	if _, ok := program.Block.Body.Statements[0].(*ast.Assign); !ok {
		t.Fatalf("expected Assign, got %T", program.Block.Body.Statements[0])
	}
}

func TestParseWhileWithBreakContinue(t *testing.T) {
	program := mustParse(t, `program p; var a : integer;
	  begin
	    while a <> 10 do begin a := a + 1; if a = 3 then continue; if a = 8 then break end
	  end.`)
	loop := program.Block.Body.Statements[0].(*ast.WhileLoop)
	body := loop.Body.(*ast.Compound)
	cont := body.Statements[1].(*ast.Condition)
	if _, ok := cont.Then.Child.(*ast.Continue); !ok {
		t.Fatalf("expected Continue in then-branch, got %T", cont.Then.Child)
	}
	cond := body.Statements[2].(*ast.Condition)
	if _, ok := cond.Then.Child.(*ast.Break); !ok {
		t.Fatalf("expected Break in then-branch, got %T", cond.Then.Child)
	}
}

func TestParseFunctionDeclaration(t *testing.T) {
	program := mustParse(t, `program p;
	  function fib(n:integer):integer;
	  begin
	    if n = 0 or n = 1 then fib := n else fib := fib(n-1) + fib(n-2)
	  end;
	  begin end.`)
	decl := program.Block.Declarations[0].(*ast.FunctionDecl)
	if decl.Name != "fib" || decl.ReturnType.Name != "INTEGER" {
		t.Fatalf("got %+v", decl)
	}
	if len(decl.Params) != 1 || decl.Params[0].Var.Name != "n" {
		t.Fatalf("got params %+v", decl.Params)
	}
}

func TestParseDuplicateDeclarationIsNotAParserError(t *testing.T) {
	// Duplicate detection belongs to the semantic analyzer (spec §4.3),
	// not the parser: `var a, a : integer;` must parse successfully.
	program := mustParse(t, "program p; var a, a : integer; begin end.")
	if len(program.Block.Declarations) != 2 {
		t.Fatalf("expected 2 declarations to parse, got %d", len(program.Block.Declarations))
	}
}

func TestParseRejectsMissingEOF(t *testing.T) {
	if _, err := Parse("program p; begin end. garbage"); err == nil {
		t.Fatal("expected a syntax error for trailing tokens after the final dot")
	}
}

func TestParseNestedProcedureDeclaration(t *testing.T) {
	program := mustParse(t, `program p;
	  procedure outer;
	    procedure inner;
	    begin end;
	  begin inner() end;
	  begin outer() end.`)
	outer := program.Block.Declarations[0].(*ast.ProcedureDecl)
	if len(outer.Block.Declarations) != 1 {
		t.Fatalf("expected inner procedure declared inside outer's block, got %d decls", len(outer.Block.Declarations))
	}
	if _, ok := outer.Block.Declarations[0].(*ast.ProcedureDecl); !ok {
		t.Fatalf("expected nested ProcedureDecl, got %T", outer.Block.Declarations[0])
	}
}
