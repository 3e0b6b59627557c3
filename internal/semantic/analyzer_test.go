package semantic

import (
	"testing"

	"github.com/go-pasc/pasc/internal/errors"
	"github.com/go-pasc/pasc/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analyze(t *testing.T, src string) error {
	t.Helper()
	program, err := parser.Parse(src)
	require.NoError(t, err, "fixture must parse")
	return New().Analyze(program)
}

func TestAnalyzeAcceptsDeclareThenUse(t *testing.T) {
	err := analyze(t, "program p; var x : integer; begin x := 1 end.")
	assert.NoError(t, err)
}

func TestAnalyzeRejectsUndeclaredVariable(t *testing.T) {
	err := analyze(t, "program p; begin x := 1 end.")
	require.Error(t, err)
	semErr, ok := err.(*errors.SemanticError)
	require.True(t, ok, "expected *errors.SemanticError, got %T", err)
	assert.Equal(t, errors.IDNotFound, semErr.Code)
}

func TestAnalyzeRejectsDuplicateVarDeclaration(t *testing.T) {
	err := analyze(t, "program p; var a, a : integer; begin end.")
	require.Error(t, err)
	semErr, ok := err.(*errors.SemanticError)
	require.True(t, ok, "expected *errors.SemanticError, got %T", err)
	assert.Equal(t, errors.DuplicateID, semErr.Code)
}

func TestAnalyzeRejectsDuplicateProcedureDeclaration(t *testing.T) {
	err := analyze(t, `program p;
	  procedure greet; begin end;
	  procedure greet; begin end;
	  begin end.`)
	require.Error(t, err)
	semErr, ok := err.(*errors.SemanticError)
	require.True(t, ok, "expected *errors.SemanticError, got %T", err)
	assert.Equal(t, errors.DuplicateProcDecl, semErr.Code)
}

func TestAnalyzeRejectsWrongCallArity(t *testing.T) {
	err := analyze(t, `program p;
	  procedure sum(x, y : integer); begin end;
	  begin sum(1) end.`)
	require.Error(t, err)
	semErr, ok := err.(*errors.SemanticError)
	require.True(t, ok, "expected *errors.SemanticError, got %T", err)
	assert.Equal(t, errors.UnexpectedProcArgumentsNumber, semErr.Code)
}

func TestAnalyzeAcceptsFunctionReturnByNameAssignment(t *testing.T) {
	err := analyze(t, `program p;
	  var r : integer;
	  function square(n : integer) : integer;
	  begin
	    square := n * n
	  end;
	  begin r := square(4) end.`)
	assert.NoError(t, err)
}

func TestAnalyzeAcceptsNestedProcedureScoping(t *testing.T) {
	err := analyze(t, `program p;
	  procedure outer;
	    procedure inner;
	    begin end;
	  begin inner() end;
	  begin outer() end.`)
	assert.NoError(t, err)
}

func TestAnalyzeParametersAreVisibleInsideBody(t *testing.T) {
	err := analyze(t, `program p;
	  procedure show(x : integer);
	  begin x := x + 1 end;
	  begin show(1) end.`)
	assert.NoError(t, err)
}

func TestAnalyzeRejectsUndeclaredCallee(t *testing.T) {
	err := analyze(t, "program p; begin doStuff() end.")
	require.Error(t, err)
	semErr, ok := err.(*errors.SemanticError)
	require.True(t, ok, "expected *errors.SemanticError, got %T", err)
	assert.Equal(t, errors.IDNotFound, semErr.Code)
}
