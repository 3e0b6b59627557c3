package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallStackPushSetsNestingLevelAndEnclosing(t *testing.T) {
	cs := NewCallStack()
	program := cs.Push("p", ProgramFrame)
	assert.Equal(t, 1, program.NestingLevel)
	assert.Nil(t, program.Enclosing)

	call := cs.Push("sum", ProcedureFrame)
	assert.Equal(t, 2, call.NestingLevel)
	assert.Same(t, program, call.Enclosing)
}

func TestCallStackDynamicScopeUsesCallerFrameNotDefinitionSite(t *testing.T) {
	// Two unrelated call sites pushing the same callee name get distinct
	// Enclosing frames: the one that was on top of the stack at push
	// time, not a lexical parent (spec's dynamic-scope invariant).
	cs := NewCallStack()
	a := cs.Push("a", ProcedureFrame)
	callee1 := cs.Push("shared", ProcedureFrame)
	require.Same(t, a, callee1.Enclosing)
	cs.Pop()
	cs.Pop()

	b := cs.Push("b", ProcedureFrame)
	callee2 := cs.Push("shared", ProcedureFrame)
	require.Same(t, b, callee2.Enclosing)
}

func TestFrameGetWalksEnclosingChain(t *testing.T) {
	cs := NewCallStack()
	outer := cs.Push("outer", ProcedureFrame)
	outer.Define("x", int64(5))
	inner := cs.Push("inner", ProcedureFrame)

	v, ok := inner.Get("x")
	require.True(t, ok)
	assert.Equal(t, int64(5), v)
}

func TestFrameSetAssignsNearestBindingFrame(t *testing.T) {
	cs := NewCallStack()
	outer := cs.Push("outer", ProcedureFrame)
	outer.Define("x", int64(5))
	inner := cs.Push("inner", ProcedureFrame)

	ok := inner.Set("x", int64(9))
	require.True(t, ok)
	v, _ := outer.Get("x")
	assert.Equal(t, int64(9), v)
}

func TestFrameSetFailsWhenUnbound(t *testing.T) {
	cs := NewCallStack()
	f := cs.Push("p", ProgramFrame)
	assert.False(t, f.Set("missing", int64(1)))
}

func TestFrameDefineShadowsEnclosing(t *testing.T) {
	cs := NewCallStack()
	outer := cs.Push("outer", ProcedureFrame)
	outer.Define("x", int64(1))
	inner := cs.Push("inner", ProcedureFrame)
	inner.Define("x", int64(2))

	v, _ := inner.Get("x")
	assert.Equal(t, int64(2), v)
	v, _ = outer.Get("x")
	assert.Equal(t, int64(1), v)
}

func TestCallStackPopRestoresDepth(t *testing.T) {
	cs := NewCallStack()
	cs.Push("p", ProgramFrame)
	cs.Push("q", ProcedureFrame)
	assert.Equal(t, 2, cs.Depth())
	cs.Pop()
	assert.Equal(t, 1, cs.Depth())
	cs.Pop()
	assert.Equal(t, 0, cs.Depth())
}

func TestCallStackStringDumpsInnermostFirst(t *testing.T) {
	cs := NewCallStack()
	cs.Push("p", ProgramFrame)
	cs.Push("q", ProcedureFrame)

	out := cs.String()
	assert.Contains(t, out, "CALL STACK(memory contents):")
	qIdx := indexOf(out, "2: PROCEDURE q")
	pIdx := indexOf(out, "1: PROGRAM p")
	require.NotEqual(t, -1, qIdx)
	require.NotEqual(t, -1, pIdx)
	assert.Less(t, qIdx, pIdx, "innermost frame q must print before outer frame p")
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}
