// Package interp is the tree-walking evaluator of spec §4.4: it mutates
// a dynamically-nested call stack of Frames, dispatches procedure and
// function calls, and evaluates expressions.
package interp

import (
	"fmt"
	"io"
	"math"

	"github.com/go-pasc/pasc/internal/ast"
	"github.com/go-pasc/pasc/internal/errors"
	"github.com/go-pasc/pasc/internal/token"
)

// Interpreter owns the call stack for one program run. Trace receives
// the ENTER/LEAVE and call-stack-dump lines of spec §6; New substitutes
// io.Discard for a nil writer, so an Interpreter built with New(nil)
// produces no output.
type Interpreter struct {
	stack *CallStack
	Trace io.Writer
}

// New returns an Interpreter with a fresh, empty call stack.
func New(trace io.Writer) *Interpreter {
	if trace == nil {
		trace = io.Discard
	}
	return &Interpreter{stack: NewCallStack(), Trace: trace}
}

func (i *Interpreter) enter(f *Frame) {
	fmt.Fprintf(i.Trace, "ENTER: %s %s\n", f.Kind, f.Name)
}

// leave must be called while f is still the top of the stack: it dumps
// the stack with f's own member writes included, then the caller pops
// f, matching original_source/callstack.py's log-then-pop order.
func (i *Interpreter) leave(f *Frame) {
	fmt.Fprintf(i.Trace, "LEAVE: %s %s\n", f.Kind, f.Name)
	fmt.Fprint(i.Trace, i.stack.String())
}

// Run executes program from a clean call stack. A division-by-zero
// panic from the host's own integer division (spec §9 open question 4)
// is recovered here and surfaced as a RuntimeError rather than crashing
// the process.
func (i *Interpreter) Run(program *ast.Program) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &errors.RuntimeError{
				Code:  errors.DivisionByZero,
				Token: token.Token{Kind: token.ILLEGAL, Value: fmt.Sprint(r), Pos: program.Pos()},
			}
		}
	}()

	frame := i.stack.Push(program.Name, ProgramFrame)
	i.enter(frame)
	// leave/Pop run as a defer so the frame is released, and its dump
	// printed while it is still the top of stack, on every exit path —
	// including a panic unwinding through visitBlock (spec §5's frame
	// discipline guarantee).
	defer func() {
		i.leave(frame)
		i.stack.Pop()
	}()

	signal, err := i.visitBlock(program.Block)
	if err != nil {
		return err
	}
	switch signal.Kind {
	case BreakSignal:
		return &errors.RuntimeError{Code: errors.BreakOutsideLoop, Token: program.Token}
	case ContinueSignal:
		return &errors.RuntimeError{Code: errors.ContinueOutsideLoop, Token: program.Token}
	}
	return nil
}

func (i *Interpreter) visitBlock(b *ast.Block) (ControlSignal, error) {
	for _, decl := range b.Declarations {
		if signal, err := i.visitStatement(decl); err != nil || signal.Kind != Normal {
			return signal, err
		}
	}
	return i.visitCompound(b.Body)
}

func (i *Interpreter) visitCompound(c *ast.Compound) (ControlSignal, error) {
	for _, stmt := range c.Statements {
		signal, err := i.visitStatement(stmt)
		if err != nil || signal.Kind != Normal {
			return signal, err
		}
	}
	return signalNormal, nil
}

func (i *Interpreter) visitStatement(s ast.Statement) (ControlSignal, error) {
	switch n := s.(type) {
	case *ast.VarDecl:
		i.stack.Current().Define(n.Var.Name, nil)
		return signalNormal, nil

	case *ast.ProcedureDecl:
		i.stack.Current().Define(n.Name, n)
		return signalNormal, nil

	case *ast.FunctionDecl:
		i.stack.Current().Define(n.Name, n)
		return signalNormal, nil

	case *ast.Compound:
		return i.visitCompound(n)

	case *ast.Assign:
		return signalNormal, i.visitAssign(n)

	case *ast.ProcedureCall:
		_, signal, err := i.invoke(n.Name, n.Args, n.Token, ProcedureFrame)
		return signal, err

	case *ast.Condition:
		return i.visitCondition(n)

	case *ast.WhileLoop:
		return i.visitWhileLoop(n)

	case *ast.Break:
		return ControlSignal{Kind: BreakSignal}, nil

	case *ast.Continue:
		return ControlSignal{Kind: ContinueSignal}, nil

	case *ast.NoOp:
		return signalNormal, nil

	default:
		return signalNormal, fmt.Errorf("interp: unhandled statement node %T", s)
	}
}

func (i *Interpreter) visitAssign(n *ast.Assign) error {
	value, err := i.evalExpression(n.Value)
	if err != nil {
		return err
	}

	current := i.stack.Current()
	if current.Kind == FunctionFrame && n.Target.Name == current.Name {
		current.ReturnValue = &value
		return nil
	}

	if !current.Set(n.Target.Name, value) {
		return &errors.RuntimeError{Code: errors.UnboundName, Token: n.Target.Token}
	}
	return nil
}

func (i *Interpreter) visitCondition(n *ast.Condition) (ControlSignal, error) {
	cond, err := i.evalExpression(n.Cond)
	if err != nil {
		return signalNormal, err
	}
	b, ok := cond.(bool)
	if !ok {
		return signalNormal, &errors.RuntimeError{Code: errors.UnboundName, Token: n.Token}
	}
	if b {
		return i.visitStatement(n.Then.Child)
	}
	if n.Else != nil {
		return i.visitStatement(n.Else.Child)
	}
	return signalNormal, nil
}

func (i *Interpreter) visitWhileLoop(n *ast.WhileLoop) (ControlSignal, error) {
	for {
		cond, err := i.evalExpression(n.Cond)
		if err != nil {
			return signalNormal, err
		}
		b, ok := cond.(bool)
		if !ok {
			return signalNormal, &errors.RuntimeError{Code: errors.UnboundName, Token: n.Token}
		}
		if !b {
			return signalNormal, nil
		}

		signal, err := i.visitStatement(n.Body)
		if err != nil {
			return signalNormal, err
		}
		switch signal.Kind {
		case BreakSignal:
			return signalNormal, nil
		case ContinueSignal:
			continue
		}
	}
}

// invoke resolves name as a first-class procedure/function declaration
// bound into the current frame chain, evaluates actual arguments
// left-to-right in the caller's frame, pushes a new frame of kind, binds
// formals in declaration order, and runs the callee's block (spec
// §4.4's ProcedureCall/FunctionCall steps).
func (i *Interpreter) invoke(name string, args []ast.Expression, callToken token.Token, kind FrameKind) (*Frame, ControlSignal, error) {
	declValue, ok := i.stack.Current().Get(name)
	if !ok {
		return nil, signalNormal, &errors.RuntimeError{Code: errors.UnboundName, Token: callToken}
	}

	var params []*ast.Param
	var block *ast.Block
	switch d := declValue.(type) {
	case *ast.ProcedureDecl:
		params, block = d.Params, d.Block
	case *ast.FunctionDecl:
		params, block = d.Params, d.Block
	default:
		return nil, signalNormal, &errors.RuntimeError{Code: errors.UnboundName, Token: callToken}
	}

	argValues := make([]Value, len(args))
	for idx, a := range args {
		v, err := i.evalExpression(a)
		if err != nil {
			return nil, signalNormal, err
		}
		argValues[idx] = v
	}

	frame := i.stack.Push(name, kind)
	i.enter(frame)
	// Deferred so frame is guaranteed to be popped on every exit path,
	// including a division-by-zero panic unwinding through visitBlock
	// several calls deep (spec §5's frame discipline guarantee) — and so
	// the stack is dumped, via leave, while frame is still its top.
	defer func() {
		i.leave(frame)
		i.stack.Pop()
	}()

	for idx, param := range params {
		frame.Define(param.Var.Name, argValues[idx])
	}

	signal, err := i.visitBlock(block)
	if err != nil {
		return frame, signalNormal, err
	}
	return frame, signal, nil
}

// evalExpression evaluates e against the current frame chain.
func (i *Interpreter) evalExpression(e ast.Expression) (Value, error) {
	switch n := e.(type) {
	case *ast.Num:
		return parseNum(n)

	case *ast.Boolean:
		return n.Value, nil

	case *ast.Var:
		v, ok := i.stack.Current().Get(n.Name)
		if !ok {
			return nil, &errors.RuntimeError{Code: errors.UnboundName, Token: n.Token}
		}
		return v, nil

	case *ast.UnaryOp:
		return i.evalUnaryOp(n)

	case *ast.BinOp:
		return i.evalBinOp(n)

	case *ast.FunctionCall:
		popped, signal, err := i.invoke(n.Name, n.Args, n.Token, FunctionFrame)
		if err != nil {
			return nil, err
		}
		// A break/continue escaping a function body has no statement
		// list to propagate into at an expression call site; surface
		// it as a runtime error rather than discard it silently.
		switch signal.Kind {
		case BreakSignal:
			return nil, &errors.RuntimeError{Code: errors.BreakOutsideLoop, Token: n.Token}
		case ContinueSignal:
			return nil, &errors.RuntimeError{Code: errors.ContinueOutsideLoop, Token: n.Token}
		}
		if popped.ReturnValue == nil {
			return nil, &errors.RuntimeError{Code: errors.MissingReturn, Token: n.Token}
		}
		return *popped.ReturnValue, nil

	default:
		return nil, fmt.Errorf("interp: unhandled expression node %T", e)
	}
}

func parseNum(n *ast.Num) (Value, error) {
	if n.Token.Kind == token.REAL_CONST {
		var f float64
		if _, err := fmt.Sscanf(n.Token.Value, "%g", &f); err != nil {
			return nil, err
		}
		return f, nil
	}
	var v int64
	if _, err := fmt.Sscanf(n.Token.Value, "%d", &v); err != nil {
		return nil, err
	}
	return v, nil
}

func (i *Interpreter) evalUnaryOp(n *ast.UnaryOp) (Value, error) {
	operand, err := i.evalExpression(n.Operand)
	if err != nil {
		return nil, err
	}
	switch n.Op.Kind {
	case token.PLUS:
		return operand, nil
	case token.MINUS:
		switch v := operand.(type) {
		case int64:
			return -v, nil
		case float64:
			return -v, nil
		default:
			return nil, &errors.RuntimeError{Code: errors.UnboundName, Token: n.Op}
		}
	case token.NOT:
		b, ok := operand.(bool)
		if !ok {
			return nil, &errors.RuntimeError{Code: errors.UnboundName, Token: n.Op}
		}
		return !b, nil
	default:
		return nil, fmt.Errorf("interp: unhandled unary operator %s", n.Op.Kind)
	}
}

// numericOperands converts a, b to a common numeric representation,
// reporting whether both were integral (in which case integer-typed
// operators apply int64 arithmetic directly, preserving Go's own
// division-by-zero behavior per §9 open question 4).
func numericOperands(a, b Value) (af, bf float64, ai, bi int64, bothInt, ok bool) {
	switch av := a.(type) {
	case int64:
		ai = av
		af = float64(av)
	case float64:
		af = av
	default:
		return 0, 0, 0, 0, false, false
	}
	switch bv := b.(type) {
	case int64:
		bi = bv
		bf = float64(bv)
	case float64:
		bf = bv
	default:
		return 0, 0, 0, 0, false, false
	}
	_, aIsInt := a.(int64)
	_, bIsInt := b.(int64)
	return af, bf, ai, bi, aIsInt && bIsInt, true
}

// floorDiv is Go's truncating a/b adjusted to floor division, matching
// Python's `//` (original_source/interpreter.py's INTEGER_DIV case): the
// quotient rounds toward negative infinity rather than toward zero, so
// -7 // 2 is -4, not -3. Panics on b == 0, same as a bare Go division,
// recovered at the top of Run.
func floorDiv(a, b int64) int64 {
	q := a / b
	if r := a % b; r != 0 && (r < 0) != (b < 0) {
		q--
	}
	return q
}

func (i *Interpreter) evalBinOp(n *ast.BinOp) (Value, error) {
	// Both operands are always evaluated, even for AND/OR: the source
	// does not short-circuit (spec §9 open question 3).
	left, err := i.evalExpression(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := i.evalExpression(n.Right)
	if err != nil {
		return nil, err
	}

	switch n.Op.Kind {
	case token.AND, token.OR:
		lb, lok := left.(bool)
		rb, rok := right.(bool)
		if !lok || !rok {
			return nil, &errors.RuntimeError{Code: errors.UnboundName, Token: n.Op}
		}
		if n.Op.Kind == token.AND {
			return lb && rb, nil
		}
		return lb || rb, nil

	case token.EQUALS, token.NOT_EQUALS:
		equal := valuesEqual(left, right)
		if n.Op.Kind == token.EQUALS {
			return equal, nil
		}
		return !equal, nil
	}

	af, bf, ai, bi, bothInt, ok := numericOperands(left, right)
	if !ok {
		return nil, &errors.RuntimeError{Code: errors.UnboundName, Token: n.Op}
	}

	switch n.Op.Kind {
	case token.PLUS:
		if bothInt {
			return ai + bi, nil
		}
		return af + bf, nil
	case token.MINUS:
		if bothInt {
			return ai - bi, nil
		}
		return af - bf, nil
	case token.MUL:
		if bothInt {
			return ai * bi, nil
		}
		return af * bf, nil
	case token.MOD:
		if bothInt {
			return ai % bi, nil
		}
		return math.Mod(af, bf), nil
	case token.INTEGER_DIV:
		if bothInt {
			return floorDiv(ai, bi), nil
		}
		return math.Floor(af / bf), nil
	case token.FLOAT_DIV:
		return af / bf, nil
	case token.LESS:
		return af < bf, nil
	case token.LESS_EQUALS:
		return af <= bf, nil
	case token.GREATER:
		return af > bf, nil
	case token.GREATER_EQUALS:
		return af >= bf, nil
	default:
		return nil, fmt.Errorf("interp: unhandled binary operator %s", n.Op.Kind)
	}
}

func valuesEqual(a, b Value) bool {
	if af, bf, _, _, _, ok := numericOperands(a, b); ok {
		return af == bf
	}
	ab, aIsBool := a.(bool)
	bb, bIsBool := b.(bool)
	if aIsBool && bIsBool {
		return ab == bb
	}
	return a == b
}
