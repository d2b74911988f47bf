package interp

import (
	"fmt"

	"github.com/mlang-dev/mlang/internal/ast"
	"github.com/mlang-dev/mlang/internal/errors"
	"github.com/mlang-dev/mlang/internal/lexer"
	"github.com/mlang-dev/mlang/internal/scope"
	"github.com/mlang-dev/mlang/internal/types"
	"github.com/mlang-dev/mlang/internal/value"
)

// kindErrorf builds a *errors.Diagnostic classified by kind at pos, the
// taxonomy spec.md's error-kind table assigns to execution-phase failures
// (TypeError for const violations/bad conversions, ArgumentError for arity
// mismatches and bad casts during binding, RuntimeError for bad call
// targets/void-used-as-value/divide-by-zero, HostError for native callback
// failures). Module.Run's error boundary unwraps this Kind instead of
// collapsing every evaluator error into RuntimeError. The active call
// stack is snapshotted onto the diagnostic so a host can report which
// calls led to the failure.
func (ev *evaluator) kindErrorf(kind errors.Kind, pos lexer.Position, format string, args ...any) error {
	d := errors.New(kind, pos, fmt.Sprintf(format, args...))
	if len(ev.callStack) > 0 {
		stack := make(errors.StackTrace, len(ev.callStack))
		copy(stack, ev.callStack)
		d = d.WithStack(stack)
	}
	return d
}

// env bundles the two things the evaluator threads through every
// statement and expression: the static scope (for resolving functions,
// types, and const-ness — the same Scope graph the parser built) and the
// runtime frame (for live Object storage). The two stay in lockstep: the
// evaluator only swaps scope when it enters an AST node that itself
// carries one (BlockStmt, ForStmt, a function's body), and only swaps
// frame when it allocates a fresh one for a block, a for loop, or a call.
type env struct {
	scope *scope.Scope
	frame *frame
}

type signalKind int

const (
	sigNone signalKind = iota
	sigBreak
	sigReturn
)

// signal propagates break/return out of nested statement execution,
// playing the role the design notes warn a method-binding mutation would
// otherwise need: a plain return value instead of exceptions or out-of-band
// state on the evaluator itself.
type signal struct {
	kind  signalKind
	value value.Rvalue
}

// evaluator walks a Module's AST against its Scope graph. One evaluator is
// created per Run; the current scope and frame travel in env, while the
// evaluator itself holds the global frame, the call depth and call stack
// of the running invocation, and the primitive types every numeric
// literal and comparison needs.
type evaluator struct {
	engine *Engine
	module *Module

	globalFrame *frame
	callDepth   int
	callStack   errors.StackTrace

	boolType   *types.TypeInfo
	intType    *types.TypeInfo
	longType   *types.TypeInfo
	floatType  *types.TypeInfo
	doubleType *types.TypeInfo
}

func newEvaluator(e *Engine, m *Module) *evaluator {
	ev := &evaluator{engine: e, module: m}
	ev.boolType, _ = e.TypeByName("bool")
	ev.intType, _ = e.TypeByName("int")
	ev.longType, _ = e.TypeByName("long")
	ev.floatType, _ = e.TypeByName("float")
	ev.doubleType, _ = e.TypeByName("double")
	return ev
}

// resolveObjectPath follows a dotted name to its live Object: the first
// part through the frame chain (locals, params, or an enclosing method's
// receiver fields), every further part through GetMember.
func (ev *evaluator) resolveObjectPath(e env, parts []string) (*value.Object, error) {
	obj, ok := e.frame.resolve(parts[0])
	if !ok {
		return nil, ev.kindErrorf(errors.NameError, lexer.Position{}, "undefined name %q", parts[0])
	}
	for _, field := range parts[1:] {
		next, ok := obj.GetMember(field)
		if !ok {
			return nil, ev.kindErrorf(errors.NameError, lexer.Position{}, "type %q has no field %q", obj.Type.Name, field)
		}
		obj = next
	}
	return obj, nil
}

// isConstTarget reports whether assigning to parts is forbidden: either
// the first part names a const-declared local/param (covering the whole
// sub-object it owns), or it isn't a declared local at all — meaning it's
// an implicit field reference — and we're lexically inside a const method.
func (ev *evaluator) isConstTarget(e env, parts []string) bool {
	if staticObj, _, ok := e.scope.ResolveObject(parts[0]); ok {
		return staticObj.IsConst
	}
	return e.scope.InConstMethod()
}

func (ev *evaluator) execStmts(e env, stmts []ast.Stmt) (signal, error) {
	for _, stmt := range stmts {
		sig, err := ev.execStmt(e, stmt)
		if err != nil || sig.kind != sigNone {
			return sig, err
		}
	}
	return signal{}, nil
}

func (ev *evaluator) execStmt(e env, stmt ast.Stmt) (signal, error) {
	switch s := stmt.(type) {
	case *ast.VarDeclStmt:
		return ev.execVarDecl(e, s)
	case *ast.AssignStmt:
		return ev.execAssign(e, s)
	case *ast.BlockStmt:
		return ev.execBlock(e, s)
	case *ast.IfStmt:
		return ev.execIf(e, s)
	case *ast.WhileStmt:
		return ev.execWhile(e, s)
	case *ast.ForStmt:
		return ev.execFor(e, s)
	case *ast.ReturnStmt:
		return ev.execReturn(e, s)
	case *ast.BreakStmt:
		return signal{kind: sigBreak}, nil
	case *ast.CallStmt:
		_, err := ev.evalCall(e, s.Call)
		return signal{}, err
	case *ast.FuncDeclStmt, *ast.ClassDeclStmt:
		// Declarations are fully handled statically by the parser; nothing
		// runs when control reaches one as a statement.
		return signal{}, nil
	default:
		return signal{}, fmt.Errorf("interp: unhandled statement %T", stmt)
	}
}

func (ev *evaluator) execVarDecl(e env, s *ast.VarDeclStmt) (signal, error) {
	staticObj, _, ok := e.scope.ResolveObject(s.Name)
	if !ok {
		return signal{}, fmt.Errorf("interp: %q was never declared in its static scope", s.Name)
	}
	runtimeObj := value.NewObject(staticObj.Type, false)
	if s.Init != nil {
		val, err := ev.evalExpr(e, s.Init)
		if err != nil {
			return signal{}, err
		}
		if staticObj.Type.IsClass {
			src, ok := val.Val.(*value.Object)
			if !ok {
				return signal{}, ev.kindErrorf(errors.TypeError, s.Pos(), "initializer for %q is not a class instance", s.Name)
			}
			if err := runtimeObj.CopyFrom(src); err != nil {
				return signal{}, err
			}
		} else if err := runtimeObj.Write(val); err != nil {
			return signal{}, err
		}
	}
	e.frame.declare(s.Name, runtimeObj)
	return signal{}, nil
}

func (ev *evaluator) execAssign(e env, s *ast.AssignStmt) (signal, error) {
	if ev.isConstTarget(e, s.Target.Parts) {
		return signal{}, ev.kindErrorf(errors.TypeError, s.Pos(), "cannot assign to const %q", s.Target.String())
	}
	val, err := ev.evalExpr(e, s.Value)
	if err != nil {
		return signal{}, err
	}
	target, err := ev.resolveObjectPath(e, s.Target.Parts)
	if err != nil {
		return signal{}, err
	}
	if target.Type.IsClass {
		src, ok := val.Val.(*value.Object)
		if !ok {
			return signal{}, ev.kindErrorf(errors.TypeError, s.Pos(), "assigned value is not a class instance")
		}
		return signal{}, target.CopyFrom(src)
	}
	return signal{}, target.Write(val)
}

// execBlock allocates a fresh child frame for block's own scope, parented
// at the enclosing env's frame, and releases it on exit the way a runtime
// activation record is expected to be torn down.
func (ev *evaluator) execBlock(e env, block *ast.BlockStmt) (signal, error) {
	blockScope, ok := block.Scope.(*scope.Scope)
	if !ok {
		return signal{}, fmt.Errorf("interp: block's scope was never bound")
	}
	child := env{scope: blockScope, frame: newFrame(e.frame)}
	sig, err := ev.execStmts(child, block.Stmts)
	child.frame.release()
	return sig, err
}

func (ev *evaluator) execIf(e env, s *ast.IfStmt) (signal, error) {
	cond, err := ev.evalExpr(e, s.Cond)
	if err != nil {
		return signal{}, err
	}
	if cond.Bool() {
		return ev.execStmt(e, s.Then)
	}
	if s.Else != nil {
		return ev.execStmt(e, s.Else)
	}
	return signal{}, nil
}

func (ev *evaluator) execWhile(e env, s *ast.WhileStmt) (signal, error) {
	for {
		cond, err := ev.evalExpr(e, s.Cond)
		if err != nil {
			return signal{}, err
		}
		if !cond.Bool() {
			return signal{}, nil
		}
		sig, err := ev.execStmt(e, s.Body)
		if err != nil {
			return signal{}, err
		}
		if sig.kind == sigBreak {
			return signal{}, nil
		}
		if sig.kind == sigReturn {
			return sig, nil
		}
	}
}

// execFor runs init once against the loop's own scope/frame (so the
// induction variable stays visible across iterations), then cond/body/step
// each iteration in that scope; a `{...}` body runs in its own block
// scope and frame nested inside it, so it still sees the induction
// variable.
func (ev *evaluator) execFor(e env, s *ast.ForStmt) (signal, error) {
	loopScope, ok := s.Scope.(*scope.Scope)
	if !ok {
		return signal{}, fmt.Errorf("interp: for-loop's scope was never bound")
	}
	loopEnv := env{scope: loopScope, frame: newFrame(e.frame)}
	defer loopEnv.frame.release()

	if s.Init != nil {
		if _, err := ev.execStmt(loopEnv, s.Init); err != nil {
			return signal{}, err
		}
	}
	for {
		if s.Cond != nil {
			cond, err := ev.evalExpr(loopEnv, s.Cond)
			if err != nil {
				return signal{}, err
			}
			if !cond.Bool() {
				break
			}
		}
		sig, err := ev.execStmt(loopEnv, s.Body)
		if err != nil {
			return signal{}, err
		}
		if sig.kind == sigBreak {
			break
		}
		if sig.kind == sigReturn {
			return sig, nil
		}
		if s.Step != nil {
			if _, err := ev.execStmt(loopEnv, s.Step); err != nil {
				return signal{}, err
			}
		}
	}
	return signal{}, nil
}

func (ev *evaluator) execReturn(e env, s *ast.ReturnStmt) (signal, error) {
	if s.Value == nil {
		return signal{kind: sigReturn}, nil
	}
	v, err := ev.evalExpr(e, s.Value)
	if err != nil {
		return signal{}, err
	}
	return signal{kind: sigReturn, value: v}, nil
}

func (ev *evaluator) evalExpr(e env, expr ast.Expr) (value.Rvalue, error) {
	switch ex := expr.(type) {
	case *ast.ValueExpr:
		isDecimal := ex.Tok.Type == lexer.DECIMAL
		return value.ParseLiteral(ex.Tok.Literal, isDecimal, ev.intType, ev.longType, ev.floatType, ev.doubleType)
	case *ast.NameExpr:
		obj, err := ev.resolveObjectPath(e, ex.Parts)
		if err != nil {
			return value.Rvalue{}, err
		}
		return obj.Rvalue(), nil
	case *ast.BinaryExpr:
		return ev.evalBinary(e, ex)
	case *ast.CallExpr:
		rv, err := ev.evalCall(e, ex)
		if err != nil {
			return value.Rvalue{}, err
		}
		if rv.Type != nil && rv.Type.IsVoid() {
			return value.Rvalue{}, ev.kindErrorf(errors.RuntimeError, ex.Pos(), "call to %q returns void and cannot be used as a value", ex.Callee.String())
		}
		return rv, nil
	default:
		return value.Rvalue{}, fmt.Errorf("interp: unhandled expression %T", expr)
	}
}

func (ev *evaluator) evalBinary(e env, ex *ast.BinaryExpr) (value.Rvalue, error) {
	lhs, err := ev.evalExpr(e, ex.Lhs)
	if err != nil {
		return value.Rvalue{}, err
	}
	rhs, err := ev.evalExpr(e, ex.Rhs)
	if err != nil {
		return value.Rvalue{}, err
	}
	switch ex.Op.Type {
	case lexer.PLUS:
		return lhs.Add(rhs)
	case lexer.MINUS:
		return lhs.Sub(rhs)
	case lexer.STAR:
		return lhs.Mul(rhs)
	case lexer.SLASH:
		rv, err := lhs.Div(rhs)
		if err != nil {
			// Division by zero is the only failure mode Div reports (an
			// int/int divisor of 0; a float divisor yields ±Inf/NaN
			// instead), so it always belongs to the bad-call-target/
			// void-as-value/divide-by-zero RuntimeError bucket.
			return value.Rvalue{}, ev.kindErrorf(errors.RuntimeError, ex.Pos(), "%s", err.Error())
		}
		return rv, nil
	case lexer.LESS:
		return lhs.Lt(rhs, ev.boolType)
	case lexer.GREATER:
		return lhs.Gt(rhs, ev.boolType)
	case lexer.LEQ:
		return lhs.Leq(rhs, ev.boolType)
	case lexer.GEQ:
		return lhs.Geq(rhs, ev.boolType)
	case lexer.NEQ:
		return lhs.Neq(rhs, ev.boolType)
	case lexer.EQ:
		return lhs.Eq(rhs, ev.boolType)
	default:
		return value.Rvalue{}, fmt.Errorf("interp: unknown binary operator %q", ex.Op.Literal)
	}
}

func (ev *evaluator) evalCall(e env, call *ast.CallExpr) (value.Rvalue, error) {
	parts := call.Callee.Parts
	args := make([]value.Rvalue, len(call.Args))
	for i, a := range call.Args {
		v, err := ev.evalExpr(e, a)
		if err != nil {
			return value.Rvalue{}, err
		}
		args[i] = v
	}

	if len(parts) == 1 {
		if fn, ok := e.scope.ResolveFunc(parts[0]); ok {
			return ev.callFunction(fn, nil, args, call.Pos())
		}
		// Inside a method body, an unqualified call that isn't a free
		// function next tries the receiver's own methods, the same
		// fallback resolveObjectPath already gives field/variable reads.
		if receiverType := e.scope.EnclosingReceiver(); receiverType != nil {
			if fn, ok := receiverType.Methods[parts[0]]; ok {
				receiver, ok := e.frame.resolveReceiver()
				if !ok {
					return value.Rvalue{}, ev.kindErrorf(errors.RuntimeError, call.Pos(), "method %q called with no receiver in scope", parts[0])
				}
				return ev.callFunction(fn, receiver, args, call.Pos())
			}
		}
		return value.Rvalue{}, ev.kindErrorf(errors.NameError, call.Pos(), "call to undefined function %q", parts[0])
	}

	receiver, err := ev.resolveObjectPath(e, parts[:len(parts)-1])
	if err != nil {
		return value.Rvalue{}, err
	}
	methodName := parts[len(parts)-1]
	if !receiver.Type.IsClass {
		return value.Rvalue{}, ev.kindErrorf(errors.RuntimeError, call.Pos(), "%q is not a class instance", call.Callee.String())
	}
	fn, ok := receiver.Type.Methods[methodName]
	if !ok {
		return value.Rvalue{}, ev.kindErrorf(errors.NameError, call.Pos(), "type %q has no method %q", receiver.Type.Name, methodName)
	}
	return ev.callFunction(fn, receiver, args, call.Pos())
}

// callFunction binds args into a brand-new frame and executes fn's body,
// or dispatches to its native implementation. A fresh frame per call is
// what makes recursion safe: two overlapping calls to the same fn never
// share the frame that holds their parameters and locals, even though they
// share the single static fnScope the parser built.
func (ev *evaluator) callFunction(fn *types.ScriptFunc, receiver *value.Object, args []value.Rvalue, pos lexer.Position) (value.Rvalue, error) {
	ev.callStack = append(ev.callStack, errors.NewStackFrame(fn.Name, ev.module.Name, &pos))
	defer func() { ev.callStack = ev.callStack[:len(ev.callStack)-1] }()

	if fn.Native != nil {
		native, ok := fn.Native.(NativeFunc)
		if !ok {
			return value.Rvalue{}, fmt.Errorf("interp: native function %q has the wrong bridge type", fn.Name)
		}
		rv, err := native(ev.engine, args)
		if err != nil {
			return value.Rvalue{}, ev.kindErrorf(errors.HostError, pos, "%s: %s", fn.Name, err.Error())
		}
		return rv, nil
	}
	if fn.Body == nil {
		return value.Rvalue{}, fmt.Errorf("interp: function %q has neither a body nor a native implementation", fn.Name)
	}
	if max := ev.engine.MaxCallDepth; max > 0 && ev.callDepth >= max {
		return value.Rvalue{}, ev.kindErrorf(errors.RuntimeError, pos, "call to %q exceeds max call depth %d", fn.Name, max)
	}
	ev.callDepth++
	defer func() { ev.callDepth-- }()
	fnScope, ok := fn.Body.Scope.(*scope.Scope)
	if !ok {
		return value.Rvalue{}, fmt.Errorf("interp: function %q's scope was never bound", fn.Name)
	}
	if len(args) != len(fn.Params) {
		return value.Rvalue{}, ev.kindErrorf(errors.ArgumentError, pos, "call to %q: expected %d argument(s), got %d", fn.Name, len(fn.Params), len(args))
	}

	callFrame := newFrame(ev.globalFrame)
	callFrame.receiver = receiver
	for i, param := range fn.Params {
		argObj := value.NewObject(param.Type, false)
		if param.Type.IsClass {
			src, ok := args[i].Val.(*value.Object)
			if !ok {
				return value.Rvalue{}, ev.kindErrorf(errors.ArgumentError, pos, "call to %q: argument %d is not a class instance", fn.Name, i+1)
			}
			if err := argObj.CopyFrom(src); err != nil {
				return value.Rvalue{}, err
			}
		} else {
			converted, err := value.ConvertScalar(args[i], param.Type)
			if err != nil {
				return value.Rvalue{}, ev.kindErrorf(errors.ArgumentError, pos, "call to %q: argument %d: %s", fn.Name, i+1, err.Error())
			}
			if err := argObj.Write(converted); err != nil {
				return value.Rvalue{}, err
			}
		}
		callFrame.declare(param.Name, argObj)
	}

	callEnv := env{scope: fnScope, frame: callFrame}
	sig, err := ev.execStmts(callEnv, fn.Body.Body.Stmts)
	callFrame.release()
	if err != nil {
		return value.Rvalue{}, err
	}
	if sig.kind == sigReturn {
		return sig.value, nil
	}
	if fn.ReturnType != nil && !fn.ReturnType.IsVoid() {
		return value.Rvalue{}, ev.kindErrorf(errors.RuntimeError, pos, "function %q fell off the end without returning a value", fn.Name)
	}
	return value.Rvalue{Type: fn.ReturnType}, nil
}
