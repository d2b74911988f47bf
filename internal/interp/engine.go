// Package interp ties the front end together: an Engine owns the global
// scope and type-id allocation; a Module owns one compilation unit's
// source, AST, and module-level scope; the evaluator walks a Module's AST
// against the Scope graph the parser already built.
package interp

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/mlang-dev/mlang/internal/errors"
	"github.com/mlang-dev/mlang/internal/scope"
	"github.com/mlang-dev/mlang/internal/types"
	"github.com/mlang-dev/mlang/internal/value"
)

// NativeFunc is the shape every host-registered callable takes: the
// Engine plus bound arguments in order, returning a result (the zero
// Rvalue for void) or an error that surfaces as a HostError diagnostic.
type NativeFunc func(e *Engine, args []value.Rvalue) (value.Rvalue, error)

// DiagnosticSink receives every Diagnostic a build or run produces, in
// order. The default sink formats each one to Output.
type DiagnosticSink func(d *errors.Diagnostic)

// Engine is the top-level embedding handle: it owns the modules mapping,
// the global scope (where host registrations and primitive types live),
// and a monotonically increasing type-id counter shared by every Module
// it builds.
type Engine struct {
	modules map[string]*Module
	global  *scope.Scope

	nextTypeID uint64

	Output io.Writer
	Sink   DiagnosticSink

	// MaxCallDepth bounds script-function call nesting; 0 leaves it
	// unbounded. Native calls never count against it — only the
	// recursive-descent through script bodies can run away.
	MaxCallDepth int
}

// New creates an Engine with the default primitive type table registered
// in a fresh global scope and Output defaulted to os.Stderr for
// diagnostics, matching spec's "default: standard error" sink.
func New() *Engine {
	e := &Engine{modules: make(map[string]*Module), Output: os.Stderr}
	e.global = scope.New(scope.Plain)
	for _, t := range types.DefaultPrimitives(e) {
		e.global.DeclareType(t.Name, t)
	}
	e.Sink = func(d *errors.Diagnostic) { fmt.Fprintln(e.Output, d.Format(false)) }
	return e
}

// NextTypeID implements types.IDAllocator. Atomic because a host may
// register types from multiple goroutines before any Engine invocation
// begins, even though no two invocations of the same Engine ever run
// concurrently (see spec's single-threaded-per-invocation model).
func (e *Engine) NextTypeID() uint64 {
	return atomic.AddUint64(&e.nextTypeID, 1)
}

// GlobalScope returns the Engine's global scope, where host registrations
// live alongside the primitive type table.
func (e *Engine) GlobalScope() *scope.Scope { return e.global }

// emit reports d through the Engine's sink.
func (e *Engine) emit(d *errors.Diagnostic) {
	if e.Sink != nil {
		e.Sink(d)
	}
}

// RegisterFunction installs a native free function, visible to every
// Module this Engine builds afterward, under name.
func (e *Engine) RegisterFunction(name string, params []types.Param, returnType *types.TypeInfo, fn NativeFunc) error {
	sf := &types.ScriptFunc{Name: name, Params: params, ReturnType: returnType, Native: fn}
	if !e.global.DeclareFunc(name, sf) {
		return fmt.Errorf("RegisterFunction: %q is already registered", name)
	}
	return nil
}

// RegisterType installs a native TypeInfo (built by the caller with
// NewClass/AddField; pkg/mlang's RegisterType passes it straight through)
// under its own name.
func (e *Engine) RegisterType(t *types.TypeInfo) error {
	if _, exists := e.global.ResolveType(t.Name); exists {
		return fmt.Errorf("RegisterType: %q is already registered", t.Name)
	}
	e.global.DeclareType(t.Name, t)
	return nil
}

// RegisterMethod attaches a native method to a previously registered
// class type.
func (e *Engine) RegisterMethod(t *types.TypeInfo, name string, params []types.Param, returnType *types.TypeInfo, isConst bool, fn NativeFunc) error {
	if !t.IsClass {
		return fmt.Errorf("RegisterMethod: %q is not a class type", t.Name)
	}
	sf := &types.ScriptFunc{
		Name: name, Params: params, ReturnType: returnType,
		IsMethod: true, IsConstMethod: isConst, Native: fn, ReceiverType: t,
	}
	if !t.AddMethod(name, sf) {
		return fmt.Errorf("RegisterMethod: %q already has a method named %q", t.Name, name)
	}
	return nil
}

// TypeByName looks up a type visible in the global scope.
func (e *Engine) TypeByName(name string) (*types.TypeInfo, bool) {
	return e.global.ResolveType(name)
}

// TypeByID scans every type registered in the global scope for one with
// the given id. Types are few and this is called rarely (host tooling,
// diagnostics), so a linear scan over the global scope's own table is
// preferred over maintaining a second id-keyed index.
func (e *Engine) TypeByID(id uint64) (*types.TypeInfo, bool) {
	for _, t := range e.global.Types {
		if t.ID == id {
			return t, true
		}
	}
	return nil, false
}

// NewModule creates an empty, unbuilt Module named name under this Engine.
func (e *Engine) NewModule(name string) *Module {
	m := &Module{
		engine: e,
		Name:   name,
		scope:  scope.NewChild(e.global, scope.Plain),
	}
	e.modules[name] = m
	return m
}

// Module looks up a previously created module by name.
func (e *Engine) Module(name string) (*Module, bool) {
	m, ok := e.modules[name]
	return m, ok
}
