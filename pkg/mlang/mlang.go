// Package mlang is the host-embedding facade over internal/interp: a
// functional-options Engine, reflection-based native registration (the way
// a Go host actually wires up callables, rather than hand-building
// internal/types.Param lists), and an Eval/Run pair returning a Result the
// host can check without inspecting error internals.
package mlang

import (
	"fmt"
	"io"

	"github.com/mlang-dev/mlang/internal/errors"
	"github.com/mlang-dev/mlang/internal/interp"
	"github.com/mlang-dev/mlang/internal/value"
)

// Engine wraps an internal/interp.Engine with the host-facing surface:
// reflection-based registration and a small result type in place of raw
// Rvalues.
type Engine struct {
	core      *interp.Engine
	moduleSeq int
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithOutput directs the default diagnostic sink's formatted output to w
// (stderr if never set).
func WithOutput(w io.Writer) Option {
	return func(e *Engine) { e.core.Output = w }
}

// WithDiagnostics overrides the diagnostic sink entirely, bypassing the
// default formatter — useful for a host that wants structured diagnostics
// instead of formatted text.
func WithDiagnostics(sink func(*errors.Diagnostic)) Option {
	return func(e *Engine) { e.core.Sink = sink }
}

// WithMaxCallDepth bounds recursion depth; 0 (the default) leaves it
// unbounded. Exceeding the bound surfaces as a RuntimeError diagnostic and
// a failed Result, the same shape a stack overflow would otherwise take
// down the host with.
func WithMaxCallDepth(depth int) Option {
	return func(e *Engine) { e.core.MaxCallDepth = depth }
}

// New creates an Engine with the primitive type table already registered,
// applying every Option in order.
func New(options ...Option) (*Engine, error) {
	e := &Engine{core: interp.New()}
	for _, opt := range options {
		opt(e)
	}
	return e, nil
}

// SetOutput is the imperative counterpart to WithOutput, for hosts that
// construct an Engine before deciding where diagnostics should go.
func (e *Engine) SetOutput(w io.Writer) { e.core.Output = w }

// Result is what Eval/Run report back instead of a raw internal Rvalue: a
// host checks Success rather than threading interp error kinds through its
// own call sites.
type Result struct {
	Success     bool
	Value       any
	Diagnostics []*errors.Diagnostic
}

// Eval builds and runs src as a freshly named module in one step — the
// shape a host reaches for when it just has a script string, not a file it
// wants to reuse across multiple Run calls. It is equivalent to Build
// followed by Run on the returned Module.
func (e *Engine) Eval(src string) (Result, error) {
	m, err := e.Build(fmt.Sprintf("eval#%d", e.nextModuleSeq()), src)
	if err != nil {
		return Result{Success: false, Diagnostics: m.Diagnostics()}, err
	}
	return m.Run()
}

func (e *Engine) nextModuleSeq() int {
	e.moduleSeq++
	return e.moduleSeq
}

// Module is a built, runnable compilation unit: a host that wants to run
// the same program more than once builds it via Engine.Build and calls
// Run repeatedly, instead of re-lexing and re-parsing through Eval each
// time.
type Module struct {
	core *interp.Module
}

// Build lexes, parses, and scope-checks src under name, returning a Module
// ready for (possibly repeated) Run calls. A build failure still returns a
// non-nil Module so its Diagnostics can be inspected.
func (e *Engine) Build(name, src string) (*Module, error) {
	core := e.core.NewModule(name)
	m := &Module{core: core}
	if !core.Build(src) {
		return m, fmt.Errorf("mlang: build failed: %s", errors.FormatAll(core.Diagnostics(), false))
	}
	return m, nil
}

// Run executes m: top-level initializers, then main.
func (m *Module) Run() (Result, error) {
	rv, err := m.core.Run()
	if err != nil {
		return Result{Success: false, Diagnostics: m.core.Diagnostics()}, err
	}
	return Result{Success: true, Value: goValue(rv), Diagnostics: m.core.Diagnostics()}, nil
}

// Diagnostics returns every diagnostic Build or Run has reported on m so
// far, in order.
func (m *Module) Diagnostics() []*errors.Diagnostic { return m.core.Diagnostics() }

// goValue unwraps an Rvalue into a plain Go value a host can type-switch
// on without importing internal/value.
func goValue(rv value.Rvalue) any {
	if rv.Type == nil || rv.Type.IsVoid() {
		return nil
	}
	return rv.Val
}
