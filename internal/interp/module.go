package interp

import (
	stderrors "errors"
	"fmt"

	"github.com/mlang-dev/mlang/internal/ast"
	"github.com/mlang-dev/mlang/internal/errors"
	"github.com/mlang-dev/mlang/internal/lexer"
	"github.com/mlang-dev/mlang/internal/parser"
	"github.com/mlang-dev/mlang/internal/scope"
	"github.com/mlang-dev/mlang/internal/value"
)

// Module is one compilation unit: it owns its source, the AST and static
// scope that Build's lexer/parser pass produces, and the diagnostics
// either stage reports. A
// Module is built once (Build) and may be run any number of times
// (Run) — though per the single-threaded-per-invocation model, never two
// overlapping Runs of the same Module at once.
type Module struct {
	engine *Engine
	Name   string

	source string
	scope  *scope.Scope
	file   *ast.File
	built  bool

	diags []*errors.Diagnostic
}

// Build lexes and parses source into this Module's AST, registering every
// top-level declaration into its scope (a child of the Engine's global
// scope). It returns true if no lexer or parser error was reported.
func (m *Module) Build(source string) bool {
	m.source = source
	m.diags = nil

	lex := lexer.New(source)
	p := parser.New(lex, m.engine, m.scope)
	m.file = p.ParseFile()

	for _, lexErr := range lex.Errors() {
		m.report(errors.LexError, lexErr.Pos, lexErr.Message)
	}
	for _, parseErr := range p.Errors() {
		m.report(errors.ParseError, parseErr.Pos, parseErr.Message)
	}

	m.built = len(m.diags) == 0
	return m.built
}

// Diagnostics returns every diagnostic Build or Run has reported so far, in
// order.
func (m *Module) Diagnostics() []*errors.Diagnostic { return m.diags }

// Scope returns this Module's own top-level scope (a child of the
// Engine's global scope), for host tooling that wants to inspect what a
// build declared without re-walking the AST itself.
func (m *Module) Scope() *scope.Scope { return m.scope }

func (m *Module) report(kind errors.Kind, pos lexer.Position, msg string) {
	m.reportDiagnostic(errors.New(kind, pos, msg))
}

// reportDiagnostic attaches Source/File to an already-built Diagnostic
// (preserving whatever Kind/Stack it was classified with) and records it.
func (m *Module) reportDiagnostic(d *errors.Diagnostic) {
	d = d.WithSource(m.source, m.Name)
	m.diags = append(m.diags, d)
	m.engine.emit(d)
}

// reportErr classifies err's Kind when the evaluator already attached one
// (a *errors.Diagnostic from a classified execution failure, e.g. a const
// assignment or an arity mismatch, possibly carrying a call stack) and
// falls back to RuntimeError — the catch-all for the internal-invariant
// errors and wrapped library errors that never got a more specific Kind
// at their origin.
func (m *Module) reportErr(fallbackPos lexer.Position, err error) {
	var diag *errors.Diagnostic
	if stderrors.As(err, &diag) {
		m.reportDiagnostic(diag)
		return
	}
	m.report(errors.RuntimeError, fallbackPos, err.Error())
}

// Run executes this Module: top-level statements first (so global variable
// initializers run), then its main function. A Module with no main is a
// build-time-shaped contract violation caught here as a NameError, since
// the grammar itself has no way to flag "missing entrypoint" earlier.
func (m *Module) Run() (value.Rvalue, error) {
	if !m.built {
		return value.Rvalue{}, fmt.Errorf("interp: module %q has not been built", m.Name)
	}

	ev := newEvaluator(m.engine, m)
	ev.globalFrame = newFrame(nil)
	topEnv := env{scope: m.scope, frame: ev.globalFrame}

	for _, stmt := range m.file.Stmts {
		switch stmt.(type) {
		case *ast.FuncDeclStmt, *ast.ClassDeclStmt:
			continue
		}
		if _, err := ev.execStmt(topEnv, stmt); err != nil {
			m.reportErr(stmt.Pos(), err)
			return value.Rvalue{}, err
		}
	}

	fn, ok := m.scope.ResolveFunc("main")
	if !ok {
		m.report(errors.NameError, lexer.Position{}, "run: module has no main function")
		return value.Rvalue{}, fmt.Errorf("interp: module %q has no main function", m.Name)
	}

	result, err := ev.callFunction(fn, nil, nil, lexer.Position{})
	if err != nil {
		m.reportErr(lexer.Position{}, err)
		return value.Rvalue{}, err
	}
	return result, nil
}
