package interp

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mlang-dev/mlang/internal/errors"
	"github.com/mlang-dev/mlang/internal/types"
	"github.com/mlang-dev/mlang/internal/value"
)

// registerPrint installs the host callback every golden scenario in
// spec.md §8 relies on: Print(x) appends x's formatted value followed by
// a newline to buf.
func registerPrint(t *testing.T, e *Engine, buf *bytes.Buffer) {
	t.Helper()
	intType, _ := e.TypeByName("int")
	err := e.RegisterFunction("Print", []types.Param{{Name: "x", Type: intType}}, nil, func(e *Engine, args []value.Rvalue) (value.Rvalue, error) {
		buf.WriteString(args[0].String())
		buf.WriteString("\n")
		return value.Rvalue{}, nil
	})
	if err != nil {
		t.Fatalf("RegisterFunction(Print): %v", err)
	}
}

func buildAndRun(t *testing.T, e *Engine, name, src string) (value.Rvalue, error) {
	t.Helper()
	m := e.NewModule(name)
	if !m.Build(src) {
		t.Fatalf("Build(%s) failed: %v", name, m.Diagnostics())
	}
	return m.Run()
}

func TestGoldenArithmeticPromotion(t *testing.T) {
	e := New()
	var buf bytes.Buffer
	registerPrint(t, e, &buf)

	src := `
int main() {
	int a = 5;
	int b = 6;
	Print(a + b);
	return 0;
}`
	if _, err := buildAndRun(t, e, "arith", src); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "11" {
		t.Fatalf("expected 11, got %q", got)
	}
}

func TestGoldenMixedIntFloatDivision(t *testing.T) {
	e := New()
	var buf bytes.Buffer
	registerPrint(t, e, &buf)

	src := `
int main() {
	int a = 5;
	double b = 2.5;
	Print(a / b);
	return 0;
}`
	if _, err := buildAndRun(t, e, "divide", src); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "2" {
		t.Fatalf("expected 2, got %q", got)
	}
}

func TestGoldenWhileBreak(t *testing.T) {
	e := New()
	var buf bytes.Buffer
	registerPrint(t, e, &buf)

	src := `
int main() {
	int i = 0;
	while (i < 100) {
		i = i + 1;
		if (i == 10) {
			break;
		}
	}
	Print(i);
	return 0;
}`
	if _, err := buildAndRun(t, e, "loop", src); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "10" {
		t.Fatalf("expected 10, got %q", got)
	}
}

func TestGoldenUserFunctionReturn(t *testing.T) {
	e := New()
	var buf bytes.Buffer
	registerPrint(t, e, &buf)

	src := `
int add(int a, int b) {
	return a + b;
}
int main() {
	Print(add(7, 8));
	return 0;
}`
	if _, err := buildAndRun(t, e, "call", src); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "15" {
		t.Fatalf("expected 15, got %q", got)
	}
}

func TestGoldenClassConstMethod(t *testing.T) {
	e := New()
	var buf bytes.Buffer
	registerPrint(t, e, &buf)

	src := `
class P {
public:
	int v;
	int Get() const {
		return v;
	}
}
int main() {
	P p;
	p.v = 42;
	Print(p.Get());
	return 0;
}`
	if _, err := buildAndRun(t, e, "class", src); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "42" {
		t.Fatalf("expected 42, got %q", got)
	}
}

func TestGoldenConstViolationIsError(t *testing.T) {
	e := New()
	var buf bytes.Buffer
	registerPrint(t, e, &buf)

	src := `
int main() {
	const int x = 1;
	x = 2;
	return 0;
}`
	m := e.NewModule("const_violation")
	if !m.Build(src) {
		t.Fatalf("Build failed: %v", m.Diagnostics())
	}
	if _, err := m.Run(); err == nil {
		t.Fatalf("expected an error for assigning to a const")
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no Print output, got %q", buf.String())
	}
	diags := m.Diagnostics()
	if len(diags) == 0 {
		t.Fatalf("expected at least one diagnostic")
	}
	if got := diags[len(diags)-1].Kind; got != errors.TypeError {
		t.Fatalf("expected a TypeError for the const violation, got %v", got)
	}
}

func TestRunWithoutMainIsError(t *testing.T) {
	e := New()
	m := e.NewModule("empty")
	if !m.Build(`int x = 1;`) {
		t.Fatalf("Build failed: %v", m.Diagnostics())
	}
	if _, err := m.Run(); err == nil {
		t.Fatalf("expected an error running a module with no main")
	}
}

func TestEmptySourceBuildsSuccessfully(t *testing.T) {
	e := New()
	m := e.NewModule("blank")
	if !m.Build(``) {
		t.Fatalf("Build of empty source should succeed, got: %v", m.Diagnostics())
	}
}

// TestTypeIDsAreUnique exercises testable property #3: every type minted
// by an Engine, primitive or user-declared class, gets a distinct id.
func TestTypeIDsAreUnique(t *testing.T) {
	e := New()
	m := e.NewModule("types")
	src := `
class A { public: int x; }
class B { public: int y; int z; }
`
	if !m.Build(src) {
		t.Fatalf("Build failed: %v", m.Diagnostics())
	}

	seen := map[uint64]string{}
	for _, name := range []string{"void", "char", "short", "int", "long",
		"unsigned char", "unsigned short", "unsigned int", "unsigned long",
		"float", "double", "bool", "A", "B"} {
		typ, ok := m.Scope().ResolveType(name)
		if !ok {
			t.Fatalf("expected type %q to be registered", name)
		}
		if other, dup := seen[typ.ID]; dup {
			t.Fatalf("type id %d reused by both %q and %q", typ.ID, other, name)
		}
		seen[typ.ID] = name
	}
}

// TestNoLeakageAcrossInvocations exercises testable property #7: running
// the same Module several times gives each Run freshly initialized locals —
// no frame from a prior Run keeps objects alive into the next one.
func TestNoLeakageAcrossInvocations(t *testing.T) {
	e := New()
	var buf bytes.Buffer
	registerPrint(t, e, &buf)

	src := `
int main() {
	int x = 41;
	x = x + 1;
	Print(x);
	return 0;
}`
	m := e.NewModule("repeat")
	if !m.Build(src) {
		t.Fatalf("Build failed: %v", m.Diagnostics())
	}
	for i := 0; i < 3; i++ {
		if _, err := m.Run(); err != nil {
			t.Fatalf("Run #%d: %v", i, err)
		}
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 Print lines, got %d: %q", len(lines), buf.String())
	}
	for _, line := range lines {
		if line != "42" {
			t.Fatalf("expected every run to independently print 42, got %q", line)
		}
	}
}

func TestRecursionGetsFreshFramesPerCall(t *testing.T) {
	e := New()
	var buf bytes.Buffer
	registerPrint(t, e, &buf)

	src := `
int fact(int n) {
	if (n < 2) {
		return 1;
	}
	return n * fact(n - 1);
}
int main() {
	Print(fact(5));
	return 0;
}`
	if _, err := buildAndRun(t, e, "recursion", src); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "120" {
		t.Fatalf("expected 120, got %q", got)
	}
}

func TestIntegerDivisionByZeroIsRuntimeError(t *testing.T) {
	e := New()
	var buf bytes.Buffer
	registerPrint(t, e, &buf)

	src := `
int main() {
	int a = 1;
	int b = 0;
	Print(a / b);
	return 0;
}`
	if _, err := buildAndRun(t, e, "divzero", src); err == nil {
		t.Fatalf("expected integer division by zero to be a runtime error")
	}
}

func TestFloatDivisionByZeroIsInfNotError(t *testing.T) {
	e := New()
	var buf bytes.Buffer
	registerPrint(t, e, &buf)

	src := `
int main() {
	double a = 1.0;
	double b = 0.0;
	Print(a / b);
	return 0;
}`
	if _, err := buildAndRun(t, e, "fdivzero", src); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "+Inf" {
		t.Fatalf("expected +Inf, got %q", got)
	}
}

// TestUnqualifiedMethodCallResolvesAgainstReceiver exercises a sibling
// method called without an explicit receiver from inside a method body: the
// call isn't a free function, so resolution falls back to the enclosing
// receiver's own methods, the same fallback field/variable reads already get.
func TestUnqualifiedMethodCallResolvesAgainstReceiver(t *testing.T) {
	e := New()
	var buf bytes.Buffer
	registerPrint(t, e, &buf)

	src := `
class P {
public:
	int v;
	int Double() const {
		return v * 2;
	}
	int DoubledPlusOne() const {
		return Double() + 1;
	}
}
int main() {
	P p;
	p.v = 10;
	Print(p.DoubledPlusOne());
	return 0;
}`
	if _, err := buildAndRun(t, e, "unqualified_method_call", src); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "21" {
		t.Fatalf("expected 21, got %q", got)
	}
}

func TestVoidCallUsedAsValueIsRuntimeError(t *testing.T) {
	e := New()
	var buf bytes.Buffer
	registerPrint(t, e, &buf)

	src := `
void Noop() {
}
int main() {
	Print(Noop());
	return 0;
}`
	m := e.NewModule("void_as_value")
	if !m.Build(src) {
		t.Fatalf("Build failed: %v", m.Diagnostics())
	}
	if _, err := m.Run(); err == nil {
		t.Fatalf("expected an error for using a void call as a value")
	}
	diags := m.Diagnostics()
	if len(diags) == 0 {
		t.Fatalf("expected at least one diagnostic")
	}
	if got := diags[len(diags)-1].Kind; got != errors.RuntimeError {
		t.Fatalf("expected a RuntimeError for void-used-as-value, got %v", got)
	}
}

func TestVoidCallAsStatementIsFine(t *testing.T) {
	e := New()
	var buf bytes.Buffer
	registerPrint(t, e, &buf)

	src := `
void Noop() {
}
int main() {
	Noop();
	Print(1);
	return 0;
}`
	if _, err := buildAndRun(t, e, "void_as_statement", src); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "1" {
		t.Fatalf("expected 1, got %q", got)
	}
}

func TestArityMismatchIsArgumentError(t *testing.T) {
	e := New()
	var buf bytes.Buffer
	registerPrint(t, e, &buf)

	src := `
int add(int a, int b) {
	return a + b;
}
int main() {
	Print(add(1));
	return 0;
}`
	m := e.NewModule("arity_mismatch")
	if !m.Build(src) {
		t.Fatalf("Build failed: %v", m.Diagnostics())
	}
	if _, err := m.Run(); err == nil {
		t.Fatalf("expected an error for a call with too few arguments")
	}
	diags := m.Diagnostics()
	if len(diags) == 0 {
		t.Fatalf("expected at least one diagnostic")
	}
	if got := diags[len(diags)-1].Kind; got != errors.ArgumentError {
		t.Fatalf("expected an ArgumentError for the arity mismatch, got %v", got)
	}
}

// TestRuntimeErrorCarriesCallStack confirms a failure raised several calls
// deep reports the chain of calls that led to it, not just the innermost one.
func TestRuntimeErrorCarriesCallStack(t *testing.T) {
	e := New()
	var buf bytes.Buffer
	registerPrint(t, e, &buf)

	src := `
int divide(int a, int b) {
	return a / b;
}
int callsDivide(int a, int b) {
	return divide(a, b);
}
int main() {
	Print(callsDivide(1, 0));
	return 0;
}`
	m := e.NewModule("call_stack")
	if !m.Build(src) {
		t.Fatalf("Build failed: %v", m.Diagnostics())
	}
	if _, err := m.Run(); err == nil {
		t.Fatalf("expected integer division by zero to fail")
	}
	diags := m.Diagnostics()
	if len(diags) == 0 {
		t.Fatalf("expected at least one diagnostic")
	}
	stack := diags[len(diags)-1].Stack
	if stack.Depth() < 3 {
		t.Fatalf("expected at least 3 frames (main, callsDivide, divide), got %d: %v", stack.Depth(), stack)
	}
	names := make([]string, stack.Depth())
	for i, frame := range stack {
		names[i] = frame.FunctionName
	}
	wantBottomToTop := []string{"main", "callsDivide", "divide"}
	for i, want := range wantBottomToTop {
		if names[i] != want {
			t.Fatalf("expected frame %d to be %q, got %q (full stack %v)", i, want, names[i], names)
		}
	}
}
