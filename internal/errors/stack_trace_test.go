package errors

import (
	"strings"
	"testing"

	"github.com/mlang-dev/mlang/internal/lexer"
)

func TestStackFrame_String(t *testing.T) {
	tests := []struct {
		name     string
		frame    StackFrame
		expected string
	}{
		{
			name: "Frame with position",
			frame: StackFrame{
				FunctionName: "MyFunction",
				FileName:     "test.gl",
				Position:     &lexer.Position{Line: 10, Column: 5},
			},
			expected: "MyFunction [line: 10, column: 5]",
		},
		{
			name: "Frame without position",
			frame: StackFrame{
				FunctionName: "MyFunction",
				FileName:     "test.gl",
				Position:     nil,
			},
			expected: "MyFunction",
		},
		{
			name: "Frame with method name",
			frame: StackFrame{
				FunctionName: "Point.Distance",
				FileName:     "test.gl",
				Position:     &lexer.Position{Line: 42, Column: 15},
			},
			expected: "Point.Distance [line: 42, column: 15]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.frame.String()
			if result != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestStackTrace_String(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		trace    StackTrace
	}{
		{
			name:     "Empty stack trace",
			trace:    StackTrace{},
			expected: "",
		},
		{
			name: "Single frame",
			trace: StackTrace{
				{FunctionName: "main", Position: &lexer.Position{Line: 1, Column: 1}},
			},
			expected: "main [line: 1, column: 1]",
		},
		{
			name: "Multiple frames",
			trace: StackTrace{
				{FunctionName: "main", Position: &lexer.Position{Line: 20, Column: 1}},
				{FunctionName: "processData", Position: &lexer.Position{Line: 15, Column: 5}},
				{FunctionName: "validateInput", Position: &lexer.Position{Line: 10, Column: 3}},
			},
			expected: "validateInput [line: 10, column: 3]\nprocessData [line: 15, column: 5]\nmain [line: 20, column: 1]",
		},
		{
			name: "Frames with and without position",
			trace: StackTrace{
				{FunctionName: "main", Position: &lexer.Position{Line: 20, Column: 1}},
				{FunctionName: "foo", Position: nil},
			},
			expected: "foo\nmain [line: 20, column: 1]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.trace.String()
			if result != tt.expected {
				t.Errorf("Expected:\n%s\nGot:\n%s", tt.expected, result)
			}
		})
	}
}

func TestStackTrace_Reverse(t *testing.T) {
	original := StackTrace{
		{FunctionName: "First", Position: &lexer.Position{Line: 1, Column: 1}},
		{FunctionName: "Second", Position: &lexer.Position{Line: 2, Column: 1}},
		{FunctionName: "Third", Position: &lexer.Position{Line: 3, Column: 1}},
	}

	reversed := original.Reverse()

	if reversed[0].FunctionName != "Third" {
		t.Errorf("Expected first frame to be 'Third', got %q", reversed[0].FunctionName)
	}
	if reversed[1].FunctionName != "Second" {
		t.Errorf("Expected second frame to be 'Second', got %q", reversed[1].FunctionName)
	}
	if reversed[2].FunctionName != "First" {
		t.Errorf("Expected third frame to be 'First', got %q", reversed[2].FunctionName)
	}

	if original[0].FunctionName != "First" {
		t.Errorf("original stack trace was modified")
	}
}

func TestStackTrace_Top(t *testing.T) {
	tests := []struct {
		expected *string
		name     string
		trace    StackTrace
	}{
		{name: "Empty stack", trace: StackTrace{}, expected: nil},
		{
			name:     "Single frame",
			trace:    StackTrace{{FunctionName: "main", Position: &lexer.Position{Line: 1, Column: 1}}},
			expected: stringPtr("main"),
		},
		{
			name: "Multiple frames",
			trace: StackTrace{
				{FunctionName: "main", Position: &lexer.Position{Line: 20, Column: 1}},
				{FunctionName: "foo", Position: &lexer.Position{Line: 15, Column: 5}},
				{FunctionName: "bar", Position: &lexer.Position{Line: 10, Column: 3}},
			},
			expected: stringPtr("bar"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			top := tt.trace.Top()
			if tt.expected == nil {
				if top != nil {
					t.Errorf("Expected nil, got %v", top)
				}
				return
			}
			if top == nil {
				t.Errorf("Expected %q, got nil", *tt.expected)
			} else if top.FunctionName != *tt.expected {
				t.Errorf("Expected %q, got %q", *tt.expected, top.FunctionName)
			}
		})
	}
}

func TestStackTrace_Bottom(t *testing.T) {
	tests := []struct {
		expected *string
		name     string
		trace    StackTrace
	}{
		{name: "Empty stack", trace: StackTrace{}, expected: nil},
		{
			name:     "Single frame",
			trace:    StackTrace{{FunctionName: "main", Position: &lexer.Position{Line: 1, Column: 1}}},
			expected: stringPtr("main"),
		},
		{
			name: "Multiple frames",
			trace: StackTrace{
				{FunctionName: "main", Position: &lexer.Position{Line: 20, Column: 1}},
				{FunctionName: "foo", Position: &lexer.Position{Line: 15, Column: 5}},
				{FunctionName: "bar", Position: &lexer.Position{Line: 10, Column: 3}},
			},
			expected: stringPtr("main"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bottom := tt.trace.Bottom()
			if tt.expected == nil {
				if bottom != nil {
					t.Errorf("Expected nil, got %v", bottom)
				}
				return
			}
			if bottom == nil {
				t.Errorf("Expected %q, got nil", *tt.expected)
			} else if bottom.FunctionName != *tt.expected {
				t.Errorf("Expected %q, got %q", *tt.expected, bottom.FunctionName)
			}
		})
	}
}

func TestStackTrace_Depth(t *testing.T) {
	tests := []struct {
		name     string
		trace    StackTrace
		expected int
	}{
		{name: "Empty stack", trace: StackTrace{}, expected: 0},
		{name: "Single frame", trace: StackTrace{{FunctionName: "main"}}, expected: 1},
		{
			name:     "Multiple frames",
			trace:    StackTrace{{FunctionName: "main"}, {FunctionName: "foo"}, {FunctionName: "bar"}},
			expected: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if depth := tt.trace.Depth(); depth != tt.expected {
				t.Errorf("Expected depth %d, got %d", tt.expected, depth)
			}
		})
	}
}

func TestNewStackFrame(t *testing.T) {
	pos := &lexer.Position{Line: 42, Column: 13}
	frame := NewStackFrame("testFunc", "test.gl", pos)

	if frame.FunctionName != "testFunc" {
		t.Errorf("Expected FunctionName 'testFunc', got %q", frame.FunctionName)
	}
	if frame.FileName != "test.gl" {
		t.Errorf("Expected FileName 'test.gl', got %q", frame.FileName)
	}
	if frame.Position != pos {
		t.Errorf("Expected position %v, got %v", pos, frame.Position)
	}
}

func TestNewStackTrace(t *testing.T) {
	trace := NewStackTrace()

	if trace == nil {
		t.Error("NewStackTrace returned nil")
	}
	if len(trace) != 0 {
		t.Errorf("Expected empty stack trace, got length %d", len(trace))
	}
}

func TestStackTrace_NestedCalls(t *testing.T) {
	// Main -> processData -> validateInput, oldest call first.
	trace := StackTrace{
		{FunctionName: "main", FileName: "main.gl", Position: &lexer.Position{Line: 50, Column: 1}},
		{FunctionName: "processData", FileName: "main.gl", Position: &lexer.Position{Line: 30, Column: 5}},
		{FunctionName: "validateInput", FileName: "main.gl", Position: &lexer.Position{Line: 10, Column: 3}},
	}

	expected := "validateInput [line: 10, column: 3]\nprocessData [line: 30, column: 5]\nmain [line: 50, column: 1]"
	if result := trace.String(); result != expected {
		t.Errorf("Stack trace string doesn't match.\nExpected:\n%s\nGot:\n%s", expected, result)
	}
	if trace.Depth() != 3 {
		t.Errorf("Expected depth 3, got %d", trace.Depth())
	}
	if top := trace.Top(); top == nil || top.FunctionName != "validateInput" {
		t.Errorf("Expected top to be validateInput, got %v", top)
	}
	if bottom := trace.Bottom(); bottom == nil || bottom.FunctionName != "main" {
		t.Errorf("Expected bottom to be main, got %v", bottom)
	}
}

// TestDiagnosticFormatIncludesStack confirms a Diagnostic built with
// WithStack renders its call stack under the message — the detail the
// evaluator attaches for errors raised while a call chain was active.
func TestDiagnosticFormatIncludesStack(t *testing.T) {
	d := New(RuntimeError, lexer.Position{Line: 3, Column: 20}, "integer division by zero").
		WithStack(StackTrace{
			{FunctionName: "main", Position: &lexer.Position{Line: 8, Column: 4}},
			{FunctionName: "divide", Position: &lexer.Position{Line: 3, Column: 20}},
		})

	formatted := d.Format(false)
	if !strings.Contains(formatted, "integer division by zero") {
		t.Fatalf("expected message in formatted output, got %q", formatted)
	}
	if !strings.Contains(formatted, "divide [line: 3, column: 20]\nmain [line: 8, column: 4]") {
		t.Fatalf("expected stack trace in formatted output, got %q", formatted)
	}
}

func stringPtr(s string) *string { return &s }
