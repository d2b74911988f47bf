// Package errors formats diagnostics with source context, line/column
// information, and a caret pointing at the offending position.
package errors

import (
	"fmt"
	"strings"

	"github.com/mlang-dev/mlang/internal/lexer"
)

// Kind classifies a Diagnostic the way the language's error taxonomy
// does: each stage of the pipeline (lexing, parsing, type-checking, name
// resolution, argument binding, execution, native callbacks) owns one
// kind.
type Kind int

const (
	LexError Kind = iota
	ParseError
	TypeError
	NameError
	ArgumentError
	RuntimeError
	HostError
)

func (k Kind) String() string {
	switch k {
	case LexError:
		return "LexError"
	case ParseError:
		return "ParseError"
	case TypeError:
		return "TypeError"
	case NameError:
		return "NameError"
	case ArgumentError:
		return "ArgumentError"
	case RuntimeError:
		return "RuntimeError"
	case HostError:
		return "HostError"
	default:
		return "Error"
	}
}

// Diagnostic is a single reported error: its kind, where it occurred, and
// a human-readable message. Source/File are filled in by whoever has
// them (a Module knows its own source text) so the same Diagnostic can be
// formatted with or without context. Stack is populated only for errors
// raised while a guest-language call chain was active, oldest call first.
type Diagnostic struct {
	Kind    Kind
	Message string
	Source  string
	File    string
	Pos     lexer.Position
	Stack   StackTrace
}

// New creates a Diagnostic with no source context attached yet; call
// WithSource to attach it before formatting.
func New(kind Kind, pos lexer.Position, message string) *Diagnostic {
	return &Diagnostic{Kind: kind, Pos: pos, Message: message}
}

// WithSource returns a copy of d with Source/File set, for later
// formatting with a caret into the original text.
func (d *Diagnostic) WithSource(source, file string) *Diagnostic {
	cp := *d
	cp.Source = source
	cp.File = file
	return &cp
}

// WithStack returns a copy of d with its call stack attached, for Format
// to render under the message.
func (d *Diagnostic) WithStack(stack StackTrace) *Diagnostic {
	cp := *d
	cp.Stack = stack
	return &cp
}

// Error implements the error interface.
func (d *Diagnostic) Error() string { return d.Format(false) }

// Format renders the diagnostic with its source line and a caret. If
// color is true, ANSI codes highlight the caret and message.
func (d *Diagnostic) Format(color bool) string {
	var sb strings.Builder

	if d.File != "" {
		sb.WriteString(fmt.Sprintf("%s in %s:%d:%d\n", d.Kind, d.File, d.Pos.Line, d.Pos.Column))
	} else {
		sb.WriteString(fmt.Sprintf("%s at %d:%d\n", d.Kind, d.Pos.Line, d.Pos.Column))
	}

	if sourceLine := d.sourceLine(d.Pos.Line); sourceLine != "" {
		lineNumStr := fmt.Sprintf("%4d | ", d.Pos.Line)
		sb.WriteString(lineNumStr)
		sb.WriteString(sourceLine)
		sb.WriteString("\n")

		sb.WriteString(strings.Repeat(" ", len(lineNumStr)+d.Pos.Column-1))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(d.Message)
	if color {
		sb.WriteString("\033[0m")
	}
	if len(d.Stack) > 0 {
		sb.WriteString("\n")
		sb.WriteString(d.Stack.String())
	}
	return sb.String()
}

func (d *Diagnostic) sourceLine(lineNum int) string {
	if d.Source == "" {
		return ""
	}
	lines := strings.Split(d.Source, "\n")
	if lineNum < 1 || lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// FormatAll renders a sequence of diagnostics, numbering them when there
// is more than one.
func FormatAll(diags []*Diagnostic, color bool) string {
	if len(diags) == 0 {
		return ""
	}
	if len(diags) == 1 {
		return diags[0].Format(color)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("build failed with %d error(s):\n\n", len(diags)))
	for i, d := range diags {
		sb.WriteString(fmt.Sprintf("[%d/%d] ", i+1, len(diags)))
		sb.WriteString(d.Format(color))
		if i < len(diags)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
