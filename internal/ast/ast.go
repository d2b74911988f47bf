// Package ast defines the guest language's abstract syntax tree. Every
// node carries the lexer.Token it was built from, so diagnostics can
// always point back at a source position.
package ast

import (
	"bytes"
	"strings"

	"github.com/mlang-dev/mlang/internal/lexer"
)

// Node is the base interface every AST node implements.
type Node interface {
	Pos() lexer.Position
	String() string
}

// Expr is any node that produces a value.
type Expr interface {
	Node
	exprNode()
}

// Stmt is any node that performs an action.
type Stmt interface {
	Node
	stmtNode()
}

// File is the root of a module's AST: its top-level statements in order.
type File struct {
	Stmts []Stmt
}

func (f *File) Pos() lexer.Position {
	if len(f.Stmts) > 0 {
		return f.Stmts[0].Pos()
	}
	return lexer.Position{}
}

func (f *File) String() string {
	var b strings.Builder
	for _, s := range f.Stmts {
		b.WriteString(s.String())
		b.WriteString("\n")
	}
	return b.String()
}

// ValueExpr is an integer or decimal literal.
type ValueExpr struct {
	Tok lexer.Token
}

func (e *ValueExpr) Pos() lexer.Position { return e.Tok.Pos }
func (e *ValueExpr) String() string      { return e.Tok.Literal }
func (*ValueExpr) exprNode()             {}

// NameExpr is a simple or dotted/`::`-joined identifier chain. A bare
// identifier is a NameExpr with a single part, so it behaves identically
// to a length-1 dotted name per spec.md's boundary behavior.
type NameExpr struct {
	Parts []string
	Tok   lexer.Token // the leading identifier token
}

func (e *NameExpr) Pos() lexer.Position { return e.Tok.Pos }
func (e *NameExpr) String() string      { return strings.Join(e.Parts, ".") }
func (*NameExpr) exprNode()             {}

// BinaryExpr is a left-to-right binary operation; Op retains the source
// token for diagnostics.
type BinaryExpr struct {
	Lhs Expr
	Op  lexer.Token
	Rhs Expr
}

func (e *BinaryExpr) Pos() lexer.Position { return e.Op.Pos }
func (e *BinaryExpr) String() string {
	var b bytes.Buffer
	b.WriteString("(")
	b.WriteString(e.Lhs.String())
	b.WriteString(" " + e.Op.Literal + " ")
	b.WriteString(e.Rhs.String())
	b.WriteString(")")
	return b.String()
}
func (*BinaryExpr) exprNode() {}

// CallExpr is a function or method call used as a value (an expression
// context) — distinct from CallStmt, the statement form.
type CallExpr struct {
	Callee *NameExpr
	Args   []Expr
	Tok    lexer.Token // the '(' token
}

func (e *CallExpr) Pos() lexer.Position { return e.Callee.Pos() }
func (e *CallExpr) String() string {
	parts := make([]string, len(e.Args))
	for i, a := range e.Args {
		parts[i] = a.String()
	}
	return e.Callee.String() + "(" + strings.Join(parts, ", ") + ")"
}
func (*CallExpr) exprNode() {}
