package ast

import (
	"strings"

	"github.com/mlang-dev/mlang/internal/lexer"
)

// VarDeclStmt declares a typed local: `T x [= e];`.
type VarDeclStmt struct {
	Tok        lexer.Token // the type keyword/ident token
	TypeName   string
	IsConst    bool
	IsUnsigned bool
	Name       string
	Init       Expr // nil if uninitialized
}

func (s *VarDeclStmt) Pos() lexer.Position { return s.Tok.Pos }
func (s *VarDeclStmt) String() string {
	out := s.TypeName + " " + s.Name
	if s.Init != nil {
		out += " = " + s.Init.String()
	}
	return out + ";"
}
func (*VarDeclStmt) stmtNode() {}

// AssignStmt is `lhs = e;`. Compound assignments (`+=` etc.) are desugared
// into this form by the parser before the AST is built.
type AssignStmt struct {
	Tok    lexer.Token
	Target *NameExpr
	Value  Expr
}

func (s *AssignStmt) Pos() lexer.Position { return s.Tok.Pos }
func (s *AssignStmt) String() string      { return s.Target.String() + " = " + s.Value.String() + ";" }
func (*AssignStmt) stmtNode()             {}

// BlockStmt is an ordered sequence of statements sharing one scope. Scope
// is the *scope.Scope the parser created for this block, bridged as `any`
// since internal/ast sits below internal/scope in the package order.
type BlockStmt struct {
	Tok   lexer.Token
	Stmts []Stmt
	Scope any
}

func (s *BlockStmt) Pos() lexer.Position { return s.Tok.Pos }
func (s *BlockStmt) String() string {
	var b strings.Builder
	b.WriteString("{\n")
	for _, st := range s.Stmts {
		b.WriteString("  " + st.String() + "\n")
	}
	b.WriteString("}")
	return b.String()
}
func (*BlockStmt) stmtNode() {}

// IfStmt is `if (cond) then [else els]`.
type IfStmt struct {
	Tok  lexer.Token
	Cond Expr
	Then Stmt
	Else Stmt // nil if no else branch
}

func (s *IfStmt) Pos() lexer.Position { return s.Tok.Pos }
func (s *IfStmt) String() string {
	out := "if (" + s.Cond.String() + ") " + s.Then.String()
	if s.Else != nil {
		out += " else " + s.Else.String()
	}
	return out
}
func (*IfStmt) stmtNode() {}

// WhileStmt is `while (cond) body`.
type WhileStmt struct {
	Tok  lexer.Token
	Cond Expr
	Body Stmt
}

func (s *WhileStmt) Pos() lexer.Position { return s.Tok.Pos }
func (s *WhileStmt) String() string      { return "while (" + s.Cond.String() + ") " + s.Body.String() }
func (*WhileStmt) stmtNode()             {}

// ForStmt is `for (init; cond; step) body`. Per the resolved open
// question, Body executes inside the scope Init declares into (so the
// induction variable is visible to it) — see Scope on the parser side.
type ForStmt struct {
	Tok  lexer.Token
	Init Stmt // may be nil
	Cond Expr // may be nil (treated as always-true)
	Step Stmt // may be nil
	Body Stmt

	// Scope is the LOOP-kind *scope.Scope (bridged as `any`) that Init
	// declares into and that encloses Body (a `{...}` body's own block
	// scope is its child) — per the resolved open question, the induction
	// variable stays visible to the body.
	Scope any
}

func (s *ForStmt) Pos() lexer.Position { return s.Tok.Pos }
func (s *ForStmt) String() string {
	init, cond, step := "", "", ""
	if s.Init != nil {
		init = s.Init.String()
	}
	if s.Cond != nil {
		cond = s.Cond.String()
	}
	if s.Step != nil {
		step = s.Step.String()
	}
	return "for (" + init + "; " + cond + "; " + step + ") " + s.Body.String()
}
func (*ForStmt) stmtNode() {}

// ReturnStmt is `return [expr];`.
type ReturnStmt struct {
	Tok   lexer.Token
	Value Expr // nil for bare `return;`
}

func (s *ReturnStmt) Pos() lexer.Position { return s.Tok.Pos }
func (s *ReturnStmt) String() string {
	if s.Value == nil {
		return "return;"
	}
	return "return " + s.Value.String() + ";"
}
func (*ReturnStmt) stmtNode() {}

// BreakStmt is `break;`.
type BreakStmt struct {
	Tok lexer.Token
}

func (s *BreakStmt) Pos() lexer.Position { return s.Tok.Pos }
func (s *BreakStmt) String() string      { return "break;" }
func (*BreakStmt) stmtNode()             {}

// CallStmt is a function/method call used as a statement, always followed
// by a semicolon in source.
type CallStmt struct {
	Call *CallExpr
}

func (s *CallStmt) Pos() lexer.Position { return s.Call.Pos() }
func (s *CallStmt) String() string      { return s.Call.String() + ";" }
func (*CallStmt) stmtNode()             {}
