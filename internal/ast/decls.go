package ast

import (
	"strings"

	"github.com/mlang-dev/mlang/internal/lexer"
)

// Param is one formal parameter in a function/method declaration.
type Param struct {
	Name     string
	TypeName string
	IsConst  bool
}

func (p Param) String() string {
	if p.IsConst {
		return "const " + p.TypeName + " " + p.Name
	}
	return p.TypeName + " " + p.Name
}

// FuncDeclStmt declares a free function or, when parsed inside a class
// body, a method. Scope holds the *scope.Scope the parser created for the
// function body, bridged as `any` since internal/ast sits below
// internal/scope in the package order — the parser sets it, internal/interp
// type-asserts it back at evaluation time.
type FuncDeclStmt struct {
	Tok           lexer.Token
	Name          string
	ReturnType    string
	Params        []Param
	Body          *BlockStmt
	IsMethod      bool
	IsConstMethod bool
	Scope         any
}

func (s *FuncDeclStmt) Pos() lexer.Position { return s.Tok.Pos }
func (s *FuncDeclStmt) String() string {
	parts := make([]string, len(s.Params))
	for i, p := range s.Params {
		parts[i] = p.String()
	}
	prefix := ""
	if s.IsMethod {
		prefix = "method "
	}
	sig := prefix + s.ReturnType + " " + s.Name + "(" + strings.Join(parts, ", ") + ")"
	if s.IsConstMethod {
		sig += " const"
	}
	return sig + " " + s.Body.String()
}
func (*FuncDeclStmt) stmtNode() {}

// FieldDecl is one field declaration inside a class body.
type FieldDecl struct {
	Tok        lexer.Token
	Name       string
	TypeName   string
	Visibility string // "public", "protected", "private" — recorded, not enforced
}

func (f FieldDecl) String() string { return f.TypeName + " " + f.Name + ";" }

// ClassDeclStmt declares a class: an ordered field layout plus methods.
// Scope is the *scope.Scope the parser created for the class body,
// bridged as `any` for the same reason as FuncDeclStmt.Scope.
type ClassDeclStmt struct {
	Tok     lexer.Token
	Name    string
	Fields  []FieldDecl
	Methods []*FuncDeclStmt
	Scope   any
}

func (s *ClassDeclStmt) Pos() lexer.Position { return s.Tok.Pos }
func (s *ClassDeclStmt) String() string {
	var b strings.Builder
	b.WriteString("class " + s.Name + " {\n")
	for _, f := range s.Fields {
		b.WriteString("  " + f.Visibility + ": " + f.String() + "\n")
	}
	for _, m := range s.Methods {
		b.WriteString("  " + m.String() + "\n")
	}
	b.WriteString("}")
	return b.String()
}
func (*ClassDeclStmt) stmtNode() {}
