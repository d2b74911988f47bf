// Package parser builds the AST and the static scope graph in a single
// pass: a Pratt expression parser plus a recursive-descent statement
// parser that interns locals, parameters, and class members into
// internal/scope.Scope nodes as it goes, mirroring the program's static
// structure exactly once so the evaluator never has to build scopes of
// its own.
package parser

import (
	"fmt"

	"github.com/mlang-dev/mlang/internal/ast"
	"github.com/mlang-dev/mlang/internal/lexer"
	"github.com/mlang-dev/mlang/internal/scope"
	"github.com/mlang-dev/mlang/internal/types"
)

// Expression precedence, lowest to highest.
const (
	LOWEST = iota
	COMPARE // < <= > >= != ==
	SUM     // + -
	PRODUCT // * /
	CALL    // f(args)
)

var precedences = map[lexer.TokenType]int{
	lexer.LESS: COMPARE, lexer.LEQ: COMPARE, lexer.GREATER: COMPARE, lexer.GEQ: COMPARE,
	lexer.NEQ: COMPARE, lexer.EQ: COMPARE,
	lexer.PLUS: SUM, lexer.MINUS: SUM,
	lexer.STAR: PRODUCT, lexer.SLASH: PRODUCT,
	lexer.OPEN_PARENTH: CALL,
}

// compoundOps maps a compound-assignment token to the binary operator it
// desugars into, per spec: `x op= e` becomes `x = x op e`.
var compoundOps = map[lexer.TokenType]lexer.TokenType{
	lexer.PLUS_ASSIGN:  lexer.PLUS,
	lexer.MINUS_ASSIGN: lexer.MINUS,
	lexer.STAR_ASSIGN:  lexer.STAR,
	lexer.SLASH_ASSIGN: lexer.SLASH,
}

var binOpLiteral = map[lexer.TokenType]string{
	lexer.PLUS: "+", lexer.MINUS: "-", lexer.STAR: "*", lexer.SLASH: "/",
}

// Error records one parse-time diagnostic with its source position.
type Error struct {
	Pos     lexer.Position
	Message string
}

func (e Error) String() string { return fmt.Sprintf("%d:%d: %s", e.Pos.Line, e.Pos.Column, e.Message) }

// Parser consumes a token stream and produces an *ast.File, interning
// scopes and types into the Scope graph rooted at its global scope as it
// parses.
type Parser struct {
	lex *lexer.Lexer
	cur lexer.Token
	pk  lexer.Token

	alloc  types.IDAllocator
	global *scope.Scope
	cursor *scope.Scope // the innermost scope currently being parsed into

	errors []Error
}

// New creates a Parser over lex, interning declarations into global
// (typically the Engine's module-wide scope) and minting type ids via
// alloc. The primitive type table must already be registered in global
// (see internal/types.DefaultPrimitives and internal/scope.Scope.
// DeclareType) before parsing begins.
func New(lex *lexer.Lexer, alloc types.IDAllocator, global *scope.Scope) *Parser {
	p := &Parser{lex: lex, alloc: alloc, global: global, cursor: global}
	p.next()
	p.next()
	return p
}

// Errors returns every diagnostic accumulated during parsing, in source
// order.
func (p *Parser) Errors() []Error { return p.errors }

func (p *Parser) next() {
	p.cur = p.pk
	p.pk = p.lex.NextToken()
}

func (p *Parser) curIs(tt lexer.TokenType) bool  { return p.cur.Type == tt }
func (p *Parser) peekIs(tt lexer.TokenType) bool { return p.pk.Type == tt }

// expectPeek advances past pk if it matches tt, reporting an error
// otherwise. Used at every point the grammar names a required token.
func (p *Parser) expectPeek(tt lexer.TokenType) bool {
	if p.peekIs(tt) {
		p.next()
		return true
	}
	p.errorf("expected %s, got %s", tt, p.pk.Type)
	return false
}

// advanceToDelimiter lands p.cur exactly on tt, whether parsing the
// preceding clause consumed nothing (cur is already tt) or consumed
// content up to but not past it (peek is tt). Used at for-loop clause
// boundaries, where an empty clause and a non-empty one leave the cursor
// in different places relative to the delimiter.
func (p *Parser) advanceToDelimiter(tt lexer.TokenType) bool {
	if p.curIs(tt) {
		return true
	}
	return p.expectPeek(tt)
}

func (p *Parser) errorf(format string, args ...any) {
	p.errors = append(p.errors, Error{Pos: p.cur.Pos, Message: fmt.Sprintf(format, args...)})
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.pk.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.cur.Type]; ok {
		return prec
	}
	return LOWEST
}

// resolveTypeName looks up name as a currently-visible type, walking the
// scope chain from the parser's current scope — this is what lets the
// statement dispatcher distinguish "identifier that names a type" from a
// plain variable reference.
func (p *Parser) resolveTypeName(name string) (*types.TypeInfo, bool) {
	return p.cursor.ResolveType(name)
}

// ParseFile parses the whole token stream into a File; parse errors are
// collected (see Errors) rather than stopping the parse outright, the way
// the grammar's statement dispatch already resynchronizes on the next
// token.
func (p *Parser) ParseFile() *ast.File {
	file := &ast.File{}
	for !p.curIs(lexer.END) {
		if p.curIs(lexer.SEMICOLON) {
			p.next()
			continue
		}
		stmt := p.parseStatement()
		if stmt != nil {
			file.Stmts = append(file.Stmts, stmt)
		}
		p.next()
	}
	return file
}

// --- Pratt expression parsing ---

type prefixParseFn func() ast.Expr
type infixParseFn func(ast.Expr) ast.Expr

func (p *Parser) prefixFn() prefixParseFn {
	switch p.cur.Type {
	case lexer.INTEGER, lexer.DECIMAL:
		return p.parseValueExpr
	case lexer.IDENT:
		return p.parseNameExprPrefix
	case lexer.OPEN_PARENTH:
		return p.parseGroupedExpr
	default:
		return nil
	}
}

func (p *Parser) infixFn(tt lexer.TokenType) infixParseFn {
	switch tt {
	case lexer.PLUS, lexer.MINUS, lexer.STAR, lexer.SLASH,
		lexer.LESS, lexer.LEQ, lexer.GREATER, lexer.GEQ, lexer.NEQ, lexer.EQ:
		return p.parseBinaryExpr
	case lexer.OPEN_PARENTH:
		return p.parseCallExprInfix
	default:
		return nil
	}
}

func (p *Parser) parseExpression(precedence int) ast.Expr {
	prefix := p.prefixFn()
	if prefix == nil {
		p.errorf("no prefix parse function for %s", p.cur.Type)
		return nil
	}
	left := prefix()

	for !p.peekIs(lexer.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixFn(p.pk.Type)
		if infix == nil {
			return left
		}
		p.next()
		left = infix(left)
	}
	return left
}

func (p *Parser) parseValueExpr() ast.Expr {
	return &ast.ValueExpr{Tok: p.cur}
}

// parseDottedName consumes an identifier chain joined by '.' or '::',
// which the grammar treats equivalently.
func (p *Parser) parseDottedName() *ast.NameExpr {
	tok := p.cur
	parts := []string{p.cur.Literal}
	for p.peekIs(lexer.DOT) || p.peekIs(lexer.COLONCOLON) {
		p.next()
		if !p.expectPeek(lexer.IDENT) {
			break
		}
		parts = append(parts, p.cur.Literal)
	}
	return &ast.NameExpr{Parts: parts, Tok: tok}
}

func (p *Parser) parseNameExprPrefix() ast.Expr {
	return p.parseDottedName()
}

func (p *Parser) parseGroupedExpr() ast.Expr {
	p.next() // consume '('
	expr := p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.CLOSED_PARENTH) {
		return nil
	}
	return expr
}

func (p *Parser) parseBinaryExpr(left ast.Expr) ast.Expr {
	op := p.cur
	prec := p.curPrecedence()
	p.next()
	right := p.parseExpression(prec)
	return &ast.BinaryExpr{Lhs: left, Op: op, Rhs: right}
}

func (p *Parser) parseCallExprInfix(left ast.Expr) ast.Expr {
	name, ok := left.(*ast.NameExpr)
	if !ok {
		p.errorf("call target must be a name")
		return left
	}
	return p.finishCall(name)
}

// finishCall parses the argument list of a call expression; entry
// requires p.cur to be the '(' token.
func (p *Parser) finishCall(name *ast.NameExpr) *ast.CallExpr {
	tok := p.cur
	args := p.parseArgs()
	return &ast.CallExpr{Callee: name, Args: args, Tok: tok}
}

func (p *Parser) parseArgs() []ast.Expr {
	var args []ast.Expr
	if p.peekIs(lexer.CLOSED_PARENTH) {
		p.next()
		return args
	}
	p.next()
	args = append(args, p.parseExpression(LOWEST))
	for p.peekIs(lexer.COMMA) {
		p.next()
		p.next()
		args = append(args, p.parseExpression(LOWEST))
	}
	if !p.expectPeek(lexer.CLOSED_PARENTH) {
		return args
	}
	return args
}
