package parser

import (
	"github.com/mlang-dev/mlang/internal/ast"
	"github.com/mlang-dev/mlang/internal/lexer"
	"github.com/mlang-dev/mlang/internal/scope"
	"github.com/mlang-dev/mlang/internal/types"
)

// parseTypeSpec consumes a type name starting at p.cur: a primitive
// keyword, an `unsigned` + integer-keyword pair, or a class identifier.
// It leaves p.cur on the last token of the spec.
func (p *Parser) parseTypeSpec() (name string, isUnsigned bool) {
	if p.curIs(lexer.UNSIGNED) {
		p.next()
		if !p.cur.Type.IsTypeKeyword() {
			p.errorf("expected an integer type after 'unsigned', got %s", p.cur.Type)
			return "unsigned", true
		}
		return "unsigned " + p.cur.Literal, true
	}
	return p.cur.Literal, false
}

// parseVarOrFuncDecl parses a top-level/block-level declaration whose
// first token names a type: `T name;`, `T name = e;`, or `T name(params)
// {...}`, dispatching to a function declaration once it sees the `(`.
func (p *Parser) parseVarOrFuncDecl() ast.Stmt {
	return p.parseVarDecl(true)
}

// parseVarDecl implements parseVarOrFuncDecl; consumeSemicolon is false
// for the for-loop's init clause, whose trailing ';' the caller consumes.
func (p *Parser) parseVarDecl(consumeSemicolon bool) ast.Stmt {
	tok := p.cur
	isConst := false
	if p.curIs(lexer.CONST) {
		isConst = true
		p.next()
	}
	typeName, isUnsigned := p.parseTypeSpec()
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	name := p.cur.Literal

	if p.peekIs(lexer.OPEN_PARENTH) {
		p.next()
		decl, fn := p.parseFunctionDecl(typeName, name, tok, false, nil)
		if fn != nil && !p.cursor.DeclareFunc(name, fn) {
			p.errorf("%q is already declared in this scope", name)
		}
		return decl
	}

	typ, ok := p.cursor.ResolveType(typeName)
	if !ok {
		p.errorf("unknown type %q", typeName)
	}
	if _, err := p.cursor.DeclareObject(name, typ, isConst); err != nil {
		p.errorf("%s", err)
	}

	var init ast.Expr
	if p.peekIs(lexer.ASSIGN) {
		p.next()
		p.next()
		init = p.parseExpression(LOWEST)
	}

	stmt := &ast.VarDeclStmt{Tok: tok, TypeName: typeName, IsConst: isConst, IsUnsigned: isUnsigned, Name: name, Init: init}
	if consumeSemicolon {
		p.expectPeek(lexer.SEMICOLON)
	}
	return stmt
}

// parseParamList parses a parenthesized parameter list; entry requires
// p.cur to be the '(' token, and it leaves p.cur on the matching ')'.
func (p *Parser) parseParamList() ([]ast.Param, []types.Param) {
	var astParams []ast.Param
	var scriptParams []types.Param

	if p.peekIs(lexer.CLOSED_PARENTH) {
		p.next()
		return astParams, scriptParams
	}
	p.next()
	for {
		isConst := false
		if p.curIs(lexer.CONST) {
			isConst = true
			p.next()
		}
		typeName, _ := p.parseTypeSpec()
		if !p.expectPeek(lexer.IDENT) {
			break
		}
		name := p.cur.Literal
		typ, ok := p.cursor.ResolveType(typeName)
		if !ok {
			p.errorf("unknown parameter type %q", typeName)
		}
		astParams = append(astParams, ast.Param{Name: name, TypeName: typeName, IsConst: isConst})
		scriptParams = append(scriptParams, types.Param{Name: name, Type: typ, IsConst: isConst})

		if p.peekIs(lexer.COMMA) {
			p.next()
			p.next()
			continue
		}
		break
	}
	p.expectPeek(lexer.CLOSED_PARENTH)
	return astParams, scriptParams
}

// parseFunctionDecl parses a function/method body, with p.cur on the '('
// that opens its parameter list. isMethod/receiverType are set by the
// caller: parseVarDecl passes (false, nil) for a free function,
// parseClassMember passes (true, classType) for a method. The function's
// own body scope carries the Function bit (plus Class when it's a method)
// and is where parameters live directly, since the language has no
// separate parameter scope nested inside the body scope.
func (p *Parser) parseFunctionDecl(returnTypeName, name string, tok lexer.Token, isMethod bool, receiverType *types.TypeInfo) (*ast.FuncDeclStmt, *types.ScriptFunc) {
	params, scriptParams := p.parseParamList()

	isConstMethod := false
	if p.peekIs(lexer.CONST) {
		p.next()
		isConstMethod = true
	}
	if !p.expectPeek(lexer.OPEN_BRACE) {
		return nil, nil
	}

	retType, ok := p.cursor.ResolveType(returnTypeName)
	if !ok {
		p.errorf("unknown return type %q", returnTypeName)
	}

	fn := &types.ScriptFunc{
		Name: name, Params: scriptParams, ReturnType: retType,
		IsMethod: isMethod, IsConstMethod: isConstMethod, ReceiverType: receiverType,
	}

	kind := scope.Function
	if isMethod {
		kind |= scope.Class
	}
	fnScope := scope.NewChild(p.cursor, kind)
	fnScope.ParentFunc = fn
	fnScope.Receiver = receiverType

	outer := p.cursor
	p.cursor = fnScope
	for _, prm := range scriptParams {
		if _, err := fnScope.DeclareObject(prm.Name, prm.Type, prm.IsConst); err != nil {
			p.errorf("%s", err)
		}
	}

	body := &ast.BlockStmt{Tok: p.cur, Scope: fnScope}
	p.next() // consume '{'
	for !p.curIs(lexer.CLOSED_BRACE) && !p.curIs(lexer.END) {
		if p.curIs(lexer.SEMICOLON) {
			p.next()
			continue
		}
		stmt := p.parseStatement()
		if stmt != nil {
			body.Stmts = append(body.Stmts, stmt)
		}
		p.next()
	}
	if !p.curIs(lexer.CLOSED_BRACE) {
		p.errorf("expected %s, got %s", lexer.CLOSED_BRACE, p.cur.Type)
	}
	p.cursor = outer

	decl := &ast.FuncDeclStmt{
		Tok: tok, Name: name, ReturnType: returnTypeName, Params: params,
		Body: body, IsMethod: isMethod, IsConstMethod: isConstMethod, Scope: fnScope,
	}
	fn.Body = decl
	return decl, fn
}

// parseClassDecl parses `class Name { [visibility:] member... }`, interning
// the class's TypeInfo into the enclosing scope and a child scope (kind
// Class) for its members — fields are added directly to the TypeInfo,
// methods to both the TypeInfo and the returned ClassDeclStmt.
func (p *Parser) parseClassDecl() *ast.ClassDeclStmt {
	tok := p.cur
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	name := p.cur.Literal
	classType := types.NewClass(p.alloc.NextTypeID(), name)
	p.cursor.DeclareType(name, classType)

	if !p.expectPeek(lexer.OPEN_BRACE) {
		return nil
	}

	classScope := scope.NewChild(p.cursor, scope.Class)
	classScope.Receiver = classType
	outer := p.cursor
	p.cursor = classScope

	decl := &ast.ClassDeclStmt{Tok: tok, Name: name, Scope: classScope}
	visibility := "private"

	p.next() // consume '{'
	for !p.curIs(lexer.CLOSED_BRACE) && !p.curIs(lexer.END) {
		switch {
		case p.curIs(lexer.SEMICOLON):
			p.next()
		case p.curIs(lexer.PUBLIC), p.curIs(lexer.PROTECTED), p.curIs(lexer.PRIVATE):
			visibility = p.cur.Literal
			p.expectPeek(lexer.COLON)
			p.next()
		case p.curIs(lexer.CONST), p.cur.Type.IsTypeKeyword():
			member := p.parseClassMember(classType, visibility)
			switch m := member.(type) {
			case *ast.FuncDeclStmt:
				decl.Methods = append(decl.Methods, m)
			case *ast.FieldDecl:
				decl.Fields = append(decl.Fields, *m)
			}
			p.next()
		default:
			p.errorf("unexpected token %s in class body", p.cur.Type)
			p.next()
		}
	}
	p.cursor = outer
	return decl
}

// parseClassMember parses one field or method declaration inside a class
// body; p.cur is the member's leading type token on entry.
func (p *Parser) parseClassMember(classType *types.TypeInfo, visibility string) any {
	tok := p.cur
	if p.curIs(lexer.CONST) {
		p.next()
	}
	typeName, _ := p.parseTypeSpec()
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	name := p.cur.Literal

	if p.peekIs(lexer.OPEN_PARENTH) {
		p.next()
		decl, fn := p.parseFunctionDecl(typeName, name, tok, true, classType)
		if fn != nil && !classType.AddMethod(name, fn) {
			p.errorf("%q is already declared in class %q", name, classType.Name)
		}
		return decl
	}

	fieldType, ok := p.cursor.ResolveType(typeName)
	if !ok {
		p.errorf("unknown field type %q", typeName)
		return nil
	}
	classType.AddField(p.alloc, name, fieldType)
	p.expectPeek(lexer.SEMICOLON)
	return &ast.FieldDecl{Tok: tok, Name: name, TypeName: typeName, Visibility: visibility}
}
