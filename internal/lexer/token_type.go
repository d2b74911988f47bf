package lexer

// TokenType identifies the lexical class of a Token.
type TokenType int

// Token type constants, grouped the way the grammar groups them.
const (
	ILLEGAL TokenType = iota // unrecognized byte
	END                      // end of input

	IDENT   // identifiers: x, myVar, Point
	INTEGER // [0-9]+
	DECIMAL // [0-9]+.[0-9]+

	literalEnd // marker, not a real token

	// Primitive type keywords.
	VOID
	CHAR
	SHORT
	INT
	LONG
	UNSIGNED
	FLOAT
	DOUBLE
	BOOL

	// Declaration keywords.
	CLASS
	CONST
	PUBLIC
	PROTECTED
	PRIVATE

	// Control-flow keywords.
	IF
	ELSE
	WHILE
	FOR
	BREAK
	RETURN

	keywordEnd // marker, not a real token

	// Punctuation.
	SEMICOLON // ;
	COMMA     // ,
	DOT       // .
	COLON     // : (class visibility labels)
	COLONCOLON
	OPEN_PARENTH
	CLOSED_PARENTH
	OPEN_BRACE
	CLOSED_BRACE
	OPEN_BRACKET
	CLOSED_BRACKET

	// Operators.
	ASSIGN  // =
	EQ      // ==
	NEQ     // !=
	LESS    // <
	GREATER // >
	LEQ     // <=
	GEQ     // >=
	PLUS    // +
	MINUS   // -
	STAR    // *
	SLASH   // /
	NOT     // !
	PLUS_ASSIGN
	MINUS_ASSIGN
	STAR_ASSIGN
	SLASH_ASSIGN
)

// keywords maps reserved lexemes to their token type. Lookup is exact and
// case sensitive.
var keywords = map[string]TokenType{
	"void":      VOID,
	"char":      CHAR,
	"short":     SHORT,
	"int":       INT,
	"long":      LONG,
	"unsigned":  UNSIGNED,
	"float":     FLOAT,
	"double":    DOUBLE,
	"bool":      BOOL,
	"class":     CLASS,
	"const":     CONST,
	"public":    PUBLIC,
	"protected": PROTECTED,
	"private":   PRIVATE,
	"if":        IF,
	"else":      ELSE,
	"while":     WHILE,
	"for":       FOR,
	"break":     BREAK,
	"return":    RETURN,
}

// LookupIdent classifies ident as a keyword token or a plain IDENT.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsLiteral reports whether tt is an integer or decimal literal.
func (tt TokenType) IsLiteral() bool { return tt == INTEGER || tt == DECIMAL }

// IsKeyword reports whether tt is a reserved word.
func (tt TokenType) IsKeyword() bool { return tt > literalEnd && tt < keywordEnd }

// IsTypeKeyword reports whether tt names a primitive type.
func (tt TokenType) IsTypeKeyword() bool {
	switch tt {
	case VOID, CHAR, SHORT, INT, LONG, UNSIGNED, FLOAT, DOUBLE, BOOL:
		return true
	default:
		return false
	}
}

var tokenTypeStrings = map[TokenType]string{
	ILLEGAL: "ILLEGAL", END: "END",
	IDENT: "IDENT", INTEGER: "INTEGER", DECIMAL: "DECIMAL",
	VOID: "void", CHAR: "char", SHORT: "short", INT: "int", LONG: "long",
	UNSIGNED: "unsigned", FLOAT: "float", DOUBLE: "double", BOOL: "bool",
	CLASS: "class", CONST: "const", PUBLIC: "public", PROTECTED: "protected", PRIVATE: "private",
	IF: "if", ELSE: "else", WHILE: "while", FOR: "for", BREAK: "break", RETURN: "return",
	SEMICOLON: ";", COMMA: ",", DOT: ".", COLON: ":", COLONCOLON: "::",
	OPEN_PARENTH: "(", CLOSED_PARENTH: ")", OPEN_BRACE: "{", CLOSED_BRACE: "}",
	OPEN_BRACKET: "[", CLOSED_BRACKET: "]",
	ASSIGN: "=", EQ: "==", NEQ: "!=", LESS: "<", GREATER: ">", LEQ: "<=", GEQ: ">=",
	PLUS: "+", MINUS: "-", STAR: "*", SLASH: "/", NOT: "!",
	PLUS_ASSIGN: "+=", MINUS_ASSIGN: "-=", STAR_ASSIGN: "*=", SLASH_ASSIGN: "/=",
}

// String returns the canonical spelling of tt, used in diagnostics.
func (tt TokenType) String() string {
	if s, ok := tokenTypeStrings[tt]; ok {
		return s
	}
	return "UNKNOWN"
}
