package lexer

import "testing"

func TestNextTokenBasicProgram(t *testing.T) {
	input := `int add(int x, int y) { return x + y; }`

	tests := []struct {
		typ TokenType
		lit string
	}{
		{INT, "int"}, {IDENT, "add"}, {OPEN_PARENTH, "("},
		{INT, "int"}, {IDENT, "x"}, {COMMA, ","},
		{INT, "int"}, {IDENT, "y"}, {CLOSED_PARENTH, ")"},
		{OPEN_BRACE, "{"},
		{RETURN, "return"}, {IDENT, "x"}, {PLUS, "+"}, {IDENT, "y"}, {SEMICOLON, ";"},
		{CLOSED_BRACE, "}"},
		{END, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.typ {
			t.Fatalf("token %d: type = %v, want %v", i, tok.Type, tt.typ)
		}
		if tok.Literal != tt.lit {
			t.Fatalf("token %d: literal = %q, want %q", i, tok.Literal, tt.lit)
		}
	}
}

func TestNextTokenOperators(t *testing.T) {
	input := `== != <= >= += -= *= /= < > = + - * / !`
	tests := []TokenType{
		EQ, NEQ, LEQ, GEQ, PLUS_ASSIGN, MINUS_ASSIGN, STAR_ASSIGN, SLASH_ASSIGN,
		LESS, GREATER, ASSIGN, PLUS, MINUS, STAR, SLASH, NOT, END,
	}
	l := New(input)
	for i, want := range tests {
		tok := l.NextToken()
		if tok.Type != want {
			t.Fatalf("token %d: type = %v, want %v", i, tok.Type, want)
		}
	}
}

func TestNextTokenNumbers(t *testing.T) {
	l := New("123 4.5 6..7")
	tok := l.NextToken()
	if tok.Type != INTEGER || tok.Literal != "123" {
		t.Fatalf("got %v %q", tok.Type, tok.Literal)
	}
	tok = l.NextToken()
	if tok.Type != DECIMAL || tok.Literal != "4.5" {
		t.Fatalf("got %v %q", tok.Type, tok.Literal)
	}
	// "6..7" is INTEGER(6) DOT DOT INTEGER(7): a second dot is not consumed
	// by the number, it starts its own token.
	tok = l.NextToken()
	if tok.Type != INTEGER || tok.Literal != "6" {
		t.Fatalf("got %v %q", tok.Type, tok.Literal)
	}
	if tok := l.NextToken(); tok.Type != DOT {
		t.Fatalf("got %v", tok.Type)
	}
	if tok := l.NextToken(); tok.Type != DOT {
		t.Fatalf("got %v", tok.Type)
	}
	if tok := l.NextToken(); tok.Type != INTEGER || tok.Literal != "7" {
		t.Fatalf("got %v %q", tok.Type, tok.Literal)
	}
}

func TestLexRoundTripPosition(t *testing.T) {
	input := "int x\n  = 42;"
	l := New(input)
	for {
		tok := l.NextToken()
		if tok.Type == END {
			break
		}
		if tok.Pos.Offset < 0 || tok.Pos.Offset+len(tok.Literal) > len(input) {
			t.Fatalf("token %q has out-of-range offset %d", tok.Literal, tok.Pos.Offset)
		}
		got := input[tok.Pos.Offset : tok.Pos.Offset+len(tok.Literal)]
		if got != tok.Literal {
			t.Fatalf("source at offset %d is %q, want %q", tok.Pos.Offset, got, tok.Literal)
		}
	}
}

func TestNextTokenIllegalByte(t *testing.T) {
	l := New("int x = @;")
	for {
		tok := l.NextToken()
		if tok.Type == END {
			break
		}
	}
	errs := l.Errors()
	if len(errs) != 1 {
		t.Fatalf("expected 1 lex error, got %d", len(errs))
	}
}

func TestAddInputResumesScanning(t *testing.T) {
	l := New("int x")
	tok := l.NextToken()
	if tok.Type != INT {
		t.Fatalf("got %v", tok.Type)
	}
	l.AddInput(" = 1;")
	tok = l.NextToken()
	if tok.Type != IDENT || tok.Literal != "x" {
		t.Fatalf("got %v %q", tok.Type, tok.Literal)
	}
	tok = l.NextToken()
	if tok.Type != ASSIGN {
		t.Fatalf("got %v", tok.Type)
	}
}
