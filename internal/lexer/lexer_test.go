package lexer

import (
	"testing"

	"cfront/internal/diag"
	"cfront/internal/source"
	"cfront/internal/token"
)

func lexAll(t *testing.T, content string) ([]token.Token, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("t.c", []byte(content))
	file := fs.Get(fileID)
	bag := diag.NewBag(20)
	lx := New(file, Options{Reporter: &diag.BagReporter{Bag: bag}})
	var toks []token.Token
	for {
		tok := lx.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return toks, bag
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestIdentifiers_ASCII(t *testing.T) {
	toks, _ := lexAll(t, "foo bar_baz _leading x1")
	if toks[0].Kind != token.Ident || toks[0].Text != "foo" {
		t.Fatalf("unexpected first token: %+v", toks[0])
	}
	if toks[3].Text != "_leading" {
		t.Fatalf("unexpected token: %+v", toks[3])
	}
}

func TestKeywords(t *testing.T) {
	toks, _ := lexAll(t, "int return sizeof _Generic _Alignof struct")
	want := []token.Kind{token.KwInt, token.KwReturn, token.KwSizeof, token.KwGeneric, token.KwAlignof, token.KwStruct, token.EOF}
	got := kinds(toks)
	for i, k := range want {
		if got[i] != k {
			t.Fatalf("token %d: got %v want %v", i, got[i], k)
		}
	}
}

func TestTypedefNameIsPlainIdentifier(t *testing.T) {
	toks, _ := lexAll(t, "size_t")
	if toks[0].Kind != token.Ident {
		t.Fatalf("size_t should lex as a plain identifier, got %v", toks[0].Kind)
	}
}

func TestNumbers_Decimal(t *testing.T) {
	toks, _ := lexAll(t, "0 123 42u 7UL")
	for i := 0; i < 4; i++ {
		if toks[i].Kind != token.IntLit {
			t.Fatalf("token %d: expected IntLit, got %v (%q)", i, toks[i].Kind, toks[i].Text)
		}
	}
}

func TestNumbers_HexAndBinary(t *testing.T) {
	toks, _ := lexAll(t, "0x1F 0b101")
	if toks[0].Kind != token.IntLit || toks[0].Text != "0x1F" {
		t.Fatalf("unexpected hex token: %+v", toks[0])
	}
	if toks[1].Kind != token.IntLit || toks[1].Text != "0b101" {
		t.Fatalf("unexpected binary token: %+v", toks[1])
	}
}

func TestNumbers_Float(t *testing.T) {
	toks, _ := lexAll(t, "1.0 .5 1e10 1.5e-3f 0x1.8p3")
	for i := 0; i < 5; i++ {
		if toks[i].Kind != token.FloatLit {
			t.Fatalf("token %d: expected FloatLit, got %v (%q)", i, toks[i].Kind, toks[i].Text)
		}
	}
}

func TestChar_Simple(t *testing.T) {
	toks, _ := lexAll(t, `'a' '\n' L'x'`)
	if toks[0].Kind != token.CharLit || toks[0].Text != "'a'" {
		t.Fatalf("unexpected: %+v", toks[0])
	}
	if toks[1].Kind != token.CharLit || toks[1].Text != `'\n'` {
		t.Fatalf("unexpected: %+v", toks[1])
	}
	if toks[2].Kind != token.WideCharLit || toks[2].Text != "L'x'" {
		t.Fatalf("unexpected: %+v", toks[2])
	}
}

func TestString_Simple(t *testing.T) {
	toks, _ := lexAll(t, `"hello" L"wide"`)
	if toks[0].Kind != token.StringLit || toks[0].Text != `"hello"` {
		t.Fatalf("unexpected: %+v", toks[0])
	}
	if toks[1].Kind != token.WideStringLit || toks[1].Text != `L"wide"` {
		t.Fatalf("unexpected: %+v", toks[1])
	}
}

func TestString_Unterminated(t *testing.T) {
	toks, bag := lexAll(t, `"abc`)
	if toks[0].Kind != token.Invalid {
		t.Fatalf("expected Invalid, got %v", toks[0].Kind)
	}
	if !bag.HasErrors() {
		t.Fatalf("expected a diagnostic for unterminated string")
	}
}

func TestOperators(t *testing.T) {
	toks, _ := lexAll(t, "-> ++ -- <<= >>= ... == != <= >=")
	want := []token.Kind{
		token.Arrow, token.PlusPlus, token.MinusMinus, token.ShlAssign, token.ShrAssign,
		token.Ellipsis, token.EqEq, token.BangEq, token.LtEq, token.GtEq, token.EOF,
	}
	got := kinds(toks)
	for i, k := range want {
		if got[i] != k {
			t.Fatalf("token %d: got %v want %v", i, got[i], k)
		}
	}
}

func TestOperators_Greedy(t *testing.T) {
	// '<<=' must not lex as '<' '<' '=' or '<<' '='.
	toks, _ := lexAll(t, "<<=")
	if len(toks) != 2 || toks[0].Kind != token.ShlAssign {
		t.Fatalf("expected single ShlAssign token, got %v", kinds(toks))
	}
}

func TestPunctuation(t *testing.T) {
	toks, _ := lexAll(t, "( ) { } [ ] , ; : ? ~ @")
	want := []token.Kind{
		token.LParen, token.RParen, token.LBrace, token.RBrace, token.LBracket, token.RBracket,
		token.Comma, token.Semicolon, token.Colon, token.Question, token.Tilde, token.At, token.EOF,
	}
	got := kinds(toks)
	for i, k := range want {
		if got[i] != k {
			t.Fatalf("token %d: got %v want %v", i, got[i], k)
		}
	}
}

func TestTrivia_LineAndBlockComment(t *testing.T) {
	toks, _ := lexAll(t, "// line\nint /* block */ x")
	if toks[0].Kind != token.KwInt {
		t.Fatalf("expected KwInt first, got %v", toks[0].Kind)
	}
	if len(toks[0].Leading) == 0 || toks[0].Leading[0].Kind != token.TriviaLineComment {
		t.Fatalf("expected leading line comment trivia on first token")
	}
	if toks[1].Kind != token.Ident {
		t.Fatalf("expected Ident 'x', got %v", toks[1].Kind)
	}
}

func TestTrivia_UnterminatedBlockComment(t *testing.T) {
	_, bag := lexAll(t, "int /* never closed")
	if !bag.HasErrors() {
		t.Fatalf("expected diagnostic for unterminated block comment")
	}
}

func TestLexer_PeekBehavior(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("t.c", []byte("int x"))
	lx := New(fs.Get(fileID), Options{})
	p := lx.Peek()
	if p.Kind != token.KwInt {
		t.Fatalf("Peek should return KwInt, got %v", p.Kind)
	}
	n := lx.Next()
	if n.Kind != token.KwInt {
		t.Fatalf("Next after Peek should return the same token, got %v", n.Kind)
	}
	n2 := lx.Next()
	if n2.Kind != token.Ident {
		t.Fatalf("expected Ident 'x', got %v", n2.Kind)
	}
}

func TestLexer_EOFIsSticky(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("empty.c", []byte(""))
	lx := New(fs.Get(fileID), Options{})
	for i := 0; i < 3; i++ {
		if tok := lx.Next(); tok.Kind != token.EOF {
			t.Fatalf("expected EOF, got %v", tok.Kind)
		}
	}
}

func TestLexer_UnknownCharacter(t *testing.T) {
	_, bag := lexAll(t, "$")
	if !bag.HasErrors() {
		t.Fatalf("expected diagnostic for unknown character")
	}
}
