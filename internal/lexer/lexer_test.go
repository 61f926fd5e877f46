package lexer

import (
	"math/big"
	"strings"
	"testing"
)

func tokenTypes(tokens []Token) []TokenType {
	types := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		types[i] = tok.Type
	}
	return types
}

func typesEqual(got, want []TokenType) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestTokenizeSimpleStatements(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []TokenType
	}{
		{
			name:  "assignment",
			input: "x = 1\n",
			want: []TokenType{
				TokenIdentifier, TokenAssign, TokenInt, TokenNewline, TokenEOF,
			},
		},
		{
			name:  "call with arguments",
			input: "print(a, b)\n",
			want: []TokenType{
				TokenIdentifier, TokenLParen, TokenIdentifier, TokenComma,
				TokenIdentifier, TokenRParen, TokenNewline, TokenEOF,
			},
		},
		{
			name:  "keywords are not identifiers",
			input: "if while lambda match case\n",
			want: []TokenType{
				TokenIf, TokenWhile, TokenLambda, TokenMatch, TokenCase,
				TokenNewline, TokenEOF,
			},
		},
		{
			name:  "walrus arrow ellipsis",
			input: "(n := f()) -> ...\n",
			want: []TokenType{
				TokenLParen, TokenIdentifier, TokenWalrus, TokenIdentifier,
				TokenLParen, TokenRParen, TokenRParen, TokenArrow, TokenEllipsis,
				TokenNewline, TokenEOF,
			},
		},
		{
			name:  "missing final newline is synthesized",
			input: "x = 1",
			want: []TokenType{
				TokenIdentifier, TokenAssign, TokenInt, TokenNewline, TokenEOF,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(tt.input, "test.ch")
			got := tokenTypes(l.Tokenize())
			if !typesEqual(got, tt.want) {
				t.Errorf("token types = %v, want %v", got, tt.want)
			}
			if len(l.Errors()) != 0 {
				t.Errorf("unexpected errors: %v", l.Errors())
			}
		})
	}
}

func TestIndentationBalance(t *testing.T) {
	input := strings.Join([]string{
		"def f():",
		"    if x:",
		"        y = 1",
		"    z = 2",
		"", // blank line must not dedent
		"a = 3",
	}, "\n") + "\n"

	l := New(input, "test.ch")
	tokens := l.Tokenize()
	if len(l.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", l.Errors())
	}

	indents, dedents := 0, 0
	depth, maxDepth := 0, 0
	for _, tok := range tokens {
		switch tok.Type {
		case TokenIndent:
			indents++
			depth++
			if depth > maxDepth {
				maxDepth = depth
			}
		case TokenDedent:
			dedents++
			depth--
			if depth < 0 {
				t.Fatalf("dedent below the base level at %s", tok.Span.Start)
			}
		}
	}
	if indents != dedents {
		t.Errorf("indents = %d, dedents = %d, want equal", indents, dedents)
	}
	if indents != 2 {
		t.Errorf("indents = %d, want 2", indents)
	}
	if maxDepth != 2 {
		t.Errorf("max nesting = %d, want 2", maxDepth)
	}
}

func TestDedentToOuterLevel(t *testing.T) {
	input := "if a:\n    if b:\n        x = 1\ny = 2\n"
	l := New(input, "test.ch")
	tokens := l.Tokenize()
	if len(l.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", l.Errors())
	}

	// The unindent from column 8 back to column 0 must close both levels
	// before the y token.
	dedents := 0
	for _, tok := range tokens {
		if tok.Type == TokenDedent {
			dedents++
		}
		if tok.Type == TokenIdentifier && tok.Lexeme == "y" {
			break
		}
	}
	if dedents != 2 {
		t.Errorf("dedents before y = %d, want 2", dedents)
	}
}

func TestUnindentToUnrecordedColumn(t *testing.T) {
	input := "if a:\n        x = 1\n    y = 2\n"
	l := New(input, "test.ch")
	tokens := l.Tokenize()

	errs := l.Errors()
	if len(errs) != 1 {
		t.Fatalf("errors = %v, want exactly one", errs)
	}
	if errs[0].Kind != InconsistentIndentation {
		t.Errorf("error kind = %v, want InconsistentIndentation", errs[0].Kind)
	}
	if errs[0].Line != 3 {
		t.Errorf("error line = %d, want 3", errs[0].Line)
	}

	// Scanning continues past the bad line.
	sawY := false
	for _, tok := range tokens {
		if tok.Type == TokenIdentifier && tok.Lexeme == "y" {
			sawY = true
		}
	}
	if !sawY {
		t.Error("tokens after the indentation error were dropped")
	}
}

func TestMixedTabsAndSpaces(t *testing.T) {
	input := "if a:\n \tx = 1\n"
	l := New(input, "test.ch")
	l.Tokenize()

	errs := l.Errors()
	if len(errs) != 1 || errs[0].Kind != InconsistentIndentation {
		t.Fatalf("errors = %v, want one InconsistentIndentation", errs)
	}
	if errs[0].Suggestion == "" {
		t.Error("expected a suggestion for the tab/space mix")
	}
}

func TestCommentOnlyLinesDoNotIndent(t *testing.T) {
	input := "x = 1\n    # indented comment\ny = 2\n"
	l := New(input, "test.ch")
	tokens := l.Tokenize()
	if len(l.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", l.Errors())
	}
	for _, tok := range tokens {
		if tok.Type == TokenIndent || tok.Type == TokenDedent {
			t.Fatalf("comment-only line produced %s", tok.Type)
		}
	}
}

func TestLineContinuation(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"implicit inside parens", "x = (1 +\n     2)\n"},
		{"implicit inside brackets", "x = [1,\n     2,\n     3]\n"},
		{"explicit backslash", "x = 1 + \\\n    2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(tt.input, "test.ch")
			tokens := l.Tokenize()
			if len(l.Errors()) != 0 {
				t.Fatalf("unexpected errors: %v", l.Errors())
			}
			newlines := 0
			for _, tok := range tokens {
				switch tok.Type {
				case TokenNewline:
					newlines++
				case TokenIndent, TokenDedent:
					t.Fatalf("continuation line produced %s", tok.Type)
				}
			}
			if newlines != 1 {
				t.Errorf("newlines = %d, want 1", newlines)
			}
		})
	}
}

func TestNestedModeIgnoresLayout(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []TokenType
	}{
		{"leading whitespace", "  x ", []TokenType{TokenIdentifier, TokenNewline, TokenEOF}},
		{"indented line start", "    x + y",
			[]TokenType{TokenIdentifier, TokenPlus, TokenIdentifier, TokenNewline, TokenEOF}},
		{"embedded newline", "x +\n y",
			[]TokenType{TokenIdentifier, TokenPlus, TokenIdentifier, TokenNewline, TokenEOF}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewNested(tt.input, "test.ch")
			tokens := l.Tokenize()
			if len(l.Errors()) != 0 {
				t.Fatalf("unexpected errors: %v", l.Errors())
			}
			if got := tokenTypes(tokens); !typesEqual(got, tt.want) {
				t.Errorf("tokens = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIntegerLiterals(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"10", 10},
		{"0b1010", 10},
		{"0o12", 10},
		{"0x0A", 10},
		{"0xff", 255},
		{"1_000_000", 1000000},
		{"0b_1010", 10},
		{"0x_FF", 255},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			l := New(tt.input+"\n", "test.ch")
			tokens := l.Tokenize()
			if len(l.Errors()) != 0 {
				t.Fatalf("unexpected errors: %v", l.Errors())
			}
			if tokens[0].Type != TokenInt {
				t.Fatalf("token type = %s, want Int", tokens[0].Type)
			}
			if tokens[0].Int.Cmp(big.NewInt(tt.want)) != 0 {
				t.Errorf("value = %s, want %d", tokens[0].Int, tt.want)
			}
		})
	}
}

func TestBigIntegerLiteral(t *testing.T) {
	input := "123456789012345678901234567890\n"
	l := New(input, "test.ch")
	tokens := l.Tokenize()
	if len(l.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", l.Errors())
	}
	want, _ := new(big.Int).SetString("123456789012345678901234567890", 10)
	if tokens[0].Int.Cmp(want) != 0 {
		t.Errorf("value = %s, want %s", tokens[0].Int, want)
	}
}

func TestFloatAndImaginaryLiterals(t *testing.T) {
	tests := []struct {
		input string
		typ   TokenType
		want  float64
	}{
		{"3.14", TokenFloat, 3.14},
		{".5", TokenFloat, 0.5},
		{"1e3", TokenFloat, 1000},
		{"2.5e-2", TokenFloat, 0.025},
		{"1_0.2_5", TokenFloat, 10.25},
		{"3j", TokenImag, 3},
		{"2.5J", TokenImag, 2.5},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			l := New(tt.input+"\n", "test.ch")
			tokens := l.Tokenize()
			if len(l.Errors()) != 0 {
				t.Fatalf("unexpected errors: %v", l.Errors())
			}
			if tokens[0].Type != tt.typ {
				t.Fatalf("token type = %s, want %s", tokens[0].Type, tt.typ)
			}
			if tokens[0].Float != tt.want {
				t.Errorf("value = %g, want %g", tokens[0].Float, tt.want)
			}
		})
	}
}

func TestMalformedNumbers(t *testing.T) {
	tests := []string{
		"123abc",
		"1__0",
		"_1", // lexes as identifier, but 1_ below does not
		"1_",
		"0b102",
		"0x",
		"0b2",
	}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			l := New(input+"\n", "test.ch")
			tokens := l.Tokenize()
			if input == "_1" {
				// Leading underscore starts an identifier.
				if tokens[0].Type != TokenIdentifier {
					t.Fatalf("token type = %s, want Identifier", tokens[0].Type)
				}
				return
			}
			if len(l.Errors()) == 0 {
				t.Fatalf("no error for %q, tokens = %v", input, tokens)
			}
			if l.Errors()[0].Kind != MalformedNumber {
				t.Errorf("error kind = %v, want MalformedNumber", l.Errors()[0].Kind)
			}
			if tokens[0].Type != TokenError {
				t.Errorf("token type = %s, want Error", tokens[0].Type)
			}
		})
	}
}

func TestAttributeAccessAfterNumber(t *testing.T) {
	// 1.bit_length() must lex the dot as an attribute access, not a float.
	l := New("x.y\n", "test.ch")
	tokens := l.Tokenize()
	want := []TokenType{TokenIdentifier, TokenDot, TokenIdentifier, TokenNewline, TokenEOF}
	if got := tokenTypes(tokens); !typesEqual(got, want) {
		t.Errorf("token types = %v, want %v", got, want)
	}
}

func TestStringLiterals(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"double quoted", `"hello"`, "hello"},
		{"single quoted", `'hello'`, "hello"},
		{"escapes", `"a\tb\n\\"`, "a\tb\n\\"},
		{"quote escape", `"say \"hi\""`, `say "hi"`},
		{"hex escape", `"\x41\x42"`, "AB"},
		{"unicode 4", `"\u00e9"`, "\u00e9"},
		{"unicode 8", `"\U0001F600"`, "\U0001F600"},
		{"octal", `"\101"`, "A"},
		{"named escape", `"\N{LATIN SMALL LETTER A}"`, "a"},
		{"raw keeps backslashes", `r"a\tb"`, `a\tb`},
		{"triple quoted", "\"\"\"a\nb\"\"\"", "a\nb"},
		{"escaped newline joins", "\"a\\\nb\"", "ab"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(tt.input+"\n", "test.ch")
			tokens := l.Tokenize()
			if len(l.Errors()) != 0 {
				t.Fatalf("unexpected errors: %v", l.Errors())
			}
			if tokens[0].Type != TokenString {
				t.Fatalf("token type = %s, want String", tokens[0].Type)
			}
			if tokens[0].Str != tt.want {
				t.Errorf("value = %q, want %q", tokens[0].Str, tt.want)
			}
		})
	}
}

func TestBytesLiterals(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []byte
	}{
		{"plain", `b"abc"`, []byte("abc")},
		{"hex escapes", `b"\x00\xff"`, []byte{0x00, 0xff}},
		{"raw bytes", `rb"a\x41"`, []byte(`a\x41`)},
		{"br order also valid", `br"a\n"`, []byte(`a\n`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(tt.input+"\n", "test.ch")
			tokens := l.Tokenize()
			if len(l.Errors()) != 0 {
				t.Fatalf("unexpected errors: %v", l.Errors())
			}
			if tokens[0].Type != TokenBytes {
				t.Fatalf("token type = %s, want Bytes", tokens[0].Type)
			}
			if string(tokens[0].Bytes) != string(tt.want) {
				t.Errorf("value = %v, want %v", tokens[0].Bytes, tt.want)
			}
		})
	}
}

func TestUnicodeEscapeInBytesRejected(t *testing.T) {
	l := New(`b"\u0041"`+"\n", "test.ch")
	l.Tokenize()
	errs := l.Errors()
	if len(errs) == 0 || errs[0].Kind != InvalidEscape {
		t.Fatalf("errors = %v, want InvalidEscape", errs)
	}
}

func TestUnterminatedString(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"newline ends it", "\"abc\nx = 1\n"},
		{"eof ends it", `"abc`},
		{"triple at eof", `"""abc`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(tt.input, "test.ch")
			tokens := l.Tokenize()
			errs := l.Errors()
			if len(errs) != 1 || errs[0].Kind != UnterminatedString {
				t.Fatalf("errors = %v, want one UnterminatedString", errs)
			}
			if tokens[0].Type != TokenString {
				t.Errorf("token type = %s, want best-effort String", tokens[0].Type)
			}
		})
	}
}

func TestInvalidEscape(t *testing.T) {
	l := New(`"\q"`+"\n", "test.ch")
	tokens := l.Tokenize()
	errs := l.Errors()
	if len(errs) != 1 || errs[0].Kind != InvalidEscape {
		t.Fatalf("errors = %v, want one InvalidEscape", errs)
	}
	// The bad escape passes through verbatim.
	if tokens[0].Str != `\q` {
		t.Errorf("value = %q, want %q", tokens[0].Str, `\q`)
	}
}

func TestFStringSegments(t *testing.T) {
	l := New(`f"sum is {a + b}!"`+"\n", "test.ch")
	tokens := l.Tokenize()
	if len(l.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", l.Errors())
	}
	tok := tokens[0]
	if tok.Type != TokenFString {
		t.Fatalf("token type = %s, want FString", tok.Type)
	}
	if len(tok.Segments) != 3 {
		t.Fatalf("segments = %d, want 3", len(tok.Segments))
	}
	if tok.Segments[0].IsExpr || tok.Segments[0].Text != "sum is " {
		t.Errorf("segment 0 = %+v", tok.Segments[0])
	}
	if !tok.Segments[1].IsExpr || tok.Segments[1].Text != "a + b" {
		t.Errorf("segment 1 = %+v", tok.Segments[1])
	}
	if tok.Segments[2].IsExpr || tok.Segments[2].Text != "!" {
		t.Errorf("segment 2 = %+v", tok.Segments[2])
	}
}

func TestFStringFeatures(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, segs []FStringSegment)
	}{
		{
			name:  "doubled braces are literal",
			input: `f"{{x}}"`,
			check: func(t *testing.T, segs []FStringSegment) {
				if len(segs) != 1 || segs[0].IsExpr || segs[0].Text != "{x}" {
					t.Errorf("segments = %+v", segs)
				}
			},
		},
		{
			name:  "conversion",
			input: `f"{x!r}"`,
			check: func(t *testing.T, segs []FStringSegment) {
				if len(segs) != 1 || segs[0].Conversion != 'r' {
					t.Errorf("segments = %+v", segs)
				}
			},
		},
		{
			name:  "format spec",
			input: `f"{x:>10.2f}"`,
			check: func(t *testing.T, segs []FStringSegment) {
				if len(segs) != 1 || segs[0].FormatSpec != ">10.2f" {
					t.Errorf("segments = %+v", segs)
				}
			},
		},
		{
			name:  "nested spec",
			input: `f"{x:{width}}"`,
			check: func(t *testing.T, segs []FStringSegment) {
				if len(segs) != 1 || segs[0].FormatSpec != "{width}" {
					t.Errorf("segments = %+v", segs)
				}
			},
		},
		{
			name:  "self documenting",
			input: `f"{x=}"`,
			check: func(t *testing.T, segs []FStringSegment) {
				if len(segs) != 1 || !segs[0].SelfDoc || segs[0].Text != "x" {
					t.Errorf("segments = %+v", segs)
				}
			},
		},
		{
			name:  "equality is not self doc",
			input: `f"{x == y}"`,
			check: func(t *testing.T, segs []FStringSegment) {
				if len(segs) != 1 || segs[0].SelfDoc || segs[0].Text != "x == y" {
					t.Errorf("segments = %+v", segs)
				}
			},
		},
		{
			name:  "dict subscript inside field",
			input: `f"{d['k']}"`,
			check: func(t *testing.T, segs []FStringSegment) {
				if len(segs) != 1 || segs[0].Text != "d['k']" {
					t.Errorf("segments = %+v", segs)
				}
			},
		},
		{
			name:  "lambda colon stays inside nested parens",
			input: `f"{(lambda: 1)()}"`,
			check: func(t *testing.T, segs []FStringSegment) {
				if len(segs) != 1 || segs[0].Text != "(lambda: 1)()" {
					t.Errorf("segments = %+v", segs)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(tt.input+"\n", "test.ch")
			tokens := l.Tokenize()
			if len(l.Errors()) != 0 {
				t.Fatalf("unexpected errors: %v", l.Errors())
			}
			tt.check(t, tokens[0].Segments)
		})
	}
}

func TestFStringErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  ErrorKind
	}{
		{"stray closing brace", `f"a}b"`, InvalidCharacter},
		{"unclosed field", `f"{x"`, UnterminatedString},
		{"empty expression", `f"{}"`, InvalidCharacter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(tt.input+"\n", "test.ch")
			l.Tokenize()
			errs := l.Errors()
			if len(errs) == 0 {
				t.Fatal("no errors reported")
			}
			if errs[0].Kind != tt.kind {
				t.Errorf("error kind = %v, want %v", errs[0].Kind, tt.kind)
			}
		})
	}
}

func TestInvalidCharacters(t *testing.T) {
	tests := []struct {
		input      string
		suggestion bool
	}{
		{"x ! y\n", true},
		{"x $ y\n", false},
	}
	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			l := New(tt.input, "test.ch")
			tokens := l.Tokenize()
			errs := l.Errors()
			if len(errs) != 1 || errs[0].Kind != InvalidCharacter {
				t.Fatalf("errors = %v, want one InvalidCharacter", errs)
			}
			// Scanning continues after the bad character.
			sawY := false
			for _, tok := range tokens {
				if tok.Type == TokenIdentifier && tok.Lexeme == "y" {
					sawY = true
				}
			}
			if !sawY {
				t.Error("tokens after the invalid character were dropped")
			}
		})
	}
}

func TestUnicodeIdentifiers(t *testing.T) {
	l := New("café = 1\nπ = 3\n", "test.ch")
	tokens := l.Tokenize()
	if len(l.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", l.Errors())
	}
	if tokens[0].Type != TokenIdentifier || tokens[0].Lexeme != "café" {
		t.Errorf("token 0 = %v", tokens[0])
	}
	var pi *Token
	for i := range tokens {
		if tokens[i].Lexeme == "π" {
			pi = &tokens[i]
		}
	}
	if pi == nil || pi.Type != TokenIdentifier {
		t.Errorf("π did not lex as an identifier: %v", pi)
	}
}

func TestErrorPositions(t *testing.T) {
	l := New("x = 1\ny = $\n", "test.ch")
	l.Tokenize()
	errs := l.Errors()
	if len(errs) != 1 {
		t.Fatalf("errors = %v, want one", errs)
	}
	if errs[0].Line != 2 || errs[0].Column != 5 {
		t.Errorf("error at %d:%d, want 2:5", errs[0].Line, errs[0].Column)
	}
	if errs[0].LineText != "y = $" {
		t.Errorf("line text = %q, want %q", errs[0].LineText, "y = $")
	}
}

func TestSpanTracking(t *testing.T) {
	l := New("abc = 42\n", "test.ch")
	tokens := l.Tokenize()
	tok := tokens[0]
	if tok.Span.Start.Line != 1 || tok.Span.Start.Column != 1 {
		t.Errorf("start = %s, want 1:1", tok.Span.Start)
	}
	if tok.Span.End.Column != 4 {
		t.Errorf("end column = %d, want 4", tok.Span.End.Column)
	}
	num := tokens[2]
	if num.Span.Start.Column != 7 {
		t.Errorf("number start column = %d, want 7", num.Span.Start.Column)
	}
}

func TestCRLFInput(t *testing.T) {
	l := New("x = 1\r\ny = 2\r\n", "test.ch")
	tokens := l.Tokenize()
	if len(l.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", l.Errors())
	}
	want := []TokenType{
		TokenIdentifier, TokenAssign, TokenInt, TokenNewline,
		TokenIdentifier, TokenAssign, TokenInt, TokenNewline,
		TokenEOF,
	}
	if got := tokenTypes(tokens); !typesEqual(got, want) {
		t.Errorf("token types = %v, want %v", got, want)
	}
}
