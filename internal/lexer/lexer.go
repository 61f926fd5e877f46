package lexer

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Hayden-Liles/Cheetah/internal/position"
)

// Lexer scans Cheetah source text. It carries explicit stack-based state for
// indentation and bracket nesting; each run owns its own stacks and error
// list, so separate invocations never share mutable state.
type Lexer struct {
	input    string
	filename string
	config   Config

	pos    int  // byte offset of ch
	ch     byte // current byte, 0 at end of input
	line   int  // 1-based line of ch
	column int  // 1-based column of ch

	indents     []int // open indentation widths, bottom always 0
	depth       int   // open ( [ { nesting
	atLineStart bool
	pending     []Token // queued DEDENT tokens
	errors      []Error
}

// New creates a lexer for the given source. The filename is used only in
// token spans and error positions.
func New(input, filename string) *Lexer {
	return NewWithConfig(input, filename, DefaultConfig())
}

// NewWithConfig creates a lexer with explicit indentation configuration.
func NewWithConfig(input, filename string, config Config) *Lexer {
	l := &Lexer{
		input:       input,
		filename:    filename,
		config:      config,
		line:        1,
		column:      1,
		indents:     []int{0},
		atLineStart: true,
	}
	if len(input) > 0 {
		l.ch = input[0]
	}
	return l
}

// NewNested creates a lexer that scans text as if it appeared inside an
// open bracket: indentation is not tracked and newlines continue the
// logical line instead of ending it. The parser uses this for f-string
// expression segments, whose text may carry surrounding whitespace or, in
// triple-quoted f-strings, embedded newlines.
func NewNested(input, filename string) *Lexer {
	l := New(input, filename)
	l.atLineStart = false
	l.depth = 1
	return l
}

// Errors returns the lexical errors accumulated so far, in source order.
func (l *Lexer) Errors() []Error { return l.errors }

// Tokenize scans the whole input and returns the token stream. The stream is
// always terminated by an EOF token, preceded by one DEDENT per indentation
// level still open, so INDENT and DEDENT counts balance over the stream.
func (l *Lexer) Tokenize() []Token {
	var tokens []Token
	for {
		tok := l.next()
		if tok.Type == TokenEOF {
			if n := len(tokens); n > 0 {
				last := tokens[n-1].Type
				if last != TokenNewline && last != TokenDedent && last != TokenIndent {
					tokens = append(tokens, Token{Type: TokenNewline, Span: tok.Span})
				}
			}
			for len(l.indents) > 1 {
				l.indents = l.indents[:len(l.indents)-1]
				tokens = append(tokens, Token{Type: TokenDedent, Span: tok.Span})
			}
			tokens = append(tokens, tok)
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

// here returns the position of the current character.
func (l *Lexer) here() position.Position {
	return position.Position{Filename: l.filename, Line: l.line, Column: l.column, Offset: l.pos}
}

// advance moves past the current character.
func (l *Lexer) advance() {
	if l.pos >= len(l.input) {
		return
	}
	if l.ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	l.pos++
	if l.pos < len(l.input) {
		l.ch = l.input[l.pos]
	} else {
		l.ch = 0
	}
}

// peek returns the byte n positions ahead without advancing.
func (l *Lexer) peek(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) atEnd() bool { return l.pos >= len(l.input) }

// next produces the next token. INDENT/DEDENT handling runs only at the
// start of a logical line when no bracket is open.
func (l *Lexer) next() Token {
	for {
		if len(l.pending) > 0 {
			tok := l.pending[0]
			l.pending = l.pending[1:]
			return tok
		}

		if l.atLineStart && l.depth == 0 {
			if tok, produced := l.handleLineStart(); produced {
				return tok
			}
			if l.atEnd() {
				return Token{Type: TokenEOF, Span: position.NewSpan(l.here(), l.here())}
			}
			continue
		}

		l.skipSpaces()

		switch {
		case l.atEnd():
			return Token{Type: TokenEOF, Span: position.NewSpan(l.here(), l.here())}

		case l.ch == '#':
			for !l.atEnd() && l.ch != '\n' && l.ch != '\r' {
				l.advance()
			}
			continue

		case l.ch == '\\' && (l.peek(1) == '\n' || l.peek(1) == '\r'):
			// Explicit line continuation: join with the following line
			// without measuring its indentation.
			l.advance()
			l.consumeNewline()
			continue

		case l.ch == '\n' || l.ch == '\r':
			if l.depth > 0 {
				// Implicit continuation inside brackets.
				l.consumeNewline()
				continue
			}
			start := l.here()
			l.consumeNewline()
			l.atLineStart = true
			return Token{Type: TokenNewline, Lexeme: "\n", Span: position.NewSpan(start, l.here())}

		default:
			return l.scanToken()
		}
	}
}

// skipSpaces skips spaces and tabs between tokens.
func (l *Lexer) skipSpaces() {
	for l.ch == ' ' || l.ch == '\t' {
		l.advance()
	}
}

// consumeNewline consumes "\n", "\r\n", or a lone "\r".
func (l *Lexer) consumeNewline() {
	if l.ch == '\r' {
		l.advance()
		if l.ch == '\n' {
			l.advance()
		}
		return
	}
	if l.ch == '\n' {
		l.advance()
	}
}

// handleLineStart measures leading whitespace at the start of a logical
// line and emits INDENT/DEDENT tokens. Blank and comment-only lines are
// consumed here without touching the indentation stack. The boolean result
// reports whether a token was produced.
func (l *Lexer) handleLineStart() (Token, bool) {
	startLine := l.line
	lineStartOffset := l.pos
	width := 0
	sawTab, sawSpace := false, false

	for l.ch == ' ' || l.ch == '\t' {
		if l.ch == ' ' {
			width++
			sawSpace = true
		} else {
			width += l.config.TabWidth
			sawTab = true
		}
		l.advance()
	}

	// Blank and comment-only lines never affect the indentation stack.
	if l.ch == '#' {
		for !l.atEnd() && l.ch != '\n' && l.ch != '\r' {
			l.advance()
		}
	}
	if l.ch == '\n' || l.ch == '\r' {
		l.consumeNewline()
		return Token{}, false
	}
	if l.atEnd() {
		l.atLineStart = false
		return Token{}, false
	}

	if sawTab && sawSpace {
		l.addErrorWithSuggestion(InconsistentIndentation, startLine, 1,
			"inconsistent use of tabs and spaces in indentation",
			"use spaces only for indentation")
	}

	l.atLineStart = false
	top := l.indents[len(l.indents)-1]

	switch {
	case width > top:
		if l.config.EnforceIndentSize && width%l.config.IndentSize != 0 {
			l.addErrorWithSuggestion(InconsistentIndentation, startLine, 1,
				fmt.Sprintf("indentation of %d columns is not a multiple of %d", width, l.config.IndentSize),
				fmt.Sprintf("use %d spaces per indentation level", l.config.IndentSize))
		}
		l.indents = append(l.indents, width)
		span := position.NewSpan(
			position.Position{Filename: l.filename, Line: startLine, Column: 1, Offset: lineStartOffset},
			l.here())
		return Token{Type: TokenIndent, Span: span}, true

	case width < top:
		matched := false
		for _, w := range l.indents {
			if w == width {
				matched = true
				break
			}
		}
		if !matched {
			l.addError(InconsistentIndentation, startLine, 1,
				"unindent does not match any outer indentation level")
		}
		// Pop to the nearest recorded level at or below the measured width
		// so scanning stays usable even after a bad unindent.
		for len(l.indents) > 1 && l.indents[len(l.indents)-1] > width {
			l.indents = l.indents[:len(l.indents)-1]
			span := position.NewSpan(l.here(), l.here())
			l.pending = append(l.pending, Token{Type: TokenDedent, Span: span})
		}
		tok := l.pending[0]
		l.pending = l.pending[1:]
		return tok, true
	}

	return Token{}, false
}

// scanToken dispatches on the current character. The caller has already
// dealt with whitespace, newlines, and comments.
func (l *Lexer) scanToken() Token {
	start := l.here()

	// String literals, with optional r/b/f prefixes.
	if flags, width, ok := l.stringPrefix(); ok {
		for i := 0; i < width; i++ {
			l.advance()
		}
		return l.scanString(start, flags)
	}

	switch {
	case isIdentStart(l.ch) || (l.ch >= 0x80 && l.runeIdentStart()):
		return l.scanIdentifier(start)
	case isDigit(l.ch) || (l.ch == '.' && isDigit(l.peek(1))):
		return l.scanNumber(start)
	}

	return l.scanOperator(start)
}

// stringPrefix checks whether the input at the cursor starts a string
// literal, returning the prefix flags and the prefix length in bytes.
func (l *Lexer) stringPrefix() (StringFlags, int, bool) {
	if l.ch == '"' || l.ch == '\'' {
		return 0, 0, true
	}
	var flags StringFlags
	n := 0
scan:
	for n < 2 {
		switch l.peek(n) {
		case 'r', 'R':
			if flags&FlagRaw != 0 {
				return 0, 0, false
			}
			flags |= FlagRaw
		case 'b', 'B':
			if flags&FlagBytes != 0 {
				return 0, 0, false
			}
			flags |= FlagBytes
		case 'f', 'F':
			if flags&FlagFString != 0 {
				return 0, 0, false
			}
			flags |= FlagFString
		default:
			break scan
		}
		n++
	}
	if n == 0 {
		return 0, 0, false
	}
	if flags&FlagBytes != 0 && flags&FlagFString != 0 {
		return 0, 0, false // bf is not a valid prefix; lex as identifier
	}
	q := l.peek(n)
	if q != '"' && q != '\'' {
		return 0, 0, false
	}
	return flags, n, true
}

func isIdentStart(ch byte) bool {
	return ch == '_' || ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}

func isDigit(ch byte) bool { return '0' <= ch && ch <= '9' }

func isHexDigit(ch byte) bool {
	return isDigit(ch) || ('a' <= ch && ch <= 'f') || ('A' <= ch && ch <= 'F')
}

// runeIdentStart decodes the rune at the cursor and reports whether it can
// start an identifier.
func (l *Lexer) runeIdentStart() bool {
	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return unicode.IsLetter(r)
}

// scanIdentifier reads an identifier or keyword. Unicode letters are
// accepted anywhere an ASCII letter is.
func (l *Lexer) scanIdentifier(start position.Position) Token {
	for {
		if isIdentPart(l.ch) {
			l.advance()
			continue
		}
		if l.ch >= 0x80 {
			r, size := utf8.DecodeRuneInString(l.input[l.pos:])
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				for i := 0; i < size; i++ {
					l.advance()
				}
				continue
			}
		}
		break
	}
	lexeme := l.input[start.Offset:l.pos]
	return Token{
		Type:   lookupIdent(lexeme),
		Lexeme: lexeme,
		Span:   position.NewSpan(start, l.here()),
	}
}

// scanNumber reads integer, float, and imaginary literals. Underscore
// separators are validated, not silently accepted, and integer payloads are
// arbitrary precision.
func (l *Lexer) scanNumber(start position.Position) Token {
	if l.ch == '0' && (l.peek(1) == 'b' || l.peek(1) == 'B' ||
		l.peek(1) == 'o' || l.peek(1) == 'O' ||
		l.peek(1) == 'x' || l.peek(1) == 'X') {
		return l.scanRadixLiteral(start)
	}

	isFloat := false

	if l.ch == '.' {
		isFloat = true
		l.advance()
		l.scanDigitRun()
	} else {
		l.scanDigitRun()
		if l.ch == '.' && !isIdentStart(l.peek(1)) && l.peek(1) != '.' {
			isFloat = true
			l.advance()
			l.scanDigitRun()
		}
	}

	if (l.ch == 'e' || l.ch == 'E') &&
		(isDigit(l.peek(1)) || ((l.peek(1) == '+' || l.peek(1) == '-') && isDigit(l.peek(2)))) {
		isFloat = true
		l.advance()
		if l.ch == '+' || l.ch == '-' {
			l.advance()
		}
		l.scanDigitRun()
	}

	isImag := false
	if l.ch == 'j' || l.ch == 'J' {
		isImag = true
		l.advance()
	}

	// Letters glued onto a number are a malformed literal, not two tokens.
	if isIdentPart(l.ch) {
		for isIdentPart(l.ch) {
			l.advance()
		}
		lexeme := l.input[start.Offset:l.pos]
		msg := fmt.Sprintf("invalid number literal: %q", lexeme)
		l.addError(MalformedNumber, start.Line, start.Column, msg)
		return l.errorToken(start, lexeme, msg)
	}

	lexeme := l.input[start.Offset:l.pos]
	digits := lexeme
	if isImag {
		digits = digits[:len(digits)-1]
	}
	if !l.validUnderscores(digits, start) {
		return l.errorToken(start, lexeme, "invalid underscore placement in number literal")
	}
	clean := strings.ReplaceAll(digits, "_", "")

	span := position.NewSpan(start, l.here())
	if isFloat || isImag {
		value, err := strconv.ParseFloat(clean, 64)
		if err != nil {
			msg := fmt.Sprintf("invalid float literal: %q", lexeme)
			l.addError(MalformedNumber, start.Line, start.Column, msg)
			return l.errorToken(start, lexeme, msg)
		}
		if isImag {
			return Token{Type: TokenImag, Lexeme: lexeme, Span: span, Float: value}
		}
		return Token{Type: TokenFloat, Lexeme: lexeme, Span: span, Float: value}
	}

	value, ok := new(big.Int).SetString(clean, 10)
	if !ok {
		msg := fmt.Sprintf("invalid integer literal: %q", lexeme)
		l.addError(MalformedNumber, start.Line, start.Column, msg)
		return l.errorToken(start, lexeme, msg)
	}
	return Token{Type: TokenInt, Lexeme: lexeme, Span: span, Int: value}
}

// scanRadixLiteral reads 0b/0o/0x literals. The cursor is on the leading 0.
func (l *Lexer) scanRadixLiteral(start position.Position) Token {
	l.advance() // 0
	marker := l.ch
	l.advance() // b/o/x

	var base int
	var pred func(byte) bool
	switch marker {
	case 'b', 'B':
		base, pred = 2, func(ch byte) bool { return ch == '0' || ch == '1' }
	case 'o', 'O':
		base, pred = 8, func(ch byte) bool { return '0' <= ch && ch <= '7' }
	default:
		base, pred = 16, isHexDigit
	}

	for pred(l.ch) || l.ch == '_' {
		l.advance()
	}

	// Swallow any trailing junk so the whole literal is one error token.
	junk := false
	for isIdentPart(l.ch) {
		junk = true
		l.advance()
	}

	lexeme := l.input[start.Offset:l.pos]
	digits := lexeme[2:]
	clean := strings.ReplaceAll(digits, "_", "")

	if junk || len(clean) == 0 {
		msg := fmt.Sprintf("invalid base-%d literal: %q", base, lexeme)
		l.addError(MalformedNumber, start.Line, start.Column, msg)
		return l.errorToken(start, lexeme, msg)
	}
	if !l.validUnderscoresRadix(digits, start) {
		return l.errorToken(start, lexeme, "invalid underscore placement in number literal")
	}

	value, ok := new(big.Int).SetString(clean, base)
	if !ok {
		msg := fmt.Sprintf("invalid base-%d literal: %q", base, lexeme)
		l.addError(MalformedNumber, start.Line, start.Column, msg)
		return l.errorToken(start, lexeme, msg)
	}
	return Token{Type: TokenInt, Lexeme: lexeme, Span: position.NewSpan(start, l.here()), Int: value}
}

// scanDigitRun consumes a run of decimal digits and underscores.
func (l *Lexer) scanDigitRun() {
	for isDigit(l.ch) || l.ch == '_' {
		l.advance()
	}
}

// validUnderscores rejects doubled, leading, or trailing underscores in a
// decimal literal: an underscore must sit between two digits.
func (l *Lexer) validUnderscores(digits string, start position.Position) bool {
	for i := 0; i < len(digits); i++ {
		if digits[i] != '_' {
			continue
		}
		if i == 0 || i == len(digits)-1 || !isDigit(digits[i-1]) || !isDigit(digits[i+1]) {
			l.addError(MalformedNumber, start.Line, start.Column,
				fmt.Sprintf("invalid underscore placement in number literal: %q", digits))
			return false
		}
	}
	return true
}

// validUnderscoresRadix validates underscores in the digit run of a radix
// literal, where an underscore directly after the base marker is legal
// (0x_FF) but doubled and trailing underscores are not.
func (l *Lexer) validUnderscoresRadix(digits string, start position.Position) bool {
	for i := 0; i < len(digits); i++ {
		if digits[i] != '_' {
			continue
		}
		prevOK := i == 0 || digits[i-1] != '_'
		nextOK := i < len(digits)-1 && digits[i+1] != '_'
		if !prevOK || !nextOK {
			l.addError(MalformedNumber, start.Line, start.Column,
				fmt.Sprintf("invalid underscore placement in number literal: %q", digits))
			return false
		}
	}
	return true
}

func (l *Lexer) errorToken(start position.Position, lexeme, msg string) Token {
	return Token{
		Type:   TokenError,
		Lexeme: lexeme,
		Span:   position.NewSpan(start, l.here()),
		Str:    msg,
	}
}

// scanOperator reads operators and delimiters, tracking bracket depth for
// implicit line continuation.
func (l *Lexer) scanOperator(start position.Position) Token {
	ch := l.ch
	make1 := func(tt TokenType) Token {
		l.advance()
		return Token{Type: tt, Lexeme: string(ch), Span: position.NewSpan(start, l.here())}
	}
	makeN := func(tt TokenType, n int) Token {
		for i := 0; i < n; i++ {
			l.advance()
		}
		return Token{Type: tt, Lexeme: l.input[start.Offset:l.pos], Span: position.NewSpan(start, l.here())}
	}

	switch ch {
	case '+':
		if l.peek(1) == '=' {
			return makeN(TokenPlusAssign, 2)
		}
		return make1(TokenPlus)
	case '-':
		if l.peek(1) == '=' {
			return makeN(TokenMinusAssign, 2)
		}
		if l.peek(1) == '>' {
			return makeN(TokenArrow, 2)
		}
		return make1(TokenMinus)
	case '*':
		if l.peek(1) == '*' {
			if l.peek(2) == '=' {
				return makeN(TokenDoubleStarAssign, 3)
			}
			return makeN(TokenDoubleStar, 2)
		}
		if l.peek(1) == '=' {
			return makeN(TokenStarAssign, 2)
		}
		return make1(TokenStar)
	case '/':
		if l.peek(1) == '/' {
			if l.peek(2) == '=' {
				return makeN(TokenDoubleSlashAssign, 3)
			}
			return makeN(TokenDoubleSlash, 2)
		}
		if l.peek(1) == '=' {
			return makeN(TokenSlashAssign, 2)
		}
		return make1(TokenSlash)
	case '%':
		if l.peek(1) == '=' {
			return makeN(TokenPercentAssign, 2)
		}
		return make1(TokenPercent)
	case '@':
		if l.peek(1) == '=' {
			return makeN(TokenAtAssign, 2)
		}
		return make1(TokenAt)
	case '=':
		if l.peek(1) == '=' {
			return makeN(TokenEq, 2)
		}
		return make1(TokenAssign)
	case '!':
		if l.peek(1) == '=' {
			return makeN(TokenNe, 2)
		}
		msg := "unexpected character '!' (did you mean '!=' or 'not'?)"
		l.addError(InvalidCharacter, start.Line, start.Column, msg)
		l.advance()
		return l.errorToken(start, "!", msg)
	case '<':
		if l.peek(1) == '=' {
			return makeN(TokenLe, 2)
		}
		if l.peek(1) == '<' {
			if l.peek(2) == '=' {
				return makeN(TokenShiftLeftAssign, 3)
			}
			return makeN(TokenShiftLeft, 2)
		}
		return make1(TokenLt)
	case '>':
		if l.peek(1) == '=' {
			return makeN(TokenGe, 2)
		}
		if l.peek(1) == '>' {
			if l.peek(2) == '=' {
				return makeN(TokenShiftRightAssign, 3)
			}
			return makeN(TokenShiftRight, 2)
		}
		return make1(TokenGt)
	case '&':
		if l.peek(1) == '=' {
			return makeN(TokenAmpAssign, 2)
		}
		return make1(TokenAmp)
	case '|':
		if l.peek(1) == '=' {
			return makeN(TokenPipeAssign, 2)
		}
		return make1(TokenPipe)
	case '^':
		if l.peek(1) == '=' {
			return makeN(TokenCaretAssign, 2)
		}
		return make1(TokenCaret)
	case '~':
		return make1(TokenTilde)
	case ':':
		if l.peek(1) == '=' {
			return makeN(TokenWalrus, 2)
		}
		return make1(TokenColon)
	case ';':
		return make1(TokenSemicolon)
	case ',':
		return make1(TokenComma)
	case '.':
		if l.peek(1) == '.' && l.peek(2) == '.' {
			return makeN(TokenEllipsis, 3)
		}
		return make1(TokenDot)
	case '(':
		l.depth++
		return make1(TokenLParen)
	case ')':
		if l.depth > 0 {
			l.depth--
		}
		return make1(TokenRParen)
	case '[':
		l.depth++
		return make1(TokenLBracket)
	case ']':
		if l.depth > 0 {
			l.depth--
		}
		return make1(TokenRBracket)
	case '{':
		l.depth++
		return make1(TokenLBrace)
	case '}':
		if l.depth > 0 {
			l.depth--
		}
		return make1(TokenRBrace)
	}

	// Not a recognized character. Report it and keep scanning from the
	// next byte (or past the whole rune for non-ASCII input).
	size := 1
	display := string(ch)
	if ch >= 0x80 {
		r, n := utf8.DecodeRuneInString(l.input[l.pos:])
		size = n
		display = string(r)
	}
	msg := fmt.Sprintf("unexpected character %q", display)
	l.addError(InvalidCharacter, start.Line, start.Column, msg)
	for i := 0; i < size; i++ {
		l.advance()
	}
	return l.errorToken(start, display, msg)
}
