package lexer

import (
	"fmt"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/unicode/runenames"

	"github.com/Hayden-Liles/Cheetah/internal/position"
)

// scanString reads a string, bytes, or f-string literal. The cursor is on
// the opening quote; the prefix has already been consumed and encoded in
// flags. Unterminated literals report an error and still yield a
// best-effort token over the text seen so far.
func (l *Lexer) scanString(start position.Position, flags StringFlags) Token {
	quote := l.ch
	triple := l.peek(1) == quote && l.peek(2) == quote
	l.advance()
	if triple {
		l.advance()
		l.advance()
	}

	bodyStart := l.here()
	bodyStartOffset := l.pos
	terminated := false

scan:
	for !l.atEnd() {
		switch {
		case l.ch == '\\':
			// A backslash shields the next character from quote and
			// newline handling, in raw strings too.
			l.advance()
			if !l.atEnd() {
				l.advance()
			}

		case !triple && (l.ch == '\n' || l.ch == '\r'):
			break scan

		case l.ch == quote:
			if !triple {
				terminated = true
				l.advance()
				break scan
			}
			if l.peek(1) == quote && l.peek(2) == quote {
				terminated = true
				l.advance()
				l.advance()
				l.advance()
				break scan
			}
			l.advance()

		default:
			l.advance()
		}
	}

	bodyEndOffset := l.pos
	if terminated {
		if triple {
			bodyEndOffset -= 3
		} else {
			bodyEndOffset--
		}
	}
	body := l.input[bodyStartOffset:bodyEndOffset]

	if !terminated {
		msg := "unterminated string literal"
		if triple {
			msg = "unterminated triple-quoted string literal"
		}
		l.addErrorWithSuggestion(UnterminatedString, start.Line, start.Column, msg,
			fmt.Sprintf("add a closing %q", string(quote)))
	}

	lexeme := l.input[start.Offset:l.pos]
	span := position.NewSpan(start, l.here())

	switch {
	case flags&FlagFString != 0:
		return Token{
			Type:     TokenFString,
			Lexeme:   lexeme,
			Span:     span,
			Flags:    flags,
			Segments: l.splitFString(body, flags, bodyStart),
		}

	case flags&FlagBytes != 0:
		var data []byte
		if flags&FlagRaw != 0 {
			data = l.rawBytes(body, bodyStart)
		} else {
			data = l.decodeBytes(body, bodyStart)
		}
		return Token{Type: TokenBytes, Lexeme: lexeme, Span: span, Flags: flags, Bytes: data}

	default:
		value := body
		if flags&FlagRaw == 0 {
			value = l.decodeString(body, bodyStart)
		}
		return Token{Type: TokenString, Lexeme: lexeme, Span: span, Flags: flags, Str: value}
	}
}

// decodeString resolves escape sequences in a text string body.
func (l *Lexer) decodeString(body string, at position.Position) string {
	var b strings.Builder
	b.Grow(len(body))
	line, col := at.Line, at.Column
	i := 0
	for i < len(body) {
		if body[i] != '\\' {
			if body[i] == '\n' {
				line++
				col = 1
			} else {
				col++
			}
			b.WriteByte(body[i])
			i++
			continue
		}
		consumed, text := l.decodeEscape(body[i:], line, col, false)
		b.WriteString(text)
		for _, c := range []byte(body[i : i+consumed]) {
			if c == '\n' {
				line++
				col = 1
			} else {
				col++
			}
		}
		i += consumed
	}
	return b.String()
}

// decodeBytes resolves escape sequences in a bytes literal body. Unicode
// escapes are not recognized in bytes, and non-ASCII source characters are
// rejected.
func (l *Lexer) decodeBytes(body string, at position.Position) []byte {
	var out []byte
	line, col := at.Line, at.Column
	i := 0
	for i < len(body) {
		if body[i] != '\\' {
			if body[i] >= 0x80 {
				l.addError(InvalidCharacter, line, col,
					"bytes literal can only contain ASCII characters")
			}
			if body[i] == '\n' {
				line++
				col = 1
			} else {
				col++
			}
			out = append(out, body[i])
			i++
			continue
		}
		consumed, text := l.decodeEscape(body[i:], line, col, true)
		out = append(out, text...)
		for _, c := range []byte(body[i : i+consumed]) {
			if c == '\n' {
				line++
				col = 1
			} else {
				col++
			}
		}
		i += consumed
	}
	return out
}

// rawBytes checks a raw bytes body for non-ASCII characters and returns it
// unchanged otherwise.
func (l *Lexer) rawBytes(body string, at position.Position) []byte {
	line, col := at.Line, at.Column
	for i := 0; i < len(body); i++ {
		if body[i] >= 0x80 {
			l.addError(InvalidCharacter, line, col,
				"bytes literal can only contain ASCII characters")
		}
		if body[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return []byte(body)
}

// decodeEscape resolves one escape sequence. s starts at the backslash;
// line and column locate that backslash for error reports. It returns the
// number of source bytes consumed and the decoded text. Unrecognized
// escapes report an error and pass through verbatim.
func (l *Lexer) decodeEscape(s string, line, col int, bytesMode bool) (int, string) {
	if len(s) < 2 {
		l.addError(InvalidEscape, line, col, "trailing backslash in literal")
		return 1, "\\"
	}

	switch s[1] {
	case '\n':
		return 2, "" // escaped newline joins lines
	case '\r':
		if len(s) > 2 && s[2] == '\n' {
			return 3, ""
		}
		return 2, ""
	case '\\':
		return 2, "\\"
	case '\'':
		return 2, "'"
	case '"':
		return 2, "\""
	case 'n':
		return 2, "\n"
	case 't':
		return 2, "\t"
	case 'r':
		return 2, "\r"
	case 'a':
		return 2, "\a"
	case 'b':
		return 2, "\b"
	case 'f':
		return 2, "\f"
	case 'v':
		return 2, "\v"

	case '0', '1', '2', '3', '4', '5', '6', '7':
		value := 0
		n := 1
		for n < 4 && n < len(s) && '0' <= s[n] && s[n] <= '7' {
			value = value*8 + int(s[n]-'0')
			n++
		}
		if bytesMode || value < 0x80 {
			return n, string([]byte{byte(value)})
		}
		return n, string(rune(value))

	case 'x':
		if len(s) < 4 || !isHexDigit(s[2]) || !isHexDigit(s[3]) {
			l.addErrorWithSuggestion(InvalidEscape, line, col,
				"\\x escape requires exactly two hex digits", "write it as \\xHH")
			return 2, s[:2]
		}
		value := hexValue(s[2])<<4 | hexValue(s[3])
		if bytesMode || value < 0x80 {
			return 4, string([]byte{byte(value)})
		}
		return 4, string(rune(value))

	case 'u', 'U':
		if bytesMode {
			l.addError(InvalidEscape, line, col,
				fmt.Sprintf("\\%c escape is not allowed in bytes literals", s[1]))
			return 2, s[:2]
		}
		digits := 4
		if s[1] == 'U' {
			digits = 8
		}
		if len(s) < 2+digits {
			l.addError(InvalidEscape, line, col,
				fmt.Sprintf("\\%c escape requires %d hex digits", s[1], digits))
			return 2, s[:2]
		}
		value := 0
		for k := 0; k < digits; k++ {
			c := s[2+k]
			if !isHexDigit(c) {
				l.addError(InvalidEscape, line, col,
					fmt.Sprintf("\\%c escape requires %d hex digits", s[1], digits))
				return 2, s[:2]
			}
			value = value<<4 | hexValue(c)
		}
		if value > unicode.MaxRune || (0xD800 <= value && value <= 0xDFFF) {
			l.addError(InvalidEscape, line, col,
				fmt.Sprintf("\\%c escape is not a valid Unicode code point", s[1]))
			return 2 + digits, s[:2+digits]
		}
		return 2 + digits, string(rune(value))

	case 'N':
		if bytesMode {
			l.addError(InvalidEscape, line, col,
				"\\N escape is not allowed in bytes literals")
			return 2, s[:2]
		}
		if len(s) < 3 || s[2] != '{' {
			l.addErrorWithSuggestion(InvalidEscape, line, col,
				"malformed \\N escape", "write it as \\N{NAME}")
			return 2, s[:2]
		}
		end := strings.IndexByte(s[3:], '}')
		if end < 0 {
			l.addErrorWithSuggestion(InvalidEscape, line, col,
				"malformed \\N escape", "write it as \\N{NAME}")
			return 2, s[:2]
		}
		name := s[3 : 3+end]
		consumed := 3 + end + 1
		r, ok := lookupUnicodeName(name)
		if !ok {
			l.addError(InvalidEscape, line, col,
				fmt.Sprintf("unknown Unicode character name %q", name))
			return consumed, s[:consumed]
		}
		return consumed, string(r)
	}

	l.addError(InvalidEscape, line, col,
		fmt.Sprintf("invalid escape sequence '\\%c'", s[1]))
	return 2, s[:2]
}

func hexValue(ch byte) int {
	switch {
	case '0' <= ch && ch <= '9':
		return int(ch - '0')
	case 'a' <= ch && ch <= 'f':
		return int(ch-'a') + 10
	default:
		return int(ch-'A') + 10
	}
}

var (
	unicodeNamesOnce sync.Once
	unicodeNames     map[string]rune
)

// lookupUnicodeName resolves an official Unicode character name, as used by
// \N{NAME} escapes. The reverse index over the runenames tables is built
// once on first use.
func lookupUnicodeName(name string) (rune, bool) {
	unicodeNamesOnce.Do(func() {
		unicodeNames = make(map[string]rune, 1<<15)
		for r := rune(0); r <= unicode.MaxRune; r++ {
			if 0xD800 <= r && r <= 0xDFFF {
				continue
			}
			n := runenames.Name(r)
			if n == "" || n[0] == '<' {
				continue
			}
			unicodeNames[n] = r
		}
	})
	r, ok := unicodeNames[strings.ToUpper(name)]
	return r, ok
}
