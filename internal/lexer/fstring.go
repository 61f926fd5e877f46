package lexer

import (
	"strings"

	"github.com/Hayden-Liles/Cheetah/internal/position"
)

// splitFString divides an f-string body into literal text and embedded
// expression segments. Literal text is escape-decoded (unless the literal
// is raw); expression sources are kept verbatim for the parser to re-parse.
// Doubled braces are literal braces; a single closing brace outside an
// expression is an error.
func (l *Lexer) splitFString(body string, flags StringFlags, at position.Position) []FStringSegment {
	var segs []FStringSegment
	var lit strings.Builder

	line, col := at.Line, at.Column
	litLine, litCol := line, col
	i := 0

	// step advances over n source bytes, keeping line and column current.
	step := func(n int) {
		for k := 0; k < n; k++ {
			if body[i+k] == '\n' {
				line++
				col = 1
			} else {
				col++
			}
		}
		i += n
	}
	flushLiteral := func() {
		if lit.Len() > 0 {
			segs = append(segs, FStringSegment{
				Text: lit.String(), Line: litLine, Column: litCol,
			})
			lit.Reset()
		}
		litLine, litCol = line, col
	}

	for i < len(body) {
		switch c := body[i]; {
		case c == '{' && i+1 < len(body) && body[i+1] == '{':
			lit.WriteByte('{')
			step(2)

		case c == '}' && i+1 < len(body) && body[i+1] == '}':
			lit.WriteByte('}')
			step(2)

		case c == '}':
			l.addErrorWithSuggestion(InvalidCharacter, line, col,
				"single '}' is not allowed in f-string", "use '}}' for a literal brace")
			step(1)

		case c == '\\' && flags&FlagRaw == 0:
			consumed, text := l.decodeEscape(body[i:], line, col, false)
			lit.WriteString(text)
			step(consumed)

		case c == '{':
			flushLiteral()
			step(1)
			seg, ok := l.scanFStringExpr(body, &i, &line, &col)
			if !ok {
				return segs
			}
			segs = append(segs, seg)
			litLine, litCol = line, col

		default:
			lit.WriteByte(c)
			step(1)
		}
	}

	flushLiteral()
	return segs
}

// scanFStringExpr reads one replacement field after its opening brace: the
// expression source, an optional '=' self-documenting marker, an optional
// !r/!s/!a conversion, and an optional :format spec. On a missing closing
// brace it reports an error and signals the caller to stop.
func (l *Lexer) scanFStringExpr(body string, ip, linep, colp *int) (FStringSegment, bool) {
	i, line, col := *ip, *linep, *colp
	seg := FStringSegment{IsExpr: true, Line: line, Column: col}

	step := func(n int) {
		for k := 0; k < n; k++ {
			if body[i+k] == '\n' {
				line++
				col = 1
			} else {
				col++
			}
		}
		i += n
	}
	fail := func() (FStringSegment, bool) {
		l.addError(UnterminatedString, seg.Line, seg.Column,
			"f-string: expecting '}'")
		*ip, *linep, *colp = len(body), line, col
		return seg, false
	}

	exprStart := i
	depth := 0
expr:
	for {
		if i >= len(body) {
			return fail()
		}
		switch c := body[i]; c {
		case '(', '[', '{':
			depth++
			step(1)
		case ')', ']':
			if depth > 0 {
				depth--
			}
			step(1)
		case '}':
			if depth == 0 {
				break expr
			}
			depth--
			step(1)
		case '\'', '"':
			// Skip over an embedded string literal so its braces and
			// colons do not terminate the field.
			quote := c
			step(1)
			for i < len(body) && body[i] != quote {
				if body[i] == '\\' && i+1 < len(body) {
					step(2)
				} else {
					step(1)
				}
			}
			if i >= len(body) {
				return fail()
			}
			step(1)
		case '!':
			if depth == 0 && i+1 < len(body) && body[i+1] != '=' {
				break expr
			}
			step(1)
			if i < len(body) && body[i] == '=' {
				step(1)
			}
		case ':':
			if depth == 0 && !(i+1 < len(body) && body[i+1] == '=') {
				break expr
			}
			step(1)
		default:
			step(1)
		}
	}

	raw := body[exprStart:i]

	// Trailing '=' turns on the self-documenting form, unless it is the
	// tail of a comparison operator.
	if trimmed := strings.TrimRight(raw, " \t"); strings.HasSuffix(trimmed, "=") &&
		!strings.HasSuffix(trimmed, "==") &&
		!strings.HasSuffix(trimmed, "!=") &&
		!strings.HasSuffix(trimmed, "<=") &&
		!strings.HasSuffix(trimmed, ">=") {
		seg.SelfDoc = true
		raw = trimmed[:len(trimmed)-1]
	}
	seg.Text = raw

	if strings.TrimSpace(raw) == "" {
		l.addError(InvalidCharacter, seg.Line, seg.Column,
			"f-string: empty expression not allowed")
	}

	if i < len(body) && body[i] == '!' {
		if i+1 < len(body) && (body[i+1] == 'r' || body[i+1] == 's' || body[i+1] == 'a') {
			seg.Conversion = body[i+1]
			step(2)
		} else {
			l.addErrorWithSuggestion(InvalidCharacter, line, col,
				"f-string: invalid conversion character", "use one of !r, !s, !a")
			step(1)
		}
	}

	if i < len(body) && body[i] == ':' {
		step(1)
		specStart := i
		depth := 0
		for {
			if i >= len(body) {
				return fail()
			}
			c := body[i]
			if c == '{' {
				depth++
			} else if c == '}' {
				if depth == 0 {
					break
				}
				depth--
			}
			step(1)
		}
		seg.FormatSpec = body[specStart:i]
	}

	if i >= len(body) || body[i] != '}' {
		return fail()
	}
	step(1)

	*ip, *linep, *colp = i, line, col
	return seg, true
}
