package parser

import (
	"github.com/Hayden-Liles/Cheetah/internal/ast"
	"github.com/Hayden-Liles/Cheetah/internal/lexer"
)

// parsePatterns parses the patterns of one case clause. A top-level comma
// makes an open sequence pattern: case 1, 2: matches a pair.
func (p *Parser) parsePatterns() ast.Pattern {
	first := p.parsePatternOrStar()
	if !p.at(lexer.TokenComma) {
		return first
	}
	patterns := []ast.Pattern{first}
	end := first.GetSpan()
	for p.accept(lexer.TokenComma) {
		if p.at(lexer.TokenColon) || p.at(lexer.TokenIf) {
			break // trailing comma
		}
		pat := p.parsePatternOrStar()
		patterns = append(patterns, pat)
		end = pat.GetSpan()
	}
	seq := &ast.MatchSequence{Span: span(first.GetSpan(), end), Patterns: patterns}
	p.checkSequenceStars(seq)
	return seq
}

func (p *Parser) parsePatternOrStar() ast.Pattern {
	if p.at(lexer.TokenStar) {
		return p.parseStarPattern()
	}
	return p.parsePattern()
}

func (p *Parser) parseStarPattern() ast.Pattern {
	tok := p.advance()
	ident, ok := p.expect(lexer.TokenIdentifier)
	if !ok {
		return &ast.MatchStar{Span: tok.Span}
	}
	star := &ast.MatchStar{Span: span(tok.Span, ident.Span)}
	if ident.Lexeme != "_" {
		star.Name = ident.Lexeme
	}
	return star
}

// parsePattern parses or-alternatives and an optional as-capture.
func (p *Parser) parsePattern() ast.Pattern {
	first := p.parseClosedPattern()
	pat := first
	if p.at(lexer.TokenPipe) {
		alternatives := []ast.Pattern{first}
		end := first.GetSpan()
		for p.accept(lexer.TokenPipe) {
			alt := p.parseClosedPattern()
			alternatives = append(alternatives, alt)
			end = alt.GetSpan()
		}
		pat = &ast.MatchOr{Span: span(first.GetSpan(), end), Patterns: alternatives}
	}

	if p.accept(lexer.TokenAs) {
		ident, ok := p.expect(lexer.TokenIdentifier)
		if !ok {
			return pat
		}
		if ident.Lexeme == "_" {
			p.addError(InvalidSyntax, ident, "cannot use '_' as a capture name")
		}
		return &ast.MatchAs{
			Span:    span(pat.GetSpan(), ident.Span),
			Pattern: pat,
			Name:    ident.Lexeme,
		}
	}
	return pat
}

func (p *Parser) parseClosedPattern() ast.Pattern {
	tok := p.cur()
	switch tok.Type {
	case lexer.TokenMinus, lexer.TokenInt, lexer.TokenFloat, lexer.TokenImag:
		value := p.parseLiteralNumber()
		return &ast.MatchValue{Span: value.GetSpan(), Value: value}

	case lexer.TokenString, lexer.TokenBytes:
		value := p.parseStrings()
		return &ast.MatchValue{Span: value.GetSpan(), Value: value}

	case lexer.TokenFString:
		p.addError(InvalidSyntax, tok, "patterns may not use f-strings")
		p.advance()
		return &ast.MatchAs{Span: tok.Span}

	case lexer.TokenNone:
		p.advance()
		return &ast.MatchSingleton{Span: tok.Span,
			Value: &ast.Constant{Span: tok.Span, Kind: ast.ConstNone}}

	case lexer.TokenTrue, lexer.TokenFalse:
		p.advance()
		return &ast.MatchSingleton{Span: tok.Span,
			Value: &ast.Constant{Span: tok.Span, Kind: ast.ConstBool, Bool: tok.Type == lexer.TokenTrue}}

	case lexer.TokenIdentifier:
		return p.parseNamePattern()

	case lexer.TokenLParen:
		return p.parseGroupPattern()

	case lexer.TokenLBracket:
		return p.parseSequencePattern()

	case lexer.TokenLBrace:
		return p.parseMappingPattern()

	default:
		p.errorExpected("pattern")
		switch tok.Type {
		case lexer.TokenNewline, lexer.TokenDedent, lexer.TokenEOF, lexer.TokenColon:
		default:
			p.advance()
		}
		return &ast.MatchAs{Span: tok.Span}
	}
}

// parseLiteralNumber parses the number forms legal in patterns: an
// optionally negated real part with an optional imaginary tail.
func (p *Parser) parseLiteralNumber() ast.Expression {
	start := p.cur().Span
	negated := p.accept(lexer.TokenMinus)

	tok := p.cur()
	var value ast.Expression
	switch tok.Type {
	case lexer.TokenInt:
		p.advance()
		value = &ast.Constant{Span: tok.Span, Kind: ast.ConstInt, Int: tok.Int}
	case lexer.TokenFloat:
		p.advance()
		value = &ast.Constant{Span: tok.Span, Kind: ast.ConstFloat, Float: tok.Float}
	case lexer.TokenImag:
		p.advance()
		value = &ast.Constant{Span: tok.Span, Kind: ast.ConstImag, Float: tok.Float}
	default:
		p.errorExpected("number literal")
		return p.badExpr(tok)
	}
	if negated {
		value = &ast.UnaryOp{Span: span(start, value.GetSpan()), Op: ast.USub, Operand: value}
	}

	// Complex literals appear in patterns as real +/- imaginary sums.
	if p.at(lexer.TokenPlus) || p.at(lexer.TokenMinus) {
		if p.peek(1).Type == lexer.TokenImag {
			op := ast.Add
			if p.cur().Type == lexer.TokenMinus {
				op = ast.Sub
			}
			p.advance()
			imag := p.advance()
			value = &ast.BinOp{
				Span: span(start, imag.Span),
				Left: value,
				Op:   op,
				Right: &ast.Constant{
					Span: imag.Span, Kind: ast.ConstImag, Float: imag.Float,
				},
			}
		}
	}
	return value
}

// parseNamePattern handles the identifier-led forms: the wildcard, a
// capture, a dotted value pattern, and class patterns.
func (p *Parser) parseNamePattern() ast.Pattern {
	ident := p.advance()

	if ident.Lexeme == "_" && !p.at(lexer.TokenDot) && !p.at(lexer.TokenLParen) {
		return &ast.MatchAs{Span: ident.Span}
	}

	var value ast.Expression = &ast.Name{Span: ident.Span, ID: ident.Lexeme}
	dotted := false
	for p.at(lexer.TokenDot) && p.peek(1).Type == lexer.TokenIdentifier {
		p.advance()
		attr := p.advance()
		value = &ast.Attribute{Span: span(ident.Span, attr.Span), Value: value, Attr: attr.Lexeme}
		dotted = true
	}

	if p.at(lexer.TokenLParen) {
		return p.parseClassPattern(value)
	}
	if dotted {
		return &ast.MatchValue{Span: value.GetSpan(), Value: value}
	}
	return &ast.MatchAs{Span: ident.Span, Name: ident.Lexeme}
}

func (p *Parser) parseClassPattern(cls ast.Expression) ast.Pattern {
	p.advance() // (
	pat := &ast.MatchClass{Cls: cls}
	sawKeyword := false

	for !p.at(lexer.TokenRParen) && !p.atLineEnd() {
		if p.at(lexer.TokenComma) {
			p.addError(InvalidSyntax, p.cur(), "doubled comma in class pattern")
			p.advance()
			continue
		}
		if p.at(lexer.TokenIdentifier) && p.peek(1).Type == lexer.TokenAssign {
			name := p.advance()
			p.advance() // =
			pat.KwdNames = append(pat.KwdNames, name.Lexeme)
			pat.KwdPatterns = append(pat.KwdPatterns, p.parsePattern())
			sawKeyword = true
		} else {
			sub := p.parsePatternOrStar()
			if sawKeyword {
				p.addErrorAt(InvalidSyntax, sub.GetSpan(),
					"positional pattern follows keyword pattern")
			}
			pat.Patterns = append(pat.Patterns, sub)
		}
		if !p.accept(lexer.TokenComma) {
			break
		}
	}

	rparen, ok := p.expect(lexer.TokenRParen)
	end := rparen.Span
	if !ok {
		end = cls.GetSpan()
	}
	pat.Span = span(cls.GetSpan(), end)
	return pat
}

// parseGroupPattern parses "(pattern)" grouping and "(p1, p2)" sequences.
func (p *Parser) parseGroupPattern() ast.Pattern {
	lparen := p.advance()

	if p.at(lexer.TokenRParen) {
		rparen := p.advance()
		return &ast.MatchSequence{Span: span(lparen.Span, rparen.Span)}
	}

	first := p.parsePatternOrStar()
	if !p.at(lexer.TokenComma) {
		p.expect(lexer.TokenRParen)
		return first
	}

	patterns := []ast.Pattern{first}
	for p.accept(lexer.TokenComma) {
		if p.at(lexer.TokenRParen) {
			break // trailing comma
		}
		patterns = append(patterns, p.parsePatternOrStar())
	}
	rparen, ok := p.expect(lexer.TokenRParen)
	end := rparen.Span
	if !ok {
		end = patterns[len(patterns)-1].GetSpan()
	}
	seq := &ast.MatchSequence{Span: span(lparen.Span, end), Patterns: patterns}
	p.checkSequenceStars(seq)
	return seq
}

func (p *Parser) parseSequencePattern() ast.Pattern {
	lbracket := p.advance()
	seq := &ast.MatchSequence{}

	for !p.at(lexer.TokenRBracket) && !p.atLineEnd() {
		if p.at(lexer.TokenComma) {
			p.addError(InvalidSyntax, p.cur(), "doubled comma in sequence pattern")
			p.advance()
			continue
		}
		seq.Patterns = append(seq.Patterns, p.parsePatternOrStar())
		if !p.accept(lexer.TokenComma) {
			break
		}
	}

	rbracket, ok := p.expect(lexer.TokenRBracket)
	end := rbracket.Span
	if !ok {
		end = lbracket.Span
	}
	seq.Span = span(lbracket.Span, end)
	p.checkSequenceStars(seq)
	return seq
}

func (p *Parser) checkSequenceStars(seq *ast.MatchSequence) {
	stars := 0
	for _, pat := range seq.Patterns {
		if _, ok := pat.(*ast.MatchStar); ok {
			stars++
		}
	}
	if stars > 1 {
		p.addErrorAt(InvalidSyntax, seq.Span,
			"multiple starred subpatterns in sequence pattern")
	}
}

func (p *Parser) parseMappingPattern() ast.Pattern {
	lbrace := p.advance()
	pat := &ast.MatchMapping{}

	for !p.at(lexer.TokenRBrace) && !p.atLineEnd() {
		if p.at(lexer.TokenComma) {
			p.addError(InvalidSyntax, p.cur(), "doubled comma in mapping pattern")
			p.advance()
			continue
		}
		if p.accept(lexer.TokenDoubleStar) {
			ident, ok := p.expect(lexer.TokenIdentifier)
			if !ok {
				break
			}
			if pat.Rest != "" {
				p.addError(InvalidSyntax, ident, "only one **rest capture is allowed")
			}
			pat.Rest = ident.Lexeme
		} else {
			key := p.parseMappingKey()
			if _, ok := p.expect(lexer.TokenColon); !ok {
				break
			}
			pat.Keys = append(pat.Keys, key)
			pat.Patterns = append(pat.Patterns, p.parsePattern())
		}
		if !p.accept(lexer.TokenComma) {
			break
		}
	}

	rbrace, ok := p.expect(lexer.TokenRBrace)
	end := rbrace.Span
	if !ok {
		end = lbrace.Span
	}
	pat.Span = span(lbrace.Span, end)
	return pat
}

// parseMappingKey parses the keys legal in mapping patterns: literals and
// dotted names.
func (p *Parser) parseMappingKey() ast.Expression {
	tok := p.cur()
	switch tok.Type {
	case lexer.TokenMinus, lexer.TokenInt, lexer.TokenFloat, lexer.TokenImag:
		return p.parseLiteralNumber()
	case lexer.TokenString, lexer.TokenBytes:
		return p.parseStrings()
	case lexer.TokenNone:
		p.advance()
		return &ast.Constant{Span: tok.Span, Kind: ast.ConstNone}
	case lexer.TokenTrue, lexer.TokenFalse:
		p.advance()
		return &ast.Constant{Span: tok.Span, Kind: ast.ConstBool, Bool: tok.Type == lexer.TokenTrue}
	case lexer.TokenIdentifier:
		var value ast.Expression = &ast.Name{Span: tok.Span, ID: tok.Lexeme}
		p.advance()
		for p.at(lexer.TokenDot) && p.peek(1).Type == lexer.TokenIdentifier {
			p.advance()
			attr := p.advance()
			value = &ast.Attribute{Span: span(tok.Span, attr.Span), Value: value, Attr: attr.Lexeme}
		}
		if _, isName := value.(*ast.Name); isName {
			p.addError(InvalidSyntax, tok, "mapping pattern keys must be literals or dotted names")
		}
		return value
	default:
		p.errorExpected("mapping pattern key")
		if !p.atLineEnd() {
			p.advance()
		}
		return p.badExpr(tok)
	}
}
