package parser

import (
	"github.com/Hayden-Liles/Cheetah/internal/ast"
	"github.com/Hayden-Liles/Cheetah/internal/lexer"
	"github.com/Hayden-Liles/Cheetah/internal/position"
)

// parseAtom parses the leaves of the expression grammar: names, literals,
// and the three bracketed display forms.
func (p *Parser) parseAtom() ast.Expression {
	tok := p.cur()
	switch tok.Type {
	case lexer.TokenIdentifier:
		p.advance()
		return &ast.Name{Span: tok.Span, ID: tok.Lexeme}

	case lexer.TokenInt:
		p.advance()
		return &ast.Constant{Span: tok.Span, Kind: ast.ConstInt, Int: tok.Int}

	case lexer.TokenFloat:
		p.advance()
		return &ast.Constant{Span: tok.Span, Kind: ast.ConstFloat, Float: tok.Float}

	case lexer.TokenImag:
		p.advance()
		return &ast.Constant{Span: tok.Span, Kind: ast.ConstImag, Float: tok.Float}

	case lexer.TokenTrue, lexer.TokenFalse:
		p.advance()
		return &ast.Constant{Span: tok.Span, Kind: ast.ConstBool, Bool: tok.Type == lexer.TokenTrue}

	case lexer.TokenNone:
		p.advance()
		return &ast.Constant{Span: tok.Span, Kind: ast.ConstNone}

	case lexer.TokenEllipsis:
		p.advance()
		return &ast.Constant{Span: tok.Span, Kind: ast.ConstEllipsis}

	case lexer.TokenString, lexer.TokenBytes, lexer.TokenFString:
		return p.parseStrings()

	case lexer.TokenLParen:
		return p.parseParenAtom()

	case lexer.TokenLBracket:
		return p.parseListAtom()

	case lexer.TokenLBrace:
		return p.parseBraceAtom()

	case lexer.TokenError:
		p.advance()
		p.addError(InvalidSyntax, tok, tok.Str)
		return p.badExpr(tok)

	default:
		p.errorExpected("expression")
		switch tok.Type {
		case lexer.TokenNewline, lexer.TokenDedent, lexer.TokenEOF:
			// Leave the boundary token for the statement parser.
		default:
			p.advance()
		}
		return p.badExpr(tok)
	}
}

// parseStrings parses a run of adjacent string-family literals, which
// concatenate into one value. Any f-string in the run turns the whole run
// into a JoinedStr; bytes do not mix with text.
func (p *Parser) parseStrings() ast.Expression {
	var toks []lexer.Token
	hasStr, hasBytes, hasF := false, false, false
	for {
		switch p.cur().Type {
		case lexer.TokenString:
			hasStr = true
		case lexer.TokenBytes:
			hasBytes = true
		case lexer.TokenFString:
			hasF = true
		default:
			goto done
		}
		toks = append(toks, p.advance())
	}
done:
	full := span(toks[0].Span, toks[len(toks)-1].Span)

	if hasBytes {
		if hasStr || hasF {
			p.addErrorAt(InvalidSyntax, full, "cannot mix bytes and string literals")
			return p.badExpr(toks[0])
		}
		var data []byte
		for _, t := range toks {
			data = append(data, t.Bytes...)
		}
		return &ast.Constant{Span: full, Kind: ast.ConstBytes, Bytes: data}
	}

	if !hasF {
		var text string
		for _, t := range toks {
			text += t.Str
		}
		return &ast.Constant{Span: full, Kind: ast.ConstStr, Str: text}
	}

	js := &ast.JoinedStr{Span: full}
	for _, t := range toks {
		if t.Type == lexer.TokenString {
			js.Parts = append(js.Parts, &ast.Constant{Span: t.Span, Kind: ast.ConstStr, Str: t.Str})
			continue
		}
		js.Parts = append(js.Parts, p.fstringParts(t)...)
	}
	return js
}

// fstringParts turns the lexer's f-string segments into JoinedStr parts,
// re-entering the expression grammar for each embedded expression.
func (p *Parser) fstringParts(tok lexer.Token) []ast.Expression {
	var parts []ast.Expression
	for _, seg := range tok.Segments {
		segPos := position.Position{
			Filename: tok.Span.Start.Filename,
			Line:     seg.Line,
			Column:   seg.Column,
		}
		segSpan := position.NewSpan(segPos, segPos)

		if !seg.IsExpr {
			parts = append(parts, &ast.Constant{Span: segSpan, Kind: ast.ConstStr, Str: seg.Text})
			continue
		}

		if seg.SelfDoc {
			// The self-documenting form renders the source text and '='
			// before the value.
			parts = append(parts, &ast.Constant{Span: segSpan, Kind: ast.ConstStr, Str: seg.Text + "="})
		}

		value := p.parseFStringValue(seg, tok.Span.Start.Filename)
		conversion := seg.Conversion
		if seg.SelfDoc && conversion == 0 && seg.FormatSpec == "" {
			conversion = 'r'
		}
		parts = append(parts, &ast.FormattedValue{
			Span:       segSpan,
			Value:      value,
			Conversion: conversion,
			FormatSpec: seg.FormatSpec,
		})
	}
	return parts
}

// parseFStringValue parses one embedded expression source. The segment is
// lexed in nested mode, since its text behaves like bracketed source: it
// may carry surrounding whitespace and, in triple-quoted f-strings,
// embedded newlines, neither of which affects indentation. Errors from the
// sub-parse are relocated to the segment's position in the enclosing file.
func (p *Parser) parseFStringValue(seg lexer.FStringSegment, filename string) ast.Expression {
	l := lexer.NewNested(seg.Text, filename)
	tokens := l.Tokenize()
	for _, le := range l.Errors() {
		p.errors = append(p.errors, relocate(fromLexError(le), seg))
	}

	sub := &Parser{tokens: tokens}
	value := sub.parseTestList(false)
	if !sub.at(lexer.TokenNewline) && !sub.at(lexer.TokenEOF) {
		sub.errorExpected("end of f-string expression")
	}
	for _, pe := range sub.errors {
		p.errors = append(p.errors, relocate(pe, seg))
	}
	return value
}

// relocate shifts an error from segment-relative to file coordinates.
func relocate(err Error, seg lexer.FStringSegment) Error {
	if err.Line == 1 {
		err.Column += seg.Column - 1
	}
	err.Line += seg.Line - 1
	return err
}

// parseParenElement parses one element of a parenthesized, list, or set
// display: a starred expression or a walrus-capable expression.
func (p *Parser) parseParenElement() ast.Expression {
	if p.at(lexer.TokenStar) {
		tok := p.advance()
		value := p.parseOrTest()
		return &ast.Starred{Span: span(tok.Span, value.GetSpan()), Value: value}
	}
	return p.parseNamedExpr()
}

// parseParenAtom parses everything that starts with '(': the empty tuple,
// parenthesized yields, grouping, tuples, and generator expressions.
func (p *Parser) parseParenAtom() ast.Expression {
	lparen := p.advance()

	if p.at(lexer.TokenRParen) {
		rparen := p.advance()
		return &ast.Tuple{Span: span(lparen.Span, rparen.Span)}
	}
	if p.at(lexer.TokenYield) {
		y := p.parseYield()
		p.expect(lexer.TokenRParen)
		return y
	}

	first := p.parseParenElement()

	if p.at(lexer.TokenFor) || p.atAsyncFor() {
		if _, ok := first.(*ast.Starred); ok {
			p.addErrorAt(InvalidSyntax, first.GetSpan(),
				"iterable unpacking cannot be used in a comprehension")
		}
		gens := p.parseComprehensions()
		rparen, ok := p.expect(lexer.TokenRParen)
		end := rparen.Span
		if !ok {
			end = first.GetSpan()
		}
		return &ast.GeneratorExp{
			Span:       span(lparen.Span, end),
			Elt:        first,
			Generators: gens,
		}
	}

	if p.at(lexer.TokenComma) {
		elts := []ast.Expression{first}
		for p.accept(lexer.TokenComma) {
			if p.at(lexer.TokenRParen) {
				break // trailing comma
			}
			if p.at(lexer.TokenComma) {
				p.addError(InvalidSyntax, p.cur(), "doubled comma")
				p.advance()
				continue
			}
			elts = append(elts, p.parseParenElement())
		}
		rparen, ok := p.expect(lexer.TokenRParen)
		end := rparen.Span
		if !ok {
			end = elts[len(elts)-1].GetSpan()
		}
		return &ast.Tuple{Span: span(lparen.Span, end), Elts: elts}
	}

	if _, ok := first.(*ast.Starred); ok {
		p.addErrorAt(InvalidSyntax, first.GetSpan(),
			"starred expression must be part of a list or tuple")
	}
	p.expect(lexer.TokenRParen)
	return first
}

// parseListAtom parses list displays and list comprehensions.
func (p *Parser) parseListAtom() ast.Expression {
	lbracket := p.advance()

	if p.at(lexer.TokenRBracket) {
		rbracket := p.advance()
		return &ast.List{Span: span(lbracket.Span, rbracket.Span)}
	}

	first := p.parseParenElement()

	if p.at(lexer.TokenFor) || p.atAsyncFor() {
		if _, ok := first.(*ast.Starred); ok {
			p.addErrorAt(InvalidSyntax, first.GetSpan(),
				"iterable unpacking cannot be used in a comprehension")
		}
		gens := p.parseComprehensions()
		rbracket, ok := p.expect(lexer.TokenRBracket)
		end := rbracket.Span
		if !ok {
			end = first.GetSpan()
		}
		return &ast.ListComp{
			Span:       span(lbracket.Span, end),
			Elt:        first,
			Generators: gens,
		}
	}

	elts := []ast.Expression{first}
	for p.accept(lexer.TokenComma) {
		if p.at(lexer.TokenRBracket) {
			break // trailing comma
		}
		if p.at(lexer.TokenComma) {
			p.addError(InvalidSyntax, p.cur(), "doubled comma")
			p.advance()
			continue
		}
		elts = append(elts, p.parseParenElement())
	}
	rbracket, ok := p.expect(lexer.TokenRBracket)
	end := rbracket.Span
	if !ok {
		end = elts[len(elts)-1].GetSpan()
	}
	return &ast.List{Span: span(lbracket.Span, end), Elts: elts}
}

// parseBraceAtom parses dict and set displays and their comprehensions.
func (p *Parser) parseBraceAtom() ast.Expression {
	lbrace := p.advance()

	if p.at(lexer.TokenRBrace) {
		rbrace := p.advance()
		return &ast.Dict{Span: span(lbrace.Span, rbrace.Span)}
	}

	// A leading ** or a key followed by ':' means a dict; anything else is
	// a set.
	if p.at(lexer.TokenDoubleStar) {
		return p.parseDictBody(lbrace, nil, nil)
	}

	if p.at(lexer.TokenStar) {
		return p.parseSetBody(lbrace, p.parseParenElement())
	}

	first := p.parseNamedExpr()
	if !p.accept(lexer.TokenColon) {
		return p.parseSetBody(lbrace, first)
	}
	value := p.parseExpr()

	if p.at(lexer.TokenFor) || p.atAsyncFor() {
		gens := p.parseComprehensions()
		rbrace, ok := p.expect(lexer.TokenRBrace)
		end := rbrace.Span
		if !ok {
			end = value.GetSpan()
		}
		return &ast.DictComp{
			Span:       span(lbrace.Span, end),
			Key:        first,
			Value:      value,
			Generators: gens,
		}
	}
	return p.parseDictBody(lbrace, first, value)
}

// parseDictBody parses the remaining items of a dict display. firstKey may
// be nil when the display opens with a ** expansion.
func (p *Parser) parseDictBody(lbrace lexer.Token, firstKey, firstValue ast.Expression) ast.Expression {
	dict := &ast.Dict{}
	if firstValue != nil {
		dict.Keys = append(dict.Keys, firstKey)
		dict.Values = append(dict.Values, firstValue)
	} else {
		p.advance() // **
		dict.Keys = append(dict.Keys, nil)
		dict.Values = append(dict.Values, p.parseOrTest())
	}

	for p.accept(lexer.TokenComma) {
		if p.at(lexer.TokenRBrace) {
			break // trailing comma
		}
		if p.at(lexer.TokenComma) {
			p.addError(InvalidSyntax, p.cur(), "doubled comma")
			p.advance()
			continue
		}
		if p.accept(lexer.TokenDoubleStar) {
			dict.Keys = append(dict.Keys, nil)
			dict.Values = append(dict.Values, p.parseOrTest())
			continue
		}
		key := p.parseExpr()
		if _, ok := p.expect(lexer.TokenColon); !ok {
			break
		}
		dict.Keys = append(dict.Keys, key)
		dict.Values = append(dict.Values, p.parseExpr())
	}

	rbrace, ok := p.expect(lexer.TokenRBrace)
	end := rbrace.Span
	if !ok {
		end = dict.Values[len(dict.Values)-1].GetSpan()
	}
	dict.Span = span(lbrace.Span, end)
	return dict
}

// parseSetBody parses the remaining elements of a set display or a set
// comprehension whose first element has already been read.
func (p *Parser) parseSetBody(lbrace lexer.Token, first ast.Expression) ast.Expression {
	if p.at(lexer.TokenFor) || p.atAsyncFor() {
		if _, ok := first.(*ast.Starred); ok {
			p.addErrorAt(InvalidSyntax, first.GetSpan(),
				"iterable unpacking cannot be used in a comprehension")
		}
		gens := p.parseComprehensions()
		rbrace, ok := p.expect(lexer.TokenRBrace)
		end := rbrace.Span
		if !ok {
			end = first.GetSpan()
		}
		return &ast.SetComp{
			Span:       span(lbrace.Span, end),
			Elt:        first,
			Generators: gens,
		}
	}

	set := &ast.Set{Elts: []ast.Expression{first}}
	for p.accept(lexer.TokenComma) {
		if p.at(lexer.TokenRBrace) {
			break // trailing comma
		}
		if p.at(lexer.TokenComma) {
			p.addError(InvalidSyntax, p.cur(), "doubled comma")
			p.advance()
			continue
		}
		set.Elts = append(set.Elts, p.parseParenElement())
	}
	rbrace, ok := p.expect(lexer.TokenRBrace)
	end := rbrace.Span
	if !ok {
		end = set.Elts[len(set.Elts)-1].GetSpan()
	}
	set.Span = span(lbrace.Span, end)
	return set
}
