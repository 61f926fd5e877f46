// Package parser turns Cheetah token streams into abstract syntax trees by
// recursive descent, one function per grammar rule. Errors accumulate; on a
// malformed statement the parser records an error, skips to the next
// statement boundary, and keeps going, so one run reports every independent
// problem in the file.
package parser

import (
	"fmt"

	"github.com/Hayden-Liles/Cheetah/internal/ast"
	"github.com/Hayden-Liles/Cheetah/internal/lexer"
	"github.com/Hayden-Liles/Cheetah/internal/position"
)

// Parser walks a token slice produced by the lexer. The slice always ends
// with an EOF token, so lookahead never runs off the end.
type Parser struct {
	tokens []lexer.Token
	pos    int
	errors []Error
}

// Parse builds a module from a token stream. When any error is recorded the
// module is nil: a partial tree is never handed to later phases.
func Parse(tokens []lexer.Token) (*ast.Module, []Error) {
	if len(tokens) == 0 {
		return &ast.Module{}, nil
	}
	return parseWithErrors(tokens)
}

// ParseSource lexes and parses in one step. Lexical errors are folded into
// the parse error list, ordered before the parse errors they likely caused.
func ParseSource(src, filename string) (*ast.Module, []Error) {
	l := lexer.New(src, filename)
	tokens := l.Tokenize()

	var errs []Error
	seen := make(map[Error]bool)
	for _, le := range l.Errors() {
		e := fromLexError(le)
		errs = append(errs, e)
		seen[e] = true
	}

	// Error tokens re-surface their lexer message when the parser reaches
	// them; keep only the original report.
	module, parseErrs := parseWithErrors(tokens)
	for _, pe := range parseErrs {
		if !seen[pe] {
			errs = append(errs, pe)
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return module, nil
}

func parseWithErrors(tokens []lexer.Token) (*ast.Module, []Error) {
	p := &Parser{tokens: tokens}
	module := p.parseModule()
	if len(p.errors) > 0 {
		return nil, p.errors
	}
	return module, nil
}

func (p *Parser) parseModule() *ast.Module {
	module := &ast.Module{}
	for !p.at(lexer.TokenEOF) {
		if p.accept(lexer.TokenNewline) || p.accept(lexer.TokenIndent) || p.accept(lexer.TokenDedent) {
			// Stray block tokens after a recovery skip are dropped here so
			// one bad statement cannot poison its siblings.
			continue
		}
		module.Body = append(module.Body, p.parseStatementLine()...)
	}
	if len(module.Body) > 0 {
		module.Span = position.NewSpan(
			module.Body[0].GetSpan().Start,
			module.Body[len(module.Body)-1].GetSpan().End)
	}
	return module
}

// cur returns the token under the cursor.
func (p *Parser) cur() lexer.Token { return p.tokens[p.pos] }

// peek returns the token n positions ahead, clamped to the trailing EOF.
func (p *Parser) peek(n int) lexer.Token {
	if p.pos+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+n]
}

func (p *Parser) at(tt lexer.TokenType) bool { return p.cur().Type == tt }

// advance consumes and returns the current token, never moving past EOF.
func (p *Parser) advance() lexer.Token {
	tok := p.tokens[p.pos]
	if tok.Type != lexer.TokenEOF {
		p.pos++
	}
	return tok
}

// accept consumes the current token when it has the given type.
func (p *Parser) accept(tt lexer.TokenType) bool {
	if p.at(tt) {
		p.advance()
		return true
	}
	return false
}

// expect consumes a token of the given type or records an error. The
// boolean result tells the caller whether to bail out of the construct.
func (p *Parser) expect(tt lexer.TokenType) (lexer.Token, bool) {
	if p.at(tt) {
		return p.advance(), true
	}
	p.errorExpected(tt.String())
	return p.cur(), false
}

// errorExpected records an UnexpectedToken (or EOF) error at the cursor.
func (p *Parser) errorExpected(what string) {
	tok := p.cur()
	if tok.Type == lexer.TokenEOF {
		p.addError(EOF, tok, fmt.Sprintf("unexpected end of input, expected %s", what))
		return
	}
	p.addError(UnexpectedToken, tok,
		fmt.Sprintf("expected %s, found %s", what, describe(tok)))
}

func (p *Parser) addError(kind ErrorKind, tok lexer.Token, message string) {
	p.errors = append(p.errors, Error{
		Kind:    kind,
		Message: message,
		Line:    tok.Span.Start.Line,
		Column:  tok.Span.Start.Column,
	})
}

func (p *Parser) addErrorAt(kind ErrorKind, span position.Span, message string) {
	p.errors = append(p.errors, Error{
		Kind:    kind,
		Message: message,
		Line:    span.Start.Line,
		Column:  span.Start.Column,
	})
}

// describe names a token for error messages.
func describe(tok lexer.Token) string {
	switch tok.Type {
	case lexer.TokenNewline:
		return "end of line"
	case lexer.TokenIndent:
		return "indent"
	case lexer.TokenDedent:
		return "dedent"
	case lexer.TokenEOF:
		return "end of input"
	default:
		return fmt.Sprintf("%q", tok.Lexeme)
	}
}

// synchronize skips to the next statement boundary after an error: past the
// next NEWLINE, or to a DEDENT/EOF left for the block parser to consume.
func (p *Parser) synchronize() {
	for {
		switch p.cur().Type {
		case lexer.TokenNewline:
			p.advance()
			return
		case lexer.TokenDedent, lexer.TokenEOF:
			return
		default:
			p.advance()
		}
	}
}

// span joins the extents of a start and end token or node position.
func span(start, end position.Span) position.Span {
	return position.NewSpan(start.Start, end.End)
}
