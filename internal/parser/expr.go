package parser

import (
	"fmt"

	"github.com/Hayden-Liles/Cheetah/internal/ast"
	"github.com/Hayden-Liles/Cheetah/internal/lexer"
)

// badExpr stands in for an expression that failed to parse. The tree it
// lands in is discarded once errors are reported, so it only has to keep
// the parser moving.
func (p *Parser) badExpr(tok lexer.Token) ast.Expression {
	return &ast.Name{Span: tok.Span, ID: "<error>"}
}

// parseNamedExpr parses an expression with an optional walrus binding. It
// is used where Cheetah allows :=, such as conditions, parenthesized
// expressions, and call arguments.
func (p *Parser) parseNamedExpr() ast.Expression {
	e := p.parseExpr()
	if !p.at(lexer.TokenWalrus) {
		return e
	}
	p.advance()
	target, ok := e.(*ast.Name)
	if !ok {
		p.addErrorAt(InvalidSyntax, e.GetSpan(),
			fmt.Sprintf("cannot use := with %s", describeExpr(e)))
		p.parseExpr()
		return e
	}
	value := p.parseExpr()
	return &ast.NamedExpr{
		Span:   span(target.Span, value.GetSpan()),
		Target: target,
		Value:  value,
	}
}

// parseExpr parses a full expression: a lambda, or an or-test with an
// optional conditional tail.
func (p *Parser) parseExpr() ast.Expression {
	if p.at(lexer.TokenLambda) {
		return p.parseLambda()
	}
	e := p.parseOrTest()
	if !p.at(lexer.TokenIf) {
		return e
	}
	p.advance()
	cond := p.parseOrTest()
	if _, ok := p.expect(lexer.TokenElse); !ok {
		return e
	}
	els := p.parseExpr()
	return &ast.IfExp{
		Span: span(e.GetSpan(), els.GetSpan()),
		Cond: cond,
		Body: e,
		Else: els,
	}
}

func (p *Parser) parseLambda() ast.Expression {
	tok := p.advance()
	params := p.parseParameters(false)
	if _, ok := p.expect(lexer.TokenColon); !ok {
		return p.badExpr(tok)
	}
	body := p.parseExpr()
	return &ast.Lambda{
		Span:   span(tok.Span, body.GetSpan()),
		Params: params,
		Body:   body,
	}
}

func (p *Parser) parseOrTest() ast.Expression {
	e := p.parseAndTest()
	if !p.at(lexer.TokenOr) {
		return e
	}
	values := []ast.Expression{e}
	for p.accept(lexer.TokenOr) {
		values = append(values, p.parseAndTest())
	}
	return &ast.BoolOp{
		Span:   span(e.GetSpan(), values[len(values)-1].GetSpan()),
		Op:     ast.Or,
		Values: values,
	}
}

func (p *Parser) parseAndTest() ast.Expression {
	e := p.parseNotTest()
	if !p.at(lexer.TokenAnd) {
		return e
	}
	values := []ast.Expression{e}
	for p.accept(lexer.TokenAnd) {
		values = append(values, p.parseNotTest())
	}
	return &ast.BoolOp{
		Span:   span(e.GetSpan(), values[len(values)-1].GetSpan()),
		Op:     ast.And,
		Values: values,
	}
}

func (p *Parser) parseNotTest() ast.Expression {
	if p.at(lexer.TokenNot) && p.peek(1).Type != lexer.TokenIn {
		tok := p.advance()
		operand := p.parseNotTest()
		return &ast.UnaryOp{
			Span:    span(tok.Span, operand.GetSpan()),
			Op:      ast.Not,
			Operand: operand,
		}
	}
	return p.parseBinary()
}

// binFrame is one pending operator on the explicit reduction stack.
type binFrame struct {
	isCmp bool
	op    ast.Operator
	cmp   ast.CmpOp
	prec  int
}

// parseBinary parses binary operations and comparisons with an explicit
// operator/operand stack: one loop, no per-operator recursion, so deeply
// chained operators cost stack frames only per atom. Comparison runs fold
// into a single n-ary Compare node.
func (p *Parser) parseBinary() ast.Expression {
	operands := []ast.Expression{p.parseUnary()}
	var ops []binFrame
	chained := make(map[*ast.Compare]bool)

	reduce := func() {
		frame := ops[len(ops)-1]
		ops = ops[:len(ops)-1]
		right := operands[len(operands)-1]
		left := operands[len(operands)-2]
		operands = operands[:len(operands)-2]

		if frame.isCmp {
			if c, ok := left.(*ast.Compare); ok && chained[c] {
				c.Ops = append(c.Ops, frame.cmp)
				c.Comparators = append(c.Comparators, right)
				c.Span = span(c.Span, right.GetSpan())
				operands = append(operands, c)
				return
			}
			c := &ast.Compare{
				Span:        span(left.GetSpan(), right.GetSpan()),
				Left:        left,
				Ops:         []ast.CmpOp{frame.cmp},
				Comparators: []ast.Expression{right},
			}
			chained[c] = true
			operands = append(operands, c)
			return
		}
		operands = append(operands, &ast.BinOp{
			Span:  span(left.GetSpan(), right.GetSpan()),
			Left:  left,
			Op:    frame.op,
			Right: right,
		})
	}

	for {
		frame, width, ok := p.binaryOp()
		if !ok {
			break
		}
		for len(ops) > 0 && ops[len(ops)-1].prec >= frame.prec {
			reduce()
		}
		for i := 0; i < width; i++ {
			p.advance()
		}
		ops = append(ops, frame)
		operands = append(operands, p.parseUnary())
	}
	for len(ops) > 0 {
		reduce()
	}
	return operands[0]
}

// binaryOp inspects the cursor for a binary or comparison operator without
// consuming it. width is the operator's token count (2 for "not in" and
// "is not").
func (p *Parser) binaryOp() (frame binFrame, width int, ok bool) {
	cmp := func(op ast.CmpOp, w int) (binFrame, int, bool) {
		return binFrame{isCmp: true, cmp: op, prec: 1}, w, true
	}
	bin := func(op ast.Operator, prec int) (binFrame, int, bool) {
		return binFrame{op: op, prec: prec}, 1, true
	}

	switch p.cur().Type {
	case lexer.TokenEq:
		return cmp(ast.Eq, 1)
	case lexer.TokenNe:
		return cmp(ast.NotEq, 1)
	case lexer.TokenLt:
		return cmp(ast.Lt, 1)
	case lexer.TokenLe:
		return cmp(ast.LtE, 1)
	case lexer.TokenGt:
		return cmp(ast.Gt, 1)
	case lexer.TokenGe:
		return cmp(ast.GtE, 1)
	case lexer.TokenIn:
		return cmp(ast.In, 1)
	case lexer.TokenNot:
		if p.peek(1).Type == lexer.TokenIn {
			return cmp(ast.NotIn, 2)
		}
	case lexer.TokenIs:
		if p.peek(1).Type == lexer.TokenNot {
			return cmp(ast.IsNot, 2)
		}
		return cmp(ast.Is, 1)
	case lexer.TokenPipe:
		return bin(ast.BitOr, 2)
	case lexer.TokenCaret:
		return bin(ast.BitXor, 3)
	case lexer.TokenAmp:
		return bin(ast.BitAnd, 4)
	case lexer.TokenShiftLeft:
		return bin(ast.LShift, 5)
	case lexer.TokenShiftRight:
		return bin(ast.RShift, 5)
	case lexer.TokenPlus:
		return bin(ast.Add, 6)
	case lexer.TokenMinus:
		return bin(ast.Sub, 6)
	case lexer.TokenStar:
		return bin(ast.Mult, 7)
	case lexer.TokenSlash:
		return bin(ast.Div, 7)
	case lexer.TokenDoubleSlash:
		return bin(ast.FloorDiv, 7)
	case lexer.TokenPercent:
		return bin(ast.Mod, 7)
	case lexer.TokenAt:
		return bin(ast.MatMult, 7)
	}
	return binFrame{}, 0, false
}

func (p *Parser) parseUnary() ast.Expression {
	var op ast.UnaryOperator
	switch p.cur().Type {
	case lexer.TokenPlus:
		op = ast.UAdd
	case lexer.TokenMinus:
		op = ast.USub
	case lexer.TokenTilde:
		op = ast.Invert
	default:
		return p.parsePower()
	}
	tok := p.advance()
	operand := p.parseUnary()
	return &ast.UnaryOp{
		Span:    span(tok.Span, operand.GetSpan()),
		Op:      op,
		Operand: operand,
	}
}

// parsePower parses an optionally awaited primary with a right-associative
// exponent: await binds to the primary, ** binds outside it.
func (p *Parser) parsePower() ast.Expression {
	var base ast.Expression
	if p.at(lexer.TokenAwait) {
		tok := p.advance()
		value := p.parsePrimary()
		base = &ast.Await{Span: span(tok.Span, value.GetSpan()), Value: value}
	} else {
		base = p.parsePrimary()
	}
	if p.accept(lexer.TokenDoubleStar) {
		exp := p.parseUnary()
		return &ast.BinOp{
			Span:  span(base.GetSpan(), exp.GetSpan()),
			Left:  base,
			Op:    ast.Pow,
			Right: exp,
		}
	}
	return base
}

// parsePrimary parses an atom and its trailers: attribute access, calls,
// and subscripts.
func (p *Parser) parsePrimary() ast.Expression {
	e := p.parseAtom()
	for {
		switch p.cur().Type {
		case lexer.TokenDot:
			p.advance()
			ident, ok := p.expect(lexer.TokenIdentifier)
			if !ok {
				return e
			}
			e = &ast.Attribute{
				Span:  span(e.GetSpan(), ident.Span),
				Value: e,
				Attr:  ident.Lexeme,
			}

		case lexer.TokenLParen:
			p.advance()
			args, keywords := p.parseCallArgs()
			rparen, ok := p.expect(lexer.TokenRParen)
			if !ok {
				return e
			}
			e = &ast.Call{
				Span:     span(e.GetSpan(), rparen.Span),
				Func:     e,
				Args:     args,
				Keywords: keywords,
			}

		case lexer.TokenLBracket:
			p.advance()
			index := p.parseSubscriptList()
			rbracket, ok := p.expect(lexer.TokenRBracket)
			if !ok {
				return e
			}
			e = &ast.Subscript{
				Span:  span(e.GetSpan(), rbracket.Span),
				Value: e,
				Index: index,
			}

		default:
			return e
		}
	}
}

// parseCallArgs parses a call argument list up to the closing paren:
// positional arguments, *unpacking, keyword arguments, and **unpacking.
func (p *Parser) parseCallArgs() ([]ast.Expression, []*ast.Keyword) {
	var args []ast.Expression
	var keywords []*ast.Keyword

	for !p.at(lexer.TokenRParen) && !p.atLineEnd() {
		switch {
		case p.at(lexer.TokenComma):
			p.addError(InvalidSyntax, p.cur(), "doubled comma in argument list")
			p.advance()
			continue

		case p.at(lexer.TokenDoubleStar):
			tok := p.advance()
			value := p.parseExpr()
			keywords = append(keywords, &ast.Keyword{
				Span:  span(tok.Span, value.GetSpan()),
				Value: value,
			})

		case p.at(lexer.TokenStar):
			tok := p.advance()
			value := p.parseExpr()
			args = append(args, &ast.Starred{
				Span:  span(tok.Span, value.GetSpan()),
				Value: value,
			})

		case p.at(lexer.TokenIdentifier) && p.peek(1).Type == lexer.TokenAssign:
			name := p.advance()
			p.advance() // =
			value := p.parseExpr()
			keywords = append(keywords, &ast.Keyword{
				Span:  span(name.Span, value.GetSpan()),
				Name:  name.Lexeme,
				Value: value,
			})

		default:
			e := p.parseNamedExpr()
			if p.at(lexer.TokenFor) || p.atAsyncFor() {
				gens := p.parseComprehensions()
				e = &ast.GeneratorExp{
					Span:       span(e.GetSpan(), gens[len(gens)-1].Span),
					Elt:        e,
					Generators: gens,
				}
				if len(args) > 0 || len(keywords) > 0 || p.at(lexer.TokenComma) {
					p.addErrorAt(InvalidSyntax, e.GetSpan(),
						"generator expression must be parenthesized")
				}
			} else if len(keywords) > 0 {
				p.addErrorAt(InvalidSyntax, e.GetSpan(),
					"positional argument follows keyword argument")
			}
			args = append(args, e)
		}

		if !p.accept(lexer.TokenComma) {
			break
		}
	}
	return args, keywords
}

// parseSubscriptList parses the contents of [...]: a single subscript or
// slice, or a comma-separated tuple of them.
func (p *Parser) parseSubscriptList() ast.Expression {
	first := p.parseSubscriptItem()
	if !p.at(lexer.TokenComma) {
		return first
	}
	elts := []ast.Expression{first}
	for p.accept(lexer.TokenComma) {
		if p.at(lexer.TokenRBracket) {
			break // trailing comma
		}
		if p.at(lexer.TokenComma) {
			p.addError(InvalidSyntax, p.cur(), "doubled comma in subscript")
			p.advance()
			continue
		}
		elts = append(elts, p.parseSubscriptItem())
	}
	return &ast.Tuple{
		Span: span(first.GetSpan(), elts[len(elts)-1].GetSpan()),
		Elts: elts,
	}
}

func (p *Parser) parseSubscriptItem() ast.Expression {
	start := p.cur().Span
	var lower ast.Expression
	if !p.at(lexer.TokenColon) {
		lower = p.parseExpr()
		if !p.at(lexer.TokenColon) {
			return lower
		}
		start = lower.GetSpan()
	}
	colon := p.advance()
	slice := &ast.Slice{Span: span(start, colon.Span), Lower: lower}

	if !p.at(lexer.TokenColon) && !p.at(lexer.TokenRBracket) && !p.at(lexer.TokenComma) {
		slice.Upper = p.parseExpr()
		slice.Span = span(start, slice.Upper.GetSpan())
	}
	if p.at(lexer.TokenColon) {
		second := p.advance()
		slice.Span = span(start, second.Span)
		if !p.at(lexer.TokenRBracket) && !p.at(lexer.TokenComma) {
			slice.Step = p.parseExpr()
			slice.Span = span(start, slice.Step.GetSpan())
		}
	}
	return slice
}

// canStartExpr reports whether a token can begin an expression, used to
// decide whether a comma ends a list or continues it.
func canStartExpr(tok lexer.Token) bool {
	switch tok.Type {
	case lexer.TokenIdentifier, lexer.TokenInt, lexer.TokenFloat, lexer.TokenImag,
		lexer.TokenString, lexer.TokenBytes, lexer.TokenFString,
		lexer.TokenLParen, lexer.TokenLBracket, lexer.TokenLBrace,
		lexer.TokenPlus, lexer.TokenMinus, lexer.TokenTilde,
		lexer.TokenNot, lexer.TokenLambda, lexer.TokenAwait,
		lexer.TokenTrue, lexer.TokenFalse, lexer.TokenNone,
		lexer.TokenEllipsis, lexer.TokenStar:
		return true
	}
	return false
}

// parseTestList parses expr ("," expr)* with an optional trailing comma,
// producing a Tuple when a comma appears. allowStar permits starred
// elements, as in assignment targets and return values.
func (p *Parser) parseTestList(allowStar bool) ast.Expression {
	first := p.parseListElement(allowStar)
	if !p.at(lexer.TokenComma) {
		return first
	}
	elts := []ast.Expression{first}
	end := first.GetSpan()
	for p.at(lexer.TokenComma) {
		end = p.cur().Span
		p.advance()
		if p.at(lexer.TokenComma) {
			p.addError(InvalidSyntax, p.cur(), "doubled comma")
			p.advance()
			continue
		}
		if !canStartExpr(p.cur()) {
			break // trailing comma
		}
		elt := p.parseListElement(allowStar)
		elts = append(elts, elt)
		end = elt.GetSpan()
	}
	return &ast.Tuple{Span: span(first.GetSpan(), end), Elts: elts}
}

// parseListElement parses one element of an expression list: a starred
// expression or a plain one.
func (p *Parser) parseListElement(allowStar bool) ast.Expression {
	if p.at(lexer.TokenStar) {
		tok := p.advance()
		value := p.parseOrTest()
		starred := &ast.Starred{Span: span(tok.Span, value.GetSpan()), Value: value}
		if !allowStar {
			p.addErrorAt(InvalidSyntax, starred.Span,
				"starred expression is not allowed here")
		}
		return starred
	}
	return p.parseExpr()
}

// parseYield parses yield, yield value, and yield from value.
func (p *Parser) parseYield() ast.Expression {
	tok := p.advance()
	if p.accept(lexer.TokenFrom) {
		value := p.parseExpr()
		return &ast.YieldFrom{Span: span(tok.Span, value.GetSpan()), Value: value}
	}
	if p.atLineEnd() || p.at(lexer.TokenRParen) {
		return &ast.Yield{Span: tok.Span}
	}
	value := p.parseTestList(false)
	return &ast.Yield{Span: span(tok.Span, value.GetSpan()), Value: value}
}

// parseTargetList parses assignment-style targets for for loops, with
// clauses, and del statements.
func (p *Parser) parseTargetList() ast.Expression {
	first := p.parseTarget()
	if !p.at(lexer.TokenComma) {
		return first
	}
	elts := []ast.Expression{first}
	end := first.GetSpan()
	for p.accept(lexer.TokenComma) {
		if !canStartExpr(p.cur()) {
			break // trailing comma
		}
		elt := p.parseTarget()
		elts = append(elts, elt)
		end = elt.GetSpan()
	}
	tuple := &ast.Tuple{Span: span(first.GetSpan(), end), Elts: elts}
	p.checkTargetElements(tuple.Elts, tuple.Span)
	return tuple
}

// parseTarget parses one assignment target and validates its form.
func (p *Parser) parseTarget() ast.Expression {
	switch p.cur().Type {
	case lexer.TokenStar:
		tok := p.advance()
		inner := p.parseTarget()
		return &ast.Starred{Span: span(tok.Span, inner.GetSpan()), Value: inner}

	case lexer.TokenLParen:
		p.advance()
		inner := p.parseTargetList()
		if _, ok := p.expect(lexer.TokenRParen); !ok {
			return inner
		}
		return inner

	case lexer.TokenLBracket:
		tok := p.advance()
		var elts []ast.Expression
		for !p.at(lexer.TokenRBracket) {
			elts = append(elts, p.parseTarget())
			if !p.accept(lexer.TokenComma) {
				break
			}
		}
		rbracket, ok := p.expect(lexer.TokenRBracket)
		if !ok {
			return p.badExpr(tok)
		}
		list := &ast.List{Span: span(tok.Span, rbracket.Span), Elts: elts}
		p.checkTargetElements(list.Elts, list.Span)
		return list

	default:
		e := p.parsePrimary()
		switch e.(type) {
		case *ast.Name, *ast.Attribute, *ast.Subscript:
		default:
			p.addErrorAt(InvalidSyntax, e.GetSpan(),
				fmt.Sprintf("cannot assign to %s", describeExpr(e)))
		}
		return e
	}
}

// atAsyncFor reports whether the cursor sits on "async for".
func (p *Parser) atAsyncFor() bool {
	return p.at(lexer.TokenAsync) && p.peek(1).Type == lexer.TokenFor
}

// parseComprehensions parses one or more (async) for clauses with their if
// filters, shared by every comprehension form.
func (p *Parser) parseComprehensions() []*ast.Comprehension {
	var gens []*ast.Comprehension
	for p.at(lexer.TokenFor) || p.atAsyncFor() {
		gen := &ast.Comprehension{}
		start := p.cur().Span
		if p.accept(lexer.TokenAsync) {
			gen.IsAsync = true
		}
		p.advance() // for
		gen.Target = p.parseTargetList()
		if _, ok := p.expect(lexer.TokenIn); !ok {
			return gens
		}
		gen.Iter = p.parseOrTest()
		end := gen.Iter.GetSpan()
		for p.at(lexer.TokenIf) {
			p.advance()
			cond := p.parseOrTest()
			gen.Ifs = append(gen.Ifs, cond)
			end = cond.GetSpan()
		}
		gen.Span = span(start, end)
		gens = append(gens, gen)
	}
	return gens
}
