package parser

import (
	"fmt"
	"strings"

	"github.com/Hayden-Liles/Cheetah/internal/ast"
	"github.com/Hayden-Liles/Cheetah/internal/lexer"
	"github.com/Hayden-Liles/Cheetah/internal/position"
)

// parseStatementLine parses one source line: a single compound statement,
// or one or more simple statements separated by semicolons.
func (p *Parser) parseStatementLine() []ast.Statement {
	switch p.cur().Type {
	case lexer.TokenIf:
		return wrap(p.parseIf())
	case lexer.TokenWhile:
		return wrap(p.parseWhile())
	case lexer.TokenFor:
		return wrap(p.parseFor(p.cur(), false))
	case lexer.TokenTry:
		return wrap(p.parseTry())
	case lexer.TokenWith:
		return wrap(p.parseWith(p.cur(), false))
	case lexer.TokenDef:
		return wrap(p.parseFunctionDef(p.cur(), false, nil))
	case lexer.TokenClass:
		return wrap(p.parseClassDef(p.cur(), nil))
	case lexer.TokenAt:
		return wrap(p.parseDecorated())
	case lexer.TokenAsync:
		return wrap(p.parseAsync())
	case lexer.TokenMatch:
		return wrap(p.parseMatch())
	default:
		return p.parseSimpleLine()
	}
}

func wrap(stmt ast.Statement) []ast.Statement {
	if stmt == nil {
		return nil
	}
	return []ast.Statement{stmt}
}

// parseSimpleLine parses simple statements separated by semicolons and
// terminated by a newline.
func (p *Parser) parseSimpleLine() []ast.Statement {
	var stmts []ast.Statement
	for {
		stmt := p.parseSimpleStatement()
		if stmt == nil {
			// The statement parser already recovered to a boundary.
			return stmts
		}
		stmts = append(stmts, stmt)
		if !p.accept(lexer.TokenSemicolon) {
			break
		}
		if p.at(lexer.TokenNewline) || p.at(lexer.TokenEOF) || p.at(lexer.TokenDedent) {
			break // trailing semicolon
		}
	}
	if !p.accept(lexer.TokenNewline) && !p.at(lexer.TokenEOF) && !p.at(lexer.TokenDedent) {
		p.errorExpected("end of line")
		p.synchronize()
	}
	return stmts
}

// parseSimpleStatement parses one statement that fits on a line. It returns
// nil after recording an error and resynchronizing.
func (p *Parser) parseSimpleStatement() ast.Statement {
	switch p.cur().Type {
	case lexer.TokenPass:
		tok := p.advance()
		return &ast.Pass{Span: tok.Span}
	case lexer.TokenBreak:
		tok := p.advance()
		return &ast.Break{Span: tok.Span}
	case lexer.TokenContinue:
		tok := p.advance()
		return &ast.Continue{Span: tok.Span}
	case lexer.TokenReturn:
		return p.parseReturn()
	case lexer.TokenRaise:
		return p.parseRaise()
	case lexer.TokenGlobal, lexer.TokenNonlocal:
		return p.parseScopeDecl()
	case lexer.TokenDel:
		return p.parseDelete()
	case lexer.TokenAssert:
		return p.parseAssert()
	case lexer.TokenImport:
		return p.parseImport()
	case lexer.TokenFrom:
		return p.parseImportFrom()
	default:
		return p.parseExprStatement()
	}
}

func (p *Parser) atLineEnd() bool {
	switch p.cur().Type {
	case lexer.TokenNewline, lexer.TokenSemicolon, lexer.TokenDedent, lexer.TokenEOF:
		return true
	}
	return false
}

func (p *Parser) parseReturn() ast.Statement {
	tok := p.advance()
	ret := &ast.Return{Span: tok.Span}
	if !p.atLineEnd() {
		ret.Value = p.parseTestList(true)
		ret.Span = span(tok.Span, ret.Value.GetSpan())
	}
	return ret
}

func (p *Parser) parseRaise() ast.Statement {
	tok := p.advance()
	raise := &ast.Raise{Span: tok.Span}
	if p.atLineEnd() {
		return raise
	}
	raise.Exc = p.parseExpr()
	raise.Span = span(tok.Span, raise.Exc.GetSpan())
	if p.accept(lexer.TokenFrom) {
		raise.Cause = p.parseExpr()
		raise.Span = span(tok.Span, raise.Cause.GetSpan())
	}
	return raise
}

func (p *Parser) parseScopeDecl() ast.Statement {
	tok := p.advance()
	var names []string
	end := tok.Span
	for {
		ident, ok := p.expect(lexer.TokenIdentifier)
		if !ok {
			p.synchronize()
			return nil
		}
		names = append(names, ident.Lexeme)
		end = ident.Span
		if !p.accept(lexer.TokenComma) {
			break
		}
	}
	if tok.Type == lexer.TokenGlobal {
		return &ast.Global{Span: span(tok.Span, end), Names: names}
	}
	return &ast.Nonlocal{Span: span(tok.Span, end), Names: names}
}

func (p *Parser) parseDelete() ast.Statement {
	tok := p.advance()
	var targets []ast.Expression
	for {
		target := p.parseTarget()
		if _, isStar := target.(*ast.Starred); isStar {
			p.addErrorAt(InvalidSyntax, target.GetSpan(), "cannot delete starred expression")
		}
		targets = append(targets, target)
		if !p.accept(lexer.TokenComma) {
			break
		}
		if p.atLineEnd() {
			break // trailing comma
		}
	}
	return &ast.Delete{
		Span:    span(tok.Span, targets[len(targets)-1].GetSpan()),
		Targets: targets,
	}
}

func (p *Parser) parseAssert() ast.Statement {
	tok := p.advance()
	a := &ast.Assert{Span: tok.Span, Test: p.parseExpr()}
	a.Span = span(tok.Span, a.Test.GetSpan())
	if p.accept(lexer.TokenComma) {
		a.Msg = p.parseExpr()
		a.Span = span(tok.Span, a.Msg.GetSpan())
	}
	return a
}

// parseExprStatement parses expression statements and every assignment
// form: plain, chained, augmented, and annotated.
func (p *Parser) parseExprStatement() ast.Statement {
	startErrs := len(p.errors)
	first := p.parseTestList(true)
	if len(p.errors) > startErrs {
		p.synchronize()
		return nil
	}

	switch {
	case p.at(lexer.TokenColon):
		return p.parseAnnAssign(first)

	case p.cur().IsAugAssign():
		opTok := p.advance()
		p.checkAugTarget(first)
		value := p.parseAssignValue()
		return &ast.AugAssign{
			Span:   span(first.GetSpan(), value.GetSpan()),
			Target: first,
			Op:     augOperator(opTok.Type),
			Value:  value,
		}

	case p.at(lexer.TokenAssign):
		return p.parseAssign(first)

	default:
		return &ast.ExprStmt{Span: first.GetSpan(), Value: first}
	}
}

func (p *Parser) parseAnnAssign(target ast.Expression) ast.Statement {
	p.advance() // colon
	switch target.(type) {
	case *ast.Name, *ast.Attribute, *ast.Subscript:
	default:
		p.addErrorAt(InvalidSyntax, target.GetSpan(),
			fmt.Sprintf("only single names, attributes, and subscripts can be annotated, not %s", describeExpr(target)))
	}
	annotation := p.parseExpr()
	stmt := &ast.AnnAssign{
		Span:       span(target.GetSpan(), annotation.GetSpan()),
		Target:     target,
		Annotation: annotation,
	}
	if p.accept(lexer.TokenAssign) {
		stmt.Value = p.parseAssignValue()
		stmt.Span = span(target.GetSpan(), stmt.Value.GetSpan())
	}
	return stmt
}

func (p *Parser) parseAssign(first ast.Expression) ast.Statement {
	targets := []ast.Expression{first}
	var value ast.Expression
	for p.accept(lexer.TokenAssign) {
		next := p.parseAssignValue()
		if p.at(lexer.TokenAssign) {
			targets = append(targets, next)
			continue
		}
		value = next
	}

	if p.cur().IsAugAssign() {
		p.addError(InvalidSyntax, p.cur(),
			"cannot mix chained assignment with augmented assignment")
		p.synchronize()
		return nil
	}

	for _, target := range targets {
		p.checkAssignTarget(target)
	}
	return &ast.Assign{
		Span:    span(first.GetSpan(), value.GetSpan()),
		Targets: targets,
		Value:   value,
	}
}

// parseAssignValue parses the right side of an assignment: a yield
// expression or an expression list.
func (p *Parser) parseAssignValue() ast.Expression {
	if p.at(lexer.TokenYield) {
		return p.parseYield()
	}
	return p.parseTestList(true)
}

// checkAssignTarget rejects expressions that cannot be assigned to and
// enforces the one-starred-element rule in target lists.
func (p *Parser) checkAssignTarget(e ast.Expression) {
	switch t := e.(type) {
	case *ast.Name, *ast.Attribute, *ast.Subscript:
	case *ast.Starred:
		p.checkAssignTarget(t.Value)
	case *ast.Tuple:
		p.checkTargetElements(t.Elts, t.Span)
	case *ast.List:
		p.checkTargetElements(t.Elts, t.Span)
	default:
		p.addErrorAt(InvalidSyntax, e.GetSpan(),
			fmt.Sprintf("cannot assign to %s", describeExpr(e)))
	}
}

func (p *Parser) checkTargetElements(elts []ast.Expression, sp position.Span) {
	stars := 0
	for _, elt := range elts {
		if _, ok := elt.(*ast.Starred); ok {
			stars++
		}
		p.checkAssignTarget(elt)
	}
	if stars > 1 {
		p.addErrorAt(InvalidSyntax, sp,
			"multiple starred expressions in assignment target")
	}
}

// checkAugTarget enforces that augmented assignment has a single plain
// target.
func (p *Parser) checkAugTarget(e ast.Expression) {
	switch e.(type) {
	case *ast.Name, *ast.Attribute, *ast.Subscript:
	default:
		p.addErrorAt(InvalidSyntax, e.GetSpan(),
			fmt.Sprintf("augmented assignment target must be a name, attribute, or subscript, not %s", describeExpr(e)))
	}
}

func augOperator(tt lexer.TokenType) ast.Operator {
	switch tt {
	case lexer.TokenPlusAssign:
		return ast.Add
	case lexer.TokenMinusAssign:
		return ast.Sub
	case lexer.TokenStarAssign:
		return ast.Mult
	case lexer.TokenSlashAssign:
		return ast.Div
	case lexer.TokenDoubleSlashAssign:
		return ast.FloorDiv
	case lexer.TokenPercentAssign:
		return ast.Mod
	case lexer.TokenAtAssign:
		return ast.MatMult
	case lexer.TokenDoubleStarAssign:
		return ast.Pow
	case lexer.TokenShiftLeftAssign:
		return ast.LShift
	case lexer.TokenShiftRightAssign:
		return ast.RShift
	case lexer.TokenAmpAssign:
		return ast.BitAnd
	case lexer.TokenPipeAssign:
		return ast.BitOr
	default:
		return ast.BitXor
	}
}

// describeExpr names an expression form for error messages.
func describeExpr(e ast.Expression) string {
	switch e.(type) {
	case *ast.Constant:
		return "a literal"
	case *ast.Call:
		return "a function call"
	case *ast.BinOp, *ast.UnaryOp, *ast.BoolOp, *ast.Compare:
		return "an operator expression"
	case *ast.Lambda:
		return "a lambda"
	case *ast.IfExp:
		return "a conditional expression"
	case *ast.NamedExpr:
		return "a named expression"
	case *ast.JoinedStr:
		return "an f-string"
	case *ast.Dict, *ast.DictComp:
		return "a dict display"
	case *ast.Set, *ast.SetComp:
		return "a set display"
	case *ast.ListComp, *ast.GeneratorExp:
		return "a comprehension"
	case *ast.Yield, *ast.YieldFrom:
		return "a yield expression"
	case *ast.Await:
		return "an await expression"
	default:
		return "this expression"
	}
}

// parseImport parses "import a.b, c as d".
func (p *Parser) parseImport() ast.Statement {
	tok := p.advance()
	var names []*ast.Alias
	end := tok.Span
	for {
		alias := p.parseDottedAlias()
		if alias == nil {
			p.synchronize()
			return nil
		}
		names = append(names, alias)
		end = alias.Span
		if !p.accept(lexer.TokenComma) {
			break
		}
	}
	return &ast.Import{Span: span(tok.Span, end), Names: names}
}

// parseImportFrom parses "from ..mod import x as y, z" including purely
// relative forms and star imports.
func (p *Parser) parseImportFrom() ast.Statement {
	tok := p.advance()
	level := 0
	for {
		if p.accept(lexer.TokenDot) {
			level++
			continue
		}
		if p.accept(lexer.TokenEllipsis) {
			level += 3
			continue
		}
		break
	}

	module := ""
	if !p.at(lexer.TokenImport) {
		name, ok := p.parseDottedName()
		if !ok {
			p.synchronize()
			return nil
		}
		module = name
	} else if level == 0 {
		p.errorExpected("module name")
		p.synchronize()
		return nil
	}

	if _, ok := p.expect(lexer.TokenImport); !ok {
		p.synchronize()
		return nil
	}

	stmt := &ast.ImportFrom{Span: tok.Span, Module: module, Level: level}

	switch {
	case p.at(lexer.TokenStar):
		star := p.advance()
		stmt.Names = []*ast.Alias{{Span: star.Span, Name: "*"}}
		stmt.Span = span(tok.Span, star.Span)

	case p.accept(lexer.TokenLParen):
		for !p.at(lexer.TokenRParen) {
			alias := p.parseImportAlias()
			if alias == nil {
				p.synchronize()
				return nil
			}
			stmt.Names = append(stmt.Names, alias)
			if !p.accept(lexer.TokenComma) {
				break
			}
		}
		rparen, ok := p.expect(lexer.TokenRParen)
		if !ok {
			p.synchronize()
			return nil
		}
		stmt.Span = span(tok.Span, rparen.Span)

	default:
		for {
			alias := p.parseImportAlias()
			if alias == nil {
				p.synchronize()
				return nil
			}
			stmt.Names = append(stmt.Names, alias)
			stmt.Span = span(tok.Span, alias.Span)
			if !p.accept(lexer.TokenComma) {
				break
			}
		}
	}

	if len(stmt.Names) == 0 {
		p.errorExpected("imported name")
		p.synchronize()
		return nil
	}
	return stmt
}

func (p *Parser) parseDottedAlias() *ast.Alias {
	start := p.cur().Span
	name, ok := p.parseDottedName()
	if !ok {
		return nil
	}
	alias := &ast.Alias{Span: start, Name: name}
	if p.accept(lexer.TokenAs) {
		ident, ok := p.expect(lexer.TokenIdentifier)
		if !ok {
			return nil
		}
		alias.AsName = ident.Lexeme
		alias.Span = span(start, ident.Span)
	}
	return alias
}

func (p *Parser) parseImportAlias() *ast.Alias {
	ident, ok := p.expect(lexer.TokenIdentifier)
	if !ok {
		return nil
	}
	alias := &ast.Alias{Span: ident.Span, Name: ident.Lexeme}
	if p.accept(lexer.TokenAs) {
		as, ok := p.expect(lexer.TokenIdentifier)
		if !ok {
			return nil
		}
		alias.AsName = as.Lexeme
		alias.Span = span(ident.Span, as.Span)
	}
	return alias
}

func (p *Parser) parseDottedName() (string, bool) {
	ident, ok := p.expect(lexer.TokenIdentifier)
	if !ok {
		return "", false
	}
	parts := []string{ident.Lexeme}
	for p.at(lexer.TokenDot) && p.peek(1).Type == lexer.TokenIdentifier {
		p.advance()
		next := p.advance()
		parts = append(parts, next.Lexeme)
	}
	return strings.Join(parts, "."), true
}

// parseSuite parses the body after a compound-statement header: either an
// inline simple-statement list, or NEWLINE INDENT block DEDENT.
func (p *Parser) parseSuite() []ast.Statement {
	if _, ok := p.expect(lexer.TokenColon); !ok {
		p.synchronize()
		return nil
	}
	if !p.accept(lexer.TokenNewline) {
		return p.parseSimpleLine()
	}
	if _, ok := p.expect(lexer.TokenIndent); !ok {
		p.synchronize()
		return nil
	}
	var body []ast.Statement
	for !p.at(lexer.TokenDedent) && !p.at(lexer.TokenEOF) {
		if p.accept(lexer.TokenNewline) {
			continue
		}
		body = append(body, p.parseStatementLine()...)
	}
	p.accept(lexer.TokenDedent)
	return body
}

func (p *Parser) parseIf() ast.Statement {
	tok := p.advance() // if or elif
	stmt := &ast.If{Cond: p.parseNamedExpr()}
	stmt.Body = p.parseSuite()
	stmt.Span = span(tok.Span, bodyEnd(tok.Span, stmt.Body))

	switch p.cur().Type {
	case lexer.TokenElif:
		nested := p.parseIf()
		if nested != nil {
			stmt.Else = []ast.Statement{nested}
			stmt.Span = span(tok.Span, nested.GetSpan())
		}
	case lexer.TokenElse:
		p.advance()
		stmt.Else = p.parseSuite()
		stmt.Span = span(tok.Span, bodyEnd(stmt.Span, stmt.Else))
	}
	return stmt
}

func (p *Parser) parseWhile() ast.Statement {
	tok := p.advance()
	stmt := &ast.While{Cond: p.parseNamedExpr()}
	stmt.Body = p.parseSuite()
	if p.accept(lexer.TokenElse) {
		stmt.Else = p.parseSuite()
	}
	stmt.Span = span(tok.Span, bodyEnd(bodyEnd(tok.Span, stmt.Body), stmt.Else))
	return stmt
}

func (p *Parser) parseFor(start lexer.Token, isAsync bool) ast.Statement {
	p.advance() // for
	stmt := &ast.For{IsAsync: isAsync}
	stmt.Target = p.parseTargetList()
	if _, ok := p.expect(lexer.TokenIn); !ok {
		p.synchronize()
		return nil
	}
	stmt.Iter = p.parseTestList(true)
	stmt.Body = p.parseSuite()
	if p.accept(lexer.TokenElse) {
		stmt.Else = p.parseSuite()
	}
	stmt.Span = span(start.Span, bodyEnd(bodyEnd(start.Span, stmt.Body), stmt.Else))
	return stmt
}

func (p *Parser) parseWith(start lexer.Token, isAsync bool) ast.Statement {
	p.advance() // with
	stmt := &ast.With{IsAsync: isAsync}
	for {
		item := &ast.WithItem{Context: p.parseExpr()}
		item.Span = item.Context.GetSpan()
		if p.accept(lexer.TokenAs) {
			item.Vars = p.parseTarget()
			item.Span = span(item.Span, item.Vars.GetSpan())
		}
		stmt.Items = append(stmt.Items, item)
		if !p.accept(lexer.TokenComma) {
			break
		}
	}
	stmt.Body = p.parseSuite()
	stmt.Span = span(start.Span, bodyEnd(start.Span, stmt.Body))
	return stmt
}

func (p *Parser) parseTry() ast.Statement {
	tok := p.advance()
	stmt := &ast.Try{Body: p.parseSuite()}

	for p.at(lexer.TokenExcept) {
		exTok := p.advance()
		handler := &ast.ExceptHandler{Span: exTok.Span}
		if !p.at(lexer.TokenColon) {
			handler.Type = p.parseExpr()
			if p.accept(lexer.TokenAs) {
				ident, ok := p.expect(lexer.TokenIdentifier)
				if !ok {
					p.synchronize()
					return nil
				}
				handler.Name = ident.Lexeme
			}
		}
		handler.Body = p.parseSuite()
		handler.Span = span(exTok.Span, bodyEnd(exTok.Span, handler.Body))
		stmt.Handlers = append(stmt.Handlers, handler)
	}

	if len(stmt.Handlers) > 0 && p.accept(lexer.TokenElse) {
		stmt.Else = p.parseSuite()
	}
	if p.accept(lexer.TokenFinally) {
		stmt.Finally = p.parseSuite()
	}

	if len(stmt.Handlers) == 0 && len(stmt.Finally) == 0 {
		p.addError(InvalidSyntax, p.cur(),
			"try statement must have at least one except or finally clause")
	}

	end := bodyEnd(tok.Span, stmt.Body)
	end = bodyEnd(end, stmt.Else)
	end = bodyEnd(end, stmt.Finally)
	if len(stmt.Handlers) > 0 {
		end = span(end, stmt.Handlers[len(stmt.Handlers)-1].Span)
	}
	stmt.Span = span(tok.Span, end)
	return stmt
}

func (p *Parser) parseFunctionDef(start lexer.Token, isAsync bool, decorators []ast.Expression) ast.Statement {
	p.advance() // def
	name, ok := p.expect(lexer.TokenIdentifier)
	if !ok {
		p.synchronize()
		return nil
	}
	if _, ok := p.expect(lexer.TokenLParen); !ok {
		p.synchronize()
		return nil
	}
	params := p.parseParameters(true)
	if _, ok := p.expect(lexer.TokenRParen); !ok {
		p.synchronize()
		return nil
	}

	fn := &ast.FunctionDef{
		Name:       name.Lexeme,
		Params:     params,
		Decorators: decorators,
		IsAsync:    isAsync,
	}
	if p.accept(lexer.TokenArrow) {
		fn.Returns = p.parseExpr()
	}
	fn.Body = p.parseSuite()
	fn.Span = span(start.Span, bodyEnd(start.Span, fn.Body))
	return fn
}

// parseParameters parses the formal parameter list between the parentheses
// of a def, or the bare list after lambda. Annotations are legal only in
// def headers.
func (p *Parser) parseParameters(allowAnnotations bool) *ast.Parameters {
	params := &ast.Parameters{Span: p.cur().Span}
	seenDefault := false
	kwOnly := false

	for !p.at(lexer.TokenRParen) && !p.at(lexer.TokenColon) && !p.atLineEnd() {
		switch {
		case p.at(lexer.TokenComma):
			p.addError(InvalidSyntax, p.cur(), "doubled comma in parameter list")
			p.advance()
			continue

		case p.accept(lexer.TokenStar):
			if params.VarArg != nil || kwOnly {
				p.addError(InvalidSyntax, p.cur(), "only one * separator is allowed")
			}
			kwOnly = true
			seenDefault = false
			if p.at(lexer.TokenIdentifier) {
				params.VarArg = p.parseParam(false, allowAnnotations)
			} else {
				params.VarArg = nil // bare *: keyword-only marker
			}

		case p.accept(lexer.TokenDoubleStar):
			if params.KwArg != nil {
				p.addError(InvalidSyntax, p.cur(), "only one ** parameter is allowed")
			}
			params.KwArg = p.parseParam(false, allowAnnotations)
			if params.KwArg == nil {
				p.synchronize()
				return params
			}

		default:
			param := p.parseParam(true, allowAnnotations)
			if param == nil {
				p.synchronize()
				return params
			}
			if param.Default != nil {
				seenDefault = true
			} else if seenDefault && !kwOnly {
				p.addErrorAt(InvalidSyntax, param.Span,
					"parameter without a default follows parameter with a default")
			}
			if kwOnly {
				params.KwOnly = append(params.KwOnly, param)
			} else {
				params.Pos = append(params.Pos, param)
			}
		}

		if !p.accept(lexer.TokenComma) {
			break
		}
	}
	return params
}

func (p *Parser) parseParam(allowDefault, allowAnnotation bool) *ast.Param {
	ident, ok := p.expect(lexer.TokenIdentifier)
	if !ok {
		return nil
	}
	param := &ast.Param{Span: ident.Span, Name: ident.Lexeme}
	if allowAnnotation && p.accept(lexer.TokenColon) {
		param.Annotation = p.parseExpr()
		param.Span = span(ident.Span, param.Annotation.GetSpan())
	}
	if p.at(lexer.TokenAssign) {
		if !allowDefault {
			p.addError(InvalidSyntax, p.cur(),
				fmt.Sprintf("parameter %q cannot have a default", param.Name))
		}
		p.advance()
		param.Default = p.parseExpr()
		param.Span = span(ident.Span, param.Default.GetSpan())
	}
	return param
}

func (p *Parser) parseClassDef(start lexer.Token, decorators []ast.Expression) ast.Statement {
	p.advance() // class
	name, ok := p.expect(lexer.TokenIdentifier)
	if !ok {
		p.synchronize()
		return nil
	}
	cls := &ast.ClassDef{Name: name.Lexeme, Decorators: decorators}
	if p.accept(lexer.TokenLParen) {
		args, keywords := p.parseCallArgs()
		cls.Bases = args
		cls.Keywords = keywords
		if _, ok := p.expect(lexer.TokenRParen); !ok {
			p.synchronize()
			return nil
		}
	}
	cls.Body = p.parseSuite()
	cls.Span = span(start.Span, bodyEnd(start.Span, cls.Body))
	return cls
}

// parseDecorated parses a decorator stack and the def or class it applies
// to.
func (p *Parser) parseDecorated() ast.Statement {
	start := p.cur()
	var decorators []ast.Expression
	for p.at(lexer.TokenAt) {
		p.advance()
		decorators = append(decorators, p.parseNamedExpr())
		if _, ok := p.expect(lexer.TokenNewline); !ok {
			p.synchronize()
			return nil
		}
		for p.accept(lexer.TokenNewline) {
		}
	}

	switch p.cur().Type {
	case lexer.TokenDef:
		return p.parseFunctionDef(start, false, decorators)
	case lexer.TokenClass:
		return p.parseClassDef(start, decorators)
	case lexer.TokenAsync:
		p.advance()
		if p.at(lexer.TokenDef) {
			return p.parseFunctionDef(start, true, decorators)
		}
		p.errorExpected("'def' after 'async'")
		p.synchronize()
		return nil
	default:
		p.errorExpected("function or class definition after decorators")
		p.synchronize()
		return nil
	}
}

func (p *Parser) parseAsync() ast.Statement {
	start := p.advance() // async
	switch p.cur().Type {
	case lexer.TokenDef:
		return p.parseFunctionDef(start, true, nil)
	case lexer.TokenFor:
		return p.parseFor(start, true)
	case lexer.TokenWith:
		return p.parseWith(start, true)
	default:
		p.errorExpected("'def', 'for', or 'with' after 'async'")
		p.synchronize()
		return nil
	}
}

func (p *Parser) parseMatch() ast.Statement {
	tok := p.advance()
	stmt := &ast.Match{Subject: p.parseTestList(true)}

	if _, ok := p.expect(lexer.TokenColon); !ok {
		p.synchronize()
		return nil
	}
	if _, ok := p.expect(lexer.TokenNewline); !ok {
		p.synchronize()
		return nil
	}
	if _, ok := p.expect(lexer.TokenIndent); !ok {
		p.synchronize()
		return nil
	}

	for !p.at(lexer.TokenDedent) && !p.at(lexer.TokenEOF) {
		if p.accept(lexer.TokenNewline) {
			continue
		}
		caseTok, ok := p.expect(lexer.TokenCase)
		if !ok {
			p.synchronize()
			continue
		}
		c := &ast.MatchCase{Pattern: p.parsePatterns()}
		if p.accept(lexer.TokenIf) {
			c.Guard = p.parseNamedExpr()
		}
		c.Body = p.parseSuite()
		c.Span = span(caseTok.Span, bodyEnd(caseTok.Span, c.Body))
		stmt.Cases = append(stmt.Cases, c)
	}
	p.accept(lexer.TokenDedent)

	if len(stmt.Cases) == 0 {
		p.addError(InvalidSyntax, tok, "match statement must have at least one case")
		return nil
	}
	stmt.Span = span(tok.Span, stmt.Cases[len(stmt.Cases)-1].Span)
	return stmt
}

// bodyEnd extends a span to the last statement of a suite, tolerating empty
// suites left behind by error recovery.
func bodyEnd(fallback position.Span, body []ast.Statement) position.Span {
	if len(body) == 0 {
		return fallback
	}
	return span(fallback, body[len(body)-1].GetSpan())
}
