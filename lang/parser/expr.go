package parser

import (
	"github.com/Cheese-S/Dojo/lang/ast"
	"github.com/Cheese-S/Dojo/lang/token"
)

func (p *parser) expression() ast.Expr { return p.assignment() }

// assignment is right-associative and sits above ternary (§6.1
// ASSIGNMENT; SPEC_FULL.md §C for precedence). Only a VarExpr or
// PropertyExpr target is legal; anything else is reported as "invalid
// assignment target" (spec.md §7) but parsing continues with the target
// expression alone so the parser can keep looking for further errors.
func (p *parser) assignment() ast.Expr {
	left := p.ternary()
	if !p.match(token.EQUAL) {
		return left
	}
	line := ast.Line(p.prev.Line)
	value := p.assignment()

	switch left.(type) {
	case *ast.VarExpr, *ast.PropertyExpr:
		return &ast.AssignExpr{Line: line, Target: left, Value: value}
	default:
		p.errorAt(p.prev, "invalid assignment target")
		return left
	}
}

// ternary is `cond ? then : else` (SPEC_FULL.md §C.1).
func (p *parser) ternary() ast.Expr {
	cond := p.or()
	if !p.match(token.QUESTION) {
		return cond
	}
	line := ast.Line(p.prev.Line)
	then := p.expression()
	p.expect(token.COLON, "expected ':' in ternary expression")
	els := p.ternary()
	return &ast.TernaryExpr{Line: line, Cond: cond, Then: then, Else: els}
}

func (p *parser) or() ast.Expr {
	left := p.and()
	for p.match(token.OR) {
		line := ast.Line(p.prev.Line)
		right := p.and()
		left = &ast.OrExpr{Line: line, Left: left, Right: right}
	}
	return left
}

func (p *parser) and() ast.Expr {
	left := p.equality()
	for p.match(token.AND) {
		line := ast.Line(p.prev.Line)
		right := p.equality()
		left = &ast.AndExpr{Line: line, Left: left, Right: right}
	}
	return left
}

func (p *parser) equality() ast.Expr {
	left := p.comparison()
	for p.check(token.EQUAL_EQUAL) || p.check(token.BANG_EQUAL) {
		op := p.cur.Kind
		p.advance()
		line := ast.Line(p.prev.Line)
		right := p.comparison()
		left = &ast.BinaryExpr{Line: line, Op: op, Left: left, Right: right}
	}
	return left
}

func (p *parser) comparison() ast.Expr {
	left := p.term()
	for p.check(token.LESS) || p.check(token.LESS_EQUAL) ||
		p.check(token.GREATER) || p.check(token.GREATER_EQUAL) {
		op := p.cur.Kind
		p.advance()
		line := ast.Line(p.prev.Line)
		right := p.term()
		left = &ast.BinaryExpr{Line: line, Op: op, Left: left, Right: right}
	}
	return left
}

func (p *parser) term() ast.Expr {
	left := p.factor()
	for p.check(token.PLUS) || p.check(token.MINUS) {
		op := p.cur.Kind
		p.advance()
		line := ast.Line(p.prev.Line)
		right := p.factor()
		left = &ast.BinaryExpr{Line: line, Op: op, Left: left, Right: right}
	}
	return left
}

func (p *parser) factor() ast.Expr {
	left := p.unary()
	for p.check(token.STAR) || p.check(token.SLASH) {
		op := p.cur.Kind
		p.advance()
		line := ast.Line(p.prev.Line)
		right := p.unary()
		left = &ast.BinaryExpr{Line: line, Op: op, Left: left, Right: right}
	}
	return left
}

func (p *parser) unary() ast.Expr {
	if p.check(token.BANG) || p.check(token.MINUS) {
		op := p.cur.Kind
		p.advance()
		line := ast.Line(p.prev.Line)
		x := p.unary()
		return &ast.UnaryExpr{Line: line, Op: op, X: x}
	}
	return p.call()
}

func (p *parser) call() ast.Expr {
	x := p.primary()
	for {
		switch {
		case p.match(token.LPAREN):
			x = p.finishCall(x)
		case p.match(token.DOT):
			line := ast.Line(p.prev.Line)
			name := p.expect(token.IDENT, "expected property name after '.'").Lexeme
			x = &ast.PropertyExpr{Line: line, X: x, Name: name}
		default:
			return x
		}
	}
}

func (p *parser) finishCall(callee ast.Expr) ast.Expr {
	line := ast.Line(p.prev.Line)
	var args []ast.Expr
	if !p.check(token.RPAREN) {
		for {
			if len(args) >= 255 {
				p.errorAtCurrent("can't have more than 255 arguments")
			}
			args = append(args, p.expression())
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.expect(token.RPAREN, "expected ')' after arguments")
	return &ast.CallExpr{Line: line, Callee: callee, Args: args}
}

func (p *parser) primary() ast.Expr {
	if p.check(token.TEMPLATE_HEAD) || p.check(token.TEMPLATE_TAIL) {
		p.advance()
		return p.templateExpr()
	}

	switch {
	case p.match(token.NUMBER):
		return &ast.NumberExpr{Line: ast.Line(p.prev.Line), Value: p.prev.Number}
	case p.match(token.STRING):
		return &ast.StringExpr{Line: ast.Line(p.prev.Line), Value: p.prev.Lexeme}
	case p.match(token.TRUE):
		return &ast.LiteralExpr{Line: ast.Line(p.prev.Line), Kind: ast.LiteralTrue}
	case p.match(token.FALSE):
		return &ast.LiteralExpr{Line: ast.Line(p.prev.Line), Kind: ast.LiteralFalse}
	case p.match(token.NIL):
		return &ast.LiteralExpr{Line: ast.Line(p.prev.Line), Kind: ast.LiteralNil}
	case p.match(token.THIS):
		return &ast.ThisExpr{Line: ast.Line(p.prev.Line)}
	case p.match(token.SUPER):
		line := ast.Line(p.prev.Line)
		p.expect(token.DOT, "expected '.' after 'super'")
		method := p.expect(token.IDENT, "expected superclass method name").Lexeme
		return &ast.SuperExpr{Line: line, Method: method}
	case p.match(token.IDENT):
		return &ast.VarExpr{Line: ast.Line(p.prev.Line), Name: p.prev.Lexeme}
	case p.match(token.LPAREN):
		x := p.expression()
		p.expect(token.RPAREN, "expected ')' after expression")
		return x
	default:
		p.errorAtCurrent("expected expression")
		panic(parseError{})
	}
}

// templateExpr parses the spans of a template string (spec.md §4.F.6).
// p.prev is the already-consumed TEMPLATE_HEAD or TEMPLATE_TAIL token
// that opened it; a TEMPLATE_TAIL here means the template had no
// interpolations at all.
func (p *parser) templateExpr() ast.Expr {
	headTok := p.prev
	line := ast.Line(headTok.Line)
	if headTok.Kind == token.TEMPLATE_TAIL {
		return &ast.TemplateExpr{Line: line, Head: headTok.Lexeme}
	}

	head := headTok.Lexeme
	var spans []ast.TemplateSpan
	for {
		x := p.expression()
		if !p.check(token.RBRACE) {
			p.errorAtCurrent("expected '}' after template expression")
			panic(parseError{})
		}
		// The scanner cannot tell on its own that the template's literal
		// text resumes right after this '}' (see lang/scanner's package
		// doc), so the parser hands scanning back to it explicitly instead
		// of calling the ordinary advance/Next path.
		rbrace := p.cur
		p.prev = rbrace
		p.cur = p.sc.ContinueTemplate(rbrace.Line)

		spans = append(spans, ast.TemplateSpan{X: x, Literal: p.cur.Lexeme})
		if p.cur.Kind == token.TEMPLATE_TAIL {
			p.advance()
			break
		}
		p.advance()
	}
	return &ast.TemplateExpr{Line: line, Head: head, Spans: spans}
}
