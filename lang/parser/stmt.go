package parser

import (
	"github.com/Cheese-S/Dojo/lang/ast"
	"github.com/Cheese-S/Dojo/lang/token"
)

// declaration parses one top-level-or-block item, recovering to the next
// statement boundary if a parse error panics out of it (spec.md §7).
func (p *parser) declaration() (s ast.Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseError); !ok {
				panic(r)
			}
			p.synchronize()
			s = nil
		}
	}()

	switch {
	case p.match(token.VAR):
		return p.varDecl()
	case p.match(token.FN):
		return p.fnDecl("function")
	case p.match(token.CLASS):
		return p.classDecl()
	default:
		return p.statement()
	}
}

// atStatementEnd reports whether the current token already sits at a
// valid statement boundary: an explicit ';', a newline crossed since the
// previous token, or the natural close of a block or file (spec.md
// §6.3 — a statement never needs a ';' right before a closing '}').
func (p *parser) atStatementEnd() bool {
	return p.check(token.SEMICOLON) || p.check(token.RBRACE) || p.check(token.EOF) || p.cur.NewlineBefore
}

// endStatement consumes a statement's terminator: an explicit ';' if
// present, otherwise the implicit newline-based terminator spec.md §6.3
// describes ("Statements are terminated by newlines"). context names the
// statement for the error message when neither is found.
func (p *parser) endStatement(context string) {
	if p.match(token.SEMICOLON) {
		return
	}
	if p.atStatementEnd() {
		return
	}
	p.errorAtCurrent("expected newline or ';' " + context)
}

func (p *parser) varDecl() ast.Stmt {
	line := ast.Line(p.prev.Line)
	name := p.expect(token.IDENT, "expected variable name").Lexeme
	var init ast.Expr
	if p.match(token.EQUAL) {
		init = p.expression()
	}
	p.endStatement("after variable declaration")
	return &ast.VarDecl{Line: line, Name: name, Init: init}
}

func (p *parser) fnDecl(kind string) *ast.FnDecl {
	line := ast.Line(p.prev.Line)
	name := p.expect(token.IDENT, "expected "+kind+" name").Lexeme
	p.expect(token.LPAREN, "expected '(' after "+kind+" name")
	var params []string
	if !p.check(token.RPAREN) {
		for {
			if len(params) >= 255 {
				p.errorAtCurrent("can't have more than 255 parameters")
			}
			params = append(params, p.expect(token.IDENT, "expected parameter name").Lexeme)
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.expect(token.RPAREN, "expected ')' after parameters")
	p.expect(token.LBRACE, "expected '{' before "+kind+" body")
	body := p.block()
	return &ast.FnDecl{Line: line, Name: name, Params: params, Body: body}
}

func (p *parser) classDecl() ast.Stmt {
	line := ast.Line(p.prev.Line)
	name := p.expect(token.IDENT, "expected class name").Lexeme

	var super *ast.VarExpr
	if p.match(token.EXTENDS) {
		superTok := p.expect(token.IDENT, "expected superclass name")
		super = &ast.VarExpr{Line: ast.Line(superTok.Line), Name: superTok.Lexeme}
	}

	p.expect(token.LBRACE, "expected '{' before class body")
	var methods []*ast.FnDecl
	for !p.check(token.RBRACE) && !p.check(token.EOF) {
		methods = append(methods, p.fnDecl("method"))
	}
	p.expect(token.RBRACE, "expected '}' after class body")
	return &ast.ClassDecl{Line: line, Name: name, Super: super, Methods: methods}
}

func (p *parser) statement() ast.Stmt {
	switch {
	case p.match(token.LBRACE):
		line := ast.Line(p.prev.Line)
		return &ast.BlockStmt{Line: line, Stmts: p.block()}
	case p.match(token.IF):
		return p.ifStmt()
	case p.match(token.WHILE):
		return p.whileStmt()
	case p.match(token.FOR):
		return p.forStmt()
	case p.match(token.PRINT):
		return p.printStmt()
	case p.match(token.RETURN):
		return p.returnStmt()
	case p.match(token.BREAK):
		line := ast.Line(p.prev.Line)
		p.endStatement("after 'break'")
		return &ast.BreakStmt{Line: line}
	case p.match(token.CONTINUE):
		line := ast.Line(p.prev.Line)
		p.endStatement("after 'continue'")
		return &ast.ContinueStmt{Line: line}
	default:
		return p.exprStmt()
	}
}

func (p *parser) block() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.check(token.RBRACE) && !p.check(token.EOF) {
		if s := p.declaration(); s != nil {
			stmts = append(stmts, s)
		}
	}
	p.expect(token.RBRACE, "expected '}' after block")
	return stmts
}

func (p *parser) ifStmt() ast.Stmt {
	line := ast.Line(p.prev.Line)
	p.expect(token.LPAREN, "expected '(' after 'if'")
	cond := p.expression()
	p.expect(token.RPAREN, "expected ')' after condition")
	then := p.statement()
	var els ast.Stmt
	if p.match(token.ELSE) {
		els = p.statement()
	}
	return &ast.IfStmt{Line: line, Cond: cond, Then: then, Else: els}
}

func (p *parser) whileStmt() ast.Stmt {
	line := ast.Line(p.prev.Line)
	p.expect(token.LPAREN, "expected '(' after 'while'")
	cond := p.expression()
	p.expect(token.RPAREN, "expected ')' after condition")
	body := p.statement()
	return &ast.WhileStmt{Line: line, Cond: cond, Body: body}
}

// forStmt's clauses are separated by the C-style literal ';' of the
// `for (init; cond; incr)` header, not by spec.md §6.3's statement
// terminator — reusing varDecl/exprStmt here still works because
// endStatement always accepts an explicit ';' first, which is exactly
// what a well-formed header supplies on this one line.
func (p *parser) forStmt() ast.Stmt {
	line := ast.Line(p.prev.Line)
	p.expect(token.LPAREN, "expected '(' after 'for'")

	var init ast.Stmt
	switch {
	case p.match(token.SEMICOLON):
		// no initializer
	case p.match(token.VAR):
		init = p.varDecl()
	default:
		init = p.exprStmt()
	}

	var cond ast.Expr
	if !p.check(token.SEMICOLON) {
		cond = p.expression()
	}
	p.expect(token.SEMICOLON, "expected ';' after loop condition")

	var incr ast.Expr
	if !p.check(token.RPAREN) {
		incr = p.expression()
	}
	p.expect(token.RPAREN, "expected ')' after for clauses")

	body := p.statement()
	return &ast.ForStmt{Line: line, Init: init, Cond: cond, Incr: incr, Body: body}
}

func (p *parser) printStmt() ast.Stmt {
	line := ast.Line(p.prev.Line)
	x := p.expression()
	p.endStatement("after value")
	return &ast.PrintStmt{Line: line, X: x}
}

func (p *parser) returnStmt() ast.Stmt {
	line := ast.Line(p.prev.Line)
	var x ast.Expr
	if !p.atStatementEnd() {
		x = p.expression()
	}
	p.endStatement("after return value")
	return &ast.ReturnStmt{Line: line, X: x}
}

func (p *parser) exprStmt() ast.Stmt {
	line := ast.Line(p.cur.Line)
	x := p.expression()
	p.endStatement("after expression")
	return &ast.ExpressionStmt{Line: line, X: x}
}
