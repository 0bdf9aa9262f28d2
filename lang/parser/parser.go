// Package parser implements the recursive-descent, precedence-climbing
// parser that turns a Dojo token stream (lang/scanner) into the AST
// (lang/ast) the compiler consumes as an opaque sum type (spec.md §1,
// §6.1). Parse errors are aggregated the same way scanner errors are
// (go/scanner.ErrorList); a parse failure is signaled out-of-band by
// returning a non-nil error, per spec.md §4.I/§7 ("a parser error causes
// the compiler to abandon codegen").
package parser

import (
	goscanner "go/scanner"
	gotoken "go/token"

	"github.com/Cheese-S/Dojo/lang/ast"
	"github.com/Cheese-S/Dojo/lang/scanner"
	"github.com/Cheese-S/Dojo/lang/token"
)

type (
	Error     = goscanner.Error
	ErrorList = goscanner.ErrorList
)

var PrintError = goscanner.PrintError

// Parse parses a complete source buffer into a Program. Filename is used
// only to label error messages. If any parse error occurred, Parse
// returns a nil Program and a non-nil error holding the ErrorList.
func Parse(filename, src string) (*ast.Program, error) {
	p := &parser{filename: filename}
	p.sc = scanner.New(filename, src, p.errs.Add)
	p.advance()

	var stmts []ast.Stmt
	for !p.check(token.EOF) {
		if s := p.declaration(); s != nil {
			stmts = append(stmts, s)
		}
	}

	p.errs.Sort()
	if len(p.errs) > 0 {
		return nil, p.errs.Err()
	}
	return &ast.Program{Stmts: stmts}, nil
}

// parser holds the mutable state of a single parse. It looks one token
// ahead (cur) and keeps the previously consumed token (prev) so that
// productions can build AST nodes out of the token they just matched.
type parser struct {
	filename string
	sc       *scanner.Scanner
	cur      scanner.Tok
	prev     scanner.Tok
	errs     ErrorList
}

// parseError is the sentinel panicked by expect, primary and templateExpr,
// right after they report an error, to unwind to the nearest
// synchronize point, mirroring the original's error-then-synchronize
// recovery scheme (spec.md §7).
type parseError struct{}

func (p *parser) advance() {
	p.prev = p.cur
	p.cur = p.sc.Next()
}

func (p *parser) check(k token.Token) bool { return p.cur.Kind == k }

func (p *parser) match(k token.Token) bool {
	if !p.check(k) {
		return false
	}
	p.advance()
	return true
}

// expect consumes the current token if it has kind k, or reports msg and
// panics to synchronize.
func (p *parser) expect(k token.Token, msg string) scanner.Tok {
	if p.check(k) {
		t := p.cur
		p.advance()
		return t
	}
	p.errorAtCurrent(msg)
	panic(parseError{})
}

func (p *parser) errorAtCurrent(msg string) { p.errorAt(p.cur, msg) }

func (p *parser) errorAt(t scanner.Tok, msg string) {
	p.errs.Add(gotoken.Position{Filename: p.filename, Line: int(t.Line)}, msg)
}

// synchronize discards tokens until it reaches a position likely to begin
// a new statement, so the parser can keep looking for further errors
// after one is found (spec.md §7).
func (p *parser) synchronize() {
	for !p.check(token.EOF) {
		if p.prev.Kind == token.SEMICOLON || p.cur.NewlineBefore {
			return
		}
		switch p.cur.Kind {
		case token.CLASS, token.FN, token.VAR, token.FOR, token.IF,
			token.WHILE, token.PRINT, token.RETURN, token.BREAK, token.CONTINUE:
			return
		}
		p.advance()
	}
}
