package scanner_test

import (
	gotoken "go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cheese-S/Dojo/lang/scanner"
	"github.com/Cheese-S/Dojo/lang/token"
)

func scanAll(t *testing.T, src string) ([]scanner.Tok, []string) {
	t.Helper()
	var errs []string
	sc := scanner.New("<test>", src, func(pos gotoken.Position, msg string) {
		errs = append(errs, msg)
	})
	var toks []scanner.Tok
	for {
		tok := sc.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return toks, errs
}

func kinds(toks []scanner.Tok) []token.Token {
	ks := make([]token.Token, len(toks))
	for i, tk := range toks {
		ks[i] = tk.Kind
	}
	return ks
}

func TestScannerBasicTokens(t *testing.T) {
	toks, errs := scanAll(t, "var x = 1 + 2")
	assert.Empty(t, errs)
	assert.Equal(t, []token.Token{
		token.VAR, token.IDENT, token.EQUAL, token.NUMBER, token.PLUS, token.NUMBER, token.EOF,
	}, kinds(toks))
}

func TestScannerNumberLiteral(t *testing.T) {
	toks, errs := scanAll(t, "3.14")
	require.Empty(t, errs)
	require.Len(t, toks, 2)
	assert.Equal(t, token.NUMBER, toks[0].Kind)
	assert.Equal(t, 3.14, toks[0].Number)
}

func TestScannerStringLiteral(t *testing.T) {
	toks, errs := scanAll(t, `"hello\nworld"`)
	require.Empty(t, errs)
	require.Len(t, toks, 2)
	assert.Equal(t, token.STRING, toks[0].Kind)
	assert.Equal(t, "hello\nworld", toks[0].Lexeme)
}

func TestScannerKeywordsAndIdentifiers(t *testing.T) {
	toks, errs := scanAll(t, "class fn if else return this super nil true false foo")
	assert.Empty(t, errs)
	assert.Equal(t, []token.Token{
		token.CLASS, token.FN, token.IF, token.ELSE, token.RETURN,
		token.THIS, token.SUPER, token.NIL, token.TRUE, token.FALSE, token.IDENT, token.EOF,
	}, kinds(toks))
}

func TestScannerTemplateHeadAndTail(t *testing.T) {
	var errs []string
	sc := scanner.New("<test>", "`hi ${x}`", func(pos gotoken.Position, msg string) {
		errs = append(errs, msg)
	})
	// Next scans the interpolation's closing '}' as a plain RBRACE; the
	// caller then hands back to the scanner with ContinueTemplate, as the
	// parser does, to scan the closing fragment.
	toks := []scanner.Tok{sc.Next(), sc.Next(), sc.Next()}
	toks = append(toks, sc.ContinueTemplate(toks[2].Line))
	require.Empty(t, errs)
	var sawHead, sawTail bool
	for _, tk := range toks {
		if tk.Kind == token.TEMPLATE_HEAD {
			sawHead = true
		}
		if tk.Kind == token.TEMPLATE_TAIL {
			sawTail = true
		}
	}
	assert.True(t, sawHead)
	assert.True(t, sawTail)
}

func TestScannerUnterminatedStringReportsError(t *testing.T) {
	_, errs := scanAll(t, `"unterminated`)
	require.NotEmpty(t, errs)
}

func TestScannerLineTracking(t *testing.T) {
	toks, errs := scanAll(t, "var x\nvar y")
	require.Empty(t, errs)
	var line1, line2 token.Pos
	for _, tk := range toks {
		if tk.Kind == token.IDENT && tk.Lexeme == "x" {
			line1 = tk.Line
		}
		if tk.Kind == token.IDENT && tk.Lexeme == "y" {
			line2 = tk.Line
		}
	}
	assert.Equal(t, token.Pos(1), line1)
	assert.Equal(t, token.Pos(2), line2)
}
