package maincmd

import (
	"context"
	"fmt"
	"os"

	goscanner "go/scanner"

	"github.com/mna/mainer"

	"github.com/Cheese-S/Dojo/lang/scanner"
	"github.com/Cheese-S/Dojo/lang/token"
)

func (c *Cmd) Tokenize(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return TokenizeFiles(stdio, args...)
}

// TokenizeFiles scans each file in turn and prints one line per token:
// "<line>: <kind> <lexeme>". Template-string interpolations are the one
// place Next alone can't drive the scan (lang/scanner's package doc): a
// bare brace-depth counter reproduces the parser's cooperative
// Next/ContinueTemplate handoff closely enough for a debug dump, since
// Dojo expressions never contain an unbalanced '{'.
func TokenizeFiles(stdio mainer.Stdio, files ...string) error {
	var failed error
	for _, path := range files {
		src, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(stdio.Stderr, "%s: %s\n", path, err)
			failed = err
			continue
		}
		if err := tokenizeSource(stdio, path, string(src)); err != nil {
			failed = err
		}
	}
	return failed
}

func tokenizeSource(stdio mainer.Stdio, filename, src string) error {
	var errs goscanner.ErrorList
	sc := scanner.New(filename, src, errs.Add)

	var tmplBraceDepth []int
	for {
		tok := sc.Next()
		if n := len(tmplBraceDepth); n > 0 && tok.Kind == token.RBRACE && tmplBraceDepth[n-1] == 0 {
			// This '}' closes the interpolation: print it, then hand
			// scanning back to the template fragment that follows it.
			fmt.Fprintf(stdio.Stdout, "%d: %s\n", tok.Line, tok.Kind)
			tok = sc.ContinueTemplate(tok.Line)
			tmplBraceDepth = tmplBraceDepth[:n-1]
		}

		switch tok.Kind {
		case token.TEMPLATE_HEAD, token.TEMPLATE_SPAN:
			tmplBraceDepth = append(tmplBraceDepth, 0)
		case token.LBRACE:
			if n := len(tmplBraceDepth); n > 0 {
				tmplBraceDepth[n-1]++
			}
		case token.RBRACE:
			if n := len(tmplBraceDepth); n > 0 {
				tmplBraceDepth[n-1]--
			}
		}

		if tok.Lexeme != "" {
			fmt.Fprintf(stdio.Stdout, "%d: %s %q\n", tok.Line, tok.Kind, tok.Lexeme)
		} else {
			fmt.Fprintf(stdio.Stdout, "%d: %s\n", tok.Line, tok.Kind)
		}
		if tok.Kind == token.EOF {
			break
		}
	}

	errs.Sort()
	if len(errs) > 0 {
		scanner.PrintError(stdio.Stderr, errs)
		return &errs
	}
	return nil
}
