package maincmd

import (
	"context"
	"os"

	"github.com/mna/mainer"

	"github.com/Cheese-S/Dojo/lang/ast"
	"github.com/Cheese-S/Dojo/lang/parser"
	"github.com/Cheese-S/Dojo/lang/scanner"
)

func (c *Cmd) Parse(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return ParseFiles(stdio, args...)
}

// ParseFiles parses each file in turn and prints the resulting AST.
func ParseFiles(stdio mainer.Stdio, files ...string) error {
	printer := ast.Printer{Output: stdio.Stdout}
	var failed error
	for _, path := range files {
		src, err := os.ReadFile(path)
		if err != nil {
			scanner.PrintError(stdio.Stderr, err)
			failed = err
			continue
		}
		prog, err := parser.Parse(path, string(src))
		if err != nil {
			scanner.PrintError(stdio.Stderr, err)
			failed = err
			continue
		}
		if err := printer.Print(prog); err != nil {
			failed = err
		}
	}
	return failed
}
