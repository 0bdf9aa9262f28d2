// Package ast defines the abstract syntax tree produced by the parser and
// consumed, as an opaque sum type, by the compiler. The scanner and parser
// that build this tree are external collaborators of the core VM (see
// spec.md §1, §6.1); this package only fixes the shape of their output.
package ast

import "github.com/Cheese-S/Dojo/lang/token"

// Node is implemented by every AST node. Pos returns the source line the
// node starts on, used for compile error messages and Chunk line tables.
type Node interface {
	Pos() token.Pos
}

// Stmt is implemented by every statement-level node (§6.1).
type Stmt interface {
	Node
	stmtNode()
}

// Expr is implemented by every expression-level node (§6.1).
type Expr interface {
	Node
	exprNode()
}

// Program is the root of a parsed source file: a flat statement list.
type Program struct {
	Stmts []Stmt
}

func (p *Program) Pos() token.Pos {
	if len(p.Stmts) == 0 {
		return token.NoPos
	}
	return p.Stmts[0].Pos()
}
