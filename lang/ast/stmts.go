package ast

import "github.com/Cheese-S/Dojo/lang/token"

// VarDecl is `var name = init` (init may be nil, defaulting to nil at
// runtime).
type VarDecl struct {
	Line Line
	Name string
	Init Expr
}

// FnDecl is a function (or method) declaration: `fn name(params) { body }`.
// Methods reuse FnDecl with an implicit receiver in slot 0 (§4.F.1,
// SPEC_FULL.md §C.2); Name is empty for none (never for declarations, only
// function *expressions*, which Dojo does not have — every Dojo function is
// declared with a name).
type FnDecl struct {
	Line   Line
	Name   string
	Params []string
	Body   []Stmt
}

// ClassDecl is `class Name [extends Super] { methods... }`.
type ClassDecl struct {
	Line    Line
	Name    string
	Super   *VarExpr // nil if no `extends` clause
	Methods []*FnDecl
}

// BlockStmt is `{ stmts... }`, introducing a new lexical scope.
type BlockStmt struct {
	Line  Line
	Stmts []Stmt
}

// ExpressionStmt evaluates an expression for its side effects and discards
// the result.
type ExpressionStmt struct {
	Line Line
	X    Expr
}

// PrintStmt is `print expr`. The core VM treats it as sugar for a call to
// the native `print` function (§1); kept as a first-class statement here so
// the parser need not special-case function-call syntax for it.
type PrintStmt struct {
	Line Line
	X    Expr
}

// ReturnStmt is `return [expr]`. X is nil for a bare `return`.
type ReturnStmt struct {
	Line Line
	X    Expr
}

// IfStmt is `if (cond) then [else else]`.
type IfStmt struct {
	Line Line
	Cond Expr
	Then Stmt
	Else Stmt // nil if no else clause
}

// WhileStmt is `while (cond) body`.
type WhileStmt struct {
	Line Line
	Cond Expr
	Body Stmt
}

// ForStmt is `for (init; cond; incr) body`. Init, Cond and Incr may each be
// nil if the corresponding clause was omitted.
type ForStmt struct {
	Line Line
	Init Stmt // *VarDecl or *ExpressionStmt, or nil
	Cond Expr
	Incr Expr
	Body Stmt
}

// BreakStmt is `break`.
type BreakStmt struct{ Line Line }

// ContinueStmt is `continue`.
type ContinueStmt struct{ Line Line }

// Line is embedded by every concrete statement node to provide Pos().
type Line token.Pos

func (l Line) Pos() token.Pos { return token.Pos(l) }

func (*VarDecl) stmtNode()        {}
func (*FnDecl) stmtNode()         {}
func (*ClassDecl) stmtNode()      {}
func (*BlockStmt) stmtNode()      {}
func (*ExpressionStmt) stmtNode() {}
func (*PrintStmt) stmtNode()      {}
func (*ReturnStmt) stmtNode()     {}
func (*IfStmt) stmtNode()         {}
func (*WhileStmt) stmtNode()      {}
func (*ForStmt) stmtNode()        {}
func (*BreakStmt) stmtNode()      {}
func (*ContinueStmt) stmtNode()   {}

func (n *VarDecl) Pos() token.Pos        { return n.Line.Pos() }
func (n *FnDecl) Pos() token.Pos         { return n.Line.Pos() }
func (n *ClassDecl) Pos() token.Pos      { return n.Line.Pos() }
func (n *BlockStmt) Pos() token.Pos      { return n.Line.Pos() }
func (n *ExpressionStmt) Pos() token.Pos { return n.Line.Pos() }
func (n *PrintStmt) Pos() token.Pos      { return n.Line.Pos() }
func (n *ReturnStmt) Pos() token.Pos     { return n.Line.Pos() }
func (n *IfStmt) Pos() token.Pos         { return n.Line.Pos() }
func (n *WhileStmt) Pos() token.Pos      { return n.Line.Pos() }
func (n *ForStmt) Pos() token.Pos        { return n.Line.Pos() }
func (n *BreakStmt) Pos() token.Pos      { return n.Line.Pos() }
func (n *ContinueStmt) Pos() token.Pos   { return n.Line.Pos() }
