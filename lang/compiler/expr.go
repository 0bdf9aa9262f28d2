package compiler

import (
	"github.com/Cheese-S/Dojo/lang/ast"
	"github.com/Cheese-S/Dojo/lang/chunk"
	"github.com/Cheese-S/Dojo/lang/token"
	"github.com/Cheese-S/Dojo/lang/value"
)

func (c *compiler) compileExpr(x ast.Expr) {
	switch e := x.(type) {
	case *ast.NumberExpr:
		c.emitConstant(value.Number(e.Value), e.Pos())
	case *ast.StringExpr:
		str := c.h.InternString(e.Value, false)
		c.emitConstant(value.FromObj(str), e.Pos())
	case *ast.LiteralExpr:
		c.compileLiteral(e)
	case *ast.TemplateExpr:
		c.compileTemplate(e)
	case *ast.VarExpr:
		c.compileNamedVariable(e.Name, e.Pos())
	case *ast.ThisExpr:
		c.compileThis(e)
	case *ast.SuperExpr:
		c.compileSuper(e)
	case *ast.AssignExpr:
		c.compileAssign(e)
	case *ast.AndExpr:
		c.compileAnd(e)
	case *ast.OrExpr:
		c.compileOr(e)
	case *ast.TernaryExpr:
		c.compileTernary(e)
	case *ast.UnaryExpr:
		c.compileUnary(e)
	case *ast.BinaryExpr:
		c.compileBinary(e)
	case *ast.CallExpr:
		c.compileCall(e)
	case *ast.PropertyExpr:
		c.compileProperty(e)
	default:
		c.errorAt(x.Pos(), "unsupported expression")
	}
}

func (c *compiler) compileLiteral(e *ast.LiteralExpr) {
	switch e.Kind {
	case ast.LiteralTrue:
		c.emitOp(chunk.TRUE, e.Pos())
	case ast.LiteralFalse:
		c.emitOp(chunk.FALSE, e.Pos())
	default:
		c.emitOp(chunk.NIL, e.Pos())
	}
}

func (c *compiler) compileAnd(e *ast.AndExpr) {
	c.compileExpr(e.Left)
	endJump := c.emitJump(chunk.JUMP_IF_FALSE, e.Pos())
	c.emitOp(chunk.POP, e.Pos())
	c.compileExpr(e.Right)
	c.patchJump(endJump, e.Pos())
}

func (c *compiler) compileOr(e *ast.OrExpr) {
	c.compileExpr(e.Left)
	endJump := c.emitJump(chunk.JUMP_IF_TRUE, e.Pos())
	c.emitOp(chunk.POP, e.Pos())
	c.compileExpr(e.Right)
	c.patchJump(endJump, e.Pos())
}

// compileTernary reuses the if/else jump shape (spec.md §4.F.4).
func (c *compiler) compileTernary(e *ast.TernaryExpr) {
	c.compileExpr(e.Cond)
	thenJump := c.emitJump(chunk.JUMP_IF_FALSE, e.Pos())
	c.emitOp(chunk.POP, e.Pos())
	c.compileExpr(e.Then)
	elseJump := c.emitJump(chunk.JUMP, e.Pos())
	c.patchJump(thenJump, e.Pos())
	c.emitOp(chunk.POP, e.Pos())
	c.compileExpr(e.Else)
	c.patchJump(elseJump, e.Pos())
}

func (c *compiler) compileUnary(e *ast.UnaryExpr) {
	c.compileExpr(e.X)
	switch e.Op {
	case token.MINUS:
		c.emitOp(chunk.NEGATE, e.Pos())
	case token.BANG:
		c.emitOp(chunk.NOT, e.Pos())
	}
}

func (c *compiler) compileBinary(e *ast.BinaryExpr) {
	c.compileExpr(e.Left)
	c.compileExpr(e.Right)
	switch e.Op {
	case token.PLUS:
		c.emitOp(chunk.ADD, e.Pos())
	case token.MINUS:
		c.emitOp(chunk.SUBTRACT, e.Pos())
	case token.STAR:
		c.emitOp(chunk.MULTIPLY, e.Pos())
	case token.SLASH:
		c.emitOp(chunk.DIVIDE, e.Pos())
	case token.EQUAL_EQUAL:
		c.emitOp(chunk.EQUAL, e.Pos())
	case token.BANG_EQUAL:
		c.emitOp(chunk.NOT_EQUAL, e.Pos())
	case token.LESS:
		c.emitOp(chunk.LESS, e.Pos())
	case token.LESS_EQUAL:
		c.emitOp(chunk.LESS_EQUAL, e.Pos())
	case token.GREATER:
		c.emitOp(chunk.GREATER, e.Pos())
	case token.GREATER_EQUAL:
		c.emitOp(chunk.GREATER_EQUAL, e.Pos())
	}
}

func (c *compiler) compileCall(e *ast.CallExpr) {
	// An INVOKE fuses the property lookup and call into one instruction
	// when the callee is itself a property access (spec.md §4.G.3), which
	// is the common `obj.method(args)` shape.
	if prop, ok := e.Callee.(*ast.PropertyExpr); ok {
		c.compileExpr(prop.X)
		nameIdx := c.identifierConstant(prop.Name, e.Pos())
		argc := c.compileArgs(e.Args, e.Pos())
		c.emitOp(chunk.INVOKE, e.Pos())
		c.emitByte(nameIdx, e.Pos())
		c.emitByte(byte(argc), e.Pos())
		return
	}
	if sup, ok := e.Callee.(*ast.SuperExpr); ok {
		// SUPER_INVOKE expects the receiver below the arguments and the
		// superclass on top of them.
		legal := c.compileSuperReceiver(sup.Pos())
		nameIdx := c.identifierConstant(sup.Method, e.Pos())
		argc := c.compileArgs(e.Args, e.Pos())
		if legal {
			c.compileNamedVariable("super", sup.Pos())
		}
		c.emitOp(chunk.SUPER_INVOKE, e.Pos())
		c.emitByte(nameIdx, e.Pos())
		c.emitByte(byte(argc), e.Pos())
		return
	}
	c.compileExpr(e.Callee)
	argc := c.compileArgs(e.Args, e.Pos())
	c.emitBytes(chunk.CALL, byte(argc), e.Pos())
}

func (c *compiler) compileArgs(args []ast.Expr, line token.Pos) int {
	if len(args) > maxArity {
		c.errorAt(line, "can't have more than 255 arguments")
	}
	for _, a := range args {
		c.compileExpr(a)
	}
	return len(args)
}

func (c *compiler) compileProperty(e *ast.PropertyExpr) {
	c.compileExpr(e.X)
	nameIdx := c.identifierConstant(e.Name, e.Pos())
	c.emitBytes(chunk.GET_PROPERTY, nameIdx, e.Pos())
}

func (c *compiler) compileThis(e *ast.ThisExpr) {
	if c.fnType != typeMethod && c.fnType != typeInitializer {
		c.errorAt(e.Pos(), "can't use 'this' outside of a method")
		return
	}
	c.compileNamedVariable("this", e.Pos())
}

// compileSuper compiles a bare `super.method` read (not the call-site
// `super.method(...)` shape, which compileCall fuses into SUPER_INVOKE).
func (c *compiler) compileSuper(e *ast.SuperExpr) {
	nameIdx := c.identifierConstant(e.Method, e.Pos())
	if c.compileSuperReceiver(e.Pos()) {
		c.compileNamedVariable("super", e.Pos())
	}
	c.emitBytes(chunk.GET_SUPER, nameIdx, e.Pos())
}

// compileSuperReceiver checks that `super` is legal here and, if it is,
// pushes `this` (the receiver GET_SUPER/SUPER_INVOKE bind the method to)
// and reports true. The caller then pushes the enclosing class's captured
// superclass, which both instructions expect on top of the stack; for
// SUPER_INVOKE that push comes after the arguments (spec.md §4.G.3).
func (c *compiler) compileSuperReceiver(line token.Pos) bool {
	if c.currentClass == nil {
		c.errorAt(line, "can't use 'super' outside of a class")
		return false
	}
	if !c.currentClass.hasSuper {
		c.errorAt(line, "can't use 'super' in a class with no superclass")
		return false
	}
	c.compileNamedVariable("this", line)
	return true
}

func (c *compiler) compileNamedVariable(name string, line token.Pos) {
	if slot, ok := c.resolveLocal(name, line); ok {
		c.emitBytes(chunk.GET_LOCAL, byte(slot), line)
		return
	}
	if idx, ok := c.resolveUpvalue(name, line); ok {
		c.emitBytes(chunk.GET_UPVALUE, byte(idx), line)
		return
	}
	nameIdx := c.identifierConstant(name, line)
	c.emitBytes(chunk.GET_GLOBAL, nameIdx, line)
}

func (c *compiler) compileAssign(e *ast.AssignExpr) {
	line := e.Pos()
	switch t := e.Target.(type) {
	case *ast.VarExpr:
		c.compileExpr(e.Value)
		if slot, ok := c.resolveLocal(t.Name, line); ok {
			c.emitBytes(chunk.SET_LOCAL, byte(slot), line)
			return
		}
		if idx, ok := c.resolveUpvalue(t.Name, line); ok {
			c.emitBytes(chunk.SET_UPVALUE, byte(idx), line)
			return
		}
		nameIdx := c.identifierConstant(t.Name, line)
		c.emitBytes(chunk.SET_GLOBAL, nameIdx, line)
	case *ast.PropertyExpr:
		c.compileExpr(t.X)
		c.compileExpr(e.Value)
		nameIdx := c.identifierConstant(t.Name, line)
		c.emitBytes(chunk.SET_PROPERTY, nameIdx, line)
	default:
		c.errorAt(line, "invalid assignment target")
	}
}
