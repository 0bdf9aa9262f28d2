package compiler

import (
	"github.com/Cheese-S/Dojo/lang/ast"
	"github.com/Cheese-S/Dojo/lang/chunk"
	"github.com/Cheese-S/Dojo/lang/object"
	"github.com/Cheese-S/Dojo/lang/token"
)

func (c *compiler) compileStmt(s ast.Stmt) {
	switch st := s.(type) {
	case *ast.VarDecl:
		c.compileVarDecl(st)
	case *ast.FnDecl:
		c.compileFnDecl(st)
	case *ast.ClassDecl:
		c.compileClassDecl(st)
	case *ast.BlockStmt:
		c.beginScope()
		for _, inner := range st.Stmts {
			c.compileStmt(inner)
		}
		c.endScope(st.Pos())
	case *ast.ExpressionStmt:
		c.compileExpr(st.X)
		c.emitOp(chunk.POP, st.Pos())
	case *ast.PrintStmt:
		// PRINT has no dedicated opcode (spec.md §6.1's "may be expressed
		// as a native call in alternative realizations"); it desugars to
		// a call to the native print() registered at startup (spec.md
		// §4.H), so the parser need not special-case call syntax for it.
		nameIdx := c.identifierConstant("print", st.Pos())
		c.emitBytes(chunk.GET_GLOBAL, nameIdx, st.Pos())
		c.compileExpr(st.X)
		c.emitBytes(chunk.CALL, 1, st.Pos())
		c.emitOp(chunk.POP, st.Pos())
	case *ast.IfStmt:
		c.compileIf(st)
	case *ast.WhileStmt:
		c.compileWhile(st)
	case *ast.ForStmt:
		c.compileFor(st)
	case *ast.ReturnStmt:
		c.compileReturn(st)
	case *ast.BreakStmt:
		c.compileBreak(st)
	case *ast.ContinueStmt:
		c.compileContinue(st)
	default:
		c.errorAt(s.Pos(), "unsupported statement")
	}
}

func (c *compiler) compileVarDecl(st *ast.VarDecl) {
	c.declareVariable(st.Name, st.Pos())
	if st.Init != nil {
		c.compileExpr(st.Init)
	} else {
		c.emitOp(chunk.NIL, st.Pos())
	}
	c.defineVariable(st.Name, st.Pos())
}

// defineVariable makes the just-declared variable visible: for a local,
// that is simply marking it initialized (the value is already sitting in
// its stack slot); for a global, it emits DEFINE_GLOBAL to install it by
// name (spec.md §4.F.3).
func (c *compiler) defineVariable(name string, line token.Pos) {
	if c.scopeDepth > 0 {
		c.markInitialized()
		return
	}
	nameIdx := c.identifierConstant(name, line)
	c.emitBytes(chunk.DEFINE_GLOBAL, nameIdx, line)
}

func (c *compiler) compileIf(st *ast.IfStmt) {
	c.compileExpr(st.Cond)
	thenJump := c.emitJump(chunk.JUMP_IF_FALSE, st.Pos())
	c.emitOp(chunk.POP, st.Pos())
	c.compileStmt(st.Then)

	elseJump := c.emitJump(chunk.JUMP, st.Pos())
	c.patchJump(thenJump, st.Pos())
	c.emitOp(chunk.POP, st.Pos())
	if st.Else != nil {
		c.compileStmt(st.Else)
	}
	c.patchJump(elseJump, st.Pos())
}

func (c *compiler) compileWhile(st *ast.WhileStmt) {
	loopStart := len(c.fn.Chunk.Code)
	c.loop = &loop{outer: c.loop, start: loopStart, continueTarget: loopStart, depth: c.scopeDepth}

	c.compileExpr(st.Cond)
	exitJump := c.emitJump(chunk.JUMP_IF_FALSE, st.Pos())
	c.emitOp(chunk.POP, st.Pos())
	c.compileStmt(st.Body)
	c.emitLoop(loopStart, st.Pos())

	c.patchJump(exitJump, st.Pos())
	c.emitOp(chunk.POP, st.Pos())
	c.endLoop(st.Pos())
}

func (c *compiler) compileFor(st *ast.ForStmt) {
	c.beginScope()
	if st.Init != nil {
		c.compileStmt(st.Init)
	}

	loopStart := len(c.fn.Chunk.Code)
	l := &loop{outer: c.loop, start: loopStart, continueTarget: loopStart, depth: c.scopeDepth}
	c.loop = l

	exitJump := -1
	if st.Cond != nil {
		c.compileExpr(st.Cond)
		exitJump = c.emitJump(chunk.JUMP_IF_FALSE, st.Pos())
		c.emitOp(chunk.POP, st.Pos())
	}

	if st.Incr != nil {
		// The increment is compiled once, up front, then jumped over so
		// the body runs first; the body's backward edge lands here and
		// falls into it, and the whole loop's backward edge jumps back to
		// loopStart to re-check the condition (classic clox for-desugar).
		bodyJump := c.emitJump(chunk.JUMP, st.Pos())
		incrStart := len(c.fn.Chunk.Code)
		l.continueTarget = incrStart
		c.compileExpr(st.Incr)
		c.emitOp(chunk.POP, st.Pos())
		c.emitLoop(loopStart, st.Pos())
		loopStart = incrStart
		c.patchJump(bodyJump, st.Pos())
	}

	c.compileStmt(st.Body)
	c.emitLoop(loopStart, st.Pos())

	if exitJump != -1 {
		c.patchJump(exitJump, st.Pos())
		c.emitOp(chunk.POP, st.Pos())
	}
	c.endLoop(st.Pos())
	c.endScope(st.Pos())
}

// endLoop patches every break recorded against the innermost loop and
// pops it off the loop stack.
func (c *compiler) endLoop(line token.Pos) {
	for _, j := range c.loop.breakJumps {
		c.patchJump(j, line)
	}
	c.loop = c.loop.outer
}

func (c *compiler) compileBreak(st *ast.BreakStmt) {
	if c.loop == nil {
		c.errorAt(st.Pos(), "can't use 'break' outside of a loop")
		return
	}
	c.discardLocalsAbove(c.loop.depth, st.Pos())
	j := c.emitJump(chunk.JUMP, st.Pos())
	c.loop.breakJumps = append(c.loop.breakJumps, j)
}

func (c *compiler) compileContinue(st *ast.ContinueStmt) {
	if c.loop == nil {
		c.errorAt(st.Pos(), "can't use 'continue' outside of a loop")
		return
	}
	c.discardLocalsAbove(c.loop.depth, st.Pos())
	c.emitLoop(c.loop.continueTarget, st.Pos())
}

// discardLocalsAbove pops (without touching scopeDepth or c.locals) every
// local declared deeper than depth, so `break`/`continue` leave the
// operand stack balanced despite jumping out of nested blocks.
func (c *compiler) discardLocalsAbove(depth int, line token.Pos) {
	n := 0
	for i := len(c.locals) - 1; i >= 0 && c.locals[i].depth > depth; i-- {
		n++
	}
	c.emitPopN(n, line)
}

func (c *compiler) compileReturn(st *ast.ReturnStmt) {
	if c.fnType == typeScript {
		c.errorAt(st.Pos(), "can't return from top-level code")
	}
	if st.X == nil {
		c.emitReturn(st.Pos())
		return
	}
	if c.fnType == typeInitializer {
		c.errorAt(st.Pos(), "can't return a value from an initializer")
	}
	c.compileExpr(st.X)
	c.emitOp(chunk.RETURN, st.Pos())
}

func (c *compiler) compileFnDecl(st *ast.FnDecl) {
	c.declareVariable(st.Name, st.Pos())
	c.markInitialized()
	fn, upvals := c.compileFunction(st, typeFunction)
	c.emitClosure(fn, upvals, st.Pos())
	c.defineVariable(st.Name, st.Pos())
}

// compileFunction compiles st's body in a fresh nested compiler and
// returns the resulting ObjFn together with its upvalue capture
// descriptors, for the caller to emit a CLOSURE instruction with
// (spec.md §4.F.5).
func (c *compiler) compileFunction(st *ast.FnDecl, t fnType) (*object.ObjFn, []upvalue) {
	inner := newCompiler(c.h, c, t, c.filename, c.errs, st.Name)
	inner.fn.Arity = len(st.Params)
	c.h.Register(inner)

	inner.beginScope()
	for _, p := range st.Params {
		inner.declareVariable(p, st.Pos())
		inner.markInitialized()
	}
	for _, bodyStmt := range st.Body {
		inner.compileStmt(bodyStmt)
	}
	fn := inner.finish()

	c.h.Unregister(inner)
	return fn, inner.upvalues
}

func (c *compiler) compileClassDecl(st *ast.ClassDecl) {
	nameIdx := c.identifierConstant(st.Name, st.Pos())
	c.declareVariable(st.Name, st.Pos())
	c.emitBytes(chunk.CLASS, nameIdx, st.Pos())
	c.defineVariable(st.Name, st.Pos())

	cs := &classState{enclosing: c.currentClass}
	c.currentClass = cs

	if st.Super != nil {
		if st.Super.Name == st.Name {
			c.errorAt(st.Pos(), "a class can't inherit from itself")
		}
		c.compileNamedVariable(st.Super.Name, st.Pos())

		c.beginScope()
		c.addLocal("super", st.Pos())
		c.markInitialized()

		c.compileNamedVariable(st.Name, st.Pos())
		c.emitOp(chunk.INHERIT, st.Pos())
		cs.hasSuper = true
	}

	c.compileNamedVariable(st.Name, st.Pos())
	for _, m := range st.Methods {
		c.compileMethod(m)
	}
	c.emitOp(chunk.POP, st.Pos())

	if cs.hasSuper {
		c.endScope(st.Pos())
	}
	c.currentClass = cs.enclosing
}

func (c *compiler) compileMethod(m *ast.FnDecl) {
	nameIdx := c.identifierConstant(m.Name, m.Pos())
	t := typeMethod
	if m.Name == "init" {
		t = typeInitializer
	}
	fn, upvals := c.compileFunction(m, t)
	c.emitClosure(fn, upvals, m.Pos())
	c.emitBytes(chunk.METHOD, nameIdx, m.Pos())
}
