package compiler

import (
	"github.com/Cheese-S/Dojo/lang/chunk"
	"github.com/Cheese-S/Dojo/lang/token"
)

func (c *compiler) beginScope() { c.scopeDepth++ }

// endScope pops every local declared at the scope being closed, closing
// any of them that was captured by a nested closure as it goes (spec.md
// §4.F.1, §4.G.4). It emits a single POPN where none of the discarded
// locals were captured, since CLOSE_UPVALUE is only needed to detach a
// captured slot from the stack before it goes out of scope.
func (c *compiler) endScope(line token.Pos) {
	c.scopeDepth--
	n := 0
	for len(c.locals) > 0 && c.locals[len(c.locals)-1].depth > c.scopeDepth {
		last := c.locals[len(c.locals)-1]
		if last.isCaptured {
			if n > 0 {
				c.emitPopN(n, line)
				n = 0
			}
			c.emitOp(chunk.CLOSE_UPVALUE, line)
		} else {
			n++
		}
		c.locals = c.locals[:len(c.locals)-1]
	}
	if n > 0 {
		c.emitPopN(n, line)
	}
}

func (c *compiler) emitPopN(n int, line token.Pos) {
	if n == 1 {
		c.emitOp(chunk.POP, line)
		return
	}
	for n > 0xff {
		c.emitBytes(chunk.POPN, 0xff, line)
		n -= 0xff
	}
	if n > 0 {
		c.emitBytes(chunk.POPN, byte(n), line)
	}
}

// declareVariable adds name as a new local in the current scope, or
// reports a duplicate-declaration error if a local of the same name was
// already declared at this exact depth (spec.md §4.F.1, §7). It is a
// no-op at global scope, where variables are resolved by name at
// runtime instead of by slot.
func (c *compiler) declareVariable(name string, line token.Pos) {
	if c.scopeDepth == 0 {
		return
	}
	for i := len(c.locals) - 1; i >= 0; i-- {
		l := c.locals[i]
		if l.depth != localUninitialized && l.depth < c.scopeDepth {
			break
		}
		if l.name == name {
			c.errorAt(line, "already a variable named %q in this scope", name)
		}
	}
	c.addLocal(name, line)
}

func (c *compiler) addLocal(name string, line token.Pos) {
	if len(c.locals) >= maxLocals {
		c.errorAt(line, "too many local variables in function")
		return
	}
	c.locals = append(c.locals, local{name: name, depth: localUninitialized})
}

// markInitialized promotes the most recently declared local from
// "uninitialized" to the current scope depth, making it visible to
// subsequent name resolution. At global scope (depth 0) it does nothing:
// globals are not locals, and a top-level function reaches itself for
// recursion by name through its global once DEFINE_GLOBAL has run.
func (c *compiler) markInitialized() {
	if c.scopeDepth == 0 {
		return
	}
	c.locals[len(c.locals)-1].depth = c.scopeDepth
}

// resolveLocal finds name among the current function's locals, searching
// innermost-first so shadowing resolves correctly. ok is false if no
// local binds name (the caller should then try resolveUpvalue, then
// fall back to a global).
func (c *compiler) resolveLocal(name string, line token.Pos) (slot int, ok bool) {
	for i := len(c.locals) - 1; i >= 0; i-- {
		if c.locals[i].name == name {
			if c.locals[i].depth == localUninitialized {
				c.errorAt(line, "can't read local variable %q in its own initializer", name)
			}
			return i, true
		}
	}
	return 0, false
}

// resolveUpvalue resolves name as a capture of an enclosing function's
// local (or, transitively, the enclosing function's own upvalue),
// walking outward one enclosing scope at a time (spec.md §4.F.2). It
// marks the captured enclosing local so its scope exit knows to close
// it rather than just popping it.
func (c *compiler) resolveUpvalue(name string, line token.Pos) (idx int, ok bool) {
	if c.enclosing == nil {
		return 0, false
	}
	if slot, found := c.enclosing.resolveLocal(name, line); found {
		c.enclosing.locals[slot].isCaptured = true
		return c.addUpvalue(slot, true, line), true
	}
	if outerIdx, found := c.enclosing.resolveUpvalue(name, line); found {
		return c.addUpvalue(outerIdx, false, line), true
	}
	return 0, false
}

// addUpvalue records a capture descriptor, deduping against any upvalue
// already recorded for the same (index, isLocal) pair so repeated
// references inside one function share a single upvalue slot (spec.md
// §4.F.2).
func (c *compiler) addUpvalue(index int, isLocal bool, line token.Pos) int {
	for i, uv := range c.upvalues {
		if uv.index == index && uv.isLocal == isLocal {
			return i
		}
	}
	if len(c.upvalues) >= maxUpvalues {
		c.errorAt(line, "too many closure variables in function")
		return 0
	}
	c.upvalues = append(c.upvalues, upvalue{index: index, isLocal: isLocal})
	c.fn.UpvalueCount = len(c.upvalues)
	return len(c.upvalues) - 1
}
