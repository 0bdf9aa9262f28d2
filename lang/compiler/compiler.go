// Package compiler implements Dojo's single-pass compiler: it walks the
// parsed AST (lang/ast) exactly once, resolving every variable reference
// to a local slot, an upvalue slot, or a global name as it goes, and
// emits bytecode (lang/chunk) directly — there is no separate resolve
// pass and no intermediate IR (spec.md §1, §4.F).
package compiler

import (
	"fmt"
	goscanner "go/scanner"
	gotoken "go/token"

	"github.com/dolthub/swiss"

	"github.com/Cheese-S/Dojo/lang/ast"
	"github.com/Cheese-S/Dojo/lang/chunk"
	"github.com/Cheese-S/Dojo/lang/heap"
	"github.com/Cheese-S/Dojo/lang/object"
	"github.com/Cheese-S/Dojo/lang/token"
)

type (
	Error     = goscanner.Error
	ErrorList = goscanner.ErrorList
)

var PrintError = goscanner.PrintError

const (
	maxLocals   = 256 // spec.md §3 LocalState cap, §5 bound
	maxUpvalues = 256
	maxArity    = 255
	maxJump     = 1<<16 - 1
)

// fnType discriminates why a Compiler exists, since method bodies and
// initializers resolve `this`/`return` slightly differently from plain
// functions and the top-level script (spec.md §4.F.5, §4.F.7).
type fnType int

const (
	typeScript fnType = iota
	typeFunction
	typeMethod
	typeInitializer
)

// local is a compile-time binding (spec.md §3 "Local"). depth is
// localUninitialized between a variable's declaration and its
// initializer finishing, which is how `var x = x` is rejected.
type local struct {
	name       string
	depth      int
	isCaptured bool
}

const localUninitialized = -1

// upvalue is a compile-time capture descriptor (spec.md §3 "Upvalue").
type upvalue struct {
	index   int
	isLocal bool
}

// classState tracks the class declaration currently being compiled,
// chained through any enclosing class declaration, so nested method
// bodies can tell whether `super` is legal (spec.md §4.F.5, §7).
type classState struct {
	enclosing *classState
	hasSuper  bool
}

// loop tracks the innermost enclosing loop's back-edge target and scope
// depth, chained to any loop it is nested inside (spec.md §3
// "LoopState"). breakJumps records the offsets of not-yet-patched
// `break` JUMP placeholders compiled inside this loop.
type loop struct {
	outer *loop
	// start is the backward-jump target re-checking the loop condition.
	start int
	// continueTarget is where a `continue` jumps to: equal to start for a
	// `while` loop and for a `for` loop with no increment clause; equal to
	// the increment clause's offset for a `for` loop that has one, so
	// `continue` still runs the increment before re-checking the
	// condition (spec.md §4.F.4).
	continueTarget int
	depth          int
	breakJumps     []int
}

// compiler is one function's (or the script's) compilation context
// (spec.md §3 "Compiler"). A chain of compilers, linked through
// enclosing, mirrors the nesting of function declarations; it is exactly
// the "current compiler" state spec.md §9 flags as global mutable state
// in the original, here threaded explicitly and registered with the heap
// only for the span of one top-level Compile call.
type compiler struct {
	h         *heap.Heap
	enclosing *compiler
	fnType    fnType
	fn        *object.ObjFn

	locals     []local
	scopeDepth int
	upvalues   []upvalue
	loop       *loop

	// currentClass tracks the class a method body is being compiled
	// inside of, chained through enclosing class declarations, so `super`
	// can be rejected outside of one (spec.md §4.F.5, §7). `this` is
	// checked against fnType instead, so it is accepted only directly in a
	// method or initializer body.
	currentClass *classState

	// names dedups identifier-constant lookups per compilation unit to a
	// shared constant-pool index (spec.md §4.F.3's pushIdentifier); a
	// compile-time-only string->index map has no tombstone/findString/
	// removeWhite requirement, so it uses the pack's generic swiss map
	// rather than lang/object.Table.
	names *swiss.Map[string, int]

	filename string
	errs     *ErrorList
}

// MarkRoots implements heap.RootProvider: the root set contributed by
// compile-time state is "every Compiler in the enclosing chain — its
// current ObjFn and its identifier-intern map" (spec.md §4.D root 5).
func (c *compiler) MarkRoots(h *heap.Heap) {
	for cc := c; cc != nil; cc = cc.enclosing {
		h.MarkObj(cc.fn)
		cc.names.Iter(func(_ string, idx int) (stop bool) {
			h.MarkValue(cc.fn.Chunk.Constants[idx])
			return false
		})
	}
}

func newCompiler(h *heap.Heap, enclosing *compiler, t fnType, filename string, errs *ErrorList, name string) *compiler {
	c := &compiler{
		h:         h,
		enclosing: enclosing,
		fnType:    t,
		fn:        h.NewFunction(),
		names:     swiss.NewMap[string, int](8),
		filename:  filename,
		errs:      errs,
	}
	c.fn.Chunk = chunk.New()
	if name != "" {
		c.fn.Name = h.InternString(name, false)
	}
	// Slot 0 of every call frame is reserved for the callee (script/
	// function) or the instance receiver (methods) (spec.md §4.F.1).
	recv := ""
	if t == typeMethod || t == typeInitializer {
		recv = "this"
	}
	c.locals = append(c.locals, local{name: recv, depth: 0})
	if enclosing != nil {
		c.currentClass = enclosing.currentClass
	}
	return c
}

// Compile compiles a complete program into its top-level script ObjFn
// (spec.md §2: "F produces a script ObjFn"). It returns a nil ObjFn and
// a non-nil *ErrorList if any compile error occurred anywhere in the
// program (spec.md §4.I: "compile() returns null if the flag is set").
func Compile(h *heap.Heap, filename string, prog *ast.Program) (*object.ObjFn, error) {
	var errs ErrorList
	c := newCompiler(h, nil, typeScript, filename, &errs, "")
	h.Register(c)
	defer h.Unregister(c)

	for _, s := range prog.Stmts {
		c.compileStmt(s)
	}
	fn := c.finish()

	errs.Sort()
	if len(errs) > 0 {
		return nil, &errs
	}
	return fn, nil
}

// finish appends the implicit `nil; return` every function body ends
// with (spec.md §4.F.7) and returns the completed ObjFn.
func (c *compiler) finish() *object.ObjFn {
	c.emitReturn(token.NoPos)
	return c.fn
}

func (c *compiler) emitReturn(line token.Pos) {
	if c.fnType == typeInitializer {
		// `init` implicitly returns the receiver, not nil, so that
		// `var x = Foo()` sees the constructed instance even when `init`
		// has no explicit `return this`.
		c.emitOp(chunk.GET_LOCAL, line)
		c.emitByte(0, line)
	} else {
		c.emitOp(chunk.NIL, line)
	}
	c.emitOp(chunk.RETURN, line)
}

func (c *compiler) errorAt(line token.Pos, format string, args ...any) {
	c.errs.Add(gotoken.Position{Filename: c.filename, Line: int(line)}, fmt.Sprintf(format, args...))
}
