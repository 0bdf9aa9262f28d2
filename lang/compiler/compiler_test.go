package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cheese-S/Dojo/lang/ast"
	"github.com/Cheese-S/Dojo/lang/chunk"
	"github.com/Cheese-S/Dojo/lang/compiler"
	"github.com/Cheese-S/Dojo/lang/heap"
	"github.com/Cheese-S/Dojo/lang/object"
	"github.com/Cheese-S/Dojo/lang/parser"
)

func countOp(code []byte, op chunk.Opcode) int {
	n := 0
	for _, b := range code {
		if chunk.Opcode(b) == op {
			n++
		}
	}
	return n
}

// upvalueOperands returns the index operand of every GET_UPVALUE/
// SET_UPVALUE instruction in code, in encounter order.
func upvalueOperands(code []byte) []byte {
	var operands []byte
	for i := 0; i < len(code); i++ {
		switch chunk.Opcode(code[i]) {
		case chunk.GET_UPVALUE, chunk.SET_UPVALUE:
			i++
			operands = append(operands, code[i])
		}
	}
	return operands
}

func compile(t *testing.T, src string) *chunk.Chunk {
	t.Helper()
	return compileFn(t, src).Chunk
}

func compileFn(t *testing.T, src string) *object.ObjFn {
	t.Helper()
	prog, err := parser.Parse("<test>", src)
	require.NoError(t, err)
	h := heap.New()
	fn, err := compiler.Compile(h, "<test>", prog)
	require.NoError(t, err)
	return fn
}

// findFn searches a chunk's constant pool (recursively, since a nested
// function is itself a constant of its enclosing one) for the ObjFn
// named name.
func findFn(c *chunk.Chunk, name string) *object.ObjFn {
	for _, v := range c.Constants {
		if !v.IsObj() {
			continue
		}
		fn, ok := v.AsObj().(*object.ObjFn)
		if !ok {
			continue
		}
		if fn.Name != nil && fn.Name.Chars == name {
			return fn
		}
		if found := findFn(fn.Chunk, name); found != nil {
			return found
		}
	}
	return nil
}

// Locals resolve to GET_LOCAL rather than GET_GLOBAL, and a variable
// declared in an outer block is still visible (and still local) in a
// nested one.
func TestLocalResolvesWithoutGlobalLookup(t *testing.T) {
	top := compileFn(t, `
fn f() {
	var a = 1
	{
		var b = 2
		print(a + b)
	}
}
`)
	f := findFn(top.Chunk, "f")
	require.NotNil(t, f)
	assert.Greater(t, countOp(f.Chunk.Code, chunk.GET_LOCAL), 0)
	// The one global lookup left in f is the native print that the print
	// statement calls; a and b themselves never go through GET_GLOBAL.
	assert.Equal(t, 1, countOp(f.Chunk.Code, chunk.GET_GLOBAL))
}

// A top-level `var` is a global; referencing it compiles to GET_GLOBAL.
func TestTopLevelVarIsGlobal(t *testing.T) {
	c := compile(t, `
var g = 1
print(g)
`)
	assert.Greater(t, countOp(c.Code, chunk.GET_GLOBAL), 0)
}

// A function closing over an enclosing local emits exactly one CLOSURE
// with upvalue operands, and referencing the captured variable twice
// inside the closure reuses the same upvalue slot rather than capturing
// it twice (Testable Property: upvalue dedup).
func TestClosureCapturesEnclosingLocalOnce(t *testing.T) {
	top := compileFn(t, `
fn outer() {
	var x = 1
	fn inner() {
		return x + x
	}
	return inner
}
`)
	inner := findFn(top.Chunk, "inner")
	require.NotNil(t, inner)
	assert.Equal(t, 1, inner.UpvalueCount)

	ops := upvalueOperands(inner.Chunk.Code)
	require.Len(t, ops, 2, "x + x reads the captured local twice")
	assert.Equal(t, ops[0], ops[1], "both reads must resolve to the same upvalue slot")
}

func TestIfElseEmitsJumpAndLoopFree(t *testing.T) {
	c := compile(t, `
if (true) {
	print(1)
} else {
	print(2)
}
`)
	assert.Greater(t, countOp(c.Code, chunk.JUMP_IF_FALSE), 0)
	assert.Greater(t, countOp(c.Code, chunk.JUMP), 0)
	assert.Equal(t, 0, countOp(c.Code, chunk.LOOP))
}

func TestWhileLoopEmitsLoopOpcode(t *testing.T) {
	c := compile(t, `
var i = 0
while (i < 3) {
	i = i + 1
}
`)
	assert.Greater(t, countOp(c.Code, chunk.LOOP), 0)
}

func TestCompileErrorOnUndeclaredBreak(t *testing.T) {
	prog := mustParse(t, "break\n")
	_, err := compiler.Compile(heap.New(), "<test>", prog)
	assert.Error(t, err)
}

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := parser.Parse("<test>", src)
	require.NoError(t, err)
	return prog
}
