// Package vm implements Dojo's bytecode interpreter: the dispatch loop,
// call frames, calling conventions for every callable Obj variant, upvalue
// open/close bookkeeping, and the native-function layer (spec.md §4.G,
// §4.H).
package vm

import (
	"io"
	"os"

	"github.com/Cheese-S/Dojo/lang/heap"
	"github.com/Cheese-S/Dojo/lang/object"
	"github.com/Cheese-S/Dojo/lang/token"
	"github.com/Cheese-S/Dojo/lang/value"
)

// Bounded resources per spec.md §5: 256 call frames, 256x64 = 16384
// operand stack slots.
const (
	maxFrames = 256
	stackMax  = maxFrames * 64
)

// frame is one call's activation record: the running closure, its
// instruction pointer, and the base index into the VM's shared operand
// stack that slot 0 of this call occupies (spec.md §3 "Frame").
type frame struct {
	closure *object.ObjClosure
	ip      int
	slots   int
}

// VM is the single-threaded bytecode interpreter (spec.md §5: exactly one
// logical thread of control, not safe for concurrent reentry). The zero
// value is not usable; construct with New.
type VM struct {
	h *heap.Heap

	stack [stackMax]value.Value
	sp    int

	frames     [maxFrames]frame
	frameCount int

	globals      *object.Table
	openUpvalues *object.ObjUpvalue // head; sorted non-increasing by slot (spec.md Property 8)

	Stdout io.Writer
	Stderr io.Writer
}

// New returns a VM sharing h's heap and registered as one of its root
// providers for the VM's entire lifetime (spec.md §4.D's root set:
// operand stack, call frames, globals, open upvalues).
func New(h *heap.Heap) *VM {
	vm := &VM{h: h, globals: object.NewTable(), Stdout: os.Stdout, Stderr: os.Stderr}
	h.Register(vm)
	defineNatives(vm)
	return vm
}

// MarkRoots implements heap.RootProvider.
func (vm *VM) MarkRoots(h *heap.Heap) {
	for i := 0; i < vm.sp; i++ {
		h.MarkValue(vm.stack[i])
	}
	for i := 0; i < vm.frameCount; i++ {
		h.MarkObj(vm.frames[i].closure)
	}
	vm.globals.Each(func(k *object.ObjString, v value.Value) {
		h.MarkObj(k)
		h.MarkValue(v)
	})
	for uv := vm.openUpvalues; uv != nil; uv = uv.Next {
		h.MarkObj(uv)
	}
}

func (vm *VM) push(v value.Value) { vm.stack[vm.sp] = v; vm.sp++ }
func (vm *VM) pop() value.Value   { vm.sp--; return vm.stack[vm.sp] }
func (vm *VM) peek(distance int) value.Value { return vm.stack[vm.sp-1-distance] }

// RuntimeError is returned by Interpret on a runtime failure. Error
// returns the message alone; Trace holds the frame-by-frame stack trace,
// one "[Line N] in <fn name()|script>" line per frame, top frame first
// (spec.md §4.G.6, §7).
type RuntimeError struct {
	msg   string
	Trace string
}

func (e *RuntimeError) Error() string { return e.msg }

// Interpret runs fn to completion as the top-level script, wrapping it in
// a closure with no upvalues (spec.md §2: "interpret(fn) runs a script to
// completion"). Each call starts a fresh operand stack and frame list, so
// a *VM may run several independent top-level scripts in sequence (the
// REPL's one-persistent-VM-many-calls usage, SPEC_FULL.md §C.3) while
// still sharing globals and the heap across calls.
func (vm *VM) Interpret(fn *object.ObjFn) error {
	vm.sp = 0
	vm.frameCount = 0
	vm.openUpvalues = nil

	closure := vm.h.NewClosure(fn, nil)
	vm.push(value.FromObj(closure))
	if err := vm.call(closure, 0); err != nil {
		return err
	}
	return vm.run()
}

func (vm *VM) currentFrame() *frame { return &vm.frames[vm.frameCount-1] }

func (vm *VM) readByte(f *frame) byte {
	b := f.closure.Fn.Chunk.Code[f.ip]
	f.ip++
	return b
}

func (vm *VM) readShort(f *frame) int {
	hi := vm.readByte(f)
	lo := vm.readByte(f)
	return int(hi)<<8 | int(lo)
}

func (vm *VM) readConstant(f *frame) value.Value {
	idx := vm.readByte(f)
	return f.closure.Fn.Chunk.Constants[idx]
}

func (vm *VM) readString(f *frame) *object.ObjString {
	return vm.readConstant(f).AsObj().(*object.ObjString)
}

func (vm *VM) currentLine(f *frame) token.Pos {
	if f.ip == 0 {
		return f.closure.Fn.Chunk.Lines[0]
	}
	return f.closure.Fn.Chunk.Lines[f.ip-1]
}
