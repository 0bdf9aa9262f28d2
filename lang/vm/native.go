package vm

import (
	"time"

	"github.com/Cheese-S/Dojo/lang/object"
	"github.com/Cheese-S/Dojo/lang/value"
)

var startTime = time.Now()

// defineNatives installs the minimum required native set (spec.md §4.H):
// clock() and print(v). Each is installed by pushing the interned name and
// a new ObjNativeFn, storing via globals.Put, then popping both — the push
// keeps both values GC-reachable across the two allocations, the same
// idiom emitConstant/identifierConstant use at compile time (lang/heap's
// Pin/Unpin doc comment).
func defineNatives(vm *VM) {
	vm.defineNative("clock", 0, func(args []value.Value) (value.Value, error) {
		// Wall-clock elapsed time, not process CPU time (SPEC_FULL.md §C.6):
		// syscall.Getrusage is unix-only and no example repo depends on it.
		return value.Number(time.Since(startTime).Seconds()), nil
	})
	vm.defineNative("print", 1, func(args []value.Value) (value.Value, error) {
		vm.printValue(args[0])
		return value.Nil, nil
	})
}

func (vm *VM) defineNative(name string, arity int, fn object.NativeFn) {
	nameObj := vm.h.InternString(name, false)
	vm.push(value.FromObj(nameObj))
	vm.push(value.FromObj(vm.h.NewNative(name, arity, fn)))
	vm.globals.Put(nameObj, vm.peek(0))
	vm.pop()
	vm.pop()
}
