package vm

import (
	"unsafe"

	"github.com/Cheese-S/Dojo/lang/object"
	"github.com/Cheese-S/Dojo/lang/value"
)

// slotIndex recovers the stack index that loc aliases. VM.stack is a
// fixed-size array embedded directly in the VM struct, never reallocated
// for the VM's lifetime, so every alias into it has a stable address;
// comparing positions this way is the Go analogue of the original's raw
// stack-slot pointer arithmetic (spec.md §4.G.4, §9's aliasing note).
func (vm *VM) slotIndex(loc *value.Value) int {
	return int((uintptr(unsafe.Pointer(loc)) - uintptr(unsafe.Pointer(&vm.stack[0]))) / unsafe.Sizeof(vm.stack[0]))
}

// captureUpvalue returns the open upvalue aliasing slot, creating and
// inserting one in sorted position if none exists yet (spec.md §4.G.4).
// The open-upvalue list is sorted non-increasing by slot (Testable
// Property 8), which is what lets closeUpvalues close every upvalue at or
// above a given slot with one linear scan from the head.
func (vm *VM) captureUpvalue(slot int) *object.ObjUpvalue {
	var prev *object.ObjUpvalue
	cur := vm.openUpvalues
	for cur != nil && vm.slotIndex(cur.Location) > slot {
		prev = cur
		cur = cur.Next
	}
	if cur != nil && vm.slotIndex(cur.Location) == slot {
		return cur
	}

	created := vm.h.NewUpvalue(&vm.stack[slot])
	created.Next = cur
	if prev == nil {
		vm.openUpvalues = created
	} else {
		prev.Next = created
	}
	return created
}

// closeUpvalues closes every open upvalue whose aliased slot is >=
// lastSlot: it copies the live stack value into the upvalue's own
// heap-resident storage and redirects Location to alias that instead,
// severing the dependency on the operand stack before that slot is popped
// (spec.md §4.G.4). Called with frame.slots on RETURN and with
// stackTop-1 on CLOSE_UPVALUE.
func (vm *VM) closeUpvalues(lastSlot int) {
	for vm.openUpvalues != nil && vm.slotIndex(vm.openUpvalues.Location) >= lastSlot {
		uv := vm.openUpvalues
		uv.Close()
		vm.openUpvalues = uv.Next
		uv.Next = nil
	}
}
