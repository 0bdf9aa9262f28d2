package heap

import (
	"github.com/Cheese-S/Dojo/lang/object"
	"github.com/Cheese-S/Dojo/lang/value"
)

// Collect runs one full tracing mark-sweep collection (spec.md §4.D):
// mark every root reachable object, trace their references to a fixed
// point, evict now-unmarked entries from the string-literal table so it
// does not keep strings alive on its own, then sweep the intrusive
// object list. nextGC is reset to twice the post-collection live-byte
// count.
func (h *Heap) Collect() {
	if h.LogFn != nil {
		h.LogFn("gc begin (%d bytes)", h.bytes)
	}

	h.markRoots()
	h.traceReferences()
	h.strings.RemoveWhite()
	h.sweep()

	h.nextGC = h.bytes * 2
	if h.nextGC < initialNextGC {
		h.nextGC = initialNextGC
	}

	if h.LogFn != nil {
		h.LogFn("gc end (%d bytes, next at %d)", h.bytes, h.nextGC)
	}
}

func (h *Heap) markRoots() {
	for _, v := range h.pinned {
		h.MarkValue(v)
	}
	h.MarkObj(h.initString)
	for _, rp := range h.roots {
		rp.MarkRoots(h)
	}
}

// MarkValue marks v's underlying object, if it has one. Root providers
// call this for every Value they own (operand stack slots, global
// values, closed upvalues, constant-pool entries).
func (h *Heap) MarkValue(v value.Value) {
	if v.IsObj() {
		h.MarkObj(v.AsObj())
	}
}

// MarkObj marks o and pushes it onto the grey worklist, unless it was
// already marked (spec.md §4.D "markObj"). o may be nil (a not-yet-set
// optional reference), which is a no-op.
func (h *Heap) MarkObj(o value.Obj) {
	if o == nil || value.IsMarked(o) {
		return
	}
	value.SetMarked(o, true)
	h.gray = append(h.gray, o)
}

// traceReferences drains the grey worklist, blackening each object in
// turn, until no grey objects remain (spec.md §4.D).
func (h *Heap) traceReferences() {
	for len(h.gray) > 0 {
		n := len(h.gray) - 1
		o := h.gray[n]
		h.gray = h.gray[:n]
		h.blacken(o)
	}
}

// blacken discriminates on variant and marks every reference the object
// holds (spec.md §4.D). Strings and native functions hold no references.
func (h *Heap) blacken(o value.Obj) {
	switch v := o.(type) {
	case *object.ObjBoundMethod:
		h.MarkValue(v.Receiver)
		h.MarkObj(v.Method)
	case *object.ObjInstance:
		h.MarkObj(v.Class)
		v.Fields.Each(func(k *object.ObjString, fv value.Value) {
			h.MarkObj(k)
			h.MarkValue(fv)
		})
	case *object.ObjClass:
		h.MarkObj(v.Name)
		v.Methods.Each(func(k *object.ObjString, mv value.Value) {
			h.MarkObj(k)
			h.MarkValue(mv)
		})
	case *object.ObjClosure:
		h.MarkObj(v.Fn)
		for _, uv := range v.Upvalues {
			h.MarkObj(uv)
		}
	case *object.ObjFn:
		if v.Name != nil {
			h.MarkObj(v.Name)
		}
		for _, c := range v.Chunk.Constants {
			h.MarkValue(c)
		}
	case *object.ObjUpvalue:
		// An open upvalue aliases a live VM stack slot, already a root in
		// its own right; a closed upvalue owns its value directly.
		h.MarkValue(v.Closed)
	case *object.ObjString, *object.ObjNativeFn:
		// no outgoing references
	}
}

// sweep unlinks and discards every unmarked object from the intrusive
// list, un-marking survivors for the next cycle (spec.md §4.D).
func (h *Heap) sweep() {
	var prev value.Obj
	obj := h.head
	for obj != nil {
		if value.IsMarked(obj) {
			value.SetMarked(obj, false)
			prev = obj
			obj = value.NextObj(obj)
			continue
		}
		unreached := obj
		obj = value.NextObj(obj)
		if prev != nil {
			value.SetNextObj(prev, obj)
		} else {
			h.head = obj
		}
		h.bytes -= objSize(unreached)
		value.SetNextObj(unreached, nil)
	}
}
