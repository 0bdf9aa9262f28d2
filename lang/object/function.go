package object

import (
	"github.com/Cheese-S/Dojo/lang/chunk"
	"github.com/Cheese-S/Dojo/lang/value"
)

// ObjFn is a compiled function: arity, declared upvalue count, its code
// chunk, and an optional name (nil for the top-level script function).
// Immutable after compilation (spec.md §3).
type ObjFn struct {
	value.Header
	Arity        int
	UpvalueCount int
	Chunk        *chunk.Chunk
	Name         *ObjString // nil for the top-level script
}

func (f *ObjFn) ObjKind() value.ObjKind { return value.ObjKindFunction }
func (f *ObjFn) String() string {
	if f.Name == nil {
		return "<script>"
	}
	return "<fn " + f.Name.Chars + ">"
}

// ObjUpvalue is either "open" (Location points at a live slot in the
// operand stack) or "closed" (Location points at Closed, a heap-resident
// copy) (spec.md §3, §4.G.4).
type ObjUpvalue struct {
	value.Header
	Location *value.Value
	Closed   value.Value
	Next     *ObjUpvalue // intrusive, stack-descending open-upvalue list
}

func (u *ObjUpvalue) ObjKind() value.ObjKind { return value.ObjKindUpvalue }
func (u *ObjUpvalue) String() string         { return "upvalue" }

// Close copies the current value at Location into Closed and redirects
// Location to point at it, severing the alias to the operand stack slot
// (spec.md §4.G.4).
func (u *ObjUpvalue) Close() {
	u.Closed = *u.Location
	u.Location = &u.Closed
}

// ObjClosure bundles an ObjFn with its captured upvalues. Several closures
// may share the same ObjFn (one per declaration, many per activation);
// each closure exclusively owns its own Upvalues slice (spec.md §3).
type ObjClosure struct {
	value.Header
	Fn       *ObjFn
	Upvalues []*ObjUpvalue
}

func (c *ObjClosure) ObjKind() value.ObjKind { return value.ObjKindClosure }
func (c *ObjClosure) String() string         { return c.Fn.String() }

// NativeFn is the signature every host-provided native function
// implements (spec.md §4.H).
type NativeFn func(args []value.Value) (value.Value, error)

// ObjNativeFn wraps a host function pointer with a declared arity
// (spec.md §3, §4.H).
type ObjNativeFn struct {
	value.Header
	Name  string
	Arity int
	Fn    NativeFn
}

func (n *ObjNativeFn) ObjKind() value.ObjKind { return value.ObjKindNative }
func (n *ObjNativeFn) String() string         { return "<native fn " + n.Name + ">" }

var (
	_ value.Obj = (*ObjFn)(nil)
	_ value.Obj = (*ObjUpvalue)(nil)
	_ value.Obj = (*ObjClosure)(nil)
	_ value.Obj = (*ObjNativeFn)(nil)
)
