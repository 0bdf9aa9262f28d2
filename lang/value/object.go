package value

// ObjKind discriminates the heap object variants (spec.md §3).
type ObjKind uint8

const (
	ObjKindString ObjKind = iota
	ObjKindFunction
	ObjKindClosure
	ObjKindUpvalue
	ObjKindNative
	ObjKindClass
	ObjKindInstance
	ObjKindBoundMethod
)

func (k ObjKind) String() string {
	switch k {
	case ObjKindString:
		return "string"
	case ObjKindFunction:
		return "function"
	case ObjKindClosure:
		return "closure"
	case ObjKindUpvalue:
		return "upvalue"
	case ObjKindNative:
		return "native"
	case ObjKindClass:
		return "class"
	case ObjKindInstance:
		return "instance"
	case ObjKindBoundMethod:
		return "bound method"
	default:
		return "unknown"
	}
}

// Obj is implemented by every heap object variant. It is deliberately a
// Go interface, not a raw pointer with a type tag the way spec.md's "Obj
// header" literally describes: every concrete variant embeds Header,
// which makes it satisfy Obj, and the variant's own fields follow
// afterward (exactly the "header, then payload" layout of §3, expressed
// with Go's embedding instead of C's struct-prefix aliasing trick).
type Obj interface {
	ObjKind() ObjKind
	header() *Header
}

// Header is the common prefix described in spec.md §3: a mark bit for the
// tracing collector and a Next pointer threading every live object into
// the VM-owned intrusive list that both allocation and sweep walk.
//
// Header.Next is a real Go interface value (not an untyped/unsafe
// pointer), so as long as some GC-visible root holds the head of this
// list, Go's own runtime GC keeps every linked object alive; this
// package's mark-sweep logic (lang/heap) only ever needs to decide when
// to unlink an entry from the list, never to free memory directly.
type Header struct {
	Marked bool
	Next   Obj
}

func (h *Header) header() *Header { return h }

// IsMarked and SetMarked are convenience helpers for the collector so it
// does not need to reach through header() (unexported) from another
// package; they operate through the Obj interface.
func IsMarked(o Obj) bool     { return o.header().Marked }
func SetMarked(o Obj, m bool) { o.header().Marked = m }

// NextObj and SetNextObj expose the intrusive list link to the allocator
// and collector (lang/heap), which live in a different package from the
// concrete variants (lang/object).
func NextObj(o Obj) Obj        { return o.header().Next }
func SetNextObj(o Obj, n Obj)  { o.header().Next = n }
