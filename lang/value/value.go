// Package value implements the core runtime Value representation of the
// Dojo virtual machine (spec.md §3, §4.A) and the common Obj header that
// every heap object variant shares (the non-variant-specific half of
// §3's "Obj header").
//
// spec.md frames Value as a NaN-boxed 64-bit word. Literally packing a Go
// heap pointer into the unused bits of a float64 is unsafe in this host
// language: the Go runtime's garbage collector does not scan integer or
// float fields for pointers, so a value kept alive only by its bit pattern
// in a uint64 can be collected out from under it. spec.md §9 explicitly
// sanctions the alternative it call a "tagged union ... the externally
// observable semantics are unchanged", which is what this package
// implements: a small struct tagged by Kind, carrying either a float64 or
// an Obj interface value (a real, GC-visible pointer).
package value

// Kind discriminates the variants of Value.
type Kind uint8

const (
	KindNil Kind = iota
	KindBool
	KindNumber
	KindObj
)

// Value is the sole in-VM representation (spec.md §3).
type Value struct {
	kind Kind
	num  float64 // KindNumber payload, and 0/1 for KindBool
	obj  Obj     // KindObj payload
}

// Nil is the singleton nil value.
var Nil = Value{kind: KindNil}

// True and False are the singleton boolean values.
var (
	True  = Value{kind: KindBool, num: 1}
	False = Value{kind: KindBool, num: 0}
)

// Bool returns the boolean value for b.
func Bool(b bool) Value {
	if b {
		return True
	}
	return False
}

// Number returns the Value wrapping the number n.
func Number(n float64) Value { return Value{kind: KindNumber, num: n} }

// FromObj returns the Value wrapping the heap object o.
func FromObj(o Obj) Value { return Value{kind: KindObj, obj: o} }

func (v Value) IsNil() bool    { return v.kind == KindNil }
func (v Value) IsBool() bool   { return v.kind == KindBool }
func (v Value) IsNumber() bool { return v.kind == KindNumber }
func (v Value) IsObj() bool    { return v.kind == KindObj }

// AsBool returns v's boolean payload. The caller must have checked IsBool.
func (v Value) AsBool() bool { return v.num != 0 }

// AsNumber returns v's numeric payload. The caller must have checked
// IsNumber.
func (v Value) AsNumber() float64 { return v.num }

// AsObj returns v's object payload. The caller must have checked IsObj.
func (v Value) AsObj() Obj { return v.obj }

// IsFalsey reports whether v is nil, false, or the number zero (spec.md
// §4.A).
func (v Value) IsFalsey() bool {
	switch v.kind {
	case KindNil:
		return true
	case KindBool:
		return !v.AsBool()
	case KindNumber:
		return v.num == 0
	default:
		return false
	}
}

// Equal implements spec.md §4.A's equality: bitwise-equal payload for
// non-number variants (which, for objects, is pointer/interface identity —
// interning guarantees this is content-equality for strings), IEEE
// equality for numbers.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNil:
		return true
	case KindBool:
		return a.num == b.num
	case KindNumber:
		return a.num == b.num
	case KindObj:
		return a.obj == b.obj
	default:
		return false
	}
}
