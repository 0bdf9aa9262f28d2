// Package object implements the concrete heap object variants (spec.md §3)
// and the open-addressed Table (spec.md §4.B) they are stored in. The two
// live in one package because ObjClass and ObjInstance embed *Table, and
// Table's Entry embeds *ObjString: the same mutual reference the original
// C sources resolve with a forward `struct ObjString` declaration in
// hashmap.h, which Go cannot express across package boundaries.
package object

import "github.com/Cheese-S/Dojo/lang/value"

// fnv1a32 computes the 32-bit FNV-1a hash of s (spec.md §4.C).
func fnv1a32(s string) uint32 {
	const (
		offsetBasis uint32 = 2166136261
		prime       uint32 = 16777619
	)
	h := offsetBasis
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= prime
	}
	return h
}

// ObjString is an immutable, content-hashed, interned string (spec.md §3).
// Go strings are themselves immutable and already reference-share slices
// of their backing array, so the "owns its character buffer when
// isUsingHeap; else borrows a non-owning pointer into some long-lived
// source buffer" distinction from spec.md has no behavioral consequence
// in this port (there is no manual free to get wrong either way); IsOwned
// is kept only to document provenance for debugging; it does not gate any
// operation.
type ObjString struct {
	value.Header
	Chars   string
	Hash    uint32
	IsOwned bool // true if built at runtime (template or '+' concat); false if borrowed from source text
}

func (s *ObjString) ObjKind() value.ObjKind { return value.ObjKindString }
func (s *ObjString) String() string         { return s.Chars }

// HashString computes the interning hash of raw bytes, exposed so the
// interner (lang/heap) can hash before deciding whether to allocate.
func HashString(s string) uint32 { return fnv1a32(s) }

var _ value.Obj = (*ObjString)(nil)
