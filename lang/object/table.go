package object

import "github.com/Cheese-S/Dojo/lang/value"

const (
	initialTableCapacity = 8
	maxLoad              = 0.7
)

// entry is one slot of a Table (spec.md §4.B). Three states: empty
// (Key == nil), tombstone (Key == tombstoneSentinel), live (Key points at
// a real interned ObjString).
type entry struct {
	Key   *ObjString
	Value value.Value
}

// tombstoneSentinel marks a deleted slot so that linear probing can keep
// walking past it without breaking chains built by earlier insertions.
var tombstoneSentinel = &ObjString{Chars: "<tombstone>"}

// Table is the open-addressed hashmap of spec.md §4.B: power-of-two
// capacity, 70% max load factor, linear probing, tombstone deletion. It
// backs the VM's globals, every ObjClass's method table, every
// ObjInstance's field table, and the heap's string-literal interning
// table (lang/heap) — one implementation, four uses, exactly as spec.md
// frames it and as the original C `Hashmap` type is used throughout
// `object.c`/`vm.c`.
type Table struct {
	count   int // live + tombstone entries, for growth accounting
	entries []entry
}

// NewTable returns an empty Table (capacity 0 until first insert).
func NewTable() *Table { return &Table{} }

// Get returns the value stored for key, and whether key was found.
func (t *Table) Get(key *ObjString) (value.Value, bool) {
	if len(t.entries) == 0 {
		return value.Nil, false
	}
	e := t.find(key)
	if e.Key == nil || e.Key == tombstoneSentinel {
		return value.Nil, false
	}
	return e.Value, true
}

// Put stores value for key, growing the table first if needed. It
// returns true if key was not already present.
func (t *Table) Put(key *ObjString, v value.Value) bool {
	if float64(t.count+1) > float64(len(t.entries))*maxLoad {
		t.grow()
	}
	e := t.find(key)
	isNew := e.Key == nil || e.Key == tombstoneSentinel
	if e.Key == nil {
		// Only a genuinely empty slot grows count: a reused tombstone was
		// already counted when it was tombstoned, and must not be counted
		// again until the next rehash (spec.md §4.B invariants).
		t.count++
	}
	e.Key = key
	e.Value = v
	return isNew
}

// Delete marks key's slot as a tombstone. Returns whether key existed.
func (t *Table) Delete(key *ObjString) bool {
	if len(t.entries) == 0 {
		return false
	}
	e := t.find(key)
	if e.Key == nil || e.Key == tombstoneSentinel {
		return false
	}
	e.Key = tombstoneSentinel
	e.Value = value.Bool(true)
	return true
}

// FindString probes for an interned string with the given raw bytes and
// precomputed hash without allocating a transient key (spec.md §4.B,
// §4.C). Returns nil if not found.
func (t *Table) FindString(s string, hash uint32) *ObjString {
	if len(t.entries) == 0 {
		return nil
	}
	mask := uint32(len(t.entries) - 1)
	idx := hash & mask
	for {
		e := &t.entries[idx]
		switch {
		case e.Key == nil:
			return nil // genuinely empty: not found
		case e.Key != tombstoneSentinel && e.Key.Hash == hash && e.Key.Chars == s:
			return e.Key
		}
		idx = (idx + 1) & mask
	}
}

// RemoveWhite deletes every entry whose key is not marked, used by the
// collector to evict interner entries that only the string table itself
// referenced (spec.md §4.D).
func (t *Table) RemoveWhite() {
	for i := range t.entries {
		e := &t.entries[i]
		if e.Key != nil && e.Key != tombstoneSentinel && !e.Key.Marked {
			e.Key = tombstoneSentinel
			e.Value = value.Bool(true)
		}
	}
}

// PutAll copies every live entry of src into dest (spec.md §4.B, used by
// class inheritance to copy superclass methods into a subclass).
func PutAll(src, dest *Table) {
	for _, e := range src.entries {
		if e.Key != nil && e.Key != tombstoneSentinel {
			dest.Put(e.Key, e.Value)
		}
	}
}

// Each calls fn for every live entry, in table order. Used by the
// collector to mark method/field tables wholesale.
func (t *Table) Each(fn func(key *ObjString, v value.Value)) {
	for _, e := range t.entries {
		if e.Key != nil && e.Key != tombstoneSentinel {
			fn(e.Key, e.Value)
		}
	}
}

func (t *Table) find(key *ObjString) *entry {
	mask := uint32(len(t.entries) - 1)
	idx := key.Hash & mask
	var tombstone *entry
	for {
		e := &t.entries[idx]
		switch {
		case e.Key == nil:
			if tombstone != nil {
				return tombstone
			}
			return e
		case e.Key == tombstoneSentinel:
			if tombstone == nil {
				tombstone = e
			}
		case e.Key == key:
			return e
		}
		idx = (idx + 1) & mask
	}
}

func (t *Table) grow() {
	newCap := initialTableCapacity
	if len(t.entries) > 0 {
		newCap = len(t.entries) * 2
	}
	old := t.entries
	t.entries = make([]entry, newCap)
	t.count = 0
	for _, e := range old {
		if e.Key == nil || e.Key == tombstoneSentinel {
			continue
		}
		dst := t.find(e.Key)
		dst.Key = e.Key
		dst.Value = e.Value
		t.count++
	}
}
