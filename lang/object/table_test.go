package object_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cheese-S/Dojo/lang/object"
	"github.com/Cheese-S/Dojo/lang/value"
)

func newKey(s string) *object.ObjString {
	return &object.ObjString{Chars: s, Hash: object.HashString(s)}
}

func TestTablePutGetDelete(t *testing.T) {
	tbl := object.NewTable()
	k := newKey("answer")

	_, ok := tbl.Get(k)
	assert.False(t, ok)

	assert.True(t, tbl.Put(k, value.Number(42)))
	v, ok := tbl.Get(k)
	require.True(t, ok)
	assert.Equal(t, float64(42), v.AsNumber())

	assert.False(t, tbl.Put(k, value.Number(43)))
	v, _ = tbl.Get(k)
	assert.Equal(t, float64(43), v.AsNumber())

	assert.True(t, tbl.Delete(k))
	_, ok = tbl.Get(k)
	assert.False(t, ok)
	assert.False(t, tbl.Delete(k))
}

// A deleted slot's tombstone must not block lookups of later-inserted
// keys that probe through it (the classic open-addressing deletion bug).
func TestTableTombstoneDoesNotBreakProbeChain(t *testing.T) {
	tbl := object.NewTable()
	keys := make([]*object.ObjString, 0, 8)
	for i := 0; i < 8; i++ {
		k := newKey(fmt.Sprintf("k%d", i))
		keys = append(keys, k)
		tbl.Put(k, value.Number(float64(i)))
	}

	tbl.Delete(keys[3])

	for i, k := range keys {
		if i == 3 {
			continue
		}
		v, ok := tbl.Get(k)
		require.True(t, ok, "key %d should still be found after deleting another", i)
		assert.Equal(t, float64(i), v.AsNumber())
	}
}

func TestTableFindStringDoesNotAllocateKey(t *testing.T) {
	tbl := object.NewTable()
	k := newKey("hello")
	tbl.Put(k, value.Bool(true))

	found := tbl.FindString("hello", object.HashString("hello"))
	assert.Same(t, k, found)

	assert.Nil(t, tbl.FindString("nope", object.HashString("nope")))
}

func TestTableGrowPreservesEntries(t *testing.T) {
	tbl := object.NewTable()
	const n = 64
	keys := make([]*object.ObjString, n)
	for i := 0; i < n; i++ {
		keys[i] = newKey(fmt.Sprintf("key-%d", i))
		tbl.Put(keys[i], value.Number(float64(i)))
	}
	for i, k := range keys {
		v, ok := tbl.Get(k)
		require.True(t, ok)
		assert.Equal(t, float64(i), v.AsNumber())
	}
}

func TestTablePutAllCopiesLiveEntriesOnly(t *testing.T) {
	src := object.NewTable()
	dest := object.NewTable()

	a, b, c := newKey("a"), newKey("b"), newKey("c")
	src.Put(a, value.Number(1))
	src.Put(b, value.Number(2))
	src.Put(c, value.Number(3))
	src.Delete(b)

	object.PutAll(src, dest)

	_, ok := dest.Get(a)
	assert.True(t, ok)
	_, ok = dest.Get(b)
	assert.False(t, ok)
	_, ok = dest.Get(c)
	assert.True(t, ok)
}

func TestTableEachVisitsOnlyLiveEntries(t *testing.T) {
	tbl := object.NewTable()
	a, b := newKey("a"), newKey("b")
	tbl.Put(a, value.Number(1))
	tbl.Put(b, value.Number(2))
	tbl.Delete(b)

	seen := map[string]bool{}
	tbl.Each(func(key *object.ObjString, v value.Value) {
		seen[key.Chars] = true
	})
	assert.Equal(t, map[string]bool{"a": true}, seen)
}
