package heap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cheese-S/Dojo/lang/heap"
	"github.com/Cheese-S/Dojo/lang/value"
)

// fakeRoot is a minimal heap.RootProvider a test can point at whichever
// values it wants to keep alive across a Collect.
type fakeRoot struct {
	values []value.Value
}

func (r *fakeRoot) MarkRoots(h *heap.Heap) {
	for _, v := range r.values {
		h.MarkValue(v)
	}
}

func TestInternStringDeduplicates(t *testing.T) {
	h := heap.New()
	a := h.InternString("hello", false)
	b := h.InternString("hello", false)
	assert.Same(t, a, b)

	c := h.InternString("world", false)
	assert.NotSame(t, a, c)
}

func TestFindStringMatchesInterned(t *testing.T) {
	h := heap.New()
	s := h.InternString("needle", false)
	assert.Same(t, s, h.FindString("needle"))
	assert.Nil(t, h.FindString("haystack"))
}

// A collection with no live roots must sweep everything except the
// permanent "init" symbol; running it twice in a row must not panic or
// double-free (Testable Property: GC idempotence on a quiescent heap).
func TestCollectSweepsUnreachableStrings(t *testing.T) {
	h := heap.New()
	h.InternString("transient", false)
	require.NotNil(t, h.FindString("transient"))

	h.Collect()
	assert.Nil(t, h.FindString("transient"), "unreferenced string should be swept")
	assert.NotNil(t, h.FindString("init"), "the permanent init symbol must survive")

	h.Collect() // idempotence: a second sweep over an already-clean heap
}

// A string reachable from a registered root survives collection; once
// unregistered (or the root stops referencing it), a later collection
// evicts it.
func TestCollectKeepsRootedString(t *testing.T) {
	h := heap.New()
	s := h.InternString("kept", false)
	root := &fakeRoot{values: []value.Value{value.FromObj(s)}}
	h.Register(root)

	h.Collect()
	assert.Same(t, s, h.FindString("kept"))

	h.Unregister(root)
	h.Collect()
	assert.Nil(t, h.FindString("kept"))
}

func TestNewClosureAndFunctionSurviveWhenRooted(t *testing.T) {
	h := heap.New()
	fn := h.NewFunction()
	closure := h.NewClosure(fn, nil)

	root := &fakeRoot{values: []value.Value{value.FromObj(closure)}}
	h.Register(root)
	h.Collect()

	// closure and fn are still valid Go values regardless (GC here only
	// affects the intrusive tracking list), but the call must not panic
	// and the string table must still resolve "init" afterward.
	assert.NotNil(t, h.InitString())
}
