package allocator_test

import (
	"testing"

	"github.com/Carmen-Shannon/motive-go/engine/allocator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingCallbacks struct {
	numIndices int
	moves      []struct {
		source allocator.Range
		target allocator.Index
	}
}

func (r *recordingCallbacks) SetNumIndices(numIndices allocator.Index) {
	r.numIndices = int(numIndices)
}

func (r *recordingCallbacks) MoveIndexRange(source allocator.Range, target allocator.Index) {
	r.moves = append(r.moves, struct {
		source allocator.Range
		target allocator.Index
	}{source, target})
}

func TestAllocate_GrowsHighWaterMark(t *testing.T) {
	cb := &recordingCallbacks{}
	a := allocator.New(cb)

	base1 := a.Allocate(3)
	assert.Equal(t, allocator.Index(0), base1)
	assert.Equal(t, allocator.Index(3), a.HighWaterMark())
	assert.Equal(t, 3, cb.numIndices)

	base2 := a.Allocate(4)
	assert.Equal(t, allocator.Index(3), base2)
	assert.Equal(t, allocator.Index(7), a.HighWaterMark())
}

func TestAllocate_PanicsOnZeroWidth(t *testing.T) {
	a := allocator.New(nil)
	assert.Panics(t, func() { a.Allocate(0) })
}

func TestAllocate_ReusesExactWidthFreeRun(t *testing.T) {
	a := allocator.New(nil)
	base1 := a.Allocate(3)
	_ = a.Allocate(4)
	a.Free(base1)

	reused := a.Allocate(3)
	assert.Equal(t, base1, reused)
	assert.Equal(t, allocator.Index(7), a.HighWaterMark(), "reuse must not grow the high-water mark")
}

func TestFree_PanicsOnInteriorSlot(t *testing.T) {
	a := allocator.New(nil)
	base := a.Allocate(3)
	assert.Panics(t, func() { a.Free(base + 1) })
}

func TestCountForIndex(t *testing.T) {
	a := allocator.New(nil)
	base := a.Allocate(3)
	assert.Equal(t, allocator.Dimension(3), a.CountForIndex(base))
	assert.Equal(t, allocator.Dimension(0), a.CountForIndex(base+1))
	assert.Equal(t, allocator.Dimension(0), a.CountForIndex(base+99))
}

func TestValidIndex(t *testing.T) {
	a := allocator.New(nil)
	base := a.Allocate(3)
	assert.True(t, a.ValidIndex(base))
	assert.True(t, a.ValidIndex(base+2))
	assert.False(t, a.ValidIndex(base+3))
}

// TestDefragment_PreservesValuesAcrossRelocation walks through the concrete
// scenario from §8: three width-3 runs, the middle one freed, then
// defragmented. The highest run (base 6) must relocate into the freed
// base-3 slot and the high-water mark must shrink to 6.
func TestDefragment_PreservesValuesAcrossRelocation(t *testing.T) {
	cb := &recordingCallbacks{}
	a := allocator.New(cb)

	h1 := a.Allocate(3)
	h2 := a.Allocate(3)
	h3 := a.Allocate(3)
	require.Equal(t, allocator.Index(0), h1)
	require.Equal(t, allocator.Index(3), h2)
	require.Equal(t, allocator.Index(6), h3)

	a.Free(h2)
	a.Defragment()

	assert.Equal(t, allocator.Index(6), a.HighWaterMark())
	require.Len(t, cb.moves, 1)
	assert.Equal(t, allocator.Range{Base: h3, Width: 3}, cb.moves[0].source)
	assert.Equal(t, h2, cb.moves[0].target)

	assert.True(t, a.ValidIndex(h1))
	assert.True(t, a.ValidIndex(h2), "old h2 base is now occupied by relocated h3")
	assert.Equal(t, allocator.Dimension(3), a.CountForIndex(h2))
}

func TestDefragment_NoOpWhenAlreadyCompact(t *testing.T) {
	cb := &recordingCallbacks{}
	a := allocator.New(cb)
	a.Allocate(3)
	a.Allocate(4)

	before := a.HighWaterMark()
	a.Defragment()

	assert.Equal(t, before, a.HighWaterMark())
	assert.Empty(t, cb.moves)
}

func TestDefragment_AllFreedShrinksToZero(t *testing.T) {
	a := allocator.New(nil)
	base := a.Allocate(5)
	a.Free(base)

	a.Defragment()
	assert.Equal(t, allocator.Index(0), a.HighWaterMark())
}

// TestDefragment_SkipsNarrowerFreeRunForWiderLiveRun exercises the case
// where the lowest free run is too narrow for the only live run above it;
// the allocator must skip it rather than relocate into it.
func TestDefragment_SkipsNarrowerFreeRunForWiderLiveRun(t *testing.T) {
	a := allocator.New(nil)
	narrow := a.Allocate(1) // base 0, width 1
	wide := a.Allocate(3)   // base 1, width 3
	_ = wide
	a.Free(narrow) // free run: base 0, width 1 — too small for a width-3 run

	a.Defragment()

	// The width-1 free run cannot hold the width-3 run, and no other live
	// run exists above it, so no relocation is possible and the gap
	// remains; high-water mark is unchanged.
	assert.Equal(t, allocator.Index(4), a.HighWaterMark())
}
