// Package allocator implements the dense slot allocator that sits underneath
// every MotiveProcessor. It hands out contiguous runs of indices, recycles
// freed runs by exact width, and can defragment the live set on demand,
// notifying an owner of growth/shrink and relocation events so that parallel
// per-slot arrays stay in lockstep with the allocator's bookkeeping.
package allocator

import "sort"

// Index is the type used to address a slot. It is a plain integer, but kept
// as a distinct type so call sites read as index arithmetic rather than
// generic counting.
type Index int

// Dimension is a run width: the number of contiguous slots a single run
// occupies.
type Dimension int

// Range describes a contiguous run of slots [Base, Base+Width).
type Range struct {
	Base  Index
	Width Dimension
}

// End returns the first slot past the end of the range.
func (r Range) End() Index {
	return r.Base + Index(r.Width)
}

// Callbacks is the owner-side hook interface the allocator delegates to
// whenever the high-water mark changes or a live run is relocated. The
// owning MotiveProcessor implements this to keep its parallel arrays in
// sync with the allocator's index space.
type Callbacks interface {
	// SetNumIndices is called when the high-water mark grows or shrinks.
	// On growth, slots in [old, new) do not yet exist in the owner's arrays
	// and must be initialized to a reset state. On shrink, slots in
	// [new, old) are being discarded.
	SetNumIndices(numIndices Index)

	// MoveIndexRange is called during Defragment to relocate a live run.
	// The destination range [target, target+source.Width) is guaranteed to
	// be unoccupied at the time of the call.
	MoveIndexRange(source Range, target Index)
}

// IndexAllocator hands out dense, contiguous runs of slots, recycles freed
// runs by exact width, and compacts live runs on demand via Defragment.
//
// It is not safe for concurrent use; a MotiveProcessor owns exactly one
// allocator and drives it from a single goroutine, per the no-concurrent-
// mutation rule for a single processor.
type IndexAllocator struct {
	callbacks Callbacks

	highWaterMark Index

	// liveWidths maps a live run's base to its width. Interior slots of a
	// run are not present in this map.
	liveWidths map[Index]Dimension

	// freeList holds freed runs, retaining their original width so a later
	// Allocate of the same width can reuse one in O(1). Order is
	// insignificant; Defragment always searches for the lowest free base.
	freeList []Range
}

// New creates an IndexAllocator that reports growth, shrink, and relocation
// events to callbacks.
func New(callbacks Callbacks) *IndexAllocator {
	return &IndexAllocator{
		callbacks:  callbacks,
		liveWidths: make(map[Index]Dimension),
	}
}

// HighWaterMark returns the total number of slots ever handed out by the
// allocator, i.e. the length its owner's parallel arrays must have.
func (a *IndexAllocator) HighWaterMark() Index {
	return a.highWaterMark
}

// Allocate hands out a run of width contiguous slots, either by recycling an
// exact-width entry from the free list, or by extending the high-water mark.
// width must be >= 1; Allocate panics otherwise, matching the "programmer
// contract violation" handling described for the allocator (§4.1, §7).
func (a *IndexAllocator) Allocate(width Dimension) Index {
	if width < 1 {
		panic("allocator: width must be >= 1")
	}

	for i, free := range a.freeList {
		if free.Width == width {
			a.freeList = append(a.freeList[:i], a.freeList[i+1:]...)
			a.liveWidths[free.Base] = width
			return free.Base
		}
	}

	base := a.highWaterMark
	a.highWaterMark += Index(width)
	a.liveWidths[base] = width
	if a.callbacks != nil {
		a.callbacks.SetNumIndices(a.highWaterMark)
	}
	return base
}

// Free releases the run based at base back to the free list for later reuse.
// base must be the base of a currently live run; freeing an interior slot or
// an already-free slot is a programmer-contract violation and panics.
//
// Free does not shrink the high-water mark and does not emit any relocation
// event — only Defragment reclaims space.
func (a *IndexAllocator) Free(base Index) {
	width, ok := a.liveWidths[base]
	if !ok {
		panic("allocator: free of a non-live base slot")
	}
	delete(a.liveWidths, base)
	a.freeList = append(a.freeList, Range{Base: base, Width: width})
}

// CountForIndex returns the width of the live run based at slot, or 0 if
// slot is not the base of a live run (including interior slots and freed
// slots). Callers use the zero return to distinguish a base from an
// interior index.
func (a *IndexAllocator) CountForIndex(slot Index) Dimension {
	return a.liveWidths[slot]
}

// ValidIndex reports whether slot falls within the bounds of any live run
// (base or interior).
func (a *IndexAllocator) ValidIndex(slot Index) bool {
	for base, width := range a.liveWidths {
		if slot >= base && slot < base+Index(width) {
			return true
		}
	}
	return false
}

// Defragment compacts the live set to occupy a prefix of slot space with no
// gaps, relocating the highest-based live run into the lowest-based free run
// that can hold it, repeatedly, until no free run lies below any relocatable
// live run. It finishes by truncating the high-water mark to the new,
// smaller total.
//
// Relocating the highest live run first guarantees the tail shrinks
// monotonically and a run is never relocated on top of itself. When the
// lowest free run is narrower than the highest live run, the next-highest
// live run that does fit is tried instead — a free list kept by exact width
// (§4.1, §9) means a run only ever needs a free run of equal-or-greater
// width, not necessarily the very next one freed.
func (a *IndexAllocator) Defragment() {
	for len(a.freeList) > 0 {
		sort.Slice(a.freeList, func(i, j int) bool {
			return a.freeList[i].Base < a.freeList[j].Base
		})

		liveBases := a.liveBasesDescending()

		relocated := false
		for _, liveBase := range liveBases {
			liveWidth := a.liveWidths[liveBase]

			freeIdx := -1
			for i, free := range a.freeList {
				if free.Base < liveBase && free.Width >= liveWidth {
					freeIdx = i
					break
				}
			}
			if freeIdx == -1 {
				continue
			}

			free := a.freeList[freeIdx]
			a.freeList = append(a.freeList[:freeIdx], a.freeList[freeIdx+1:]...)

			source := Range{Base: liveBase, Width: liveWidth}
			target := free.Base

			delete(a.liveWidths, liveBase)
			a.liveWidths[target] = liveWidth
			if a.callbacks != nil {
				a.callbacks.MoveIndexRange(source, target)
			}

			if leftover := free.Width - liveWidth; leftover > 0 {
				a.freeList = append(a.freeList, Range{
					Base:  free.Base + Index(liveWidth),
					Width: leftover,
				})
			}
			// The vacated source range is free now; if it lies above the
			// final high-water mark it is pruned below.
			a.freeList = append(a.freeList, source)

			relocated = true
			break
		}

		if !relocated {
			// No live run that lies above a free run fits into it; the
			// remaining gaps cannot be closed.
			break
		}
	}

	newHighWaterMark := a.computeCompactedHighWaterMark()
	if newHighWaterMark != a.highWaterMark {
		a.highWaterMark = newHighWaterMark
		if a.callbacks != nil {
			a.callbacks.SetNumIndices(a.highWaterMark)
		}
	}
	a.pruneFreeListAbove(a.highWaterMark)
}

// liveBasesDescending returns the bases of all live runs, highest first.
func (a *IndexAllocator) liveBasesDescending() []Index {
	bases := make([]Index, 0, len(a.liveWidths))
	for base := range a.liveWidths {
		bases = append(bases, base)
	}
	sort.Slice(bases, func(i, j int) bool { return bases[i] > bases[j] })
	return bases
}

// pruneFreeListAbove drops free runs at or beyond the high-water mark; they
// were folded into the truncation in computeCompactedHighWaterMark.
func (a *IndexAllocator) pruneFreeListAbove(highWaterMark Index) {
	kept := a.freeList[:0]
	for _, free := range a.freeList {
		if free.Base < highWaterMark {
			kept = append(kept, free)
		}
	}
	a.freeList = kept
}

// highestLiveBase returns the base of the live run with the greatest base,
// or false if there are no live runs.
func (a *IndexAllocator) highestLiveBase() (Index, bool) {
	found := false
	var highest Index
	for base := range a.liveWidths {
		if !found || base > highest {
			highest = base
			found = true
		}
	}
	return highest, found
}

// computeCompactedHighWaterMark returns the slot one past the end of the
// highest live run, which is the minimal high-water mark once all runs are
// packed into a gap-free prefix.
func (a *IndexAllocator) computeCompactedHighWaterMark() Index {
	highest, ok := a.highestLiveBase()
	if !ok {
		return 0
	}
	return highest + Index(a.liveWidths[highest])
}
