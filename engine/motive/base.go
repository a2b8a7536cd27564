package motive

import (
	"fmt"

	"github.com/Carmen-Shannon/motive-go/engine/allocator"
)

// Debug gates the programmer-contract-violation checks described in §7
// ("fatal in debug... undefined in release"). Go has no assert statement, so
// Debug-gated checks panic instead; tests run with Debug true (the package
// default), and a release build can set motive.Debug = false to skip the
// extra bookkeeping checks on the hot path.
var Debug = true

// Algorithm is the set of hooks a concrete MotiveProcessor derivation
// supplies; Base calls these in response to allocator events and handle
// lifecycle operations, exactly as described in §4.2.
type Algorithm interface {
	// InitializeIndices populates the derivation's parallel arrays for the
	// newly allocated run [base, base+width).
	InitializeIndices(init Init, base allocator.Index, width allocator.Dimension, eng EngineAccessor)

	// RemoveIndices is an opportunity to clear or poison the derivation's
	// arrays for [base, base+width). Not required for plain arrays.
	RemoveIndices(base allocator.Index, width allocator.Dimension)

	// MoveIndices copies width slots from oldBase to newBase within the
	// derivation's parallel arrays. newBase is guaranteed unoccupied.
	MoveIndices(oldBase, newBase allocator.Index, width allocator.Dimension)

	// SetNumIndices resizes the derivation's parallel arrays to n slots.
	// New entries (on growth) must be initialized to a reset/idle state.
	SetNumIndices(n allocator.Index)
}

// Processor is the full external surface of a MotiveProcessor: the
// Engine-facing lifecycle (Type, Priority, AdvanceFrame), the handle
// lifecycle (InitializeMotivator, RemoveMotivator, TransferMotivator), and
// the bookkeeping queries (ValidMotivator, Dimensions, VerifyInternalState).
// A concrete derivation gets the handle-lifecycle and bookkeeping methods by
// embedding *Base, and implements Type/Priority/AdvanceFrame/Algorithm
// itself.
type Processor interface {
	Algorithm

	// Type returns the stable identifier of this MotiveProcessor kind.
	// Constant per derivation.
	Type() Type

	// Priority orders processors within one Engine frame; lower runs
	// earlier. Constant per derivation; never changes at runtime (§3
	// invariant 4).
	Priority() int

	// AdvanceFrame advances every live slot by dt. Implementations
	// typically call Base.Defragment() first.
	AdvanceFrame(dt Time)

	// InitializeMotivator allocates a run of width slots and binds handle to
	// its base, delegating to InitializeIndices for the algorithm-specific
	// setup.
	InitializeMotivator(init Init, eng EngineAccessor, handle *Motivator, width allocator.Dimension)

	// RemoveMotivator releases the run based at base, delegating to
	// RemoveIndices first and Resetting whatever handle owned it.
	RemoveMotivator(base allocator.Index)

	// BeginAdvance marks the processor as currently executing its own
	// AdvanceFrame body. The Engine calls this immediately before and
	// EndAdvance immediately after, so that a reentrant RemoveMotivator
	// called from inside AdvanceFrame (§8 scenario 6) panics under Debug
	// instead of silently corrupting the back-pointer table or free list.
	BeginAdvance()

	// EndAdvance clears the in-AdvanceFrame marker set by BeginAdvance.
	EndAdvance()

	// TransferMotivator retargets ownership of the run at base from
	// whichever handle owns it to newHandle, without touching the
	// underlying per-slot state.
	TransferMotivator(base allocator.Index, newHandle *Motivator)

	// ValidMotivator reports whether base is a live run base currently
	// owned by handle.
	ValidMotivator(base allocator.Index, handle *Motivator) bool

	// ValidIndex reports whether slot falls inside any live run, base or
	// interior.
	ValidIndex(slot allocator.Index) bool

	// ValidMotivatorIndex reports whether slot is specifically the base of
	// a live run (as opposed to an interior slot of one).
	ValidMotivatorIndex(slot allocator.Index) bool

	// Dimensions returns the width of the run based at base, or 0 if base
	// is not a live run base.
	Dimensions(base allocator.Index) allocator.Dimension

	// VerifyInternalState walks the live runs and returns a descriptive
	// error the first time an invariant from §3 is violated, or nil if the
	// processor's bookkeeping is internally consistent.
	VerifyInternalState() error
}

// Base owns the allocator and the back-pointer table shared by every
// MotiveProcessor derivation, and proxies allocator relocation/growth events
// both to the owning handles (rebinding them) and to the derivation's own
// Algorithm hooks. A derivation embeds *Base to get InitializeMotivator,
// RemoveMotivator, TransferMotivator, ValidMotivator, ValidIndex,
// ValidMotivatorIndex, Dimensions, VerifyInternalState, and Defragment for
// free, and implements Type/Priority/AdvanceFrame/Algorithm itself.
type Base struct {
	algorithm Algorithm
	index     *allocator.IndexAllocator

	// backPointers maps slot -> the Motivator bound there. Only a live run's
	// base slot holds a non-nil entry (§3 invariant 1); interior slots and
	// freed slots are nil.
	backPointers []*Motivator

	// advancing is true for the duration of this processor's own
	// AdvanceFrame call, set and cleared by the Engine around it. Guards
	// against reentrant RemoveMotivator (§8 scenario 6).
	advancing bool
}

// NewBase creates a Base that forwards allocator and handle-lifecycle events
// to algorithm. algorithm is typically the same pointer as the derivation
// embedding this Base — e.g. `p.Base = motive.NewBase(p)` right after
// allocating p, since Go resolves p's methods at call time, not at the time
// this pointer is captured.
func NewBase(algorithm Algorithm) *Base {
	b := &Base{algorithm: algorithm}
	b.index = allocator.New(b)
	return b
}

// SetNumIndices implements allocator.Callbacks. It grows or shrinks the
// back-pointer table to match the allocator's high-water mark and forwards
// the resize to the derivation's own arrays.
func (b *Base) SetNumIndices(n allocator.Index) {
	switch {
	case int(n) > len(b.backPointers):
		grown := make([]*Motivator, n)
		copy(grown, b.backPointers)
		b.backPointers = grown
	case int(n) < len(b.backPointers):
		b.backPointers = b.backPointers[:n]
	}
	b.algorithm.SetNumIndices(n)
}

// MoveIndexRange implements allocator.Callbacks. It relocates the
// back-pointer entry and rebinds the handle found there to its new base, in
// addition to delegating to the derivation's MoveIndices.
func (b *Base) MoveIndexRange(source allocator.Range, target allocator.Index) {
	handle := b.backPointers[source.Base]
	b.backPointers[source.Base] = nil
	b.backPointers[target] = handle
	for i := allocator.Index(1); i < allocator.Index(source.Width); i++ {
		b.backPointers[source.Base+i] = nil
	}
	if handle != nil {
		handle.bind(b.processorSelf(), target, source.Width)
	}
	b.algorithm.MoveIndices(source.Base, target, source.Width)
}

// processorSelf recovers the full Processor interface value from the
// Algorithm this Base was constructed with; every derivation satisfies both
// by construction (Algorithm via its own methods, the rest via this
// embedded Base).
func (b *Base) processorSelf() Processor {
	return b.algorithm.(Processor)
}

// InitializeMotivator allocates a run of width slots, writes handle into the
// back-pointer table at the run's base, and delegates to the derivation's
// InitializeIndices before rebinding handle to (processor, base).
func (b *Base) InitializeMotivator(init Init, eng EngineAccessor, handle *Motivator, width allocator.Dimension) {
	if Debug && handle.Valid() {
		panic("motive: InitializeMotivator called on an already-bound handle")
	}

	base := b.index.Allocate(width)
	b.backPointers[base] = handle
	b.algorithm.InitializeIndices(init, base, width, eng)
	handle.bind(b.processorSelf(), base, width)
}

// BeginAdvance marks this processor as currently inside its own AdvanceFrame
// body. Called by the Engine immediately before invoking AdvanceFrame.
func (b *Base) BeginAdvance() {
	b.advancing = true
}

// EndAdvance clears the marker set by BeginAdvance. Called by the Engine
// immediately after AdvanceFrame returns.
func (b *Base) EndAdvance() {
	b.advancing = false
}

// RemoveMotivator releases the run based at base: it delegates to
// RemoveIndices, clears the back-pointer, Resets whatever handle still owned
// it, and frees the run for reuse.
func (b *Base) RemoveMotivator(base allocator.Index) {
	if Debug && b.advancing {
		panic("motive: RemoveMotivator called reentrantly from within AdvanceFrame")
	}

	width := b.index.CountForIndex(base)
	if Debug && width == 0 {
		panic("motive: RemoveMotivator called on a non-live base slot")
	}

	b.algorithm.RemoveIndices(base, width)

	if handle := b.backPointers[base]; handle != nil {
		handle.Reset()
	}
	b.backPointers[base] = nil
	b.index.Free(base)
}

// TransferMotivator retargets the run at base from whichever handle
// currently owns it to newHandle: the old owner is Reset, newHandle is
// written into the back-pointer table and bound to (processor, base). The
// underlying per-slot state is untouched.
func (b *Base) TransferMotivator(base allocator.Index, newHandle *Motivator) {
	if Debug && b.index.CountForIndex(base) == 0 {
		panic("motive: TransferMotivator called on a non-live base slot")
	}

	if old := b.backPointers[base]; old != nil && old != newHandle {
		old.Reset()
	}
	width := b.index.CountForIndex(base)
	b.backPointers[base] = newHandle
	newHandle.bind(b.processorSelf(), base, width)
}

// ValidMotivator reports whether base is a live run base currently bound to
// handle.
func (b *Base) ValidMotivator(base allocator.Index, handle *Motivator) bool {
	return b.ValidMotivatorIndex(base) && b.backPointers[base] == handle
}

// ValidIndex reports whether slot falls inside any live run.
func (b *Base) ValidIndex(slot allocator.Index) bool {
	return b.index.ValidIndex(slot)
}

// ValidMotivatorIndex reports whether slot is the base of a live run.
func (b *Base) ValidMotivatorIndex(slot allocator.Index) bool {
	return int(slot) >= 0 && int(slot) < len(b.backPointers) && b.index.CountForIndex(slot) > 0
}

// Dimensions returns the width of the run based at base, or 0 if base is not
// a live run base.
func (b *Base) Dimensions(base allocator.Index) allocator.Dimension {
	return b.index.CountForIndex(base)
}

// Defragment compacts the allocator's live runs, relocating back-pointers
// and rebinding handles as runs move. Derivations call this from their own
// AdvanceFrame, typically before batch-updating their arrays, per §4.2 and
// §5 ("defragmentation, if performed, completes before per-slot advancement
// within that processor").
func (b *Base) Defragment() {
	b.index.Defragment()
}

// VerifyInternalState walks the live runs and checks the invariants from
// §3: every base has a non-nil handle whose binding matches (processor,
// base); every interior slot is nil; the back-pointer table length matches
// the allocator's high-water mark.
func (b *Base) VerifyInternalState() error {
	if allocator.Index(len(b.backPointers)) != b.index.HighWaterMark() {
		return fmt.Errorf("motive: back-pointer table length %d does not match high-water mark %d",
			len(b.backPointers), b.index.HighWaterMark())
	}

	for slot, handle := range b.backPointers {
		width := b.index.CountForIndex(allocator.Index(slot))
		switch {
		case width > 0:
			if handle == nil {
				return fmt.Errorf("motive: live base %d has a nil back-pointer", slot)
			}
			if handle.Base() != allocator.Index(slot) || handle.Processor() != b.processorSelf() {
				return fmt.Errorf("motive: handle bound to base %d does not match its own binding", slot)
			}
			for i := allocator.Index(1); i < allocator.Index(width); i++ {
				if b.backPointers[int(slot)+int(i)] != nil {
					return fmt.Errorf("motive: interior slot %d of run based at %d has a non-nil back-pointer", int(slot)+int(i), slot)
				}
			}
		case handle != nil:
			return fmt.Errorf("motive: non-base slot %d has a non-nil back-pointer", slot)
		}
	}
	return nil
}
