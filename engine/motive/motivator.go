package motive

import "github.com/Carmen-Shannon/motive-go/engine/allocator"

// Motivator is the external, opaque handle to an animated value. It binds to
// the base slot of a run inside exactly one MotiveProcessor at a time.
//
// A Motivator carries no state of its own beyond the (processor, base) pair
// it is bound to — all actual per-slot data lives in the processor's dense
// arrays. Copying a Motivator's bound fields without going through Transfer
// would leave two handles pointing at the same slot with only one of them
// recognized as the owner by the processor's back-pointer table; callers
// should treat a Motivator as move-only and use Transfer to reassign
// ownership.
type Motivator struct {
	processor Processor
	base      allocator.Index
	width     allocator.Dimension
}

// Valid reports whether this handle is currently bound to a live slot run.
func (m *Motivator) Valid() bool {
	return m.processor != nil && m.processor.ValidMotivator(m.base, m)
}

// Processor returns the MotiveProcessor this handle is bound to, or nil if
// the handle is Reset. Callers type-assert the result to the processor
// face interface (scalarproc.Reader, matrixproc.Processor, rigproc.Processor)
// appropriate to the algorithm they initialized the handle with.
func (m *Motivator) Processor() Processor {
	return m.processor
}

// Base returns the slot this handle is bound to. The result is meaningless
// when Valid() is false.
func (m *Motivator) Base() allocator.Index {
	return m.base
}

// Width returns the dimension count the handle was initialized with.
func (m *Motivator) Width() allocator.Dimension {
	return m.width
}

// Reset unbinds the handle without affecting the underlying slot: if some
// other handle still owns the slot (this happens mid-Transfer, never as a
// steady state), that ownership is untouched. Reset is idempotent.
func (m *Motivator) Reset() {
	m.processor = nil
	m.base = 0
	m.width = 0
}

// Initialize binds m to a newly allocated slot-run inside the processor
// named by init.ProcessorType(), lazily creating that processor through eng
// if this is its first use. If m was already bound, the previous slot is
// released first (matching the "a handle is bound to at most one slot run
// at a time" invariant, §3).
func (m *Motivator) Initialize(eng EngineAccessor, init Init, width allocator.Dimension) error {
	if m.Valid() {
		m.processor.RemoveMotivator(m.base)
	}
	return eng.Initialize(m, init, width)
}

// Remove releases the handle's slot run back to its processor. The handle
// is Reset as a side effect (RemoveMotivator resets whichever handle it
// finds bound at base, which is m).
func (m *Motivator) Remove() {
	if !m.Valid() {
		return
	}
	m.processor.RemoveMotivator(m.base)
}

// TransferTo moves ownership of m's slot run to other, resetting m. other
// must not already be bound; if it is, its prior slot is left untouched
// (the caller leaked it) — callers should Reset or Remove other first.
// This realizes Go's analogue of the move/copy semantics described in §4.2:
// Go has no copy constructors to hook, so the transfer is explicit.
func (m *Motivator) TransferTo(other *Motivator) {
	if !m.Valid() {
		other.Reset()
		return
	}
	m.processor.TransferMotivator(m.base, other)
}

// bind is called only by Base.InitializeMotivator, Base.MoveIndexRange and
// Base.TransferMotivator to attach this handle to (processor, base, width). It is unexported: external code
// only ever observes bindings through Initialize/TransferTo/Remove/Reset.
func (m *Motivator) bind(processor Processor, base allocator.Index, width allocator.Dimension) {
	m.processor = processor
	m.base = base
	m.width = width
}
