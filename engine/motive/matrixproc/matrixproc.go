// Package matrixproc declares the polymorphic face (§4.4) for
// MotiveProcessor derivations that compose a 4x4 transform out of child
// operations, each itself driven by a nested Motivator (typically a
// scalar-1 processor).
package matrixproc

import (
	"github.com/Carmen-Shannon/motive-go/engine/allocator"
	"github.com/Carmen-Shannon/motive-go/engine/motive"
	"github.com/Carmen-Shannon/motive-go/engine/motive/scalarproc"
)

// Op names one operation in a matrix slot's composition chain: a kind
// (translate-x, rotate-about-y, uniform-scale, ...) paired with the
// Motivator driving its scalar input. External collaborators define the
// actual Kind vocabulary and the order-of-composition convention; the core
// only carries the pairing and exposes it for inspection and re-targeting.
type Op struct {
	Kind  string
	Child motive.Motivator
}

// Reader is the read side of the matrix-4x4 face.
type Reader interface {
	motive.Processor

	// Value returns the composed row-major (or column-major, per the
	// caller's own convention — the core never interprets the 16 floats)
	// 4x4 transform currently at base.
	Value(base allocator.Index) [16]float32

	// NumChildren returns how many child operations compose the slot at
	// base.
	NumChildren(base allocator.Index) int

	// ChildValues writes the current scalar value driving each of the
	// slot's child operations into out.
	ChildValues(base allocator.Index, out []float32)

	// ChildMotivator1f returns the scalar-1 Reader face of the Motivator
	// driving child index i, or ok=false if i is out of range or not
	// scalar-driven.
	ChildMotivator1f(base allocator.Index, i int) (r scalarproc.Reader, ok bool)
}

// Driver is the write side of the matrix-4x4 face.
type Driver interface {
	// SetChildTarget1f retargets child i's driving scalar Motivator to
	// target, using whatever targeting style that child's processor
	// supports.
	SetChildTarget1f(base allocator.Index, i int, target scalarproc.Target)

	// SetChildValues overwrites every child operation's driving value
	// instantaneously, bypassing whatever transition its own processor
	// would otherwise run.
	SetChildValues(base allocator.Index, values []float32)

	// BlendToOps replaces the slot's entire composition chain with ops,
	// transitioning over blendTime: a derivation implementing a smooth
	// handoff fades the old composed value into the new chain's value
	// rather than snapping.
	BlendToOps(base allocator.Index, ops []Op, blendTime motive.Time)

	// SetPlaybackRate scales every child operation's own playback rate by
	// rate.
	SetPlaybackRate(base allocator.Index, rate float32)
}

// Processor is the complete matrix-4x4 face.
type Processor interface {
	Reader
	Driver
}

// NoopDriver implements Driver entirely as no-ops, for derivations that
// compose a fixed chain of children set up once at InitializeIndices and
// never retargeted.
type NoopDriver struct{}

func (NoopDriver) SetChildTarget1f(allocator.Index, int, scalarproc.Target) {}
func (NoopDriver) SetChildValues(allocator.Index, []float32)                {}
func (NoopDriver) BlendToOps(allocator.Index, []Op, motive.Time)            {}
func (NoopDriver) SetPlaybackRate(allocator.Index, float32)                 {}
