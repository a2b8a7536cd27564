// Package motive implements the processor substrate described in §4.2–§4.6:
// the contract between a stable external Motivator handle and a relocatable
// internal slot inside a MotiveProcessor, the back-pointer fixup protocol
// that keeps the two in sync across relocation, and the accessor surface an
// Engine uses to drive processors once per frame.
//
// Concrete processor algorithms (linear targets, eased curves, matrix
// composition, rig playback) live under processors/, each implementing one
// of the polymorphic faces declared in the scalarproc, matrixproc, and
// rigproc subpackages.
package motive

import "github.com/Carmen-Shannon/motive-go/engine/allocator"

// Type is a stable identifier selecting which MotiveProcessor a Motivator's
// Init descriptor belongs to. Each algorithm implementation declares its own
// Type constant and registers a factory for it with the Engine.
type Type string

// Time is an engine-defined unit of playback time. Its meaning (seconds,
// ticks, milliseconds) is decided entirely by the caller driving AdvanceFrame
// and by each processor's own targets; the core never interprets it.
type Time float32

// Init is the initialization descriptor every Motivator.Initialize call
// carries. Each MotiveProcessor kind declares its own Init variant (e.g. a
// struct with a start value and a target); dispatch to the right processor
// is by Type() alone.
type Init interface {
	// ProcessorType returns the stable identifier of the MotiveProcessor
	// kind this Init targets.
	ProcessorType() Type
}

// EngineAccessor is the narrow surface a MotiveProcessor is given at
// InitializeIndices time so that it can create child Motivators driven by
// other processors (e.g. a matrix processor's child operation driven by a
// nested scalar-1 Motivator). It is satisfied by *engine.Engine without
// engine/motive needing to import the engine package.
type EngineAccessor interface {
	// Initialize binds handle to a slot-run of the given width inside
	// whichever processor init.ProcessorType() names, lazily creating that
	// processor via its registered factory if this is the first use.
	Initialize(handle *Motivator, init Init, width allocator.Dimension) error

	// Find returns the processor already registered for tag, if any, without
	// creating one.
	Find(tag Type) (Processor, bool)
}
