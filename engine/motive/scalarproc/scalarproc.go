// Package scalarproc declares the polymorphic face (§4.3) for
// MotiveProcessor derivations that drive one or more independent scalar
// values per slot: position, rotation, or any other time-varying float.
package scalarproc

import (
	"github.com/Carmen-Shannon/motive-go/engine/allocator"
	"github.com/Carmen-Shannon/motive-go/engine/motive"
)

// Target describes one waypoint a scalar dimension should reach: a value,
// the velocity it should arrive with, and the time offset (from "now", in
// the processor's own Time units) at which it should be reached. A Targets
// descriptor is an ordered sequence of these per dimension.
type Target struct {
	Value    float32
	Velocity float32
	Time     motive.Time
}

// CurveShape describes an easing curve family and parameters sufficient for
// a derivation to pick how a value approaches its target: a typical time
// and distance the curve is tuned for, plus a bias. The actual curve math
// (Overshoot, Smooth, ...) is an external collaborator (§1); this core only
// carries the descriptor.
type CurveShape struct {
	TypicalDeltaTime  motive.Time
	TypicalTotalDelta float32
	Bias              float32
}

// CompactSpline is an opaque, externally defined, sampleable curve over
// spline-local time (§6). The core never samples a spline itself; it only
// threads the reference through SetSplines/Splines so a processor
// derivation that does know how to sample one (an external collaborator)
// can be driven by it.
type CompactSpline interface {
	// EndTime returns the spline-local time at which the spline ends.
	EndTime() motive.Time

	// Sample returns the spline's value at spline-local time t. The
	// sampling algorithm itself (Hermite, Catmull-Rom, ...) is an external
	// collaborator's concern; the core and any processor built on top of
	// it only ever call through this method.
	Sample(t motive.Time) float32
}

// Playback describes how a spline or rig animation should play back:
// start time, playback rate, looping, and blend duration when transitioning
// from whatever was playing before (§6).
type Playback struct {
	StartTime     motive.Time
	PlaybackRate  float32
	Loop          bool
	BlendDuration motive.Time
}

// Reader is the read side of the scalar-N face: bulk accessors indexed by a
// run's base and a width covering a prefix of the run.
type Reader interface {
	motive.Processor

	// Values returns a read-only view of the current values for
	// [base, base+width), where width is Dimensions(base).
	Values(base allocator.Index) []float32

	// Velocities writes the current velocity of each of the first
	// dimensions values into out.
	Velocities(base allocator.Index, dimensions allocator.Dimension, out []float32)

	// Directions writes the current direction of travel of each of the
	// first dimensions values into out. Defaults to Velocities when a
	// derivation has no notion of direction distinct from velocity (e.g.
	// no wraparound) — see the Open Question in §9.
	Directions(base allocator.Index, dimensions allocator.Dimension, out []float32)

	// TargetValues writes the target value of each of the first dimensions
	// values into out.
	TargetValues(base allocator.Index, dimensions allocator.Dimension, out []float32)

	// TargetVelocities writes the target velocity of each of the first
	// dimensions values into out.
	TargetVelocities(base allocator.Index, dimensions allocator.Dimension, out []float32)

	// Differences writes, for each of the first dimensions values, the
	// signed difference remaining between the current value and its
	// target into out.
	Differences(base allocator.Index, dimensions allocator.Dimension, out []float32)

	// TargetTime returns the time remaining until the current target is
	// reached, for a run of the given width.
	TargetTime(base allocator.Index, dimensions allocator.Dimension) motive.Time

	// SplineTime returns the current playback position in spline-local
	// time, or 0 if the slot is not spline-driven.
	SplineTime(base allocator.Index) motive.Time

	// MotiveShape returns the curve-shape descriptor currently in use at
	// base, or the zero CurveShape if none applies.
	MotiveShape(base allocator.Index) CurveShape

	// Splines writes, for each of the first count dimensions, the
	// CompactSpline currently driving it, or nil where that dimension is
	// not spline-driven.
	Splines(base allocator.Index, count allocator.Dimension, out []CompactSpline)
}

// Driver is the write side of the scalar-N face. A derivation must
// implement at least one of SetTargets, SetTargetWithShape, or SetSplines;
// any method a derivation does not override is a no-op (§7) so that generic
// client code can probe multiple driving styles without special-casing
// unsupported algorithms.
type Driver interface {
	// SetTargets schedules each dimension to reach an ordered sequence of
	// waypoints.
	SetTargets(base allocator.Index, dimensions allocator.Dimension, targets [][]Target)

	// SetTargetWithShape targets a single (value, velocity) per dimension
	// using an explicit curve shape.
	SetTargetWithShape(base allocator.Index, dimensions allocator.Dimension, targetValues, targetVelocities []float32, shape CurveShape)

	// SetSplines drives each dimension by a precomputed compact spline.
	SetSplines(base allocator.Index, dimensions allocator.Dimension, splines []CompactSpline, playback Playback)

	// SetSplinesAndTargets drives dimension i by splines[i] when non-nil,
	// else by targets[i].
	SetSplinesAndTargets(base allocator.Index, dimensions allocator.Dimension, splines []CompactSpline, playback Playback, targets [][]Target)

	// SetSplineTime repositions spline-driven dimensions to time.
	SetSplineTime(base allocator.Index, dimensions allocator.Dimension, time motive.Time)

	// SetSplinePlaybackRate changes the playback rate of spline-driven
	// dimensions.
	SetSplinePlaybackRate(base allocator.Index, dimensions allocator.Dimension, rate float32)
}

// Processor is the complete scalar-N face: every MotiveProcessorNf
// derivation implements Reader and whichever Driver methods it supports
// (embedding NoopDriver covers the rest as no-ops).
type Processor interface {
	Reader
	Driver
}

// NoopDriver implements Driver entirely as no-ops. A derivation that only
// supports, say, SetSplines embeds NoopDriver and overrides just that one
// method — exactly the pattern the teacher's simple animator backend uses
// for the skeletal-only methods it doesn't support (empty bodies, never an
// error).
type NoopDriver struct{}

func (NoopDriver) SetTargets(allocator.Index, allocator.Dimension, [][]Target)                       {}
func (NoopDriver) SetTargetWithShape(allocator.Index, allocator.Dimension, []float32, []float32, CurveShape) {
}
func (NoopDriver) SetSplines(allocator.Index, allocator.Dimension, []CompactSpline, Playback) {}
func (NoopDriver) SetSplinesAndTargets(allocator.Index, allocator.Dimension, []CompactSpline, Playback, [][]Target) {
}
func (NoopDriver) SetSplineTime(allocator.Index, allocator.Dimension, motive.Time)  {}
func (NoopDriver) SetSplinePlaybackRate(allocator.Index, allocator.Dimension, float32) {}

// Value is the convenience single-value form of Values, for width-1 runs.
func Value(r Reader, base allocator.Index) float32 {
	return r.Values(base)[0]
}

// Velocity is the convenience single-value form of Velocities.
func Velocity(r Reader, base allocator.Index) float32 {
	var v [1]float32
	r.Velocities(base, 1, v[:])
	return v[0]
}

// Direction is the convenience single-value form of Directions.
func Direction(r Reader, base allocator.Index) float32 {
	var v [1]float32
	r.Directions(base, 1, v[:])
	return v[0]
}

// TargetValue is the convenience single-value form of TargetValues.
func TargetValue(r Reader, base allocator.Index) float32 {
	var v [1]float32
	r.TargetValues(base, 1, v[:])
	return v[0]
}

// TargetVelocity is the convenience single-value form of TargetVelocities.
func TargetVelocity(r Reader, base allocator.Index) float32 {
	var v [1]float32
	r.TargetVelocities(base, 1, v[:])
	return v[0]
}

// Difference is the convenience single-value form of Differences.
func Difference(r Reader, base allocator.Index) float32 {
	var v [1]float32
	r.Differences(base, 1, v[:])
	return v[0]
}
