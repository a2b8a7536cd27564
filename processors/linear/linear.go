// Package linear implements the simplest possible scalar-N processor: each
// dimension moves at a constant velocity from its current value to a single
// target value over a fixed duration, with no easing.
package linear

import (
	"github.com/Carmen-Shannon/motive-go/engine/allocator"
	"github.com/Carmen-Shannon/motive-go/engine/motive"
	"github.com/Carmen-Shannon/motive-go/engine/motive/scalarproc"
)

// Type is the stable type-tag this package registers its factory under.
const Type motive.Type = "linear"

// Init is the initialization descriptor for a linear motivator: one
// (start, target, duration) triple per dimension.
type Init struct {
	Start    []float32
	Target   []float32
	Duration []motive.Time
}

// ProcessorType implements motive.Init.
func (Init) ProcessorType() motive.Type { return Type }

// Init1 builds a width-1 Init, the common case (scenario: "register a
// linear scalar-1 processor... init{start=0, target=10, time=10}").
func Init1(start, target float32, duration motive.Time) Init {
	return Init{Start: []float32{start}, Target: []float32{target}, Duration: []motive.Time{duration}}
}

type slot struct {
	value    float32
	target   float32
	velocity float32
	duration motive.Time
	elapsed  motive.Time
}

func (s *slot) reset() {
	*s = slot{}
}

// Processor drives every live slot's value linearly toward its target at a
// constant rate computed when the target is set.
type Processor struct {
	*motive.Base
	scalarproc.NoopDriver

	slots []slot
}

var (
	_ scalarproc.Processor = (*Processor)(nil)
)

// New creates an empty linear Processor, suitable as an engine.Factory.
func New() *Processor {
	p := &Processor{}
	p.Base = motive.NewBase(p)
	return p
}

func (p *Processor) Type() motive.Type { return Type }

// Priority is 0: linear processors have no dependency on any other
// processor, so they run first within a frame.
func (p *Processor) Priority() int { return 0 }

func (p *Processor) InitializeIndices(init motive.Init, base allocator.Index, width allocator.Dimension, eng motive.EngineAccessor) {
	in := init.(Init)
	for i := allocator.Dimension(0); i < width; i++ {
		slotIdx := base + allocator.Index(i)
		p.slots[slotIdx] = slot{
			value:    in.Start[i],
			target:   in.Target[i],
			duration: in.Duration[i],
		}
		p.slots[slotIdx].velocity = rate(in.Start[i], in.Target[i], in.Duration[i])
	}
}

func (p *Processor) RemoveIndices(base allocator.Index, width allocator.Dimension) {
	for i := allocator.Dimension(0); i < width; i++ {
		p.slots[base+allocator.Index(i)].reset()
	}
}

func (p *Processor) MoveIndices(oldBase, newBase allocator.Index, width allocator.Dimension) {
	for i := allocator.Dimension(0); i < width; i++ {
		p.slots[newBase+allocator.Index(i)] = p.slots[oldBase+allocator.Index(i)]
		p.slots[oldBase+allocator.Index(i)].reset()
	}
}

func (p *Processor) SetNumIndices(n allocator.Index) {
	switch {
	case int(n) > len(p.slots):
		grown := make([]slot, n)
		copy(grown, p.slots)
		p.slots = grown
	case int(n) < len(p.slots):
		p.slots = p.slots[:n]
	}
}

// AdvanceFrame defragments first, then advances every live slot's value
// toward its target at its fixed velocity, clamping (and zeroing velocity)
// once the duration elapses.
func (p *Processor) AdvanceFrame(dt motive.Time) {
	p.Defragment()

	for i := range p.slots {
		s := &p.slots[i]
		if s.duration == 0 && s.value == s.target {
			continue
		}
		if s.elapsed >= s.duration {
			continue
		}
		s.elapsed += dt
		if s.elapsed >= s.duration {
			s.elapsed = s.duration
			s.value = s.target
			s.velocity = 0
		} else {
			s.value = s.target - s.velocity*float32(s.duration-s.elapsed)
		}
	}
}

func rate(start, target float32, duration motive.Time) float32 {
	if duration == 0 {
		return 0
	}
	return (target - start) / float32(duration)
}

// Values returns the current value of every dimension of the run at base.
func (p *Processor) Values(base allocator.Index) []float32 {
	width := int(p.Dimensions(base))
	out := make([]float32, width)
	for i := range out {
		out[i] = p.slots[int(base)+i].value
	}
	return out
}

func (p *Processor) Velocities(base allocator.Index, dimensions allocator.Dimension, out []float32) {
	for i := allocator.Dimension(0); i < dimensions; i++ {
		out[i] = p.slots[base+allocator.Index(i)].velocity
	}
}

// Directions defaults to Velocities: linear motion has no notion of
// direction distinct from velocity (§9 Open Question).
func (p *Processor) Directions(base allocator.Index, dimensions allocator.Dimension, out []float32) {
	p.Velocities(base, dimensions, out)
}

func (p *Processor) TargetValues(base allocator.Index, dimensions allocator.Dimension, out []float32) {
	for i := allocator.Dimension(0); i < dimensions; i++ {
		out[i] = p.slots[base+allocator.Index(i)].target
	}
}

// TargetVelocities is always 0: a linear processor arrives at rest.
func (p *Processor) TargetVelocities(base allocator.Index, dimensions allocator.Dimension, out []float32) {
	for i := range out[:dimensions] {
		out[i] = 0
	}
}

func (p *Processor) Differences(base allocator.Index, dimensions allocator.Dimension, out []float32) {
	for i := allocator.Dimension(0); i < dimensions; i++ {
		s := &p.slots[base+allocator.Index(i)]
		out[i] = s.target - s.value
	}
}

// TargetTime returns the time remaining on dimension 0's target.
func (p *Processor) TargetTime(base allocator.Index, dimensions allocator.Dimension) motive.Time {
	s := &p.slots[base]
	return s.duration - s.elapsed
}

// SplineTime is always 0: linear slots are never spline-driven.
func (p *Processor) SplineTime(allocator.Index) motive.Time { return 0 }

// MotiveShape is always the zero shape: linear slots have no curve shape.
func (p *Processor) MotiveShape(allocator.Index) scalarproc.CurveShape { return scalarproc.CurveShape{} }

func (p *Processor) Splines(base allocator.Index, count allocator.Dimension, out []scalarproc.CompactSpline) {
	for i := range out[:count] {
		out[i] = nil
	}
}

// SetTargets retargets each dimension to the LAST waypoint in its sequence
// (a linear processor has no notion of an intermediate waypoint schedule),
// reached linearly from the current value over that waypoint's Time.
func (p *Processor) SetTargets(base allocator.Index, dimensions allocator.Dimension, targets [][]scalarproc.Target) {
	for i := allocator.Dimension(0); i < dimensions; i++ {
		seq := targets[i]
		if len(seq) == 0 {
			continue
		}
		final := seq[len(seq)-1]
		s := &p.slots[base+allocator.Index(i)]
		s.target = final.Value
		s.duration = final.Time
		s.elapsed = 0
		s.velocity = rate(s.value, s.target, s.duration)
	}
}
