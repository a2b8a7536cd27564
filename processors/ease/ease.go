// Package ease implements a scalar-N processor whose dimensions approach
// their target along a shaped curve rather than linear's constant rate.
// The curve math itself (Overshoot, Smooth, or any other family) is an
// external collaborator's concern (§1 Non-goals); this processor depends on
// the Curve interface for it and falls back to a plain cubic Hermite ease
// when none is supplied, so the package is useful standalone.
package ease

import (
	"github.com/Carmen-Shannon/motive-go/common"
	"github.com/Carmen-Shannon/motive-go/engine/allocator"
	"github.com/Carmen-Shannon/motive-go/engine/motive"
	"github.com/Carmen-Shannon/motive-go/engine/motive/scalarproc"
)

// Type is the stable type-tag this package registers its factory under.
const Type motive.Type = "ease"

// Curve evaluates a shaped transition from (startValue, startVelocity) to
// (targetValue, targetVelocity) at fraction s of the transition's total
// duration, s in [0, 1]. Implementations are the "Overshoot/Smooth curve
// math" collaborator named in §1; DefaultCurve provides a plain fallback.
type Curve interface {
	Evaluate(shape scalarproc.CurveShape, startValue, startVelocity, targetValue, targetVelocity, s float32) (value, velocity float32)
}

// DefaultCurve is a plain cubic Hermite ease, ignoring shape.Bias beyond
// using it to bow the curve toward the start (bias < 0.5) or end (bias >
// 0.5) of the transition. It has none of the overshoot/settle behavior a
// real curve library would offer; it exists so this package has a working
// default without depending on one.
type DefaultCurve struct{}

func (DefaultCurve) Evaluate(shape scalarproc.CurveShape, startValue, startVelocity, targetValue, targetVelocity, s float32) (float32, float32) {
	if s <= 0 {
		return startValue, startVelocity
	}
	if s >= 1 {
		return targetValue, targetVelocity
	}

	bias := common.Coalesce(shape.Bias, 0.5)
	t := s
	if bias != 0.5 {
		// Bow the parametrization toward bias without touching the
		// endpoints.
		t = s * (1 + 2*(bias-0.5)*(1-s))
	}

	h00 := 2*t*t*t - 3*t*t + 1
	h10 := t*t*t - 2*t*t + t
	h01 := -2*t*t*t + 3*t*t
	h11 := t*t*t - t*t

	value := h00*startValue + h10*startVelocity + h01*targetValue + h11*targetVelocity
	velocity := 6*(t*t-t)*startValue + (3*t*t-4*t+1)*startVelocity + 6*(t-t*t)*targetValue + (3*t*t-2*t)*targetVelocity
	return value, velocity
}

type slot struct {
	value          float32
	velocity       float32
	startValue     float32
	startVelocity  float32
	targetValue    float32
	targetVelocity float32
	shape          scalarproc.CurveShape
	duration       motive.Time
	elapsed        motive.Time
}

func (s *slot) reset() { *s = slot{} }

func (s *slot) fraction() float32 {
	if s.duration <= 0 {
		return 1
	}
	f := float32(s.elapsed) / float32(s.duration)
	if f > 1 {
		return 1
	}
	return f
}

// Init is the initialization descriptor for an ease motivator: a starting
// value/velocity per dimension. Dimensions start with no target set (at
// rest) until SetTargetWithShape drives them.
type Init struct {
	Start    []float32
	Velocity []float32
}

func (Init) ProcessorType() motive.Type { return Type }

// Processor eases every live slot's value toward its most recently set
// target, shaped by a Curve collaborator.
type Processor struct {
	*motive.Base

	curve Curve
	slots []slot
}

var _ scalarproc.Processor = (*Processor)(nil)

// New creates an empty ease Processor using curve for shaping transitions.
// A nil curve falls back to DefaultCurve.
func New(curve Curve) *Processor {
	if curve == nil {
		curve = DefaultCurve{}
	}
	p := &Processor{curve: curve}
	p.Base = motive.NewBase(p)
	return p
}

func (p *Processor) Type() motive.Type { return Type }

// Priority is 0: like linear, an ease processor depends on nothing else.
func (p *Processor) Priority() int { return 0 }

func (p *Processor) InitializeIndices(init motive.Init, base allocator.Index, width allocator.Dimension, eng motive.EngineAccessor) {
	in := init.(Init)
	for i := allocator.Dimension(0); i < width; i++ {
		p.slots[base+allocator.Index(i)] = slot{
			value:         in.Start[i],
			velocity:      in.Velocity[i],
			startValue:    in.Start[i],
			startVelocity: in.Velocity[i],
			targetValue:   in.Start[i],
		}
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

// AdvanceFrame defragments first, then advances every slot with a
// transition in flight along the curve.
func (p *Processor) AdvanceFrame(dt motive.Time) {
	p.Defragment()

	for i := range p.slots {
		s := &p.slots[i]
		if s.elapsed >= s.duration {
			continue
		}
		s.elapsed += dt
		s.value, s.velocity = p.curve.Evaluate(s.shape, s.startValue, s.startVelocity, s.targetValue, s.targetVelocity, s.fraction())
	}
}

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

func (p *Processor) Directions(base allocator.Index, dimensions allocator.Dimension, out []float32) {
	p.Velocities(base, dimensions, out)
}

func (p *Processor) TargetValues(base allocator.Index, dimensions allocator.Dimension, out []float32) {
	for i := allocator.Dimension(0); i < dimensions; i++ {
		out[i] = p.slots[base+allocator.Index(i)].targetValue
	}
}

func (p *Processor) TargetVelocities(base allocator.Index, dimensions allocator.Dimension, out []float32) {
	for i := allocator.Dimension(0); i < dimensions; i++ {
		out[i] = p.slots[base+allocator.Index(i)].targetVelocity
	}
}

func (p *Processor) Differences(base allocator.Index, dimensions allocator.Dimension, out []float32) {
	for i := allocator.Dimension(0); i < dimensions; i++ {
		s := &p.slots[base+allocator.Index(i)]
		out[i] = s.targetValue - s.value
	}
}

func (p *Processor) TargetTime(base allocator.Index, dimensions allocator.Dimension) motive.Time {
	s := &p.slots[base]
	remaining := s.duration - s.elapsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// SplineTime is always 0: this processor never drives from a spline.
func (p *Processor) SplineTime(allocator.Index) motive.Time { return 0 }

func (p *Processor) MotiveShape(base allocator.Index) scalarproc.CurveShape {
	return p.slots[base].shape
}

func (p *Processor) Splines(base allocator.Index, count allocator.Dimension, out []scalarproc.CompactSpline) {
	for i := range out[:count] {
		out[i] = nil
	}
}

// SetTargets is a no-op: this processor only supports the shaped
// single-target form (§7: unsupported driver methods are silently
// ignored).
func (p *Processor) SetTargets(allocator.Index, allocator.Dimension, [][]scalarproc.Target) {}

// SetTargetWithShape retargets each dimension to (targetValues[i],
// targetVelocities[i]), easing from the slot's current value/velocity over
// shape.TypicalDeltaTime.
func (p *Processor) SetTargetWithShape(base allocator.Index, dimensions allocator.Dimension, targetValues, targetVelocities []float32, shape scalarproc.CurveShape) {
	for i := allocator.Dimension(0); i < dimensions; i++ {
		s := &p.slots[base+allocator.Index(i)]
		s.startValue = s.value
		s.startVelocity = s.velocity
		s.targetValue = targetValues[i]
		s.targetVelocity = targetVelocities[i]
		s.shape = shape
		s.duration = shape.TypicalDeltaTime
		s.elapsed = 0
	}
}

// SetSplines, SetSplinesAndTargets, SetSplineTime, and
// SetSplinePlaybackRate are no-ops: this processor drives only from shaped
// targets, never from a spline.
func (p *Processor) SetSplines(allocator.Index, allocator.Dimension, []scalarproc.CompactSpline, scalarproc.Playback) {
}
func (p *Processor) SetSplinesAndTargets(base allocator.Index, dimensions allocator.Dimension, splines []scalarproc.CompactSpline, playback scalarproc.Playback, targets [][]scalarproc.Target) {
	p.SetTargets(base, dimensions, targets)
}
func (p *Processor) SetSplineTime(allocator.Index, allocator.Dimension, motive.Time)      {}
func (p *Processor) SetSplinePlaybackRate(allocator.Index, allocator.Dimension, float32) {}
