// Package matrix4 implements the matrix-4x4 processor face (§4.4): each
// slot composes a transform out of an ordered list of operations, each
// driven by a nested scalar-1 motivator (typically from processors/linear
// or processors/ease). Because it samples other processors' outputs, it
// must run after them — see Priority.
package matrix4

import (
	"github.com/Carmen-Shannon/motive-go/common"
	"github.com/Carmen-Shannon/motive-go/engine/allocator"
	"github.com/Carmen-Shannon/motive-go/engine/motive"
	"github.com/Carmen-Shannon/motive-go/engine/motive/matrixproc"
	"github.com/Carmen-Shannon/motive-go/engine/motive/scalarproc"
)

// Type is the stable type-tag this package registers its factory under.
const Type motive.Type = "matrix4"

// Op kinds recognized by Compose. An unrecognized Kind contributes nothing.
const (
	KindTranslateX  = "translate-x"
	KindTranslateY  = "translate-y"
	KindTranslateZ  = "translate-z"
	KindRotateX     = "rotate-x"
	KindRotateY     = "rotate-y"
	KindRotateZ     = "rotate-z"
	KindScaleX      = "scale-x"
	KindScaleY      = "scale-y"
	KindScaleZ      = "scale-z"
	KindScaleUnform = "scale-uniform"
)

// OpSpec describes one operation to create at InitializeIndices time: its
// kind and the Init descriptor for the scalar-1 child motivator that will
// drive it.
type OpSpec struct {
	Kind      string
	ChildInit motive.Init
}

// Init is the initialization descriptor for a matrix4 motivator: the
// ordered operation list composing its transform.
type Init struct {
	Ops []OpSpec
}

func (Init) ProcessorType() motive.Type { return Type }

type slotState struct {
	ops   []matrixproc.Op
	value [16]float32
}

func (s *slotState) reset() {
	s.ops = nil
	common.Identity(s.value[:])
}

// Processor composes a 4x4 transform per slot from its children's current
// scalar values.
type Processor struct {
	*motive.Base
	matrixproc.NoopDriver

	slots []slotState
}

var _ matrixproc.Processor = (*Processor)(nil)

// New creates an empty matrix4 Processor, suitable as an engine.Factory.
func New() *Processor {
	p := &Processor{}
	p.Base = motive.NewBase(p)
	return p
}

func (p *Processor) Type() motive.Type { return Type }

// Priority is 10, strictly above the scalar processors (priority 0) whose
// outputs this processor samples every frame — see §4.6 priority rationale.
func (p *Processor) Priority() int { return 10 }

func (p *Processor) InitializeIndices(init motive.Init, base allocator.Index, width allocator.Dimension, eng motive.EngineAccessor) {
	in := init.(Init)
	ops := make([]matrixproc.Op, len(in.Ops))
	for i, spec := range in.Ops {
		// Initialize the child in place so the child processor's
		// back-pointer refers to the handle stored in ops.
		ops[i].Kind = spec.Kind
		if err := ops[i].Child.Initialize(eng, spec.ChildInit, 1); err != nil {
			panic("motive: matrix4 child motivator failed to initialize: " + err.Error())
		}
	}
	for i := allocator.Dimension(0); i < width; i++ {
		s := &p.slots[base+allocator.Index(i)]
		s.ops = ops
		p.compose(s)
	}
}

func (p *Processor) RemoveIndices(base allocator.Index, width allocator.Dimension) {
	for i := allocator.Dimension(0); i < width; i++ {
		s := &p.slots[base+allocator.Index(i)]
		for j := range s.ops {
			s.ops[j].Child.Remove()
		}
		s.reset()
	}
}

func (p *Processor) MoveIndices(oldBase, newBase allocator.Index, width allocator.Dimension) {
	for i := allocator.Dimension(0); i < width; i++ {
		p.slots[newBase+allocator.Index(i)] = p.slots[oldBase+allocator.Index(i)]
		p.slots[oldBase+allocator.Index(i)] = slotState{}
	}
}

func (p *Processor) SetNumIndices(n allocator.Index) {
	switch {
	case int(n) > len(p.slots):
		grown := make([]slotState, n)
		copy(grown, p.slots)
		for i := len(p.slots); i < int(n); i++ {
			common.Identity(grown[i].value[:])
		}
		p.slots = grown
	case int(n) < len(p.slots):
		p.slots = p.slots[:n]
	}
}

// AdvanceFrame defragments, then recomposes every live slot's matrix from
// its children's current values. It performs no time-based mutation of its
// own; all motion comes from the children it samples, which — by priority
// ordering — have already advanced this frame.
func (p *Processor) AdvanceFrame(dt motive.Time) {
	p.Defragment()

	for i := range p.slots {
		if p.slots[i].ops == nil {
			continue
		}
		p.compose(&p.slots[i])
	}
}

func (p *Processor) compose(s *slotState) {
	var pos, rot, scale [3]float32
	scale = [3]float32{1, 1, 1}
	uniform := float32(1)

	for j := range s.ops {
		op := &s.ops[j]
		v := childValue(&op.Child)
		switch op.Kind {
		case KindTranslateX:
			pos[0] = v
		case KindTranslateY:
			pos[1] = v
		case KindTranslateZ:
			pos[2] = v
		case KindRotateX:
			rot[0] = v
		case KindRotateY:
			rot[1] = v
		case KindRotateZ:
			rot[2] = v
		case KindScaleX:
			scale[0] = v
		case KindScaleY:
			scale[1] = v
		case KindScaleZ:
			scale[2] = v
		case KindScaleUnform:
			uniform = v
		}
	}

	common.BuildModelMatrix(s.value[:],
		pos[0], pos[1], pos[2],
		rot[0], rot[1], rot[2],
		scale[0]*uniform, scale[1]*uniform, scale[2]*uniform)
}

func childValue(child *motive.Motivator) float32 {
	if !child.Valid() {
		return 0
	}
	reader, ok := child.Processor().(scalarproc.Reader)
	if !ok {
		return 0
	}
	return scalarproc.Value(reader, child.Base())
}

func (p *Processor) Value(base allocator.Index) [16]float32 {
	return p.slots[base].value
}

func (p *Processor) NumChildren(base allocator.Index) int {
	return len(p.slots[base].ops)
}

func (p *Processor) ChildValues(base allocator.Index, out []float32) {
	ops := p.slots[base].ops
	for i := range out {
		if i >= len(ops) {
			out[i] = 0
			continue
		}
		out[i] = childValue(&ops[i].Child)
	}
}

func (p *Processor) ChildMotivator1f(base allocator.Index, i int) (scalarproc.Reader, bool) {
	ops := p.slots[base].ops
	if i < 0 || i >= len(ops) {
		return nil, false
	}
	reader, ok := ops[i].Child.Processor().(scalarproc.Reader)
	return reader, ok
}
