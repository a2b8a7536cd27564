// Package rig implements the rig processor face (§4.5): skeletal playback
// with cross-fade blending between two clips, composing each bone's global
// transform from its local pose and its parent's already-composed global.
package rig

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/motive-go/common"
	"github.com/Carmen-Shannon/motive-go/engine/allocator"
	"github.com/Carmen-Shannon/motive-go/engine/motive"
	"github.com/Carmen-Shannon/motive-go/engine/motive/rigproc"
	"github.com/Carmen-Shannon/motive-go/engine/motive/scalarproc"
)

// Type is the stable type-tag this package registers its factory under.
const Type motive.Type = "rig"

// Init is the initialization descriptor for a rig motivator: the bone
// hierarchy it drives and the clip to start playing.
type Init struct {
	Bones    []rigproc.Bone
	Anim     rigproc.RigAnim
	Playback scalarproc.Playback
}

func (Init) ProcessorType() motive.Type { return Type }

type slotState struct {
	bones []rigproc.Bone

	current      rigproc.RigAnim
	currentTime  motive.Time
	playbackRate float32
	loop         bool

	blendFrom     rigproc.RigAnim
	blendFromTime motive.Time
	blendDuration motive.Time
	blendElapsed  motive.Time

	globals [][16]float32
}

func (s *slotState) reset() {
	*s = slotState{}
}

// Processor plays back one skeletal clip per slot, optionally cross-fading
// from a prior clip.
type Processor struct {
	*motive.Base
	slots []slotState
}

var _ rigproc.Processor = (*Processor)(nil)

// New creates an empty rig Processor, suitable as an engine.Factory.
func New() *Processor {
	p := &Processor{}
	p.Base = motive.NewBase(p)
	return p
}

func (p *Processor) Type() motive.Type { return Type }

// Priority is 20, strictly above matrix4 (priority 10): a rig's bones are
// typically driven by per-bone matrix operations, so rig composition must
// see this frame's matrix outputs before it runs — see §4.6.
func (p *Processor) Priority() int { return 20 }

func (p *Processor) InitializeIndices(init motive.Init, base allocator.Index, width allocator.Dimension, eng motive.EngineAccessor) {
	in := init.(Init)
	for i := allocator.Dimension(0); i < width; i++ {
		s := &p.slots[base+allocator.Index(i)]
		s.bones = in.Bones
		s.current = in.Anim
		s.currentTime = in.Playback.StartTime
		s.playbackRate = in.Playback.PlaybackRate
		if s.playbackRate == 0 {
			s.playbackRate = 1
		}
		s.loop = in.Playback.Loop
		s.globals = make([][16]float32, len(in.Bones))
		p.compose(s)
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
		p.slots[oldBase+allocator.Index(i)] = slotState{}
	}
}

func (p *Processor) SetNumIndices(n allocator.Index) {
	switch {
	case int(n) > len(p.slots):
		grown := make([]slotState, n)
		copy(grown, p.slots)
		p.slots = grown
	case int(n) < len(p.slots):
		p.slots = p.slots[:n]
	}
}

// AdvanceFrame defragments, then advances playback time and blend progress
// for every live slot and recomposes its global transforms.
func (p *Processor) AdvanceFrame(dt motive.Time) {
	p.Defragment()

	for i := range p.slots {
		s := &p.slots[i]
		if s.current == nil {
			continue
		}

		s.currentTime += dt * motive.Time(s.playbackRate)
		if s.loop && s.current.Length() > 0 {
			for s.currentTime >= s.current.Length() {
				s.currentTime -= s.current.Length()
			}
			for s.currentTime < 0 {
				s.currentTime += s.current.Length()
			}
		}

		if s.blendFrom != nil {
			s.blendElapsed += dt
			s.blendFromTime += dt * motive.Time(s.playbackRate)
			if s.blendElapsed >= s.blendDuration {
				s.blendFrom = nil
				s.blendElapsed = 0
			}
		}

		p.compose(s)
	}
}

// compose fills s.globals from the current (optionally blended) local pose,
// walking bones in order and relying on the rig's own convention that a
// bone's parent always has a lower index than the bone itself.
func (p *Processor) compose(s *slotState) {
	blendFactor := float32(1)
	if s.blendFrom != nil && s.blendDuration > 0 {
		blendFactor = float32(s.blendElapsed / s.blendDuration)
		if blendFactor > 1 {
			blendFactor = 1
		}
	}

	for i, bone := range s.bones {
		local := s.current.LocalTransform(i, s.currentTime)
		if s.blendFrom != nil {
			from := s.blendFrom.LocalTransform(i, s.blendFromTime)
			local = lerpMatrix(from, local, blendFactor)
		}

		if bone.ParentIndex < 0 {
			s.globals[i] = local
			continue
		}
		var global [16]float32
		parent := s.globals[bone.ParentIndex]
		common.Mul4(global[:], parent[:], local[:])
		s.globals[i] = global
	}
}

func lerpMatrix(a, b [16]float32, f float32) [16]float32 {
	var out [16]float32
	for i := range out {
		out[i] = a[i] + (b[i]-a[i])*f
	}
	return out
}

func (p *Processor) GlobalTransforms(base allocator.Index, out [][16]float32) {
	copy(out, p.slots[base].globals)
}

func (p *Processor) LocalTransformsForDebugging(base allocator.Index, out [][16]float32) {
	s := &p.slots[base]
	for i := range s.bones {
		out[i] = s.current.LocalTransform(i, s.currentTime)
	}
}

// TimeRemaining returns how much playback time remains before the current
// clip finishes: its length minus the current playback time, clamped at 0.
// Looping is not taken into account.
func (p *Processor) TimeRemaining(base allocator.Index) motive.Time {
	s := &p.slots[base]
	if s.current == nil {
		return 0
	}
	remaining := s.current.Length() - s.currentTime
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (p *Processor) DefiningAnim(base allocator.Index) rigproc.RigAnim {
	return p.slots[base].current
}

// BlendToAnim begins playing anim, capturing the slot's current clip and
// time as the blend-from pose. A zero BlendDuration snaps immediately.
func (p *Processor) BlendToAnim(base allocator.Index, anim rigproc.RigAnim, playback scalarproc.Playback) {
	s := &p.slots[base]

	if playback.BlendDuration > 0 && s.current != nil {
		s.blendFrom = s.current
		s.blendFromTime = s.currentTime
		s.blendDuration = playback.BlendDuration
		s.blendElapsed = 0
	} else {
		s.blendFrom = nil
	}

	s.current = anim
	s.currentTime = playback.StartTime
	s.playbackRate = playback.PlaybackRate
	if s.playbackRate == 0 {
		s.playbackRate = 1
	}
	s.loop = playback.Loop

	p.compose(s)
}

func (p *Processor) SetPlaybackRate(base allocator.Index, rate float32) {
	p.slots[base].playbackRate = rate
}

func (p *Processor) CsvHeaderForDebugging(base allocator.Index) string {
	s := &p.slots[base]
	cols := make([]string, len(s.bones))
	for i, bone := range s.bones {
		cols[i] = fmt.Sprintf("%s.tx,%s.ty,%s.tz", bone.Name, bone.Name, bone.Name)
	}
	return strings.Join(cols, ",")
}

func (p *Processor) CsvValuesForDebugging(base allocator.Index) string {
	s := &p.slots[base]
	cols := make([]string, len(s.globals))
	for i, g := range s.globals {
		cols[i] = fmt.Sprintf("%.4f,%.4f,%.4f", g[12], g[13], g[14])
	}
	return strings.Join(cols, ",")
}
