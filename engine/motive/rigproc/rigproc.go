// Package rigproc declares the polymorphic face (§4.5) for MotiveProcessor
// derivations that play back a skeletal animation clip over a rig's bones,
// with support for blending between two clips.
package rigproc

import (
	"github.com/Carmen-Shannon/motive-go/engine/allocator"
	"github.com/Carmen-Shannon/motive-go/engine/motive"
	"github.com/Carmen-Shannon/motive-go/engine/motive/scalarproc"
)

// Bone names one node of a rig's hierarchy: its parent index (-1 for a
// root) and a debugging-friendly name. A RigAnim and the rig processor
// driven by it agree on bone indices out of band (by construction, not by
// name lookup at playback time).
type Bone struct {
	ParentIndex int
	Name        string
}

// RigAnim is the externally authored, immutable clip a rig Motivator plays
// back: its own bone count and total length in Time units. The rig
// processor in processors/rig does not compare the clip's bone count with
// the rig's at InitializeIndices time.
// Keyframe data is opaque to the core; a derivation interprets it however
// its own sampler wants (e.g. the teacher's flattened channel arrays).
type RigAnim interface {
	// BoneCount returns how many bones this clip animates.
	BoneCount() int

	// Length returns the clip's total playback duration.
	Length() motive.Time

	// Bones returns the clip's own bone hierarchy, for validation against
	// the target rig.
	Bones() []Bone

	// LocalTransform returns bone's parent-relative transform at
	// spline-local time t, via whatever keyframe interpolation the clip's
	// own implementation uses. The processor never interprets keyframe
	// data itself — this is the clip's concern, analogous to
	// scalarproc.CompactSpline.Sample.
	LocalTransform(bone int, t motive.Time) [16]float32
}

// Reader is the read side of the rig face.
type Reader interface {
	motive.Processor

	// GlobalTransforms writes the current global (rig-root-relative) 4x4
	// transform of each bone into out, which must have length equal to the
	// rig's bone count.
	GlobalTransforms(base allocator.Index, out [][16]float32)

	// LocalTransformsForDebugging writes each bone's current local (parent-
	// relative) transform into out, for tooling that wants to inspect the
	// pre-composition pose.
	LocalTransformsForDebugging(base allocator.Index, out [][16]float32)

	// TimeRemaining returns how much playback time remains before the
	// defining animation (see DefiningAnim) finishes, ignoring looping.
	TimeRemaining(base allocator.Index) motive.Time

	// DefiningAnim returns the clip currently driving playback progress: the
	// blend-to clip while a blend is in flight, else whatever is playing.
	DefiningAnim(base allocator.Index) RigAnim

	// CsvHeaderForDebugging returns a header row naming each bone's
	// debugging columns, stable across calls for a given rig shape.
	CsvHeaderForDebugging(base allocator.Index) string

	// CsvValuesForDebugging returns one CSV row of the current pose's
	// debugging values, column-aligned with CsvHeaderForDebugging.
	CsvValuesForDebugging(base allocator.Index) string
}

// Driver is the write side of the rig face.
type Driver interface {
	// BlendToAnim begins playing anim, transitioning smoothly from whatever
	// is currently playing over playback.BlendDuration; a zero blend
	// duration snaps immediately.
	BlendToAnim(base allocator.Index, anim RigAnim, playback scalarproc.Playback)

	// SetPlaybackRate scales the defining animation's playback rate by
	// rate; 1 is normal speed, negative plays backward.
	SetPlaybackRate(base allocator.Index, rate float32)
}

// Processor is the complete rig face.
type Processor interface {
	Reader
	Driver
}
