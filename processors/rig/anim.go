package rig

import (
	"github.com/Carmen-Shannon/motive-go/engine/motive"
	"github.com/Carmen-Shannon/motive-go/engine/motive/rigproc"
)

// VectorKey stores a 3D vector value at a specific clip-local time.
type VectorKey struct {
	Time  motive.Time
	Value [3]float32
}

// QuatKey stores a quaternion (x, y, z, w) at a specific clip-local time.
type QuatKey struct {
	Time  motive.Time
	Value [4]float32
}

// Channel is the per-bone keyframe data for one Anim: independent
// translation, rotation, and scale tracks, each sparsely keyed.
type Channel struct {
	Positions []VectorKey
	Rotations []QuatKey
	Scales    []VectorKey
}

// Anim is a decoded skeletal clip: a fixed bone hierarchy, a total length,
// and one Channel per bone. It implements rigproc.RigAnim; keyframe
// decoding (e.g. from a FlatBuffer asset) happens upstream, outside this
// core, which only ever receives the already-decoded Anim.
type Anim struct {
	bones    []rigproc.Bone
	length   motive.Time
	channels []Channel
}

// NewAnim builds an Anim. len(channels) must equal len(bones).
func NewAnim(bones []rigproc.Bone, length motive.Time, channels []Channel) *Anim {
	return &Anim{bones: bones, length: length, channels: channels}
}

func (a *Anim) BoneCount() int            { return len(a.bones) }
func (a *Anim) Length() motive.Time       { return a.length }
func (a *Anim) Bones() []rigproc.Bone     { return a.bones }

// LocalTransform samples bone's position/rotation/scale channels at t via
// piecewise-linear (nlerp for rotation) interpolation and composes them
// into a parent-relative 4x4 transform.
func (a *Anim) LocalTransform(bone int, t motive.Time) [16]float32 {
	ch := a.channels[bone]
	pos := sampleVector(ch.Positions, t, [3]float32{0, 0, 0})
	scale := sampleVector(ch.Scales, t, [3]float32{1, 1, 1})
	rot := sampleQuat(ch.Rotations, t)

	var m [16]float32
	composeTRS(m[:], pos, rot, scale)
	return m
}

func sampleVector(keys []VectorKey, t motive.Time, fallback [3]float32) [3]float32 {
	if len(keys) == 0 {
		return fallback
	}
	if t <= keys[0].Time {
		return keys[0].Value
	}
	last := keys[len(keys)-1]
	if t >= last.Time {
		return last.Value
	}
	for i := 1; i < len(keys); i++ {
		if t <= keys[i].Time {
			prev := keys[i-1]
			span := keys[i].Time - prev.Time
			var f float32
			if span > 0 {
				f = float32((t - prev.Time) / span)
			}
			return lerp3(prev.Value, keys[i].Value, f)
		}
	}
	return last.Value
}

func lerp3(a, b [3]float32, f float32) [3]float32 {
	return [3]float32{
		a[0] + (b[0]-a[0])*f,
		a[1] + (b[1]-a[1])*f,
		a[2] + (b[2]-a[2])*f,
	}
}

var identityQuat = [4]float32{0, 0, 0, 1}

func sampleQuat(keys []QuatKey, t motive.Time) [4]float32 {
	if len(keys) == 0 {
		return identityQuat
	}
	if t <= keys[0].Time {
		return keys[0].Value
	}
	last := keys[len(keys)-1]
	if t >= last.Time {
		return last.Value
	}
	for i := 1; i < len(keys); i++ {
		if t <= keys[i].Time {
			prev := keys[i-1]
			span := keys[i].Time - prev.Time
			var f float32
			if span > 0 {
				f = float32((t - prev.Time) / span)
			}
			return nlerpQuat(prev.Value, keys[i].Value, f)
		}
	}
	return last.Value
}

// nlerpQuat linearly interpolates and renormalizes two quaternions,
// flipping the sign of b when necessary so the interpolation takes the
// shorter path.
func nlerpQuat(a, b [4]float32, f float32) [4]float32 {
	dot := a[0]*b[0] + a[1]*b[1] + a[2]*b[2] + a[3]*b[3]
	if dot < 0 {
		b = [4]float32{-b[0], -b[1], -b[2], -b[3]}
	}
	q := [4]float32{
		a[0] + (b[0]-a[0])*f,
		a[1] + (b[1]-a[1])*f,
		a[2] + (b[2]-a[2])*f,
		a[3] + (b[3]-a[3])*f,
	}
	return normalizeQuat(q)
}

func normalizeQuat(q [4]float32) [4]float32 {
	lenSq := q[0]*q[0] + q[1]*q[1] + q[2]*q[2] + q[3]*q[3]
	if lenSq == 0 {
		return identityQuat
	}
	inv := invSqrt(lenSq)
	return [4]float32{q[0] * inv, q[1] * inv, q[2] * inv, q[3] * inv}
}

func invSqrt(v float32) float32 {
	// Plain Newton-refined reciprocal square root; no bit tricks, since this
	// core favors clarity over the kind of micro-optimization that belongs
	// in the external math collaborator.
	x := float32(1)
	for i := 0; i < 8; i++ {
		x = x * (1.5 - 0.5*v*x*x)
	}
	return x
}

// composeTRS writes a column-major 4x4 transform combining translation t,
// rotation quaternion r (x, y, z, w), and scale s into out.
func composeTRS(out []float32, t [3]float32, r [4]float32, s [3]float32) {
	x, y, z, w := r[0], r[1], r[2], r[3]

	xx, yy, zz := x*x, y*y, z*z
	xy, xz, yz := x*y, x*z, y*z
	wx, wy, wz := w*x, w*y, w*z

	out[0] = (1 - 2*(yy+zz)) * s[0]
	out[1] = (2 * (xy + wz)) * s[0]
	out[2] = (2 * (xz - wy)) * s[0]
	out[3] = 0

	out[4] = (2 * (xy - wz)) * s[1]
	out[5] = (1 - 2*(xx+zz)) * s[1]
	out[6] = (2 * (yz + wx)) * s[1]
	out[7] = 0

	out[8] = (2 * (xz + wy)) * s[2]
	out[9] = (2 * (yz - wx)) * s[2]
	out[10] = (1 - 2*(xx+yy)) * s[2]
	out[11] = 0

	out[12] = t[0]
	out[13] = t[1]
	out[14] = t[2]
	out[15] = 1
}
