package rig_test

import (
	"testing"

	"github.com/Carmen-Shannon/motive-go/engine"
	"github.com/Carmen-Shannon/motive-go/engine/motive"
	"github.com/Carmen-Shannon/motive-go/engine/motive/rigproc"
	"github.com/Carmen-Shannon/motive-go/engine/motive/scalarproc"
	"github.com/Carmen-Shannon/motive-go/processors/rig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoBoneChain() []rigproc.Bone {
	return []rigproc.Bone{
		{ParentIndex: -1, Name: "root"},
		{ParentIndex: 0, Name: "child"},
	}
}

func TestGlobalTransformsComposeParentChain(t *testing.T) {
	bones := twoBoneChain()
	anim := rig.NewAnim(bones, 1, []rig.Channel{
		{Positions: []rig.VectorKey{{Time: 0, Value: [3]float32{1, 0, 0}}}},
		{Positions: []rig.VectorKey{{Time: 0, Value: [3]float32{0, 2, 0}}}},
	})

	e := engine.New()
	e.RegisterFactory(rig.Type, func() motive.Processor { return rig.New() })

	var h motive.Motivator
	require.NoError(t, h.Initialize(e, rig.Init{
		Bones:    bones,
		Anim:     anim,
		Playback: scalarproc.Playback{PlaybackRate: 1},
	}, 1))

	p := h.Processor().(*rig.Processor)
	out := make([][16]float32, 2)
	p.GlobalTransforms(h.Base(), out)

	assert.Equal(t, [3]float32{1, 0, 0}, [3]float32{out[0][12], out[0][13], out[0][14]})
	// child's global = parent global * child local: translation adds.
	assert.InDelta(t, 1.0, out[1][12], 1e-4)
	assert.InDelta(t, 2.0, out[1][13], 1e-4)
}

func TestBlendToAnimCrossFadesThenSettles(t *testing.T) {
	bones := []rigproc.Bone{{ParentIndex: -1, Name: "root"}}
	animA := rig.NewAnim(bones, 10, []rig.Channel{
		{Positions: []rig.VectorKey{{Time: 0, Value: [3]float32{0, 0, 0}}}},
	})
	animB := rig.NewAnim(bones, 10, []rig.Channel{
		{Positions: []rig.VectorKey{{Time: 0, Value: [3]float32{10, 0, 0}}}},
	})

	e := engine.New()
	e.RegisterFactory(rig.Type, func() motive.Processor { return rig.New() })

	var h motive.Motivator
	require.NoError(t, h.Initialize(e, rig.Init{
		Bones:    bones,
		Anim:     animA,
		Playback: scalarproc.Playback{PlaybackRate: 1},
	}, 1))

	p := h.Processor().(*rig.Processor)
	p.BlendToAnim(h.Base(), animB, scalarproc.Playback{PlaybackRate: 1, BlendDuration: 4})

	e.AdvanceFrame(2) // halfway through the blend

	out := make([][16]float32, 1)
	p.GlobalTransforms(h.Base(), out)
	assert.InDelta(t, 5.0, out[0][12], 1e-3, "should be halfway between the two clips' positions")

	e.AdvanceFrame(2) // blend now complete
	p.GlobalTransforms(h.Base(), out)
	assert.InDelta(t, 10.0, out[0][12], 1e-3)

	assert.Equal(t, animB, p.DefiningAnim(h.Base()))
}
