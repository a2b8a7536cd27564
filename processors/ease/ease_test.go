package ease_test

import (
	"testing"

	"github.com/Carmen-Shannon/motive-go/engine"
	"github.com/Carmen-Shannon/motive-go/engine/motive"
	"github.com/Carmen-Shannon/motive-go/engine/motive/scalarproc"
	"github.com/Carmen-Shannon/motive-go/processors/ease"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetTargetWithShapeReachesTargetAtEnd(t *testing.T) {
	e := engine.New()
	e.RegisterFactory(ease.Type, func() motive.Processor { return ease.New(nil) })

	var h motive.Motivator
	require.NoError(t, h.Initialize(e, ease.Init{Start: []float32{0}, Velocity: []float32{0}}, 1))

	driver := h.Processor().(scalarproc.Driver)
	shape := scalarproc.CurveShape{TypicalDeltaTime: 4, Bias: 0.5}
	driver.SetTargetWithShape(h.Base(), 1, []float32{10}, []float32{0}, shape)

	for i := 0; i < 4; i++ {
		e.AdvanceFrame(1)
	}

	reader := h.Processor().(scalarproc.Reader)
	assert.InDelta(t, 10.0, scalarproc.Value(reader, h.Base()), 1e-3)
	assert.Equal(t, motive.Time(0), reader.TargetTime(h.Base(), 1))
}

func TestSetTargetsIsNoOp(t *testing.T) {
	e := engine.New()
	e.RegisterFactory(ease.Type, func() motive.Processor { return ease.New(nil) })

	var h motive.Motivator
	require.NoError(t, h.Initialize(e, ease.Init{Start: []float32{3}, Velocity: []float32{0}}, 1))

	driver := h.Processor().(scalarproc.Driver)
	driver.SetTargets(h.Base(), 1, [][]scalarproc.Target{{{Value: 99, Time: 1}}})
	e.AdvanceFrame(1)

	reader := h.Processor().(scalarproc.Reader)
	assert.Equal(t, float32(3), scalarproc.Value(reader, h.Base()), "SetTargets is unsupported by ease and must be a silent no-op")
}
