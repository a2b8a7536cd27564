package linear_test

import (
	"testing"

	"github.com/Carmen-Shannon/motive-go/engine"
	"github.com/Carmen-Shannon/motive-go/engine/motive"
	"github.com/Carmen-Shannon/motive-go/engine/motive/scalarproc"
	"github.com/Carmen-Shannon/motive-go/processors/linear"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBasicScalar reproduces the concrete scenario from §8: a linear
// scalar-1 processor driven from 0 to 10 over 10 time units reaches ~5
// after 5 one-unit ticks, with 5 time units remaining.
func TestBasicScalar(t *testing.T) {
	e := engine.New()
	e.RegisterFactory(linear.Type, func() motive.Processor { return linear.New() })

	var h motive.Motivator
	require.NoError(t, h.Initialize(e, linear.Init1(0, 10, 10), 1))

	for i := 0; i < 5; i++ {
		e.AdvanceFrame(1)
	}

	reader := h.Processor().(scalarproc.Reader)
	assert.InDelta(t, 5.0, scalarproc.Value(reader, h.Base()), 1e-4)
	assert.Equal(t, motive.Time(5), reader.TargetTime(h.Base(), 1))
}

func TestAdvanceFrameZeroIsNoOp(t *testing.T) {
	e := engine.New()
	e.RegisterFactory(linear.Type, func() motive.Processor { return linear.New() })

	var h motive.Motivator
	require.NoError(t, h.Initialize(e, linear.Init1(0, 10, 10), 1))
	e.AdvanceFrame(2)

	reader := h.Processor().(scalarproc.Reader)
	before := scalarproc.Value(reader, h.Base())

	e.AdvanceFrame(0)
	assert.Equal(t, before, scalarproc.Value(reader, h.Base()))
}

func TestSetTargetsRetargetsFromCurrentValue(t *testing.T) {
	e := engine.New()
	e.RegisterFactory(linear.Type, func() motive.Processor { return linear.New() })

	var h motive.Motivator
	require.NoError(t, h.Initialize(e, linear.Init1(0, 10, 10), 1))
	e.AdvanceFrame(5) // value now ~5

	driver := h.Processor().(scalarproc.Driver)
	driver.SetTargets(h.Base(), 1, [][]scalarproc.Target{
		{{Value: 20, Time: 5}},
	})

	for i := 0; i < 5; i++ {
		e.AdvanceFrame(1)
	}

	reader := h.Processor().(scalarproc.Reader)
	assert.InDelta(t, 20.0, scalarproc.Value(reader, h.Base()), 1e-4)
}

func TestRemoveThenInitializeReusesFreedSlot(t *testing.T) {
	e := engine.New()
	e.RegisterFactory(linear.Type, func() motive.Processor { return linear.New() })

	var h1, h2 motive.Motivator
	require.NoError(t, h1.Initialize(e, linear.Init1(0, 1, 1), 1))
	base1 := h1.Base()
	h1.Remove()
	assert.False(t, h1.Valid())

	require.NoError(t, h2.Initialize(e, linear.Init1(0, 1, 1), 1))
	assert.Equal(t, base1, h2.Base(), "freed width-1 slot should be reused")
}
