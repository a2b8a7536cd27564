package motive_test

import (
	"fmt"
	"testing"

	"github.com/Carmen-Shannon/motive-go/engine/allocator"
	"github.com/Carmen-Shannon/motive-go/engine/motive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeInit is the minimal motive.Init a fakeProcessor accepts.
type fakeInit struct {
	tag motive.Type
}

func (i fakeInit) ProcessorType() motive.Type { return i.tag }

// fakeEngine is a minimal motive.EngineAccessor backed by an explicit
// registry, just enough to exercise Motivator.Initialize without pulling in
// the real engine package.
type fakeEngine struct {
	processors map[motive.Type]motive.Processor
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{processors: make(map[motive.Type]motive.Processor)}
}

func (e *fakeEngine) register(tag motive.Type, p motive.Processor) {
	e.processors[tag] = p
}

func (e *fakeEngine) Initialize(handle *motive.Motivator, init motive.Init, width allocator.Dimension) error {
	p, ok := e.processors[init.ProcessorType()]
	if !ok {
		return fmt.Errorf("fakeEngine: no processor registered for %q", init.ProcessorType())
	}
	p.InitializeMotivator(init, e, handle, width)
	return nil
}

func (e *fakeEngine) Find(tag motive.Type) (motive.Processor, bool) {
	p, ok := e.processors[tag]
	return p, ok
}

// fakeProcessor is a minimal motive.Processor used to exercise Base's
// handle-lifecycle bookkeeping in isolation from any real algorithm.
type fakeProcessor struct {
	*motive.Base
	values []float32
}

func newFakeProcessor() *fakeProcessor {
	p := &fakeProcessor{}
	p.Base = motive.NewBase(p)
	return p
}

func (p *fakeProcessor) Type() motive.Type        { return "fake" }
func (p *fakeProcessor) Priority() int            { return 0 }
func (p *fakeProcessor) AdvanceFrame(motive.Time) {}

func (p *fakeProcessor) InitializeIndices(init motive.Init, base allocator.Index, width allocator.Dimension, eng motive.EngineAccessor) {
	needed := int(base) + int(width)
	if needed > len(p.values) {
		grown := make([]float32, needed)
		copy(grown, p.values)
		p.values = grown
	}
}

func (p *fakeProcessor) RemoveIndices(base allocator.Index, width allocator.Dimension) {
	for i := allocator.Dimension(0); i < width; i++ {
		p.values[int(base)+int(i)] = 0
	}
}

func (p *fakeProcessor) MoveIndices(oldBase, newBase allocator.Index, width allocator.Dimension) {
	for i := allocator.Dimension(0); i < width; i++ {
		p.values[int(newBase)+int(i)] = p.values[int(oldBase)+int(i)]
		p.values[int(oldBase)+int(i)] = 0
	}
}

func (p *fakeProcessor) SetNumIndices(n allocator.Index) {
	switch {
	case int(n) > len(p.values):
		grown := make([]float32, n)
		copy(grown, p.values)
		p.values = grown
	case int(n) < len(p.values):
		p.values = p.values[:n]
	}
}

func TestInitializeMotivator_PanicsOnAlreadyBoundHandle(t *testing.T) {
	p := newFakeProcessor()
	eng := newFakeEngine()
	eng.register("fake", p)

	var handle motive.Motivator
	require.NoError(t, handle.Initialize(eng, fakeInit{tag: "fake"}, 1))

	assert.Panics(t, func() {
		p.InitializeMotivator(fakeInit{tag: "fake"}, eng, &handle, 1)
	})
}

func TestRemoveMotivator_PanicsOnNonLiveBaseSlot(t *testing.T) {
	p := newFakeProcessor()
	assert.Panics(t, func() {
		p.RemoveMotivator(0)
	})
}

func TestRemoveMotivator_PanicsWhenCalledDuringAdvance(t *testing.T) {
	p := newFakeProcessor()
	eng := newFakeEngine()
	eng.register("fake", p)

	var handle motive.Motivator
	require.NoError(t, handle.Initialize(eng, fakeInit{tag: "fake"}, 1))

	p.BeginAdvance()
	defer p.EndAdvance()

	assert.Panics(t, func() {
		p.RemoveMotivator(handle.Base())
	}, "RemoveMotivator called reentrantly from within AdvanceFrame must trap in debug (§8 scenario 6)")
}

func TestRemoveMotivator_AllowedOnceAdvanceHasEnded(t *testing.T) {
	p := newFakeProcessor()
	eng := newFakeEngine()
	eng.register("fake", p)

	var handle motive.Motivator
	require.NoError(t, handle.Initialize(eng, fakeInit{tag: "fake"}, 1))

	p.BeginAdvance()
	p.EndAdvance()

	assert.NotPanics(t, func() {
		p.RemoveMotivator(handle.Base())
	})
	assert.False(t, handle.Valid())
}

func TestTransferMotivator_MovesOwnershipWithoutTouchingSlotState(t *testing.T) {
	p := newFakeProcessor()
	eng := newFakeEngine()
	eng.register("fake", p)

	var a, b motive.Motivator
	require.NoError(t, a.Initialize(eng, fakeInit{tag: "fake"}, 1))
	base := a.Base()
	p.values[base] = 7

	a.TransferTo(&b)

	assert.False(t, a.Valid())
	assert.True(t, b.Valid())
	assert.Equal(t, base, b.Base())
	assert.Equal(t, float32(7), p.values[base], "transfer must not touch per-slot state")
	assert.True(t, p.ValidMotivator(base, &b))
	assert.False(t, p.ValidMotivator(base, &a))
}

func TestTransferMotivator_RoundTripRestoresOriginalBindings(t *testing.T) {
	p := newFakeProcessor()
	eng := newFakeEngine()
	eng.register("fake", p)

	var a, b motive.Motivator
	require.NoError(t, a.Initialize(eng, fakeInit{tag: "fake"}, 1))
	base := a.Base()
	p.values[base] = 3

	a.TransferTo(&b)
	b.TransferTo(&a)

	assert.True(t, a.Valid())
	assert.False(t, b.Valid())
	assert.Equal(t, base, a.Base())
	assert.True(t, p.ValidMotivator(base, &a))
	assert.Equal(t, float32(3), p.values[base], "round-trip transfer must leave slot state unchanged")
}

func TestTransferMotivator_PanicsOnNonLiveBaseSlot(t *testing.T) {
	p := newFakeProcessor()
	var other motive.Motivator
	assert.Panics(t, func() {
		p.TransferMotivator(0, &other)
	})
}

func TestVerifyInternalState_OKOnFreshProcessor(t *testing.T) {
	p := newFakeProcessor()
	assert.NoError(t, p.VerifyInternalState())
}

func TestVerifyInternalState_OKAfterInitializeAndRemove(t *testing.T) {
	p := newFakeProcessor()
	eng := newFakeEngine()
	eng.register("fake", p)

	var handle motive.Motivator
	require.NoError(t, handle.Initialize(eng, fakeInit{tag: "fake"}, 2))
	assert.NoError(t, p.VerifyInternalState())

	handle.Remove()
	assert.NoError(t, p.VerifyInternalState())
	assert.False(t, handle.Valid())
}

func TestVerifyInternalState_OKAfterTransfer(t *testing.T) {
	p := newFakeProcessor()
	eng := newFakeEngine()
	eng.register("fake", p)

	var a, b motive.Motivator
	require.NoError(t, a.Initialize(eng, fakeInit{tag: "fake"}, 1))
	a.TransferTo(&b)

	assert.NoError(t, p.VerifyInternalState())
}
