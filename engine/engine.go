// Package engine implements the registry and per-frame scheduler described
// in §4.6: a per-Engine map of type-tag to processor, lazily populated
// through registered factories and driven once per frame in ascending
// priority order.
package engine

import (
	"fmt"
	"log"
	"sort"

	"github.com/Carmen-Shannon/motive-go/engine/allocator"
	"github.com/Carmen-Shannon/motive-go/engine/motive"
	"github.com/Carmen-Shannon/motive-go/engine/profiler"
)

// Factory creates a fresh, empty processor instance for one type-tag. The
// returned Processor has not yet had any motivators initialized against it.
type Factory func() motive.Processor

// Engine owns one processor per registered type-tag and orchestrates
// per-frame advancement in ascending priority order.
type Engine struct {
	factories  map[motive.Type]Factory
	processors map[motive.Type]motive.Processor

	// order caches the ascending-priority traversal order computed the
	// first time AdvanceFrame runs after a new processor was instantiated
	// (§4.6: "computed once... and cached").
	order      []motive.Processor
	orderDirty bool

	profiler         *profiler.Profiler
	profilingEnabled bool
}

// Option is a functional option for configuring an Engine at construction.
type Option func(*Engine)

// WithProfiling enables frame-timing/heap instrumentation from the first
// AdvanceFrame call onward, logged through the profiler package once per
// second.
func WithProfiling(enabled bool) Option {
	return func(e *Engine) {
		e.profilingEnabled = enabled
	}
}

// New creates an empty Engine with no processors instantiated yet.
func New(options ...Option) *Engine {
	e := &Engine{
		factories:  make(map[motive.Type]Factory),
		processors: make(map[motive.Type]motive.Processor),
		profiler:   profiler.NewProfiler(),
	}
	for _, opt := range options {
		opt(e)
	}
	return e
}

// EnableProfiler enables frame-timing instrumentation from the next
// AdvanceFrame call onward.
func (e *Engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler stops frame-timing instrumentation.
func (e *Engine) DisableProfiler() {
	e.profilingEnabled = false
}

// RegisterFactory associates tag with create, so that the first
// InitializeMotivator (from any handle) naming tag lazily instantiates the
// processor. Registration is idempotent per tag: a second RegisterFactory
// call for the same tag replaces the factory but does not affect a
// processor already instantiated for it.
func (e *Engine) RegisterFactory(tag motive.Type, create Factory) {
	e.factories[tag] = create
}

// Find returns the processor already instantiated for tag, if any, without
// creating one. It satisfies motive.EngineAccessor.
func (e *Engine) Find(tag motive.Type) (motive.Processor, bool) {
	p, ok := e.processors[tag]
	return p, ok
}

// Initialize binds handle to a new slot-run of the given width inside
// whichever processor init.ProcessorType() names, lazily instantiating that
// processor via its registered factory on first use. It satisfies
// motive.EngineAccessor.
func (e *Engine) Initialize(handle *motive.Motivator, init motive.Init, width allocator.Dimension) error {
	tag := init.ProcessorType()
	processor, err := e.processorFor(tag)
	if err != nil {
		return err
	}
	processor.InitializeMotivator(init, e, handle, width)
	return nil
}

// processorFor returns the processor registered for tag, instantiating it
// from its factory on first use. An unregistered tag is a fatal programmer
// error (§7: "Unknown type-tag at InitializeMotivator: fatal — the handle
// stays Reset; the engine reports the missing registration"), reported as
// an error rather than a panic since it is driven entirely by caller-
// supplied data (an Init value), not a bookkeeping invariant.
func (e *Engine) processorFor(tag motive.Type) (motive.Processor, error) {
	if p, ok := e.processors[tag]; ok {
		return p, nil
	}

	create, ok := e.factories[tag]
	if !ok {
		return nil, fmt.Errorf("engine: no processor factory registered for type-tag %q", tag)
	}

	p := create()
	e.processors[tag] = p
	e.orderDirty = true
	log.Printf("[engine] instantiated processor for type-tag %q (priority %d)", tag, p.Priority())
	return p, nil
}

// AdvanceFrame advances every instantiated processor by dt, in ascending
// priority order. The traversal order is recomputed only when a new
// processor has been instantiated since the last call (§4.6). Each
// processor is bracketed by BeginAdvance/EndAdvance so that a handle Remove
// called reentrantly from within that processor's own AdvanceFrame (e.g. a
// callback triggered by the advancement itself) panics under motive.Debug
// instead of corrupting bookkeeping.
func (e *Engine) AdvanceFrame(dt motive.Time) {
	if e.orderDirty {
		e.recomputeOrder()
	}
	for _, p := range e.order {
		p.BeginAdvance()
		p.AdvanceFrame(dt)
		p.EndAdvance()
	}

	if e.profilingEnabled && e.profiler != nil {
		e.profiler.Tick()
	}
}

// recomputeOrder rebuilds the cached ascending-priority traversal order
// from the currently instantiated processors.
func (e *Engine) recomputeOrder() {
	order := make([]motive.Processor, 0, len(e.processors))
	for _, p := range e.processors {
		order = append(order, p)
	}
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].Priority() < order[j].Priority()
	})
	e.order = order
	e.orderDirty = false
}

// VerifyInternalState runs VerifyInternalState on every instantiated
// processor, returning the first error encountered (or nil if every
// processor's bookkeeping is internally consistent). Intended for tests and
// debug tooling, not the hot path.
func (e *Engine) VerifyInternalState() error {
	for tag, p := range e.processors {
		if err := p.VerifyInternalState(); err != nil {
			return fmt.Errorf("engine: processor %q: %w", tag, err)
		}
	}
	return nil
}
