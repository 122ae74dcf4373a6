package backend

import (
	"fmt"

	"github.com/san-kum/ipcsim/internal/compute"
	"github.com/san-kum/ipcsim/internal/metrics"
)

// Participant is the part of a reporter an Aggregator needs to order and
// filter reporters.
type Participant interface {
	Name() string
	IsValid() bool
}

// Protocol adapts one reporter family to an Aggregator. Count, Attributes
// and Displacements run concurrently across reporters; each call may only
// touch data inside the range it is given.
type Protocol[R Participant] interface {
	Count(r R) int
	// Allocate resizes the global buffers. It runs only when the total
	// changes.
	Allocate(total int)
	Attributes(r R, rng Range) error
	Displacements(r R, rng Range) error
}

// Aggregator runs the count, layout, attribute and displacement phases over
// its reporters in the order they were added.
type Aggregator[R Participant] struct {
	protocol  Protocol[R]
	device    compute.Device
	metrics   *metrics.Recorder
	reporters []R

	active    []R
	layout    Layout
	allocated int
	dirty     bool
}

func NewAggregator[R Participant](dev compute.Device, protocol Protocol[R], rec *metrics.Recorder) *Aggregator[R] {
	return &Aggregator[R]{
		protocol:  protocol,
		device:    dev,
		metrics:   rec,
		allocated: -1,
		dirty:     true,
	}
}

func (a *Aggregator[R]) Add(r R) {
	a.reporters = append(a.reporters, r)
	a.dirty = true
}

// MarkDirty forces the next Step to recount and relayout. Reporters whose
// count changed call it.
func (a *Aggregator[R]) MarkDirty() { a.dirty = true }

func (a *Aggregator[R]) Layout() Layout { return a.layout }

// Active returns the reporters of the current layout, in layout order.
func (a *Aggregator[R]) Active() []R { return a.active }

// RangeOf returns the range of the named reporter in the current layout.
func (a *Aggregator[R]) RangeOf(name string) (Range, bool) {
	for i, r := range a.active {
		if r.Name() == name {
			return a.layout.Range(i), true
		}
	}
	return Range{}, false
}

// Rebuild recounts every valid reporter, recomputes the layout, reallocates
// if the total changed and runs the attribute phase.
func (a *Aggregator[R]) Rebuild() error {
	a.active = nil
	for _, r := range a.reporters {
		if r.IsValid() {
			a.active = append(a.active, r)
		}
	}

	active := a.active
	counts := make([]int, len(active))
	a.device.Launch(len(active), func(start, end int) error {
		for i := start; i < end; i++ {
			counts[i] = a.protocol.Count(active[i])
		}
		return nil
	})
	if err := a.device.Synchronize(); err != nil {
		return fmt.Errorf("count phase: %w", err)
	}

	for i, c := range counts {
		if c < 0 {
			return fmt.Errorf("%w: %s reported %d", ErrNegativeCount, active[i].Name(), c)
		}
	}
	a.layout = NewLayout(counts)

	if total := a.layout.Total(); total != a.allocated {
		a.protocol.Allocate(total)
		a.allocated = total
	}

	layout := a.layout
	a.device.Launch(len(active), func(start, end int) error {
		for i := start; i < end; i++ {
			if err := a.protocol.Attributes(active[i], layout.Range(i)); err != nil {
				return fmt.Errorf("%s: %w", active[i].Name(), err)
			}
		}
		return nil
	})
	if err := a.device.Synchronize(); err != nil {
		return fmt.Errorf("attribute phase: %w", err)
	}

	a.dirty = false
	a.metrics.LayoutRebuilt(a.layout.Total())
	return nil
}

// Step runs the displacement phase, rebuilding first if the aggregator is
// dirty or a reporter of the current layout was invalidated.
func (a *Aggregator[R]) Step() error {
	if a.dirty || a.lostReporter() {
		if err := a.Rebuild(); err != nil {
			return err
		}
	}

	active, layout := a.active, a.layout
	a.device.Launch(len(active), func(start, end int) error {
		for i := start; i < end; i++ {
			if err := a.protocol.Displacements(active[i], layout.Range(i)); err != nil {
				return fmt.Errorf("%s: %w", active[i].Name(), err)
			}
		}
		return nil
	})
	if err := a.device.Synchronize(); err != nil {
		return fmt.Errorf("displacement phase: %w", err)
	}
	return nil
}

func (a *Aggregator[R]) lostReporter() bool {
	for _, r := range a.active {
		if !r.IsValid() {
			return true
		}
	}
	return false
}
