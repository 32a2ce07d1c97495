package analyzer

import (
	"context"
	"sync/atomic"
)

// ProgressFunc is called after each unit is parsed or pruned.
// current is the number of completed steps, total is the expected count,
// and name identifies the unit that just finished.
type ProgressFunc func(current, total int, name string)

// Tracker counts completed steps of a run. It is safe for concurrent use.
type Tracker struct {
	total    atomic.Int32
	current  atomic.Int32
	callback ProgressFunc
}

// NewTracker creates a tracker reporting to callback, which may be nil.
func NewTracker(callback ProgressFunc) *Tracker {
	return &Tracker{callback: callback}
}

// Add grows the expected total by n.
func (t *Tracker) Add(n int) {
	t.total.Add(int32(n))
}

// Tick marks one step named name as complete.
func (t *Tracker) Tick(name string) {
	current := int(t.current.Add(1))
	if t.callback != nil {
		t.callback(current, int(t.total.Load()), name)
	}
}

// Current returns the number of completed steps.
func (t *Tracker) Current() int {
	return int(t.current.Load())
}

// Total returns the expected total.
func (t *Tracker) Total() int {
	return int(t.total.Load())
}

// Done reports whether every expected step has completed.
func (t *Tracker) Done() bool {
	total := t.Total()
	return total > 0 && t.Current() >= total
}

type trackerKey struct{}

// WithTracker returns a context carrying t.
func WithTracker(ctx context.Context, t *Tracker) context.Context {
	return context.WithValue(ctx, trackerKey{}, t)
}

// TrackerFromContext returns the tracker carried by ctx, or nil.
func TrackerFromContext(ctx context.Context) *Tracker {
	if t, ok := ctx.Value(trackerKey{}).(*Tracker); ok {
		return t
	}
	return nil
}
