package elevation

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/woozymasta/rflink/internal/geo"
)

// Fetcher schedules path elevation lookups in the background.
type Fetcher struct {
	Client  *Client
	Samples int
	Timeout time.Duration
}

// Task is a handle to one scheduled lookup.
type Task struct {
	cancel     context.CancelFunc
	done       chan struct{}
	err        error
	elevations []float64
	path       []geo.GeoPoint
}

// Schedule starts a lookup for the path a-b and returns immediately.
// Failures are logged and kept on the task; callers may ignore the task entirely.
func (f *Fetcher) Schedule(parent context.Context, a, b geo.GeoPoint) *Task {
	samples := f.Samples
	if samples <= 0 {
		samples = DefaultSamples
	}

	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if f.Timeout > 0 {
		ctx, cancel = context.WithTimeout(parent, f.Timeout)
	} else {
		ctx, cancel = context.WithCancel(parent)
	}

	t := &Task{
		cancel: cancel,
		done:   make(chan struct{}),
		path:   SamplePath(a, b, samples),
	}

	go func() {
		defer close(t.done)
		defer cancel()

		start := time.Now()
		t.elevations, t.err = f.Client.Lookup(ctx, t.path)
		if t.err != nil {
			log.Debug().
				Err(t.err).
				Int("samples", samples).
				Msg("Elevation lookup failed, ignoring")
			return
		}

		log.Debug().
			Int("samples", samples).
			Floats64("elevations_m", t.elevations).
			Dur("duration", time.Since(start)).
			Msg("Elevation profile fetched")
	}()

	return t
}

// Cancel aborts the lookup if it is still running.
func (t *Task) Cancel() { t.cancel() }

// Done is closed when the lookup finishes, fails or is cancelled.
func (t *Task) Done() <-chan struct{} { return t.done }

// Result waits for the task and returns the sampled path with its elevations.
func (t *Task) Result() ([]geo.GeoPoint, []float64, error) {
	<-t.done
	return t.path, t.elevations, t.err
}

// Tasks tracks at most one pending task per key, cancelling the previous one.
type Tasks struct {
	pending map[int]*Task
	mu      sync.Mutex
}

// NewTasks returns an empty tracker.
func NewTasks() *Tasks {
	return &Tasks{pending: make(map[int]*Task)}
}

// Replace stores t under key and cancels the task it replaces.
func (ts *Tasks) Replace(key int, t *Task) {
	ts.mu.Lock()
	prev := ts.pending[key]
	ts.pending[key] = t
	ts.mu.Unlock()

	if prev != nil {
		prev.Cancel()
	}
}

// Get returns the latest task for key.
func (ts *Tasks) Get(key int) (*Task, bool) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	t, ok := ts.pending[key]
	return t, ok
}

// Drop cancels and forgets the task for key.
func (ts *Tasks) Drop(key int) {
	ts.mu.Lock()
	t := ts.pending[key]
	delete(ts.pending, key)
	ts.mu.Unlock()

	if t != nil {
		t.Cancel()
	}
}
