package resample

import (
	"sync"
	"sync/atomic"
	"time"
)

// ProgressListener receives progress fractions during a resample.
// Fractions are in [0, 1] and never decrease within one call. Listener
// panics are swallowed so observability cannot break the operation.
type ProgressListener func(fraction float64)

// progressCounter is the single shared mutable scalar of a resample
// run. The horizontal pass adds one per source row, the vertical pass
// one per destination column.
type progressCounter struct {
	items atomic.Int64
	total int64
}

func (c *progressCounter) add(n int) {
	c.items.Add(int64(n))
}

func (c *progressCounter) fraction() float64 {
	f := float64(c.items.Load()) / float64(c.total)
	if f > 1 {
		f = 1
	}
	return f
}

// progressReporter samples the counter on a ticker and notifies
// listeners whenever the fraction advanced. The initial state is
// reported synchronously on start so listeners always observe the
// beginning of the run, and stop is synchronous: once it returns no
// further notifications are emitted.
type progressReporter struct {
	counter   *progressCounter
	listeners []ProgressListener
	quit      chan struct{}
	done      sync.WaitGroup
	last      float64
}

func startProgressReporter(counter *progressCounter, listeners []ProgressListener, interval time.Duration) *progressReporter {
	r := &progressReporter{
		counter:   counter,
		listeners: listeners,
		quit:      make(chan struct{}),
		last:      -1,
	}
	if len(listeners) == 0 {
		return r
	}
	r.notify(counter.fraction())
	r.done.Add(1)
	go r.run(interval)
	return r
}

func (r *progressReporter) run(interval time.Duration) {
	defer r.done.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-r.quit:
			return
		case <-ticker.C:
			f := r.counter.fraction()
			r.notify(f)
			if f >= 1 {
				return
			}
		}
	}
}

// notify runs once from start before the sampler goroutine is launched,
// on the sampler goroutine, and once from stop after the goroutine has
// been joined; it is never called concurrently.
func (r *progressReporter) notify(fraction float64) {
	if fraction <= r.last {
		return
	}
	r.last = fraction
	for _, l := range r.listeners {
		notifyListener(l, fraction)
	}
}

func notifyListener(l ProgressListener, fraction float64) {
	defer func() {
		_ = recover()
	}()
	l(fraction)
}

// stop halts sampling without waiting for the next tick and, when the
// run completed, emits the closing 1.0 notification.
func (r *progressReporter) stop(completed bool) {
	close(r.quit)
	r.done.Wait()
	if completed {
		r.notify(1)
	}
}
