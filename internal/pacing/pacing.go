// Package pacing spaces out card reveals so they can be animated. Delays are
// purely cosmetic: a queue only decides when a step is shown, never what it
// contains.
package pacing

import (
	"context"
	"sync"
	"time"

	"github.com/coder/quartz"
)

// Default delays between reveals.
const (
	DefaultEasyDelay = 200 * time.Millisecond
	DefaultHardDelay = 150 * time.Millisecond
)

type step[T any] struct {
	value T
	due   time.Time
}

// Queue delivers values in push order, each one delay after the previous.
// Spacing holds across pushes: a value pushed less than one delay after the
// last step fell due waits out the rest of that delay, even when the queue
// has emptied. Otherwise, or after Flush, it is due immediately.
type Queue[T any] struct {
	mu    sync.Mutex
	clock quartz.Clock
	delay time.Duration
	steps []step[T]
	last  time.Time
}

// NewQueue creates a queue measuring delays on clock. A nil clock uses the
// real clock.
func NewQueue[T any](clock quartz.Clock, delay time.Duration) *Queue[T] {
	if clock == nil {
		clock = quartz.NewReal()
	}
	if delay < 0 {
		delay = 0
	}
	return &Queue[T]{clock: clock, delay: delay}
}

// Delay returns the spacing between steps.
func (q *Queue[T]) Delay() time.Duration {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.delay
}

// SetDelay changes the spacing for steps pushed from now on.
func (q *Queue[T]) SetDelay(delay time.Duration) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.delay = max(delay, 0)
}

// Push appends values to the queue.
func (q *Queue[T]) Push(values ...T) {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := q.clock.Now()
	for _, v := range values {
		due := now
		if !q.last.IsZero() {
			if next := q.last.Add(q.delay); next.After(due) {
				due = next
			}
		}
		q.steps = append(q.steps, step[T]{value: v, due: due})
		q.last = due
	}
}

// Ready removes and returns every value that is due.
func (q *Queue[T]) Ready() []T {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := q.clock.Now()
	n := 0
	for n < len(q.steps) && !q.steps[n].due.After(now) {
		n++
	}
	return q.pop(n)
}

// Flush removes and returns every queued value regardless of its due time
// and leaves the queue idle.
func (q *Queue[T]) Flush() []T {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.last = time.Time{}
	return q.pop(len(q.steps))
}

func (q *Queue[T]) pop(n int) []T {
	if n == 0 {
		return nil
	}
	out := make([]T, n)
	for i := range out {
		out[i] = q.steps[i].value
	}
	q.steps = append(q.steps[:0], q.steps[n:]...)
	return out
}

// Pending returns the number of queued values.
func (q *Queue[T]) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.steps)
}

// NextIn returns how long until the next value is due, or false when the
// queue is empty.
func (q *Queue[T]) NextIn() (time.Duration, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.steps) == 0 {
		return 0, false
	}
	return max(q.steps[0].due.Sub(q.clock.Now()), 0), true
}

// Drain delivers queued values to fn as they fall due, blocking until the
// queue is empty or ctx is done.
func (q *Queue[T]) Drain(ctx context.Context, fn func(T)) error {
	for {
		wait, ok := q.NextIn()
		if !ok {
			return nil
		}

		if wait > 0 {
			fired := make(chan struct{})
			timer := q.clock.AfterFunc(wait, func() {
				close(fired)
			})
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-fired:
			}
		}

		if err := ctx.Err(); err != nil {
			return err
		}
		for _, v := range q.Ready() {
			fn(v)
		}
	}
}
