package pacing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueSpacesSteps(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	mockClock := quartz.NewMock(t)
	q := NewQueue[int](mockClock, 100*time.Millisecond)

	q.Push(1, 2, 3)
	assert.Equal(t, 3, q.Pending())
	assert.Equal(t, []int{1}, q.Ready(), "first step of an idle queue is due immediately")

	wait, ok := q.NextIn()
	require.True(t, ok)
	assert.Equal(t, 100*time.Millisecond, wait)

	mockClock.Advance(100 * time.Millisecond).MustWait(ctx)
	assert.Equal(t, []int{2}, q.Ready())

	mockClock.Advance(50 * time.Millisecond).MustWait(ctx)
	assert.Empty(t, q.Ready())
	wait, ok = q.NextIn()
	require.True(t, ok)
	assert.Equal(t, 50*time.Millisecond, wait)

	mockClock.Advance(50 * time.Millisecond).MustWait(ctx)
	assert.Equal(t, []int{3}, q.Ready())
	assert.Equal(t, 0, q.Pending())

	_, ok = q.NextIn()
	assert.False(t, ok)
}

func TestQueueKeepsSpacingAcrossPushes(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	mockClock := quartz.NewMock(t)
	q := NewQueue[string](mockClock, 200*time.Millisecond)

	q.Push("a")
	assert.Equal(t, []string{"a"}, q.Ready())

	q.Push("b")
	assert.Empty(t, q.Ready(), "b follows a by one delay")

	mockClock.Advance(200 * time.Millisecond).MustWait(ctx)
	assert.Equal(t, []string{"b"}, q.Ready())

	mockClock.Advance(time.Second).MustWait(ctx)
	q.Push("c", "d")
	assert.Equal(t, []string{"c"}, q.Ready(), "an idle queue starts again immediately")
	assert.Equal(t, 1, q.Pending())
}

func TestQueueEmptyKeepsSpacing(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	mockClock := quartz.NewMock(t)
	q := NewQueue[int](mockClock, 100*time.Millisecond)

	q.Push(1)
	assert.Equal(t, []int{1}, q.Ready())
	assert.Equal(t, 0, q.Pending())

	mockClock.Advance(40 * time.Millisecond).MustWait(ctx)
	q.Push(2)
	assert.Empty(t, q.Ready(), "an emptied queue still spaces the next step")
	wait, ok := q.NextIn()
	require.True(t, ok)
	assert.Equal(t, 60*time.Millisecond, wait)

	mockClock.Advance(60 * time.Millisecond).MustWait(ctx)
	assert.Equal(t, []int{2}, q.Ready())

	mockClock.Advance(100 * time.Millisecond).MustWait(ctx)
	q.Push(3)
	assert.Equal(t, []int{3}, q.Ready(), "a step pushed a full delay later is due at once")
}

func TestQueueZeroDelay(t *testing.T) {
	t.Parallel()

	q := NewQueue[int](quartz.NewMock(t), 0)
	q.Push(1, 2, 3)
	assert.Equal(t, []int{1, 2, 3}, q.Ready())

	q.SetDelay(-time.Second)
	assert.Equal(t, time.Duration(0), q.Delay())
}

func TestQueueFlush(t *testing.T) {
	t.Parallel()

	q := NewQueue[int](quartz.NewMock(t), time.Hour)
	q.Push(1, 2, 3)
	assert.Equal(t, []int{1, 2, 3}, q.Flush())
	assert.Equal(t, 0, q.Pending())
	assert.Nil(t, q.Flush())

	q.Push(4)
	assert.Equal(t, []int{4}, q.Ready(), "a flushed queue is idle")
}

func TestDrainDeliversInOrder(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	const delay = 5 * time.Millisecond
	q := NewQueue[int](quartz.NewReal(), delay)
	q.Push(1, 2, 3, 4)

	start := time.Now()
	var got []int
	require.NoError(t, q.Drain(ctx, func(v int) { got = append(got, v) }))

	assert.Equal(t, []int{1, 2, 3, 4}, got)
	assert.GreaterOrEqual(t, time.Since(start), 3*delay)
}

func TestDrainStopsOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	q := NewQueue[int](nil, time.Hour)
	q.Push(1, 2)

	var got []int
	err := q.Drain(ctx, func(v int) { got = append(got, v) })
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Equal(t, []int{1}, got)
	assert.Equal(t, 1, q.Pending())
}
