// internal/schedule/schedule_test.go
package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startLoop(t *testing.T) *Loop {
	t.Helper()
	l := NewLoop(16)
	ctx, cancel := context.WithCancel(context.Background())
	go l.Run(ctx)
	t.Cleanup(cancel)
	return l
}

func TestLoopRunsTasksInOrder(t *testing.T) {
	l := startLoop(t)

	var got []int
	for i := 0; i < 5; i++ {
		i := i
		l.Post(func() { got = append(got, i) })
	}
	require.NoError(t, l.Do(context.Background(), func() {}))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
}

func TestLoopSurvivesPanickingTask(t *testing.T) {
	l := startLoop(t)

	l.Post(func() { panic("boom") })
	ran := false
	require.NoError(t, l.Do(context.Background(), func() { ran = true }))
	assert.True(t, ran)
}

func TestLoopAfterPostsOntoLoop(t *testing.T) {
	l := startLoop(t)

	fired := make(chan struct{})
	l.After(10*time.Millisecond, func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}
}

func TestLoopDoAfterStop(t *testing.T) {
	l := NewLoop(1)
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		l.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	assert.ErrorIs(t, l.Do(context.Background(), func() {}), ErrStopped)
	l.Post(func() {}) // must not block
}

func TestManualFiresInDeadlineOrder(t *testing.T) {
	m := NewManual(time.Unix(0, 0))

	var got []string
	m.After(3*time.Second, func() { got = append(got, "c") })
	m.After(1*time.Second, func() { got = append(got, "a") })
	m.After(1*time.Second, func() { got = append(got, "b") })
	assert.Equal(t, []time.Duration{time.Second, time.Second, 3 * time.Second}, m.deadlines())

	m.Advance(2 * time.Second)
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, 1, m.Pending())

	m.Advance(time.Second)
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Equal(t, time.Unix(3, 0), m.Now())
}

func TestManualChainedTimersWithinWindow(t *testing.T) {
	m := NewManual(time.Unix(0, 0))

	var at []time.Time
	m.After(time.Second, func() {
		at = append(at, m.Now())
		m.After(time.Second, func() { at = append(at, m.Now()) })
	})

	m.Advance(5 * time.Second)
	require.Len(t, at, 2)
	assert.Equal(t, time.Unix(1, 0), at[0])
	assert.Equal(t, time.Unix(2, 0), at[1])
}

func TestManualPostQueuesBehindRunningTask(t *testing.T) {
	m := NewManual(time.Unix(0, 0))

	var got []string
	m.Post(func() {
		m.Post(func() { got = append(got, "inner") })
		got = append(got, "outer")
	})
	assert.Equal(t, []string{"outer", "inner"}, got)
}
