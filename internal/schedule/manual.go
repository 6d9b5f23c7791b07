// internal/schedule/manual.go
package schedule

import (
	"sort"
	"time"
)

type manualTimer struct {
	at   time.Time
	seq  int
	task func()
}

// Manual is a deterministic Scheduler for tests. Posted tasks run immediately
// (queued behind the task currently running, if any); timers fire only when
// Advance moves the clock past them. Not safe for concurrent use.
type Manual struct {
	now     time.Time
	seq     int
	timers  []manualTimer
	queue   []func()
	running bool
}

// NewManual starts the clock at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Post(task func()) {
	m.queue = append(m.queue, task)
	m.drain()
}

func (m *Manual) After(d time.Duration, task func()) {
	m.seq++
	m.timers = append(m.timers, manualTimer{at: m.now.Add(d), seq: m.seq, task: task})
}

func (m *Manual) Now() time.Time {
	return m.now
}

// Advance moves the clock forward by d, firing due timers in deadline order
// (ties in scheduling order). Timers scheduled by fired tasks also fire if they
// fall within the window.
func (m *Manual) Advance(d time.Duration) {
	target := m.now.Add(d)
	for {
		i := m.nextDue(target)
		if i < 0 {
			break
		}
		t := m.timers[i]
		m.timers = append(m.timers[:i], m.timers[i+1:]...)
		if t.at.After(m.now) {
			m.now = t.at
		}
		m.Post(t.task)
	}
	m.now = target
}

// Pending is the number of timers not yet fired.
func (m *Manual) Pending() int {
	return len(m.timers)
}

func (m *Manual) nextDue(target time.Time) int {
	idx := -1
	for i, t := range m.timers {
		if t.at.After(target) {
			continue
		}
		if idx < 0 || t.at.Before(m.timers[idx].at) || (t.at.Equal(m.timers[idx].at) && t.seq < m.timers[idx].seq) {
			idx = i
		}
	}
	return idx
}

func (m *Manual) drain() {
	if m.running {
		return
	}
	m.running = true
	defer func() { m.running = false }()
	for len(m.queue) > 0 {
		task := m.queue[0]
		m.queue = m.queue[1:]
		task()
	}
}

// deadlines lists pending timer offsets from now, sorted. Used in tests.
func (m *Manual) deadlines() []time.Duration {
	out := make([]time.Duration, 0, len(m.timers))
	for _, t := range m.timers {
		out = append(out, t.at.Sub(m.now))
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
