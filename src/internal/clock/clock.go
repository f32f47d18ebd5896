// Package clock abstracts wall time and one-shot deferred work.
//
// Services take a Scheduler instead of calling time.Now or time.AfterFunc so
// tests can drive virtual time with Manual.
package clock

import (
	"sort"
	"sync"
	"time"
)

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// Timer is a handle to a scheduled one-shot task.
// Stop reports whether the call prevented the task from running.
type Timer interface {
	Stop() bool
}

// Scheduler runs a function once after a delay.
type Scheduler interface {
	Clock
	AfterFunc(d time.Duration, f func()) Timer
}

// Real uses the system clock and runtime timers.
// Use only at application entry points.
type Real struct{}

func (Real) Now() time.Time {
	return time.Now()
}

func (Real) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Manual is a virtual clock. Time only moves when Advance is called, and due
// tasks run synchronously on the caller's goroutine in deadline order.
type Manual struct {
	mu      sync.Mutex
	now     time.Time
	seq     uint64
	pending []*manualTimer
}

type manualTimer struct {
	m     *Manual
	at    time.Time
	seq   uint64
	fn    func()
	state timerState
}

type timerState int

const (
	timerPending timerState = iota
	timerFired
	timerStopped
)

func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Manual) AfterFunc(d time.Duration, f func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	t := &manualTimer{m: m, at: m.now.Add(d), seq: m.seq, fn: f}
	m.pending = append(m.pending, t)
	return t
}

// Advance moves the clock forward by d and runs every task that becomes due,
// including tasks scheduled by other tasks inside the window. It returns the
// number of tasks run.
func (m *Manual) Advance(d time.Duration) int {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	fired := 0
	for {
		m.mu.Lock()
		next := m.popDueLocked(target)
		if next == nil {
			m.now = target
			m.mu.Unlock()
			return fired
		}
		m.now = next.at
		next.state = timerFired
		m.mu.Unlock()

		next.fn()
		fired++
	}
}

// Pending returns the number of scheduled tasks that have neither run nor been stopped.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

func (m *Manual) popDueLocked(target time.Time) *manualTimer {
	if len(m.pending) == 0 {
		return nil
	}

	sort.SliceStable(m.pending, func(i, j int) bool {
		if m.pending[i].at.Equal(m.pending[j].at) {
			return m.pending[i].seq < m.pending[j].seq
		}
		return m.pending[i].at.Before(m.pending[j].at)
	})

	head := m.pending[0]
	if head.at.After(target) {
		return nil
	}
	m.pending = m.pending[1:]
	return head
}

func (t *manualTimer) Stop() bool {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()

	if t.state != timerPending {
		return false
	}
	t.state = timerStopped
	for i, p := range t.m.pending {
		if p == t {
			t.m.pending = append(t.m.pending[:i], t.m.pending[i+1:]...)
			break
		}
	}
	return true
}

var (
	_ Scheduler = Real{}
	_ Scheduler = (*Manual)(nil)
)
