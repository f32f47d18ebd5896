package clock

import (
	"testing"
	"time"
)

var epoch = time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

func TestManualAdvanceFiresDueTasksInOrder(t *testing.T) {
	m := NewManual(epoch)

	var order []string
	m.AfterFunc(3*time.Second, func() { order = append(order, "c") })
	m.AfterFunc(1*time.Second, func() { order = append(order, "a") })
	m.AfterFunc(2*time.Second, func() { order = append(order, "b") })

	if fired := m.Advance(2 * time.Second); fired != 2 {
		t.Fatalf("expected 2 fired tasks, got %d", fired)
	}
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Fatalf("unexpected order %v", order)
	}
	if m.Pending() != 1 {
		t.Fatalf("expected 1 pending task, got %d", m.Pending())
	}
	if !m.Now().Equal(epoch.Add(2 * time.Second)) {
		t.Fatalf("unexpected now %s", m.Now())
	}

	m.Advance(time.Second)
	if len(order) != 3 || order[2] != "c" {
		t.Fatalf("unexpected order %v", order)
	}
}

func TestManualTaskSeesItsDeadlineAsNow(t *testing.T) {
	m := NewManual(epoch)

	var seen time.Time
	m.AfterFunc(1500*time.Millisecond, func() { seen = m.Now() })
	m.Advance(10 * time.Second)

	if !seen.Equal(epoch.Add(1500 * time.Millisecond)) {
		t.Fatalf("expected task to observe its deadline, got %s", seen)
	}
}

func TestManualStopPreventsRun(t *testing.T) {
	m := NewManual(epoch)

	ran := false
	timer := m.AfterFunc(time.Second, func() { ran = true })
	if !timer.Stop() {
		t.Fatal("expected first stop to succeed")
	}
	if timer.Stop() {
		t.Fatal("expected second stop to report false")
	}

	m.Advance(time.Minute)
	if ran {
		t.Fatal("stopped task must not run")
	}
}

func TestManualStopAfterFireReportsFalse(t *testing.T) {
	m := NewManual(epoch)

	timer := m.AfterFunc(time.Second, func() {})
	m.Advance(time.Second)

	if timer.Stop() {
		t.Fatal("expected stop after fire to report false")
	}
}

func TestManualRunsTasksScheduledInsideWindow(t *testing.T) {
	m := NewManual(epoch)

	count := 0
	m.AfterFunc(time.Second, func() {
		count++
		m.AfterFunc(time.Second, func() { count++ })
	})

	if fired := m.Advance(5 * time.Second); fired != 2 {
		t.Fatalf("expected 2 fired tasks, got %d", fired)
	}
	if count != 2 {
		t.Fatalf("expected count 2, got %d", count)
	}
}
