package game

import (
	"testing"
	"time"
)

// fakeClock подменяемые часы для детерминированных тестов планировщика
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func TestScheduler_FiresAfterDelay(t *testing.T) {
	clock := newFakeClock()
	sched := NewSchedulerWithClock(clock.now)

	fired := 0
	task := sched.After(6*time.Second, func() { fired++ })

	// До истечения задержки задача не срабатывает
	sched.Pump()
	clock.advance(5 * time.Second)
	sched.Pump()
	if fired != 0 {
		t.Fatalf("task fired before delay elapsed: fired=%d", fired)
	}

	clock.advance(2 * time.Second)
	sched.Pump()
	if fired != 1 {
		t.Fatalf("expected task to fire once, fired=%d", fired)
	}
	if !task.Done() {
		t.Error("task must report done after firing")
	}

	// Повторный Pump не исполняет задачу второй раз
	sched.Pump()
	if fired != 1 {
		t.Errorf("task fired again after completion: fired=%d", fired)
	}
	if sched.Pending() != 0 {
		t.Errorf("expected no pending tasks, got %d", sched.Pending())
	}
}

func TestScheduler_CancelPreventsExecution(t *testing.T) {
	clock := newFakeClock()
	sched := NewSchedulerWithClock(clock.now)

	fired := false
	task := sched.After(time.Second, func() { fired = true })
	task.Cancel()

	clock.advance(2 * time.Second)
	sched.Pump()

	if fired {
		t.Error("cancelled task must not fire")
	}
	if sched.Pending() != 0 {
		t.Errorf("cancelled task must leave the queue, pending=%d", sched.Pending())
	}
}

func TestScheduler_TasksCarryIndependentDeadlines(t *testing.T) {
	clock := newFakeClock()
	sched := NewSchedulerWithClock(clock.now)

	var order []string
	sched.After(3*time.Second, func() { order = append(order, "late") })
	sched.After(time.Second, func() { order = append(order, "early") })

	clock.advance(2 * time.Second)
	sched.Pump()
	clock.advance(2 * time.Second)
	sched.Pump()

	if len(order) != 2 || order[0] != "early" || order[1] != "late" {
		t.Errorf("unexpected execution order: %v", order)
	}
}
