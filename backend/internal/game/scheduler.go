package game

import (
	"sync"
	"time"
)

// Task одноразовая отложенная задача. Несет неизменяемый снимок
// состояния в замыкании и может быть отменена до срабатывания.
type Task struct {
	mu        sync.Mutex
	fireAt    time.Time
	fn        func()
	cancelled bool
	done      bool
}

// Cancel отменяет задачу, если она еще не сработала
func (t *Task) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelled = true
}

// Done сообщает, сработала ли задача
func (t *Task) Done() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.done
}

// take атомарно забирает задачу к исполнению
func (t *Task) take(now time.Time) (func(), bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancelled || t.done || now.Before(t.fireAt) {
		return nil, false
	}
	t.done = true
	return t.fn, true
}

func (t *Task) finished() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancelled || t.done
}

// Scheduler тикаемый планировщик одноразовых задач.
// Вместо голого time.AfterFunc: задачи срабатывают внутри тика
// симуляции, поэтому вся игровая логика остается однопоточной.
type Scheduler struct {
	mu    sync.Mutex
	now   func() time.Time
	tasks []*Task
}

// NewScheduler создает планировщик на системных часах
func NewScheduler() *Scheduler {
	return NewSchedulerWithClock(time.Now)
}

// NewSchedulerWithClock создает планировщик с подменяемыми часами
func NewSchedulerWithClock(now func() time.Time) *Scheduler {
	return &Scheduler{now: now}
}

// After регистрирует задачу через d от текущего момента
func (s *Scheduler) After(d time.Duration, fn func()) *Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	task := &Task{fireAt: s.now().Add(d), fn: fn}
	s.tasks = append(s.tasks, task)
	return task
}

// Pump выполняет созревшие задачи. Вызывается раз в тик;
// задачи исполняются вне блокировки планировщика.
func (s *Scheduler) Pump() {
	s.mu.Lock()
	now := s.now()
	var ready []func()
	remaining := s.tasks[:0]
	for _, t := range s.tasks {
		if fn, ok := t.take(now); ok {
			ready = append(ready, fn)
			continue
		}
		if !t.finished() {
			remaining = append(remaining, t)
		}
	}
	s.tasks = remaining
	s.mu.Unlock()

	for _, fn := range ready {
		fn()
	}
}

// Pending возвращает число незавершенных задач
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}
