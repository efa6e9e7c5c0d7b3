package search

import (
	"sync"
	"time"
)

// Scheduler откладывает выполнение задачи на фиксированную задержку. Новая задача
// отменяет ранее запланированную: выполняется только последняя за период затишья.
type Scheduler struct {
	delay time.Duration

	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

// NewScheduler создаёт планировщик с указанной задержкой.
func NewScheduler(delay time.Duration) *Scheduler {
	return &Scheduler{delay: delay}
}

// Schedule планирует задачу, отменяя предыдущую, если она ещё не выполнилась.
func (s *Scheduler) Schedule(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
	}

	s.gen++
	gen := s.gen

	// Таймер мог сработать между Stop и перезарядкой: поколение отсекает такой запуск.
	s.timer = time.AfterFunc(s.delay, func() {
		s.mu.Lock()
		stale := gen != s.gen
		s.mu.Unlock()
		if stale {
			return
		}
		fn()
	})
}

// Cancel отменяет запланированную задачу, если она есть.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
}
