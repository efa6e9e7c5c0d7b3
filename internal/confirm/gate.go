// Package confirm реализует интерактивное подтверждение действий пользователя.
package confirm

import (
	"context"
	"errors"
	"sync"
)

// ErrPending возвращается, когда подтверждение уже ожидает ответа.
var (
	ErrPending = errors.New("another confirmation is pending")
	// ErrNoPending возвращается при попытке ответить без ожидающего подтверждения.
	ErrNoPending = errors.New("no pending confirmation")
)

// Gate держит не более одного ожидающего подтверждения. Конкурирующие запросы
// отклоняются, пока слот занят.
type Gate struct {
	mu      sync.Mutex
	message string
	resolve chan bool
}

// NewGate создаёт шлюз подтверждений в свободном состоянии.
func NewGate() *Gate {
	return &Gate{}
}

// Request занимает слот и блокируется до ответа пользователя или отмены контекста.
// Возвращает ErrPending, если слот уже занят другим запросом.
func (g *Gate) Request(ctx context.Context, message string) (bool, error) {
	g.mu.Lock()
	if g.resolve != nil {
		g.mu.Unlock()
		return false, ErrPending
	}
	ch := make(chan bool, 1)
	g.message = message
	g.resolve = ch
	g.mu.Unlock()

	select {
	case accepted := <-ch:
		return accepted, nil
	case <-ctx.Done():
		g.mu.Lock()
		if g.resolve == ch {
			g.message = ""
			g.resolve = nil
		}
		g.mu.Unlock()

		// Ответ мог прийти одновременно с отменой — он важнее.
		select {
		case accepted := <-ch:
			return accepted, nil
		default:
			return false, ctx.Err()
		}
	}
}

// Resolve отвечает на ожидающее подтверждение и освобождает слот.
func (g *Gate) Resolve(accept bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.resolve == nil {
		return ErrNoPending
	}

	g.resolve <- accept
	g.message = ""
	g.resolve = nil
	return nil
}

// Pending возвращает текст ожидающего подтверждения, если слот занят.
func (g *Gate) Pending() (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.message, g.resolve != nil
}
