package api

import (
	"errors"
	"fmt"
)

// ErrUnauthorized возвращается при ответе 401/403 от API магазина.
var (
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUnreachable возвращается при сетевой ошибке без ответа сервера.
	ErrUnreachable = errors.New("store api unreachable")
)

// StatusError описывает отказ сервера с кодом и сообщением из тела ответа.
type StatusError struct {
	Code    int
	Message string
}

// Error реализует интерфейс error.
func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("store api rejected request: status %d", e.Code)
	}
	return fmt.Sprintf("store api rejected request: status %d: %s", e.Code, e.Message)
}
