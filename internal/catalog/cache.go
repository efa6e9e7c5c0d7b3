// Package catalog содержит кэш каталога игр и производные секции витрины.
package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/avjd/storefront/internal/model"
)

// Fetcher описывает операцию загрузки каталога из API магазина.
type Fetcher interface {
	Games(ctx context.Context, token string) ([]model.Game, error)
}

// Cache хранит снимок каталога в памяти. Обновление заменяет весь снимок целиком;
// читатели между обновлениями видят неизменяемые данные.
type Cache struct {
	fetcher Fetcher

	mu    sync.RWMutex
	byID  map[int64]model.Game
	order []model.Game
}

// NewCache создаёт пустой кэш каталога с указанным источником данных.
func NewCache(fetcher Fetcher) *Cache {
	return &Cache{
		fetcher: fetcher,
		byID:    make(map[int64]model.Game),
	}
}

// Refresh загружает каталог и атомарно заменяет снимок. При ошибке прежний снимок сохраняется.
func (c *Cache) Refresh(ctx context.Context, token string) error {
	games, err := c.fetcher.Games(ctx, token)
	if err != nil {
		return fmt.Errorf("refresh catalog: %w", err)
	}

	byID := make(map[int64]model.Game, len(games))
	order := make([]model.Game, len(games))
	copy(order, games)
	for _, g := range games {
		byID[g.ID] = g
	}

	c.mu.Lock()
	c.byID = byID
	c.order = order
	c.mu.Unlock()

	return nil
}

// Get возвращает игру по идентификатору из текущего снимка.
func (c *Cache) Get(id int64) (model.Game, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	g, ok := c.byID[id]
	return g, ok
}

// All возвращает копию каталога в порядке ответа сервера.
func (c *Cache) All() []model.Game {
	c.mu.RLock()
	defer c.mu.RUnlock()

	games := make([]model.Game, len(c.order))
	copy(games, c.order)
	return games
}

// Len возвращает размер текущего снимка каталога.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}
