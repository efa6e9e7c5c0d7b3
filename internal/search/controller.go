package search

import (
	"strings"
	"sync"
	"time"

	"github.com/avjd/storefront/internal/catalog"
	"github.com/avjd/storefront/internal/model"
)

// State описывает режим поисковой части витрины.
type State string

// StateDashboard — пустой запрос, показываются секции витрины.
const (
	StateDashboard State = "dashboard"
	// StateSuggesting — идёт набор текста, показаны подсказки, полный поиск отложен.
	StateSuggesting State = "suggesting"
	// StateFullResults — показан полный результат поиска.
	StateFullResults State = "results"
)

// CatalogSource описывает доступ контроллера к снимку каталога.
type CatalogSource interface {
	All() []model.Game
}

// View получает результаты конвейера поиска для отображения.
type View interface {
	ShowDashboard(sections catalog.Sections)
	ShowSuggestions(term string, games []model.Game)
	ShowResults(term string, games []model.Game)
}

// Controller связывает ввод пользователя с фильтрацией каталога. Каждое нажатие
// даёт немедленные подсказки, а полный проход откладывается; явная отправка
// выполняет полный проход сразу. Каждому полному проходу назначается
// монотонный номер, и устаревший проход не публикуется поверх более нового.
type Controller struct {
	catalog CatalogSource
	view    View
	sched   *Scheduler

	mu     sync.Mutex
	state  State
	term   string
	issued uint64
}

// NewController создаёт контроллер поиска с указанной задержкой полного прохода.
func NewController(catalogSource CatalogSource, view View, delay time.Duration) *Controller {
	return &Controller{
		catalog: catalogSource,
		view:    view,
		sched:   NewScheduler(delay),
		state:   StateDashboard,
	}
}

// Input обрабатывает очередное состояние строки поиска при наборе текста.
func (c *Controller) Input(term string) {
	term = strings.TrimSpace(term)

	if term == "" {
		c.Reset()
		return
	}

	c.mu.Lock()
	c.state = StateSuggesting
	c.term = term
	c.mu.Unlock()

	c.view.ShowSuggestions(term, Suggest(term, c.catalog.All()))

	seq := c.issueSeq()
	c.sched.Schedule(func() {
		c.runFullPass(term, seq)
	})
}

// Submit выполняет полный поиск немедленно, минуя задержку.
func (c *Controller) Submit(term string) {
	term = strings.TrimSpace(term)

	c.sched.Cancel()

	if term == "" {
		c.Reset()
		return
	}

	c.runFullPass(term, c.issueSeq())
}

// Reset возвращает витрину в режим секций и отменяет отложенный поиск.
func (c *Controller) Reset() {
	c.sched.Cancel()

	c.mu.Lock()
	c.state = StateDashboard
	c.term = ""
	// Инвалидирует уже запущенный полный проход, который Cancel не успел остановить.
	c.issued++
	c.mu.Unlock()

	c.view.ShowDashboard(catalog.ComputeSections(c.catalog.All()))
}

// State возвращает текущий режим и запрос.
func (c *Controller) State() (State, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state, c.term
}

// Close отменяет отложенные задачи контроллера.
func (c *Controller) Close() {
	c.sched.Cancel()
}

func (c *Controller) issueSeq() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.issued++
	return c.issued
}

func (c *Controller) runFullPass(term string, seq uint64) {
	results := Filter(term, c.catalog.All())

	c.mu.Lock()
	if seq < c.issued {
		// Проход устарел: после него был выдан более новый запрос.
		c.mu.Unlock()
		return
	}
	c.state = StateFullResults
	c.term = term
	c.mu.Unlock()

	c.view.ShowResults(term, results)
}
