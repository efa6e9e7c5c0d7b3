package search

import (
	"sync"
	"testing"
	"time"

	"github.com/avjd/storefront/internal/catalog"
	"github.com/avjd/storefront/internal/model"
)

type staticCatalog struct {
	games []model.Game
}

func (s *staticCatalog) All() []model.Game {
	games := make([]model.Game, len(s.games))
	copy(games, s.games)
	return games
}

type viewEvent struct {
	kind  string
	term  string
	games []model.Game
}

type recordingView struct {
	mu     sync.Mutex
	events []viewEvent
	notify chan viewEvent
}

func newRecordingView() *recordingView {
	return &recordingView{notify: make(chan viewEvent, 16)}
}

func (v *recordingView) record(e viewEvent) {
	v.mu.Lock()
	v.events = append(v.events, e)
	v.mu.Unlock()
	v.notify <- e
}

func (v *recordingView) ShowDashboard(sections catalog.Sections) {
	v.record(viewEvent{kind: "dashboard"})
}

func (v *recordingView) ShowSuggestions(term string, games []model.Game) {
	v.record(viewEvent{kind: "suggestions", term: term, games: games})
}

func (v *recordingView) ShowResults(term string, games []model.Game) {
	v.record(viewEvent{kind: "results", term: term, games: games})
}

func (v *recordingView) wait(t *testing.T, kind string) viewEvent {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case e := <-v.notify:
			if e.kind == kind {
				return e
			}
		case <-deadline:
			t.Fatalf("no %q event arrived", kind)
		}
	}
}

func (v *recordingView) count(kind string) int {
	v.mu.Lock()
	defer v.mu.Unlock()
	n := 0
	for _, e := range v.events {
		if e.kind == kind {
			n++
		}
	}
	return n
}

func newTestController(view View) *Controller {
	src := &staticCatalog{games: []model.Game{
		{ID: 1, Name: "The Legend of Zelda", Year: 2017, PriceCents: 5999},
		{ID: 2, Name: "Bloodborne", Year: 2015, PriceCents: 19900},
		{ID: 3, Name: "Mario Kart", Year: 2014, PriceCents: 4990},
	}}
	return NewController(src, view, 40*time.Millisecond)
}

func TestController_DebouncedSingleFullPass(t *testing.T) {
	view := newRecordingView()
	ctrl := newTestController(view)
	defer ctrl.Close()

	ctrl.Input("a")
	ctrl.Input("ab")
	ctrl.Input("abc")

	e := view.wait(t, "results")
	if e.term != "abc" {
		t.Fatalf("full pass term = %q, want final term abc", e.term)
	}

	// Даём возможным лишним проходам время проявиться.
	time.Sleep(120 * time.Millisecond)
	if n := view.count("results"); n != 1 {
		t.Fatalf("full passes = %d, want exactly 1", n)
	}

	state, term := ctrl.State()
	if state != StateFullResults || term != "abc" {
		t.Fatalf("state = (%v, %q), want results/abc", state, term)
	}
}

func TestController_ShortTermSuppressesSuggestions(t *testing.T) {
	view := newRecordingView()
	ctrl := newTestController(view)
	defer ctrl.Close()

	ctrl.Input("ze")

	e := view.wait(t, "suggestions")
	if len(e.games) != 0 {
		t.Fatalf("suggestions for short term = %+v, want none", e.games)
	}

	state, _ := ctrl.State()
	if state != StateSuggesting {
		t.Fatalf("state = %v, want suggesting", state)
	}
}

func TestController_LongTermGivesSuggestions(t *testing.T) {
	view := newRecordingView()
	ctrl := newTestController(view)
	defer ctrl.Close()

	ctrl.Input("zelda")

	e := view.wait(t, "suggestions")
	if len(e.games) != 1 || e.games[0].Name != "The Legend of Zelda" {
		t.Fatalf("suggestions = %+v, want Zelda", e.games)
	}
}

func TestController_SubmitBypassesDebounce(t *testing.T) {
	view := newRecordingView()
	ctrl := newTestController(view)
	defer ctrl.Close()

	start := time.Now()
	ctrl.Submit("mario")

	e := view.wait(t, "results")
	if e.term != "mario" {
		t.Fatalf("term = %q, want mario", e.term)
	}
	if elapsed := time.Since(start); elapsed > 30*time.Millisecond {
		t.Fatalf("submit took %v, must not wait for the debounce delay", elapsed)
	}
	if len(e.games) != 1 || e.games[0].Name != "Mario Kart" {
		t.Fatalf("results = %+v, want Mario Kart", e.games)
	}
}

func TestController_SubmitSupersedesPendingInputPass(t *testing.T) {
	view := newRecordingView()
	ctrl := newTestController(view)
	defer ctrl.Close()

	ctrl.Input("zelda")
	ctrl.Submit("mario")

	e := view.wait(t, "results")
	if e.term != "mario" {
		t.Fatalf("term = %q, want mario", e.term)
	}

	time.Sleep(120 * time.Millisecond)
	if n := view.count("results"); n != 1 {
		t.Fatalf("full passes = %d, want 1: superseded input pass must not run", n)
	}
}

func TestController_EmptyTermResetsToDashboard(t *testing.T) {
	view := newRecordingView()
	ctrl := newTestController(view)
	defer ctrl.Close()

	ctrl.Input("zelda")
	ctrl.Input("")

	view.wait(t, "dashboard")

	state, term := ctrl.State()
	if state != StateDashboard || term != "" {
		t.Fatalf("state = (%v, %q), want dashboard with empty term", state, term)
	}

	// Отложенный полный проход по "zelda" отменён сбросом.
	time.Sleep(120 * time.Millisecond)
	if n := view.count("results"); n != 0 {
		t.Fatalf("full passes after reset = %d, want 0", n)
	}
}

func TestController_StaleFullPassNotPublished(t *testing.T) {
	view := newRecordingView()
	ctrl := newTestController(view)
	defer ctrl.Close()

	// Проход с номером, выданным до более нового, не публикуется.
	stale := ctrl.issueSeq()
	_ = ctrl.issueSeq()
	ctrl.runFullPass("zelda", stale)

	select {
	case e := <-view.notify:
		t.Fatalf("stale pass was published: %+v", e)
	case <-time.After(80 * time.Millisecond):
	}
}
