package handler

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/avjd/storefront/internal/catalog"
	"github.com/avjd/storefront/internal/model"
	"github.com/avjd/storefront/internal/search"
)

// SearchSnapshot хранит последнее опубликованное состояние поиска.
// Контроллер пишет в него из своих горутин, а GET /api/search/state читает.
type SearchSnapshot struct {
	mu          sync.RWMutex
	mode        search.State
	term        string
	sections    catalog.Sections
	suggestions []model.Game
	results     []model.Game
}

// NewSearchSnapshot создаёт снимок в состоянии витрины с пустыми секциями.
func NewSearchSnapshot() *SearchSnapshot {
	return &SearchSnapshot{mode: search.StateDashboard}
}

// ShowDashboard фиксирует возврат к секциям витрины.
func (s *SearchSnapshot) ShowDashboard(sections catalog.Sections) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = search.StateDashboard
	s.term = ""
	s.sections = sections
	s.suggestions = nil
	s.results = nil
}

// ShowSuggestions фиксирует список подсказок для введённого запроса.
func (s *SearchSnapshot) ShowSuggestions(term string, games []model.Game) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = search.StateSuggesting
	s.term = term
	s.suggestions = games
	s.results = nil
}

// ShowResults фиксирует полные результаты поиска.
func (s *SearchSnapshot) ShowResults(term string, games []model.Game) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = search.StateFullResults
	s.term = term
	s.suggestions = nil
	s.results = games
}

func toDashboardResponse(games []model.Game) dashboardResponse {
	return sectionsToResponse(catalog.ComputeSections(games))
}

func sectionsToResponse(sections catalog.Sections) dashboardResponse {
	resp := dashboardResponse{
		Promotions:  toGameResponses(sections.Promotions),
		Popular:     toGameResponses(sections.Popular),
		NewReleases: toGameResponses(sections.NewReleases),
	}
	if sections.Highlight != nil {
		highlight := toGameResponse(*sections.Highlight)
		resp.Highlight = &highlight
	}
	return resp
}

type searchStateResponse struct {
	Mode        string             `json:"mode"`
	Term        string             `json:"term"`
	Dashboard   *dashboardResponse `json:"dashboard,omitempty"`
	Suggestions []gameResponse     `json:"suggestions,omitempty"`
	Results     []gameResponse     `json:"results,omitempty"`
}

func searchModeName(mode search.State) string {
	switch mode {
	case search.StateSuggesting:
		return "suggesting"
	case search.StateFullResults:
		return "results"
	default:
		return "dashboard"
	}
}

type searchTermRequest struct {
	Term string `json:"term"`
}

// SearchInput регистрирует ввод в строке поиска: подсказки публикуются сразу,
// полный проход откладывается на период затишья.
func (h *Handler) SearchInput(w http.ResponseWriter, r *http.Request) {
	var req searchTermRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	h.search.Input(req.Term)
	w.WriteHeader(http.StatusAccepted)
}

// SearchSubmit выполняет немедленный полный проход поиска и возвращает его состояние.
func (h *Handler) SearchSubmit(w http.ResponseWriter, r *http.Request) {
	var req searchTermRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	h.search.Submit(req.Term)
	h.writeSearchState(w)
}

// SearchState возвращает последнее опубликованное состояние поиска.
func (h *Handler) SearchState(w http.ResponseWriter, r *http.Request) {
	h.writeSearchState(w)
}

func (h *Handler) writeSearchState(w http.ResponseWriter) {
	h.snapshot.mu.RLock()
	resp := searchStateResponse{
		Mode: searchModeName(h.snapshot.mode),
		Term: h.snapshot.term,
	}
	switch h.snapshot.mode {
	case search.StateSuggesting:
		resp.Suggestions = toGameResponses(h.snapshot.suggestions)
	case search.StateFullResults:
		resp.Results = toGameResponses(h.snapshot.results)
	default:
		dashboard := sectionsToResponse(h.snapshot.sections)
		resp.Dashboard = &dashboard
	}
	h.snapshot.mu.RUnlock()

	h.writeJSON(w, http.StatusOK, resp)
}
