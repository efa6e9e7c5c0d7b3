// Package handler содержит HTTP-обработчики презентационного API шлюза витрины.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/avjd/storefront/internal/api"
	"github.com/avjd/storefront/internal/cart"
	"github.com/avjd/storefront/internal/confirm"
	"github.com/avjd/storefront/internal/model"
)

// CartService определяет контракт логики корзины, используемой обработчиками.
type CartService interface {
	LoadActive(ctx context.Context) (model.CartView, error)
	ItemCount(ctx context.Context) (int, error)
	Add(ctx context.Context, gameID int64) error
	Remove(ctx context.Context, gameID int64, confirmer cart.Confirmer) (model.CartView, error)
	Checkout(ctx context.Context) error
}

// SessionManager определяет контракт управления сессией, используемый обработчиками.
type SessionManager interface {
	EnsureSession(ctx context.Context) error
	Login(ctx context.Context, email, password, name string) error
	Logout() error
	Status() (loggedIn bool, name string, guest bool)
}

// Catalog определяет доступ обработчиков к снимку каталога.
type Catalog interface {
	All() []model.Game
}

// SearchController определяет контракт конвейера поиска, используемый обработчиками.
type SearchController interface {
	Input(term string)
	Submit(term string)
	Reset()
}

// Handler реализует HTTP-обработчики презентационного API шлюза витрины.
type Handler struct {
	cart     CartService
	session  SessionManager
	catalog  Catalog
	search   SearchController
	gate     *confirm.Gate
	snapshot *SearchSnapshot
	logger   *zap.Logger
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(cartSvc CartService, session SessionManager, catalog Catalog, searchCtrl SearchController, gate *confirm.Gate, snapshot *SearchSnapshot, logger *zap.Logger) *Handler {
	return &Handler{
		cart:     cartSvc,
		session:  session,
		catalog:  catalog,
		search:   searchCtrl,
		gate:     gate,
		snapshot: snapshot,
		logger:   logger,
	}
}

type gameResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"nome"`
	Description string `json:"descricao,omitempty"`
	Price       string `json:"preco"`
	PriceCents  int64  `json:"precoCentavos"`
	Year        int    `json:"ano,omitempty"`
	ImageURL    string `json:"imagemUrl"`
}

func toGameResponse(g model.Game) gameResponse {
	return gameResponse{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		Price:       model.FormatBRL(g.PriceCents),
		PriceCents:  g.PriceCents,
		Year:        g.Year,
		ImageURL:    g.ImageOrFallback(),
	}
}

func toGameResponses(games []model.Game) []gameResponse {
	resp := make([]gameResponse, 0, len(games))
	for _, g := range games {
		resp = append(resp, toGameResponse(g))
	}
	return resp
}

type messageResponse struct {
	Message string `json:"message"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encode response", zap.Error(err))
	}
}

func (h *Handler) writeMessage(w http.ResponseWriter, statusCode int, message string) {
	h.writeJSON(w, statusCode, messageResponse{Message: message})
}

type sessionStatusResponse struct {
	LoggedIn bool   `json:"loggedIn"`
	Name     string `json:"name"`
	Guest    bool   `json:"guest"`
}

// GetSession возвращает состояние текущей сессии.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	loggedIn, name, guest := h.session.Status()
	h.writeJSON(w, http.StatusOK, sessionStatusResponse{
		LoggedIn: loggedIn,
		Name:     name,
		Guest:    guest,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"senha"`
	Name     string `json:"nome"`
}

// Login выполняет личный вход пользователя.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if req.Email == "" || req.Password == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if err := h.session.Login(r.Context(), req.Email, req.Password, req.Name); err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
		if errors.Is(err, api.ErrUnreachable) {
			http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
			return
		}
		h.logger.Error("login error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// Logout завершает сессию и очищает сохранённые учётные данные.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.session.Logout(); err != nil {
		h.logger.Error("logout error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.search.Reset()
	w.WriteHeader(http.StatusOK)
}

type dashboardResponse struct {
	Highlight   *gameResponse  `json:"highlight,omitempty"`
	Promotions  []gameResponse `json:"promotions"`
	Popular     []gameResponse `json:"popular"`
	NewReleases []gameResponse `json:"newReleases"`
}

// GetDashboard возвращает производные секции витрины по текущему снимку каталога.
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, toDashboardResponse(h.catalog.All()))
}

// GetGames возвращает полный каталог в порядке ответа сервера магазина.
func (h *Handler) GetGames(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, toGameResponses(h.catalog.All()))
}

type cartLineResponse struct {
	Game     gameResponse `json:"jogo"`
	Quantity int          `json:"quantidade"`
	Subtotal string       `json:"subtotal"`
}

type cartResponse struct {
	Items      []cartLineResponse `json:"itens"`
	Total      string             `json:"total"`
	TotalCents int64              `json:"totalCentavos"`
}

func toCartResponse(view model.CartView) cartResponse {
	resp := cartResponse{
		Items:      make([]cartLineResponse, 0, len(view.Items)),
		Total:      model.FormatBRL(view.TotalCents),
		TotalCents: view.TotalCents,
	}
	for _, item := range view.Items {
		resp.Items = append(resp.Items, cartLineResponse{
			Game:     toGameResponse(item.Game),
			Quantity: item.Quantity,
			Subtotal: model.FormatBRL(item.SubtotalCents()),
		})
	}
	return resp
}

// GetCart возвращает обогащённую корзину с итоговой суммой.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.cart.LoadActive(r.Context())
	if err != nil {
		h.respondCartError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toCartResponse(view))
}

type countResponse struct {
	Count int `json:"count"`
}

// GetCartCount возвращает число позиций корзины для счётчика в шапке.
// Любая ошибка вырождается в нулевой счётчик, как и в браузерной витрине.
func (h *Handler) GetCartCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.cart.ItemCount(r.Context())
	if err != nil {
		h.logger.Warn("cart count degraded to zero", zap.Error(err))
		count = 0
	}

	h.writeJSON(w, http.StatusOK, countResponse{Count: count})
}

type addToCartRequest struct {
	GameID int64 `json:"jogoId"`
}

// AddToCart добавляет одну единицу игры в корзину.
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req addToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if req.GameID <= 0 {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if err := h.cart.Add(r.Context(), req.GameID); err != nil {
		h.respondCartError(w, r, err)
		return
	}

	h.writeMessage(w, http.StatusOK, "Jogo adicionado ao carrinho!")
}

type removeResponse struct {
	Removed bool          `json:"removed"`
	Cart    *cartResponse `json:"cart,omitempty"`
}

// RemoveFromCart удаляет игру из корзины. Запрос блокируется до ответа на
// подтверждение через /api/confirmation; пока слот занят, новые удаления отклоняются.
func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	gameID, err := strconv.ParseInt(chi.URLParam(r, "gameID"), 10, 64)
	if err != nil || gameID <= 0 {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	view, err := h.cart.Remove(r.Context(), gameID, h.gate)
	if err != nil {
		switch {
		case errors.Is(err, cart.ErrRemovalDeclined):
			h.writeJSON(w, http.StatusOK, removeResponse{Removed: false})
		case errors.Is(err, confirm.ErrPending):
			h.writeMessage(w, http.StatusConflict, "Outra confirmação está em andamento.")
		default:
			h.respondCartError(w, r, err)
		}
		return
	}

	cartResp := toCartResponse(view)
	h.writeJSON(w, http.StatusOK, removeResponse{Removed: true, Cart: &cartResp})
}

// GetConfirmation возвращает текст ожидающего подтверждения, если оно есть.
func (h *Handler) GetConfirmation(w http.ResponseWriter, r *http.Request) {
	message, pending := h.gate.Pending()
	if !pending {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	h.writeMessage(w, http.StatusOK, message)
}

type confirmationRequest struct {
	Accept bool `json:"accept"`
}

// ResolveConfirmation отвечает на ожидающее подтверждение.
func (h *Handler) ResolveConfirmation(w http.ResponseWriter, r *http.Request) {
	var req confirmationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if err := h.gate.Resolve(req.Accept); err != nil {
		h.writeMessage(w, http.StatusConflict, "Nenhuma confirmação pendente.")
		return
	}

	w.WriteHeader(http.StatusOK)
}

// Checkout запускает оформление заказа.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	err := h.cart.Checkout(r.Context())
	switch {
	case errors.Is(err, cart.ErrNotLoggedIn):
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
	case errors.Is(err, cart.ErrGuestCheckout):
		h.writeMessage(w, http.StatusForbidden,
			"Você não pode finalizar a compra usando uma sessão de navegação genérica. Por favor, faça login.")
	case errors.Is(err, cart.ErrCheckoutUnavailable):
		h.writeMessage(w, http.StatusNotImplemented, "Funcionalidade de Checkout ainda será implementada!")
	case err != nil:
		h.logger.Error("checkout error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	default:
		w.WriteHeader(http.StatusOK)
	}
}

// respondCartError переводит ошибки сервиса корзины в ответы презентационного API.
// После истечения сессии выполняется попытка тихого гостевого входа.
func (h *Handler) respondCartError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, cart.ErrSessionExpired):
		if ensureErr := h.session.EnsureSession(r.Context()); ensureErr != nil {
			h.logger.Warn("guest re-login failed", zap.Error(ensureErr))
		}
		h.writeMessage(w, http.StatusUnauthorized, "Sua sessão expirou. Faça login novamente.")
	case errors.Is(err, cart.ErrNotLoggedIn):
		h.writeMessage(w, http.StatusUnauthorized, "Você precisa estar logado para usar o carrinho.")
	case errors.Is(err, api.ErrUnreachable):
		h.writeMessage(w, http.StatusBadGateway, "Erro de conexão com a loja. Tente novamente.")
	default:
		var statusErr *api.StatusError
		if errors.As(err, &statusErr) {
			message := statusErr.Message
			if message == "" {
				message = "Erro desconhecido ao acessar o carrinho."
			}
			h.writeMessage(w, statusErr.Code, message)
			return
		}
		h.logger.Error("cart error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
