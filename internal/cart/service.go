// Package cart реализует работу с корзиной: сверку с каталогом и операции добавления и удаления.
package cart

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/avjd/storefront/internal/api"
	"github.com/avjd/storefront/internal/model"
)

// ErrSessionExpired возвращается после 401 от API магазина; сессия при этом уже сброшена.
var (
	ErrSessionExpired = errors.New("session expired")
	// ErrNotLoggedIn возвращается для операций, требующих сессии, когда её нет.
	ErrNotLoggedIn = errors.New("not logged in")
	// ErrRemovalDeclined возвращается, когда пользователь отклонил удаление.
	ErrRemovalDeclined = errors.New("removal declined")
	// ErrGuestCheckout возвращается при попытке оформить заказ с гостевой сессией.
	ErrGuestCheckout = errors.New("checkout requires a personal session")
	// ErrCheckoutUnavailable возвращается, пока оформление заказа не реализовано.
	ErrCheckoutUnavailable = errors.New("checkout is not implemented yet")
)

// StoreAPI описывает операции API магазина, используемые сервисом корзины.
type StoreAPI interface {
	ActiveCart(ctx context.Context, token string) ([]model.CartLine, error)
	AddCartItem(ctx context.Context, token string, gameID int64) error
	RemoveCartItem(ctx context.Context, token string, gameID int64) error
}

// Session описывает доступ сервиса корзины к учётным данным сессии.
type Session interface {
	Token() string
	Invalidate()
	IsGuest(token string) bool
}

// Catalog описывает доступ к кэшу каталога для обогащения позиций.
type Catalog interface {
	Get(id int64) (model.Game, bool)
}

// Confirmer описывает внешний интерактивный шаг подтверждения удаления.
type Confirmer interface {
	Request(ctx context.Context, message string) (bool, error)
}

// Service реализует клиентскую логику корзины поверх API магазина и кэша каталога.
// Состояние корзины между операциями не кэшируется: сервер — единственный источник истины.
type Service struct {
	api     StoreAPI
	session Session
	catalog Catalog
	logger  *zap.Logger
}

// NewService создаёт сервис корзины.
func NewService(storeAPI StoreAPI, session Session, catalog Catalog, logger *zap.Logger) *Service {
	return &Service{
		api:     storeAPI,
		session: session,
		catalog: catalog,
		logger:  logger,
	}
}

// LoadActive загружает активную корзину и сверяет её позиции с каталогом.
// Без сессии возвращается пустая корзина без обращения к серверу.
// Позиции с неизвестным каталогу идентификатором отбрасываются.
func (s *Service) LoadActive(ctx context.Context) (model.CartView, error) {
	token := s.session.Token()
	if token == "" {
		return model.CartView{}, nil
	}

	lines, err := s.api.ActiveCart(ctx, token)
	if err != nil {
		return model.CartView{}, s.mapAuthError(err)
	}

	view := model.CartView{Items: make([]model.EnrichedLine, 0, len(lines))}
	for _, line := range lines {
		game, ok := s.catalog.Get(line.GameID)
		if !ok {
			s.logger.Warn("cart line dropped: game not in catalog",
				zap.Int64("gameID", line.GameID),
				zap.Int("quantity", line.Quantity),
			)
			continue
		}

		enriched := model.EnrichedLine{Game: game, Quantity: line.Quantity}
		view.Items = append(view.Items, enriched)
		view.TotalCents += enriched.SubtotalCents()
	}

	return view, nil
}

// ItemCount возвращает число различных позиций корзины для счётчика в шапке.
func (s *Service) ItemCount(ctx context.Context) (int, error) {
	token := s.session.Token()
	if token == "" {
		return 0, nil
	}

	lines, err := s.api.ActiveCart(ctx, token)
	if err != nil {
		return 0, s.mapAuthError(err)
	}

	return len(lines), nil
}

// Add добавляет одну единицу игры в корзину. После 401 сессия сбрасывается,
// повторная попытка не выполняется — решение об этом за вызывающей стороной.
func (s *Service) Add(ctx context.Context, gameID int64) error {
	token := s.session.Token()
	if token == "" {
		return ErrNotLoggedIn
	}

	if err := s.api.AddCartItem(ctx, token, gameID); err != nil {
		return s.mapAuthError(err)
	}

	return nil
}

// Remove удаляет игру из корзины после подтверждения пользователем и возвращает
// свежую корзину, перечитанную с сервера.
func (s *Service) Remove(ctx context.Context, gameID int64, confirm Confirmer) (model.CartView, error) {
	token := s.session.Token()
	if token == "" {
		return model.CartView{}, ErrNotLoggedIn
	}

	accepted, err := confirm.Request(ctx, removalPrompt(s.catalog, gameID))
	if err != nil {
		return model.CartView{}, err
	}
	if !accepted {
		return model.CartView{}, ErrRemovalDeclined
	}

	if err := s.api.RemoveCartItem(ctx, token, gameID); err != nil {
		return model.CartView{}, s.mapAuthError(err)
	}

	return s.LoadActive(ctx)
}

// Checkout запускает оформление заказа. Гостевая сессия при этом сбрасывается,
// как и в браузерной версии витрины; само оформление пока не реализовано.
func (s *Service) Checkout(ctx context.Context) error {
	token := s.session.Token()
	if token == "" {
		return ErrNotLoggedIn
	}

	if s.session.IsGuest(token) {
		s.session.Invalidate()
		return ErrGuestCheckout
	}

	return ErrCheckoutUnavailable
}

func (s *Service) mapAuthError(err error) error {
	if errors.Is(err, api.ErrUnauthorized) {
		s.session.Invalidate()
		return ErrSessionExpired
	}
	return err
}

func removalPrompt(catalog Catalog, gameID int64) string {
	name := fmt.Sprintf("jogo %d", gameID)
	if game, ok := catalog.Get(gameID); ok {
		name = game.Name
	}
	return fmt.Sprintf("Tem certeza que deseja remover o jogo %q do carrinho?", name)
}
