package session

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Authenticator описывает операцию входа в API магазина, используемую менеджером сессии.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (string, error)
}

// Manager управляет жизненным циклом учётных данных: гостевой вход, личный вход,
// выход и инвалидация после 401 от API магазина.
type Manager struct {
	store         *Store
	auth          Authenticator
	guestEmail    string
	guestPassword string
	logger        *zap.Logger

	mu sync.Mutex
	// Токен гостевой сессии текущего процесса. После перезапуска сохранённый
	// гостевой токен неотличим от личного, пока не выполнен новый гостевой вход.
	guestToken string
}

// NewManager создаёт менеджер сессии с указанным хранилищем и клиентом API.
func NewManager(store *Store, auth Authenticator, guestEmail, guestPassword string, logger *zap.Logger) *Manager {
	return &Manager{
		store:         store,
		auth:          auth,
		guestEmail:    guestEmail,
		guestPassword: guestPassword,
		logger:        logger,
	}
}

// Token возвращает текущий токен сессии или пустую строку, если сессии нет.
func (m *Manager) Token() string {
	token, err := m.store.Token()
	if err != nil {
		m.logger.Error("read session token", zap.Error(err))
		return ""
	}
	return token
}

// EnsureSession гарантирует наличие токена: существующий токен сохраняется,
// иначе выполняется гостевой вход с преднастроенными учётными данными.
func (m *Manager) EnsureSession(ctx context.Context) error {
	if m.Token() != "" {
		return nil
	}

	token, err := m.auth.Login(ctx, m.guestEmail, m.guestPassword)
	if err != nil {
		return fmt.Errorf("guest login: %w", err)
	}

	if err := m.store.Save(token, DefaultDisplayName); err != nil {
		return err
	}

	m.mu.Lock()
	m.guestToken = token
	m.mu.Unlock()

	m.logger.Info("guest session established")
	return nil
}

// Login выполняет личный вход пользователя и сохраняет токен с именем.
func (m *Manager) Login(ctx context.Context, email, password, name string) error {
	token, err := m.auth.Login(ctx, email, password)
	if err != nil {
		return err
	}

	if name == "" {
		name = DefaultDisplayName
	}

	return m.store.Save(token, name)
}

// Logout очищает сохранённую сессию.
func (m *Manager) Logout() error {
	return m.store.Clear()
}

// Invalidate сбрасывает сессию после отказа в авторизации от API магазина.
func (m *Manager) Invalidate() {
	if err := m.store.Clear(); err != nil {
		m.logger.Error("clear session after authorization rejection", zap.Error(err))
		return
	}
	m.logger.Info("session invalidated")
}

// IsGuest сообщает, является ли токен гостевым токеном текущего процесса.
func (m *Manager) IsGuest(token string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return token != "" && token == m.guestToken
}

// Status возвращает состояние сессии для отображения: вход выполнен, имя, гостевой ли токен.
func (m *Manager) Status() (loggedIn bool, name string, guest bool) {
	token := m.Token()
	if token == "" {
		return false, DefaultDisplayName, false
	}

	displayName, err := m.store.DisplayName()
	if err != nil {
		m.logger.Error("read display name", zap.Error(err))
		displayName = DefaultDisplayName
	}

	return true, displayName, m.IsGuest(token)
}
