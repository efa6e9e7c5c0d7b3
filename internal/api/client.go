// Package api предоставляет клиент для удалённого REST API магазина игр.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/avjd/storefront/internal/model"
)

// Client инкапсулирует HTTP-взаимодействие с API магазина игр.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт HTTP-клиент для обращения к API магазина по указанному адресу.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"senha"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type gameWire struct {
	ID          int64   `json:"id"`
	Name        string  `json:"nome"`
	Description string  `json:"descricao"`
	Price       float64 `json:"preco"`
	Year        int     `json:"ano"`
	ImageURL    string  `json:"imagemUrl"`
}

type cartWire struct {
	Cart struct {
		Items []struct {
			GameID   int64 `json:"fkJogo"`
			Quantity int   `json:"quantidade"`
		} `json:"itens"`
	} `json:"carrinho"`
}

type addItemRequest struct {
	GameID   int64 `json:"jogoId"`
	Quantity int   `json:"quantidade"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Login выполняет вход по почте и паролю и возвращает bearer-токен сессии.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body, err := json.Marshal(loginRequest{Email: email, Password: password})
	if err != nil {
		return "", fmt.Errorf("marshal login request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/auth/login", "", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return "", err
	}

	var result loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode login response: %w", err)
	}
	if result.Token == "" {
		return "", fmt.Errorf("login succeeded but no token returned")
	}

	return result.Token, nil
}

// Games запрашивает полный каталог игр. Порядок элементов сохраняется как в ответе сервера.
func (c *Client) Games(ctx context.Context, token string) ([]model.Game, error) {
	resp, err := c.do(ctx, http.MethodGet, "/jogos", token, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var wire []gameWire
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("decode games response: %w", err)
	}

	games := make([]model.Game, 0, len(wire))
	for _, g := range wire {
		games = append(games, model.Game{
			ID:          g.ID,
			Name:        g.Name,
			Description: g.Description,
			PriceCents:  model.CentsFromReais(g.Price),
			Year:        g.Year,
			ImageURL:    g.ImageURL,
		})
	}

	return games, nil
}

// ActiveCart запрашивает сырые позиции активной корзины пользователя.
func (c *Client) ActiveCart(ctx context.Context, token string) ([]model.CartLine, error) {
	resp, err := c.do(ctx, http.MethodGet, "/carrinho/ativo", token, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var wire cartWire
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("decode cart response: %w", err)
	}

	lines := make([]model.CartLine, 0, len(wire.Cart.Items))
	for _, item := range wire.Cart.Items {
		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}
		lines = append(lines, model.CartLine{GameID: item.GameID, Quantity: qty})
	}

	return lines, nil
}

// AddCartItem добавляет одну единицу игры в активную корзину.
func (c *Client) AddCartItem(ctx context.Context, token string, gameID int64) error {
	body, err := json.Marshal(addItemRequest{GameID: gameID, Quantity: 1})
	if err != nil {
		return fmt.Errorf("marshal add request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/carrinho/add", token, bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return checkStatus(resp)
}

// RemoveCartItem удаляет игру из активной корзины.
func (c *Client) RemoveCartItem(ctx context.Context, token string, gameID int64) error {
	resp, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/carrinho/%d", gameID), token, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return checkStatus(resp)
}

func (c *Client) do(ctx context.Context, method, path, token string, body io.Reader) (*http.Response, error) {
	if c == nil || c.baseURL == "" {
		return nil, fmt.Errorf("store api client not configured")
	}

	base := c.baseURL
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}

	req, err := http.NewRequestWithContext(ctx, method, base+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnreachable, err)
	}

	return resp, nil
}

// checkStatus переводит не-2xx ответы в ошибки таксономии клиента. Тело ответа при этом вычитывается.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("%w: status %d", ErrUnauthorized, resp.StatusCode)
	}

	var msg messageResponse
	if data, err := io.ReadAll(resp.Body); err == nil {
		_ = json.Unmarshal(data, &msg)
	}

	return &StatusError{Code: resp.StatusCode, Message: msg.Message}
}
