// Package main запускает HTTP-шлюз витрины игрового магазина.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/avjd/storefront/internal/api"
	"github.com/avjd/storefront/internal/cart"
	"github.com/avjd/storefront/internal/catalog"
	"github.com/avjd/storefront/internal/config"
	"github.com/avjd/storefront/internal/confirm"
	"github.com/avjd/storefront/internal/handler"
	"github.com/avjd/storefront/internal/search"
	"github.com/avjd/storefront/internal/session"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	store, err := session.Open(cfg.SessionDBPath)
	if err != nil {
		sugar.Fatalw("session store initialization error", "error", err.Error())
	}
	defer store.Close()

	client := api.NewClient(cfg.StoreAPIAddress)
	manager := session.NewManager(store, client, cfg.GuestEmail, cfg.GuestPassword, logger)
	cache := catalog.NewCache(client)
	cartSvc := cart.NewService(client, manager, cache, logger)
	gate := confirm.NewGate()

	snapshot := handler.NewSearchSnapshot()
	searchCtrl := search.NewController(cache, snapshot, cfg.SearchDebounce)
	defer searchCtrl.Close()

	h := handler.NewHandler(cartSvc, manager, cache, searchCtrl, gate, snapshot, logger)

	r := h.SetupRouter()

	server := &http.Server{
		Addr:    cfg.RunAddress,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	startup(ctx, sugar, manager, cache, cartSvc)
	searchCtrl.Reset()

	g, ctx := errgroup.WithContext(ctx)

	// Фоновое обновление снимка каталога
	g.Go(func() error {
		refreshLoop(ctx, sugar, manager, cache, cfg.CatalogRefresh)
		return nil
	})

	// Запуск HTTP-сервера
	g.Go(func() error {
		sugar.Infow("starting storefront gateway", "addr", cfg.RunAddress, "store", cfg.StoreAPIAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown при отмене контекста (сигнал или ошибка в другой горутине)
	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		sugar.Info("server stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}

// startup поднимает сессию и первично наполняет каталог. Недоступность
// магазина на старте не фатальна: шлюз поднимется с пустым каталогом,
// а фоновый цикл обновления наполнит его позже.
func startup(ctx context.Context, sugar *zap.SugaredLogger, manager *session.Manager, cache *catalog.Cache, cartSvc *cart.Service) {
	if err := manager.EnsureSession(ctx); err != nil {
		sugar.Warnw("guest session unavailable at startup", "error", err.Error())
		return
	}

	if err := cache.Refresh(ctx, manager.Token()); err != nil {
		sugar.Warnw("initial catalog refresh failed", "error", err.Error())
		return
	}

	sugar.Infow("catalog loaded", "games", cache.Len())

	count, err := cartSvc.ItemCount(ctx)
	if err != nil {
		sugar.Warnw("initial cart count unavailable", "error", err.Error())
		return
	}
	sugar.Infow("active cart loaded", "items", count)
}

// refreshLoop периодически обновляет снимок каталога. Просроченный токен
// сбрасывается, и перед следующей попыткой выполняется гостевой вход.
func refreshLoop(ctx context.Context, sugar *zap.SugaredLogger, manager *session.Manager, cache *catalog.Cache, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if err := manager.EnsureSession(ctx); err != nil {
			sugar.Warnw("session unavailable, skipping catalog refresh", "error", err.Error())
			continue
		}

		if err := cache.Refresh(ctx, manager.Token()); err != nil {
			if errors.Is(err, api.ErrUnauthorized) {
				manager.Invalidate()
			}
			sugar.Warnw("catalog refresh failed", "error", err.Error())
			continue
		}

		sugar.Debugw("catalog refreshed", "games", cache.Len())
	}
}
