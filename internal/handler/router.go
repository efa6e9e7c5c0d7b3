package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	custommiddleware "github.com/avjd/storefront/internal/middleware"
)

// SetupRouter настраивает HTTP-маршруты и middleware шлюза витрины.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(custommiddleware.GzipMiddleware)
	r.Use(custommiddleware.Logger(h.logger))

	r.Route("/api", func(r chi.Router) {
		r.Get("/session", h.GetSession)
		r.Post("/session/login", h.Login)
		r.Post("/session/logout", h.Logout)

		r.Get("/dashboard", h.GetDashboard)
		r.Get("/games", h.GetGames)

		r.Post("/search/input", h.SearchInput)
		r.Post("/search/submit", h.SearchSubmit)
		r.Get("/search/state", h.SearchState)

		r.Get("/cart", h.GetCart)
		r.Get("/cart/count", h.GetCartCount)
		r.Post("/cart", h.AddToCart)
		r.Delete("/cart/{gameID}", h.RemoveFromCart)

		r.Get("/confirmation", h.GetConfirmation)
		r.Post("/confirmation", h.ResolveConfirmation)

		r.Post("/checkout", h.Checkout)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	return r
}
