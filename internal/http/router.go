package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(catalogH *CatalogHandler, cartH *CartHandler, checkoutH *CheckoutHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Get("/restaurant", catalogH.GetRestaurant)
		r.Get("/menu", catalogH.GetMenu)
		r.Get("/menu/items", catalogH.GetItems)

		r.Group(func(r chi.Router) {
			r.Use(SessionMiddleware)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartH.GetCart)
				r.Delete("/", cartH.ClearCart)
				r.Post("/items", cartH.AddItem)
				r.Put("/items/{itemId}", cartH.UpdateItem)
				r.Delete("/items/{itemId}", cartH.RemoveItem)
				r.Post("/checkout", cartH.Checkout)
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Get("/", checkoutH.GetCheckout)
				r.Post("/submit", checkoutH.Submit)
			})
		})
	})

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok", "service": "ordering-service"})
}
