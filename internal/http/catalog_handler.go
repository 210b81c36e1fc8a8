package http

import (
	"net/http"

	"github.com/bellavista/ordering-service/internal/catalog"
)

// MenuProvider is the read-only catalog surface the handlers need.
type MenuProvider interface {
	Categories() []catalog.Category
	Items() []catalog.Item
	ItemByID(id string) (catalog.Item, bool)
	Filter(category, query string) []catalog.Item
}

// RestaurantInfo is the static branding and ordering-policy block rendered on
// the storefront.
type RestaurantInfo struct {
	Name          string `json:"name"`
	Tagline       string `json:"tagline"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Address       string `json:"address"`
	GSTPercentage int    `json:"gstPercentage"`
	DeliveryFee   int    `json:"deliveryFee"`
	MinimumOrder  int    `json:"minimumOrder"`
}

type CatalogHandler struct {
	menu MenuProvider
	info RestaurantInfo
}

func NewCatalogHandler(menu MenuProvider, info RestaurantInfo) *CatalogHandler {
	return &CatalogHandler{menu: menu, info: info}
}

func (h *CatalogHandler) GetRestaurant(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.info)
}

func (h *CatalogHandler) GetMenu(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"categories": h.menu.Categories(),
		"items":      h.menu.Items(),
	})
}

func (h *CatalogHandler) GetItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items := h.menu.Filter(q.Get("category"), q.Get("q"))
	if items == nil {
		items = []catalog.Item{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}
