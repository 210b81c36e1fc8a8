package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bellavista/ordering-service/internal/catalog"
)

func TestGetRestaurant(t *testing.T) {
	h := NewCatalogHandler(menuWithPizza(), RestaurantInfo{
		Name: "Bella Vista Restaurant", GSTPercentage: 5, DeliveryFee: 50, MinimumOrder: 200,
	})
	w := httptest.NewRecorder()

	h.GetRestaurant(w, httptest.NewRequest(http.MethodGet, "/api/restaurant", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var info RestaurantInfo
	require.NoError(t, json.NewDecoder(w.Body).Decode(&info))
	require.Equal(t, "Bella Vista Restaurant", info.Name)
	require.Equal(t, 200, info.MinimumOrder)
}

func TestGetItemsNeverReturnsNull(t *testing.T) {
	h := NewCatalogHandler(&fakeMenu{items: map[string]catalog.Item{}}, RestaurantInfo{})
	w := httptest.NewRecorder()

	h.GetItems(w, httptest.NewRequest(http.MethodGet, "/api/menu/items?category=desserts", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Items []catalog.Item `json:"items"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.NotNil(t, resp.Items)
	require.Empty(t, resp.Items)
}
