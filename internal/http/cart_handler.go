package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bellavista/ordering-service/internal/cart"
	"github.com/bellavista/ordering-service/internal/catalog"
	"github.com/bellavista/ordering-service/internal/checkout"
)

// CartService is the cart store surface the handlers need.
type CartService interface {
	AddItem(ctx context.Context, sessionID string, item catalog.Item, quantity int) error
	RemoveItem(ctx context.Context, sessionID, itemID string) error
	UpdateQuantity(ctx context.Context, sessionID, itemID string, quantity int) error
	Clear(ctx context.Context, sessionID string) error
	Snapshot(ctx context.Context, sessionID string) cart.Snapshot
}

type CartHandler struct {
	store     CartService
	menu      MenuProvider
	snapshots checkout.SnapshotRepository
}

func NewCartHandler(store CartService, menu MenuProvider, snapshots checkout.SnapshotRepository) *CartHandler {
	return &CartHandler{store: store, menu: menu, snapshots: snapshots}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	writeJSON(w, http.StatusOK, h.store.Snapshot(ctx, SessionID(r.Context())))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ItemID   string `json:"itemId"`
		Quantity int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if body.ItemID == "" {
		writeError(w, http.StatusBadRequest, "missing itemId")
		return
	}

	item, ok := h.menu.ItemByID(body.ItemID)
	if !ok {
		writeError(w, http.StatusNotFound, "menu item not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	sessionID := SessionID(r.Context())
	if err := h.store.AddItem(ctx, sessionID, item, body.Quantity); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save cart")
		return
	}

	writeJSON(w, http.StatusOK, h.store.Snapshot(ctx, sessionID))
}

func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemId")
	if itemID == "" {
		writeError(w, http.StatusBadRequest, "missing itemId")
		return
	}

	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	sessionID := SessionID(r.Context())
	if err := h.store.UpdateQuantity(ctx, sessionID, itemID, body.Quantity); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save cart")
		return
	}

	writeJSON(w, http.StatusOK, h.store.Snapshot(ctx, sessionID))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemId")
	if itemID == "" {
		writeError(w, http.StatusBadRequest, "missing itemId")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	sessionID := SessionID(r.Context())
	if err := h.store.RemoveItem(ctx, sessionID, itemID); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save cart")
		return
	}

	writeJSON(w, http.StatusOK, h.store.Snapshot(ctx, sessionID))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.store.Clear(ctx, SessionID(r.Context())); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to clear cart")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "cart cleared"})
}

// Checkout writes the session's checkout snapshot, the immutable handoff the
// checkout page works from.
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	sessionID := SessionID(r.Context())
	snap := h.store.Snapshot(ctx, sessionID)
	if snap.Empty() {
		writeError(w, http.StatusConflict, "cart is empty")
		return
	}

	if err := h.snapshots.Save(ctx, sessionID, snap); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to start checkout")
		return
	}

	writeJSON(w, http.StatusOK, snap)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
