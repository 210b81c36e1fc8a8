package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/bellavista/ordering-service/internal/checkout"
)

type CheckoutHandler struct {
	snapshots  checkout.SnapshotRepository
	cart       checkout.CartClearer
	dispatcher checkout.Dispatcher
	publisher  checkout.OrderPublisher
	msgCfg     checkout.MessageConfig
	delay      time.Duration
	logger     *log.Logger
}

func NewCheckoutHandler(
	snapshots checkout.SnapshotRepository,
	cart checkout.CartClearer,
	dispatcher checkout.Dispatcher,
	publisher checkout.OrderPublisher,
	msgCfg checkout.MessageConfig,
	delay time.Duration,
	logger *log.Logger,
) *CheckoutHandler {
	return &CheckoutHandler{
		snapshots:  snapshots,
		cart:       cart,
		dispatcher: dispatcher,
		publisher:  publisher,
		msgCfg:     msgCfg,
		delay:      delay,
		logger:     logger,
	}
}

func (h *CheckoutHandler) newFlow() *checkout.Flow {
	return checkout.NewFlow(checkout.FlowDeps{
		Snapshots:         h.snapshots,
		Cart:              h.cart,
		Dispatcher:        h.dispatcher,
		Publisher:         h.publisher,
		Message:           h.msgCfg,
		Logger:            h.logger,
		PostDispatchDelay: h.delay,
	})
}

// GetCheckout returns the snapshot the checkout page renders read-only.
// 410 tells the client the handoff is gone and to go back to the menu.
func (h *CheckoutHandler) GetCheckout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	flow := h.newFlow()
	if err := flow.Load(ctx, SessionID(r.Context())); err != nil {
		if errors.Is(err, checkout.ErrMissingSnapshot) {
			writeMissingSnapshot(w)
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load checkout")
		return
	}

	writeJSON(w, http.StatusOK, flow.Snapshot())
}

func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var info checkout.CustomerInfo
	if err := json.NewDecoder(r.Body).Decode(&info); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	// includes the cooperative post-dispatch delay
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	flow := h.newFlow()
	if err := flow.Load(ctx, SessionID(r.Context())); err != nil {
		if errors.Is(err, checkout.ErrMissingSnapshot) {
			writeMissingSnapshot(w)
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load checkout")
		return
	}

	o, err := flow.Submit(ctx, info)
	if err != nil {
		var verr *checkout.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
				"error": verr.Message,
				"field": verr.Field,
			})
			return
		}
		var derr *checkout.DispatchError
		if errors.As(err, &derr) {
			h.logger.Printf("order dispatch: %v", derr)
			writeError(w, http.StatusBadGateway, "there was an error placing your order, please try again")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to submit order")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"orderId":     o.ID,
		"whatsappUrl": o.DispatchURL,
		"total":       o.Snapshot.Totals.Total,
	})
}

func writeMissingSnapshot(w http.ResponseWriter) {
	writeJSON(w, http.StatusGone, map[string]string{
		"error":    "your cart is empty, please add items to your cart first",
		"redirect": "/api/menu",
	})
}
