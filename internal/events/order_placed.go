package events

import (
	"time"

	"github.com/bellavista/ordering-service/internal/checkout"
)

const EventTypeOrderPlaced = "OrderPlaced"

// OrderPlaced is emitted after an order has been handed to the messaging
// channel. It is the only trace of an order that leaves the process; orders
// themselves are never stored.
type OrderPlaced struct {
	EventType     string      `json:"eventType"`
	OrderID       string      `json:"orderId"`
	SessionID     string      `json:"sessionId"`
	CustomerName  string      `json:"customerName"`
	CustomerPhone string      `json:"customerPhone"`
	OrderType     string      `json:"orderType"`
	Items         []OrderItem `json:"items"`
	Subtotal      int         `json:"subtotal"`
	GST           int         `json:"gst"`
	DeliveryFee   int         `json:"deliveryFee"`
	Total         int         `json:"total"`
	Timestamp     time.Time   `json:"timestamp"`
}

type OrderItem struct {
	ItemID    string `json:"itemId"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int    `json:"unitPrice"`
	Veg       bool   `json:"veg"`
}

func newOrderPlaced(o *checkout.Order) OrderPlaced {
	ev := OrderPlaced{
		EventType:     EventTypeOrderPlaced,
		OrderID:       o.ID,
		SessionID:     o.SessionID,
		CustomerName:  o.Customer.Name,
		CustomerPhone: o.Customer.Phone,
		OrderType:     string(o.Customer.OrderType),
		Subtotal:      o.Snapshot.Totals.Subtotal,
		GST:           o.Snapshot.Totals.GST,
		DeliveryFee:   o.Snapshot.Totals.DeliveryFee,
		Total:         o.Snapshot.Totals.Total,
		Timestamp:     o.PlacedAt.UTC(),
	}
	for _, l := range o.Snapshot.Lines {
		ev.Items = append(ev.Items, OrderItem{
			ItemID:    l.ItemID,
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Veg:       l.Veg,
		})
	}
	return ev
}
