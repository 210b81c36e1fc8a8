package checkout

import (
	"fmt"
	"strings"
	"time"
)

// MessageConfig carries the restaurant details that appear in the order
// message sent to the owner.
type MessageConfig struct {
	RestaurantName string
	GSTPercentage  int
	Phone          string
	Email          string
}

// newOrderID builds an order identifier of the form OD-YYYYMMDD-NNN with a
// zero-padded random 3-digit suffix. It is not globally unique; collisions
// under concurrent submissions are accepted for this fire-and-forget channel.
func newOrderID(now time.Time, randInt func(n int) int) string {
	return fmt.Sprintf("OD-%s-%03d", now.Format("20060102"), randInt(1000))
}

// FormatMessage renders the confirmed order as the WhatsApp text message:
// header, order id and timestamp, customer block, itemized lines with a
// Non-Veg annotation, totals breakdown, and the restaurant contact block.
// The result is plain text; URL encoding is the dispatcher's concern.
func FormatMessage(o *Order, cfg MessageConfig) string {
	var b strings.Builder

	fmt.Fprintf(&b, "*🔔 NEW ORDER - %s*\n\n", cfg.RestaurantName)
	fmt.Fprintf(&b, "*Order ID:* %s\n", o.ID)
	fmt.Fprintf(&b, "*Date:* %s\n\n", o.PlacedAt.Format("2 Jan 2006, 3:04 PM"))

	b.WriteString("*👤 Customer Details:*\n")
	fmt.Fprintf(&b, "Name: %s\n", o.Customer.Name)
	fmt.Fprintf(&b, "Phone: %s\n", o.Customer.Phone)
	if o.Customer.OrderType == OrderTypeDelivery {
		b.WriteString("Order Type: 🚚 Delivery\n")
		fmt.Fprintf(&b, "Address: %s\n", o.Customer.DeliveryAddress)
	} else {
		b.WriteString("Order Type: 🏪 Takeaway\n")
	}
	if o.Customer.SpecialInstructions != "" {
		fmt.Fprintf(&b, "Special Instructions: %s\n", o.Customer.SpecialInstructions)
	}

	b.WriteString("\n*📋 Order Items:*\n")
	for i, line := range o.Snapshot.Lines {
		fmt.Fprintf(&b, "%d. *%s*", i+1, line.Name)
		if !line.Veg {
			b.WriteString(" (Non-Veg)")
		}
		fmt.Fprintf(&b, "\n   Quantity: %d × ₹%d = ₹%d\n\n", line.Quantity, line.UnitPrice, line.LineTotal())
	}

	totals := o.Snapshot.Totals
	b.WriteString("*💰 Order Summary:*\n")
	fmt.Fprintf(&b, "Subtotal: ₹%d\n", totals.Subtotal)
	fmt.Fprintf(&b, "GST (%d%%): ₹%d\n", cfg.GSTPercentage, totals.GST)
	fmt.Fprintf(&b, "Delivery Fee: ₹%d\n", totals.DeliveryFee)
	fmt.Fprintf(&b, "*Total Amount: ₹%d*\n\n", totals.Total)

	b.WriteString("*📞 Contact:*\n")
	fmt.Fprintf(&b, "Restaurant: %s\n", cfg.Phone)
	fmt.Fprintf(&b, "Email: %s\n\n", cfg.Email)

	b.WriteString("*Please confirm this order. Thank you! 🍕*")

	return b.String()
}
