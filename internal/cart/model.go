package cart

// Line is one catalog item plus its chosen quantity. The display fields are
// copied from the catalog at add time so the cart stays renderable even if the
// menu changes later. JSON tags match the persisted payload format.
type Line struct {
	ItemID    string `json:"id"`
	Name      string `json:"name"`
	UnitPrice int    `json:"price"`
	Image     string `json:"image"`
	Veg       bool   `json:"veg"`
	Quantity  int    `json:"quantity"`
}

func (l Line) LineTotal() int {
	return l.UnitPrice * l.Quantity
}

// Totals is derived from the lines on every read and never stored.
type Totals struct {
	Subtotal    int `json:"subtotal"`
	GST         int `json:"gst"`
	DeliveryFee int `json:"deliveryFee"`
	Total       int `json:"total"`
}

// Snapshot is an immutable copy of the cart taken for the checkout handoff.
// Later mutations of the live cart do not affect it.
type Snapshot struct {
	Lines     []Line `json:"items"`
	Totals    Totals `json:"totals"`
	ItemCount int    `json:"itemCount"`
}

func (s Snapshot) Empty() bool {
	return len(s.Lines) == 0
}

// Pricing holds the parameters needed to derive totals from cart lines.
type Pricing struct {
	// GSTPercentage is a whole percentage (5 means 5%).
	GSTPercentage int
	// DeliveryFee is flat and applies only when the subtotal is positive.
	DeliveryFee int
}

// ComputeTotals derives totals per the pricing rules: gst is the rounded
// percentage of the subtotal, the delivery fee is waived for empty carts.
func ComputeTotals(lines []Line, p Pricing) Totals {
	subtotal := 0
	for _, l := range lines {
		subtotal += l.LineTotal()
	}

	// round half up, subtotal is never negative
	gst := (subtotal*p.GSTPercentage + 50) / 100

	deliveryFee := 0
	if subtotal > 0 {
		deliveryFee = p.DeliveryFee
	}

	return Totals{
		Subtotal:    subtotal,
		GST:         gst,
		DeliveryFee: deliveryFee,
		Total:       subtotal + gst + deliveryFee,
	}
}

// CountItems sums quantities across lines.
func CountItems(lines []Line) int {
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}
