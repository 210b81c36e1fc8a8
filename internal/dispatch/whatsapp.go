// Package dispatch hands completed orders to the external messaging channel.
// The handoff is fire-and-forget: a deep link is built for the customer's
// browser to open, and no delivery confirmation is possible.
package dispatch

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

const waBaseURL = "https://wa.me/"

// WhatsApp builds wa.me deep links carrying the pre-filled order message.
type WhatsApp struct {
	number string
}

// NewWhatsApp validates the destination number: digits only, country code
// included, no + or 0 prefix.
func NewWhatsApp(number string) (*WhatsApp, error) {
	if number == "" {
		return nil, fmt.Errorf("whatsapp number is required")
	}
	for _, r := range number {
		if r < '0' || r > '9' {
			return nil, fmt.Errorf("whatsapp number must contain digits only, got %q", number)
		}
	}
	return &WhatsApp{number: number}, nil
}

func (w *WhatsApp) Dispatch(ctx context.Context, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", fmt.Errorf("empty order message")
	}
	return waBaseURL + w.number + "?text=" + encodeMessage(message), nil
}

// encodeMessage percent-encodes the message for the text query parameter.
// QueryEscape's plus signs are rewritten because wa.me renders them literally.
func encodeMessage(message string) string {
	return strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
}
