package checkout

import (
	"fmt"
	"regexp"
	"strings"
)

type OrderType string

const (
	OrderTypeDelivery OrderType = "delivery"
	OrderTypeTakeaway OrderType = "takeaway"
)

// CustomerInfo is the checkout form input.
type CustomerInfo struct {
	Name                string    `json:"name"`
	Phone               string    `json:"phone"`
	OrderType           OrderType `json:"orderType"`
	DeliveryAddress     string    `json:"deliveryAddress"`
	SpecialInstructions string    `json:"specialInstructions"`
	TermsAccepted       bool      `json:"termsAccepted"`
}

// ValidationError is a recoverable user-input problem. It keeps the flow in
// AwaitingInput and mutates nothing.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var (
	nonDigits   = regexp.MustCompile(`\D`)
	mobileDigit = regexp.MustCompile(`^[6-9]\d{9}$`)
)

// validPhone checks the 10-digit Indian mobile format after stripping every
// non-digit character: exactly ten digits, first one 6-9.
func validPhone(phone string) bool {
	return mobileDigit.MatchString(nonDigits.ReplaceAllString(phone, ""))
}

// Validate checks the form in the same order the checkout page does:
// name, phone, address for delivery orders, then terms acceptance.
func (c CustomerInfo) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return &ValidationError{Field: "name", Message: "please enter your full name"}
	}
	if !validPhone(strings.TrimSpace(c.Phone)) {
		return &ValidationError{Field: "phone", Message: "please enter a valid phone number"}
	}
	switch c.OrderType {
	case OrderTypeDelivery:
		if strings.TrimSpace(c.DeliveryAddress) == "" {
			return &ValidationError{Field: "deliveryAddress", Message: "please enter your delivery address"}
		}
	case OrderTypeTakeaway:
	default:
		return &ValidationError{Field: "orderType", Message: "order type must be delivery or takeaway"}
	}
	if !c.TermsAccepted {
		return &ValidationError{Field: "termsAccepted", Message: "please accept the terms and conditions"}
	}
	return nil
}
