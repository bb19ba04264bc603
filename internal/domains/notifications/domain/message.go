package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrMissingRecipient = errors.New("recipient email is required")
	ErrNoLines          = errors.New("receipt has no lines")
)

// PlaceholderName is shown for products that no longer resolve.
const PlaceholderName = "—"

// Customer is the contact the receipt is addressed to.
type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Line is one product on a receipt.
type Line struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int32           `json:"quantity"`
}

// Subtotal returns price × quantity rounded to two places.
func (l Line) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt32(l.Quantity)).Round(2)
}

// Receipt is everything needed to render an order receipt. It is serialised
// into workflow and queue payloads, hence the JSON tags.
type Receipt struct {
	OrderID         int64           `json:"orderId"`
	Customer        Customer        `json:"customer"`
	Lines           []Line          `json:"lines"`
	Total           decimal.Decimal `json:"total"`
	PlacedAt        time.Time       `json:"placedAt"`
	ShippingAddress string          `json:"shippingAddress,omitempty"`
	Comment         string          `json:"comment,omitempty"`
}

// Validate checks the receipt can be delivered.
func (r Receipt) Validate() error {
	if strings.TrimSpace(r.Customer.Email) == "" {
		return ErrMissingRecipient
	}
	if len(r.Lines) == 0 {
		return ErrNoLines
	}
	return nil
}

// Confirmation tells a customer their account was approved.
type Confirmation struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Validate checks the confirmation can be delivered.
func (c Confirmation) Validate() error {
	if strings.TrimSpace(c.Email) == "" {
		return ErrMissingRecipient
	}
	return nil
}

// Message is a rendered email ready for a mailer.
type Message struct {
	To      string
	Subject string
	HTML    string
}
