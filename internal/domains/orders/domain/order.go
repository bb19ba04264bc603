package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Status enumerates the delivery states an order can be in.
type Status string

const (
	StatusPending   Status = "pending"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// CurrencyPlaces is the precision totals are rounded to.
const CurrencyPlaces = 2

var (
	ErrEmptyCart        = errors.New("cart must contain at least one item")
	ErrInvalidProductID = errors.New("product id must be greater than zero")
	ErrInvalidQuantity  = errors.New("quantity must be greater than zero")
	ErrNegativePrice    = errors.New("price must not be negative")
	ErrInvalidStatus    = errors.New("delivery status is invalid")
	ErrMissingUser      = errors.New("user id is required")
)

// ParseStatus trims and validates a delivery status against the closed set.
func ParseStatus(raw string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(raw)))
	if !status.Valid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// Valid reports whether the status belongs to the recognised set.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}

// ContactInfo is the checkout form data attached to an order.
type ContactInfo struct {
	Name    string
	Address string
	Phone   string
	Comment string
}

// CartItem is a single product/quantity pair submitted at checkout.
// Price is the unit price echoed by the client (or re-derived from the catalog).
type CartItem struct {
	ProductID int64
	Price     decimal.Decimal
	Quantity  int32
}

// Subtotal returns price × quantity.
func (i CartItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt32(i.Quantity))
}

// Cart is the checkout request for a single user.
type Cart struct {
	UserID  int64
	Items   []CartItem
	Contact ContactInfo
	// IdempotencyKey is the client-supplied retry key; empty disables replay.
	IdempotencyKey string
}

// Validate enforces cart invariants. The user id is checked separately so
// that callers can reject anonymous checkouts before anything else.
func (c Cart) Validate() error {
	if len(c.Items) == 0 {
		return ErrEmptyCart
	}
	for _, item := range c.Items {
		if item.ProductID <= 0 {
			return ErrInvalidProductID
		}
		if item.Quantity <= 0 {
			return ErrInvalidQuantity
		}
		if item.Price.IsNegative() {
			return ErrNegativePrice
		}
	}
	return nil
}

// ProductIDs returns the distinct product ids in cart order.
func (c Cart) ProductIDs() []int64 {
	seen := make(map[int64]struct{}, len(c.Items))
	ids := make([]int64, 0, len(c.Items))
	for _, item := range c.Items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}

// Total sums price × quantity over the items and rounds to currency precision.
func Total(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total.Round(CurrencyPlaces)
}

// LineItem is a persisted product/quantity pair owned by an order.
type LineItem struct {
	ProductID int64
	Quantity  int32
	UnitPrice decimal.Decimal
}

// Order is the order header plus its line items.
type Order struct {
	ID         int64
	UserID     int64
	TotalPrice decimal.Decimal
	CreatedAt  time.Time
	Status     Status
	Contact    ContactInfo
	Items      []LineItem
}

// NewOrder builds an order aggregate from a validated cart. The total is
// computed once here and never recomputed.
func NewOrder(cart Cart, now time.Time) (*Order, error) {
	if cart.UserID <= 0 {
		return nil, ErrMissingUser
	}
	if err := cart.Validate(); err != nil {
		return nil, err
	}
	items := make([]LineItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, LineItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.Price,
		})
	}
	return &Order{
		UserID:     cart.UserID,
		TotalPrice: Total(cart.Items),
		CreatedAt:  now.UTC(),
		Status:     StatusPending,
		Contact:    trimContact(cart.Contact),
		Items:      items,
	}, nil
}

// Quantities returns the ordered quantity per product, summing repeated lines.
func (o *Order) Quantities() map[int64]int32 {
	result := make(map[int64]int32, len(o.Items))
	for _, item := range o.Items {
		result[item.ProductID] += item.Quantity
	}
	return result
}

func trimContact(c ContactInfo) ContactInfo {
	return ContactInfo{
		Name:    strings.TrimSpace(c.Name),
		Address: strings.TrimSpace(c.Address),
		Phone:   strings.TrimSpace(c.Phone),
		Comment: strings.TrimSpace(c.Comment),
	}
}
