package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNameRequired  = errors.New("product name is required")
	ErrNegativePrice = errors.New("product price must not be negative")
	ErrNegativeStock = errors.New("product stock must not be negative")
)

// Product is a catalog entry.
type Product struct {
	ID          int64
	Name        string
	Price       decimal.Decimal
	Stock       int32
	Category    string
	Description string
	ImageURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Attributes is the mutable part of a product as supplied by an admin.
type Attributes struct {
	Name        string
	Price       decimal.Decimal
	Stock       int32
	Category    string
	Description string
	ImageURL    string
}

// NewProduct builds a validated product.
func NewProduct(attrs Attributes) (*Product, error) {
	p := &Product{}
	if err := p.Apply(attrs); err != nil {
		return nil, err
	}
	return p, nil
}

// Apply replaces the product's attributes after validating them.
func (p *Product) Apply(attrs Attributes) error {
	attrs.Name = strings.TrimSpace(attrs.Name)
	if attrs.Name == "" {
		return ErrNameRequired
	}
	if attrs.Price.IsNegative() {
		return ErrNegativePrice
	}
	if attrs.Stock < 0 {
		return ErrNegativeStock
	}
	p.Name = attrs.Name
	p.Price = attrs.Price.Round(2)
	p.Stock = attrs.Stock
	p.Category = strings.TrimSpace(attrs.Category)
	p.Description = strings.TrimSpace(attrs.Description)
	p.ImageURL = strings.TrimSpace(attrs.ImageURL)
	return nil
}

// InStock reports whether qty units can be taken from the product.
func (p *Product) InStock(qty int32) bool {
	return qty > 0 && p.Stock >= qty
}

// ErrInsufficientStock is returned when a stock decrement would go below zero.
var ErrInsufficientStock = errors.New("insufficient stock")

// Take removes qty units from stock, refusing to go negative.
func (p *Product) Take(qty int32) error {
	if !p.InStock(qty) {
		return ErrInsufficientStock
	}
	p.Stock -= qty
	return nil
}
