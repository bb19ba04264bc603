package mapper

import (
	"time"

	"github.com/shopspring/decimal"

	catalogdomain "github.com/Apurer/storefront-api/internal/domains/catalog/domain"
)

// ProductInput is the admin payload for creating or editing a product.
type ProductInput struct {
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	ImageURL    string          `json:"image_url"`
	Stock       *int32          `json:"stock"`
}

// Product is the transport shape of a catalog entry. Prices are rendered as
// fixed two-decimal strings.
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Price       string    `json:"price"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	Stock       int32     `json:"stock"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToAttributes converts the payload; a missing stock means zero.
func ToAttributes(in ProductInput) catalogdomain.Attributes {
	var stock int32
	if in.Stock != nil {
		stock = *in.Stock
	}
	return catalogdomain.Attributes{
		Name:        in.Name,
		Price:       in.Price,
		Stock:       stock,
		Category:    in.Category,
		Description: in.Description,
		ImageURL:    in.ImageURL,
	}
}

// FromDomainProduct converts a domain product to its transport representation.
func FromDomainProduct(p *catalogdomain.Product) Product {
	if p == nil {
		return Product{}
	}
	return Product{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price.StringFixed(2),
		Category:    p.Category,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		Stock:       p.Stock,
		CreatedAt:   p.CreatedAt,
	}
}

// FromDomainProducts converts a slice, never returning nil.
func FromDomainProducts(products []*catalogdomain.Product) []Product {
	result := make([]Product, 0, len(products))
	for _, p := range products {
		result = append(result, FromDomainProduct(p))
	}
	return result
}
