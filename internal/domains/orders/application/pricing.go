package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/Apurer/storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/storefront-api/internal/domains/orders/ports"
)

// PricingPolicy decides where unit prices come from at checkout.
type PricingPolicy string

const (
	// PricingClient uses the price echoed by the client.
	PricingClient PricingPolicy = "client"
	// PricingCatalog re-reads every unit price from the catalog.
	PricingCatalog PricingPolicy = "catalog"
)

// ParsePricingPolicy accepts "client" or "catalog"; blank means client.
func ParsePricingPolicy(raw string) (PricingPolicy, error) {
	switch PricingPolicy(strings.ToLower(strings.TrimSpace(raw))) {
	case "", PricingClient:
		return PricingClient, nil
	case PricingCatalog:
		return PricingCatalog, nil
	default:
		return "", fmt.Errorf("unknown pricing policy %q", raw)
	}
}

// applyCatalogPrices replaces client prices with catalog prices. Any product
// missing from the catalog rejects the whole cart.
func applyCatalogPrices(ctx context.Context, catalog ports.ProductCatalog, cart domain.Cart) (domain.Cart, error) {
	products, err := catalog.LookupProducts(ctx, cart.ProductIDs())
	if err != nil {
		return cart, err
	}
	items := make([]domain.CartItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		info, ok := products[item.ProductID]
		if !ok {
			return cart, fmt.Errorf("%w: %d", ports.ErrUnknownProduct, item.ProductID)
		}
		item.Price = info.Price
		items = append(items, item)
	}
	cart.Items = items
	return cart, nil
}
