// Package directory adapts the catalog and accounts contexts to the lookups
// the order flow depends on.
package directory

import (
	"context"
	"errors"

	accountsports "github.com/Apurer/storefront-api/internal/domains/accounts/ports"
	catalogports "github.com/Apurer/storefront-api/internal/domains/catalog/ports"
	"github.com/Apurer/storefront-api/internal/domains/orders/ports"
)

var (
	_ ports.ProductCatalog   = (*Catalog)(nil)
	_ ports.AccountDirectory = (*Accounts)(nil)
)

// Catalog resolves products through the catalog service.
type Catalog struct {
	svc catalogports.Service
}

func NewCatalog(svc catalogports.Service) *Catalog {
	return &Catalog{svc: svc}
}

func (c *Catalog) LookupProducts(ctx context.Context, ids []int64) (map[int64]ports.ProductInfo, error) {
	products, err := c.svc.LookupProducts(ctx, ids)
	if err != nil {
		return nil, err
	}
	result := make(map[int64]ports.ProductInfo, len(products))
	for id, product := range products {
		result[id] = ports.ProductInfo{ID: product.ID, Name: product.Name, Price: product.Price}
	}
	return result, nil
}

// Accounts resolves customers through the accounts service.
type Accounts struct {
	svc accountsports.Service
}

func NewAccounts(svc accountsports.Service) *Accounts {
	return &Accounts{svc: svc}
}

func (a *Accounts) LookupAccount(ctx context.Context, id int64) (*ports.AccountInfo, error) {
	account, err := a.svc.GetAccount(ctx, id)
	if err != nil {
		if errors.Is(err, accountsports.ErrNotFound) {
			return nil, ports.ErrAccountNotFound
		}
		return nil, err
	}
	return &ports.AccountInfo{
		ID:       account.ID,
		Name:     account.Name,
		Email:    account.Email,
		Phone:    account.Phone,
		Verified: account.Verified,
	}, nil
}
