package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	accountsdomain "github.com/Apurer/storefront-api/internal/domains/accounts/domain"
	catalogdomain "github.com/Apurer/storefront-api/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/storefront-api/internal/domains/catalog/ports"
	"github.com/Apurer/storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/storefront-api/internal/domains/orders/ports"
	reportsdomain "github.com/Apurer/storefront-api/internal/domains/reports/domain"
)

var _ ports.Repository = (*Repository)(nil)

// Products is the slice of the in-memory catalog the order store joins against.
type Products interface {
	GetMany(ctx context.Context, ids []int64) (map[int64]*catalogdomain.Product, error)
	TakeStock(ctx context.Context, quantities map[int64]int32) error
}

// Accounts resolves order owners.
type Accounts interface {
	GetByID(ctx context.Context, id int64) (*accountsdomain.Account, error)
}

// Repository keeps orders in memory and joins against in-memory products and
// accounts the way the SQL store joins tables.
type Repository struct {
	mu       sync.RWMutex
	orders   map[int64]*domain.Order
	nextID   int64
	products Products
	accounts Accounts
}

func NewRepository(products Products, accounts Accounts) *Repository {
	return &Repository{
		orders:   map[int64]*domain.Order{},
		products: products,
		accounts: accounts,
	}
}

func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if _, err := r.accounts.GetByID(ctx, order.UserID); err != nil {
		return nil, ports.ErrAccountNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.products.TakeStock(ctx, order.Quantities()); err != nil {
		switch {
		case errors.Is(err, catalogports.ErrNotFound):
			return nil, ports.ErrUnknownProduct
		case errors.Is(err, catalogdomain.ErrInsufficientStock):
			return nil, ports.ErrInsufficientStock
		default:
			return nil, err
		}
	}
	clone := cloneOrder(order)
	r.nextID++
	clone.ID = r.nextID
	r.orders[clone.ID] = clone
	return cloneOrder(clone), nil
}

func (r *Repository) ListUserOrderRows(ctx context.Context, userID int64) ([]domain.UserOrderRow, error) {
	orders := r.sorted(func(o *domain.Order) bool { return o.UserID == userID })
	products, err := r.productsFor(ctx, orders)
	if err != nil {
		return nil, err
	}
	rows := make([]domain.UserOrderRow, 0)
	for _, order := range orders {
		for _, item := range order.Items {
			product, ok := products[item.ProductID]
			if !ok {
				continue
			}
			rows = append(rows, domain.UserOrderRow{
				OrderID:        order.ID,
				TotalPrice:     order.TotalPrice,
				CreatedAt:      order.CreatedAt,
				DeliveryStatus: order.Status,
				Name:           product.Name,
				Price:          product.Price,
				ImageURL:       product.ImageURL,
				Quantity:       item.Quantity,
			})
		}
	}
	return rows, nil
}

func (r *Repository) ListHeaders(ctx context.Context) ([]domain.AdminOrderHeader, error) {
	orders := r.sorted(nil)
	headers := make([]domain.AdminOrderHeader, 0, len(orders))
	for _, order := range orders {
		account, err := r.accounts.GetByID(ctx, order.UserID)
		if err != nil {
			continue
		}
		headers = append(headers, domain.AdminOrderHeader{
			ID:             order.ID,
			TotalPrice:     order.TotalPrice,
			CreatedAt:      order.CreatedAt,
			DeliveryStatus: order.Status,
			UserEmail:      account.Email,
		})
	}
	return headers, nil
}

func (r *Repository) ListItems(ctx context.Context, orderIDs []int64) ([]domain.AdminItemRow, error) {
	wanted := make(map[int64]struct{}, len(orderIDs))
	for _, id := range orderIDs {
		wanted[id] = struct{}{}
	}
	orders := r.sorted(func(o *domain.Order) bool {
		_, ok := wanted[o.ID]
		return ok
	})
	products, err := r.productsFor(ctx, orders)
	if err != nil {
		return nil, err
	}
	rows := make([]domain.AdminItemRow, 0)
	for _, order := range orders {
		for _, item := range order.Items {
			product, ok := products[item.ProductID]
			if !ok {
				continue
			}
			rows = append(rows, domain.AdminItemRow{
				OrderID:  order.ID,
				Name:     product.Name,
				Price:    product.Price,
				Quantity: item.Quantity,
			})
		}
	}
	return rows, nil
}

func (r *Repository) Delete(_ context.Context, orderID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.orders, orderID)
	return nil
}

func (r *Repository) UpdateStatus(_ context.Context, orderID int64, status domain.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if order, ok := r.orders[orderID]; ok {
		order.Status = status
	}
	return nil
}

func (r *Repository) ReceiptSource(ctx context.Context, orderID int64) (*ports.ReceiptSource, error) {
	r.mu.RLock()
	stored, ok := r.orders[orderID]
	var order *domain.Order
	if ok {
		order = cloneOrder(stored)
	}
	r.mu.RUnlock()
	if !ok {
		return nil, ports.ErrNotFound
	}
	account, err := r.accounts.GetByID(ctx, order.UserID)
	if err != nil {
		return nil, ports.ErrNotFound
	}
	products, err := r.productsFor(ctx, []*domain.Order{order})
	if err != nil {
		return nil, err
	}
	src := &ports.ReceiptSource{
		Order:        *order,
		CustomerName: account.Name,
		Email:        account.Email,
		Phone:        account.Phone,
	}
	if order.Contact.Name != "" {
		src.CustomerName = order.Contact.Name
	}
	if order.Contact.Phone != "" {
		src.Phone = order.Contact.Phone
	}
	for _, item := range order.Items {
		line := ports.ReceiptLine{Price: item.UnitPrice, Quantity: item.Quantity}
		if product, ok := products[item.ProductID]; ok {
			line.Name = product.Name
		}
		src.Lines = append(src.Lines, line)
	}
	return src, nil
}

func (r *Repository) ReportRows(ctx context.Context, filter reportsdomain.Filter) ([]reportsdomain.Row, error) {
	orders := r.sorted(func(o *domain.Order) bool {
		if o.CreatedAt.Before(filter.From) || o.CreatedAt.After(filter.To) {
			return false
		}
		return filter.Status == "" || string(o.Status) == filter.Status
	})
	products, err := r.productsFor(ctx, orders)
	if err != nil {
		return nil, err
	}
	rows := make([]reportsdomain.Row, 0)
	for _, order := range orders {
		account, err := r.accounts.GetByID(ctx, order.UserID)
		if err != nil {
			continue
		}
		for _, item := range order.Items {
			product, ok := products[item.ProductID]
			if !ok {
				continue
			}
			rows = append(rows, reportsdomain.Row{
				OrderID:       order.ID,
				CreatedAt:     order.CreatedAt,
				TotalPrice:    order.TotalPrice,
				CustomerName:  account.Name,
				CustomerEmail: account.Email,
				ProductID:     item.ProductID,
				ProductName:   product.Name,
				Price:         item.UnitPrice,
				Quantity:      item.Quantity,
			})
		}
	}
	return rows, nil
}

// ReferencesProduct reports whether any order line points at productID.
func (r *Repository) ReferencesProduct(_ context.Context, productID int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, order := range r.orders {
		for _, item := range order.Items {
			if item.ProductID == productID {
				return true, nil
			}
		}
	}
	return false, nil
}

// DeleteByUser drops every order owned by userID, mirroring the cascade the
// SQL schema applies when an account is removed.
func (r *Repository) DeleteByUser(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, order := range r.orders {
		if order.UserID == userID {
			delete(r.orders, id)
		}
	}
	return nil
}

// sorted returns clones of matching orders, newest first.
func (r *Repository) sorted(match func(*domain.Order) bool) []*domain.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		if match == nil || match(order) {
			list = append(list, cloneOrder(order))
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID > list[j].ID
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list
}

func (r *Repository) productsFor(ctx context.Context, orders []*domain.Order) (map[int64]*catalogdomain.Product, error) {
	seen := map[int64]struct{}{}
	ids := make([]int64, 0)
	for _, order := range orders {
		for _, item := range order.Items {
			if _, ok := seen[item.ProductID]; !ok {
				seen[item.ProductID] = struct{}{}
				ids = append(ids, item.ProductID)
			}
		}
	}
	if len(ids) == 0 {
		return map[int64]*catalogdomain.Product{}, nil
	}
	return r.products.GetMany(ctx, ids)
}

func cloneOrder(order *domain.Order) *domain.Order {
	clone := *order
	clone.Items = append([]domain.LineItem(nil), order.Items...)
	return &clone
}
