package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// UserOrderRow is one row of the order × line item × product join used for
// a customer's order history.
type UserOrderRow struct {
	OrderID        int64
	TotalPrice     decimal.Decimal
	CreatedAt      time.Time
	DeliveryStatus Status
	Name           string
	Price          decimal.Decimal
	ImageURL       string
	Quantity       int32
}

// ItemView is the display projection of a line item.
type ItemView struct {
	Name     string
	Price    decimal.Decimal
	ImageURL string
	Quantity int32
}

// OrderView is an order with its nested items as shown to the customer.
type OrderView struct {
	ID             int64
	TotalPrice     decimal.Decimal
	CreatedAt      time.Time
	DeliveryStatus Status
	Items          []ItemView
}

// FoldUserOrders groups join rows by order id. Each order appears once, at the
// position of its first row, keeping the header values of that row; items are
// appended in row order.
func FoldUserOrders(rows []UserOrderRow) []OrderView {
	index := make(map[int64]int, len(rows))
	views := make([]OrderView, 0)
	for _, row := range rows {
		pos, ok := index[row.OrderID]
		if !ok {
			pos = len(views)
			index[row.OrderID] = pos
			views = append(views, OrderView{
				ID:             row.OrderID,
				TotalPrice:     row.TotalPrice,
				CreatedAt:      row.CreatedAt,
				DeliveryStatus: row.DeliveryStatus,
				Items:          []ItemView{},
			})
		}
		views[pos].Items = append(views[pos].Items, ItemView{
			Name:     row.Name,
			Price:    row.Price,
			ImageURL: row.ImageURL,
			Quantity: row.Quantity,
		})
	}
	return views
}

// AdminOrderHeader is an order header joined with its owner's email.
type AdminOrderHeader struct {
	ID             int64
	TotalPrice     decimal.Decimal
	CreatedAt      time.Time
	DeliveryStatus Status
	UserEmail      string
}

// AdminItemRow is a line item resolved against the catalog for the admin view.
type AdminItemRow struct {
	OrderID  int64
	Name     string
	Price    decimal.Decimal
	Quantity int32
}

// AdminProductView is a product entry inside an admin order view.
type AdminProductView struct {
	Name     string
	Price    decimal.Decimal
	Quantity int32
}

// AdminOrderView is an order header plus its products.
type AdminOrderView struct {
	AdminOrderHeader
	Products []AdminProductView
}

// MergeAdminOrders attaches item rows to their headers by order id. Header
// order is preserved and orders without items get an empty product list.
func MergeAdminOrders(headers []AdminOrderHeader, items []AdminItemRow) []AdminOrderView {
	byOrder := make(map[int64][]AdminProductView, len(headers))
	for _, item := range items {
		byOrder[item.OrderID] = append(byOrder[item.OrderID], AdminProductView{
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
		})
	}
	views := make([]AdminOrderView, 0, len(headers))
	for _, header := range headers {
		products := byOrder[header.ID]
		if products == nil {
			products = []AdminProductView{}
		}
		views = append(views, AdminOrderView{AdminOrderHeader: header, Products: products})
	}
	return views
}

// OrderIDs extracts header ids in order.
func OrderIDs(headers []AdminOrderHeader) []int64 {
	ids := make([]int64, 0, len(headers))
	for _, h := range headers {
		ids = append(ids, h.ID)
	}
	return ids
}
