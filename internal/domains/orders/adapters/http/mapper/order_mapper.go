package mapper

import (
	"time"

	"github.com/shopspring/decimal"

	ordersdomain "github.com/Apurer/storefront-api/internal/domains/orders/domain"
)

// CartItem is a checkout line as posted by the storefront.
type CartItem struct {
	ID       int64           `json:"id"`
	Price    decimal.Decimal `json:"price"`
	Quantity int32           `json:"quantity"`
}

// PlaceOrderRequest is the checkout form.
type PlaceOrderRequest struct {
	UserID  int64      `json:"userId"`
	Name    string     `json:"name"`
	Address string     `json:"address"`
	Phone   string     `json:"phone"`
	Comment string     `json:"comment"`
	Items   []CartItem `json:"items"`
}

type PlaceOrderResponse struct {
	Message string `json:"message"`
	OrderID int64  `json:"orderId"`
}

// StatusUpdate is the admin delivery status payload.
type StatusUpdate struct {
	Status string `json:"status"`
}

// ReportRequest selects the orders that go into a report.
type ReportRequest struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Status string `json:"status"`
}

type Item struct {
	Name     string `json:"name"`
	Price    string `json:"price"`
	ImageURL string `json:"image_url"`
	Quantity int32  `json:"quantity"`
}

// Order is a customer's view of one of their orders.
type Order struct {
	ID             int64     `json:"id"`
	TotalPrice     string    `json:"total_price"`
	CreatedAt      time.Time `json:"created_at"`
	DeliveryStatus string    `json:"delivery_status"`
	Items          []Item    `json:"items"`
}

type AdminProduct struct {
	Name     string `json:"name"`
	Price    string `json:"price"`
	Quantity int32  `json:"quantity"`
}

// AdminOrder is an order as listed in the admin panel.
type AdminOrder struct {
	ID             int64          `json:"id"`
	TotalPrice     string         `json:"total_price"`
	CreatedAt      time.Time      `json:"created_at"`
	DeliveryStatus string         `json:"delivery_status"`
	UserEmail      string         `json:"user_email"`
	Products       []AdminProduct `json:"products"`
}

// ToCart converts the checkout form to a domain cart.
func ToCart(req PlaceOrderRequest) ordersdomain.Cart {
	items := make([]ordersdomain.CartItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, ordersdomain.CartItem{
			ProductID: item.ID,
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
	}
	return ordersdomain.Cart{
		UserID: req.UserID,
		Items:  items,
		Contact: ordersdomain.ContactInfo{
			Name:    req.Name,
			Address: req.Address,
			Phone:   req.Phone,
			Comment: req.Comment,
		},
	}
}

func FromDomainOrderViews(views []ordersdomain.OrderView) []Order {
	result := make([]Order, 0, len(views))
	for _, view := range views {
		items := make([]Item, 0, len(view.Items))
		for _, item := range view.Items {
			items = append(items, Item{
				Name:     item.Name,
				Price:    item.Price.StringFixed(2),
				ImageURL: item.ImageURL,
				Quantity: item.Quantity,
			})
		}
		result = append(result, Order{
			ID:             view.ID,
			TotalPrice:     view.TotalPrice.StringFixed(2),
			CreatedAt:      view.CreatedAt,
			DeliveryStatus: string(view.DeliveryStatus),
			Items:          items,
		})
	}
	return result
}

func FromDomainAdminOrders(views []ordersdomain.AdminOrderView) []AdminOrder {
	result := make([]AdminOrder, 0, len(views))
	for _, view := range views {
		products := make([]AdminProduct, 0, len(view.Products))
		for _, p := range view.Products {
			products = append(products, AdminProduct{Name: p.Name, Price: p.Price.StringFixed(2), Quantity: p.Quantity})
		}
		result = append(result, AdminOrder{
			ID:             view.ID,
			TotalPrice:     view.TotalPrice.StringFixed(2),
			CreatedAt:      view.CreatedAt,
			DeliveryStatus: string(view.DeliveryStatus),
			UserEmail:      view.UserEmail,
			Products:       products,
		})
	}
	return result
}
