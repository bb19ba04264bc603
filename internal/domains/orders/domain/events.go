package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventType names an order lifecycle event.
type EventType string

const (
	EventOrderPlaced        EventType = "order.placed"
	EventOrderDeleted       EventType = "order.deleted"
	EventOrderStatusChanged EventType = "order.status_changed"
)

// Event is published after an order mutation has been committed.
type Event struct {
	Type       EventType       `json:"type"`
	OrderID    int64           `json:"orderId"`
	UserID     int64           `json:"userId,omitempty"`
	Status     Status          `json:"status,omitempty"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	OccurredAt time.Time       `json:"occurredAt"`
}

// Key returns the partitioning key for the event.
func (e Event) Key() string {
	return decimal.NewFromInt(e.OrderID).String()
}

// PlacedEvent describes a freshly committed order.
func PlacedEvent(order *Order) Event {
	return Event{
		Type:       EventOrderPlaced,
		OrderID:    order.ID,
		UserID:     order.UserID,
		Status:     order.Status,
		TotalPrice: order.TotalPrice,
		OccurredAt: order.CreatedAt,
	}
}
