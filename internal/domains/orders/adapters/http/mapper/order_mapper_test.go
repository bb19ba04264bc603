package mapper

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	ordersdomain "github.com/Apurer/storefront-api/internal/domains/orders/domain"
)

func TestFromDomainAdminOrders_EmptyProductsSerializeAsArray(t *testing.T) {
	views := ordersdomain.MergeAdminOrders([]ordersdomain.AdminOrderHeader{{
		ID:             4,
		TotalPrice:     decimal.RequireFromString("0"),
		CreatedAt:      time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		DeliveryStatus: ordersdomain.StatusPending,
		UserEmail:      "anna@example.com",
	}}, nil)

	payload, err := json.Marshal(FromDomainAdminOrders(views))
	require.NoError(t, err)
	require.JSONEq(t, `[{
		"id": 4,
		"total_price": "0.00",
		"created_at": "2024-03-01T10:00:00Z",
		"delivery_status": "pending",
		"user_email": "anna@example.com",
		"products": []
	}]`, string(payload))
}

func TestFromDomainAdminOrders_NilInputIsEmptyArray(t *testing.T) {
	payload, err := json.Marshal(FromDomainAdminOrders(nil))
	require.NoError(t, err)
	require.Equal(t, "[]", string(payload))
}
