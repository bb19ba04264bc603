package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func row(orderID int64, name string, qty int32) UserOrderRow {
	return UserOrderRow{
		OrderID:        orderID,
		TotalPrice:     decimal.NewFromInt(orderID * 100),
		CreatedAt:      time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(orderID) * time.Hour),
		DeliveryStatus: StatusPending,
		Name:           name,
		Price:          decimal.NewFromInt(10),
		Quantity:       qty,
	}
}

func TestFoldUserOrders(t *testing.T) {
	tests := []struct {
		name      string
		rows      []UserOrderRow
		wantIDs   []int64
		wantItems map[int64][]string
	}{
		{
			name:      "no rows",
			rows:      nil,
			wantIDs:   []int64{},
			wantItems: map[int64][]string{},
		},
		{
			name:      "contiguous rows",
			rows:      []UserOrderRow{row(2, "Mouse", 1), row(2, "Pad", 1), row(1, "Keyboard", 2)},
			wantIDs:   []int64{2, 1},
			wantItems: map[int64][]string{2: {"Mouse", "Pad"}, 1: {"Keyboard"}},
		},
		{
			name:      "interleaved rows keep first position",
			rows:      []UserOrderRow{row(7, "Lamp", 1), row(3, "Desk", 1), row(7, "Bulb", 4), row(3, "Chair", 2), row(7, "Cable", 1)},
			wantIDs:   []int64{7, 3},
			wantItems: map[int64][]string{7: {"Lamp", "Bulb", "Cable"}, 3: {"Desk", "Chair"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			views := FoldUserOrders(tt.rows)
			require.NotNil(t, views)
			ids := make([]int64, 0, len(views))
			for _, view := range views {
				ids = append(ids, view.ID)
				names := make([]string, 0, len(view.Items))
				for _, item := range view.Items {
					names = append(names, item.Name)
				}
				require.Equal(t, tt.wantItems[view.ID], names)
			}
			require.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestFoldUserOrders_FirstRowHeaderWins(t *testing.T) {
	first := row(5, "Lamp", 1)
	later := row(5, "Bulb", 2)
	later.DeliveryStatus = StatusShipped
	later.TotalPrice = decimal.NewFromInt(1)

	views := FoldUserOrders([]UserOrderRow{first, later})
	require.Len(t, views, 1)
	require.Equal(t, StatusPending, views[0].DeliveryStatus)
	require.True(t, first.TotalPrice.Equal(views[0].TotalPrice))
	require.Equal(t, int32(2), views[0].Items[1].Quantity)
}

func TestMergeAdminOrders(t *testing.T) {
	headers := []AdminOrderHeader{
		{ID: 3, UserEmail: "c@example.com"},
		{ID: 2, UserEmail: "b@example.com"},
		{ID: 1, UserEmail: "a@example.com"},
	}
	tests := []struct {
		name  string
		items []AdminItemRow
		want  map[int64][]string
	}{
		{
			name:  "no items at all",
			items: nil,
			want:  map[int64][]string{3: {}, 2: {}, 1: {}},
		},
		{
			name: "zero-item order between filled orders",
			items: []AdminItemRow{
				{OrderID: 1, Name: "Keyboard", Quantity: 1},
				{OrderID: 3, Name: "Lamp", Quantity: 2},
				{OrderID: 1, Name: "Mouse", Quantity: 1},
			},
			want: map[int64][]string{3: {"Lamp"}, 2: {}, 1: {"Keyboard", "Mouse"}},
		},
		{
			name:  "items for unknown orders are ignored",
			items: []AdminItemRow{{OrderID: 99, Name: "Ghost", Quantity: 1}},
			want:  map[int64][]string{3: {}, 2: {}, 1: {}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			views := MergeAdminOrders(headers, tt.items)
			require.Len(t, views, len(headers))
			for i, view := range views {
				require.Equal(t, headers[i].ID, view.ID)
				require.NotNil(t, view.Products)
				names := make([]string, 0, len(view.Products))
				for _, p := range view.Products {
					names = append(names, p.Name)
				}
				require.Equal(t, tt.want[view.ID], names)
			}
		})
	}
}
