//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Apurer/storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/storefront-api/internal/domains/orders/ports"
	reportsdomain "github.com/Apurer/storefront-api/internal/domains/reports/domain"
	"github.com/Apurer/storefront-api/internal/platform/postgres/pgtest"
)

func seed(t *testing.T, db *gorm.DB) {
	t.Helper()
	pgtest.Exec(t, db, `INSERT INTO users (id, name, email, phone, password_hash, is_verified, created_at, updated_at)
		VALUES (1, 'Ann', 'ann@example.com', '+100', 'x', true, NOW(), NOW()),
		       (2, 'Bob', 'bob@example.com', '+200', 'x', true, NOW(), NOW())`)
	pgtest.Exec(t, db, `INSERT INTO products (id, name, price, stock, image_url, created_at, updated_at)
		VALUES (1, 'Keyboard', 100, 5, '/kb.png', NOW(), NOW()),
		       (2, 'Mouse', 50, 1, '/m.png', NOW(), NOW())`)
}

func stockOf(t *testing.T, db *gorm.DB, id int64) int32 {
	t.Helper()
	var stock int32
	require.NoError(t, db.Raw(`SELECT stock FROM products WHERE id = ?`, id).Scan(&stock).Error)
	return stock
}

func newOrder(t *testing.T, userID int64, createdAt time.Time, items ...domain.CartItem) *domain.Order {
	t.Helper()
	order, err := domain.NewOrder(domain.Cart{
		UserID:  userID,
		Items:   items,
		Contact: domain.ContactInfo{Name: "Ann", Address: "Main st 1"},
	}, createdAt)
	require.NoError(t, err)
	return order
}

func line(id int64, price string, qty int32) domain.CartItem {
	return domain.CartItem{ProductID: id, Price: decimal.RequireFromString(price), Quantity: qty}
}

func TestRepository_CreateDecrementsStockAtomically(t *testing.T) {
	db := pgtest.Start(t)
	seed(t, db)
	repo := NewRepository(db)
	ctx := context.Background()

	saved, err := repo.Create(ctx, newOrder(t, 1, time.Now(), line(1, "100", 2), line(2, "50", 1)))
	require.NoError(t, err)
	require.NotZero(t, saved.ID)
	assert.Equal(t, int32(3), stockOf(t, db, 1))
	assert.Equal(t, int32(0), stockOf(t, db, 2))

	_, err = repo.Create(ctx, newOrder(t, 1, time.Now(), line(1, "100", 1), line(2, "50", 1)))
	require.ErrorIs(t, err, ports.ErrInsufficientStock)
	assert.Equal(t, int32(3), stockOf(t, db, 1), "keyboard decrement must roll back")

	_, err = repo.Create(ctx, newOrder(t, 1, time.Now(), line(99, "1", 1)))
	require.ErrorIs(t, err, ports.ErrUnknownProduct)

	var count int64
	require.NoError(t, db.Raw(`SELECT COUNT(*) FROM orders`).Scan(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRepository_ListingsAndDelete(t *testing.T) {
	db := pgtest.Start(t)
	seed(t, db)
	repo := NewRepository(db)
	ctx := context.Background()
	base := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	first, err := repo.Create(ctx, newOrder(t, 1, base, line(1, "100", 1), line(2, "50", 1)))
	require.NoError(t, err)
	second, err := repo.Create(ctx, newOrder(t, 1, base.Add(time.Hour), line(1, "100", 2)))
	require.NoError(t, err)

	rows, err := repo.ListUserOrderRows(ctx, 1)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, second.ID, rows[0].OrderID)
	assert.Equal(t, "/kb.png", rows[0].ImageURL)

	headers, err := repo.ListHeaders(ctx)
	require.NoError(t, err)
	require.Len(t, headers, 2)
	assert.Equal(t, "ann@example.com", headers[0].UserEmail)

	items, err := repo.ListItems(ctx, []int64{first.ID})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Keyboard", items[0].Name)

	require.NoError(t, repo.UpdateStatus(ctx, first.ID, domain.StatusShipped))
	require.NoError(t, repo.UpdateStatus(ctx, 4242, domain.StatusShipped))

	src, err := repo.ReceiptSource(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusShipped, src.Order.Status)
	assert.Equal(t, "ann@example.com", src.Email)
	assert.Len(t, src.Lines, 2)

	require.NoError(t, repo.Delete(ctx, first.ID))
	require.NoError(t, repo.Delete(ctx, first.ID))
	_, err = repo.ReceiptSource(ctx, first.ID)
	assert.ErrorIs(t, err, ports.ErrNotFound)
	assert.Equal(t, int32(2), stockOf(t, db, 1), "delete does not restore stock")
}

func TestRepository_ReportRows(t *testing.T) {
	db := pgtest.Start(t)
	seed(t, db)
	repo := NewRepository(db)
	ctx := context.Background()

	_, err := repo.Create(ctx, newOrder(t, 1, time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC), line(1, "100", 1)))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newOrder(t, 2, time.Date(2024, 4, 5, 9, 0, 0, 0, time.UTC), line(1, "100", 1)))
	require.NoError(t, err)

	filter, err := reportsdomain.ParseFilter("2024-03-01", "2024-03-31", "")
	require.NoError(t, err)
	rows, err := repo.ReportRows(ctx, filter)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Ann", rows[0].CustomerName)
	assert.Equal(t, "Keyboard", rows[0].ProductName)

	filter.Status = "delivered"
	rows, err = repo.ReportRows(ctx, filter)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRepository_DeletingUserCascadesOrders(t *testing.T) {
	db := pgtest.Start(t)
	seed(t, db)
	repo := NewRepository(db)
	ctx := context.Background()

	_, err := repo.Create(ctx, newOrder(t, 2, time.Now(), line(1, "100", 1)))
	require.NoError(t, err)
	pgtest.Exec(t, db, `DELETE FROM users WHERE id = 2`)

	headers, err := repo.ListHeaders(ctx)
	require.NoError(t, err)
	assert.Empty(t, headers)
}

func TestIdempotencyStore_ReservationLifecycle(t *testing.T) {
	db := pgtest.Start(t)
	store := NewIdempotencyStore(db)
	ctx := context.Background()

	missing, err := store.Get(ctx, "checkout-1")
	require.NoError(t, err)
	assert.Nil(t, missing)

	existing, err := store.Reserve(ctx, "checkout-1", "abc")
	require.NoError(t, err)
	require.Nil(t, existing)

	pending, err := store.Reserve(ctx, "checkout-1", "abc")
	require.NoError(t, err)
	require.NotNil(t, pending)
	assert.True(t, pending.Pending())

	require.NoError(t, store.Release(ctx, "checkout-1"))
	existing, err = store.Reserve(ctx, "checkout-1", "abc")
	require.NoError(t, err)
	require.Nil(t, existing, "released key can be claimed again")

	require.NoError(t, store.Complete(ctx, "checkout-1", 11))
	done, err := store.Reserve(ctx, "checkout-1", "zzz")
	require.NoError(t, err)
	assert.Equal(t, int64(11), done.OrderID)
	assert.Equal(t, "abc", done.RequestHash)

	require.ErrorIs(t, store.Complete(ctx, "checkout-1", 12), ports.ErrIdempotencyConflict)
}

func TestIdempotencyStore_StaleReservationIsTakenOver(t *testing.T) {
	db := pgtest.Start(t)
	store := NewIdempotencyStore(db)
	ctx := context.Background()

	existing, err := store.Reserve(ctx, "checkout-2", "abc")
	require.NoError(t, err)
	require.Nil(t, existing)

	store.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	existing, err = store.Reserve(ctx, "checkout-2", "def")
	require.NoError(t, err)
	require.Nil(t, existing)

	got, err := store.Get(ctx, "checkout-2")
	require.NoError(t, err)
	assert.Equal(t, "def", got.RequestHash)
}
