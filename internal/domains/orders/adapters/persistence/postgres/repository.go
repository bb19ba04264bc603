package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Apurer/storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/storefront-api/internal/domains/orders/ports"
	reportsdomain "github.com/Apurer/storefront-api/internal/domains/reports/domain"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders and their line items in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Schema is owned by
// platform/migrations; the caller manages the DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type orderRecord struct {
	ID              int64           `gorm:"primaryKey;column:id"`
	UserID          int64           `gorm:"column:user_id"`
	TotalPrice      decimal.Decimal `gorm:"column:total_price;type:numeric(12,2)"`
	DeliveryStatus  string          `gorm:"column:delivery_status"`
	ContactName     string          `gorm:"column:contact_name"`
	ShippingAddress string          `gorm:"column:shipping_address"`
	ContactPhone    string          `gorm:"column:contact_phone"`
	Comment         string          `gorm:"column:comment"`
	CreatedAt       time.Time       `gorm:"column:created_at"`
}

func (orderRecord) TableName() string { return "orders" }

type orderItemRecord struct {
	ID        int64           `gorm:"primaryKey;column:id"`
	OrderID   int64           `gorm:"column:order_id"`
	ProductID int64           `gorm:"column:product_id"`
	Quantity  int32           `gorm:"column:quantity"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2)"`
}

func (orderItemRecord) TableName() string { return "order_items" }

// Create runs the stock decrements, header insert and line inserts in one
// transaction. Each decrement is guarded so stock never goes negative.
func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toRecord(order)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		quantities := order.Quantities()
		ids := make([]int64, 0, len(quantities))
		for id := range quantities {
			ids = append(ids, id)
		}
		// fixed lock order keeps concurrent checkouts from deadlocking
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, id := range ids {
			if err := takeStock(tx, id, quantities[id]); err != nil {
				return err
			}
		}
		if err := tx.Create(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrForeignKeyViolated) {
				return ports.ErrAccountNotFound
			}
			return fmt.Errorf("insert order: %w", err)
		}
		items := make([]orderItemRecord, 0, len(order.Items))
		for _, item := range order.Items {
			items = append(items, orderItemRecord{
				OrderID:   record.ID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
			})
		}
		if err := tx.Create(&items).Error; err != nil {
			return fmt.Errorf("insert order items: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	saved := *order
	saved.ID = record.ID
	saved.Items = append([]domain.LineItem(nil), order.Items...)
	return &saved, nil
}

func takeStock(tx *gorm.DB, productID int64, qty int32) error {
	result := tx.Exec(
		"UPDATE products SET stock = stock - ?, updated_at = NOW() WHERE id = ? AND stock >= ?",
		qty, productID, qty,
	)
	if result.Error != nil {
		return fmt.Errorf("decrement stock for product %d: %w", productID, result.Error)
	}
	if result.RowsAffected == 1 {
		return nil
	}
	var count int64
	if err := tx.Table("products").Where("id = ?", productID).Count(&count).Error; err != nil {
		return fmt.Errorf("check product %d: %w", productID, err)
	}
	if count == 0 {
		return fmt.Errorf("%w: %d", ports.ErrUnknownProduct, productID)
	}
	return fmt.Errorf("%w: product %d", ports.ErrInsufficientStock, productID)
}

type userOrderRow struct {
	OrderID        int64
	TotalPrice     decimal.Decimal
	CreatedAt      time.Time
	DeliveryStatus string
	Name           string
	Price          decimal.Decimal
	ImageURL       string `gorm:"column:image_url"`
	Quantity       int32
}

const userOrderRowsQuery = `
SELECT o.id AS order_id, o.total_price, o.created_at, o.delivery_status,
       p.name, p.price, p.image_url, oi.quantity
FROM orders o
JOIN order_items oi ON oi.order_id = o.id
JOIN products p ON p.id = oi.product_id
WHERE o.user_id = ?
ORDER BY o.created_at DESC, o.id DESC, oi.id ASC`

func (r *Repository) ListUserOrderRows(ctx context.Context, userID int64) ([]domain.UserOrderRow, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []userOrderRow
	if err := r.db.WithContext(ctx).Raw(userOrderRowsQuery, userID).Scan(&records).Error; err != nil {
		return nil, fmt.Errorf("list orders for user %d: %w", userID, err)
	}
	rows := make([]domain.UserOrderRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, domain.UserOrderRow{
			OrderID:        rec.OrderID,
			TotalPrice:     rec.TotalPrice,
			CreatedAt:      rec.CreatedAt,
			DeliveryStatus: domain.Status(rec.DeliveryStatus),
			Name:           rec.Name,
			Price:          rec.Price,
			ImageURL:       rec.ImageURL,
			Quantity:       rec.Quantity,
		})
	}
	return rows, nil
}

type headerRow struct {
	ID             int64
	TotalPrice     decimal.Decimal
	CreatedAt      time.Time
	DeliveryStatus string
	UserEmail      string
}

const headersQuery = `
SELECT o.id, o.total_price, o.created_at, o.delivery_status, u.email AS user_email
FROM orders o
JOIN users u ON u.id = o.user_id
ORDER BY o.created_at DESC, o.id DESC`

func (r *Repository) ListHeaders(ctx context.Context) ([]domain.AdminOrderHeader, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []headerRow
	if err := r.db.WithContext(ctx).Raw(headersQuery).Scan(&records).Error; err != nil {
		return nil, fmt.Errorf("list order headers: %w", err)
	}
	headers := make([]domain.AdminOrderHeader, 0, len(records))
	for _, rec := range records {
		headers = append(headers, domain.AdminOrderHeader{
			ID:             rec.ID,
			TotalPrice:     rec.TotalPrice,
			CreatedAt:      rec.CreatedAt,
			DeliveryStatus: domain.Status(rec.DeliveryStatus),
			UserEmail:      rec.UserEmail,
		})
	}
	return headers, nil
}

type itemRow struct {
	OrderID  int64
	Name     string
	Price    decimal.Decimal
	Quantity int32
}

const itemsQuery = `
SELECT oi.order_id, p.name, p.price, oi.quantity
FROM order_items oi
JOIN products p ON p.id = oi.product_id
WHERE oi.order_id = ANY(?)
ORDER BY oi.order_id, oi.id`

func (r *Repository) ListItems(ctx context.Context, orderIDs []int64) ([]domain.AdminItemRow, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if len(orderIDs) == 0 {
		return []domain.AdminItemRow{}, nil
	}
	var records []itemRow
	if err := r.db.WithContext(ctx).Raw(itemsQuery, pq.Array(orderIDs)).Scan(&records).Error; err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	items := make([]domain.AdminItemRow, 0, len(records))
	for _, rec := range records {
		items = append(items, domain.AdminItemRow{
			OrderID:  rec.OrderID,
			Name:     rec.Name,
			Price:    rec.Price,
			Quantity: rec.Quantity,
		})
	}
	return items, nil
}

func (r *Repository) Delete(ctx context.Context, orderID int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", orderID).Delete(&orderItemRecord{}).Error; err != nil {
			return fmt.Errorf("delete items of order %d: %w", orderID, err)
		}
		if err := tx.Delete(&orderRecord{}, orderID).Error; err != nil {
			return fmt.Errorf("delete order %d: %w", orderID, err)
		}
		return nil
	})
}

func (r *Repository) UpdateStatus(ctx context.Context, orderID int64, status domain.Status) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	err := r.db.WithContext(ctx).Model(&orderRecord{}).
		Where("id = ?", orderID).
		Update("delivery_status", string(status)).Error
	if err != nil {
		return fmt.Errorf("update status of order %d: %w", orderID, err)
	}
	return nil
}

type customerRow struct {
	Name  string
	Email string
	Phone string
}

type receiptLineRow struct {
	ProductID int64
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int32
}

const receiptLinesQuery = `
SELECT oi.product_id, COALESCE(p.name, '') AS name, oi.unit_price, oi.quantity
FROM order_items oi
LEFT JOIN products p ON p.id = oi.product_id
WHERE oi.order_id = ?
ORDER BY oi.id`

func (r *Repository) ReceiptSource(ctx context.Context, orderID int64) (*ports.ReceiptSource, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	db := r.db.WithContext(ctx)
	var record orderRecord
	if err := db.First(&record, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, fmt.Errorf("get order %d: %w", orderID, err)
	}
	var customer customerRow
	if err := db.Table("users").Select("name, email, phone").Where("id = ?", record.UserID).Take(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, fmt.Errorf("get customer of order %d: %w", orderID, err)
	}
	var lines []receiptLineRow
	if err := db.Raw(receiptLinesQuery, orderID).Scan(&lines).Error; err != nil {
		return nil, fmt.Errorf("list receipt lines of order %d: %w", orderID, err)
	}

	order := record.toDomain()
	src := &ports.ReceiptSource{CustomerName: customer.Name, Email: customer.Email, Phone: customer.Phone}
	if order.Contact.Name != "" {
		src.CustomerName = order.Contact.Name
	}
	if order.Contact.Phone != "" {
		src.Phone = order.Contact.Phone
	}
	for _, line := range lines {
		order.Items = append(order.Items, domain.LineItem{ProductID: line.ProductID, Quantity: line.Quantity, UnitPrice: line.UnitPrice})
		src.Lines = append(src.Lines, ports.ReceiptLine{Name: line.Name, Price: line.UnitPrice, Quantity: line.Quantity})
	}
	src.Order = *order
	return src, nil
}

type reportRow struct {
	OrderID       int64
	CreatedAt     time.Time
	TotalPrice    decimal.Decimal
	CustomerName  string
	CustomerEmail string
	ProductID     int64
	ProductName   string
	Price         decimal.Decimal
	Quantity      int32
}

func (r *Repository) ReportRows(ctx context.Context, filter reportsdomain.Filter) ([]reportsdomain.Row, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).
		Table("orders AS o").
		Select(`o.id AS order_id, o.created_at, o.total_price,
			u.name AS customer_name, u.email AS customer_email,
			p.id AS product_id, p.name AS product_name, oi.unit_price AS price, oi.quantity`).
		Joins("JOIN users u ON u.id = o.user_id").
		Joins("JOIN order_items oi ON oi.order_id = o.id").
		Joins("JOIN products p ON p.id = oi.product_id").
		Where("o.created_at BETWEEN ? AND ?", filter.From, filter.To)
	if filter.Status != "" {
		query = query.Where("o.delivery_status = ?", filter.Status)
	}
	var records []reportRow
	if err := query.Order("o.created_at DESC, o.id DESC, oi.id ASC").Scan(&records).Error; err != nil {
		return nil, fmt.Errorf("load report rows: %w", err)
	}
	rows := make([]reportsdomain.Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, reportsdomain.Row{
			OrderID:       rec.OrderID,
			CreatedAt:     rec.CreatedAt,
			TotalPrice:    rec.TotalPrice,
			CustomerName:  rec.CustomerName,
			CustomerEmail: rec.CustomerEmail,
			ProductID:     rec.ProductID,
			ProductName:   rec.ProductName,
			Price:         rec.Price,
			Quantity:      rec.Quantity,
		})
	}
	return rows, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecord(order *domain.Order) orderRecord {
	return orderRecord{
		ID:              order.ID,
		UserID:          order.UserID,
		TotalPrice:      order.TotalPrice,
		DeliveryStatus:  string(order.Status),
		ContactName:     order.Contact.Name,
		ShippingAddress: order.Contact.Address,
		ContactPhone:    order.Contact.Phone,
		Comment:         order.Contact.Comment,
		CreatedAt:       order.CreatedAt,
	}
}

func (r orderRecord) toDomain() *domain.Order {
	return &domain.Order{
		ID:         r.ID,
		UserID:     r.UserID,
		TotalPrice: r.TotalPrice,
		CreatedAt:  r.CreatedAt,
		Status:     domain.Status(r.DeliveryStatus),
		Contact: domain.ContactInfo{
			Name:    r.ContactName,
			Address: r.ShippingAddress,
			Phone:   r.ContactPhone,
			Comment: r.Comment,
		},
	}
}
