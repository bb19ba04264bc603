package migrations

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the storefront schema. Tables are created in dependency order
// and the foreign keys on order_items are derived from the relation fields.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&productRecord{},
		&userRecord{},
		&orderRecord{},
		&orderItemRecord{},
		&idempotencyKeyRecord{},
	)
}

// Product schema mirrors the catalog Postgres adapter.
type productRecord struct {
	ID          int64           `gorm:"primaryKey;column:id"`
	Name        string          `gorm:"column:name;not null"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Stock       int32           `gorm:"column:stock;not null;default:0;check:chk_products_stock,stock >= 0"`
	Category    string          `gorm:"column:category;index"`
	Description string          `gorm:"column:description"`
	ImageURL    string          `gorm:"column:image_url"`
	CreatedAt   time.Time       `gorm:"column:created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

// User schema mirrors the accounts Postgres adapter.
type userRecord struct {
	ID           int64     `gorm:"primaryKey;column:id"`
	Name         string    `gorm:"column:name;not null"`
	Email        string    `gorm:"column:email;uniqueIndex;not null"`
	Phone        string    `gorm:"column:phone;uniqueIndex;not null"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	IsVerified   bool      `gorm:"column:is_verified;not null;default:false"`
	IsAdmin      bool      `gorm:"column:is_admin;not null;default:false"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (userRecord) TableName() string { return "users" }

// Order schema mirrors the orders Postgres adapter.
type orderRecord struct {
	ID              int64           `gorm:"primaryKey;column:id"`
	UserID          int64           `gorm:"column:user_id;not null;index"`
	User            *userRecord     `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
	TotalPrice      decimal.Decimal `gorm:"column:total_price;type:numeric(12,2);not null"`
	DeliveryStatus  string          `gorm:"column:delivery_status;type:varchar(32);not null;default:pending;index"`
	ContactName     string          `gorm:"column:contact_name"`
	ShippingAddress string          `gorm:"column:shipping_address"`
	ContactPhone    string          `gorm:"column:contact_phone"`
	Comment         string          `gorm:"column:comment"`
	CreatedAt       time.Time       `gorm:"column:created_at;index"`
}

func (orderRecord) TableName() string { return "orders" }

// Line item schema mirrors the orders Postgres adapter. Items go with their
// order; products referenced by any item cannot be removed.
type orderItemRecord struct {
	ID        int64           `gorm:"primaryKey;column:id"`
	OrderID   int64           `gorm:"column:order_id;not null;index"`
	Order     *orderRecord    `gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:CASCADE"`
	ProductID int64           `gorm:"column:product_id;not null;index"`
	Product   *productRecord  `gorm:"foreignKey:ProductID;references:ID;constraint:OnDelete:RESTRICT"`
	Quantity  int32           `gorm:"column:quantity;not null;check:chk_order_items_quantity,quantity > 0"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
}

func (orderItemRecord) TableName() string { return "order_items" }

// Checkout idempotency keys mirror the orders Postgres idempotency store.
type idempotencyKeyRecord struct {
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:128;not null"`
	OrderID     int64     `gorm:"column:order_id;not null;default:0"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (idempotencyKeyRecord) TableName() string { return "order_idempotency_keys" }
