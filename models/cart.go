package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Cart struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     string          `gorm:"not null;index:idx_user_open_cart,unique,where:ordered = false" json:"user"` // Enforces ONE open cart per user
	Ordered    bool            `gorm:"not null;default:false" json:"ordered"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_price"`
	Items      []CartItem      `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"` // Cascade delete items if cart is deleted
	CreatedAt  time.Time       `json:"-"`
	UpdatedAt  time.Time       `json:"-"`
}

func (c *Cart) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type CartItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	CartID    uuid.UUID       `gorm:"type:uuid;index;uniqueIndex:idx_cart_product" json:"cart_id"`
	ProductID uint            `gorm:"uniqueIndex:idx_cart_product" json:"-"` // at most one row per (cart, product)
	Product   Product         `gorm:"foreignKey:ProductID" json:"product"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"` // line price, snapshotted on add/update
	AddedAt   time.Time       `json:"-"`
}
