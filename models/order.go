package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is immutable after creation apart from UpdatedAt. It references the
// cart it was placed from (one order per cart) but does not own it; the
// cart's items are cleared as a side effect of checkout.
type Order struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	UserID          string          `gorm:"not null;index" json:"user"`
	CartID          uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"cart"`
	PaymentMethodID *uint           `json:"payment_method"`
	PaymentMethod   *PaymentMethod  `gorm:"constraint:OnDelete:SET NULL" json:"-"` // method may be deleted later without invalidating the order
	TotalPrice      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_price"`
	Address         string          `gorm:"not null" json:"address"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
