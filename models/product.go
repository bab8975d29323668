package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product rows are owned by the catalog; this module only reads prices and
// moves stock.
type Product struct {
	ID        uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string          `gorm:"not null" json:"title"`
	Category  string          `json:"category"`
	Color     string          `json:"color"`
	Brand     string          `json:"brand"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Promotion int             `gorm:"not null;default:0" json:"promotion"` // percent off, 0-100
	Stock     int             `gorm:"not null;default:0" json:"stock"`
	CreatedAt time.Time       `json:"-"`
	UpdatedAt time.Time       `json:"-"`
}

var hundred = decimal.NewFromInt(100)

// EffectiveUnitPrice applies the promotion percentage, if any.
func (p *Product) EffectiveUnitPrice() decimal.Decimal {
	if p.Promotion <= 0 {
		return p.Price
	}
	return p.Price.Mul(decimal.NewFromInt(int64(100 - p.Promotion))).Div(hundred)
}
