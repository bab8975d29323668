package models

// PaymentMethod is a small catalog of allowed payment mechanisms, e.g. "Cash"
// or "Card". Orders reference it but never own it.
type PaymentMethod struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:50;not null" json:"name"`
	Description string `json:"description,omitempty"`
}
