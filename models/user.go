package models

import "time"

// User carries the contact fields the order notification needs. Accounts are
// managed elsewhere; the JWT subject is the primary key here.
type User struct {
	ID         string    `gorm:"primaryKey" json:"id"`
	Email      string    `gorm:"unique;not null" json:"email"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Phone      string    `json:"phone"`
	Wholesaler bool      `json:"wholesaler"`
	CreatedAt  time.Time `json:"-"`
}
