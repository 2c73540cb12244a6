package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ShippingAddress is attached to an order by a separate step after
// placement; at most one per order.
type ShippingAddress struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"order_id"`
	Order      Order     `gorm:"foreignKey:OrderID" json:"-"`
	Address    string    `gorm:"not null" json:"address"`
	City       string    `gorm:"not null" json:"city"`
	PostalCode string    `gorm:"not null" json:"postal_code"`
	Country    string    `gorm:"not null" json:"country"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (s *ShippingAddress) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
