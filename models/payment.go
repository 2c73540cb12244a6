package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment records the outcome of a gateway charge for an order; at most
// one per order. Amount is the order total at charge time, never taken
// from the request.
type Payment struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OrderID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"order_id"`
	Order         Order           `gorm:"foreignKey:OrderID" json:"-"`
	PaymentMethod string          `gorm:"not null" json:"payment_method"` // e.g. Stripe, PayPal
	PaymentID     string          `gorm:"not null" json:"payment_id"`     // gateway transaction ID
	Amount        decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"amount"`
	IsSuccessful  bool            `gorm:"default:false" json:"is_successful"`
	PaidAt        *time.Time      `json:"paid_at"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
