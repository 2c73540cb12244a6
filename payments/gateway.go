package payments

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Charge describes a payment to collect for an order. Amount is the
// order total computed server-side, never taken from the client.
type Charge struct {
	OrderID   uuid.UUID
	Method    string // e.g. Stripe, PayPal
	Reference string // client-supplied transaction reference
	Amount    decimal.Decimal
}

// Result is the gateway's answer to a charge attempt.
type Result struct {
	TransactionID string
	Succeeded     bool
	PaidAt        time.Time
}

// Gateway abstracts the payment provider so a real integration can be
// substituted without touching the order workflow or handlers.
type Gateway interface {
	Charge(charge Charge) (Result, error)
}

// stubGateway approves every charge. It stands in for a real provider
// in this backend; payments recorded through it are trusted as settled.
type stubGateway struct{}

func NewStubGateway() Gateway {
	return &stubGateway{}
}

func (g *stubGateway) Charge(charge Charge) (Result, error) {
	txID := charge.Reference
	if txID == "" {
		txID = uuid.New().String()
	}
	return Result{
		TransactionID: txID,
		Succeeded:     true,
		PaidAt:        time.Now(),
	}, nil
}
