package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestCartTotalPrice(t *testing.T) {
	mouse := &Product{ID: uuid.New(), Price: mustDecimal(t, "19.99")}
	pad := &Product{ID: uuid.New(), Price: mustDecimal(t, "7.76")}

	cart := Cart{
		Items: []CartItem{
			{Product: mouse, Quantity: 2},
			{Product: pad, Quantity: 2},
		},
	}

	// 2*19.99 + 2*7.76 = 55.50; float64 arithmetic gives 55.499999...
	if got := cart.TotalPrice(); !got.Equal(mustDecimal(t, "55.50")) {
		t.Errorf("expected 55.50, got %s", got)
	}
}

func TestCartTotalPriceSkipsMissingProducts(t *testing.T) {
	prod := &Product{ID: uuid.New(), Price: mustDecimal(t, "10.00")}

	cart := Cart{
		Items: []CartItem{
			{Product: prod, Quantity: 1},
			{Product: nil, Quantity: 3},
		},
	}

	if got := cart.TotalPrice(); !got.Equal(mustDecimal(t, "10.00")) {
		t.Errorf("expected 10.00, got %s", got)
	}
}

func TestCartTotalPriceEmpty(t *testing.T) {
	var cart Cart
	if got := cart.TotalPrice(); !got.IsZero() {
		t.Errorf("expected zero, got %s", got)
	}
}

func TestOrderStatusTransitions(t *testing.T) {
	allowed := []struct{ from, to OrderStatus }{
		{OrderStatusPending, OrderStatusShipped},
		{OrderStatusPending, OrderStatusCancelled},
		{OrderStatusShipped, OrderStatusDelivered},
		{OrderStatusShipped, OrderStatusCancelled},
	}
	for _, tr := range allowed {
		if !IsValidTransition(tr.from, tr.to) {
			t.Errorf("expected %s -> %s to be valid", tr.from, tr.to)
		}
	}

	forbidden := []struct{ from, to OrderStatus }{
		{OrderStatusPending, OrderStatusDelivered},
		{OrderStatusDelivered, OrderStatusPending},
		{OrderStatusDelivered, OrderStatusShipped},
		{OrderStatusCancelled, OrderStatusPending},
		{OrderStatusCancelled, OrderStatusShipped},
		{OrderStatusShipped, OrderStatusPending},
	}
	for _, tr := range forbidden {
		if IsValidTransition(tr.from, tr.to) {
			t.Errorf("expected %s -> %s to be rejected", tr.from, tr.to)
		}
	}
}

func TestIsValidTransitionUnknownStatus(t *testing.T) {
	if IsValidTransition(OrderStatus("Bogus"), OrderStatusShipped) {
		t.Error("expected unknown status to be rejected")
	}
}
