package services

import (
	"errors"
	"fmt"

	"ecom-backend/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrEmptyCart is returned when the user has no cart or the cart has no
// items. No writes have occurred when it is returned.
var ErrEmptyCart = errors.New("cart is empty")

// ProductLookupError means a cart item references a product that no
// longer exists. The whole placement is aborted and rolled back.
type ProductLookupError struct {
	CartItemID uuid.UUID
}

func (e *ProductLookupError) Error() string {
	return fmt.Sprintf("cart item %s references a product that no longer exists", e.CartItemID)
}

// OrderCreationError wraps any storage failure during the placement
// transaction. The transaction has been rolled back; retrying is safe.
type OrderCreationError struct {
	Err error
}

func (e *OrderCreationError) Error() string {
	return "failed to create order: " + e.Err.Error()
}

func (e *OrderCreationError) Unwrap() error {
	return e.Err
}

type OrderService struct {
	DB *gorm.DB
}

// PlaceOrder converts the user's cart into an order atomically: one new
// order row, one order item per cart item with the product price captured
// by value, and the cart emptied. Any failure after the transaction opens
// rolls everything back, so partial orders are never observable.
//
// The cart row is locked FOR UPDATE for the duration of the transaction,
// so two concurrent placements for the same user serialize; the loser
// sees an empty cart and gets ErrEmptyCart instead of a double charge.
func (s *OrderService) PlaceOrder(userID uuid.UUID) (*models.Order, error) {
	tx := s.DB.Begin()
	if tx.Error != nil {
		return nil, &OrderCreationError{Err: tx.Error}
	}

	var cart models.Cart
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&cart).Error
	if err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmptyCart
		}
		return nil, &OrderCreationError{Err: err}
	}

	var cartItems []models.CartItem
	if err := tx.Preload("Product").Where("cart_id = ?", cart.ID).Find(&cartItems).Error; err != nil {
		tx.Rollback()
		return nil, &OrderCreationError{Err: err}
	}

	if len(cartItems) == 0 {
		tx.Rollback()
		return nil, ErrEmptyCart
	}

	order := models.Order{
		ID:         uuid.New(),
		UserID:     userID,
		Status:     models.OrderStatusPending,
		IsPaid:     false,
		TotalPrice: decimal.Zero,
	}
	if err := tx.Omit("User", "Items", "ShippingAddress", "Payment").Create(&order).Error; err != nil {
		tx.Rollback()
		return nil, &OrderCreationError{Err: err}
	}

	total := decimal.Zero
	orderItems := make([]models.OrderItem, 0, len(cartItems))
	for _, item := range cartItems {
		if item.ProductID == nil || item.Product == nil {
			tx.Rollback()
			return nil, &ProductLookupError{CartItemID: item.ID}
		}

		orderItems = append(orderItems, models.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Product.Price,
		})
		total = total.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	if err := tx.Omit("Product", "Order").CreateInBatches(&orderItems, 100).Error; err != nil {
		tx.Rollback()
		return nil, &OrderCreationError{Err: err}
	}

	if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).
		Update("total_price", total).Error; err != nil {
		tx.Rollback()
		return nil, &OrderCreationError{Err: err}
	}

	// Clear the cart; the cart row itself survives for reuse.
	if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
		tx.Rollback()
		return nil, &OrderCreationError{Err: err}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, &OrderCreationError{Err: err}
	}

	order.TotalPrice = total
	order.Items = orderItems
	return &order, nil
}
