package handlers

import (
	"net/http"
	"time"

	"ecom-backend/models"
	"ecom-backend/payments"
	"ecom-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentHandler struct {
	DB      *gorm.DB
	Gateway payments.Gateway
}

// PayOrder charges the caller's order through the gateway and records
// the payment. The amount is always the order's stored total; the
// client never supplies it.
func (h *PaymentHandler) PayOrder(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	var req struct {
		PaymentMethod string `json:"payment_method" binding:"required"`
		PaymentID     string `json:"payment_id"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	var order models.Order
	if err := h.DB.Where("id = ? AND user_id = ?", orderID, userID).First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	if order.IsPaid {
		c.JSON(http.StatusConflict, gin.H{"error": "Order is already paid"})
		return
	}

	var existing models.Payment
	if err := h.DB.Where("order_id = ?", orderID).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Order already has a payment"})
		return
	}

	result, err := h.Gateway.Charge(payments.Charge{
		OrderID:   order.ID,
		Method:    req.PaymentMethod,
		Reference: req.PaymentID,
		Amount:    order.TotalPrice,
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Payment gateway error"})
		return
	}

	var paidAt *time.Time
	if result.Succeeded {
		t := result.PaidAt
		paidAt = &t
	}

	payment := models.Payment{
		ID:            uuid.New(),
		OrderID:       order.ID,
		PaymentMethod: req.PaymentMethod,
		PaymentID:     result.TransactionID,
		Amount:        order.TotalPrice,
		IsSuccessful:  result.Succeeded,
		PaidAt:        paidAt,
	}

	tx := h.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment"})
		return
	}

	if err := tx.Omit("Order").Create(&payment).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment"})
		return
	}

	if result.Succeeded {
		if err := tx.Model(&order).Update("is_paid", true).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment"})
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment"})
		return
	}

	c.JSON(http.StatusCreated, payment)
}
