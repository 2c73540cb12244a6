package handlers

import (
	"errors"
	"net/http"

	"ecom-backend/models"
	"ecom-backend/services"
	"ecom-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderHandler struct {
	DB     *gorm.DB
	Orders *services.OrderService
}

// CreateOrder converts the caller's cart into an order. The heavy
// lifting lives in services.OrderService so the transaction boundary
// is testable without HTTP.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	order, err := h.Orders.PlaceOrder(userID)
	if err != nil {
		var lookupErr *services.ProductLookupError
		var creationErr *services.OrderCreationError

		switch {
		case errors.Is(err, services.ErrEmptyCart):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
		case errors.As(err, &lookupErr):
			c.JSON(http.StatusConflict, gin.H{"error": lookupErr.Error()})
		case errors.As(err, &creationErr):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		}
		return
	}

	// Confirmation email is best-effort and non-blocking.
	var user models.User
	if err := h.DB.First(&user, "id = ?", userID).Error; err == nil {
		utils.SendOrderConfirmation(user.Email, user.Name, order.ID.String(), order.TotalPrice.StringFixed(2))
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Order placed successfully",
		"order_id":    order.ID,
		"total_price": order.TotalPrice,
	})
}

func (h *OrderHandler) GetOrders(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	var orders []models.Order
	err := h.DB.Preload("Items").Preload("Items.Product").
		Preload("ShippingAddress").Preload("Payment").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	query := h.DB.Preload("Items").Preload("Items.Product").
		Preload("ShippingAddress").Preload("Payment")

	// Admins can view any order; customers only their own.
	role, _ := c.Get("user_role")
	if role != "admin" {
		query = query.Where("user_id = ?", userID)
	}

	var order models.Order
	if err := query.First(&order, "id = ?", orderID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	c.JSON(http.StatusOK, order)
}

// GetAllOrders is the admin listing across all users.
func (h *OrderHandler) GetAllOrders(c *gin.Context) {
	query := h.DB.Preload("Items").Preload("ShippingAddress").Preload("Payment").Preload("User")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var orders []models.Order
	if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, orders)
}

// UpdateOrderStatus moves an order through the status state machine.
// Invalid transitions (e.g. Delivered back to Pending) are rejected.
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	var req struct {
		Status models.OrderStatus `json:"status" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	var order models.Order
	if err := h.DB.First(&order, "id = ?", orderID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	if !models.IsValidTransition(order.Status, req.Status) {
		c.JSON(http.StatusConflict, gin.H{
			"error": "Cannot transition order from " + string(order.Status) + " to " + string(req.Status),
		})
		return
	}

	if err := h.DB.Model(&order).Update("status", req.Status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order status"})
		return
	}

	order.Status = req.Status
	c.JSON(http.StatusOK, order)
}
