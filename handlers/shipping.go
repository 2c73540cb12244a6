package handlers

import (
	"net/http"

	"ecom-backend/models"
	"ecom-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ShippingHandler struct {
	DB *gorm.DB
}

// AddShippingAddress attaches a shipping address to one of the
// caller's orders. Each order gets at most one address.
func (h *ShippingHandler) AddShippingAddress(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	var req struct {
		Address    string `json:"address" binding:"required"`
		City       string `json:"city" binding:"required"`
		PostalCode string `json:"postal_code" binding:"required"`
		Country    string `json:"country" binding:"required"`
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

	var existing models.ShippingAddress
	if err := h.DB.Where("order_id = ?", orderID).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Order already has a shipping address"})
		return
	}

	address := models.ShippingAddress{
		ID:         uuid.New(),
		OrderID:    orderID,
		Address:    req.Address,
		City:       req.City,
		PostalCode: req.PostalCode,
		Country:    req.Country,
	}

	if err := h.DB.Omit("Order").Create(&address).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save shipping address"})
		return
	}

	c.JSON(http.StatusCreated, address)
}
