package handlers

import (
	"net/http"
	"strconv"

	"ecom-backend/firebase"
	"ecom-backend/models"
	"ecom-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductHandler struct {
	DB      *gorm.DB
	Storage firebase.StorageClient
}

// GetProducts lists active products. Supports optional filters:
// category_id, search (name substring), and show_all=true for admins
// to include inactive products.
func (h *ProductHandler) GetProducts(c *gin.Context) {
	query := h.DB.Model(&models.Product{}).Preload("Category")

	showAll := c.Query("show_all") == "true"
	role, _ := c.Get("user_role")
	if !showAll || role != "admin" {
		query = query.Where("is_active = ?", true)
	}

	if categoryID := c.Query("category_id"); categoryID != "" {
		id, err := uuid.Parse(categoryID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
			return
		}
		query = query.Where("category_id = ?", id)
	}

	if search := c.Query("search"); search != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+search+"%")
	}

	var products []models.Product
	if err := query.Order("created_at DESC").Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var product models.Product
	if err := h.DB.Preload("Category").Preload("Reviews").First(&product, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	c.JSON(http.StatusOK, product)
}

// CreateProduct accepts multipart form data so an image can be attached
// in the same request. Image upload is optional.
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	name := c.PostForm("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product name is required"})
		return
	}

	price, err := decimal.NewFromString(c.PostForm("price"))
	if err != nil || price.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price"})
		return
	}

	categoryID, err := uuid.Parse(c.PostForm("category_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
		return
	}

	var category models.Category
	if err := h.DB.First(&category, "id = ?", categoryID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category not found"})
		return
	}

	stock := 0
	if s := c.PostForm("stock"); s != "" {
		stock, err = strconv.Atoi(s)
		if err != nil || stock < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid stock"})
			return
		}
	}

	product := models.Product{
		ID:          uuid.New(),
		CategoryID:  categoryID,
		Name:        name,
		Description: c.PostForm("description"),
		Price:       price,
		Stock:       stock,
		IsActive:    true,
	}

	fileHeader, err := c.FormFile("image")
	if err == nil {
		if err := utils.ValidateImageUpload(fileHeader); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read image"})
			return
		}
		defer file.Close()

		url, err := h.Storage.UploadProductImage(file, fileHeader.Filename, fileHeader.Header.Get("Content-Type"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image"})
			return
		}
		product.ImageURL = url
	}

	if err := h.DB.Omit("Category", "Reviews").Create(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var product models.Product
	if err := h.DB.First(&product, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	if name := c.PostForm("name"); name != "" {
		product.Name = name
	}
	if desc := c.PostForm("description"); desc != "" {
		product.Description = desc
	}
	if p := c.PostForm("price"); p != "" {
		price, err := decimal.NewFromString(p)
		if err != nil || price.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price"})
			return
		}
		product.Price = price
	}
	if s := c.PostForm("stock"); s != "" {
		stock, err := strconv.Atoi(s)
		if err != nil || stock < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid stock"})
			return
		}
		product.Stock = stock
	}
	if cid := c.PostForm("category_id"); cid != "" {
		categoryID, err := uuid.Parse(cid)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
			return
		}
		var category models.Category
		if err := h.DB.First(&category, "id = ?", categoryID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Category not found"})
			return
		}
		product.CategoryID = categoryID
	}
	if active := c.PostForm("is_active"); active != "" {
		product.IsActive = active == "true"
	}

	fileHeader, err := c.FormFile("image")
	if err == nil {
		if err := utils.ValidateImageUpload(fileHeader); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read image"})
			return
		}
		defer file.Close()

		url, err := h.Storage.UploadProductImage(file, fileHeader.Filename, fileHeader.Header.Get("Content-Type"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image"})
			return
		}
		product.ImageURL = url
	}

	if err := h.DB.Omit("Category", "Reviews").Save(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}

	c.JSON(http.StatusOK, product)
}

// DeleteProduct soft-deletes a product and detaches it from carts and
// past orders in the same transaction. Order items keep their snapshot
// price; only the product reference is nulled.
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var product models.Product
	if err := h.DB.First(&product, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	tx := h.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}

	if err := tx.Model(&models.OrderItem{}).Where("product_id = ?", id).
		Update("product_id", nil).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}

	if err := tx.Where("product_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}

	if err := tx.Delete(&product).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}
