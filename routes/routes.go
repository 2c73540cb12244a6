package routes

import (
	"time"

	"ecom-backend/firebase"
	"ecom-backend/handlers"
	"ecom-backend/middleware"
	"ecom-backend/payments"
	"ecom-backend/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB, storage firebase.StorageClient, gateway payments.Gateway) {
	// Initialize handlers
	authHandler := &handlers.AuthHandler{DB: db}
	productHandler := &handlers.ProductHandler{DB: db, Storage: storage}
	categoryHandler := &handlers.CategoryHandler{DB: db}
	cartHandler := &handlers.CartHandler{DB: db}
	orderHandler := &handlers.OrderHandler{DB: db, Orders: &services.OrderService{DB: db}}
	shippingHandler := &handlers.ShippingHandler{DB: db}
	paymentHandler := &handlers.PaymentHandler{DB: db, Gateway: gateway}
	reviewHandler := &handlers.ReviewHandler{DB: db}

	// Brute-force protection on credential endpoints
	authLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Public routes
	api := r.Group("/api")
	{
		// Auth routes
		api.POST("/auth/register", authLimiter.Middleware(), authHandler.Register)
		api.POST("/auth/login", authLimiter.Middleware(), authHandler.Login)

		// Public product routes
		api.GET("/products", productHandler.GetProducts)
		api.GET("/products/:id", productHandler.GetProduct)
		api.GET("/products/:id/reviews", reviewHandler.GetReviews)

		// Public category routes
		api.GET("/categories", categoryHandler.GetCategories)
		api.GET("/categories/:id", categoryHandler.GetCategory)
	}

	// Protected routes (require authentication)
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	{
		// User profile
		protected.GET("/auth/profile", authHandler.GetProfile)
		protected.PUT("/auth/profile", authHandler.UpdateProfile)

		// Cart routes
		protected.GET("/cart", cartHandler.GetCart)
		protected.POST("/cart/items", cartHandler.AddToCart)
		protected.PUT("/cart/items/:itemId", cartHandler.UpdateCartItem)
		protected.DELETE("/cart/items/:itemId", cartHandler.RemoveFromCart)
		protected.DELETE("/cart", cartHandler.ClearCart)

		// Order routes
		protected.POST("/orders", orderHandler.CreateOrder)
		protected.GET("/orders", orderHandler.GetOrders)
		protected.GET("/orders/:id", orderHandler.GetOrder)
		protected.POST("/orders/:id/shipping", shippingHandler.AddShippingAddress)
		protected.POST("/orders/:id/payment", paymentHandler.PayOrder)

		// Review routes
		protected.POST("/products/:id/reviews", reviewHandler.CreateReview)
		protected.DELETE("/reviews/:reviewId", reviewHandler.DeleteReview)
	}

	// Admin routes (require admin role)
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.AdminMiddleware())
	{
		// Product management
		admin.GET("/products", productHandler.GetProducts)
		admin.POST("/products", productHandler.CreateProduct)
		admin.PUT("/products/:id", productHandler.UpdateProduct)
		admin.DELETE("/products/:id", productHandler.DeleteProduct)

		// Category management
		admin.POST("/categories", categoryHandler.CreateCategory)
		admin.PUT("/categories/:id", categoryHandler.UpdateCategory)
		admin.DELETE("/categories/:id", categoryHandler.DeleteCategory)

		// Order management
		admin.GET("/orders", orderHandler.GetAllOrders)
		admin.PUT("/orders/:id/status", orderHandler.UpdateOrderStatus)
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}
