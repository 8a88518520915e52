package routes

import (
	"github.com/gin-gonic/gin"

	"mystore/internal/handlers"
	"mystore/internal/middleware"
)

// SetupRouter wires middleware and routes. Authentication runs for
// every request (anonymous callers pass through); the capability table
// gates each resource group before any handler runs.
func SetupRouter(h *handlers.Handlers) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.RequestLogger(h.Logger),
		middleware.Recovery(h.Logger),
		middleware.Authenticate(h.Tokens, h.Users),
	)

	// --- Auth Routes (Public) ---
	router.POST("/register", h.Register)
	router.POST("/login", h.Login)
	router.POST("/admin-login", h.AdminLogin)
	router.GET("/admin-login", h.AdminStatus)
	router.POST("/admin-register", h.AdminRegister)

	// --- Product Routes ---
	products := router.Group("/products")
	products.Use(middleware.Authorize(middleware.ResourceProducts))
	{
		products.GET("", h.ListProducts)
		products.POST("", h.CreateProduct)
		products.GET("/info", h.ProductInfo)
		products.GET("/:id", h.GetProduct)
		products.PUT("/:id", h.UpdateProduct)
		products.PATCH("/:id", h.PatchProduct)
		products.DELETE("/:id", h.DeleteProduct)
	}

	// --- Order Routes (Login Required) ---
	orders := router.Group("/order")
	orders.Use(middleware.Authorize(middleware.ResourceOrders))
	{
		orders.GET("", h.ListOrders)
		orders.POST("", h.CreateOrder)
		orders.GET("/:id", h.GetOrder)
		orders.PUT("/:id", h.UpdateOrder)
		orders.PATCH("/:id", h.UpdateOrder)
		orders.DELETE("/:id", h.DeleteOrder)
	}

	return router
}
