package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"commerce-platform/internal/auth"
	"commerce-platform/internal/broker"
	"commerce-platform/internal/models"
	"commerce-platform/internal/orderflow"
	"commerce-platform/internal/service"
)

// Handler contains HTTP handlers
type Handler struct {
	authService    *service.AuthService
	userService    *service.UserService
	productService *service.ProductService
	cartService    *service.CartService
	orderService   *service.OrderService
	publisher      *broker.EventPublisher
	tokens         *auth.TokenIssuer
}

// NewHandler creates a new HTTP handler
func NewHandler(
	authService *service.AuthService,
	userService *service.UserService,
	productService *service.ProductService,
	cartService *service.CartService,
	orderService *service.OrderService,
	publisher *broker.EventPublisher,
	tokens *auth.TokenIssuer,
) *Handler {
	return &Handler{
		authService:    authService,
		userService:    userService,
		productService: productService,
		cartService:    cartService,
		orderService:   orderService,
		publisher:      publisher,
		tokens:         tokens,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login", h.login)
		authGroup.POST("/register", h.register)
		authGroup.POST("/forgot-password", h.forgotPassword)
		authGroup.POST("/reset-password", h.resetPassword)

		authGroup.GET("/profile/:username", authRequired(h.tokens), h.getProfile)
		authGroup.PUT("/profile/:username", authRequired(h.tokens), h.updateProfile)
		authGroup.GET("/user/:id", authRequired(h.tokens), h.getUserByID)
		authGroup.POST("/change-password", authRequired(h.tokens), h.changePassword)
	}

	products := router.Group("/products")
	{
		products.GET("", h.listProducts)
		products.GET("/:id", h.getProduct)
		products.GET("/category/:category", h.listProductsByCategory)
		products.GET("/search", h.searchProducts)
		products.GET("/filter", h.searchProducts)

		products.PUT("/order/updateStockQuantity/:id", authRequired(h.tokens), h.deductStockQuantity)

		admin := products.Group("", authRequired(h.tokens), adminRequired())
		{
			admin.POST("", h.createProduct)
			admin.POST("/bulk", h.createProductsBulk)
			admin.PUT("/:id", h.updateProduct)
			admin.PUT("/updateStockQuantity/:id", h.updateStockQuantity)
			admin.DELETE("/:id", h.deleteProduct)
			admin.GET("/admin/analytics/count", h.productCount)
		}
	}

	cart := router.Group("/cart", authRequired(h.tokens))
	{
		cart.GET("/user", h.getCart)
		cart.GET("/total", h.cartTotal)
		cart.GET("/summary", h.cartSummary)
		cart.POST("/add", h.addToCart)
		cart.PUT("/update/:id", h.updateCartQuantity)
		cart.DELETE("/remove/:id", h.removeFromCart)
		cart.DELETE("/clear", h.clearCart)
	}

	orders := router.Group("/order", authRequired(h.tokens))
	{
		orders.POST("/create", h.createOrder)
		orders.GET("/user/details", h.getUserOrders)
		orders.GET("/:id", h.getOrder)
		orders.PUT("/cancel/:id", h.cancelOrder)

		admin := orders.Group("/admin", adminRequired())
		{
			admin.GET("/all", h.getAllOrders)
			admin.DELETE("/:id", h.deleteOrder)
			admin.GET("/analytics/count", h.orderCount)
			admin.GET("/analytics/revenue", h.orderRevenue)
			admin.GET("/analytics/pending/count", h.pendingOrderCount)
			admin.GET("/analytics/completed/count", h.completedOrderCount)
		}

		adminEdit := orders.Group("", adminRequired())
		{
			adminEdit.PUT("/status/:id", h.updateOrderStatus)
			adminEdit.PUT("/payment/:id", h.updatePaymentStatus)
			adminEdit.PUT("/tracking/:id", h.updateOrderTracking)
			adminEdit.PUT("/delivered/:id", h.markDelivered)
		}
	}

	adminUsers := router.Group("/admin", authRequired(h.tokens), adminRequired())
	{
		adminUsers.GET("/users", h.listUsers)
		adminUsers.POST("/users", h.createUser)
		adminUsers.GET("/users/:id", h.getUser)
		adminUsers.PUT("/users/:id", h.updateUser)
		adminUsers.DELETE("/users/:id", h.deleteUser)
		adminUsers.GET("/users/analytics/count", h.userCount)
		adminUsers.GET("/dashboard", h.dashboard)
	}

	router.POST("/notifications/contact", h.contact)
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// currentUser resolves the authenticated user record for the request.
func (h *Handler) currentUser(c *gin.Context) (*models.User, bool) {
	claims := currentClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
		return nil, false
	}
	user, err := h.authService.GetProfile(c.Request.Context(), claims.Username)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Account no longer exists"})
		return nil, false
	}
	return user, true
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid id"})
		return 0, false
	}
	return id, true
}

// respondError maps service errors onto the response contract: a message
// field, plus field-scoped errors when validation failed.
func respondError(c *gin.Context, err error) {
	var fieldErrs orderflow.FieldErrors
	if errors.As(err, &fieldErrs) {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Validation failed",
			"errors":  fieldErrs,
		})
		return
	}

	switch {
	case errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"message": "Access denied"})
	case errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrOutOfStock),
		errors.Is(err, service.ErrPaymentDeclined),
		errors.Is(err, auth.ErrWeakPassword):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
	}
}
