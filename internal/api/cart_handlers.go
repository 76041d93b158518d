package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"commerce-platform/internal/models"
	"commerce-platform/internal/service"
	"commerce-platform/internal/store"
)

func (h *Handler) getCart(c *gin.Context) {
	claims := currentClaims(c)
	items, err := h.cartService.GetCart(c.Request.Context(), claims.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	summary := models.SummarizeCart(items)
	c.JSON(http.StatusOK, gin.H{
		"items":          items,
		"totalPrice":     summary.TotalPrice,
		"totalItems":     summary.TotalItems,
		"uniqueProducts": summary.UniqueProducts,
	})
}

func (h *Handler) cartTotal(c *gin.Context) {
	claims := currentClaims(c)
	summary, err := h.cartService.GetSummary(c.Request.Context(), claims.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": summary.TotalPrice})
}

func (h *Handler) cartSummary(c *gin.Context) {
	claims := currentClaims(c)
	summary, err := h.cartService.GetSummary(c.Request.Context(), claims.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

type addToCartRequest struct {
	ProductID int64 `json:"productId" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required,gt=0"`
}

func (h *Handler) addToCart(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Product id and a positive quantity are required"})
		return
	}

	claims := currentClaims(c)
	if err := h.cartService.AddItem(c.Request.Context(), claims.UserID, req.ProductID, req.Quantity); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
			return
		}
		if errors.Is(err, service.ErrOutOfStock) {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item added to cart"})
}

func (h *Handler) updateCartQuantity(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	quantity, err := strconv.Atoi(c.Query("quantity"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "A quantity is required"})
		return
	}

	if err := h.cartService.UpdateQuantity(c.Request.Context(), id, quantity); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Cart item not found"})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart updated"})
}

func (h *Handler) removeFromCart(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.cartService.RemoveItem(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
}

func (h *Handler) clearCart(c *gin.Context) {
	claims := currentClaims(c)
	if err := h.cartService.Clear(c.Request.Context(), claims.UserID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}
