package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"commerce-platform/internal/models"
	"commerce-platform/internal/store"
)

func (h *Handler) listProducts(c *gin.Context) {
	products, err := h.productService.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) getProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	product, err := h.productService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handler) listProductsByCategory(c *gin.Context) {
	products, err := h.productService.GetByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) searchProducts(c *gin.Context) {
	name := c.Query("name")
	category := c.Query("category")
	minPrice, _ := strconv.ParseFloat(c.Query("minPrice"), 64)
	maxPrice, _ := strconv.ParseFloat(c.Query("maxPrice"), 64)
	inStock := c.Query("inStock") == "true"

	products, err := h.productService.Search(c.Request.Context(), name, category, minPrice, maxPrice, inStock)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

type productRequest struct {
	Name          string  `json:"name" binding:"required"`
	Description   string  `json:"description"`
	Price         float64 `json:"price" binding:"required,gt=0"`
	Category      string  `json:"category" binding:"required"`
	StockQuantity int     `json:"stockQuantity" binding:"gte=0"`
	ImageURL      string  `json:"imageUrl"`
}

func (r productRequest) toModel() models.Product {
	return models.Product{
		Name:          r.Name,
		Description:   r.Description,
		Price:         r.Price,
		Category:      r.Category,
		StockQuantity: r.StockQuantity,
		ImageURL:      r.ImageURL,
	}
}

func (h *Handler) createProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Name, positive price and category are required"})
		return
	}

	product := req.toModel()
	if err := h.productService.Create(c.Request.Context(), &product); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *Handler) createProductsBulk(c *gin.Context) {
	var reqs []productRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "A non-empty product array is required"})
		return
	}
	if len(reqs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "A non-empty product array is required"})
		return
	}

	products := make([]models.Product, 0, len(reqs))
	for _, r := range reqs {
		products = append(products, r.toModel())
	}

	if err := h.productService.CreateBulk(c.Request.Context(), products); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Products uploaded successfully",
		"count":   len(products),
	})
}

func (h *Handler) updateProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Name, positive price and category are required"})
		return
	}

	product := req.toModel()
	product.ProductID = id
	if err := h.productService.Update(c.Request.Context(), &product); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handler) updateStockQuantity(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	quantity, err := strconv.Atoi(c.Query("quantity"))
	if err != nil || quantity < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "A non-negative quantity is required"})
		return
	}

	if err := h.productService.UpdateStock(c.Request.Context(), id, quantity); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Stock quantity updated"})
}

// deductStockQuantity is the order-placement stock path: it deducts rather
// than overwrites, and any authenticated caller may use it.
func (h *Handler) deductStockQuantity(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	quantity, err := strconv.Atoi(c.Query("quantity"))
	if err != nil || quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "A positive quantity is required"})
		return
	}

	if err := h.productService.DeductStock(c.Request.Context(), id, quantity); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		case errors.Is(err, store.ErrInsufficientStock):
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		default:
			respondError(c, err)
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Stock quantity updated"})
}

func (h *Handler) productCount(c *gin.Context) {
	count, err := h.productService.Count(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (h *Handler) deleteProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.productService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}
