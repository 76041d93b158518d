package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"commerce-platform/internal/models"
	"commerce-platform/internal/redisclient"
	"commerce-platform/internal/store"
	"commerce-platform/internal/util"
)

// ProductService owns the catalog, backed by Postgres with a short-lived
// Redis cache for the full listing.
type ProductService struct {
	store  *store.Store
	redis  *redisclient.Client
	logger *zap.Logger
}

// NewProductService creates a new product service
func NewProductService(st *store.Store, redis *redisclient.Client) *ProductService {
	return &ProductService{
		store:  st,
		redis:  redis,
		logger: util.GetLogger(),
	}
}

// GetAll returns the full catalog, served from cache when fresh.
func (ps *ProductService) GetAll(ctx context.Context) ([]models.Product, error) {
	ctx, span := util.StartSpan(ctx, "ProductService.GetAll")
	defer span.End()

	if ps.redis != nil {
		if cached, err := ps.redis.GetCatalog(ctx); err == nil {
			util.CatalogCacheHits.Inc()
			return cached, nil
		} else if !errors.Is(err, redisclient.ErrCacheMiss) {
			ps.logger.Warn("Catalog cache read failed", zap.Error(err))
		}
		util.CatalogCacheMisses.Inc()
	}

	products, err := ps.store.GetAllProducts(ctx)
	if err != nil {
		return nil, err
	}

	if ps.redis != nil {
		if err := ps.redis.SetCatalog(ctx, products); err != nil {
			ps.logger.Warn("Catalog cache write failed", zap.Error(err))
		}
	}
	return products, nil
}

// GetByID returns one product.
func (ps *ProductService) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	return ps.store.GetProductByID(ctx, id)
}

// GetByCategory returns products with an exact category match.
func (ps *ProductService) GetByCategory(ctx context.Context, category string) ([]models.Product, error) {
	return ps.store.GetProductsByCategory(ctx, category)
}

// SearchByName matches product names case-insensitively.
func (ps *ProductService) SearchByName(ctx context.Context, name string) ([]models.Product, error) {
	return ps.store.SearchProductsByName(ctx, name)
}

// Search applies the combined storefront filters.
func (ps *ProductService) Search(ctx context.Context, name, category string, minPrice, maxPrice float64, inStock bool) ([]models.Product, error) {
	return ps.store.SearchProducts(ctx, name, category, minPrice, maxPrice, inStock)
}

// Create inserts a product and invalidates the catalog cache.
func (ps *ProductService) Create(ctx context.Context, p *models.Product) error {
	if p.StockQuantity < 0 {
		return fmt.Errorf("stock quantity cannot be negative")
	}
	if err := ps.store.CreateProduct(ctx, p); err != nil {
		return err
	}
	ps.invalidateCatalog(ctx)
	ps.logger.Info("Product created", zap.Int64("product_id", p.ProductID), zap.String("name", p.Name))
	return nil
}

// CreateBulk inserts a batch of products in one transaction.
func (ps *ProductService) CreateBulk(ctx context.Context, products []models.Product) error {
	ctx, span := util.StartSpan(ctx, "ProductService.CreateBulk")
	defer span.End()

	for i := range products {
		if products[i].StockQuantity < 0 {
			return fmt.Errorf("stock quantity cannot be negative for %q", products[i].Name)
		}
	}
	if err := ps.store.CreateProductsBulk(ctx, products); err != nil {
		return err
	}
	ps.invalidateCatalog(ctx)
	ps.logger.Info("Bulk product upload", zap.Int("count", len(products)))
	return nil
}

// Update overwrites a product. Setting the stock to zero purges the product
// from every cart.
func (ps *ProductService) Update(ctx context.Context, p *models.Product) error {
	if p.StockQuantity < 0 {
		return fmt.Errorf("stock quantity cannot be negative")
	}
	if err := ps.store.UpdateProduct(ctx, p); err != nil {
		return err
	}
	if p.StockQuantity == 0 {
		if err := ps.store.DeleteCartItemsByProduct(ctx, p.ProductID); err != nil {
			ps.logger.Error("Failed to purge sold-out product from carts", zap.Error(err))
		}
	}
	ps.invalidateCatalog(ctx)
	return nil
}

// Delete removes a product from the catalog and from every cart.
func (ps *ProductService) Delete(ctx context.Context, id int64) error {
	if err := ps.store.DeleteCartItemsByProduct(ctx, id); err != nil {
		return fmt.Errorf("failed to purge product from carts: %w", err)
	}
	if err := ps.store.DeleteProduct(ctx, id); err != nil {
		return err
	}
	ps.invalidateCatalog(ctx)
	return nil
}

// UpdateStock sets a product's stock level directly. Setting it to zero
// purges the product from every cart.
func (ps *ProductService) UpdateStock(ctx context.Context, productID int64, quantity int) error {
	if quantity < 0 {
		return fmt.Errorf("stock quantity cannot be negative")
	}
	if err := ps.store.SetProductStock(ctx, productID, quantity); err != nil {
		return err
	}
	if quantity == 0 {
		if err := ps.store.DeleteCartItemsByProduct(ctx, productID); err != nil {
			ps.logger.Error("Failed to purge sold-out product from carts", zap.Error(err))
		}
	}
	ps.invalidateCatalog(ctx)
	return nil
}

// DeductStock removes quantity units from a product's stock, purging the
// product from carts when it sells out.
func (ps *ProductService) DeductStock(ctx context.Context, productID int64, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("quantity must be positive")
	}
	if err := ps.store.DecrementStockTx(ctx, productID, quantity); err != nil {
		return err
	}

	product, err := ps.store.GetProductByID(ctx, productID)
	if err == nil && product.StockQuantity == 0 {
		if err := ps.store.DeleteCartItemsByProduct(ctx, productID); err != nil {
			ps.logger.Error("Failed to purge sold-out product from carts", zap.Error(err))
		}
	}
	ps.invalidateCatalog(ctx)
	return nil
}

// Count returns the catalog size.
func (ps *ProductService) Count(ctx context.Context) (int64, error) {
	return ps.store.CountProducts(ctx)
}

func (ps *ProductService) invalidateCatalog(ctx context.Context) {
	if ps.redis == nil {
		return
	}
	if err := ps.redis.InvalidateCatalog(ctx); err != nil {
		ps.logger.Warn("Catalog cache invalidation failed", zap.Error(err))
	}
}
