package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"commerce-platform/internal/models"
)

// ErrInsufficientStock is returned when a stock deduction exceeds what is
// available.
var ErrInsufficientStock = errors.New("insufficient stock")

// CreateProduct inserts a product and fills in the generated ID.
func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	query := `
		INSERT INTO products (name, description, price, category, stock_quantity, image_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING product_id, created_at`

	return s.db.GetContext(ctx, p, query,
		p.Name, p.Description, p.Price, p.Category, p.StockQuantity, p.ImageURL)
}

// CreateProductsBulk inserts a batch of products in one transaction.
func (s *Store) CreateProductsBulk(ctx context.Context, products []models.Product) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO products (name, description, price, category, stock_quantity, image_url)
		VALUES ($1, $2, $3, $4, $5, $6)`

	for i := range products {
		p := &products[i]
		if _, err := tx.ExecContext(ctx, query,
			p.Name, p.Description, p.Price, p.Category, p.StockQuantity, p.ImageURL); err != nil {
			return fmt.Errorf("insert product %q: %w", p.Name, err)
		}
	}

	return tx.Commit()
}

// GetProductByID retrieves a product by ID
func (s *Store) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	var p models.Product
	err := s.db.GetContext(ctx, &p, "SELECT * FROM products WHERE product_id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetAllProducts retrieves the full catalog
func (s *Store) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.db.SelectContext(ctx, &products, "SELECT * FROM products ORDER BY product_id")
	return products, err
}

// GetProductsByCategory retrieves products with an exact category match.
func (s *Store) GetProductsByCategory(ctx context.Context, category string) ([]models.Product, error) {
	var products []models.Product
	err := s.db.SelectContext(ctx, &products,
		"SELECT * FROM products WHERE category = $1 ORDER BY product_id", category)
	return products, err
}

// SearchProductsByName matches product names case-insensitively.
func (s *Store) SearchProductsByName(ctx context.Context, name string) ([]models.Product, error) {
	var products []models.Product
	err := s.db.SelectContext(ctx, &products,
		"SELECT * FROM products WHERE name ILIKE '%' || $1 || '%' ORDER BY product_id", name)
	return products, err
}

// SearchProducts applies the optional filters the storefront exposes.
// Zero values disable the corresponding filter.
func (s *Store) SearchProducts(ctx context.Context, name, category string, minPrice, maxPrice float64, inStock bool) ([]models.Product, error) {
	query := `
		SELECT * FROM products
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%')
		  AND ($2 = '' OR category = $2)
		  AND ($3 <= 0 OR price >= $3)
		  AND ($4 <= 0 OR price <= $4)
		  AND (NOT $5 OR stock_quantity > 0)
		ORDER BY product_id`
	var products []models.Product
	err := s.db.SelectContext(ctx, &products, query, name, category, minPrice, maxPrice, inStock)
	return products, err
}

// UpdateProduct overwrites a product's catalog fields.
func (s *Store) UpdateProduct(ctx context.Context, p *models.Product) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE products SET name = $1, description = $2, price = $3, category = $4,
		 stock_quantity = $5, image_url = $6 WHERE product_id = $7`,
		p.Name, p.Description, p.Price, p.Category, p.StockQuantity, p.ImageURL, p.ProductID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return fmt.Errorf("product %d: %w", p.ProductID, ErrNotFound)
	}
	return err
}

// DecrementStockTx atomically deducts quantity from a product's stock,
// rejecting the deduction when stock is insufficient (FOR UPDATE lock).
func (s *Store) DecrementStockTx(ctx context.Context, productID int64, quantity int) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var available int
	err = tx.GetContext(ctx, &available,
		"SELECT stock_quantity FROM products WHERE product_id = $1 FOR UPDATE", productID)
	if err == sql.ErrNoRows {
		return fmt.Errorf("product %d: %w", productID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to lock product row: %w", err)
	}

	if available < quantity {
		return fmt.Errorf("%w: available=%d, requested=%d", ErrInsufficientStock, available, quantity)
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE products SET stock_quantity = stock_quantity - $1 WHERE product_id = $2",
		quantity, productID)
	if err != nil {
		return fmt.Errorf("failed to decrement stock: %w", err)
	}

	return tx.Commit()
}

// SetProductStock overwrites a product's stock level.
func (s *Store) SetProductStock(ctx context.Context, productID int64, quantity int) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE products SET stock_quantity = $1 WHERE product_id = $2", quantity, productID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return fmt.Errorf("product %d: %w", productID, ErrNotFound)
	}
	return err
}

// DeleteProduct removes a product.
func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM products WHERE product_id = $1", id)
	return err
}

// CountProducts returns the catalog size.
func (s *Store) CountProducts(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM products")
	return count, err
}
