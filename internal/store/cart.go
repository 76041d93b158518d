package store

import (
	"context"
	"database/sql"
	"fmt"

	"commerce-platform/internal/models"
)

// GetCartItems retrieves a user's cart joined with live product data.
// Lines whose product has disappeared or sold out are excluded.
func (s *Store) GetCartItems(ctx context.Context, userID int64) ([]models.CartItem, error) {
	query := `
		SELECT c.id, c.user_id, c.product_id, c.quantity,
		       p.name AS product_name, p.price, p.image_url
		FROM cart_items c
		JOIN products p ON p.product_id = c.product_id
		WHERE c.user_id = $1 AND p.stock_quantity > 0
		ORDER BY c.id`
	items := make([]models.CartItem, 0)
	err := s.db.SelectContext(ctx, &items, query, userID)
	return items, err
}

// GetCartItemByID retrieves a single cart line.
func (s *Store) GetCartItemByID(ctx context.Context, cartItemID int64) (*models.CartItem, error) {
	var item models.CartItem
	err := s.db.GetContext(ctx, &item,
		"SELECT id, user_id, product_id, quantity, '' AS product_name, 0 AS price, '' AS image_url FROM cart_items WHERE id = $1",
		cartItemID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("cart item %d: %w", cartItemID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetCartQuantity returns the quantity already carted for a (user, product)
// pair, zero when no line exists.
func (s *Store) GetCartQuantity(ctx context.Context, userID, productID int64) (int, error) {
	var quantity int
	err := s.db.GetContext(ctx, &quantity,
		"SELECT quantity FROM cart_items WHERE user_id = $1 AND product_id = $2", userID, productID)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return quantity, err
}

// UpsertCartItem merges quantity into the (user, product) line, creating it
// when absent, and returns the resulting quantity.
func (s *Store) UpsertCartItem(ctx context.Context, userID, productID int64, quantity int) (int, error) {
	query := `
		INSERT INTO cart_items (user_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
		RETURNING quantity`
	var newQuantity int
	err := s.db.GetContext(ctx, &newQuantity, query, userID, productID, quantity)
	return newQuantity, err
}

// SetCartItemQuantity overwrites a line's quantity.
func (s *Store) SetCartItemQuantity(ctx context.Context, cartItemID int64, quantity int) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE cart_items SET quantity = $1 WHERE id = $2", quantity, cartItemID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return fmt.Errorf("cart item %d: %w", cartItemID, ErrNotFound)
	}
	return err
}

// DeleteCartItem removes a single line.
func (s *Store) DeleteCartItem(ctx context.Context, cartItemID int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM cart_items WHERE id = $1", cartItemID)
	return err
}

// ClearCart removes every line for a user.
func (s *Store) ClearCart(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM cart_items WHERE user_id = $1", userID)
	return err
}

// DeleteCartItemsByProduct purges a product from every cart. Used when a
// product is deleted or its stock drops to zero.
func (s *Store) DeleteCartItemsByProduct(ctx context.Context, productID int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM cart_items WHERE product_id = $1", productID)
	return err
}
