package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"commerce-platform/internal/models"
	"commerce-platform/internal/store"
	"commerce-platform/internal/util"
)

// ErrOutOfStock is returned when a cart mutation would exceed available stock.
var ErrOutOfStock = errors.New("product is out of stock")

// CartService owns the server-side cart.
type CartService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewCartService creates a new cart service
func NewCartService(st *store.Store) *CartService {
	return &CartService{
		store:  st,
		logger: util.GetLogger(),
	}
}

// GetCart returns the user's cart lines joined with live product data.
func (cs *CartService) GetCart(ctx context.Context, userID int64) ([]models.CartItem, error) {
	return cs.store.GetCartItems(ctx, userID)
}

// GetSummary returns the cart totals.
func (cs *CartService) GetSummary(ctx context.Context, userID int64) (models.CartSummary, error) {
	items, err := cs.store.GetCartItems(ctx, userID)
	if err != nil {
		return models.CartSummary{}, err
	}
	return models.SummarizeCart(items), nil
}

// AddItem merges quantity into the user's line for the product, stock-checked
// against the combined quantity.
func (cs *CartService) AddItem(ctx context.Context, userID, productID int64, quantity int) error {
	ctx, span := util.StartSpan(ctx, "CartService.AddItem")
	defer span.End()

	if quantity <= 0 {
		return fmt.Errorf("quantity must be positive")
	}

	product, err := cs.store.GetProductByID(ctx, productID)
	if err != nil {
		return err
	}
	if product.StockQuantity <= 0 || product.StockQuantity < quantity {
		return fmt.Errorf("%w: %s", ErrOutOfStock, product.Name)
	}

	existing, err := cs.store.GetCartQuantity(ctx, userID, productID)
	if err != nil {
		return err
	}
	if product.StockQuantity < existing+quantity {
		return fmt.Errorf("%w: only %d of %s available", ErrOutOfStock, product.StockQuantity, product.Name)
	}

	newQuantity, err := cs.store.UpsertCartItem(ctx, userID, productID, quantity)
	if err != nil {
		return fmt.Errorf("failed to add cart item: %w", err)
	}

	cs.logger.Info("Cart item added",
		zap.Int64("user_id", userID),
		zap.Int64("product_id", productID),
		zap.Int("quantity", newQuantity))
	return nil
}

// UpdateQuantity overwrites a line's quantity. Zero or negative deletes the
// line, mirroring the storefront behavior.
func (cs *CartService) UpdateQuantity(ctx context.Context, cartItemID int64, quantity int) error {
	ctx, span := util.StartSpan(ctx, "CartService.UpdateQuantity")
	defer span.End()

	if quantity <= 0 {
		return cs.RemoveItem(ctx, cartItemID)
	}

	item, err := cs.store.GetCartItemByID(ctx, cartItemID)
	if err != nil {
		return err
	}
	product, err := cs.store.GetProductByID(ctx, item.ProductID)
	if err != nil {
		return err
	}
	if product.StockQuantity < quantity {
		return fmt.Errorf("%w: only %d of %s available", ErrOutOfStock, product.StockQuantity, product.Name)
	}

	return cs.store.SetCartItemQuantity(ctx, cartItemID, quantity)
}

// RemoveItem deletes a single line.
func (cs *CartService) RemoveItem(ctx context.Context, cartItemID int64) error {
	return cs.store.DeleteCartItem(ctx, cartItemID)
}

// Clear empties the user's cart.
func (cs *CartService) Clear(ctx context.Context, userID int64) error {
	return cs.store.ClearCart(ctx, userID)
}
