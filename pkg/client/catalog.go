package client

import (
	"context"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// SortKey selects a catalog ordering.
type SortKey string

const (
	SortByName      SortKey = "name"
	SortByPriceLow  SortKey = "price-low"
	SortByPriceHigh SortKey = "price-high"
	SortByStock     SortKey = "stock"
)

// ListProducts fetches the full catalog.
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.get(ctx, "/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct fetches one product by id.
func (c *Client) GetProduct(ctx context.Context, id int64) (*Product, error) {
	var product Product
	if err := c.get(ctx, "/products/"+strconv.FormatInt(id, 10), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// ListProductsByCategory fetches the products in one category.
func (c *Client) ListProductsByCategory(ctx context.Context, category string) ([]Product, error) {
	var products []Product
	if err := c.get(ctx, "/products/category/"+url.PathEscape(category), nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// FilterProducts narrows a catalog snapshot by substring match on name or
// description and, when category is non-empty, an exact category match.
func FilterProducts(products []Product, search, category string) []Product {
	search = strings.ToLower(strings.TrimSpace(search))

	var out []Product
	for _, p := range products {
		if category != "" && p.Category != category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// SortProducts orders a catalog snapshot in place by the given key.
// Unknown keys leave the order untouched.
func SortProducts(products []Product, key SortKey) {
	switch key {
	case SortByName:
		sort.SliceStable(products, func(i, j int) bool {
			return strings.ToLower(products[i].Name) < strings.ToLower(products[j].Name)
		})
	case SortByPriceLow:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price < products[j].Price
		})
	case SortByPriceHigh:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price > products[j].Price
		})
	case SortByStock:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].StockQuantity > products[j].StockQuantity
		})
	}
}
