package client

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
)

// AdminUsers fetches every account. Requires an admin session.
func (c *Client) AdminUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.get(ctx, "/admin/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUser saves admin edits to an account.
func (c *Client) UpdateUser(ctx context.Context, user *User) error {
	return c.put(ctx, "/admin/users/"+strconv.FormatInt(user.ID, 10), nil, user, nil)
}

// DeleteUser removes an account.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.delete(ctx, "/admin/users/"+strconv.FormatInt(id, 10))
}

// CreateProduct adds a product to the catalog.
func (c *Client) CreateProduct(ctx context.Context, product *Product) error {
	return c.post(ctx, "/products", product, product)
}

// UpdateProduct saves edits to a product.
func (c *Client) UpdateProduct(ctx context.Context, product *Product) error {
	return c.put(ctx, "/products/"+strconv.FormatInt(product.ProductID, 10), nil, product, nil)
}

// UpdateStockQuantity sets a product's stock level.
func (c *Client) UpdateStockQuantity(ctx context.Context, productID int64, quantity int) error {
	query := url.Values{"quantity": {strconv.Itoa(quantity)}}
	return c.put(ctx, "/products/updateStockQuantity/"+strconv.FormatInt(productID, 10), query, nil, nil)
}

// DeleteProduct removes a product from the catalog.
func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.delete(ctx, "/products/"+strconv.FormatInt(id, 10))
}

// DashboardStats mirrors the admin dashboard counters.
type DashboardStats struct {
	TotalUsers      int64   `json:"totalUsers"`
	TotalProducts   int64   `json:"totalProducts"`
	TotalOrders     int64   `json:"totalOrders"`
	TotalRevenue    float64 `json:"totalRevenue"`
	PendingOrders   int64   `json:"pendingOrders"`
	CompletedOrders int64   `json:"completedOrders"`
}

// Dashboard fetches the admin dashboard counters.
func (c *Client) Dashboard(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	if err := c.get(ctx, "/admin/dashboard", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// ParseProductCSV reads a header-row CSV of products into records ready for
// bulk upload. Expected columns: name, description, price, category,
// stockQuantity, and optionally imageUrl; column order is free.
func ParseProductCSV(r io.Reader) ([]Product, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header row: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"name", "price", "category"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}

	field := func(record []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var products []Product
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++

		price, err := strconv.ParseFloat(field(record, "price"), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid price %q", line, field(record, "price"))
		}

		stock := 0
		if raw := field(record, "stockquantity"); raw != "" {
			stock, err = strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid stock quantity %q", line, raw)
			}
		}

		products = append(products, Product{
			Name:          field(record, "name"),
			Description:   field(record, "description"),
			Price:         price,
			Category:      field(record, "category"),
			StockQuantity: stock,
			ImageURL:      field(record, "imageurl"),
		})
	}

	if len(products) == 0 {
		return nil, fmt.Errorf("no product rows found")
	}
	return products, nil
}

// BulkUploadProducts submits a parsed product batch in one request and
// returns the backend's summary message.
func (c *Client) BulkUploadProducts(ctx context.Context, products []Product) (string, error) {
	var resp struct {
		Message string `json:"message"`
		Count   int    `json:"count"`
	}
	if err := c.post(ctx, "/products/bulk", products, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}
