package api

import (
	"context"
	"fmt"
	"net/http"
)

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, creds Credentials) (AuthResult, error) {
	var result AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", creds, &result); err != nil {
		return AuthResult{}, err
	}
	return result, nil
}

// Register creates an account and returns its bearer token.
func (c *Client) Register(ctx context.Context, reg Registration) (AuthResult, error) {
	var result AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/register", reg, &result); err != nil {
		return AuthResult{}, err
	}
	return result, nil
}

// Me resolves the current bearer token to a profile.
func (c *Client) Me(ctx context.Context) (Profile, error) {
	var profile Profile
	if err := c.do(ctx, http.MethodGet, "/users/me", nil, &profile); err != nil {
		return Profile{}, err
	}
	return profile, nil
}

// Products lists the catalog.
func (c *Client) Products(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.do(ctx, http.MethodGet, "/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Product fetches one catalog entry.
func (c *Client) Product(ctx context.Context, id int64) (Product, error) {
	var product Product
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/products/%d", id), nil, &product); err != nil {
		return Product{}, err
	}
	return product, nil
}

// CreateProduct adds a catalog entry for the calling vendor.
func (c *Client) CreateProduct(ctx context.Context, product NewProduct) (Product, error) {
	var created Product
	if err := c.do(ctx, http.MethodPost, "/products", product, &created); err != nil {
		return Product{}, err
	}
	return created, nil
}

// DeleteProduct removes one of the calling vendor's catalog entries.
func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/products/%d", id), nil, nil)
}

// Availability fetches current purchasable stock for a product.
func (c *Client) Availability(ctx context.Context, productID int64) (Availability, error) {
	var avail Availability
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/inventory/available/%d", productID), nil, &avail); err != nil {
		return Availability{}, err
	}
	return avail, nil
}

// Dashboard fetches the calling vendor's aggregate stats.
func (c *Client) Dashboard(ctx context.Context) (DashboardStats, error) {
	var stats DashboardStats
	if err := c.do(ctx, http.MethodGet, "/inventory/dashboard", nil, &stats); err != nil {
		return DashboardStats{}, err
	}
	return stats, nil
}

// MyInventory lists the calling vendor's inventory lines.
func (c *Client) MyInventory(ctx context.Context) ([]InventoryItem, error) {
	var items []InventoryItem
	if err := c.do(ctx, http.MethodGet, "/inventory/my-inventory", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Restock increments a product's stock by quantity.
func (c *Client) Restock(ctx context.Context, productID int64, quantity int) error {
	path := fmt.Sprintf("/inventory/restock/%d?quantity=%d", productID, quantity)
	return c.do(ctx, http.MethodPut, path, nil, nil)
}

// SubmitVendorApplication files the onboarding form.
func (c *Client) SubmitVendorApplication(ctx context.Context, app VendorApplicationRequest) error {
	return c.do(ctx, http.MethodPost, "/users/vendor-application", app, nil)
}

// Applications lists all vendor applications (admin only).
func (c *Client) Applications(ctx context.Context) ([]Application, error) {
	var apps []Application
	if err := c.do(ctx, http.MethodGet, "/admin/applications", nil, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

// ApproveApplication approves a vendor application (admin only).
func (c *Client) ApproveApplication(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/admin/applications/%d/approve", id), nil, nil)
}

// RejectApplication rejects a vendor application (admin only).
func (c *Client) RejectApplication(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/admin/applications/%d/reject", id), nil, nil)
}

// VendorStats fetches per-vendor performance rows (admin only).
func (c *Client) VendorStats(ctx context.Context) ([]VendorPerformance, error) {
	var stats []VendorPerformance
	if err := c.do(ctx, http.MethodGet, "/admin/vendor-stats", nil, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// CreateOrder submits an order.
func (c *Client) CreateOrder(ctx context.Context, order OrderRequest) (Order, error) {
	var created Order
	if err := c.do(ctx, http.MethodPost, "/orders", order, &created); err != nil {
		return Order{}, err
	}
	return created, nil
}

// Orders lists the calling customer's order history.
func (c *Client) Orders(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := c.do(ctx, http.MethodGet, "/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}
