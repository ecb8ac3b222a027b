// Package checkout orchestrates cart validation and order submission. The
// one invariant that matters: the cart is cleared if and only if order
// creation succeeded. There is no partial clear and no automatic retry.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/yarncraft/storefront/internal/api"
	"github.com/yarncraft/storefront/internal/cart"
	"github.com/yarncraft/storefront/internal/session"
)

// ErrLoginRequired is returned when an anonymous caller tries a customer
// action. Callers should redirect to session.RedirectLogin.
var ErrLoginRequired = errors.New("please log in first")

// ErrEmptyCart is returned when submit is called with nothing to order.
var ErrEmptyCart = errors.New("cart is empty")

// Shipping is the checkout form.
type Shipping struct {
	Street string
	City   string
	Zip    string
	Phone  string
}

// FieldErrors maps form field names to inline validation messages.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return "invalid fields: " + strings.Join(fields, ", ")
}

// StockIssue is one cart line that no longer fits available stock.
type StockIssue struct {
	ProductID int64
	Name      string
	Requested int
	Available int
}

// StockError reports cart lines rejected by the pre-submission stock check.
type StockError []StockIssue

func (e StockError) Error() string {
	parts := make([]string, len(e))
	for i, issue := range e {
		parts[i] = fmt.Sprintf("%s: want %d, have %d", issue.Name, issue.Requested, issue.Available)
	}
	return "insufficient stock: " + strings.Join(parts, "; ")
}

// Backend is the slice of the API checkout needs.
type Backend interface {
	Availability(ctx context.Context, productID int64) (api.Availability, error)
	CreateOrder(ctx context.Context, order api.OrderRequest) (api.Order, error)
}

// Coordinator ties the cart, the session and the order endpoint together.
type Coordinator struct {
	cart    *cart.Store
	session *session.Store
	backend Backend
	log     zerolog.Logger
}

// New creates a coordinator.
func New(cartStore *cart.Store, sessionStore *session.Store, backend Backend, log zerolog.Logger) *Coordinator {
	return &Coordinator{cart: cartStore, session: sessionStore, backend: backend, log: log}
}

// AddToCart adds a product for the current identity. Anonymous callers are
// refused with ErrLoginRequired and the cart is left unchanged.
func (c *Coordinator) AddToCart(product api.Product, amount int) (cart.Line, error) {
	if _, ok := c.session.Identity(); !ok {
		return cart.Line{}, ErrLoginRequired
	}
	return c.cart.Add(product, amount), nil
}

// Submit validates the shipping form and the cart, builds an order from the
// current cart snapshot and submits it. On success the cart is cleared; on
// any failure the cart is left exactly as it was.
func (c *Coordinator) Submit(ctx context.Context, shipping Shipping) (api.Order, error) {
	if c.cart.Len() == 0 {
		return api.Order{}, ErrEmptyCart
	}
	if _, ok := c.session.Identity(); !ok {
		return api.Order{}, ErrLoginRequired
	}
	if errs := validateShipping(shipping); len(errs) > 0 {
		return api.Order{}, errs
	}

	lines := c.cart.Lines()
	if err := c.checkStock(ctx, lines); err != nil {
		return api.Order{}, err
	}

	items := make([]api.OrderItem, len(lines))
	for i, line := range lines {
		items[i] = api.OrderItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     line.UnitPrice,
		}
	}
	request := api.OrderRequest{
		ShippingAddress: fmt.Sprintf("%s, %s %s", shipping.Street, shipping.City, shipping.Zip),
		Phone:           shipping.Phone,
		Items:           items,
		TotalAmount:     c.cart.Total(),
	}

	order, err := c.backend.CreateOrder(ctx, request)
	if err != nil {
		c.log.Warn().Err(err).Msg("checkout: order submission failed, cart kept")
		return api.Order{}, err
	}

	c.cart.Clear()
	c.log.Info().Int64("order_id", order.ID).Float64("total", order.TotalAmount).Msg("checkout: order placed")
	return order, nil
}

func validateShipping(s Shipping) FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(s.Street) == "" {
		errs["street"] = "street address is required"
	}
	if strings.TrimSpace(s.City) == "" {
		errs["city"] = "city is required"
	}
	if strings.TrimSpace(s.Zip) == "" {
		errs["zip"] = "zip code is required"
	}
	if strings.TrimSpace(s.Phone) == "" {
		errs["phone"] = "phone number is required"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// checkStock re-validates each line against live availability before the
// order is built. A line fails only when the server positively reports less
// stock than requested (a deleted product counts as zero); transport
// failures are logged and skipped, leaving the final word to order
// creation itself.
func (c *Coordinator) checkStock(ctx context.Context, lines []cart.Line) error {
	var issues StockError
	for _, line := range lines {
		avail, err := c.backend.Availability(ctx, line.ProductID)
		if err != nil {
			if api.IsNotFound(err) {
				issues = append(issues, StockIssue{
					ProductID: line.ProductID,
					Name:      line.Name,
					Requested: line.Quantity,
					Available: 0,
				})
				continue
			}
			c.log.Warn().Err(err).Int64("product_id", line.ProductID).
				Msg("checkout: stock pre-check unavailable, deferring to order creation")
			continue
		}
		if avail.AvailableStock < line.Quantity {
			issues = append(issues, StockIssue{
				ProductID: line.ProductID,
				Name:      line.Name,
				Requested: line.Quantity,
				Available: avail.AvailableStock,
			})
		}
	}
	if len(issues) > 0 {
		return issues
	}
	return nil
}
