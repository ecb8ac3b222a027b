// Package cart holds the active shopping cart. The cart belongs to the
// browsing session, not to an identity: it may exist before login and is
// deliberately not namespaced per user. Prices are captured at add time and
// may drift from the live catalog; stock is only authoritative at
// product-view and checkout time.
package cart

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"github.com/yarncraft/storefront/internal/api"
	"github.com/yarncraft/storefront/internal/localstore"
)

// Line is one product's accumulated quantity.
type Line struct {
	ProductID  int64   `json:"productId"`
	Name       string  `json:"name"`
	UnitPrice  float64 `json:"unitPrice"`
	VendorName string  `json:"vendorName"`
	Quantity   int     `json:"quantity"`
}

// Subtotal is the line's price contribution.
func (l Line) Subtotal() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

// Store is the cart. Every mutation persists the full snapshot before
// returning, so a restart resumes from the last mutation.
type Store struct {
	mu    sync.RWMutex
	local localstore.Store
	lines []Line
	log   zerolog.Logger
}

// New creates a store rehydrated from the persisted snapshot. A missing or
// unparsable snapshot degrades to an empty cart, never an error.
func New(local localstore.Store, log zerolog.Logger) *Store {
	s := &Store{local: local, log: log}
	raw, ok, err := local.Get(localstore.KeyCart)
	if err != nil {
		log.Warn().Err(err).Msg("cart: snapshot read failed, starting empty")
		return s
	}
	if !ok {
		return s
	}
	if err := json.Unmarshal(raw, &s.lines); err != nil {
		log.Warn().Err(err).Msg("cart: snapshot unparsable, starting empty")
		s.lines = nil
	}
	return s
}

// Add merges amount units of product into the cart: an existing line for
// the product grows by amount, otherwise a new line is appended. Amounts
// below one are treated as one. The resulting line is returned so the
// caller can acknowledge the addition.
func (s *Store) Add(product api.Product, amount int) Line {
	if amount < 1 {
		amount = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].ProductID == product.ID {
			s.lines[i].Quantity += amount
			s.persistLocked()
			return s.lines[i]
		}
	}
	line := Line{
		ProductID:  product.ID,
		Name:       product.Name,
		UnitPrice:  product.Price,
		VendorName: product.VendorName,
		Quantity:   amount,
	}
	s.lines = append(s.lines, line)
	s.persistLocked()
	return line
}

// SetQuantity replaces a line's quantity. Quantities below one are silently
// ignored: one is the floor, removal goes through Remove.
func (s *Store) SetQuantity(productID int64, quantity int) {
	if quantity < 1 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			s.lines[i].Quantity = quantity
			s.persistLocked()
			return
		}
	}
}

// Remove drops the line for productID. Absent lines are a no-op.
func (s *Store) Remove(productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.lines[:0]
	removed := false
	for _, line := range s.lines {
		if line.ProductID == productID {
			removed = true
			continue
		}
		kept = append(kept, line)
	}
	s.lines = kept
	if removed {
		s.persistLocked()
	}
}

// Clear empties the cart and removes the persisted snapshot. Called after
// a successful order submission.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
	if err := s.local.Delete(localstore.KeyCart); err != nil {
		s.log.Warn().Err(err).Msg("cart: snapshot delete failed")
	}
}

// Lines returns a copy of the cart contents in insertion order.
func (s *Store) Lines() []Line {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// Len returns the number of lines.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.lines)
}

// Total recomputes the cart total from the captured unit prices. It is
// never cached.
func (s *Store) Total() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total float64
	for _, line := range s.lines {
		total += line.Subtotal()
	}
	return total
}

func (s *Store) persistLocked() {
	snapshot, err := json.Marshal(s.lines)
	if err != nil {
		s.log.Warn().Err(err).Msg("cart: snapshot encode failed")
		return
	}
	if err := s.local.Set(localstore.KeyCart, snapshot); err != nil {
		s.log.Warn().Err(err).Msg("cart: snapshot persist failed, cart will not survive restart")
	}
}
