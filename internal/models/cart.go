package models

import (
	"errors"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const cartKeyPrefix = "category_"

// ErrInvalidCartKey is returned for keys that are not of the form "category_<id>".
var ErrInvalidCartKey = errors.New("invalid cart key")

// CartKey builds the synthetic cart key for a category.
func CartKey(categoryID int) string {
	return cartKeyPrefix + strconv.Itoa(categoryID)
}

// ParseCartKey extracts the category id from a cart key.
func ParseCartKey(key string) (int, error) {
	raw, ok := strings.CutPrefix(key, cartKeyPrefix)
	if !ok {
		return 0, ErrInvalidCartKey
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, ErrInvalidCartKey
	}
	return id, nil
}

// CartSnapshot caches display and pricing data of the last product picked
// into a cart entry. It is not tied to a product id.
type CartSnapshot struct {
	CategoryName string          `json:"categoryName"`
	Image        string          `json:"image"`
	Price        decimal.Decimal `json:"price"`
	CartoonSize  int             `json:"cartoon_size"`
}

// SnapshotOf captures the cart-relevant fields of a product.
func SnapshotOf(categoryName string, p Product) CartSnapshot {
	return CartSnapshot{
		CategoryName: categoryName,
		Image:        p.Image,
		Price:        p.Price,
		CartoonSize:  p.CartoonSize,
	}
}

// CartEntry is one category pick. Qty is counted in cartons and is never below 1.
type CartEntry struct {
	Key      string        `json:"key"`
	Qty      int           `json:"qty"`
	Snapshot *CartSnapshot `json:"snapshot,omitempty"`
}

// Cart is the per-visitor cart. Entries keep insertion order.
type Cart struct {
	Entries []CartEntry `json:"entries"`
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{Entries: []CartEntry{}}
}

func (c *Cart) index(key string) int {
	for i := range c.Entries {
		if c.Entries[i].Key == key {
			return i
		}
	}
	return -1
}

// Entry returns the entry for key, if present.
func (c *Cart) Entry(key string) (CartEntry, bool) {
	if i := c.index(key); i >= 0 {
		return c.Entries[i], true
	}
	return CartEntry{}, false
}

// Increment adds one carton to key, creating the entry when absent. A non-nil
// snapshot replaces the cached one.
func (c *Cart) Increment(key string, snap *CartSnapshot) {
	i := c.index(key)
	if i < 0 {
		c.Entries = append(c.Entries, CartEntry{Key: key})
		i = len(c.Entries) - 1
	}
	c.Entries[i].Qty++
	if snap != nil {
		s := *snap
		c.Entries[i].Snapshot = &s
	}
}

// Decrement removes one carton from key. An entry at quantity 1 is removed
// together with its snapshot. It reports whether the entry still exists.
func (c *Cart) Decrement(key string, snap *CartSnapshot) bool {
	i := c.index(key)
	if i < 0 {
		return false
	}
	if c.Entries[i].Qty <= 1 {
		c.Remove(key)
		return false
	}
	c.Entries[i].Qty--
	if snap != nil {
		s := *snap
		c.Entries[i].Snapshot = &s
	}
	return true
}

// Remove deletes key and its snapshot.
func (c *Cart) Remove(key string) {
	if i := c.index(key); i >= 0 {
		c.Entries = append(c.Entries[:i], c.Entries[i+1:]...)
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Entries = []CartEntry{}
}

// IsEmpty reports whether the cart has no entries.
func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Entries) == 0
}

// TotalCount is the number of cartons in the cart, used for the header badge.
func (c *Cart) TotalCount() int {
	if c == nil {
		return 0
	}
	total := 0
	for _, e := range c.Entries {
		total += e.Qty
	}
	return total
}

// CartLine is one row of the rendered cart.
type CartLine struct {
	CategoryKey  string
	CategoryName string
	Image        string
	Qty          int
	CartoonSize  int
	TotalPieces  int
	Price        decimal.Decimal
	LineTotal    decimal.Decimal
}

// CartView is the cart as displayed.
type CartView struct {
	Lines    []CartLine
	Subtotal decimal.Decimal
	Total    decimal.Decimal
}

// LineItems prices the cart from the cached snapshots. Entries without a
// snapshot are not displayed.
func (c *Cart) LineItems() CartView {
	view := CartView{Lines: []CartLine{}, Subtotal: decimal.Zero}
	if c == nil {
		view.Total = view.Subtotal
		return view
	}
	for _, e := range c.Entries {
		if e.Snapshot == nil {
			continue
		}
		pieces := e.Qty * e.Snapshot.CartoonSize
		lineTotal := decimal.NewFromInt(int64(pieces)).Mul(e.Snapshot.Price)
		view.Subtotal = view.Subtotal.Add(lineTotal)
		view.Lines = append(view.Lines, CartLine{
			CategoryKey:  e.Key,
			CategoryName: e.Snapshot.CategoryName,
			Image:        e.Snapshot.Image,
			Qty:          e.Qty,
			CartoonSize:  e.Snapshot.CartoonSize,
			TotalPieces:  pieces,
			Price:        e.Snapshot.Price,
			LineTotal:    lineTotal,
		})
	}
	view.Total = view.Subtotal
	return view
}
