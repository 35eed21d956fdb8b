package services

import (
	"context"
	"math/rand/v2"

	"sweetshop/internal/catalog"
	"sweetshop/internal/database"
	"sweetshop/internal/logger"
	"sweetshop/internal/metrics"
	"sweetshop/internal/models"
)

// Picker chooses an index in [0, n).
type Picker interface {
	IntN(n int) int
}

type randomPicker struct{}

func (randomPicker) IntN(n int) int { return rand.IntN(n) }

// CartService applies cart operations. Each pick re-reads the document and
// chooses a random product of the category to refresh the entry's snapshot.
type CartService struct {
	db      database.DocumentStore
	picker  Picker
	logg    *logger.Logger
	metrics *metrics.ShopMetrics
}

// NewCartService returns a cart service. A nil picker uses math/rand.
func NewCartService(db database.DocumentStore, picker Picker, logg *logger.Logger, m *metrics.ShopMetrics) *CartService {
	if picker == nil {
		picker = randomPicker{}
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &CartService{db: db, picker: picker, logg: logg, metrics: m}
}

// AddRandomFromCategory adds one carton of a randomly chosen product of the
// category and returns the new badge count. The cart is left untouched when
// the category has no products.
func (cs *CartService) AddRandomFromCategory(ctx context.Context, cart *models.Cart, categoryID int) (int, error) {
	doc, err := cs.db.Read()
	if err != nil {
		return cart.TotalCount(), err
	}

	snap, ok := cs.pick(doc, categoryID)
	if !ok {
		cs.metrics.IncCartAdd(false)
		cs.logg.Debug(cs.logg.WithField(ctx, "category_id", categoryID), "cart.add.empty_category")
		return cart.TotalCount(), ErrCategoryHasNoProducts
	}

	cart.Increment(models.CartKey(categoryID), snap)
	cs.metrics.IncCartAdd(true)
	cs.logg.Debug(cs.logg.WithFields(ctx, map[string]any{
		"category_id": categoryID,
		"image":       snap.Image,
		"cart_count":  cart.TotalCount(),
	}), "cart.add")
	return cart.TotalCount(), nil
}

// Increment adds a carton to key and re-rolls its snapshot. The entry is
// created when absent.
func (cs *CartService) Increment(ctx context.Context, cart *models.Cart, key string) error {
	categoryID, err := models.ParseCartKey(key)
	if err != nil {
		return err
	}
	doc, err := cs.db.Read()
	if err != nil {
		return err
	}
	snap, _ := cs.pick(doc, categoryID)
	cart.Increment(key, snap)
	return nil
}

// Decrement removes a carton from key. Above one carton the snapshot is
// re-rolled; at one carton the entry is dropped.
func (cs *CartService) Decrement(ctx context.Context, cart *models.Cart, key string) error {
	categoryID, err := models.ParseCartKey(key)
	if err != nil {
		return err
	}
	entry, ok := cart.Entry(key)
	if !ok || entry.Qty <= 1 {
		cart.Remove(key)
		return nil
	}
	doc, err := cs.db.Read()
	if err != nil {
		return err
	}
	snap, _ := cs.pick(doc, categoryID)
	cart.Decrement(key, snap)
	return nil
}

// Remove drops key from the cart.
func (cs *CartService) Remove(cart *models.Cart, key string) {
	cart.Remove(key)
}

// Clear empties the cart.
func (cs *CartService) Clear(cart *models.Cart) {
	cart.Clear()
}

func (cs *CartService) pick(doc *models.Document, categoryID int) (*models.CartSnapshot, bool) {
	products := catalog.ProductsByCategory(doc, categoryID)
	if len(products) == 0 {
		return nil, false
	}
	p := products[cs.picker.IntN(len(products))]
	snap := models.SnapshotOf(catalog.CategoryName(doc, categoryID), p)
	return &snap, true
}
