// Package catalog holds read-only views over a loaded shop document.
package catalog

import (
	"sort"

	"sweetshop/internal/models"
)

// DefaultLowStockThreshold is the carton count at or below which a product is flagged.
const DefaultLowStockThreshold = 5

// UnknownCategory is shown for order lines whose category no longer exists.
const UnknownCategory = "N/A"

// NextID returns max(id)+1, or 1 for an empty list.
func NextID[T any](list []T, id func(T) int) int {
	highest := 0
	for _, item := range list {
		if v := id(item); v > highest {
			highest = v
		}
	}
	return highest + 1
}

func NextProductID(doc *models.Document) int {
	return NextID(doc.Products, func(p models.Product) int { return p.ID })
}

func NextCategoryID(doc *models.Document) int {
	return NextID(doc.Categories, func(c models.Category) int { return c.ID })
}

// ProductByID returns a pointer into doc so callers can mutate the row in place.
func ProductByID(doc *models.Document, id int) (*models.Product, bool) {
	for i := range doc.Products {
		if doc.Products[i].ID == id {
			return &doc.Products[i], true
		}
	}
	return nil, false
}

func CategoryByID(doc *models.Document, id int) (*models.Category, bool) {
	for i := range doc.Categories {
		if doc.Categories[i].ID == id {
			return &doc.Categories[i], true
		}
	}
	return nil, false
}

// CategoryName returns the category name or an empty string when missing.
func CategoryName(doc *models.Document, id int) string {
	if c, ok := CategoryByID(doc, id); ok {
		return c.Name
	}
	return ""
}

// ProductsByCategory returns the products of a category in document order.
func ProductsByCategory(doc *models.Document, categoryID int) []models.Product {
	out := []models.Product{}
	for _, p := range doc.Products {
		if p.Category == categoryID {
			out = append(out, p)
		}
	}
	return out
}

// SortedCategories orders categories by sort_order, keeping insertion order on ties.
func SortedCategories(doc *models.Document) []models.Category {
	out := make([]models.Category, len(doc.Categories))
	copy(out, doc.Categories)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SortOrder < out[j].SortOrder
	})
	return out
}

// LowStock lists products whose stock is at or below threshold.
func LowStock(doc *models.Document, threshold int) []models.Product {
	out := []models.Product{}
	for _, p := range doc.Products {
		if p.Stock <= threshold {
			out = append(out, p)
		}
	}
	return out
}

// FirstProductPerCategory maps each category id to its first product, if any.
// The home page shows it as the category's cover.
func FirstProductPerCategory(doc *models.Document) map[int]models.Product {
	out := make(map[int]models.Product, len(doc.Categories))
	for _, c := range doc.Categories {
		for _, p := range doc.Products {
			if p.Category == c.ID {
				out[c.ID] = p
				break
			}
		}
	}
	return out
}

// CategoryGroup pairs a category with its products.
type CategoryGroup struct {
	Category models.Category
	Products []models.Product
}

// GroupByCategory returns every category, in display order, with its products.
func GroupByCategory(doc *models.Document) []CategoryGroup {
	cats := SortedCategories(doc)
	out := make([]CategoryGroup, 0, len(cats))
	for _, c := range cats {
		out = append(out, CategoryGroup{Category: c, Products: ProductsByCategory(doc, c.ID)})
	}
	return out
}

// FindBySnapshot re-identifies a product from a cart snapshot by image and
// category. The first match in document order wins.
func FindBySnapshot(doc *models.Document, categoryID int, image string) (*models.Product, bool) {
	for i := range doc.Products {
		p := &doc.Products[i]
		if p.Image == image && p.Category == categoryID {
			return p, true
		}
	}
	return nil, false
}
