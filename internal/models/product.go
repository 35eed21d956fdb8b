package models

import (
	"github.com/shopspring/decimal"
)

func init() {
	// Keep prices as plain JSON numbers so the data file stays hand-editable.
	decimal.MarshalJSONWithoutQuotes = true
}

// Category groups products; cart entries are keyed by category, not product.
type Category struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order,omitempty"`
}

// Product is a single inventory row. Stock is counted in cartons.
type Product struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Category    int             `json:"category"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	CartoonSize int             `json:"cartoon_size"`
	Image       string          `json:"image"`
	Stock       int             `json:"stock"`
}

// Banner is shown on the home page.
type Banner struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Image string `json:"image"`
}

// ProductForm binds the admin product create/edit form.
type ProductForm struct {
	Name        string `form:"name" binding:"required"`
	Category    int    `form:"category" binding:"required"`
	Description string `form:"description"`
	Price       string `form:"price"`
	CartoonSize string `form:"cartoon_size"`
	Stock       string `form:"stock"`
	ImageURL    string `form:"image_url"`
}

// CategoryForm binds the admin category create/edit form.
type CategoryForm struct {
	Name      string `form:"name" binding:"required"`
	SortOrder int    `form:"sort_order"`
}

// CategoryOrder is one element of a reorder request.
type CategoryOrder struct {
	ID        int `json:"id"`
	SortOrder int `json:"sort_order"`
}
