package models

// Document is the whole persisted data file. It is always read and written as one unit.
type Document struct {
	Categories []Category `json:"categories"`
	Products   []Product  `json:"products"`
	Banners    []Banner   `json:"banners"`
	Orders     []Order    `json:"orders"`
}

// NewDocument returns an empty document with non-nil collections.
func NewDocument() *Document {
	return &Document{
		Categories: []Category{},
		Products:   []Product{},
		Banners:    []Banner{},
		Orders:     []Order{},
	}
}

// Normalize replaces nil collections left by a sparse data file.
func (d *Document) Normalize() {
	if d.Categories == nil {
		d.Categories = []Category{}
	}
	if d.Products == nil {
		d.Products = []Product{}
	}
	if d.Banners == nil {
		d.Banners = []Banner{}
	}
	if d.Orders == nil {
		d.Orders = []Order{}
	}
}
