package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"sweetshop/internal/catalog"
	"sweetshop/internal/database"
	"sweetshop/internal/logger"
	"sweetshop/internal/models"
)

const (
	// DefaultCartoonSize is used when the product form leaves carton size empty.
	DefaultCartoonSize = 20
	// PlaceholderImage is used for products created without an image.
	PlaceholderImage = "/media/placeholder-product.png"

	// OrderFilterAll disables the order date filter.
	OrderFilterAll = "all"
)

// AdminService implements the catalog and order management screens.
type AdminService struct {
	db   database.DocumentStore
	logg *logger.Logger
	now  func() time.Time
}

func NewAdminService(db database.DocumentStore, logg *logger.Logger) *AdminService {
	if logg == nil {
		logg = logger.Nop()
	}
	return &AdminService{db: db, logg: logg, now: time.Now}
}

// --- Categories ---

func (s *AdminService) CreateCategory(ctx context.Context, form models.CategoryForm) (models.Category, error) {
	name := strings.TrimSpace(form.Name)
	if name == "" {
		return models.Category{}, fmt.Errorf("%w: category name is required", ErrInvalidInput)
	}
	doc, err := s.db.Read()
	if err != nil {
		return models.Category{}, err
	}
	cat := models.Category{ID: catalog.NextCategoryID(doc), Name: name, SortOrder: form.SortOrder}
	doc.Categories = append(doc.Categories, cat)
	if err := s.db.Write(doc); err != nil {
		return models.Category{}, err
	}
	s.logg.Info(s.logg.WithField(ctx, "category_id", cat.ID), "category.created")
	return cat, nil
}

// UpdateCategory changes a category's name and sort order.
func (s *AdminService) UpdateCategory(ctx context.Context, id int, form models.CategoryForm) error {
	name := strings.TrimSpace(form.Name)
	if name == "" {
		return fmt.Errorf("%w: category name is required", ErrInvalidInput)
	}
	doc, err := s.db.Read()
	if err != nil {
		return err
	}
	cat, ok := catalog.CategoryByID(doc, id)
	if !ok {
		return ErrNotFound
	}
	cat.Name = name
	cat.SortOrder = form.SortOrder
	return s.db.Write(doc)
}

// DeleteCategory removes a category together with all of its products and
// returns how many products were removed.
func (s *AdminService) DeleteCategory(ctx context.Context, id int) (int, error) {
	doc, err := s.db.Read()
	if err != nil {
		return 0, err
	}
	if _, ok := catalog.CategoryByID(doc, id); !ok {
		return 0, ErrNotFound
	}

	categories := make([]models.Category, 0, len(doc.Categories))
	for _, c := range doc.Categories {
		if c.ID != id {
			categories = append(categories, c)
		}
	}
	products := make([]models.Product, 0, len(doc.Products))
	removed := 0
	for _, p := range doc.Products {
		if p.Category == id {
			removed++
			continue
		}
		products = append(products, p)
	}
	doc.Categories = categories
	doc.Products = products

	if err := s.db.Write(doc); err != nil {
		return 0, err
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{"category_id": id, "products_removed": removed}), "category.deleted")
	return removed, nil
}

// ReorderCategories applies the given sort orders verbatim. Unknown ids are ignored.
func (s *AdminService) ReorderCategories(ctx context.Context, order []models.CategoryOrder) error {
	doc, err := s.db.Read()
	if err != nil {
		return err
	}
	for _, o := range order {
		if cat, ok := catalog.CategoryByID(doc, o.ID); ok {
			cat.SortOrder = o.SortOrder
		}
	}
	return s.db.Write(doc)
}

// --- Products ---

// ProductInput is a parsed product form.
type ProductInput struct {
	Name        string
	Category    int
	Description string
	Price       decimal.Decimal
	CartoonSize int
	Stock       int
	ImageURL    string
}

// ParseProductForm converts form strings. Empty numeric fields fall back to
// price 0, carton size 20 and stock 0.
func ParseProductForm(form models.ProductForm) (ProductInput, error) {
	in := ProductInput{
		Name:        strings.TrimSpace(form.Name),
		Category:    form.Category,
		Description: strings.TrimSpace(form.Description),
		Price:       decimal.Zero,
		CartoonSize: DefaultCartoonSize,
		ImageURL:    strings.TrimSpace(form.ImageURL),
	}
	if in.Name == "" {
		return in, fmt.Errorf("%w: product name is required", ErrInvalidInput)
	}
	if v := strings.TrimSpace(form.Price); v != "" {
		price, err := decimal.NewFromString(v)
		if err != nil || price.IsNegative() {
			return in, fmt.Errorf("%w: price %q", ErrInvalidInput, v)
		}
		in.Price = price
	}
	if v := strings.TrimSpace(form.CartoonSize); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil || size <= 0 {
			return in, fmt.Errorf("%w: carton size %q", ErrInvalidInput, v)
		}
		in.CartoonSize = size
	}
	if v := strings.TrimSpace(form.Stock); v != "" {
		stock, err := strconv.Atoi(v)
		if err != nil || stock < 0 {
			return in, fmt.Errorf("%w: stock %q", ErrInvalidInput, v)
		}
		in.Stock = stock
	}
	return in, nil
}

// CreateProduct adds a product. uploadedImage, when set, wins over the image URL.
func (s *AdminService) CreateProduct(ctx context.Context, in ProductInput, uploadedImage string) (models.Product, error) {
	doc, err := s.db.Read()
	if err != nil {
		return models.Product{}, err
	}
	if _, ok := catalog.CategoryByID(doc, in.Category); !ok {
		return models.Product{}, fmt.Errorf("%w: unknown category %d", ErrInvalidInput, in.Category)
	}

	image := PlaceholderImage
	switch {
	case uploadedImage != "":
		image = uploadedImage
	case in.ImageURL != "":
		image = in.ImageURL
	}

	p := models.Product{
		ID:          catalog.NextProductID(doc),
		Name:        in.Name,
		Category:    in.Category,
		Description: in.Description,
		Price:       in.Price,
		CartoonSize: in.CartoonSize,
		Image:       image,
		Stock:       in.Stock,
	}
	doc.Products = append(doc.Products, p)
	if err := s.db.Write(doc); err != nil {
		return models.Product{}, err
	}
	s.logg.Info(s.logg.WithField(ctx, "product_id", p.ID), "product.created")
	return p, nil
}

// UpdateProduct edits a product. Image precedence: uploaded file, then image
// URL, then the current image.
func (s *AdminService) UpdateProduct(ctx context.Context, id int, in ProductInput, uploadedImage string) (models.Product, error) {
	doc, err := s.db.Read()
	if err != nil {
		return models.Product{}, err
	}
	p, ok := catalog.ProductByID(doc, id)
	if !ok {
		return models.Product{}, ErrNotFound
	}
	if _, ok := catalog.CategoryByID(doc, in.Category); !ok {
		return models.Product{}, fmt.Errorf("%w: unknown category %d", ErrInvalidInput, in.Category)
	}

	switch {
	case uploadedImage != "":
		p.Image = uploadedImage
	case in.ImageURL != "":
		p.Image = in.ImageURL
	}
	p.Name = in.Name
	p.Description = in.Description
	p.Category = in.Category
	p.Price = in.Price
	p.Stock = in.Stock
	p.CartoonSize = in.CartoonSize

	updated := *p
	if err := s.db.Write(doc); err != nil {
		return models.Product{}, err
	}
	return updated, nil
}

func (s *AdminService) DeleteProduct(ctx context.Context, id int) error {
	doc, err := s.db.Read()
	if err != nil {
		return err
	}
	products := make([]models.Product, 0, len(doc.Products))
	for _, p := range doc.Products {
		if p.ID != id {
			products = append(products, p)
		}
	}
	if len(products) == len(doc.Products) {
		return ErrNotFound
	}
	doc.Products = products
	if err := s.db.Write(doc); err != nil {
		return err
	}
	s.logg.Info(s.logg.WithField(ctx, "product_id", id), "product.deleted")
	return nil
}

func (s *AdminService) Product(ctx context.Context, id int) (models.Product, []models.Category, error) {
	doc, err := s.db.Read()
	if err != nil {
		return models.Product{}, nil, err
	}
	p, ok := catalog.ProductByID(doc, id)
	if !ok {
		return models.Product{}, nil, ErrNotFound
	}
	return *p, catalog.SortedCategories(doc), nil
}

func (s *AdminService) Category(ctx context.Context, id int) (models.Category, error) {
	doc, err := s.db.Read()
	if err != nil {
		return models.Category{}, err
	}
	c, ok := catalog.CategoryByID(doc, id)
	if !ok {
		return models.Category{}, ErrNotFound
	}
	return *c, nil
}

func (s *AdminService) Categories(ctx context.Context) ([]models.Category, error) {
	doc, err := s.db.Read()
	if err != nil {
		return nil, err
	}
	return catalog.SortedCategories(doc), nil
}

// Dashboard is the admin landing page.
type Dashboard struct {
	Groups     []catalog.CategoryGroup
	Products   []models.Product
	Categories []models.Category
	Orders     []models.Order
	LowStock   []models.Product
}

func (s *AdminService) Dashboard(ctx context.Context) (Dashboard, error) {
	doc, err := s.db.Read()
	if err != nil {
		return Dashboard{}, err
	}
	return Dashboard{
		Groups:     catalog.GroupByCategory(doc),
		Products:   doc.Products,
		Categories: catalog.SortedCategories(doc),
		Orders:     doc.Orders,
		LowStock:   catalog.LowStock(doc, catalog.DefaultLowStockThreshold),
	}, nil
}

// --- Orders ---

// ResolveOrderFilter maps the raw ?date= value to the effective filter: empty
// means today (UTC).
func ResolveOrderFilter(raw string, now time.Time) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return now.UTC().Format(models.DayLayout)
	}
	return raw
}

// ListOrders returns orders newest first, limited to one calendar day unless
// the filter is "all". It also returns the effective filter.
func (s *AdminService) ListOrders(ctx context.Context, rawFilter string) ([]models.EnrichedOrder, string, error) {
	doc, err := s.db.Read()
	if err != nil {
		return nil, "", err
	}
	filter := ResolveOrderFilter(rawFilter, s.now())

	orders := make([]models.Order, len(doc.Orders))
	copy(orders, doc.Orders)
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].Date.After(orders[j].Date)
	})

	out := []models.EnrichedOrder{}
	for _, o := range orders {
		if filter != OrderFilterAll && !strings.HasPrefix(o.Date.UTC().Format(time.RFC3339Nano), filter) {
			continue
		}
		out = append(out, enrichOrder(doc, o))
	}
	return out, filter, nil
}

// OrderByID returns one order with category names resolved.
func (s *AdminService) OrderByID(ctx context.Context, id string) (models.EnrichedOrder, error) {
	doc, err := s.db.Read()
	if err != nil {
		return models.EnrichedOrder{}, err
	}
	for _, o := range doc.Orders {
		if o.ID == id {
			return enrichOrder(doc, o), nil
		}
	}
	return models.EnrichedOrder{}, ErrNotFound
}

func enrichOrder(doc *models.Document, o models.Order) models.EnrichedOrder {
	items := make([]models.EnrichedOrderItem, 0, len(o.Items))
	for _, it := range o.Items {
		name := catalog.CategoryName(doc, it.CategoryID)
		if name == "" {
			name = catalog.UnknownCategory
		}
		items = append(items, models.EnrichedOrderItem{OrderItem: it, CategoryName: name})
	}
	return models.EnrichedOrder{Order: o, Items: items}
}
