package services

import (
	"context"
	"encoding/csv"
	"io"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"

	"sweetshop/internal/catalog"
	"sweetshop/internal/database"
	"sweetshop/internal/models"
)

const bestSellerLimit = 5

// BestSeller aggregates order lines sharing a product name.
type BestSeller struct {
	Name  string
	Qty   int
	Total decimal.Decimal
}

// CategorySales is the revenue of one category.
type CategorySales struct {
	Category string
	Total    decimal.Decimal
}

// Report is the admin sales report.
type Report struct {
	TotalSales     decimal.Decimal
	TotalOrders    int
	TotalItemsSold int
	TodayRevenue   decimal.Decimal
	BestSelling    []BestSeller
	CategorySales  []CategorySales
	LowStock       []models.Product
	Orders         []models.Order
}

// ReportService builds reports and exports from the document.
type ReportService struct {
	db  database.DocumentStore
	now func() time.Time
}

func NewReportService(db database.DocumentStore) *ReportService {
	return &ReportService{db: db, now: time.Now}
}

func (s *ReportService) Build(ctx context.Context) (*Report, error) {
	doc, err := s.db.Read()
	if err != nil {
		return nil, err
	}
	return BuildReport(doc, s.now()), nil
}

// BuildReport aggregates sales over every order in doc. "Today" is the UTC
// calendar day of now.
func BuildReport(doc *models.Document, now time.Time) *Report {
	r := &Report{
		TotalSales:   decimal.Zero,
		TodayRevenue: decimal.Zero,
		TotalOrders:  len(doc.Orders),
		Orders:       doc.Orders,
		LowStock:     catalog.LowStock(doc, catalog.DefaultLowStockThreshold),
	}
	today := now.UTC().Format(models.DayLayout)

	bestIndex := map[string]int{}
	best := []BestSeller{}

	sorted := catalog.SortedCategories(doc)
	categoryIndex := make(map[string]int, len(sorted))
	for _, c := range sorted {
		if _, seen := categoryIndex[c.Name]; seen {
			continue
		}
		categoryIndex[c.Name] = len(r.CategorySales)
		r.CategorySales = append(r.CategorySales, CategorySales{Category: c.Name, Total: decimal.Zero})
	}

	for _, o := range doc.Orders {
		r.TotalSales = r.TotalSales.Add(o.Total)
		if o.DayKey() == today {
			r.TodayRevenue = r.TodayRevenue.Add(o.Total)
		}
		for _, it := range o.Items {
			r.TotalItemsSold += it.Qty

			i, ok := bestIndex[it.Name]
			if !ok {
				i = len(best)
				bestIndex[it.Name] = i
				best = append(best, BestSeller{Name: it.Name, Total: decimal.Zero})
			}
			best[i].Qty += it.Qty
			best[i].Total = best[i].Total.Add(it.Total)

			// Revenue follows the product's current category.
			p, ok := catalog.ProductByID(doc, it.ProductID)
			if !ok {
				continue
			}
			c, ok := catalog.CategoryByID(doc, p.Category)
			if !ok {
				continue
			}
			ci := categoryIndex[c.Name]
			r.CategorySales[ci].Total = r.CategorySales[ci].Total.Add(it.Total)
		}
	}

	sort.SliceStable(best, func(i, j int) bool { return best[i].Qty > best[j].Qty })
	if len(best) > bestSellerLimit {
		best = best[:bestSellerLimit]
	}
	r.BestSelling = best
	if r.CategorySales == nil {
		r.CategorySales = []CategorySales{}
	}
	return r
}

// WriteOrdersCSV writes the order export: OrderID,Customer,Total,Date.
func WriteOrdersCSV(w io.Writer, orders []models.Order) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"OrderID", "Customer", "Total", "Date"}); err != nil {
		return err
	}
	for _, o := range orders {
		row := []string{o.ID, o.Customer, o.Total.String(), o.Date.UTC().Format(time.RFC3339Nano)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportOrdersCSV writes every order as CSV.
func (s *ReportService) ExportOrdersCSV(ctx context.Context, w io.Writer) error {
	doc, err := s.db.Read()
	if err != nil {
		return err
	}
	return WriteOrdersCSV(w, doc.Orders)
}

// ProductsWorkbook builds a stock sheet for every product.
func ProductsWorkbook(doc *models.Document) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return nil, err
	}

	headers := []string{"ID", "Name", "Category", "Price", "CartonSize", "StockCartons", "Image"}
	headerRow := sheet.AddRow()
	for _, h := range headers {
		headerRow.AddCell().SetValue(h)
	}

	for _, p := range doc.Products {
		category := catalog.CategoryName(doc, p.Category)
		if category == "" {
			category = catalog.UnknownCategory
		}
		row := sheet.AddRow()
		row.AddCell().SetInt(p.ID)
		row.AddCell().SetString(p.Name)
		row.AddCell().SetString(category)
		row.AddCell().SetFloat(p.Price.InexactFloat64())
		row.AddCell().SetInt(p.CartoonSize)
		row.AddCell().SetInt(p.Stock)
		row.AddCell().SetString(p.Image)
	}
	return file, nil
}

// ExportProductsXLSX writes the stock workbook to w.
func (s *ReportService) ExportProductsXLSX(ctx context.Context, w io.Writer) error {
	doc, err := s.db.Read()
	if err != nil {
		return err
	}
	file, err := ProductsWorkbook(doc)
	if err != nil {
		return err
	}
	return file.Write(w)
}

// ExportFilename stamps an export name with the day, e.g. report-2026-10-15.csv.
func ExportFilename(base, ext string, now time.Time) string {
	return base + "-" + now.UTC().Format(models.DayLayout) + "." + ext
}
