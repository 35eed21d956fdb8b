package services

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-pdf/fpdf"

	"sweetshop/internal/models"
)

// ShopName is printed on bills.
const ShopName = "Sweet Shop"

var billColumns = []struct {
	title string
	width float64
	align string
}{
	{"Item", 60, "L"},
	{"Category", 40, "L"},
	{"Cartons", 20, "R"},
	{"Pieces", 20, "R"},
	{"Rate", 20, "R"},
	{"Total", 30, "R"},
}

// WriteBillPDF renders a printable invoice for order.
func WriteBillPDF(w io.Writer, order models.EnrichedOrder) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Bill "+order.ID, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, ShopName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Order "+order.ID, "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, order.Date.UTC().Format("02 Jan 2006 15:04 MST"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 6, "Bill to", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 5, order.Customer+"  ("+order.Phone+")", "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("%s, %s - %s", order.Address.City, order.Address.State, order.Address.Pincode), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	for _, col := range billColumns {
		pdf.CellFormat(col.width, 7, col.title, "1", 0, col.align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, it := range order.Items {
		cells := []string{
			it.Name,
			it.CategoryName,
			strconv.Itoa(it.Qty),
			strconv.Itoa(it.TotalPieces),
			it.Price.StringFixed(2),
			it.Total.StringFixed(2),
		}
		for i, col := range billColumns {
			pdf.CellFormat(col.width, 7, cells[i], "1", 0, col.align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	labelWidth := 0.0
	for _, col := range billColumns[:len(billColumns)-1] {
		labelWidth += col.width
	}
	last := billColumns[len(billColumns)-1]
	pdf.CellFormat(labelWidth, 7, "Subtotal", "1", 0, "R", false, 0, "")
	pdf.CellFormat(last.width, 7, order.Subtotal.StringFixed(2), "1", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(labelWidth, 7, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(last.width, 7, order.Total.StringFixed(2), "1", 1, "R", false, 0, "")

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(0, 5, "Status: "+order.Status, "", 1, "L", false, 0, "")

	return pdf.Output(w)
}
