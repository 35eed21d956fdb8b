package services

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"sweetshop/internal/database"
	"sweetshop/internal/models"
)

// fixedPicker always returns the same index, clamped to n.
type fixedPicker int

func (f fixedPicker) IntN(n int) int {
	if int(f) >= n {
		return n - 1
	}
	return int(f)
}

var testNow = time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

func fixtureDocument() *models.Document {
	doc := models.NewDocument()
	doc.Categories = []models.Category{
		{ID: 1, Name: "Chocolates", SortOrder: 2},
		{ID: 2, Name: "Gift Packs", SortOrder: 1},
		{ID: 3, Name: "Empty Shelf", SortOrder: 3},
	}
	doc.Products = []models.Product{
		{ID: 1, Name: "Melted Milk Chocolate", Category: 1, Price: decimal.NewFromInt(120), CartoonSize: 20, Image: "/media/milk.png", Stock: 20},
		{ID: 2, Name: "Dark Chocolate Bar", Category: 1, Price: decimal.NewFromInt(150), CartoonSize: 24, Image: "/media/dark.png", Stock: 2},
		{ID: 3, Name: "Festive Box", Category: 2, Price: decimal.NewFromInt(250), CartoonSize: 10, Image: "/media/box.png", Stock: 10},
	}
	return doc
}

func newFixtureDB(t *testing.T) *database.JSONDatabase {
	t.Helper()
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "db.json"))
	require.NoError(t, err)
	require.NoError(t, db.Write(fixtureDocument()))
	return db
}

func validCustomer() models.CustomerDetails {
	return models.CustomerDetails{
		Name:    "Asha Rao",
		Phone:   "9876543210",
		Pincode: "560001",
		City:    "Bengaluru",
		State:   "Karnataka",
	}
}
