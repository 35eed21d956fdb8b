package catalog

import (
	"testing"

	"sweetshop/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture() *models.Document {
	doc := models.NewDocument()
	doc.Categories = []models.Category{
		{ID: 1, Name: "Chocolates", SortOrder: 2},
		{ID: 2, Name: "Gift Packs"},
		{ID: 5, Name: "Toffees", SortOrder: 2},
		{ID: 3, Name: "Candies", SortOrder: 1},
	}
	doc.Products = []models.Product{
		{ID: 1, Name: "Milk", Category: 1, Image: "/a.png", Stock: 20},
		{ID: 2, Name: "Dark", Category: 1, Image: "/b.png", Stock: 5},
		{ID: 7, Name: "Hamper", Category: 2, Image: "/a.png", Stock: 0},
		{ID: 4, Name: "Dark twin", Category: 1, Image: "/b.png", Stock: 9},
	}
	return doc
}

func TestNextID(t *testing.T) {
	doc := fixture()
	assert.Equal(t, 8, NextProductID(doc))
	assert.Equal(t, 6, NextCategoryID(doc))
	assert.Equal(t, 1, NextProductID(models.NewDocument()))
}

func TestLookups(t *testing.T) {
	doc := fixture()

	p, ok := ProductByID(doc, 7)
	require.True(t, ok)
	assert.Equal(t, "Hamper", p.Name)
	p.Stock = 3
	assert.Equal(t, 3, doc.Products[2].Stock)

	_, ok = ProductByID(doc, 99)
	assert.False(t, ok)

	assert.Equal(t, "Gift Packs", CategoryName(doc, 2))
	assert.Equal(t, "", CategoryName(doc, 99))
}

func TestProductsByCategory(t *testing.T) {
	doc := fixture()
	got := ProductsByCategory(doc, 1)
	require.Len(t, got, 3)
	assert.Equal(t, []int{1, 2, 4}, []int{got[0].ID, got[1].ID, got[2].ID})
	assert.Empty(t, ProductsByCategory(doc, 3))
	assert.NotNil(t, ProductsByCategory(doc, 3))
}

func TestSortedCategoriesIsStable(t *testing.T) {
	doc := fixture()
	got := SortedCategories(doc)
	ids := []int{}
	for _, c := range got {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []int{2, 3, 1, 5}, ids)
	assert.Equal(t, 1, doc.Categories[0].ID, "document order untouched")
}

func TestLowStock(t *testing.T) {
	got := LowStock(fixture(), DefaultLowStockThreshold)
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[0].ID)
	assert.Equal(t, 7, got[1].ID)
}

func TestFindBySnapshotFirstMatchWins(t *testing.T) {
	doc := fixture()

	p, ok := FindBySnapshot(doc, 1, "/b.png")
	require.True(t, ok)
	assert.Equal(t, 2, p.ID)

	p, ok = FindBySnapshot(doc, 2, "/a.png")
	require.True(t, ok)
	assert.Equal(t, 7, p.ID)

	_, ok = FindBySnapshot(doc, 3, "/a.png")
	assert.False(t, ok)
}

func TestGroupingHelpers(t *testing.T) {
	doc := fixture()

	first := FirstProductPerCategory(doc)
	assert.Equal(t, 1, first[1].ID)
	assert.Equal(t, 7, first[2].ID)
	_, ok := first[3]
	assert.False(t, ok)

	groups := GroupByCategory(doc)
	require.Len(t, groups, 4)
	assert.Equal(t, "Gift Packs", groups[0].Category.Name)
	assert.Len(t, groups[2].Products, 3)
}
