package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sweetshop/internal/models"
)

func newAdminService(t *testing.T) (*AdminService, func() *models.Document) {
	t.Helper()
	db := newFixtureDB(t)
	svc := NewAdminService(db, nil)
	svc.now = fixedNow
	read := func() *models.Document {
		doc, err := db.Read()
		require.NoError(t, err)
		return doc
	}
	return svc, read
}

func TestCategoryLifecycle(t *testing.T) {
	svc, read := newAdminService(t)
	ctx := context.Background()

	cat, err := svc.CreateCategory(ctx, models.CategoryForm{Name: "  Toffees ", SortOrder: 5})
	require.NoError(t, err)
	assert.Equal(t, 4, cat.ID)
	assert.Equal(t, "Toffees", cat.Name)

	require.NoError(t, svc.UpdateCategory(ctx, cat.ID, models.CategoryForm{Name: "Candies", SortOrder: 0}))
	got, err := svc.Category(ctx, cat.ID)
	require.NoError(t, err)
	assert.Equal(t, "Candies", got.Name)

	_, err = svc.CreateCategory(ctx, models.CategoryForm{Name: "   "})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorIs(t, svc.UpdateCategory(ctx, 42, models.CategoryForm{Name: "x"}), ErrNotFound)

	assert.Len(t, read().Categories, 4)
}

func TestDeleteCategoryCascades(t *testing.T) {
	svc, read := newAdminService(t)

	removed, err := svc.DeleteCategory(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	doc := read()
	assert.Len(t, doc.Categories, 2)
	require.Len(t, doc.Products, 1)
	assert.Equal(t, 3, doc.Products[0].ID)

	_, err = svc.DeleteCategory(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReorderCategories(t *testing.T) {
	svc, _ := newAdminService(t)
	ctx := context.Background()

	require.NoError(t, svc.ReorderCategories(ctx, []models.CategoryOrder{
		{ID: 3, SortOrder: 0},
		{ID: 1, SortOrder: 1},
		{ID: 2, SortOrder: 2},
		{ID: 77, SortOrder: 9},
	}))

	cats, err := svc.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 3)
	assert.Equal(t, []int{3, 1, 2}, []int{cats[0].ID, cats[1].ID, cats[2].ID})
}

func TestParseProductForm(t *testing.T) {
	in, err := ParseProductForm(models.ProductForm{Name: "Fudge", Category: 1})
	require.NoError(t, err)
	assert.True(t, in.Price.IsZero())
	assert.Equal(t, DefaultCartoonSize, in.CartoonSize)
	assert.Equal(t, 0, in.Stock)

	in, err = ParseProductForm(models.ProductForm{Name: "Fudge", Category: 1, Price: "12.50", CartoonSize: "12", Stock: "7"})
	require.NoError(t, err)
	assert.True(t, in.Price.Equal(decimal.RequireFromString("12.5")))
	assert.Equal(t, 12, in.CartoonSize)
	assert.Equal(t, 7, in.Stock)

	for _, form := range []models.ProductForm{
		{Name: " ", Category: 1},
		{Name: "Fudge", Price: "abc"},
		{Name: "Fudge", Price: "-1"},
		{Name: "Fudge", CartoonSize: "0"},
		{Name: "Fudge", Stock: "-2"},
	} {
		_, err := ParseProductForm(form)
		assert.ErrorIs(t, err, ErrInvalidInput, "%+v", form)
	}
}

func TestProductImagePrecedence(t *testing.T) {
	svc, _ := newAdminService(t)
	ctx := context.Background()
	in := ProductInput{Name: "Fudge", Category: 2, Price: decimal.NewFromInt(80), CartoonSize: 20, Stock: 4}

	p, err := svc.CreateProduct(ctx, in, "")
	require.NoError(t, err)
	assert.Equal(t, 4, p.ID)
	assert.Equal(t, PlaceholderImage, p.Image)

	in.ImageURL = "https://cdn.example.com/fudge.png"
	p, err = svc.CreateProduct(ctx, in, "/media/uploads/fudge.png")
	require.NoError(t, err)
	assert.Equal(t, "/media/uploads/fudge.png", p.Image)

	in.ImageURL = ""
	in.Stock = 9
	updated, err := svc.UpdateProduct(ctx, p.ID, in, "")
	require.NoError(t, err)
	assert.Equal(t, "/media/uploads/fudge.png", updated.Image)
	assert.Equal(t, 9, updated.Stock)

	in.ImageURL = "https://cdn.example.com/new.png"
	updated, err = svc.UpdateProduct(ctx, p.ID, in, "")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/new.png", updated.Image)

	in.Category = 99
	_, err = svc.CreateProduct(ctx, in, "")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.UpdateProduct(ctx, 1234, in, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteProduct(t *testing.T) {
	svc, read := newAdminService(t)
	ctx := context.Background()

	require.NoError(t, svc.DeleteProduct(ctx, 2))
	assert.Len(t, read().Products, 2)
	assert.ErrorIs(t, svc.DeleteProduct(ctx, 2), ErrNotFound)
}

func TestListOrdersFilter(t *testing.T) {
	db := newFixtureDB(t)
	doc, err := db.Read()
	require.NoError(t, err)
	doc.Orders = []models.Order{
		{ID: "a", Date: testNow.Add(-48 * time.Hour), Items: []models.OrderItem{{CategoryID: 1}}},
		{ID: "b", Date: testNow.Add(-time.Hour), Items: []models.OrderItem{{CategoryID: 9}}},
		{ID: "c", Date: testNow, Items: []models.OrderItem{{CategoryID: 2}}},
	}
	require.NoError(t, db.Write(doc))

	svc := NewAdminService(db, nil)
	svc.now = fixedNow
	ctx := context.Background()

	orders, filter, err := svc.ListOrders(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "2026-10-15", filter)
	require.Len(t, orders, 2)
	assert.Equal(t, "c", orders[0].ID)
	assert.Equal(t, "b", orders[1].ID)
	assert.Equal(t, "N/A", orders[1].Items[0].CategoryName)

	orders, _, err = svc.ListOrders(ctx, OrderFilterAll)
	require.NoError(t, err)
	assert.Len(t, orders, 3)

	orders, _, err = svc.ListOrders(ctx, "2026-10-13")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "Chocolates", orders[0].Items[0].CategoryName)

	order, err := svc.OrderByID(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, "Gift Packs", order.Items[0].CategoryName)
	_, err = svc.OrderByID(ctx, "zzz")
	assert.ErrorIs(t, err, ErrNotFound)
}
