package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sweetshop/internal/catalog"
	"sweetshop/internal/database"
	"sweetshop/internal/models"
)

type recordingNotifier struct {
	orders []models.Order
	err    error
}

func (r *recordingNotifier) NotifyOrderPlaced(_ context.Context, order models.Order) error {
	r.orders = append(r.orders, order)
	return r.err
}

func newOrderService(db database.DocumentStore, n OrderNotifier) *OrderService {
	return NewOrderService(OrderServiceParams{
		DB:       db,
		Notifier: n,
		Now:      fixedNow,
		NewID:    func() string { return "order-1" },
	})
}

func cartWith(t *testing.T, db database.DocumentStore, picks map[int]int) *models.Cart {
	t.Helper()
	cs := NewCartService(db, fixedPicker(0), nil, nil)
	cart := models.NewCart()
	for categoryID, qty := range picks {
		for i := 0; i < qty; i++ {
			_, err := cs.AddRandomFromCategory(context.Background(), cart, categoryID)
			require.NoError(t, err)
		}
	}
	return cart
}

func TestPlaceOrderSingleCarton(t *testing.T) {
	db := newFixtureDB(t)
	notifier := &recordingNotifier{}
	cart := cartWith(t, db, map[int]int{1: 1})

	order, err := newOrderService(db, notifier).PlaceOrder(context.Background(), cart, validCustomer())
	require.NoError(t, err)

	assert.Equal(t, "order-1", order.ID)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, testNow, order.Date)
	assert.True(t, order.Subtotal.Equal(decimal.NewFromInt(2400)))
	assert.True(t, order.Total.Equal(order.Subtotal))
	require.Len(t, order.Items, 1)
	item := order.Items[0]
	assert.Equal(t, 1, item.ProductID)
	assert.Equal(t, 1, item.CategoryID)
	assert.Equal(t, "Melted Milk Chocolate", item.Name)
	assert.Equal(t, 20, item.TotalPieces)

	doc, err := db.Read()
	require.NoError(t, err)
	p, _ := catalog.ProductByID(doc, 1)
	assert.Equal(t, 19, p.Stock)
	require.Len(t, doc.Orders, 1)
	assert.Equal(t, "Asha Rao", doc.Orders[0].Customer)
	assert.Equal(t, "560001", doc.Orders[0].Address.Pincode)

	assert.True(t, cart.IsEmpty())
	require.Len(t, notifier.orders, 1)
}

func TestPlaceOrderMultipleCartons(t *testing.T) {
	db := newFixtureDB(t)
	cart := cartWith(t, db, map[int]int{1: 3})

	order, err := newOrderService(db, nil).PlaceOrder(context.Background(), cart, validCustomer())
	require.NoError(t, err)

	require.Len(t, order.Items, 1)
	assert.Equal(t, 3, order.Items[0].Qty)
	assert.Equal(t, 60, order.Items[0].TotalPieces)
	assert.True(t, order.Total.Equal(decimal.NewFromInt(7200)))

	doc, _ := db.Read()
	p, _ := catalog.ProductByID(doc, 1)
	assert.Equal(t, 17, p.Stock)
}

func TestPlaceOrderUsesSnapshotPricing(t *testing.T) {
	db := newFixtureDB(t)
	cart := cartWith(t, db, map[int]int{2: 1})

	doc, _ := db.Read()
	p, _ := catalog.ProductByID(doc, 3)
	p.Price = decimal.NewFromInt(999)
	require.NoError(t, db.Write(doc))

	order, err := newOrderService(db, nil).PlaceOrder(context.Background(), cart, validCustomer())
	require.NoError(t, err)
	assert.True(t, order.Items[0].Price.Equal(decimal.NewFromInt(250)))
	assert.True(t, order.Total.Equal(decimal.NewFromInt(2500)))
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	db := newFixtureDB(t)
	_, err := newOrderService(db, nil).PlaceOrder(context.Background(), models.NewCart(), validCustomer())
	require.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, "Your cart is empty!", CheckoutMessage(err))
}

func TestPlaceOrderWithoutPricedLines(t *testing.T) {
	db := newFixtureDB(t)
	cart := models.NewCart()
	cart.Increment(models.CartKey(3), nil)

	_, err := newOrderService(db, nil).PlaceOrder(context.Background(), cart, validCustomer())
	require.ErrorIs(t, err, ErrEmptyCart)

	doc, err := db.Read()
	require.NoError(t, err)
	assert.Empty(t, doc.Orders)
}

func TestPlaceOrderIsAllOrNothing(t *testing.T) {
	db := newFixtureDB(t)
	cart := cartWith(t, db, map[int]int{1: 2, 2: 11})
	before, err := db.Read()
	require.NoError(t, err)

	_, err = newOrderService(db, nil).PlaceOrder(context.Background(), cart, validCustomer())

	var stockErr *InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, "Gift Packs", stockErr.CategoryName)
	assert.Equal(t, 10, stockErr.Available)
	assert.Equal(t, `Not enough stock for "Gift Packs". Available cartons: 10`, CheckoutMessage(err))

	after, err := db.Read()
	require.NoError(t, err)
	assert.Equal(t, before.Products, after.Products)
	assert.Empty(t, after.Orders)
	assert.Equal(t, 13, cart.TotalCount())
}

func TestPlaceOrderProductNotFound(t *testing.T) {
	db := newFixtureDB(t)
	cart := models.NewCart()
	cart.Increment("category_1", &models.CartSnapshot{
		CategoryName: "Chocolates",
		Image:        "/media/discontinued.png",
		Price:        decimal.NewFromInt(100),
		CartoonSize:  10,
	})

	_, err := newOrderService(db, nil).PlaceOrder(context.Background(), cart, validCustomer())
	var nf *ProductNotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "Product not found for cart key category_1", CheckoutMessage(err))

	doc, _ := db.Read()
	assert.Empty(t, doc.Orders)
	assert.False(t, cart.IsEmpty())
}

func TestPlaceOrderNotifierFailureIsIgnored(t *testing.T) {
	db := newFixtureDB(t)
	cart := cartWith(t, db, map[int]int{1: 1})
	notifier := &recordingNotifier{err: errors.New("smtp down")}

	order, err := newOrderService(db, notifier).PlaceOrder(context.Background(), cart, validCustomer())
	require.NoError(t, err)
	assert.NotNil(t, order)
}

func TestValidateCustomer(t *testing.T) {
	svc := newOrderService(newFixtureDB(t), nil)

	details, err := svc.ValidateCustomer(models.CustomerDetails{
		Name:    "  Asha Rao ",
		Phone:   "9876543210",
		Pincode: "560001",
		City:    "Bengaluru",
		State:   "Karnataka",
	})
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", details.Name)

	cases := map[string]func(*models.CustomerDetails){
		"short name":     func(d *models.CustomerDetails) { d.Name = "Jo" },
		"digits in name": func(d *models.CustomerDetails) { d.Name = "Asha 2" },
		"short phone":    func(d *models.CustomerDetails) { d.Phone = "12345" },
		"letters phone":  func(d *models.CustomerDetails) { d.Phone = "98765abcde" },
		"long pincode":   func(d *models.CustomerDetails) { d.Pincode = "5600011" },
		"short city":     func(d *models.CustomerDetails) { d.City = "B" },
		"empty state":    func(d *models.CustomerDetails) { d.State = "  " },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			d := validCustomer()
			mutate(&d)
			_, err := svc.ValidateCustomer(d)
			assert.ErrorIs(t, err, ErrInvalidCustomerDetails)
		})
	}
}

func TestPlaceOrderRejectsInvalidCustomer(t *testing.T) {
	db := newFixtureDB(t)
	cart := cartWith(t, db, map[int]int{1: 1})
	d := validCustomer()
	d.Phone = "12345"

	_, err := newOrderService(db, nil).PlaceOrder(context.Background(), cart, d)
	require.ErrorIs(t, err, ErrInvalidCustomerDetails)
	assert.Equal(t, "Please enter valid customer details", CheckoutMessage(err))

	doc, _ := db.Read()
	p, _ := catalog.ProductByID(doc, 1)
	assert.Equal(t, 20, p.Stock)
}
