package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const OrderStatusPending = "Pending"

// Address is the shipping destination captured at checkout.
type Address struct {
	Pincode string `json:"pincode"`
	City    string `json:"city"`
	State   string `json:"state"`
}

// Order is immutable once appended to the document.
type Order struct {
	ID       string          `json:"id"`
	Customer string          `json:"customer"`
	Phone    string          `json:"phone"`
	Address  Address         `json:"address"`
	Items    []OrderItem     `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Total    decimal.Decimal `json:"total"`
	Date     time.Time       `json:"date"`
	Status   string          `json:"status"`
}

// OrderItem is one resolved cart entry. Price and carton size come from the cart snapshot.
type OrderItem struct {
	ProductID   int             `json:"productId"`
	CategoryID  int             `json:"categoryId"`
	Name        string          `json:"name"`
	Image       string          `json:"image"`
	Qty         int             `json:"qty"`
	CartoonSize int             `json:"cartoon_size"`
	Price       decimal.Decimal `json:"price"`
	TotalPieces int             `json:"totalPieces"`
	Total       decimal.Decimal `json:"total"`
}

// DayKey returns the UTC calendar day of the order, e.g. "2026-10-15".
func (o Order) DayKey() string {
	return o.Date.UTC().Format(DayLayout)
}

// DayLayout is the layout used for order date filters.
const DayLayout = "2006-01-02"

// EnrichedOrderItem adds the current category name for admin views.
type EnrichedOrderItem struct {
	OrderItem
	CategoryName string
}

// EnrichedOrder is an order prepared for the admin order list and bill.
type EnrichedOrder struct {
	Order
	Items []EnrichedOrderItem
}

// CustomerDetails is the checkout form.
type CustomerDetails struct {
	Name    string `form:"name" validate:"required,min=3,letters"`
	Phone   string `form:"phone" validate:"required,len=10,digits"`
	Pincode string `form:"pincode" validate:"required,len=6,digits"`
	City    string `form:"city" validate:"required,min=2,letters"`
	State   string `form:"state" validate:"required,min=2,letters"`
}
