package services

import (
	"errors"
	"fmt"

	"sweetshop/internal/models"
)

var (
	ErrEmptyCart              = errors.New("cart is empty")
	ErrInvalidCustomerDetails = errors.New("invalid customer details")
	ErrCategoryHasNoProducts  = errors.New("category has no products")
	ErrNotFound               = errors.New("not found")
	ErrInvalidCartKey         = models.ErrInvalidCartKey
	ErrInvalidInput           = errors.New("invalid input")
)

// ProductNotFoundError means a cart entry could not be matched back to an inventory row.
type ProductNotFoundError struct {
	Key string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product not found for cart key %s", e.Key)
}

// InsufficientStockError means a cart entry asks for more cartons than are in stock.
type InsufficientStockError struct {
	CategoryName string
	Available    int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for %q, available cartons: %d", e.CategoryName, e.Available)
}

// CheckoutMessage turns a checkout failure into the text shown on the cart page.
func CheckoutMessage(err error) string {
	var notFound *ProductNotFoundError
	var noStock *InsufficientStockError
	switch {
	case errors.Is(err, ErrEmptyCart):
		return "Your cart is empty!"
	case errors.Is(err, ErrInvalidCustomerDetails):
		return "Please enter valid customer details"
	case errors.As(err, &notFound):
		return fmt.Sprintf("Product not found for cart key %s", notFound.Key)
	case errors.As(err, &noStock):
		return fmt.Sprintf("Not enough stock for %q. Available cartons: %d", noStock.CategoryName, noStock.Available)
	default:
		return "Something went wrong while placing your order. Please try again."
	}
}

// failureReason is the metrics label for a checkout failure.
func failureReason(err error) string {
	var notFound *ProductNotFoundError
	var noStock *InsufficientStockError
	switch {
	case errors.Is(err, ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, ErrInvalidCustomerDetails):
		return "invalid_customer_details"
	case errors.As(err, &notFound):
		return "product_not_found"
	case errors.As(err, &noStock):
		return "insufficient_stock"
	default:
		return "internal"
	}
}
