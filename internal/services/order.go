package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sweetshop/internal/catalog"
	"sweetshop/internal/database"
	"sweetshop/internal/logger"
	"sweetshop/internal/metrics"
	"sweetshop/internal/models"
)

// OrderNotifier is told about placed orders. Failures are logged, never returned to the shopper.
type OrderNotifier interface {
	NotifyOrderPlaced(ctx context.Context, order models.Order) error
}

// OrderService turns a cart into a persisted order.
type OrderService struct {
	db       database.DocumentStore
	validate *validator.Validate
	notifier OrderNotifier
	logg     *logger.Logger
	metrics  *metrics.ShopMetrics
	now      func() time.Time
	newID    func() string
}

type OrderServiceParams struct {
	DB       database.DocumentStore
	Notifier OrderNotifier
	Logger   *logger.Logger
	Metrics  *metrics.ShopMetrics
	Now      func() time.Time
	NewID    func() string
}

func NewOrderService(p OrderServiceParams) *OrderService {
	s := &OrderService{
		db:       p.DB,
		validate: NewValidator(),
		notifier: p.Notifier,
		logg:     p.Logger,
		metrics:  p.Metrics,
		now:      p.Now,
		newID:    p.NewID,
	}
	if s.logg == nil {
		s.logg = logger.Nop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	return s
}

// ValidateCustomer checks trimmed checkout fields.
func (s *OrderService) ValidateCustomer(details models.CustomerDetails) (models.CustomerDetails, error) {
	details = NormalizeCustomer(details)
	if err := s.validate.Struct(details); err != nil {
		return details, fmt.Errorf("%w: %v", ErrInvalidCustomerDetails, err)
	}
	return details, nil
}

// PlaceOrder validates the customer, resolves every cart entry to an
// inventory row, deducts stock and appends the order. The document is written
// once at the end, so any failure leaves stock and orders untouched. The cart
// is cleared only on success.
func (s *OrderService) PlaceOrder(ctx context.Context, cart *models.Cart, details models.CustomerDetails) (*models.Order, error) {
	order, err := s.placeOrder(ctx, cart, details)
	if err != nil {
		s.metrics.IncOrderFailure(failureReason(err))
		s.logg.Warn(s.logg.WithField(ctx, "reason", err.Error()), "order.rejected")
		return nil, err
	}

	cart.Clear()
	s.metrics.ObserveOrder(order.Total)
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"order_id": order.ID,
		"total":    order.Total.String(),
		"items":    len(order.Items),
	}), "order.placed")

	if s.notifier != nil {
		if err := s.notifier.NotifyOrderPlaced(ctx, *order); err != nil {
			s.logg.Error(s.logg.WithField(ctx, "order_id", order.ID), "order notification failed", err)
		}
	}
	return order, nil
}

func (s *OrderService) placeOrder(ctx context.Context, cart *models.Cart, details models.CustomerDetails) (*models.Order, error) {
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	details, err := s.ValidateCustomer(details)
	if err != nil {
		return nil, err
	}

	doc, err := s.db.Read()
	if err != nil {
		return nil, err
	}

	items := make([]models.OrderItem, 0, len(cart.Entries))
	subtotal := decimal.Zero
	for _, entry := range cart.Entries {
		if entry.Snapshot == nil {
			continue
		}
		snap := entry.Snapshot

		categoryID, err := models.ParseCartKey(entry.Key)
		if err != nil {
			return nil, &ProductNotFoundError{Key: entry.Key}
		}
		product, ok := catalog.FindBySnapshot(doc, categoryID, snap.Image)
		if !ok {
			return nil, &ProductNotFoundError{Key: entry.Key}
		}
		if entry.Qty > product.Stock {
			return nil, &InsufficientStockError{CategoryName: snap.CategoryName, Available: product.Stock}
		}

		// Pricing follows the cart snapshot, not the resolved row.
		pieces := entry.Qty * snap.CartoonSize
		lineTotal := decimal.NewFromInt(int64(pieces)).Mul(snap.Price)

		product.Stock -= entry.Qty
		subtotal = subtotal.Add(lineTotal)

		items = append(items, models.OrderItem{
			ProductID:   product.ID,
			CategoryID:  product.Category,
			Name:        product.Name,
			Image:       snap.Image,
			Qty:         entry.Qty,
			CartoonSize: snap.CartoonSize,
			Price:       snap.Price,
			TotalPieces: pieces,
			Total:       lineTotal,
		})
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	order := models.Order{
		ID:       s.newID(),
		Customer: details.Name,
		Phone:    details.Phone,
		Address: models.Address{
			Pincode: details.Pincode,
			City:    details.City,
			State:   details.State,
		},
		Items:    items,
		Subtotal: subtotal,
		Total:    subtotal,
		Date:     s.now().UTC(),
		Status:   models.OrderStatusPending,
	}
	doc.Orders = append(doc.Orders, order)

	if err := s.db.Write(doc); err != nil {
		return nil, fmt.Errorf("save order: %w", err)
	}
	return &order, nil
}
