package service

import (
	"context"
	"errors"
	"time"

	"shopfront/internal/broker"
	"shopfront/internal/models"
	"shopfront/internal/session"
	"shopfront/internal/store"
	"shopfront/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CheckoutService converts a session cart into a persisted order. The
// database work happens in a single transaction inside the store; this
// layer owns preconditions, the session, events and metrics.
type CheckoutService struct {
	store     *store.Store
	sessions  session.Store
	publisher *broker.EventPublisher
	logger    *zap.Logger
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(st *store.Store, sessions session.Store, publisher *broker.EventPublisher) *CheckoutService {
	return &CheckoutService{
		store:     st,
		sessions:  sessions,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// PlaceOrder runs the checkout for an authenticated session. On any
// failure the cart is left intact so the user can retry; on success the
// cart is cleared exactly once and an OrderPlaced event is published.
func (s *CheckoutService) PlaceOrder(ctx context.Context, sess *session.Data, userID int64, form store.ProfileUpdate) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "CheckoutService.PlaceOrder")
	defer span.End()

	start := time.Now()
	defer func() {
		util.CheckoutLatency.Observe(time.Since(start).Seconds())
	}()

	if sess.CartIsEmpty() {
		util.CheckoutRejectedTotal.WithLabelValues("empty_cart").Inc()
		return nil, ErrEmptyCart
	}

	views, total := sess.CartLines()
	lines := make([]store.CheckoutLine, 0, len(views))
	for _, v := range views {
		lines = append(lines, store.CheckoutLine{
			ProductID: v.ProductID,
			Name:      v.Name,
			Quantity:  v.Quantity,
			UnitPrice: v.UnitPrice,
		})
	}

	order, err := s.store.PlaceOrder(ctx, userID, form, lines, total)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrInsufficientStock):
			util.CheckoutRejectedTotal.WithLabelValues("insufficient_stock").Inc()
		case errors.Is(err, store.ErrNotFound):
			util.CheckoutRejectedTotal.WithLabelValues("product_missing").Inc()
		default:
			util.CheckoutRejectedTotal.WithLabelValues("db_error").Inc()
		}
		return nil, err
	}

	sess.ClearCart()
	if err := s.sessions.Save(ctx, sess); err != nil {
		// The order is committed; a stale cart is recoverable, losing the
		// order is not.
		s.logger.Error("Failed to clear cart after checkout",
			zap.Int64("order_id", order.ID), zap.Error(err))
	}

	util.OrdersPlacedTotal.Inc()
	s.logger.Info("Order placed",
		zap.Int64("order_id", order.ID),
		zap.Int64("customer_id", order.CustomerID),
		zap.String("total", order.TotalAmount.StringFixed(2)))

	s.publishOrderPlaced(ctx, order, views)
	return order, nil
}

func (s *CheckoutService) publishOrderPlaced(ctx context.Context, order *models.Order, views []session.CartView) {
	if s.publisher == nil {
		return
	}

	items := make([]models.OrderItemData, 0, len(views))
	for _, v := range views {
		items = append(items, models.OrderItemData{
			ProductID: v.ProductID,
			Quantity:  v.Quantity,
			UnitPrice: v.UnitPrice.StringFixed(2),
		})
	}

	event := &models.OrderPlacedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderPlaced,
			Timestamp: time.Now(),
		},
		OrderID:     order.ID,
		CustomerID:  order.CustomerID,
		TotalAmount: order.TotalAmount.StringFixed(2),
		Items:       items,
	}

	if err := s.publisher.PublishOrderPlaced(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderPlaced event",
			zap.Int64("order_id", order.ID), zap.Error(err))
	}
}
