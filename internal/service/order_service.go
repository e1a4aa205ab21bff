package service

import (
	"context"
	"errors"
	"time"

	"shopfront/internal/broker"
	"shopfront/internal/models"
	"shopfront/internal/store"
	"shopfront/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderService handles order listing and the status lifecycle.
type OrderService struct {
	store     *store.Store
	publisher *broker.EventPublisher
	logger    *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(st *store.Store, publisher *broker.EventPublisher) *OrderService {
	return &OrderService{
		store:     st,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// ListOrders returns orders newest first, optionally filtered by exact
// status value.
func (s *OrderService) ListOrders(ctx context.Context, status string) ([]models.Order, error) {
	return s.store.GetOrders(ctx, status)
}

// GetOrder returns an order and its line items.
func (s *OrderService) GetOrder(ctx context.Context, id int64) (*models.Order, []models.OrderItem, error) {
	order, err := s.store.GetOrderByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.store.GetOrderItems(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return order, items, nil
}

// MyOrders returns the authenticated user's orders, newest first. A user
// without a customer profile simply has none.
func (s *OrderService) MyOrders(ctx context.Context, userID int64) ([]models.Order, error) {
	return s.store.GetOrdersByUserID(ctx, userID)
}

// UpdateStatus moves an order along its lifecycle. Illegal transitions are
// rejected without a write and counted.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID int64, to string) error {
	ctx, span := util.StartSpan(ctx, "OrderService.UpdateStatus")
	defer span.End()

	from, err := s.store.TransitionOrderStatus(ctx, orderID, to)
	if err != nil {
		if errors.Is(err, store.ErrInvalidTransition) {
			util.InvalidStatusTransitionsTotal.Inc()
		}
		return err
	}

	util.OrderStatusTransitionsTotal.WithLabelValues(to).Inc()
	s.logger.Info("Order status updated",
		zap.Int64("order_id", orderID),
		zap.String("from", from),
		zap.String("to", to))

	if s.publisher != nil {
		event := &models.OrderStatusChangedEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeOrderStatusChanged,
				Timestamp: time.Now(),
			},
			OrderID:    orderID,
			FromStatus: from,
			ToStatus:   to,
		}
		if err := s.publisher.PublishOrderStatusChanged(ctx, event); err != nil {
			s.logger.Error("Failed to publish OrderStatusChanged event",
				zap.Int64("order_id", orderID), zap.Error(err))
		}
	}
	return nil
}
