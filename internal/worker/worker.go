package worker

import (
	"context"

	"shopfront/internal/broker"
	"shopfront/internal/models"
	"shopfront/internal/store"
	"shopfront/internal/util"

	"go.uber.org/zap"
)

// StockAlertWorker consumes order events and raises an alert when a just
// ordered product has dropped to or below the low-stock threshold.
type StockAlertWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	store        *store.Store
	threshold    int
	logger       *zap.Logger
}

// NewStockAlertWorker creates a new stock alert worker
func NewStockAlertWorker(consumer *broker.Consumer, st *store.Store, threshold int) *StockAlertWorker {
	w := &StockAlertWorker{
		consumer:  consumer,
		store:     st,
		threshold: threshold,
		logger:    util.GetLogger(),
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnOrderPlaced(w.handleOrderPlaced)
	w.eventHandler = eventHandler

	return w
}

// Start starts the worker
func (w *StockAlertWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting stock alert worker", zap.Int("threshold", w.threshold))
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *StockAlertWorker) Stop() error {
	w.logger.Info("Stopping stock alert worker")
	return w.consumer.Close()
}

func (w *StockAlertWorker) handleOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error {
	processed, err := w.store.IsEventProcessed(ctx, event.EventID)
	if err != nil {
		return err
	}
	if processed {
		w.logger.Debug("Event already processed", zap.String("event_id", event.EventID))
		return nil
	}

	for _, item := range event.Items {
		product, err := w.store.GetProductByID(ctx, item.ProductID)
		if err != nil {
			// Product may have been deleted since the order; nothing to alert on.
			w.logger.Warn("Skipping stock check",
				zap.Int64("product_id", item.ProductID),
				zap.Error(err))
			continue
		}

		if product.Stock <= w.threshold {
			util.LowStockAlertsTotal.Inc()
			w.logger.Warn("Product stock is low",
				zap.Int64("product_id", product.ID),
				zap.String("name", product.Name),
				zap.Int("stock", product.Stock),
				zap.Int64("order_id", event.OrderID))
		}
	}

	return w.store.MarkEventProcessed(ctx, event.EventID, event.EventType)
}
