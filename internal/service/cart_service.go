package service

import (
	"context"

	"shopfront/internal/models"
	"shopfront/internal/session"
	"shopfront/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// productFinder is the slice of the store the cart needs.
type productFinder interface {
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
}

// CartService maintains the per-session set of purchase intents. The cart
// is never persisted to the database; it lives in the session passed into
// every operation.
type CartService struct {
	products productFinder
	sessions session.Store
	logger   *zap.Logger
}

// NewCartService creates a new cart service
func NewCartService(products productFinder, sessions session.Store) *CartService {
	return &CartService{
		products: products,
		sessions: sessions,
		logger:   util.GetLogger(),
	}
}

// Add puts quantity units of a product into the session cart, snapshotting
// the product's name and current price. Stock is deliberately not checked
// here; only checkout decides whether stock suffices.
func (s *CartService) Add(ctx context.Context, sess *session.Data, productID int64, quantity int) (*models.Product, error) {
	if quantity < 1 {
		return nil, invalidField("quantity", "quantity must be at least 1")
	}

	product, err := s.products.GetProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	sess.AddCartLine(product.ID, product.Name, product.Price.StringFixed(2), quantity)
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}

	util.CartAddsTotal.Inc()
	s.logger.Debug("Added to cart",
		zap.Int64("product_id", product.ID),
		zap.Int("quantity", quantity))
	return product, nil
}

// Remove deletes a product from the session cart. Removing an absent
// product succeeds without effect. The removed line is returned when there
// was one.
func (s *CartService) Remove(ctx context.Context, sess *session.Data, productID int64) (*session.CartLine, error) {
	line, ok := sess.RemoveCartLine(productID)
	if !ok {
		return nil, nil
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	util.CartRemovesTotal.Inc()
	return &line, nil
}

// View returns the computed cart lines and grand total. Read-only.
func (s *CartService) View(sess *session.Data) ([]session.CartView, decimal.Decimal) {
	return sess.CartLines()
}
