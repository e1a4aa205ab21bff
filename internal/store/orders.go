package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shopfront/internal/models"

	"github.com/shopspring/decimal"
)

// CheckoutLine is one cart line handed to the checkout transaction. Name
// and UnitPrice are the session snapshots, not current catalog values.
type CheckoutLine struct {
	ProductID int64
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
}

// ProfileUpdate carries the address fields a checkout form may supply.
// Blank fields keep the customer's prior value.
type ProfileUpdate struct {
	Phone      string
	Address    string
	City       string
	State      string
	PostalCode string
	Country    string
}

// PlaceOrder runs the whole checkout as a single transaction: resolve or
// create the customer profile, apply the address update, insert the order
// and its line items, and decrement stock per line. The stock decrement is
// conditional (stock >= quantity), so two concurrent checkouts of the last
// unit serialize on the row and exactly one commits; stock never goes
// negative. Any failure rolls everything back.
func (s *Store) PlaceOrder(ctx context.Context, userID int64, update ProfileUpdate, lines []CheckoutLine, total decimal.Decimal) (*models.Order, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO customers (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING", userID); err != nil {
		return nil, fmt.Errorf("failed to ensure customer profile: %w", err)
	}

	var customer models.Customer
	err = tx.GetContext(ctx, &customer, `
		UPDATE customers
		SET phone       = COALESCE(NULLIF($1, ''), phone),
		    address     = COALESCE(NULLIF($2, ''), address),
		    city        = COALESCE(NULLIF($3, ''), city),
		    state       = COALESCE(NULLIF($4, ''), state),
		    postal_code = COALESCE(NULLIF($5, ''), postal_code),
		    country     = COALESCE(NULLIF($6, ''), country),
		    updated_at  = NOW()
		WHERE user_id = $7
		RETURNING *`,
		update.Phone, update.Address, update.City, update.State,
		update.PostalCode, update.Country, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to update customer profile: %w", err)
	}

	var order models.Order
	err = tx.GetContext(ctx, &order, `
		INSERT INTO orders (customer_id, total_amount, status)
		VALUES ($1, $2, $3)
		RETURNING *`,
		customer.ID, total, models.OrderStatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	for _, line := range lines {
		res, err := tx.ExecContext(ctx,
			"UPDATE products SET stock = stock - $1 WHERE id = $2 AND stock >= $1",
			line.Quantity, line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("failed to decrement stock for product %d: %w", line.ProductID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			var exists bool
			if err := tx.GetContext(ctx, &exists,
				"SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)", line.ProductID); err != nil {
				return nil, err
			}
			if !exists {
				return nil, fmt.Errorf("product %d: %w", line.ProductID, ErrNotFound)
			}
			return nil, fmt.Errorf("product %d: %w", line.ProductID, ErrInsufficientStock)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, name, quantity, unit_price)
			VALUES ($1, $2, $3, $4, $5)`,
			order.ID, line.ProductID, line.Name, line.Quantity, line.UnitPrice); err != nil {
			return nil, fmt.Errorf("failed to create order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderByID retrieves an order by ID
func (s *Store) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order, "SELECT * FROM orders WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrders retrieves orders newest first, optionally filtered by exact
// status.
func (s *Store) GetOrders(ctx context.Context, status string) ([]models.Order, error) {
	var orders []models.Order
	if status != "" {
		err := s.db.SelectContext(ctx, &orders,
			"SELECT * FROM orders WHERE status = $1 ORDER BY created_at DESC", status)
		return orders, err
	}
	err := s.db.SelectContext(ctx, &orders, "SELECT * FROM orders ORDER BY created_at DESC")
	return orders, err
}

// GetOrdersByUserID retrieves the orders of a user's customer profile,
// newest first. A user without a profile has no orders.
func (s *Store) GetOrdersByUserID(ctx context.Context, userID int64) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.SelectContext(ctx, &orders, `
		SELECT o.* FROM orders o
		JOIN customers c ON c.id = o.customer_id
		WHERE c.user_id = $1
		ORDER BY o.created_at DESC`, userID)
	return orders, err
}

// GetOrderItems retrieves all line items for an order.
func (s *Store) GetOrderItems(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := s.db.SelectContext(ctx, &items,
		"SELECT * FROM order_items WHERE order_id = $1 ORDER BY id", orderID)
	return items, err
}

// TransitionOrderStatus moves an order to a new status, enforcing the
// lifecycle. The current row is locked so concurrent transitions serialize.
// Returns the status the order was in before the move.
func (s *Store) TransitionOrderStatus(ctx context.Context, orderID int64, to string) (string, error) {
	if !models.IsOrderStatus(to) {
		return "", fmt.Errorf("status %q: %w", to, ErrInvalidTransition)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	var from string
	err = tx.GetContext(ctx, &from, "SELECT status FROM orders WHERE id = $1 FOR UPDATE", orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("order %d: %w", orderID, ErrNotFound)
	}
	if err != nil {
		return "", err
	}

	if !models.CanTransition(from, to) {
		return "", fmt.Errorf("%s -> %s: %w", from, to, ErrInvalidTransition)
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2", to, orderID); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return from, nil
}
