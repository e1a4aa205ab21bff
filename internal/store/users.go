package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shopfront/internal/models"
)

// CreateUser inserts a user. A duplicate username yields ErrConflict.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	err := s.db.GetContext(ctx, user, `
		INSERT INTO users (username, email, first_name, last_name, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		user.Username, user.Email, user.FirstName, user.LastName, user.PasswordHash)
	return translateUnique(err)
}

// GetUserByID retrieves a user by ID
func (s *Store) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, "SELECT * FROM users WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by username
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, "SELECT * FROM users WHERE username = $1", username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %q: %w", username, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUsers retrieves all users ordered by ID.
func (s *Store) GetUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.SelectContext(ctx, &users, "SELECT * FROM users ORDER BY id")
	return users, err
}

// UpdateUser updates profile fields of an existing user. The password hash
// is only overwritten when a new one is provided.
func (s *Store) UpdateUser(ctx context.Context, user *models.User) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET username = $1, email = $2, first_name = $3, last_name = $4,
		    password_hash = COALESCE(NULLIF($5, ''), password_hash)
		WHERE id = $6`,
		user.Username, user.Email, user.FirstName, user.LastName,
		user.PasswordHash, user.ID)
	if err != nil {
		return translateUnique(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user %d: %w", user.ID, ErrNotFound)
	}
	return nil
}

// DeleteUser deletes a user; the customer profile cascades away.
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	return nil
}

// ---- Customers ----

// GetCustomerByUserID retrieves the customer profile attached to a user.
// Absence is an expected condition and reported as ErrNotFound, never a
// panic or a nil-pointer surprise.
func (s *Store) GetCustomerByUserID(ctx context.Context, userID int64) (*models.Customer, error) {
	var customer models.Customer
	err := s.db.GetContext(ctx, &customer, "SELECT * FROM customers WHERE user_id = $1", userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("customer for user %d: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// FindOrCreateCustomer returns the customer profile for a user, creating an
// empty one when absent. There is never more than one profile per user; the
// unique constraint on user_id makes concurrent creates converge on the
// same row.
func (s *Store) FindOrCreateCustomer(ctx context.Context, userID int64) (*models.Customer, error) {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO customers (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING", userID)
	if err != nil {
		return nil, err
	}
	return s.GetCustomerByUserID(ctx, userID)
}

// UpdateCustomer applies a partial profile update: blank fields keep their
// prior value.
func (s *Store) UpdateCustomer(ctx context.Context, customer *models.Customer) error {
	err := s.db.GetContext(ctx, customer, `
		UPDATE customers
		SET phone       = COALESCE(NULLIF($1, ''), phone),
		    address     = COALESCE(NULLIF($2, ''), address),
		    city        = COALESCE(NULLIF($3, ''), city),
		    state       = COALESCE(NULLIF($4, ''), state),
		    postal_code = COALESCE(NULLIF($5, ''), postal_code),
		    country     = COALESCE(NULLIF($6, ''), country),
		    updated_at  = NOW()
		WHERE id = $7
		RETURNING *`,
		customer.Phone, customer.Address, customer.City, customer.State,
		customer.PostalCode, customer.Country, customer.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("customer %d: %w", customer.ID, ErrNotFound)
	}
	return err
}
