package store

import (
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrNotFound is returned when a row addressed by id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a uniqueness constraint is violated
	// (username, product name, category name, one customer per user).
	ErrConflict = errors.New("already exists")
	// ErrInsufficientStock is returned when a checkout requests more units
	// than a product has left. The whole transaction rolls back.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrInvalidTransition is returned for illegal order status moves.
	ErrInvalidTransition = errors.New("invalid status transition")
)

const pqUniqueViolation = "23505"

// translateUnique maps Postgres unique violations onto ErrConflict so the
// service layer never inspects driver errors.
func translateUnique(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
		return ErrConflict
	}
	return err
}
