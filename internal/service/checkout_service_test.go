package service

import (
	"context"
	"testing"

	"shopfront/internal/session"
	"shopfront/internal/store"

	"github.com/stretchr/testify/assert"
)

func TestCheckoutEmptyCart(t *testing.T) {
	// The empty-cart guard fires before any database or event access.
	svc := NewCheckoutService(nil, session.NewMemoryStore(), nil)
	sess := session.New()
	sess.Login(1)

	order, err := svc.PlaceOrder(context.Background(), sess, 1, store.ProfileUpdate{})

	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Nil(t, order)
}
