package service

import (
	"context"
	"testing"

	"shopfront/internal/models"
	"shopfront/internal/session"
	"shopfront/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProductFinder struct {
	products map[int64]*models.Product
}

func (f *fakeProductFinder) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return p, nil
}

func newCartFixture() (*CartService, *session.Data) {
	finder := &fakeProductFinder{products: map[int64]*models.Product{
		1: {ID: 1, Name: "Widget", Price: decimal.RequireFromString("10.00"), Stock: 5},
		2: {ID: 2, Name: "Gadget", Price: decimal.RequireFromString("5.50"), Stock: 3},
	}}
	return NewCartService(finder, session.NewMemoryStore()), session.New()
}

func TestCartAdd(t *testing.T) {
	svc, sess := newCartFixture()
	ctx := context.Background()

	product, err := svc.Add(ctx, sess, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "Widget", product.Name)

	views, total := svc.View(sess)
	require.Len(t, views, 1)
	assert.Equal(t, 2, views[0].Quantity)
	assert.True(t, total.Equal(decimal.RequireFromString("20.00")))
}

func TestCartAddMergesSameProduct(t *testing.T) {
	svc, sess := newCartFixture()
	ctx := context.Background()

	_, err := svc.Add(ctx, sess, 1, 1)
	require.NoError(t, err)
	_, err = svc.Add(ctx, sess, 1, 2)
	require.NoError(t, err)

	views, _ := svc.View(sess)
	require.Len(t, views, 1)
	assert.Equal(t, 3, views[0].Quantity)
}

func TestCartAddInvalidQuantity(t *testing.T) {
	svc, sess := newCartFixture()
	ctx := context.Background()

	for _, quantity := range []int{0, -1} {
		_, err := svc.Add(ctx, sess, 1, quantity)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "quantity", verr.Field)
	}
	assert.True(t, sess.CartIsEmpty())
}

func TestCartAddUnknownProduct(t *testing.T) {
	svc, sess := newCartFixture()
	ctx := context.Background()

	_, err := svc.Add(ctx, sess, 999, 1)

	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.True(t, sess.CartIsEmpty())
}

func TestCartAddIgnoresStock(t *testing.T) {
	svc, sess := newCartFixture()
	ctx := context.Background()

	// The cart accepts more than the available stock; only checkout
	// enforces availability.
	_, err := svc.Add(ctx, sess, 2, 10)
	require.NoError(t, err)

	views, _ := svc.View(sess)
	assert.Equal(t, 10, views[0].Quantity)
}

func TestCartRemove(t *testing.T) {
	svc, sess := newCartFixture()
	ctx := context.Background()

	_, err := svc.Add(ctx, sess, 1, 2)
	require.NoError(t, err)

	line, err := svc.Remove(ctx, sess, 1)
	require.NoError(t, err)
	require.NotNil(t, line)
	assert.Equal(t, "Widget", line.Name)
	assert.True(t, sess.CartIsEmpty())
}

func TestCartRemoveAbsentProduct(t *testing.T) {
	svc, sess := newCartFixture()
	ctx := context.Background()

	line, err := svc.Remove(ctx, sess, 42)
	require.NoError(t, err)
	assert.Nil(t, line)
}
