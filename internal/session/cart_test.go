package session

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddCartLineMergesQuantities(t *testing.T) {
	sess := New()

	sess.AddCartLine(1, "Widget", "10.00", 1)
	sess.AddCartLine(1, "Widget", "10.00", 2)

	require.Len(t, sess.Cart, 1)
	line := sess.Cart["1"]
	assert.Equal(t, 3, line.Quantity)
	assert.Equal(t, "Widget", line.Name)
	assert.Equal(t, "10.00", line.UnitPrice)
}

func TestAddCartLineKeepsOriginalSnapshot(t *testing.T) {
	sess := New()

	sess.AddCartLine(1, "Widget", "10.00", 1)
	// A later add does not overwrite the original price snapshot.
	sess.AddCartLine(1, "Widget", "12.50", 1)

	assert.Equal(t, "10.00", sess.Cart["1"].UnitPrice)
	assert.Equal(t, 2, sess.Cart["1"].Quantity)
}

func TestRemoveCartLine(t *testing.T) {
	sess := New()
	sess.AddCartLine(1, "Widget", "10.00", 2)

	line, ok := sess.RemoveCartLine(1)
	assert.True(t, ok)
	assert.Equal(t, 2, line.Quantity)
	assert.Empty(t, sess.Cart)

	// Removing an absent product is a no-op.
	_, ok = sess.RemoveCartLine(1)
	assert.False(t, ok)
	_, ok = sess.RemoveCartLine(999)
	assert.False(t, ok)
}

func TestClearCart(t *testing.T) {
	sess := New()
	sess.AddCartLine(1, "Widget", "10.00", 1)
	sess.AddCartLine(2, "Gadget", "5.00", 1)

	sess.ClearCart()

	assert.True(t, sess.CartIsEmpty())
}

func TestCartLinesTotals(t *testing.T) {
	sess := New()
	sess.AddCartLine(2, "Gadget", "5.00", 1)
	sess.AddCartLine(1, "Widget", "10.00", 2)

	views, total := sess.CartLines()

	require.Len(t, views, 2)
	// Sorted by product ID regardless of insertion order.
	assert.Equal(t, int64(1), views[0].ProductID)
	assert.Equal(t, int64(2), views[1].ProductID)
	assert.True(t, views[0].LineTotal.Equal(decimal.RequireFromString("20.00")))
	assert.True(t, views[1].LineTotal.Equal(decimal.RequireFromString("5.00")))
	assert.True(t, total.Equal(decimal.RequireFromString("25.00")))
}

func TestCartLinesEmpty(t *testing.T) {
	sess := New()

	views, total := sess.CartLines()

	assert.Empty(t, views)
	assert.True(t, total.IsZero())
}
