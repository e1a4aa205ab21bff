package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSession(t *testing.T) {
	sess := New()

	assert.NotEmpty(t, sess.ID)
	assert.NotEmpty(t, sess.CSRFToken)
	assert.False(t, sess.IsAuthenticated())
	assert.True(t, sess.CartIsEmpty())
	assert.True(t, sess.Dirty())
}

func TestLoginRotatesSessionAndKeepsCart(t *testing.T) {
	sess := New()
	sess.AddCartLine(1, "Widget", "10.00", 2)
	oldID := sess.ID
	oldToken := sess.CSRFToken

	sess.Login(42)

	assert.True(t, sess.IsAuthenticated())
	assert.Equal(t, int64(42), sess.UserID)
	assert.NotEqual(t, oldID, sess.ID)
	assert.NotEqual(t, oldToken, sess.CSRFToken)
	assert.Len(t, sess.Cart, 1)
}

func TestResetClearsEverything(t *testing.T) {
	sess := New()
	sess.Login(42)
	sess.AddCartLine(1, "Widget", "10.00", 2)
	sess.AddFlash(FlashSuccess, "hello")
	oldID := sess.ID

	sess.Reset()

	assert.False(t, sess.IsAuthenticated())
	assert.True(t, sess.CartIsEmpty())
	assert.Empty(t, sess.Flash)
	assert.NotEqual(t, oldID, sess.ID)
}

func TestPopFlash(t *testing.T) {
	sess := New()
	sess.AddFlash(FlashSuccess, "saved")
	sess.AddFlash(FlashError, "oops")

	flashes := sess.PopFlash()
	require.Len(t, flashes, 2)
	assert.Equal(t, FlashSuccess, flashes[0].Level)
	assert.Equal(t, "saved", flashes[0].Message)

	assert.Nil(t, sess.PopFlash())
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	sess := New()
	sess.Login(7)
	sess.AddCartLine(3, "Widget", "9.99", 2)

	require.NoError(t, st.Save(ctx, sess))
	assert.False(t, sess.Dirty())

	loaded, err := st.Load(ctx, sess.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, sess.ID, loaded.ID)
	assert.Equal(t, int64(7), loaded.UserID)
	assert.Equal(t, sess.CSRFToken, loaded.CSRFToken)
	assert.Equal(t, 2, loaded.Cart["3"].Quantity)
}

func TestMemoryStoreLoadMissing(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	loaded, err := st.Load(ctx, "no-such-session")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	sess := New()
	require.NoError(t, st.Save(ctx, sess))
	require.NoError(t, st.Delete(ctx, sess.ID))

	loaded, err := st.Load(ctx, sess.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}
