package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from    string
		to      string
		allowed bool
	}{
		{OrderStatusPending, OrderStatusProcessing, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusShipped, false},
		{OrderStatusPending, OrderStatusDelivered, false},
		{OrderStatusProcessing, OrderStatusShipped, true},
		{OrderStatusProcessing, OrderStatusCancelled, true},
		{OrderStatusProcessing, OrderStatusPending, false},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusShipped, OrderStatusCancelled, false},
		{OrderStatusDelivered, OrderStatusCancelled, false},
		{OrderStatusDelivered, OrderStatusPending, false},
		{OrderStatusCancelled, OrderStatusPending, false},
		{OrderStatusCancelled, OrderStatusProcessing, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, CanTransition(tc.from, tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestCanTransitionSameStatus(t *testing.T) {
	for _, status := range OrderStatuses {
		assert.False(t, CanTransition(status, status), "%s -> %s", status, status)
	}
}

func TestIsOrderStatus(t *testing.T) {
	for _, status := range OrderStatuses {
		assert.True(t, IsOrderStatus(status))
	}

	assert.False(t, IsOrderStatus(""))
	assert.False(t, IsOrderStatus("Pending"))
	assert.False(t, IsOrderStatus("refunded"))
}

func TestOrderItemLineTotal(t *testing.T) {
	item := OrderItem{
		Quantity:  3,
		UnitPrice: decimal.RequireFromString("19.99"),
	}

	assert.True(t, item.LineTotal().Equal(decimal.RequireFromString("59.97")))
}
