package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{OrderStatusPlaced, OrderStatusProcessing, true},
		{OrderStatusPlaced, OrderStatusRejected, true},
		{OrderStatusPlaced, OrderStatusReady, false},
		{OrderStatusPlaced, OrderStatusCompleted, false},
		{OrderStatusProcessing, OrderStatusReady, true},
		{OrderStatusProcessing, OrderStatusRejected, true},
		{OrderStatusProcessing, OrderStatusCompleted, false},
		{OrderStatusProcessing, OrderStatusPlaced, false},
		{OrderStatusReady, OrderStatusCompleted, true},
		{OrderStatusReady, OrderStatusRejected, true},
		{OrderStatusReady, OrderStatusProcessing, false},
		// 终态不允许任何流转
		{OrderStatusCompleted, OrderStatusRejected, false},
		{OrderStatusCompleted, OrderStatusPlaced, false},
		{OrderStatusRejected, OrderStatusProcessing, false},
		{OrderStatusRejected, OrderStatusCompleted, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestOrderStatusIsTerminal(t *testing.T) {
	assert.True(t, OrderStatusCompleted.IsTerminal())
	assert.True(t, OrderStatusRejected.IsTerminal())
	assert.False(t, OrderStatusPlaced.IsTerminal())
	assert.False(t, OrderStatusProcessing.IsTerminal())
	assert.False(t, OrderStatusReady.IsTerminal())
}

func TestTierDiscountMapDiscountFor(t *testing.T) {
	m := TierDiscountMap{
		"Silver": decimal.NewFromInt(10),
	}

	d, ok := m.DiscountFor("Silver")
	assert.True(t, ok)
	assert.True(t, d.Equal(decimal.NewFromInt(10)))

	_, ok = m.DiscountFor("Gold")
	assert.False(t, ok)

	var nilMap TierDiscountMap
	_, ok = nilMap.DiscountFor("Silver")
	assert.False(t, ok)
}

func TestRedemptionMapRedeemedOn(t *testing.T) {
	m := RedemptionMap{"42": "2026-08-27"}

	day, ok := m.RedeemedOn("42")
	assert.True(t, ok)
	assert.Equal(t, "2026-08-27", day)

	_, ok = m.RedeemedOn("7")
	assert.False(t, ok)

	var nilMap RedemptionMap
	_, ok = nilMap.RedeemedOn("42")
	assert.False(t, ok)
}
