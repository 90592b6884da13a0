package loyalty

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func defaultEarnRule() EarnRule {
	return EarnRule{
		Unit:            decimal.NewFromInt(200),
		DoubleThreshold: decimal.NewFromInt(10000),
	}
}

func TestAward(t *testing.T) {
	rule := defaultEarnRule()

	cases := []struct {
		name  string
		total string
		want  int64
	}{
		{"one unit", "200", 1},
		{"at threshold keeps normal rate", "10000", 50},
		{"above threshold doubles rate", "10001", 100},
		{"zero", "0", 0},
		{"negative", "-5", 0},
		{"floors fraction", "950", 4},
		{"below one unit", "199.99", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := rule.Award(decimal.RequireFromString(tc.total))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestAwardInvalidRule(t *testing.T) {
	rule := EarnRule{Unit: decimal.Zero, DoubleThreshold: decimal.NewFromInt(10000)}
	assert.EqualValues(t, 0, rule.Award(decimal.NewFromInt(500)))
}

func TestRedeemValue(t *testing.T) {
	rule := RedeemRule{Rate: decimal.NewFromInt(1)}
	assert.True(t, rule.Value(100).Equal(decimal.NewFromInt(100)))
	assert.True(t, rule.Value(0).IsZero())
	assert.True(t, rule.Value(-3).IsZero())

	half := RedeemRule{Rate: decimal.RequireFromString("0.5")}
	assert.True(t, half.Value(10).Equal(decimal.NewFromInt(5)))
}
