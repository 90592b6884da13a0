package loyalty

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bizErrors "steamsbury/pkg/errors"
)

func defaultRuleSettings() RuleSettings {
	return RuleSettings{
		Tiers:                 []string{"Bronze:0", "Silver:1000", "Gold:5000", "Platinum:15000"},
		PointsEarnUnit:        "200",
		PointsDoubleThreshold: "10000",
		PointsRedeemRate:      "1",
		WelcomeDiscount:       "100",
		BirthdayCredit:        "500",
		ServiceChargeRate:     "0.05",
	}
}

func TestNewRuleSet(t *testing.T) {
	rules, err := NewRuleSet(defaultRuleSettings())
	require.NoError(t, err)

	assert.Equal(t, defaultTable(), rules.Table)
	assert.True(t, rules.EarnRule.Unit.Equal(decimal.NewFromInt(200)))
	assert.True(t, rules.EarnRule.DoubleThreshold.Equal(decimal.NewFromInt(10000)))
	assert.True(t, rules.RedeemRule.Rate.Equal(decimal.NewFromInt(1)))
	assert.True(t, rules.WelcomeDiscount.Equal(decimal.NewFromInt(100)))
	assert.True(t, rules.BirthdayCredit.Equal(decimal.NewFromInt(500)))
	assert.True(t, rules.ServiceChargeRate.Equal(decimal.RequireFromString("0.05")))
}

// 任何一项配置不合法都必须在构建时报错，不能等到请求期才暴露
func TestNewRuleSetInvalidSettings(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*RuleSettings)
	}{
		{"empty tier table", func(s *RuleSettings) { s.Tiers = nil }},
		{"malformed tier entry", func(s *RuleSettings) { s.Tiers = []string{"Bronze"} }},
		{"first tier not zero", func(s *RuleSettings) { s.Tiers = []string{"Bronze:100", "Silver:1000"} }},
		{"non numeric earn unit", func(s *RuleSettings) { s.PointsEarnUnit = "abc" }},
		{"negative earn unit", func(s *RuleSettings) { s.PointsEarnUnit = "-200" }},
		{"non numeric double threshold", func(s *RuleSettings) { s.PointsDoubleThreshold = "" }},
		{"negative redeem rate", func(s *RuleSettings) { s.PointsRedeemRate = "-1" }},
		{"non numeric welcome discount", func(s *RuleSettings) { s.WelcomeDiscount = "1,00" }},
		{"negative birthday credit", func(s *RuleSettings) { s.BirthdayCredit = "-500" }},
		{"non numeric service charge", func(s *RuleSettings) { s.ServiceChargeRate = "5%" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			settings := defaultRuleSettings()
			tc.mutate(&settings)

			rules, err := NewRuleSet(settings)
			assert.Error(t, err)
			assert.Nil(t, rules)
		})
	}
}

func TestNewRuleSetMalformedTierTableError(t *testing.T) {
	settings := defaultRuleSettings()
	settings.Tiers = []string{"Bronze:0", "Silver:abc"}

	_, err := NewRuleSet(settings)
	assert.ErrorIs(t, err, bizErrors.TierTableInvalid)
}

func TestRuleSetTierFor(t *testing.T) {
	rules, err := NewRuleSet(defaultRuleSettings())
	require.NoError(t, err)

	status, err := rules.TierFor(1200)
	require.NoError(t, err)
	assert.Equal(t, "Silver", status.Current.ID)
}

func TestTierTableContains(t *testing.T) {
	table := defaultTable()

	assert.True(t, table.Contains("Bronze"))
	assert.True(t, table.Contains("Platinum"))
	assert.False(t, table.Contains("Sliver"))
	assert.False(t, table.Contains(""))

	var empty TierTable
	assert.False(t, empty.Contains("Bronze"))
}

func TestParseTierDiscounts(t *testing.T) {
	table := defaultTable()

	discounts, err := ParseTierDiscounts(map[string]string{
		"Silver": "10",
		"Gold":   "15.5",
	}, table)
	require.NoError(t, err)
	assert.True(t, discounts["Silver"].Equal(decimal.NewFromInt(10)))
	assert.True(t, discounts["Gold"].Equal(decimal.RequireFromString("15.5")))

	// 空表是合法输入，等价于不给任何等级折扣
	discounts, err = ParseTierDiscounts(nil, table)
	require.NoError(t, err)
	assert.Empty(t, discounts)

	cases := []struct {
		name string
		raw  map[string]string
	}{
		{"unknown tier name", map[string]string{"Sliver": "10"}},
		{"negative discount", map[string]string{"Silver": "-10"}},
		{"non numeric discount", map[string]string{"Silver": "ten"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseTierDiscounts(tc.raw, table)
			assert.ErrorIs(t, err, bizErrors.OfferDiscountInvalid)
		})
	}
}
