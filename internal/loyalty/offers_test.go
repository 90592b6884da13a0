package loyalty

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"steamsbury/internal/model"
	bizErrors "steamsbury/pkg/errors"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(DateLayout, s)
	require.NoError(t, err)
	return d
}

func pctOffer(publicID int64, start, end string, discounts map[string]string) model.Offer {
	td := model.TierDiscountMap{}
	for tier, v := range discounts {
		td[tier] = decimal.RequireFromString(v)
	}
	return model.Offer{
		PublicID:      publicID,
		MenuItemID:    1,
		Title:         "latte special",
		StartDate:     start,
		EndDate:       end,
		DiscountType:  model.DiscountTypePercentage,
		TierDiscounts: td,
		OrderType:     model.OrderTypeDineIn,
	}
}

func TestEligibleOffersNotReady(t *testing.T) {
	today := mustDate(t, "2026-08-27")

	_, err := EligibleOffers(nil, "Silver", today, nil)
	assert.ErrorIs(t, err, bizErrors.NotReady)

	_, err = EligibleOffers([]OfferCandidate{}, "", today, nil)
	assert.ErrorIs(t, err, bizErrors.NotReady)
}

func TestEligibleOffersDateRange(t *testing.T) {
	price := decimal.NewFromInt(100)
	offer := pctOffer(1, "2026-08-10", "2026-08-20", map[string]string{"Silver": "10"})
	candidates := []OfferCandidate{{Offer: offer, OriginalPrice: price}}

	cases := []struct {
		name string
		day  string
		want int
	}{
		{"before range", "2026-08-09", 0},
		{"first day inclusive", "2026-08-10", 1},
		{"inside range", "2026-08-15", 1},
		{"last day inclusive", "2026-08-20", 1},
		{"after range", "2026-08-21", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := EligibleOffers(candidates, "Silver", mustDate(t, tc.day), nil)
			require.NoError(t, err)
			assert.Len(t, got, tc.want)
		})
	}
}

func TestEligibleOffersDailyRedemption(t *testing.T) {
	price := decimal.NewFromInt(100)
	offer := pctOffer(7, "2026-08-01", "2026-08-31", map[string]string{"Gold": "20"})
	candidates := []OfferCandidate{{Offer: offer, OriginalPrice: price}}

	redeemed := model.RedemptionMap{"7": "2026-08-27"}

	// 当天已兑换过，排除
	got, err := EligibleOffers(candidates, "Gold", mustDate(t, "2026-08-27"), redeemed)
	require.NoError(t, err)
	assert.Empty(t, got)

	// 次日可再次兑换
	got, err = EligibleOffers(candidates, "Gold", mustDate(t, "2026-08-28"), redeemed)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestEligibleOffersTierDiscount(t *testing.T) {
	price := decimal.NewFromInt(100)
	offer := pctOffer(3, "2026-08-01", "2026-08-31", map[string]string{
		"Silver": "0",
		"Gold":   "15",
	})
	candidates := []OfferCandidate{{Offer: offer, OriginalPrice: price}}
	today := mustDate(t, "2026-08-27")

	// 折扣值为 0 的等级排除，即使日期生效
	got, err := EligibleOffers(candidates, "Silver", today, nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	// 折扣表中不存在的等级排除
	got, err = EligibleOffers(candidates, "Bronze", today, nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = EligibleOffers(candidates, "Gold", today, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].DisplayPrice.Equal(decimal.NewFromInt(85)), "got %s", got[0].DisplayPrice)
}

func TestEligibleOffersMalformedDates(t *testing.T) {
	price := decimal.NewFromInt(100)
	offer := pctOffer(9, "soon", "later", map[string]string{"Gold": "15"})
	got, err := EligibleOffers([]OfferCandidate{{Offer: offer, OriginalPrice: price}}, "Gold", mustDate(t, "2026-08-27"), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDiscountedPrice(t *testing.T) {
	cases := []struct {
		name     string
		original string
		dtype    model.DiscountType
		discount string
		want     string
	}{
		{"percentage 15 off 100", "100", model.DiscountTypePercentage, "15", "85"},
		{"fixed 30 off 20 clamps to zero", "20", model.DiscountTypeFixed, "30", "0"},
		{"fixed 30 off 100", "100", model.DiscountTypeFixed, "30", "70"},
		{"percentage over 100 clamps to zero", "50", model.DiscountTypePercentage, "120", "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DiscountedPrice(
				decimal.RequireFromString(tc.original),
				tc.dtype,
				decimal.RequireFromString(tc.discount),
			)
			assert.True(t, got.Equal(decimal.RequireFromString(tc.want)), "got %s", got)
		})
	}
}
