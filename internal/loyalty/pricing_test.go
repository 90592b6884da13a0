package loyalty

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bizErrors "steamsbury/pkg/errors"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeTotalsNotReady(t *testing.T) {
	_, err := ComputeTotals(nil, Discounts{}, decimal.Zero)
	assert.ErrorIs(t, err, bizErrors.NotReady)
}

func TestComputeTotalsRecomputesLines(t *testing.T) {
	cart := []CartLine{
		{
			UnitPrice:         d("150"),
			Quantity:          2,
			AddonPrices:       []decimal.Decimal{d("20"), d("30")},
			DeclaredLineTotal: d("400"),
		},
		{
			UnitPrice:         d("600"),
			Quantity:          1,
			DeclaredLineTotal: d("600"),
		},
	}

	totals, err := ComputeTotals(cart, Discounts{Welcome: d("100")}, d("50"))
	require.NoError(t, err)
	assert.True(t, totals.CartTotal.Equal(d("1000")), "got %s", totals.CartTotal)
	assert.True(t, totals.GrandTotal.Equal(d("950")), "got %s", totals.GrandTotal)
}

// 声明 500 实算 450，偏差超过容差 0.01，判定购物车被篡改
func TestComputeTotalsRejectsTamperedLine(t *testing.T) {
	cart := []CartLine{
		{
			UnitPrice:         d("150"),
			Quantity:          3,
			DeclaredLineTotal: d("500"),
		},
	}
	_, err := ComputeTotals(cart, Discounts{}, decimal.Zero)
	assert.ErrorIs(t, err, bizErrors.CartTotalMismatch)
}

func TestComputeTotalsToleratesRounding(t *testing.T) {
	cart := []CartLine{
		{
			UnitPrice:         d("33.33"),
			Quantity:          3,
			DeclaredLineTotal: d("100"), // 实算 99.99，偏差恰好 0.01
		},
	}
	totals, err := ComputeTotals(cart, Discounts{}, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, totals.CartTotal.Equal(d("99.99")))
}

func TestComputeTotalsFloorsAtZero(t *testing.T) {
	cart := []CartLine{
		{UnitPrice: d("100"), Quantity: 1, DeclaredLineTotal: d("100")},
	}
	totals, err := ComputeTotals(cart, Discounts{Welcome: d("80"), Birthday: d("80")}, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, totals.GrandTotal.IsZero())
}

func TestComputeTotalsEmptyCart(t *testing.T) {
	totals, err := ComputeTotals([]CartLine{}, Discounts{}, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, totals.CartTotal.IsZero())
	assert.True(t, totals.GrandTotal.IsZero())
}

// 端到端：购物车 1000，新客折扣 100，服务费 50 → 应付 950，完成后得 4 分
func TestCheckoutScenario(t *testing.T) {
	cart := []CartLine{
		{UnitPrice: d("500"), Quantity: 2, DeclaredLineTotal: d("1000")},
	}
	totals, err := ComputeTotals(cart, Discounts{Welcome: d("100")}, d("50"))
	require.NoError(t, err)
	assert.True(t, totals.GrandTotal.Equal(d("950")))

	rule := defaultEarnRule()
	assert.EqualValues(t, 4, rule.Award(totals.GrandTotal))
}

func TestVerifyDeclaredTotal(t *testing.T) {
	assert.NoError(t, VerifyDeclaredTotal(d("950"), d("950")))
	assert.NoError(t, VerifyDeclaredTotal(d("950.01"), d("950")))
	assert.ErrorIs(t, VerifyDeclaredTotal(d("950.02"), d("950")), bizErrors.CartTotalMismatch)
}
