package loyalty

import (
	"github.com/shopspring/decimal"

	bizErrors "steamsbury/pkg/errors"
)

// Epsilon 金额对账容差，两位小数定点，容忍浮点舍入
var Epsilon = decimal.NewFromFloat(0.01)

// CartLine 待结算的购物车行，DeclaredLineTotal 为客户端预计算值，服务端复核
type CartLine struct {
	UnitPrice         decimal.Decimal
	Quantity          int
	AddonPrices       []decimal.Decimal
	DeclaredLineTotal decimal.Decimal
}

// Discounts 结算时各项抵扣金额，均为非负
type Discounts struct {
	Welcome  decimal.Decimal
	Birthday decimal.Decimal
	Loyalty  decimal.Decimal // 积分抵扣折算的金额
	Other    decimal.Decimal // 每日优惠等其他叠加折扣
}

// Totals 结算结果
type Totals struct {
	CartTotal  decimal.Decimal
	LineTotals []decimal.Decimal
	GrandTotal decimal.Decimal
}

// ComputeTotals 复算购物车总额并叠加折扣与服务费。
// 行小计按 (单价 + 加料合计) × 数量 重算，与客户端声明值相差超过容差
// 即判定购物车被篡改或已过期，返回 CART_TOTAL_MISMATCH。
// 各折扣项先于服务费扣减，顺序无关；总额下限为 0。
func ComputeTotals(cart []CartLine, discounts Discounts, serviceCharge decimal.Decimal) (Totals, error) {
	if cart == nil {
		return Totals{}, bizErrors.NotReady
	}

	totals := Totals{
		CartTotal:  decimal.Zero,
		LineTotals: make([]decimal.Decimal, 0, len(cart)),
	}
	for _, line := range cart {
		unit := line.UnitPrice
		for _, p := range line.AddonPrices {
			unit = unit.Add(p)
		}
		lineTotal := unit.Mul(decimal.NewFromInt(int64(line.Quantity)))

		if line.DeclaredLineTotal.Sub(lineTotal).Abs().GreaterThan(Epsilon) {
			return Totals{}, bizErrors.CartTotalMismatch
		}

		totals.LineTotals = append(totals.LineTotals, lineTotal)
		totals.CartTotal = totals.CartTotal.Add(lineTotal)
	}

	grand := totals.CartTotal.
		Sub(discounts.Welcome).
		Sub(discounts.Birthday).
		Sub(discounts.Loyalty).
		Sub(discounts.Other).
		Add(serviceCharge)
	if grand.IsNegative() {
		grand = decimal.Zero
	}
	totals.GrandTotal = grand
	return totals, nil
}

// VerifyDeclaredTotal 复核客户端声明的总额与服务端复算结果是否一致
func VerifyDeclaredTotal(declared, computed decimal.Decimal) error {
	if declared.Sub(computed).Abs().GreaterThan(Epsilon) {
		return bizErrors.CartTotalMismatch
	}
	return nil
}
