package loyalty

import (
	"github.com/shopspring/decimal"
)

// EarnRule 积分获取规则：每消费 Unit 得 1 分，订单总额超过 DoubleThreshold 时按双倍速率计
type EarnRule struct {
	Unit            decimal.Decimal
	DoubleThreshold decimal.Decimal
}

// Award 计算订单总额应得的积分，向下取整；总额为零或负数不得分
func (r EarnRule) Award(orderTotal decimal.Decimal) int64 {
	if orderTotal.LessThanOrEqual(decimal.Zero) {
		return 0
	}
	if r.Unit.LessThanOrEqual(decimal.Zero) {
		return 0
	}

	unit := r.Unit
	if orderTotal.GreaterThan(r.DoubleThreshold) {
		unit = unit.Div(decimal.NewFromInt(2))
	}
	return orderTotal.Div(unit).Floor().IntPart()
}

// RedeemRule 积分抵扣规则：1 积分抵扣 Rate 货币
type RedeemRule struct {
	Rate decimal.Decimal
}

// Value 返回指定积分数可抵扣的金额
func (r RedeemRule) Value(points int64) decimal.Decimal {
	if points <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(points).Mul(r.Rate)
}
