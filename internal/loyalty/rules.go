package loyalty

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RuleSettings 会员规则的原始配置值，全部来自环境变量
type RuleSettings struct {
	Tiers                 []string
	PointsEarnUnit        string
	PointsDoubleThreshold string
	PointsRedeemRate      string
	WelcomeDiscount       string
	BirthdayCredit        string
	ServiceChargeRate     string
}

// RuleSet 解析校验后的会员规则，进程内只构建一次
type RuleSet struct {
	Table      TierTable
	EarnRule   EarnRule
	RedeemRule RedeemRule

	WelcomeDiscount   decimal.Decimal
	BirthdayCredit    decimal.Decimal
	ServiceChargeRate decimal.Decimal
}

// NewRuleSet 解析会员规则配置。任何一项不合法都返回错误，
// 调用方应在启动阶段调用并对错误 Fatal，不要等到请求期。
func NewRuleSet(settings RuleSettings) (*RuleSet, error) {
	table, err := ParseTierTable(settings.Tiers)
	if err != nil {
		return nil, fmt.Errorf("invalid loyalty tier table %v: %w", settings.Tiers, err)
	}

	earnUnit, err := parseRuleDecimal("points earn unit", settings.PointsEarnUnit)
	if err != nil {
		return nil, err
	}
	doubleThreshold, err := parseRuleDecimal("points double threshold", settings.PointsDoubleThreshold)
	if err != nil {
		return nil, err
	}
	redeemRate, err := parseRuleDecimal("points redeem rate", settings.PointsRedeemRate)
	if err != nil {
		return nil, err
	}
	welcomeDiscount, err := parseRuleDecimal("welcome discount", settings.WelcomeDiscount)
	if err != nil {
		return nil, err
	}
	birthdayCredit, err := parseRuleDecimal("birthday credit", settings.BirthdayCredit)
	if err != nil {
		return nil, err
	}
	serviceChargeRate, err := parseRuleDecimal("service charge rate", settings.ServiceChargeRate)
	if err != nil {
		return nil, err
	}

	return &RuleSet{
		Table:             table,
		EarnRule:          EarnRule{Unit: earnUnit, DoubleThreshold: doubleThreshold},
		RedeemRule:        RedeemRule{Rate: redeemRate},
		WelcomeDiscount:   welcomeDiscount,
		BirthdayCredit:    birthdayCredit,
		ServiceChargeRate: serviceChargeRate,
	}, nil
}

// TierFor 返回指定 lifetime 积分的等级状态
func (r *RuleSet) TierFor(lifetimePoints int64) (Status, error) {
	return r.Table.Resolve(lifetimePoints)
}

func parseRuleDecimal(name, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid %s %q: %w", name, raw, err)
	}
	if d.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("invalid %s %q: must not be negative", name, raw)
	}
	return d, nil
}
