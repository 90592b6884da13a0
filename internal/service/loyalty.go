package service

import (
	"steamsbury/config"
	"steamsbury/internal/loyalty"
)

// 会员规则从配置解析一次，全局共享。
// 等级表等配置错误属于不可恢复的启动错误，必须在 main 里 InitRules 并对错误 Fatal。

var loyaltyRules *loyalty.RuleSet

// InitRules 解析并校验会员规则配置，必须在各个 main 的启动阶段调用
func InitRules() error {
	rules, err := loyalty.NewRuleSet(loyalty.RuleSettings{
		Tiers:                 config.Cfg.LoyaltyTiers,
		PointsEarnUnit:        config.Cfg.PointsEarnUnit,
		PointsDoubleThreshold: config.Cfg.PointsDoubleThreshold,
		PointsRedeemRate:      config.Cfg.PointsRedeemRate,
		WelcomeDiscount:       config.Cfg.WelcomeDiscountAmount,
		BirthdayCredit:        config.Cfg.BirthdayCreditAmount,
		ServiceChargeRate:     config.Cfg.ServiceChargeRate,
	})
	if err != nil {
		return err
	}

	loyaltyRules = rules
	return nil
}

func Rules() *loyalty.RuleSet {
	if loyaltyRules == nil {
		panic("loyalty rules not initialized, call service.InitRules() first")
	}
	return loyaltyRules
}
