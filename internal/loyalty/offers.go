package loyalty

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"steamsbury/internal/model"
	bizErrors "steamsbury/pkg/errors"
)

// DateLayout 日期字段统一按日历日编码，不含时分秒
const DateLayout = "2006-01-02"

// OfferCandidate 待筛选的优惠及其对应单品原价
type OfferCandidate struct {
	Offer         model.Offer
	OriginalPrice decimal.Decimal
}

// EligibleOffer 通过筛选的优惠，带按等级折算后的展示价
type EligibleOffer struct {
	Offer         model.Offer
	OriginalPrice decimal.Decimal
	DisplayPrice  decimal.Decimal
}

// EligibleOffers 返回指定顾客当日可用的优惠列表。纯函数，不做任何标记写入。
//
// 筛选规则：
//  1. today 落在 [StartDate, EndDate] 闭区间内（按日历日比较）；
//  2. 当日尚未兑换过该优惠（昨天兑换过不影响今天）；
//  3. 该顾客等级在折扣表中存在且折扣值 > 0。
//
// 数据尚未加载完成（nil 输入）时返回 NOT_READY，调用方应稍后重试。
func EligibleOffers(candidates []OfferCandidate, tierID string, today time.Time, redeemed model.RedemptionMap) ([]EligibleOffer, error) {
	if candidates == nil || tierID == "" {
		return nil, bizErrors.NotReady
	}

	day := today.Format(DateLayout)
	result := make([]EligibleOffer, 0, len(candidates))
	for _, c := range candidates {
		offer := c.Offer
		if !activeOn(offer, day) {
			continue
		}
		if last, ok := redeemed.RedeemedOn(offerKey(offer)); ok && last == day {
			continue
		}
		discount, ok := offer.TierDiscounts.DiscountFor(tierID)
		if !ok || discount.LessThanOrEqual(decimal.Zero) {
			continue
		}

		result = append(result, EligibleOffer{
			Offer:         offer,
			OriginalPrice: c.OriginalPrice,
			DisplayPrice:  DiscountedPrice(c.OriginalPrice, offer.DiscountType, discount),
		})
	}
	return result, nil
}

// DiscountedPrice 按折扣类型计算展示价，下限为 0，折扣不产生负价格
func DiscountedPrice(original decimal.Decimal, discountType model.DiscountType, discount decimal.Decimal) decimal.Decimal {
	var price decimal.Decimal
	switch discountType {
	case model.DiscountTypePercentage:
		factor := decimal.NewFromInt(1).Sub(discount.Div(decimal.NewFromInt(100)))
		price = original.Mul(factor)
	case model.DiscountTypeFixed:
		price = original.Sub(discount)
	default:
		price = original
	}
	if price.IsNegative() {
		return decimal.Zero
	}
	return price
}

// activeOn 判断优惠在指定日是否生效。日期字符串为 2006-01-02，
// 字典序与时间序一致，直接比较即可；格式不合法的优惠按不生效处理。
func activeOn(offer model.Offer, day string) bool {
	if _, err := time.Parse(DateLayout, offer.StartDate); err != nil {
		return false
	}
	if _, err := time.Parse(DateLayout, offer.EndDate); err != nil {
		return false
	}
	return offer.StartDate <= day && day <= offer.EndDate
}

func offerKey(offer model.Offer) string {
	return strconv.FormatInt(offer.PublicID, 10)
}

// ParseTierDiscounts 校验管理端提交的等级折扣表。
// 等级名必须在等级表中存在，写错的等级名（如 "Sliver"）永远不会命中任何顾客，
// 直接拒绝而不是静默入库；折扣值必须是非负的十进制数。
func ParseTierDiscounts(raw map[string]string, table TierTable) (model.TierDiscountMap, error) {
	result := model.TierDiscountMap{}
	for tierID, value := range raw {
		if !table.Contains(tierID) {
			return nil, bizErrors.OfferDiscountInvalid
		}
		d, err := decimal.NewFromString(value)
		if err != nil || d.IsNegative() {
			return nil, bizErrors.OfferDiscountInvalid
		}
		result[tierID] = d
	}
	return result, nil
}
