package model

import "github.com/shopspring/decimal"

// DiscountType 折扣类型枚举
type DiscountType string

const (
	DiscountTypeFixed      DiscountType = "fixed"      // 固定金额立减
	DiscountTypePercentage DiscountType = "percentage" // 按百分比折扣
)

// OrderType 用餐方式枚举
type OrderType string

const (
	OrderTypeDineIn   OrderType = "dine_in"
	OrderTypeTakeaway OrderType = "takeaway"
)

// Offer 每日优惠：指定单品、限定日期区间、按会员等级给不同折扣
type Offer struct {
	BaseModel
	PublicID int64 `gorm:"uniqueIndex;not null" json:"public_id"`
	// 指向单品的 public_id，对外接口统一使用 public_id
	MenuItemID int64  `gorm:"not null;index:idx_offers_menu_item" json:"menu_item_id"`
	Title      string `gorm:"type:varchar(128);not null" json:"title"`

	// 日期区间为闭区间，按日历日比较，不含时分秒
	StartDate string `gorm:"type:date;not null" json:"start_date"`
	EndDate   string `gorm:"type:date;not null" json:"end_date"`

	DiscountType DiscountType `gorm:"type:varchar(16);not null" json:"discount_type"`
	// 等级折扣表：tier 名称 -> 折扣值（fixed 为金额，percentage 为百分数），JSONB
	TierDiscounts TierDiscountMap `gorm:"type:jsonb;serializer:json;default:'{}'" json:"tier_discounts"`

	OrderType OrderType `gorm:"type:varchar(16);not null" json:"order_type"`
}

// TableName 指定表名
func (Offer) TableName() string {
	return "offers"
}

// TierDiscountMap 等级折扣表（JSONB）
type TierDiscountMap map[string]decimal.Decimal

// DiscountFor 返回指定等级的折扣值
func (m TierDiscountMap) DiscountFor(tierID string) (decimal.Decimal, bool) {
	if m == nil {
		return decimal.Zero, false
	}
	d, ok := m[tierID]
	return d, ok
}
