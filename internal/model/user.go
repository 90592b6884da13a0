package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// UserRole 用户角色枚举
type UserRole string

const (
	RoleCustomer UserRole = "customer" // 普通顾客
	RoleStaff    UserRole = "staff"    // 门店员工，负责接单出餐
	RoleAdmin    UserRole = "admin"    // 管理员，维护菜单和活动
)

// User 用户模型，顾客、员工和管理员共用一张表，按 role 区分
type User struct {
	BaseModel
	PublicID     int64    `gorm:"uniqueIndex;not null" json:"public_id"`
	Email        string   `gorm:"uniqueIndex;type:varchar(255);not null" json:"email"`
	PasswordHash string   `gorm:"type:varchar(255);not null" json:"-"`
	Name         string   `gorm:"type:varchar(64);not null;default:''" json:"name"`
	Role         UserRole `gorm:"type:varchar(16);not null;default:'customer';index:idx_users_role" json:"role"`

	PhoneCipher []byte  `gorm:"type:bytea" json:"-"`                // 手机号密文，不对外暴露
	PhoneHash   *string `gorm:"uniqueIndex;type:char(64)" json:"-"` // 手机号哈希，用于查询

	DateOfBirth *time.Time `gorm:"type:date" json:"date_of_birth,omitempty"`

	// 积分：lifetime 只增不减，决定会员等级；redeemable 可被兑换扣减
	LifetimePoints   int64 `gorm:"not null;default:0" json:"lifetime_points"`
	RedeemablePoints int64 `gorm:"not null;default:0" json:"redeemable_points"`

	// 新客优惠：首单折扣，只能使用一次
	WelcomeOfferRedeemed bool `gorm:"not null;default:false" json:"welcome_offer_redeemed"`

	// 生日礼遇：当年生日当天由调度器发放，结账时一次性抵扣
	BirthdayCredit     decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"birthday_credit"`
	BirthdayCreditYear int             `gorm:"not null;default:0" json:"-"` // 发放年份，防止一年内重复发放

	// 每日优惠兑换记录：offer public_id -> 日期字符串（2006-01-02），JSONB
	DailyOffersRedeemed RedemptionMap `gorm:"type:jsonb;serializer:json;default:'{}'" json:"daily_offers_redeemed"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// RedemptionMap 每日优惠兑换记录（JSONB）
type RedemptionMap map[string]string

// RedeemedOn 返回指定优惠最近一次兑换的日期字符串
func (m RedemptionMap) RedeemedOn(offerID string) (string, bool) {
	if m == nil {
		return "", false
	}
	d, ok := m[offerID]
	return d, ok
}
