package model

// PointsKind 积分流水类型枚举
type PointsKind string

const (
	PointsKindOrderEarn     PointsKind = "order_earn"     // 订单完成发放
	PointsKindRedeem        PointsKind = "redeem"         // 结账抵扣
	PointsKindBirthdayGrant PointsKind = "birthday_grant" // 生日礼遇（记账用，金额在 credit 字段）
	PointsKindAdjust        PointsKind = "adjust"         // 人工调整
)

// PointsTransaction 积分流水，只追加不修改
type PointsTransaction struct {
	BaseModel
	UserID       int64      `gorm:"not null;index:idx_points_transactions_user" json:"user_id"`
	Kind         PointsKind `gorm:"type:varchar(16);not null" json:"kind"`
	Delta        int64      `gorm:"not null" json:"delta"`
	BalanceAfter int64      `gorm:"not null" json:"balance_after"` // redeemable 余额快照
	OrderID      *int64     `gorm:"index:idx_points_transactions_order" json:"order_id,omitempty"`
	Reason       string     `gorm:"type:varchar(64);not null;default:''" json:"reason"`
}

// TableName 指定表名
func (PointsTransaction) TableName() string {
	return "points_transactions"
}
