package dto

// ========== User 相关 DTO ==========

// UserProfileData 用户资料数据
type UserProfileData struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	Phone       PhoneInfo `json:"phone"`
	DateOfBirth string    `json:"date_of_birth,omitempty"`

	Loyalty LoyaltyStatusData `json:"loyalty"`
}

// PhoneInfo 手机号信息
type PhoneInfo struct {
	NumberMasked string `json:"number_masked"`
	Verified     bool   `json:"verified"`
}

// LoyaltyStatusData 会员等级与积分状态
type LoyaltyStatusData struct {
	LifetimePoints   int64   `json:"lifetime_points"`
	RedeemablePoints int64   `json:"redeemable_points"`
	Tier             string  `json:"tier"`
	NextTier         string  `json:"next_tier,omitempty"`
	ProgressFraction float64 `json:"progress_fraction"`
	PointsToNext     int64   `json:"points_to_next"`
	BirthdayCredit   string  `json:"birthday_credit"`
	WelcomeOfferUsed bool    `json:"welcome_offer_used"`
}

// UpdateProfileRequest 更新资料请求
type UpdateProfileRequest struct {
	Name        *string `json:"name"`
	Phone       *string `json:"phone"`
	DateOfBirth *string `json:"date_of_birth"` // 2006-01-02
}

// PointsHistoryItem 积分流水条目
type PointsHistoryItem struct {
	Kind         string `json:"kind"`
	Delta        int64  `json:"delta"`
	BalanceAfter int64  `json:"balance_after"`
	OrderID      string `json:"order_id,omitempty"`
	Reason       string `json:"reason,omitempty"`
	CreatedAt    string `json:"created_at"`
}
