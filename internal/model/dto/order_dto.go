package dto

// ========== Order 相关 DTO ==========

// CheckoutRequest 结账请求，金额由前端预计算、后端复核
type CheckoutRequest struct {
	OrderType string            `json:"order_type" binding:"required"` // dine_in, takeaway
	Items     []CheckoutItem    `json:"items" binding:"required"`
	Discounts CheckoutDiscounts `json:"discounts"`
	// 用积分抵扣的数量，0 表示不使用
	RedeemPoints int64 `json:"redeem_points"`
	// 是否使用生日礼遇抵扣
	UseBirthdayCredit bool `json:"use_birthday_credit"`
	// 声明的总额，用于和服务端复算结果对账
	DeclaredTotal string `json:"declared_total" binding:"required"`
}

// CheckoutItem 购物车行
type CheckoutItem struct {
	MenuItemID     int64   `json:"menu_item_id" binding:"required"`
	Quantity       int     `json:"quantity" binding:"required"`
	AddonIDs       []int64 `json:"addon_ids"`
	AppliedOfferID *int64  `json:"applied_offer_id"`
	// 前端计算的行小计，服务端按快照价复核
	DeclaredLineTotal string `json:"declared_line_total" binding:"required"`
}

// CheckoutDiscounts 前端声明的优惠明细（服务端逐项复核）
type CheckoutDiscounts struct {
	WelcomeDiscount string `json:"welcome_discount"`
	OtherDiscount   string `json:"other_discount"`
}

// OrderData 订单数据
type OrderData struct {
	ID          string          `json:"id"`
	OrderNumber string          `json:"order_number"`
	OrderType   string          `json:"order_type"`
	Status      string          `json:"status"`
	Items       []OrderItemData `json:"items"`

	CartTotal        string `json:"cart_total"`
	WelcomeDiscount  string `json:"welcome_discount"`
	BirthdayDiscount string `json:"birthday_discount"`
	LoyaltyDiscount  string `json:"loyalty_discount"`
	OfferDiscount    string `json:"offer_discount"`
	ServiceCharge    string `json:"service_charge"`
	GrandTotal       string `json:"grand_total"`

	PointsRedeemed int64  `json:"points_redeemed"`
	PointsEarned   int64  `json:"points_earned"`
	CreatedAt      string `json:"created_at"`
}

// OrderItemData 订单行数据
type OrderItemData struct {
	MenuItemID int64            `json:"menu_item_id"`
	Name       string           `json:"name"`
	UnitPrice  string           `json:"unit_price"`
	Quantity   int              `json:"quantity"`
	Addons     []OrderAddonData `json:"addons,omitempty"`
	LineTotal  string           `json:"line_total"`
}

// OrderAddonData 订单行加料数据
type OrderAddonData struct {
	Name  string `json:"name"`
	Price string `json:"price"`
}

// UpdateOrderStatusRequest 员工更新订单状态请求
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// RedeemPointsRequest 员工到店核销积分请求
type RedeemPointsRequest struct {
	CustomerID string `json:"customer_id" binding:"required"`
	Points     int64  `json:"points" binding:"required"`
	Reason     string `json:"reason"`
}

// GrantBirthdayCreditRequest 管理员发放生日礼遇请求
type GrantBirthdayCreditRequest struct {
	CustomerID string `json:"customer_id" binding:"required"`
	Amount     string `json:"amount"` // 为空则用配置默认值
}
