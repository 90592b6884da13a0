package dto

// ========== Offer 相关 DTO ==========

// OfferData 优惠数据（管理端视角）
type OfferData struct {
	ID            string            `json:"id"`
	MenuItemID    int64             `json:"menu_item_id"`
	Title         string            `json:"title"`
	StartDate     string            `json:"start_date"`
	EndDate       string            `json:"end_date"`
	DiscountType  string            `json:"discount_type"`
	TierDiscounts map[string]string `json:"tier_discounts"`
	OrderType     string            `json:"order_type"`
}

// EligibleOfferData 顾客视角的可用优惠，带按其等级折算后的展示价
type EligibleOfferData struct {
	ID            string `json:"id"`
	MenuItemID    int64  `json:"menu_item_id"`
	MenuItemName  string `json:"menu_item_name"`
	Title         string `json:"title"`
	OrderType     string `json:"order_type"`
	OriginalPrice string `json:"original_price"`
	DisplayPrice  string `json:"display_price"`
	EndDate       string `json:"end_date"`
}

// CreateOfferRequest 创建优惠请求
type CreateOfferRequest struct {
	MenuItemID    int64             `json:"menu_item_id" binding:"required"`
	Title         string            `json:"title" binding:"required"`
	StartDate     string            `json:"start_date" binding:"required"` // 2006-01-02
	EndDate       string            `json:"end_date" binding:"required"`
	DiscountType  string            `json:"discount_type" binding:"required"` // fixed, percentage
	TierDiscounts map[string]string `json:"tier_discounts" binding:"required"`
	OrderType     string            `json:"order_type" binding:"required"` // dine_in, takeaway
}

// UpdateOfferRequest 更新优惠请求
type UpdateOfferRequest struct {
	Title         *string           `json:"title"`
	StartDate     *string           `json:"start_date"`
	EndDate       *string           `json:"end_date"`
	DiscountType  *string           `json:"discount_type"`
	TierDiscounts map[string]string `json:"tier_discounts"`
	OrderType     *string           `json:"order_type"`
}
