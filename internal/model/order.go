package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus 订单状态枚举
type OrderStatus string

const (
	OrderStatusPlaced     OrderStatus = "placed"           // 已下单
	OrderStatusProcessing OrderStatus = "processing"       // 制作中
	OrderStatusReady      OrderStatus = "ready_for_pickup" // 待取餐
	OrderStatusCompleted  OrderStatus = "completed"        // 已完成（终态）
	OrderStatusRejected   OrderStatus = "rejected"         // 已拒单（终态）
)

// IsTerminal 判断是否为终态
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusRejected
}

// statusTransitions 合法的状态流转表
var statusTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPlaced:     {OrderStatusProcessing, OrderStatusRejected},
	OrderStatusProcessing: {OrderStatusReady, OrderStatusRejected},
	OrderStatusReady:      {OrderStatusCompleted, OrderStatusRejected},
}

// CanTransitionTo 校验状态流转是否合法
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order 订单模型，金额在结账时由服务端重新计算后落库
type Order struct {
	BaseModel
	PublicID    int64       `gorm:"uniqueIndex;not null" json:"public_id"`
	OrderNumber string      `gorm:"uniqueIndex;type:varchar(64);not null" json:"order_number"`
	CustomerID  int64       `gorm:"not null;index:idx_orders_customer" json:"customer_id"`
	OrderType   OrderType   `gorm:"type:varchar(16);not null" json:"order_type"`
	Status      OrderStatus `gorm:"type:varchar(24);not null;default:'placed';index:idx_orders_status" json:"status"`

	CartTotal        decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"cart_total"`
	WelcomeDiscount  decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"welcome_discount"`
	BirthdayDiscount decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"birthday_discount"`
	LoyaltyDiscount  decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"loyalty_discount"`
	OfferDiscount    decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"offer_discount"`
	ServiceCharge    decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"service_charge"`
	GrandTotal       decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"grand_total"`

	PointsRedeemed int64 `gorm:"not null;default:0" json:"points_redeemed"`
	PointsEarned   int64 `gorm:"not null;default:0" json:"points_earned"`
	// 积分发放时间，非空表示已发放，worker 以此做幂等
	PointsAwardedAt *time.Time `gorm:"type:timestamptz" json:"points_awarded_at,omitempty"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// OrderItem 订单行，单价和加料价为下单时的快照
type OrderItem struct {
	BaseModel
	OrderID        int64           `gorm:"not null;index:idx_order_items_order" json:"order_id"`
	MenuItemID     int64           `gorm:"not null" json:"menu_item_id"`
	Name           string          `gorm:"type:varchar(128);not null" json:"name"`
	UnitPrice      decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"unit_price"`
	Quantity       int             `gorm:"not null" json:"quantity"`
	Addons         OrderAddons     `gorm:"type:jsonb;serializer:json;default:'[]'" json:"addons"`
	AppliedOfferID *int64          `json:"applied_offer_id,omitempty"`
	LineTotal      decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"line_total"`
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}

// OrderAddons 订单行加料快照（JSONB）
type OrderAddons []OrderAddon

// OrderAddon 加料快照
type OrderAddon struct {
	AddonID int64           `json:"addon_id"`
	Name    string          `json:"name"`
	Price   decimal.Decimal `json:"price"`
}
