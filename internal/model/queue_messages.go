package model

// OrderPlacedMessage 下单消息，worker 消费后通知门店备餐
type OrderPlacedMessage struct {
	MessageID   string `json:"message_id"` // 消息唯一ID，用于幂等性检查
	OrderID     int64  `json:"order_id"`
	OrderNumber string `json:"order_number"`
	CustomerID  int64  `json:"customer_id"`
	OrderType   string `json:"order_type"`
	PlacedAt    string `json:"placed_at"`
}

// OrderStatusMessage 订单状态变更消息
// completed 状态由 worker 发放积分；ready_for_pickup 状态触发取餐短信
type OrderStatusMessage struct {
	MessageID   string `json:"message_id"` // 消息唯一ID，用于幂等性检查
	OrderID     int64  `json:"order_id"`
	OrderNumber string `json:"order_number"`
	CustomerID  int64  `json:"customer_id"`
	FromStatus  string `json:"from_status"`
	ToStatus    string `json:"to_status"`
	ChangedAt   string `json:"changed_at"`
}

// OrderExpireMessage 延迟消息：placed 状态超时后检查并自动拒单
type OrderExpireMessage struct {
	MessageID    string `json:"message_id"` // 消息唯一ID，用于幂等性检查
	OrderID      int64  `json:"order_id"`
	ScheduledAt  string `json:"scheduled_at"`
	DelaySeconds int    `json:"delay_seconds"`
}

// EventMessage 事件消息（用于事件总线）
type EventMessage struct {
	Payload    map[string]interface{} `json:"payload"`
	EventKey   string                 `json:"event_key"`
	EventType  string                 `json:"event_type"`
	OccurredAt string                 `json:"occurred_at"`
}
