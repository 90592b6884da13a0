package queue

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"steamsbury/internal/model"
	"steamsbury/pkg/logger"
	"steamsbury/storage/mq"
)

// PublishOrderPlaced 下单成功后广播，worker 消费后进入门店处理流
func PublishOrderPlaced(order *model.Order) error {
	msg := model.OrderPlacedMessage{
		MessageID:   uuid.NewString(),
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		CustomerID:  order.CustomerID,
		OrderType:   string(order.OrderType),
		PlacedAt:    time.Now().Format(time.RFC3339),
	}

	if err := mq.PublishMessage(mq.OrderExchange, mq.RoutingKeyOrderPlaced, msg); err != nil {
		return fmt.Errorf("failed to publish order placed message: %w", err)
	}

	logger.Logger.Info("Order placed message published",
		zap.String("message_id", msg.MessageID),
		zap.String("order_number", order.OrderNumber),
	)
	return nil
}

// PublishOrderStatusChanged 状态变更消息。completed 触发积分发放，
// ready_for_pickup 触发取餐短信。
func PublishOrderStatusChanged(order *model.Order, from, to model.OrderStatus) error {
	msg := model.OrderStatusMessage{
		MessageID:   uuid.NewString(),
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		CustomerID:  order.CustomerID,
		FromStatus:  string(from),
		ToStatus:    string(to),
		ChangedAt:   time.Now().Format(time.RFC3339),
	}

	if err := mq.PublishMessage(mq.OrderExchange, mq.RoutingKeyOrderStatus, msg); err != nil {
		return fmt.Errorf("failed to publish order status message: %w", err)
	}

	logger.Logger.Info("Order status message published",
		zap.String("message_id", msg.MessageID),
		zap.String("order_number", order.OrderNumber),
		zap.String("to_status", string(to)),
	)
	return nil
}

// PublishOrderExpireCheck 下单时挂一条延迟消息，到期后检查 placed 超时自动拒单
func PublishOrderExpireCheck(orderID int64, delay time.Duration) error {
	msg := model.OrderExpireMessage{
		MessageID:    uuid.NewString(),
		OrderID:      orderID,
		ScheduledAt:  time.Now().Add(delay).Format(time.RFC3339),
		DelaySeconds: int(delay.Seconds()),
	}

	if err := mq.PublishDelayedMessage(mq.DelayedExchange, mq.RoutingKeyOrderExpire, delay, msg); err != nil {
		return fmt.Errorf("failed to publish order expire message: %w", err)
	}
	return nil
}
