package mq

import (
	"context"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"steamsbury/config"
)

// 订单消息拓扑：
//   - OrderExchange (topic)：下单和状态流转消息
//   - DelayedExchange (x-delayed-message)：订单超时检查，依赖 rabbitmq_delayed_message_exchange 插件
const (
	OrderExchange   = "steamsbury.orders"
	DelayedExchange = "steamsbury.orders.delayed"

	OrderStatusQueue = "orders.status"
	OrderExpireQueue = "orders.expire"

	RoutingKeyOrderPlaced = "order.placed"
	RoutingKeyOrderStatus = "order.status"
	RoutingKeyOrderExpire = "order.expire"
)

var (
	conn     *amqp.Connection
	connOnce sync.Once
	connErr  error
)

func Init() error {
	connOnce.Do(func() {
		conn, connErr = amqp.Dial(config.Cfg.GetRabbitMQURL())
		if connErr != nil {
			return
		}

		ch, err := conn.Channel()
		if err != nil {
			connErr = err
			return
		}
		defer ch.Close()

		connErr = declareTopology(ch)
	})

	return connErr
}

func Connection() *amqp.Connection {
	return conn
}

func Close(ctx context.Context) error {
	if conn == nil {
		return nil
	}

	done := make(chan error, 1)
	go func() {
		done <- conn.Close()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

func declareTopology(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(OrderExchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare order exchange: %w", err)
	}

	if err := ch.ExchangeDeclare(DelayedExchange, "x-delayed-message", true, false, false, false, amqp.Table{
		"x-delayed-type": "topic",
	}); err != nil {
		return fmt.Errorf("failed to declare delayed exchange: %w", err)
	}

	if _, err := ch.QueueDeclare(OrderStatusQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare status queue: %w", err)
	}
	if err := ch.QueueBind(OrderStatusQueue, "order.*", OrderExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind status queue: %w", err)
	}

	if _, err := ch.QueueDeclare(OrderExpireQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare expire queue: %w", err)
	}
	if err := ch.QueueBind(OrderExpireQueue, RoutingKeyOrderExpire, DelayedExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind expire queue: %w", err)
	}

	return nil
}
