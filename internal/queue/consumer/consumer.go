package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"steamsbury/config"
	"steamsbury/internal/cache"
	"steamsbury/internal/model"
	"steamsbury/internal/service"
	bizErrors "steamsbury/pkg/errors"
	"steamsbury/pkg/logger"
	"steamsbury/pkg/metrics"
	"steamsbury/pkg/sms"
	"steamsbury/storage/database"
	"steamsbury/storage/mq"
	"steamsbury/utils"
)

const (
	statusConsumerTag = "order-status-worker"
	expireConsumerTag = "order-expire-worker"

	// 消息处理标记的 TTL，覆盖消息可能被重复投递的窗口
	messageTTL = 24 * time.Hour
)

// StartOrderStatusConsumer 消费订单状态消息，阻塞直到通道关闭。
// completed 发放积分，ready_for_pickup 发取餐短信。
func StartOrderStatusConsumer() error {
	return mq.Consume(mq.ConsumeOptions{
		Queue:         mq.OrderStatusQueue,
		ConsumerTag:   statusConsumerTag,
		PrefetchCount: 10,
		Handler:       handleOrderStatusMessage,
	})
}

func handleOrderStatusMessage(body []byte) error {
	ctx := context.Background()

	var msg model.OrderStatusMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		// 消息体损坏，重试也没用
		return &bizErrors.SkipMessageError{Reason: fmt.Sprintf("malformed status message: %v", err)}
	}

	acquired, err := cache.TryMarkMessageProcessing(ctx, msg.MessageID, messageTTL)
	if err != nil {
		logger.Logger.Warn("Message dedup check failed, processing anyway", zap.Error(err))
	} else if !acquired {
		return &bizErrors.SkipMessageError{Reason: fmt.Sprintf("message %s already processed", msg.MessageID)}
	}

	if err := processOrderStatus(ctx, &msg); err != nil {
		var skip *bizErrors.SkipMessageError
		if !errors.As(err, &skip) {
			if unmarkErr := cache.UnmarkMessageProcessing(ctx, msg.MessageID); unmarkErr != nil {
				logger.Logger.Warn("Failed to release message mark", zap.Error(unmarkErr))
			}
		}
		return err
	}

	if err := cache.MarkMessageProcessed(ctx, msg.MessageID, messageTTL); err != nil {
		logger.Logger.Warn("Failed to mark message processed", zap.Error(err))
	}
	return nil
}

func processOrderStatus(ctx context.Context, msg *model.OrderStatusMessage) error {
	switch model.OrderStatus(msg.ToStatus) {
	case model.OrderStatusCompleted:
		if err := service.Points().AwardPointsForOrder(ctx, msg.OrderID); err != nil {
			return err
		}
	case model.OrderStatusReady:
		notifyOrderReady(ctx, msg)
	}
	return nil
}

// notifyOrderReady 取餐短信。没留手机号或没配模板就静默跳过，
// 短信失败只记日志，不重试整条消息。
func notifyOrderReady(ctx context.Context, msg *model.OrderStatusMessage) {
	if config.Cfg.SMSOrderReadyTplCode == "" {
		return
	}

	var user model.User
	if err := database.DB().WithContext(ctx).Where("id = ?", msg.CustomerID).First(&user).Error; err != nil {
		logger.Logger.Warn("Failed to load customer for pickup notification",
			zap.Int64("customer_id", msg.CustomerID), zap.Error(err))
		return
	}
	if len(user.PhoneCipher) == 0 {
		return
	}

	phone, err := utils.DecryptPhone([]byte(config.Cfg.EncryptionKey), user.PhoneCipher)
	if err != nil {
		logger.Logger.Warn("Failed to decrypt customer phone",
			zap.Int64("customer_id", msg.CustomerID), zap.Error(err))
		return
	}

	templateParam := fmt.Sprintf(`{"order_number":"%s"}`, msg.OrderNumber)

	start := time.Now()
	err = sms.SendSingle(ctx, phone, config.Cfg.SMSSignName, config.Cfg.SMSOrderReadyTplCode, templateParam)
	duration := time.Since(start).Seconds()

	status := "success"
	if err != nil {
		status = "failed"
		logger.Logger.Error("Failed to send pickup notification",
			zap.String("order_number", msg.OrderNumber),
			zap.String("phone", utils.MaskPhone(phone)),
			zap.Error(err),
		)
	} else {
		logger.Logger.Info("Pickup notification sent",
			zap.String("order_number", msg.OrderNumber),
			zap.String("phone", utils.MaskPhone(phone)),
		)
	}
	metrics.RecordSMSSent(ctx, config.Cfg.SMSOrderReadyTplCode, config.Cfg.SMSProvider, status, duration)
}

// StartOrderExpireConsumer 消费延迟到期消息，placed 超时的订单自动拒单
func StartOrderExpireConsumer() error {
	return mq.Consume(mq.ConsumeOptions{
		Queue:         mq.OrderExpireQueue,
		ConsumerTag:   expireConsumerTag,
		PrefetchCount: 10,
		Handler:       handleOrderExpireMessage,
	})
}

func handleOrderExpireMessage(body []byte) error {
	ctx := context.Background()

	var msg model.OrderExpireMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return &bizErrors.SkipMessageError{Reason: fmt.Sprintf("malformed expire message: %v", err)}
	}

	err := service.Order().ExpireOrder(ctx, msg.OrderID)
	if errors.Is(err, bizErrors.OrderNotFound) {
		return &bizErrors.SkipMessageError{Reason: fmt.Sprintf("order %d not found", msg.OrderID)}
	}
	return err
}
