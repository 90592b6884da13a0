package cache

import (
	"context"
	"fmt"
	"time"

	"steamsbury/storage/redis"
)

const (
	messageProcessedPrefix = "message:processed"
	pointsAwardedPrefix    = "points:awarded"

	processedTTL = 48 * time.Hour
)

// TryMarkMessageProcessing 尝试原子性地标记消息正在处理（使用 SETNX）
// 返回 true 表示成功标记（首次处理），false 表示已被标记（重复消息或正在处理）
func TryMarkMessageProcessing(ctx context.Context, messageID string, ttl time.Duration) (bool, error) {
	key := redis.Key(messageProcessedPrefix, messageID)
	if ttl <= 0 {
		ttl = processedTTL
	}

	result, err := redis.Client().SetNX(ctx, key, "processing", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark message as processing: %w", err)
	}
	return result, nil
}

// UnmarkMessageProcessing 取消消息处理标记（处理失败时调用，允许重试）
func UnmarkMessageProcessing(ctx context.Context, messageID string) error {
	key := redis.Key(messageProcessedPrefix, messageID)
	return redis.Client().Del(ctx, key).Err()
}

// MarkMessageProcessed 标记消息已处理（处理成功时调用，延长 TTL）
func MarkMessageProcessed(ctx context.Context, messageID string, ttl time.Duration) error {
	key := redis.Key(messageProcessedPrefix, messageID)
	if ttl <= 0 {
		ttl = processedTTL
	}
	return redis.Client().Set(ctx, key, "completed", ttl).Err()
}

// TryMarkPointsAwarded 订单积分发放的快速幂等标记。
// 数据库里的 points_awarded_at 才是最终裁决，这里只是挡掉大部分重复消息。
func TryMarkPointsAwarded(ctx context.Context, orderID int64) (bool, error) {
	key := redis.Key(pointsAwardedPrefix, fmt.Sprintf("%d", orderID))
	result, err := redis.Client().SetNX(ctx, key, "1", processedTTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark points awarded: %w", err)
	}
	return result, nil
}

// UnmarkPointsAwarded 清除积分发放标记（事务回滚后调用）
func UnmarkPointsAwarded(ctx context.Context, orderID int64) error {
	key := redis.Key(pointsAwardedPrefix, fmt.Sprintf("%d", orderID))
	return redis.Client().Del(ctx, key).Err()
}
