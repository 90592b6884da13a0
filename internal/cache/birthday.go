package cache

import (
	"context"
	"fmt"
	"time"

	"steamsbury/storage/redis"
)

// 生日礼遇发放的当日标记，调度器重启后避免重复扫描同一批用户。
// 数据库的 birthday_credit_year 才是最终防线。
const birthdayGrantedPrefix = "birthday:granted"

func IsBirthdayGranted(ctx context.Context, year int, userID int64) (bool, error) {
	key := redis.Key(birthdayGrantedPrefix, fmt.Sprintf("%d", year), fmt.Sprintf("%d", userID))
	result, err := redis.Client().Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check birthday granted status: %w", err)
	}
	return result > 0, nil
}

func MarkBirthdayGranted(ctx context.Context, year int, userID int64) error {
	key := redis.Key(birthdayGrantedPrefix, fmt.Sprintf("%d", year), fmt.Sprintf("%d", userID))
	return redis.Client().Set(ctx, key, "1", 48*time.Hour).Err()
}
