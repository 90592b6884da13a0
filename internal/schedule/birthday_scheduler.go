package schedule

// 生日礼遇调度器：每天凌晨扫描当天过生日的顾客并发放礼遇额度

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"steamsbury/internal/cache"
	"steamsbury/internal/model"
	"steamsbury/internal/service"
	bizErrors "steamsbury/pkg/errors"
	"steamsbury/pkg/logger"
	"steamsbury/storage/database"
)

var (
	birthdayOnce sync.Once
	birthdayInst *BirthdayScheduler
)

type BirthdayScheduler struct {
	logger     *zap.Logger
	jobRunning bool
	jobMu      sync.Mutex
}

func GetBirthdayScheduler() *BirthdayScheduler {
	birthdayOnce.Do(func() {
		birthdayInst = &BirthdayScheduler{
			logger: logger.Logger,
		}
	})
	return birthdayInst
}

// GrantDailyBirthdayCredits 扫描今天过生日的顾客，逐个发放礼遇。
// Redis 分布式锁防止多实例重复扫描；数据库的发放年份是最终防线，
// 即使锁失效同一顾客一年内也只会发放一次。
func (s *BirthdayScheduler) GrantDailyBirthdayCredits(ctx context.Context) error {
	s.jobMu.Lock()
	if s.jobRunning {
		s.jobMu.Unlock()
		s.logger.Info("Birthday grant job already running, skipping")
		return nil
	}
	s.jobRunning = true
	s.jobMu.Unlock()

	defer func() {
		s.jobMu.Lock()
		s.jobRunning = false
		s.jobMu.Unlock()
	}()

	now := time.Now()
	lockKey := fmt.Sprintf("birthday-grant:%s", now.Format("2006-01-02"))

	acquired, err := cache.TryLock(ctx, lockKey, 30*time.Minute)
	if err != nil {
		s.logger.Warn("Failed to acquire birthday grant lock, proceeding anyway", zap.Error(err))
	} else if !acquired {
		s.logger.Info("Birthday grant lock held by another instance, skipping")
		return nil
	}

	startTime := time.Now()
	s.logger.Info("Starting birthday credit grant run",
		zap.Time("start_time", startTime),
	)

	// 2 月 29 日出生的顾客在平年按 3 月 1 日补发
	month, day := int(now.Month()), now.Day()
	matchLeapling := month == 3 && day == 1 && !isLeapYear(now.Year())

	query := database.DB().WithContext(ctx).Model(&model.User{}).
		Where("role = ?", model.RoleCustomer).
		Where("date_of_birth IS NOT NULL").
		Where("birthday_credit_year <> ?", now.Year())

	if matchLeapling {
		query = query.Where(
			"(EXTRACT(MONTH FROM date_of_birth) = ? AND EXTRACT(DAY FROM date_of_birth) = ?) OR (EXTRACT(MONTH FROM date_of_birth) = 2 AND EXTRACT(DAY FROM date_of_birth) = 29)",
			month, day,
		)
	} else {
		query = query.Where(
			"EXTRACT(MONTH FROM date_of_birth) = ? AND EXTRACT(DAY FROM date_of_birth) = ?",
			month, day,
		)
	}

	var users []model.User
	if err := query.Find(&users).Error; err != nil {
		return fmt.Errorf("failed to query birthday customers: %w", err)
	}

	if len(users) == 0 {
		s.logger.Info("No birthdays today")
		return nil
	}

	s.logger.Info("Found birthday customers",
		zap.Int("user_count", len(users)),
	)

	granted := 0
	failed := 0
	for _, user := range users {
		alreadyMarked, err := cache.IsBirthdayGranted(ctx, now.Year(), user.PublicID)
		if err != nil {
			s.logger.Warn("Failed to check birthday granted mark",
				zap.Int64("user_id", user.PublicID),
				zap.Error(err),
			)
		} else if alreadyMarked {
			continue
		}

		err = service.Points().GrantBirthdayCreditByInternalID(ctx, user.ID, service.Rules().BirthdayCredit)
		if err != nil {
			if errors.Is(err, bizErrors.BirthdayCreditGranted) {
				continue
			}
			failed++
			s.logger.Error("Failed to grant birthday credit",
				zap.Int64("user_id", user.PublicID),
				zap.Error(err),
			)
			continue
		}
		granted++

		if err := cache.MarkBirthdayGranted(ctx, now.Year(), user.PublicID); err != nil {
			s.logger.Warn("Failed to mark birthday granted",
				zap.Int64("user_id", user.PublicID),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("Birthday credit grant run completed",
		zap.Duration("duration", time.Since(startTime)),
		zap.Int("granted", granted),
		zap.Int("failed", failed),
	)

	if failed > 0 {
		return fmt.Errorf("birthday grant completed with %d failures", failed)
	}
	return nil
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
