package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"steamsbury/internal/cache"
	"steamsbury/internal/model"
	"steamsbury/internal/model/dto"
	bizErrors "steamsbury/pkg/errors"
	"steamsbury/pkg/logger"
	"steamsbury/pkg/metrics"
	"steamsbury/storage/database"
)

var (
	pointsService *PointsService
	pointsOnce    sync.Once
)

func Points() *PointsService {
	pointsOnce.Do(func() {
		pointsService = &PointsService{}
	})
	return pointsService
}

type PointsService struct{}

// AwardPointsForOrder 订单完成后由 worker 调用发放积分。
// Redis SETNX 挡掉大部分重复消息，数据库的 points_awarded_at 是最终防线，
// 同一订单无论消息重复多少次都只发放一次。
func (s *PointsService) AwardPointsForOrder(ctx context.Context, orderID int64) error {
	acquired, err := cache.TryMarkPointsAwarded(ctx, orderID)
	if err != nil {
		// Redis 故障时退化为只靠数据库判重
		logger.Logger.Warn("Points award fast-path check failed", zap.Error(err))
	} else if !acquired {
		return &bizErrors.SkipMessageError{Reason: fmt.Sprintf("points already awarded for order %d", orderID)}
	}

	txErr := database.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order model.Order
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", orderID).First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return bizErrors.OrderNotFound
			}
			return fmt.Errorf("failed to lock order: %w", err)
		}

		if order.PointsAwardedAt != nil {
			return &bizErrors.SkipMessageError{Reason: fmt.Sprintf("points already awarded for order %d", orderID)}
		}
		if order.Status != model.OrderStatusCompleted {
			return &bizErrors.SkipMessageError{Reason: fmt.Sprintf("order %d is not completed", orderID)}
		}

		points := Rules().EarnRule.Award(order.GrandTotal)

		now := time.Now()
		orderUpdates := map[string]interface{}{
			"points_earned":     points,
			"points_awarded_at": now,
		}
		if err := tx.Model(&model.Order{}).Where("id = ?", order.ID).Updates(orderUpdates).Error; err != nil {
			return fmt.Errorf("failed to mark points awarded: %w", err)
		}

		if points == 0 {
			return nil
		}

		var user model.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", order.CustomerID).First(&user).Error; err != nil {
			return fmt.Errorf("failed to lock user: %w", err)
		}

		userUpdates := map[string]interface{}{
			"lifetime_points":   user.LifetimePoints + points,
			"redeemable_points": user.RedeemablePoints + points,
		}
		if err := tx.Model(&model.User{}).Where("id = ?", user.ID).Updates(userUpdates).Error; err != nil {
			return fmt.Errorf("failed to credit points: %w", err)
		}

		pointsTx := &model.PointsTransaction{
			UserID:       user.ID,
			Kind:         model.PointsKindOrderEarn,
			Delta:        points,
			BalanceAfter: user.RedeemablePoints + points,
			OrderID:      &order.ID,
		}
		if err := tx.Create(pointsTx).Error; err != nil {
			return fmt.Errorf("failed to record points transaction: %w", err)
		}

		logger.Logger.Info("Points awarded",
			zap.String("order_number", order.OrderNumber),
			zap.Int64("points", points),
		)
		metrics.RecordPointsAwarded(ctx, string(model.PointsKindOrderEarn), points)
		return nil
	})

	if txErr != nil {
		var skip *bizErrors.SkipMessageError
		if !errors.As(txErr, &skip) {
			// 事务失败要释放快速标记，否则重试消息会被误杀
			if err := cache.UnmarkPointsAwarded(ctx, orderID); err != nil {
				logger.Logger.Warn("Failed to release points award mark", zap.Error(err))
			}
		}
		return txErr
	}
	return nil
}

// RedeemPoints 员工到店核销顾客积分（兑换赠品等线下场景）
func (s *PointsService) RedeemPoints(ctx context.Context, req *dto.RedeemPointsRequest) error {
	if req.Points <= 0 {
		return bizErrors.Definition{Code: "INVALID_REQUEST", Message: "Points must be positive"}
	}

	customer, err := getUserByPublicID(ctx, database.DB(), req.CustomerID)
	if err != nil {
		return err
	}

	txErr := database.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var locked model.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", customer.ID).First(&locked).Error; err != nil {
			return fmt.Errorf("failed to lock user: %w", err)
		}

		if locked.RedeemablePoints < req.Points {
			return bizErrors.InsufficientPoints
		}

		if err := tx.Model(&model.User{}).Where("id = ?", locked.ID).
			Update("redeemable_points", locked.RedeemablePoints-req.Points).Error; err != nil {
			return fmt.Errorf("failed to deduct points: %w", err)
		}

		pointsTx := &model.PointsTransaction{
			UserID:       locked.ID,
			Kind:         model.PointsKindRedeem,
			Delta:        -req.Points,
			BalanceAfter: locked.RedeemablePoints - req.Points,
			Reason:       req.Reason,
		}
		return tx.Create(pointsTx).Error
	})
	if txErr != nil {
		return txErr
	}

	logger.Logger.Info("Points redeemed in store",
		zap.Int64("customer_id", customer.PublicID),
		zap.Int64("points", req.Points),
	)
	metrics.RecordPointsRedeemed(ctx, req.Points)
	return nil
}

// GrantBirthdayCredit 发放生日礼遇。调度器每日自动发放，管理员也可手工补发。
// 同一自然年只发放一次。
func (s *PointsService) GrantBirthdayCredit(ctx context.Context, customerID string, amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		amount = Rules().BirthdayCredit
	}

	customer, err := getUserByPublicID(ctx, database.DB(), customerID)
	if err != nil {
		return err
	}
	return s.grantBirthdayCredit(ctx, customer.ID, amount)
}

// grantBirthdayCredit 按内部 ID 发放，调度器扫描后直接调用
func (s *PointsService) grantBirthdayCredit(ctx context.Context, userID int64, amount decimal.Decimal) error {
	year := time.Now().Year()

	return database.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var locked model.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", userID).First(&locked).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return bizErrors.UserNotFound
			}
			return fmt.Errorf("failed to lock user: %w", err)
		}

		if locked.BirthdayCreditYear == year {
			return bizErrors.BirthdayCreditGranted
		}

		updates := map[string]interface{}{
			"birthday_credit":      amount,
			"birthday_credit_year": year,
		}
		if err := tx.Model(&model.User{}).Where("id = ?", locked.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to grant birthday credit: %w", err)
		}

		pointsTx := &model.PointsTransaction{
			UserID:       locked.ID,
			Kind:         model.PointsKindBirthdayGrant,
			Delta:        0,
			BalanceAfter: locked.RedeemablePoints,
			Reason:       fmt.Sprintf("birthday credit %s", amount.StringFixed(2)),
		}
		if err := tx.Create(pointsTx).Error; err != nil {
			return fmt.Errorf("failed to record birthday grant: %w", err)
		}

		logger.Logger.Info("Birthday credit granted",
			zap.Int64("public_id", locked.PublicID),
			zap.String("amount", amount.StringFixed(2)),
		)
		return nil
	})
}

// GrantBirthdayCreditByInternalID 调度器入口，跳过 public_id 解析
func (s *PointsService) GrantBirthdayCreditByInternalID(ctx context.Context, userID int64, amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		amount = Rules().BirthdayCredit
	}
	return s.grantBirthdayCredit(ctx, userID, amount)
}
