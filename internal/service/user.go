package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"steamsbury/config"
	"steamsbury/internal/model"
	"steamsbury/internal/model/dto"
	bizErrors "steamsbury/pkg/errors"
	"steamsbury/pkg/logger"
	"steamsbury/storage/database"
	"steamsbury/utils"
)

// api 中的 user_id 一律指 public_id

var (
	userService *UserService
	userOnce    sync.Once
)

func User() *UserService {
	userOnce.Do(func() {
		userService = &UserService{}
	})
	return userService
}

type UserService struct{}

// GetProfile 获取用户资料与会员状态
func (s *UserService) GetProfile(ctx context.Context, userID string) (*dto.UserProfileData, error) {
	user, err := getUserByPublicID(ctx, database.DB(), userID)
	if err != nil {
		return nil, err
	}

	status, err := Rules().TierFor(user.LifetimePoints)
	if err != nil {
		return nil, err
	}

	profile := &dto.UserProfileData{
		ID:    fmt.Sprintf("%d", user.PublicID),
		Name:  user.Name,
		Email: user.Email,
		Role:  string(user.Role),
		Loyalty: dto.LoyaltyStatusData{
			LifetimePoints:   user.LifetimePoints,
			RedeemablePoints: user.RedeemablePoints,
			Tier:             status.Current.ID,
			ProgressFraction: status.ProgressFraction,
			PointsToNext:     status.PointsToNext,
			BirthdayCredit:   user.BirthdayCredit.StringFixed(2),
			WelcomeOfferUsed: user.WelcomeOfferRedeemed,
		},
	}
	if status.Next != nil {
		profile.Loyalty.NextTier = status.Next.ID
	}

	if user.DateOfBirth != nil {
		profile.DateOfBirth = utils.FormatDate(*user.DateOfBirth)
	}

	if len(user.PhoneCipher) > 0 {
		phone, err := utils.DecryptPhone([]byte(config.Cfg.EncryptionKey), user.PhoneCipher)
		if err != nil {
			// 解不开就不展示，不阻塞整个资料页
			logger.Logger.Warn("Failed to decrypt phone", zap.Int64("user_id", user.PublicID), zap.Error(err))
		} else {
			profile.Phone = dto.PhoneInfo{
				NumberMasked: utils.MaskPhone(phone),
				Verified:     true,
			}
		}
	}

	return profile, nil
}

// UpdateProfile 更新资料，只更新请求中出现的字段
func (s *UserService) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) error {
	user, err := getUserByPublicID(ctx, database.DB(), userID)
	if err != nil {
		return err
	}

	updates := map[string]interface{}{}

	if req.Name != nil {
		updates["name"] = *req.Name
	}

	if req.Phone != nil {
		if *req.Phone == "" {
			updates["phone_cipher"] = nil
			updates["phone_hash"] = nil
		} else {
			if !utils.ValidatePhone(*req.Phone) {
				return bizErrors.Definition{Code: "INVALID_REQUEST", Message: "Invalid phone format"}
			}
			cipher, err := utils.EncryptPhone([]byte(config.Cfg.EncryptionKey), *req.Phone)
			if err != nil {
				return fmt.Errorf("failed to encrypt phone: %w", err)
			}
			updates["phone_cipher"] = cipher
			updates["phone_hash"] = utils.HashPhone(config.Cfg.PhoneHashSalt, *req.Phone)
		}
	}

	if req.DateOfBirth != nil {
		dob, err := utils.ParseDate(*req.DateOfBirth)
		if err != nil {
			return bizErrors.Definition{Code: "INVALID_REQUEST", Message: "Invalid date_of_birth, expected YYYY-MM-DD"}
		}
		updates["date_of_birth"] = dob
	}

	if len(updates) == 0 {
		return nil
	}

	if err := database.DB().WithContext(ctx).Model(&model.User{}).
		Where("id = ?", user.ID).
		Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	return nil
}

// GetPointsHistory 积分流水，按时间倒序分页
func (s *UserService) GetPointsHistory(ctx context.Context, userID string, limit, offset int) ([]dto.PointsHistoryItem, error) {
	user, err := getUserByPublicID(ctx, database.DB(), userID)
	if err != nil {
		return nil, err
	}

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var txs []model.PointsTransaction
	err = database.DB().WithContext(ctx).
		Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&txs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query points history: %w", err)
	}

	items := make([]dto.PointsHistoryItem, 0, len(txs))
	for _, tx := range txs {
		item := dto.PointsHistoryItem{
			Kind:         string(tx.Kind),
			Delta:        tx.Delta,
			BalanceAfter: tx.BalanceAfter,
			Reason:       tx.Reason,
			CreatedAt:    tx.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
		if tx.OrderID != nil {
			item.OrderID = fmt.Sprintf("%d", *tx.OrderID)
		}
		items = append(items, item)
	}

	return items, nil
}
