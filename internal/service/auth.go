package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"steamsbury/config"
	"steamsbury/internal/model"
	"steamsbury/internal/model/dto"
	bizErrors "steamsbury/pkg/errors"
	"steamsbury/pkg/logger"
	"steamsbury/pkg/snowflake"
	"steamsbury/pkg/token"
	"steamsbury/storage/database"
	"steamsbury/utils"
)

var (
	authService *AuthService
	authOnce    sync.Once
)

func Auth() *AuthService {
	authOnce.Do(func() {
		authService = &AuthService{}
	})
	return authService
}

type AuthService struct{}

// Register 邮箱注册，手机号可选，生日用于生日礼遇
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !utils.ValidateEmail(email) {
		return nil, bizErrors.Definition{Code: "INVALID_REQUEST", Message: "Invalid email format"}
	}

	db := database.DB().WithContext(ctx)

	var count int64
	if err := db.Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if count > 0 {
		return nil, bizErrors.EmailAlreadyRegistered
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	publicID, err := snowflake.NextID(snowflake.GeneratorTypeUser)
	if err != nil {
		return nil, fmt.Errorf("failed to generate user ID: %w", err)
	}

	user := &model.User{
		PublicID:            publicID,
		Email:               email,
		PasswordHash:        passwordHash,
		Name:                req.Name,
		Role:                model.RoleCustomer,
		DailyOffersRedeemed: model.RedemptionMap{},
	}

	if req.Phone != "" {
		if !utils.ValidatePhone(req.Phone) {
			return nil, bizErrors.Definition{Code: "INVALID_REQUEST", Message: "Invalid phone format"}
		}
		cipher, err := utils.EncryptPhone([]byte(config.Cfg.EncryptionKey), req.Phone)
		if err != nil {
			return nil, fmt.Errorf("failed to encrypt phone: %w", err)
		}
		hash := utils.HashPhone(config.Cfg.PhoneHashSalt, req.Phone)
		user.PhoneCipher = cipher
		user.PhoneHash = &hash
	}

	if req.DateOfBirth != "" {
		dob, err := utils.ParseDate(req.DateOfBirth)
		if err != nil {
			return nil, bizErrors.Definition{Code: "INVALID_REQUEST", Message: "Invalid date_of_birth, expected YYYY-MM-DD"}
		}
		user.DateOfBirth = &dob
	}

	if err := db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.Logger.Info("New customer registered",
		zap.Int64("public_id", publicID),
	)

	return s.buildAuthResponse(user, true)
}

// Login 邮箱密码登录
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user model.User
	err := database.DB().WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bizErrors.InvalidCredentials
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		return nil, bizErrors.InvalidCredentials
	}

	return s.buildAuthResponse(&user, false)
}

// Refresh 用 refresh token 换新的 token 对
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.RefreshTokenResponse, error) {
	userID, role, err := token.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, bizErrors.ErrInvalidToken
	}

	accessToken, newRefreshToken, expiresIn, err := token.GenerateTokenPair(userID, role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &dto.RefreshTokenResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		ExpiresIn:    expiresIn,
	}, nil
}

func (s *AuthService) buildAuthResponse(user *model.User, isNewUser bool) (*dto.AuthResponse, error) {
	userIDStr := fmt.Sprintf("%d", user.PublicID)
	accessToken, refreshToken, expiresIn, err := token.GenerateTokenPair(userIDStr, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
		User: dto.AuthUserSnapshot{
			ID:        userIDStr,
			Name:      user.Name,
			Email:     user.Email,
			Role:      string(user.Role),
			IsNewUser: isNewUser,
		},
	}, nil
}

// getUserByPublicID 解析字符串形式的 public_id 并取用户
func getUserByPublicID(ctx context.Context, db *gorm.DB, userID string) (*model.User, error) {
	var userIDInt int64
	if _, err := fmt.Sscanf(userID, "%d", &userIDInt); err != nil {
		return nil, bizErrors.InvalidUserID
	}

	var user model.User
	err := db.WithContext(ctx).Where("public_id = ?", userIDInt).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bizErrors.UserNotFound
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &user, nil
}
