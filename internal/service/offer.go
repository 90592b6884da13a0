package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"steamsbury/internal/cache"
	"steamsbury/internal/loyalty"
	"steamsbury/internal/model"
	"steamsbury/internal/model/dto"
	bizErrors "steamsbury/pkg/errors"
	"steamsbury/pkg/logger"
	"steamsbury/pkg/snowflake"
	"steamsbury/storage/database"
	"steamsbury/utils"
)

var (
	offerService *OfferService
	offerOnce    sync.Once
)

func Offer() *OfferService {
	offerOnce.Do(func() {
		offerService = &OfferService{}
	})
	return offerService
}

type OfferService struct{}

// TodayOffers 顾客视角的当日可用优惠，展示价按其等级折算
func (s *OfferService) TodayOffers(ctx context.Context, userID string) ([]dto.EligibleOfferData, error) {
	user, err := getUserByPublicID(ctx, database.DB(), userID)
	if err != nil {
		return nil, err
	}

	status, err := Rules().TierFor(user.LifetimePoints)
	if err != nil {
		return nil, err
	}

	today := time.Now()
	offers, err := s.activeOffers(ctx, today)
	if err != nil {
		return nil, err
	}

	// 优惠关联的单品可能已下架，折价基于当前价格
	itemIDs := lo.Uniq(lo.Map(offers, func(o model.Offer, _ int) int64 { return o.MenuItemID }))
	items, err := s.menuItemsByPublicID(ctx, itemIDs)
	if err != nil {
		return nil, err
	}

	candidates := make([]loyalty.OfferCandidate, 0, len(offers))
	for _, offer := range offers {
		item, ok := items[offer.MenuItemID]
		if !ok || !item.Available {
			continue
		}
		candidates = append(candidates, loyalty.OfferCandidate{
			Offer:         offer,
			OriginalPrice: item.Price,
		})
	}

	eligible, err := loyalty.EligibleOffers(candidates, status.Current.ID, today, user.DailyOffersRedeemed)
	if err != nil {
		return nil, err
	}

	result := make([]dto.EligibleOfferData, 0, len(eligible))
	for _, e := range eligible {
		item := items[e.Offer.MenuItemID]
		result = append(result, dto.EligibleOfferData{
			ID:            strconv.FormatInt(e.Offer.PublicID, 10),
			MenuItemID:    e.Offer.MenuItemID,
			MenuItemName:  item.Name,
			Title:         e.Offer.Title,
			OrderType:     string(e.Offer.OrderType),
			OriginalPrice: e.OriginalPrice.StringFixed(2),
			DisplayPrice:  e.DisplayPrice.StringFixed(2),
			EndDate:       e.Offer.EndDate,
		})
	}
	return result, nil
}

// activeOffers 当日生效的优惠，走缓存
func (s *OfferService) activeOffers(ctx context.Context, today time.Time) ([]model.Offer, error) {
	offers, hit, err := cache.GetActiveOffers(ctx)
	if err != nil {
		logger.Logger.Warn("Offer cache read failed, falling back to database", zap.Error(err))
	}
	if hit {
		return offers, nil
	}

	day := today.Format(loyalty.DateLayout)
	err = database.DB().WithContext(ctx).
		Where("start_date <= ? AND end_date >= ?", day, day).
		Find(&offers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query offers: %w", err)
	}

	if cacheErr := cache.SetActiveOffers(ctx, offers); cacheErr != nil {
		logger.Logger.Warn("Failed to cache active offers", zap.Error(cacheErr))
	}
	return offers, nil
}

func (s *OfferService) menuItemsByPublicID(ctx context.Context, ids []int64) (map[int64]model.MenuItem, error) {
	if len(ids) == 0 {
		return map[int64]model.MenuItem{}, nil
	}

	var items []model.MenuItem
	if err := database.DB().WithContext(ctx).Where("public_id IN ?", ids).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to query menu items: %w", err)
	}
	return lo.KeyBy(items, func(item model.MenuItem) int64 { return item.PublicID }), nil
}

// ========== 管理端优惠维护 ==========

// ListOffers 管理端全量优惠列表
func (s *OfferService) ListOffers(ctx context.Context) ([]dto.OfferData, error) {
	var offers []model.Offer
	if err := database.DB().WithContext(ctx).Order("start_date DESC, id DESC").Find(&offers).Error; err != nil {
		return nil, fmt.Errorf("failed to query offers: %w", err)
	}

	return lo.Map(offers, func(o model.Offer, _ int) dto.OfferData {
		return buildOfferData(&o)
	}), nil
}

// CreateOffer 新建优惠
func (s *OfferService) CreateOffer(ctx context.Context, req *dto.CreateOfferRequest) (*dto.OfferData, error) {
	if err := validateOfferDates(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}

	discountType, err := parseDiscountType(req.DiscountType)
	if err != nil {
		return nil, err
	}
	orderType, err := parseOrderType(req.OrderType)
	if err != nil {
		return nil, err
	}
	tierDiscounts, err := parseTierDiscounts(req.TierDiscounts)
	if err != nil {
		return nil, err
	}

	db := database.DB().WithContext(ctx)

	var count int64
	if err := db.Model(&model.MenuItem{}).Where("public_id = ?", req.MenuItemID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check menu item: %w", err)
	}
	if count == 0 {
		return nil, bizErrors.MenuItemNotFound
	}

	publicID, err := snowflake.NextID(snowflake.GeneratorTypeOffer)
	if err != nil {
		return nil, fmt.Errorf("failed to generate offer ID: %w", err)
	}

	offer := &model.Offer{
		PublicID:      publicID,
		MenuItemID:    req.MenuItemID,
		Title:         req.Title,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		DiscountType:  discountType,
		TierDiscounts: tierDiscounts,
		OrderType:     orderType,
	}
	if err := db.Create(offer).Error; err != nil {
		return nil, fmt.Errorf("failed to create offer: %w", err)
	}

	logger.Logger.Info("Offer created",
		zap.Int64("public_id", publicID),
		zap.String("title", offer.Title),
	)

	s.invalidateOffers(ctx)
	data := buildOfferData(offer)
	return &data, nil
}

// UpdateOffer 更新优惠，只更新请求中出现的字段
func (s *OfferService) UpdateOffer(ctx context.Context, offerID string, req *dto.UpdateOfferRequest) error {
	offer, err := s.getOfferByPublicID(ctx, offerID)
	if err != nil {
		return err
	}

	updates := map[string]interface{}{}

	startDate := offer.StartDate
	endDate := offer.EndDate
	if req.StartDate != nil {
		startDate = *req.StartDate
		updates["start_date"] = *req.StartDate
	}
	if req.EndDate != nil {
		endDate = *req.EndDate
		updates["end_date"] = *req.EndDate
	}
	if req.StartDate != nil || req.EndDate != nil {
		if err := validateOfferDates(startDate, endDate); err != nil {
			return err
		}
	}

	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.DiscountType != nil {
		discountType, err := parseDiscountType(*req.DiscountType)
		if err != nil {
			return err
		}
		updates["discount_type"] = discountType
	}
	if req.OrderType != nil {
		orderType, err := parseOrderType(*req.OrderType)
		if err != nil {
			return err
		}
		updates["order_type"] = orderType
	}
	if req.TierDiscounts != nil {
		tierDiscounts, err := parseTierDiscounts(req.TierDiscounts)
		if err != nil {
			return err
		}
		updates["tier_discounts"] = tierDiscounts
	}

	if len(updates) == 0 {
		return nil
	}

	if err := database.DB().WithContext(ctx).Model(&model.Offer{}).
		Where("id = ?", offer.ID).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update offer: %w", err)
	}

	s.invalidateOffers(ctx)
	return nil
}

// DeleteOffer 下线优惠
func (s *OfferService) DeleteOffer(ctx context.Context, offerID string) error {
	offer, err := s.getOfferByPublicID(ctx, offerID)
	if err != nil {
		return err
	}

	if err := database.DB().WithContext(ctx).Delete(&model.Offer{}, offer.ID).Error; err != nil {
		return fmt.Errorf("failed to delete offer: %w", err)
	}

	s.invalidateOffers(ctx)
	return nil
}

func (s *OfferService) getOfferByPublicID(ctx context.Context, offerID string) (*model.Offer, error) {
	publicID, err := strconv.ParseInt(offerID, 10, 64)
	if err != nil {
		return nil, bizErrors.OfferNotFound
	}

	var offer model.Offer
	err = database.DB().WithContext(ctx).Where("public_id = ?", publicID).First(&offer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bizErrors.OfferNotFound
		}
		return nil, fmt.Errorf("failed to query offer: %w", err)
	}
	return &offer, nil
}

func (s *OfferService) invalidateOffers(ctx context.Context) {
	if err := cache.InvalidateOffers(ctx); err != nil {
		logger.Logger.Warn("Failed to invalidate offer cache", zap.Error(err))
	}
}

func validateOfferDates(startDate, endDate string) error {
	if _, err := utils.ParseDate(startDate); err != nil {
		return bizErrors.OfferDateRangeInvalid
	}
	if _, err := utils.ParseDate(endDate); err != nil {
		return bizErrors.OfferDateRangeInvalid
	}
	if startDate > endDate {
		return bizErrors.OfferDateRangeInvalid
	}
	return nil
}

func parseDiscountType(raw string) (model.DiscountType, error) {
	switch model.DiscountType(raw) {
	case model.DiscountTypeFixed, model.DiscountTypePercentage:
		return model.DiscountType(raw), nil
	default:
		return "", bizErrors.Definition{Code: "INVALID_REQUEST", Message: "Invalid discount_type"}
	}
}

func parseOrderType(raw string) (model.OrderType, error) {
	switch model.OrderType(raw) {
	case model.OrderTypeDineIn, model.OrderTypeTakeaway:
		return model.OrderType(raw), nil
	default:
		return "", bizErrors.OrderTypeInvalid
	}
}

func parseTierDiscounts(raw map[string]string) (model.TierDiscountMap, error) {
	return loyalty.ParseTierDiscounts(raw, Rules().Table)
}

func buildOfferData(offer *model.Offer) dto.OfferData {
	discounts := make(map[string]string, len(offer.TierDiscounts))
	for tier, d := range offer.TierDiscounts {
		discounts[tier] = d.String()
	}
	return dto.OfferData{
		ID:            strconv.FormatInt(offer.PublicID, 10),
		MenuItemID:    offer.MenuItemID,
		Title:         offer.Title,
		StartDate:     offer.StartDate,
		EndDate:       offer.EndDate,
		DiscountType:  string(offer.DiscountType),
		TierDiscounts: discounts,
		OrderType:     string(offer.OrderType),
	}
}
