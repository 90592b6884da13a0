package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"steamsbury/internal/cache"
	"steamsbury/internal/model"
	"steamsbury/internal/model/dto"
	bizErrors "steamsbury/pkg/errors"
	"steamsbury/pkg/logger"
	"steamsbury/pkg/snowflake"
	"steamsbury/storage/database"
)

var (
	menuService *MenuService
	menuOnce    sync.Once
)

func Menu() *MenuService {
	menuOnce.Do(func() {
		menuService = &MenuService{}
	})
	return menuService
}

type MenuService struct{}

// ListMenu 全量菜单，按分类组织。走缓存，未命中时回源并回填。
func (s *MenuService) ListMenu(ctx context.Context) ([]dto.CategoryData, []dto.MenuItemData, error) {
	snapshot, hit, err := cache.GetMenuSnapshot(ctx)
	if err != nil {
		// 缓存故障时直接回源
		logger.Logger.Warn("Menu cache read failed, falling back to database", zap.Error(err))
	}

	if !hit {
		snapshot, err = s.loadSnapshot(ctx)
		if err != nil {
			return nil, nil, err
		}
		if cacheErr := cache.SetMenuSnapshot(ctx, snapshot); cacheErr != nil {
			logger.Logger.Warn("Failed to cache menu snapshot", zap.Error(cacheErr))
		}
	}

	categories := lo.Map(snapshot.Categories, func(c model.Category, _ int) dto.CategoryData {
		return dto.CategoryData{ID: c.ID, Name: c.Name, SortOrder: c.SortOrder}
	})
	items := lo.Map(snapshot.Items, func(item model.MenuItem, _ int) dto.MenuItemData {
		return buildMenuItemData(&item)
	})
	return categories, items, nil
}

func (s *MenuService) loadSnapshot(ctx context.Context) (*cache.MenuSnapshot, error) {
	db := database.DB().WithContext(ctx)

	var categories []model.Category
	if err := db.Order("sort_order ASC, id ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}

	var items []model.MenuItem
	if err := db.Preload("Addons").Order("id ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to query menu items: %w", err)
	}

	return &cache.MenuSnapshot{Categories: categories, Items: items}, nil
}

// GetMenuItem 单品详情
func (s *MenuService) GetMenuItem(ctx context.Context, itemID string) (*dto.MenuItemData, error) {
	publicID, err := strconv.ParseInt(itemID, 10, 64)
	if err != nil {
		return nil, bizErrors.MenuItemNotFound
	}

	var item model.MenuItem
	err = database.DB().WithContext(ctx).Preload("Addons").
		Where("public_id = ?", publicID).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bizErrors.MenuItemNotFound
		}
		return nil, fmt.Errorf("failed to query menu item: %w", err)
	}

	data := buildMenuItemData(&item)
	return &data, nil
}

// ========== 管理端目录维护 ==========

// CreateCategory 新建分类
func (s *MenuService) CreateCategory(ctx context.Context, req *dto.CreateCategoryRequest) (*dto.CategoryData, error) {
	category := &model.Category{
		Name:      req.Name,
		SortOrder: req.SortOrder,
	}
	if err := database.DB().WithContext(ctx).Create(category).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.invalidateMenu(ctx)
	return &dto.CategoryData{ID: category.ID, Name: category.Name, SortOrder: category.SortOrder}, nil
}

// CreateMenuItem 新建单品
func (s *MenuService) CreateMenuItem(ctx context.Context, req *dto.CreateMenuItemRequest) (*dto.MenuItemData, error) {
	price, err := decimal.NewFromString(req.Price)
	if err != nil || price.IsNegative() {
		return nil, bizErrors.Definition{Code: "INVALID_REQUEST", Message: "Invalid price"}
	}

	db := database.DB().WithContext(ctx)

	var count int64
	if err := db.Model(&model.Category{}).Where("id = ?", req.CategoryID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check category: %w", err)
	}
	if count == 0 {
		return nil, bizErrors.CategoryNotFound
	}

	publicID, err := snowflake.NextID(snowflake.GeneratorTypeMenuItem)
	if err != nil {
		return nil, fmt.Errorf("failed to generate menu item ID: %w", err)
	}

	item := &model.MenuItem{
		PublicID:    publicID,
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Price:       price,
		ImageURL:    req.ImageURL,
		Available:   true,
	}
	if req.Available != nil {
		item.Available = *req.Available
	}

	if err := db.Create(item).Error; err != nil {
		return nil, fmt.Errorf("failed to create menu item: %w", err)
	}

	logger.Logger.Info("Menu item created",
		zap.Int64("public_id", publicID),
		zap.String("name", item.Name),
	)

	s.invalidateMenu(ctx)
	data := buildMenuItemData(item)
	return &data, nil
}

// UpdateMenuItem 更新单品，只更新请求中出现的字段
func (s *MenuService) UpdateMenuItem(ctx context.Context, itemID string, req *dto.UpdateMenuItemRequest) error {
	publicID, err := strconv.ParseInt(itemID, 10, 64)
	if err != nil {
		return bizErrors.MenuItemNotFound
	}

	db := database.DB().WithContext(ctx)

	var item model.MenuItem
	if err := db.Where("public_id = ?", publicID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return bizErrors.MenuItemNotFound
		}
		return fmt.Errorf("failed to query menu item: %w", err)
	}

	updates := map[string]interface{}{}
	if req.CategoryID != nil {
		var count int64
		if err := db.Model(&model.Category{}).Where("id = ?", *req.CategoryID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check category: %w", err)
		}
		if count == 0 {
			return bizErrors.CategoryNotFound
		}
		updates["category_id"] = *req.CategoryID
	}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		price, err := decimal.NewFromString(*req.Price)
		if err != nil || price.IsNegative() {
			return bizErrors.Definition{Code: "INVALID_REQUEST", Message: "Invalid price"}
		}
		updates["price"] = price
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.Available != nil {
		updates["available"] = *req.Available
	}

	if len(updates) == 0 {
		return nil
	}

	if err := db.Model(&model.MenuItem{}).Where("id = ?", item.ID).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update menu item: %w", err)
	}

	s.invalidateMenu(ctx)
	return nil
}

// CreateAddon 为单品新建加料
func (s *MenuService) CreateAddon(ctx context.Context, req *dto.CreateAddonRequest) (*dto.AddonData, error) {
	price, err := decimal.NewFromString(req.Price)
	if err != nil || price.IsNegative() {
		return nil, bizErrors.Definition{Code: "INVALID_REQUEST", Message: "Invalid price"}
	}

	db := database.DB().WithContext(ctx)

	var item model.MenuItem
	if err := db.Where("public_id = ?", req.MenuItemID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bizErrors.MenuItemNotFound
		}
		return nil, fmt.Errorf("failed to query menu item: %w", err)
	}

	addon := &model.Addon{
		MenuItemID: item.ID,
		Name:       req.Name,
		Price:      price,
		Available:  true,
	}
	if req.Available != nil {
		addon.Available = *req.Available
	}

	if err := db.Create(addon).Error; err != nil {
		return nil, fmt.Errorf("failed to create addon: %w", err)
	}

	s.invalidateMenu(ctx)
	return &dto.AddonData{
		ID:        addon.ID,
		Name:      addon.Name,
		Price:     addon.Price.StringFixed(2),
		Available: addon.Available,
	}, nil
}

func (s *MenuService) invalidateMenu(ctx context.Context) {
	if err := cache.InvalidateMenu(ctx); err != nil {
		logger.Logger.Warn("Failed to invalidate menu cache", zap.Error(err))
	}
}

func buildMenuItemData(item *model.MenuItem) dto.MenuItemData {
	return dto.MenuItemData{
		ID:          strconv.FormatInt(item.PublicID, 10),
		CategoryID:  item.CategoryID,
		Name:        item.Name,
		Description: item.Description,
		Price:       item.Price.StringFixed(2),
		ImageURL:    item.ImageURL,
		Available:   item.Available,
		Addons: lo.Map(item.Addons, func(a model.Addon, _ int) dto.AddonData {
			return dto.AddonData{
				ID:        a.ID,
				Name:      a.Name,
				Price:     a.Price.StringFixed(2),
				Available: a.Available,
			}
		}),
	}
}
