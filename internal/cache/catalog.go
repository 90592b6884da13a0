package cache

import (
	"context"
	"time"

	"steamsbury/internal/model"
)

// 菜单和当日优惠是读多写少的目录数据，整表缓存，管理端写入时失效

const (
	menuCacheKey   = "all"
	offersCacheKey = "active"
)

var (
	menuCache  = NewProtectedCache("catalog:menu", 10*time.Minute)
	offerCache = NewProtectedCache("catalog:offers", 5*time.Minute)
)

// MenuSnapshot 菜单全量快照
type MenuSnapshot struct {
	Categories []model.Category `json:"categories"`
	Items      []model.MenuItem `json:"items"`
}

// GetMenuSnapshot 读取菜单缓存
func GetMenuSnapshot(ctx context.Context) (*MenuSnapshot, bool, error) {
	var snapshot MenuSnapshot
	hit, err := menuCache.Get(ctx, menuCacheKey, &snapshot)
	if err != nil || !hit {
		return nil, false, err
	}
	return &snapshot, true, nil
}

// SetMenuSnapshot 写入菜单缓存
func SetMenuSnapshot(ctx context.Context, snapshot *MenuSnapshot) error {
	return menuCache.Set(ctx, menuCacheKey, snapshot)
}

// InvalidateMenu 菜单变更后失效缓存
func InvalidateMenu(ctx context.Context) error {
	return menuCache.Delete(ctx, menuCacheKey)
}

// GetActiveOffers 读取当日优惠缓存
func GetActiveOffers(ctx context.Context) ([]model.Offer, bool, error) {
	var offers []model.Offer
	hit, err := offerCache.Get(ctx, offersCacheKey, &offers)
	if err != nil || !hit {
		return nil, false, err
	}
	return offers, true, nil
}

// SetActiveOffers 写入当日优惠缓存
func SetActiveOffers(ctx context.Context, offers []model.Offer) error {
	return offerCache.Set(ctx, offersCacheKey, offers)
}

// InvalidateOffers 优惠变更后失效缓存
func InvalidateOffers(ctx context.Context) error {
	return offerCache.Delete(ctx, offersCacheKey)
}
