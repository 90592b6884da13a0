package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"steamsbury/internal/service"
	"steamsbury/pkg/response"
)

// ListMenu 全量菜单，无需登录
// GET /v1/menu
func ListMenu(ctx context.Context, c *app.RequestContext) {
	categories, items, err := service.Menu().ListMenu(ctx)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, map[string]interface{}{
		"categories": categories,
		"items":      items,
	})
}

// GetMenuItem 单品详情
// GET /v1/menu/items/:item_id
func GetMenuItem(ctx context.Context, c *app.RequestContext) {
	itemID := c.Param("item_id")

	result, err := service.Menu().GetMenuItem(ctx, itemID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}
