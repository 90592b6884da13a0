package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/shopspring/decimal"

	"steamsbury/internal/model/dto"
	"steamsbury/internal/service"
	bizErrors "steamsbury/pkg/errors"
	"steamsbury/pkg/response"
)

// ========== 管理端：菜单目录 ==========

// AdminCreateCategory 新建分类
// POST /v1/admin/categories
func AdminCreateCategory(ctx context.Context, c *app.RequestContext) {
	var req dto.CreateCategoryRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	result, err := service.Menu().CreateCategory(ctx, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Created(ctx, c, result)
}

// AdminCreateMenuItem 新建单品
// POST /v1/admin/menu/items
func AdminCreateMenuItem(ctx context.Context, c *app.RequestContext) {
	var req dto.CreateMenuItemRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	result, err := service.Menu().CreateMenuItem(ctx, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Created(ctx, c, result)
}

// AdminUpdateMenuItem 更新单品
// PATCH /v1/admin/menu/items/:item_id
func AdminUpdateMenuItem(ctx context.Context, c *app.RequestContext) {
	itemID := c.Param("item_id")

	var req dto.UpdateMenuItemRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	if err := service.Menu().UpdateMenuItem(ctx, itemID, &req); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, nil)
}

// AdminCreateAddon 新建加料
// POST /v1/admin/menu/addons
func AdminCreateAddon(ctx context.Context, c *app.RequestContext) {
	var req dto.CreateAddonRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	result, err := service.Menu().CreateAddon(ctx, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Created(ctx, c, result)
}

// ========== 管理端：每日优惠 ==========

// AdminListOffers 全量优惠列表
// GET /v1/admin/offers
func AdminListOffers(ctx context.Context, c *app.RequestContext) {
	result, err := service.Offer().ListOffers(ctx)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// AdminCreateOffer 新建优惠
// POST /v1/admin/offers
func AdminCreateOffer(ctx context.Context, c *app.RequestContext) {
	var req dto.CreateOfferRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	result, err := service.Offer().CreateOffer(ctx, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Created(ctx, c, result)
}

// AdminUpdateOffer 更新优惠
// PATCH /v1/admin/offers/:offer_id
func AdminUpdateOffer(ctx context.Context, c *app.RequestContext) {
	offerID := c.Param("offer_id")

	var req dto.UpdateOfferRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	if err := service.Offer().UpdateOffer(ctx, offerID, &req); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, nil)
}

// AdminDeleteOffer 下线优惠
// DELETE /v1/admin/offers/:offer_id
func AdminDeleteOffer(ctx context.Context, c *app.RequestContext) {
	offerID := c.Param("offer_id")

	if err := service.Offer().DeleteOffer(ctx, offerID); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.NoContent(ctx, c)
}

// ========== 管理端：会员权益 ==========

// AdminGrantBirthdayCredit 手工补发生日礼遇
// POST /v1/admin/loyalty/birthday-credit
func AdminGrantBirthdayCredit(ctx context.Context, c *app.RequestContext) {
	var req dto.GrantBirthdayCreditRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	amount := decimal.Zero
	if req.Amount != "" {
		parsed, err := decimal.NewFromString(req.Amount)
		if err != nil || parsed.IsNegative() {
			response.Error(ctx, c, bizErrors.Definition{Code: "INVALID_REQUEST", Message: "Invalid amount"})
			return
		}
		amount = parsed
	}

	if err := service.Points().GrantBirthdayCredit(ctx, req.CustomerID, amount); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, nil)
}
