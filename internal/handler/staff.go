package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"steamsbury/internal/model/dto"
	"steamsbury/internal/service"
	"steamsbury/pkg/response"
)

// StaffListOrders 门店订单队列，可按状态过滤
// GET /v1/staff/orders
func StaffListOrders(ctx context.Context, c *app.RequestContext) {
	status := c.Query("status")
	limit, offset := paginationParams(c)

	result, err := service.Order().ListOrders(ctx, status, limit, offset)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// StaffUpdateOrderStatus 推进订单状态
// PATCH /v1/staff/orders/:order_id/status
func StaffUpdateOrderStatus(ctx context.Context, c *app.RequestContext) {
	orderID := c.Param("order_id")

	var req dto.UpdateOrderStatusRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	if err := service.Order().UpdateStatus(ctx, orderID, req.Status); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, nil)
}

// StaffRedeemPoints 到店核销顾客积分
// POST /v1/staff/points/redeem
func StaffRedeemPoints(ctx context.Context, c *app.RequestContext) {
	var req dto.RedeemPointsRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	if err := service.Points().RedeemPoints(ctx, &req); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, nil)
}
