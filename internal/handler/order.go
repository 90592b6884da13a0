package handler

import (
	"context"
	"fmt"

	"github.com/cloudwego/hertz/pkg/app"

	"steamsbury/internal/middleware"
	"steamsbury/internal/model/dto"
	"steamsbury/internal/service"
	"steamsbury/pkg/response"
)

// Checkout 下单结算
// POST /v1/orders
func Checkout(ctx context.Context, c *app.RequestContext) {
	userID, ok := middleware.GetUserID(ctx, c)
	if !ok {
		response.Error(ctx, c, fmt.Errorf("user ID not found in context"))
		return
	}

	var req dto.CheckoutRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	result, err := service.Order().Checkout(ctx, userID, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Created(ctx, c, result)
}

// GetOrder 查询自己的订单
// GET /v1/orders/:order_id
func GetOrder(ctx context.Context, c *app.RequestContext) {
	userID, ok := middleware.GetUserID(ctx, c)
	if !ok {
		response.Error(ctx, c, fmt.Errorf("user ID not found in context"))
		return
	}

	orderID := c.Param("order_id")
	result, err := service.Order().GetOrder(ctx, userID, orderID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// ListMyOrders 自己的订单列表
// GET /v1/orders
func ListMyOrders(ctx context.Context, c *app.RequestContext) {
	userID, ok := middleware.GetUserID(ctx, c)
	if !ok {
		response.Error(ctx, c, fmt.Errorf("user ID not found in context"))
		return
	}

	limit, offset := paginationParams(c)
	result, err := service.Order().ListMyOrders(ctx, userID, limit, offset)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}
