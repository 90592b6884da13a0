package handler

import (
	"context"
	"fmt"

	"github.com/cloudwego/hertz/pkg/app"

	"steamsbury/internal/middleware"
	"steamsbury/internal/service"
	"steamsbury/pkg/response"
)

// TodayOffers 当前用户今日可用优惠，展示价按其会员等级折算
// GET /v1/offers/today
func TodayOffers(ctx context.Context, c *app.RequestContext) {
	userID, ok := middleware.GetUserID(ctx, c)
	if !ok {
		response.Error(ctx, c, fmt.Errorf("user ID not found in context"))
		return
	}

	result, err := service.Offer().TodayOffers(ctx, userID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}
