package router

import (
	"github.com/cloudwego/hertz/pkg/app/server"

	"steamsbury/internal/handler"
	"steamsbury/internal/middleware"
	"steamsbury/internal/model"
)

func Register(h *server.Hertz) {

	h.Use(middleware.RecoverMiddleware())
	h.Use(middleware.CORSMiddleware())
	h.Use(middleware.OpenTelemetryMiddleware())

	v1 := h.Group("/v1")
	v1.Use(middleware.GeneralRateLimitMiddleware())

	// 认证相关路由
	auth := v1.Group("/auth")
	auth.Use(middleware.AuthRateLimitMiddleware()) // 认证接口限流
	{
		auth.POST("/register", handler.Register)
		auth.POST("/login", handler.Login)
		auth.POST("/token/refresh", handler.RefreshToken)
	}

	// 菜单浏览无需登录
	menu := v1.Group("/menu")
	{
		menu.GET("", handler.ListMenu)
		menu.GET("/items/:item_id", handler.GetMenuItem)
	}

	// 当日优惠按会员等级折算，需要鉴权
	offers := v1.Group("/offers")
	offers.Use(middleware.AuthMiddleware())
	{
		offers.GET("/today", handler.TodayOffers)
	}

	// 用户资料与积分
	users := v1.Group("/users")
	users.Use(middleware.AuthMiddleware())
	{
		users.GET("/me", handler.GetProfile)
		users.PATCH("/me", handler.UpdateProfile)
		users.GET("/me/points/history", handler.GetPointsHistory)
	}

	// 顾客订单
	orders := v1.Group("/orders")
	orders.Use(middleware.AuthMiddleware())
	{
		orders.POST("", middleware.CheckoutRateLimitMiddleware(), handler.Checkout) // 下单限流
		orders.GET("", handler.ListMyOrders)
		orders.GET("/:order_id", handler.GetOrder)
	}

	// 门店员工
	staff := v1.Group("/staff")
	staff.Use(middleware.AuthMiddleware(), middleware.RequireRole(model.RoleStaff))
	{
		staff.GET("/orders", handler.StaffListOrders)
		staff.PATCH("/orders/:order_id/status", handler.StaffUpdateOrderStatus)
		staff.POST("/points/redeem", handler.StaffRedeemPoints)
	}

	// 管理员
	admin := v1.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRole(model.RoleAdmin))
	{
		admin.POST("/categories", handler.AdminCreateCategory)
		admin.POST("/menu/items", handler.AdminCreateMenuItem)
		admin.PATCH("/menu/items/:item_id", handler.AdminUpdateMenuItem)
		admin.POST("/menu/addons", handler.AdminCreateAddon)

		admin.GET("/offers", handler.AdminListOffers)
		admin.POST("/offers", handler.AdminCreateOffer)
		admin.PATCH("/offers/:offer_id", handler.AdminUpdateOffer)
		admin.DELETE("/offers/:offer_id", handler.AdminDeleteOffer)

		admin.POST("/loyalty/birthday-credit", handler.AdminGrantBirthdayCredit)
	}
}
