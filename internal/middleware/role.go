package middleware

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"steamsbury/internal/model"
	bizErrors "steamsbury/pkg/errors"
	"steamsbury/pkg/response"
)

// RequireRole 角色门卫，挂在 AuthMiddleware 之后。
// admin 隐含 staff 权限，反之不成立。
func RequireRole(roles ...model.UserRole) app.HandlerFunc {
	allowed := make(map[model.UserRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(ctx context.Context, c *app.RequestContext) {
		roleStr, ok := GetUserRole(ctx, c)
		if !ok {
			response.Error(ctx, c, bizErrors.Unauthorized)
			c.Abort()
			return
		}

		role := model.UserRole(roleStr)
		if _, ok := allowed[role]; !ok {
			if _, staffOK := allowed[model.RoleStaff]; !(staffOK && role == model.RoleAdmin) {
				response.Error(ctx, c, bizErrors.Forbidden)
				c.Abort()
				return
			}
		}

		c.Next(ctx)
	}
}
