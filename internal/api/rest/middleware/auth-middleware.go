package middleware

import (
	"strings"

	"github.com/SundayYogurt/account_service/internal/domain"
	"github.com/SundayYogurt/account_service/internal/helper"
	"github.com/SundayYogurt/account_service/internal/helper/utils"
	"github.com/gofiber/fiber/v2"
)

const (
	SessionCookie = "token"
	LocalsUserID  = "userID"
)

func AuthMiddleware(auth helper.Auth) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		// cookie first, then Authorization header
		tokenStr := strings.TrimSpace(ctx.Cookies(SessionCookie))
		if tokenStr == "" {
			tokenStr = strings.TrimSpace(ctx.Get(fiber.HeaderAuthorization))
		}

		claims, err := auth.VerifyToken(tokenStr)
		if err != nil {
			return utils.ResponseError(ctx, domain.UnauthorizedError(err.Error()))
		}

		ctx.Locals(LocalsUserID, claims.UserID)
		ctx.Locals(helper.LocalsUser, claims)
		return ctx.Next()
	}
}

// AdminOnly must run after AuthMiddleware. The role claim is trusted because
// admin tokens only verify under the admin key.
func AdminOnly(auth helper.Auth) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		claims, err := auth.GetCurrentUser(ctx)
		if err != nil {
			return utils.ResponseError(ctx, domain.UnauthorizedError("unauthorized"))
		}
		if claims.Role != domain.RoleAdmin {
			return utils.ResponseError(ctx, domain.ForbiddenError("admin only"))
		}
		return ctx.Next()
	}
}
