package middleware

import (
	"context"

	"github.com/SundayYogurt/account_service/internal/domain"
	"github.com/SundayYogurt/account_service/internal/helper/utils"
	"github.com/gofiber/fiber/v2"
)

type EmailVerificationChecker interface {
	RequireVerifiedEmail(ctx context.Context, email string) error
}

// RequireVerifiedEmail lets the request through only when the email in the
// body belongs to a user whose address has been verified.
func RequireVerifiedEmail(checker EmailVerificationChecker) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		var body struct {
			Email string `json:"email" form:"email"`
		}
		if err := ctx.BodyParser(&body); err != nil {
			return utils.ResponseError(ctx, domain.ValidationError("Please provide valid email id"))
		}
		if err := checker.RequireVerifiedEmail(ctx.UserContext(), body.Email); err != nil {
			return utils.ResponseError(ctx, err)
		}
		return ctx.Next()
	}
}
