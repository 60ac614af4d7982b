package handlers

import (
	"strconv"

	"github.com/SundayYogurt/account_service/internal/domain"
	"github.com/SundayYogurt/account_service/internal/dto"
	"github.com/SundayYogurt/account_service/internal/helper/utils"
	"github.com/gofiber/fiber/v2"
)

func (h *UserHandler) ListUsers(ctx *fiber.Ctx) error {
	users, err := h.svc.ListUsers(ctx.UserContext())
	if err != nil {
		return utils.ResponseError(ctx, err)
	}
	if users == nil {
		users = []domain.User{}
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{"users": users})
}

func (h *UserHandler) GetUser(ctx *fiber.Ctx) error {
	id, err := userIDParam(ctx)
	if err != nil {
		return utils.ResponseError(ctx, err)
	}
	user, err := h.svc.GetUser(ctx.UserContext(), id)
	if err != nil {
		return utils.ResponseError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"user":       user,
		"avatarName": user.ActiveAvatar,
	})
}

func (h *UserHandler) DeleteUser(ctx *fiber.Ctx) error {
	id, err := userIDParam(ctx)
	if err != nil {
		return utils.ResponseError(ctx, err)
	}
	if err := h.svc.DeleteUser(ctx.UserContext(), id); err != nil {
		return utils.ResponseError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"message": "User deleted successfully",
	})
}

func (h *UserHandler) SetRole(ctx *fiber.Ctx) error {
	id, err := userIDParam(ctx)
	if err != nil {
		return utils.ResponseError(ctx, err)
	}
	var requestBody dto.SetRoleRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, domain.ValidationError("role must be one of: admin user"))
	}

	user, err := h.svc.SetRole(ctx.UserContext(), id, requestBody.Role)
	if err != nil {
		return utils.ResponseError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"message": "User role updated successfully",
		"userid":  user.ID,
		"role":    user.Role,
	})
}

// A malformed id cannot name any user, so it answers like a missing one.
func userIDParam(ctx *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(ctx.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, domain.NotFoundError("User not found")
	}
	return uint(id), nil
}
