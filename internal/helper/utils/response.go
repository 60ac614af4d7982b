package utils

import (
	"errors"

	"github.com/SundayYogurt/account_service/internal/domain"
	"github.com/gofiber/fiber/v2"
)

// StatusFor maps an error kind to the HTTP status clients expect. Conflict
// and ModeMismatch answer 404 because existing clients match on it.
func StatusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation, domain.KindInvalidCredentials,
		domain.KindTokenExpired, domain.KindTokenInvalid:
		return fiber.StatusBadRequest
	case domain.KindNotFound, domain.KindConflict, domain.KindModeMismatch:
		return fiber.StatusNotFound
	case domain.KindUnauthorized:
		return fiber.StatusUnauthorized
	case domain.KindForbidden:
		return fiber.StatusForbidden
	}
	return fiber.StatusInternalServerError
}

func ResponseError(ctx *fiber.Ctx, err error) error {
	var de *domain.Error
	if errors.As(err, &de) && de.Kind != domain.KindInternal {
		return ctx.Status(StatusFor(de.Kind)).JSON(fiber.Map{
			"success": false,
			"code":    de.Kind,
			"message": de.Message,
		})
	}
	return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"code":    domain.KindInternal,
		"error":   err.Error(),
	})
}

// ResponseSuccess writes body with success=true merged in.
func ResponseSuccess(ctx *fiber.Ctx, status int, body fiber.Map) error {
	out := fiber.Map{"success": true}
	for k, v := range body {
		out[k] = v
	}
	return ctx.Status(status).JSON(out)
}
