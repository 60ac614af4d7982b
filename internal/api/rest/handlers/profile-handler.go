package handlers

import (
	"errors"
	"mime/multipart"
	"strings"

	"github.com/SundayYogurt/account_service/internal/domain"
	"github.com/SundayYogurt/account_service/internal/dto"
	"github.com/SundayYogurt/account_service/internal/helper/utils"
	pkgutils "github.com/SundayYogurt/account_service/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

const maxProfileImageBytes = 5 << 20

func (h *UserHandler) GetProfile(ctx *fiber.Ctx) error {
	user, err := h.svc.GetProfile(ctx.UserContext(), currentUserID(ctx))
	if err != nil {
		return utils.ResponseError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"message":      "User retrieved successfully.",
		"userName":     user.Name,
		"userEmail":    user.Email,
		"gender":       user.Gender,
		"language":     user.Language,
		"profileImage": user.ProfileImage,
	})
}

// UpdateProfile accepts multipart/form-data (with an optional "file") or JSON.
func (h *UserHandler) UpdateProfile(ctx *fiber.Ctx) error {
	var input dto.UpdateUserProfile

	if strings.HasPrefix(ctx.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		form, err := ctx.MultipartForm()
		if err != nil {
			return utils.ResponseError(ctx, domain.ValidationError("Please provide valid inputs"))
		}
		input, err = profileFromForm(form)
		if err != nil {
			return utils.ResponseError(ctx, err)
		}
	} else if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&input); err != nil {
			return utils.ResponseError(ctx, domain.ValidationError("Please provide valid inputs"))
		}
	}

	user, err := h.svc.UpdateProfile(ctx.UserContext(), currentUserID(ctx), input)
	if err != nil {
		return utils.ResponseError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"message":      "User profile updated successfully",
		"userName":     user.Name,
		"profileImage": user.ProfileImage,
		"gender":       user.Gender,
		"language":     user.Language,
	})
}

// profileFromForm maps form keys onto patches: a missing key is absent, an
// empty value clears.
func profileFromForm(form *multipart.Form) (dto.UpdateUserProfile, error) {
	var input dto.UpdateUserProfile
	field := func(key string) dto.Patch[string] {
		vals, ok := form.Value[key]
		if !ok || len(vals) == 0 {
			return dto.Patch[string]{}
		}
		if strings.TrimSpace(vals[0]) == "" {
			return dto.Clear[string]()
		}
		return dto.SetTo(vals[0])
	}
	input.UserName = field("userName")
	input.Gender = field("gender")
	input.Language = field("language")
	input.ProfileImage = field("profileImage")

	files := form.File["file"]
	if len(files) == 0 {
		return input, nil
	}
	fh := files[0]
	data, err := pkgutils.ReadUpload(fh, maxProfileImageBytes)
	if errors.Is(err, pkgutils.ErrTooLarge) {
		return input, domain.ValidationError("file too large (max 5MB)")
	}
	if err != nil {
		return input, err
	}
	input.File = &dto.FileUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Data:        data,
	}
	return input, nil
}

func (h *UserHandler) UpdateNameAndProductImage(ctx *fiber.Ctx) error {
	var requestBody dto.UpdateNameImageRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, domain.ValidationError("Please provide a name or product_image to update."))
	}

	if err := h.svc.UpdateNameAndProductImage(ctx.UserContext(), currentUserID(ctx), requestBody); err != nil {
		return utils.ResponseError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"message": "User name and/or product image updated successfully.",
	})
}
