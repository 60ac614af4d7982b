package handlers

import (
	"time"

	"github.com/SundayYogurt/account_service/internal/api/rest/middleware"
	"github.com/SundayYogurt/account_service/internal/domain"
	"github.com/SundayYogurt/account_service/internal/dto"
	"github.com/SundayYogurt/account_service/internal/helper"
	"github.com/SundayYogurt/account_service/internal/helper/utils"
	"github.com/SundayYogurt/account_service/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Options struct {
	// SecureCookie marks the session cookie Secure (production).
	SecureCookie bool
	// RequireVerifiedEmail gates forgot-password on a verified address.
	RequireVerifiedEmail bool
}

type UserHandler struct {
	svc  services.UserService
	auth helper.Auth
	opts Options
	log  *zap.Logger
}

func NewUserHandler(svc services.UserService, auth helper.Auth, opts Options, log *zap.Logger) *UserHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserHandler{svc: svc, auth: auth, opts: opts, log: log}
}

func (h *UserHandler) SetupRoutes(app *fiber.App) {
	users := app.Group("/api/users")

	// Auth
	users.Post("/register", h.Register)
	users.Post("/login", h.Login)
	users.Get("/verify-email", h.VerifyEmail)
	if h.opts.RequireVerifiedEmail {
		users.Post("/forgot-password", middleware.RequireVerifiedEmail(h.svc), h.ForgotPassword)
	} else {
		users.Post("/forgot-password", h.ForgotPassword)
	}
	users.Post("/reset-password", h.SetPassword)

	session := middleware.AuthMiddleware(h.auth)
	users.Post("/change-password", session, h.ChangePassword)

	// Profile
	users.Get("/profile", session, h.GetProfile)
	users.Put("/profile", session, h.UpdateProfile)
	users.Patch("/name-image", session, h.UpdateNameAndProductImage)

	// Admin
	admin := middleware.AdminOnly(h.auth)
	users.Get("/", session, admin, h.ListUsers)
	users.Get("/:id", session, admin, h.GetUser)
	users.Delete("/:id", session, admin, h.DeleteUser)
	users.Patch("/:id/role", session, admin, h.SetRole)
}

func (h *UserHandler) Register(ctx *fiber.Ctx) error {
	var requestBody dto.RegisterRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, domain.ValidationError("Please provide valid inputs"))
	}

	res, err := h.svc.Register(ctx.UserContext(), requestBody)
	if err != nil {
		return utils.ResponseError(ctx, err)
	}
	h.setSessionCookie(ctx, res)

	if res.Federated {
		return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
			"message":   "Google login successful.",
			"token":     res.Token,
			"role":      res.User.Role,
			"loginMode": res.User.LoginMode,
		})
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, fiber.Map{
		"message": "User registered successfully.",
		"user": fiber.Map{
			"id":            res.User.ID,
			"name":          res.User.Name,
			"email":         res.User.Email,
			"contactNumber": res.User.ContactNumber,
			"loginMode":     res.User.LoginMode,
		},
	})
}

func (h *UserHandler) Login(ctx *fiber.Ctx) error {
	var requestBody dto.UserLogin
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, domain.ValidationError("email and password are required"))
	}

	res, err := h.svc.Login(ctx.UserContext(), requestBody)
	if err != nil {
		return utils.ResponseError(ctx, err)
	}
	h.setSessionCookie(ctx, res)

	workspaceMessage := "No active workspace"
	if res.WorkspaceCreated {
		workspaceMessage = "Workspace created"
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"message":          "Login successful",
		"token":            res.Token,
		"role":             res.User.Role,
		"email":            res.User.Email,
		"loginMode":        res.User.LoginMode,
		"avatarName":       res.User.ActiveAvatar,
		"avatarVoice":      res.User.ActiveAvatarVoice,
		"gender":           res.User.Gender,
		"language":         res.User.Language,
		"userid":           res.User.ID,
		"workspaceCreated": res.WorkspaceCreated,
		"workspaceMessage": workspaceMessage,
	})
}

func (h *UserHandler) VerifyEmail(ctx *fiber.Ctx) error {
	if err := h.svc.VerifyEmail(ctx.UserContext(), ctx.Query("token")); err != nil {
		return utils.ResponseError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"message": "Email verified successfully.",
	})
}

func (h *UserHandler) ForgotPassword(ctx *fiber.Ctx) error {
	var requestBody dto.ForgotPasswordRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, domain.ValidationError("Please provide valid email id"))
	}

	if err := h.svc.ForgotPassword(ctx.UserContext(), requestBody.Email); err != nil {
		return utils.ResponseError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"message": "Reset password link sent to your email.",
	})
}

func (h *UserHandler) SetPassword(ctx *fiber.Ctx) error {
	var requestBody dto.SetPasswordRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, domain.ValidationError("Token and new password are required."))
	}

	if err := h.svc.SetPassword(ctx.UserContext(), requestBody); err != nil {
		return utils.ResponseError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"message": "Password reset successful. You can now log in with your new password.",
	})
}

func (h *UserHandler) ChangePassword(ctx *fiber.Ctx) error {
	var requestBody dto.ChangePasswordRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, domain.ValidationError("Old and new password are required."))
	}

	if err := h.svc.ChangePassword(ctx.UserContext(), currentUserID(ctx), requestBody); err != nil {
		return utils.ResponseError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"message": "Password updated successfully",
	})
}

func (h *UserHandler) setSessionCookie(ctx *fiber.Ctx, res *dto.AuthResult) {
	ctx.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    res.Token,
		Path:     "/",
		Expires:  time.Unix(res.ExpiresAt, 0),
		HTTPOnly: true,
		Secure:   h.opts.SecureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func currentUserID(ctx *fiber.Ctx) uint {
	id, _ := ctx.Locals(middleware.LocalsUserID).(uint)
	return id
}
