package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SundayYogurt/account_service/internal/domain"
	"github.com/SundayYogurt/account_service/internal/dto"
	"github.com/SundayYogurt/account_service/internal/helper/utils"
	"github.com/SundayYogurt/account_service/internal/repository"
	"go.uber.org/zap"
)

func (u *userService) ForgotPassword(ctx context.Context, email string) (err error) {
	defer func() { u.metrics.ObserveAuth("forgot_password", err) }()

	email = domain.NormalizeEmail(email)
	if email == "" {
		return domain.NotFoundError("User with this email does not exist.")
	}

	user, err := u.repo.FindUserByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.NotFoundError("User with this email does not exist.")
	}
	if err != nil {
		return err
	}

	token, nonce, exp, err := u.auth.GenerateResetToken(user.Email)
	if err != nil {
		return err
	}

	// a newer request replaces the nonce, so older links stop working
	user.ResetPasswordToken = &nonce
	user.ResetPasswordExpires = &exp
	if err := u.repo.SaveUser(ctx, user); err != nil {
		return err
	}

	if u.mailer == nil {
		return errors.New("mail transport is not configured")
	}
	if err := u.mailer.SendPasswordReset(ctx, user.Email, withToken(u.opts.ResetBaseURL, token)); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}
	u.log.Info("password reset requested", zap.Uint("user_id", user.ID))
	return nil
}

func (u *userService) SetPassword(ctx context.Context, input dto.SetPasswordRequest) (err error) {
	defer func() { u.metrics.ObserveAuth("reset_password", err) }()

	token := strings.TrimSpace(input.Token)
	if token == "" || input.Password == "" {
		return domain.ValidationError("Token and new password are required.")
	}

	claims, err := u.auth.VerifyResetToken(token)
	if err != nil {
		return err
	}

	user, err := u.repo.FindUserByEmail(ctx, domain.NormalizeEmail(claims.Email))
	if errors.Is(err, repository.ErrNotFound) {
		return domain.NotFoundError("User not found.")
	}
	if err != nil {
		return err
	}

	if user.ResetPasswordToken == nil || *user.ResetPasswordToken != claims.ID {
		return domain.NewError(domain.KindTokenInvalid, "Invalid token.")
	}
	if user.ResetPasswordExpires == nil || u.auth.Now().After(*user.ResetPasswordExpires) {
		return domain.NewError(domain.KindTokenExpired, "Token has expired. Request a new reset link.")
	}

	hashed, err := u.auth.HashPassword(input.Password)
	if err != nil {
		return err
	}

	err = u.repo.ConsumeResetToken(ctx, user.ID, claims.ID, hashed)
	if errors.Is(err, repository.ErrNotFound) {
		// a concurrent request with the same token got there first
		return domain.NewError(domain.KindTokenInvalid, "Invalid token.")
	}
	if err != nil {
		return err
	}
	u.log.Info("password reset completed", zap.Uint("user_id", user.ID))
	return nil
}

func (u *userService) ChangePassword(ctx context.Context, userID uint, input dto.ChangePasswordRequest) error {
	if userID == 0 {
		return domain.UnauthorizedError("Unauthorized: User ID missing.")
	}

	user, err := u.findByID(ctx, userID)
	if err != nil {
		return err
	}

	if input.OldPassword == "" || input.NewPassword == "" {
		return domain.ValidationError("Old and new password are required.")
	}
	if !user.HasPassword() || u.auth.VerifyPassword(input.OldPassword, *user.PasswordHash) != nil {
		return domain.ValidationError("Old password is incorrect")
	}

	hashed, err := u.auth.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = &hashed
	return u.repo.SaveUser(ctx, user)
}

func (u *userService) VerifyEmail(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.ValidationError("token is required")
	}

	user, err := u.repo.FindUserByVerificationToken(ctx, utils.Sha256Hex(token))
	if errors.Is(err, repository.ErrNotFound) {
		return domain.NewError(domain.KindTokenInvalid, "Invalid token.")
	}
	if err != nil {
		return err
	}

	user.EmailVerified = true
	user.VerificationToken = nil
	return u.repo.SaveUser(ctx, user)
}

func (u *userService) RequireVerifiedEmail(ctx context.Context, email string) error {
	user, err := u.repo.FindUserByEmail(ctx, domain.NormalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return domain.NotFoundError("User with this email does not exist.")
	}
	if err != nil {
		return err
	}
	if !user.EmailVerified {
		return domain.ForbiddenError("Email not verified. Please verify your email first.")
	}
	return nil
}
