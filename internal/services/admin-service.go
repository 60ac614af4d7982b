package services

import (
	"context"
	"errors"
	"strings"

	"github.com/SundayYogurt/account_service/internal/domain"
	"github.com/SundayYogurt/account_service/internal/repository"
	"go.uber.org/zap"
)

// ADMIN

// ListUsers returns every user; an empty store yields an empty slice.
func (u *userService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return u.repo.ListUsers(ctx)
}

func (u *userService) GetUser(ctx context.Context, userID uint) (*domain.User, error) {
	return u.findByID(ctx, userID)
}

// DeleteUser removes the user row only. Workspaces referencing it are left
// to their owning service.
func (u *userService) DeleteUser(ctx context.Context, userID uint) error {
	err := u.repo.DeleteUser(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.NotFoundError("User not found")
	}
	if err != nil {
		return err
	}
	u.log.Info("user deleted", zap.Uint("user_id", userID))
	return nil
}

func (u *userService) SetRole(ctx context.Context, userID uint, role string) (*domain.User, error) {
	r := domain.Role(strings.ToLower(strings.TrimSpace(role)))
	if !r.Valid() {
		return nil, domain.ValidationError("role must be one of: admin user")
	}

	user, err := u.findByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role == r {
		return user, nil
	}

	prev := user.Role
	user.Role = r
	if err := u.repo.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	u.log.Info("user role changed",
		zap.Uint("user_id", userID),
		zap.String("from", string(prev)),
		zap.String("to", string(r)),
	)
	return user, nil
}
