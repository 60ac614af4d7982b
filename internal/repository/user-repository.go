package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SundayYogurt/account_service/internal/domain"
	"github.com/SundayYogurt/account_service/internal/helper"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	SaveUser(ctx context.Context, user *domain.User) error
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	FindUserById(ctx context.Context, userID uint) (*domain.User, error)
	FindUserByVerificationToken(ctx context.Context, hash string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	DeleteUser(ctx context.Context, userID uint) error
	// ConsumeResetToken stores passwordHash and clears the reset nonce, but
	// only while the stored nonce still equals nonce. ErrNotFound means the
	// nonce was already used or replaced.
	ConsumeResetToken(ctx context.Context, userID uint, nonce, passwordHash string) error
}

type userRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewUserRepository(db *gorm.DB, log *zap.Logger) UserRepository {
	return &userRepository{db: db, log: log}
}

func (r *userRepository) CreateUser(ctx context.Context, user *domain.User) error {
	if user == nil {
		return errors.New("nil user")
	}

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		r.log.Error("create user", zap.Error(err))
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *userRepository) SaveUser(ctx context.Context, user *domain.User) error {
	if user == nil {
		return errors.New("nil user")
	}

	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		r.log.Error("save user", zap.Uint("user_id", user.ID), zap.Error(err))
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func (r *userRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.first(ctx, "find user by email", "email = ?", email)
}

func (r *userRepository) FindUserById(ctx context.Context, userID uint) (*domain.User, error) {
	return r.first(ctx, "find user by id", "id = ?", userID)
}

func (r *userRepository) FindUserByVerificationToken(ctx context.Context, hash string) (*domain.User, error) {
	return r.first(ctx, "find user by verification token", "verification_token = ?", hash)
}

func (r *userRepository) first(ctx context.Context, op string, query string, args ...any) (*domain.User, error) {
	user := &domain.User{}
	if err := r.db.WithContext(ctx).Where(query, args...).First(user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		r.log.Error(op, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

func (r *userRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	users := []domain.User{}
	if err := r.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		r.log.Error("list users", zap.Error(err))
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (r *userRepository) DeleteUser(ctx context.Context, userID uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.User{}, userID)
	if res.Error != nil {
		r.log.Error("delete user", zap.Uint("user_id", userID), zap.Error(res.Error))
		return fmt.Errorf("delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) ConsumeResetToken(ctx context.Context, userID uint, nonce, passwordHash string) error {
	// single conditional UPDATE so two requests holding the same token
	// cannot both succeed; hooks are skipped since the row is not loaded
	res := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ? AND reset_password_token = ?", userID, nonce).
		UpdateColumns(map[string]any{
			"password":               passwordHash,
			"reset_password_token":   nil,
			"reset_password_expires": nil,
			"updated_at":             time.Now(),
		})
	if res.Error != nil {
		r.log.Error("consume reset token", zap.Uint("user_id", userID), zap.Error(res.Error))
		return fmt.Errorf("consume reset token: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
