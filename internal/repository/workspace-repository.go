package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/SundayYogurt/account_service/internal/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type WorkspaceRepository interface {
	CountActiveByUserID(ctx context.Context, userID uint) (int64, error)
	UpdateActiveProductImage(ctx context.Context, userID uint, image string) (*domain.Workspace, error)
}

type workspaceRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewWorkspaceRepository(db *gorm.DB, log *zap.Logger) WorkspaceRepository {
	return &workspaceRepository{db: db, log: log}
}

func (r *workspaceRepository) CountActiveByUserID(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&domain.Workspace{}).
		Where("user_id = ? AND status = ?", userID, domain.WorkspaceStatusActive).
		Count(&n).Error
	if err != nil {
		r.log.Error("count active workspaces", zap.Uint("user_id", userID), zap.Error(err))
		return 0, fmt.Errorf("count active workspaces: %w", err)
	}
	return n, nil
}

// UpdateActiveProductImage sets the product image of the first active
// workspace of userID.
func (r *workspaceRepository) UpdateActiveProductImage(ctx context.Context, userID uint, image string) (*domain.Workspace, error) {
	ws := &domain.Workspace{}
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, domain.WorkspaceStatusActive).
		Order("id").
		First(ws).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		r.log.Error("find active workspace", zap.Uint("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("find active workspace: %w", err)
	}

	if err := r.db.WithContext(ctx).Model(ws).Update("product_image", image).Error; err != nil {
		r.log.Error("update workspace product image", zap.Uint("workspace_id", ws.ID), zap.Error(err))
		return nil, fmt.Errorf("update workspace product image: %w", err)
	}
	ws.ProductImage = &image
	return ws, nil
}
