package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SundayYogurt/account_service/internal/domain"
	"github.com/SundayYogurt/account_service/internal/dto"
	"github.com/SundayYogurt/account_service/internal/repository"
	"github.com/SundayYogurt/account_service/pkg/imageutil"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	profileImageMaxWidth = 512
	profileImageQuality  = 85
)

// Profile
func (u *userService) GetProfile(ctx context.Context, userID uint) (*domain.User, error) {
	if userID == 0 {
		return nil, domain.UnauthorizedError("unauthorized")
	}
	return u.findByID(ctx, userID)
}

func (u *userService) UpdateProfile(ctx context.Context, userID uint, input dto.UpdateUserProfile) (*domain.User, error) {
	if userID == 0 {
		return nil, domain.UnauthorizedError("unauthorized")
	}

	user, err := u.findByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// PATCH: absent fields keep their stored value
	if input.UserName.Set {
		if input.UserName.Value == nil || strings.TrimSpace(*input.UserName.Value) == "" {
			return nil, domain.ValidationError("userName cannot be empty")
		}
		user.Name = strings.TrimSpace(*input.UserName.Value)
	}

	if input.Gender.Set {
		if input.Gender.Value == nil || strings.TrimSpace(*input.Gender.Value) == "" {
			user.Gender = nil
		} else {
			g := domain.Gender(strings.ToLower(strings.TrimSpace(*input.Gender.Value)))
			if !g.Valid() {
				return nil, domain.ValidationError("gender must be one of: male female other")
			}
			user.Gender = &g
		}
	}

	if input.Language.Set {
		if input.Language.Value == nil || strings.TrimSpace(*input.Language.Value) == "" {
			user.Language = domain.DefaultLanguage
		} else {
			user.Language = strings.TrimSpace(*input.Language.Value)
		}
	}

	switch {
	case input.File != nil:
		ref, err := u.uploadProfileImage(ctx, userID, input.File)
		if err != nil {
			return nil, err
		}
		user.ProfileImage = &ref
	case input.ProfileImage.Cleared():
		user.ProfileImage = nil
	case input.ProfileImage.Set && strings.TrimSpace(*input.ProfileImage.Value) == "":
		user.ProfileImage = nil
	case input.ProfileImage.Set:
		return nil, domain.ValidationError("profileImage can only be changed by uploading a file")
	}

	if err := u.repo.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (u *userService) uploadProfileImage(ctx context.Context, userID uint, file *dto.FileUpload) (string, error) {
	if u.uploader == nil {
		return "", errors.New("blob storage is not configured")
	}
	if len(file.Data) == 0 {
		return "", domain.ValidationError("uploaded file is empty")
	}

	jpg, err := imageutil.NormalizeToJPG(file.Data, profileImageMaxWidth, profileImageQuality)
	if err != nil {
		return "", domain.ValidationError("Please upload a valid image (jpeg, png or webp)")
	}

	name := fmt.Sprintf("user-%d-%s", userID, uuid.NewString())
	ref, err := u.uploader.UploadBytes(ctx, u.opts.UploadFolder, name, jpg)
	if err != nil {
		u.log.Error("upload profile image", zap.Uint("user_id", userID), zap.Error(err))
		return "", fmt.Errorf("upload profile image: %w", err)
	}
	return ref, nil
}

// UpdateNameAndProductImage renames the user and/or sets the product image
// of the user's active workspace.
func (u *userService) UpdateNameAndProductImage(ctx context.Context, userID uint, input dto.UpdateNameImageRequest) error {
	if userID == 0 {
		return domain.UnauthorizedError("unauthorized")
	}

	name := strings.TrimSpace(input.Name)
	image := strings.TrimSpace(input.ProductImage)
	if name == "" && image == "" {
		return domain.ValidationError("Please provide a name or product_image to update.")
	}

	if name != "" {
		user, err := u.repo.FindUserById(ctx, userID)
		if errors.Is(err, repository.ErrNotFound) {
			return domain.NotFoundError("User not found.")
		}
		if err != nil {
			return err
		}
		user.Name = name
		if err := u.repo.SaveUser(ctx, user); err != nil {
			return err
		}
	}

	if image != "" {
		_, err := u.workspaceRepo.UpdateActiveProductImage(ctx, userID, image)
		if errors.Is(err, repository.ErrNotFound) {
			return domain.NotFoundError("Active workspace not found for the user.")
		}
		if err != nil {
			return err
		}
	}
	return nil
}
