package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/SundayYogurt/account_service/internal/domain"
	"github.com/SundayYogurt/account_service/internal/dto"
	"github.com/SundayYogurt/account_service/internal/helper"
	"github.com/SundayYogurt/account_service/internal/helper/utils"
	"github.com/SundayYogurt/account_service/internal/interfaces"
	"github.com/SundayYogurt/account_service/internal/metrics"
	"github.com/SundayYogurt/account_service/internal/repository"
	"go.uber.org/zap"
)

type UserService interface {
	// Auth
	Register(ctx context.Context, input dto.RegisterRequest) (*dto.AuthResult, error)
	Login(ctx context.Context, input dto.UserLogin) (*dto.AuthResult, error)
	VerifyEmail(ctx context.Context, token string) error
	RequireVerifiedEmail(ctx context.Context, email string) error

	// Password
	ForgotPassword(ctx context.Context, email string) error
	SetPassword(ctx context.Context, input dto.SetPasswordRequest) error
	ChangePassword(ctx context.Context, userID uint, input dto.ChangePasswordRequest) error

	// Profile
	GetProfile(ctx context.Context, userID uint) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID uint, input dto.UpdateUserProfile) (*domain.User, error)
	UpdateNameAndProductImage(ctx context.Context, userID uint, input dto.UpdateNameImageRequest) error

	// Admin
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, userID uint) (*domain.User, error)
	DeleteUser(ctx context.Context, userID uint) error
	SetRole(ctx context.Context, userID uint, role string) (*domain.User, error)
}

type Options struct {
	ResetBaseURL  string
	VerifyBaseURL string
	UploadFolder  string
}

type userService struct {
	repo          repository.UserRepository
	workspaceRepo repository.WorkspaceRepository
	auth          helper.Auth

	federated interfaces.FederatedVerifier
	mailer    interfaces.Mailer
	uploader  interfaces.Uploader

	opts    Options
	metrics *metrics.Metrics
	log     *zap.Logger
}

func NewUserService(
	repo repository.UserRepository,
	workspaceRepo repository.WorkspaceRepository,
	auth helper.Auth,
	federated interfaces.FederatedVerifier,
	mailer interfaces.Mailer,
	uploader interfaces.Uploader,
	opts Options,
	m *metrics.Metrics,
	log *zap.Logger,
) UserService {
	if log == nil {
		log = zap.NewNop()
	}
	return &userService{
		repo:          repo,
		workspaceRepo: workspaceRepo,
		auth:          auth,
		federated:     federated,
		mailer:        mailer,
		uploader:      uploader,
		opts:          opts,
		metrics:       m,
		log:           log,
	}
}

// AUTH
func (u *userService) Register(ctx context.Context, input dto.RegisterRequest) (res *dto.AuthResult, err error) {
	defer func() { u.metrics.ObserveAuth("register", err) }()

	input.Name = strings.TrimSpace(input.Name)
	input.Email = domain.NormalizeEmail(input.Email)
	input.ContactNumber = strings.TrimSpace(input.ContactNumber)
	mode, err := parseLoginMode(input.LoginMode)
	if err != nil {
		return nil, err
	}
	input.LoginMode = string(mode)

	if input.Name == "" || input.Email == "" {
		return nil, domain.ValidationError("Name and email are required.")
	}
	switch mode {
	case domain.LoginModeEmail:
		if input.Password == "" || input.ContactNumber == "" {
			return nil, domain.ValidationError("Password and contact number are required for email login.")
		}
	case domain.LoginModeGoogle:
		if strings.TrimSpace(input.Token) == "" {
			return nil, domain.ValidationError("Google token is required for Google login.")
		}
	default:
		return nil, domain.ValidationError(fmt.Sprintf("Registration with %s is not supported.", mode))
	}
	if err := helper.ValidateStruct(input); err != nil {
		return nil, err
	}

	if mode == domain.LoginModeGoogle {
		user, created, err := u.federatedUser(ctx, input.Token)
		if err != nil {
			return nil, err
		}
		res, err := u.issue(ctx, user, created, false)
		if err != nil {
			return nil, err
		}
		res.Federated = true
		return res, nil
	}

	existing, err := u.repo.FindUserByEmail(ctx, input.Email)
	if err == nil && existing != nil {
		return nil, domain.ConflictError("A user with this email already exists.")
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hashed, err := u.auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	verifyToken, err := utils.RandomToken(32)
	if err != nil {
		return nil, errors.New("failed to generate verification token")
	}
	verifyHash := utils.Sha256Hex(verifyToken)

	contact := input.ContactNumber
	newUser := &domain.User{
		Name:              input.Name,
		Email:             input.Email,
		PasswordHash:      &hashed,
		ContactNumber:     &contact,
		LoginMode:         domain.LoginModeEmail,
		VerificationToken: &verifyHash,
	}
	newUser.ApplyDefaults()
	if err := newUser.Validate(); err != nil {
		return nil, domain.ValidationError(err.Error())
	}

	if err := u.repo.CreateUser(ctx, newUser); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, domain.ConflictError("A user with this email already exists.")
		}
		return nil, err
	}
	u.log.Info("user registered", zap.Uint("user_id", newUser.ID), zap.String("login_mode", string(newUser.LoginMode)))

	// verification mail is best effort; the account is usable without it
	if u.mailer != nil {
		link := withToken(u.opts.VerifyBaseURL, verifyToken)
		if err := u.mailer.SendVerifyEmail(ctx, newUser.Email, link); err != nil {
			u.log.Warn("send verification email", zap.Uint("user_id", newUser.ID), zap.Error(err))
		}
	}

	return u.issue(ctx, newUser, true, false)
}

func (u *userService) Login(ctx context.Context, input dto.UserLogin) (res *dto.AuthResult, err error) {
	defer func() { u.metrics.ObserveAuth("login", err) }()

	mode, err := parseLoginMode(input.LoginMode)
	if err != nil {
		return nil, err
	}

	var user *domain.User
	created := false

	switch mode {
	case domain.LoginModeGoogle:
		if strings.TrimSpace(input.Token) == "" {
			return nil, domain.ValidationError("Google token is required for Google login.")
		}
		user, created, err = u.federatedUser(ctx, input.Token)
		if err != nil {
			return nil, err
		}
	case domain.LoginModeEmail:
		email := domain.NormalizeEmail(input.Email)
		if email == "" {
			return nil, domain.NotFoundError("User not found")
		}
		user, err = u.repo.FindUserByEmail(ctx, email)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NotFoundError("User not found")
		}
		if err != nil {
			return nil, err
		}
		if user.LoginMode != domain.LoginModeEmail {
			return nil, domain.NewError(domain.KindModeMismatch, fmt.Sprintf("Please use %s to login.", user.LoginMode))
		}
		if !user.HasPassword() || u.auth.VerifyPassword(input.Password, *user.PasswordHash) != nil {
			return nil, domain.NewError(domain.KindInvalidCredentials, "Invalid password")
		}
	default:
		return nil, domain.ValidationError(fmt.Sprintf("Login with %s is not supported.", mode))
	}

	if r := strings.TrimSpace(input.Role); r != "" && r != string(user.Role) {
		u.log.Warn("ignoring role override on login",
			zap.Uint("user_id", user.ID),
			zap.String("stored_role", string(user.Role)),
			zap.String("requested_role", r),
		)
	}

	active, err := u.workspaceRepo.CountActiveByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	res, err = u.issue(ctx, user, created, active > 0)
	if err != nil {
		return nil, err
	}
	res.Federated = mode == domain.LoginModeGoogle
	return res, nil
}

// federatedUser verifies a Google id token and finds or creates its user.
func (u *userService) federatedUser(ctx context.Context, token string) (*domain.User, bool, error) {
	if u.federated == nil {
		return nil, false, errors.New("google login is not configured")
	}
	identity, err := u.federated.Verify(ctx, token)
	if err != nil {
		return nil, false, fmt.Errorf("verify google token: %w", err)
	}
	email := domain.NormalizeEmail(identity.Email)
	if email == "" {
		return nil, false, errors.New("google token carries no email")
	}

	user, err := u.repo.FindUserByEmail(ctx, email)
	if err == nil {
		// an unverified provider address must not take over a local account
		if user.LoginMode != domain.LoginModeGoogle && !identity.EmailVerified {
			return nil, false, domain.ForbiddenError("Google account email is not verified.")
		}
		return user, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, err
	}

	name := strings.TrimSpace(identity.Name)
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}
	user = &domain.User{
		Name:          name,
		Email:         email,
		LoginMode:     domain.LoginModeGoogle,
		Role:          domain.RoleAdmin,
		EmailVerified: identity.EmailVerified,
	}
	user.ApplyDefaults()

	if err := u.repo.CreateUser(ctx, user); err != nil {
		if !errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, false, err
		}
		// lost the race against a concurrent first login
		user, err = u.repo.FindUserByEmail(ctx, email)
		if err != nil {
			return nil, false, err
		}
		return user, false, nil
	}
	u.log.Info("user registered", zap.Uint("user_id", user.ID), zap.String("login_mode", string(user.LoginMode)))
	return user, true, nil
}

func (u *userService) issue(_ context.Context, user *domain.User, created, workspaceCreated bool) (*dto.AuthResult, error) {
	token, exp, err := u.auth.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResult{
		Token:            token,
		ExpiresAt:        exp.Unix(),
		User:             summarize(user),
		Created:          created,
		WorkspaceCreated: workspaceCreated,
	}, nil
}

func summarize(user *domain.User) dto.UserSummary {
	s := dto.UserSummary{
		ID:                user.ID,
		Name:              user.Name,
		Email:             user.Email,
		ContactNumber:     user.ContactNumber,
		Role:              string(user.Role),
		LoginMode:         string(user.LoginMode),
		ActiveAvatar:      user.ActiveAvatar,
		ActiveAvatarVoice: user.ActiveAvatarVoice,
		Language:          user.Language,
	}
	if user.Gender != nil {
		g := string(*user.Gender)
		s.Gender = &g
	}
	return s
}

func parseLoginMode(raw string) (domain.LoginMode, error) {
	mode := domain.LoginMode(strings.ToLower(strings.TrimSpace(raw)))
	if mode == "" {
		return domain.LoginModeEmail, nil
	}
	if !mode.Valid() {
		return "", domain.ValidationError("Please enter a valid login mode")
	}
	return mode, nil
}

func withToken(base, token string) string {
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + "token=" + url.QueryEscape(token)
}

func (u *userService) findByID(ctx context.Context, userID uint) (*domain.User, error) {
	user, err := u.repo.FindUserById(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, domain.NotFoundError("User not found")
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
