package services

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"time"

	"github.com/SundayYogurt/account_service/internal/domain"
	"github.com/SundayYogurt/account_service/internal/dto"
	"github.com/SundayYogurt/account_service/internal/helper"
	"github.com/SundayYogurt/account_service/internal/repository"
	"go.uber.org/zap"
)

type memUsers struct {
	mu     sync.Mutex
	nextID uint
	byID   map[uint]domain.User
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[uint]domain.User{}}
}

func (m *memUsers) CreateUser(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	if err := user.BeforeSave(nil); err != nil {
		return err
	}
	m.nextID++
	user.ID = m.nextID
	m.byID[user.ID] = *user
	return nil
}

func (m *memUsers) SaveUser(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := user.BeforeSave(nil); err != nil {
		return err
	}
	m.byID[user.ID] = *user
	return nil
}

func (m *memUsers) find(match func(domain.User) bool) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if match(u) {
			out := u
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) FindUserByEmail(_ context.Context, email string) (*domain.User, error) {
	return m.find(func(u domain.User) bool { return u.Email == email })
}

func (m *memUsers) FindUserById(_ context.Context, userID uint) (*domain.User, error) {
	return m.find(func(u domain.User) bool { return u.ID == userID })
}

func (m *memUsers) FindUserByVerificationToken(_ context.Context, hash string) (*domain.User, error) {
	return m.find(func(u domain.User) bool { return u.VerificationToken != nil && *u.VerificationToken == hash })
}

func (m *memUsers) ListUsers(context.Context) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	users := make([]domain.User, 0, len(m.byID))
	for id := uint(1); id <= m.nextID; id++ {
		if u, ok := m.byID[id]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}

func (m *memUsers) DeleteUser(_ context.Context, userID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[userID]; !ok {
		return repository.ErrNotFound
	}
	delete(m.byID, userID)
	return nil
}

func (m *memUsers) ConsumeResetToken(_ context.Context, userID uint, nonce, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[userID]
	if !ok || u.ResetPasswordToken == nil || *u.ResetPasswordToken != nonce {
		return repository.ErrNotFound
	}
	u.PasswordHash = &passwordHash
	u.ResetPasswordToken = nil
	u.ResetPasswordExpires = nil
	m.byID[userID] = u
	return nil
}

func (m *memUsers) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}

type memWorkspaces struct {
	byUser map[uint]*domain.Workspace
}

func (w *memWorkspaces) CountActiveByUserID(_ context.Context, userID uint) (int64, error) {
	if ws, ok := w.byUser[userID]; ok && ws.Status == domain.WorkspaceStatusActive {
		return 1, nil
	}
	return 0, nil
}

func (w *memWorkspaces) UpdateActiveProductImage(_ context.Context, userID uint, image string) (*domain.Workspace, error) {
	ws, ok := w.byUser[userID]
	if !ok || ws.Status != domain.WorkspaceStatusActive {
		return nil, repository.ErrNotFound
	}
	ws.ProductImage = &image
	return ws, nil
}

type sentMail struct {
	kind, to, link string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (f *fakeMailer) SendPasswordReset(_ context.Context, to, link string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{kind: "reset", to: to, link: link})
	return nil
}

func (f *fakeMailer) SendVerifyEmail(_ context.Context, to, link string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{kind: "verify", to: to, link: link})
	return nil
}

func (f *fakeMailer) last(kind string) (sentMail, bool) {
	for i := len(f.sent) - 1; i >= 0; i-- {
		if f.sent[i].kind == kind {
			return f.sent[i], true
		}
	}
	return sentMail{}, false
}

type fakeUploader struct {
	folder, name string
	data         []byte
}

func (f *fakeUploader) UploadBytes(_ context.Context, folder, filename string, b []byte) (string, error) {
	f.folder, f.name, f.data = folder, filename, b
	return "https://cdn.example.com/" + folder + "/" + filename + ".jpg", nil
}

type fakeVerifier struct {
	identities map[string]dto.FederatedIdentity
}

func (f *fakeVerifier) Verify(_ context.Context, token string) (*dto.FederatedIdentity, error) {
	id, ok := f.identities[token]
	if !ok {
		return nil, errors.New("token rejected")
	}
	return &id, nil
}

type fixture struct {
	svc        UserService
	users      *memUsers
	workspaces *memWorkspaces
	mailer     *fakeMailer
	uploader   *fakeUploader
	auth       helper.Auth
	now        time.Time
}

func newFixture() *fixture {
	f := &fixture{
		users:      newMemUsers(),
		workspaces: &memWorkspaces{byUser: map[uint]*domain.Workspace{}},
		mailer:     &fakeMailer{},
		uploader:   &fakeUploader{},
		now:        time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	f.auth = helper.SetupAuth("user-secret", "admin-secret").WithClock(func() time.Time { return f.now })
	verifier := &fakeVerifier{identities: map[string]dto.FederatedIdentity{
		"google-ok":         {Email: "G@Example.com", Name: "Gina", EmailVerified: true},
		"google-unverified": {Email: "a@x.com", Name: "Ann", EmailVerified: false},
	}}
	f.svc = NewUserService(f.users, f.workspaces, f.auth, verifier, f.mailer, f.uploader, Options{
		ResetBaseURL:  "http://app.test/reset-password",
		VerifyBaseURL: "http://api.test/api/users/verify-email",
		UploadFolder:  "profiles",
	}, nil, zap.NewNop())
	return f
}

func (f *fixture) register(email, password string) *dto.AuthResult {
	res, err := f.svc.Register(context.Background(), dto.RegisterRequest{
		Name:          "Ann",
		Email:         email,
		Password:      password,
		ContactNumber: "0123456789",
	})
	if err != nil {
		panic(err)
	}
	return res
}

func tokenFromLink(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	return u.Query().Get("token")
}

func loginEmail(email, password string) dto.UserLogin {
	return dto.UserLogin{Email: email, Password: password}
}
