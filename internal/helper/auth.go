package helper

import (
	"errors"
	"strings"
	"time"

	"github.com/SundayYogurt/account_service/internal/domain"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	SessionTTL       = 24 * time.Hour
	ResetTokenTTL    = 15 * time.Minute
	PasswordHashCost = 10

	sessionAudience = "session"
	resetAudience   = "password_reset"

	// LocalsUser is the fiber locals key holding the verified *SessionClaims.
	LocalsUser = "user"
)

// SessionClaims is the payload of a session token.
type SessionClaims struct {
	Email  string      `json:"email"`
	Role   domain.Role `json:"role"`
	UserID uint        `json:"userid"`
	jwt.RegisteredClaims
}

// ResetClaims is the payload of a password reset token. The registered ID
// (jti) is the nonce stored on the user.
type ResetClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Auth signs and verifies tokens and hashes passwords. Admin session tokens
// are signed with AdminSecret, every other token with Secret.
type Auth struct {
	Secret      string
	AdminSecret string
	now         func() time.Time
}

func SetupAuth(secret, adminSecret string) Auth {
	return Auth{
		Secret:      secret,
		AdminSecret: adminSecret,
		now:         time.Now,
	}
}

// WithClock returns a copy of a that reads time from now.
func (a Auth) WithClock(now func() time.Time) Auth {
	a.now = now
	return a
}

// Now is the clock used for issuing and verifying tokens.
func (a Auth) Now() time.Time {
	if a.now == nil {
		return time.Now()
	}
	return a.now()
}

func (a Auth) sessionKey(role domain.Role) ([]byte, error) {
	switch role {
	case domain.RoleAdmin:
		return []byte(a.AdminSecret), nil
	case domain.RoleUser:
		return []byte(a.Secret), nil
	}
	return nil, errors.New("unknown role in token")
}

// GenerateToken issues a session token for the user and returns it with its
// expiry.
func (a Auth) GenerateToken(userID uint, email string, role domain.Role) (string, time.Time, error) {
	if userID == 0 || email == "" {
		return "", time.Time{}, errors.New("required inputs are missing to generate token")
	}
	key, err := a.sessionKey(role)
	if err != nil {
		return "", time.Time{}, err
	}

	now := a.Now()
	exp := now.Add(SessionTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
		Email:  email,
		Role:   role,
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{sessionAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})

	tokenStr, err := token.SignedString(key)
	if err != nil {
		return "", time.Time{}, errors.New("unable to sign the token")
	}
	return tokenStr, exp, nil
}

// VerifyToken accepts "<token>" or "Bearer <token>".
func (a Auth) VerifyToken(tokenString string) (*SessionClaims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if strings.HasPrefix(strings.ToLower(tokenString), "bearer ") {
		tokenString = strings.TrimSpace(tokenString[len("bearer "):])
	}
	if tokenString == "" {
		return nil, errors.New("missing token")
	}

	claims := &SessionClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		c, ok := t.Claims.(*SessionClaims)
		if !ok {
			return nil, errors.New("invalid token claims")
		}
		return a.sessionKey(c.Role)
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(sessionAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.Now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.New("token expired")
		}
		return nil, errors.New("invalid token")
	}
	if claims.UserID == 0 {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// GenerateResetToken issues a short-lived reset token and returns it with
// the nonce and expiry to be stored on the user.
func (a Auth) GenerateResetToken(email string) (token string, nonce string, exp time.Time, err error) {
	if email == "" {
		return "", "", time.Time{}, errors.New("email is required to generate reset token")
	}

	now := a.Now()
	exp = now.Add(ResetTokenTTL)
	nonce = uuid.NewString()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, ResetClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        nonce,
			Audience:  jwt.ClaimStrings{resetAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	token, err = t.SignedString([]byte(a.Secret))
	if err != nil {
		return "", "", time.Time{}, errors.New("unable to sign the token")
	}
	return token, nonce, exp, nil
}

// VerifyResetToken distinguishes an expired token from any other failure.
func (a Auth) VerifyResetToken(tokenString string) (*ResetClaims, error) {
	claims := &ResetClaims{}
	_, err := jwt.ParseWithClaims(strings.TrimSpace(tokenString), claims, func(*jwt.Token) (any, error) {
		return []byte(a.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(resetAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.Now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, &domain.Error{Kind: domain.KindTokenExpired, Message: "Token has expired. Request a new reset link.", Err: err}
		}
		return nil, &domain.Error{Kind: domain.KindTokenInvalid, Message: "Invalid token.", Err: err}
	}
	if claims.Email == "" || claims.ID == "" {
		return nil, domain.NewError(domain.KindTokenInvalid, "Invalid token.")
	}
	return claims, nil
}

func (a Auth) HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), PasswordHashCost)
	if err != nil {
		return "", errors.New("failed to hash password")
	}
	return string(b), nil
}

func (a Auth) VerifyPassword(plain, hashed string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)); err != nil {
		return errors.New("invalid email or password")
	}
	return nil
}

func (a Auth) GetCurrentUser(ctx *fiber.Ctx) (*SessionClaims, error) {
	claims, ok := ctx.Locals(LocalsUser).(*SessionClaims)
	if !ok || claims == nil {
		return nil, errors.New("missing auth user in context")
	}
	return claims, nil
}
