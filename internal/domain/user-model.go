package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

type LoginMode string

const (
	LoginModeEmail    LoginMode = "email"
	LoginModeGoogle   LoginMode = "google"
	LoginModeFacebook LoginMode = "facebook"
	LoginModeTwitter  LoginMode = "twitter"
)

func (m LoginMode) Valid() bool {
	switch m {
	case LoginModeEmail, LoginModeGoogle, LoginModeFacebook, LoginModeTwitter:
		return true
	}
	return false
}

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale || g == GenderOther
}

const DefaultLanguage = "en"

var contactNumberRe = regexp.MustCompile(`^\d{10,}$`)

var validate = validator.New()

type User struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"not null" json:"name"`
	Email         string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash  *string   `gorm:"column:password" json:"-"`
	ContactNumber *string   `json:"contactNumber,omitempty"`
	Role          Role      `gorm:"type:varchar(10);not null;default:admin" json:"role"`
	LoginMode     LoginMode `gorm:"type:varchar(10);not null;default:email" json:"loginMode"`

	EmailVerified        bool       `gorm:"not null;default:false" json:"emailVerified"`
	VerificationToken    *string    `gorm:"index" json:"-"`
	ResetPasswordToken   *string    `json:"-"`
	ResetPasswordExpires *time.Time `json:"-"`

	ActiveAvatar      *string `json:"activeAvatar"`
	ActiveAvatarVoice *string `json:"activeAvatarVoice"`
	Gender            *Gender `gorm:"type:varchar(10)" json:"gender"`
	Language          string  `gorm:"not null;default:en" json:"language"`
	ProfileImage      *string `json:"profileImage"`

	WorkspaceID   *uint   `json:"workspace_id,omitempty"`
	WorkspaceSlug *string `json:"workspace_slug,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ApplyDefaults fills the enumerated fields left empty by callers.
func (u *User) ApplyDefaults() {
	if u.Role == "" {
		u.Role = RoleAdmin
	}
	if u.LoginMode == "" {
		u.LoginMode = LoginModeEmail
	}
	if u.Language == "" {
		u.Language = DefaultLanguage
	}
}

// Validate checks the record-level invariants. It runs before every save.
func (u *User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return errors.New("Please enter Name")
	}
	if strings.TrimSpace(u.Email) == "" {
		return errors.New("Please enter Email")
	}
	if !ValidEmail(u.Email) {
		return errors.New("Please enter a valid email")
	}
	if !u.Role.Valid() {
		return errors.New("Please enter a valid role")
	}
	if !u.LoginMode.Valid() {
		return errors.New("Please enter a valid login mode")
	}
	if u.LoginMode == LoginModeEmail {
		if u.PasswordHash == nil || *u.PasswordHash == "" {
			return errors.New("Please enter password")
		}
		if u.ContactNumber == nil || *u.ContactNumber == "" {
			return errors.New("Please enter contact number")
		}
	}
	if u.ContactNumber != nil && *u.ContactNumber != "" && !ValidContactNumber(*u.ContactNumber) {
		return errors.New("Please enter a valid contact number")
	}
	if u.Gender != nil && !u.Gender.Valid() {
		return errors.New("Please enter a valid gender")
	}
	return nil
}

func (u *User) BeforeSave(tx *gorm.DB) error {
	u.ApplyDefaults()
	return u.Validate()
}

// HasPassword reports whether the user can authenticate with a local password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

func ValidEmail(email string) bool {
	return validate.Var(email, "required,email") == nil
}

func ValidContactNumber(n string) bool {
	return contactNumberRe.MatchString(n)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
