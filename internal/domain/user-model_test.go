package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestUserValidate(t *testing.T) {
	male := GenderMale
	bad := Gender("robot")

	tests := []struct {
		name    string
		user    User
		wantErr string
	}{
		{
			name: "email mode complete",
			user: User{Name: "A", Email: "a@x.com", PasswordHash: strPtr("h"), ContactNumber: strPtr("1234567890"), Gender: &male},
		},
		{
			name:    "missing name",
			user:    User{Email: "a@x.com", PasswordHash: strPtr("h"), ContactNumber: strPtr("1234567890")},
			wantErr: "Please enter Name",
		},
		{
			name:    "invalid email",
			user:    User{Name: "A", Email: "not-an-email", PasswordHash: strPtr("h"), ContactNumber: strPtr("1234567890")},
			wantErr: "Please enter a valid email",
		},
		{
			name:    "email mode without password",
			user:    User{Name: "A", Email: "a@x.com", ContactNumber: strPtr("1234567890")},
			wantErr: "Please enter password",
		},
		{
			name:    "email mode without contact number",
			user:    User{Name: "A", Email: "a@x.com", PasswordHash: strPtr("h")},
			wantErr: "Please enter contact number",
		},
		{
			name:    "short contact number",
			user:    User{Name: "A", Email: "a@x.com", PasswordHash: strPtr("h"), ContactNumber: strPtr("12345")},
			wantErr: "Please enter a valid contact number",
		},
		{
			name: "google mode needs no password",
			user: User{Name: "A", Email: "a@x.com", LoginMode: LoginModeGoogle},
		},
		{
			name:    "unknown role",
			user:    User{Name: "A", Email: "a@x.com", LoginMode: LoginModeGoogle, Role: "root"},
			wantErr: "Please enter a valid role",
		},
		{
			name:    "unknown gender",
			user:    User{Name: "A", Email: "a@x.com", LoginMode: LoginModeGoogle, Gender: &bad},
			wantErr: "Please enter a valid gender",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := tt.user
			u.ApplyDefaults()
			err := u.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	u := User{}
	u.ApplyDefaults()
	assert.Equal(t, RoleAdmin, u.Role)
	assert.Equal(t, LoginModeEmail, u.LoginMode)
	assert.Equal(t, DefaultLanguage, u.Language)
	assert.False(t, u.EmailVerified)
}

func TestErrorKind(t *testing.T) {
	err := NotFoundError("User not found")
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.True(t, IsKind(err, KindNotFound))
	assert.Equal(t, KindInternal, KindOf(assert.AnError))
	assert.False(t, IsKind(nil, KindInternal))
}
