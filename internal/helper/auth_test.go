package helper

import (
	"testing"
	"time"

	"github.com/SundayYogurt/account_service/internal/domain"
	"github.com/SundayYogurt/account_service/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestPasswordHashRoundTrip(t *testing.T) {
	a := SetupAuth("user-secret", "admin-secret")

	for _, pw := range []string{"p1", "correct horse battery staple", "ünïcødé"} {
		hash, err := a.HashPassword(pw)
		require.NoError(t, err)
		assert.NotEqual(t, pw, hash)
		assert.NoError(t, a.VerifyPassword(pw, hash))
		assert.Error(t, a.VerifyPassword(pw+"x", hash))
		assert.Error(t, a.VerifyPassword("", hash))
	}
}

func TestSessionTokenExpiryBoundary(t *testing.T) {
	issued := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	a := SetupAuth("user-secret", "admin-secret")

	token, exp, err := a.WithClock(fixedClock(issued)).GenerateToken(7, "a@x.com", domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, issued.Add(24*time.Hour), exp)

	claims, err := a.WithClock(fixedClock(issued.Add(time.Hour))).VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, domain.RoleAdmin, claims.Role)

	_, err = a.WithClock(fixedClock(issued.Add(25 * time.Hour))).VerifyToken(token)
	assert.EqualError(t, err, "token expired")
}

func TestSessionTokenRoleKeys(t *testing.T) {
	a := SetupAuth("user-secret", "admin-secret")

	userToken, _, err := a.GenerateToken(1, "u@x.com", domain.RoleUser)
	require.NoError(t, err)
	_, err = a.VerifyToken("Bearer " + userToken)
	assert.NoError(t, err)

	// A token claiming admin that was signed with the user key must not verify.
	forged := SetupAuth("user-secret", "user-secret")
	adminToken, _, err := forged.GenerateToken(1, "u@x.com", domain.RoleAdmin)
	require.NoError(t, err)
	_, err = a.VerifyToken(adminToken)
	assert.EqualError(t, err, "invalid token")

	_, _, err = a.GenerateToken(1, "u@x.com", "root")
	assert.Error(t, err)
}

func TestResetTokenIsNotASessionToken(t *testing.T) {
	a := SetupAuth("user-secret", "admin-secret")

	reset, _, _, err := a.GenerateResetToken("a@x.com")
	require.NoError(t, err)
	_, err = a.VerifyToken(reset)
	assert.Error(t, err)

	session, _, err := a.GenerateToken(1, "a@x.com", domain.RoleUser)
	require.NoError(t, err)
	_, err = a.VerifyResetToken(session)
	assert.True(t, domain.IsKind(err, domain.KindTokenInvalid))
}

func TestResetTokenExpiry(t *testing.T) {
	issued := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	a := SetupAuth("user-secret", "admin-secret")

	token, nonce, exp, err := a.WithClock(fixedClock(issued)).GenerateResetToken("a@x.com")
	require.NoError(t, err)
	assert.NotEmpty(t, nonce)
	assert.Equal(t, issued.Add(15*time.Minute), exp)

	claims, err := a.WithClock(fixedClock(issued.Add(14 * time.Minute))).VerifyResetToken(token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, nonce, claims.ID)

	_, err = a.WithClock(fixedClock(issued.Add(16 * time.Minute))).VerifyResetToken(token)
	assert.True(t, domain.IsKind(err, domain.KindTokenExpired))

	_, err = a.VerifyResetToken("not-a-token")
	assert.True(t, domain.IsKind(err, domain.KindTokenInvalid))
}

func TestValidateStruct(t *testing.T) {
	assert.NoError(t, ValidateStruct(dto.RegisterRequest{Email: "a@x.com", ContactNumber: "1234567890"}))

	err := ValidateStruct(dto.RegisterRequest{Email: "nope"})
	assert.EqualError(t, err, "Please enter a valid email")

	err = ValidateStruct(dto.RegisterRequest{ContactNumber: "12ab"})
	assert.EqualError(t, err, "Please enter a valid contact number")

	err = ValidateStruct(dto.RegisterRequest{LoginMode: "github"})
	assert.True(t, domain.IsKind(err, domain.KindValidation))
}
