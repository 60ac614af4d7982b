package google

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityFromClaims(t *testing.T) {
	id, err := identityFromClaims(map[string]interface{}{
		"email":          "g@x.com",
		"name":           "Gee",
		"email_verified": true,
	})
	require.NoError(t, err)
	assert.Equal(t, "g@x.com", id.Email)
	assert.Equal(t, "Gee", id.Name)
	assert.True(t, id.EmailVerified)

	id, err = identityFromClaims(map[string]interface{}{"email": "g@x.com", "email_verified": "true"})
	require.NoError(t, err)
	assert.True(t, id.EmailVerified)
	assert.Empty(t, id.Name)

	_, err = identityFromClaims(map[string]interface{}{"name": "no email"})
	assert.Error(t, err)
}
