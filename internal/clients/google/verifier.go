package google

import (
	"context"
	"errors"
	"fmt"

	"github.com/SundayYogurt/account_service/internal/dto"
	"google.golang.org/api/idtoken"
)

// Verifier validates Google id tokens against Google's published keys and
// the configured OAuth client id.
type Verifier struct {
	validator *idtoken.Validator
	audience  string
}

func New(ctx context.Context, clientID string) (*Verifier, error) {
	if clientID == "" {
		return nil, errors.New("google client id is required")
	}
	v, err := idtoken.NewValidator(ctx)
	if err != nil {
		return nil, fmt.Errorf("create id token validator: %w", err)
	}
	return &Verifier{validator: v, audience: clientID}, nil
}

func (v *Verifier) Verify(ctx context.Context, token string) (*dto.FederatedIdentity, error) {
	payload, err := v.validator.Validate(ctx, token, v.audience)
	if err != nil {
		return nil, err
	}
	return identityFromClaims(payload.Claims)
}

func identityFromClaims(claims map[string]interface{}) (*dto.FederatedIdentity, error) {
	email, _ := claims["email"].(string)
	if email == "" {
		return nil, errors.New("id token has no email claim")
	}
	name, _ := claims["name"].(string)

	verified := false
	switch v := claims["email_verified"].(type) {
	case bool:
		verified = v
	case string:
		verified = v == "true"
	}

	return &dto.FederatedIdentity{
		Email:         email,
		Name:          name,
		EmailVerified: verified,
	}, nil
}
