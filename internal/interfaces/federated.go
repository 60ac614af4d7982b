package interfaces

import (
	"context"

	"github.com/SundayYogurt/account_service/internal/dto"
)

// FederatedVerifier checks an identity provider token and returns the
// identity it asserts.
type FederatedVerifier interface {
	Verify(ctx context.Context, token string) (*dto.FederatedIdentity, error)
}
