package interfaces

import "context"

// Mailer delivers account emails. Calls block until the transport accepted
// the message.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to string, link string) error
	SendVerifyEmail(ctx context.Context, to string, link string) error
}
