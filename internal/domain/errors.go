package domain

import "errors"

type ErrorKind string

const (
	KindValidation         ErrorKind = "validation"
	KindNotFound           ErrorKind = "not_found"
	KindConflict           ErrorKind = "conflict"
	KindUnauthorized       ErrorKind = "unauthorized"
	KindForbidden          ErrorKind = "forbidden"
	KindInvalidCredentials ErrorKind = "invalid_credentials"
	KindModeMismatch       ErrorKind = "mode_mismatch"
	KindTokenExpired       ErrorKind = "token_expired"
	KindTokenInvalid       ErrorKind = "token_invalid"
	KindInternal           ErrorKind = "internal"
)

// Error is a terminal, classified failure of an account operation. Message
// is safe to return to the caller.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func NewError(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func ValidationError(msg string) *Error   { return NewError(KindValidation, msg) }
func NotFoundError(msg string) *Error     { return NewError(KindNotFound, msg) }
func ConflictError(msg string) *Error     { return NewError(KindConflict, msg) }
func UnauthorizedError(msg string) *Error { return NewError(KindUnauthorized, msg) }
func ForbiddenError(msg string) *Error    { return NewError(KindForbidden, msg) }

// KindOf returns the kind of err, or KindInternal when err is not classified.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}
