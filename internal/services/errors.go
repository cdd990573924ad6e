package services

import "errors"

var (
	ErrInternal          = errors.New("internal server error")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")
	ErrSelfFollow        = errors.New("you cannot follow yourself")
	ErrEdgeNotFound      = errors.New("follow request not found")
	ErrNotEdgeTarget     = errors.New("only the target of a follow request may act on it")
	ErrInvalidResetToken = errors.New("invalid or expired reset token")
	ErrInvalidToken      = errors.New("invalid token")
	ErrInvalidHash       = errors.New("malformed password hash")
)

// ValidationError carries a human-readable reason for rejecting user input
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}
