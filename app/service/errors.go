package service

import (
	"errors"
	"fmt"
)

// Every expected business-rule failure is a sentinel so that the HTTP layer
// can translate it with errors.Is. Nothing here is process-fatal.
var (
	ErrUserExists           = errors.New("user with this email already exists")
	ErrAuthenticationFailed = errors.New("unable to log in with provided credentials")
	ErrUserNotActive        = errors.New("user is not active")
	ErrAlreadyConfirmed     = errors.New("email is already confirmed for this user")
	ErrCannotConfirm        = errors.New("could not confirm email")
	ErrInvalidToken         = errors.New("invalid or expired token")
)

// ErrEmailNotConfirmed matches ErrUserNotActive under errors.Is but carries
// the more specific message shown when the account's email was never
// confirmed.
var ErrEmailNotConfirmed = fmt.Errorf("%w: please make sure that you have confirmed your email", ErrUserNotActive)
