package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials        = errors.New("invalid credentials")
	ErrEmailAlreadyInUse         = errors.New("email already in use")
	ErrWeakPassword              = errors.New("password does not meet strength requirements")
	ErrAccountNotFound           = errors.New("account not found")
	ErrInvalidResetToken         = errors.New("invalid reset token")
	ErrResetTokenExpired         = errors.New("reset token expired")
	ErrStoreUnavailable          = errors.New("credential store unavailable")
	ErrRefreshTokenNotFound      = errors.New("refresh token not found")
	ErrRefreshTokenRevoked       = errors.New("refresh token revoked")
	ErrRefreshTokenExpired       = errors.New("refresh token expired")
	ErrDeviceFingerprintMismatch = errors.New("device fingerprint mismatch")
	ErrInvalidRole               = errors.New("invalid role")
)

// AccountLockedError signals that an account is temporarily barred from
// authenticating. It is distinct from ErrInvalidCredentials so callers
// can tell "wrong password" apart from "come back later".
type AccountLockedError struct {
	RemainingSeconds int64
}

func (e *AccountLockedError) Error() string {
	return fmt.Sprintf("account temporarily locked, retry in %d seconds", e.RemainingSeconds)
}
