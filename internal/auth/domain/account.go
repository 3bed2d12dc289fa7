package domain

import "time"

type AccountStatus string

const (
	StatusActive AccountStatus = "active"
	StatusLocked AccountStatus = "locked"
)

// Account is one row of the credential store. FailedAttempts,
// LastFailedAt and Status together form the lockout state machine;
// ResetToken and ResetTokenExpiry are either both nil or both set.
type Account struct {
	ID               string
	Email            string
	PasswordHash     string
	Role             string
	FailedAttempts   int
	LastFailedAt     *time.Time
	Status           AccountStatus
	ResetToken       *string
	ResetTokenExpiry *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type RefreshToken struct {
	ID                string
	UserID            string
	Token             string
	DeviceFingerprint string
	IPAddress         string
	UserAgent         string
	ExpiresAt         time.Time
	CreatedAt         time.Time
	Revoked           bool
}

type LoginAttempt struct {
	ID          string
	Email       string
	IPAddress   string
	AttemptTime time.Time
	Successful  bool
}
