package domain

//go:generate mockgen -destination=../../mocks/mock_account_store.go -package=mocks github.com/patrick-etcheverry/tuto-authentification/internal/auth/domain AccountStore

import (
	"context"
	"crypto/rand"
	"time"
)

// AccountStore is the persistence boundary of the lifecycle engine.
// Implementations must wrap infrastructure failures with
// errors.ErrStoreUnavailable so callers can tell them apart from
// authentication outcomes.
type AccountStore interface {
	GetByEmail(ctx context.Context, email string) (*Account, error)
	GetByID(ctx context.Context, id string) (*Account, error)
	GetByResetToken(ctx context.Context, token string) (*Account, error)
	Create(ctx context.Context, account *Account) error

	// RecordFailedAttempt increments the failure counter in a single
	// statement and flips the account to locked once the counter
	// reaches threshold. It returns the post-increment counter and
	// status, so two concurrent failures can never lose an update.
	RecordFailedAttempt(ctx context.Context, id string, failedAt time.Time, threshold int) (int, AccountStatus, error)
	ClearLockout(ctx context.Context, id string) error

	SaveResetToken(ctx context.Context, id, token string, expiry time.Time) error
	// ResetPassword stores the new hash and clears both the reset
	// token and any lockout state in one statement.
	ResetPassword(ctx context.Context, id, passwordHash string) error

	UpdateRole(ctx context.Context, id, role string) error
	ListAccounts(ctx context.Context) ([]Account, error)

	StoreRefreshToken(ctx context.Context, rt *RefreshToken) error
	GetRefreshToken(ctx context.Context, token string) (*RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, id string) error
	GetActiveCountByUserID(ctx context.Context, userID string) (int, error)
	DeleteOldestByUserID(ctx context.Context, userID string) error

	RecordLoginAttempt(ctx context.Context, email, ip string, success bool) error
	ListLoginAttempts(ctx context.Context, limit int) ([]LoginAttempt, error)
}

// Clock abstracts time.Now so lockout expiry can be tested with a
// deterministic clock.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// RandomSource yields cryptographically secure random bytes for reset
// token generation.
type RandomSource interface {
	Bytes(n int) ([]byte, error)
}

type CryptoRand struct{}

func (CryptoRand) Bytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}
