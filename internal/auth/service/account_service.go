package service

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/patrick-etcheverry/tuto-authentification/config"
	"github.com/patrick-etcheverry/tuto-authentification/internal/auth/domain"
	"github.com/patrick-etcheverry/tuto-authentification/internal/auth/dto"
	"github.com/patrick-etcheverry/tuto-authentification/internal/auth/password"
	autherror "github.com/patrick-etcheverry/tuto-authentification/internal/errors"
	"github.com/patrick-etcheverry/tuto-authentification/pkg/constant"
)

// resetTokenBytes is the entropy of a reset token before hex encoding.
const resetTokenBytes = 32

// dummyDigest is a throwaway bcrypt digest verified against when the
// email is unknown, so lookup misses cost the same as wrong passwords.
const dummyDigest = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// AccountService owns the account lifecycle state machine: failed
// attempt counting, timed lockout and reactivation, and the reset
// token flow. All collaborators are injected.
type AccountService struct {
	store  domain.AccountStore
	tokens TokenGenerator
	hasher password.Hasher
	clock  domain.Clock
	random domain.RandomSource
	cfg    *config.Config
}

func NewAccountService(store domain.AccountStore, tokens TokenGenerator, hasher password.Hasher,
	clock domain.Clock, random domain.RandomSource, cfg *config.Config) *AccountService {
	return &AccountService{
		store:  store,
		tokens: tokens,
		hasher: hasher,
		clock:  clock,
		random: random,
		cfg:    cfg,
	}
}

// Register creates a new active account with the default role.
// Password strength is checked before email uniqueness so a probe
// with a known-weak password cannot learn whether the email exists.
func (s *AccountService) Register(ctx context.Context, input dto.RegisterInput) (*domain.Account, error) {
	if !password.IsStrong(input.Password) {
		return nil, autherror.ErrWeakPassword
	}

	existing, err := s.store.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, autherror.ErrEmailAlreadyInUse
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	account := &domain.Account{
		ID:           uuid.NewString(),
		Email:        input.Email,
		PasswordHash: hash,
		Role:         constant.DefaultUserRole,
		Status:       domain.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// Authenticate runs one login attempt through the lockout state
// machine and fails closed. Store failures surface as
// ErrStoreUnavailable, never as ErrInvalidCredentials.
func (s *AccountService) Authenticate(ctx context.Context, input dto.LoginInput) (*dto.AuthResult, error) {
	account, err := s.store.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}

	if account == nil {
		// Burn a verification anyway so unknown emails are not
		// distinguishable by response time.
		s.hasher.Verify(input.Password, dummyDigest)
		s.journal(ctx, input.Email, input.IPAddress, false)

		return nil, autherror.ErrInvalidCredentials
	}

	now := s.clock.Now()

	if account.Status == domain.StatusLocked {
		remaining := s.lockoutRemaining(account, now)
		if remaining > 0 {
			s.journal(ctx, input.Email, input.IPAddress, false)

			return nil, &autherror.AccountLockedError{RemainingSeconds: remaining}
		}

		// Window elapsed: reactivate before checking the password.
		if err := s.store.ClearLockout(ctx, account.ID); err != nil {
			return nil, err
		}
		account.Status = domain.StatusActive
		account.FailedAttempts = 0
		account.LastFailedAt = nil
	}

	if !s.hasher.Verify(input.Password, account.PasswordHash) {
		_, status, err := s.store.RecordFailedAttempt(ctx, account.ID, now, s.cfg.LoginMaxAttempts)
		if err != nil {
			return nil, err
		}
		s.journal(ctx, input.Email, input.IPAddress, false)

		if status == domain.StatusLocked {
			return nil, &autherror.AccountLockedError{
				RemainingSeconds: int64(s.cfg.LockoutWindowSeconds),
			}
		}

		return nil, autherror.ErrInvalidCredentials
	}

	if account.FailedAttempts > 0 {
		if err := s.store.ClearLockout(ctx, account.ID); err != nil {
			return nil, err
		}
	}

	accessToken, refreshToken, expiresAt, err := s.tokens.Generate(account.ID, account.Email, account.Role)
	if err != nil {
		return nil, err
	}

	refreshTokenObj := &domain.RefreshToken{
		ID:                uuid.NewString(),
		UserID:            account.ID,
		Token:             refreshToken,
		DeviceFingerprint: input.Fingerprint,
		IPAddress:         input.IPAddress,
		UserAgent:         input.UserAgent,
		ExpiresAt:         expiresAt,
		CreatedAt:         now,
		Revoked:           false,
	}

	if err := s.store.StoreRefreshToken(ctx, refreshTokenObj); err != nil {
		return nil, err
	}

	s.journal(ctx, input.Email, input.IPAddress, true)
	s.trimRefreshTokens(ctx, account.ID)

	return &dto.AuthResult{
		UserID:       account.ID,
		Email:        account.Email,
		Role:         account.Role,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    constant.DefaultTokenType,
		ExpiresIn:    int(s.tokens.GetAccessTokenExpiry().Seconds()),
	}, nil
}

// IssueResetToken generates a single-use reset token for the account
// and persists it with its expiry. The token is returned so the
// caller can deliver it out of band.
func (s *AccountService) IssueResetToken(ctx context.Context, email string) (string, error) {
	account, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if account == nil {
		return "", autherror.ErrAccountNotFound
	}

	raw, err := s.random.Bytes(resetTokenBytes)
	if err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}
	token := hex.EncodeToString(raw)

	expiry := s.clock.Now().Add(time.Duration(s.cfg.ResetTokenTTLSeconds) * time.Second)
	if err := s.store.SaveResetToken(ctx, account.ID, token, expiry); err != nil {
		return "", err
	}

	return token, nil
}

// ResetPassword consumes a reset token. On success the new hash is
// stored and both the token and any lockout state are cleared: the
// token channel already proved account ownership.
func (s *AccountService) ResetPassword(ctx context.Context, input dto.ResetPasswordInput) error {
	account, err := s.store.GetByResetToken(ctx, input.Token)
	if err != nil {
		return err
	}
	if account == nil {
		return autherror.ErrInvalidResetToken
	}

	if account.ResetTokenExpiry == nil || s.clock.Now().After(*account.ResetTokenExpiry) {
		return autherror.ErrResetTokenExpired
	}

	if !password.IsStrong(input.NewPassword) {
		return autherror.ErrWeakPassword
	}

	hash, err := s.hasher.Hash(input.NewPassword)
	if err != nil {
		return err
	}

	return s.store.ResetPassword(ctx, account.ID, hash)
}

// Refresh rotates a refresh token: the presented token is revoked and
// a new pair is issued for the same device.
func (s *AccountService) Refresh(ctx context.Context, input dto.RefreshInput) (*dto.TokenResponse, error) {
	token, err := s.store.GetRefreshToken(ctx, input.RefreshToken)
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, autherror.ErrRefreshTokenNotFound
	}

	if token.Revoked {
		return nil, autherror.ErrRefreshTokenRevoked
	}

	if token.DeviceFingerprint != input.Fingerprint {
		return nil, autherror.ErrDeviceFingerprintMismatch
	}

	if s.clock.Now().After(token.ExpiresAt) {
		return nil, autherror.ErrRefreshTokenExpired
	}

	if err := s.store.RevokeRefreshToken(ctx, token.ID); err != nil {
		return nil, err
	}

	account, err := s.store.GetByID(ctx, token.UserID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, autherror.ErrAccountNotFound
	}

	accessToken, newRefreshToken, expiresAt, err := s.tokens.Generate(account.ID, account.Email, account.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate new tokens: %w", err)
	}

	newToken := &domain.RefreshToken{
		ID:                uuid.NewString(),
		UserID:            token.UserID,
		Token:             newRefreshToken,
		DeviceFingerprint: input.Fingerprint,
		IPAddress:         input.IPAddress,
		UserAgent:         input.UserAgent,
		ExpiresAt:         expiresAt,
		CreatedAt:         s.clock.Now(),
		Revoked:           false,
	}
	if err := s.store.StoreRefreshToken(ctx, newToken); err != nil {
		return nil, fmt.Errorf("failed to store new refresh token: %w", err)
	}

	s.trimRefreshTokens(ctx, token.UserID)

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		TokenType:    constant.DefaultTokenType,
		ExpiresIn:    int(s.tokens.GetAccessTokenExpiry().Seconds()),
	}, nil
}

// Logout revokes the presented refresh token.
func (s *AccountService) Logout(ctx context.Context, input dto.LogoutInput) error {
	token, err := s.store.GetRefreshToken(ctx, input.RefreshToken)
	if err != nil {
		return err
	}
	if token == nil {
		return autherror.ErrRefreshTokenNotFound
	}

	return s.store.RevokeRefreshToken(ctx, token.ID)
}

func (s *AccountService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	return s.store.ListAccounts(ctx)
}

func (s *AccountService) ListLoginAttempts(ctx context.Context, limit int) ([]domain.LoginAttempt, error) {
	return s.store.ListLoginAttempts(ctx, limit)
}

func (s *AccountService) UpdateRole(ctx context.Context, id, role string) error {
	if role != constant.DefaultUserRole && role != constant.AdminRole {
		return autherror.ErrInvalidRole
	}

	return s.store.UpdateRole(ctx, id, role)
}

// lockoutRemaining returns the seconds left before a locked account
// may try again, rounded up so a fresh lock reports the full window.
func (s *AccountService) lockoutRemaining(account *domain.Account, now time.Time) int64 {
	if account.LastFailedAt == nil {
		return 0
	}

	window := time.Duration(s.cfg.LockoutWindowSeconds) * time.Second
	remaining := window - now.Sub(*account.LastFailedAt)
	if remaining <= 0 {
		return 0
	}

	return int64((remaining + time.Second - 1) / time.Second)
}

// journal records the attempt in the login journal. Journal failures
// must not change the authentication outcome.
func (s *AccountService) journal(ctx context.Context, email, ip string, success bool) {
	if err := s.store.RecordLoginAttempt(ctx, email, ip, success); err != nil {
		log.Printf("warn: failed to record login attempt for %s: %v", email, err)
	}
}

func (s *AccountService) trimRefreshTokens(ctx context.Context, userID string) {
	count, err := s.store.GetActiveCountByUserID(ctx, userID)
	if err != nil {
		log.Printf("warn: failed to count active tokens for user %s: %v", userID, err)
		return
	}
	if count > s.cfg.MaxActiveRefreshTokens {
		if err := s.store.DeleteOldestByUserID(ctx, userID); err != nil {
			log.Printf("warn: failed to delete oldest refresh token for user %s: %v", userID, err)
		}
	}
}
