package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/patrick-etcheverry/tuto-authentification/internal/auth/domain"
	autherror "github.com/patrick-etcheverry/tuto-authentification/internal/errors"
)

// DB is the subset of pgxpool.Pool the repository needs; pgxmock
// satisfies it in tests.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type AccountRepository struct {
	db DB
}

func NewAccountRepository(db DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// storeErr wraps infrastructure failures so the service layer can
// distinguish them from authentication outcomes.
func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", autherror.ErrStoreUnavailable, op, err)
}

const accountColumns = `id, email, password_hash, role, failed_attempts, last_failed_at,
		       status, reset_token, reset_token_expires_at, created_at, updated_at`

func (r *AccountRepository) getAccount(ctx context.Context, query string, arg any) (*domain.Account, error) {
	row := r.db.QueryRow(ctx, query, arg)

	var account domain.Account
	err := row.Scan(&account.ID, &account.Email, &account.PasswordHash, &account.Role,
		&account.FailedAttempts, &account.LastFailedAt, &account.Status,
		&account.ResetToken, &account.ResetTokenExpiry, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeErr("get account", err)
	}

	return &account, nil
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE email = $1
		LIMIT 1;
	`

	return r.getAccount(ctx, query, email)
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE id = $1
		LIMIT 1;
	`

	return r.getAccount(ctx, query, id)
}

func (r *AccountRepository) GetByResetToken(ctx context.Context, token string) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE reset_token = $1
		LIMIT 1;
	`

	return r.getAccount(ctx, query, token)
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO accounts (id, email, password_hash, role, failed_attempts, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `, account.ID, account.Email, account.PasswordHash, account.Role,
		account.FailedAttempts, account.Status, account.CreatedAt, account.UpdatedAt)
	if err != nil {
		return storeErr("create account", err)
	}

	return nil
}

// RecordFailedAttempt bumps the failure counter and locks the account
// once it reaches threshold, all in one statement so concurrent
// failures on the same row cannot lose an increment.
func (r *AccountRepository) RecordFailedAttempt(ctx context.Context, id string,
	failedAt time.Time, threshold int) (int, domain.AccountStatus, error) {
	query := `
		UPDATE accounts
		SET failed_attempts = failed_attempts + 1,
		    last_failed_at = $2,
		    status = CASE WHEN failed_attempts + 1 >= $3 THEN 'locked' ELSE status END,
		    updated_at = $2
		WHERE id = $1
		RETURNING failed_attempts, status;
	`

	var attempts int
	var status domain.AccountStatus
	if err := r.db.QueryRow(ctx, query, id, failedAt, threshold).Scan(&attempts, &status); err != nil {
		return 0, "", storeErr("record failed attempt", err)
	}

	return attempts, status, nil
}

func (r *AccountRepository) ClearLockout(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE accounts
		SET failed_attempts = 0, last_failed_at = NULL, status = 'active', updated_at = now()
		WHERE id = $1
	`, id)
	if err != nil {
		return storeErr("clear lockout", err)
	}

	return nil
}

func (r *AccountRepository) SaveResetToken(ctx context.Context, id, token string, expiry time.Time) error {
	_, err := r.db.Exec(ctx, `
		UPDATE accounts
		SET reset_token = $2, reset_token_expires_at = $3, updated_at = now()
		WHERE id = $1
	`, id, token, expiry)
	if err != nil {
		return storeErr("save reset token", err)
	}

	return nil
}

// ResetPassword stores the new hash, consumes the reset token and
// clears lockout state in a single statement.
func (r *AccountRepository) ResetPassword(ctx context.Context, id, passwordHash string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE accounts
		SET password_hash = $2,
		    reset_token = NULL,
		    reset_token_expires_at = NULL,
		    failed_attempts = 0,
		    last_failed_at = NULL,
		    status = 'active',
		    updated_at = now()
		WHERE id = $1
	`, id, passwordHash)
	if err != nil {
		return storeErr("reset password", err)
	}

	return nil
}

func (r *AccountRepository) UpdateRole(ctx context.Context, id, role string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE accounts SET role = $2, updated_at = now() WHERE id = $1
	`, id, role)
	if err != nil {
		return storeErr("update role", err)
	}
	if tag.RowsAffected() == 0 {
		return autherror.ErrAccountNotFound
	}

	return nil
}

func (r *AccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		ORDER BY created_at;
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, storeErr("list accounts", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		var account domain.Account
		err := rows.Scan(&account.ID, &account.Email, &account.PasswordHash, &account.Role,
			&account.FailedAttempts, &account.LastFailedAt, &account.Status,
			&account.ResetToken, &account.ResetTokenExpiry, &account.CreatedAt, &account.UpdatedAt)
		if err != nil {
			return nil, storeErr("scan account", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list accounts", err)
	}

	return accounts, nil
}

func (r *AccountRepository) StoreRefreshToken(ctx context.Context, rt *domain.RefreshToken) error {
	query := `INSERT INTO refresh_tokens (id, user_id, token, device_fingerprint, ip_address, user_agent, expires_at, created_at, revoked)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.Exec(ctx, query,
		rt.ID, rt.UserID, rt.Token, rt.DeviceFingerprint, rt.IPAddress,
		rt.UserAgent, rt.ExpiresAt, rt.CreatedAt, rt.Revoked)
	if err != nil {
		return storeErr("store refresh token", err)
	}

	return nil
}

func (r *AccountRepository) GetRefreshToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	query := `
		SELECT id, user_id, token, device_fingerprint, ip_address, user_agent, expires_at, created_at, revoked
		FROM refresh_tokens
		WHERE token = $1
		LIMIT 1;
	`
	row := r.db.QueryRow(ctx, query, token)

	var rt domain.RefreshToken
	err := row.Scan(&rt.ID, &rt.UserID, &rt.Token, &rt.DeviceFingerprint, &rt.IPAddress,
		&rt.UserAgent, &rt.ExpiresAt, &rt.CreatedAt, &rt.Revoked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeErr("get refresh token", err)
	}

	return &rt, nil
}

func (r *AccountRepository) RevokeRefreshToken(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE refresh_tokens SET revoked = true WHERE id = $1
	`, id)
	if err != nil {
		return storeErr("revoke refresh token", err)
	}

	return nil
}

func (r *AccountRepository) GetActiveCountByUserID(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM refresh_tokens WHERE user_id = $1 AND revoked = false
	`, userID).Scan(&count)
	if err != nil {
		return 0, storeErr("count refresh tokens", err)
	}

	return count, nil
}

func (r *AccountRepository) DeleteOldestByUserID(ctx context.Context, userID string) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM refresh_tokens
		WHERE id = (
			SELECT id FROM refresh_tokens
			WHERE user_id = $1 AND revoked = false
			ORDER BY created_at
			LIMIT 1
		)
	`, userID)
	if err != nil {
		return storeErr("delete oldest refresh token", err)
	}

	return nil
}

func (r *AccountRepository) RecordLoginAttempt(ctx context.Context, email, ip string, success bool) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO login_attempts (id, email, ip_address, attempt_time, successful)
		VALUES (gen_random_uuid(), $1, $2, now(), $3)
	`, email, ip, success)
	if err != nil {
		return storeErr("record login attempt", err)
	}

	return nil
}

func (r *AccountRepository) ListLoginAttempts(ctx context.Context, limit int) ([]domain.LoginAttempt, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, email, ip_address, attempt_time, successful
		FROM login_attempts
		ORDER BY attempt_time DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, storeErr("list login attempts", err)
	}
	defer rows.Close()

	var attempts []domain.LoginAttempt
	for rows.Next() {
		var attempt domain.LoginAttempt
		if err := rows.Scan(&attempt.ID, &attempt.Email, &attempt.IPAddress,
			&attempt.AttemptTime, &attempt.Successful); err != nil {
			return nil, storeErr("scan login attempt", err)
		}
		attempts = append(attempts, attempt)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list login attempts", err)
	}

	return attempts, nil
}
