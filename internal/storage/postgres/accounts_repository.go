package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/campus-events/server/internal/domain/accounts"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

var _ accounts.Repository = (*AccountRepository)(nil)

func (r *AccountRepository) queryer() queryer {
	if r.tx != nil {
		return r.tx
	}
	return r.pool
}

func (r *AccountRepository) Create(ctx context.Context, params accounts.CreateParams) error {
	_, err := r.queryer().Exec(ctx, `
INSERT INTO accounts (account_id, role, email, password_digest, verified, pending_code, code_expiry)
VALUES ($1, $2, $3, $4, FALSE, $5, $6)
`,
		params.AccountID,
		params.Role,
		params.Email,
		params.PasswordDigest,
		params.PendingCode,
		params.CodeExpiry,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return accounts.ErrConflict
		}
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

const accountColumns = `account_id, role, email, password_digest, verified, pending_code, code_expiry, created_at`

func (r *AccountRepository) GetByID(ctx context.Context, accountID string) (*accounts.Account, error) {
	row := r.queryer().QueryRow(ctx, `
SELECT `+accountColumns+`
  FROM accounts
 WHERE account_id = $1
`, accountID)
	return scanAccount(row)
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*accounts.Account, error) {
	row := r.queryer().QueryRow(ctx, `
SELECT `+accountColumns+`
  FROM accounts
 WHERE email = $1
`, email)
	return scanAccount(row)
}

func scanAccount(row pgx.Row) (*accounts.Account, error) {
	var (
		account    accounts.Account
		codeExpiry pgtype.Timestamptz
		createdAt  pgtype.Timestamptz
	)
	if err := row.Scan(
		&account.AccountID,
		&account.Role,
		&account.Email,
		&account.PasswordDigest,
		&account.Verified,
		&account.PendingCode,
		&codeExpiry,
		&createdAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, accounts.ErrNotFound
		}
		return nil, fmt.Errorf("scan account: %w", err)
	}
	if codeExpiry.Valid {
		value := codeExpiry.Time
		account.CodeExpiry = &value
	}
	if createdAt.Valid {
		account.CreatedAt = createdAt.Time
	}
	return &account, nil
}

// MarkVerified flips the account to verified and clears the code fields in
// one statement. The pending_code guard makes the transition one-shot.
func (r *AccountRepository) MarkVerified(ctx context.Context, accountID string) error {
	tag, err := r.queryer().Exec(ctx, `
UPDATE accounts
   SET verified = TRUE, pending_code = NULL, code_expiry = NULL
 WHERE account_id = $1 AND pending_code IS NOT NULL
`, accountID)
	if err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return accounts.ErrNotFound
	}
	return nil
}

func (r *AccountRepository) UpdatePasswordDigest(ctx context.Context, accountID string, digest string) error {
	tag, err := r.queryer().Exec(ctx, `
UPDATE accounts SET password_digest = $2 WHERE account_id = $1
`, accountID, digest)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return accounts.ErrNotFound
	}
	return nil
}

// Remove deletes the account and its engagement rows in one transaction.
// Deletion is refused while the account still owns event rows.
func (r *AccountRepository) Remove(ctx context.Context, accountID string) error {
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		var ownsEvents bool
		if err := tx.QueryRow(ctx, `
SELECT EXISTS (SELECT 1 FROM events WHERE creator_id = $1)
`, accountID).Scan(&ownsEvents); err != nil {
			return fmt.Errorf("check owned events: %w", err)
		}
		if ownsEvents {
			return accounts.ErrAccountHasEvents
		}

		for _, table := range []string{"rsvp_log", "likes_log", "invite_log"} {
			if _, err := tx.Exec(ctx, `DELETE FROM `+table+` WHERE account_id = $1`, accountID); err != nil {
				return fmt.Errorf("purge %s: %w", table, err)
			}
		}

		tag, err := tx.Exec(ctx, `DELETE FROM accounts WHERE account_id = $1`, accountID)
		if err != nil {
			return fmt.Errorf("delete account: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return accounts.ErrNotFound
		}
		return nil
	})
}
