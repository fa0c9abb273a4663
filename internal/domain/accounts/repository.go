package accounts

import (
	"context"
	"time"
)

const (
	RoleStudent = "Student"
	RoleFaculty = "Faculty"
)

type Account struct {
	AccountID      string
	Role           string
	Email          string
	PasswordDigest string
	Verified       bool
	PendingCode    *string
	CodeExpiry     *time.Time
	CreatedAt      time.Time
}

type CreateParams struct {
	AccountID      string
	Role           string
	Email          string
	PasswordDigest string
	PendingCode    string
	CodeExpiry     time.Time
}

type Repository interface {
	Create(ctx context.Context, params CreateParams) error
	GetByID(ctx context.Context, accountID string) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	// MarkVerified sets verified and clears the pending code and expiry in a
	// single statement. It returns ErrNotFound when the account is missing or
	// has no pending code, which makes verification a one-shot transition.
	MarkVerified(ctx context.Context, accountID string) error
	UpdatePasswordDigest(ctx context.Context, accountID string, digest string) error
	// Remove deletes the account row and its engagement links. It returns
	// ErrAccountHasEvents while the account still owns event rows.
	Remove(ctx context.Context, accountID string) error
}
