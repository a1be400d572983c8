package repository

import (
	"context"

	"copilot-auth/internal/account/domain"
)

// Repository defines persistence for accounts. Updates are a fixed set of
// explicit operations rather than open-ended field maps; every update bumps
// updated_at.
type Repository interface {
	// Create inserts a new unverified account and returns it (without the hash).
	Create(ctx context.Context, email, passwordHash string) (*domain.Account, error)
	// GetByEmail returns the account with the given email including its
	// password hash, or nil if not found.
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	// GetByID returns the account for id without its password hash, or nil if
	// not found.
	GetByID(ctx context.Context, id int64) (*domain.Account, error)
	// SetPasswordHash replaces the password hash of the account with the given
	// id and returns the updated account, or nil if no such account.
	SetPasswordHash(ctx context.Context, id int64, passwordHash string) (*domain.Account, error)
	// SetVerified marks the account with the given email verified and returns
	// the updated account, or nil if no such account.
	SetVerified(ctx context.Context, email string) (*domain.Account, error)
}
