package repository

import (
	"context"
	"database/sql"
	"errors"

	"copilot-auth/internal/account/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an account repository that uses the given db
// for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new account. is_verified defaults to false in the schema.
func (r *PostgresRepository) Create(ctx context.Context, email, passwordHash string) (*domain.Account, error) {
	query := `
		INSERT INTO users (email, password_hash)
		VALUES ($1, $2)
		RETURNING id, email, is_verified, created_at, updated_at`
	a := &domain.Account{}
	err := r.db.QueryRowContext(ctx, query, email, passwordHash).
		Scan(&a.ID, &a.Email, &a.IsVerified, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// GetByEmail returns the account with the given email, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `
		SELECT id, email, password_hash, is_verified, created_at, updated_at
		FROM users
		WHERE email = $1`
	a := &domain.Account{}
	var hash sql.NullString
	err := r.db.QueryRowContext(ctx, query, email).
		Scan(&a.ID, &a.Email, &hash, &a.IsVerified, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	a.PasswordHash = hash.String
	return a, nil
}

// GetByID returns the account for id without its password hash, or nil if not
// found. It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	query := `
		SELECT id, email, is_verified, created_at, updated_at
		FROM users
		WHERE id = $1`
	a := &domain.Account{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&a.ID, &a.Email, &a.IsVerified, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return a, nil
}

// SetPasswordHash replaces the stored hash for the account with the given id
// and bumps updated_at. Returns nil if no row matched.
func (r *PostgresRepository) SetPasswordHash(ctx context.Context, id int64, passwordHash string) (*domain.Account, error) {
	query := `
		UPDATE users
		SET password_hash = $2, updated_at = now()
		WHERE id = $1
		RETURNING id, email, is_verified, created_at, updated_at`
	a := &domain.Account{}
	err := r.db.QueryRowContext(ctx, query, id, passwordHash).
		Scan(&a.ID, &a.Email, &a.IsVerified, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return a, nil
}

// SetVerified marks the account with the given email verified and bumps
// updated_at. Returns nil if no row matched.
func (r *PostgresRepository) SetVerified(ctx context.Context, email string) (*domain.Account, error) {
	query := `
		UPDATE users
		SET is_verified = TRUE, updated_at = now()
		WHERE email = $1
		RETURNING id, email, is_verified, created_at, updated_at`
	a := &domain.Account{}
	err := r.db.QueryRowContext(ctx, query, email).
		Scan(&a.ID, &a.Email, &a.IsVerified, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return a, nil
}
