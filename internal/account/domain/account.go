package domain

import (
	"time"
)

// Account is the durable user account entity. At most one account exists per
// email. New accounts start unverified; IsVerified flips true exactly once,
// when the verification code is redeemed, and never regresses.
type Account struct {
	ID           int64
	Email        string
	PasswordHash string // empty when the account was loaded without the hash
	IsVerified   bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Public is the externally visible projection of an Account. The password
// hash is never part of it.
type Public struct {
	ID         int64     `json:"id"`
	Email      string    `json:"email"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Public returns the account's public fields.
func (a *Account) Public() *Public {
	return &Public{
		ID:         a.ID,
		Email:      a.Email,
		IsVerified: a.IsVerified,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}
