package models

import "time"

// User represents a registered account.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Username is the unique login name.
	Username string

	// PasswordHash is the bcrypt hash of the user's password.
	// Opaque to the ledger; only the auth package reads it.
	PasswordHash string

	// Fullname is the display name of the user.
	Fullname string

	// Balance is the user's running net position. Positive means the
	// user is net owed money, negative means the user net owes.
	Balance float64

	// IsActive marks whether the account is enabled.
	IsActive bool

	// CreatedAt is the Unix timestamp when the user was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last modification.
	UpdatedAt int64
}

// NewUser builds an active user with a zero balance.
func NewUser(username, fullname, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		Username:     username,
		Fullname:     fullname,
		PasswordHash: passwordHash,
		Balance:      0,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
