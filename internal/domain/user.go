package domain

import "time"

type User struct {
	ID            int64
	Name          string
	Email         string
	PasswordHash  string
	IsAdmin       bool
	EmailVerified bool

	// Pending one-time verification code, bcrypt-hashed. Both fields are
	// nil once the email is verified or before a code is issued.
	VerificationCodeHash  *string
	VerificationExpiresAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserSummary is the subset of user fields denormalized into admin booking listings.
type UserSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
