package model

import "github.com/google/uuid"

// Identity is the immutable snapshot of a verified token's claims.
// It is captured once at registration and never mutated afterwards;
// every consumer receives it by value.
type Identity struct {
	// Sub is the subject id of the authenticated user.
	Sub uuid.UUID

	// Name is the user's display name.
	Name string

	// Email is the user's contact handle.
	Email string

	// ExpiresAt is the token expiry in unix seconds.
	ExpiresAt int64
}
