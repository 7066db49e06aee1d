package model

import "github.com/google/uuid"

// Caller is the identity on whose behalf an operation runs.
type Caller struct {
	UserID     uuid.UUID
	Privileged bool
}

// IsAuthenticated reports whether the caller carries a user identity.
func (c Caller) IsAuthenticated() bool {
	return c.UserID != uuid.Nil
}
