package models

import "github.com/google/uuid"

// User is a stored account. Ephemeral users are created on the fly for
// guests who arrive without a token and can later be claimed.
type User struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Password string    `json:"password,omitempty"`
	Username string    `json:"username"`

	IsEphemeral bool `json:"is_ephemeral"`
}
