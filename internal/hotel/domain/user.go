package domain

import "time"

// User is a registered guest account. ID is an 8-character random id; the
// password hash is the output of the hashing collaborator, never the raw
// secret.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	AuthProvider string // "local" for email sign-up
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
