package domain

import "time"

// RefreshToken models the stored refresh token record. The token column holds
// the refresh token value verbatim; lookup on refresh is by this value. At
// most one current value exists per (UserID, ClientID) pair; rotation
// replaces it in place.
type RefreshToken struct {
	ID        string // ULID row id
	Token     string
	UserID    string
	ClientID  string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
