package store

import (
	"context"
	"errors"
	"time"

	"github.com/roomstead/roomstead/internal/hotel/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today)
// implement this. Sub-repositories keep concerns tidy and testable. Expected
// "not found" is always ErrNotFound, never a panic or a driver error.
type Store interface {
	Users() Users
	RefreshTokens() RefreshTokens
	Hotels() Hotels
	Rooms() Rooms
	Reservations() Reservations

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed. This is the
	// recommended way to group writes that must be atomic (sign-up's
	// user+refresh-token pair, refresh rotation).
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is the sign-up duplicate check and the sign-in lookup.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// ListUsers returns all users ordered by creation date.
	ListUsers(ctx context.Context) ([]domain.User, error)

	// CreateUser inserts a new user (id is provided by the app).
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateUser rewrites the mutable fields and bumps updated_at.
	UpdateUser(ctx context.Context, u domain.User) error

	// DeleteUser cascades to refresh_tokens and reservations (per schema).
	DeleteUser(ctx context.Context, id string) error
}

type RefreshTokens interface {
	// GetRefreshToken looks a record up by the stored token value.
	GetRefreshToken(ctx context.Context, token string) (domain.RefreshToken, error)

	// CreateRefreshToken stores the initial record for a (user, client) pair.
	CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error

	// UpdateRefreshToken rotates the value for (userID, clientID) with a
	// compare-and-swap keyed on the old token value. When the old value no
	// longer matches (a concurrent rotation won) it returns ErrNotFound and
	// writes nothing. This is the sole serialization point for concurrent
	// refreshes of the same token.
	UpdateRefreshToken(ctx context.Context, userID, clientID, oldToken, newToken string, newExpiry time.Time) error

	// ReplaceRefreshToken upserts the single current record for a
	// (user, client) pair; sign-in uses it to start a fresh session.
	ReplaceRefreshToken(ctx context.Context, t domain.RefreshToken) error

	// DeleteExpiredRefreshTokens is housekeeping.
	DeleteExpiredRefreshTokens(ctx context.Context) error
}

type Hotels interface {
	GetHotelByID(ctx context.Context, id int) (domain.Hotel, error)
	ListHotels(ctx context.Context) ([]domain.Hotel, error)
	CreateHotel(ctx context.Context, h domain.Hotel) error
	UpdateHotel(ctx context.Context, h domain.Hotel) error
	DeleteHotel(ctx context.Context, id int) error

	// NextHotelID returns the next sequential id for a blank-id hotel row.
	NextHotelID(ctx context.Context) (int, error)
}

type Rooms interface {
	GetRoomByID(ctx context.Context, id string) (domain.Room, error)

	// ListRoomsByHotel returns all rooms of one hotel ordered by number.
	ListRoomsByHotel(ctx context.Context, hotelID int) ([]domain.Room, error)

	CreateRoom(ctx context.Context, r domain.Room) error
	UpdateRoom(ctx context.Context, r domain.Room) error
	DeleteRoom(ctx context.Context, id string) error

	// RoomNumberExists reports whether a hotel already has a room with the
	// given number (the duplicate-number validation check).
	RoomNumberExists(ctx context.Context, hotelID, number int) (bool, error)

	// GetFreeRooms returns the hotel's rooms with no reservation overlapping
	// the inclusive [from, to] interval.
	GetFreeRooms(ctx context.Context, hotelID int, from, to time.Time) ([]domain.Room, error)
}

type Reservations interface {
	GetReservationByID(ctx context.Context, id string) (domain.Reservation, error)

	// ListReservationsByHotel returns reservations for rooms of one hotel.
	ListReservationsByHotel(ctx context.Context, hotelID int) ([]domain.Reservation, error)

	// ListReservationsByRoom feeds the availability check.
	ListReservationsByRoom(ctx context.Context, roomID string) ([]domain.Reservation, error)

	// ListReservationsByGuest backs the per-guest booking view.
	ListReservationsByGuest(ctx context.Context, guestID string) ([]domain.Reservation, error)

	CreateReservation(ctx context.Context, r domain.Reservation) error
	UpdateReservation(ctx context.Context, r domain.Reservation) error
	DeleteReservation(ctx context.Context, id string) error
}
