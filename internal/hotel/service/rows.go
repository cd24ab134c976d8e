package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/roomstead/roomstead/internal/hotel/domain"
	"github.com/roomstead/roomstead/internal/hotel/store"
	"github.com/roomstead/roomstead/pkg/idx"
)

// ValidationError reports the first field of a row that failed validation.
// Mapping stops at the first failure, so callers always see exactly one.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// RowMapper converts ordered, untyped string rows into typed domain records.
// Fields are validated left to right and the first failure wins. Referential
// checks (guest exists, room number unused) go through the store.
type RowMapper struct {
	Store store.Store
}

func trimRow(row []string) []string {
	out := make([]string, len(row))
	for i, f := range row {
		out[i] = strings.TrimSpace(f)
	}
	return out
}

// MapHotel expects [id, name, city, address, rating]. A blank id is assigned
// the next sequential hotel id.
func (m *RowMapper) MapHotel(ctx context.Context, row []string) (domain.Hotel, error) {
	if len(row) != 5 {
		return domain.Hotel{}, invalid("row", "expected 5 fields")
	}
	row = trimRow(row)

	var hotel domain.Hotel

	if row[0] != "" {
		id, err := strconv.Atoi(row[0])
		if err != nil {
			return domain.Hotel{}, invalid("id", "must be a number")
		}
		hotel.ID = id
	} else {
		id, err := m.Store.Hotels().NextHotelID(ctx)
		if err != nil {
			return domain.Hotel{}, err
		}
		hotel.ID = id
	}

	if row[1] == "" {
		return domain.Hotel{}, invalid("name", "must not be blank")
	}
	hotel.Name = row[1]

	if row[2] == "" {
		return domain.Hotel{}, invalid("city", "must not be blank")
	}
	hotel.City = row[2]

	if row[3] == "" {
		return domain.Hotel{}, invalid("address", "must not be blank")
	}
	hotel.Address = row[3]

	rating, err := strconv.Atoi(row[4])
	if err != nil {
		return domain.Hotel{}, invalid("rating", "must be a number")
	}
	if rating < domain.MinRating || rating > domain.MaxRating {
		return domain.Hotel{}, invalid("rating", "must be between 1 and 5")
	}
	hotel.Rating = rating

	return hotel, nil
}

// MapUser expects [id, name]. A blank id gets a fresh short id.
func (m *RowMapper) MapUser(_ context.Context, row []string) (domain.User, error) {
	if len(row) != 2 {
		return domain.User{}, invalid("row", "expected 2 fields")
	}
	row = trimRow(row)

	var user domain.User

	user.ID = row[0]
	if user.ID == "" {
		user.ID = idx.Short()
	}

	if row[1] == "" {
		return domain.User{}, invalid("name", "must not be blank")
	}
	user.Username = row[1]

	return user, nil
}

// MapRoom expects [id, type, price, number] for a room in the given hotel.
// The room number must be non-negative and unused within the hotel, and the
// hotel itself must exist.
func (m *RowMapper) MapRoom(ctx context.Context, hotelID int, row []string) (domain.Room, error) {
	if len(row) != 4 {
		return domain.Room{}, invalid("row", "expected 4 fields")
	}
	row = trimRow(row)

	var room domain.Room

	room.ID = row[0]
	if room.ID == "" {
		room.ID = idx.Short()
	}

	if row[1] == "" {
		return domain.Room{}, invalid("type", "must not be blank")
	}
	room.Type = row[1]

	price, err := strconv.Atoi(row[2])
	if err != nil {
		return domain.Room{}, invalid("price", "must be a number")
	}
	room.Price = price

	number, err := strconv.Atoi(row[3])
	if err != nil {
		return domain.Room{}, invalid("number", "must be a number")
	}
	if number < 0 {
		return domain.Room{}, invalid("number", "must not be negative")
	}
	taken, err := m.Store.Rooms().RoomNumberExists(ctx, hotelID, number)
	if err != nil {
		return domain.Room{}, err
	}
	if taken {
		return domain.Room{}, invalid("number", "already exists in this hotel")
	}
	room.Number = number

	if _, err := m.Store.Hotels().GetHotelByID(ctx, hotelID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Room{}, invalid("hotel", fmt.Sprintf("hotel %d not found", hotelID))
		}
		return domain.Room{}, err
	}
	room.HotelID = hotelID

	return room, nil
}

// MapReservation expects [id, guestId, roomId, arrival, departure]. Guest and
// room references must resolve; dates use the 2006-01-02 layout.
func (m *RowMapper) MapReservation(ctx context.Context, row []string) (domain.Reservation, error) {
	if len(row) != 5 {
		return domain.Reservation{}, invalid("row", "expected 5 fields")
	}
	row = trimRow(row)

	var res domain.Reservation

	res.ID = row[0]
	if res.ID == "" {
		res.ID = idx.Short()
	}

	if _, err := m.Store.Users().GetUserByID(ctx, row[1]); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Reservation{}, invalid("guest", fmt.Sprintf("user %s not found", row[1]))
		}
		return domain.Reservation{}, err
	}
	res.GuestID = row[1]

	if _, err := m.Store.Rooms().GetRoomByID(ctx, row[2]); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Reservation{}, invalid("room", fmt.Sprintf("room %s not found", row[2]))
		}
		return domain.Reservation{}, err
	}
	res.RoomID = row[2]

	arrival, err := time.Parse(domain.DateLayout, row[3])
	if err != nil {
		return domain.Reservation{}, invalid("arrival", "must be a date like 2024-01-31")
	}
	res.Arrival = arrival

	departure, err := time.Parse(domain.DateLayout, row[4])
	if err != nil {
		return domain.Reservation{}, invalid("departure", "must be a date like 2024-01-31")
	}
	if departure.Before(arrival) {
		return domain.Reservation{}, invalid("departure", "must not be before arrival")
	}
	res.Departure = departure

	return res, nil
}
