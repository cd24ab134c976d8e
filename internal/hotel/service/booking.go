package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/roomstead/roomstead/internal/hotel/domain"
	"github.com/roomstead/roomstead/internal/hotel/store"
	"github.com/roomstead/roomstead/pkg/idx"
)

// BookingService creates reservations after checking the guest, the room and
// the requested stay.
type BookingService struct {
	Store        store.Store
	Availability *AvailabilityService
}

func NewBookingService(s store.Store) *BookingService {
	return &BookingService{
		Store:        s,
		Availability: &AvailabilityService{Store: s},
	}
}

// ParseStay validates a requested [arrival, departure] date pair. Departures
// in the past or before the arrival are rejected.
func ParseStay(from, to string) (time.Time, time.Time, error) {
	arrival, err := time.Parse(domain.DateLayout, from)
	if err != nil {
		return time.Time{}, time.Time{}, invalid("arrival", "must be a date like 2024-01-31")
	}
	departure, err := time.Parse(domain.DateLayout, to)
	if err != nil {
		return time.Time{}, time.Time{}, invalid("departure", "must be a date like 2024-01-31")
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	if departure.Before(today) {
		return time.Time{}, time.Time{}, invalid("departure", "must not be in the past")
	}
	if departure.Before(arrival) {
		return time.Time{}, time.Time{}, invalid("departure", "must not be before arrival")
	}
	return arrival, departure, nil
}

// BookRoom reserves roomID for guestID over [arrival, departure]. Failures
// are ValidationErrors for anything the caller can fix; everything else is a
// store error.
func (s *BookingService) BookRoom(ctx context.Context, guestID, roomID string, arrival, departure time.Time) (domain.Reservation, error) {
	if guestID == "" {
		return domain.Reservation{}, invalid("guest", "must not be blank")
	}
	if _, err := s.Store.Users().GetUserByID(ctx, guestID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Reservation{}, invalid("guest", fmt.Sprintf("user %s not found", guestID))
		}
		return domain.Reservation{}, err
	}
	if _, err := s.Store.Rooms().GetRoomByID(ctx, roomID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Reservation{}, invalid("room", fmt.Sprintf("room %s not found", roomID))
		}
		return domain.Reservation{}, err
	}

	free, err := s.Availability.IsRoomAvailable(ctx, roomID, arrival, departure)
	if err != nil {
		return domain.Reservation{}, err
	}
	if !free {
		return domain.Reservation{}, invalid("room", "already booked for this period")
	}

	res := domain.Reservation{
		ID:        idx.Short(),
		GuestID:   guestID,
		RoomID:    roomID,
		Arrival:   arrival,
		Departure: departure,
	}
	if err := s.Store.Reservations().CreateReservation(ctx, res); err != nil {
		return domain.Reservation{}, err
	}
	return res, nil
}
