package service

import (
	"context"
	"time"

	"github.com/roomstead/roomstead/internal/hotel/domain"
	"github.com/roomstead/roomstead/internal/hotel/store"
)

// AvailabilityService answers booking-window questions for rooms.
type AvailabilityService struct {
	Store store.Store
}

// IsRoomAvailable reports whether the room has no reservation overlapping
// [from, to]. Bounds are inclusive on both ends, so a reservation departing
// on the requested arrival day still blocks the room.
func (s *AvailabilityService) IsRoomAvailable(ctx context.Context, roomID string, from, to time.Time) (bool, error) {
	reservations, err := s.Store.Reservations().ListReservationsByRoom(ctx, roomID)
	if err != nil {
		return false, err
	}
	for _, r := range reservations {
		if r.Overlaps(from, to) {
			return false, nil
		}
	}
	return true, nil
}

// FreeRooms lists every room of the hotel with no reservation overlapping
// [from, to].
func (s *AvailabilityService) FreeRooms(ctx context.Context, hotelID int, from, to time.Time) ([]domain.Room, error) {
	return s.Store.Rooms().GetFreeRooms(ctx, hotelID, from, to)
}
