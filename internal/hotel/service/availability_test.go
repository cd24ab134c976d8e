package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roomstead/roomstead/internal/hotel/domain"
	"github.com/roomstead/roomstead/internal/hotel/store"
)

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.Parse(domain.DateLayout, value)
	require.NoError(t, err)
	return d
}

// seedBooking sets up one hotel with two rooms and a reservation for room-1
// over [2024-01-05, 2024-01-10].
func seedBooking(t *testing.T, db store.Store) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, db.Hotels().CreateHotel(ctx, domain.Hotel{
		ID: 1, Name: "Grand", City: "Paris", Address: "1 Main St", Rating: 4,
	}))
	require.NoError(t, db.Rooms().CreateRoom(ctx, domain.Room{
		ID: "room-1", Type: "double", Price: 120, Number: 101, HotelID: 1,
	}))
	require.NoError(t, db.Rooms().CreateRoom(ctx, domain.Room{
		ID: "room-2", Type: "single", Price: 80, Number: 102, HotelID: 1,
	}))
	require.NoError(t, db.Users().CreateUser(ctx, domain.User{
		ID: "guest-01", Username: "Guest-abcdefg",
	}))
	require.NoError(t, db.Reservations().CreateReservation(ctx, domain.Reservation{
		ID:        "res-1",
		GuestID:   "guest-01",
		RoomID:    "room-1",
		Arrival:   mustDate(t, "2024-01-05"),
		Departure: mustDate(t, "2024-01-10"),
	}))
}

func TestIsRoomAvailable(t *testing.T) {
	ctx := context.Background()
	db := newTestStore(t)
	seedBooking(t, db)

	svc := &AvailabilityService{Store: db}

	cases := []struct {
		name      string
		from, to  string
		available bool
	}{
		{"touching the departure day", "2024-01-10", "2024-01-12", false},
		{"starting the day after departure", "2024-01-11", "2024-01-12", true},
		{"engulfing the existing stay", "2024-01-01", "2024-01-20", false},
		{"inside the existing stay", "2024-01-06", "2024-01-08", false},
		{"ending on the arrival day", "2024-01-02", "2024-01-05", false},
		{"well before the stay", "2024-01-01", "2024-01-03", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.IsRoomAvailable(ctx, "room-1", mustDate(t, tc.from), mustDate(t, tc.to))
			require.NoError(t, err)
			require.Equal(t, tc.available, got)
		})
	}

	t.Run("room without reservations is always available", func(t *testing.T) {
		got, err := svc.IsRoomAvailable(ctx, "room-2", mustDate(t, "2024-01-05"), mustDate(t, "2024-01-10"))
		require.NoError(t, err)
		require.True(t, got)
	})
}

func TestFreeRooms(t *testing.T) {
	ctx := context.Background()
	db := newTestStore(t)
	seedBooking(t, db)

	svc := &AvailabilityService{Store: db}

	t.Run("excludes the booked room during its stay", func(t *testing.T) {
		rooms, err := svc.FreeRooms(ctx, 1, mustDate(t, "2024-01-01"), mustDate(t, "2024-01-20"))
		require.NoError(t, err)
		require.Len(t, rooms, 1)
		require.Equal(t, "room-2", rooms[0].ID)
	})

	t.Run("returns every room outside the stay", func(t *testing.T) {
		rooms, err := svc.FreeRooms(ctx, 1, mustDate(t, "2024-02-01"), mustDate(t, "2024-02-05"))
		require.NoError(t, err)
		require.Len(t, rooms, 2)
	})
}
