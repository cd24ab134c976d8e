package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roomstead/roomstead/internal/hotel/domain"
)

func requireFieldError(t *testing.T, err error, field string) {
	t.Helper()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, field, verr.Field)
}

func TestMapHotel(t *testing.T) {
	ctx := context.Background()
	db := newTestStore(t)
	mapper := &RowMapper{Store: db}

	t.Run("valid row", func(t *testing.T) {
		hotel, err := mapper.MapHotel(ctx, []string{"7", " Grand ", "Paris", "1 Main St", "4"})
		require.NoError(t, err)
		require.Equal(t, domain.Hotel{ID: 7, Name: "Grand", City: "Paris", Address: "1 Main St", Rating: 4}, hotel)
	})

	t.Run("blank id is assigned sequentially", func(t *testing.T) {
		require.NoError(t, db.Hotels().CreateHotel(ctx, domain.Hotel{
			ID: 3, Name: "Old", City: "Lyon", Address: "2 Side St", Rating: 3,
		}))
		hotel, err := mapper.MapHotel(ctx, []string{"", "New", "Lyon", "3 Side St", "5"})
		require.NoError(t, err)
		require.Equal(t, 4, hotel.ID)
	})

	t.Run("rating out of range fails at the rating field", func(t *testing.T) {
		_, err := mapper.MapHotel(ctx, []string{"", "Grand", "Paris", "1 Main St", "6"})
		requireFieldError(t, err, "rating")
	})

	t.Run("first failing field wins", func(t *testing.T) {
		_, err := mapper.MapHotel(ctx, []string{"1", "", "", "", "9"})
		requireFieldError(t, err, "name")
	})

	t.Run("non-numeric id", func(t *testing.T) {
		_, err := mapper.MapHotel(ctx, []string{"abc", "Grand", "Paris", "1 Main St", "4"})
		requireFieldError(t, err, "id")
	})
}

func TestMapUser(t *testing.T) {
	ctx := context.Background()
	mapper := &RowMapper{}

	t.Run("blank id gets a short id", func(t *testing.T) {
		user, err := mapper.MapUser(ctx, []string{"", "Bob"})
		require.NoError(t, err)
		require.Len(t, user.ID, 8)
		require.Equal(t, "Bob", user.Username)
	})

	t.Run("blank name rejected", func(t *testing.T) {
		_, err := mapper.MapUser(ctx, []string{"u1", "  "})
		requireFieldError(t, err, "name")
	})
}

func TestMapRoom(t *testing.T) {
	ctx := context.Background()
	db := newTestStore(t)
	mapper := &RowMapper{Store: db}

	require.NoError(t, db.Hotels().CreateHotel(ctx, domain.Hotel{
		ID: 1, Name: "Grand", City: "Paris", Address: "1 Main St", Rating: 4,
	}))
	require.NoError(t, db.Rooms().CreateRoom(ctx, domain.Room{
		ID: "room-1", Type: "double", Price: 120, Number: 101, HotelID: 1,
	}))

	t.Run("valid row", func(t *testing.T) {
		room, err := mapper.MapRoom(ctx, 1, []string{"", "single", "80", "102"})
		require.NoError(t, err)
		require.Len(t, room.ID, 8)
		require.Equal(t, 1, room.HotelID)
		require.Equal(t, 102, room.Number)
	})

	t.Run("duplicate number in hotel", func(t *testing.T) {
		_, err := mapper.MapRoom(ctx, 1, []string{"", "single", "80", "101"})
		requireFieldError(t, err, "number")
	})

	t.Run("negative number", func(t *testing.T) {
		_, err := mapper.MapRoom(ctx, 1, []string{"", "single", "80", "-1"})
		requireFieldError(t, err, "number")
	})

	t.Run("unknown hotel", func(t *testing.T) {
		_, err := mapper.MapRoom(ctx, 99, []string{"", "single", "80", "103"})
		requireFieldError(t, err, "hotel")
	})

	t.Run("non-numeric price", func(t *testing.T) {
		_, err := mapper.MapRoom(ctx, 1, []string{"", "single", "cheap", "104"})
		requireFieldError(t, err, "price")
	})
}

func TestMapReservation(t *testing.T) {
	ctx := context.Background()
	db := newTestStore(t)
	mapper := &RowMapper{Store: db}

	require.NoError(t, db.Hotels().CreateHotel(ctx, domain.Hotel{
		ID: 1, Name: "Grand", City: "Paris", Address: "1 Main St", Rating: 4,
	}))
	require.NoError(t, db.Rooms().CreateRoom(ctx, domain.Room{
		ID: "room-1", Type: "double", Price: 120, Number: 101, HotelID: 1,
	}))
	require.NoError(t, db.Users().CreateUser(ctx, domain.User{
		ID: "guest-01", Username: "Bob",
	}))

	t.Run("valid row", func(t *testing.T) {
		res, err := mapper.MapReservation(ctx, []string{"", "guest-01", "room-1", "2024-01-05", "2024-01-10"})
		require.NoError(t, err)
		require.Len(t, res.ID, 8)
		require.Equal(t, "guest-01", res.GuestID)
		require.Equal(t, "room-1", res.RoomID)
	})

	t.Run("unknown guest", func(t *testing.T) {
		_, err := mapper.MapReservation(ctx, []string{"", "nobody", "room-1", "2024-01-05", "2024-01-10"})
		requireFieldError(t, err, "guest")
	})

	t.Run("unknown room", func(t *testing.T) {
		_, err := mapper.MapReservation(ctx, []string{"", "guest-01", "room-9", "2024-01-05", "2024-01-10"})
		requireFieldError(t, err, "room")
	})

	t.Run("bad arrival date", func(t *testing.T) {
		_, err := mapper.MapReservation(ctx, []string{"", "guest-01", "room-1", "05.01.2024", "2024-01-10"})
		requireFieldError(t, err, "arrival")
	})

	t.Run("departure before arrival", func(t *testing.T) {
		_, err := mapper.MapReservation(ctx, []string{"", "guest-01", "room-1", "2024-01-10", "2024-01-05"})
		requireFieldError(t, err, "departure")
	})
}
