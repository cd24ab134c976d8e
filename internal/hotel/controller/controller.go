// Package controller drives the desk client's table views. The original
// surface was a bundle of mutable observable state; here every operation is a
// plain call that returns an immutable Snapshot of what the view should show
// next. The controller is single-threaded: callers serialize access.
package controller

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/roomstead/roomstead/internal/hotel/domain"
	"github.com/roomstead/roomstead/internal/hotel/service"
	"github.com/roomstead/roomstead/internal/hotel/store"
	"github.com/roomstead/roomstead/pkg/slogx"
)

type RouteKind int

const (
	RouteHotels RouteKind = iota
	RouteUsers
	RouteRooms
	RouteReservations
)

// Route identifies the table currently on screen. Rooms and Reservations are
// scoped to one hotel.
type Route struct {
	Kind    RouteKind
	HotelID int
}

// Snapshot is the full view state after one operation. Exactly one of the
// list fields matches the route; detail fields are set by the Show* calls.
// Err holds a user-readable message when the operation was rejected.
type Snapshot struct {
	Route Route
	Err   string

	Hotels       []domain.Hotel
	Users        []domain.User
	Rooms        []domain.Room
	Reservations []domain.Reservation

	Reservation    *domain.Reservation
	AvailableRooms []domain.Room
}

const errOperationFailed = "operation failed"

// Controller executes table operations against the store and renders the
// resulting snapshot. Mutations reload the current route's data so the view
// never shows stale rows after a write.
type Controller struct {
	Store        store.Store
	Mapper       *service.RowMapper
	Availability *service.AvailabilityService
	Booking      *service.BookingService

	route Route
}

func New(s store.Store) *Controller {
	return &Controller{
		Store:        s,
		Mapper:       &service.RowMapper{Store: s},
		Availability: &service.AvailabilityService{Store: s},
		Booking:      service.NewBookingService(s),
	}
}

// Navigate switches to a route and loads its table.
func (c *Controller) Navigate(ctx context.Context, route Route) Snapshot {
	c.route = route
	return c.reload(ctx)
}

func (c *Controller) reload(ctx context.Context) Snapshot {
	snap := Snapshot{Route: c.route}

	var err error
	switch c.route.Kind {
	case RouteHotels:
		snap.Hotels, err = c.Store.Hotels().ListHotels(ctx)
	case RouteUsers:
		snap.Users, err = c.Store.Users().ListUsers(ctx)
	case RouteRooms:
		snap.Rooms, err = c.Store.Rooms().ListRoomsByHotel(ctx, c.route.HotelID)
	case RouteReservations:
		snap.Reservations, err = c.Store.Reservations().ListReservationsByHotel(ctx, c.route.HotelID)
	}
	if err != nil {
		slogx.FromContext(ctx).Error("route load failed", "err", err, "route", c.route.Kind)
		snap.Err = errOperationFailed
	}
	return snap
}

func (c *Controller) fail(ctx context.Context, op string, err error) Snapshot {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		snap := c.reload(ctx)
		snap.Err = verr.Message
		return snap
	}
	slogx.FromContext(ctx).Error(op+" failed", "err", err)
	snap := c.reload(ctx)
	snap.Err = errOperationFailed
	return snap
}

// Add validates a row for the current route and inserts it.
func (c *Controller) Add(ctx context.Context, row []string) Snapshot {
	var err error
	switch c.route.Kind {
	case RouteHotels:
		var hotel domain.Hotel
		if hotel, err = c.Mapper.MapHotel(ctx, row); err == nil {
			err = c.Store.Hotels().CreateHotel(ctx, hotel)
		}
	case RouteUsers:
		var user domain.User
		if user, err = c.Mapper.MapUser(ctx, row); err == nil {
			err = c.Store.Users().CreateUser(ctx, user)
		}
	case RouteRooms:
		var room domain.Room
		if room, err = c.Mapper.MapRoom(ctx, c.route.HotelID, row); err == nil {
			err = c.Store.Rooms().CreateRoom(ctx, room)
		}
	case RouteReservations:
		var res domain.Reservation
		if res, err = c.Mapper.MapReservation(ctx, row); err == nil {
			err = c.Store.Reservations().CreateReservation(ctx, res)
		}
	}
	if err != nil {
		return c.fail(ctx, "add", err)
	}
	return c.reload(ctx)
}

// Edit validates a row for the current route and rewrites the matching record.
func (c *Controller) Edit(ctx context.Context, row []string) Snapshot {
	var err error
	switch c.route.Kind {
	case RouteHotels:
		var hotel domain.Hotel
		if hotel, err = c.Mapper.MapHotel(ctx, row); err == nil {
			err = c.Store.Hotels().UpdateHotel(ctx, hotel)
		}
	case RouteUsers:
		var user domain.User
		if user, err = c.Mapper.MapUser(ctx, row); err == nil {
			err = c.Store.Users().UpdateUser(ctx, user)
		}
	case RouteRooms:
		var room domain.Room
		if room, err = c.Mapper.MapRoom(ctx, c.route.HotelID, row); err == nil {
			err = c.Store.Rooms().UpdateRoom(ctx, room)
		}
	case RouteReservations:
		var res domain.Reservation
		if res, err = c.Mapper.MapReservation(ctx, row); err == nil {
			err = c.Store.Reservations().UpdateReservation(ctx, res)
		}
	}
	if err != nil {
		return c.fail(ctx, "edit", err)
	}
	return c.reload(ctx)
}

// DeleteRow removes the record with the given id from the current route's
// table. Hotel ids are numeric; everything else is an opaque string.
func (c *Controller) DeleteRow(ctx context.Context, id string) Snapshot {
	var err error
	switch c.route.Kind {
	case RouteHotels:
		var hotelID int
		hotelID, err = strconv.Atoi(strings.TrimSpace(id))
		if err != nil {
			snap := c.reload(ctx)
			snap.Err = "id must be a number"
			return snap
		}
		err = c.Store.Hotels().DeleteHotel(ctx, hotelID)
	case RouteUsers:
		err = c.Store.Users().DeleteUser(ctx, id)
	case RouteRooms:
		err = c.Store.Rooms().DeleteRoom(ctx, id)
	case RouteReservations:
		err = c.Store.Reservations().DeleteReservation(ctx, id)
	}
	if err != nil {
		return c.fail(ctx, "delete", err)
	}
	return c.reload(ctx)
}

// BookRoom books roomID for a guest. The row is [guestId, arrival, departure].
// The departure must not lie in the past or before the arrival, and the room
// must be free over the whole stay.
func (c *Controller) BookRoom(ctx context.Context, row []string, roomID string) Snapshot {
	if len(row) != 3 {
		return c.fail(ctx, "book", validation("row", "expected 3 fields"))
	}
	arrival, departure, err := service.ParseStay(strings.TrimSpace(row[1]), strings.TrimSpace(row[2]))
	if err != nil {
		return c.fail(ctx, "book", err)
	}
	if _, err := c.Booking.BookRoom(ctx, strings.TrimSpace(row[0]), roomID, arrival, departure); err != nil {
		return c.fail(ctx, "book", err)
	}
	return c.reload(ctx)
}

// ShowAvailableRooms lists the current hotel's rooms free over [from, to].
// Only meaningful on a rooms route.
func (c *Controller) ShowAvailableRooms(ctx context.Context, from, to string) Snapshot {
	if c.route.Kind != RouteRooms {
		snap := c.reload(ctx)
		snap.Err = "select a hotel's rooms first"
		return snap
	}

	arrival, departure, err := service.ParseStay(strings.TrimSpace(from), strings.TrimSpace(to))
	if err != nil {
		return c.fail(ctx, "availability", err)
	}

	rooms, err := c.Availability.FreeRooms(ctx, c.route.HotelID, arrival, departure)
	if err != nil {
		return c.fail(ctx, "availability", err)
	}

	snap := c.reload(ctx)
	snap.AvailableRooms = rooms
	return snap
}

// ShowReservationInfo loads one reservation into the detail view.
func (c *Controller) ShowReservationInfo(ctx context.Context, id string) Snapshot {
	res, err := c.Store.Reservations().GetReservationByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.fail(ctx, "reservation info", validation("reservation", fmt.Sprintf("reservation %s not found", id)))
		}
		return c.fail(ctx, "reservation info", err)
	}
	snap := c.reload(ctx)
	snap.Reservation = &res
	return snap
}

// ShowRoomReservations lists every reservation of one room.
func (c *Controller) ShowRoomReservations(ctx context.Context, roomID string) Snapshot {
	if _, err := c.Store.Rooms().GetRoomByID(ctx, roomID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.fail(ctx, "room reservations", validation("room", fmt.Sprintf("room %s not found", roomID)))
		}
		return c.fail(ctx, "room reservations", err)
	}
	reservations, err := c.Store.Reservations().ListReservationsByRoom(ctx, roomID)
	if err != nil {
		return c.fail(ctx, "room reservations", err)
	}
	snap := c.reload(ctx)
	snap.Reservations = reservations
	return snap
}

// ShowUserReservations lists every reservation held by one guest.
func (c *Controller) ShowUserReservations(ctx context.Context, guestID string) Snapshot {
	if _, err := c.Store.Users().GetUserByID(ctx, guestID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.fail(ctx, "user reservations", validation("guest", fmt.Sprintf("user %s not found", guestID)))
		}
		return c.fail(ctx, "user reservations", err)
	}
	reservations, err := c.Store.Reservations().ListReservationsByGuest(ctx, guestID)
	if err != nil {
		return c.fail(ctx, "user reservations", err)
	}
	snap := c.reload(ctx)
	snap.Reservations = reservations
	return snap
}

func validation(field, message string) error {
	return &service.ValidationError{Field: field, Message: message}
}
