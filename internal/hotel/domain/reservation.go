package domain

import "time"

// DateLayout is the wire and storage format for reservation dates. Stays are
// tracked at day granularity; times of day never enter the picture.
const DateLayout = "2006-01-02"

// Reservation holds a room for a guest over an inclusive [Arrival, Departure]
// date interval. Arrival never exceeds Departure, and no two reservations for
// the same room overlap.
type Reservation struct {
	ID        string
	GuestID   string
	RoomID    string
	Arrival   time.Time
	Departure time.Time
}

// Overlaps reports whether the reservation's interval intersects
// [from, to], boundaries included: a stay ending on a given day still blocks
// a stay beginning that day.
func (r Reservation) Overlaps(from, to time.Time) bool {
	return !to.Before(r.Arrival) && !from.After(r.Departure)
}
