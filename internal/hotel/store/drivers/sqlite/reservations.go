package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/roomstead/roomstead/internal/hotel/domain"
)

type reservationsRepo struct {
	db querier
}

const reservationColumns = `id, guest_id, room_id, arrival, departure`

func (r *reservationsRepo) GetReservationByID(ctx context.Context, id string) (domain.Reservation, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id = ?`, id)
	return scanReservation(row)
}

func (r *reservationsRepo) ListReservationsByHotel(ctx context.Context, hotelID int) ([]domain.Reservation, error) {
	return r.list(ctx,
		`SELECT r.id, r.guest_id, r.room_id, r.arrival, r.departure
		 FROM reservations r
		 JOIN rooms rm ON rm.id = r.room_id
		 WHERE rm.hotel_id = ?
		 ORDER BY r.arrival, r.id`, hotelID)
}

func (r *reservationsRepo) ListReservationsByRoom(ctx context.Context, roomID string) ([]domain.Reservation, error) {
	return r.list(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE room_id = ? ORDER BY arrival, id`,
		roomID)
}

func (r *reservationsRepo) ListReservationsByGuest(ctx context.Context, guestID string) ([]domain.Reservation, error) {
	return r.list(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE guest_id = ? ORDER BY arrival, id`,
		guestID)
}

func (r *reservationsRepo) list(ctx context.Context, query string, args ...any) ([]domain.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reservations []domain.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, res)
	}
	return reservations, rows.Err()
}

func (r *reservationsRepo) CreateReservation(ctx context.Context, res domain.Reservation) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO reservations (id, guest_id, room_id, arrival, departure)
		 VALUES (?, ?, ?, ?, ?)`,
		res.ID, res.GuestID, res.RoomID,
		res.Arrival.Format(domain.DateLayout), res.Departure.Format(domain.DateLayout))
	return err
}

func (r *reservationsRepo) UpdateReservation(ctx context.Context, res domain.Reservation) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE reservations SET guest_id = ?, room_id = ?, arrival = ?, departure = ?
		 WHERE id = ?`,
		res.GuestID, res.RoomID,
		res.Arrival.Format(domain.DateLayout), res.Departure.Format(domain.DateLayout),
		res.ID)
	if err != nil {
		return err
	}
	return requireRowAffected(result)
}

func (r *reservationsRepo) DeleteReservation(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func scanReservation(row rowScanner) (domain.Reservation, error) {
	var (
		res                domain.Reservation
		arrival, departure string
	)
	err := row.Scan(&res.ID, &res.GuestID, &res.RoomID, &arrival, &departure)
	if err != nil {
		return domain.Reservation{}, mapNotFound(err)
	}

	if res.Arrival, err = time.Parse(domain.DateLayout, arrival); err != nil {
		return domain.Reservation{}, fmt.Errorf("sqlite: bad arrival date %q: %w", arrival, err)
	}
	if res.Departure, err = time.Parse(domain.DateLayout, departure); err != nil {
		return domain.Reservation{}, fmt.Errorf("sqlite: bad departure date %q: %w", departure, err)
	}
	return res, nil
}
