package sqlite

import (
	"context"
	"time"

	"github.com/roomstead/roomstead/internal/hotel/domain"
)

type roomsRepo struct {
	db querier
}

func (r *roomsRepo) GetRoomByID(ctx context.Context, id string) (domain.Room, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, type, price, number, hotel_id FROM rooms WHERE id = ?`, id)

	var rm domain.Room
	if err := row.Scan(&rm.ID, &rm.Type, &rm.Price, &rm.Number, &rm.HotelID); err != nil {
		return domain.Room{}, mapNotFound(err)
	}
	return rm, nil
}

func (r *roomsRepo) ListRoomsByHotel(ctx context.Context, hotelID int) ([]domain.Room, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, type, price, number, hotel_id FROM rooms WHERE hotel_id = ? ORDER BY number`,
		hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRooms(rows)
}

func (r *roomsRepo) CreateRoom(ctx context.Context, rm domain.Room) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO rooms (id, type, price, number, hotel_id) VALUES (?, ?, ?, ?, ?)`,
		rm.ID, rm.Type, rm.Price, rm.Number, rm.HotelID)
	return err
}

func (r *roomsRepo) UpdateRoom(ctx context.Context, rm domain.Room) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE rooms SET type = ?, price = ?, number = ?, hotel_id = ? WHERE id = ?`,
		rm.Type, rm.Price, rm.Number, rm.HotelID, rm.ID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *roomsRepo) DeleteRoom(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *roomsRepo) RoomNumberExists(ctx context.Context, hotelID, number int) (bool, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM rooms WHERE hotel_id = ? AND number = ?)`,
		hotelID, number)

	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// GetFreeRooms excludes rooms with any reservation overlapping the inclusive
// [from, to] interval. Dates are stored as ISO strings so lexical comparison
// matches chronological order.
func (r *roomsRepo) GetFreeRooms(ctx context.Context, hotelID int, from, to time.Time) ([]domain.Room, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, type, price, number, hotel_id FROM rooms
		 WHERE hotel_id = ?
		   AND id NOT IN (
		     SELECT room_id FROM reservations
		     WHERE NOT (departure < ? OR arrival > ?)
		   )
		 ORDER BY number`,
		hotelID, from.Format(domain.DateLayout), to.Format(domain.DateLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRooms(rows)
}

func collectRooms(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]domain.Room, error) {
	var rooms []domain.Room
	for rows.Next() {
		var rm domain.Room
		if err := rows.Scan(&rm.ID, &rm.Type, &rm.Price, &rm.Number, &rm.HotelID); err != nil {
			return nil, err
		}
		rooms = append(rooms, rm)
	}
	return rooms, rows.Err()
}
