package sqlite

import (
	"context"

	"github.com/roomstead/roomstead/internal/hotel/domain"
)

type hotelsRepo struct {
	db querier
}

func (r *hotelsRepo) GetHotelByID(ctx context.Context, id int) (domain.Hotel, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, city, address, rating FROM hotels WHERE id = ?`, id)

	var h domain.Hotel
	if err := row.Scan(&h.ID, &h.Name, &h.City, &h.Address, &h.Rating); err != nil {
		return domain.Hotel{}, mapNotFound(err)
	}
	return h, nil
}

func (r *hotelsRepo) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, city, address, rating FROM hotels ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hotels []domain.Hotel
	for rows.Next() {
		var h domain.Hotel
		if err := rows.Scan(&h.ID, &h.Name, &h.City, &h.Address, &h.Rating); err != nil {
			return nil, err
		}
		hotels = append(hotels, h)
	}
	return hotels, rows.Err()
}

func (r *hotelsRepo) CreateHotel(ctx context.Context, h domain.Hotel) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO hotels (id, name, city, address, rating) VALUES (?, ?, ?, ?, ?)`,
		h.ID, h.Name, h.City, h.Address, h.Rating)
	return err
}

func (r *hotelsRepo) UpdateHotel(ctx context.Context, h domain.Hotel) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE hotels SET name = ?, city = ?, address = ?, rating = ? WHERE id = ?`,
		h.Name, h.City, h.Address, h.Rating, h.ID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *hotelsRepo) DeleteHotel(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM hotels WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

// NextHotelID continues the sequence after the highest existing id, starting
// at 1 on an empty table.
func (r *hotelsRepo) NextHotelID(ctx context.Context) (int, error) {
	row := r.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(id), 0) + 1 FROM hotels`)

	var next int
	if err := row.Scan(&next); err != nil {
		return 0, err
	}
	return next, nil
}
