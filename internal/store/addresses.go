package store

import (
	"context"
	"database/sql"

	"github.com/vish0020/Onlinemart--sub000/internal/models"
)

const addressCols = `id, user_id, name, phone, line1, line2, city, state, pincode, lat, lng, distance_km, is_default`

func scanAddress(row interface{ Scan(...any) error }) (*models.Address, error) {
	var a models.Address
	err := row.Scan(&a.ID, &a.UserID, &a.Name, &a.Phone, &a.Line1, &a.Line2,
		&a.City, &a.State, &a.Pincode, &a.Lat, &a.Lng, &a.DistanceKm, &a.IsDefault)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// SaveAddress inserts or updates an address. When the saved address is marked
// default, the default flag is cleared on all of the user's other addresses in
// the same transaction, keeping at most one default per user.
func (s *Store) SaveAddress(ctx context.Context, a *models.Address) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if a.IsDefault {
		if _, err := tx.ExecContext(ctx,
			`UPDATE addresses SET is_default = 0 WHERE user_id = ?`, a.UserID); err != nil {
			return err
		}
	}

	if a.ID == 0 {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO addresses (user_id, name, phone, line1, line2, city, state, pincode, lat, lng, distance_km, is_default)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			a.UserID, a.Name, a.Phone, a.Line1, a.Line2, a.City, a.State, a.Pincode,
			a.Lat, a.Lng, a.DistanceKm, a.IsDefault)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		a.ID = int(id)
	} else {
		_, err := tx.ExecContext(ctx, `
			UPDATE addresses
			SET name = ?, phone = ?, line1 = ?, line2 = ?, city = ?, state = ?, pincode = ?,
			    lat = ?, lng = ?, distance_km = ?, is_default = ?
			WHERE id = ? AND user_id = ?`,
			a.Name, a.Phone, a.Line1, a.Line2, a.City, a.State, a.Pincode,
			a.Lat, a.Lng, a.DistanceKm, a.IsDefault, a.ID, a.UserID)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *Store) GetAddresses(ctx context.Context, userID int) ([]models.Address, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+addressCols+` FROM addresses WHERE user_id = ? ORDER BY is_default DESC, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var addrs []models.Address
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		addrs = append(addrs, *a)
	}
	return addrs, rows.Err()
}

func (s *Store) GetAddressByID(ctx context.Context, userID, id int) (*models.Address, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT `+addressCols+` FROM addresses WHERE id = ? AND user_id = ?`, id, userID)
	return scanAddress(row)
}

func (s *Store) DeleteAddress(ctx context.Context, userID, id int) error {
	_, err := s.DB.ExecContext(ctx,
		`DELETE FROM addresses WHERE id = ? AND user_id = ?`, id, userID)
	return err
}

func (s *Store) SetAddressLocation(ctx context.Context, userID, id int, lat, lng, distanceKm float64) error {
	_, err := s.DB.ExecContext(ctx,
		`UPDATE addresses SET lat = ?, lng = ?, distance_km = ? WHERE id = ? AND user_id = ?`,
		lat, lng, distanceKm, id, userID)
	return err
}
