package store

import (
	"context"
	"database/sql"

	"github.com/vish0020/Onlinemart--sub000/internal/models"
)

// GetDeliverySettings returns the singleton settings row, falling back to the
// defaults when the row has never been seeded.
func (s *Store) GetDeliverySettings(ctx context.Context) (models.DeliverySettings, error) {
	var ds models.DeliverySettings
	err := s.DB.QueryRowContext(ctx, `
		SELECT base_charge, per_km_charge, free_delivery_above, cod_enabled, estimated_days, store_lat, store_lng
		FROM delivery_settings WHERE id = 1`).
		Scan(&ds.BaseCharge, &ds.PerKmCharge, &ds.FreeDeliveryAbove, &ds.CODEnabled,
			&ds.EstimatedDays, &ds.StoreLat, &ds.StoreLng)
	if err == sql.ErrNoRows {
		return models.DefaultDeliverySettings(), nil
	}
	if err != nil {
		return models.DeliverySettings{}, err
	}
	return ds, nil
}

// SaveDeliverySettings overwrites the singleton wholesale.
func (s *Store) SaveDeliverySettings(ctx context.Context, ds models.DeliverySettings) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO delivery_settings (id, base_charge, per_km_charge, free_delivery_above, cod_enabled, estimated_days, store_lat, store_lng)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			base_charge = excluded.base_charge,
			per_km_charge = excluded.per_km_charge,
			free_delivery_above = excluded.free_delivery_above,
			cod_enabled = excluded.cod_enabled,
			estimated_days = excluded.estimated_days,
			store_lat = excluded.store_lat,
			store_lng = excluded.store_lng`,
		ds.BaseCharge, ds.PerKmCharge, ds.FreeDeliveryAbove, ds.CODEnabled,
		ds.EstimatedDays, ds.StoreLat, ds.StoreLng)
	return err
}
