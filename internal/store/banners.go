package store

import (
	"context"
	"time"

	"github.com/vish0020/Onlinemart--sub000/internal/models"
)

func (s *Store) CreateBanner(ctx context.Context, b *models.Banner) error {
	res, err := s.DB.ExecContext(ctx, `
		INSERT INTO banners (title, image_url, link_url, active, position, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		b.Title, b.ImageURL, b.LinkURL, b.Active, b.Position, time.Now().UTC())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = int(id)
	return nil
}

func (s *Store) GetBanners(ctx context.Context, activeOnly bool) ([]models.Banner, error) {
	query := `SELECT id, title, image_url, link_url, active, position, created_at FROM banners`
	if activeOnly {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY position, id`

	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var banners []models.Banner
	for rows.Next() {
		var b models.Banner
		if err := rows.Scan(&b.ID, &b.Title, &b.ImageURL, &b.LinkURL, &b.Active, &b.Position, &b.CreatedAt); err != nil {
			return nil, err
		}
		banners = append(banners, b)
	}
	return banners, rows.Err()
}

func (s *Store) UpdateBanner(ctx context.Context, b *models.Banner) error {
	_, err := s.DB.ExecContext(ctx, `
		UPDATE banners SET title = ?, link_url = ?, active = ?, position = ? WHERE id = ?`,
		b.Title, b.LinkURL, b.Active, b.Position, b.ID)
	return err
}

func (s *Store) UpdateBannerImage(ctx context.Context, id int, imageURL string) error {
	_, err := s.DB.ExecContext(ctx, `UPDATE banners SET image_url = ? WHERE id = ?`, imageURL, id)
	return err
}

func (s *Store) DeleteBanner(ctx context.Context, id int) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM banners WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
