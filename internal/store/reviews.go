package store

import (
	"context"
	"time"

	"github.com/vish0020/Onlinemart--sub000/internal/models"
)

func (s *Store) CreateReview(ctx context.Context, r *models.Review) error {
	res, err := s.DB.ExecContext(ctx, `
		INSERT INTO reviews (product_id, user_id, user_name, rating, text, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		r.ProductID, r.UserID, r.UserName, r.Rating, r.Text, time.Now().UTC())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	r.ID = int(id)
	return nil
}

func (s *Store) GetReviews(ctx context.Context, productID int) ([]models.Review, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, product_id, user_id, user_name, rating, text, created_at
		FROM reviews WHERE product_id = ? ORDER BY created_at DESC`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []models.Review
	for rows.Next() {
		var r models.Review
		if err := rows.Scan(&r.ID, &r.ProductID, &r.UserID, &r.UserName, &r.Rating, &r.Text, &r.CreatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}
