package store

import (
	"context"

	"github.com/vish0020/Onlinemart--sub000/internal/models"
)

func (s *Store) AddToWishlist(ctx context.Context, userID, productID int) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO wishlist (user_id, product_id) VALUES (?, ?)
		ON CONFLICT(user_id, product_id) DO NOTHING`, userID, productID)
	return err
}

func (s *Store) RemoveFromWishlist(ctx context.Context, userID, productID int) error {
	_, err := s.DB.ExecContext(ctx,
		`DELETE FROM wishlist WHERE user_id = ? AND product_id = ?`, userID, productID)
	return err
}

func (s *Store) GetWishlist(ctx context.Context, userID int) ([]models.Product, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT `+prefixedProductCols("p")+`
		FROM wishlist w
		JOIN products p ON p.id = w.product_id
		WHERE w.user_id = ?
		ORDER BY p.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func prefixedProductCols(alias string) string {
	return alias + `.id, ` + alias + `.name, ` + alias + `.description, ` + alias + `.category, ` +
		alias + `.price, ` + alias + `.mrp, ` + alias + `.stock, ` + alias + `.image_url, ` +
		alias + `.rating_count, ` + alias + `.rating_sum, ` + alias + `.created_at`
}
