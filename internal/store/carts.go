package store

import (
	"context"

	"github.com/vish0020/Onlinemart--sub000/internal/models"
)

// SetCartItem upserts a cart line. Quantity <= 0 removes the line.
func (s *Store) SetCartItem(ctx context.Context, userID, productID, quantity int) error {
	if quantity <= 0 {
		return s.RemoveCartItem(ctx, userID, productID)
	}
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO cart_items (user_id, product_id, quantity) VALUES (?, ?, ?)
		ON CONFLICT(user_id, product_id) DO UPDATE SET quantity = excluded.quantity`,
		userID, productID, quantity)
	return err
}

func (s *Store) RemoveCartItem(ctx context.Context, userID, productID int) error {
	_, err := s.DB.ExecContext(ctx,
		`DELETE FROM cart_items WHERE user_id = ? AND product_id = ?`, userID, productID)
	return err
}

func (s *Store) ClearCart(ctx context.Context, userID int) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = ?`, userID)
	return err
}

// GetCart joins cart lines with the live product snapshot.
func (s *Store) GetCart(ctx context.Context, userID int) ([]models.CartItem, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT c.product_id, p.name, p.price, p.image_url, p.stock, c.quantity
		FROM cart_items c
		JOIN products p ON p.id = c.product_id
		WHERE c.user_id = ?
		ORDER BY c.product_id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.CartItem
	for rows.Next() {
		var it models.CartItem
		if err := rows.Scan(&it.ProductID, &it.Name, &it.Price, &it.ImageURL, &it.Stock, &it.Quantity); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
