package store

import (
	"context"
)

// maxCASRetries bounds the optimistic read-modify-write loop. A conflicting
// writer between our read and write bumps the attempt counter; three losses
// in a row surface ErrConflict to the caller.
const maxCASRetries = 3

// ReserveStock decrements a product's stock by qty using a compare-and-swap
// on the previously read value. Returns ErrInsufficientStock when the current
// stock cannot cover the request, ErrConflict when the retries run out.
func (s *Store) ReserveStock(ctx context.Context, productID, qty int) error {
	for attempt := 0; attempt < maxCASRetries; attempt++ {
		var stock int
		err := s.DB.QueryRowContext(ctx, `SELECT stock FROM products WHERE id = ?`, productID).Scan(&stock)
		if err != nil {
			return ErrNotFound
		}
		if stock < qty {
			return ErrInsufficientStock
		}
		res, err := s.DB.ExecContext(ctx,
			`UPDATE products SET stock = ? WHERE id = ? AND stock = ?`,
			stock-qty, productID, stock)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 1 {
			return nil
		}
	}
	return ErrConflict
}

// AddRating folds a new review rating into the product's aggregate counters
// with the same compare-and-swap discipline as ReserveStock.
func (s *Store) AddRating(ctx context.Context, productID, rating int) error {
	for attempt := 0; attempt < maxCASRetries; attempt++ {
		var count, sum int
		err := s.DB.QueryRowContext(ctx,
			`SELECT rating_count, rating_sum FROM products WHERE id = ?`, productID).Scan(&count, &sum)
		if err != nil {
			return ErrNotFound
		}
		res, err := s.DB.ExecContext(ctx,
			`UPDATE products SET rating_count = ?, rating_sum = ? WHERE id = ? AND rating_count = ? AND rating_sum = ?`,
			count+1, sum+rating, productID, count, sum)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 1 {
			return nil
		}
	}
	return ErrConflict
}
