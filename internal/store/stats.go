package store

import (
	"context"
	"database/sql"
)

type DashboardStats struct {
	TotalProducts    int               `json:"total_products"`
	TotalOrders      int               `json:"total_orders"`
	TotalUsers       int               `json:"total_users"`
	PendingCancels   int               `json:"pending_cancels"`
	OrdersByStatus   map[string]int    `json:"orders_by_status"`
	TopProducts      []ProductOrdCount `json:"top_products"`
}

type ProductOrdCount struct {
	ProductID  int    `json:"product_id"`
	Name       string `json:"name"`
	OrderCount int    `json:"order_count"`
}

func (s *Store) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{
		OrdersByStatus: make(map[string]int),
	}

	err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&stats.TotalProducts)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	err = s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&stats.TotalOrders)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	err = s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&stats.TotalUsers)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	err = s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders WHERE cancel_status = 'pending'`).Scan(&stats.PendingCancels)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT status, COUNT(*) FROM orders GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.OrdersByStatus[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	topRows, err := s.DB.QueryContext(ctx, `
		SELECT p.id, p.name, COUNT(oi.id) as order_count
		FROM products p
		LEFT JOIN order_items oi ON p.id = oi.product_id
		GROUP BY p.id
		ORDER BY order_count DESC
		LIMIT 10`)
	if err != nil {
		return nil, err
	}
	defer topRows.Close()
	for topRows.Next() {
		var pc ProductOrdCount
		if err := topRows.Scan(&pc.ProductID, &pc.Name, &pc.OrderCount); err != nil {
			return nil, err
		}
		stats.TopProducts = append(stats.TopProducts, pc)
	}

	return stats, topRows.Err()
}
