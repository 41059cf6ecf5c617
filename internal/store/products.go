package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/vish0020/Onlinemart--sub000/internal/models"
)

const productCols = `id, name, description, category, price, mrp, stock, image_url, rating_count, rating_sum, created_at`

func scanProduct(row interface{ Scan(...any) error }) (*models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Category, &p.Price, &p.MRP,
		&p.Stock, &p.ImageURL, &p.RatingCount, &p.RatingSum, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	res, err := s.DB.ExecContext(ctx, `
		INSERT INTO products (name, description, category, price, mrp, stock, image_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.Description, p.Category, p.Price, p.MRP, p.Stock, p.ImageURL, time.Now().UTC())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = int(id)
	return nil
}

func (s *Store) GetProductByID(ctx context.Context, id int) (*models.Product, error) {
	row := s.DB.QueryRowContext(ctx, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	return scanProduct(row)
}

// SearchProducts filters by name/description substring and optional category.
// Empty arguments list the whole catalog, newest first.
func (s *Store) SearchProducts(ctx context.Context, q, category string) ([]models.Product, error) {
	query := `SELECT ` + productCols + ` FROM products WHERE 1=1`
	var args []any
	if q != "" {
		query += ` AND (name LIKE ? OR description LIKE ?)`
		like := "%" + q + "%"
		args = append(args, like, like)
	}
	if category != "" {
		query += ` AND category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.DB.QueryContext(ctx, query, args...)
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

func (s *Store) UpdateProduct(ctx context.Context, p *models.Product) error {
	_, err := s.DB.ExecContext(ctx, `
		UPDATE products
		SET name = ?, description = ?, category = ?, price = ?, mrp = ?, stock = ?
		WHERE id = ?`,
		p.Name, p.Description, p.Category, p.Price, p.MRP, p.Stock, p.ID)
	return err
}

func (s *Store) UpdateProductImage(ctx context.Context, id int, imageURL string) error {
	_, err := s.DB.ExecContext(ctx, `UPDATE products SET image_url = ? WHERE id = ?`, imageURL, id)
	return err
}

func (s *Store) DeleteProduct(ctx context.Context, id int) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	return err
}

func (s *Store) Categories(ctx context.Context) ([]string, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT DISTINCT category FROM products WHERE category != '' ORDER BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cats []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}
