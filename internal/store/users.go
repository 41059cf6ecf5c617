package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/vish0020/Onlinemart--sub000/internal/models"
)

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	res, err := s.DB.ExecContext(ctx, `
		INSERT INTO users (name, email, password, avatar_url, is_admin, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		u.Name, u.Email, u.Password, u.AvatarURL, u.IsAdmin, time.Now().UTC())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = int(id)
	return nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	row := s.DB.QueryRowContext(ctx, `
		SELECT id, name, email, password, avatar_url, is_admin, created_at
		FROM users WHERE LOWER(email) = LOWER(?)`, email)
	return scanUser(row)
}

func (s *Store) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	row := s.DB.QueryRowContext(ctx, `
		SELECT id, name, email, password, avatar_url, is_admin, created_at
		FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.AvatarURL, &u.IsAdmin, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
