package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spendlog/spendlog-be/internal/models"
	"github.com/spendlog/spendlog-be/internal/storage"
)

// CreateUser inserts a new user row. A duplicate email maps to
// storage.ErrAlreadyExists.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	const query = `
	INSERT INTO users (email, password_hash)
	VALUES ($1, $2)
	RETURNING id, email, password_hash, created_at;
	`
	row := s.pool.QueryRow(ctx, query, user.Email, user.PasswordHash)
	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, err
	}
	return created, nil
}

// FindByEmail fetches a user by email address.
func (s *Store) FindByEmail(ctx context.Context, email string) (models.User, error) {
	const query = `
	SELECT id, email, password_hash, created_at
	FROM users
	WHERE email = $1;
	`
	row := s.pool.QueryRow(ctx, query, email)
	return scanUser(row)
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	if err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}
