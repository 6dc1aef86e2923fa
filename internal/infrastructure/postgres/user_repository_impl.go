package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MateusMartins/projetoPOS/internal/domain/entity"
	"github.com/MateusMartins/projetoPOS/internal/domain/repository"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO users (name, email, username, password)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, u.Name, u.Email, u.Username, u.PasswordHash)

	if err := row.Scan(&u.ID, &u.CreatedAt); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByUsername picks the oldest row when several users share a username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	u := &entity.User{}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, username, password, created_at
		FROM users
		WHERE username = $1
		ORDER BY id
		LIMIT 1
	`, username)

	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Username, &u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("select user: %w", err)
	}

	return u, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
