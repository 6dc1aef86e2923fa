package repository

import (
	"context"
	"errors"

	"github.com/MateusMartins/projetoPOS/internal/domain/entity"
)

// ErrNotFound is returned by repositories when no record matches.
var ErrNotFound = errors.New("not found")

// UserRepository is the credential store port.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	// GetByUsername returns the first user registered with username.
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
}
