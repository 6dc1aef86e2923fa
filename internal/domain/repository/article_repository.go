package repository

import (
	"context"

	"github.com/MateusMartins/projetoPOS/internal/domain/entity"
)

// ArticleRepository is the article store port.
type ArticleRepository interface {
	List(ctx context.Context) ([]entity.Article, error)
	Search(ctx context.Context, q string) ([]entity.Article, error)
	Get(ctx context.Context, id string) (*entity.Article, error)
	// Create stores a and sets a.ID to the generated identifier.
	Create(ctx context.Context, a *entity.Article) error
	// Update overwrites title and body only. ErrNotFound when id is unknown.
	Update(ctx context.Context, id, title, body string) error
	// Delete removes the article; unknown ids are not an error.
	Delete(ctx context.Context, id string) error
}
