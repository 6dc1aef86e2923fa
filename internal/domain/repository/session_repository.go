package repository

import (
	"context"

	"github.com/MateusMartins/projetoPOS/internal/domain/entity"
)

// SessionRepository keeps per-client sessions and their flash queues.
type SessionRepository interface {
	Get(ctx context.Context, sid string) (*entity.Session, error)
	Save(ctx context.Context, s *entity.Session) error
	Delete(ctx context.Context, sid string) error
	PushFlash(ctx context.Context, sid string, f entity.Flash) error
	PopFlashes(ctx context.Context, sid string) ([]entity.Flash, error)
}
