package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MateusMartins/projetoPOS/internal/domain/entity"
	"github.com/MateusMartins/projetoPOS/internal/domain/repository"
)

func sessionKey(sid string) string { return "session:" + sid }
func flashKey(sid string) string   { return "session:" + sid + ":flash" }

// SessionRepository keeps sessions as Redis hashes and flashes as a JSON list next to them.
type SessionRepository struct {
	rdb      *redis.Client
	ttl      time.Duration // 0 keeps the session until logout
	flashTTL time.Duration
}

func NewSessionRepository(rdb *redis.Client, ttl, flashTTL time.Duration) *SessionRepository {
	return &SessionRepository{rdb: rdb, ttl: ttl, flashTTL: flashTTL}
}

func (r *SessionRepository) Get(ctx context.Context, sid string) (*entity.Session, error) {
	data, err := r.rdb.HGetAll(ctx, sessionKey(sid)).Result()
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if len(data) == 0 {
		return nil, repository.ErrNotFound
	}
	loggedIn, _ := strconv.ParseBool(data["logged_in"])
	s := &entity.Session{ID: sid, LoggedIn: loggedIn, Username: data["username"]}
	if ts, err := time.Parse(time.RFC3339Nano, data["created_at"]); err == nil {
		s.CreatedAt = ts
	}
	return s, nil
}

func (r *SessionRepository) Save(ctx context.Context, s *entity.Session) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	key := sessionKey(s.ID)
	pipe := r.rdb.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key, map[string]any{
		"username":   s.Username,
		"logged_in":  strconv.FormatBool(s.LoggedIn),
		"created_at": s.CreatedAt.UTC().Format(time.RFC3339Nano),
	})
	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Delete drops the session hash. Pending flashes are kept so a logout notice survives.
func (r *SessionRepository) Delete(ctx context.Context, sid string) error {
	if err := r.rdb.Del(ctx, sessionKey(sid)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *SessionRepository) PushFlash(ctx context.Context, sid string, f entity.Flash) error {
	b, err := json.Marshal(f)
	if err != nil {
		return err
	}
	key := flashKey(sid)
	pipe := r.rdb.TxPipeline()
	pipe.RPush(ctx, key, b)
	if r.flashTTL > 0 {
		pipe.Expire(ctx, key, r.flashTTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("push flash: %w", err)
	}
	return nil
}

// PopFlashes returns queued flashes in push order and clears the queue in one MULTI/EXEC.
func (r *SessionRepository) PopFlashes(ctx context.Context, sid string) ([]entity.Flash, error) {
	key := flashKey(sid)
	pipe := r.rdb.TxPipeline()
	lr := pipe.LRange(ctx, key, 0, -1)
	pipe.Del(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("pop flashes: %w", err)
	}

	raw := lr.Val()
	out := make([]entity.Flash, 0, len(raw))
	for _, s := range raw {
		var f entity.Flash
		if err := json.Unmarshal([]byte(s), &f); err != nil {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

var _ repository.SessionRepository = (*SessionRepository)(nil)
