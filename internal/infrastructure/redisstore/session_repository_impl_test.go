package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MateusMartins/projetoPOS/internal/domain/entity"
	"github.com/MateusMartins/projetoPOS/internal/domain/repository"
)

func setup(t *testing.T, ttl time.Duration) (*miniredis.Miniredis, *SessionRepository) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, NewSessionRepository(rdb, ttl, 10*time.Minute)
}

func TestSessionRepository_SaveGetDelete(t *testing.T) {
	mr, repo := setup(t, 0)
	ctx := context.Background()
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	require.NoError(t, repo.Save(ctx, &entity.Session{ID: "abc", LoggedIn: true, Username: "alice", CreatedAt: created}))

	assert.Equal(t, "alice", mr.HGet("session:abc", "username"))
	assert.Equal(t, "true", mr.HGet("session:abc", "logged_in"))
	assert.Equal(t, time.Duration(0), mr.TTL("session:abc"), "no expiry by default")

	got, err := repo.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, &entity.Session{ID: "abc", LoggedIn: true, Username: "alice", CreatedAt: created}, got)

	require.NoError(t, repo.Delete(ctx, "abc"))
	require.NoError(t, repo.Delete(ctx, "abc"))
	_, err = repo.Get(ctx, "abc")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSessionRepository_TTL(t *testing.T) {
	mr, repo := setup(t, 30*time.Minute)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &entity.Session{ID: "s1", LoggedIn: true, Username: "bob"}))
	assert.Equal(t, 30*time.Minute, mr.TTL("session:s1"))

	mr.FastForward(31 * time.Minute)
	_, err := repo.Get(ctx, "s1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSessionRepository_FlashesPoppedOnceInOrder(t *testing.T) {
	mr, repo := setup(t, 0)
	ctx := context.Background()

	require.NoError(t, repo.PushFlash(ctx, "sid", entity.Flash{Category: entity.FlashSuccess, Message: "first"}))
	require.NoError(t, repo.PushFlash(ctx, "sid", entity.Flash{Category: entity.FlashDanger, Message: "second"}))
	assert.Equal(t, 10*time.Minute, mr.TTL("session:sid:flash"))

	got, err := repo.PopFlashes(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, []entity.Flash{
		{Category: entity.FlashSuccess, Message: "first"},
		{Category: entity.FlashDanger, Message: "second"},
	}, got)

	again, err := repo.PopFlashes(ctx, "sid")
	require.NoError(t, err)
	assert.Empty(t, again)
	assert.False(t, mr.Exists("session:sid:flash"))
}

func TestSessionRepository_DeleteKeepsFlashes(t *testing.T) {
	_, repo := setup(t, 0)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &entity.Session{ID: "x", LoggedIn: true, Username: "carol"}))
	require.NoError(t, repo.PushFlash(ctx, "x", entity.Flash{Category: entity.FlashSuccess, Message: "You are now logged out"}))
	require.NoError(t, repo.Delete(ctx, "x"))

	got, err := repo.PopFlashes(ctx, "x")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestSessionRepository_StoreDown(t *testing.T) {
	mr, repo := setup(t, 0)
	mr.Close()
	ctx := context.Background()

	_, err := repo.Get(ctx, "abc")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrNotFound)
	assert.Error(t, repo.Save(ctx, &entity.Session{ID: "abc"}))
	assert.Error(t, repo.PushFlash(ctx, "abc", entity.Flash{Category: entity.FlashInfo, Message: "m"}))
}
