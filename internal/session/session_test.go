package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fieldops-demo/internal/store"
)

func setupManager(t *testing.T) (*Manager, *miniredis.Miniredis, store.Store, store.Keys) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	st := store.NewRedisStore(client, nil)
	keys := store.NewKeys("fieldops")
	return NewManager(st, keys, 7*24*time.Hour, zap.NewNop()), mr, st, keys
}

func TestManager_CreateGetRoundTrip(t *testing.T) {
	mgr, _, _, _ := setupManager(t)
	ctx := context.Background()

	id, err := mgr.Create(ctx, "operator_1", map[string]string{"role": "Field Operator"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	s, err := mgr.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, s.SessionID)
	assert.Equal(t, "operator_1", s.UserID)
	assert.Contains(t, s.UserData, "Field Operator")
	assert.Equal(t, "active", s.Status)
	assert.Greater(t, s.TTL, int64(0))
}

func TestManager_GetRefreshesTTL(t *testing.T) {
	mgr, mr, _, keys := setupManager(t)
	ctx := context.Background()

	id, err := mgr.Create(ctx, "operator_1", nil)
	require.NoError(t, err)

	// 让 TTL 消耗一部分，再 Get 应当刷新回完整 TTL
	mr.FastForward(24 * time.Hour)
	_, err = mgr.Get(ctx, id)
	require.NoError(t, err)

	ttl := mr.TTL(keys.Session(id))
	assert.Equal(t, 7*24*time.Hour, ttl)
}

func TestManager_GetUnknownSession(t *testing.T) {
	mgr, _, _, _ := setupManager(t)

	_, err := mgr.Get(context.Background(), "no-such-session")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManager_DeleteRemovesSessionAndMembership(t *testing.T) {
	mgr, _, _, _ := setupManager(t)
	ctx := context.Background()

	id, err := mgr.Create(ctx, "operator_1", nil)
	require.NoError(t, err)
	require.NoError(t, mgr.Delete(ctx, id))

	_, err = mgr.Get(ctx, id)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	sessions, err := mgr.Active(ctx)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestManager_ActivePrunesExpiredSessions(t *testing.T) {
	mgr, mr, _, _ := setupManager(t)
	ctx := context.Background()

	_, err := mgr.Create(ctx, "operator_1", nil)
	require.NoError(t, err)
	_, err = mgr.Create(ctx, "engineer_1", nil)
	require.NoError(t, err)

	// hash 过期后 Active 应当清理 zset 里的残留成员
	mr.FastForward(8 * 24 * time.Hour)

	sessions, err := mgr.Active(ctx)
	require.NoError(t, err)
	assert.Empty(t, sessions)

	sessions, err = mgr.Active(ctx)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestManager_Metrics(t *testing.T) {
	mgr, _, _, _ := setupManager(t)
	ctx := context.Background()

	_, err := mgr.Create(ctx, "operator_1", nil)
	require.NoError(t, err)
	_, err = mgr.Create(ctx, "operator_1", nil)
	require.NoError(t, err)
	_, err = mgr.Create(ctx, "engineer_1", nil)
	require.NoError(t, err)

	metrics, err := mgr.Metrics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, metrics.TotalActiveSessions)
	assert.Equal(t, 2, metrics.UniqueUsers)
	assert.Equal(t, 2, metrics.SessionsByUser["operator_1"])
	assert.Equal(t, 1, metrics.SessionsByUser["engineer_1"])
}

func TestManager_SeedDemoUsers(t *testing.T) {
	mgr, _, _, _ := setupManager(t)
	ctx := context.Background()

	mgr.SeedDemoUsers(ctx)

	sessions, err := mgr.Active(ctx)
	require.NoError(t, err)
	assert.Len(t, sessions, 4)
}
