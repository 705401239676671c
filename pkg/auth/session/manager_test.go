package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	mu    sync.Mutex
	data  map[string]string
	lists map[string][]string
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[string]string), lists: make(map[string][]string)}
}

func (m *mockStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = fmt.Sprint(value)
	return nil
}

func (m *mockStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return val, nil
}

func (m *mockStore) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *mockStore) Append(_ context.Context, key string, _ time.Duration, values ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists[key] = append(m.lists[key], values...)
	return nil
}

func (m *mockStore) Drain(_ context.Context, key string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	values := m.lists[key]
	delete(m.lists, key)
	return values, nil
}

func (m *mockStore) AccessSessionKey(accessID string) string {
	return fmt.Sprintf("sess:%s", accessID)
}

func (m *mockStore) FlashKey(accessID string) string {
	return fmt.Sprintf("flash:%s", accessID)
}

func TestManagerGenerateAndRotate(t *testing.T) {
	store := newMockStore()
	manager := &Manager{store: store, keyer: store, ttl: time.Hour}

	ctx := context.Background()
	accessID := "access-123"
	token, err := manager.Generate(ctx, accessID)
	require.NoError(t, err)
	require.Equal(t, token, store.data[store.AccessSessionKey(accessID)])

	_, _, err = manager.Rotate(ctx, accessID, "wrong")
	require.True(t, errors.Is(err, ErrInvalidRefreshToken))

	newAccessID, newToken, err := manager.Rotate(ctx, accessID, token)
	require.NoError(t, err)
	_, exists := store.data[store.AccessSessionKey(accessID)]
	require.False(t, exists, "old access key left behind")
	require.Equal(t, newToken, store.data[store.AccessSessionKey(newAccessID)])
}

func TestManagerRevokeAndHasSession(t *testing.T) {
	store := newMockStore()
	manager := &Manager{store: store, keyer: store, ttl: time.Hour}
	ctx := context.Background()

	_, err := manager.Generate(ctx, "a1")
	require.NoError(t, err)

	ok, err := manager.HasSession(ctx, "a1")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, manager.Revoke(ctx, "a1"))
	ok, err = manager.HasSession(ctx, "a1")
	require.NoError(t, err)
	require.False(t, ok)

	_, _, err = manager.Rotate(ctx, "a1", "anything")
	require.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestFlashesArePoppedOnce(t *testing.T) {
	store := newMockStore()
	flashes := NewFlashes(store, time.Hour)
	ctx := context.Background()

	require.NoError(t, flashes.Push(ctx, "a1", Flash{Kind: FlashSuccess, Message: "Request submitted"}))
	require.NoError(t, flashes.Push(ctx, "a1", Flash{Kind: FlashError, Message: "Sale failed"}))

	got, err := flashes.Pop(ctx, "a1")
	require.NoError(t, err)
	require.Equal(t, []Flash{
		{Kind: FlashSuccess, Message: "Request submitted"},
		{Kind: FlashError, Message: "Sale failed"},
	}, got)

	got, err = flashes.Pop(ctx, "a1")
	require.NoError(t, err)
	require.Empty(t, got)

	require.Error(t, flashes.Push(ctx, " ", Flash{}))
}
