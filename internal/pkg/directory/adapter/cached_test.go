package adapter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cacheport "github.com/tacssuki/CMUFinds-sub000/internal/infrastructure/cache/port"
	"github.com/tacssuki/CMUFinds-sub000/internal/pkg/directory/port"
)

type mapCache struct {
	values map[string]string
	getErr error
	setErr error
	sets   int
}

func newMapCache() *mapCache { return &mapCache{values: make(map[string]string)} }

func (m *mapCache) Get(ctx context.Context, key string) (string, error) {
	if m.getErr != nil {
		return "", m.getErr
	}
	v, ok := m.values[key]
	if !ok {
		return "", cacheport.ErrMiss
	}
	return v, nil
}

func (m *mapCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.sets++
	m.values[key] = value
	return nil
}

func (m *mapCache) Del(ctx context.Context, keys ...string) (int64, error) {
	var n int64
	for _, k := range keys {
		if _, ok := m.values[k]; ok {
			delete(m.values, k)
			n++
		}
	}
	return n, nil
}

func (m *mapCache) Ping(ctx context.Context) error { return nil }
func (m *mapCache) Close() error                   { return nil }

type countingDirectory struct {
	profiles map[string]port.UserProfile
	calls    int
}

func (c *countingDirectory) GetProfile(ctx context.Context, userID string) (port.UserProfile, error) {
	c.calls++
	p, ok := c.profiles[userID]
	if !ok {
		return port.UserProfile{}, port.ErrUserNotFound
	}
	return p, nil
}

func TestCachedUserDirectory_MissThenHit(t *testing.T) {
	next := &countingDirectory{profiles: map[string]port.UserProfile{
		"alice": {ID: "alice", Name: "Alice"},
	}}
	cache := newMapCache()
	d := NewCachedUserDirectory(next, cache, nil)

	p, err := d.GetProfile(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice", p.Name)
	assert.Equal(t, 1, next.calls)
	assert.Equal(t, 1, cache.sets)

	p, err = d.GetProfile(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice", p.Name)
	assert.Equal(t, 1, next.calls, "the second lookup is served from cache")
}

func TestCachedUserDirectory_CacheFailureDegrades(t *testing.T) {
	next := &countingDirectory{profiles: map[string]port.UserProfile{
		"alice": {ID: "alice", Name: "Alice"},
	}}
	cache := newMapCache()
	cache.getErr = assert.AnError
	cache.setErr = assert.AnError
	d := NewCachedUserDirectory(next, cache, nil)

	p, err := d.GetProfile(context.Background(), "alice")
	require.NoError(t, err, "cache trouble must never fail a profile lookup")
	assert.Equal(t, "Alice", p.Name)
	assert.Equal(t, 1, next.calls)
}

func TestCachedUserDirectory_CorruptEntryIsDropped(t *testing.T) {
	next := &countingDirectory{profiles: map[string]port.UserProfile{
		"alice": {ID: "alice", Name: "Alice"},
	}}
	cache := newMapCache()
	cache.values[profileKey("alice")] = "{not json"
	d := NewCachedUserDirectory(next, cache, nil)

	p, err := d.GetProfile(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice", p.Name)
	assert.Equal(t, 1, next.calls)
	assert.NotEqual(t, "{not json", cache.values[profileKey("alice")], "the corrupt entry is replaced")
}

func TestCachedUserDirectory_UnknownUser(t *testing.T) {
	next := &countingDirectory{profiles: map[string]port.UserProfile{}}
	d := NewCachedUserDirectory(next, newMapCache(), nil)

	_, err := d.GetProfile(context.Background(), "ghost")
	assert.ErrorIs(t, err, port.ErrUserNotFound)
}
