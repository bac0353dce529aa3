package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	cacheport "github.com/tacssuki/CMUFinds-sub000/internal/infrastructure/cache/port"
	"github.com/tacssuki/CMUFinds-sub000/internal/pkg/directory/port"
)

const profileTTL = 5 * time.Minute

// CachedUserDirectory fronts a UserDirectory with a short-TTL cache. Display
// data is resolved on every thread view and message fan-out, so one cheap
// cache layer removes the hottest read from the database path. Cache errors
// degrade to the underlying directory; they are never surfaced.
type CachedUserDirectory struct {
	next   port.UserDirectory
	cache  cacheport.Cache
	logger *zap.Logger
}

func NewCachedUserDirectory(next port.UserDirectory, cache cacheport.Cache, logger *zap.Logger) *CachedUserDirectory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedUserDirectory{next: next, cache: cache, logger: logger}
}

var _ port.UserDirectory = (*CachedUserDirectory)(nil)

func (d *CachedUserDirectory) GetProfile(ctx context.Context, userID string) (port.UserProfile, error) {
	key := profileKey(userID)

	if d.cache != nil {
		raw, err := d.cache.Get(ctx, key)
		if err == nil {
			var p port.UserProfile
			if err := json.Unmarshal([]byte(raw), &p); err == nil {
				return p, nil
			}
			// Unreadable entry: drop it and fall through.
			_, _ = d.cache.Del(ctx, key)
		} else if !errors.Is(err, cacheport.ErrMiss) {
			d.logger.Warn("profile cache read failed", zap.String("user_id", userID), zap.Error(err))
		}
	}

	p, err := d.next.GetProfile(ctx, userID)
	if err != nil {
		return port.UserProfile{}, err
	}

	if d.cache != nil {
		if raw, err := json.Marshal(p); err == nil {
			if err := d.cache.Set(ctx, key, string(raw), profileTTL); err != nil {
				d.logger.Warn("profile cache write failed", zap.String("user_id", userID), zap.Error(err))
			}
		}
	}
	return p, nil
}

func profileKey(userID string) string { return "profile:" + userID }
