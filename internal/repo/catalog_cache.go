package repo

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/pkordes/itinerary/internal/domain"
)

const catalogKeyPrefix = "itinerary:catalog:"

// cachedCatalogRepo is a read-through Redis cache in front of a CatalogRepo.
// The cache is best effort: any Redis failure is logged and the call falls
// through to the wrapped repo. Not-found results are never cached, but an
// empty activity list for a city that exists is a result and is kept for ttl.
type cachedCatalogRepo struct {
	next CatalogRepo
	rdb  redis.Cmdable
	ttl  time.Duration
	log  *slog.Logger
}

// NewCachedCatalogRepo wraps next with a Redis cache whose entries expire after ttl.
func NewCachedCatalogRepo(next CatalogRepo, rdb redis.Cmdable, ttl time.Duration, log *slog.Logger) CatalogRepo {
	return &cachedCatalogRepo{next: next, rdb: rdb, ttl: ttl, log: log}
}

func cityKey(id uuid.UUID) string     { return catalogKeyPrefix + "city:" + id.String() }
func activityKey(id uuid.UUID) string { return catalogKeyPrefix + "activity:" + id.String() }
func cityActivitiesKey(id uuid.UUID) string {
	return catalogKeyPrefix + "city-activities:" + id.String()
}
func citiesKey(f domain.CityFilter) string {
	return catalogKeyPrefix + "cities:" + strings.ToLower(f.Region) + "|" + strings.ToLower(f.Search)
}

func (c *cachedCatalogRepo) GetCity(ctx context.Context, id uuid.UUID) (domain.City, error) {
	return readThrough(ctx, c, cityKey(id), func() (domain.City, error) {
		return c.next.GetCity(ctx, id)
	})
}

func (c *cachedCatalogRepo) ListCities(ctx context.Context, filter domain.CityFilter) ([]domain.City, error) {
	return readThrough(ctx, c, citiesKey(filter), func() ([]domain.City, error) {
		return c.next.ListCities(ctx, filter)
	})
}

func (c *cachedCatalogRepo) GetActivity(ctx context.Context, id uuid.UUID) (domain.Activity, error) {
	return readThrough(ctx, c, activityKey(id), func() (domain.Activity, error) {
		return c.next.GetActivity(ctx, id)
	})
}

func (c *cachedCatalogRepo) ListActivitiesByCity(ctx context.Context, cityID uuid.UUID) ([]domain.Activity, error) {
	return readThrough(ctx, c, cityActivitiesKey(cityID), func() ([]domain.Activity, error) {
		return c.next.ListActivitiesByCity(ctx, cityID)
	})
}

// GetActivitiesByIDs serves what it can with one MGET and loads the misses
// from the wrapped repo in a single query.
func (c *cachedCatalogRepo) GetActivitiesByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Activity, error) {
	if len(ids) == 0 {
		return []domain.Activity{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = activityKey(id)
	}

	vals, err := c.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		c.log.WarnContext(ctx, "catalog cache read failed", "op", "GetActivitiesByIDs", "error", err)
		return c.next.GetActivitiesByIDs(ctx, ids)
	}

	found := make([]domain.Activity, 0, len(ids))
	var missing []uuid.UUID
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			missing = append(missing, ids[i])
			continue
		}
		var a domain.Activity
		if err := json.Unmarshal([]byte(s), &a); err != nil {
			missing = append(missing, ids[i])
			continue
		}
		found = append(found, a)
	}
	if len(missing) == 0 {
		return found, nil
	}

	loaded, err := c.next.GetActivitiesByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}
	for _, a := range loaded {
		c.store(ctx, activityKey(a.ID), a)
	}
	return append(found, loaded...), nil
}

// readThrough returns the cached value under key, or calls load and caches
// its result. Load errors are returned as-is and leave the cache untouched.
func readThrough[T any](ctx context.Context, c *cachedCatalogRepo, key string, load func() (T, error)) (T, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var v T
		if jerr := json.Unmarshal(raw, &v); jerr == nil {
			return v, nil
		}
		c.log.WarnContext(ctx, "catalog cache entry unreadable", "key", key)
	case !errors.Is(err, redis.Nil):
		c.log.WarnContext(ctx, "catalog cache read failed", "key", key, "error", err)
	}

	v, err := load()
	if err != nil {
		return v, err
	}
	c.store(ctx, key, v)
	return v, nil
}

func (c *cachedCatalogRepo) store(ctx context.Context, key string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		c.log.WarnContext(ctx, "catalog cache encode failed", "key", key, "error", err)
		return
	}
	if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
		c.log.WarnContext(ctx, "catalog cache write failed", "key", key, "error", err)
	}
}
