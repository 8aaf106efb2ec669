package listing

import (
	"context"
	"encoding/json"
	"time"

	"github.com/bahayahay/realty/internal/cache"
	"go.uber.org/zap"
)

// CachedStore is a read-through cache in front of another Store. Reads are
// cached as JSON for ttl; any write drops every cached entry of its kind.
// Cache failures are logged and fall through to the underlying store.
type CachedStore struct {
	next   Store
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedStore wraps next with c.
func NewCachedStore(next Store, c cache.Cache, ttl time.Duration, logger *zap.Logger) *CachedStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedStore{next: next, cache: c, ttl: ttl, logger: logger}
}

// Ping forwards to the underlying store when it supports it.
func (c *CachedStore) Ping(ctx context.Context) error {
	if pinger, ok := c.next.(Pinger); ok {
		return pinger.Ping(ctx)
	}
	return nil
}

func cacheKey(kind Kind, parts ...string) string {
	key := string(kind) + ":"
	for i, part := range parts {
		if i > 0 {
			key += ":"
		}
		key += part
	}
	return key
}

func readThrough[T any](ctx context.Context, c *CachedStore, key string, load func() (T, error)) (T, error) {
	if raw, ok := c.cache.Get(ctx, key); ok {
		var cached T
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			return cached, nil
		}
		c.logger.Warn("discarding undecodable cache entry",
			zap.String("op", "listing.readThrough"),
			zap.String("key", key),
		)
	}

	value, err := load()
	if err != nil {
		return value, err
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("failed to encode cache entry",
			zap.String("op", "listing.readThrough"),
			zap.String("key", key),
			zap.Error(err),
		)
		return value, nil
	}
	if err := c.cache.Set(ctx, key, string(encoded), c.ttl); err != nil {
		c.logger.Warn("failed to populate cache",
			zap.String("op", "listing.readThrough"),
			zap.String("key", key),
			zap.Error(err),
		)
	}
	return value, nil
}

// invalidate drops every cached entry of kind.
func (c *CachedStore) invalidate(ctx context.Context, kind Kind) {
	var err error
	if prefixer, ok := c.cache.(cache.Prefixer); ok {
		err = prefixer.DeletePrefix(ctx, cacheKey(kind))
	} else {
		err = c.cache.Delete(ctx, cacheKey(kind, "list"))
	}
	if err != nil {
		c.logger.Warn("failed to invalidate cache",
			zap.String("op", "listing.invalidate"),
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
	}
}

func (c *CachedStore) ListSeries(ctx context.Context) ([]Series, error) {
	return readThrough(ctx, c, cacheKey(KindSeries, "list"), func() ([]Series, error) {
		return c.next.ListSeries(ctx)
	})
}

func (c *CachedStore) GetSeries(ctx context.Context, id string) (Series, error) {
	return readThrough(ctx, c, cacheKey(KindSeries, "get", id), func() (Series, error) {
		return c.next.GetSeries(ctx, id)
	})
}

func (c *CachedStore) SaveSeries(ctx context.Context, s Series) (Series, error) {
	defer c.invalidate(ctx, KindSeries)
	return c.next.SaveSeries(ctx, s)
}

func (c *CachedStore) DeleteSeries(ctx context.Context, id string) error {
	defer c.invalidate(ctx, KindSeries)
	return c.next.DeleteSeries(ctx, id)
}

func (c *CachedStore) ListUnits(ctx context.Context) ([]Unit, error) {
	return readThrough(ctx, c, cacheKey(KindUnits, "list"), func() ([]Unit, error) {
		return c.next.ListUnits(ctx)
	})
}

func (c *CachedStore) ListUnitsBySeries(ctx context.Context, seriesID string) ([]Unit, error) {
	return readThrough(ctx, c, cacheKey(KindUnits, "series", seriesID), func() ([]Unit, error) {
		return c.next.ListUnitsBySeries(ctx, seriesID)
	})
}

func (c *CachedStore) GetUnit(ctx context.Context, id string) (Unit, error) {
	return readThrough(ctx, c, cacheKey(KindUnits, "get", id), func() (Unit, error) {
		return c.next.GetUnit(ctx, id)
	})
}

func (c *CachedStore) SaveUnit(ctx context.Context, u Unit) (Unit, error) {
	defer c.invalidate(ctx, KindUnits)
	return c.next.SaveUnit(ctx, u)
}

func (c *CachedStore) DeleteUnit(ctx context.Context, id string) error {
	defer c.invalidate(ctx, KindUnits)
	return c.next.DeleteUnit(ctx, id)
}

func (c *CachedStore) ListLotOnly(ctx context.Context) ([]LotOnly, error) {
	return readThrough(ctx, c, cacheKey(KindLotOnly, "list"), func() ([]LotOnly, error) {
		return c.next.ListLotOnly(ctx)
	})
}

func (c *CachedStore) GetLotOnly(ctx context.Context, id string) (LotOnly, error) {
	return readThrough(ctx, c, cacheKey(KindLotOnly, "get", id), func() (LotOnly, error) {
		return c.next.GetLotOnly(ctx, id)
	})
}

func (c *CachedStore) SaveLotOnly(ctx context.Context, l LotOnly) (LotOnly, error) {
	defer c.invalidate(ctx, KindLotOnly)
	return c.next.SaveLotOnly(ctx, l)
}

func (c *CachedStore) DeleteLotOnly(ctx context.Context, id string) error {
	defer c.invalidate(ctx, KindLotOnly)
	return c.next.DeleteLotOnly(ctx, id)
}

func (c *CachedStore) ListAgents(ctx context.Context) ([]Agent, error) {
	return readThrough(ctx, c, cacheKey(KindAgents, "list"), func() ([]Agent, error) {
		return c.next.ListAgents(ctx)
	})
}

func (c *CachedStore) GetAgent(ctx context.Context, id string) (Agent, error) {
	return readThrough(ctx, c, cacheKey(KindAgents, "get", agentKey(id)), func() (Agent, error) {
		return c.next.GetAgent(ctx, id)
	})
}

func (c *CachedStore) SaveAgent(ctx context.Context, a Agent) (Agent, error) {
	defer c.invalidate(ctx, KindAgents)
	return c.next.SaveAgent(ctx, a)
}

func (c *CachedStore) DeleteAgent(ctx context.Context, id string) error {
	defer c.invalidate(ctx, KindAgents)
	return c.next.DeleteAgent(ctx, id)
}

func (c *CachedStore) ListDevelopers(ctx context.Context) ([]Developer, error) {
	return readThrough(ctx, c, cacheKey(KindDevelopers, "list"), func() ([]Developer, error) {
		return c.next.ListDevelopers(ctx)
	})
}

func (c *CachedStore) ListDeveloperProjects(ctx context.Context, developerID string) ([]DeveloperProject, error) {
	return readThrough(ctx, c, cacheKey(KindDevelopers, "projects", developerID), func() ([]DeveloperProject, error) {
		return c.next.ListDeveloperProjects(ctx, developerID)
	})
}
