package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/boostclient/boostclient-service/internal/domain"
	"github.com/boostclient/boostclient-service/internal/ports"
)

const cacheKeyPrefix = "boostclient"

// EntityCache keeps loaded records in a ports.Cache, grouped into regions
// named after the entity. A region is invalidated as a whole by rotating its
// version, which orphans every entry written under the previous one.
//
// Inside a transaction a region that has been written is read from and
// written to the database only, and its invalidation is deferred until the
// transaction completes. Cache failures are logged and treated as misses.
type EntityCache struct {
	cache  ports.Cache
	ttl    time.Duration
	logger *slog.Logger
}

// NewEntityCache creates an EntityCache. A zero ttl keeps entries until the
// region is invalidated.
func NewEntityCache(cache ports.Cache, ttl time.Duration, logger *slog.Logger) *EntityCache {
	if logger == nil {
		logger = slog.Default()
	}

	return &EntityCache{
		cache:  cache,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "entity_cache")),
	}
}

// CacheSlot is the versioned key an entry was looked up under. Storing into
// a slot whose region has since been rotated writes an orphan that no reader
// will find, so a row read before a concurrent commit is never served after it.
type CacheSlot struct {
	region string
	key    string
}

// Load decodes the cached entry for id in region into dst and reports whether
// it was found. The returned slot is where a miss should be filled; it is the
// zero slot when the region is bypassed or its version could not be read.
func (c *EntityCache) Load(ctx context.Context, region string, id int64, dst any) (CacheSlot, bool) {
	if c.bypass(ctx, region) {
		return CacheSlot{}, false
	}

	key, err := c.entryKey(ctx, region, id)
	if err != nil {
		c.warn(ctx, "cache version lookup failed", region, err)
		return CacheSlot{}, false
	}

	slot := CacheSlot{region: region, key: key}

	data, err := c.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			c.warn(ctx, "cache read failed", region, err)
		}

		return slot, false
	}

	if err := json.Unmarshal(data, dst); err != nil {
		c.warn(ctx, "cache entry is corrupt", region, err)

		if err := c.cache.Delete(ctx, key); err != nil {
			c.warn(ctx, "cache delete failed", region, err)
		}

		return slot, false
	}

	return slot, true
}

// Store caches value in the slot returned by Load. The zero slot is ignored.
func (c *EntityCache) Store(ctx context.Context, slot CacheSlot, value any) {
	if slot.key == "" || c.bypass(ctx, slot.region) {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		c.warn(ctx, "cache entry encoding failed", slot.region, err)
		return
	}

	if err := c.cache.Set(ctx, slot.key, data, c.ttlSeconds()); err != nil {
		c.warn(ctx, "cache write failed", slot.region, err)
	}
}

// ttlSeconds rounds the ttl up to whole seconds, so a sub-second ttl still
// expires instead of collapsing to the cache's "no expiry" zero.
func (c *EntityCache) ttlSeconds() int {
	if c.ttl <= 0 {
		return 0
	}

	return int((c.ttl + time.Second - 1) / time.Second)
}

// Invalidate drops every entry in the regions. Within a transaction the
// regions are marked dirty and dropped once the transaction completes.
func (c *EntityCache) Invalidate(ctx context.Context, regions ...string) {
	uow := unitOfWorkFrom(ctx)
	if uow == nil {
		c.rotate(ctx, regions...)
		return
	}

	uow.markDirty(regions...)
	uow.onCompletion(func(ctx context.Context) {
		c.rotate(ctx, regions...)
	})
}

func (c *EntityCache) rotate(ctx context.Context, regions ...string) {
	for _, region := range regions {
		if err := c.cache.Set(ctx, versionKey(region), []byte(uuid.NewString()), 0); err != nil {
			c.warn(ctx, "cache invalidation failed", region, err)
		}
	}
}

func (c *EntityCache) bypass(ctx context.Context, region string) bool {
	uow := unitOfWorkFrom(ctx)
	return uow != nil && uow.isDirty(region)
}

func (c *EntityCache) entryKey(ctx context.Context, region string, id int64) (string, error) {
	version, err := c.version(ctx, region)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s:%s:%s:%d", cacheKeyPrefix, region, version, id), nil
}

// version returns the current version of region, starting a fresh one when
// none is stored so that an evicted version never revives old entries.
func (c *EntityCache) version(ctx context.Context, region string) (string, error) {
	data, err := c.cache.Get(ctx, versionKey(region))
	if err == nil {
		return string(data), nil
	}

	if !errors.Is(err, domain.ErrNotFound) {
		return "", err
	}

	version := uuid.NewString()
	if err := c.cache.Set(ctx, versionKey(region), []byte(version), 0); err != nil {
		return "", err
	}

	return version, nil
}

func (c *EntityCache) warn(ctx context.Context, msg, region string, err error) {
	c.logger.WarnContext(ctx, msg,
		slog.String("region", region),
		slog.String("error", err.Error()),
	)
}

func versionKey(region string) string {
	return cacheKeyPrefix + ":" + region + ":version"
}
