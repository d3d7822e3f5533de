package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/znlumins/webkalenderaihmpsti/internal/models"
	appErrors "github.com/znlumins/webkalenderaihmpsti/pkg/errors"
	"github.com/znlumins/webkalenderaihmpsti/pkg/realtime"
)

const eventCachePattern = "events:*"

// CacheRepository abstracts persistence for cached payloads.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// EventCache is a read-through cache for event listings. Any change drops
// every cached listing; nothing is patched in place.
type EventCache struct {
	repo    CacheRepository
	metrics *MetricsService
	ttl     time.Duration
	logger  *zap.Logger
	enabled bool

	// generation moves on every Invalidate. A listing loaded across a move
	// may predate the write and is not stored.
	generation atomic.Uint64
}

// NewEventCache constructs the cache. A nil repo disables it.
func NewEventCache(repo CacheRepository, metrics *MetricsService, ttl time.Duration, logger *zap.Logger, enabled bool) *EventCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventCache{repo: repo, metrics: metrics, ttl: ttl, logger: logger, enabled: enabled}
}

// Enabled indicates whether caching is active.
func (c *EventCache) Enabled() bool {
	return c != nil && c.enabled && c.repo != nil
}

// Load returns the cached listing for filter or calls load and stores its result.
// Cache failures fall through to load; the bool reports a cache hit.
func (c *EventCache) Load(ctx context.Context, filter models.EventFilter, load func(context.Context) ([]models.Event, error)) ([]models.Event, bool, error) {
	if !c.Enabled() {
		events, err := load(ctx)
		return events, false, err
	}

	key := eventListKey(filter)
	generation := c.generation.Load()
	var cached []models.Event
	start := time.Now()
	err := c.repo.Get(ctx, key, &cached)
	switch {
	case err == nil:
		c.metrics.RecordCacheLookup("hit", time.Since(start))
		return cached, true, nil
	case errors.Is(err, appErrors.ErrCacheMiss):
		c.metrics.RecordCacheLookup("miss", time.Since(start))
	default:
		c.metrics.RecordCacheLookup("error", time.Since(start))
		c.logger.Warn("event cache read failed", zap.String("key", key), zap.Error(err))
	}

	events, err := load(ctx)
	if err != nil {
		return nil, false, err
	}
	if c.generation.Load() != generation {
		return events, false, nil
	}
	if err := c.repo.Set(ctx, key, events, c.ttl); err != nil {
		c.logger.Warn("event cache write failed", zap.String("key", key), zap.Error(err))
	}
	return events, false, nil
}

// Invalidate drops every cached listing.
func (c *EventCache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	c.generation.Add(1)
	if !c.Enabled() {
		return
	}
	if err := c.repo.DeleteByPattern(ctx, eventCachePattern); err != nil {
		c.logger.Warn("event cache invalidate failed", zap.Error(err))
	}
}

// Watch invalidates on every change received until ctx ends or changes closes.
// It picks up writes made by other instances through the shared feed.
func (c *EventCache) Watch(ctx context.Context, changes <-chan realtime.Change) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-changes:
			if !ok {
				return
			}
			c.Invalidate(ctx)
		}
	}
}

func eventListKey(filter models.EventFilter) string {
	dept := "all"
	if filter.DepartmentID != nil {
		dept = fmt.Sprintf("%d", *filter.DepartmentID)
	}
	return fmt.Sprintf("events:list:%s:%s:%s", dept, unixOrDash(filter.From), unixOrDash(filter.To))
}

func unixOrDash(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return fmt.Sprintf("%d", t.Unix())
}
