package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/znlumins/webkalenderaihmpsti/internal/models"
	"github.com/znlumins/webkalenderaihmpsti/pkg/realtime"
)

func TestEventListKey(t *testing.T) {
	from := time.Unix(1723420800, 0)
	to := time.Unix(1723507200, 0)
	assert.Equal(t, "events:list:all:-:-", eventListKey(models.EventFilter{}))
	assert.Equal(t, "events:list:3:1723420800:1723507200", eventListKey(models.EventFilter{DepartmentID: intPtr(3), From: &from, To: &to}))
}

func TestEventCacheFallsThroughOnReadError(t *testing.T) {
	repo := newMockCacheRepo()
	repo.getErr = errors.New("redis down")
	cache := NewEventCache(repo, nil, time.Minute, zap.NewNop(), true)

	calls := 0
	events, hit, err := cache.Load(context.Background(), models.EventFilter{}, func(context.Context) ([]models.Event, error) {
		calls++
		return []models.Event{{ID: "a"}}, nil
	})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Len(t, events, 1)
	assert.Equal(t, 1, calls)
}

func TestEventCacheDisabled(t *testing.T) {
	repo := newMockCacheRepo()
	cache := NewEventCache(repo, nil, time.Minute, zap.NewNop(), false)
	assert.False(t, cache.Enabled())

	_, hit, err := cache.Load(context.Background(), models.EventFilter{}, func(context.Context) ([]models.Event, error) {
		return nil, nil
	})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Zero(t, repo.size())

	var nilCache *EventCache
	assert.False(t, nilCache.Enabled())
}

func TestEventCacheWatchInvalidatesOnChange(t *testing.T) {
	repo := newMockCacheRepo()
	require.NoError(t, repo.Set(context.Background(), "events:list:all:-:-", []models.Event{{ID: "a"}}, time.Minute))
	cache := NewEventCache(repo, nil, time.Minute, zap.NewNop(), true)

	hub := realtime.NewHub(4, zap.NewNop())
	changes, unsubscribe := hub.Subscribe()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		cache.Watch(ctx, changes)
		close(done)
	}()

	require.NoError(t, hub.Publish(ctx, realtime.Change{Table: "events", Action: realtime.ActionInsert, ID: "b"}))
	assert.Eventually(t, func() bool { return repo.size() == 0 }, time.Second, 10*time.Millisecond)

	cancel()
	unsubscribe()
	<-done
}

func TestEventCacheSkipsStoreWhenInvalidatedDuringLoad(t *testing.T) {
	repo := newMockCacheRepo()
	cache := NewEventCache(repo, nil, time.Minute, zap.NewNop(), true)

	events, hit, err := cache.Load(context.Background(), models.EventFilter{}, func(ctx context.Context) ([]models.Event, error) {
		cache.Invalidate(ctx)
		return []models.Event{{ID: "stale"}}, nil
	})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Len(t, events, 1)
	assert.Zero(t, repo.size())

	calls := 0
	_, _, err = cache.Load(context.Background(), models.EventFilter{}, func(context.Context) ([]models.Event, error) {
		calls++
		return []models.Event{{ID: "fresh"}}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, repo.size())
}
