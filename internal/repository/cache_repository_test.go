package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	appErrors "github.com/znlumins/webkalenderaihmpsti/pkg/errors"
)

func TestCacheRepositoryWithoutRedis(t *testing.T) {
	repo := NewCacheRepository(nil, "kalender")
	ctx := context.Background()

	var out []string
	assert.ErrorIs(t, repo.Get(ctx, "events:list:all", &out), appErrors.ErrCacheMiss)
	assert.NoError(t, repo.Set(ctx, "events:list:all", []string{"a"}, time.Minute))
	assert.NoError(t, repo.DeleteByPattern(ctx, "events:*"))
	assert.Equal(t, "kalender:events:*", repo.key("events:*"))
}
