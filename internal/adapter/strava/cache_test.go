package strava

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/surf-session-etl/internal/cache"
	"github.com/couchcryptid/surf-session-etl/internal/domain"
	"github.com/couchcryptid/surf-session-etl/internal/observability"
)

type countingSource struct {
	listCalls   int
	detailCalls int
	detail      domain.ActivityDetail
}

func (s *countingSource) ListActivities(_ context.Context, _ int64) ([]domain.Activity, error) {
	s.listCalls++
	return []domain.Activity{{ID: 1, Type: "Windsurf"}}, nil
}

func (s *countingSource) ActivityDetail(_ context.Context, _ int64) (domain.ActivityDetail, error) {
	s.detailCalls++
	return s.detail, nil
}

func TestCachedSource_DetailHitsCache(t *testing.T) {
	src := &countingSource{detail: domain.ActivityDetail{Name: "Stavoren flat water", AthleteCount: 2}}
	cached := NewCachedSource(src, cache.NewMemory(nil), 30*time.Minute, observability.NewMetricsForTesting())

	first, err := cached.ActivityDetail(context.Background(), 42)
	require.NoError(t, err)

	second, err := cached.ActivityDetail(context.Background(), 42)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, src.detailCalls, "second fetch served from cache")
}

func TestCachedSource_DistinctIDsMiss(t *testing.T) {
	src := &countingSource{}
	cached := NewCachedSource(src, cache.NewMemory(nil), 30*time.Minute, observability.NewMetricsForTesting())

	_, err := cached.ActivityDetail(context.Background(), 1)
	require.NoError(t, err)
	_, err = cached.ActivityDetail(context.Background(), 2)
	require.NoError(t, err)

	assert.Equal(t, 2, src.detailCalls)
}

func TestCachedSource_ListNeverCached(t *testing.T) {
	src := &countingSource{}
	cached := NewCachedSource(src, cache.NewMemory(nil), 30*time.Minute, observability.NewMetricsForTesting())

	for i := 0; i < 3; i++ {
		_, err := cached.ListActivities(context.Background(), 0)
		require.NoError(t, err)
	}

	assert.Equal(t, 3, src.listCalls)
}
