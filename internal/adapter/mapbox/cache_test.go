package mapbox

import (
	"context"
	"errors"
	"testing"

	"github.com/couchcryptid/rainfall-explorer/internal/domain"
	"github.com/couchcryptid/rainfall-explorer/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingNamer struct {
	calls  int
	result domain.GeocodingResult
	err    error
}

func (m *countingNamer) ReverseGeocode(_ context.Context, _, _ float64) (domain.GeocodingResult, error) {
	m.calls++
	return m.result, m.err
}

func TestCachedPlaceNamer_CacheHit(t *testing.T) {
	inner := &countingNamer{result: domain.GeocodingResult{PlaceName: "Kuala Lumpur", FormattedAddress: "Kuala Lumpur, Malaysia"}}
	metrics := observability.NewMetricsForTesting()
	cached := NewCachedPlaceNamer(inner, 10, metrics)

	r1, err := cached.ReverseGeocode(context.Background(), 3.139, 101.687)
	require.NoError(t, err)
	r2, err := cached.ReverseGeocode(context.Background(), 3.139, 101.687)
	require.NoError(t, err)

	assert.Equal(t, r1, r2)
	assert.Equal(t, 1, inner.calls, "should only call inner once")
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.GeocodeCache.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.GeocodeCache.WithLabelValues("miss")))
}

func TestCachedPlaceNamer_DifferentKeysMiss(t *testing.T) {
	inner := &countingNamer{result: domain.GeocodingResult{FormattedAddress: "Somewhere"}}
	cached := NewCachedPlaceNamer(inner, 10, observability.NewMetricsForTesting())

	_, _ = cached.ReverseGeocode(context.Background(), 3.139, 101.687)
	_, _ = cached.ReverseGeocode(context.Background(), 5.414, 100.329)

	assert.Equal(t, 2, inner.calls)
}

func TestCachedPlaceNamer_EmptyAndErrorsNotCached(t *testing.T) {
	inner := &countingNamer{}
	cached := NewCachedPlaceNamer(inner, 10, observability.NewMetricsForTesting())

	_, _ = cached.ReverseGeocode(context.Background(), 3.139, 101.687)
	_, _ = cached.ReverseGeocode(context.Background(), 3.139, 101.687)
	assert.Equal(t, 2, inner.calls)

	inner.err = errors.New("rate limited")
	_, err := cached.ReverseGeocode(context.Background(), 3.139, 101.687)
	assert.Error(t, err)
	assert.Equal(t, 0, cached.cache.len())
}

// --- LRU cache unit tests ---

func TestLRUCache_BasicGetPut(t *testing.T) {
	c := newLRUCache[string](3)

	c.put("a", "A")
	c.put("b", "B")

	v, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, "A", v)

	_, ok = c.get("missing")
	assert.False(t, ok)
}

func TestLRUCache_Eviction(t *testing.T) {
	c := newLRUCache[string](2)

	c.put("a", "A")
	c.put("b", "B")
	c.put("c", "C") // evicts "a"

	_, ok := c.get("a")
	assert.False(t, ok, "a should have been evicted")
	assert.Equal(t, 2, c.len())

	v, ok := c.get("c")
	assert.True(t, ok)
	assert.Equal(t, "C", v)
}

func TestLRUCache_AccessPromotesEntry(t *testing.T) {
	c := newLRUCache[string](2)

	c.put("a", "A")
	c.put("b", "B")
	c.get("a")
	c.put("c", "C")

	_, ok := c.get("a")
	assert.True(t, ok, "a was accessed recently, should not be evicted")
	_, ok = c.get("b")
	assert.False(t, ok, "b should have been evicted")
}

func TestLRUCache_UpdateExisting(t *testing.T) {
	c := newLRUCache[string](2)

	c.put("a", "A1")
	c.put("a", "A2")

	v, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, "A2", v)
	assert.Equal(t, 1, c.len())
}
