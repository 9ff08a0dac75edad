package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/gmao/internal/ports/secondary"
)

type fakeKV struct {
	values map[string]string
	ttls   map[string]time.Duration
	err    error
}

func newFakeKV() *fakeKV {
	return &fakeKV{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeKV) Get(_ context.Context, key string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	v, ok := f.values[key]
	if !ok {
		return "", secondary.ErrCacheMiss
	}
	return v, nil
}

func (f *fakeKV) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	if f.err != nil {
		return f.err
	}
	f.values[key] = value
	f.ttls[key] = ttl
	return nil
}

func (f *fakeKV) Del(_ context.Context, key string) error {
	if f.err != nil {
		return f.err
	}
	delete(f.values, key)
	return nil
}

func TestRiskCache_SetGet(t *testing.T) {
	kv := newFakeKV()
	cache := NewRiskCache(kv)
	ctx := context.Background()
	computed := time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)

	record := &secondary.RiskRecord{
		ElevatorID:      "ELEV-001",
		Score:           66,
		Tier:            "moderate",
		Explanation:     "Moderate failure risk.",
		RecentFaults:    2,
		DaysSinceRepair: 45,
		ComputedAt:      computed,
	}
	require.NoError(t, cache.Set(ctx, record, time.Minute))
	assert.Equal(t, time.Minute, kv.ttls["gmao:risk:ELEV-001"])

	got, err := cache.Get(ctx, "ELEV-001")
	require.NoError(t, err)
	assert.Equal(t, 66, got.Score)
	assert.Equal(t, "moderate", got.Tier)
	assert.Equal(t, 45, got.DaysSinceRepair)
	assert.True(t, got.ComputedAt.Equal(computed))
}

func TestRiskCache_MissAndInvalidate(t *testing.T) {
	kv := newFakeKV()
	cache := NewRiskCache(kv)
	ctx := context.Background()

	_, err := cache.Get(ctx, "ELEV-001")
	assert.ErrorIs(t, err, secondary.ErrCacheMiss)

	require.NoError(t, cache.Set(ctx, &secondary.RiskRecord{ElevatorID: "ELEV-001", Score: 10}, 0))
	require.NoError(t, cache.Invalidate(ctx, "ELEV-001"))

	_, err = cache.Get(ctx, "ELEV-001")
	assert.ErrorIs(t, err, secondary.ErrCacheMiss)
}

func TestRiskCache_CorruptEntryIsMiss(t *testing.T) {
	kv := newFakeKV()
	kv.values["gmao:risk:ELEV-001"] = "{not json"
	cache := NewRiskCache(kv)

	_, err := cache.Get(context.Background(), "ELEV-001")
	assert.ErrorIs(t, err, secondary.ErrCacheMiss)
}

func TestRiskCache_BackendError(t *testing.T) {
	kv := newFakeKV()
	kv.err = errors.New("connection refused")
	cache := NewRiskCache(kv)
	ctx := context.Background()

	_, err := cache.Get(ctx, "ELEV-001")
	require.Error(t, err)
	assert.False(t, errors.Is(err, secondary.ErrCacheMiss))

	assert.Error(t, cache.Set(ctx, &secondary.RiskRecord{ElevatorID: "ELEV-001"}, time.Second))
	assert.Error(t, cache.Invalidate(ctx, "ELEV-001"))
}
