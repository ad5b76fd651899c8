package cache

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"pty_logistics/internal/pricing"
)

func TestQuoteCacheRoundtrip(t *testing.T) {
	mr := miniredis.RunT(t)
	qc := NewQuoteCache(mr.Addr(), time.Minute)

	ctx := context.Background()
	key := qc.Key(7, "single", 4, 1.5)
	want := pricing.Breakdown{BasePrice: 150, WaitingTime: 15, Total: 165}

	require.NoError(t, qc.Set(ctx, key, want))

	got, ok, err := qc.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, want, got)
}

func TestQuoteCacheMiss(t *testing.T) {
	mr := miniredis.RunT(t)
	qc := NewQuoteCache(mr.Addr(), time.Minute)

	_, ok, err := qc.Get(context.Background(), "quote:1:single:2:0")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestQuoteCacheExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	qc := NewQuoteCache(mr.Addr(), time.Second)

	ctx := context.Background()
	key := qc.Key(7, "single", 4, 0)
	require.NoError(t, qc.Set(ctx, key, pricing.Breakdown{BasePrice: 150, Total: 150}))

	mr.FastForward(2 * time.Second)

	_, ok, err := qc.Get(ctx, key)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestQuoteCacheKeyIsDistinctPerRequest(t *testing.T) {
	qc := NewQuoteCache("localhost:6379", time.Minute)

	a := qc.Key(1, "single", 2, 0)
	b := qc.Key(1, "single", 3, 0)
	c := qc.Key(1, "roundtrip", 2, 0)
	d := qc.Key(2, "single", 2, 0)

	keys := map[string]bool{a: true, b: true, c: true, d: true}
	require.Len(t, keys, 4)
}
