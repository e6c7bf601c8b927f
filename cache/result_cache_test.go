package cache

import (
	"context"
	"testing"
	"time"

	"SetRadar/model"
)

func TestResultCacheWithoutRedisIsMiss(t *testing.T) {
	RedisClient = nil
	c := NewResultCache(time.Hour)

	if _, ok := c.Get(context.Background(), "recog:abc"); ok {
		t.Fatal("expected a miss without a Redis connection")
	}
	// Set must be a silent no-op, not a panic.
	c.Set(context.Background(), "recog:abc", model.SegmentResult{Matched: true, TrackID: "t"})
}
