package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	"SetRadar/logger"
	"SetRadar/model"
)

// ResultCache stores per-segment recognition outcomes keyed by a hash of the
// segment audio, so reprocessing the same file skips the remote service for
// segments it has already answered. Cache trouble is never fatal: a miss is
// returned and the run queries the service as usual.
type ResultCache struct {
	ttl time.Duration
}

// NewResultCache returns a cache with the given entry lifetime. Requires
// ConnectRedis to have succeeded.
func NewResultCache(ttl time.Duration) *ResultCache {
	return &ResultCache{ttl: ttl}
}

// cachedResult is the stored subset of a SegmentResult; the segment index is
// positional and never cached.
type cachedResult struct {
	Matched    bool    `json:"matched"`
	TrackID    string  `json:"trackId,omitempty"`
	Title      string  `json:"title,omitempty"`
	Artist     string  `json:"artist,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	RawLabel   string  `json:"rawLabel,omitempty"`
}

// Get looks up a previous recognition outcome for the keyed audio.
func (c *ResultCache) Get(ctx context.Context, key string) (*model.SegmentResult, bool) {
	if RedisClient == nil {
		return nil, false
	}

	data, err := RedisClient.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Warn("result cache lookup failed",
				logger.String("key", key),
				logger.ErrorField(err))
		}
		return nil, false
	}

	var stored cachedResult
	if err := json.Unmarshal(data, &stored); err != nil {
		logger.Warn("result cache entry is corrupt, ignoring",
			logger.String("key", key),
			logger.ErrorField(err))
		return nil, false
	}

	// Entries are only ever written for definitive outcomes.
	return &model.SegmentResult{
		Matched:    stored.Matched,
		TrackID:    stored.TrackID,
		Title:      stored.Title,
		Artist:     stored.Artist,
		Confidence: stored.Confidence,
		RawLabel:   stored.RawLabel,
		Definitive: true,
	}, true
}

// Set stores a recognition outcome for the keyed audio.
func (c *ResultCache) Set(ctx context.Context, key string, r model.SegmentResult) {
	if RedisClient == nil {
		return
	}

	data, err := json.Marshal(cachedResult{
		Matched:    r.Matched,
		TrackID:    r.TrackID,
		Title:      r.Title,
		Artist:     r.Artist,
		Confidence: r.Confidence,
		RawLabel:   r.RawLabel,
	})
	if err != nil {
		logger.Warn("failed to encode result cache entry", logger.ErrorField(err))
		return
	}

	if err := RedisClient.Set(ctx, key, data, c.ttl).Err(); err != nil {
		logger.Warn("failed to store result cache entry",
			logger.String("key", key),
			logger.ErrorField(err))
	}
}
