package recognizer

import (
	"context"
	"time"

	"SetRadar/config"
	"SetRadar/logger"
	"SetRadar/model"
)

// Executor runs the full recognition attempt chain for one segment: primary
// service with retry/backoff and proxy rotation, then the optional fallback
// service for segments the primary could not identify. All failures resolve
// to an unmatched result; nothing propagates past the segment boundary.
type Executor struct {
	primary  Client
	fallback Client // nil when no fallback is configured
	rotation *Rotation
	opts     config.RetryOptions
}

// NewExecutor builds an executor. fallback may be nil.
func NewExecutor(primary, fallback Client, rotation *Rotation, opts config.RetryOptions) *Executor {
	return &Executor{
		primary:  primary,
		fallback: fallback,
		rotation: rotation,
		opts:     opts,
	}
}

// Execute resolves one segment to its SegmentResult. The context cancels
// in-flight requests and cuts backoff waits short. Definitive is set only
// when every consulted service actually answered; exhausted retries and
// cancellations leave it false so the outcome is never cached.
func (e *Executor) Execute(ctx context.Context, seg model.Segment, audio []byte) model.SegmentResult {
	match, answered := e.attempt(ctx, e.primary, seg.Index, audio)
	if match == nil && e.fallback != nil && ctx.Err() == nil {
		logger.Debug("primary service had no match, trying fallback",
			logger.Int("segment", seg.Index),
			logger.String("fallback", e.fallback.Name()))
		var fallbackAnswered bool
		match, fallbackAnswered = e.attempt(ctx, e.fallback, seg.Index, audio)
		answered = answered && fallbackAnswered
	}

	if match == nil {
		return model.SegmentResult{SegmentIndex: seg.Index, Definitive: answered}
	}
	return model.SegmentResult{
		SegmentIndex: seg.Index,
		Matched:      true,
		TrackID:      match.TrackID,
		Title:        match.Title,
		Artist:       match.Artist,
		Confidence:   match.Confidence,
		RawLabel:     match.RawLabel,
		Definitive:   true,
	}
}

// attempt drives the retry state machine against one client. Transient errors
// back off up to the retry budget; a proxy-auth rejection rotates to the next
// endpoint exactly once, and that rotated identity gets one full attempt even
// when the rejection landed on the last budgeted try. Returns a nil match on
// no-match or exhaustion; answered reports whether the service gave a real
// response rather than failing.
func (e *Executor) attempt(ctx context.Context, client Client, segIndex int, audio []byte) (match *Match, answered bool) {
	proxy := e.rotation.Next()
	rotated := false

	for attempt := 1; attempt <= e.opts.MaxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, false
		}

		match, err := client.Recognize(ctx, audio, proxy)
		if err == nil {
			return match, true
		}

		switch {
		case IsProxyAuth(err):
			if !rotated && e.rotation.Size() > 1 {
				proxy = e.rotation.Next()
				rotated = true
				logger.Warn("proxy rejected credentials, rotating",
					logger.Int("segment", segIndex),
					logger.String("service", client.Name()),
					logger.String("nextProxy", proxyLabel(proxy)))
				// The rotation retry does not consume the transient budget.
				attempt--
				continue
			}
			logger.Warn("proxy rejected credentials with no rotation left, giving up",
				logger.Int("segment", segIndex),
				logger.String("service", client.Name()))
			return nil, false

		case IsTransient(err):
			if attempt == e.opts.MaxRetries {
				logger.Warn("retries exhausted for segment",
					logger.Int("segment", segIndex),
					logger.String("service", client.Name()),
					logger.Int("attempts", attempt),
					logger.ErrorField(err))
				return nil, false
			}
			delay := e.opts.RetryDelay * time.Duration(attempt)
			logger.Debug("transient recognition error, backing off",
				logger.Int("segment", segIndex),
				logger.String("service", client.Name()),
				logger.Int("attempt", attempt),
				logger.Duration("delay", delay),
				logger.ErrorField(err))
			if !sleepCtx(ctx, delay) {
				return nil, false
			}

		default:
			logger.Warn("unrecoverable recognition error for segment",
				logger.Int("segment", segIndex),
				logger.String("service", client.Name()),
				logger.ErrorField(err))
			return nil, false
		}
	}
	return nil, false
}

// sleepCtx waits for d or until ctx is cancelled; false means cancelled.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
