package scheduler

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"runtime"
	"sort"
	"sync"

	"SetRadar/logger"
	"SetRadar/model"
)

// Runner resolves one segment to its result. Implemented by the recognizer
// executor; replaced by fakes in tests.
type Runner interface {
	Execute(ctx context.Context, seg model.Segment, audio []byte) model.SegmentResult
}

// ResultCache shortcuts recognition for audio already seen in a previous run.
// Implemented over Redis; nil disables caching.
type ResultCache interface {
	Get(ctx context.Context, key string) (*model.SegmentResult, bool)
	Set(ctx context.Context, key string, r model.SegmentResult)
}

// Scheduler dispatches segments to a bounded worker pool and reassembles the
// per-segment results into strict index order regardless of completion order.
// Individual segment failures never abort the run.
type Scheduler struct {
	exec     Runner
	cache    ResultCache
	workers  int
	progress *Progress
}

// New builds a scheduler. workers <= 0 selects the CPU count; cache may be nil.
func New(exec Runner, cache ResultCache, workers int) *Scheduler {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Scheduler{
		exec:     exec,
		cache:    cache,
		workers:  workers,
		progress: NewProgress(),
	}
}

// Progress exposes the run's progress tracker.
func (s *Scheduler) Progress() *Progress { return s.progress }

// Run consumes segments as the segmenter discovers them and returns the
// complete result list ordered by segment index: exactly one entry per
// received segment, no gaps, no duplicates. After cancellation the remaining
// segments are drained as unmatched so coverage still holds and a partial
// report stays possible. A run that produced no segments at all is a fatal
// pre-flight error.
func (s *Scheduler) Run(ctx context.Context, segments <-chan model.Segment) ([]model.SegmentResult, error) {
	var (
		mu      sync.Mutex
		byIndex = make(map[int]model.SegmentResult)
		wg      sync.WaitGroup
	)

	for w := 0; w < s.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for seg := range segments {
				r := s.process(ctx, seg)
				mu.Lock()
				byIndex[r.SegmentIndex] = r
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(byIndex) == 0 {
		return nil, fmt.Errorf("no segments were produced from the input")
	}

	results := make([]model.SegmentResult, 0, len(byIndex))
	for _, r := range byIndex {
		results = append(results, r)
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].SegmentIndex < results[j].SegmentIndex
	})

	// Coverage guard: one result per dispatched index, densely numbered.
	for i, r := range results {
		if r.SegmentIndex != i {
			return nil, fmt.Errorf("internal error: segment results are not contiguous at index %d", i)
		}
	}
	return results, nil
}

// process resolves a single segment: cache lookup, payload read, recognition.
// Once the run is cancelled it degrades to marking segments unmatched, which
// keeps draining the segmenter.
func (s *Scheduler) process(ctx context.Context, seg model.Segment) model.SegmentResult {
	if ctx.Err() != nil {
		s.progress.Update(false)
		return model.SegmentResult{SegmentIndex: seg.Index}
	}

	audio, err := os.ReadFile(seg.Path)
	if err != nil {
		logger.Warn("failed to read segment audio, marking unmatched",
			logger.Int("segment", seg.Index),
			logger.String("path", seg.Path),
			logger.ErrorField(err))
		s.progress.Update(false)
		return model.SegmentResult{SegmentIndex: seg.Index}
	}

	key := audioKey(audio)
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, key); ok {
			r := *cached
			r.SegmentIndex = seg.Index
			r.FromCache = true
			s.logOutcome(seg, r)
			s.progress.Update(r.Matched)
			return r
		}
	}

	r := s.exec.Execute(ctx, seg, audio)
	// Only definitive outcomes are cached. A no-match produced by exhausted
	// retries would otherwise mask the recovered service on every rerun.
	if s.cache != nil && ctx.Err() == nil && r.Definitive {
		s.cache.Set(ctx, key, r)
	}
	s.logOutcome(seg, r)
	s.progress.Update(r.Matched)
	return r
}

func (s *Scheduler) logOutcome(seg model.Segment, r model.SegmentResult) {
	if r.Matched {
		logger.Info("segment matched",
			logger.Int("segment", seg.Index),
			logger.Int64("startMs", seg.StartMS),
			logger.String("track", r.RawLabel),
			logger.Float64("confidence", r.Confidence),
			logger.Bool("fromCache", r.FromCache))
	} else {
		logger.Info("no match for segment",
			logger.Int("segment", seg.Index),
			logger.Int64("startMs", seg.StartMS))
	}
}

// audioKey derives the cache key from the segment audio itself, so reruns of
// the same file hit the cache regardless of segment numbering.
func audioKey(audio []byte) string {
	sum := sha256.Sum256(audio)
	return "recog:" + hex.EncodeToString(sum[:])
}
