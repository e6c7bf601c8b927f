package scheduler

import (
	"fmt"
	"sync"
	"time"
)

// Progress counts processed and matched segments across the worker pool.
type Progress struct {
	mu         sync.Mutex
	processed  int
	successful int
	start      time.Time
}

func NewProgress() *Progress {
	return &Progress{start: time.Now()}
}

// Update records one processed segment.
func (p *Progress) Update(success bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.processed++
	if success {
		p.successful++
	}
}

// Stats returns the counters and derived rates.
func (p *Progress) Stats() (processed, successful int, elapsed time.Duration, successRate float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	elapsed = time.Since(p.start)
	if p.processed > 0 {
		successRate = float64(p.successful) / float64(p.processed) * 100
	}
	return p.processed, p.successful, elapsed, successRate
}

// Summary formats one end-of-run progress line.
func (p *Progress) Summary() string {
	processed, _, elapsed, rate := p.Stats()
	perSecond := 0.0
	if secs := elapsed.Seconds(); secs > 0 {
		perSecond = float64(processed) / secs
	}
	return fmt.Sprintf("Processed %d segments in %.1fs (%.1f/s), success rate %.1f%%",
		processed, elapsed.Seconds(), perSecond, rate)
}
