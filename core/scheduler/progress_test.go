package scheduler

import (
	"strings"
	"sync"
	"testing"
)

func TestProgressCounters(t *testing.T) {
	p := NewProgress()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p.Update(i%4 != 0) // 75 successes
		}(i)
	}
	wg.Wait()

	processed, successful, _, rate := p.Stats()
	if processed != 100 || successful != 75 {
		t.Fatalf("counters = (%d, %d), want (100, 75)", processed, successful)
	}
	if rate != 75 {
		t.Fatalf("success rate = %v, want 75", rate)
	}
}

func TestProgressSummary(t *testing.T) {
	p := NewProgress()
	p.Update(true)
	p.Update(false)

	s := p.Summary()
	if !strings.Contains(s, "Processed 2 segments") || !strings.Contains(s, "success rate 50.0%") {
		t.Fatalf("unexpected summary: %s", s)
	}
}
