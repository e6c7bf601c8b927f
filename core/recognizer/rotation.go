package recognizer

import (
	"fmt"
	"net/url"
	"sync"
)

// Rotation is the shared round-robin cursor over the configured proxy pool.
// One instance is shared by all workers of a run; every acquisition is an
// atomic read-and-advance, so no two workers can race to the same advance.
// An empty pool means direct connections.
type Rotation struct {
	mu        sync.Mutex
	endpoints []*url.URL
	cursor    int
}

// NewRotation validates the configured proxy URLs and builds the pool.
// A malformed URL is a fatal pre-flight error for the whole run.
func NewRotation(proxies []string) (*Rotation, error) {
	r := &Rotation{}
	for _, p := range proxies {
		u, err := url.Parse(p)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("malformed proxy URL %q", p)
		}
		r.endpoints = append(r.endpoints, u)
	}
	return r, nil
}

// Next returns the current proxy endpoint and advances the cursor. Returns nil
// when no pool is configured.
func (r *Rotation) Next() *url.URL {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.endpoints) == 0 {
		return nil
	}
	u := r.endpoints[r.cursor]
	r.cursor = (r.cursor + 1) % len(r.endpoints)
	return u
}

// Size returns the number of configured endpoints.
func (r *Rotation) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.endpoints)
}
