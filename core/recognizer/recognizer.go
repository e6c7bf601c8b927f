package recognizer

import (
	"context"
	"net/url"
)

// Match is one positive identification returned by a recognition service.
type Match struct {
	TrackID    string
	Title      string
	Artist     string
	Confidence float64 // normalized to [0,1]
	RawLabel   string  // service-specific label, kept for diagnostics
}

// Client is a single recognition service. Recognize returns (nil, nil) when
// the service answered but found no match; errors are classified with
// ErrTransient / ErrProxyAuth so the executor can react.
type Client interface {
	Recognize(ctx context.Context, audio []byte, proxy *url.URL) (*Match, error)
	Name() string
}
