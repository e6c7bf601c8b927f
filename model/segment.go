package model

// Segment is one fixed-duration slice of the source audio, addressed by its
// sequential index. Index order equals time order.
type Segment struct {
	Index   int    `json:"index"`
	StartMS int64  `json:"startMs"`
	EndMS   int64  `json:"endMs"`
	Path    string `json:"-"` // Path to the segment audio file on disk, not exposed in reports
}

// DurationMS returns the segment length in milliseconds.
func (s Segment) DurationMS() int64 {
	return s.EndMS - s.StartMS
}

// SegmentResult is the outcome of exactly one recognition attempt chain for a
// segment. Every dispatched segment yields exactly one result; a failed or
// unrecognized segment is represented as Matched=false, never as an absence.
type SegmentResult struct {
	SegmentIndex int     `json:"segmentIndex"`
	Matched      bool    `json:"matched"`
	TrackID      string  `json:"trackId,omitempty"`
	Title        string  `json:"title,omitempty"`
	Artist       string  `json:"artist,omitempty"`
	Confidence   float64 `json:"confidence,omitempty"`
	RawLabel     string  `json:"rawLabel,omitempty"`
	FromCache    bool    `json:"-"`
	// Definitive means the service actually answered (a match or a clean
	// no-match). Exhausted retries and cancellations are not definitive and
	// must never be cached.
	Definitive bool `json:"-"`
}
