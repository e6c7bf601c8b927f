package model

// Track is an accepted cluster of same-identity segment matches, promoted to a
// reported result. Immutable after construction; tracklists are ordered by
// FirstSegment.
type Track struct {
	TrackID        string  `json:"trackId"`
	Title          string  `json:"title"`
	Artist         string  `json:"artist"`
	FirstSegment   int     `json:"firstSegment"`
	LastSegment    int     `json:"lastSegment"`
	StartMS        int64   `json:"startMs"`
	EndMS          int64   `json:"endMs"`
	Confidence     float64 `json:"confidence"`   // highest confidence seen among member segments
	TotalMatches   int     `json:"totalMatches"` // member count of the accepted cluster
	MemberSegments []int   `json:"memberSegments"`
}

// Gap is a contiguous span of segments not covered by any accepted track.
type Gap struct {
	StartMS    int64 `json:"startMs"`
	EndMS      int64 `json:"endMs"`
	DurationMS int64 `json:"durationMs"`
}

// Tracklist is the full outcome of one recognition run.
type Tracklist struct {
	Tracks        []Track `json:"tracks"`
	Gaps          []Gap   `json:"gaps"`
	TotalSegments int     `json:"totalSegments"`
	MatchedCount  int     `json:"matchedCount"` // segments with any service match, before thresholds
	SuccessRate   float64 `json:"successRate"`  // percentage of segments with a service match
}
