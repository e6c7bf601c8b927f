package config

import "time"

// MatchOptions holds the thresholds that turn raw per-segment matches into an
// accepted tracklist.
type MatchOptions struct {
	MinMatches    int     // minimum member segments for a cluster to become a track
	MaxGap        int     // maximum index gap between adjacent members of one cluster
	MinCluster    int     // minimum members for a cluster to survive filtering
	MinConfidence float64 // minimum per-segment confidence to count a match
}

// DefaultMatchOptions mirrors the CLI defaults.
func DefaultMatchOptions() MatchOptions {
	return MatchOptions{
		MinMatches:    2,
		MaxGap:        3,
		MinCluster:    2,
		MinConfidence: 0.5,
	}
}

// ProcessOptions controls segmentation and scheduling for one run.
type ProcessOptions struct {
	SegmentLengthMS int // length of each audio segment in milliseconds
	Workers         int // worker pool width; 0 means runtime.NumCPU
	UseCache        bool
	UseACRCloud     bool
}

// DefaultProcessOptions mirrors the CLI defaults.
func DefaultProcessOptions() ProcessOptions {
	return ProcessOptions{
		SegmentLengthMS: 12000,
		Workers:         0,
		UseCache:        true,
		UseACRCloud:     true,
	}
}

// RetryOptions bounds the per-segment recognition retry loop.
type RetryOptions struct {
	MaxRetries     int
	RetryDelay     time.Duration // base delay, scaled by attempt number
	RequestTimeout time.Duration
}

// DefaultRetryOptions mirrors the recognition client defaults.
func DefaultRetryOptions() RetryOptions {
	return RetryOptions{
		MaxRetries:     5,
		RetryDelay:     time.Second,
		RequestTimeout: 30 * time.Second,
	}
}

// OutputOptions controls report rendering for one run.
type OutputOptions struct {
	JSONFile       string // JSON output path, empty to skip
	ShowGaps       bool
	MinGapDuration int // seconds
	Verbose        bool
	Archive        bool // upload the JSON report to MinIO after the run
}

// DefaultOutputOptions mirrors the CLI defaults.
func DefaultOutputOptions() OutputOptions {
	return OutputOptions{
		ShowGaps:       true,
		MinGapDuration: 30,
	}
}
