package tracklist

import (
	"sort"

	"SetRadar/model"
)

// FindGaps scans the segment timeline for contiguous spans with no accepted
// track coverage and reports the ones at least minGapDuration seconds long.
// A track covers its whole first..last index range, including the small
// internal holes the adjacency-gap rule allowed, so gaps never overlap tracks.
func FindGaps(segments []model.Segment, tracks []model.Track, minGapDuration int) []model.Gap {
	if len(segments) == 0 {
		return nil
	}

	covered := make([]bool, len(segments))
	for _, t := range tracks {
		for i := t.FirstSegment; i <= t.LastSegment && i < len(covered); i++ {
			covered[i] = true
		}
	}

	minMS := int64(minGapDuration) * 1000

	var gaps []model.Gap
	runStart := -1
	flush := func(end int) {
		if runStart < 0 {
			return
		}
		g := model.Gap{
			StartMS: segments[runStart].StartMS,
			EndMS:   segments[end].EndMS,
		}
		g.DurationMS = g.EndMS - g.StartMS
		if g.DurationMS >= minMS {
			gaps = append(gaps, g)
		}
		runStart = -1
	}

	for i := range segments {
		if covered[i] {
			flush(i - 1)
			continue
		}
		if runStart < 0 {
			runStart = i
		}
	}
	flush(len(segments) - 1)

	sort.Slice(gaps, func(i, j int) bool { return gaps[i].StartMS < gaps[j].StartMS })
	return gaps
}
