package tracklist

import (
	"fmt"
	"sort"

	"SetRadar/config"
	"SetRadar/logger"
	"SetRadar/model"
)

// cluster is a maximal run of same-identity matches satisfying the
// adjacency-gap rule. Intermediate only; converted to a Track or discarded
// within one aggregation pass.
type cluster struct {
	trackID string
	title   string
	artist  string
	members []model.SegmentResult // ordered by segment index
}

func (c *cluster) first() int { return c.members[0].SegmentIndex }
func (c *cluster) last() int  { return c.members[len(c.members)-1].SegmentIndex }

// maxConfidence is the representative confidence: the highest score observed
// among the cluster's members.
func (c *cluster) maxConfidence() float64 {
	best := 0.0
	for _, m := range c.members {
		if m.Confidence > best {
			best = m.Confidence
		}
	}
	return best
}

// overlaps reports whether two clusters claim intersecting segment-index ranges.
func (c *cluster) overlaps(other *cluster) bool {
	return c.first() <= other.last() && other.first() <= c.last()
}

// Aggregate reconciles the ordered per-segment results into the accepted
// tracklist. The pass is fully deterministic: every tie-break below is a total
// order, so identical inputs always produce identical output.
func Aggregate(results []model.SegmentResult, segments []model.Segment, opts config.MatchOptions) ([]model.Track, error) {
	// Group confident matches by track identity. Everything below the
	// confidence floor is treated as unmatched for aggregation but still
	// occupies its slot on the timeline.
	groups := make(map[string][]model.SegmentResult)
	var order []string
	for _, r := range results {
		if !r.Matched {
			continue
		}
		if r.Confidence < opts.MinConfidence {
			logger.Debug("match below confidence floor, treating as unmatched",
				logger.Int("segment", r.SegmentIndex),
				logger.String("trackId", r.TrackID),
				logger.Float64("confidence", r.Confidence))
			continue
		}
		if _, seen := groups[r.TrackID]; !seen {
			order = append(order, r.TrackID)
		}
		groups[r.TrackID] = append(groups[r.TrackID], r)
	}

	// Split each identity group into maximal clusters and drop the ones below
	// the cluster-size floor.
	var candidates []*cluster
	for _, id := range order {
		members := groups[id]
		sort.Slice(members, func(i, j int) bool {
			return members[i].SegmentIndex < members[j].SegmentIndex
		})
		for _, c := range splitClusters(id, members, opts.MaxGap) {
			if len(c.members) >= opts.MinCluster {
				candidates = append(candidates, c)
			}
		}
	}

	accepted := resolveOverlaps(candidates)

	var tracks []model.Track
	for _, c := range accepted {
		if len(c.members) < opts.MinMatches {
			continue
		}
		tracks = append(tracks, toTrack(c, segments))
	}

	sort.Slice(tracks, func(i, j int) bool {
		return tracks[i].FirstSegment < tracks[j].FirstSegment
	})

	if err := checkNonOverlap(tracks); err != nil {
		return nil, err
	}
	return tracks, nil
}

// splitClusters walks an index-ordered member list and starts a new cluster
// whenever the jump to the next member exceeds maxGap.
func splitClusters(id string, members []model.SegmentResult, maxGap int) []*cluster {
	var out []*cluster
	var cur *cluster
	for _, m := range members {
		if cur != nil && m.SegmentIndex-cur.last() <= maxGap {
			cur.members = append(cur.members, m)
			continue
		}
		cur = &cluster{trackID: id, title: m.Title, artist: m.Artist, members: []model.SegmentResult{m}}
		out = append(out, cur)
	}
	return out
}

// resolveOverlaps accepts clusters in priority order, discarding any candidate
// whose index range intersects an already-accepted winner. Priority: more
// members, then higher representative confidence, then earlier first segment.
// The loser is dropped entirely, never truncated.
func resolveOverlaps(candidates []*cluster) []*cluster {
	ranked := make([]*cluster, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if len(a.members) != len(b.members) {
			return len(a.members) > len(b.members)
		}
		if ac, bc := a.maxConfidence(), b.maxConfidence(); ac != bc {
			return ac > bc
		}
		return a.first() < b.first()
	})

	var accepted []*cluster
	for _, c := range ranked {
		clash := false
		for _, winner := range accepted {
			if c.overlaps(winner) {
				logger.Debug("cluster lost overlap resolution",
					logger.String("trackId", c.trackID),
					logger.Int("firstSegment", c.first()),
					logger.String("winner", winner.trackID))
				clash = true
				break
			}
		}
		if !clash {
			accepted = append(accepted, c)
		}
	}
	return accepted
}

func toTrack(c *cluster, segments []model.Segment) model.Track {
	indices := make([]int, len(c.members))
	for i, m := range c.members {
		indices[i] = m.SegmentIndex
	}
	return model.Track{
		TrackID:        c.trackID,
		Title:          c.title,
		Artist:         c.artist,
		FirstSegment:   c.first(),
		LastSegment:    c.last(),
		StartMS:        segments[c.first()].StartMS,
		EndMS:          segments[c.last()].EndMS,
		Confidence:     c.maxConfidence(),
		TotalMatches:   len(c.members),
		MemberSegments: indices,
	}
}

// checkNonOverlap guards the aggregator's output invariant: accepted tracks
// never share segment-index range. Reaching here with an overlap means the
// priority order above is broken, which is an internal defect.
func checkNonOverlap(tracks []model.Track) error {
	for i := 1; i < len(tracks); i++ {
		if tracks[i].FirstSegment <= tracks[i-1].LastSegment {
			return fmt.Errorf("internal error: accepted tracks %q and %q overlap in segment range",
				tracks[i-1].TrackID, tracks[i].TrackID)
		}
	}
	return nil
}
