package tracklist

import (
	"testing"

	"SetRadar/model"
)

func TestGapDurationBoundary(t *testing.T) {
	// Two uncovered segments of 15s each: exactly the 30s floor, reported.
	segs := []model.Segment{
		{Index: 0, StartMS: 0, EndMS: 15000},
		{Index: 1, StartMS: 15000, EndMS: 30000},
	}
	gaps := FindGaps(segs, nil, 30)
	if len(gaps) != 1 || gaps[0].DurationMS != 30000 {
		t.Fatalf("span exactly at the duration floor must be reported, got %+v", gaps)
	}

	// One millisecond shorter: discarded.
	segs[1].EndMS = 29999
	gaps = FindGaps(segs, nil, 30)
	if len(gaps) != 0 {
		t.Fatalf("span one millisecond below the floor must be discarded, got %+v", gaps)
	}
}

func TestGapsNeverOverlapTracks(t *testing.T) {
	segs := make([]model.Segment, 20)
	for i := range segs {
		segs[i] = model.Segment{Index: i, StartMS: int64(i) * 12000, EndMS: int64(i+1) * 12000}
	}
	// The track covers 5-10 including an internal hole at 7 allowed by the
	// adjacency rule; that hole must not surface as a gap.
	tracks := []model.Track{{
		TrackID:        "A",
		FirstSegment:   5,
		LastSegment:    10,
		StartMS:        segs[5].StartMS,
		EndMS:          segs[10].EndMS,
		MemberSegments: []int{5, 6, 8, 9, 10},
	}}

	gaps := FindGaps(segs, tracks, 30)
	for _, g := range gaps {
		if g.StartMS < segs[10].EndMS && g.EndMS > segs[5].StartMS {
			t.Fatalf("gap %+v overlaps the track span", g)
		}
	}
	// Both flanks are long enough to be reported.
	if len(gaps) != 2 {
		t.Fatalf("expected gaps on both sides of the track, got %+v", gaps)
	}
	if gaps[0].StartMS != 0 || gaps[0].EndMS != segs[4].EndMS {
		t.Fatalf("unexpected leading gap: %+v", gaps[0])
	}
	if gaps[1].StartMS != segs[11].StartMS || gaps[1].EndMS != segs[19].EndMS {
		t.Fatalf("unexpected trailing gap: %+v", gaps[1])
	}
}

func TestGapsDoNotOverlapEachOther(t *testing.T) {
	segs := make([]model.Segment, 30)
	for i := range segs {
		segs[i] = model.Segment{Index: i, StartMS: int64(i) * 12000, EndMS: int64(i+1) * 12000}
	}
	tracks := []model.Track{
		{TrackID: "A", FirstSegment: 5, LastSegment: 8},
		{TrackID: "B", FirstSegment: 15, LastSegment: 20},
	}

	gaps := FindGaps(segs, tracks, 30)
	for i := 1; i < len(gaps); i++ {
		if gaps[i].StartMS < gaps[i-1].EndMS {
			t.Fatalf("gaps overlap: %+v", gaps)
		}
	}
	if len(gaps) != 3 {
		t.Fatalf("expected three gaps (lead, middle, tail), got %+v", gaps)
	}
}

func TestNoSegmentsNoGaps(t *testing.T) {
	if gaps := FindGaps(nil, nil, 30); gaps != nil {
		t.Fatalf("expected no gaps for empty timeline, got %+v", gaps)
	}
}

func TestFullyCoveredTimelineHasNoGaps(t *testing.T) {
	segs := make([]model.Segment, 10)
	for i := range segs {
		segs[i] = model.Segment{Index: i, StartMS: int64(i) * 12000, EndMS: int64(i+1) * 12000}
	}
	tracks := []model.Track{{TrackID: "A", FirstSegment: 0, LastSegment: 9}}
	if gaps := FindGaps(segs, tracks, 30); len(gaps) != 0 {
		t.Fatalf("expected no gaps, got %+v", gaps)
	}
}
